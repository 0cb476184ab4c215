package cmd

import (
	"fmt"
	"io"

	"tubefetch/application/download"
	"tubefetch/application/probe"
	"tubefetch/infrastructure/config"
	"tubefetch/infrastructure/ffmpeg"
	infrahistory "tubefetch/infrastructure/history"
	"tubefetch/infrastructure/logging"
	"tubefetch/infrastructure/ytdlp"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// app bundles the production dependencies shared by the commands
type app struct {
	env        *config.Environment
	cfg        *config.Config
	fs         afero.Fs
	manager    *config.Manager
	history    *infrahistory.Store
	extractor  *ytdlp.Client
	transcoder string
	logger     zerolog.Logger
	closer     io.Closer
}

// newApp wires the production dependencies from the loaded settings
func newApp(out OutputWriter) (*app, error) {
	if cfg == nil || env == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}

	logger, closer, err := logging.New(appFS, logging.Options{
		Enabled: cfg.EnableLogging,
		Debug:   env.Debug,
		Path:    env.LogFile,
	})
	if err != nil {
		fmt.Fprintf(out, "Warning: diagnostic log disabled: %v\n", err)
	}
	if loadResult.Failed() {
		logger.Warn().Err(loadResult.Err).Str("path", loadResult.Path).Msg("settings file ignored, using defaults")
	}

	a := &app{
		env:       env,
		cfg:       cfg,
		fs:        appFS,
		manager:   config.NewManager(appFS, cfg, env.ConfigFile),
		history:   infrahistory.NewStore(appFS, env.HistoryFile),
		extractor: ytdlp.NewClient(ytdlp.WithBinary(env.YtDlpPath)),
		logger:    logger,
		closer:    closer,
	}

	loc, err := ffmpeg.NewLocator(appFS, env.InstallDir).Locate(env.FFmpegPath)
	if err != nil {
		logger.Warn().Err(err).Msg("ffmpeg not located")
	} else {
		a.transcoder = loc.Path
		logger.Debug().Str("path", loc.Path).Bool("bundled", loc.Bundled).Msg("ffmpeg located")
	}

	return a, nil
}

// downloader builds the download service asking the user through surface
func (a *app) downloader(surface download.Surface, out OutputWriter) *download.Service {
	return download.NewService(
		a.extractor,
		probe.NewService(a.extractor),
		a.history,
		surface,
		a.fs,
		out,
		download.WithLogger(a.logger),
		download.WithTranscoderPath(a.transcoder),
	)
}

func (a *app) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}
