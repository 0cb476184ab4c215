package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"tubefetch/application/download"
	"tubefetch/domain/persistence"
	"tubefetch/infrastructure/config"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	cfgFile    string
	env        *config.Environment
	cfg        *config.Config
	loadResult persistence.Result
	appFS      afero.Fs = afero.NewOsFs()
)

// OutputWriter allows capturing output in tests
type OutputWriter interface {
	Write(p []byte) (n int, err error)
}

// DefaultOutput is the default output writer for all commands
var DefaultOutput OutputWriter = os.Stdout

var rootCmd = &cobra.Command{
	Use:   "tubefetch",
	Short: "Download YouTube videos and MP3 audio from the terminal",
	Long: `tubefetch is a terminal front-end for yt-dlp and ffmpeg.

Run it without arguments for the interactive menu:

  - Download Video (best quality, merged to MP4)
  - Download Audio MP3 (320kbps)
  - Manual Select Format
  - Settings and download history

Example:
  tubefetch
  tubefetch download https://youtu.be/abc123 --mode audio`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runMenu,
}

// Execute runs the root command. An interrupt stops the current download and
// exits cleanly.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if errors.Is(err, download.ErrInterrupted) || (err != nil && ctx.Err() != nil) {
		fmt.Fprintln(DefaultOutput, "\nDownloader stopped by user")
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "settings file (default is <install dir>/config/settings.yaml)")
}

func initConfig() {
	var err error
	env, err = config.LoadEnvironment()
	if err != nil {
		// fall back to locations next to the executable
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		env = &config.Environment{}
		env.InstallDir, _ = os.Getwd()
		env.ApplyDefaults()
	}
	if cfgFile != "" {
		env.ConfigFile = cfgFile
	}

	loaded, result := config.Load(appFS, env.ConfigFile, config.Defaults(env.InstallDir))
	cfg = &loaded
	loadResult = result
}

// GetConfig returns the loaded settings
func GetConfig() *config.Config {
	return cfg
}

// GetEnvironment returns the process locations
func GetEnvironment() *config.Environment {
	return env
}
