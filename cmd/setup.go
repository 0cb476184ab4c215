package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"tubefetch/infrastructure/config"
	"tubefetch/infrastructure/ffmpeg"
	"tubefetch/infrastructure/ytdlp"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// VersionChecker reports the version of an external tool
type VersionChecker interface {
	Version(ctx context.Context) (string, error)
}

// FFmpegProbe finds ffmpeg and returns its path and version line
type FFmpegProbe func(ctx context.Context) (path, version string, err error)

// SetupDeps holds the dependencies of the setup command
type SetupDeps struct {
	FS         afero.Fs
	ConfigPath string
	Defaults   config.Config
	YtDlp      VersionChecker
	FFmpeg     FFmpegProbe
	Prompter   Prompter
	Output     OutputWriter
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Check dependencies and create the settings file",
	Long: `Checks that yt-dlp and ffmpeg are available, creates the download folder
and writes the settings file.

ffmpeg is looked up in the bundled FFmpeg/<os>/ folder next to the program
first, then on PATH. Without ffmpeg, MP3 downloads and merging video and audio
streams do not work.`,
	Args: cobra.NoArgs,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	e := GetEnvironment()
	if e == nil {
		return fmt.Errorf("configuration not loaded")
	}

	return RunSetupWithDependencies(cmd.Context(), SetupDeps{
		FS:         appFS,
		ConfigPath: e.ConfigFile,
		Defaults:   config.Defaults(e.InstallDir),
		YtDlp:      ytdlp.NewClient(ytdlp.WithBinary(e.YtDlpPath)),
		FFmpeg: func(ctx context.Context) (string, string, error) {
			loc, err := ffmpeg.NewLocator(appFS, e.InstallDir).Locate(e.FFmpegPath)
			if err != nil {
				return "", "", err
			}
			version, err := ffmpeg.NewVerifier(ffmpeg.WithFFmpegPath(loc.Path)).Version(ctx)
			return loc.Path, version, err
		},
		Prompter: DefaultPrompter,
		Output:   DefaultOutput,
	})
}

// RunSetupWithDependencies runs the setup with injected dependencies (for testing)
func RunSetupWithDependencies(ctx context.Context, deps SetupDeps) error {
	out := deps.Output

	if exists, _ := afero.Exists(deps.FS, deps.ConfigPath); exists {
		overwrite, err := deps.Prompter.Confirm("Settings file already exists. Overwrite?", false)
		if err != nil {
			return err
		}
		if !overwrite {
			fmt.Fprintln(out, "Setup cancelled.")
			return nil
		}
	}

	fmt.Fprintln(out, "Welcome to tubefetch setup!")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Dependency check:")

	var missing error
	if version, err := deps.YtDlp.Version(ctx); err != nil {
		fmt.Fprintln(out, "  yt-dlp: missing (install with: pip install -U yt-dlp)")
		missing = fmt.Errorf("yt-dlp is required: %w", err)
	} else {
		fmt.Fprintf(out, "  yt-dlp: %s\n", version)
	}

	path, version, err := deps.FFmpeg(ctx)
	switch {
	case errors.Is(err, ffmpeg.ErrNotFound):
		fmt.Fprintln(out, "  ffmpeg: not found (MP3 downloads and stream merging will not work)")
	case err != nil:
		fmt.Fprintf(out, "  ffmpeg: found at %s but not working: %v\n", path, err)
	default:
		fmt.Fprintf(out, "  ffmpeg: %s (%s)\n", version, path)
	}
	fmt.Fprintln(out)

	cfg := deps.Defaults
	mgr := config.NewManager(deps.FS, &cfg, deps.ConfigPath)

	if err := promptDownloadDir(deps.Prompter, mgr, out); err != nil {
		return err
	}
	if err := promptRetries(deps.Prompter, mgr); err != nil {
		return err
	}

	quiet, err := deps.Prompter.Confirm("Use quiet mode (no live progress line)?", cfg.QuietMode)
	if err != nil {
		return err
	}
	if quiet != cfg.QuietMode {
		mgr.ToggleQuietMode()
	}

	// persists the settings even if nothing was changed above
	if err := mgr.Set(config.KeyMaxDownloads, strconv.Itoa(cfg.MaxDownloads)); err != nil {
		return err
	}
	if r := mgr.LastSave(); r.Failed() {
		return fmt.Errorf("failed to save settings: %w", r.Err)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Settings saved to %s\n", deps.ConfigPath)
	fmt.Fprintf(out, "Downloads will be saved to %s\n", cfg.DownloadDir)
	return missing
}

const maxFolderPrompts = 3

func promptDownloadDir(prompter Prompter, mgr *config.Manager, out OutputWriter) error {
	for attempt := 1; ; attempt++ {
		dir, err := prompter.Input("Where should downloads be saved?", mgr.Config().DownloadDir)
		if err != nil {
			return err
		}
		if strings.TrimSpace(dir) == "" {
			dir = mgr.Config().DownloadDir
		}
		if _, err := mgr.SetDownloadDir(dir); err != nil {
			if attempt == maxFolderPrompts {
				return err
			}
			fmt.Fprintf(out, "Cannot use that folder: %v\n", err)
			continue
		}
		return nil
	}
}

func promptRetries(prompter Prompter, mgr *config.Manager) error {
	retry, err := prompter.Confirm("Retry failed downloads automatically?", mgr.Config().AutoRetry)
	if err != nil {
		return err
	}
	if retry != mgr.Config().AutoRetry {
		mgr.ToggleAutoRetry()
	}
	if !retry {
		return nil
	}

	value, err := prompter.Input("How many automatic retries?", strconv.Itoa(mgr.Config().MaxRetries))
	if err != nil {
		return err
	}
	if err := mgr.Set(config.KeyMaxRetries, value); err != nil {
		return err
	}
	return nil
}
