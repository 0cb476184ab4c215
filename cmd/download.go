package cmd

import (
	"context"
	"fmt"

	"tubefetch/application/download"
	"tubefetch/domain/media"
	"tubefetch/infrastructure/config"

	"github.com/spf13/cobra"
)

var (
	downloadMode   string
	downloadFormat string
	downloadYes    bool
)

var downloadCmd = &cobra.Command{
	Use:   "download URL",
	Short: "Download a single URL without the menu",
	Long: `Download one YouTube video, audio track or playlist.

Modes:
  video   best video and audio merged to MP4 (default)
  audio   best audio transcoded to MP3 at 320kbps
  format  a format ID chosen from the available formats

Without --yes the command asks before downloading a playlist and before
retrying a failed download.

Examples:
  tubefetch download https://youtu.be/abc123
  tubefetch download https://youtu.be/abc123 --mode audio
  tubefetch download https://youtu.be/abc123 --mode format --format 22
  tubefetch download "https://www.youtube.com/playlist?list=PL123" --yes`,
	Args: cobra.ExactArgs(1),
	RunE: runDownload,
}

func init() {
	rootCmd.AddCommand(downloadCmd)
	downloadCmd.Flags().StringVar(&downloadMode, "mode", "video", "Download mode: video, audio or format")
	downloadCmd.Flags().StringVar(&downloadFormat, "format", "", "Format ID for --mode format")
	downloadCmd.Flags().BoolVar(&downloadYes, "yes", false, "Confirm playlists without asking and never prompt")
}

func runDownload(cmd *cobra.Command, args []string) error {
	mode, err := media.ParseMode(downloadMode)
	if err != nil {
		return err
	}

	a, err := newApp(DefaultOutput)
	if err != nil {
		return err
	}
	defer a.Close()

	var surface download.Surface = &promptSurface{prompter: DefaultPrompter, out: DefaultOutput}
	if downloadYes || downloadFormat != "" {
		surface = &autoSurface{confirmCollection: downloadYes, format: downloadFormat}
	}

	return RunDownloadWithDependencies(cmd.Context(), a.downloader(surface, DefaultOutput), *a.cfg, args[0], mode, DefaultOutput)
}

// RunDownloadWithDependencies runs the download command with injected dependencies (for testing)
func RunDownloadWithDependencies(ctx context.Context, downloader Downloader, cfg config.Config, url string, mode media.Mode, out OutputWriter) error {
	if !IsYouTubeURL(url) {
		return fmt.Errorf("invalid YouTube URL %q: must contain youtube.com or youtu.be", url)
	}

	res, err := downloader.Run(ctx, url, mode, cfg)
	if err != nil {
		return err
	}

	switch {
	case res.Cancelled:
		fmt.Fprintln(out, "Download cancelled.")
		return nil
	case !res.Outcome.Success:
		return fmt.Errorf("download failed after %d attempt(s): %s", res.Attempts, res.Outcome.Reason)
	}
	return nil
}
