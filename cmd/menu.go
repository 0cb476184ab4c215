package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"tubefetch/application/download"
	"tubefetch/domain/history"
	"tubefetch/domain/media"
	"tubefetch/domain/persistence"
	"tubefetch/infrastructure/config"

	"github.com/spf13/cobra"
)

const (
	// HistoryViewLimit is the number of entries shown by the history view
	HistoryViewLimit = 10
	filenameWidth    = 35
)

// Downloader runs one download
type Downloader interface {
	Run(ctx context.Context, url string, mode media.Mode, cfg config.Config) (*download.Result, error)
}

// HistoryStore reads and clears the download history
type HistoryStore interface {
	List(limit int) []history.Entry
	Clear() persistence.Result
}

var mainMenuOptions = []string{
	"1. Download Video (best quality)",
	"2. Download Audio MP3 (320kbps)",
	"3. Manual Select Format",
	"4. Settings",
	"5. Download History",
	"6. Exit",
}

var menuModes = []media.Mode{media.ModeVideo, media.ModeAudio, media.ModeManualFormat}

// Menu is the interactive main loop
type Menu struct {
	prompter   Prompter
	out        OutputWriter
	downloader Downloader
	manager    *config.Manager
	history    HistoryStore
}

// NewMenu creates the interactive menu
func NewMenu(prompter Prompter, out OutputWriter, downloader Downloader, manager *config.Manager, historyStore HistoryStore) *Menu {
	return &Menu{
		prompter:   prompter,
		out:        out,
		downloader: downloader,
		manager:    manager,
		history:    historyStore,
	}
}

func runMenu(cmd *cobra.Command, args []string) error {
	a, err := newApp(DefaultOutput)
	if err != nil {
		return err
	}
	defer a.Close()

	surface := &promptSurface{prompter: DefaultPrompter, out: DefaultOutput}
	menu := NewMenu(DefaultPrompter, DefaultOutput, a.downloader(surface, DefaultOutput), a.manager, a.history)
	return menu.Run(cmd.Context())
}

// Run shows the main menu until the user exits. It returns
// download.ErrInterrupted when the user stops the program.
func (m *Menu) Run(ctx context.Context) error {
	m.printBanner()

	for {
		if ctx.Err() != nil {
			return download.ErrInterrupted
		}

		choice, err := m.prompter.Select("Choose an option:", mainMenuOptions)
		if err != nil {
			return err
		}

		switch {
		case choice < len(menuModes):
			if err := m.downloadLoop(ctx, menuModes[choice]); err != nil {
				return err
			}
		case choice == 3:
			if err := m.settingsLoop(); err != nil {
				return err
			}
		case choice == 4:
			m.showHistory()
		default:
			fmt.Fprintln(m.out, "\nGoodbye!")
			fmt.Fprintf(m.out, "Your files are in: %s\n", m.manager.Config().DownloadDir)
			return nil
		}
	}
}

func (m *Menu) printBanner() {
	fmt.Fprintln(m.out, strings.Repeat("=", 55))
	fmt.Fprintln(m.out, "                 tubefetch")
	fmt.Fprintln(m.out, "        YouTube video and MP3 downloader")
	fmt.Fprintln(m.out, strings.Repeat("=", 55))
	fmt.Fprintf(m.out, "Download location: %s\n\n", m.manager.Config().DownloadDir)
}

// downloadLoop asks for URLs in mode until the user goes back
func (m *Menu) downloadLoop(ctx context.Context, mode media.Mode) error {
	for {
		url, err := m.prompter.Input(fmt.Sprintf("Enter YouTube URL for %s (0 to go back):", mode.Label()), "")
		if err != nil {
			return err
		}
		url = strings.TrimSpace(url)

		switch {
		case url == "0":
			return nil
		case url == "":
			fmt.Fprintln(m.out, "Please enter a URL.")
			continue
		case !IsYouTubeURL(url):
			fmt.Fprintln(m.out, "Invalid YouTube URL. Links must contain youtube.com or youtu.be.")
			continue
		}

		res, err := m.downloader.Run(ctx, url, mode, *m.manager.Config())
		if err != nil {
			return err
		}
		m.printResult(res)

		again, err := m.prompter.Confirm("Download another file?", true)
		if err != nil {
			return err
		}
		if !again {
			return nil
		}
	}
}

func (m *Menu) printResult(res *download.Result) {
	switch {
	case res == nil || res.Cancelled:
	case res.Outcome.Success:
		fmt.Fprintln(m.out, "Download finished.")
	default:
		fmt.Fprintf(m.out, "Download failed: %s\n", res.Outcome.Reason)
	}
}

// IsYouTubeURL reports whether url points at YouTube
func IsYouTubeURL(url string) bool {
	return strings.Contains(url, "youtube.com") || strings.Contains(url, "youtu.be")
}

func (m *Menu) settingsOptions() []string {
	c := m.manager.Config()
	return []string{
		"1. Change download folder",
		fmt.Sprintf("2. Toggle auto-retry (currently: %s)", onOff(c.AutoRetry)),
		fmt.Sprintf("3. Set max retries (currently: %d)", c.MaxRetries),
		fmt.Sprintf("4. Toggle logging (currently: %s)", onOff(c.EnableLogging)),
		fmt.Sprintf("5. Toggle quiet mode (currently: %s)", onOff(c.QuietMode)),
		"6. Clear download history",
		"7. Back to main menu",
	}
}

// settingsLoop shows the settings menu until the user goes back
func (m *Menu) settingsLoop() error {
	for {
		choice, err := m.prompter.Select("Settings:", m.settingsOptions())
		if err != nil {
			return err
		}

		switch choice {
		case 0:
			if err := m.changeFolder(); err != nil {
				return err
			}
		case 1:
			fmt.Fprintf(m.out, "Auto-retry %s\n", enabledDisabled(m.manager.ToggleAutoRetry()))
		case 2:
			if err := m.changeMaxRetries(); err != nil {
				return err
			}
		case 3:
			fmt.Fprintf(m.out, "Logging %s (takes effect on next start)\n", enabledDisabled(m.manager.ToggleLogging()))
		case 4:
			fmt.Fprintf(m.out, "Quiet mode %s\n", enabledDisabled(m.manager.ToggleQuietMode()))
		case 5:
			if err := m.clearHistory(); err != nil {
				return err
			}
		default:
			return nil
		}
		m.reportSave()
	}
}

func (m *Menu) changeFolder() error {
	fmt.Fprintf(m.out, "\nCurrent download folder: %s\n", m.manager.Config().DownloadDir)
	path, err := m.prompter.Input("Enter new download folder path:", "")
	if err != nil {
		return err
	}

	dir, err := m.manager.SetDownloadDir(path)
	switch {
	case errors.Is(err, config.ErrPathRequired):
		fmt.Fprintln(m.out, "No path entered. Folder unchanged.")
	case err != nil:
		fmt.Fprintf(m.out, "Cannot use that folder: %v\n", err)
	default:
		fmt.Fprintf(m.out, "Download folder changed to: %s\n", dir)
	}
	return nil
}

func (m *Menu) changeMaxRetries() error {
	value, err := m.prompter.Input("Enter max retries (0-10):", strconv.Itoa(m.manager.Config().MaxRetries))
	if err != nil {
		return err
	}
	n, convErr := strconv.Atoi(strings.TrimSpace(value))
	if convErr != nil || n < 0 || n > 10 {
		fmt.Fprintln(m.out, "Please enter a number between 0 and 10.")
		return nil
	}
	if err := m.manager.SetMaxRetries(n); err != nil {
		fmt.Fprintln(m.out, err)
		return nil
	}
	fmt.Fprintf(m.out, "Max retries set to %d\n", n)
	return nil
}

func (m *Menu) clearHistory() error {
	ok, err := m.prompter.Confirm("Clear all download history?", false)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(m.out, "History kept.")
		return nil
	}
	if r := m.history.Clear(); r.Failed() {
		fmt.Fprintf(m.out, "Could not clear history: %v\n", r.Err)
		return nil
	}
	fmt.Fprintln(m.out, "Download history cleared.")
	return nil
}

func (m *Menu) reportSave() {
	if r := m.manager.LastSave(); r.Failed() {
		fmt.Fprintf(m.out, "Warning: settings not saved: %v\n", r.Err)
	}
}

func (m *Menu) showHistory() {
	printHistory(m.out, m.history.List(HistoryViewLimit))
}

// printHistory renders entries as a table, newest first
func printHistory(out OutputWriter, entries []history.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(out, "\nNo download history yet.")
		return
	}

	fmt.Fprintln(out)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE/TIME\tTYPE\tSTATUS\tFILENAME")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Timestamp, e.Mode, e.Status, truncate(e.Filename, filenameWidth))
	}
	w.Flush()
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}

func onOff(b bool) string {
	if b {
		return "ON"
	}
	return "OFF"
}

func enabledDisabled(b bool) string {
	if b {
		return "enabled"
	}
	return "disabled"
}
