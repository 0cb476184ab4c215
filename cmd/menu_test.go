package cmd

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"tubefetch/application/download"
	"tubefetch/domain/history"
	"tubefetch/domain/media"
	"tubefetch/domain/persistence"
	"tubefetch/infrastructure/config"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedPrompter answers prompts from queues
type scriptedPrompter struct {
	inputs   []string
	confirms []bool
	selects  []int
	messages []string
}

func (p *scriptedPrompter) Input(message string, defaultValue string) (string, error) {
	p.messages = append(p.messages, message)
	if len(p.inputs) == 0 {
		return "", fmt.Errorf("unexpected input prompt: %s", message)
	}
	v := p.inputs[0]
	p.inputs = p.inputs[1:]
	return v, nil
}

func (p *scriptedPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	p.messages = append(p.messages, message)
	if len(p.confirms) == 0 {
		return false, fmt.Errorf("unexpected confirm prompt: %s", message)
	}
	v := p.confirms[0]
	p.confirms = p.confirms[1:]
	return v, nil
}

func (p *scriptedPrompter) Select(message string, options []string) (int, error) {
	p.messages = append(p.messages, message)
	if len(p.selects) == 0 {
		return 0, fmt.Errorf("unexpected select prompt: %s", message)
	}
	v := p.selects[0]
	p.selects = p.selects[1:]
	return v, nil
}

type runCall struct {
	url  string
	mode media.Mode
	cfg  config.Config
}

type fakeDownloader struct {
	calls  []runCall
	result *download.Result
	err    error
}

func (d *fakeDownloader) Run(ctx context.Context, url string, mode media.Mode, cfg config.Config) (*download.Result, error) {
	d.calls = append(d.calls, runCall{url: url, mode: mode, cfg: cfg})
	if d.result == nil {
		return &download.Result{State: download.StateDone, Outcome: media.Succeeded("/d/x.mp4")}, d.err
	}
	return d.result, d.err
}

type memHistory struct {
	entries []history.Entry
	cleared bool
}

func (h *memHistory) List(limit int) []history.Entry {
	if limit < len(h.entries) {
		return h.entries[:limit]
	}
	return h.entries
}

func (h *memHistory) Clear() persistence.Result {
	h.cleared = true
	h.entries = nil
	return persistence.OK("clear", "history.yaml")
}

func newTestMenu(p *scriptedPrompter, d *fakeDownloader, h *memHistory) (*Menu, *config.Config, afero.Fs, *bytes.Buffer) {
	fs := afero.NewMemMapFs()
	cfg := config.Defaults("/app")
	out := &bytes.Buffer{}
	mgr := config.NewManager(fs, &cfg, "/app/config/settings.yaml")
	return NewMenu(p, out, d, mgr, h), &cfg, fs, out
}

func TestMenu_DownloadAudioThenExit(t *testing.T) {
	p := &scriptedPrompter{
		selects:  []int{1, 5},
		inputs:   []string{"https://youtu.be/abc123"},
		confirms: []bool{false},
	}
	d := &fakeDownloader{}
	menu, _, _, out := newTestMenu(p, d, &memHistory{})

	require.NoError(t, menu.Run(context.Background()))

	require.Len(t, d.calls, 1)
	assert.Equal(t, "https://youtu.be/abc123", d.calls[0].url)
	assert.Equal(t, media.ModeAudio, d.calls[0].mode)
	assert.Equal(t, "/app/Downloads", d.calls[0].cfg.DownloadDir)
	assert.Contains(t, out.String(), "Download location: /app/Downloads")
	assert.Contains(t, out.String(), "Goodbye!")
}

func TestMenu_URLValidation(t *testing.T) {
	p := &scriptedPrompter{
		selects: []int{0, 5},
		inputs:  []string{"", "https://vimeo.com/1", "0"},
	}
	d := &fakeDownloader{}
	menu, _, _, out := newTestMenu(p, d, &memHistory{})

	require.NoError(t, menu.Run(context.Background()))

	assert.Empty(t, d.calls)
	assert.Contains(t, out.String(), "Please enter a URL.")
	assert.Contains(t, out.String(), "Invalid YouTube URL")
}

func TestMenu_DownloadAnother(t *testing.T) {
	p := &scriptedPrompter{
		selects:  []int{0, 5},
		inputs:   []string{"https://www.youtube.com/watch?v=a", "https://www.youtube.com/watch?v=b"},
		confirms: []bool{true, false},
	}
	d := &fakeDownloader{result: &download.Result{Outcome: media.Failed("network error")}}
	menu, _, _, out := newTestMenu(p, d, &memHistory{})

	require.NoError(t, menu.Run(context.Background()))

	assert.Len(t, d.calls, 2)
	assert.Contains(t, out.String(), "Download failed: network error")
}

func TestMenu_InterruptStopsMenu(t *testing.T) {
	p := &scriptedPrompter{
		selects: []int{0},
		inputs:  []string{"https://youtu.be/abc123"},
	}
	d := &fakeDownloader{result: &download.Result{}, err: download.ErrInterrupted}
	menu, _, _, _ := newTestMenu(p, d, &memHistory{})

	err := menu.Run(context.Background())

	assert.ErrorIs(t, err, download.ErrInterrupted)
}

func TestMenu_SettingsToggleAndRetries(t *testing.T) {
	p := &scriptedPrompter{
		selects: []int{3, 1, 2, 4, 6, 5},
		inputs:  []string{"7"},
	}
	menu, cfg, fs, out := newTestMenu(p, &fakeDownloader{}, &memHistory{})

	require.NoError(t, menu.Run(context.Background()))

	assert.False(t, cfg.AutoRetry)
	assert.Equal(t, 7, cfg.MaxRetries)
	assert.True(t, cfg.QuietMode)
	assert.Contains(t, out.String(), "Auto-retry disabled")
	assert.Contains(t, out.String(), "Max retries set to 7")

	saved, result := config.Load(fs, "/app/config/settings.yaml", config.Defaults("/app"))
	require.False(t, result.Failed())
	assert.False(t, saved.AutoRetry)
	assert.Equal(t, 7, saved.MaxRetries)
	assert.True(t, saved.QuietMode)
}

func TestMenu_SettingsRejectsBadRetries(t *testing.T) {
	p := &scriptedPrompter{
		selects: []int{3, 2, 6, 5},
		inputs:  []string{"eleven"},
	}
	menu, cfg, _, out := newTestMenu(p, &fakeDownloader{}, &memHistory{})

	require.NoError(t, menu.Run(context.Background()))

	assert.Equal(t, config.DefaultMaxRetries, cfg.MaxRetries)
	assert.Contains(t, out.String(), "between 0 and 10")
}

func TestMenu_ChangeFolder(t *testing.T) {
	p := &scriptedPrompter{
		selects: []int{3, 0, 6, 5},
		inputs:  []string{"/media/music"},
	}
	menu, cfg, fs, out := newTestMenu(p, &fakeDownloader{}, &memHistory{})

	require.NoError(t, menu.Run(context.Background()))

	assert.Equal(t, "/media/music", cfg.DownloadDir)
	exists, _ := afero.DirExists(fs, "/media/music")
	assert.True(t, exists)
	assert.Contains(t, out.String(), "Download folder changed to: /media/music")
}

func TestMenu_ClearHistoryConfirmed(t *testing.T) {
	h := &memHistory{entries: []history.Entry{{URL: "u"}}}
	p := &scriptedPrompter{
		selects:  []int{3, 5, 6, 5},
		confirms: []bool{true},
	}
	menu, _, _, out := newTestMenu(p, &fakeDownloader{}, h)

	require.NoError(t, menu.Run(context.Background()))

	assert.True(t, h.cleared)
	assert.Contains(t, out.String(), "Download history cleared.")
}

func TestMenu_ClearHistoryDeclined(t *testing.T) {
	h := &memHistory{entries: []history.Entry{{URL: "u"}}}
	p := &scriptedPrompter{
		selects:  []int{3, 5, 6, 5},
		confirms: []bool{false},
	}
	menu, _, _, _ := newTestMenu(p, &fakeDownloader{}, h)

	require.NoError(t, menu.Run(context.Background()))

	assert.False(t, h.cleared)
}

func TestMenu_HistoryView(t *testing.T) {
	h := &memHistory{entries: []history.Entry{
		{Timestamp: "2025-03-14 09:26:53", Mode: "MP3", Status: "Success", Filename: "A very long file name that goes on and on.mp3"},
		{Timestamp: "2025-03-14 09:20:00", Mode: "Video", Status: "Failed: network error", Filename: "Unknown"},
	}}
	p := &scriptedPrompter{selects: []int{4, 5}}
	menu, _, _, out := newTestMenu(p, &fakeDownloader{}, h)

	require.NoError(t, menu.Run(context.Background()))

	s := out.String()
	assert.Contains(t, s, "DATE/TIME")
	assert.Contains(t, s, "A very long file name that goes ...")
	assert.NotContains(t, s, "on and on.mp3")
	assert.Contains(t, s, "Failed: network error")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short.mp3", truncate("short.mp3", 35))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Len(t, []rune(truncate("ééééééééééééééééééééééééééééééééééééééééé", 35)), 35)
}

func TestIsYouTubeURL(t *testing.T) {
	assert.True(t, IsYouTubeURL("https://www.youtube.com/watch?v=abc"))
	assert.True(t, IsYouTubeURL("https://youtu.be/abc"))
	assert.True(t, IsYouTubeURL("https://music.youtube.com/playlist?list=PL1"))
	assert.False(t, IsYouTubeURL("https://vimeo.com/123"))
}
