package cmd

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"tubefetch/application/download"
	"tubefetch/domain/history"
	"tubefetch/domain/media"
	"tubefetch/infrastructure/config"
	"tubefetch/infrastructure/ffmpeg"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunDownload_RejectsNonYouTubeURL(t *testing.T) {
	d := &fakeDownloader{}

	err := RunDownloadWithDependencies(context.Background(), d, config.Defaults("/app"), "https://example.com/v", media.ModeVideo, &bytes.Buffer{})

	assert.Error(t, err)
	assert.Empty(t, d.calls)
}

func TestRunDownload_FailureIsError(t *testing.T) {
	d := &fakeDownloader{result: &download.Result{Attempts: 4, Outcome: media.Failed("network error")}}

	err := RunDownloadWithDependencies(context.Background(), d, config.Defaults("/app"), "https://youtu.be/abc123", media.ModeAudio, &bytes.Buffer{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "4 attempt(s)")
	assert.Contains(t, err.Error(), "network error")
}

func TestRunDownload_Cancelled(t *testing.T) {
	var out bytes.Buffer
	d := &fakeDownloader{result: &download.Result{Cancelled: true}}

	err := RunDownloadWithDependencies(context.Background(), d, config.Defaults("/app"), "https://youtu.be/abc123", media.ModeVideo, &out)

	require.NoError(t, err)
	assert.Contains(t, out.String(), "Download cancelled.")
}

func TestAutoSurface(t *testing.T) {
	s := &autoSurface{confirmCollection: true, format: "22"}

	ok, err := s.ConfirmCollection(context.Background(), &media.Collection{})
	require.NoError(t, err)
	assert.True(t, ok)

	format, err := s.ChooseFormat(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "22", format)

	retry, err := s.ConfirmRetry(context.Background(), "x")
	require.NoError(t, err)
	assert.False(t, retry)
}

func TestPromptSurface_ChooseFormatListsFormats(t *testing.T) {
	var out bytes.Buffer
	p := &scriptedPrompter{inputs: []string{"137"}}
	s := &promptSurface{prompter: p, out: &out}

	format, err := s.ChooseFormat(context.Background(), []media.Format{{ID: "137", Ext: "mp4", Resolution: "1920x1080"}})

	require.NoError(t, err)
	assert.Equal(t, "137", format)
	assert.Contains(t, out.String(), "137")
	assert.Contains(t, out.String(), "1920x1080")
}

func TestRunHistory(t *testing.T) {
	var out bytes.Buffer
	h := &memHistory{entries: []history.Entry{{Timestamp: "2025-03-14 09:26:53", Mode: "Video", Status: "Success", Filename: "x.mp4"}}}

	require.NoError(t, RunHistoryWithDependencies(h, 10, &out))
	assert.Contains(t, out.String(), "x.mp4")

	assert.Error(t, RunHistoryWithDependencies(h, 0, &out))
}

func TestRunHistory_Empty(t *testing.T) {
	var out bytes.Buffer

	require.NoError(t, RunHistoryWithDependencies(&memHistory{}, 10, &out))
	assert.Contains(t, out.String(), "No download history yet.")
}

func TestRunHistoryClear(t *testing.T) {
	h := &memHistory{entries: []history.Entry{{URL: "u"}}}
	require.NoError(t, RunHistoryClearWithDependencies(h, &scriptedPrompter{}, true, &bytes.Buffer{}))
	assert.True(t, h.cleared)

	h = &memHistory{entries: []history.Entry{{URL: "u"}}}
	require.NoError(t, RunHistoryClearWithDependencies(h, &scriptedPrompter{confirms: []bool{false}}, false, &bytes.Buffer{}))
	assert.False(t, h.cleared)
}

func TestRunConfigShowAndSet(t *testing.T) {
	fs := afero.NewMemMapFs()
	cfg := config.Defaults("/app")
	path := "/app/config/settings.yaml"

	var out bytes.Buffer
	require.NoError(t, RunConfigSetWithDependencies(fs, &cfg, path, "max_retries", "5", &out))
	assert.Contains(t, out.String(), "Set max_retries = 5")

	out.Reset()
	require.NoError(t, RunConfigShowWithDependencies(fs, &cfg, path, &out))
	assert.Contains(t, out.String(), "max_retries")
	assert.Contains(t, out.String(), "5")
	assert.Contains(t, out.String(), "/app/Downloads")

	saved, _ := config.Load(fs, path, config.Defaults("/app"))
	assert.Equal(t, 5, saved.MaxRetries)

	err := RunConfigSetWithDependencies(fs, &cfg, path, "colour", "blue", &out)
	assert.ErrorIs(t, err, config.ErrUnknownSetting)
}

type stubVersion struct {
	version string
	err     error
}

func (s stubVersion) Version(ctx context.Context) (string, error) {
	return s.version, s.err
}

func TestRunSetup_WritesSettings(t *testing.T) {
	fs := afero.NewMemMapFs()
	var out bytes.Buffer
	deps := SetupDeps{
		FS:         fs,
		ConfigPath: "/app/config/settings.yaml",
		Defaults:   config.Defaults("/app"),
		YtDlp:      stubVersion{version: "2025.01.15"},
		FFmpeg: func(ctx context.Context) (string, string, error) {
			return "/usr/bin/ffmpeg", "ffmpeg version 6.1", nil
		},
		Prompter: &scriptedPrompter{
			inputs:   []string{"/media/yt", "2"},
			confirms: []bool{true, true},
		},
		Output: &out,
	}

	require.NoError(t, RunSetupWithDependencies(context.Background(), deps))

	saved, result := config.Load(fs, deps.ConfigPath, config.Defaults("/app"))
	require.False(t, result.Failed())
	assert.Equal(t, "/media/yt", saved.DownloadDir)
	assert.Equal(t, 2, saved.MaxRetries)
	assert.True(t, saved.QuietMode)
	assert.True(t, saved.AutoRetry)
	assert.Contains(t, out.String(), "yt-dlp: 2025.01.15")
	assert.Contains(t, out.String(), "ffmpeg version 6.1")
}

func TestRunSetup_MissingToolsReported(t *testing.T) {
	fs := afero.NewMemMapFs()
	var out bytes.Buffer
	deps := SetupDeps{
		FS:         fs,
		ConfigPath: "/app/config/settings.yaml",
		Defaults:   config.Defaults("/app"),
		YtDlp:      stubVersion{err: errors.New("executable file not found")},
		FFmpeg: func(ctx context.Context) (string, string, error) {
			return "", "", ffmpeg.ErrNotFound
		},
		Prompter: &scriptedPrompter{
			inputs:   []string{""},
			confirms: []bool{false, false},
		},
		Output: &out,
	}

	err := RunSetupWithDependencies(context.Background(), deps)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "yt-dlp is required")
	assert.Contains(t, out.String(), "ffmpeg: not found")

	saved, _ := config.Load(fs, deps.ConfigPath, config.Defaults("/app"))
	assert.Equal(t, "/app/Downloads", saved.DownloadDir)
	assert.False(t, saved.AutoRetry)
}

func TestRunSetup_KeepsExistingWhenDeclined(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/app/config/settings.yaml", []byte("max_retries: 9\n"), 0644))
	var out bytes.Buffer

	err := RunSetupWithDependencies(context.Background(), SetupDeps{
		FS:         fs,
		ConfigPath: "/app/config/settings.yaml",
		Defaults:   config.Defaults("/app"),
		Prompter:   &scriptedPrompter{confirms: []bool{false}},
		Output:     &out,
	})

	require.NoError(t, err)
	assert.Contains(t, out.String(), "Setup cancelled.")
	data, _ := afero.ReadFile(fs, "/app/config/settings.yaml")
	assert.Equal(t, "max_retries: 9\n", string(data))
}
