package config

import (
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(fs afero.Fs) *Manager {
	cfg := Defaults("/app")
	m := NewManager(fs, &cfg, settingsPath)
	m.homeDir = func() (string, error) { return "/home/alice", nil }
	return m
}

func TestManager_SetDownloadDir(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{name: "absolute path", input: "/media/music", want: "/media/music"},
		{name: "tilde expanded", input: "~/Music", want: "/home/alice/Music"},
		{name: "bare tilde", input: "~", want: "/home/alice"},
		{name: "trimmed", input: "  /media/x  ", want: "/media/x"},
		{name: "empty", input: "   ", wantErr: ErrPathRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			m := newTestManager(fs)

			got, err := m.SetDownloadDir(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, "/app/Downloads", m.Config().DownloadDir, "directory must not change on error")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, m.Config().DownloadDir)

			isDir, err := afero.IsDir(fs, tt.want)
			require.NoError(t, err)
			assert.True(t, isDir)

			saved, res := Load(fs, settingsPath, Defaults("/app"))
			require.False(t, res.Failed())
			assert.Equal(t, tt.want, saved.DownloadDir)
		})
	}
}

func TestManager_SetDownloadDir_NotWritable(t *testing.T) {
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())
	m := newTestManager(fs)

	_, err := m.SetDownloadDir("/readonly")

	assert.ErrorIs(t, err, ErrDirNotWritable)
	assert.Equal(t, "/app/Downloads", m.Config().DownloadDir)
}

func TestManager_Toggles(t *testing.T) {
	fs := afero.NewMemMapFs()
	m := newTestManager(fs)

	assert.False(t, m.ToggleAutoRetry())
	assert.False(t, m.ToggleLogging())
	assert.True(t, m.ToggleQuietMode())
	require.False(t, m.LastSave().Failed())

	saved, _ := Load(fs, settingsPath, Defaults("/app"))
	assert.False(t, saved.AutoRetry)
	assert.False(t, saved.EnableLogging)
	assert.True(t, saved.QuietMode)

	assert.True(t, m.ToggleAutoRetry())
}

func TestManager_SaveFailureIsObserved(t *testing.T) {
	m := newTestManager(afero.NewReadOnlyFs(afero.NewMemMapFs()))

	m.ToggleQuietMode()

	assert.True(t, m.Config().QuietMode, "in-memory value changes even if persisting fails")
	assert.True(t, m.LastSave().Failed())
}

func TestManager_Set(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		wantErr error
		check   func(t *testing.T, cfg *Config)
	}{
		{key: "max_retries", value: "5", check: func(t *testing.T, cfg *Config) { assert.Equal(t, 5, cfg.MaxRetries) }},
		{key: "max_retries", value: "-1", wantErr: ErrInvalidValue},
		{key: "max_retries", value: "many", wantErr: ErrInvalidValue},
		{key: "max_downloads", value: "2", check: func(t *testing.T, cfg *Config) { assert.Equal(t, 2, cfg.MaxDownloads) }},
		{key: "max_downloads", value: "0", wantErr: ErrInvalidValue},
		{key: "QUIET_MODE", value: "true", check: func(t *testing.T, cfg *Config) { assert.True(t, cfg.QuietMode) }},
		{key: "auto_retry", value: "false", check: func(t *testing.T, cfg *Config) { assert.False(t, cfg.AutoRetry) }},
		{key: "enable_logging", value: "0", check: func(t *testing.T, cfg *Config) { assert.False(t, cfg.EnableLogging) }},
		{key: "enable_logging", value: "maybe", wantErr: ErrInvalidValue},
		{key: "download_dir", value: "/srv/media", check: func(t *testing.T, cfg *Config) { assert.Equal(t, "/srv/media", cfg.DownloadDir) }},
		{key: "color", value: "blue", wantErr: ErrUnknownSetting},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			m := newTestManager(afero.NewMemMapFs())
			err := m.Set(tt.key, tt.value)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Set() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			require.NoError(t, err)
			tt.check(t, m.Config())
		})
	}
}

func TestManager_Get(t *testing.T) {
	m := newTestManager(afero.NewMemMapFs())

	for _, key := range Keys {
		_, err := m.Get(key)
		assert.NoError(t, err, key)
	}

	v, err := m.Get("max_retries")
	require.NoError(t, err)
	assert.Equal(t, "3", v)

	_, err = m.Get("nope")
	assert.ErrorIs(t, err, ErrUnknownSetting)
}
