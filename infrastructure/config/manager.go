package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"tubefetch/domain/persistence"
	"tubefetch/infrastructure/filesystem"

	"github.com/spf13/afero"
)

// Errors for settings management
var (
	ErrUnknownSetting = errors.New("unknown setting")
	ErrInvalidValue   = errors.New("invalid value")
	ErrPathRequired   = errors.New("no path provided")
	ErrDirNotWritable = errors.New("cannot write to directory")
)

// Setting keys accepted by Set
const (
	KeyDownloadDir   = "download_dir"
	KeyMaxDownloads  = "max_downloads"
	KeyEnableLogging = "enable_logging"
	KeyAutoRetry     = "auto_retry"
	KeyMaxRetries    = "max_retries"
	KeyQuietMode     = "quiet_mode"
)

// Keys lists the settings keys in display order
var Keys = []string{KeyDownloadDir, KeyMaxDownloads, KeyEnableLogging, KeyAutoRetry, KeyMaxRetries, KeyQuietMode}

// Manager mutates the in-memory settings and saves them after each change
type Manager struct {
	fs         afero.Fs
	config     *Config
	configPath string
	homeDir    func() (string, error)
	lastSave   persistence.Result
}

// NewManager creates a settings manager
func NewManager(fs afero.Fs, cfg *Config, configPath string) *Manager {
	return &Manager{
		fs:         fs,
		config:     cfg,
		configPath: configPath,
		homeDir:    os.UserHomeDir,
	}
}

// Config returns the managed settings
func (m *Manager) Config() *Config {
	return m.config
}

// LastSave returns the result of the most recent save
func (m *Manager) LastSave() persistence.Result {
	return m.lastSave
}

// SetDownloadDir expands a leading ~, creates the directory, checks that it
// is writable and only then switches the download directory.
func (m *Manager) SetDownloadDir(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", ErrPathRequired
	}

	expanded, err := m.expandHome(path)
	if err != nil {
		return "", err
	}

	if err := m.fs.MkdirAll(expanded, 0755); err != nil {
		return "", fmt.Errorf("%w: %v", ErrDirNotWritable, err)
	}
	if err := filesystem.ProbeWritable(m.fs, expanded); err != nil {
		return "", fmt.Errorf("%w: %v", ErrDirNotWritable, err)
	}

	m.config.DownloadDir = expanded
	m.save()
	return expanded, nil
}

// ToggleAutoRetry flips auto-retry and returns the new value
func (m *Manager) ToggleAutoRetry() bool {
	m.config.AutoRetry = !m.config.AutoRetry
	m.save()
	return m.config.AutoRetry
}

// ToggleLogging flips diagnostic logging and returns the new value
func (m *Manager) ToggleLogging() bool {
	m.config.EnableLogging = !m.config.EnableLogging
	m.save()
	return m.config.EnableLogging
}

// ToggleQuietMode flips quiet mode and returns the new value
func (m *Manager) ToggleQuietMode() bool {
	m.config.QuietMode = !m.config.QuietMode
	m.save()
	return m.config.QuietMode
}

// SetMaxRetries sets the automatic retry bound
func (m *Manager) SetMaxRetries(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: max_retries must be 0 or more, got %d", ErrInvalidValue, n)
	}
	m.config.MaxRetries = n
	m.save()
	return nil
}

// Set assigns a setting by key from its string form
func (m *Manager) Set(key, value string) error {
	key = strings.ToLower(strings.TrimSpace(key))
	value = strings.TrimSpace(value)

	switch key {
	case KeyDownloadDir:
		_, err := m.SetDownloadDir(value)
		return err
	case KeyMaxRetries:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer", ErrInvalidValue, key)
		}
		return m.SetMaxRetries(n)
	case KeyMaxDownloads:
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return fmt.Errorf("%w: %s must be a positive integer", ErrInvalidValue, key)
		}
		m.config.MaxDownloads = n
	case KeyEnableLogging, KeyAutoRetry, KeyQuietMode:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false", ErrInvalidValue, key)
		}
		switch key {
		case KeyEnableLogging:
			m.config.EnableLogging = b
		case KeyAutoRetry:
			m.config.AutoRetry = b
		default:
			m.config.QuietMode = b
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSetting, key)
	}

	m.save()
	return nil
}

// Get returns the string form of a setting
func (m *Manager) Get(key string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case KeyDownloadDir:
		return m.config.DownloadDir, nil
	case KeyMaxDownloads:
		return strconv.Itoa(m.config.MaxDownloads), nil
	case KeyEnableLogging:
		return strconv.FormatBool(m.config.EnableLogging), nil
	case KeyAutoRetry:
		return strconv.FormatBool(m.config.AutoRetry), nil
	case KeyMaxRetries:
		return strconv.Itoa(m.config.MaxRetries), nil
	case KeyQuietMode:
		return strconv.FormatBool(m.config.QuietMode), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSetting, key)
}

func (m *Manager) save() {
	m.lastSave = Save(m.fs, m.configPath, *m.config)
}

func (m *Manager) expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, `~\`) {
		return path, nil
	}
	home, err := m.homeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, path[2:]), nil
}
