package config

import (
	"fmt"
	"path/filepath"

	"tubefetch/domain/persistence"
	"tubefetch/infrastructure/filesystem"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Default values for settings missing from the settings file
const (
	DefaultMaxDownloads  = 5
	DefaultEnableLogging = true
	DefaultAutoRetry     = true
	DefaultMaxRetries    = 3
	DefaultQuietMode     = false
	DownloadsDirName     = "Downloads"
)

// Config represents the persisted user settings
type Config struct {
	DownloadDir   string `yaml:"download_dir"`
	MaxDownloads  int    `yaml:"max_downloads"`
	EnableLogging bool   `yaml:"enable_logging"`
	AutoRetry     bool   `yaml:"auto_retry"`
	MaxRetries    int    `yaml:"max_retries"`
	QuietMode     bool   `yaml:"quiet_mode"`
}

// Defaults returns the settings used when nothing is persisted.
// Downloads go to a Downloads folder inside installDir.
func Defaults(installDir string) Config {
	return Config{
		DownloadDir:   filepath.Join(installDir, DownloadsDirName),
		MaxDownloads:  DefaultMaxDownloads,
		EnableLogging: DefaultEnableLogging,
		AutoRetry:     DefaultAutoRetry,
		MaxRetries:    DefaultMaxRetries,
		QuietMode:     DefaultQuietMode,
	}
}

// Load reads the settings file at path and merges it over defaults.
// A missing or unreadable file yields defaults; the Result tells whether a
// failure was ignored.
func Load(fs afero.Fs, path string, defaults Config) (Config, persistence.Result) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if exists, _ := afero.Exists(fs, path); !exists {
			return defaults, persistence.OK("load", path)
		}
		return defaults, persistence.Ignored("load", path, fmt.Errorf("failed to read config file: %w", err))
	}

	cfg := defaults
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return defaults, persistence.Ignored("load", path, fmt.Errorf("failed to parse config file: %w", err))
	}

	return normalize(cfg, defaults), persistence.OK("load", path)
}

// Save writes the settings to path. Failures are reported, not returned.
func Save(fs afero.Fs, path string, cfg Config) persistence.Result {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return persistence.Ignored("save", path, fmt.Errorf("failed to serialize config: %w", err))
	}

	if err := filesystem.WriteAtomic(fs, path, data); err != nil {
		return persistence.Ignored("save", path, fmt.Errorf("failed to write config file: %w", err))
	}

	return persistence.OK("save", path)
}

func normalize(cfg, defaults Config) Config {
	if cfg.DownloadDir == "" {
		cfg.DownloadDir = defaults.DownloadDir
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = defaults.MaxRetries
	}
	if cfg.MaxDownloads < 1 {
		cfg.MaxDownloads = defaults.MaxDownloads
	}
	return cfg
}
