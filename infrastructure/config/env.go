package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const envVarPrefix = "TUBEFETCH"

// Environment holds process-level locations that are not user settings
type Environment struct {
	InstallDir  string `envconfig:"INSTALL_DIR"`
	ConfigFile  string `envconfig:"CONFIG_FILE"`
	HistoryFile string `envconfig:"HISTORY_FILE"`
	LogFile     string `envconfig:"LOG_FILE"`
	YtDlpPath   string `envconfig:"YTDLP_PATH" default:"yt-dlp"`
	FFmpegPath  string `envconfig:"FFMPEG_PATH"`
	Debug       bool   `envconfig:"DEBUG"`
}

// LoadEnvironment reads TUBEFETCH_* variables, after loading a .env file if
// one exists in the working directory. Paths left empty are placed next to
// the executable: config/settings.yaml, config/history.yaml and
// config/tubefetch.log.
func LoadEnvironment() (*Environment, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	var env Environment
	if err := envconfig.Process(envVarPrefix, &env); err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	if env.InstallDir == "" {
		env.InstallDir = executableDir()
	}
	env.ApplyDefaults()
	return &env, nil
}

// ApplyDefaults fills empty file locations relative to InstallDir
func (e *Environment) ApplyDefaults() {
	configDir := filepath.Join(e.InstallDir, "config")
	if e.ConfigFile == "" {
		e.ConfigFile = filepath.Join(configDir, "settings.yaml")
	}
	if e.HistoryFile == "" {
		e.HistoryFile = filepath.Join(filepath.Dir(e.ConfigFile), "history.yaml")
	}
	if e.LogFile == "" {
		e.LogFile = filepath.Join(filepath.Dir(e.ConfigFile), "tubefetch.log")
	}
	if e.YtDlpPath == "" {
		e.YtDlpPath = "yt-dlp"
	}
}

func executableDir() string {
	exe, err := os.Executable()
	if err != nil {
		wd, _ := os.Getwd()
		return wd
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe)
}
