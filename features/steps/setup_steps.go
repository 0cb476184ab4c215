//go:build integration

package steps

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tubefetch/cmd"
	"tubefetch/infrastructure/config"

	"github.com/cucumber/godog"
	"github.com/spf13/afero"
)

type setupContext struct {
	tempDir         string
	configPath      string
	setupCancelled  bool
	originalContent string
	output          bytes.Buffer
	err             error
}

type fixedVersion string

func (v fixedVersion) Version(ctx context.Context) (string, error) {
	return string(v), nil
}

func InitializeSetupScenario(ctx *godog.ScenarioContext) {
	s := &setupContext{}

	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		// Create temp directory for each scenario
		tempDir, err := os.MkdirTemp("", "setup-test-*")
		if err != nil {
			return c, err
		}
		*s = setupContext{
			tempDir:    tempDir,
			configPath: filepath.Join(tempDir, "config", "settings.yaml"),
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if s.tempDir != "" {
			os.RemoveAll(s.tempDir)
		}
		return c, nil
	})

	ctx.Step(`^no settings file exists for setup$`, s.noSettingsFileExistsForSetup)
	ctx.Step(`^a settings file already exists for setup$`, s.aSettingsFileAlreadyExistsForSetup)
	ctx.Step(`^I run the setup command with inputs:$`, s.iRunTheSetupCommandWithInputs)
	ctx.Step(`^I run the setup command with confirmation "([^"]*)"$`, s.iRunTheSetupCommandWithConfirmation)
	ctx.Step(`^a settings file should exist$`, s.aSettingsFileShouldExist)
	ctx.Step(`^the saved download folder should end with "([^"]*)"$`, s.theSavedDownloadFolderShouldEndWith)
	ctx.Step(`^the saved setting "([^"]*)" should be "([^"]*)"$`, s.theSavedSettingShouldBe)
	ctx.Step(`^the setup should be cancelled$`, s.theSetupShouldBeCancelled)
	ctx.Step(`^the existing settings should be unchanged$`, s.theExistingSettingsShouldBeUnchanged)
}

func (s *setupContext) deps(prompter cmd.Prompter) cmd.SetupDeps {
	return cmd.SetupDeps{
		FS:         afero.NewOsFs(),
		ConfigPath: s.configPath,
		Defaults:   config.Defaults(s.tempDir),
		YtDlp:      fixedVersion("2025.01.15"),
		FFmpeg: func(ctx context.Context) (string, string, error) {
			return "/usr/bin/ffmpeg", "ffmpeg version 6.1", nil
		},
		Prompter: prompter,
		Output:   &s.output,
	}
}

func (s *setupContext) noSettingsFileExistsForSetup() error {
	return os.MkdirAll(filepath.Dir(s.configPath), 0755)
}

func (s *setupContext) aSettingsFileAlreadyExistsForSetup() error {
	if err := os.MkdirAll(filepath.Dir(s.configPath), 0755); err != nil {
		return err
	}
	content := "download_dir: /original/downloads\nmax_retries: 7\n"
	s.originalContent = content
	return os.WriteFile(s.configPath, []byte(content), 0644)
}

func (s *setupContext) iRunTheSetupCommandWithInputs(table *godog.Table) error {
	inputs, confirms := s.parseInputTable(table)
	s.err = cmd.RunSetupWithDependencies(context.Background(), s.deps(NewMockPrompter(inputs, confirms)))
	if s.err != nil {
		return fmt.Errorf("setup command failed: %w", s.err)
	}
	return nil
}

func (s *setupContext) iRunTheSetupCommandWithConfirmation(confirmation string) error {
	confirm := strings.ToLower(confirmation) == "y"
	s.err = cmd.RunSetupWithDependencies(context.Background(), s.deps(NewMockPrompter(nil, []bool{confirm})))
	if !confirm {
		s.setupCancelled = true
	}
	return nil
}

// parseInputTable splits rows into input and y/n answers. Folder values are
// made relative to the scenario's temp directory.
func (s *setupContext) parseInputTable(table *godog.Table) ([]string, []bool) {
	var inputs []string
	var confirms []bool

	for i, row := range table.Rows {
		if i == 0 {
			continue // Skip header row
		}
		prompt := strings.ToLower(row.Cells[0].Value)
		value := row.Cells[1].Value

		switch {
		case value == "y" || value == "n":
			confirms = append(confirms, value == "y")
		case strings.Contains(prompt, "folder"):
			inputs = append(inputs, filepath.Join(s.tempDir, value))
		default:
			inputs = append(inputs, value)
		}
	}

	return inputs, confirms
}

func (s *setupContext) load() (config.Config, error) {
	cfg, result := config.Load(afero.NewOsFs(), s.configPath, config.Defaults(s.tempDir))
	if result.Failed() {
		return cfg, result.Err
	}
	return cfg, nil
}

func (s *setupContext) aSettingsFileShouldExist() error {
	if _, err := os.Stat(s.configPath); err != nil {
		return fmt.Errorf("settings file was not created at %s", s.configPath)
	}
	return nil
}

func (s *setupContext) theSavedDownloadFolderShouldEndWith(suffix string) error {
	cfg, err := s.load()
	if err != nil {
		return err
	}
	if !strings.HasSuffix(cfg.DownloadDir, suffix) {
		return fmt.Errorf("expected download folder ending with %q, got %q", suffix, cfg.DownloadDir)
	}
	return nil
}

func (s *setupContext) theSavedSettingShouldBe(key, want string) error {
	cfg, err := s.load()
	if err != nil {
		return err
	}
	got, err := config.NewManager(afero.NewOsFs(), &cfg, s.configPath).Get(key)
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("expected %s to be %q, got %q", key, want, got)
	}
	return nil
}

func (s *setupContext) theSetupShouldBeCancelled() error {
	if !s.setupCancelled {
		return fmt.Errorf("expected setup to be cancelled")
	}
	return nil
}

func (s *setupContext) theExistingSettingsShouldBeUnchanged() error {
	data, err := os.ReadFile(s.configPath)
	if err != nil {
		return err
	}
	if string(data) != s.originalContent {
		return fmt.Errorf("settings file was modified")
	}
	return nil
}
