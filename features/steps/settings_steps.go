//go:build integration

package steps

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"tubefetch/cmd"
	"tubefetch/domain/persistence"
	"tubefetch/infrastructure/config"

	"github.com/cucumber/godog"
	"github.com/spf13/afero"
)

type settingsContext struct {
	tempDir    string
	configPath string
	fs         afero.Fs
	cfg        config.Config
	loadResult persistence.Result
}

func InitializeSettingsScenario(ctx *godog.ScenarioContext) {
	s := &settingsContext{}

	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		tempDir, err := os.MkdirTemp("", "settings-test-*")
		if err != nil {
			return c, err
		}
		*s = settingsContext{
			tempDir:    tempDir,
			configPath: filepath.Join(tempDir, "config", "settings.yaml"),
			fs:         afero.NewOsFs(),
			cfg:        config.Defaults(tempDir),
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if s.tempDir != "" {
			os.RemoveAll(s.tempDir)
		}
		return c, nil
	})

	ctx.Step(`^no settings file exists$`, s.noSettingsFileExists)
	ctx.Step(`^a settings file containing:$`, s.aSettingsFileContaining)
	ctx.Step(`^I load the settings$`, s.iLoadTheSettings)
	ctx.Step(`^I set "([^"]*)" to "([^"]*)"$`, s.iSetTo)
	ctx.Step(`^the setting "([^"]*)" should be "([^"]*)"$`, s.theSettingShouldBe)
	ctx.Step(`^the settings load failure should have been ignored$`, s.theSettingsLoadFailureShouldHaveBeenIgnored)
}

func (s *settingsContext) noSettingsFileExists() error {
	return nil
}

func (s *settingsContext) aSettingsFileContaining(doc *godog.DocString) error {
	if err := os.MkdirAll(filepath.Dir(s.configPath), 0755); err != nil {
		return err
	}
	return os.WriteFile(s.configPath, []byte(doc.Content), 0644)
}

func (s *settingsContext) iLoadTheSettings() error {
	s.cfg, s.loadResult = config.Load(s.fs, s.configPath, config.Defaults(s.tempDir))
	return nil
}

func (s *settingsContext) iSetTo(key, value string) error {
	var out bytes.Buffer
	return cmd.RunConfigSetWithDependencies(s.fs, &s.cfg, s.configPath, key, value, &out)
}

func (s *settingsContext) theSettingShouldBe(key, want string) error {
	got, err := config.NewManager(s.fs, &s.cfg, s.configPath).Get(key)
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("expected %s to be %q, got %q", key, want, got)
	}
	return nil
}

func (s *settingsContext) theSettingsLoadFailureShouldHaveBeenIgnored() error {
	if !s.loadResult.Failed() {
		return fmt.Errorf("expected the load failure to be recorded, got %s", s.loadResult)
	}
	return nil
}
