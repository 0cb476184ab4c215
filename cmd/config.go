package cmd

import (
	"fmt"
	"text/tabwriter"

	"tubefetch/infrastructure/config"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change settings",
	Long: `Show or change the settings stored in the settings file.

Keys: download_dir, max_downloads, enable_logging, auto_retry, max_retries, quiet_mode

Examples:
  tubefetch config show
  tubefetch config set download_dir ~/Music
  tubefetch config set max_retries 5
  tubefetch config set quiet_mode true`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Change a setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if cfg == nil {
		return fmt.Errorf("configuration not loaded")
	}
	return RunConfigShowWithDependencies(appFS, cfg, env.ConfigFile, DefaultOutput)
}

// RunConfigShowWithDependencies runs the show command with injected dependencies
func RunConfigShowWithDependencies(fs afero.Fs, cfg *config.Config, configPath string, out OutputWriter) error {
	mgr := config.NewManager(fs, cfg, configPath)

	fmt.Fprintf(out, "Settings file: %s\n\n", configPath)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tVALUE")
	for _, key := range config.Keys {
		value, err := mgr.Get(key)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\n", key, value)
	}
	return w.Flush()
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if cfg == nil {
		return fmt.Errorf("configuration not loaded")
	}
	return RunConfigSetWithDependencies(appFS, cfg, env.ConfigFile, args[0], args[1], DefaultOutput)
}

// RunConfigSetWithDependencies runs the set command with injected dependencies
func RunConfigSetWithDependencies(fs afero.Fs, cfg *config.Config, configPath, key, value string, out OutputWriter) error {
	mgr := config.NewManager(fs, cfg, configPath)

	if err := mgr.Set(key, value); err != nil {
		return err
	}
	if r := mgr.LastSave(); r.Failed() {
		return fmt.Errorf("setting changed but not saved: %w", r.Err)
	}

	current, err := mgr.Get(key)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Set %s = %s\n", key, current)
	return nil
}
