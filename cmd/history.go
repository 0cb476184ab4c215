package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	historyLimit    int
	historyClearYes bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent downloads",
	Long: `Show the most recent downloads, newest first.

The history keeps the last 50 downloads.

Examples:
  tubefetch history
  tubefetch history --limit 50
  tubefetch history clear --yes`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the download history",
	Args:  cobra.NoArgs,
	RunE:  runHistoryClear,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.Flags().IntVar(&historyLimit, "limit", HistoryViewLimit, "Number of entries to show")
	historyClearCmd.Flags().BoolVar(&historyClearYes, "yes", false, "Clear without asking")
}

func runHistory(cmd *cobra.Command, args []string) error {
	a, err := newApp(DefaultOutput)
	if err != nil {
		return err
	}
	defer a.Close()

	return RunHistoryWithDependencies(a.history, historyLimit, DefaultOutput)
}

// RunHistoryWithDependencies runs the history command with injected dependencies (for testing)
func RunHistoryWithDependencies(store HistoryStore, limit int, out OutputWriter) error {
	if limit <= 0 {
		return fmt.Errorf("--limit must be positive, got %d", limit)
	}
	printHistory(out, store.List(limit))
	return nil
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	a, err := newApp(DefaultOutput)
	if err != nil {
		return err
	}
	defer a.Close()

	return RunHistoryClearWithDependencies(a.history, DefaultPrompter, historyClearYes, DefaultOutput)
}

// RunHistoryClearWithDependencies runs the history clear command with injected dependencies (for testing)
func RunHistoryClearWithDependencies(store HistoryStore, prompter Prompter, yes bool, out OutputWriter) error {
	if !yes {
		ok, err := prompter.Confirm("Clear all download history?", false)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "History kept.")
			return nil
		}
	}

	if r := store.Clear(); r.Failed() {
		return fmt.Errorf("failed to clear history: %w", r.Err)
	}
	fmt.Fprintln(out, "Download history cleared.")
	return nil
}
