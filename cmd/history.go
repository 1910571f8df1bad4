package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"snapgrab/internal/config"
	"snapgrab/internal/history"
)

var flagClearHistory bool

var (
	historyFileStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	historyMetaStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show or clear the download history",
	Args:  cobra.NoArgs,
	RunE:  historyRun,
}

func init() {
	historyCmd.Flags().BoolVar(&flagClearHistory, "clear", false, "Remove all history entries")
}

func historyRun(cmd *cobra.Command, args []string) error {
	store, err := history.Open(config.DataDir())
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	defer store.Close()

	ctx := cmd.Context()

	if flagClearHistory {
		if err := store.Clear(ctx); err != nil {
			return err
		}
		fmt.Println("History cleared.")
		return nil
	}

	entries, err := store.List(ctx)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}

	if len(entries) == 0 {
		fmt.Println("No history entries found.")
		return nil
	}

	for _, e := range entries {
		fmt.Printf("%s\n  %s\n",
			historyFileStyle.Render(e.File),
			historyMetaStyle.Render(fmt.Sprintf("%s · %s · %s", e.Platform, e.Type, e.SavedAt)),
		)
	}
	return nil
}
