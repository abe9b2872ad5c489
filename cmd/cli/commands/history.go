package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// HistoryCmd creates the history command
func HistoryCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List committed assignment batches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			batches, err := app.Database.ListBatches(app.Ctx)
			if err != nil {
				return fmt.Errorf("failed to list batches: %w", err)
			}

			if len(batches) == 0 {
				fmt.Println("\nNo assignment batches yet.")
				return nil
			}

			fmt.Println()
			for _, b := range batches {
				mode := "incremental"
				if b.ResetAll {
					mode = "reset-all"
				}
				fmt.Printf("  %s  %s  %-11s placed %d\n", b.CommittedAt.Format("2006-01-02 15:04:05"), b.ID, mode, b.PlacedCount)
			}
			fmt.Println()
			return nil
		},
	}
}
