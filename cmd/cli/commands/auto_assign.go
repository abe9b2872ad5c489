package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/zoo-enclosures/pkg/core/services"
)

// AutoAssignCmd creates the autoAssign command
func AutoAssignCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "autoAssign",
		Short: "Place unassigned animals into enclosures (first fit by ID)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resetAll, _ := cmd.Flags().GetBool("reset-all")
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			app.Logger.Debug("autoAssign command",
				zap.Bool("reset_all", resetAll),
				zap.Bool("dry_run", dryRun))

			result, err := services.AutoAssign(app.Ctx, app.Database, app.Logger, services.AutoAssignOptions{
				ResetAll: resetAll,
				DryRun:   dryRun,
			})
			if err != nil {
				return err
			}

			if dryRun {
				fmt.Printf("\n%sDRY RUN - nothing was saved%s\n", colorDim, colorReset)
			} else if result.Committed {
				fmt.Printf("\n✓ Assignment committed (batch %s)\n", result.BatchID)
			} else {
				fmt.Println("\nNo changes to commit.")
			}

			if resetAll {
				fmt.Printf("Cleared:  %d animals\n", result.ClearedCount)
			}
			fmt.Printf("Placed:   %d animals\n", result.ReassignedCount)
			fmt.Printf("Unplaced: %d animals\n\n", len(result.Unplaced))

			for _, p := range result.Placements {
				fmt.Printf("  %s✓%s %-20s -> %s (%g)\n", colorGreen, colorReset, p.AnimalName, p.EnclosureName, p.SpaceRequirement)
			}
			for _, a := range result.Unplaced {
				fmt.Printf("  %s✗%s %-20s no enclosure with room and security %s\n", colorRed, colorReset, a.Name, a.SecurityRequirement)
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().Bool("reset-all", false, "Unassign every animal before placing")
	cmd.Flags().Bool("dry-run", false, "Run without saving to database")

	return cmd
}
