package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jakechorley/zoo-enclosures/pkg/core/model"
	"github.com/jakechorley/zoo-enclosures/pkg/core/services"
)

// ListEnclosuresCmd creates the listEnclosures command
func ListEnclosuresCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listEnclosures",
		Short: "List enclosures with capacity and occupancy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			summaries, err := services.ListEnclosures(app.Ctx, app.Database, app.Logger)
			if err != nil {
				return err
			}

			fmt.Printf("\nFound %d enclosures:\n\n", len(summaries))
			fmt.Printf("%-4s %-18s %8s %8s %10s %-8s %-10s %s\n", "ID", "Name", "Size", "Occupied", "Remaining", "Security", "Occupants", "Restrictions")
			fmt.Println(strings.Repeat("-", 90))
			for _, s := range summaries {
				e := s.Enclosure
				fmt.Printf("%-4d %-18s %8g %8g %s%10g%s %-8s %-10d %s\n",
					e.ID, e.Name, e.Size, s.OccupiedSpace,
					capacityColor(s.Remaining, e.Size), s.Remaining, colorReset,
					e.SecurityLevel, s.OccupantCount, nameOr(model.FormatDietaryRestrictions(s.Restrictions), "-"))
			}
			fmt.Println()
			return nil
		},
	}
}
