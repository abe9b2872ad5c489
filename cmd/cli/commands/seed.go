package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/zoo-enclosures/pkg/core/services"
)

// SeedCmd creates the seed command
func SeedCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Fill empty tables with the sample zoo",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := services.SeedZoo(app.Ctx, app.Database, app.Logger)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Seed complete (zoo #%d)\n\n", result.ZooID)
			fmt.Printf("Zoos:       %d inserted\n", result.Zoos)
			fmt.Printf("Categories: %d inserted\n", result.Categories)
			fmt.Printf("Enclosures: %d inserted\n", result.Enclosures)
			fmt.Printf("Animals:    %d inserted\n\n", result.Animals)
			return nil
		},
	}
}
