package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/zoo-enclosures/pkg/core/services"
)

// FeedingTimeCmd creates the feedingTime command
func FeedingTimeCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feedingTime",
		Short: "Show what each animal eats and when it is next fed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := scopeFromFlags(cmd)
			if err != nil {
				return err
			}

			app.Logger.Debug("feedingTime command", zap.String("scope", req.Scope.String()))

			lines, err := services.FeedingTime(app.Ctx, app.Database, app.Logger, app.Cfg, req, app.now())
			if err != nil {
				return err
			}

			fmt.Println()
			for _, line := range lines {
				fmt.Printf("  %-20s %-20s %-30s %s\n", line.AnimalName, nameOr(line.EnclosureName, "no enclosure"),
					line.Food, formatNextFeeding(line))
			}
			fmt.Println()
			return nil
		},
	}

	addScopeFlags(cmd)
	return cmd
}

func formatNextFeeding(line services.FeedingLine) string {
	if line.NextFeeding == nil {
		return colorDim + "no schedule" + colorReset
	}
	return line.NextFeeding.Format("Mon Jan 02 15:04")
}
