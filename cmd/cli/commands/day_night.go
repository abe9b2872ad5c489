package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/zoo-enclosures/pkg/core/activity"
	"github.com/jakechorley/zoo-enclosures/pkg/core/services"
)

// DayNightEventCmd creates the dayNightEvent command
func DayNightEventCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dayNightEvent <sunrise|sunset|now>",
		Short: "Show what each animal does after sunrise or sunset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := scopeFromFlags(cmd)
			if err != nil {
				return err
			}

			trigger, err := services.ResolveTrigger(args[0], app.Sun, app.now())
			if err != nil {
				return err
			}

			app.Logger.Debug("dayNightEvent command",
				zap.String("trigger", trigger.String()),
				zap.String("scope", req.Scope.String()))

			lines, err := services.DayNightEvent(app.Ctx, app.Database, app.Logger, trigger, req)
			if err != nil {
				return err
			}

			fmt.Printf("\nAfter %s:\n\n", trigger)
			for _, line := range lines {
				fmt.Printf("  %-20s %-20s %s%s%s\n", line.Name, nameOr(line.EnclosureName, "no enclosure"),
					stateColor(line.State), line.State, colorReset)
			}
			fmt.Println()
			return nil
		},
	}

	addScopeFlags(cmd)
	return cmd
}

func stateColor(state activity.State) string {
	switch state {
	case activity.StateAwake, activity.StateActive:
		return colorGreen
	case activity.StateAsleep:
		return colorDim
	default:
		return colorYellow
	}
}
