package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/zoo-enclosures/pkg/core/services"
)

// CheckAnimalCmd creates the checkAnimal command
func CheckAnimalCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "checkAnimal <animal_id>",
		Short: "Check an animal against the enclosure it is housed in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			animalID, err := parseID("animal", args[0])
			if err != nil {
				return err
			}

			app.Logger.Debug("checkAnimal command", zap.Int64("animal_id", animalID))

			report, err := services.CheckAnimal(app.Ctx, app.Database, app.Logger, animalID)
			if err != nil {
				return err
			}

			fmt.Printf("\n%s (#%d) in %s\n", report.AnimalName, report.AnimalID, nameOr(report.EnclosureName, "no enclosure"))
			if report.Compatible {
				fmt.Printf("%s✓ Compatible%s\n\n", colorGreen, colorReset)
				return nil
			}
			for _, issue := range report.Issues {
				fmt.Printf("  %s✗ %s%s\n", colorRed, formatIssue(issue), colorReset)
			}
			fmt.Println()
			return nil
		},
	}
}

// CheckEnclosureCmd creates the checkEnclosure command
func CheckEnclosureCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "checkEnclosure <enclosure_id>",
		Short: "Check every animal housed in an enclosure",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			enclosureID, err := parseID("enclosure", args[0])
			if err != nil {
				return err
			}

			app.Logger.Debug("checkEnclosure command", zap.Int64("enclosure_id", enclosureID))

			report, err := services.CheckEnclosure(app.Ctx, app.Database, app.Logger, enclosureID)
			if err != nil {
				return err
			}

			fmt.Printf("\n%s (#%d)\n", report.EnclosureName, report.EnclosureID)
			printFindings(len(report.Issues) == 0, report.Issues)
			return nil
		},
	}
}

// CheckZooCmd creates the checkZoo command
func CheckZooCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "checkZoo [zoo_id]",
		Short: "Audit every enclosure (optionally only those of one zoo)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var zooID *int64
			if len(args) > 0 {
				id, err := parseID("zoo", args[0])
				if err != nil {
					return err
				}
				zooID = &id
			}

			app.Logger.Debug("checkZoo command", zap.Bool("filtered", zooID != nil))

			report, err := services.CheckZoo(app.Ctx, app.Database, app.Logger, zooID)
			if err != nil {
				return err
			}

			fmt.Printf("\nChecked %d enclosures housing %d animals\n", report.EnclosureCount, report.AnimalCount)
			printFindings(report.Compliant(), report.Issues)
			return nil
		},
	}
}
