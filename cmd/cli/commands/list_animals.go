package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/zoo-enclosures/pkg/core/model"
	"github.com/jakechorley/zoo-enclosures/pkg/core/services"
	"github.com/jakechorley/zoo-enclosures/pkg/db"
)

// ListAnimalsCmd creates the listAnimals command
func ListAnimalsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "listAnimals",
		Short: "Search animals by name, species, traits, enclosure or prey",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := animalFilterFromFlags(cmd)
			if err != nil {
				return err
			}

			app.Logger.Debug("listAnimals command", zap.Any("filter", filter))

			summaries, err := services.ListAnimals(app.Ctx, app.Database, app.Logger, filter)
			if err != nil {
				return err
			}

			fmt.Printf("\nFound %d animals:\n\n", len(summaries))
			fmt.Printf("%-4s %-18s %-18s %-12s %-12s %-10s %8s %-8s %s\n",
				"ID", "Name", "Species", "Size", "Diet", "Activity", "Space", "Security", "Enclosure")
			fmt.Println(strings.Repeat("-", 110))
			for _, s := range summaries {
				a := s.Animal
				fmt.Printf("%-4d %-18s %-18s %-12s %-12s %-10s %8g %-8s %s\n",
					a.ID, a.Name, nameOr(a.Species, "-"), a.Size, a.DietaryClass, a.ActivityPattern,
					a.SpaceRequirement, a.SecurityRequirement, nameOr(s.EnclosureName, colorDim+"unassigned"+colorReset))
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().String("name", "", "Name contains (case-insensitive)")
	cmd.Flags().String("species", "", "Species contains (case-insensitive)")
	cmd.Flags().Int64("category", 0, "Category id")
	cmd.Flags().String("size", "", "Size class, e.g. Large")
	cmd.Flags().String("diet", "", "Dietary class, e.g. Carnivore")
	cmd.Flags().String("activity", "", "Activity pattern: Diurnal, Nocturnal or Cathemeral")
	cmd.Flags().String("security", "", "Security requirement: Low, Medium or High")
	cmd.Flags().String("enclosure", "", "Enclosure name contains (housed animals only)")
	cmd.Flags().Float64("min-space", 0, "Minimum space requirement")
	cmd.Flags().String("prey-species", "", "Has a prey whose species contains this text")
	cmd.Flags().Bool("unassigned", false, "Only animals without an enclosure")

	return cmd
}

// animalFilterFromFlags builds a search filter. Flags left unset do not filter.
func animalFilterFromFlags(cmd *cobra.Command) (db.AnimalFilter, error) {
	flags := cmd.Flags()
	var filter db.AnimalFilter

	filter.Name, _ = flags.GetString("name")
	filter.Species, _ = flags.GetString("species")
	filter.EnclosureName, _ = flags.GetString("enclosure")
	filter.PreySpecies, _ = flags.GetString("prey-species")
	filter.Unassigned, _ = flags.GetBool("unassigned")

	if flags.Changed("category") {
		id, _ := flags.GetInt64("category")
		if id < 1 {
			return filter, fmt.Errorf("category id must be a positive integer, got: %d", id)
		}
		filter.CategoryID = model.ID(id)
	}
	if flags.Changed("min-space") {
		minSpace, _ := flags.GetFloat64("min-space")
		filter.MinSpace = &minSpace
	}

	var err error
	if filter.Size, err = enumFlag(cmd, "size", model.ParseSizeClass); err != nil {
		return filter, err
	}
	if filter.DietaryClass, err = enumFlag(cmd, "diet", model.ParseDietaryClass); err != nil {
		return filter, err
	}
	if filter.ActivityPattern, err = enumFlag(cmd, "activity", model.ParseActivityPattern); err != nil {
		return filter, err
	}
	if filter.SecurityRequirement, err = enumFlag(cmd, "security", model.ParseSecurityLevel); err != nil {
		return filter, err
	}
	return filter, nil
}

// enumFlag parses a string flag into an enumeration, or nil when the flag is blank
func enumFlag[T any](cmd *cobra.Command, name string, parse func(string) (T, error)) (*T, error) {
	value, _ := cmd.Flags().GetString(name)
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	v, err := parse(value)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s: %w", name, err)
	}
	return &v, nil
}
