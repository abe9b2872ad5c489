package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jakechorley/zoo-enclosures/pkg/core/evaluator"
	"github.com/jakechorley/zoo-enclosures/pkg/core/services"
	"github.com/jakechorley/zoo-enclosures/pkg/db"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorDim    = "\033[2m"
)

// FormatError renders a command error for the terminal.
// Missing records are reported as "not found".
func FormatError(err error) string {
	switch {
	case errors.Is(err, db.ErrNotFound):
		return fmt.Sprintf("❌ not found: %v", err)
	case errors.Is(err, db.ErrConflict):
		return fmt.Sprintf("❌ %v (re-run to retry with fresh data)", err)
	default:
		return fmt.Sprintf("❌ Error: %v", err)
	}
}

// parseID parses a positive record identifier
func parseID(kind, value string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%s id must be a positive integer, got: %s", kind, value)
	}
	return id, nil
}

// addScopeFlags registers --scope and --id on a report command
func addScopeFlags(cmd *cobra.Command) {
	cmd.Flags().String("scope", "zoo", "Report scope: animal, enclosure or zoo")
	cmd.Flags().Int64("id", 0, "Animal, enclosure or zoo id (required for animal and enclosure scope)")
}

// scopeFromFlags reads --scope and --id. An id of 0 means "not given".
func scopeFromFlags(cmd *cobra.Command) (services.ScopeRequest, error) {
	scopeName, _ := cmd.Flags().GetString("scope")
	id, _ := cmd.Flags().GetInt64("id")

	scope, err := services.ParseScope(scopeName)
	if err != nil {
		return services.ScopeRequest{}, err
	}

	req := services.ScopeRequest{Scope: scope}
	if id < 0 {
		return req, fmt.Errorf("id must be a positive integer, got: %d", id)
	}
	if id > 0 {
		req.ID = &id
	}
	return req, nil
}

// formatIssue renders one issue as "Kind: detail"
func formatIssue(issue evaluator.Issue) string {
	return fmt.Sprintf("%s: %s", issue.Kind, issue.Detail)
}

// formatFinding renders one finding with the animal and enclosure it belongs to
func formatFinding(f evaluator.Finding) string {
	return fmt.Sprintf("%s (#%d) in %s: %s", f.AnimalName, f.AnimalID, f.EnclosureName, formatIssue(f.Issue))
}

// capacityColor picks a color for remaining capacity as a share of the rated size
func capacityColor(remaining, size float64) string {
	if size <= 0 || remaining <= 0 {
		return colorRed
	}
	if remaining/size <= 0.25 {
		return colorYellow
	}
	return colorGreen
}

// nameOr returns name, or fallback when name is empty
func nameOr(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}

func printFindings(compliant bool, findings []evaluator.Finding) {
	if compliant {
		fmt.Printf("%s✓ All animals compliant%s\n\n", colorGreen, colorReset)
		return
	}
	fmt.Printf("%s⚠️  %d issues found:%s\n", colorYellow, len(findings), colorReset)
	for _, f := range findings {
		fmt.Printf("  ✗ %s\n", formatFinding(f))
	}
	fmt.Println()
}
