// Package render turns a report into console or JSON output for the CLI.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/takeru0219/repo-maintidx/internal/domain"
)

// metricLabels maps metric names to their display labels.
var metricLabels = map[domain.MetricName]string{
	domain.MetricCodeQuality:     "Code Quality",
	domain.MetricDocumentation:   "Documentation",
	domain.MetricActivity:        "Activity",
	domain.MetricCommunityHealth: "Community Health",
}

// Table writes the report as a console table.
func Table(w io.Writer, report *domain.Report) {
	fmt.Fprintf(w, "Repository: %s\n", report.Repository)
	fmt.Fprintf(w, "Window: last %d days\n\n", report.WindowDays)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Metric", "Score", "Findings"})
	table.SetColWidth(70)
	for _, r := range report.Results {
		table.Append([]string{
			metricLabels[r.Name],
			formatScore(r),
			strings.Join(r.Findings, "; "),
		})
	}
	table.Render()

	if report.Composite != nil {
		fmt.Fprintf(w, "\nComposite index: %.1f / 100 (%s)\n", *report.Composite, report.Tier)
	} else {
		fmt.Fprintf(w, "\nComposite index: unavailable\n")
	}

	if report.Narrative != "" {
		fmt.Fprintf(w, "\n%s\n", report.Narrative)
	}

	for _, warning := range report.Warnings {
		fmt.Fprintf(w, "\nWarning: %s\n", warning)
	}
}

// JSON writes the report as indented JSON.
func JSON(w io.Writer, report *domain.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func formatScore(r domain.MetricResult) string {
	if !r.Available() {
		return "n/a (" + r.Reason + ")"
	}
	return fmt.Sprintf("%.1f", *r.Score)
}
