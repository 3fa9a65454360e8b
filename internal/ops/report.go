package ops

import (
	"fmt"
	"strings"
	"time"

	"github.com/quarrydev/strata/internal/db"
)

// BuildReport renders an archived run as a markdown report: the summary
// table followed by per-unit extent statements.
func BuildReport(run *db.Run) string {
	var b strings.Builder

	b.WriteString("# Geological Summary\n\n")
	if run.ProjectID != nil {
		fmt.Fprintf(&b, "**Project:** %s\n\n", *run.ProjectID)
	}
	if len(run.Boreholes) > 0 {
		fmt.Fprintf(&b, "**Boreholes:** %s\n\n", strings.Join(run.Boreholes, ", "))
	}
	fmt.Fprintf(&b, "**Generated:** %s\n\n", time.Unix(run.CreatedAt, 0).UTC().Format("2006-01-02 15:04 UTC"))

	b.WriteString("## Table 3-1: Summary of Geological Units\n\n")
	b.WriteString("| Unit | Description | Min Depth (mbgl) | Max Depth (mbgl) | Boreholes |\n")
	b.WriteString("| --- | --- | --- | --- | --- |\n")
	for _, u := range run.Units {
		fmt.Fprintf(&b, "| %s | %s | %.1f | %.1f | %s |\n",
			u.UnitCode, escapeCell(u.Description), u.MinDepth, u.MaxDepth,
			strings.Join(u.BoreholeIDs, ", "))
	}

	b.WriteString("\n## Extent of Units\n\n")
	for _, u := range run.Units {
		fmt.Fprintf(&b, "- **%s**: %s\n", u.UnitCode, u.ExtentText)
	}

	if run.SkippedCount > 0 {
		fmt.Fprintf(&b, "\n*%d input row(s) were skipped during normalization.*\n", run.SkippedCount)
	}

	return b.String()
}

// escapeCell keeps free text from breaking the markdown table.
func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
