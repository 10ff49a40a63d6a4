package pipeline

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"bvbswizard/internal/model"
)

// GenerateReport renders the result as markdown. Verbose adds a table of
// every record.
func GenerateReport(res *Result, verbose bool) string {
	var b strings.Builder

	b.WriteString("# BVBS import report\n\n")
	fmt.Fprintf(&b, "Run `%s` started %s\n\n", res.RunID, res.Started.Format(TimestampLayout))
	if res.Input.BVBSPath != "" {
		fmt.Fprintf(&b, "- BVBS export: `%s`\n", res.Input.BVBSPath)
	}
	if res.Input.PlacementsPath != "" {
		fmt.Fprintf(&b, "- Placements: `%s`\n", res.Input.PlacementsPath)
	}
	b.WriteString("\n## Summary\n\n")
	b.WriteString("| Entry | Count |\n|---|---:|\n")
	for _, e := range res.Summary {
		fmt.Fprintf(&b, "| %s | %d |\n", e.Label, e.Value)
	}

	if len(res.Unmatched) > 0 {
		b.WriteString("\n## Unassigned placements\n\n")
		b.WriteString("| Placement | Mark | Assembly |\n|---|---|---|\n")
		for _, u := range res.Unmatched {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", u.PlacementID, u.Key, dash(u.Assembly))
		}
	}

	if len(res.Warnings) > 0 {
		b.WriteString("\n## Warnings\n\n")
		for _, w := range res.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}

	if verbose {
		b.WriteString("\n## Records\n\n")
		b.WriteString("| Line | Shape | Mark | Length | Assembly | Segments | Placements |\n")
		b.WriteString("|---:|---|---|---:|---|---:|---:|\n")
		for _, r := range res.Records {
			fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %d | %d |\n",
				r.Line, r.Shape, dash(r.MarkValue()), dash(value(r.TotalLength)),
				dash(r.AssemblyName()), len(r.SegmentLengths), len(r.Matched))
		}
	}
	return b.String()
}

// RenderReport styles markdown for the terminal.
func RenderReport(markdown string, width int) (string, error) {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	return r.Render(markdown)
}

func value(a *model.Attribute) string {
	if a == nil {
		return ""
	}
	return a.Value
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
