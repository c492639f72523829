package catalog

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Report summarizes a merge run. It is advisory output and is never read back.
type Report struct {
	Output  string
	Total   int
	Facets  Facets
	Sources []SourceResult
}

// Summary is the short plain-text form printed after a run.
func (r Report) Summary() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "wrote %d treks to %s\n", r.Total, r.Output)
	fmt.Fprintf(&sb, "regions: %s\n", strings.Join(r.Facets.Regions, ", "))
	fmt.Fprintf(&sb, "countries: %s\n", strings.Join(r.Facets.Countries, ", "))
	return sb.String()
}

func (r Report) Markdown() string {
	var sb strings.Builder
	sb.WriteString("# Trek catalog merge\n\n")
	fmt.Fprintf(&sb, "Wrote **%d** treks to `%s`.\n\n", r.Total, r.Output)

	sb.WriteString("## Sources\n\n")
	sb.WriteString("| Source | Added | Status |\n")
	sb.WriteString("|---|---:|---|\n")
	for _, src := range r.Sources {
		status := "ok"
		switch {
		case src.Skipped:
			status = "skipped: not an array"
		case src.Err != nil:
			status = "error: " + src.Err.Error()
		}
		fmt.Fprintf(&sb, "| %s | %d | %s |\n", escapeCell(src.Path), src.Added, escapeCell(status))
	}

	sb.WriteString("\n## Regions\n\n")
	writeList(&sb, r.Facets.Regions)
	sb.WriteString("\n## Countries\n\n")
	writeList(&sb, r.Facets.Countries)
	return sb.String()
}

// HTML renders the markdown report.
func (r Report) HTML() (string, error) {
	var out strings.Builder
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	if err := md.Convert([]byte(r.Markdown()), &out); err != nil {
		return "", fmt.Errorf("markdown convert: %w", err)
	}
	return out.String(), nil
}

func writeList(sb *strings.Builder, items []string) {
	if len(items) == 0 {
		sb.WriteString("_none_\n")
		return
	}
	for _, item := range items {
		sb.WriteString("- " + item + "\n")
	}
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", `\|`)
}
