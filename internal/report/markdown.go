package report

import (
	"fmt"
	"strings"
)

// renderMarkdown renders a Markdown report
func renderMarkdown(doc *Document) []byte {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Dupehound %s Report\n\n", doc.Title))

	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Parameter | Value |\n")
	sb.WriteString("|-----------|-------|\n")
	for _, f := range doc.Fields {
		sb.WriteString(fmt.Sprintf("| %s | %s |\n", f.Label, escapeCell(f.Value)))
	}
	sb.WriteString("\n")

	if len(doc.Sections) == 0 {
		sb.WriteString(fmt.Sprintf("> ✅ **%s**\n", doc.Empty))
		return []byte(sb.String())
	}

	for _, s := range doc.Sections {
		sb.WriteString(fmt.Sprintf("### %s\n\n", escapeCell(s.Title)))
		for _, it := range s.Items {
			line := fmt.Sprintf("- `%s`", it.Text)
			if it.Mark {
				line = "- ❌ `" + it.Text + "`"
			}
			if it.Detail != "" {
				line += " " + strings.ReplaceAll(it.Detail, "\n", " ")
			}
			sb.WriteString(line + "\n")
		}
		sb.WriteString("\n")
	}

	sb.WriteString("---\n\n*Generated by dupehound*\n")
	return []byte(sb.String())
}

// escapeCell keeps pipes from breaking table cells
func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
