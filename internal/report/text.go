package report

import (
	"fmt"
	"strings"
)

// renderText renders a plain text report
func renderText(doc *Document) []byte {
	var sb strings.Builder

	// Header
	sb.WriteString(strings.Repeat("=", 79) + "\n")
	sb.WriteString(fmt.Sprintf("  DUPEHOUND %s REPORT\n", strings.ToUpper(doc.Title)))
	sb.WriteString(strings.Repeat("=", 79) + "\n\n")

	// Summary
	sb.WriteString("SUMMARY\n")
	sb.WriteString(strings.Repeat("-", 79) + "\n")
	for _, f := range doc.Fields {
		sb.WriteString(fmt.Sprintf("%-18s%s\n", f.Label+":", f.Value))
	}
	sb.WriteString("\n")

	if len(doc.Sections) == 0 {
		sb.WriteString(doc.Empty + ".\n\n")
	}

	for _, s := range doc.Sections {
		sb.WriteString(s.Title + "\n")
		sb.WriteString(strings.Repeat("-", 79) + "\n")
		for _, it := range s.Items {
			prefix := "  "
			if it.Mark {
				prefix = "! "
			}
			sb.WriteString(prefix + it.Text + "\n")
			if it.Detail != "" {
				for _, line := range strings.Split(it.Detail, "\n") {
					sb.WriteString("      " + line + "\n")
				}
			}
		}
		sb.WriteString("\n")
	}

	// Footer
	sb.WriteString(strings.Repeat("=", 79) + "\n")
	sb.WriteString("End of Report\n")
	sb.WriteString(strings.Repeat("=", 79) + "\n")

	return []byte(sb.String())
}
