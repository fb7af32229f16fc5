package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/IvanShishkin/dupehound/internal/config"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// FormatDuration formats duration to a human-readable string with max 2 decimal places
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.2fms", float64(d.Nanoseconds())/1e6)
	} else if d < time.Minute {
		return fmt.Sprintf("%.2fs", d.Seconds())
	} else if d < time.Hour {
		mins := int(d.Minutes())
		secs := d.Seconds() - float64(mins*60)
		return fmt.Sprintf("%dm%.2fs", mins, secs)
	}
	hours := int(d.Hours())
	mins := int(d.Minutes()) - hours*60
	secs := d.Seconds() - float64(hours*3600) - float64(mins*60)
	return fmt.Sprintf("%dh%dm%.2fs", hours, mins, secs)
}

// Generator writes reports in various formats
type Generator struct {
	config *config.Config
	fs     afero.Fs
	out    io.Writer
	logger *zap.Logger
	now    func() time.Time
}

// NewGenerator creates a new report generator
func NewGenerator(cfg *config.Config, fs afero.Fs, logger *zap.Logger) (*Generator, error) {
	if cfg.ReportFormat != "" && defaultName(cfg.ReportFormat, time.Time{}, "") == "" {
		return nil, fmt.Errorf("unknown report format: %s", cfg.ReportFormat)
	}
	return &Generator{
		config: cfg,
		fs:     fs,
		out:    os.Stdout,
		logger: logger,
		now:    time.Now,
	}, nil
}

// SetOutput redirects console output
func (g *Generator) SetOutput(w io.Writer) {
	g.out = w
}

// Generate renders doc. Without a format it prints to the console and
// returns an empty path; otherwise it returns the written file path.
func (g *Generator) Generate(doc *Document) (string, error) {
	format := g.config.ReportFormat
	outputFile := g.config.OutputFile

	if format == "" {
		g.printConsole(doc)
		return "", nil
	}

	if outputFile == "" {
		outputFile = defaultName(format, g.now(), doc.Kind)
	}

	g.logger.Info("Generating report",
		zap.String("format", format),
		zap.String("output", outputFile))

	var (
		data []byte
		err  error
	)
	switch format {
	case "json":
		data, err = renderJSON(doc)
	case "txt", "text":
		data = renderText(doc)
	case "md", "markdown":
		data = renderMarkdown(doc)
	}
	if err != nil {
		return "", fmt.Errorf("failed to generate %s report: %w", format, err)
	}

	if err := afero.WriteFile(g.fs, outputFile, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s report: %w", format, err)
	}

	absPath, _ := filepath.Abs(outputFile)
	return absPath, nil
}

// defaultName returns the generated file name for format, or "" if the
// format is unknown
func defaultName(format string, ts time.Time, kind string) string {
	var ext string
	switch format {
	case "json":
		ext = "json"
	case "txt", "text":
		ext = "txt"
	case "md", "markdown":
		ext = "md"
	default:
		return ""
	}
	if kind == "" {
		kind = "REPORT"
	}
	return fmt.Sprintf("DUPEHOUND-%s-%s.%s", kind, ts.Format("20060102-150405"), ext)
}

// printConsole prints doc to the console output with styling
func (g *Generator) printConsole(doc *Document) {
	var sb strings.Builder
	rule := LabelStyle.Render(strings.Repeat("─", 63))

	sb.WriteString("\n")
	sb.WriteString(TitleStyle.Render(strings.ToUpper(doc.Title)) + "\n\n")

	width := 0
	for _, f := range doc.Fields {
		if len(f.Label) > width {
			width = len(f.Label)
		}
	}
	for _, f := range doc.Fields {
		label := fmt.Sprintf("%-*s", width+1, f.Label+":")
		sb.WriteString("  " + LabelStyle.Render(label) + " " + f.Value + "\n")
	}
	sb.WriteString("\n")

	if len(doc.Sections) == 0 {
		sb.WriteString("  " + OKStyle.Render("✓ "+doc.Empty) + "\n\n")
		fmt.Fprint(g.out, sb.String())
		return
	}

	sb.WriteString(rule + "\n")
	for _, s := range doc.Sections {
		sb.WriteString("\n  " + HeadStyle.Render(s.Title) + "\n")
		for _, it := range s.Items {
			text := it.Text
			if it.Mark {
				text = ErrorStyle.Render(text)
			}
			sb.WriteString("      " + text)
			if it.Detail != "" {
				sb.WriteString("  " + DetailStyle.Render(cleanDetail(it.Detail, 120)))
			}
			sb.WriteString("\n")
		}
	}
	sb.WriteString("\n" + rule + "\n\n")

	fmt.Fprint(g.out, sb.String())
}

// cleanDetail flattens and truncates a detail for one console line
func cleanDetail(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > maxLen {
		s = s[:maxLen] + "..."
	}
	return s
}
