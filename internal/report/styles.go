package report

import "github.com/charmbracelet/lipgloss"

// Console styles shared by reports and command output
var (
	TitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208"))
	AccentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	LabelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	HeadStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	DetailStyle = lipgloss.NewStyle().Faint(true)
	OKStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	WarnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	ErrorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)
