package tui

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha subset.
const (
	colorPink     lipgloss.Color = "#f5c2e7"
	colorRed      lipgloss.Color = "#f38ba8"
	colorLavender lipgloss.Color = "#b4befe"
	colorTeal     lipgloss.Color = "#94e2d5"
	colorText     lipgloss.Color = "#cdd6f4"
	colorOverlay1 lipgloss.Color = "#7f849c"
	colorSurface1 lipgloss.Color = "#45475a"
	colorBase     lipgloss.Color = "#1e1e2e"
)

const (
	colorAccent = colorPink
	colorFocus  = colorLavender
	colorError  = colorRed
	colorInfo   = colorTeal
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	blockStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorSurface1).Padding(0, 1)
	selectedStyle = blockStyle.BorderForeground(colorFocus)
	actionStyle   = lipgloss.NewStyle().Foreground(colorInfo)
	formStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorSurface1).Padding(0, 1)
	formFocus     = formStyle.BorderForeground(colorFocus)
	noticeStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorBase).Background(colorError).Padding(0, 1)
	hintStyle     = lipgloss.NewStyle().Foreground(colorError)
	statusStyle   = lipgloss.NewStyle().Foreground(colorOverlay1)
	helpStyle     = lipgloss.NewStyle().Foreground(colorText)
)
