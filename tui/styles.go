package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorAccent = lipgloss.AdaptiveColor{Light: "#2563EB", Dark: "#60A5FA"}
	colorMuted  = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
	colorError  = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"}

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	cellStyle   = lipgloss.NewStyle().PaddingRight(2)
	cursorStyle = cellStyle.Reverse(true)
	editStyle   = cellStyle.Foreground(colorAccent).Underline(true)
	footerStyle = lipgloss.NewStyle().Faint(true)
	statusStyle = lipgloss.NewStyle().Foreground(colorMuted)
	errorStyle  = lipgloss.NewStyle().Foreground(colorError)
)

// swatch renders a small block in the cue's colour when it is a hex value.
func swatch(color string) string {
	if !strings.HasPrefix(color, "#") {
		return ""
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("■") + " "
}
