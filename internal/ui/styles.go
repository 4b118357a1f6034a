// Package ui implements the interactive watch view: a live feed of
// change events alongside a highlighted preview of the most recently
// changed file.
package ui

import (
	"github.com/charmbracelet/lipgloss"

	"groundwork/internal/watcher"
)

// Colors for the UI theme - Muted Professional Palette
var (
	ColorPrimary = lipgloss.Color("#A78BFA") // Soft Purple (Lavender 400)
	ColorSuccess = lipgloss.Color("#059669") // Emerald 600 (muted green)
	ColorWarning = lipgloss.Color("#D97706") // Amber 600 (muted amber)
	ColorError   = lipgloss.Color("#DC2626") // Red 600 (muted red)
	ColorMuted   = lipgloss.Color("#9CA3AF") // Neutral Gray (Gray 400)
	ColorText    = lipgloss.Color("#F1F5F9") // Soft White (Slate 100)
	ColorBorder  = lipgloss.Color("#1E293B") // Subtle Slate Border
	ColorDim     = lipgloss.Color("#6B7280") // Gray 500
)

// Shared styles for the watch view.
var (
	TitleStyle  = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	HeaderStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	PanelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(ColorBorder).Padding(0, 1)
	StatusStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	ErrorStyle  = lipgloss.NewStyle().Foreground(ColorError)
	PathStyle   = lipgloss.NewStyle().Foreground(ColorText)
	AgeStyle    = lipgloss.NewStyle().Foreground(ColorDim)
	HelpStyle   = lipgloss.NewStyle().Foreground(ColorDim)
)

var kindStyles = map[watcher.Kind]lipgloss.Style{
	watcher.Created:  lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true),
	watcher.Modified: lipgloss.NewStyle().Foreground(ColorWarning).Bold(true),
	watcher.Deleted:  lipgloss.NewStyle().Foreground(ColorError).Bold(true),
}

var kindIcons = map[watcher.Kind]string{
	watcher.Created:  "+",
	watcher.Modified: "~",
	watcher.Deleted:  "-",
}

// RenderKind renders a change kind as a colored one-character icon.
func RenderKind(kind watcher.Kind) string {
	style, ok := kindStyles[kind]
	if !ok {
		return "?"
	}
	return style.Render(kindIcons[kind])
}
