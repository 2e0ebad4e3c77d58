// Package ui provides the interactive drop table browser.
package ui

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary = lipgloss.Color("#8BC34A")
	colorBorder  = lipgloss.Color("#2a3850")
	colorMuted   = lipgloss.Color("#6b7a90")
	colorError   = lipgloss.Color("#e53935")
)

// Styles holds the lipgloss styles used by the browser.
type Styles struct {
	Header      lipgloss.Style
	Input       lipgloss.Style
	InputFocus  lipgloss.Style
	Range       lipgloss.Style
	RangeCursor lipgloss.Style
	Status      lipgloss.Style
	Error       lipgloss.Style
	Muted       lipgloss.Style
}

// DefaultStyles returns the default browser styles.
func DefaultStyles() Styles {
	input := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1)

	return Styles{
		Header:      lipgloss.NewStyle().Bold(true).Foreground(colorPrimary),
		Input:       input,
		InputFocus:  input.BorderForeground(colorPrimary),
		Range:       lipgloss.NewStyle().PaddingRight(2),
		RangeCursor: lipgloss.NewStyle().PaddingRight(2).Bold(true).Foreground(colorPrimary),
		Status:      lipgloss.NewStyle().Foreground(colorMuted),
		Error:       lipgloss.NewStyle().Bold(true).Foreground(colorError),
		Muted:       lipgloss.NewStyle().Foreground(colorMuted),
	}
}
