// Package tui renders the user-facing messages of the CLI.
package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	styleAlert   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF0000"))
	styleMessage = lipgloss.NewStyle().Foreground(lipgloss.Color("#00AA00"))
	styleValue   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500"))
	styleSuccess = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00"))
	styleDim     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Alert writes "Alert! <msg>".
func Alert(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleAlert.Render("Alert!"), styleMessage.Render(fmt.Sprintf(format, args...)))
}

// AlertValue writes "Alert! <msg> <value>" with the value highlighted,
// e.g. "Alert! Invalid report bogus".
func AlertValue(w io.Writer, msg, value string) {
	fmt.Fprintln(w, styleAlert.Render("Alert!"), styleMessage.Render(msg), styleValue.Render(value))
}

// Success writes a success line.
func Success(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleSuccess.Render("✔ "+fmt.Sprintf(format, args...)))
}

// Info writes a dimmed informational line.
func Info(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleDim.Render(fmt.Sprintf(format, args...)))
}
