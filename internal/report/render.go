package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ffff"))

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color("#444466"))

	// Invertible modes.
	ActiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88"))

	// Modes at or below the ridge.
	SingularStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))

	SubtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
)

// Header is the column header of Row.
func Header() string {
	cols := make([]string, len(RigidLabels))
	for i, l := range RigidLabels {
		cols[i] = fmt.Sprintf("%7s", l)
	}
	return fmt.Sprintf(" %-13s|  %s", "Eigenvalues", strings.Join(cols, "  "))
}

// Row formats one mode without styling.
func Row(m Mode) string {
	cols := make([]string, len(m.Angles))
	for i, a := range m.Angles {
		cols[i] = formatAngle(a)
	}
	return fmt.Sprintf("% .6e |  %s", m.Eigenvalue, strings.Join(cols, "  "))
}

// StyledRow colours a row by whether the mode is singular.
func StyledRow(m Mode) string {
	if m.Singular {
		return SingularStyle.Render(Row(m))
	}
	return ActiveStyle.Render(Row(m))
}

// Render produces the full coloured table.
func (h *Hessian) Render() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Hessian of " + h.Name))
	b.WriteString("\n")
	b.WriteString(SubtleStyle.Render(fmt.Sprintf("ridge %.1e, %d of %d modes singular", h.Ridge, h.NumSingular(), len(h.Modes))))
	b.WriteString("\n")
	b.WriteString(HeaderStyle.Render(Header()))
	b.WriteString("\n")
	for _, m := range h.Modes {
		b.WriteString(StyledRow(m))
		b.WriteString("\n")
	}
	return b.String()
}
