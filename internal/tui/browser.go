// Package tui provides an interactive terminal browser over the eigenmodes
// of a Hessian report.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/pesmodel/internal/report"
)

// atoms listed per mode in the detail pane
const topAtoms = 3

var (
	title  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	sub    = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	cursor = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	key    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
	value  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff")).Bold(true)
)

type Browser struct {
	rep    *report.Hessian
	labels []string
	cursor int
	offset int
	rows   int
	hide   bool
}

// NewBrowser lists the modes of rep. labels name the atoms and may be nil.
func NewBrowser(rep *report.Hessian, labels []string) *Browser {
	return &Browser{rep: rep, labels: labels, rows: 12}
}

func (b *Browser) Init() tea.Cmd { return nil }

func (b *Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return b, tea.Quit
		case "up", "k":
			b.move(-1)
		case "down", "j":
			b.move(1)
		case "g", "home":
			b.move(-len(b.rep.Modes))
		case "G", "end":
			b.move(len(b.rep.Modes))
		case "s":
			b.hide = !b.hide
			b.move(0)
		}
	case tea.WindowSizeMsg:
		if rows := msg.Height - 12; rows > 3 {
			b.rows = rows
		}
		b.move(0)
	}
	return b, nil
}

// visible returns the mode indices shown under the current filter.
func (b *Browser) visible() []int {
	idx := make([]int, 0, len(b.rep.Modes))
	for i, m := range b.rep.Modes {
		if b.hide && m.Singular {
			continue
		}
		idx = append(idx, i)
	}
	return idx
}

func (b *Browser) move(delta int) {
	n := len(b.visible())
	b.cursor += delta
	if b.cursor >= n {
		b.cursor = n - 1
	}
	if b.cursor < 0 {
		b.cursor = 0
	}
	if b.cursor < b.offset {
		b.offset = b.cursor
	}
	if b.cursor >= b.offset+b.rows {
		b.offset = b.cursor - b.rows + 1
	}
}

// Selected returns the mode under the cursor, or false when nothing is visible.
func (b *Browser) Selected() (report.Mode, bool) {
	vis := b.visible()
	if len(vis) == 0 {
		return report.Mode{}, false
	}
	return b.rep.Modes[vis[b.cursor]], true
}

func (b *Browser) label(i int) string {
	if i < len(b.labels) && b.labels[i] != "" {
		return fmt.Sprintf("%s%d", b.labels[i], i)
	}
	return fmt.Sprintf("atom%d", i)
}

func (b *Browser) View() string {
	var s strings.Builder
	s.WriteString("\n  " + title.Render(strings.ToUpper(b.rep.Name)) + "\n")
	s.WriteString("  " + sub.Render(fmt.Sprintf("ridge %.1e  %d/%d singular", b.rep.Ridge, b.rep.NumSingular(), len(b.rep.Modes))) + "\n\n")
	s.WriteString("    " + report.HeaderStyle.Render(report.Header()) + "\n")

	vis := b.visible()
	end := b.offset + b.rows
	if end > len(vis) {
		end = len(vis)
	}
	for row := b.offset; row < end; row++ {
		m := b.rep.Modes[vis[row]]
		marker := "  "
		if row == b.cursor {
			marker = cursor.Render("▸ ")
		}
		s.WriteString("  " + marker + report.StyledRow(m) + "\n")
	}

	if m, ok := b.Selected(); ok {
		s.WriteString("\n  " + sub.Render(fmt.Sprintf("mode %d", m.Index)) + "  ")
		for _, a := range b.rep.TopAtoms(m.Index, topAtoms) {
			s.WriteString(fmt.Sprintf("%s %s  ", b.label(a), value.Render(fmt.Sprintf("%.3f", m.Amplitudes[a]))))
		}
		s.WriteString("\n")
	}

	s.WriteString("\n  " + key.Render("j/k") + sub.Render(" navigate  ") + key.Render("s") + sub.Render(" toggle singular  ") + key.Render("q") + sub.Render(" quit") + "\n")
	return s.String()
}

// Run starts the browser on the alternate screen and blocks until it exits.
func Run(rep *report.Hessian, labels []string) error {
	_, err := tea.NewProgram(NewBrowser(rep, labels), tea.WithAltScreen()).Run()
	return err
}
