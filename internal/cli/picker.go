package cli

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/doppelganger/archviz/pkg/diagram"
)

// Picker styles
var (
	pickerSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	pickerNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	pickerDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// pickerModel is the bubbletea model for interactive diagram selection.
type pickerModel struct {
	Generators []diagram.Generator
	Cursor     int
	Selected   diagram.Generator
}

func newPickerModel(gens []diagram.Generator) pickerModel {
	return pickerModel{Generators: gens}
}

func (m pickerModel) Init() tea.Cmd {
	return nil
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Generators)-1 {
				m.Cursor++
			}
		case "enter":
			m.Selected = m.Generators[m.Cursor]
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m pickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Diagram"))
	b.WriteString("\n")
	b.WriteString(pickerDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	for i, g := range m.Generators {
		line := g.Name() + pickerDimStyle.Render("  ("+g.FileName()+")")
		if i == m.Cursor {
			b.WriteString(pickerSelectedStyle.Render("▸ " + line))
		} else {
			b.WriteString(pickerNormalStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// pickGenerator runs the interactive picker and returns the selected
// generator, or nil if the user quit without selecting.
func pickGenerator(reg *diagram.Registry) (diagram.Generator, error) {
	model := newPickerModel(reg.All())

	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return nil, err
	}

	result, ok := final.(pickerModel)
	if !ok {
		return nil, nil
	}
	return result.Selected, nil
}
