package registry

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var promptLabelStyle = lipgloss.NewStyle().Bold(true)

// TerminalPrompter asks for one field value at a time on the terminal.
type TerminalPrompter struct{}

// Prompt shows a single-line input for label and returns the entered value.
func (TerminalPrompter) Prompt(label, placeholder string) (string, error) {
	model, err := tea.NewProgram(newPromptModel(label, placeholder)).Run()
	if err != nil {
		return "", fmt.Errorf("run prompt: %w", err)
	}
	m, ok := model.(promptModel)
	if !ok || m.canceled {
		return "", fmt.Errorf("prompt canceled")
	}
	return strings.TrimSpace(m.input.Value()), nil
}

type promptModel struct {
	label    string
	input    textinput.Model
	done     bool
	canceled bool
}

func newPromptModel(label, placeholder string) promptModel {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()
	return promptModel{label: label, input: ti}
}

func (m promptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			m.done = true
			return m, tea.Quit
		case tea.KeyCtrlC, tea.KeyEsc:
			m.canceled = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m promptModel) View() string {
	if m.done || m.canceled {
		return ""
	}
	return fmt.Sprintf("%s\n%s\n", promptLabelStyle.Render(m.label), m.input.View())
}
