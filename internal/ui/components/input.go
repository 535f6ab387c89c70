package components

import (
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// TextInput is a bordered single line prompt, used for playlist names and paths
type TextInput struct {
	Input      textinput.Model
	Width      int
	Style      lipgloss.Style
	FocusStyle lipgloss.Style
}

// NewTextInput creates a new text input
func NewTextInput(width int) TextInput {
	ti := textinput.New()
	ti.Placeholder = "playlist name or path"
	ti.Prompt = "> "
	ti.CharLimit = 256
	ti.Cursor.SetMode(cursor.CursorStatic)

	s := TextInput{
		Input: ti,
		Style: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1),
		FocusStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("212")).
			Padding(0, 1),
	}
	s.SetWidth(width)
	return s
}

// SetWidth resizes the box and the editable area inside it
func (s *TextInput) SetWidth(width int) {
	s.Width = width
	s.Input.Width = max(width-6, 1)
}

// Focus sets focus on the input
func (s *TextInput) Focus() tea.Cmd {
	return s.Input.Focus()
}

// Blur removes focus from the input
func (s *TextInput) Blur() {
	s.Input.Blur()
}

func (s TextInput) Focused() bool {
	return s.Input.Focused()
}

func (s TextInput) Value() string {
	return s.Input.Value()
}

// SetValue sets the input value and moves the cursor to its end
func (s *TextInput) SetValue(value string) {
	s.Input.SetValue(value)
	s.Input.CursorEnd()
}

// Clear clears the input
func (s *TextInput) Clear() {
	s.Input.Reset()
}

// Update handles messages for the input
func (s TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	var cmd tea.Cmd
	s.Input, cmd = s.Input.Update(msg)
	return s, cmd
}

// View renders the input
func (s TextInput) View() string {
	if s.Input.Focused() {
		return s.FocusStyle.Width(s.Width).Render(s.Input.View())
	}
	return s.Style.Width(s.Width).Render(s.Input.View())
}
