package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
)

// InputMode picks how a free-text answer is entered.
type InputMode int

const (
	InputLarge InputMode = iota
	InputSmall
	InputNumber
)

// ParseInputMode maps a textArea hint ("large", "small", "number") to a mode.
// Unknown hints fall back to InputLarge.
func ParseInputMode(hint string) InputMode {
	switch hint {
	case "small":
		return InputSmall
	case "number":
		return InputNumber
	default:
		return InputLarge
	}
}

// TextInput wraps bubbles/textinput with survey input modes.
type TextInput struct {
	Model textinput.Model
	Mode  InputMode
}

// NewTextInput creates a text input seeded with value.
func NewTextInput(mode InputMode, value string) TextInput {
	ti := textinput.New()
	switch mode {
	case InputNumber:
		ti.Placeholder = "Enter a number..."
		ti.CharLimit = 12
	case InputSmall:
		ti.Placeholder = "Type a short answer..."
		ti.CharLimit = 120
	default:
		ti.Placeholder = "Type your answer..."
		ti.CharLimit = 2000
	}
	ti.SetValue(value)

	return TextInput{Model: ti, Mode: mode}
}

// Focus focuses the input and returns the cursor blink command.
func (t *TextInput) Focus() tea.Cmd {
	return t.Model.Focus()
}

// Blur removes focus from the input.
func (t *TextInput) Blur() {
	t.Model.Blur()
}

// Update handles messages. Number inputs drop non-digit characters.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if t.Mode == InputNumber {
		if kmsg, ok := msg.(tea.KeyMsg); ok {
			key := kmsg.String()
			if key == "space" {
				return t, nil
			}
			if len(key) == 1 {
				if key[0] < '0' || key[0] > '9' {
					return t, nil
				}
			}
		}
	}

	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the text input.
func (t TextInput) View() string {
	return "  " + t.Model.View() + "\n"
}

// Value returns the current input value.
func (t TextInput) Value() string {
	return t.Model.Value()
}
