package components

import (
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/fieldsurvey/internal/ui/theme"
)

// ScaleMax is the top of the ranking scale; values run 1..ScaleMax.
const ScaleMax = 5

// Scale is a horizontal 1..ScaleMax ranking selector. Value is 0 until
// something is chosen.
type Scale struct {
	Cursor int
	Value  int
	Low    string
	High   string
}

// NewScale creates a scale with the stored value (0 for none).
func NewScale(value int, low, high string) Scale {
	if value < 0 || value > ScaleMax {
		value = 0
	}
	cursor := value
	if cursor == 0 {
		cursor = (ScaleMax + 1) / 2
	}
	return Scale{Cursor: cursor, Value: value, Low: low, High: high}
}

// Update moves the cursor with left/right and selects with enter, space or
// a digit key. It reports whether the value changed.
func (s Scale) Update(msg tea.Msg) (Scale, bool) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, false
	}

	key := kmsg.String()
	switch key {
	case "left", "h":
		if s.Cursor > 1 {
			s.Cursor--
		}
		return s, false
	case "right", "l":
		if s.Cursor < ScaleMax {
			s.Cursor++
		}
		return s, false
	case "enter", "space", " ":
		return s.choose(s.Cursor)
	}

	if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= ScaleMax {
		s.Cursor = n
		return s.choose(n)
	}
	return s, false
}

func (s Scale) choose(v int) (Scale, bool) {
	if s.Value == v {
		return s, false
	}
	s.Value = v
	return s, true
}

// View renders the scale on one line.
func (s Scale) View(focused bool) string {
	cells := make([]string, 0, ScaleMax)
	for v := 1; v <= ScaleMax; v++ {
		label := " " + strconv.Itoa(v) + " "
		style := lipgloss.NewStyle().Foreground(theme.TextDim)
		switch {
		case focused && v == s.Cursor:
			style = theme.ButtonActive
		case v == s.Value:
			style = theme.Chosen
			label = "[" + strconv.Itoa(v) + "]"
		}
		cells = append(cells, style.Render(label))
	}

	line := "  " + strings.Join(cells, " ")
	if s.Low != "" || s.High != "" {
		line = "  " + theme.Hint.Render(s.Low) + " " + strings.TrimLeft(line, " ") + " " + theme.Hint.Render(s.High)
	}
	return line + "\n"
}
