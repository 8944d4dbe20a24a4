package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/fieldsurvey/internal/ui/theme"
)

// ChoiceList is a single-select list of responses. Chosen is the index of
// the stored answer, or -1 when nothing is chosen yet.
type ChoiceList struct {
	Options []string
	Cursor  int
	Chosen  int
}

// NewChoiceList creates a choice list. chosen is the currently stored
// index, or -1.
func NewChoiceList(options []string, chosen int) ChoiceList {
	cursor := 0
	if chosen >= 0 && chosen < len(options) {
		cursor = chosen
	} else {
		chosen = -1
	}
	return ChoiceList{Options: options, Cursor: cursor, Chosen: chosen}
}

// Update moves the cursor and selects on enter or space. It reports
// whether the chosen index changed.
func (c ChoiceList) Update(msg tea.Msg) (ChoiceList, bool) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, false
	}

	switch kmsg.String() {
	case "up", "k":
		if c.Cursor > 0 {
			c.Cursor--
		}
	case "down", "j":
		if c.Cursor < len(c.Options)-1 {
			c.Cursor++
		}
	case "enter", "space", " ":
		if c.Cursor >= 0 && c.Cursor < len(c.Options) && c.Chosen != c.Cursor {
			c.Chosen = c.Cursor
			return c, true
		}
	}
	return c, false
}

// View renders the options. The cursor is only drawn when focused.
func (c ChoiceList) View(focused bool) string {
	var s string
	for i, opt := range c.Options {
		mark := "( )"
		if i == c.Chosen {
			mark = "(•)"
		}
		prefix := "  "
		if focused && i == c.Cursor {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s %s", prefix, mark, opt)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		switch {
		case focused && i == c.Cursor:
			style = theme.Selected
		case i == c.Chosen:
			style = theme.Chosen
		}
		s += style.Render(line) + "\n"
	}
	return s
}
