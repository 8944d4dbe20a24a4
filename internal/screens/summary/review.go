package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/fieldsurvey/internal/questiontree"
	"github.com/abhisek/fieldsurvey/internal/screen"
	"github.com/abhisek/fieldsurvey/internal/store"
	"github.com/abhisek/fieldsurvey/internal/ui/layout"
	"github.com/abhisek/fieldsurvey/internal/ui/theme"
)

// ReviewScreen lists the responses recorded in a submission.
type ReviewScreen struct {
	records []questiontree.OutputRecord
	offset  int
}

var _ screen.Screen = (*ReviewScreen)(nil)
var _ screen.KeyHintProvider = (*ReviewScreen)(nil)

// NewReview creates a ReviewScreen for sub, which may be nil.
func NewReview(sub *store.Submission) *ReviewScreen {
	r := &ReviewScreen{}
	if sub != nil {
		r.records = sub.Responses
	}
	return r
}

func (r *ReviewScreen) Init() tea.Cmd {
	return nil
}

func (r *ReviewScreen) Title() string {
	return "Your Responses"
}

func (r *ReviewScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Esc", Description: "Back"},
	}
}

func (r *ReviewScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "up", "k":
			if r.offset > 0 {
				r.offset--
			}
		case "down", "j":
			if r.offset < len(r.records)-1 {
				r.offset++
			}
		}
	}
	return r, nil
}

func (r *ReviewScreen) View(width, height int) string {
	var b strings.Builder

	if len(r.records) == 0 {
		b.WriteString(theme.Hint.Render("No questions were answered."))
		return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
	}

	// Each record takes two lines plus a blank line.
	visible := max((height-2)/3, 1)
	end := min(r.offset+visible, len(r.records))
	textWidth := min(width-6, 80)
	for _, rec := range r.records[r.offset:end] {
		b.WriteString(theme.Body.Width(textWidth).Render(rec.Text))
		b.WriteString("\n")
		b.WriteString(theme.Chosen.Render("  " + rec.Value))
		b.WriteString(theme.Hint.Render("  " + rec.ID))
		b.WriteString("\n\n")
	}
	if end < len(r.records) {
		b.WriteString(theme.Hint.Render(fmt.Sprintf("%d more below", len(r.records)-end)))
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}
