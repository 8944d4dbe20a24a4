// Package summary implements the screen shown after a survey is submitted.
package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/fieldsurvey/internal/questiontree"
	"github.com/abhisek/fieldsurvey/internal/router"
	"github.com/abhisek/fieldsurvey/internal/screen"
	"github.com/abhisek/fieldsurvey/internal/session"
	"github.com/abhisek/fieldsurvey/internal/ui/components"
	"github.com/abhisek/fieldsurvey/internal/ui/layout"
	"github.com/abhisek/fieldsurvey/internal/ui/theme"
)

// SummaryScreen shows the closing page of a submitted survey.
type SummaryScreen struct {
	sess *session.Session
	menu components.Menu
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(sess *session.Session) *SummaryScreen {
	s := &SummaryScreen{sess: sess}
	s.menu = components.NewMenu([]components.MenuItem{
		{Label: "Review my responses", Action: func() tea.Cmd {
			review := NewReview(sess.Submission())
			return func() tea.Msg { return router.PushScreenMsg{Screen: review} }
		}},
		{Label: "Exit", Action: func() tea.Cmd { return tea.Quit }},
	})
	return s
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Survey Complete"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *SummaryScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	var b strings.Builder

	b.WriteString(center.Foreground(theme.Primary).Bold(true).Render("Survey complete!"))
	b.WriteString("\n\n")

	// The last page holds the closing instructions.
	last := s.sess.Schema().Page(s.sess.PageCount() - 1)
	textWidth := min(width-8, 70)
	for _, n := range last {
		if n.Kind != questiontree.KindInstruction {
			continue
		}
		text := theme.Body.Width(textWidth).Align(lipgloss.Center).Render(n.Text)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, text))
		b.WriteString("\n\n")
	}

	sub := s.sess.Submission()
	if sub != nil {
		gap := "        "
		if layout.IsCompactWidth(width) {
			gap = "   "
		}
		stats := fmt.Sprintf("Responses: %d%sSubmitted: %s",
			len(sub.Responses), gap, sub.SubmittedAt.Local().Format("2006-01-02 15:04"))
		b.WriteString(center.Foreground(theme.Text).Render(stats))
		b.WriteString("\n")
		b.WriteString(center.Foreground(theme.TextDim).Render("Reference " + sub.ID))
		b.WriteString("\n\n")
	}

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.menu.View()))
	return b.String()
}
