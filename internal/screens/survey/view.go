package survey

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/fieldsurvey/internal/questiontree"
	"github.com/abhisek/fieldsurvey/internal/ui/components"
	"github.com/abhisek/fieldsurvey/internal/ui/layout"
	"github.com/abhisek/fieldsurvey/internal/ui/theme"
)

const (
	maxContentWidth = 90
	// Lines kept for the progress bar, the buttons and the notice.
	chromeLines = 6
)

func (s *PageScreen) View(width, height int) string {
	contentWidth := width - 4
	if contentWidth > maxContentWidth {
		contentWidth = maxContentWidth
	}
	if contentWidth < 20 {
		contentWidth = 20
	}

	p := s.sess.Progress()
	bar := components.NewProgressBar("Answered", p.Answered, p.Total, contentWidth).View()

	body, focusStart, focusEnd := s.renderNodes(contentWidth, layout.IsCompactHeight(height))
	body = scroll(body, focusStart, focusEnd, height-chromeLines)

	var b strings.Builder
	b.WriteString(bar)
	b.WriteString("\n\n")
	b.WriteString(strings.Join(body, "\n"))
	b.WriteString("\n\n")
	b.WriteString(s.renderButtons())
	if s.notice != "" {
		b.WriteString("\n")
		b.WriteString(theme.Warning.Render(s.notice))
	}

	return lipgloss.NewStyle().Padding(0, 2).Render(b.String())
}

// renderNodes renders every reachable node of the page and reports the
// line range of the focused node. Compact terminals drop the blank line
// between nodes.
func (s *PageScreen) renderNodes(width int, compact bool) (lines []string, focusStart, focusEnd int) {
	pending, _ := s.sess.FirstUnanswered()

	for i, it := range s.items {
		block := s.renderNode(it, i == s.focus, it.node.Ident() == pending, width-it.depth*4)
		block = layout.Indent(block, it.depth)

		start := len(lines)
		lines = append(lines, strings.Split(block, "\n")...)
		if i == s.focus {
			focusStart, focusEnd = start, len(lines)
		}
		if !compact && i < len(s.items)-1 {
			lines = append(lines, "")
		}
	}
	return lines, focusStart, focusEnd
}

func (s *PageScreen) renderNode(it item, focused, pending bool, width int) string {
	n := it.node
	textStyle := theme.Body.Width(width - 2)

	if n.Kind == questiontree.KindInstruction {
		return "  " + theme.Instruction.Width(width-2).Render(n.Text)
	}

	marker := "  "
	answered := questiontree.IsAnswered(n, s.sess.Answers())
	switch {
	case focused:
		marker = theme.Selected.Render("▸ ")
	case pending:
		marker = theme.Pending.Render("● ")
	case answered:
		marker = theme.Chosen.Render("✓ ")
	}
	if pending {
		textStyle = theme.Pending.Width(width - 2)
	}

	var b strings.Builder
	b.WriteString(marker)
	b.WriteString(textStyle.Render(n.Text))
	b.WriteString("\n")

	var widget string
	switch n.Kind {
	case questiontree.KindMultipleChoice:
		widget = s.choice(n).View(focused)
	case questiontree.KindRanked:
		widget = s.scale(n).View(focused)
	case questiontree.KindText:
		widget = s.renderText(n, focused)
	}
	b.WriteString(layout.Indent(strings.TrimRight(widget, "\n"), 1))
	return b.String()
}

func (s *PageScreen) renderText(n *questiontree.Node, focused bool) string {
	if focused {
		return s.input(n).View()
	}
	if v, ok := s.sess.Answers().Answer(n.Ident()); ok {
		return theme.Body.Render(v)
	}
	return theme.Hint.Render("(no answer yet)")
}

func (s *PageScreen) renderButtons() string {
	back := components.NewButton("◂ Back", s.sess.Page() > 0)
	label := "Continue ▸"
	if s.sess.Page() >= s.sess.PageCount()-2 {
		label = "Submit ▸"
	}
	next := components.NewButton(label, s.sess.PageComplete())
	return lipgloss.JoinHorizontal(lipgloss.Center, back.View(), "  ", next.View())
}

// scroll returns a window of at most height lines that keeps the focused
// range visible.
func scroll(lines []string, focusStart, focusEnd, height int) []string {
	if height <= 0 || len(lines) <= height {
		return lines
	}
	start := 0
	if focusEnd > height {
		start = focusEnd - height
	}
	if focusStart < start {
		start = focusStart
	}
	if start+height > len(lines) {
		start = len(lines) - height
	}
	return lines[start : start+height]
}
