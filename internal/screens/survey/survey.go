// Package survey implements the screen that shows one survey page at a time.
package survey

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/fieldsurvey/internal/questiontree"
	"github.com/abhisek/fieldsurvey/internal/router"
	"github.com/abhisek/fieldsurvey/internal/screen"
	"github.com/abhisek/fieldsurvey/internal/session"
	"github.com/abhisek/fieldsurvey/internal/ui/components"
	"github.com/abhisek/fieldsurvey/internal/ui/layout"
)

// item is a reachable node of the current page with its follow-up depth.
type item struct {
	node  *questiontree.Node
	depth int
}

// PageScreen shows the reachable questions of the session's current page.
// Answers are written through the session as soon as a widget commits them,
// so the tree below a question opens or closes immediately.
type PageScreen struct {
	ctx  context.Context
	sess *session.Session
	done func(*session.Session) screen.Screen

	items []item
	focus int

	choices map[string]components.ChoiceList
	scales  map[string]components.Scale
	inputs  map[string]components.TextInput

	notice string
}

var _ screen.Screen = (*PageScreen)(nil)
var _ screen.KeyHintProvider = (*PageScreen)(nil)
var _ screen.StatusProvider = (*PageScreen)(nil)
var _ screen.InputCapturer = (*PageScreen)(nil)

// New creates a PageScreen. done builds the screen shown once the survey
// has been submitted.
func New(ctx context.Context, sess *session.Session, done func(*session.Session) screen.Screen) *PageScreen {
	return &PageScreen{
		ctx:     ctx,
		sess:    sess,
		done:    done,
		focus:   -1,
		choices: make(map[string]components.ChoiceList),
		scales:  make(map[string]components.Scale),
		inputs:  make(map[string]components.TextInput),
	}
}

func (s *PageScreen) Init() tea.Cmd {
	s.refresh()
	return s.focusFirstUnanswered()
}

func (s *PageScreen) Title() string {
	return fmt.Sprintf("Page %d of %d", s.sess.Page()+1, s.sess.PageCount())
}

func (s *PageScreen) Status() string {
	p := s.sess.Progress()
	return fmt.Sprintf("%d/%d answered", p.Answered, p.Total)
}

func (s *PageScreen) CapturingInput() bool {
	n := s.focused()
	return n != nil && n.Kind == questiontree.KindText
}

func (s *PageScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "Tab", Description: "Next question"}}
	if n := s.focused(); n != nil {
		switch n.Kind {
		case questiontree.KindMultipleChoice:
			hints = append(hints, layout.KeyHint{Key: "↑↓ Enter", Description: "Choose"})
		case questiontree.KindRanked:
			hints = append(hints, layout.KeyHint{Key: "←→ 1-5", Description: "Rate"})
		case questiontree.KindText:
			hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Save answer"})
		}
	}
	if s.sess.Page() > 0 {
		hints = append(hints, layout.KeyHint{Key: "Ctrl+P", Description: "Back"})
	}
	hints = append(hints,
		layout.KeyHint{Key: "Ctrl+N", Description: "Continue"},
		layout.KeyHint{Key: "Ctrl+C", Description: "Quit"},
	)
	return hints
}

func (s *PageScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s, s.forwardToInput(msg)
	}

	switch kmsg.String() {
	case "tab":
		return s, s.moveFocus(1)
	case "shift+tab":
		return s, s.moveFocus(-1)
	case "ctrl+n", "pgdown":
		return s, s.advance()
	case "ctrl+p", "pgup":
		return s, s.back()
	}
	return s, s.handleWidgetKey(kmsg)
}

// refresh recomputes the reachable nodes of the current page. Focus stays
// on the same node when it is still reachable.
func (s *PageScreen) refresh() {
	var focusedID string
	if n := s.focused(); n != nil {
		focusedID = n.Ident()
	}

	s.items = s.items[:0]
	questiontree.Walk(s.sess.PageNodes(), s.sess.Answers(), func(n *questiontree.Node, depth int) bool {
		s.items = append(s.items, item{node: n, depth: depth})
		return true
	})

	s.focus = -1
	for i, it := range s.items {
		if focusedID != "" && it.node.Ident() == focusedID {
			s.focus = i
			return
		}
	}
}

func (s *PageScreen) focused() *questiontree.Node {
	if s.focus < 0 || s.focus >= len(s.items) {
		return nil
	}
	return s.items[s.focus].node
}

// setFocus moves focus to index i, committing any text being edited.
func (s *PageScreen) setFocus(i int) tea.Cmd {
	if n := s.focused(); n != nil && n.Kind == questiontree.KindText {
		s.commitText(n)
		if ti, ok := s.inputs[n.Ident()]; ok {
			ti.Blur()
			s.inputs[n.Ident()] = ti
		}
	}

	// Committing may have changed what is reachable.
	var target string
	if i >= 0 && i < len(s.items) {
		target = s.items[i].node.Ident()
	}
	s.refresh()
	s.focus = -1
	for j, it := range s.items {
		if it.node.Ident() == target {
			s.focus = j
			break
		}
	}

	n := s.focused()
	if n == nil || n.Kind != questiontree.KindText {
		return nil
	}
	ti := s.input(n)
	cmd := ti.Focus()
	s.inputs[n.Ident()] = ti
	return cmd
}

// moveFocus steps to the next or previous question, skipping instructions.
func (s *PageScreen) moveFocus(step int) tea.Cmd {
	if len(s.items) == 0 {
		return nil
	}
	i := s.focus
	if i < 0 && step < 0 {
		i = len(s.items)
	}
	for range s.items {
		i = (i + step + len(s.items)) % len(s.items)
		if s.items[i].node.Kind.NeedsAnswer() {
			return s.setFocus(i)
		}
	}
	return nil
}

// focusFirstUnanswered puts focus on the highlighted question. With the
// page complete, focus falls back to the first question.
func (s *PageScreen) focusFirstUnanswered() tea.Cmd {
	if id, ok := s.sess.FirstUnanswered(); ok {
		for i, it := range s.items {
			if it.node.Ident() == id {
				return s.setFocus(i)
			}
		}
	}
	if s.focused() != nil {
		return nil
	}
	for i, it := range s.items {
		if it.node.Kind.NeedsAnswer() {
			return s.setFocus(i)
		}
	}
	return nil
}

func (s *PageScreen) handleWidgetKey(msg tea.KeyPressMsg) tea.Cmd {
	n := s.focused()
	if n == nil {
		return nil
	}
	id := n.Ident()

	switch n.Kind {
	case questiontree.KindMultipleChoice:
		c, changed := s.choice(n).Update(msg)
		s.choices[id] = c
		if changed {
			return s.answer(id, strconv.Itoa(c.Chosen))
		}

	case questiontree.KindRanked:
		sc, changed := s.scale(n).Update(msg)
		s.scales[id] = sc
		if changed {
			return s.answer(id, strconv.Itoa(sc.Value))
		}

	case questiontree.KindText:
		if msg.String() == "enter" {
			s.commitText(n)
			return s.afterAnswer()
		}
		return s.forwardToInput(msg)
	}
	return nil
}

func (s *PageScreen) forwardToInput(msg tea.Msg) tea.Cmd {
	n := s.focused()
	if n == nil || n.Kind != questiontree.KindText {
		return nil
	}
	ti, cmd := s.input(n).Update(msg)
	s.inputs[n.Ident()] = ti
	return cmd
}

// commitText stores the text input's value if it differs from the answer.
func (s *PageScreen) commitText(n *questiontree.Node) {
	ti, ok := s.inputs[n.Ident()]
	if !ok {
		return
	}
	value := strings.TrimSpace(ti.Value())
	current, _ := s.sess.Answers().Answer(n.Ident())
	if value == current {
		return
	}
	s.setAnswer(n.Ident(), value)
}

func (s *PageScreen) answer(id, value string) tea.Cmd {
	s.setAnswer(id, value)
	return s.afterAnswer()
}

func (s *PageScreen) setAnswer(id, value string) {
	if err := s.sess.SetAnswer(s.ctx, id, value); err != nil {
		s.notice = err.Error()
		return
	}
	s.notice = ""
}

// afterAnswer re-walks the page and moves focus to the question that now
// needs attention.
func (s *PageScreen) afterAnswer() tea.Cmd {
	s.refresh()
	if _, ok := s.sess.FirstUnanswered(); ok {
		return s.focusFirstUnanswered()
	}
	return nil
}

func (s *PageScreen) advance() tea.Cmd {
	if n := s.focused(); n != nil && n.Kind == questiontree.KindText {
		s.commitText(n)
		s.refresh()
	}

	err := s.sess.Advance(s.ctx)
	if errors.Is(err, session.ErrLastPage) {
		// A single-page survey has nowhere to advance to.
		err = s.sess.Submit(s.ctx)
	}
	switch {
	case errors.Is(err, session.ErrPageIncomplete):
		s.notice = "Please answer every question on this page before continuing."
		return s.focusFirstUnanswered()
	case err != nil:
		s.notice = err.Error()
		return nil
	}

	s.notice = ""
	if s.sess.Submitted() {
		next := s.done(s.sess)
		return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
	}
	s.focus = -1
	s.refresh()
	return s.focusFirstUnanswered()
}

func (s *PageScreen) back() tea.Cmd {
	if n := s.focused(); n != nil && n.Kind == questiontree.KindText {
		s.commitText(n)
	}
	if err := s.sess.Back(); err != nil {
		if errors.Is(err, session.ErrFirstPage) {
			s.notice = "This is the first page."
		} else {
			s.notice = err.Error()
		}
		return nil
	}
	s.notice = ""
	s.focus = -1
	s.refresh()
	return s.focusFirstUnanswered()
}

// Widgets are created lazily from the stored answer and kept per node, so
// a widget hidden by an answer change comes back as it was left.

func (s *PageScreen) choice(n *questiontree.Node) components.ChoiceList {
	if c, ok := s.choices[n.Ident()]; ok {
		return c
	}
	chosen := -1
	if v, ok := s.sess.Answers().Answer(n.Ident()); ok {
		if i, err := strconv.Atoi(v); err == nil {
			chosen = i
		}
	}
	c := components.NewChoiceList(n.Responses, chosen)
	s.choices[n.Ident()] = c
	return c
}

func (s *PageScreen) scale(n *questiontree.Node) components.Scale {
	if sc, ok := s.scales[n.Ident()]; ok {
		return sc
	}
	value := 0
	if v, ok := s.sess.Answers().Answer(n.Ident()); ok {
		value, _ = strconv.Atoi(v)
	}
	sc := components.NewScale(value, n.Param("low", "Not at all"), n.Param("high", "Very"))
	s.scales[n.Ident()] = sc
	return sc
}

func (s *PageScreen) input(n *questiontree.Node) components.TextInput {
	if ti, ok := s.inputs[n.Ident()]; ok {
		return ti
	}
	value, _ := s.sess.Answers().Answer(n.Ident())
	ti := components.NewTextInput(components.ParseInputMode(n.Param("textArea", "large")), value)
	s.inputs[n.Ident()] = ti
	return ti
}
