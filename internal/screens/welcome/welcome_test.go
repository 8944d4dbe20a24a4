package welcome

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/fieldsurvey/internal/router"
	"github.com/abhisek/fieldsurvey/internal/screen"
)

// stubScreen is a minimal screen implementation for testing.
type stubScreen struct{}

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return "page" }
func (s *stubScreen) Title() string                           { return "Page" }

func newTestWelcome(info Info) (*WelcomeScreen, *int) {
	callCount := 0
	factory := func() screen.Screen {
		callCount++
		return &stubScreen{}
	}
	return New(info, factory), &callCount
}

func sendTicks(w *WelcomeScreen, n int) tea.Cmd {
	var cmd tea.Cmd
	for i := 0; i < n; i++ {
		_, cmd = w.Update(tickMsg(time.Now()))
	}
	return cmd
}

func TestPhases(t *testing.T) {
	w, _ := newTestWelcome(Info{Title: "Dune Survey", Version: "2", Pages: 4})

	view := w.View(80, 24)
	if strings.Contains(view, "Dune Survey") {
		t.Error("title should not be visible at start")
	}

	sendTicks(w, 5)
	view = w.View(80, 24)
	if !strings.Contains(view, "Dune Survey") {
		t.Error("title should be visible after the first phase")
	}
	if strings.Contains(view, "press any key") {
		t.Error("hint should not be visible before the animation ends")
	}

	sendTicks(w, 10)
	view = w.View(80, 24)
	if !strings.Contains(view, "press any key to begin") {
		t.Error("hint should be visible after the animation")
	}
	if !strings.Contains(view, "4 pages") {
		t.Error("page count should be shown")
	}
}

func TestTicksStopAfterAnimation(t *testing.T) {
	w, callCount := newTestWelcome(Info{Title: "x"})
	if cmd := sendTicks(w, 30); cmd != nil {
		t.Error("ticking should stop once the animation has played")
	}
	if w.elapsed != totalDur {
		t.Errorf("expected elapsed capped at %v, got %v", totalDur, w.elapsed)
	}
	if *callCount != 0 {
		t.Errorf("factory should not be called without keypress, got %d", *callCount)
	}
}

func TestKeypressDuringAnimationTransitions(t *testing.T) {
	w, callCount := newTestWelcome(Info{Title: "x"})
	sendTicks(w, 2)

	_, cmd := w.Update(tea.KeyPressMsg{Code: ' '})
	if cmd == nil {
		t.Fatal("keypress during animation should trigger transition")
	}
	msg := cmd()
	replace, ok := msg.(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", msg)
	}
	if replace.Screen == nil {
		t.Error("replace screen should not be nil")
	}
	if *callCount != 1 {
		t.Errorf("factory should be called once, got %d", *callCount)
	}
}

func TestFactoryCalledOnce(t *testing.T) {
	w, callCount := newTestWelcome(Info{Title: "x"})
	w.Update(tea.KeyPressMsg{Code: 'a'})

	_, cmd := w.Update(tea.KeyPressMsg{Code: 'b'})
	if cmd != nil {
		t.Error("second keypress should not produce a command")
	}
	if *callCount != 1 {
		t.Errorf("factory should be called exactly once, got %d", *callCount)
	}
}

func TestResumedHint(t *testing.T) {
	w, _ := newTestWelcome(Info{Title: "x", Resumed: true})
	sendTicks(w, 20)
	if !strings.Contains(w.View(80, 24), "where you left off") {
		t.Error("resumed sessions should say so")
	}
}
