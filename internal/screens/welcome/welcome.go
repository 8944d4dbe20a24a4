package welcome

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/fieldsurvey/internal/router"
	"github.com/abhisek/fieldsurvey/internal/screen"
	"github.com/abhisek/fieldsurvey/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	phase1End    = 500 * time.Millisecond
	totalDur     = 1500 * time.Millisecond
)

type tickMsg time.Time

// Info describes the survey on the welcome screen.
type Info struct {
	Title   string
	Version string
	Pages   int
	Resumed bool
}

// WelcomeScreen introduces the survey and hands over to the first page on
// any key press.
type WelcomeScreen struct {
	info         Info
	next         func() screen.Screen
	elapsed      time.Duration
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that will transition to the screen produced by next.
func New(info Info, next func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{info: info, next: next}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.elapsed >= totalDur {
			return w, nil
		}
		w.elapsed += tickInterval
		return w, tick()

	case tea.KeyPressMsg:
		// A key press skips the rest of the animation.
		w.elapsed = totalDur
		return w, w.transition()
	}

	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	next := w.next()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

func (w *WelcomeScreen) View(width, height int) string {
	sections := []string{RenderDunes(width)}

	if w.elapsed >= phase1End {
		sections = append(sections, "",
			theme.Title.Render(w.info.Title))

		meta := fmt.Sprintf("%d pages", w.info.Pages)
		if w.info.Version != "" {
			meta = "version " + w.info.Version + "  ·  " + meta
		}
		sections = append(sections, theme.Subtitle.Render(meta))
	}

	if w.elapsed >= totalDur {
		hint := "press any key to begin"
		if w.info.Resumed {
			hint = "press any key to continue where you left off"
		}
		sections = append(sections, "", theme.Hint.Render(hint))
	}

	content := strings.Join(sections, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
