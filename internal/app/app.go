package app

import (
	"context"
	"fmt"
	"log/slog"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/fieldsurvey/internal/router"
	"github.com/abhisek/fieldsurvey/internal/screen"
	"github.com/abhisek/fieldsurvey/internal/screens/summary"
	"github.com/abhisek/fieldsurvey/internal/screens/survey"
	"github.com/abhisek/fieldsurvey/internal/screens/welcome"
	"github.com/abhisek/fieldsurvey/internal/session"
	"github.com/abhisek/fieldsurvey/internal/ui/layout"
)

// Options configures the TUI.
type Options struct {
	Session *session.Session
	Logger  *slog.Logger

	// Resumed marks a session restored from recorded answers.
	Resumed bool
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	survey string
	width  int
	height int
}

// newAppModel creates a new AppModel starting on the welcome screen.
func newAppModel(ctx context.Context, opts Options) AppModel {
	sess := opts.Session
	schema := sess.Schema()

	done := func(s *session.Session) screen.Screen { return summary.New(s) }
	first := func() screen.Screen { return survey.New(ctx, sess, done) }

	intro := welcome.New(welcome.Info{
		Title:   schema.Title(),
		Version: schema.Version(),
		Pages:   schema.PageCount(),
		Resumed: opts.Resumed,
	}, first)

	return AppModel{
		router: router.New(intro),
		survey: schema.Title(),
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if c, ok := m.router.Active().(screen.InputCapturer); ok && c.CapturingInput() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title, status := "", ""
	if active != nil {
		title = active.Title()
		if sp, ok := active.(screen.StatusProvider); ok {
			status = sp.Status()
		}
	}

	header := layout.RenderHeader(m.survey, title, status, m.width)

	var footerHints []layout.KeyHint
	if hp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = hp.KeyHints()
	} else {
		footerHints = []layout.KeyHint{
			{Key: "Enter", Description: "Continue"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program and blocks until the respondent quits.
func Run(ctx context.Context, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("survey started",
		"session_id", opts.Session.ID(),
		"survey", opts.Session.Schema().Title(),
		"resumed", opts.Resumed)

	p := tea.NewProgram(newAppModel(ctx, opts), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run survey: %w", err)
	}

	logger.Info("survey closed",
		"session_id", opts.Session.ID(),
		"submitted", opts.Session.Submitted())
	return nil
}
