package app

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/fieldsurvey/internal/questiontree"
	"github.com/abhisek/fieldsurvey/internal/router"
	"github.com/abhisek/fieldsurvey/internal/screens/survey"
	"github.com/abhisek/fieldsurvey/internal/session"
	"github.com/abhisek/fieldsurvey/internal/surveydef"
)

func testModel(t *testing.T) AppModel {
	t.Helper()
	sv, err := surveydef.Default()
	if err != nil {
		t.Fatalf("default survey: %v", err)
	}
	schema, err := questiontree.Assign(sv)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	return newAppModel(context.Background(), Options{Session: session.New(schema, session.Options{})})
}

func TestAppModel_CtrlCQuits(t *testing.T) {
	m := testModel(t)
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("expected QuitMsg, got %T", cmd())
	}
}

func TestAppModel_WelcomeHandsOverToSurvey(t *testing.T) {
	m := testModel(t)

	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a transition command")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", cmd())
	}

	m.Update(msg)
	if _, ok := m.router.Active().(*survey.PageScreen); !ok {
		t.Errorf("active screen = %T, want *survey.PageScreen", m.router.Active())
	}
	if m.router.Depth() != 1 {
		t.Errorf("depth = %d, want the welcome screen replaced", m.router.Depth())
	}
}

func TestAppModel_WindowSize(t *testing.T) {
	m := testModel(t)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	am := updated.(AppModel)
	if am.width != 100 || am.height != 40 {
		t.Errorf("size = %dx%d, want 100x40", am.width, am.height)
	}
	// Rendering must cope with both a usable and a too-small terminal.
	_ = am.View()
	small, _ := am.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	_ = small.(AppModel).View()
}
