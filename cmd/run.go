package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/abhisek/fieldsurvey/internal/app"
	"github.com/abhisek/fieldsurvey/internal/questiontree"
	"github.com/abhisek/fieldsurvey/internal/session"
	"github.com/abhisek/fieldsurvey/internal/store"
)

// runApp opens the store, builds the session, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()

	schema, err := loadSurvey()
	if err != nil {
		return fmt.Errorf("load survey: %w", err)
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	resumeID, _ := cmd.Flags().GetString("resume")
	sess, err := openSession(ctx, st, schema, resumeID)
	if err != nil {
		return err
	}

	return app.Run(ctx, app.Options{
		Session: sess,
		Logger:  slog.Default(),
		Resumed: resumeID != "",
	})
}

// openSession starts a new session or resumes a recorded one.
func openSession(ctx context.Context, st *store.Store, schema *questiontree.Schema, resumeID string) (*session.Session, error) {
	opts := session.Options{
		Recorder:  st.EventRepo(),
		Submitter: st.SubmissionRepo(),
		Logger:    slog.Default(),
	}
	if resumeID == "" {
		return session.New(schema, opts), nil
	}

	events, err := st.EventRepo().AnswerEvents(ctx, resumeID, store.QueryOpts{Limit: 1})
	if err != nil {
		return nil, fmt.Errorf("look up session: %w", err)
	}
	if len(events) == 0 {
		return nil, fmt.Errorf("no recorded answers for session %q", resumeID)
	}

	subs, err := st.SubmissionRepo().List(ctx, store.QueryOpts{})
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	for _, sub := range subs {
		if sub.SessionID == resumeID {
			return nil, fmt.Errorf("session %q was already submitted as %s", resumeID, sub.ID)
		}
	}

	return session.Resume(ctx, schema, st.EventRepo(), resumeID, opts)
}
