// Package session drives one respondent through a survey: it owns the
// answer store, the current page, and the hand-off to persistence.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/fieldsurvey/internal/questiontree"
	"github.com/abhisek/fieldsurvey/internal/store"
)

var (
	ErrPageIncomplete  = errors.New("current page has unanswered questions")
	ErrFirstPage       = errors.New("already on the first page")
	ErrLastPage        = errors.New("already on the last page")
	ErrSubmitted       = errors.New("survey already submitted")
	ErrUnknownQuestion = errors.New("unknown question")
)

// Recorder appends answer mutations to a durable log.
type Recorder interface {
	AppendAnswer(ctx context.Context, data store.AnswerEventData) error
}

// Submitter persists a completed survey.
type Submitter interface {
	Save(ctx context.Context, sub *store.Submission) error
}

// Options configures a Session. Every field is optional.
type Options struct {
	// ID identifies the session; a random UUID is used when empty.
	ID string

	// Answers seeds the answer store.
	Answers questiontree.Answers

	Recorder  Recorder
	Submitter Submitter
	Logger    *slog.Logger

	// Now is the clock used for submission timestamps.
	Now func() time.Time
}

// Session is one respondent's pass through a survey schema. Navigation is
// driven from a single goroutine; the AnswerStore may be read concurrently.
type Session struct {
	id        string
	schema    *questiontree.Schema
	answers   *AnswerStore
	page      int
	submitted *store.Submission

	recorder  Recorder
	submitter Submitter
	logger    *slog.Logger
	now       func() time.Time
}

// New starts a session on the first page of schema.
func New(schema *questiontree.Schema, opts Options) *Session {
	id := opts.ID
	if id == "" {
		id = uuid.New().String()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Session{
		id:        id,
		schema:    schema,
		answers:   NewAnswerStore(opts.Answers),
		recorder:  opts.Recorder,
		submitter: opts.Submitter,
		logger:    logger.With("session_id", id),
		now:       now,
	}
}

// Resume rebuilds session id from its recorded answers and places it on the
// first page that is not yet complete. A survey whose answer pages are all
// complete resumes on its last answer page so that advancing submits it.
func Resume(ctx context.Context, schema *questiontree.Schema, events store.EventRepo, id string, opts Options) (*Session, error) {
	answers, err := events.SessionAnswers(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("replay session %s: %w", id, err)
	}
	opts.ID = id
	opts.Answers = answers
	s := New(schema, opts)

	last := schema.PageCount() - 1
	for s.page < last-1 && questiontree.AllAnswered(s.answers, schema.Page(s.page)) {
		s.page++
	}
	s.logger.Info("session resumed", "answers", len(answers), "page", s.page)
	return s, nil
}

func (s *Session) ID() string                    { return s.id }
func (s *Session) Schema() *questiontree.Schema  { return s.schema }
func (s *Session) Answers() *AnswerStore         { return s.answers }
func (s *Session) Page() int                     { return s.page }
func (s *Session) PageCount() int                { return s.schema.PageCount() }
func (s *Session) PageNodes() questiontree.Page  { return s.schema.Page(s.page) }
func (s *Session) Submission() *store.Submission { return s.submitted }

// Submitted reports whether the survey has been handed to persistence.
func (s *Session) Submitted() bool { return s.submitted != nil }

// IsLastPage reports whether the current page is the final one.
func (s *Session) IsLastPage() bool { return s.page >= s.schema.PageCount()-1 }

// SetAnswer stores value for question id and records the change. An empty
// value clears the answer. Recording failures are logged and do not undo
// the answer.
func (s *Session) SetAnswer(ctx context.Context, id, value string) error {
	if _, ok := s.schema.Node(id); !ok || id == questiontree.MissingID {
		return fmt.Errorf("set answer %q: %w", id, ErrUnknownQuestion)
	}
	if s.Submitted() {
		return ErrSubmitted
	}
	s.answers.Set(id, value)

	if s.recorder == nil {
		return nil
	}
	err := s.recorder.AppendAnswer(ctx, store.AnswerEventData{
		SessionID:  s.id,
		QuestionID: id,
		Value:      value,
	})
	if err != nil {
		s.logger.Warn("failed to record answer", "question_id", id, "error", err)
	}
	return nil
}

// FirstUnanswered returns the first reachable question on the current page
// that still needs an answer.
func (s *Session) FirstUnanswered() (string, bool) {
	return questiontree.FirstUnanswered(s.PageNodes(), s.answers)
}

// PageComplete reports whether every reachable question on the current
// page is answered.
func (s *Session) PageComplete() bool {
	return questiontree.AllAnswered(s.answers, s.PageNodes())
}

// Advance moves to the next page. It is refused while the current page is
// incomplete. Arriving on the last page submits the survey.
func (s *Session) Advance(ctx context.Context) error {
	if s.Submitted() {
		return ErrSubmitted
	}
	if s.IsLastPage() {
		return ErrLastPage
	}
	if !s.PageComplete() {
		return ErrPageIncomplete
	}
	s.page++
	s.logger.Debug("page advanced", "page", s.page)

	if s.IsLastPage() {
		s.submit(ctx)
	}
	return nil
}

// Back moves to the previous page. Answers are kept.
func (s *Session) Back() error {
	if s.Submitted() {
		return ErrSubmitted
	}
	if s.page == 0 {
		return ErrFirstPage
	}
	s.page--
	s.logger.Debug("page went back", "page", s.page)
	return nil
}

// Submit hands the survey to persistence without moving pages, for
// surveys whose only page is also the last one. The current page must be
// complete.
func (s *Session) Submit(ctx context.Context) error {
	if s.Submitted() {
		return ErrSubmitted
	}
	if !s.PageComplete() {
		return ErrPageIncomplete
	}
	s.submit(ctx)
	return nil
}

// submit flattens every page and saves the result. A persistence failure is
// logged and ignored: the respondent has finished either way.
func (s *Session) submit(ctx context.Context) {
	sub := &store.Submission{
		ID:            uuid.New().String(),
		SessionID:     s.id,
		SurveyTitle:   s.schema.Title(),
		SurveyVersion: s.schema.Version(),
		SubmittedAt:   s.now().UTC(),
		Responses:     s.Output(),
	}
	s.submitted = sub

	if s.submitter == nil {
		s.logger.Info("survey completed without persistence", "responses", len(sub.Responses))
		return
	}
	if err := s.submitter.Save(ctx, sub); err != nil {
		s.logger.Error("failed to save submission", "submission_id", sub.ID, "error", err)
		return
	}
	s.logger.Info("survey submitted", "submission_id", sub.ID, "responses", len(sub.Responses))
}

// Output flattens the answers over all pages.
func (s *Session) Output() []questiontree.OutputRecord {
	return s.schema.Flatten(s.answers)
}
