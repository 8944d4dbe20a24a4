package store

import (
	"context"
	"time"

	"github.com/abhisek/fieldsurvey/internal/questiontree"
)

// QueryOpts configures queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// AnswerEventData captures one answer mutation made during a session.
// An empty Value records that the answer was cleared.
type AnswerEventData struct {
	SessionID  string
	QuestionID string
	Value      string
}

// AnswerEvent is a recorded answer mutation.
type AnswerEvent struct {
	Sequence   int64
	SessionID  string
	QuestionID string
	Value      string
	Timestamp  time.Time
}

// SessionInfo summarizes the answer log of one session.
type SessionInfo struct {
	SessionID string
	Events    int
	FirstSeen time.Time
	LastSeen  time.Time
}

// EventRepo provides append and replay access to the answer event log.
type EventRepo interface {
	// AppendAnswer records an answer mutation.
	AppendAnswer(ctx context.Context, data AnswerEventData) error

	// AnswerEvents returns a session's events in sequence order.
	AnswerEvents(ctx context.Context, sessionID string, opts QueryOpts) ([]AnswerEvent, error)

	// SessionAnswers replays a session's events into the answers they leave
	// behind. The latest value per question wins; cleared answers are absent.
	SessionAnswers(ctx context.Context, sessionID string) (questiontree.Answers, error)

	// Sessions lists sessions with recorded answers, most recent first.
	Sessions(ctx context.Context, opts QueryOpts) ([]SessionInfo, error)
}

// Submission is a completed survey handed to persistence.
type Submission struct {
	ID            string                      `json:"id"`
	Sequence      int64                       `json:"sequence"`
	SessionID     string                      `json:"sessionId"`
	SurveyTitle   string                      `json:"surveyTitle"`
	SurveyVersion string                      `json:"surveyVersion"`
	SubmittedAt   time.Time                   `json:"submittedAt"`
	Responses     []questiontree.OutputRecord `json:"responses"`
}

// SubmissionRepo stores and reads completed surveys.
type SubmissionRepo interface {
	// Save stores a new submission. A missing ID or timestamp is filled in.
	Save(ctx context.Context, sub *Submission) error

	// Get returns the submission with the given id, or nil if none exists.
	Get(ctx context.Context, id string) (*Submission, error)

	// List returns submissions, most recent first.
	List(ctx context.Context, opts QueryOpts) ([]Submission, error)
}
