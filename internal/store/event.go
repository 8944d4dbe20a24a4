package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/abhisek/fieldsurvey/internal/questiontree"
)

// sequenceCounter manages the global monotonic sequence number shared by
// answer events and submissions. A single increasing sequence across both
// tables lets a reader tell which answers were recorded before a submission,
// and events are never reordered.
//
// The mutex serializes within the process; the RETURNING clause makes the
// increment atomic at the database level.
type sequenceCounter struct {
	mu sync.Mutex
	db *sql.DB
}

// newSequenceCounter creates a counter and ensures the tracking table exists.
func newSequenceCounter(db *sql.DB) (*sequenceCounter, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS global_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL DEFAULT 1
	)`)
	if err != nil {
		return nil, fmt.Errorf("create sequence table: %w", err)
	}

	_, err = db.Exec(`INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1)`)
	if err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}

	return &sequenceCounter{db: db}, nil
}

// Next atomically returns the next sequence number and increments the counter.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var seq int64
	err := sc.db.QueryRowContext(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}

// eventRepo implements EventRepo with raw SQL.
type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *eventRepo) AppendAnswer(ctx context.Context, data AnswerEventData) error {
	if data.SessionID == "" || data.QuestionID == "" {
		return fmt.Errorf("append answer: session and question ids are required")
	}

	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO answer_events (sequence, session_id, question_id, value, timestamp) VALUES (?, ?, ?, ?, ?)`,
		seqNum, data.SessionID, data.QuestionID, data.Value, time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("save answer event: %w", err)
	}
	return nil
}

func (r *eventRepo) AnswerEvents(ctx context.Context, sessionID string, opts QueryOpts) ([]AnswerEvent, error) {
	f := filter{seqCol: "sequence", timeCol: "timestamp"}
	f.where("session_id = ?", sessionID)
	f.apply(opts)

	rows, err := r.db.QueryContext(ctx,
		`SELECT sequence, session_id, question_id, value, timestamp FROM answer_events`+
			f.clause()+` ORDER BY sequence ASC`+limitClause(opts.Limit),
		f.args...,
	)
	if err != nil {
		return nil, fmt.Errorf("query answer events: %w", err)
	}
	defer rows.Close()

	var events []AnswerEvent
	for rows.Next() {
		var (
			e  AnswerEvent
			ts int64
		)
		if err := rows.Scan(&e.Sequence, &e.SessionID, &e.QuestionID, &e.Value, &ts); err != nil {
			return nil, fmt.Errorf("scan answer event: %w", err)
		}
		e.Timestamp = time.UnixMilli(ts).UTC()
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read answer events: %w", err)
	}
	return events, nil
}

func (r *eventRepo) SessionAnswers(ctx context.Context, sessionID string) (questiontree.Answers, error) {
	events, err := r.AnswerEvents(ctx, sessionID, QueryOpts{})
	if err != nil {
		return nil, err
	}

	answers := make(questiontree.Answers)
	for _, e := range events {
		if e.Value == "" {
			delete(answers, e.QuestionID)
			continue
		}
		answers[e.QuestionID] = e.Value
	}
	return answers, nil
}

func (r *eventRepo) Sessions(ctx context.Context, opts QueryOpts) ([]SessionInfo, error) {
	f := filter{seqCol: "sequence", timeCol: "timestamp"}
	f.apply(opts)

	rows, err := r.db.QueryContext(ctx,
		`SELECT session_id, COUNT(*), MIN(timestamp), MAX(timestamp) FROM answer_events`+
			f.clause()+` GROUP BY session_id ORDER BY MAX(sequence) DESC`+limitClause(opts.Limit),
		f.args...,
	)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionInfo
	for rows.Next() {
		var (
			info        SessionInfo
			first, last int64
		)
		if err := rows.Scan(&info.SessionID, &info.Events, &first, &last); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		info.FirstSeen = time.UnixMilli(first).UTC()
		info.LastSeen = time.UnixMilli(last).UTC()
		out = append(out, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read sessions: %w", err)
	}
	return out, nil
}

// filter builds a WHERE clause from QueryOpts.
type filter struct {
	seqCol  string
	timeCol string
	conds   []string
	args    []any
}

func (f *filter) where(cond string, args ...any) {
	f.conds = append(f.conds, cond)
	f.args = append(f.args, args...)
}

func (f *filter) apply(opts QueryOpts) {
	if opts.After > 0 {
		f.where(f.seqCol+" > ?", opts.After)
	}
	if opts.Before > 0 {
		f.where(f.seqCol+" < ?", opts.Before)
	}
	if !opts.From.IsZero() {
		f.where(f.timeCol+" >= ?", opts.From.UTC().UnixMilli())
	}
	if !opts.To.IsZero() {
		f.where(f.timeCol+" <= ?", opts.To.UTC().UnixMilli())
	}
}

func (f *filter) clause() string {
	if len(f.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(f.conds, " AND ")
}

func limitClause(limit int) string {
	if limit <= 0 {
		return ""
	}
	return fmt.Sprintf(" LIMIT %d", limit)
}
