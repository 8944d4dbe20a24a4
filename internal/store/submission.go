package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// submissionRepo implements SubmissionRepo with raw SQL. Responses are kept
// as a JSON array of output records.
type submissionRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *submissionRepo) Save(ctx context.Context, sub *Submission) error {
	if sub.ID == "" {
		sub.ID = uuid.New().String()
	}
	if sub.SubmittedAt.IsZero() {
		sub.SubmittedAt = time.Now().UTC()
	}

	responses, err := json.Marshal(sub.Responses)
	if err != nil {
		return fmt.Errorf("marshal responses: %w", err)
	}

	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO submissions (id, sequence, session_id, survey_title, survey_version, submitted_at, responses)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sub.ID, seqNum, sub.SessionID, sub.SurveyTitle, sub.SurveyVersion,
		sub.SubmittedAt.UTC().UnixMilli(), string(responses),
	)
	if err != nil {
		return fmt.Errorf("save submission: %w", err)
	}
	sub.Sequence = seqNum
	return nil
}

const submissionColumns = `id, sequence, session_id, survey_title, survey_version, submitted_at, responses`

func (r *submissionRepo) Get(ctx context.Context, id string) (*Submission, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+submissionColumns+` FROM submissions WHERE id = ?`, id)
	sub, err := scanSubmission(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query submission: %w", err)
	}
	return sub, nil
}

func (r *submissionRepo) List(ctx context.Context, opts QueryOpts) ([]Submission, error) {
	f := filter{seqCol: "sequence", timeCol: "submitted_at"}
	f.apply(opts)

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+submissionColumns+` FROM submissions`+f.clause()+
			` ORDER BY sequence DESC`+limitClause(opts.Limit),
		f.args...,
	)
	if err != nil {
		return nil, fmt.Errorf("query submissions: %w", err)
	}
	defer rows.Close()

	var out []Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		out = append(out, *sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read submissions: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSubmission(s scanner) (*Submission, error) {
	var (
		sub       Submission
		submitted int64
		responses string
	)
	err := s.Scan(&sub.ID, &sub.Sequence, &sub.SessionID, &sub.SurveyTitle,
		&sub.SurveyVersion, &submitted, &responses)
	if err != nil {
		return nil, err
	}
	sub.SubmittedAt = time.UnixMilli(submitted).UTC()
	if err := json.Unmarshal([]byte(responses), &sub.Responses); err != nil {
		return nil, fmt.Errorf("unmarshal responses: %w", err)
	}
	return &sub, nil
}
