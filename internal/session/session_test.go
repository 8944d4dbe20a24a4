package session

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/fieldsurvey/internal/questiontree"
	"github.com/abhisek/fieldsurvey/internal/store"
)

func testSchema(t *testing.T) *questiontree.Schema {
	t.Helper()
	tpl := &questiontree.Survey{
		Title:   "Sampling",
		Version: "1",
		Pages: []questiontree.Page{
			{
				{
					Kind:      questiontree.KindMultipleChoice,
					Text:      "Did you collect samples?",
					Responses: []string{"Yes", "No"},
					FollowUps: map[string]questiontree.FollowUp{
						"0": questiontree.Single(&questiontree.Node{Kind: questiontree.KindText, Text: "How many?"}),
					},
				},
				{Kind: questiontree.KindRanked, Text: "How confident are you?"},
			},
			{
				{Kind: questiontree.KindInstruction, Text: "Almost done."},
				{Kind: questiontree.KindText, Text: "Any comments?"},
			},
			{
				{Kind: questiontree.KindInstruction, Text: "Thank you."},
			},
		},
	}
	s, err := questiontree.Assign(tpl)
	require.NoError(t, err)
	return s
}

type fakeSubmitter struct {
	saved []*store.Submission
	err   error
}

func (f *fakeSubmitter) Save(_ context.Context, sub *store.Submission) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, sub)
	return nil
}

type fakeRecorder struct {
	events []store.AnswerEventData
	err    error
}

func (f *fakeRecorder) AppendAnswer(_ context.Context, data store.AnswerEventData) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, data)
	return nil
}

func bufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

func TestNew_Defaults(t *testing.T) {
	s := New(testSchema(t), Options{})
	assert.NotEmpty(t, s.ID())
	assert.Equal(t, 0, s.Page())
	assert.Equal(t, 3, s.PageCount())
	assert.False(t, s.Submitted())
	assert.False(t, s.IsLastPage())

	id, ok := s.FirstUnanswered()
	require.True(t, ok)
	assert.Equal(t, "0-0", id)
}

func TestSetAnswer_UnknownQuestion(t *testing.T) {
	s := New(testSchema(t), Options{})
	ctx := context.Background()

	for _, id := range []string{"9-9", questiontree.MissingID, ""} {
		err := s.SetAnswer(ctx, id, "1")
		assert.ErrorIs(t, err, ErrUnknownQuestion, "id %q", id)
	}
	assert.Equal(t, 0, s.Answers().Len())
}

func TestNavigation(t *testing.T) {
	s := New(testSchema(t), Options{})
	ctx := context.Background()

	assert.ErrorIs(t, s.Back(), ErrFirstPage)
	assert.ErrorIs(t, s.Advance(ctx), ErrPageIncomplete)

	require.NoError(t, s.SetAnswer(ctx, "0-0", "0"))
	id, ok := s.FirstUnanswered()
	require.True(t, ok)
	assert.Equal(t, "0-0.0.0", id, "revealed follow-up comes before the next sibling")

	require.NoError(t, s.SetAnswer(ctx, "0-0.0.0", "12"))
	require.NoError(t, s.SetAnswer(ctx, "0-1", "4"))
	assert.True(t, s.PageComplete())

	require.NoError(t, s.Advance(ctx))
	assert.Equal(t, 1, s.Page())
	assert.False(t, s.Submitted())

	id, ok = s.FirstUnanswered()
	require.True(t, ok)
	assert.Equal(t, "1-1", id, "instructions are never reported")

	require.NoError(t, s.Back())
	assert.Equal(t, 0, s.Page())
	assert.True(t, s.PageComplete(), "going back keeps answers")
}

func TestAdvance_SubmitsOnLastPage(t *testing.T) {
	sub := &fakeSubmitter{}
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s := New(testSchema(t), Options{ID: "sess", Submitter: sub, Now: func() time.Time { return now }})
	ctx := context.Background()

	require.NoError(t, s.SetAnswer(ctx, "0-0", "1"))
	require.NoError(t, s.SetAnswer(ctx, "0-1", "3"))
	require.NoError(t, s.Advance(ctx))
	require.NoError(t, s.SetAnswer(ctx, "1-1", "none"))
	require.NoError(t, s.Advance(ctx))

	assert.True(t, s.IsLastPage())
	require.True(t, s.Submitted())
	require.Len(t, sub.saved, 1)

	got := sub.saved[0]
	assert.Equal(t, "sess", got.SessionID)
	assert.Equal(t, "Sampling", got.SurveyTitle)
	assert.Equal(t, "1", got.SurveyVersion)
	assert.Equal(t, now, got.SubmittedAt)
	assert.Equal(t, []questiontree.OutputRecord{
		{ID: "0-0", Text: "Did you collect samples?", Kind: "MultipleChoice", Value: "1"},
		{ID: "0-1", Text: "How confident are you?", Kind: "Ranked", Value: "3"},
		{ID: "1-1", Text: "Any comments?", Kind: "Text", Value: "none"},
	}, got.Responses)

	assert.ErrorIs(t, s.Advance(ctx), ErrSubmitted)
	assert.ErrorIs(t, s.Back(), ErrSubmitted)
	assert.ErrorIs(t, s.SetAnswer(ctx, "1-1", "more"), ErrSubmitted)
	assert.Len(t, sub.saved, 1)
}

func TestSubmit_PersistenceFailureIsLogged(t *testing.T) {
	logger, buf := bufferLogger()
	sub := &fakeSubmitter{err: errors.New("disk full")}
	s := New(testSchema(t), Options{Submitter: sub, Logger: logger})
	ctx := context.Background()

	require.NoError(t, s.SetAnswer(ctx, "0-0", "1"))
	require.NoError(t, s.SetAnswer(ctx, "0-1", "3"))
	require.NoError(t, s.Advance(ctx))
	require.NoError(t, s.SetAnswer(ctx, "1-1", "x"))
	require.NoError(t, s.Advance(ctx))

	assert.True(t, s.Submitted())
	assert.Contains(t, buf.String(), "failed to save submission")
	assert.Contains(t, buf.String(), "disk full")
}

func TestSetAnswer_RecorderFailureKeepsAnswer(t *testing.T) {
	logger, buf := bufferLogger()
	rec := &fakeRecorder{err: errors.New("locked")}
	s := New(testSchema(t), Options{Recorder: rec, Logger: logger})

	require.NoError(t, s.SetAnswer(context.Background(), "0-1", "5"))
	v, ok := s.Answers().Answer("0-1")
	assert.True(t, ok)
	assert.Equal(t, "5", v)
	assert.Contains(t, buf.String(), "failed to record answer")
}

func TestSetAnswer_Records(t *testing.T) {
	rec := &fakeRecorder{}
	s := New(testSchema(t), Options{ID: "sess", Recorder: rec})
	ctx := context.Background()

	require.NoError(t, s.SetAnswer(ctx, "0-0", "0"))
	require.NoError(t, s.SetAnswer(ctx, "0-0", ""))

	assert.Equal(t, []store.AnswerEventData{
		{SessionID: "sess", QuestionID: "0-0", Value: "0"},
		{SessionID: "sess", QuestionID: "0-0", Value: ""},
	}, rec.events)
	_, ok := s.Answers().Answer("0-0")
	assert.False(t, ok, "empty value clears the answer")
}

func TestOutput_OrphanAndRestore(t *testing.T) {
	s := New(testSchema(t), Options{})
	ctx := context.Background()

	require.NoError(t, s.SetAnswer(ctx, "0-0", "0"))
	require.NoError(t, s.SetAnswer(ctx, "0-0.0.0", "7"))
	assert.Len(t, s.Output(), 2)

	require.NoError(t, s.SetAnswer(ctx, "0-0", "1"))
	out := s.Output()
	require.Len(t, out, 1)
	assert.Equal(t, "0-0", out[0].ID)
	_, kept := s.Answers().Answer("0-0.0.0")
	assert.True(t, kept, "orphaned answers stay in the store")

	require.NoError(t, s.SetAnswer(ctx, "0-0", "0"))
	out = s.Output()
	require.Len(t, out, 2)
	assert.Equal(t, "7", out[1].Value)
}

func TestSubmit_SinglePage(t *testing.T) {
	tpl := &questiontree.Survey{Pages: []questiontree.Page{{
		{Kind: questiontree.KindRanked, Text: "Rate it"},
	}}}
	schema, err := questiontree.Assign(tpl)
	require.NoError(t, err)

	sub := &fakeSubmitter{}
	s := New(schema, Options{Submitter: sub})
	ctx := context.Background()

	assert.True(t, s.IsLastPage())
	assert.ErrorIs(t, s.Advance(ctx), ErrLastPage)
	assert.ErrorIs(t, s.Submit(ctx), ErrPageIncomplete)

	require.NoError(t, s.SetAnswer(ctx, "0-0", "2"))
	require.NoError(t, s.Submit(ctx))
	require.Len(t, sub.saved, 1)
	assert.ErrorIs(t, s.Submit(ctx), ErrSubmitted)
}

func TestResume(t *testing.T) {
	st, err := store.Open("file:session_resume?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	schema := testSchema(t)
	ctx := context.Background()

	first := New(schema, Options{Recorder: st.EventRepo()})
	require.NoError(t, first.SetAnswer(ctx, "0-0", "0"))
	require.NoError(t, first.SetAnswer(ctx, "0-0.0.0", "3"))
	require.NoError(t, first.SetAnswer(ctx, "0-1", "2"))

	resumed, err := Resume(ctx, schema, st.EventRepo(), first.ID(), Options{})
	require.NoError(t, err)
	assert.Equal(t, first.ID(), resumed.ID())
	assert.Equal(t, 1, resumed.Page(), "complete pages are skipped")
	assert.Equal(t, first.Answers().Snapshot(), resumed.Answers().Snapshot())

	require.NoError(t, resumed.SetAnswer(ctx, "1-1", "ok"))
	again, err := Resume(ctx, schema, st.EventRepo(), first.ID(), Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, again.Page(), "never resumes onto the conclusion page")
	assert.False(t, again.Submitted())

	fresh, err := Resume(ctx, schema, st.EventRepo(), "unknown", Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, fresh.Page())
}

func TestProgress(t *testing.T) {
	s := New(testSchema(t), Options{})
	ctx := context.Background()

	p := s.Progress()
	assert.Equal(t, Progress{Page: 0, PageCount: 3, Answered: 0, Total: 3}, p)

	require.NoError(t, s.SetAnswer(ctx, "0-0", "0"))
	p = s.Progress()
	assert.Equal(t, 1, p.Answered)
	assert.Equal(t, 4, p.Total, "revealed follow-up joins the total")
}

func TestAnswerStore_Concurrent(t *testing.T) {
	st := NewAnswerStore(nil)
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				id := fmt.Sprintf("0-%d", i%10)
				st.Set(id, fmt.Sprint(w))
				st.Answer(id)
				_ = st.Snapshot()
			}
		}(w)
	}
	wg.Wait()
	assert.Equal(t, 10, st.Len())
}

func TestAnswerStore_EmptyValueKeepsEntry(t *testing.T) {
	st := NewAnswerStore(nil)
	st.Set("0-0", "1")
	st.Set("0-0", "")

	_, ok := st.Answer("0-0")
	assert.False(t, ok, "empty value reads as unanswered")
	assert.Equal(t, 1, st.Len())
	assert.Contains(t, st.Snapshot(), "0-0")
}

func TestAnswerStore_SeedIsCopied(t *testing.T) {
	seed := questiontree.Answers{"0-0": "1"}
	st := NewAnswerStore(seed)
	st.Set("0-0", "2")
	assert.Equal(t, "1", seed["0-0"])

	snap := st.Snapshot()
	snap["0-0"] = "3"
	v, _ := st.Answer("0-0")
	assert.Equal(t, "2", v)
}
