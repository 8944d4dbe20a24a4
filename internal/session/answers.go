package session

import (
	"sync"

	"github.com/abhisek/fieldsurvey/internal/questiontree"
)

// AnswerStore is the live answer store for one session. It is safe for
// concurrent use and satisfies questiontree.AnswerLookup.
type AnswerStore struct {
	mu      sync.RWMutex
	answers questiontree.Answers
}

// NewAnswerStore creates a store seeded with a copy of initial.
func NewAnswerStore(initial questiontree.Answers) *AnswerStore {
	return &AnswerStore{answers: initial.Clone()}
}

// Answer returns the stored value for id. Empty values and the missing-id
// sentinel never match.
func (s *AnswerStore) Answer(id string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.answers.Answer(id)
}

// Set stores value for id. Entries are never removed: an empty value is
// kept and reads as unanswered. Answers inside follow-ups that become
// unreachable are kept too, so switching back restores them.
func (s *AnswerStore) Set(id, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.answers[id] = value
}

// Snapshot returns an independent copy of the stored answers.
func (s *AnswerStore) Snapshot() questiontree.Answers {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.answers.Clone()
}

// Len returns the number of stored answers, reachable or not.
func (s *AnswerStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.answers)
}
