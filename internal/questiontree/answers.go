package questiontree

// AnswerLookup reads submitted answers keyed by node identifier.
// Traversals only ever read through it.
type AnswerLookup interface {
	// Answer returns the stored value for id and whether one is present.
	Answer(id string) (string, bool)
}

// Answers is the plain map form of an answer store.
type Answers map[string]string

// Answer treats empty values as absent and never matches MissingID.
func (a Answers) Answer(id string) (string, bool) {
	if id == MissingID {
		return "", false
	}
	v, ok := a[id]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Clone returns an independent copy of a.
func (a Answers) Clone() Answers {
	out := make(Answers, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}
