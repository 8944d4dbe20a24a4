package questiontree

// OutputRecord is one answered question, ready for persistence.
type OutputRecord struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Kind  string `json:"type"`
	Value string `json:"value"`
}

// Flatten lists the reachable, answered, non-instruction nodes of all pages
// in display order, pages concatenated in order. Answers left behind in
// follow-ups that a later answer change made unreachable are not emitted,
// even though they remain in the store.
func Flatten(answers AnswerLookup, pages []Page) []OutputRecord {
	records := []OutputRecord{}
	for _, page := range pages {
		Walk(page, answers, func(n *Node, _ int) bool {
			if !n.Kind.NeedsAnswer() {
				return true
			}
			value, ok := answers.Answer(n.Ident())
			if !ok {
				return true
			}
			records = append(records, OutputRecord{
				ID:    n.Ident(),
				Text:  n.Text,
				Kind:  n.Kind.String(),
				Value: value,
			})
			return true
		})
	}
	return records
}
