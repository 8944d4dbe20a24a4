package session

import "github.com/abhisek/fieldsurvey/internal/questiontree"

// Progress counts the questions currently reachable across the survey.
type Progress struct {
	Page      int
	PageCount int
	Answered  int
	Total     int
}

// Progress reports how far the respondent is. Only reachable questions are
// counted, so the total moves as answers reveal or hide follow-ups.
func (s *Session) Progress() Progress {
	p := Progress{Page: s.page, PageCount: s.schema.PageCount()}
	for _, page := range s.schema.Pages() {
		questiontree.Walk(page, s.answers, func(n *questiontree.Node, _ int) bool {
			if !n.Kind.NeedsAnswer() {
				return true
			}
			p.Total++
			if questiontree.IsAnswered(n, s.answers) {
				p.Answered++
			}
			return true
		})
	}
	return p
}
