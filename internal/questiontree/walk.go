package questiontree

// Reachability is never cached. Every traversal below recomputes it while
// descending, through ActiveFollowUps, so the queries cannot drift apart
// from the answer store or from each other.

// ActiveFollowUps returns the children revealed by the node's stored answer.
// It returns nil when the node has no answer, no follow-ups, no entry for the
// answer, or a malformed entry. Instructions never reveal follow-ups, even
// when a value is stored under their id.
func (n *Node) ActiveFollowUps(answers AnswerLookup) []*Node {
	if n == nil || len(n.FollowUps) == 0 || !n.Kind.NeedsAnswer() {
		return nil
	}
	answer, ok := answers.Answer(n.Ident())
	if !ok {
		return nil
	}
	f, ok := n.FollowUps[answer]
	if !ok && n.Kind.acceptsAnyKey() {
		f, ok = n.FollowUps[AnyAnswer]
	}
	if !ok {
		return nil
	}
	return f.Children()
}

// Walk visits the reachable nodes of a page in display order: pre-order,
// left to right, each node followed by its active follow-ups before its
// next sibling. depth is 0 for top-level nodes. Returning false from fn
// stops the walk; Walk then returns false.
func Walk(nodes []*Node, answers AnswerLookup, fn func(n *Node, depth int) bool) bool {
	return walk(nodes, answers, 0, fn)
}

func walk(nodes []*Node, answers AnswerLookup, depth int, fn func(*Node, int) bool) bool {
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if !fn(n, depth) {
			return false
		}
		if !walk(n.ActiveFollowUps(answers), answers, depth+1, fn) {
			return false
		}
	}
	return true
}

// Reachable returns the identifiers of the currently reachable nodes in
// display order.
func Reachable(nodes []*Node, answers AnswerLookup) []string {
	var ids []string
	Walk(nodes, answers, func(n *Node, _ int) bool {
		ids = append(ids, n.Ident())
		return true
	})
	return ids
}

// IsAnswered reports whether the node needs no further input: instructions
// always count as answered, everything else once a value is stored.
func IsAnswered(n *Node, answers AnswerLookup) bool {
	if !n.Kind.NeedsAnswer() {
		return true
	}
	_, ok := answers.Answer(n.Ident())
	return ok
}

// FirstUnanswered returns the identifier of the first reachable node that
// still needs an answer. ok is false when the page is complete. Orphaned
// follow-ups are never reported because they are never visited.
func FirstUnanswered(nodes []*Node, answers AnswerLookup) (id string, ok bool) {
	Walk(nodes, answers, func(n *Node, _ int) bool {
		if IsAnswered(n, answers) {
			return true
		}
		id, ok = n.Ident(), true
		return false
	})
	return id, ok
}

// AllAnswered reports whether every reachable node of the page is answered.
// It always agrees with FirstUnanswered:
//
//	AllAnswered(a, q) == !ok where _, ok := FirstUnanswered(q, a)
func AllAnswered(answers AnswerLookup, nodes []*Node) bool {
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if !IsAnswered(n, answers) {
			return false
		}
		if children := n.ActiveFollowUps(answers); len(children) > 0 {
			if !AllAnswered(answers, children) {
				return false
			}
		}
	}
	return true
}
