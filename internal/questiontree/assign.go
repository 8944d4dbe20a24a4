package questiontree

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/mitchellh/copystructure"
)

// Schema is a survey whose every node carries its hierarchical identifier.
// It is built once by Assign and read by all traversals afterwards.
type Schema struct {
	title   string
	version string
	pages   []Page
	byID    map[string]*Node
	order   []string
}

// Assign deep-copies the template and stamps identifiers onto the copy.
// The i-th top-level node of page p gets "p-i"; the j-th child filed under
// answer key k of a node with id P gets "P.k.j". The template itself is
// never written, so it can be a shared constant.
func Assign(tpl *Survey) (*Schema, error) {
	if tpl == nil {
		return nil, fmt.Errorf("assign identifiers: nil survey")
	}
	cp, err := copystructure.Copy(tpl)
	if err != nil {
		return nil, fmt.Errorf("copy survey template: %w", err)
	}
	survey := cp.(*Survey)

	s := &Schema{
		title:   survey.Title,
		version: survey.Version,
		pages:   survey.Pages,
		byID:    make(map[string]*Node),
	}
	for p, page := range s.pages {
		stampPage(p, page)
	}
	for _, page := range s.pages {
		s.index(page)
	}
	return s, nil
}

// stampPage assigns ids to a page's top-level nodes and all their follow-ups.
func stampPage(p int, nodes []*Node) {
	for i, n := range nodes {
		if n == nil {
			continue
		}
		n.ID = strconv.Itoa(p) + "-" + strconv.Itoa(i)
		stampFollowUps(n)
	}
}

func stampFollowUps(parent *Node) {
	for key, f := range parent.FollowUps {
		for j, child := range f.Nodes {
			if child == nil {
				continue
			}
			child.ID = parent.ID + "." + key + "." + strconv.Itoa(j)
			stampFollowUps(child)
		}
	}
}

// index records every node, reachable or not, in document order.
// On an id collision the first node wins.
func (s *Schema) index(nodes []*Node) {
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if _, dup := s.byID[n.ID]; !dup {
			s.byID[n.ID] = n
		}
		s.order = append(s.order, n.ID)
		for _, key := range n.FollowUpKeys() {
			s.index(n.FollowUps[key].Nodes)
		}
	}
}

func (s *Schema) Title() string   { return s.title }
func (s *Schema) Version() string { return s.version }

// PageCount returns the number of pages.
func (s *Schema) PageCount() int { return len(s.pages) }

// Page returns the top-level nodes of page i, or nil when i is out of range.
func (s *Schema) Page(i int) Page {
	if i < 0 || i >= len(s.pages) {
		return nil
	}
	return s.pages[i]
}

// Pages returns all pages in order.
func (s *Schema) Pages() []Page { return s.pages }

// Node looks up a node by identifier.
func (s *Schema) Node(id string) (*Node, bool) {
	n, ok := s.byID[id]
	return n, ok
}

// IDs returns every assigned identifier in document order, including nodes
// inside follow-ups that are not currently reachable.
func (s *Schema) IDs() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Flatten is Flatten over all pages of the schema.
func (s *Schema) Flatten(answers AnswerLookup) []OutputRecord {
	return Flatten(answers, s.pages)
}

// FollowUpKeys returns the node's follow-up keys, numeric keys first in
// numeric order, then the rest lexically.
func (n *Node) FollowUpKeys() []string {
	keys := make([]string, 0, len(n.FollowUps))
	for k := range n.FollowUps {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ni, errI := strconv.Atoi(keys[i])
		nj, errJ := strconv.Atoi(keys[j])
		switch {
		case errI == nil && errJ == nil:
			return ni < nj
		case errI == nil:
			return true
		case errJ == nil:
			return false
		default:
			return keys[i] < keys[j]
		}
	})
	return keys
}
