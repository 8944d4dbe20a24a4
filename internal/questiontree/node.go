package questiontree

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MissingID stands in for the identifier of a node that was never stamped
// by Assign. Lookups against it never match a stored answer, so such a
// node stays unanswered forever instead of failing a traversal.
const MissingID = "-1"

// AnyAnswer is the follow-up key that matches any present answer on Ranked
// and Text nodes when no exact key matches.
const AnyAnswer = "*"

// Node is one question or instruction tile.
type Node struct {
	ID        string              `json:"id,omitempty"`
	Kind      Kind                `json:"kind"`
	Text      string              `json:"text"`
	Responses []string            `json:"responses,omitempty"`
	Params    map[string]string   `json:"params,omitempty"`
	FollowUps map[string]FollowUp `json:"followUps,omitempty"`
}

// Ident returns the node identifier, or MissingID when none was assigned.
func (n *Node) Ident() string {
	if n == nil || n.ID == "" {
		return MissingID
	}
	return n.ID
}

// Param returns a rendering hint, or def when it is not set.
func (n *Node) Param(key, def string) string {
	if v, ok := n.Params[key]; ok && v != "" {
		return v
	}
	return def
}

// Shape records how a follow-up entry was written.
type Shape int

const (
	ShapeInvalid  Shape = iota // Neither a node nor a list; acts as no follow-up
	ShapeSingle                // A single child node
	ShapeSequence              // An ordered list of child nodes
)

// FollowUp is the sub-tree revealed by one answer key.
type FollowUp struct {
	Shape Shape
	Nodes []*Node
}

// Single files one child node under an answer key.
func Single(n *Node) FollowUp {
	return FollowUp{Shape: ShapeSingle, Nodes: []*Node{n}}
}

// Sequence files an ordered list of child nodes under an answer key.
func Sequence(nodes ...*Node) FollowUp {
	return FollowUp{Shape: ShapeSequence, Nodes: nodes}
}

// Children returns the child nodes in order, skipping nil entries.
// An invalid follow-up has no children.
func (f FollowUp) Children() []*Node {
	if f.Shape != ShapeSingle && f.Shape != ShapeSequence {
		return nil
	}
	out := make([]*Node, 0, len(f.Nodes))
	for _, n := range f.Nodes {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

func (f FollowUp) MarshalJSON() ([]byte, error) {
	switch f.Shape {
	case ShapeSingle:
		if len(f.Nodes) == 1 {
			return json.Marshal(f.Nodes[0])
		}
		return json.Marshal(f.Nodes)
	case ShapeSequence:
		return json.Marshal(f.Nodes)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts an object (single child) or an array (sequence).
// Any other value decodes to an invalid follow-up rather than an error, and
// array elements that are not objects decode to nil entries.
func (f *FollowUp) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 {
		*f = FollowUp{}
		return nil
	}

	switch trimmed[0] {
	case '{':
		var n Node
		if err := json.Unmarshal(trimmed, &n); err != nil {
			return fmt.Errorf("decode follow-up node: %w", err)
		}
		*f = Single(&n)
	case '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return fmt.Errorf("decode follow-up list: %w", err)
		}
		nodes := make([]*Node, len(raw))
		for i, r := range raw {
			r = bytes.TrimSpace(r)
			if len(r) == 0 || r[0] != '{' {
				continue
			}
			var n Node
			if err := json.Unmarshal(r, &n); err != nil {
				return fmt.Errorf("decode follow-up list item %d: %w", i, err)
			}
			nodes[i] = &n
		}
		*f = Sequence(nodes...)
	default:
		*f = FollowUp{}
	}
	return nil
}

// Page is an ordered list of top-level questions shown together.
type Page []*Node

// Survey is the author-provided template: an ordered list of pages.
// It is treated as immutable; Assign works on a copy.
type Survey struct {
	Title   string `json:"title,omitempty"`
	Version string `json:"version,omitempty"`
	Pages   []Page `json:"pages"`
}
