package questiontree

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAssign_FieldSurveyIDs(t *testing.T) {
	s := mustAssign(t, fieldSurvey())

	want := []string{
		"0-0",
		"0-1",
		"0-1.0.0",
		"0-1.0.1",
		"0-1.0.1.1.0",
		"0-1.1.0",
		"0-2",
		"0-2.*.0",
		"1-0",
	}
	if diff := cmp.Diff(want, s.IDs()); diff != "" {
		t.Errorf("IDs() mismatch (-want +got):\n%s", diff)
	}

	n, ok := s.Node("0-1.0.1.1.0")
	if !ok {
		t.Fatal("expected node 0-1.0.1.1.0 to be indexed")
	}
	if n.Text != "Describe the conditions." {
		t.Errorf("got text %q, want %q", n.Text, "Describe the conditions.")
	}
}

func TestAssign_DoesNotMutateTemplate(t *testing.T) {
	tpl := fieldSurvey()
	mustAssign(t, tpl)

	var check func(nodes []*Node)
	check = func(nodes []*Node) {
		for _, n := range nodes {
			if n.ID != "" {
				t.Errorf("template node %q was stamped with id %q", n.Text, n.ID)
			}
			for _, f := range n.FollowUps {
				check(f.Nodes)
			}
		}
	}
	for _, page := range tpl.Pages {
		check(page)
	}
}

func TestAssign_OverwritesTemplateIDs(t *testing.T) {
	tpl := &Survey{Pages: []Page{{&Node{ID: "custom", Kind: KindText, Text: "q"}}}}
	s := mustAssign(t, tpl)
	if got := s.Page(0)[0].ID; got != "0-0" {
		t.Errorf("got id %q, want %q", got, "0-0")
	}
}

func TestAssign_NilEntriesKeepPositions(t *testing.T) {
	tpl := &Survey{Pages: []Page{{
		nil,
		withFollowUps(choice("q", "a", "b"), map[string]FollowUp{
			"1": Sequence(nil, text("second slot")),
		}),
	}}}
	s := mustAssign(t, tpl)
	want := []string{"0-1", "0-1.1.1"}
	if diff := cmp.Diff(want, s.IDs()); diff != "" {
		t.Errorf("IDs() mismatch (-want +got):\n%s", diff)
	}
}

func TestAssign_Stable(t *testing.T) {
	a := mustAssign(t, fieldSurvey())
	b := mustAssign(t, fieldSurvey())
	if diff := cmp.Diff(a.IDs(), b.IDs()); diff != "" {
		t.Errorf("two assignments differ (-first +second):\n%s", diff)
	}

	// Assigning the same template value twice must also agree.
	tpl := fieldSurvey()
	c := mustAssign(t, tpl)
	d := mustAssign(t, tpl)
	if diff := cmp.Diff(c.IDs(), d.IDs()); diff != "" {
		t.Errorf("re-assignment of one template differs (-first +second):\n%s", diff)
	}
}

func TestAssign_NilSurvey(t *testing.T) {
	if _, err := Assign(nil); err == nil {
		t.Fatal("expected error for nil survey")
	}
}

func TestAssign_UniqueAcrossRandomSchemas(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for round := 0; round < 50; round++ {
		tpl := randomSurvey(rng)
		s := mustAssign(t, tpl)

		seen := make(map[string]bool)
		for _, id := range s.IDs() {
			if seen[id] {
				t.Fatalf("round %d: duplicate id %q", round, id)
			}
			seen[id] = true
		}
		if len(seen) != countNodes(tpl) {
			t.Errorf("round %d: got %d ids, want %d", round, len(seen), countNodes(tpl))
		}
	}
}

func TestSchema_PageOutOfRange(t *testing.T) {
	s := mustAssign(t, fieldSurvey())
	if s.PageCount() != 2 {
		t.Fatalf("got %d pages, want 2", s.PageCount())
	}
	if s.Page(-1) != nil || s.Page(2) != nil {
		t.Error("expected nil for out-of-range pages")
	}
}

func randomSurvey(rng *rand.Rand) *Survey {
	pages := make([]Page, 1+rng.IntN(3))
	for p := range pages {
		n := 1 + rng.IntN(4)
		for i := 0; i < n; i++ {
			pages[p] = append(pages[p], randomNode(rng, 0))
		}
	}
	return &Survey{Pages: pages}
}

func randomNode(rng *rand.Rand, depth int) *Node {
	n := choice(fmt.Sprintf("q%d", rng.IntN(1000)), "a", "b", "c")
	if depth >= 3 {
		return n
	}
	for key := 0; key < 3; key++ {
		switch rng.IntN(3) {
		case 0:
		case 1:
			if n.FollowUps == nil {
				n.FollowUps = map[string]FollowUp{}
			}
			n.FollowUps[fmt.Sprint(key)] = Single(randomNode(rng, depth+1))
		case 2:
			if n.FollowUps == nil {
				n.FollowUps = map[string]FollowUp{}
			}
			var children []*Node
			for j := 0; j < 1+rng.IntN(3); j++ {
				children = append(children, randomNode(rng, depth+1))
			}
			n.FollowUps[fmt.Sprint(key)] = Sequence(children...)
		}
	}
	return n
}

func countNodes(tpl *Survey) int {
	var count func(nodes []*Node) int
	count = func(nodes []*Node) int {
		total := 0
		for _, n := range nodes {
			if n == nil {
				continue
			}
			total++
			for _, f := range n.FollowUps {
				total += count(f.Nodes)
			}
		}
		return total
	}
	total := 0
	for _, p := range tpl.Pages {
		total += count(p)
	}
	return total
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
