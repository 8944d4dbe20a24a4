package questiontree

import "testing"

func instruction(text string) *Node {
	return &Node{Kind: KindInstruction, Text: text}
}

func choice(text string, responses ...string) *Node {
	return &Node{Kind: KindMultipleChoice, Text: text, Responses: responses}
}

func ranked(text string) *Node {
	return &Node{Kind: KindRanked, Text: text}
}

func text(t string) *Node {
	return &Node{Kind: KindText, Text: t}
}

func withFollowUps(n *Node, f map[string]FollowUp) *Node {
	n.FollowUps = f
	return n
}

// fieldSurvey builds a two-page template with nested and wildcard follow-ups.
//
//	0-0           instruction
//	0-1           choice  "0" -> [0-1.0.0 text, 0-1.0.1 choice "1" -> 0-1.0.1.1.0 text]
//	                      "1" -> 0-1.1.0 text
//	0-2           ranked  "*" -> 0-2.*.0 text
//	1-0           text
func fieldSurvey() *Survey {
	return &Survey{
		Title:   "Dune field survey",
		Version: "test",
		Pages: []Page{
			{
				instruction("Answer the questions below about your field visit."),
				withFollowUps(choice("Did you visit the dune field?", "Yes", "No"), map[string]FollowUp{
					"0": Sequence(
						text("Which transects did you walk?"),
						withFollowUps(choice("Was the weather clear?", "Yes", "No"), map[string]FollowUp{
							"1": Single(text("Describe the conditions.")),
						}),
					),
					"1": Single(text("Why not?")),
				}),
				withFollowUps(ranked("How confident are you in your hypothesis?"), map[string]FollowUp{
					AnyAnswer: Single(text("Explain your rating.")),
				}),
			},
			{
				text("Any final comments?"),
			},
		},
	}
}

func mustAssign(t *testing.T, tpl *Survey) *Schema {
	t.Helper()
	s, err := Assign(tpl)
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	return s
}
