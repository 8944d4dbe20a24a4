package questiontree

import "fmt"

// Kind identifies what a question tile asks of the respondent.
type Kind int

const (
	KindInstruction    Kind = iota // Display-only text, never answered
	KindMultipleChoice             // Pick one of Responses; answer is the index
	KindRanked                     // Pick a point on a scale; answer is the value
	KindText                       // Free text or number entry
)

// AllKinds returns every kind in declaration order.
func AllKinds() []Kind {
	return []Kind{KindInstruction, KindMultipleChoice, KindRanked, KindText}
}

// String returns the kind name as written in templates and output records.
func (k Kind) String() string {
	switch k {
	case KindInstruction:
		return "Instruction"
	case KindMultipleChoice:
		return "MultipleChoice"
	case KindRanked:
		return "Ranked"
	case KindText:
		return "Text"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindInstruction, KindMultipleChoice, KindRanked, KindText:
		return true
	default:
		return false
	}
}

// NeedsAnswer reports whether a node of this kind counts as unanswered
// until a value is stored for it.
func (k Kind) NeedsAnswer() bool {
	switch k {
	case KindInstruction:
		return false
	case KindMultipleChoice, KindRanked, KindText:
		return true
	default:
		return true
	}
}

// acceptsAnyKey reports whether follow-ups filed under AnyAnswer apply.
func (k Kind) acceptsAnyKey() bool {
	switch k {
	case KindRanked, KindText:
		return true
	case KindInstruction, KindMultipleChoice:
		return false
	default:
		return false
	}
}

// ParseKind converts a kind name back into a Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range AllKinds() {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown question kind %q", s)
}

func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("unknown question kind %d", int(k))
	}
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
