package questiontree

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// Validate checks a template for authoring mistakes and reports all of them
// in one *multierror.Error. The traversals stay total on a template that
// fails validation; this is a lint, not a precondition.
func Validate(tpl *Survey) error {
	if tpl == nil {
		return fmt.Errorf("survey template is nil")
	}
	var result *multierror.Error
	if len(tpl.Pages) == 0 {
		result = multierror.Append(result, fmt.Errorf("survey has no pages"))
	}
	for p, page := range tpl.Pages {
		for i, n := range page {
			path := fmt.Sprintf("page %d question %d", p, i)
			result = validateNode(result, path, n)
		}
	}
	return result.ErrorOrNil()
}

func validateNode(result *multierror.Error, path string, n *Node) *multierror.Error {
	if n == nil {
		return multierror.Append(result, fmt.Errorf("%s: missing question", path))
	}
	if !n.Kind.Valid() {
		result = multierror.Append(result, fmt.Errorf("%s: unknown kind %d", path, int(n.Kind)))
	}
	if strings.TrimSpace(n.Text) == "" {
		result = multierror.Append(result, fmt.Errorf("%s: empty text", path))
	}

	switch n.Kind {
	case KindMultipleChoice:
		if len(n.Responses) == 0 {
			result = multierror.Append(result, fmt.Errorf("%s: multiple choice question has no responses", path))
		}
	case KindInstruction, KindRanked, KindText:
		if len(n.Responses) > 0 {
			result = multierror.Append(result, fmt.Errorf("%s: responses are only used by MultipleChoice, not %s", path, n.Kind))
		}
	}

	if len(n.FollowUps) > 0 && !n.Kind.NeedsAnswer() {
		result = multierror.Append(result, fmt.Errorf("%s: %s question has follow-ups that can never be revealed", path, n.Kind))
	}

	for _, key := range n.FollowUpKeys() {
		f := n.FollowUps[key]
		keyPath := fmt.Sprintf("%s follow-up %q", path, key)
		if err := checkFollowUpKey(n, key); err != nil {
			result = multierror.Append(result, fmt.Errorf("%s: %w", keyPath, err))
		}
		if f.Shape != ShapeSingle && f.Shape != ShapeSequence {
			result = multierror.Append(result, fmt.Errorf("%s: malformed entry is neither a question nor a list and will be ignored", keyPath))
			continue
		}
		for j, child := range f.Nodes {
			result = validateNode(result, fmt.Sprintf("%s item %d", keyPath, j), child)
		}
	}
	return result
}

// checkFollowUpKey reports keys that no answer of this kind can produce.
func checkFollowUpKey(n *Node, key string) error {
	if key == "" {
		return fmt.Errorf("empty answer key")
	}
	if strings.Contains(key, ".") {
		return fmt.Errorf("answer key must not contain '.'")
	}
	switch n.Kind {
	case KindMultipleChoice:
		idx, err := strconv.Atoi(key)
		if err != nil || idx < 0 || idx >= len(n.Responses) {
			return fmt.Errorf("answer key is not a response index in [0, %d)", len(n.Responses))
		}
	case KindRanked:
		if key == AnyAnswer {
			return nil
		}
		if _, err := strconv.Atoi(key); err != nil {
			return fmt.Errorf("ranked answer key must be an integer or %q", AnyAnswer)
		}
	case KindText, KindInstruction:
	}
	return nil
}
