// Package surveydef reads survey templates from YAML or JSON documents.
package surveydef

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/fieldsurvey/internal/questiontree"
)

// Format is the encoding of a template document.
type Format int

const (
	FormatYAML Format = iota
	FormatJSON
)

// FormatFromPath picks the format from a file extension. Anything that is
// not .json is read as YAML, which also accepts JSON.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

type document struct {
	Title   string         `json:"title"`
	Version string         `json:"version"`
	Pages   []documentPage `json:"pages"`
}

type documentPage struct {
	Questions []*questiontree.Node `json:"questions"`
}

// Load reads and parses the template at path.
func Load(path string) (*questiontree.Survey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template: %w", err)
	}
	s, err := Parse(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a template document and checks it against the document
// schema. It does not run questiontree.Validate.
func Parse(data []byte, format Format) (*questiontree.Survey, error) {
	raw := data
	if format == FormatYAML {
		var v any
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
		b, err := json.Marshal(normalize(v))
		if err != nil {
			return nil, fmt.Errorf("convert yaml to json: %w", err)
		}
		raw = b
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	sch, err := compiledSchema()
	if err != nil {
		return nil, err
	}
	if err := sch.Validate(inst); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode template: %w", err)
	}

	survey := &questiontree.Survey{
		Title:   doc.Title,
		Version: doc.Version,
		Pages:   make([]questiontree.Page, len(doc.Pages)),
	}
	for i, p := range doc.Pages {
		survey.Pages[i] = questiontree.Page(p.Questions)
	}
	return survey, nil
}

// normalize turns YAML mappings with non-string keys (e.g. `0:` follow-up
// keys) into string-keyed maps so the value can be encoded as JSON.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = normalize(val)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalize(val)
		}
		return out
	case []any:
		for i, val := range t {
			t[i] = normalize(val)
		}
		return t
	default:
		return v
	}
}

//go:embed default.yaml
var defaultTemplate []byte

var loadDefault = sync.OnceValues(func() (*questiontree.Survey, error) {
	return Parse(defaultTemplate, FormatYAML)
})

// Default returns the built-in dune field survey. Callers receive the shared
// template and must not modify it; questiontree.Assign copies it.
func Default() (*questiontree.Survey, error) {
	return loadDefault()
}
