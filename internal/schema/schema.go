// Package schema defines the canonical design record types and the
// schema-description interpreter used to validate producer output.
package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// DesignRecord is the canonical structured artifact produced for one problem.
type DesignRecord struct {
	Title               string      `json:"title"`
	Summary             string      `json:"summary"`
	Components          []Component `json:"components"`
	ArchitectureDiagram string      `json:"architecture_diagram"`
	SequenceDiagram     string      `json:"sequence_diagram"`
	Tradeoffs           []Tradeoff  `json:"tradeoffs"`
	Risks               []string    `json:"risks,omitempty"`
}

// Component describes one building block of the proposed design.
type Component struct {
	Name           string `json:"name"`
	Responsibility string `json:"responsibility"`
	Technology     string `json:"technology,omitempty"`
}

// Tradeoff records one design decision with its weighted rationale.
type Tradeoff struct {
	Decision  string `json:"decision"`
	Rationale string `json:"rationale"`
	Weight    int    `json:"weight"`
}

// Type enumerates the value shapes a Schema can describe.
type Type string

const (
	TypeObject  Type = "object"
	TypeArray   Type = "array"
	TypeString  Type = "string"
	TypeInteger Type = "integer"
	TypeNumber  Type = "number"
	TypeBoolean Type = "boolean"
)

// Schema is a minimal schema description: required top-level keys, per-field
// shape, enums, and numeric bounds. The JSON tags make a Schema marshal to a
// standard JSON Schema fragment, which is what providers with native
// schema-constrained decoding expect.
type Schema struct {
	Type        Type               `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
	Minimum     *float64           `json:"minimum,omitempty"`
	Maximum     *float64           `json:"maximum,omitempty"`
}

// Issue records a single validation failure: the dotted/indexed path of the
// offending field and a message precise enough to show verbatim to the
// producer as corrective feedback.
type Issue struct {
	Path    string
	Message string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s", i.Path, i.Message)
}

// Float returns a pointer to v, for use in Minimum/Maximum literals.
func Float(v float64) *float64 { return &v }

// JSONMap marshals the schema into a generic map, the form provider SDKs
// accept for native schema-constrained decoding.
func (s *Schema) JSONMap() (map[string]any, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("schema: marshal: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("schema: unmarshal: %w", err)
	}
	return m, nil
}

// Validate checks value against the schema description. On success it returns
// the value coerced to the schema's canonical shape (declared properties only,
// integers as int64) and a nil issue list. On failure it returns one Issue per
// violated constraint.
func (s *Schema) Validate(value any) (any, []Issue) {
	var issues []Issue
	out := s.validate("", value, &issues)
	if len(issues) > 0 {
		return nil, issues
	}
	return out, nil
}

func (s *Schema) validate(path string, value any, issues *[]Issue) any {
	switch s.Type {
	case TypeObject:
		return s.validateObject(path, value, issues)
	case TypeArray:
		return s.validateArray(path, value, issues)
	case TypeString:
		return s.validateString(path, value, issues)
	case TypeInteger, TypeNumber:
		return s.validateNumeric(path, value, issues)
	case TypeBoolean:
		b, ok := value.(bool)
		if !ok {
			*issues = append(*issues, Issue{pathOrRoot(path), fmt.Sprintf("expected a boolean, got %s", typeName(value))})
			return nil
		}
		return b
	default:
		*issues = append(*issues, Issue{pathOrRoot(path), fmt.Sprintf("schema declares unknown type %q", s.Type)})
		return nil
	}
}

func (s *Schema) validateObject(path string, value any, issues *[]Issue) any {
	obj, ok := value.(map[string]any)
	if !ok {
		*issues = append(*issues, Issue{pathOrRoot(path), fmt.Sprintf("expected an object, got %s", typeName(value))})
		return nil
	}
	for _, key := range s.Required {
		if _, present := obj[key]; !present {
			*issues = append(*issues, Issue{joinPath(path, key), "required key is missing"})
		}
	}
	out := make(map[string]any, len(s.Properties))
	for key, field := range s.Properties {
		v, present := obj[key]
		if !present {
			continue
		}
		out[key] = field.validate(joinPath(path, key), v, issues)
	}
	return out
}

func (s *Schema) validateArray(path string, value any, issues *[]Issue) any {
	arr, ok := value.([]any)
	if !ok {
		*issues = append(*issues, Issue{pathOrRoot(path), fmt.Sprintf("expected an array, got %s", typeName(value))})
		return nil
	}
	out := make([]any, 0, len(arr))
	for i, elem := range arr {
		elemPath := fmt.Sprintf("%s[%d]", pathOrRoot(path), i)
		if path == "" {
			elemPath = fmt.Sprintf("[%d]", i)
		}
		if s.Items == nil {
			out = append(out, elem)
			continue
		}
		out = append(out, s.Items.validate(elemPath, elem, issues))
	}
	return out
}

func (s *Schema) validateString(path string, value any, issues *[]Issue) any {
	str, ok := value.(string)
	if !ok {
		*issues = append(*issues, Issue{pathOrRoot(path), fmt.Sprintf("expected a string, got %s", typeName(value))})
		return nil
	}
	if len(s.Enum) > 0 {
		for _, allowed := range s.Enum {
			if str == allowed {
				return str
			}
		}
		*issues = append(*issues, Issue{pathOrRoot(path), fmt.Sprintf("value %q is not one of [%s]", str, strings.Join(s.Enum, ", "))})
		return nil
	}
	return str
}

func (s *Schema) validateNumeric(path string, value any, issues *[]Issue) any {
	// encoding/json decodes every JSON number as float64.
	num, ok := value.(float64)
	if !ok {
		*issues = append(*issues, Issue{pathOrRoot(path), fmt.Sprintf("expected a number, got %s", typeName(value))})
		return nil
	}
	if s.Type == TypeInteger && math.Trunc(num) != num {
		*issues = append(*issues, Issue{pathOrRoot(path), fmt.Sprintf("expected an integer, got %v", num)})
		return nil
	}
	if s.Minimum != nil && num < *s.Minimum {
		*issues = append(*issues, Issue{pathOrRoot(path), fmt.Sprintf("value %v is below the minimum of %v", num, *s.Minimum)})
		return nil
	}
	if s.Maximum != nil && num > *s.Maximum {
		*issues = append(*issues, Issue{pathOrRoot(path), fmt.Sprintf("value %v exceeds the maximum of %v", num, *s.Maximum)})
		return nil
	}
	if s.Type == TypeInteger {
		return int64(num)
	}
	return num
}

// joinPath builds a dotted field path; indices are appended by validateArray.
func joinPath(base, key string) string {
	if base == "" {
		return key
	}
	return base + "." + key
}

// pathOrRoot substitutes "$" for the empty root path in issue output.
func pathOrRoot(path string) string {
	if path == "" {
		return "$"
	}
	return path
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "a boolean"
	case float64:
		return "a number"
	case string:
		return "a string"
	case []any:
		return "an array"
	case map[string]any:
		return "an object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
