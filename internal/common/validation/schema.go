package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Schema is a compiled JSON schema.
type Schema struct {
	schema *gojsonschema.Schema
}

// MustCompile compiles a JSON schema document and panics on error.
// Schemas are package-level literals, so a failure is a programming error.
func MustCompile(schemaJSON string) *Schema {
	s, err := Compile(schemaJSON)
	if err != nil {
		panic(err)
	}
	return s
}

func Compile(schemaJSON string) (*Schema, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Schema{schema: s}, nil
}

// ValidateDocument validates a Go value (maps, slices, scalars).
func (s *Schema) ValidateDocument(doc interface{}) (*ValidationResult, error) {
	result, err := s.schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("validate document: %w", err)
	}
	return toResult(result), nil
}

// ValidateJSON validates a raw JSON document, e.g. Zeebe job variables.
func (s *Schema) ValidateJSON(doc string) (*ValidationResult, error) {
	result, err := s.schema.Validate(gojsonschema.NewStringLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("validate document: %w", err)
	}
	return toResult(result), nil
}

func toResult(result *gojsonschema.Result) *ValidationResult {
	out := &ValidationResult{Valid: result.Valid()}
	for _, e := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   e.Field(),
			Message: e.Description(),
			Code:    strings.ToUpper(e.Type()),
		})
	}
	sort.Slice(out.Errors, func(i, j int) bool {
		return out.Errors[i].Field < out.Errors[j].Field
	})
	return out
}

// Summary joins the errors into one line.
func (r *ValidationResult) Summary() string {
	parts := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	return strings.Join(parts, "; ")
}
