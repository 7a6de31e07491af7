// Package validation checks job variables against JSON schemas before they
// are decoded into request structs.
package validation

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"property-matching/internal/common/errors"

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

// Err returns nil for a valid result, otherwise an INVALID_INPUT error
// listing every violation.
func (r *ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return errors.NewInvalidInputError(strings.Join(msgs, "; "))
}

// Schema is a compiled JSON schema.
type Schema struct {
	name   string
	source string

	once     sync.Once
	compiled *gojsonschema.Schema
	err      error
}

// NewSchema defers compilation to first use.
func NewSchema(name, source string) *Schema {
	return &Schema{name: name, source: source}
}

func (s *Schema) load() (*gojsonschema.Schema, error) {
	s.once.Do(func() {
		s.compiled, s.err = gojsonschema.NewSchema(gojsonschema.NewStringLoader(s.source))
		if s.err != nil {
			s.err = fmt.Errorf("compile schema %s: %w", s.name, s.err)
		}
	})
	return s.compiled, s.err
}

// ValidateJSON validates a raw JSON document such as job.Variables.
func (s *Schema) ValidateJSON(document string) (*ValidationResult, error) {
	return s.validate(gojsonschema.NewStringLoader(document))
}

// ValidateValue validates an already decoded Go value.
func (s *Schema) ValidateValue(document interface{}) (*ValidationResult, error) {
	return s.validate(gojsonschema.NewGoLoader(document))
}

func (s *Schema) validate(doc gojsonschema.JSONLoader) (*ValidationResult, error) {
	schema, err := s.load()
	if err != nil {
		return nil, err
	}

	result, err := schema.Validate(doc)
	if err != nil {
		return nil, errors.NewInvalidInputError(fmt.Sprintf("malformed document: %v", err))
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
			Code:    strings.ToUpper(desc.Type()),
		})
	}
	sort.SliceStable(out.Errors, func(i, j int) bool { return out.Errors[i].Field < out.Errors[j].Field })
	return out, nil
}

// Check validates document and folds the result into a single error.
func (s *Schema) Check(document string) error {
	result, err := s.ValidateJSON(document)
	if err != nil {
		return err
	}
	return result.Err()
}
