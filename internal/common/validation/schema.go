package validation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	apperrors "purchase-advisor/internal/common/errors"
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

func (r *ValidationResult) Error() string {
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return strings.Join(msgs, "; ")
}

// Schema is a compiled JSON schema used to check capability output before
// it is trusted.
type Schema struct {
	schema *gojsonschema.Schema
}

func Compile(schemaJSON string) (*Schema, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	return &Schema{schema: s}, nil
}

func MustCompile(schemaJSON string) *Schema {
	s, err := Compile(schemaJSON)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Schema) Validate(doc []byte) (*ValidationResult, error) {
	result, err := s.schema.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return nil, err
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
			Code:    desc.Type(),
		})
	}
	return out, nil
}

// Decode pulls the JSON object out of a model reply, validates it and
// unmarshals it into out. Any failure wraps ErrMalformedOutput.
func (s *Schema) Decode(text string, out interface{}) error {
	doc, ok := ExtractJSONObject(text)
	if !ok {
		return fmt.Errorf("no JSON object in reply: %w", apperrors.ErrMalformedOutput)
	}

	result, err := s.Validate([]byte(doc))
	if err != nil {
		return fmt.Errorf("unparseable reply: %v: %w", err, apperrors.ErrMalformedOutput)
	}
	if !result.Valid {
		return fmt.Errorf("schema violation: %s: %w", result.Error(), apperrors.ErrMalformedOutput)
	}

	if err := json.Unmarshal([]byte(doc), out); err != nil {
		return fmt.Errorf("decode reply: %v: %w", err, apperrors.ErrMalformedOutput)
	}
	return nil
}

// ExtractJSONObject returns the outermost {...} span of text, tolerating
// markdown fences and prose around it.
func ExtractJSONObject(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}
