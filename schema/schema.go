package schema

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Builder is the interface implemented by all schema builders.
type Builder interface {
	// Build serializes the schema to json.RawMessage.
	// Returns an error if the schema is invalid.
	Build() (json.RawMessage, error)

	// MustBuild is like Build but panics on error.
	MustBuild() json.RawMessage

	schema() *schemaNode
}

// schemaNode is the internal representation of a JSON Schema.
type schemaNode struct {
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
	Enum        []any  `json:"enum,omitempty"`

	MinLength *int `json:"minLength,omitempty"`
	MaxLength *int `json:"maxLength,omitempty"`

	Properties           map[string]*schemaNode `json:"properties,omitempty"`
	Required             []string               `json:"required,omitempty"`
	AdditionalProperties *bool                  `json:"additionalProperties,omitempty"`
}

// ErrInvalidRange is returned when a minimum exceeds its maximum.
var ErrInvalidRange = errors.New("schema: minimum exceeds maximum")

// ValidationError represents a schema validation failure.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("schema: field %q: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("schema: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func (s *schemaNode) validate() error {
	switch s.Type {
	case "string":
		if s.MinLength != nil && s.MaxLength != nil && *s.MinLength > *s.MaxLength {
			return &ValidationError{Message: "minLength exceeds maxLength", Err: ErrInvalidRange}
		}
	case "object":
		for name, prop := range s.Properties {
			if err := prop.validate(); err != nil {
				return &ValidationError{Field: name, Message: err.Error(), Err: err}
			}
		}
	}
	return nil
}

func build(node *schemaNode) (json.RawMessage, error) {
	if err := node.validate(); err != nil {
		return nil, err
	}
	return json.Marshal(node)
}

func mustBuild(node *schemaNode) json.RawMessage {
	data, err := build(node)
	if err != nil {
		panic(err)
	}
	return data
}

// ToMap decodes a built schema into a generic map, the form expected by SDKs
// that take schemas as map[string]any.
func ToMap(raw json.RawMessage) (map[string]any, error) {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("schema: decode: %w", err)
	}
	return m, nil
}

func ptr[T any](v T) *T {
	return &v
}
