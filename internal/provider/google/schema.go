package google

import (
	"encoding/json"

	"google.golang.org/genai"
)

// jsonSchema is the subset of JSON Schema produced by the schema package.
type jsonSchema struct {
	Type        string                 `json:"type"`
	Description string                 `json:"description"`
	Enum        []string               `json:"enum"`
	MinLength   *int64                 `json:"minLength"`
	MaxLength   *int64                 `json:"maxLength"`
	Properties  map[string]*jsonSchema `json:"properties"`
	Required    []string               `json:"required"`
}

var genaiTypes = map[string]genai.Type{
	"string":  genai.TypeString,
	"number":  genai.TypeNumber,
	"integer": genai.TypeInteger,
	"boolean": genai.TypeBoolean,
	"array":   genai.TypeArray,
	"object":  genai.TypeObject,
}

// ConvertJSONSchemaToGenaiSchema converts a JSON Schema document to a genai Schema.
// It returns nil for empty or malformed input.
func ConvertJSONSchemaToGenaiSchema(schemaJSON json.RawMessage) *genai.Schema {
	if len(schemaJSON) == 0 {
		return nil
	}
	var s jsonSchema
	if err := json.Unmarshal(schemaJSON, &s); err != nil {
		return nil
	}
	return s.toGenai()
}

func (s *jsonSchema) toGenai() *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Type:        genaiTypes[s.Type],
		Description: s.Description,
		Enum:        s.Enum,
		MinLength:   s.MinLength,
		MaxLength:   s.MaxLength,
		Required:    s.Required,
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = prop.toGenai()
		}
	}
	return out
}
