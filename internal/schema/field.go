// Package schema defines the response-schema descriptors sent to the
// model and the registry that selects a schema and prompt instruction for
// a document type.
package schema

import (
	"encoding/json"
	"fmt"
)

// Kind enumerates the closed set of field shapes a report schema can
// describe.
type Kind int

const (
	// KindString is a plain text field.
	KindString Kind = iota

	// KindStringArray is a list of text values.
	KindStringArray

	// KindObject is a nested object with named properties.
	KindObject

	// KindRecordArray is a list of objects sharing a fixed field set.
	KindRecordArray
)

func (k Kind) jsonType() string {
	switch k {
	case KindStringArray, KindRecordArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "string"
	}
}

// Field is a recursive response-schema node.
type Field struct {
	Kind        Kind
	Description string

	// Properties and Required apply to KindObject nodes and to the
	// element type of KindRecordArray nodes. Required preserves
	// declaration order.
	Properties map[string]Field
	Required   []string
}

// Str returns a string field.
func Str(description string) Field {
	return Field{Kind: KindString, Description: description}
}

// StrArray returns a string-array field.
func StrArray(description string) Field {
	return Field{Kind: KindStringArray, Description: description}
}

// Object returns an object field with the given properties.
func Object(properties map[string]Field, required ...string) Field {
	return Field{Kind: KindObject, Properties: properties, Required: required}
}

// RecordArray returns an array-of-records field whose elements have the
// given properties.
func RecordArray(properties map[string]Field, required ...string) Field {
	return Field{Kind: KindRecordArray, Properties: properties, Required: required}
}

// Validate checks the structural invariant: every object-typed node's
// required set is a subset of its properties keys.
func (f Field) Validate() error {
	if f.Kind == KindObject || f.Kind == KindRecordArray {
		for _, name := range f.Required {
			if _, ok := f.Properties[name]; !ok {
				return fmt.Errorf("required field %q not present in properties", name)
			}
		}
		for name, child := range f.Properties {
			if err := child.Validate(); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
		}
	}
	return nil
}

// TopLevelKeys returns the keys of an object field's properties.
func (f Field) TopLevelKeys() []string {
	keys := make([]string, 0, len(f.Properties))
	for k := range f.Properties {
		keys = append(keys, k)
	}
	return keys
}

// jsonSchemaNode is the wire form of a Field.
type jsonSchemaNode struct {
	Type        string                    `json:"type"`
	Description string                    `json:"description,omitempty"`
	Properties  map[string]jsonSchemaNode `json:"properties,omitempty"`
	Items       *jsonSchemaNode           `json:"items,omitempty"`
	Required    []string                  `json:"required,omitempty"`
}

func (f Field) wire() jsonSchemaNode {
	node := jsonSchemaNode{
		Type:        f.Kind.jsonType(),
		Description: f.Description,
	}

	switch f.Kind {
	case KindObject:
		node.Properties = wireProperties(f.Properties)
		node.Required = f.Required
	case KindStringArray:
		node.Items = &jsonSchemaNode{Type: "string"}
	case KindRecordArray:
		node.Items = &jsonSchemaNode{
			Type:       "object",
			Properties: wireProperties(f.Properties),
			Required:   f.Required,
		}
	}
	return node
}

func wireProperties(props map[string]Field) map[string]jsonSchemaNode {
	if len(props) == 0 {
		return nil
	}
	out := make(map[string]jsonSchemaNode, len(props))
	for name, child := range props {
		out[name] = child.wire()
	}
	return out
}

// JSONSchema marshals the field to a JSON Schema document suitable both
// as a model response schema and for post-parse validation.
func (f Field) JSONSchema() (json.RawMessage, error) {
	data, err := json.Marshal(f.wire())
	if err != nil {
		return nil, fmt.Errorf("failed to serialize schema: %w", err)
	}
	return data, nil
}
