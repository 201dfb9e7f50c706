// Package schema describes the structural shape a generation result must
// conform to. A Definition is a recursive description over objects, arrays,
// and primitive types; it marshals to a standard JSON-Schema-shaped object
// that backends with native constrained decoding accept directly, and
// renders to prompt text for backends without structural support.
package schema

import (
	"bytes"
	"encoding/json"
	"sort"
)

// Type enumerates the structural types a Definition may declare.
type Type string

const (
	TypeObject  Type = "object"
	TypeArray   Type = "array"
	TypeString  Type = "string"
	TypeNumber  Type = "number"
	TypeInteger Type = "integer"
	TypeBoolean Type = "boolean"
)

// Definition is a recursive structural description.
// Properties and Items are only meaningful for objects and arrays.
type Definition struct {
	Type        Type
	Description string
	Properties  map[string]*Definition
	Required    []string
	Items       *Definition
}

// Object creates an object definition with the given properties and
// required-field list.
func Object(properties map[string]*Definition, required ...string) *Definition {
	return &Definition{
		Type:       TypeObject,
		Properties: properties,
		Required:   required,
	}
}

// Array creates an array definition whose elements match items.
func Array(items *Definition) *Definition {
	return &Definition{Type: TypeArray, Items: items}
}

// String creates a string definition.
func String(description string) *Definition {
	return &Definition{Type: TypeString, Description: description}
}

// Number creates a number definition.
func Number(description string) *Definition {
	return &Definition{Type: TypeNumber, Description: description}
}

// Boolean creates a boolean definition.
func Boolean(description string) *Definition {
	return &Definition{Type: TypeBoolean, Description: description}
}

// MarshalJSON emits the JSON-Schema rendering of the definition.
// Object properties are emitted in sorted key order so the rendering is
// deterministic across runs and usable in prompt text.
func (d *Definition) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	buf.WriteString(`"type":`)
	if err := writeJSON(&buf, string(d.Type)); err != nil {
		return nil, err
	}

	if d.Description != "" {
		buf.WriteString(`,"description":`)
		if err := writeJSON(&buf, d.Description); err != nil {
			return nil, err
		}
	}

	if d.Type == TypeObject {
		buf.WriteString(`,"properties":{`)
		keys := make([]string, 0, len(d.Properties))
		for k := range d.Properties {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(&buf, k); err != nil {
				return nil, err
			}
			buf.WriteByte(':')
			prop, err := json.Marshal(d.Properties[k])
			if err != nil {
				return nil, err
			}
			buf.Write(prop)
		}
		buf.WriteByte('}')

		if len(d.Required) > 0 {
			buf.WriteString(`,"required":`)
			if err := writeJSON(&buf, d.Required); err != nil {
				return nil, err
			}
		}

		// Strict constrained decoding requires closed objects.
		buf.WriteString(`,"additionalProperties":false`)
	}

	if d.Type == TypeArray && d.Items != nil {
		buf.WriteString(`,"items":`)
		items, err := json.Marshal(d.Items)
		if err != nil {
			return nil, err
		}
		buf.Write(items)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Prompt returns an indented JSON rendering of the definition, suitable
// for appending to a prompt when the backend has no structural support.
func (d *Definition) Prompt() string {
	out, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		// A Definition contains only marshalable values.
		return ""
	}
	return string(out)
}

func writeJSON(buf *bytes.Buffer, v any) error {
	out, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(out)
	return nil
}
