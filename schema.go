package bedrockai

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// SchemaBuilder constructs a JSON Schema object for tool parameters by
// reflecting over a Go struct and allowing fluent refinement. Field names come
// from json tags; descriptions and required fields come from `desc` and
// `required` struct tags, or from builder calls.
type SchemaBuilder struct {
	props    map[string]*schemaProp
	order    []string
	required []string
}

type schemaProp struct {
	Type        string         `json:"type"`
	Description string         `json:"description,omitempty"`
	Enum        []any          `json:"enum,omitempty"`
	Items       *schemaProp    `json:"items,omitempty"`
	Properties  map[string]any `json:"properties,omitempty"`
	Required    []string       `json:"required,omitempty"`
}

// SchemaFrom creates a SchemaBuilder by reflecting on struct type T.
func SchemaFrom[T any]() *SchemaBuilder {
	var zero T
	t := reflect.TypeOf(zero)
	if t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	sb := &SchemaBuilder{props: make(map[string]*schemaProp)}
	if t == nil || t.Kind() != reflect.Struct {
		return sb
	}
	sb.addStructFields(t)
	return sb
}

func (s *SchemaBuilder) addStructFields(t reflect.Type) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		jsonTag := field.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}
		name := strings.Split(jsonTag, ",")[0]
		if name == "" {
			name = field.Name
		}
		prop := propForType(field.Type)
		if desc := field.Tag.Get("desc"); desc != "" {
			prop.Description = desc
		}
		s.props[name] = prop
		s.order = append(s.order, name)
		if field.Tag.Get("required") == "true" {
			s.required = append(s.required, name)
		}
	}
}

func propForType(t reflect.Type) *schemaProp {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return &schemaProp{Type: "string"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &schemaProp{Type: "integer"}
	case reflect.Float32, reflect.Float64:
		return &schemaProp{Type: "number"}
	case reflect.Bool:
		return &schemaProp{Type: "boolean"}
	case reflect.Slice, reflect.Array:
		return &schemaProp{Type: "array", Items: propForType(t.Elem())}
	case reflect.Struct:
		nested := &SchemaBuilder{props: make(map[string]*schemaProp)}
		nested.addStructFields(t)
		prop := &schemaProp{Type: "object", Properties: nested.propertyMap()}
		if len(nested.required) > 0 {
			prop.Required = nested.required
		}
		return prop
	case reflect.Map:
		return &schemaProp{Type: "object"}
	default:
		return &schemaProp{Type: "string"}
	}
}

// Desc sets the description for a field.
func (s *SchemaBuilder) Desc(field, description string) *SchemaBuilder {
	if prop, ok := s.props[field]; ok {
		prop.Description = description
	}
	return s
}

// Required marks the given fields as required, ignoring unknown names.
func (s *SchemaBuilder) Required(fields ...string) *SchemaBuilder {
	for _, field := range fields {
		if _, ok := s.props[field]; !ok {
			continue
		}
		dup := false
		for _, r := range s.required {
			if r == field {
				dup = true
				break
			}
		}
		if !dup {
			s.required = append(s.required, field)
		}
	}
	return s
}

// Enum restricts a field to the given values.
func (s *SchemaBuilder) Enum(field string, values ...any) *SchemaBuilder {
	if prop, ok := s.props[field]; ok {
		prop.Enum = values
	}
	return s
}

func (s *SchemaBuilder) propertyMap() map[string]any {
	props := make(map[string]any, len(s.order))
	for _, name := range s.order {
		props[name] = s.props[name]
	}
	return props
}

// Build serializes the schema to a JSON Schema object.
func (s *SchemaBuilder) Build() (json.RawMessage, error) {
	schema := map[string]any{
		"type":       "object",
		"properties": s.propertyMap(),
	}
	if len(s.required) > 0 {
		schema["required"] = s.required
	}
	raw, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}
	return raw, nil
}

// SchemaFor generates a JSON Schema from struct type T using only struct tags.
func SchemaFor[T any]() (json.RawMessage, error) {
	return SchemaFrom[T]().Build()
}

// MustSchemaFor is like SchemaFor but panics on error.
func MustSchemaFor[T any]() json.RawMessage {
	raw, err := SchemaFor[T]()
	if err != nil {
		panic(err)
	}
	return raw
}
