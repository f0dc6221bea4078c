//
// Copyright (C) 2025 The whoop-mcp Authors.  All rights reserved.
//
// whoop-mcp is licensed under the Apache License Version 2.0.
//
//

// Package tool generates JSON schemas for tool inputs and outputs and wraps
// tool sets.
package tool

import (
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/janaksunil/whoop-mcp/tool"
)

var timeType = reflect.TypeOf(time.Time{})

// GenerateJSONSchema generates a JSON schema from a reflect.Type.
//
// Struct fields use their json names. A field is required when it is not a
// pointer and its json tag has no omitempty, or when its jsonschema tag says
// "required". The jsonschema tag also accepts description, default,
// minimum, maximum, format and repeated enum entries, for example
//
//	Days int `json:"days,omitempty" jsonschema:"description=Window length,default=30,minimum=1,maximum=90"`
//
// Recursive types stop at the first repetition with a bare object schema.
func GenerateJSONSchema(t reflect.Type) *tool.Schema {
	if t == nil {
		return &tool.Schema{Type: "object"}
	}
	return generate(t, map[reflect.Type]bool{})
}

// GenerateFieldSchema generates schema for a specific field type.
func GenerateFieldSchema(t reflect.Type) *tool.Schema {
	return GenerateJSONSchema(t)
}

func generate(t reflect.Type, seen map[reflect.Type]bool) *tool.Schema {
	if t == timeType {
		return &tool.Schema{Type: "string", Format: "date-time"}
	}
	switch t.Kind() {
	case reflect.String:
		return &tool.Schema{Type: "string"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &tool.Schema{Type: "integer"}
	case reflect.Float32, reflect.Float64:
		return &tool.Schema{Type: "number"}
	case reflect.Bool:
		return &tool.Schema{Type: "boolean"}
	case reflect.Slice, reflect.Array:
		return &tool.Schema{Type: "array", Items: generate(t.Elem(), seen)}
	case reflect.Map:
		return &tool.Schema{Type: "object", AdditionalProperties: generate(t.Elem(), seen)}
	case reflect.Ptr:
		// A pointer only makes the value optional.
		return generate(t.Elem(), seen)
	case reflect.Struct:
		if seen[t] {
			return &tool.Schema{Type: "object"}
		}
		seen[t] = true
		defer delete(seen, t)
		schema := &tool.Schema{Type: "object", Properties: map[string]*tool.Schema{}}
		addFields(schema, t, seen)
		return schema
	default:
		return &tool.Schema{Type: "object"}
	}
}

func addFields(schema *tool.Schema, t reflect.Type, seen map[reflect.Type]bool) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		jsonTag := field.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(jsonTag, ",")

		// Untagged embedded structs are flattened, as encoding/json does.
		if field.Anonymous && name == "" {
			ft := field.Type
			if ft.Kind() == reflect.Ptr {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				addFields(schema, ft, seen)
				continue
			}
		}
		if !field.IsExported() {
			continue
		}
		if name == "" {
			name = field.Name
		}

		fieldSchema := generate(field.Type, seen)
		required := field.Type.Kind() != reflect.Ptr && !strings.Contains(opts, "omitempty")
		if tag, ok := field.Tag.Lookup("jsonschema"); ok {
			if applyTag(fieldSchema, tag) {
				required = true
			}
		}
		schema.Properties[name] = fieldSchema
		if required {
			schema.Required = append(schema.Required, name)
		}
	}
}

// applyTag copies jsonschema tag settings onto s and reports whether the
// tag marks the field required.
func applyTag(s *tool.Schema, tag string) (required bool) {
	for _, part := range strings.Split(tag, ",") {
		key, value, _ := strings.Cut(strings.TrimSpace(part), "=")
		switch key {
		case "required":
			required = true
		case "description":
			s.Description = value
		case "format":
			s.Format = value
		case "default":
			s.Default = parseValue(s.Type, value)
		case "enum":
			s.Enum = append(s.Enum, parseValue(s.Type, value))
		case "minimum":
			if f, err := strconv.ParseFloat(value, 64); err == nil {
				s.Minimum = &f
			}
		case "maximum":
			if f, err := strconv.ParseFloat(value, 64); err == nil {
				s.Maximum = &f
			}
		}
	}
	return required
}

func parseValue(typ, value string) any {
	switch typ {
	case "integer":
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	case "number":
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	case "boolean":
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return value
}
