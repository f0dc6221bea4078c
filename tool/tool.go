//
// Copyright (C) 2025 The whoop-mcp Authors.  All rights reserved.
//
// whoop-mcp is licensed under the Apache License Version 2.0.
//
//

// Package tool defines the tool abstraction exposed over MCP: a declaration
// with JSON schemas, and a call taking JSON arguments.
package tool

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Tool is anything that can describe itself.
type Tool interface {
	// Declaration returns the metadata describing the tool.
	Declaration() *Declaration
}

// CallableTool defines the interface for tools that support calling operations.
type CallableTool interface {
	// Call calls the tool with the provided context and arguments.
	// Returns the result of execution or an error if the operation fails.
	Call(ctx context.Context, jsonArgs []byte) (any, error)

	Tool
}

// Declaration describes the metadata of a tool, such as its name, description, and expected arguments.
type Declaration struct {
	// Name is the unique identifier of the tool
	Name string `json:"name"`

	// Description explains the tool's purpose and functionality
	Description string `json:"description"`

	// InputSchema defines the expected input for the tool in JSON schema format.
	InputSchema *Schema `json:"inputSchema"`

	// OutputSchema defines the expected output for the tool in JSON schema format.
	OutputSchema *Schema `json:"outputSchema,omitempty"`
}

// Schema represents the structure of JSON Schema used for defining arguments and responses.
type Schema struct {
	//  Type Specifies the data type (e.g., "object", "array", "string", "number")
	Type        string   `json:"type"`
	Description string   `json:"description,omitempty"`
	Required    []string `json:"required,omitempty"`
	// Properties of the arguments, each with its own schema
	Properties map[string]*Schema `json:"properties,omitempty"`
	// For array types, defines the schema of items in the array
	Items *Schema `json:"items,omitempty"`
	// AdditionalProperties: Controls whether properties not defined in Properties are allowed
	AdditionalProperties any `json:"additionalProperties,omitempty"`
	// Default is the value assumed when the property is omitted.
	Default any `json:"default,omitempty"`
	// Format names a string format such as "date".
	Format string `json:"format,omitempty"`
	// Minimum and Maximum bound numeric properties.
	Minimum *float64 `json:"minimum,omitempty"`
	Maximum *float64 `json:"maximum,omitempty"`
	// Enum lists the allowed values.
	Enum []any `json:"enum,omitempty"`
}

// IsRequired reports whether the named property is required.
func (s *Schema) IsRequired(name string) bool {
	if s == nil {
		return false
	}
	for _, r := range s.Required {
		if r == name {
			return true
		}
	}
	return false
}

// PropertyNames returns the property names in sorted order.
func (s *Schema) PropertyNames() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Usage renders a one line argument summary such as
// "end_date? days?(=30)".
func (d *Declaration) Usage() string {
	if d == nil || d.InputSchema == nil {
		return ""
	}
	parts := make([]string, 0, len(d.InputSchema.Properties))
	for _, name := range d.InputSchema.PropertyNames() {
		part := name
		if !d.InputSchema.IsRequired(name) {
			part += "?"
		}
		if def := d.InputSchema.Properties[name].Default; def != nil {
			part += fmt.Sprintf("(=%v)", def)
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, " ")
}
