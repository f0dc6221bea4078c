//
// Copyright (C) 2025 The whoop-mcp Authors.  All rights reserved.
//
// whoop-mcp is licensed under the Apache License Version 2.0.
//
//

// Package function wraps typed Go functions as callable tools.
package function

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	itool "github.com/janaksunil/whoop-mcp/internal/tool"
	"github.com/janaksunil/whoop-mcp/tool"
)

// FunctionTool implements the CallableTool interface for executing functions with arguments.
// Arguments are decoded into I and validated before fn runs.
type FunctionTool[I, O any] struct {
	name         string
	description  string
	inputSchema  *tool.Schema
	outputSchema *tool.Schema
	fn           func(context.Context, I) (O, error)
	unmarshaler  unmarshaler
	validator    *Validator
}

// Option is a function that configures a FunctionTool.
type Option func(*functionToolOptions)

type functionToolOptions struct {
	name        string
	description string
	unmarshaler unmarshaler
	validator   *Validator
}

// WithName sets the name of the function tool.
func WithName(name string) Option {
	return func(opts *functionToolOptions) {
		opts.name = name
	}
}

// WithDescription sets the description of the function tool.
func WithDescription(description string) Option {
	return func(opts *functionToolOptions) {
		opts.description = description
	}
}

// WithValidator replaces the default input validator.
func WithValidator(v *Validator) Option {
	return func(opts *functionToolOptions) {
		opts.validator = v
	}
}

// NewFunctionTool creates and returns a new instance of FunctionTool with the specified
// function implementation and optional configuration.
func NewFunctionTool[I, O any](fn func(context.Context, I) (O, error), opts ...Option) *FunctionTool[I, O] {
	options := &functionToolOptions{
		unmarshaler: &jsonUnmarshaler{},
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.validator == nil {
		options.validator = defaultValidator
	}

	var (
		emptyI I
		emptyO O
	)
	return &FunctionTool[I, O]{
		name:         options.name,
		description:  options.description,
		fn:           fn,
		unmarshaler:  options.unmarshaler,
		validator:    options.validator,
		inputSchema:  itool.GenerateJSONSchema(reflect.TypeOf(emptyI)),
		outputSchema: itool.GenerateJSONSchema(reflect.TypeOf(emptyO)),
	}
}

// Call executes the function tool with the provided JSON arguments.
// Empty arguments decode to the zero input. Malformed JSON and failed
// validation are returned before fn runs.
func (ft *FunctionTool[I, O]) Call(ctx context.Context, jsonArgs []byte) (any, error) {
	var input I
	if trimmed := bytes.TrimSpace(jsonArgs); len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
		if err := ft.unmarshaler.Unmarshal(trimmed, &input); err != nil {
			return nil, fmt.Errorf("%w for %s: %w", ErrInvalidArguments, ft.name, err)
		}
	}
	if err := ft.validator.Validate(input); err != nil {
		return nil, err
	}
	if ft.fn == nil {
		return nil, fmt.Errorf("FunctionTool: %s has no function", ft.name)
	}
	return ft.fn(ctx, input)
}

// Declaration returns the tool's declaration information.
func (ft *FunctionTool[I, O]) Declaration() *tool.Declaration {
	return &tool.Declaration{
		Name:         ft.name,
		Description:  ft.description,
		InputSchema:  ft.inputSchema,
		OutputSchema: ft.outputSchema,
	}
}

type unmarshaler interface {
	Unmarshal([]byte, any) error
}

type jsonUnmarshaler struct{}

// Unmarshal decodes JSON, rejecting fields the input type does not declare.
func (j *jsonUnmarshaler) Unmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
