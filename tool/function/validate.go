//
// Copyright (C) 2025 The whoop-mcp Authors.  All rights reserved.
//
// whoop-mcp is licensed under the Apache License Version 2.0.
//
//

package function

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var defaultValidator = NewValidator()

// Validator checks decoded tool inputs against their validate tags.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator that reports fields by their json names.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{validate: v}
}

// Validate validates a struct input. Non-struct inputs always pass.
func (v *Validator) Validate(input any) error {
	rv := reflect.ValueOf(input)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}
	err := v.validate.Struct(rv.Interface())
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return NewValidationError(verrs)
	}
	return err
}

// ErrInvalidArguments marks every error caused by the caller's arguments
// rather than by the tool itself.
var ErrInvalidArguments = errors.New("invalid arguments")

// ValidationError lists the offending input fields.
type ValidationError struct {
	Errors map[string]string `json:"errors"`
}

// Error implements error. Fields are listed in name order.
func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Errors))
	for f := range e.Errors {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	messages := make([]string, 0, len(fields))
	for _, f := range fields {
		messages = append(messages, e.Errors[f])
	}
	return "invalid arguments: " + strings.Join(messages, "; ")
}

// Is matches ErrInvalidArguments.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidArguments
}

// NewValidationError creates a ValidationError from validator.ValidationErrors.
func NewValidationError(errs validator.ValidationErrors) *ValidationError {
	out := make(map[string]string, len(errs))
	for _, err := range errs {
		field := err.Field()
		switch err.Tag() {
		case "required":
			out[field] = fmt.Sprintf("%s is required", field)
		case "min", "gte":
			out[field] = fmt.Sprintf("%s must be at least %s", field, err.Param())
		case "max", "lte":
			out[field] = fmt.Sprintf("%s must be at most %s", field, err.Param())
		case "datetime":
			out[field] = fmt.Sprintf("%s must be a date formatted as YYYY-MM-DD", field)
		case "oneof":
			out[field] = fmt.Sprintf("%s must be one of: %s", field, err.Param())
		default:
			out[field] = fmt.Sprintf("%s is invalid", field)
		}
	}
	return &ValidationError{Errors: out}
}
