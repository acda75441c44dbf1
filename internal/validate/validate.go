// Package validate wraps go-playground/validator so services report
// field-scoped errors with JSON paths the form layer understands
// (e.g. children[2].capacity). Errors are collected and returned
// wholesale, never one at a time.
package validate

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())
	val.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return val
}

// FieldError pins a message to a JSON path within the submitted document.
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Error is a non-empty ordered collection of field errors.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Path + ": " + f.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Append attaches an extra field error, creating the collection when needed.
// Used for cross-field checks that run after struct validation.
func Append(e *Error, fe FieldError) *Error {
	if e == nil {
		return &Error{Fields: []FieldError{fe}}
	}
	e.Fields = append(e.Fields, fe)
	return e
}

// Struct validates s against its struct tags. All fields are evaluated;
// the result is nil or the full ordered error list.
func Struct(s any) *Error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return &Error{Fields: []FieldError{{Path: "", Message: err.Error()}}}
	}
	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{Path: pathOf(fe), Message: messageFor(fe)})
	}
	return &Error{Fields: fields}
}

// pathOf strips the root struct name from the namespace, leaving the
// JSON path used by the form layer: Submission.children[2].capacity
// becomes children[2].capacity.
func pathOf(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func messageFor(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is a required field", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must contain at least %s item(s)", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must contain at most %s item(s)", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be %s or greater", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be %s or less", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.Join(strings.Fields(fe.Param()), ", "))
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
