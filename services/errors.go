// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/danielhkuo/mascon/db"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation failed")
)

// errDuplicate marks a unique violation inside a transaction so the caller
// can resolve the existing row after rollback.
var errDuplicate = errors.New("duplicate")

// NotFoundError names the missing entity. It matches ErrNotFound.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string { return e.Entity + " not found" }

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ConflictError describes a state that forbids the operation, such as voting
// on an inactive poll. It matches ErrConflict.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// ValidationError names the offending request field by its JSON name.
// It matches ErrValidation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func notFound(entity string) error {
	return &NotFoundError{Entity: entity}
}

func conflict(message string) error {
	return &ConflictError{Message: message}
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// writeErr maps a failed insert/update to the taxonomy. A foreign key
// failure means a referenced row (usually the caller's user) is missing.
func writeErr(err error, op, entity string) error {
	if db.IsForeignKeyViolation(err) {
		return notFound(entity)
	}
	return fmt.Errorf("%s: %w", op, err)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	// notblank: text must carry something besides whitespace
	v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// validateRequest checks struct tags and reports the first failing field
func validateRequest(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("validate request: %w", err)
	}

	fe := verrs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required", "notblank":
		return invalid(field, field+" is required")
	case "max":
		return invalid(field, fmt.Sprintf("%s must be at most %s long", field, fe.Param()))
	case "min":
		return invalid(field, fmt.Sprintf("%s must have at least %s entries", field, fe.Param()))
	case "oneof":
		return invalid(field, fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", ")))
	case "gtfield":
		return invalid(field, fmt.Sprintf("%s must be after %s", field, snakeCase(fe.Param())))
	default:
		return invalid(field, field+" is invalid")
	}
}

func snakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
