// Package errs defines the error taxonomy shared by the demangler packages.
package errs

import (
	"errors"
	"fmt"
)

// Sentinel errors. Every failure returned by the core wraps exactly one of them.
var (
	// ErrUnexpectedEnd indicates the input ended inside a production.
	ErrUnexpectedEnd = errors.New("demangle: unexpected end of input")

	// ErrUnexpectedToken indicates a grammar mismatch.
	ErrUnexpectedToken = errors.New("demangle: unexpected token")

	// ErrBadBackReference indicates a substitution index beyond the table.
	ErrBadBackReference = errors.New("demangle: invalid back-reference")

	// ErrBadTemplateParam indicates a template parameter with no bound argument.
	ErrBadTemplateParam = errors.New("demangle: unbound template parameter")

	// ErrUnsupportedExtension indicates a vendor extension that is not modelled.
	ErrUnsupportedExtension = errors.New("demangle: unsupported vendor extension")

	// ErrRecursionLimitExceeded indicates nesting deeper than the configured limit.
	ErrRecursionLimitExceeded = errors.New("demangle: recursion limit exceeded")

	// ErrOutputTooLarge indicates the rendered text exceeded the configured cap.
	ErrOutputTooLarge = errors.New("demangle: output too large")

	// ErrInputTooLarge indicates the mangled text exceeded the configured cap.
	ErrInputTooLarge = errors.New("demangle: input too large")

	// ErrNotMangledName indicates the input does not carry a mangling prefix.
	ErrNotMangledName = errors.New("demangle: not a mangled name")
)

// ParseError provides the production and byte offset of a grammar failure.
type ParseError struct {
	Production string // Production being parsed
	Offset     int    // Byte offset within the mangled input
	Err        error  // Sentinel describing the failure
	Detail     string // Optional extra context
}

func (e *ParseError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%v in %s at offset %d: %s", e.Err, e.Production, e.Offset, e.Detail)
	}
	return fmt.Sprintf("%v in %s at offset %d", e.Err, e.Production, e.Offset)
}

func (e *ParseError) Unwrap() error { return e.Err }

// At builds a *ParseError.
func At(production string, offset int, err error) *ParseError {
	return &ParseError{Production: production, Offset: offset, Err: err}
}

// Atf builds a *ParseError with formatted detail.
func Atf(production string, offset int, err error, format string, args ...any) *ParseError {
	return &ParseError{
		Production: production,
		Offset:     offset,
		Err:        err,
		Detail:     fmt.Sprintf(format, args...),
	}
}

// Category groups errors by how callers are expected to react.
type Category int

const (
	CategoryNone Category = iota
	// CategoryNotMangled: show the original string unchanged.
	CategoryNotMangled
	// CategoryMalformed: a genuine grammar violation.
	CategoryMalformed
	// CategoryResourceLimit: a defensive cutoff.
	CategoryResourceLimit
)

var categoryNames = map[Category]string{
	CategoryNone:          "none",
	CategoryNotMangled:    "not-mangled",
	CategoryMalformed:     "malformed",
	CategoryResourceLimit: "resource-limit",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "unknown"
}

// Classify maps err onto its Category.
func Classify(err error) Category {
	switch {
	case err == nil:
		return CategoryNone
	case errors.Is(err, ErrNotMangledName):
		return CategoryNotMangled
	case errors.Is(err, ErrRecursionLimitExceeded),
		errors.Is(err, ErrOutputTooLarge),
		errors.Is(err, ErrInputTooLarge):
		return CategoryResourceLimit
	default:
		return CategoryMalformed
	}
}
