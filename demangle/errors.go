package demangle

import (
	"fmt"

	"github.com/skdltmxn/cxxdemangle/internal/errs"
)

// Errors. Every failure wraps exactly one of these; use errors.Is.
var (
	ErrUnexpectedEnd          = errs.ErrUnexpectedEnd
	ErrUnexpectedToken        = errs.ErrUnexpectedToken
	ErrBadBackReference       = errs.ErrBadBackReference
	ErrBadTemplateParam       = errs.ErrBadTemplateParam
	ErrUnsupportedExtension   = errs.ErrUnsupportedExtension
	ErrRecursionLimitExceeded = errs.ErrRecursionLimitExceeded
	ErrOutputTooLarge         = errs.ErrOutputTooLarge
	ErrInputTooLarge          = errs.ErrInputTooLarge
	ErrNotMangledName         = errs.ErrNotMangledName
)

// ParseError carries the grammar production and byte offset of a failure.
type ParseError = errs.ParseError

// Category groups errors by how a caller should react to them.
type Category = errs.Category

const (
	CategoryNone          = errs.CategoryNone
	CategoryNotMangled    = errs.CategoryNotMangled
	CategoryMalformed     = errs.CategoryMalformed
	CategoryResourceLimit = errs.CategoryResourceLimit
)

// Classify maps err onto its Category.
func Classify(err error) Category {
	return errs.Classify(err)
}

// Issue identifies which option a ConfigError is about.
type Issue int

const (
	IssueMaxDepth Issue = iota + 1
	IssueMaxOutput
	IssueMaxInput
	IssueLiteralCase
)

var issueNames = map[Issue]string{
	IssueMaxDepth:    "max depth",
	IssueMaxOutput:   "max output",
	IssueMaxInput:    "max input",
	IssueLiteralCase: "literal case",
}

func (i Issue) String() string {
	if name, ok := issueNames[i]; ok {
		return name
	}
	return fmt.Sprintf("Issue(%d)", int(i))
}

// ConfigError describes an invalid Options value.
type ConfigError struct {
	Issue Issue // Issue is the offending option.
	Err   error // Err describes the problem.
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("demangle: invalid %s: %v", e.Issue, e.Err)
}

// NewConfigError is a factory function for creating a *ConfigError.
func NewConfigError(issue Issue, err error) *ConfigError {
	return &ConfigError{
		Issue: issue,
		Err:   err,
	}
}
