package demangle

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/skdltmxn/cxxdemangle/internal/parser"
	"github.com/skdltmxn/cxxdemangle/internal/printer"
)

// Defaults applied by DefaultOptions.
const (
	DefaultMaxDepth  = parser.DefaultMaxDepth
	DefaultMaxOutput = printer.DefaultMaxOutput
	DefaultMaxInput  = 1 << 20
)

// LiteralCase selects the case of integer literal suffixes.
type LiteralCase int

const (
	LiteralLower LiteralCase = iota // 1ul
	LiteralUpper                    // 1UL
)

// Options controls parsing and rendering.
type Options struct {
	NoParams      bool        // print only the entity name of a function
	NoReturnType  bool        // omit the return type of template functions
	Literals      LiteralCase // suffix case of integer literals
	MaxDepth      int         // nesting ceiling of the grammar parser
	MaxOutput     int         // byte cap of the rendered text
	MaxInput      int         // byte cap of the mangled text
	CompactAngles bool        // print ">>" instead of "> >"

	// Logger receives parse outcomes at debug level and substitution
	// table appends at trace level. The zero value discards everything.
	Logger zerolog.Logger
}

// DefaultOptions returns the options used when no Option is given.
func DefaultOptions() Options {
	return Options{
		MaxDepth:  DefaultMaxDepth,
		MaxOutput: DefaultMaxOutput,
		MaxInput:  DefaultMaxInput,
		Logger:    zerolog.Nop(),
	}
}

// Validate reports the first invalid field as a *ConfigError.
func (o Options) Validate() error {
	switch {
	case o.MaxDepth <= 0:
		return NewConfigError(IssueMaxDepth, fmt.Errorf("must be positive, got %d", o.MaxDepth))
	case o.MaxOutput <= 0:
		return NewConfigError(IssueMaxOutput, fmt.Errorf("must be positive, got %d", o.MaxOutput))
	case o.MaxInput <= 0:
		return NewConfigError(IssueMaxInput, fmt.Errorf("must be positive, got %d", o.MaxInput))
	case o.Literals != LiteralLower && o.Literals != LiteralUpper:
		return NewConfigError(IssueLiteralCase, fmt.Errorf("unknown case %d", o.Literals))
	}
	return nil
}

// ParseLiteralCase parses "lower" or "upper".
func ParseLiteralCase(s string) (LiteralCase, error) {
	switch s {
	case "lower", "":
		return LiteralLower, nil
	case "upper":
		return LiteralUpper, nil
	}
	return 0, NewConfigError(IssueLiteralCase, fmt.Errorf("want lower or upper, got %q", s))
}

// Option configures a call.
type Option func(*Options)

// WithOptions replaces the whole option record.
func WithOptions(o Options) Option {
	return func(dst *Options) {
		*dst = o
	}
}

// WithNoParams prints functions without their parameter lists.
func WithNoParams() Option {
	return func(o *Options) {
		o.NoParams = true
	}
}

// WithNoReturnType omits the return types of template functions.
func WithNoReturnType() Option {
	return func(o *Options) {
		o.NoReturnType = true
	}
}

// WithLiteralCase sets the suffix case of integer literals.
func WithLiteralCase(c LiteralCase) Option {
	return func(o *Options) {
		o.Literals = c
	}
}

// WithMaxDepth sets the grammar nesting ceiling.
func WithMaxDepth(n int) Option {
	return func(o *Options) {
		o.MaxDepth = n
	}
}

// WithMaxOutput caps the rendered text at n bytes.
func WithMaxOutput(n int) Option {
	return func(o *Options) {
		o.MaxOutput = n
	}
}

// WithMaxInput caps the mangled text at n bytes.
func WithMaxInput(n int) Option {
	return func(o *Options) {
		o.MaxInput = n
	}
}

// WithCompactAngles prints adjacent closing angle brackets without a space.
func WithCompactAngles() Option {
	return func(o *Options) {
		o.CompactAngles = true
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

func buildOptions(opts []Option) (Options, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.Validate(); err != nil {
		return Options{}, err
	}
	return o, nil
}

func (o Options) printerOptions() printer.Options {
	return printer.Options{
		NoParams:      o.NoParams,
		NoReturnType:  o.NoReturnType,
		UpperLiterals: o.Literals == LiteralUpper,
		CompactAngles: o.CompactAngles,
		MaxOutput:     o.MaxOutput,
		MaxDepth:      8 * o.MaxDepth,
	}
}
