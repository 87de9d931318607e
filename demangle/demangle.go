// Package demangle reconstructs C++ declarations from Itanium C++ ABI
// mangled symbol names.
//
// Every call parses into a private tree and renders it; nothing is shared
// between calls, so all functions are safe for concurrent use. Inputs are
// treated as untrusted: parse depth, input length and output size are all
// bounded, and a failed call never returns partial text.
//
//	s, err := demangle.Demangle("_ZN3FooC1Ev") // "Foo::Foo()"
package demangle

import (
	"io"
	"regexp"
	"strings"

	"github.com/skdltmxn/cxxdemangle/internal/ast"
	"github.com/skdltmxn/cxxdemangle/internal/errs"
	"github.com/skdltmxn/cxxdemangle/internal/parser"
	"github.com/skdltmxn/cxxdemangle/internal/printer"
)

// mangledPrefixes are the spellings a symbol may start with.
var mangledPrefixes = []string{"_Z", "__Z", "_GLOBAL_"}

// wordPattern splits free text into the words Filter considers. A symbol
// is only rewritten when it is a whole word, so "my_Z3fooi" stays as is.
// Clone suffixes such as ".constprop.0" belong to the word.
var wordPattern = regexp.MustCompile(`[A-Za-z0-9_.$]+`)

// Symbol is a parsed mangled name.
type Symbol struct {
	mangled string
	root    ast.Node
	subs    int
	opts    Options
}

// Demangle parses s and renders it.
func Demangle(s string, opts ...Option) (string, error) {
	o, err := buildOptions(opts)
	if err != nil {
		return "", err
	}
	sym, err := parse(s, o, false)
	if err != nil {
		return "", err
	}
	return sym.render(o)
}

// Parse parses s. Text after the mangled name is an error.
func Parse(s string, opts ...Option) (*Symbol, error) {
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}
	return parse(s, o, false)
}

// ParseWithTail parses the mangled name at the start of s and returns the
// text that follows it.
func ParseWithTail(s string, opts ...Option) (*Symbol, string, error) {
	o, err := buildOptions(opts)
	if err != nil {
		return nil, "", err
	}
	sym, err := parse(s, o, true)
	if err != nil {
		return nil, "", err
	}
	return sym, s[len(sym.mangled):], nil
}

func parse(s string, o Options, allowTail bool) (*Symbol, error) {
	log := o.Logger
	if len(s) > o.MaxInput {
		err := errs.Atf("mangled-name", 0, errs.ErrInputTooLarge, "%d bytes, limit %d", len(s), o.MaxInput)
		log.Debug().Int("len", len(s)).Err(err).Msg("rejected")
		return nil, err
	}
	if !IsMangled(s) {
		return nil, errs.At("mangled-name", 0, errs.ErrNotMangledName)
	}

	p := parser.New(s, parser.Config{MaxDepth: o.MaxDepth, Logger: log})
	root, err := p.MangledName()
	if err != nil {
		log.Debug().Str("symbol", s).Err(err).Msg("parse failed")
		return nil, err
	}
	if tail := p.Tail(); tail != "" && !allowTail {
		err := errs.Atf("mangled-name", p.Offset(), errs.ErrUnexpectedToken, "trailing %q", tail)
		log.Debug().Str("symbol", s).Err(err).Msg("parse failed")
		return nil, err
	}

	sym := &Symbol{
		mangled: s[:p.Offset()],
		root:    root,
		subs:    p.Substitutions(),
		opts:    o,
	}
	log.Debug().
		Str("symbol", sym.mangled).
		Int("substitutions", sym.subs).
		Stringer("kind", root.Kind()).
		Msg("parsed")
	return sym, nil
}

// Mangled returns the text the symbol was parsed from, without any tail.
func (s *Symbol) Mangled() string {
	return s.mangled
}

// Substitutions returns the number of substitution candidates recorded
// while parsing.
func (s *Symbol) Substitutions() int {
	return s.subs
}

// String renders the symbol with the options it was parsed with. If
// rendering fails the mangled text is returned.
func (s *Symbol) String() string {
	text, err := s.render(s.opts)
	if err != nil {
		return s.mangled
	}
	return text
}

// Render renders the symbol again. opts apply on top of the options the
// symbol was parsed with.
func (s *Symbol) Render(opts ...Option) (string, error) {
	o := s.opts
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.Validate(); err != nil {
		return "", err
	}
	return s.render(o)
}

func (s *Symbol) render(o Options) (string, error) {
	text, err := printer.Print(s.root, o.printerOptions())
	if err != nil {
		o.Logger.Debug().Str("symbol", s.mangled).Err(err).Msg("render failed")
		return "", err
	}
	return text, nil
}

// Dump writes an indented outline of the parse tree to w.
func (s *Symbol) Dump(w io.Writer) error {
	return ast.Dump(w, s.root)
}

// IsMangled reports whether s starts like an Itanium mangled name.
func IsMangled(s string) bool {
	for _, prefix := range mangledPrefixes {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}

// Simple returns the demangled form of s, or s itself if it cannot be
// demangled.
func Simple(s string) string {
	out, err := Demangle(s)
	if err != nil {
		return s
	}
	return out
}

// Filter replaces every mangled name inside text with its demangled form.
// Tokens that fail to demangle are left untouched.
func Filter(text string, opts ...Option) string {
	o, err := buildOptions(opts)
	if err != nil {
		return text
	}
	return wordPattern.ReplaceAllStringFunc(text, func(word string) string {
		if !IsMangled(word) {
			return word
		}
		if out, ok := filterWord(word, o); ok {
			return out
		}
		// a sentence may end right after a symbol
		if trimmed := strings.TrimRight(word, "."); trimmed != word {
			if out, ok := filterWord(trimmed, o); ok {
				return out + word[len(trimmed):]
			}
		}
		return word
	})
}

func filterWord(word string, o Options) (string, bool) {
	sym, err := parse(word, o, false)
	if err != nil {
		return "", false
	}
	out, err := sym.render(o)
	if err != nil {
		return "", false
	}
	return out, true
}
