// Package parser turns Itanium C++ ABI mangled names into ast trees.
//
// The parser is a recursive descent over the mangling grammar. Every
// substitutable production is recorded in a substitution table as soon as it
// is complete, so later back-references resolve to the shared node. Nesting
// is bounded by a depth counter; nothing here allocates global state, so
// independent parsers may run concurrently.
package parser

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/skdltmxn/cxxdemangle/internal/ast"
	"github.com/skdltmxn/cxxdemangle/internal/errs"
	"github.com/skdltmxn/cxxdemangle/internal/stream"
	"github.com/skdltmxn/cxxdemangle/internal/subs"
)

// DefaultMaxDepth is the nesting ceiling used when Config.MaxDepth is zero.
const DefaultMaxDepth = 256

// Config controls a Parser.
type Config struct {
	MaxDepth int
	Logger   zerolog.Logger
}

// Parser holds the state of a single parse.
type Parser struct {
	cur      *stream.Cursor
	subs     *subs.Table
	depth    int
	maxDepth int
	log      zerolog.Logger

	// inConversion is set while parsing the type of a conversion operator,
	// where template arguments after a template parameter are ambiguous.
	inConversion bool
	// inLambda is set while parsing a closure signature; template
	// parameters there name invented "auto" parameters.
	inLambda bool
}

// New creates a Parser over input.
func New(input string, cfg Config) *Parser {
	maxDepth := cfg.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Parser{
		cur:      stream.NewCursor(input),
		subs:     subs.New(cfg.Logger),
		maxDepth: maxDepth,
		log:      cfg.Logger,
	}
}

// Offset returns the current read position.
func (p *Parser) Offset() int {
	return p.cur.Offset()
}

// Tail returns the text not consumed by the parse.
func (p *Parser) Tail() string {
	return p.cur.Tail()
}

// Substitutions returns the number of committed substitution candidates.
func (p *Parser) Substitutions() int {
	return p.subs.Len()
}

// MangledName parses
//
//	<mangled-name> ::= _Z <encoding> [.<clone-suffix>]*
//	               ::= __Z <encoding>
//	               ::= _GLOBAL_ [._$] (I|D) _ <key>
//
// Text after the name is left unread; see Tail.
func (p *Parser) MangledName() (ast.Node, error) {
	if p.cur.HasPrefix("_GLOBAL_") {
		return p.globalCtorDtor()
	}
	if !p.cur.ConsumePrefix("_Z") && !p.cur.ConsumePrefix("__Z") {
		return nil, errs.At("mangled-name", p.cur.Offset(), errs.ErrNotMangledName)
	}

	enc, err := p.encoding()
	if err != nil {
		return nil, err
	}
	return p.cloneSuffixes(enc), nil
}

// globalCtorDtor parses the keys GCC gives static initialization and
// finalization functions.
func (p *Parser) globalCtorDtor() (ast.Node, error) {
	start := p.cur.Offset()
	p.cur.Skip(len("_GLOBAL_"))

	var dtor bool
	switch {
	case p.cur.ConsumePrefix("_sub_I_"):
	case p.cur.ConsumePrefix("_sub_D_"):
		dtor = true
	default:
		switch p.cur.Next() {
		case '.', '_', '$':
		default:
			return nil, errs.At("global-ctor-dtor", start, errs.ErrNotMangledName)
		}
		switch p.cur.Next() {
		case 'I':
		case 'D':
			dtor = true
		default:
			return nil, errs.At("global-ctor-dtor", start, errs.ErrNotMangledName)
		}
		if !p.cur.Consume('_') {
			return nil, errs.At("global-ctor-dtor", start, errs.ErrNotMangledName)
		}
	}

	g := &ast.GlobalCtorDtor{Destructor: dtor}
	if p.cur.HasPrefix("_Z") {
		target, err := p.MangledName()
		if err != nil {
			return nil, err
		}
		g.Target = target
		return g, nil
	}
	g.Raw = p.cur.Tail()
	p.cur.Skip(len(g.Raw))
	return g, nil
}

// cloneSuffixes wraps enc in one Cloned node per vendor suffix such as
// ".constprop.0" or ".cold".
func (p *Parser) cloneSuffixes(enc ast.Node) ast.Node {
	for p.cur.Peek() == '.' && isCloneStart(p.cur.PeekAt(1)) {
		cp := p.cur.Checkpoint()
		p.cur.Skip(2)
		for isCloneStart(p.cur.Peek()) {
			p.cur.Skip(1)
		}
		for p.cur.Peek() == '.' && isDigit(p.cur.PeekAt(1)) {
			p.cur.Skip(2)
			p.cur.Digits()
		}
		enc = &ast.Cloned{Encoding: enc, Suffix: p.cur.Since(cp)}
	}
	return enc
}

// encoding parses
//
//	<encoding> ::= <name> <bare-function-type>
//	           ::= <name>
//	           ::= <special-name>
func (p *Parser) encoding() (ast.Node, error) {
	if err := p.enter("encoding"); err != nil {
		return nil, err
	}
	defer p.leave()

	switch p.cur.Peek() {
	case 'T', 'G':
		return p.specialName()
	}

	name, err := p.name()
	if err != nil {
		return nil, err
	}
	if p.atEncodingEnd() {
		return &ast.Encoding{Name: name}, nil
	}

	sig := &ast.FunctionType{}
	if hasReturnType(name) {
		if sig.Return, err = p.typ(); err != nil {
			return nil, err
		}
	}
	for !p.atEncodingEnd() {
		param, err := p.typ()
		if err != nil {
			return nil, err
		}
		sig.Params = append(sig.Params, param)
	}
	if len(sig.Params) == 0 {
		return nil, errs.Atf("bare-function-type", p.cur.Offset(), errs.ErrUnexpectedEnd, "missing parameter types")
	}
	return &ast.Encoding{Name: name, Signature: sig}, nil
}

func (p *Parser) atEncodingEnd() bool {
	switch p.cur.Peek() {
	case 0, 'E', '.':
		return true
	}
	return false
}

// hasReturnType reports whether a function's signature encodes its return
// type: true for template functions other than constructors, destructors and
// conversion operators.
func hasReturnType(name ast.Node) bool {
	for i := 0; i < 64; i++ {
		switch t := name.(type) {
		case *ast.MemberQualified:
			name = t.Name
		case *ast.LocalName:
			name = t.Entity
		case *ast.AbiTagged:
			name = t.Name
		case *ast.TemplateName:
			switch ast.LastName(t.Name).(type) {
			case *ast.CtorDtor, *ast.Conversion:
				return false
			}
			return true
		default:
			return false
		}
	}
	return false
}

func (p *Parser) enter(production string) error {
	if p.depth >= p.maxDepth {
		return errs.Atf(production, p.cur.Offset(), errs.ErrRecursionLimitExceeded, "depth %d", p.maxDepth)
	}
	p.depth++
	return nil
}

func (p *Parser) leave() {
	p.depth--
}

func (p *Parser) unexpected(production string) error {
	if p.cur.AtEnd() {
		return errs.At(production, p.cur.Offset(), errs.ErrUnexpectedEnd)
	}
	return errs.Atf(production, p.cur.Offset(), errs.ErrUnexpectedToken, "got %q", p.cur.Peek())
}

// count parses a non-negative decimal number.
func (p *Parser) count(production string) (int, error) {
	start := p.cur.Offset()
	n, neg, err := p.cur.Number(production)
	if err != nil {
		return 0, err
	}
	if neg {
		return 0, errs.Atf(production, start, errs.ErrUnexpectedToken, "negative count")
	}
	return n, nil
}

// compactNumber parses "_" as 0 and "<n>_" as n+1.
func (p *Parser) compactNumber(production string) (int, error) {
	if p.cur.Consume('_') {
		return 0, nil
	}
	start := p.cur.Offset()
	n, err := p.count(production)
	if err != nil {
		return 0, err
	}
	// callers add one more for their 1-based numbering
	if n >= math.MaxInt-1 {
		return 0, errs.Atf(production, start, errs.ErrUnexpectedToken, "number overflows")
	}
	if err := p.cur.Expect('_', production); err != nil {
		return 0, err
	}
	return n + 1, nil
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isUpper(b byte) bool {
	return b >= 'A' && b <= 'Z'
}

func isLower(b byte) bool {
	return b >= 'a' && b <= 'z'
}

func isCloneStart(b byte) bool {
	return isLower(b) || isDigit(b) || b == '_'
}
