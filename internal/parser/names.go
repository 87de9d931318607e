package parser

import (
	"strings"

	"github.com/skdltmxn/cxxdemangle/internal/ast"
	"github.com/skdltmxn/cxxdemangle/internal/errs"
)

// name parses
//
//	<name> ::= <nested-name>
//	       ::= <unscoped-name>
//	       ::= <unscoped-template-name> <template-args>
//	       ::= <local-name>
func (p *Parser) name() (ast.Node, error) {
	if err := p.enter("name"); err != nil {
		return nil, err
	}
	defer p.leave()

	switch p.cur.Peek() {
	case 'N':
		return p.nestedName()
	case 'Z':
		return p.localName()
	case 'S':
		if p.cur.PeekAt(1) == 't' {
			p.cur.Skip(2)
			uq, err := p.unqualifiedName(nil)
			if err != nil {
				return nil, err
			}
			return p.unscopedTemplate(&ast.Nested{Scope: stdNamespace(), Name: uq})
		}
		sub, err := p.substitution(false)
		if err != nil {
			return nil, err
		}
		if p.cur.Peek() != 'I' {
			return sub, nil
		}
		args, err := p.templateArgs()
		if err != nil {
			return nil, err
		}
		return &ast.TemplateName{Name: sub, Args: args}, nil
	}

	uq, err := p.unqualifiedName(nil)
	if err != nil {
		return nil, err
	}
	return p.unscopedTemplate(uq)
}

// unscopedTemplate records n and applies a following argument list.
func (p *Parser) unscopedTemplate(n ast.Node) (ast.Node, error) {
	if p.cur.Peek() != 'I' {
		return n, nil
	}
	p.subs.Append(n)
	args, err := p.templateArgs()
	if err != nil {
		return nil, err
	}
	return &ast.TemplateName{Name: n, Args: args}, nil
}

func stdNamespace() ast.Node {
	return &ast.Identifier{Name: "std"}
}

// nestedName parses
//
//	<nested-name> ::= N [<CV-qualifiers>] [<ref-qualifier>] <prefix> <unqualified-name> E
//	              ::= N [<CV-qualifiers>] [<ref-qualifier>] <template-prefix> <template-args> E
//
// Each prefix is recorded as a substitution candidate unless it is the
// complete name.
func (p *Parser) nestedName() (ast.Node, error) {
	if err := p.cur.Expect('N', "nested-name"); err != nil {
		return nil, err
	}
	quals := p.cvQualifiers()
	ref := ast.RefQualifierNone
	switch {
	case p.cur.Consume('R'):
		ref = ast.RefQualifierLValue
	case p.cur.Consume('O'):
		ref = ast.RefQualifierRValue
	}

	var prev ast.Node
	for {
		if p.cur.AtEnd() {
			return nil, errs.At("nested-name", p.cur.Offset(), errs.ErrUnexpectedEnd)
		}
		if p.cur.Consume('E') {
			break
		}

		c := p.cur.Peek()
		switch {
		case c == 'S' && prev == nil:
			if p.cur.PeekAt(1) == 't' {
				p.cur.Skip(2)
				prev = stdNamespace()
				continue
			}
			sub, err := p.substitution(true)
			if err != nil {
				return nil, err
			}
			prev = sub
			continue
		case c == 'T' && prev == nil:
			tp, err := p.templateParam()
			if err != nil {
				return nil, err
			}
			prev = tp
		case c == 'D' && (p.cur.PeekAt(1) == 't' || p.cur.PeekAt(1) == 'T') && prev == nil:
			dt, err := p.decltype()
			if err != nil {
				return nil, err
			}
			prev = dt
		case c == 'I':
			if prev == nil {
				return nil, p.unexpected("nested-name")
			}
			args, err := p.templateArgs()
			if err != nil {
				return nil, err
			}
			prev = &ast.TemplateName{Name: prev, Args: args}
		case c == 'M':
			// <data-member-prefix> closes a member initializer scope.
			if prev == nil {
				return nil, p.unexpected("nested-name")
			}
			p.cur.Skip(1)
			continue
		default:
			uq, err := p.unqualifiedName(prev)
			if err != nil {
				return nil, err
			}
			if prev == nil {
				prev = uq
			} else {
				prev = &ast.Nested{Scope: prev, Name: uq}
			}
		}

		if p.cur.Peek() != 'E' {
			p.subs.Append(prev)
		}
	}

	if prev == nil {
		return nil, errs.Atf("nested-name", p.cur.Offset(), errs.ErrUnexpectedToken, "empty name")
	}
	if !quals.IsEmpty() || ref != ast.RefQualifierNone {
		return &ast.MemberQualified{Name: prev, Quals: quals, Ref: ref}, nil
	}
	return prev, nil
}

// unqualifiedName parses
//
//	<unqualified-name> ::= [L] <source-name> [<abi-tags>]
//	                   ::= <operator-name> [<abi-tags>]
//	                   ::= <ctor-dtor-name>
//	                   ::= <unnamed-type-name>
//	                   ::= DC <source-name>+ E
//
// scope is the enclosing prefix, needed to spell constructors.
func (p *Parser) unqualifiedName(scope ast.Node) (ast.Node, error) {
	p.cur.Consume('L')

	var (
		n   ast.Node
		err error
	)
	c := p.cur.Peek()
	switch {
	case isDigit(c):
		n, err = p.sourceName()
	case c == 'C':
		n, err = p.ctorDtorName(scope)
	case c == 'D' && p.cur.PeekAt(1) == 'C':
		n, err = p.structuredBinding()
	case c == 'D' && isDigit(p.cur.PeekAt(1)):
		n, err = p.ctorDtorName(scope)
	case c == 'U':
		n, err = p.unnamedTypeName()
	case isLower(c):
		n, err = p.operatorName(true)
	default:
		return nil, p.unexpected("unqualified-name")
	}
	if err != nil {
		return nil, err
	}
	return p.abiTags(n)
}

// abiTags parses any number of B <source-name>.
func (p *Parser) abiTags(n ast.Node) (ast.Node, error) {
	if p.cur.Peek() != 'B' {
		return n, nil
	}
	tagged := &ast.AbiTagged{Name: n}
	for p.cur.Consume('B') {
		tag, err := p.identifier("abi-tag")
		if err != nil {
			return nil, err
		}
		tagged.Tags = append(tagged.Tags, tag)
	}
	return tagged, nil
}

// sourceName parses <source-name> ::= <positive length number> <identifier>.
func (p *Parser) sourceName() (ast.Node, error) {
	id, err := p.identifier("source-name")
	if err != nil {
		return nil, err
	}
	if isAnonymousNamespace(id) {
		return &ast.Identifier{Name: "(anonymous namespace)"}, nil
	}
	return &ast.Identifier{Name: id}, nil
}

func (p *Parser) identifier(production string) (string, error) {
	start := p.cur.Offset()
	if !isDigit(p.cur.Peek()) {
		return "", p.unexpected(production)
	}
	n, err := p.count(production)
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", errs.Atf(production, start, errs.ErrUnexpectedToken, "zero-length identifier")
	}
	return p.cur.Take(n, production)
}

// isAnonymousNamespace recognises the _GLOBAL__N identifiers GCC gives
// anonymous namespaces.
func isAnonymousNamespace(id string) bool {
	if len(id) < 10 || !strings.HasPrefix(id, "_GLOBAL_") {
		return false
	}
	switch id[8] {
	case '.', '_', '$':
		return id[9] == 'N'
	}
	return false
}

// operatorName parses <operator-name>. conversion is false in expression
// context, where "cv" is a cast rather than a conversion operator.
func (p *Parser) operatorName(conversion bool) (ast.Node, error) {
	if p.cur.Remaining() < 2 {
		return nil, errs.At("operator-name", p.cur.Offset(), errs.ErrUnexpectedEnd)
	}
	c0, c1 := p.cur.Peek(), p.cur.PeekAt(1)
	code := string([]byte{c0, c1})

	switch {
	case code == "cv":
		p.cur.Skip(2)
		saved := p.inConversion
		p.inConversion = conversion
		t, err := p.typ()
		p.inConversion = saved
		if err != nil {
			return nil, err
		}
		return &ast.Conversion{Type: t}, nil
	case code == "li":
		p.cur.Skip(2)
		id, err := p.identifier("operator-name")
		if err != nil {
			return nil, err
		}
		return &ast.LiteralOperator{Name: id}, nil
	case c0 == 'v' && isDigit(c1):
		p.cur.Skip(2)
		id, err := p.identifier("operator-name")
		if err != nil {
			return nil, err
		}
		return &ast.VendorOperator{Arity: int(c1 - '0'), Name: id}, nil
	}

	info, ok := ast.Operators[code]
	if !ok {
		return nil, errs.Atf("operator-name", p.cur.Offset(), errs.ErrUnexpectedToken, "unknown operator %q", code)
	}
	p.cur.Skip(2)
	return &ast.Operator{Info: info}, nil
}

// ctorDtorName parses
//
//	<ctor-dtor-name> ::= C1 | C2 | C3 | C4 | C5 | CI1 <type> | CI2 <type>
//	                 ::= D0 | D1 | D2 | D4 | D5
func (p *Parser) ctorDtorName(scope ast.Node) (ast.Node, error) {
	start := p.cur.Offset()
	if scope == nil {
		return nil, errs.Atf("ctor-dtor-name", start, errs.ErrUnexpectedToken, "constructor or destructor outside a class")
	}
	cd := &ast.CtorDtor{Scope: ast.LastName(scope)}

	switch p.cur.Next() {
	case 'C':
		inheriting := p.cur.Consume('I')
		v := p.cur.Next()
		if v < '1' || v > '5' {
			return nil, errs.Atf("ctor-dtor-name", start, errs.ErrUnexpectedToken, "bad constructor variant %q", v)
		}
		cd.Variant = v
		if inheriting {
			base, err := p.typ()
			if err != nil {
				return nil, err
			}
			cd.Inheriting = base
		}
	case 'D':
		v := p.cur.Next()
		if v < '0' || v > '5' {
			return nil, errs.Atf("ctor-dtor-name", start, errs.ErrUnexpectedToken, "bad destructor variant %q", v)
		}
		cd.Destructor = true
		cd.Variant = v
	}
	return cd, nil
}

// structuredBinding parses DC <source-name>+ E.
func (p *Parser) structuredBinding() (ast.Node, error) {
	p.cur.Skip(2)
	sb := &ast.StructuredBinding{}
	for !p.cur.Consume('E') {
		id, err := p.identifier("structured-binding")
		if err != nil {
			return nil, err
		}
		sb.Names = append(sb.Names, id)
	}
	if len(sb.Names) == 0 {
		return nil, errs.Atf("structured-binding", p.cur.Offset(), errs.ErrUnexpectedToken, "no names")
	}
	return sb, nil
}

// unnamedTypeName parses
//
//	<unnamed-type-name> ::= Ut [<nonnegative number>] _
//	                    ::= Ul <lambda-sig> E [<nonnegative number>] _
func (p *Parser) unnamedTypeName() (ast.Node, error) {
	start := p.cur.Offset()
	switch p.cur.PeekAt(1) {
	case 't':
		p.cur.Skip(2)
		n, err := p.compactNumber("unnamed-type-name")
		if err != nil {
			return nil, err
		}
		return &ast.UnnamedType{Number: n + 1}, nil
	case 'l':
		p.cur.Skip(2)
		saved := p.inLambda
		p.inLambda = true
		var params []ast.Node
		for !p.cur.Consume('E') {
			if p.cur.AtEnd() {
				p.inLambda = saved
				return nil, errs.At("lambda-sig", p.cur.Offset(), errs.ErrUnexpectedEnd)
			}
			t, err := p.typ()
			if err != nil {
				p.inLambda = saved
				return nil, err
			}
			params = append(params, t)
		}
		p.inLambda = saved
		if len(params) == 0 {
			return nil, errs.Atf("lambda-sig", p.cur.Offset(), errs.ErrUnexpectedToken, "empty signature")
		}
		n, err := p.compactNumber("closure-type-name")
		if err != nil {
			return nil, err
		}
		return &ast.Closure{Params: params, Number: n + 1}, nil
	}
	return nil, errs.Atf("unnamed-type-name", start, errs.ErrUnsupportedExtension, "U%c", p.cur.PeekAt(1))
}

// localName parses
//
//	<local-name> ::= Z <encoding> E <entity name> [<discriminator>]
//	             ::= Z <encoding> E s [<discriminator>]
//	             ::= Z <encoding> E d [<parameter number>] _ <entity name>
func (p *Parser) localName() (ast.Node, error) {
	if err := p.cur.Expect('Z', "local-name"); err != nil {
		return nil, err
	}
	enc, err := p.encoding()
	if err != nil {
		return nil, err
	}
	if err := p.cur.Expect('E', "local-name"); err != nil {
		return nil, err
	}

	ln := &ast.LocalName{Encoding: enc, Discriminator: -1}
	switch {
	case p.cur.Consume('s'):
		ln.Entity = &ast.StringLiteralName{}
	case p.cur.Consume('d'):
		idx, err := p.compactNumber("local-name")
		if err != nil {
			return nil, err
		}
		entity, err := p.name()
		if err != nil {
			return nil, err
		}
		ln.Entity = &ast.DefaultArgScope{Index: idx + 1, Entity: entity}
		return ln, nil
	default:
		if ln.Entity, err = p.name(); err != nil {
			return nil, err
		}
	}

	if ln.Discriminator, err = p.discriminator(); err != nil {
		return nil, err
	}
	return ln, nil
}

// discriminator parses _ <digit> or __ <number> _, returning -1 when absent.
func (p *Parser) discriminator() (int, error) {
	if p.cur.Peek() != '_' {
		return -1, nil
	}
	switch next := p.cur.PeekAt(1); {
	case next == '_':
		p.cur.Skip(2)
		n, err := p.count("discriminator")
		if err != nil {
			return 0, err
		}
		if err := p.cur.Expect('_', "discriminator"); err != nil {
			return 0, err
		}
		return n, nil
	case isDigit(next):
		p.cur.Skip(2)
		return int(next - '0'), nil
	}
	return -1, nil
}

// substitution parses
//
//	<substitution> ::= S_ | S <seq-id> _
//	               ::= Sa | Sb | Ss | Si | So | Sd
//
// In a prefix, a standard abbreviation followed by a constructor or
// destructor takes its full spelling.
func (p *Parser) substitution(inPrefix bool) (ast.Node, error) {
	start := p.cur.Offset()
	if err := p.cur.Expect('S', "substitution"); err != nil {
		return nil, err
	}

	c := p.cur.Peek()
	if _, ok := ast.StdSubstitutions[c]; ok {
		p.cur.Skip(1)
		next := p.cur.Peek()
		return &ast.StdSubstitution{Code: c, Expanded: inPrefix && (next == 'C' || next == 'D')}, nil
	}

	var index int
	if !p.cur.Consume('_') {
		seq, err := p.cur.SeqID("substitution")
		if err != nil {
			return nil, err
		}
		if err := p.cur.Expect('_', "substitution"); err != nil {
			return nil, err
		}
		index = seq + 1
	}

	target, err := p.subs.Resolve(index)
	if err != nil {
		return nil, errs.Atf("substitution", start, errs.ErrBadBackReference, "index %d (have %d)", index, p.subs.Len())
	}
	return &ast.Substitution{Index: index, Target: target}, nil
}

// templateParam parses T_ | T <number> _.
func (p *Parser) templateParam() (ast.Node, error) {
	if err := p.cur.Expect('T', "template-param"); err != nil {
		return nil, err
	}
	idx, err := p.compactNumber("template-param")
	if err != nil {
		return nil, err
	}
	if p.inLambda {
		return &ast.AutoParam{Number: idx + 1}, nil
	}
	return &ast.TemplateParam{Index: idx}, nil
}

// templateArgs parses I <template-arg>+ E.
func (p *Parser) templateArgs() (*ast.TemplateArgs, error) {
	if err := p.enter("template-args"); err != nil {
		return nil, err
	}
	defer p.leave()

	if err := p.cur.Expect('I', "template-args"); err != nil {
		return nil, err
	}
	saved := p.inConversion
	p.inConversion = false
	defer func() { p.inConversion = saved }()

	args := &ast.TemplateArgs{}
	for !p.cur.Consume('E') {
		if p.cur.AtEnd() {
			return nil, errs.At("template-args", p.cur.Offset(), errs.ErrUnexpectedEnd)
		}
		arg, err := p.templateArg()
		if err != nil {
			return nil, err
		}
		args.Args = append(args.Args, arg)
	}
	return args, nil
}

// templateArg parses
//
//	<template-arg> ::= <type>
//	               ::= X <expression> E
//	               ::= <expr-primary>
//	               ::= J <template-arg>* E
func (p *Parser) templateArg() (ast.Node, error) {
	switch p.cur.Peek() {
	case 'X':
		p.cur.Skip(1)
		e, err := p.expression()
		if err != nil {
			return nil, err
		}
		if err := p.cur.Expect('E', "template-arg"); err != nil {
			return nil, err
		}
		return e, nil
	case 'L':
		return p.exprPrimary()
	case 'J':
		p.cur.Skip(1)
		pack := &ast.ArgPack{}
		for !p.cur.Consume('E') {
			if p.cur.AtEnd() {
				return nil, errs.At("template-arg", p.cur.Offset(), errs.ErrUnexpectedEnd)
			}
			arg, err := p.templateArg()
			if err != nil {
				return nil, err
			}
			pack.Elements = append(pack.Elements, arg)
		}
		return pack, nil
	}
	return p.typ()
}
