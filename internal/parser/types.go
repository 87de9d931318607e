package parser

import (
	"fmt"

	"github.com/skdltmxn/cxxdemangle/internal/ast"
	"github.com/skdltmxn/cxxdemangle/internal/errs"
)

// typ parses <type> and records it as a substitution candidate when the
// grammar says so. Builtins and bare back-references are never recorded.
func (p *Parser) typ() (ast.Node, error) {
	if err := p.enter("type"); err != nil {
		return nil, err
	}
	defer p.leave()

	start := p.cur.Offset()
	c := p.cur.Peek()

	if name, ok := ast.Builtins[c]; ok {
		p.cur.Skip(1)
		return &ast.Builtin{Name: name}, nil
	}

	var (
		t   ast.Node
		err error
	)
	switch c {
	case 0:
		return nil, errs.At("type", start, errs.ErrUnexpectedEnd)
	case 'u':
		p.cur.Skip(1)
		var id string
		if id, err = p.identifier("vendor-type"); err != nil {
			return nil, err
		}
		t = &ast.Builtin{Name: id, Vendor: true}
		if p.cur.Peek() == 'I' {
			p.subs.Append(t)
			args, err := p.templateArgs()
			if err != nil {
				return nil, err
			}
			t = &ast.TemplateName{Name: t, Args: args}
		}
	case 'r', 'V', 'K':
		return p.qualifiedType()
	case 'U':
		t, err = p.vendorQualifiedType()
	case 'P':
		p.cur.Skip(1)
		var pointee ast.Node
		if pointee, err = p.typ(); err != nil {
			return nil, err
		}
		t = &ast.Pointer{Pointee: pointee}
	case 'R', 'O':
		p.cur.Skip(1)
		var pointee ast.Node
		if pointee, err = p.typ(); err != nil {
			return nil, err
		}
		t = &ast.Reference{Pointee: pointee, RValue: c == 'O'}
	case 'C', 'G':
		p.cur.Skip(1)
		var elem ast.Node
		if elem, err = p.typ(); err != nil {
			return nil, err
		}
		t = &ast.Complex{Element: elem, Imaginary: c == 'G'}
	case 'F':
		t, err = p.functionType()
	case 'A':
		t, err = p.arrayType()
	case 'M':
		t, err = p.pointerToMemberType()
	case 'T':
		switch p.cur.PeekAt(1) {
		case 's', 'u', 'e':
			t, err = p.elaboratedType()
		default:
			if t, err = p.templateParam(); err != nil {
				return nil, err
			}
			if auto, ok := t.(*ast.AutoParam); ok {
				// Later back-references name the deduced argument, not the
				// invented parameter.
				p.subs.Append(&ast.TemplateParam{Index: auto.Number - 1})
				return t, nil
			}
			if p.cur.Peek() == 'I' {
				t, err = p.applyArgs(t, true)
			}
		}
	case 'S':
		next := p.cur.PeekAt(1)
		if isDigit(next) || next == '_' || isUpper(next) {
			var sub ast.Node
			if sub, err = p.substitution(false); err != nil {
				return nil, err
			}
			if p.cur.Peek() != 'I' {
				return sub, nil
			}
			t, err = p.applyArgs(sub, false)
			if err != nil {
				return nil, err
			}
			if _, ok := t.(*ast.TemplateName); !ok {
				return t, nil
			}
			break
		}
		if t, err = p.name(); err != nil {
			return nil, err
		}
		if _, ok := t.(*ast.StdSubstitution); ok {
			return t, nil
		}
	case 'D':
		return p.extendedType()
	case 'N', 'Z':
		t, err = p.name()
	default:
		if !isDigit(c) {
			return nil, p.unexpected("type")
		}
		t, err = p.name()
	}
	if err != nil {
		return nil, err
	}

	p.subs.Append(t)
	return t, nil
}

// qualifiedType parses <CV-qualifiers> <type>. Qualifiers on a function type
// become the function's own qualifiers.
func (p *Parser) qualifiedType() (ast.Node, error) {
	quals := p.cvQualifiers()
	inner, err := p.typ()
	if err != nil {
		return nil, err
	}

	var t ast.Node
	target := inner
	if sub, ok := inner.(*ast.Substitution); ok {
		target = sub.Target
	}
	if fn, ok := target.(*ast.FunctionType); ok {
		qualified := *fn
		qualified.Quals = quals
		t = &qualified
	} else {
		t = &ast.Qualified{Type: inner, Quals: quals}
	}
	p.subs.Append(t)
	return t, nil
}

func (p *Parser) cvQualifiers() ast.Qualifiers {
	var q ast.Qualifiers
	q.IsRestrict = p.cur.Consume('r')
	q.IsVolatile = p.cur.Consume('V')
	q.IsConst = p.cur.Consume('K')
	return q
}

// vendorQualifiedType parses U <source-name> [<template-args>] <type>.
func (p *Parser) vendorQualifiedType() (ast.Node, error) {
	p.cur.Skip(1)
	id, err := p.identifier("vendor-qualifier")
	if err != nil {
		return nil, err
	}
	vq := &ast.VendorQualified{Qualifier: id}
	if p.cur.Peek() == 'I' {
		if vq.Args, err = p.templateArgs(); err != nil {
			return nil, err
		}
	}
	if vq.Type, err = p.typ(); err != nil {
		return nil, err
	}
	return vq, nil
}

// applyArgs parses template arguments following a template parameter or a
// back-reference. Inside the type of a conversion operator the list may
// belong to the operator instead; it is kept only when another list
// follows, otherwise the input is rewound and the speculative substitutions
// are dropped.
func (p *Parser) applyArgs(n ast.Node, candidate bool) (ast.Node, error) {
	if !p.inConversion {
		if candidate {
			p.subs.Append(n)
		}
		args, err := p.templateArgs()
		if err != nil {
			return nil, err
		}
		return &ast.TemplateName{Name: n, Args: args}, nil
	}

	cp := p.cur.Checkpoint()
	committed := p.subs
	p.subs = committed.Speculate()
	args, err := p.templateArgs()
	trial := p.subs
	p.subs = committed

	if err != nil || p.cur.Peek() != 'I' {
		p.log.Trace().Int("offset", int(cp)).Msg("conversion operator arguments backtracked")
		p.cur.Restore(cp)
		return n, nil
	}
	trial.Commit()
	if candidate {
		p.subs.Append(n)
	}
	return &ast.TemplateName{Name: n, Args: args}, nil
}

// functionType parses
//
//	<function-type> ::= [<exception-spec>] [Dx] F [Y] <bare-function-type> [<ref-qualifier>] E
func (p *Parser) functionType() (ast.Node, error) {
	fn := &ast.FunctionType{}
	for p.cur.Peek() == 'D' {
		switch p.cur.PeekAt(1) {
		case 'o':
			p.cur.Skip(2)
			fn.Exception = &ast.Noexcept{}
		case 'O':
			p.cur.Skip(2)
			e, err := p.expression()
			if err != nil {
				return nil, err
			}
			if err := p.cur.Expect('E', "exception-spec"); err != nil {
				return nil, err
			}
			fn.Exception = &ast.Noexcept{Expr: e}
		case 'w':
			p.cur.Skip(2)
			spec := &ast.DynamicException{}
			for !p.cur.Consume('E') {
				t, err := p.typ()
				if err != nil {
					return nil, err
				}
				spec.Types = append(spec.Types, t)
			}
			fn.Exception = spec
		case 'x':
			p.cur.Skip(2)
			fn.TransactionSafe = true
		default:
			return nil, p.unexpected("function-type")
		}
	}

	if err := p.cur.Expect('F', "function-type"); err != nil {
		return nil, err
	}
	fn.ExternC = p.cur.Consume('Y')

	ret, err := p.typ()
	if err != nil {
		return nil, err
	}
	fn.Return = ret

	for {
		switch {
		case p.cur.AtEnd():
			return nil, errs.At("function-type", p.cur.Offset(), errs.ErrUnexpectedEnd)
		case p.cur.Consume('E'):
			if len(fn.Params) == 0 {
				return nil, errs.Atf("function-type", p.cur.Offset(), errs.ErrUnexpectedToken, "missing parameter types")
			}
			return fn, nil
		case p.cur.HasPrefix("RE"):
			p.cur.Skip(1)
			fn.Ref = ast.RefQualifierLValue
			continue
		case p.cur.HasPrefix("OE"):
			p.cur.Skip(1)
			fn.Ref = ast.RefQualifierRValue
			continue
		}
		param, err := p.typ()
		if err != nil {
			return nil, err
		}
		fn.Params = append(fn.Params, param)
	}
}

// arrayType parses A <number> _ <type> | A [<expression>] _ <type>.
func (p *Parser) arrayType() (ast.Node, error) {
	p.cur.Skip(1)
	arr := &ast.ArrayType{}
	switch c := p.cur.Peek(); {
	case c == '_':
	case isDigit(c):
		arr.Dimension = &ast.Number{Value: p.cur.Digits()}
	default:
		dim, err := p.expression()
		if err != nil {
			return nil, err
		}
		arr.Dimension = dim
	}
	if err := p.cur.Expect('_', "array-type"); err != nil {
		return nil, err
	}
	elem, err := p.typ()
	if err != nil {
		return nil, err
	}
	arr.Element = elem
	return arr, nil
}

// pointerToMemberType parses M <class type> <member type>.
func (p *Parser) pointerToMemberType() (ast.Node, error) {
	p.cur.Skip(1)
	class, err := p.typ()
	if err != nil {
		return nil, err
	}
	member, err := p.typ()
	if err != nil {
		return nil, err
	}
	return &ast.PointerToMember{Class: class, Member: member}, nil
}

// elaboratedType parses Ts | Tu | Te <name>.
func (p *Parser) elaboratedType() (ast.Node, error) {
	var keyword string
	switch p.cur.PeekAt(1) {
	case 's':
		keyword = "struct"
	case 'u':
		keyword = "union"
	case 'e':
		keyword = "enum"
	}
	p.cur.Skip(2)
	n, err := p.name()
	if err != nil {
		return nil, err
	}
	return &ast.Elaborated{Keyword: keyword, Name: n}, nil
}

// decltype parses Dt <expression> E | DT <expression> E.
func (p *Parser) decltype() (ast.Node, error) {
	p.cur.Skip(2)
	e, err := p.expression()
	if err != nil {
		return nil, err
	}
	if err := p.cur.Expect('E', "decltype"); err != nil {
		return nil, err
	}
	return &ast.Decltype{Expr: e}, nil
}

// extendedType parses the D-prefixed types.
func (p *Parser) extendedType() (ast.Node, error) {
	start := p.cur.Offset()
	c := p.cur.PeekAt(1)

	var (
		t   ast.Node
		err error
	)
	switch c {
	case 'p':
		p.cur.Skip(2)
		var pattern ast.Node
		if pattern, err = p.typ(); err != nil {
			return nil, err
		}
		t = &ast.PackExpansion{Pattern: pattern}
	case 't', 'T':
		t, err = p.decltype()
	case 'v':
		t, err = p.vectorType()
	case 'o', 'O', 'w', 'x':
		t, err = p.functionType()
	case 'F':
		p.cur.Skip(2)
		var bits int
		if bits, err = p.count("float-type"); err != nil {
			return nil, err
		}
		switch {
		case p.cur.Consume('x'):
			return &ast.Builtin{Name: fmt.Sprintf("_Float%dx", bits)}, nil
		case bits == 16 && p.cur.Consume('b'):
			return &ast.Builtin{Name: "std::bfloat16_t"}, nil
		}
		if err := p.cur.Expect('_', "float-type"); err != nil {
			return nil, err
		}
		return &ast.Builtin{Name: fmt.Sprintf("_Float%d", bits)}, nil
	case 'B', 'U':
		p.cur.Skip(2)
		if !isDigit(p.cur.Peek()) {
			return nil, errs.Atf("bit-int-type", start, errs.ErrUnsupportedExtension, "dependent _BitInt width")
		}
		var bits int
		if bits, err = p.count("bit-int-type"); err != nil {
			return nil, err
		}
		if err := p.cur.Expect('_', "bit-int-type"); err != nil {
			return nil, err
		}
		if c == 'U' {
			return &ast.Builtin{Name: fmt.Sprintf("unsigned _BitInt(%d)", bits)}, nil
		}
		return &ast.Builtin{Name: fmt.Sprintf("_BitInt(%d)", bits)}, nil
	default:
		if name, ok := ast.ExtendedBuiltins[c]; ok {
			p.cur.Skip(2)
			return &ast.Builtin{Name: name}, nil
		}
		if c == 0 {
			return nil, errs.At("type", start, errs.ErrUnexpectedEnd)
		}
		return nil, errs.Atf("type", start, errs.ErrUnsupportedExtension, "D%c", c)
	}
	if err != nil {
		return nil, err
	}
	p.subs.Append(t)
	return t, nil
}

// vectorType parses Dv <number> _ <type> | Dv _ <expression> _ <type>.
func (p *Parser) vectorType() (ast.Node, error) {
	p.cur.Skip(2)
	vec := &ast.Vector{}
	if p.cur.Consume('_') {
		dim, err := p.expression()
		if err != nil {
			return nil, err
		}
		vec.Dimension = dim
	} else {
		digits := p.cur.Digits()
		if digits == "" {
			return nil, p.unexpected("vector-type")
		}
		vec.Dimension = &ast.Number{Value: digits}
	}
	if err := p.cur.Expect('_', "vector-type"); err != nil {
		return nil, err
	}
	if p.cur.Consume('p') {
		vec.Pixel = true
		return vec, nil
	}
	elem, err := p.typ()
	if err != nil {
		return nil, err
	}
	vec.Element = elem
	return vec, nil
}
