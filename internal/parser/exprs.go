package parser

import (
	"github.com/skdltmxn/cxxdemangle/internal/ast"
	"github.com/skdltmxn/cxxdemangle/internal/errs"
)

var castKeywords = map[string]string{
	"dc": "dynamic_cast",
	"sc": "static_cast",
	"cc": "const_cast",
	"rc": "reinterpret_cast",
}

var typeOperators = map[string]string{
	"ti": "typeid",
	"st": "sizeof",
	"at": "alignof",
}

var exprOperators = map[string]string{
	"te": "typeid",
	"sz": "sizeof",
	"az": "alignof",
	"nx": "noexcept",
}

// expression parses <expression>.
func (p *Parser) expression() (ast.Node, error) {
	if err := p.enter("expression"); err != nil {
		return nil, err
	}
	defer p.leave()

	start := p.cur.Offset()
	c0, c1 := p.cur.Peek(), p.cur.PeekAt(1)
	switch {
	case c0 == 0:
		return nil, errs.At("expression", start, errs.ErrUnexpectedEnd)
	case c0 == 'L':
		return p.exprPrimary()
	case c0 == 'T':
		return p.templateParam()
	case c0 == 'f' && (c1 == 'p' || (c1 == 'L' && isDigit(p.cur.PeekAt(2)))):
		return p.functionParam()
	case isDigit(c0):
		return p.unresolvedName()
	case c0 == 'g' && c1 == 's':
		switch string([]byte{p.cur.PeekAt(2), p.cur.PeekAt(3)}) {
		case "nw", "na":
			p.cur.Skip(2)
			return p.newExpr(true)
		case "dl", "da":
			p.cur.Skip(2)
			return p.deleteExpr(true)
		}
		return p.unresolvedName()
	case c0 == 'u' && isDigit(c1):
		return p.vendorExpr()
	}

	code := string([]byte{c0, c1})
	switch code {
	case "sr", "on", "dn":
		return p.unresolvedName()
	case "nw", "na":
		return p.newExpr(false)
	case "dl", "da":
		return p.deleteExpr(false)
	case "cl":
		p.cur.Skip(2)
		callee, err := p.expression()
		if err != nil {
			return nil, err
		}
		args, err := p.exprList('E')
		if err != nil {
			return nil, err
		}
		return &ast.Call{Callee: callee, Args: args}, nil
	case "cv":
		p.cur.Skip(2)
		t, err := p.typ()
		if err != nil {
			return nil, err
		}
		if p.cur.Consume('_') {
			args, err := p.exprList('E')
			if err != nil {
				return nil, err
			}
			return &ast.ConvertExpr{Type: t, Args: args, List: true}, nil
		}
		e, err := p.expression()
		if err != nil {
			return nil, err
		}
		return &ast.ConvertExpr{Type: t, Args: []ast.Node{e}}, nil
	case "tl":
		p.cur.Skip(2)
		t, err := p.typ()
		if err != nil {
			return nil, err
		}
		items, err := p.exprList('E')
		if err != nil {
			return nil, err
		}
		return &ast.InitList{Type: t, Items: items}, nil
	case "il":
		p.cur.Skip(2)
		items, err := p.exprList('E')
		if err != nil {
			return nil, err
		}
		return &ast.InitList{Items: items}, nil
	case "dc", "sc", "cc", "rc":
		p.cur.Skip(2)
		t, err := p.typ()
		if err != nil {
			return nil, err
		}
		e, err := p.expression()
		if err != nil {
			return nil, err
		}
		return &ast.Cast{Keyword: castKeywords[code], Type: t, Expr: e}, nil
	case "ti", "st", "at":
		p.cur.Skip(2)
		t, err := p.typ()
		if err != nil {
			return nil, err
		}
		return &ast.TypeOperator{Keyword: typeOperators[code], Type: t}, nil
	case "te", "sz", "az", "nx":
		p.cur.Skip(2)
		e, err := p.expression()
		if err != nil {
			return nil, err
		}
		return &ast.ExprOperator{Keyword: exprOperators[code], Expr: e}, nil
	case "sZ":
		p.cur.Skip(2)
		var (
			pack ast.Node
			err  error
		)
		switch p.cur.Peek() {
		case 'T':
			pack, err = p.templateParam()
		case 'f':
			pack, err = p.functionParam()
		default:
			return nil, p.unexpected("sizeof-pack")
		}
		if err != nil {
			return nil, err
		}
		return &ast.SizeofPack{Pack: pack}, nil
	case "sP":
		p.cur.Skip(2)
		pack := &ast.ArgPack{}
		for !p.cur.Consume('E') {
			if p.cur.AtEnd() {
				return nil, errs.At("sizeof-pack", p.cur.Offset(), errs.ErrUnexpectedEnd)
			}
			arg, err := p.templateArg()
			if err != nil {
				return nil, err
			}
			pack.Elements = append(pack.Elements, arg)
		}
		return &ast.SizeofPack{Pack: pack}, nil
	case "sp":
		p.cur.Skip(2)
		e, err := p.expression()
		if err != nil {
			return nil, err
		}
		return &ast.ExprPack{Expr: e}, nil
	case "tw":
		p.cur.Skip(2)
		e, err := p.expression()
		if err != nil {
			return nil, err
		}
		return &ast.Throw{Expr: e}, nil
	case "tr":
		p.cur.Skip(2)
		return &ast.Throw{}, nil
	case "dt", "pt":
		p.cur.Skip(2)
		obj, err := p.expression()
		if err != nil {
			return nil, err
		}
		member, err := p.unresolvedName()
		if err != nil {
			return nil, err
		}
		op := "."
		if code == "pt" {
			op = "->"
		}
		return &ast.MemberAccess{Object: obj, Op: op, Member: member}, nil
	case "ds":
		p.cur.Skip(2)
		obj, err := p.expression()
		if err != nil {
			return nil, err
		}
		member, err := p.expression()
		if err != nil {
			return nil, err
		}
		return &ast.MemberAccess{Object: obj, Op: ".*", Member: member}, nil
	case "pp", "mm":
		p.cur.Skip(2)
		info := ast.Operators[code]
		prefix := p.cur.Consume('_')
		e, err := p.expression()
		if err != nil {
			return nil, err
		}
		if prefix {
			return &ast.Unary{Op: info, Operand: e}, nil
		}
		return &ast.Postfix{Op: info, Operand: e}, nil
	case "qu":
		p.cur.Skip(2)
		var ops [3]ast.Node
		for i := range ops {
			e, err := p.expression()
			if err != nil {
				return nil, err
			}
			ops[i] = e
		}
		return &ast.Ternary{Cond: ops[0], Then: ops[1], Else: ops[2]}, nil
	case "fl", "fr", "fL", "fR", "di", "dx", "dX":
		return nil, errs.Atf("expression", start, errs.ErrUnsupportedExtension, "expression %q", code)
	}

	info, ok := ast.Operators[code]
	if !ok {
		return nil, errs.Atf("expression", start, errs.ErrUnexpectedToken, "unknown expression %q", code)
	}
	p.cur.Skip(2)
	switch info.Arity {
	case 1:
		e, err := p.expression()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Op: info, Operand: e}, nil
	case 2:
		l, err := p.expression()
		if err != nil {
			return nil, err
		}
		r, err := p.expression()
		if err != nil {
			return nil, err
		}
		return &ast.Binary{Op: info, Left: l, Right: r}, nil
	}
	return nil, errs.Atf("expression", start, errs.ErrUnexpectedToken, "operator %q in expression", code)
}

// exprList parses expressions up to and including end.
func (p *Parser) exprList(end byte) ([]ast.Node, error) {
	var out []ast.Node
	for !p.cur.Consume(end) {
		if p.cur.AtEnd() {
			return nil, errs.At("expression-list", p.cur.Offset(), errs.ErrUnexpectedEnd)
		}
		e, err := p.expression()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// exprPrimary parses
//
//	<expr-primary> ::= L <type> <value number> E
//	               ::= L <type> <value float> E
//	               ::= L <type> E
//	               ::= L _Z <encoding> E
func (p *Parser) exprPrimary() (ast.Node, error) {
	if err := p.cur.Expect('L', "expr-primary"); err != nil {
		return nil, err
	}
	if p.cur.ConsumePrefix("_Z") {
		enc, err := p.encoding()
		if err != nil {
			return nil, err
		}
		if err := p.cur.Expect('E', "expr-primary"); err != nil {
			return nil, err
		}
		return &ast.ExternalName{Encoding: enc}, nil
	}

	t, err := p.typ()
	if err != nil {
		return nil, err
	}
	lit := &ast.Literal{Type: t, Negative: p.cur.Consume('n')}
	cp := p.cur.Checkpoint()
	for c := p.cur.Peek(); isDigit(c) || isLower(c) || c == '_'; c = p.cur.Peek() {
		p.cur.Skip(1)
	}
	lit.Value = p.cur.Since(cp)
	if err := p.cur.Expect('E', "expr-primary"); err != nil {
		return nil, err
	}
	return lit, nil
}

// functionParam parses
//
//	<function-param> ::= fp <CV-qualifiers> _
//	                 ::= fp <CV-qualifiers> <number> _
//	                 ::= fL <number> p <CV-qualifiers> [<number>] _
//	                 ::= fpT
func (p *Parser) functionParam() (ast.Node, error) {
	if p.cur.ConsumePrefix("fpT") {
		return &ast.FunctionParam{}, nil
	}
	switch {
	case p.cur.ConsumePrefix("fp"):
	case p.cur.ConsumePrefix("fL"):
		if _, err := p.count("function-param"); err != nil {
			return nil, err
		}
		if err := p.cur.Expect('p', "function-param"); err != nil {
			return nil, err
		}
	default:
		return nil, p.unexpected("function-param")
	}
	p.cvQualifiers()
	n, err := p.compactNumber("function-param")
	if err != nil {
		return nil, err
	}
	return &ast.FunctionParam{Number: n + 1}, nil
}

// newExpr parses [gs] nw|na <expression>* _ <type> [pi <expression>* | <braced-init>] E.
func (p *Parser) newExpr(global bool) (ast.Node, error) {
	n := &ast.New{Global: global, Array: p.cur.PeekAt(1) == 'a'}
	p.cur.Skip(2)

	placement, err := p.exprList('_')
	if err != nil {
		return nil, err
	}
	n.Placement = placement
	if n.Type, err = p.typ(); err != nil {
		return nil, err
	}

	switch {
	case p.cur.ConsumePrefix("pi"):
		n.HasInit = true
		if n.Init, err = p.exprList('E'); err != nil {
			return nil, err
		}
		return n, nil
	case p.cur.HasPrefix("il"):
		init, err := p.expression()
		if err != nil {
			return nil, err
		}
		n.Init = []ast.Node{init}
	}
	if err := p.cur.Expect('E', "new-expression"); err != nil {
		return nil, err
	}
	return n, nil
}

// deleteExpr parses [gs] dl|da <expression>.
func (p *Parser) deleteExpr(global bool) (ast.Node, error) {
	d := &ast.Delete{Global: global, Array: p.cur.PeekAt(1) == 'a'}
	p.cur.Skip(2)
	e, err := p.expression()
	if err != nil {
		return nil, err
	}
	d.Expr = e
	return d, nil
}

// vendorExpr parses u <source-name> <template-arg>* E.
func (p *Parser) vendorExpr() (ast.Node, error) {
	p.cur.Skip(1)
	id, err := p.identifier("vendor-expression")
	if err != nil {
		return nil, err
	}
	v := &ast.VendorExpr{Name: id}
	for !p.cur.Consume('E') {
		if p.cur.AtEnd() {
			return nil, errs.At("vendor-expression", p.cur.Offset(), errs.ErrUnexpectedEnd)
		}
		arg, err := p.templateArg()
		if err != nil {
			return nil, err
		}
		v.Args = append(v.Args, arg)
	}
	return v, nil
}

// unresolvedName parses
//
//	<unresolved-name> ::= [gs] <base-unresolved-name>
//	                  ::= sr <unresolved-type> <base-unresolved-name>
//	                  ::= srN <unresolved-type> <unresolved-qualifier-level>+ E <base-unresolved-name>
//	                  ::= [gs] sr <unresolved-qualifier-level>+ E <base-unresolved-name>
func (p *Parser) unresolvedName() (ast.Node, error) {
	global := p.cur.ConsumePrefix("gs")

	var (
		n   ast.Node
		err error
	)
	if p.cur.ConsumePrefix("sr") {
		switch {
		case p.cur.Consume('N'):
			if n, err = p.unresolvedType(); err != nil {
				return nil, err
			}
			if n, err = p.qualifierLevels(n); err != nil {
				return nil, err
			}
		case isDigit(p.cur.Peek()):
			if n, err = p.qualifierLevels(nil); err != nil {
				return nil, err
			}
		default:
			if n, err = p.unresolvedType(); err != nil {
				return nil, err
			}
		}
		base, err := p.baseUnresolvedName()
		if err != nil {
			return nil, err
		}
		n = &ast.Nested{Scope: n, Name: base}
	} else if n, err = p.baseUnresolvedName(); err != nil {
		return nil, err
	}

	if global {
		return &ast.GlobalScope{Name: n}, nil
	}
	return n, nil
}

// qualifierLevels parses <unresolved-qualifier-level>+ E onto scope.
func (p *Parser) qualifierLevels(scope ast.Node) (ast.Node, error) {
	for !p.cur.Consume('E') {
		if p.cur.AtEnd() {
			return nil, errs.At("unresolved-qualifier-level", p.cur.Offset(), errs.ErrUnexpectedEnd)
		}
		id, err := p.simpleID()
		if err != nil {
			return nil, err
		}
		if scope == nil {
			scope = id
		} else {
			scope = &ast.Nested{Scope: scope, Name: id}
		}
	}
	if scope == nil {
		return nil, p.unexpected("unresolved-qualifier-level")
	}
	return scope, nil
}

// unresolvedType parses a template parameter, decltype or substitution,
// optionally followed by template arguments.
func (p *Parser) unresolvedType() (ast.Node, error) {
	var (
		t   ast.Node
		err error
	)
	switch p.cur.Peek() {
	case 'T':
		if t, err = p.templateParam(); err != nil {
			return nil, err
		}
		p.subs.Append(t)
	case 'D':
		if t, err = p.decltype(); err != nil {
			return nil, err
		}
		p.subs.Append(t)
	case 'S':
		if p.cur.PeekAt(1) == 't' {
			p.cur.Skip(2)
			id, err := p.simpleID()
			if err != nil {
				return nil, err
			}
			t = &ast.Nested{Scope: stdNamespace(), Name: id}
			break
		}
		if t, err = p.substitution(false); err != nil {
			return nil, err
		}
	default:
		return nil, p.unexpected("unresolved-type")
	}
	if p.cur.Peek() == 'I' {
		args, err := p.templateArgs()
		if err != nil {
			return nil, err
		}
		t = &ast.TemplateName{Name: t, Args: args}
		p.subs.Append(t)
	}
	return t, nil
}

// simpleID parses <source-name> [<template-args>].
func (p *Parser) simpleID() (ast.Node, error) {
	n, err := p.sourceName()
	if err != nil {
		return nil, err
	}
	if p.cur.Peek() != 'I' {
		return n, nil
	}
	args, err := p.templateArgs()
	if err != nil {
		return nil, err
	}
	return &ast.TemplateName{Name: n, Args: args}, nil
}

// baseUnresolvedName parses
//
//	<base-unresolved-name> ::= <simple-id>
//	                       ::= on <operator-name> [<template-args>]
//	                       ::= dn <destructor-name>
func (p *Parser) baseUnresolvedName() (ast.Node, error) {
	if isDigit(p.cur.Peek()) {
		return p.simpleID()
	}
	if p.cur.ConsumePrefix("dn") {
		var (
			target ast.Node
			err    error
		)
		if isDigit(p.cur.Peek()) {
			target, err = p.simpleID()
		} else {
			target, err = p.unresolvedType()
		}
		if err != nil {
			return nil, err
		}
		return &ast.CtorDtor{Scope: target, Destructor: true}, nil
	}
	p.cur.ConsumePrefix("on")
	op, err := p.operatorName(false)
	if err != nil {
		return nil, err
	}
	if p.cur.Peek() != 'I' {
		return op, nil
	}
	args, err := p.templateArgs()
	if err != nil {
		return nil, err
	}
	return &ast.TemplateName{Name: op, Args: args}, nil
}
