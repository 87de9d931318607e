package parser

import (
	"github.com/skdltmxn/cxxdemangle/internal/ast"
	"github.com/skdltmxn/cxxdemangle/internal/errs"
)

// specialName parses <special-name>: virtual tables, type info, guard
// variables, thunks and the other compiler-generated entities.
func (p *Parser) specialName() (ast.Node, error) {
	start := p.cur.Offset()
	c0, c1 := p.cur.Peek(), p.cur.PeekAt(1)

	if c0 == 'T' {
		switch c1 {
		case 'V':
			return p.specialType(ast.SpecialVTable)
		case 'T':
			return p.specialType(ast.SpecialVTT)
		case 'I':
			return p.specialType(ast.SpecialTypeinfo)
		case 'S':
			return p.specialType(ast.SpecialTypeinfoName)
		case 'h', 'v':
			p.cur.Skip(1)
			off, err := p.callOffset()
			if err != nil {
				return nil, err
			}
			kind := ast.ThunkNonVirtual
			if off.Virtual {
				kind = ast.ThunkVirtual
			}
			return p.thunk(kind, off)
		case 'c':
			p.cur.Skip(2)
			this, err := p.callOffset()
			if err != nil {
				return nil, err
			}
			result, err := p.callOffset()
			if err != nil {
				return nil, err
			}
			return p.thunk(ast.ThunkCovariant, this, result)
		case 'C':
			p.cur.Skip(2)
			derived, err := p.typ()
			if err != nil {
				return nil, err
			}
			offset, err := p.count("construction-vtable")
			if err != nil {
				return nil, err
			}
			if err := p.cur.Expect('_', "construction-vtable"); err != nil {
				return nil, err
			}
			base, err := p.typ()
			if err != nil {
				return nil, err
			}
			return &ast.ConstructionVTable{Derived: derived, Offset: offset, Base: base}, nil
		case 'H':
			return p.specialEntity(ast.SpecialTLSInit)
		case 'W':
			return p.specialEntity(ast.SpecialTLSWrapper)
		case 'A':
			p.cur.Skip(2)
			arg, err := p.templateArg()
			if err != nil {
				return nil, err
			}
			return &ast.SpecialName{Special: ast.SpecialTemplateParamObject, Target: arg}, nil
		}
	}

	if c0 == 'G' {
		switch c1 {
		case 'V':
			return p.specialEntity(ast.SpecialGuardVariable)
		case 'R':
			p.cur.Skip(2)
			n, err := p.name()
			if err != nil {
				return nil, err
			}
			seq, err := p.referenceTemporaryNumber()
			if err != nil {
				return nil, err
			}
			return &ast.ReferenceTemporary{Name: n, Number: seq}, nil
		case 'A':
			p.cur.Skip(2)
			return p.specialEncoding(ast.SpecialHiddenAlias)
		case 'T':
			switch p.cur.PeekAt(2) {
			case 't':
				p.cur.Skip(3)
				return p.specialEncoding(ast.SpecialTransactionClone)
			case 'n':
				p.cur.Skip(3)
				return p.specialEncoding(ast.SpecialNonTransactionClone)
			}
		}
	}

	if c1 == 0 {
		return nil, errs.At("special-name", start, errs.ErrUnexpectedEnd)
	}
	return nil, errs.Atf("special-name", start, errs.ErrUnexpectedToken, "unknown special name %c%c", c0, c1)
}

func (p *Parser) specialType(kind ast.SpecialKind) (ast.Node, error) {
	p.cur.Skip(2)
	t, err := p.typ()
	if err != nil {
		return nil, err
	}
	return &ast.SpecialName{Special: kind, Target: t}, nil
}

func (p *Parser) specialEntity(kind ast.SpecialKind) (ast.Node, error) {
	p.cur.Skip(2)
	n, err := p.name()
	if err != nil {
		return nil, err
	}
	return &ast.SpecialName{Special: kind, Target: n}, nil
}

func (p *Parser) specialEncoding(kind ast.SpecialKind) (ast.Node, error) {
	enc, err := p.encoding()
	if err != nil {
		return nil, err
	}
	return &ast.SpecialName{Special: kind, Target: enc}, nil
}

func (p *Parser) thunk(kind ast.ThunkKind, offsets ...ast.CallOffset) (ast.Node, error) {
	enc, err := p.encoding()
	if err != nil {
		return nil, err
	}
	return &ast.Thunk{Thunk: kind, Offsets: offsets, Target: enc}, nil
}

// callOffset parses
//
//	<call-offset> ::= h <nv-offset> _
//	              ::= v <v-offset> _
//	<nv-offset> ::= <offset number>
//	<v-offset>  ::= <offset number> _ <virtual offset number>
func (p *Parser) callOffset() (ast.CallOffset, error) {
	var off ast.CallOffset
	start := p.cur.Offset()

	switch p.cur.Next() {
	case 'h':
	case 'v':
		off.Virtual = true
	default:
		return off, errs.Atf("call-offset", start, errs.ErrUnexpectedToken, "want h or v")
	}

	n, neg, err := p.cur.Number("call-offset")
	if err != nil {
		return off, err
	}
	off.Offset, off.Negative = n, neg
	if err := p.cur.Expect('_', "call-offset"); err != nil {
		return off, err
	}
	if !off.Virtual {
		return off, nil
	}

	v, vneg, err := p.cur.Number("call-offset")
	if err != nil {
		return off, err
	}
	off.VirtualOffset, off.VirtualNegate = v, vneg
	if err := p.cur.Expect('_', "call-offset"); err != nil {
		return off, err
	}
	return off, nil
}

// referenceTemporaryNumber parses the [<seq-id>] _ suffix of GR. The bare
// form numbers the first temporary 0.
func (p *Parser) referenceTemporaryNumber() (int, error) {
	if p.cur.Consume('_') {
		return 0, nil
	}
	seq, err := p.cur.SeqID("reference-temporary")
	if err != nil {
		return 0, err
	}
	if err := p.cur.Expect('_', "reference-temporary"); err != nil {
		return 0, err
	}
	return seq + 1, nil
}
