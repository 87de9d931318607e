package printer

import (
	"strconv"

	"github.com/skdltmxn/cxxdemangle/internal/ast"
	"github.com/skdltmxn/cxxdemangle/internal/errs"
)

// printLeft renders everything up to the declarator name. Nodes without
// a right half render completely here.
func (p *printer) printLeft(n ast.Node) {
	if n == nil || !p.enter() {
		return
	}
	defer p.leave()

	switch t := n.(type) {
	case *ast.Builtin:
		p.write(t.Name)
	case *ast.Substitution:
		p.printLeft(t.Target)
	case *ast.TemplateParam:
		saved := p.frames
		if arg := p.deref(t); arg != nil {
			p.printLeft(arg)
		}
		p.frames = saved
	case *ast.AutoParam:
		p.write("auto:")
		p.write(strconv.Itoa(t.Number))
	case *ast.Pointer:
		saved := p.frames
		if pointee := p.deref(t.Pointee); pointee != nil {
			p.printLeft(pointee)
			p.openDeclarator(pointee)
			p.write("*")
		}
		p.frames = saved
	case *ast.Reference:
		saved := p.frames
		if pointee, rvalue := p.collapse(t); pointee != nil {
			p.printLeft(pointee)
			p.openDeclarator(pointee)
			if rvalue {
				p.write("&&")
			} else {
				p.write("&")
			}
		}
		p.frames = saved
	case *ast.PointerToMember:
		saved := p.frames
		member := p.deref(t.Member)
		if member == nil {
			return
		}
		p.printLeft(member)
		switch p.shapeOf(member) {
		case shapeArray:
			p.write(" (")
		case shapeFunction:
			p.write("(")
		default:
			p.write(" ")
		}
		p.frames = saved
		p.print(t.Class)
		p.write("::*")
	case *ast.Qualified:
		p.printLeft(t.Type)
		p.printQuals(t.Quals)
	case *ast.VendorQualified:
		p.printLeft(t.Type)
		p.write(" ")
		p.write(t.Qualifier)
		p.printTemplateArgs(t.Args)
	case *ast.ArrayType:
		p.printLeft(t.Element)
	case *ast.FunctionType:
		if t.Return != nil {
			p.printLeft(t.Return)
			if !p.hasRight(t.Return) {
				p.write(" ")
			}
		}
	case *ast.PackExpansion:
		p.printPack(t.Pattern)
	case *ast.Decltype:
		p.write("decltype (")
		p.print(t.Expr)
		p.write(")")
	case *ast.Vector:
		if t.Pixel {
			p.write("pixel")
		} else {
			p.print(t.Element)
		}
		p.write(" __vector(")
		p.print(t.Dimension)
		p.write(")")
	case *ast.Complex:
		p.print(t.Element)
		if t.Imaginary {
			p.write(" _Imaginary")
		} else {
			p.write(" _Complex")
		}
	case *ast.Elaborated:
		p.write(t.Keyword)
		p.write(" ")
		p.print(t.Name)
	case *ast.TemplateArgs:
		p.printTemplateArgs(t)
	case *ast.ArgPack:
		p.printList(t.Elements)
	default:
		if !p.printName(n) && !p.printExpr(n) {
			p.fail(errs.Atf("print", 0, errs.ErrUnexpectedToken, "cannot print %s", n.Kind()))
		}
	}
}

// printRight renders everything after the declarator name.
func (p *printer) printRight(n ast.Node) {
	if n == nil || !p.enter() {
		return
	}
	defer p.leave()

	switch t := n.(type) {
	case *ast.Substitution:
		p.printRight(t.Target)
	case *ast.TemplateParam:
		saved := p.frames
		if arg := p.deref(t); arg != nil {
			p.printRight(arg)
		}
		p.frames = saved
	case *ast.Pointer:
		saved := p.frames
		if pointee := p.deref(t.Pointee); pointee != nil {
			p.closeDeclarator(pointee)
			p.printRight(pointee)
		}
		p.frames = saved
	case *ast.Reference:
		saved := p.frames
		if pointee, _ := p.collapse(t); pointee != nil {
			p.closeDeclarator(pointee)
			p.printRight(pointee)
		}
		p.frames = saved
	case *ast.PointerToMember:
		saved := p.frames
		if member := p.deref(t.Member); member != nil {
			p.closeDeclarator(member)
			p.printRight(member)
		}
		p.frames = saved
	case *ast.Qualified:
		p.printRight(t.Type)
	case *ast.VendorQualified:
		p.printRight(t.Type)
	case *ast.ArrayType:
		if p.last() != ']' {
			p.write(" ")
		}
		p.write("[")
		if t.Dimension != nil {
			p.print(t.Dimension)
		}
		p.write("]")
		p.printRight(t.Element)
	case *ast.FunctionType:
		p.printParams(t.Params)
		if t.Return != nil {
			p.printRight(t.Return)
		}
		p.printFunctionSuffix(t)
	}
}

// printFunctionSuffix renders the qualifiers that follow a parameter list.
func (p *printer) printFunctionSuffix(fn *ast.FunctionType) {
	p.printQuals(fn.Quals)
	p.printRef(fn.Ref)
	if fn.TransactionSafe {
		p.write(" transaction_safe")
	}
	switch e := fn.Exception.(type) {
	case *ast.Noexcept:
		p.write(" noexcept")
		if e.Expr != nil {
			p.write("(")
			p.print(e.Expr)
			p.write(")")
		}
	case *ast.DynamicException:
		p.write(" throw(")
		p.printList(e.Types)
		p.write(")")
	}
}

// openDeclarator writes the parenthesis a pointer or reference needs in
// front of an array or function pointee.
func (p *printer) openDeclarator(pointee ast.Node) {
	switch p.shapeOf(pointee) {
	case shapeArray:
		p.write(" (")
	case shapeFunction:
		p.write("(")
	}
}

func (p *printer) closeDeclarator(pointee ast.Node) {
	if p.shapeOf(pointee) != shapeOther {
		p.write(")")
	}
}

// collapse applies reference collapsing: any lvalue reference in a chain of
// references makes the result an lvalue reference.
func (p *printer) collapse(r *ast.Reference) (ast.Node, bool) {
	rvalue := r.RValue
	pointee := p.deref(r.Pointee)
	for i := 0; i < maxDeref && pointee != nil; i++ {
		inner, ok := pointee.(*ast.Reference)
		if !ok {
			break
		}
		rvalue = rvalue && inner.RValue
		pointee = p.deref(inner.Pointee)
	}
	return pointee, rvalue
}
