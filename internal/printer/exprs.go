package printer

import (
	"strconv"
	"strings"

	"github.com/skdltmxn/cxxdemangle/internal/ast"
)

// literalSuffixes maps integer types to the suffix their literals carry.
var literalSuffixes = map[string]string{
	"int":                "",
	"unsigned int":       "u",
	"long":               "l",
	"unsigned long":      "ul",
	"long long":          "ll",
	"unsigned long long": "ull",
}

// printExpr renders expression nodes. It reports false for nodes it does
// not handle.
func (p *printer) printExpr(n ast.Node) bool {
	switch t := n.(type) {
	case *ast.Number:
		p.write(t.Value)
	case *ast.Literal:
		p.printLiteral(t)
	case *ast.ExternalName:
		p.print(t.Encoding)
	case *ast.Unary:
		p.write(t.Op.Name)
		if t.Op.Code == "ad" {
			if fn := addressedFunction(t.Operand); fn != nil {
				p.print(fn)
				break
			}
		}
		p.printSubexpr(t.Operand)
	case *ast.Postfix:
		p.printSubexpr(t.Operand)
		p.write(t.Op.Name)
	case *ast.Binary:
		gt := t.Op.Name == ">"
		if gt {
			p.write("(")
		}
		p.printSubexpr(t.Left)
		if t.Op.Code == "ix" {
			p.write("[")
			p.print(t.Right)
			p.write("]")
		} else {
			p.write(t.Op.Name)
			p.printSubexpr(t.Right)
		}
		if gt {
			p.write(")")
		}
	case *ast.Ternary:
		p.printSubexpr(t.Cond)
		p.write("?")
		p.printSubexpr(t.Then)
		p.write(" : ")
		p.printSubexpr(t.Else)
	case *ast.Call:
		p.printSubexpr(t.Callee)
		p.write("(")
		p.printList(t.Args)
		p.write(")")
	case *ast.Cast:
		p.write(t.Keyword)
		p.write("<")
		p.print(t.Type)
		p.write(">(")
		p.print(t.Expr)
		p.write(")")
	case *ast.ConvertExpr:
		if t.List {
			p.print(t.Type)
			p.write("(")
			p.printList(t.Args)
			p.write(")")
			break
		}
		p.write("(")
		p.print(t.Type)
		p.write(")")
		for _, a := range t.Args {
			p.printSubexpr(a)
		}
	case *ast.MemberAccess:
		p.printSubexpr(t.Object)
		p.write(t.Op)
		p.print(t.Member)
	case *ast.FunctionParam:
		if t.Number == 0 {
			p.write("this")
			break
		}
		p.write("{parm#")
		p.write(strconv.Itoa(t.Number))
		p.write("}")
	case *ast.SizeofPack:
		p.write("sizeof...(")
		p.print(t.Pack)
		p.write(")")
	case *ast.TypeOperator:
		p.write(t.Keyword)
		p.write(" (")
		p.print(t.Type)
		p.write(")")
	case *ast.ExprOperator:
		p.write(t.Keyword)
		p.write(" (")
		p.print(t.Expr)
		p.write(")")
	case *ast.Throw:
		p.write("throw")
		if t.Expr != nil {
			p.write(" ")
			p.print(t.Expr)
		}
	case *ast.New:
		if t.Global {
			p.write("::")
		}
		p.write("new")
		if t.Array {
			p.write("[]")
		}
		if len(t.Placement) > 0 {
			p.write(" (")
			p.printList(t.Placement)
			p.write(")")
		}
		p.write(" ")
		p.print(t.Type)
		switch {
		case t.HasInit:
			p.write("(")
			p.printList(t.Init)
			p.write(")")
		case len(t.Init) > 0:
			p.printList(t.Init)
		}
	case *ast.Delete:
		if t.Global {
			p.write("::")
		}
		p.write("delete")
		if t.Array {
			p.write("[]")
		}
		p.write(" ")
		p.print(t.Expr)
	case *ast.InitList:
		if t.Type != nil {
			p.print(t.Type)
		}
		p.write("{")
		p.printList(t.Items)
		p.write("}")
	case *ast.ExprPack:
		p.printPack(t.Expr)
	case *ast.GlobalScope:
		p.write("::")
		p.print(t.Name)
	case *ast.VendorExpr:
		p.write(t.Name)
		p.write("(")
		p.printList(t.Args)
		p.write(")")
	default:
		return false
	}
	return true
}

// printSubexpr renders an operand, parenthesised unless it is a plain name.
func (p *printer) printSubexpr(n ast.Node) {
	switch n.(type) {
	case *ast.Identifier, *ast.Nested, *ast.TemplateName, *ast.InitList, *ast.FunctionParam, *ast.ExternalName:
		p.print(n)
		return
	}
	p.write("(")
	p.print(n)
	p.write(")")
}

// addressedFunction returns the bare name when &operand takes the address
// of a function, so that "&f" is printed instead of "&(f())".
func addressedFunction(operand ast.Node) ast.Node {
	ext, ok := operand.(*ast.ExternalName)
	if !ok {
		return nil
	}
	enc, ok := ext.Encoding.(*ast.Encoding)
	if !ok || enc.Signature == nil {
		return nil
	}
	if mq, ok := enc.Name.(*ast.MemberQualified); ok {
		return mq.Name
	}
	return enc.Name
}

func (p *printer) printLiteral(l *ast.Literal) {
	saved := p.frames
	typ := p.deref(l.Type)
	p.frames = saved
	if typ == nil {
		return
	}

	sign := ""
	if l.Negative {
		sign = "-"
	}
	if b, ok := typ.(*ast.Builtin); ok && !b.Vendor {
		switch b.Name {
		case "bool":
			switch l.Value {
			case "0":
				p.write("false")
				return
			case "1":
				p.write("true")
				return
			}
		case "std::nullptr_t":
			if l.Value == "" || l.Value == "0" {
				p.write("nullptr")
				return
			}
		default:
			if suffix, ok := literalSuffixes[b.Name]; ok && l.Value != "" {
				if p.opts.UpperLiterals {
					suffix = strings.ToUpper(suffix)
				}
				p.write(sign)
				p.write(l.Value)
				p.write(suffix)
				return
			}
		}
	}

	p.write("(")
	p.print(l.Type)
	p.write(")")
	p.write(sign)
	p.write(l.Value)
}
