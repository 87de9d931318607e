package printer

import (
	"strconv"
	"strings"

	"github.com/skdltmxn/cxxdemangle/internal/ast"
)

var specialPrefixes = map[ast.SpecialKind]string{
	ast.SpecialVTable:              "vtable for ",
	ast.SpecialVTT:                 "VTT for ",
	ast.SpecialTypeinfo:            "typeinfo for ",
	ast.SpecialTypeinfoName:        "typeinfo name for ",
	ast.SpecialGuardVariable:       "guard variable for ",
	ast.SpecialTLSInit:             "TLS init function for ",
	ast.SpecialTLSWrapper:          "TLS wrapper function for ",
	ast.SpecialHiddenAlias:         "hidden alias for ",
	ast.SpecialTransactionClone:    "transaction clone for ",
	ast.SpecialNonTransactionClone: "non-transaction clone for ",
	ast.SpecialTemplateParamObject: "template parameter object for ",
}

var thunkPrefixes = map[ast.ThunkKind]string{
	ast.ThunkNonVirtual: "non-virtual thunk to ",
	ast.ThunkVirtual:    "virtual thunk to ",
	ast.ThunkCovariant:  "covariant return thunk to ",
}

// printName renders name and symbol nodes. It reports false for nodes it
// does not handle.
func (p *printer) printName(n ast.Node) bool {
	switch t := n.(type) {
	case *ast.Identifier:
		p.write(t.Name)
	case *ast.Nested:
		p.print(t.Scope)
		p.write("::")
		p.print(t.Name)
	case *ast.TemplateName:
		p.print(t.Name)
		p.printTemplateArgs(t.Args)
	case *ast.Operator:
		p.write("operator")
		if t.Info.IsWord() {
			p.write(" ")
		}
		p.write(t.Info.Name)
	case *ast.Conversion:
		p.write("operator ")
		p.print(t.Type)
	case *ast.LiteralOperator:
		p.write(`operator"" `)
		p.write(t.Name)
	case *ast.VendorOperator:
		p.write("operator ")
		p.write(t.Name)
	case *ast.CtorDtor:
		if t.Destructor {
			p.write("~")
		}
		if std, ok := t.Scope.(*ast.StdSubstitution); ok {
			p.write(ast.StdSubstitutions[std.Code].Base)
		} else {
			p.print(t.Scope)
		}
	case *ast.AbiTagged:
		p.print(t.Name)
		for _, tag := range t.Tags {
			p.write("[abi:")
			p.write(tag)
			p.write("]")
		}
	case *ast.UnnamedType:
		p.write("{unnamed type#")
		p.write(strconv.Itoa(t.Number))
		p.write("}")
	case *ast.Closure:
		p.write("{lambda")
		p.printParams(t.Params)
		p.write("#")
		p.write(strconv.Itoa(t.Number))
		p.write("}")
	case *ast.StructuredBinding:
		p.write("[")
		p.write(strings.Join(t.Names, ", "))
		p.write("]")
	case *ast.LocalName:
		p.printLocalName(t)
	case *ast.StringLiteralName:
		p.write("string literal")
	case *ast.DefaultArgScope:
		p.write("{default arg#")
		p.write(strconv.Itoa(t.Index))
		p.write("}::")
		p.print(t.Entity)
	case *ast.MemberQualified:
		p.print(t.Name)
		p.printQuals(t.Quals)
		p.printRef(t.Ref)
	case *ast.StdSubstitution:
		names := ast.StdSubstitutions[t.Code]
		if t.Expanded {
			p.write(names.Full)
		} else {
			p.write(names.Short)
		}
	case *ast.Encoding:
		p.printEncoding(t)
	case *ast.Cloned:
		p.print(t.Encoding)
		p.write(" [clone ")
		p.write(t.Suffix)
		p.write("]")
	case *ast.SpecialName:
		p.write(specialPrefixes[t.Special])
		p.print(t.Target)
	case *ast.Thunk:
		p.write(thunkPrefixes[t.Thunk])
		p.print(t.Target)
	case *ast.ConstructionVTable:
		p.write("construction vtable for ")
		p.print(t.Base)
		p.write("-in-")
		p.print(t.Derived)
	case *ast.ReferenceTemporary:
		p.write("reference temporary #")
		p.write(strconv.Itoa(t.Number))
		p.write(" for ")
		p.print(t.Name)
	case *ast.GlobalCtorDtor:
		if t.Destructor {
			p.write("global destructors keyed to ")
		} else {
			p.write("global constructors keyed to ")
		}
		if t.Target != nil {
			p.print(t.Target)
		} else {
			p.write(t.Raw)
		}
	default:
		return false
	}
	return true
}

// printEncoding renders a function or data entity. The template arguments
// of the name are in scope for the whole encoding.
func (p *printer) printEncoding(e *ast.Encoding) {
	name, quals, ref := splitMemberQuals(e.Name)

	saved := p.frames
	defer func() { p.frames = saved }()
	p.push(ast.EncodingArgs(name))

	sig := e.Signature
	if sig == nil || p.opts.NoParams {
		p.print(name)
		return
	}

	withReturn := sig.Return != nil && !p.opts.NoReturnType
	if withReturn {
		p.printLeft(sig.Return)
		if !p.hasRight(sig.Return) {
			p.write(" ")
		}
	}
	p.print(name)
	p.printParams(sig.Params)
	if withReturn {
		p.printRight(sig.Return)
	}
	p.printQuals(quals)
	p.printRef(ref)
}

// splitMemberQuals separates the cv and ref qualifiers of a member function
// from its name. For a local entity they sit on the entity.
func splitMemberQuals(name ast.Node) (ast.Node, ast.Qualifiers, ast.RefQualifier) {
	switch t := name.(type) {
	case *ast.MemberQualified:
		return t.Name, t.Quals, t.Ref
	case *ast.LocalName:
		if mq, ok := t.Entity.(*ast.MemberQualified); ok {
			local := *t
			local.Entity = mq.Name
			return &local, mq.Quals, mq.Ref
		}
	}
	return name, ast.Qualifiers{}, ast.RefQualifierNone
}

// printLocalName renders "function::entity". Template parameters in the
// entity refer to the enclosing function's arguments.
func (p *printer) printLocalName(l *ast.LocalName) {
	p.print(l.Encoding)
	p.write("::")

	saved := p.frames
	if enc, ok := l.Encoding.(*ast.Encoding); ok {
		p.push(ast.EncodingArgs(enc.Name))
	}
	p.print(l.Entity)
	p.frames = saved
}
