package ast

// Children returns the direct children of n in source order.
// Nil children are omitted. The target of a Substitution is reported as
// its only child, so walks that follow back-references must bound
// themselves.
func Children(n Node) []Node {
	var out []Node
	add := func(nodes ...Node) {
		for _, c := range nodes {
			if c != nil {
				out = append(out, c)
			}
		}
	}

	switch t := n.(type) {
	case *Nested:
		add(t.Scope, t.Name)
	case *TemplateName:
		add(t.Name)
		if t.Args != nil {
			add(t.Args)
		}
	case *Conversion:
		add(t.Type)
	case *CtorDtor:
		add(t.Inheriting)
	case *AbiTagged:
		add(t.Name)
	case *Closure:
		add(t.Params...)
	case *LocalName:
		add(t.Encoding, t.Entity)
	case *DefaultArgScope:
		add(t.Entity)
	case *MemberQualified:
		add(t.Name)
	case *Substitution:
		add(t.Target)
	case *Pointer:
		add(t.Pointee)
	case *Reference:
		add(t.Pointee)
	case *Qualified:
		add(t.Type)
	case *VendorQualified:
		add(t.Type)
		if t.Args != nil {
			add(t.Args)
		}
	case *ArrayType:
		add(t.Dimension, t.Element)
	case *PointerToMember:
		add(t.Class, t.Member)
	case *FunctionType:
		add(t.Return)
		add(t.Params...)
		add(t.Exception)
	case *PackExpansion:
		add(t.Pattern)
	case *Decltype:
		add(t.Expr)
	case *Vector:
		add(t.Dimension, t.Element)
	case *Complex:
		add(t.Element)
	case *Elaborated:
		add(t.Name)
	case *Noexcept:
		add(t.Expr)
	case *DynamicException:
		add(t.Types...)
	case *Literal:
		add(t.Type)
	case *ExternalName:
		add(t.Encoding)
	case *Unary:
		add(t.Operand)
	case *Postfix:
		add(t.Operand)
	case *Binary:
		add(t.Left, t.Right)
	case *Ternary:
		add(t.Cond, t.Then, t.Else)
	case *Call:
		add(t.Callee)
		add(t.Args...)
	case *Cast:
		add(t.Type, t.Expr)
	case *ConvertExpr:
		add(t.Type)
		add(t.Args...)
	case *MemberAccess:
		add(t.Object, t.Member)
	case *SizeofPack:
		add(t.Pack)
	case *TypeOperator:
		add(t.Type)
	case *ExprOperator:
		add(t.Expr)
	case *Throw:
		add(t.Expr)
	case *New:
		add(t.Placement...)
		add(t.Type)
		add(t.Init...)
	case *Delete:
		add(t.Expr)
	case *InitList:
		add(t.Type)
		add(t.Items...)
	case *ExprPack:
		add(t.Expr)
	case *GlobalScope:
		add(t.Name)
	case *VendorExpr:
		add(t.Args...)
	case *TemplateArgs:
		add(t.Args...)
	case *ArgPack:
		add(t.Elements...)
	case *Encoding:
		add(t.Name)
		if t.Signature != nil {
			add(t.Signature)
		}
	case *Cloned:
		add(t.Encoding)
	case *SpecialName:
		add(t.Target)
	case *Thunk:
		add(t.Target)
	case *ConstructionVTable:
		add(t.Derived, t.Base)
	case *ReferenceTemporary:
		add(t.Name)
	case *GlobalCtorDtor:
		add(t.Target)
	}
	return out
}

// LastName returns the innermost unqualified component of a name, looking
// through scopes, template arguments, ABI tags and back-references.
func LastName(n Node) Node {
	for i := 0; i < maxUnwrap && n != nil; i++ {
		switch t := n.(type) {
		case *Nested:
			n = t.Name
		case *TemplateName:
			n = t.Name
		case *AbiTagged:
			n = t.Name
		case *MemberQualified:
			n = t.Name
		case *LocalName:
			n = t.Entity
		case *Substitution:
			n = t.Target
		default:
			return n
		}
	}
	return n
}

// EncodingArgs returns the template arguments that template parameters in
// an encoding's signature refer to: the last argument list applied while
// spelling the name. It returns nil for names that are not templates.
func EncodingArgs(n Node) *TemplateArgs {
	for i := 0; i < maxUnwrap && n != nil; i++ {
		switch t := n.(type) {
		case *TemplateName:
			return t.Args
		case *Nested:
			n = t.Scope
		case *AbiTagged:
			n = t.Name
		case *MemberQualified:
			n = t.Name
		case *LocalName:
			n = t.Entity
		case *Substitution:
			n = t.Target
		default:
			return nil
		}
	}
	return nil
}

const maxUnwrap = 1 << 12
