package ast

import (
	"fmt"
	"io"
	"strings"
)

var kindNames = map[Kind]string{
	KindUnknown:            "Unknown",
	KindIdentifier:         "Identifier",
	KindNested:             "Nested",
	KindTemplateName:       "TemplateName",
	KindOperator:           "Operator",
	KindConversion:         "Conversion",
	KindLiteralOperator:    "LiteralOperator",
	KindVendorOperator:     "VendorOperator",
	KindCtorDtor:           "CtorDtor",
	KindAbiTagged:          "AbiTagged",
	KindUnnamedType:        "UnnamedType",
	KindClosure:            "Closure",
	KindStructuredBinding:  "StructuredBinding",
	KindLocalName:          "LocalName",
	KindStringLiteralName:  "StringLiteralName",
	KindDefaultArgScope:    "DefaultArgScope",
	KindMemberQualified:    "MemberQualified",
	KindStdSubstitution:    "StdSubstitution",
	KindSubstitution:       "Substitution",
	KindBuiltin:            "Builtin",
	KindPointer:            "Pointer",
	KindReference:          "Reference",
	KindQualified:          "Qualified",
	KindVendorQualified:    "VendorQualified",
	KindArray:              "Array",
	KindPointerToMember:    "PointerToMember",
	KindFunctionType:       "FunctionType",
	KindTemplateParam:      "TemplateParam",
	KindAutoParam:          "AutoParam",
	KindPackExpansion:      "PackExpansion",
	KindDecltype:           "Decltype",
	KindVector:             "Vector",
	KindComplex:            "Complex",
	KindElaborated:         "Elaborated",
	KindNoexcept:           "Noexcept",
	KindDynamicException:   "DynamicException",
	KindNumber:             "Number",
	KindLiteral:            "Literal",
	KindExternalName:       "ExternalName",
	KindUnary:              "Unary",
	KindPostfix:            "Postfix",
	KindBinary:             "Binary",
	KindTernary:            "Ternary",
	KindCall:               "Call",
	KindCast:               "Cast",
	KindConvertExpr:        "ConvertExpr",
	KindMemberAccess:       "MemberAccess",
	KindFunctionParam:      "FunctionParam",
	KindSizeofPack:         "SizeofPack",
	KindTypeOperator:       "TypeOperator",
	KindExprOperator:       "ExprOperator",
	KindThrow:              "Throw",
	KindNew:                "New",
	KindDelete:             "Delete",
	KindInitList:           "InitList",
	KindExprPack:           "ExprPack",
	KindGlobalScope:        "GlobalScope",
	KindVendorExpr:         "VendorExpr",
	KindTemplateArgs:       "TemplateArgs",
	KindArgPack:            "ArgPack",
	KindEncoding:           "Encoding",
	KindCloned:             "Cloned",
	KindSpecialName:        "SpecialName",
	KindThunk:              "Thunk",
	KindConstructionVTable: "ConstructionVTable",
	KindReferenceTemporary: "ReferenceTemporary",
	KindGlobalCtorDtor:     "GlobalCtorDtor",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Dump writes an indented outline of the tree rooted at n.
// Back-references are shown by index and not expanded.
func Dump(w io.Writer, n Node) error {
	return dump(w, n, 0)
}

func dump(w io.Writer, n Node, depth int) error {
	indent := strings.Repeat("  ", depth)
	if n == nil {
		_, err := fmt.Fprintf(w, "%s<nil>\n", indent)
		return err
	}

	line := n.Kind().String()
	if label := describe(n); label != "" {
		line += " " + label
	}
	if _, err := fmt.Fprintf(w, "%s%s\n", indent, line); err != nil {
		return err
	}

	if _, ok := n.(*Substitution); ok {
		return nil
	}
	for _, c := range Children(n) {
		if err := dump(w, c, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func describe(n Node) string {
	switch t := n.(type) {
	case *Identifier:
		return fmt.Sprintf("%q", t.Name)
	case *Operator:
		return fmt.Sprintf("%s (%s)", t.Info.Code, t.Info.Name)
	case *LiteralOperator:
		return fmt.Sprintf("%q", t.Name)
	case *VendorOperator:
		return fmt.Sprintf("%q/%d", t.Name, t.Arity)
	case *CtorDtor:
		if t.Destructor {
			return fmt.Sprintf("D%c", t.Variant)
		}
		return fmt.Sprintf("C%c", t.Variant)
	case *AbiTagged:
		return strings.Join(t.Tags, ",")
	case *UnnamedType:
		return fmt.Sprintf("#%d", t.Number)
	case *Closure:
		return fmt.Sprintf("#%d", t.Number)
	case *StructuredBinding:
		return strings.Join(t.Names, ",")
	case *LocalName:
		if t.Discriminator >= 0 {
			return fmt.Sprintf("discriminator=%d", t.Discriminator)
		}
	case *DefaultArgScope:
		return fmt.Sprintf("#%d", t.Index)
	case *MemberQualified:
		return fmt.Sprintf("%+v ref=%d", t.Quals, t.Ref)
	case *StdSubstitution:
		return fmt.Sprintf("S%c expanded=%v", t.Code, t.Expanded)
	case *Substitution:
		return fmt.Sprintf("#%d -> %s", t.Index, t.Target.Kind())
	case *Builtin:
		return fmt.Sprintf("%q", t.Name)
	case *Reference:
		if t.RValue {
			return "&&"
		}
		return "&"
	case *Qualified:
		return fmt.Sprintf("%+v", t.Quals)
	case *VendorQualified:
		return fmt.Sprintf("%q", t.Qualifier)
	case *FunctionType:
		return fmt.Sprintf("params=%d %+v ref=%d", len(t.Params), t.Quals, t.Ref)
	case *TemplateParam:
		return fmt.Sprintf("#%d", t.Index)
	case *AutoParam:
		return fmt.Sprintf("auto:%d", t.Number)
	case *Elaborated:
		return t.Keyword
	case *Number:
		return t.Value
	case *Literal:
		if t.Negative {
			return "-" + t.Value
		}
		return t.Value
	case *Unary:
		return t.Op.Name
	case *Postfix:
		return t.Op.Name
	case *Binary:
		return t.Op.Name
	case *Cast:
		return t.Keyword
	case *MemberAccess:
		return t.Op
	case *FunctionParam:
		return fmt.Sprintf("#%d", t.Number)
	case *TypeOperator:
		return t.Keyword
	case *ExprOperator:
		return t.Keyword
	case *VendorExpr:
		return fmt.Sprintf("%q", t.Name)
	case *Cloned:
		return t.Suffix
	case *SpecialName:
		return fmt.Sprintf("special=%d", t.Special)
	case *Thunk:
		return fmt.Sprintf("thunk=%d offsets=%d", t.Thunk, len(t.Offsets))
	case *ConstructionVTable:
		return fmt.Sprintf("offset=%d", t.Offset)
	case *ReferenceTemporary:
		return fmt.Sprintf("#%d", t.Number)
	case *GlobalCtorDtor:
		if t.Destructor {
			return "destructors " + t.Raw
		}
		return "constructors " + t.Raw
	}
	return ""
}
