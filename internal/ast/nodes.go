// Package ast defines the tree produced by parsing an Itanium C++ mangled name.
//
// Nodes are plain data. Shared subtrees are expected: a back-reference points at
// the same node the substitution table recorded, so the tree is a DAG without
// cycles. Spelling the tree as C++ is the printer's job.
package ast

// Kind identifies the type of AST node.
type Kind int

const (
	KindUnknown Kind = iota
	// Name nodes
	KindIdentifier
	KindNested
	KindTemplateName
	KindOperator
	KindConversion
	KindLiteralOperator
	KindVendorOperator
	KindCtorDtor
	KindAbiTagged
	KindUnnamedType
	KindClosure
	KindStructuredBinding
	KindLocalName
	KindStringLiteralName
	KindDefaultArgScope
	KindMemberQualified
	KindStdSubstitution
	KindSubstitution
	// Type nodes
	KindBuiltin
	KindPointer
	KindReference
	KindQualified
	KindVendorQualified
	KindArray
	KindPointerToMember
	KindFunctionType
	KindTemplateParam
	KindAutoParam
	KindPackExpansion
	KindDecltype
	KindVector
	KindComplex
	KindElaborated
	KindNoexcept
	KindDynamicException
	// Expression nodes
	KindNumber
	KindLiteral
	KindExternalName
	KindUnary
	KindPostfix
	KindBinary
	KindTernary
	KindCall
	KindCast
	KindConvertExpr
	KindMemberAccess
	KindFunctionParam
	KindSizeofPack
	KindTypeOperator
	KindExprOperator
	KindThrow
	KindNew
	KindDelete
	KindInitList
	KindExprPack
	KindGlobalScope
	KindVendorExpr
	// Template argument nodes
	KindTemplateArgs
	KindArgPack
	// Symbol nodes
	KindEncoding
	KindCloned
	KindSpecialName
	KindThunk
	KindConstructionVTable
	KindReferenceTemporary
	KindGlobalCtorDtor
)

// Node is the interface implemented by all AST nodes.
type Node interface {
	Kind() Kind
}

// Qualifiers represents CV-qualifiers.
type Qualifiers struct {
	IsConst    bool
	IsVolatile bool
	IsRestrict bool
}

// IsEmpty reports whether no qualifier is set.
func (q Qualifiers) IsEmpty() bool {
	return !q.IsConst && !q.IsVolatile && !q.IsRestrict
}

// RefQualifier for member function reference qualifiers.
type RefQualifier int

const (
	RefQualifierNone RefQualifier = iota
	RefQualifierLValue
	RefQualifierRValue
)

// Identifier represents a source name.
type Identifier struct {
	Name string
}

func (n *Identifier) Kind() Kind { return KindIdentifier }

// Nested represents Scope::Name.
type Nested struct {
	Scope Node
	Name  Node
}

func (n *Nested) Kind() Kind { return KindNested }

// TemplateName represents a name specialized with template arguments.
type TemplateName struct {
	Name Node
	Args *TemplateArgs
}

func (n *TemplateName) Kind() Kind { return KindTemplateName }

// Operator represents an overloadable operator name.
type Operator struct {
	Info *OperatorInfo
}

func (n *Operator) Kind() Kind { return KindOperator }

// Conversion represents a conversion operator name ("operator T").
type Conversion struct {
	Type Node
}

func (n *Conversion) Kind() Kind { return KindConversion }

// LiteralOperator represents a user-defined literal operator.
type LiteralOperator struct {
	Name string
}

func (n *LiteralOperator) Kind() Kind { return KindLiteralOperator }

// VendorOperator represents a vendor extended operator (v <digit> <source-name>).
type VendorOperator struct {
	Arity int
	Name  string
}

func (n *VendorOperator) Kind() Kind { return KindVendorOperator }

// CtorDtor represents a constructor or destructor name.
// Scope is the enclosing class the name is spelled after.
type CtorDtor struct {
	Scope      Node
	Destructor bool
	Variant    byte // '0'..'5'
	Inheriting Node // base class for inheriting constructors, or nil
}

func (n *CtorDtor) Kind() Kind { return KindCtorDtor }

// AbiTagged represents a name carrying [abi:...] tags.
type AbiTagged struct {
	Name Node
	Tags []string
}

func (n *AbiTagged) Kind() Kind { return KindAbiTagged }

// UnnamedType represents an unnamed class or enum.
type UnnamedType struct {
	Number int // 1-based
}

func (n *UnnamedType) Kind() Kind { return KindUnnamedType }

// Closure represents a lambda closure type.
type Closure struct {
	Params []Node
	Number int // 1-based
}

func (n *Closure) Kind() Kind { return KindClosure }

// StructuredBinding represents a decomposition declaration name.
type StructuredBinding struct {
	Names []string
}

func (n *StructuredBinding) Kind() Kind { return KindStructuredBinding }

// LocalName represents an entity declared inside a function body.
type LocalName struct {
	Encoding      Node
	Entity        Node
	Discriminator int // -1 when absent
}

func (n *LocalName) Kind() Kind { return KindLocalName }

// StringLiteralName is the entity of a local name denoting a string literal.
type StringLiteralName struct{}

func (n *StringLiteralName) Kind() Kind { return KindStringLiteralName }

// DefaultArgScope scopes an entity inside a default argument.
type DefaultArgScope struct {
	Index  int // 1-based, counted from the last parameter
	Entity Node
}

func (n *DefaultArgScope) Kind() Kind { return KindDefaultArgScope }

// MemberQualified carries the cv and ref qualifiers of a member function name.
type MemberQualified struct {
	Name  Node
	Quals Qualifiers
	Ref   RefQualifier
}

func (n *MemberQualified) Kind() Kind { return KindMemberQualified }

// StdSubstitution is one of the predefined abbreviations (Sa, Sb, Ss, Si, So, Sd).
type StdSubstitution struct {
	Code byte
	// Expanded selects the full spelling, used when a constructor or
	// destructor name follows.
	Expanded bool
}

func (n *StdSubstitution) Kind() Kind { return KindStdSubstitution }

// Substitution is a resolved back-reference into the substitution table.
// Target is the shared node the table recorded.
type Substitution struct {
	Index  int
	Target Node
}

func (n *Substitution) Kind() Kind { return KindSubstitution }

// Builtin represents a fundamental or vendor type.
type Builtin struct {
	Name   string
	Vendor bool
}

func (n *Builtin) Kind() Kind { return KindBuiltin }

// Pointer represents T*.
type Pointer struct {
	Pointee Node
}

func (n *Pointer) Kind() Kind { return KindPointer }

// Reference represents T& or T&&.
type Reference struct {
	Pointee Node
	RValue  bool
}

func (n *Reference) Kind() Kind { return KindReference }

// Qualified represents a cv-qualified type.
type Qualified struct {
	Type  Node
	Quals Qualifiers
}

func (n *Qualified) Kind() Kind { return KindQualified }

// VendorQualified represents a type with a vendor extended qualifier.
type VendorQualified struct {
	Type      Node
	Qualifier string
	Args      *TemplateArgs
}

func (n *VendorQualified) Kind() Kind { return KindVendorQualified }

// ArrayType represents T[N]. Dimension is nil for an unknown bound.
type ArrayType struct {
	Element   Node
	Dimension Node
}

func (n *ArrayType) Kind() Kind { return KindArray }

// PointerToMember represents T Class::*.
type PointerToMember struct {
	Class  Node
	Member Node
}

func (n *PointerToMember) Kind() Kind { return KindPointerToMember }

// FunctionType represents a function signature.
// Return is nil when the mangling does not encode one.
type FunctionType struct {
	Return          Node
	Params          []Node
	Quals           Qualifiers
	Ref             RefQualifier
	Exception       Node
	TransactionSafe bool
	ExternC         bool
}

func (n *FunctionType) Kind() Kind { return KindFunctionType }

// TemplateParam refers to the Index-th (0-based) template argument in scope.
type TemplateParam struct {
	Index int
}

func (n *TemplateParam) Kind() Kind { return KindTemplateParam }

// AutoParam is an invented template parameter of a generic lambda.
type AutoParam struct {
	Number int // 1-based
}

func (n *AutoParam) Kind() Kind { return KindAutoParam }

// PackExpansion represents Pattern...; expanded against an argument pack when printed.
type PackExpansion struct {
	Pattern Node
}

func (n *PackExpansion) Kind() Kind { return KindPackExpansion }

// Decltype represents decltype(expr).
type Decltype struct {
	Expr Node
}

func (n *Decltype) Kind() Kind { return KindDecltype }

// Vector represents a GNU vector type.
type Vector struct {
	Element   Node
	Dimension Node
	Pixel     bool
}

func (n *Vector) Kind() Kind { return KindVector }

// Complex represents a C99 complex or imaginary type.
type Complex struct {
	Element   Node
	Imaginary bool
}

func (n *Complex) Kind() Kind { return KindComplex }

// Elaborated represents a class-enum-type with an explicit keyword.
type Elaborated struct {
	Keyword string
	Name    Node
}

func (n *Elaborated) Kind() Kind { return KindElaborated }

// Noexcept represents a noexcept exception specification.
// Expr is nil for the unconditional form.
type Noexcept struct {
	Expr Node
}

func (n *Noexcept) Kind() Kind { return KindNoexcept }

// DynamicException represents throw(T...).
type DynamicException struct {
	Types []Node
}

func (n *DynamicException) Kind() Kind { return KindDynamicException }

// Number is a bare decimal value (array bounds, vector sizes).
type Number struct {
	Value string
}

func (n *Number) Kind() Kind { return KindNumber }

// Literal represents an <expr-primary> literal of the given type.
// Value holds the digits as mangled, without the sign.
type Literal struct {
	Type     Node
	Value    string
	Negative bool
}

func (n *Literal) Kind() Kind { return KindLiteral }

// ExternalName represents a reference to an entity by its mangled encoding.
type ExternalName struct {
	Encoding Node
}

func (n *ExternalName) Kind() Kind { return KindExternalName }

// Unary represents a prefix operator expression.
type Unary struct {
	Op      *OperatorInfo
	Operand Node
}

func (n *Unary) Kind() Kind { return KindUnary }

// Postfix represents a postfix increment or decrement.
type Postfix struct {
	Op      *OperatorInfo
	Operand Node
}

func (n *Postfix) Kind() Kind { return KindPostfix }

// Binary represents a binary operator expression.
type Binary struct {
	Op          *OperatorInfo
	Left, Right Node
}

func (n *Binary) Kind() Kind { return KindBinary }

// Ternary represents cond ? a : b.
type Ternary struct {
	Cond, Then, Else Node
}

func (n *Ternary) Kind() Kind { return KindTernary }

// Call represents a call expression.
type Call struct {
	Callee Node
	Args   []Node
}

func (n *Call) Kind() Kind { return KindCall }

// Cast represents dynamic_cast, static_cast, const_cast, reinterpret_cast.
type Cast struct {
	Keyword string
	Type    Node
	Expr    Node
}

func (n *Cast) Kind() Kind { return KindCast }

// ConvertExpr represents a functional or C-style conversion.
type ConvertExpr struct {
	Type Node
	Args []Node
	List bool
}

func (n *ConvertExpr) Kind() Kind { return KindConvertExpr }

// MemberAccess represents obj.member, ptr->member and the pointer-to-member forms.
type MemberAccess struct {
	Object Node
	Op     string
	Member Node
}

func (n *MemberAccess) Kind() Kind { return KindMemberAccess }

// FunctionParam refers to a function parameter inside an expression.
type FunctionParam struct {
	Number int // 1-based; 0 for "this"
}

func (n *FunctionParam) Kind() Kind { return KindFunctionParam }

// SizeofPack represents sizeof...(pack).
type SizeofPack struct {
	Pack Node
}

func (n *SizeofPack) Kind() Kind { return KindSizeofPack }

// TypeOperator represents sizeof, alignof, typeid applied to a type.
type TypeOperator struct {
	Keyword string
	Type    Node
}

func (n *TypeOperator) Kind() Kind { return KindTypeOperator }

// ExprOperator represents sizeof, alignof, typeid, noexcept applied to an expression.
type ExprOperator struct {
	Keyword string
	Expr    Node
}

func (n *ExprOperator) Kind() Kind { return KindExprOperator }

// Throw represents throw expr, or a rethrow when Expr is nil.
type Throw struct {
	Expr Node
}

func (n *Throw) Kind() Kind { return KindThrow }

// New represents a new-expression.
type New struct {
	Global    bool
	Array     bool
	Placement []Node
	Type      Node
	Init      []Node
	HasInit   bool
}

func (n *New) Kind() Kind { return KindNew }

// Delete represents a delete-expression.
type Delete struct {
	Global bool
	Array  bool
	Expr   Node
}

func (n *Delete) Kind() Kind { return KindDelete }

// InitList represents a braced initializer, optionally typed.
type InitList struct {
	Type  Node
	Items []Node
}

func (n *InitList) Kind() Kind { return KindInitList }

// ExprPack represents a pack expansion in expression position.
type ExprPack struct {
	Expr Node
}

func (n *ExprPack) Kind() Kind { return KindExprPack }

// GlobalScope represents ::name in an unresolved name.
type GlobalScope struct {
	Name Node
}

func (n *GlobalScope) Kind() Kind { return KindGlobalScope }

// VendorExpr represents a vendor extended expression.
type VendorExpr struct {
	Name string
	Args []Node
}

func (n *VendorExpr) Kind() Kind { return KindVendorExpr }

// TemplateArgs is an ordered template argument list.
type TemplateArgs struct {
	Args []Node
}

func (n *TemplateArgs) Kind() Kind { return KindTemplateArgs }

// ArgPack is a template argument pack.
type ArgPack struct {
	Elements []Node
}

func (n *ArgPack) Kind() Kind { return KindArgPack }

// Encoding is a name plus an optional function signature.
type Encoding struct {
	Name      Node
	Signature *FunctionType
}

func (n *Encoding) Kind() Kind { return KindEncoding }

// Cloned is an encoding carrying a vendor clone suffix such as ".constprop.0".
type Cloned struct {
	Encoding Node
	Suffix   string
}

func (n *Cloned) Kind() Kind { return KindCloned }

// SpecialKind identifies the fixed-template special names.
type SpecialKind int

const (
	SpecialVTable SpecialKind = iota
	SpecialVTT
	SpecialTypeinfo
	SpecialTypeinfoName
	SpecialGuardVariable
	SpecialTLSInit
	SpecialTLSWrapper
	SpecialHiddenAlias
	SpecialTransactionClone
	SpecialNonTransactionClone
	SpecialTemplateParamObject
)

// SpecialName represents a special entity derived from Target.
type SpecialName struct {
	Special SpecialKind
	Target  Node
}

func (n *SpecialName) Kind() Kind { return KindSpecialName }

// ThunkKind identifies the thunk flavour.
type ThunkKind int

const (
	ThunkNonVirtual ThunkKind = iota
	ThunkVirtual
	ThunkCovariant
)

// CallOffset is an adjustment applied by a thunk.
type CallOffset struct {
	Virtual       bool
	Offset        int
	VirtualOffset int
	Negative      bool
	VirtualNegate bool
}

// Thunk represents a this-adjusting or covariant return thunk.
type Thunk struct {
	Thunk   ThunkKind
	Offsets []CallOffset
	Target  Node
}

func (n *Thunk) Kind() Kind { return KindThunk }

// ConstructionVTable represents the vtable used while constructing Base inside Derived.
type ConstructionVTable struct {
	Derived Node
	Offset  int
	Base    Node
}

func (n *ConstructionVTable) Kind() Kind { return KindConstructionVTable }

// ReferenceTemporary represents a lifetime-extended temporary bound to Name.
type ReferenceTemporary struct {
	Name   Node
	Number int
}

func (n *ReferenceTemporary) Kind() Kind { return KindReferenceTemporary }

// GlobalCtorDtor represents a _GLOBAL__ static initialization or finalization key.
// Target is the demangled key when it is itself mangled, otherwise nil and Raw is used.
type GlobalCtorDtor struct {
	Destructor bool
	Target     Node
	Raw        string
}

func (n *GlobalCtorDtor) Kind() Kind { return KindGlobalCtorDtor }
