package parser

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/skdltmxn/cxxdemangle/internal/ast"
	"github.com/skdltmxn/cxxdemangle/internal/errs"
)

func parse(t *testing.T, mangled string) (ast.Node, *Parser) {
	t.Helper()
	p := New(mangled, Config{Logger: zerolog.Nop()})
	n, err := p.MangledName()
	require.NoError(t, err, "MangledName(%q)", mangled)
	return n, p
}

func void() ast.Node { return &ast.Builtin{Name: "void"} }
func integer() ast.Node { return &ast.Builtin{Name: "int"} }
func ident(name string) ast.Node { return &ast.Identifier{Name: name} }

func TestMangledNameTree(t *testing.T) {
	foo := ident("Foo")
	testCases := []struct {
		name    string
		mangled string
		want    ast.Node
	}{
		{
			name:    "plain function",
			mangled: "_Z1fv",
			want: &ast.Encoding{
				Name:      ident("f"),
				Signature: &ast.FunctionType{Params: []ast.Node{void()}},
			},
		},
		{
			name:    "constructor",
			mangled: "_ZN3FooC1Ev",
			want: &ast.Encoding{
				Name: &ast.Nested{
					Scope: foo,
					Name:  &ast.CtorDtor{Scope: foo, Variant: '1'},
				},
				Signature: &ast.FunctionType{Params: []ast.Node{void()}},
			},
		},
		{
			name:    "template function with return type",
			mangled: "_Z1fIiEvT_",
			want: &ast.Encoding{
				Name: &ast.TemplateName{
					Name: ident("f"),
					Args: &ast.TemplateArgs{Args: []ast.Node{integer()}},
				},
				Signature: &ast.FunctionType{
					Return: void(),
					Params: []ast.Node{&ast.TemplateParam{Index: 0}},
				},
			},
		},
		{
			name:    "operator delete",
			mangled: "_Zdlv",
			want: &ast.Encoding{
				Name:      &ast.Operator{Info: ast.Operators["dl"]},
				Signature: &ast.FunctionType{Params: []ast.Node{void()}},
			},
		},
		{
			name:    "const member function",
			mangled: "_ZNK3Foo3barEv",
			want: &ast.Encoding{
				Name: &ast.MemberQualified{
					Name:  &ast.Nested{Scope: foo, Name: ident("bar")},
					Quals: ast.Qualifiers{IsConst: true},
				},
				Signature: &ast.FunctionType{Params: []ast.Node{void()}},
			},
		},
		{
			name:    "back reference",
			mangled: "_Z1fP1AS_",
			want: &ast.Encoding{
				Name: ident("f"),
				Signature: &ast.FunctionType{Params: []ast.Node{
					&ast.Pointer{Pointee: ident("A")},
					&ast.Substitution{Index: 0, Target: ident("A")},
				}},
			},
		},
		{
			name:    "data entity",
			mangled: "_ZN1A1xE",
			want:    &ast.Encoding{Name: &ast.Nested{Scope: ident("A"), Name: ident("x")}},
		},
		{
			name:    "vtable",
			mangled: "_ZTV3Foo",
			want:    &ast.SpecialName{Special: ast.SpecialVTable, Target: foo},
		},
		{
			name:    "clone suffix",
			mangled: "_Z1fv.cold",
			want: &ast.Cloned{
				Encoding: &ast.Encoding{
					Name:      ident("f"),
					Signature: &ast.FunctionType{Params: []ast.Node{void()}},
				},
				Suffix: ".cold",
			},
		},
		{
			name:    "global constructor key",
			mangled: "_GLOBAL__sub_I_foo.cc",
			want:    &ast.GlobalCtorDtor{Raw: "foo.cc"},
		},
		{
			name:    "virtual thunk",
			mangled: "_ZTv0_n24_1fv",
			want: &ast.Thunk{
				Thunk: ast.ThunkVirtual,
				Offsets: []ast.CallOffset{
					{Virtual: true, Offset: 0, VirtualOffset: 24, VirtualNegate: true},
				},
				Target: &ast.Encoding{
					Name:      ident("f"),
					Signature: &ast.FunctionType{Params: []ast.Node{void()}},
				},
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, p := parse(t, tc.mangled)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("MangledName(%q) mismatch (-want +got):\n%s", tc.mangled, diff)
			}
			require.Empty(t, p.Tail())
		})
	}
}

func TestSubstitutionCandidates(t *testing.T) {
	testCases := []struct {
		name    string
		mangled string
		want    int
	}{
		{"builtins are not recorded", "_Z1fiii", 0},
		{"source name type", "_Z1f1A", 1},
		{"pointer records pointee and pointer", "_Z1fP1A", 2},
		{"back reference is not recorded again", "_Z1f1AS_", 1},
		{"qualified records inner and qualified", "_Z1fPK1A", 3},
		{"qualified builtin", "_Z1fRKi", 2},
		{"nested prefixes", "_ZN1A1B1fEv", 2},
		{"std abbreviation is not recorded", "_Z1fSs", 0},
		{"std namespace template", "_ZSt4swapIiEvRT_S1_", 3},
		{"unscoped template name and instance", "_Z1f1AIiE", 2},
		{"template parameter", "_Z1fIiEvT_", 2},
		{"template parameter with arguments", "_Z1fIiEvT_IiE", 3},
		{"vendor type", "_Z1fu3foo", 1},
		{"vendor type template", "_Z1fu3fooIiE", 2},
		{"function type", "_Z1fPFviE", 2},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, p := parse(t, tc.mangled)
			require.Equal(t, tc.want, p.Substitutions())
		})
	}
}

func TestSubstitutionOrder(t *testing.T) {
	// 0: A, 1: A const, 2: A const*
	n, _ := parse(t, "_Z1fPK1AS0_S1_S_")
	enc := n.(*ast.Encoding)
	params := enc.Signature.Params
	require.Len(t, params, 4)

	want := []ast.Node{
		&ast.Qualified{Type: ident("A"), Quals: ast.Qualifiers{IsConst: true}},
		&ast.Pointer{Pointee: &ast.Qualified{Type: ident("A"), Quals: ast.Qualifiers{IsConst: true}}},
		ident("A"),
	}
	for i, w := range want {
		sub, ok := params[i+1].(*ast.Substitution)
		require.True(t, ok, "param %d is %T", i+1, params[i+1])
		if diff := cmp.Diff(w, sub.Target); diff != "" {
			t.Errorf("param %d mismatch (-want +got):\n%s", i+1, diff)
		}
	}
	require.Same(t, params[0], params[2].(*ast.Substitution).Target)
}

func TestConversionOperatorArguments(t *testing.T) {
	// The argument list after T_ belongs to the operator, not to T_.
	n, p := parse(t, "_ZN1AcvT_IiEEv")
	enc := n.(*ast.Encoding)
	tn, ok := enc.Name.(*ast.TemplateName)
	require.True(t, ok)
	conv, ok := tn.Name.(*ast.Nested).Name.(*ast.Conversion)
	require.True(t, ok)
	require.Equal(t, &ast.TemplateParam{Index: 0}, conv.Type)
	require.Equal(t, []ast.Node{integer()}, tn.Args.Args)
	// A, T_, A::operator T_
	require.Equal(t, 3, p.Substitutions())
}

func TestStdAbbreviationExpansion(t *testing.T) {
	n, _ := parse(t, "_ZNSsC1Ev")
	nested := n.(*ast.Encoding).Name.(*ast.Nested)
	require.Equal(t, &ast.StdSubstitution{Code: 's', Expanded: true}, nested.Scope)

	n, _ = parse(t, "_Z1fSs")
	param := n.(*ast.Encoding).Signature.Params[0]
	require.Equal(t, &ast.StdSubstitution{Code: 's'}, param)
}

func TestLambdaAutoParams(t *testing.T) {
	n, _ := parse(t, "_ZZ4mainENKUlT_E_clIiEEDaS_")
	local := n.(*ast.Encoding).Name.(*ast.LocalName)
	mq := local.Entity.(*ast.MemberQualified)
	tn := mq.Name.(*ast.TemplateName)
	closure := tn.Name.(*ast.Nested).Scope.(*ast.Closure)
	require.Equal(t, []ast.Node{&ast.AutoParam{Number: 1}}, closure.Params)
	require.Equal(t, 1, closure.Number)

	sub := n.(*ast.Encoding).Signature.Params[0].(*ast.Substitution)
	require.Equal(t, &ast.TemplateParam{Index: 0}, sub.Target)
}

func TestParseTail(t *testing.T) {
	_, p := parse(t, "_Z1fvE rest")
	require.Equal(t, "E rest", p.Tail())
	require.Equal(t, 5, p.Offset())
}

func TestParseErrors(t *testing.T) {
	testCases := []struct {
		name    string
		mangled string
		want    error
	}{
		{"no prefix", "f", errs.ErrNotMangledName},
		{"bad global key", "_GLOBAL_x", errs.ErrNotMangledName},
		{"empty encoding", "_Z", errs.ErrUnexpectedEnd},
		{"short identifier", "_Z5abc", errs.ErrUnexpectedEnd},
		{"zero length identifier", "_Z0v", errs.ErrUnexpectedToken},
		{"missing parameters", "_Z1fIiEv", errs.ErrUnexpectedEnd},
		{"empty table", "_Z1fS_", errs.ErrBadBackReference},
		{"past the end", "_Z1f1AS0_", errs.ErrBadBackReference},
		{"constructor outside class", "_ZC1v", errs.ErrUnexpectedToken},
		{"bad constructor variant", "_ZN1AC9Ev", errs.ErrUnexpectedToken},
		{"unknown operator", "_Zqqv", errs.ErrUnexpectedToken},
		{"unknown special name", "_ZTQ1A", errs.ErrUnexpectedToken},
		{"unmodelled extension", "_Z1fDk", errs.ErrUnsupportedExtension},
		{"fold expression", "_Z1fIJEEvDTflplfp_EE", errs.ErrUnsupportedExtension},
		{"empty function type", "_Z1fPFvE", errs.ErrUnexpectedToken},
		{"template param index overflow", "_Z1fIJiEEvDpT9223372036854775807_", errs.ErrUnexpectedToken},
		{"function param overflow", "_Z1fIiEDTfp9223372036854775807_ET_", errs.ErrUnexpectedToken},
		{"unnamed type overflow", "_ZN1AUt9223372036854775806_E", errs.ErrUnexpectedToken},
		{"default argument overflow", "_ZZ1fvEd9223372036854775807_1x", errs.ErrUnexpectedToken},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := New(tc.mangled, Config{})
			_, err := p.MangledName()
			require.ErrorIs(t, err, tc.want)

			var perr *errs.ParseError
			require.ErrorAs(t, err, &perr)
			require.NotEmpty(t, perr.Production)
		})
	}
}

func TestRecursionLimit(t *testing.T) {
	deep := "_Z1f" + strings.Repeat("P", 64) + "i"

	p := New(deep, Config{MaxDepth: 32})
	_, err := p.MangledName()
	require.ErrorIs(t, err, errs.ErrRecursionLimitExceeded)

	p = New(deep, Config{MaxDepth: 128})
	_, err = p.MangledName()
	require.NoError(t, err)
}

func TestNestedTemplateArgsDepth(t *testing.T) {
	deep := "_Z1f" + strings.Repeat("1AI", 200) + "i" + strings.Repeat("E", 200)
	p := New(deep, Config{})
	_, err := p.MangledName()
	require.ErrorIs(t, err, errs.ErrRecursionLimitExceeded)
}
