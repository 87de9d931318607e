package demangle

import (
	"bytes"
	"errors"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDemangle(t *testing.T) {
	testCases := []struct {
		name    string
		mangled string
		want    string
	}{
		{"no params", "_Z1fv", "f()"},
		{"int param", "_Z3fooi", "foo(int)"},
		{"constructor", "_ZN3FooC1Ev", "Foo::Foo()"},
		{"destructor", "_ZN3FooD2Ev", "Foo::~Foo()"},
		{"template function", "_Z1fIiEvT_", "void f<int>(int)"},
		{"operator delete", "_Zdlv", "operator delete()"},
		{"operator call", "_ZN1AclEv", "A::operator()()"},
		{"const member", "_ZNK3Foo3barEv", "Foo::bar() const"},
		{"rvalue member", "_ZNO3Foo3barEv", "Foo::bar() &&"},
		{"conversion operator", "_ZN1AcviEv", "A::operator int()"},
		{"darwin prefix", "__Z3fooi", "foo(int)"},
		{"variable", "_ZN1A1xE", "A::x"},
		{"anonymous namespace", "_ZN12_GLOBAL__N_11fEv", "(anonymous namespace)::f()"},
		{"abi tag", "_Z1fB5cxx11v", "f[abi:cxx11]()"},
		{"vendor type", "_Z1fu5__m64", "f(__m64)"},
		{"ellipsis", "_Z6printfPKcz", "printf(char const*, ...)"},
		{"char8_t", "_Z1fDu", "f(char8_t)"},
		{"nullptr_t", "_Z1fDn", "f(std::nullptr_t)"},
		{"ostream inserter", "_ZNSolsEDn", "std::ostream::operator<<(std::nullptr_t)"},
		{"float16", "_Z1fDF16_", "f(_Float16)"},
		{"bit int", "_Z1fDB8_", "f(_BitInt(8))"},
		{"complex", "_Z1fCd", "f(double _Complex)"},
		{"elaborated", "_Z1fTs1A", "f(struct A)"},
		{"pack expansion", "_Z1fIJidEEvDpT_", "void f<int, double>(int, double)"},
		{"empty pack", "_Z1fIJEEvDpT_", "void f<>()"},
		{"literal argument", "_Z1fILi5EEvv", "void f<5>()"},
		{"negative literal", "_Z1fILin5EEvv", "void f<-5>()"},
		{"unsigned long literal", "_Z1fILm5EEvv", "void f<5ul>()"},
		{"bool literal", "_Z1fILb1EEvv", "void f<true>()"},
		{"nested template args", "_Z1fI1AIiEEvv", "void f<A<int> >()"},
		{"operator less template", "_ZltI1AEbRKT_S3_", "bool operator< <A>(A const&, A const&)"},
		{"decltype return", "_Z1fIiEDTcl1gfp_EET_", "decltype (g({parm#1})) f<int>(int)"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Demangle(tc.mangled)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestDemangleDeclarators(t *testing.T) {
	testCases := []struct {
		name    string
		mangled string
		want    string
	}{
		{"pointer to function", "_Z1fPFviE", "f(void (*)(int))"},
		{"reference to function", "_Z1fRFivE", "f(int (&)())"},
		{"pointer to array", "_Z1fPA10_i", "f(int (*) [10])"},
		{"reference to array", "_Z1fRA3_i", "f(int (&) [3])"},
		{"array of arrays", "_Z1fPA2_A3_i", "f(int (*) [2][3])"},
		{"pointer to data member", "_Z1fM1Ai", "f(int A::*)"},
		{"pointer to member function", "_Z1fM1AFivE", "f(int (A::*)())"},
		{"pointer to const member function", "_Z1fM1AKFivE", "f(int (A::*)() const)"},
		{"const pointer", "_Z1fKPi", "f(int* const)"},
		{"pointer to const", "_Z1fPKi", "f(int const*)"},
		{"rvalue reference", "_Z1fOi", "f(int&&)"},
		{"noexcept function pointer", "_Z1fPDoFvvE", "f(void (*)() noexcept)"},
		{"function returning pointer", "_Z1fPFPivE", "f(int* (*)())"},
		{"reference collapsing", "_Z1fIRiEvOT_", "void f<int&>(int&)"},
		{"rvalue collapsing", "_Z1fIOiEvOT_", "void f<int&&>(int&&)"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Demangle(tc.mangled)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestDemangleSubstitutions(t *testing.T) {
	testCases := []struct {
		name    string
		mangled string
		want    string
	}{
		{"std string", "_Z1fSs", "f(std::string)"},
		{"std namespace", "_ZSt4swapIiEvRT_S1_", "void std::swap<int>(int&, int&)"},
		{"back reference to type", "_Z1fP1AS_", "f(A*, A)"},
		{"back reference to pointer", "_Z1fP1AS0_", "f(A*, A*)"},
		{"back reference to prefix", "_ZN1A1B1fES_", "A::B::f(A)"},
		{
			"vector push_back",
			"_ZNSt6vectorIiSaIiEE9push_backERKi",
			"std::vector<int, std::allocator<int> >::push_back(int const&)",
		},
		{
			"expanded string constructor",
			"_ZNSsC1Ev",
			"std::basic_string<char, std::char_traits<char>, std::allocator<char> >::basic_string()",
		},
		{
			"expanded ostream destructor",
			"_ZNSoD1Ev",
			"std::basic_ostream<char, std::char_traits<char> >::~basic_ostream()",
		},
		{"allocator", "_Z1fSaIcE", "f(std::allocator<char>)"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Demangle(tc.mangled)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestDemangleSpecialNames(t *testing.T) {
	testCases := []struct {
		name    string
		mangled string
		want    string
	}{
		{"vtable", "_ZTV3Foo", "vtable for Foo"},
		{"VTT", "_ZTT3Foo", "VTT for Foo"},
		{"typeinfo", "_ZTI3Foo", "typeinfo for Foo"},
		{"typeinfo name", "_ZTS3Foo", "typeinfo name for Foo"},
		{"typeinfo for pointer", "_ZTIPKc", "typeinfo for char const*"},
		{"guard variable", "_ZGVZ1fvE1x", "guard variable for f()::x"},
		{"TLS init", "_ZTH1x", "TLS init function for x"},
		{"TLS wrapper", "_ZTW1x", "TLS wrapper function for x"},
		{"non-virtual thunk", "_ZThn8_N3Foo3barEv", "non-virtual thunk to Foo::bar()"},
		{"virtual thunk", "_ZTv0_n24_N3Foo3barEv", "virtual thunk to Foo::bar()"},
		{"covariant thunk", "_ZTch0_h16_N3Foo3barEv", "covariant return thunk to Foo::bar()"},
		{"construction vtable", "_ZTC1B0_1A", "construction vtable for A-in-B"},
		{"reference temporary", "_ZGR1x_", "reference temporary #0 for x"},
		{"numbered reference temporary", "_ZGR1x0_", "reference temporary #1 for x"},
		{"transaction clone", "_ZGTt1fv", "transaction clone for f()"},
		{"hidden alias", "_ZGA1fv", "hidden alias for f()"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Demangle(tc.mangled)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestDemangleLocalNames(t *testing.T) {
	testCases := []struct {
		name    string
		mangled string
		want    string
	}{
		{"local variable", "_ZZ4mainE1x", "main::x"},
		{"local with discriminator", "_ZZ4mainE1x_0", "main::x"},
		{"local in function", "_ZZ1fvE1x", "f()::x"},
		{"string literal", "_ZZ1fvEs", "f()::string literal"},
		{"lambda", "_ZZ4mainENKUlvE_clEv", "main::{lambda()#1}::operator()() const"},
		{"second lambda", "_ZZ4mainENKUliE0_clEi", "main::{lambda(int)#2}::operator()(int) const"},
		{"generic lambda", "_ZZ4mainENKUlT_E_clIiEEDaS_", "auto main::{lambda(auto:1)#1}::operator()<int>(int) const"},
		{"unnamed type", "_ZN1AUt_E", "A::{unnamed type#1}"},
		{"structured binding", "_ZDC1a1bE", "[a, b]"},
		{"default argument", "_ZZ1fvEd_1x", "f()::{default arg#1}::x"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Demangle(tc.mangled)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestDemangleSuffixes(t *testing.T) {
	testCases := []struct {
		name    string
		mangled string
		want    string
	}{
		{"cold clone", "_Z3foov.cold", "foo() [clone .cold]"},
		{"constprop clone", "_Z3foov.constprop.0", "foo() [clone .constprop.0]"},
		{"two clones", "_Z3foov.isra.0.cold", "foo() [clone .isra.0] [clone .cold]"},
		{"global constructor key", "_GLOBAL__sub_I_main.cpp", "global constructors keyed to main.cpp"},
		{"global destructor key", "_GLOBAL__D_foo", "global destructors keyed to foo"},
		{"global constructor of symbol", "_GLOBAL__I__Z3foov", "global constructors keyed to foo()"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Demangle(tc.mangled)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestDemangleOptions(t *testing.T) {
	testCases := []struct {
		name    string
		mangled string
		opts    []Option
		want    string
	}{
		{"no params", "_ZN3Foo3barEi", []Option{WithNoParams()}, "Foo::bar"},
		{"no return type", "_Z1fIiEvT_", []Option{WithNoReturnType()}, "f<int>(int)"},
		{"upper literals", "_Z1fILm5EEvv", []Option{WithLiteralCase(LiteralUpper)}, "void f<5UL>()"},
		{"compact angles", "_Z1fI1AIiEEvv", []Option{WithCompactAngles()}, "void f<A<int>>()"},
		{
			"whole record",
			"_ZNK3Foo3barEv",
			[]Option{WithOptions(Options{NoParams: true, MaxDepth: 8, MaxOutput: 64, MaxInput: 64})},
			"Foo::bar",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Demangle(tc.mangled, tc.opts...)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestDemangleErrors(t *testing.T) {
	testCases := []struct {
		name     string
		mangled  string
		opts     []Option
		want     error
		category Category
	}{
		{"plain identifier", "main", nil, ErrNotMangledName, CategoryNotMangled},
		{"empty", "", nil, ErrNotMangledName, CategoryNotMangled},
		{"bare prefix", "_Z", nil, ErrUnexpectedEnd, CategoryMalformed},
		{"truncated name", "_Z3fo", nil, ErrUnexpectedEnd, CategoryMalformed},
		{"unterminated nested name", "_ZN3Foo3bar", nil, ErrUnexpectedEnd, CategoryMalformed},
		{"back reference into empty table", "_Z1fS_", nil, ErrBadBackReference, CategoryMalformed},
		{"back reference one past the end", "_Z1fP1AS1_", nil, ErrBadBackReference, CategoryMalformed},
		{"unbound template parameter", "_Z1fT_", nil, ErrBadTemplateParam, CategoryMalformed},
		{"trailing text", "_Z1fvE", nil, ErrUnexpectedToken, CategoryMalformed},
		{"unknown operator", "_Zzzv", nil, ErrUnexpectedToken, CategoryMalformed},
		{"input limit", "_Z3fooi", []Option{WithMaxInput(4)}, ErrInputTooLarge, CategoryResourceLimit},
		{"output limit", "_Z3fooi", []Option{WithMaxOutput(5)}, ErrOutputTooLarge, CategoryResourceLimit},
		{"doubling back references", doublingChain(20), nil, ErrOutputTooLarge, CategoryResourceLimit},
		{"source name length overflow", "_Z9223372036854775807i", nil, ErrUnexpectedEnd, CategoryMalformed},
		{"source name length near overflow", "_Z9223372036854775800i", nil, ErrUnexpectedEnd, CategoryMalformed},
		{"source name length too large for int", "_Z99999999999999999999i", nil, ErrUnexpectedToken, CategoryMalformed},
		{"template param index overflow in pack", "_Z1fIJiEEvDpT9223372036854775807_", nil, ErrUnexpectedToken, CategoryMalformed},
		{"template param index near overflow", "_Z1fIJiEEvDpT9223372036854775805_", nil, ErrBadTemplateParam, CategoryMalformed},
		{"function param overflow", "_Z1fIiEDTfp9223372036854775807_ET_", nil, ErrUnexpectedToken, CategoryMalformed},
		{"unnamed type overflow", "_ZN1AUt9223372036854775807_E", nil, ErrUnexpectedToken, CategoryMalformed},
		{
			"recursion limit",
			"_Z1f" + strings.Repeat("P", 300) + "i",
			nil,
			ErrRecursionLimitExceeded,
			CategoryResourceLimit,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Demangle(tc.mangled, tc.opts...)
			require.ErrorIs(t, err, tc.want)
			require.Empty(t, got)
			require.Equal(t, tc.category, Classify(err))
		})
	}
}

// doublingChain builds f(A<int>, A<A<int>, A<int> >, ...) where every
// parameter names the previous one twice through back-references, so the
// demangled text doubles with each level.
func doublingChain(levels int) string {
	var sb strings.Builder
	sb.WriteString("_Z1f1AIiE")
	for j := 1; j < levels; j++ {
		ref := "S" + strings.ToUpper(strconv.FormatInt(int64(j-1), 36)) + "_"
		sb.WriteString("S_I" + ref + ref + "E")
	}
	return sb.String()
}

func TestDemangleDoublingChain(t *testing.T) {
	require.Equal(t, "_Z1f1AIiES_IS0_S0_ES_IS1_S1_E", doublingChain(3))

	got, err := Demangle(doublingChain(3))
	require.NoError(t, err)
	require.Equal(t, "f(A<int>, A<A<int>, A<int> >, A<A<A<int>, A<int> >, A<A<int>, A<int> > >)", got)

	_, err = Demangle(doublingChain(12), WithMaxOutput(1<<12))
	require.ErrorIs(t, err, ErrOutputTooLarge)
}

func TestParseErrorPosition(t *testing.T) {
	_, err := Demangle("_Z1fP1AS1_")

	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	require.Equal(t, "substitution", perr.Production)
	require.Equal(t, 7, perr.Offset)
}

func TestInvalidOptions(t *testing.T) {
	_, err := Demangle("_Z1fv", WithMaxDepth(0))

	var cerr *ConfigError
	require.True(t, errors.As(err, &cerr))
	require.Equal(t, IssueMaxDepth, cerr.Issue)

	_, err = Parse("_Z1fv", WithLiteralCase(LiteralCase(7)))
	require.True(t, errors.As(err, &cerr))
	require.Equal(t, IssueLiteralCase, cerr.Issue)

	_, err = ParseLiteralCase("title")
	require.Error(t, err)

	c, err := ParseLiteralCase("upper")
	require.NoError(t, err)
	require.Equal(t, LiteralUpper, c)
}

func TestParseWithTail(t *testing.T) {
	sym, tail, err := ParseWithTail("_Z3fooiE rest")
	require.NoError(t, err)
	require.Equal(t, "E rest", tail)
	require.Equal(t, "_Z3fooi", sym.Mangled())
	require.Equal(t, "foo(int)", sym.String())

	_, err = Parse("_Z3fooiE rest")
	require.ErrorIs(t, err, ErrUnexpectedToken)
}

func TestSymbolRender(t *testing.T) {
	sym, err := Parse("_ZNK3Foo3barIiEEvT_", WithNoReturnType())
	require.NoError(t, err)
	require.Equal(t, "Foo::bar<int>(int) const", sym.String())

	full, err := sym.Render(func(o *Options) { o.NoReturnType = false })
	require.NoError(t, err)
	require.Equal(t, "void Foo::bar<int>(int) const", full)

	short, err := sym.Render(WithNoParams())
	require.NoError(t, err)
	require.Equal(t, "Foo::bar<int>", short)

	_, err = sym.Render(WithMaxOutput(3))
	require.ErrorIs(t, err, ErrOutputTooLarge)
	require.Equal(t, "Foo::bar<int>(int) const", sym.String())
}

func TestSymbolSubstitutions(t *testing.T) {
	// Foo, int const, int const&
	sym, err := Parse("_ZN3Foo3barERKi")
	require.NoError(t, err)
	require.Equal(t, 3, sym.Substitutions())

	sym, err = Parse("_Z1fv")
	require.NoError(t, err)
	require.Zero(t, sym.Substitutions())
}

func TestSymbolDump(t *testing.T) {
	sym, err := Parse("_ZN3Foo3barEi")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, sym.Dump(&buf))
	out := buf.String()
	require.Contains(t, out, "Foo")
	require.Contains(t, out, "bar")
	require.Contains(t, out, "int")
}

func TestIsMangled(t *testing.T) {
	require.True(t, IsMangled("_Z1fv"))
	require.True(t, IsMangled("__Z1fv"))
	require.True(t, IsMangled("_GLOBAL__sub_I_a.cc"))
	require.False(t, IsMangled("main"))
	require.False(t, IsMangled("Z1fv"))
	require.False(t, IsMangled(""))
}

func TestSimple(t *testing.T) {
	require.Equal(t, "foo(int)", Simple("_Z3fooi"))
	require.Equal(t, "main", Simple("main"))
	require.Equal(t, "_Z1fS_", Simple("_Z1fS_"))
}

func TestFilter(t *testing.T) {
	testCases := []struct {
		name string
		text string
		want string
	}{
		{"single token", "_Z3fooi", "foo(int)"},
		{"embedded", "call _Z3fooi at 0x10", "call foo(int) at 0x10"},
		{"two tokens", "_Z1fv -> _ZN3FooC1Ev", "f() -> Foo::Foo()"},
		{"clone suffix", "in _Z3foov.cold+0x4", "in foo() [clone .cold]+0x4"},
		{"malformed left alone", "x _Zbogus y", "x _Zbogus y"},
		{"no tokens", "nothing to see", "nothing to see"},
		{"inside an identifier", "abc_Z1fv", "abc_Z1fv"},
		{"inside a word", "call my_Z3fooi now", "call my_Z3fooi now"},
		{"darwin prefix", "at __Z3fooi", "at foo(int)"},
		{"end of sentence", "see _Z1fv.", "see f()."},
		{"after punctuation", "(_Z1fv)", "(f())"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Filter(tc.text))
		})
	}
}

func TestDemangleConcurrent(t *testing.T) {
	inputs := map[string]string{
		"_Z1fIiEvT_":                         "void f<int>(int)",
		"_ZNSt6vectorIiSaIiEE9push_backERKi": "std::vector<int, std::allocator<int> >::push_back(int const&)",
		"_ZZ4mainENKUlvE_clEv":               "main::{lambda()#1}::operator()() const",
		"_Z1fPFviE":                          "f(void (*)(int))",
	}

	var wg sync.WaitGroup
	errc := make(chan error, 64)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for mangled, want := range inputs {
				got, err := Demangle(mangled)
				if err != nil {
					errc <- err
					return
				}
				if got != want {
					errc <- errors.New(mangled + ": got " + got)
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errc)
	for err := range errc {
		require.NoError(t, err)
	}
}

func TestDemangleDeterministic(t *testing.T) {
	const mangled = "_ZNSt6vectorIiSaIiEE9push_backERKi"
	first, err := Demangle(mangled)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		got, err := Demangle(mangled)
		require.NoError(t, err)
		require.Equal(t, first, got)
	}
}
