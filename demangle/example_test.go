package demangle_test

import (
	"fmt"

	"github.com/skdltmxn/cxxdemangle/demangle"
)

func ExampleDemangle() {
	s, err := demangle.Demangle("_ZNSt6vectorIiSaIiEE9push_backERKi")
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(s)
	// Output: std::vector<int, std::allocator<int> >::push_back(int const&)
}

func ExampleFilter() {
	fmt.Println(demangle.Filter("#0 0x4005d6 in _Z3fooi (a.out+0x5d6)"))
	// Output: #0 0x4005d6 in foo(int) (a.out+0x5d6)
}

func ExampleSymbol_Render() {
	sym, err := demangle.Parse("_Z1fIiEvT_")
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(sym)
	short, _ := sym.Render(demangle.WithNoReturnType())
	fmt.Println(short)
	// Output:
	// void f<int>(int)
	// f<int>(int)
}
