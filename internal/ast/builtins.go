package ast

// Builtins maps single-letter builtin type codes to their spelling.
var Builtins = map[byte]string{
	'v': "void",
	'w': "wchar_t",
	'b': "bool",
	'c': "char",
	'a': "signed char",
	'h': "unsigned char",
	's': "short",
	't': "unsigned short",
	'i': "int",
	'j': "unsigned int",
	'l': "long",
	'm': "unsigned long",
	'x': "long long",
	'y': "unsigned long long",
	'n': "__int128",
	'o': "unsigned __int128",
	'f': "float",
	'd': "double",
	'e': "long double",
	'g': "__float128",
	'z': "...",
}

// ExtendedBuiltins maps the second letter of D-prefixed builtin codes to their spelling.
var ExtendedBuiltins = map[byte]string{
	'd': "decimal64",
	'e': "decimal128",
	'f': "decimal32",
	'h': "half",
	'i': "char32_t",
	's': "char16_t",
	'u': "char8_t",
	'a': "auto",
	'c': "decltype(auto)",
	'n': "std::nullptr_t",
}

// StdSubstitutionNames holds the spellings of the predefined abbreviations.
type StdSubstitutionNames struct {
	Short string // default spelling
	Full  string // spelling used before a constructor or destructor
	Base  string // unqualified class name, spelled by constructors and destructors
}

// StdSubstitutions maps the second letter of Sa, Sb, Ss, Si, So, Sd.
var StdSubstitutions = map[byte]StdSubstitutionNames{
	'a': {"std::allocator", "std::allocator", "allocator"},
	'b': {"std::basic_string", "std::basic_string", "basic_string"},
	's': {
		"std::string",
		"std::basic_string<char, std::char_traits<char>, std::allocator<char> >",
		"basic_string",
	},
	'i': {"std::istream", "std::basic_istream<char, std::char_traits<char> >", "basic_istream"},
	'o': {"std::ostream", "std::basic_ostream<char, std::char_traits<char> >", "basic_ostream"},
	'd': {"std::iostream", "std::basic_iostream<char, std::char_traits<char> >", "basic_iostream"},
}

// IsVoid reports whether n is the builtin void type.
func IsVoid(n Node) bool {
	b, ok := n.(*Builtin)
	return ok && !b.Vendor && b.Name == "void"
}
