package ast

// OperatorInfo describes one entry of the fixed operator code table.
type OperatorInfo struct {
	Code  string
	Name  string // spelled form after "operator"
	Arity int    // operand count in expressions; -1 for variadic forms
}

// Operators maps two-letter operator codes to their descriptions.
var Operators = map[string]*OperatorInfo{
	"nw": {"nw", "new", -1},
	"na": {"na", "new[]", -1},
	"dl": {"dl", "delete", 1},
	"da": {"da", "delete[]", 1},
	"aw": {"aw", "co_await", 1},
	"ps": {"ps", "+", 1},
	"ng": {"ng", "-", 1},
	"ad": {"ad", "&", 1},
	"de": {"de", "*", 1},
	"co": {"co", "~", 1},
	"pl": {"pl", "+", 2},
	"mi": {"mi", "-", 2},
	"ml": {"ml", "*", 2},
	"dv": {"dv", "/", 2},
	"rm": {"rm", "%", 2},
	"an": {"an", "&", 2},
	"or": {"or", "|", 2},
	"eo": {"eo", "^", 2},
	"aS": {"aS", "=", 2},
	"pL": {"pL", "+=", 2},
	"mI": {"mI", "-=", 2},
	"mL": {"mL", "*=", 2},
	"dV": {"dV", "/=", 2},
	"rM": {"rM", "%=", 2},
	"aN": {"aN", "&=", 2},
	"oR": {"oR", "|=", 2},
	"eO": {"eO", "^=", 2},
	"ls": {"ls", "<<", 2},
	"rs": {"rs", ">>", 2},
	"lS": {"lS", "<<=", 2},
	"rS": {"rS", ">>=", 2},
	"eq": {"eq", "==", 2},
	"ne": {"ne", "!=", 2},
	"lt": {"lt", "<", 2},
	"gt": {"gt", ">", 2},
	"le": {"le", "<=", 2},
	"ge": {"ge", ">=", 2},
	"ss": {"ss", "<=>", 2},
	"nt": {"nt", "!", 1},
	"aa": {"aa", "&&", 2},
	"oo": {"oo", "||", 2},
	"pp": {"pp", "++", 1},
	"mm": {"mm", "--", 1},
	"cm": {"cm", ",", 2},
	"pm": {"pm", "->*", 2},
	"pt": {"pt", "->", 2},
	"cl": {"cl", "()", -1},
	"ix": {"ix", "[]", 2},
	"qu": {"qu", "?", 3},
}

// IsWord reports whether the operator is spelled with a keyword ("new", "co_await").
func (o *OperatorInfo) IsWord() bool {
	c := o.Name[0]
	return c >= 'a' && c <= 'z'
}
