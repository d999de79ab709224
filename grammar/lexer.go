package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// Keywords are never identifiers. The primitive type names are ordinary
// identifiers bound in the global scope; int, char and string double as
// conversion operators and are matched by value in the grammar.
var Keywords = []string{
	"struct", "void", "if", "else", "while", "for", "break", "return",
	"print", "new", "true", "false", "null", "length",
}

var CarlosLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		// Comments
		{"Comment", `//[^\n]*|(?s:/\*.*?\*/)`, nil},

		// Whitespace
		{"Whitespace", `[ \t\r\n]+`, nil},

		// Literals (reals before integers)
		{"Real", `[0-9]+\.[0-9]+(?:[eE][+-]?[0-9]+)?|[0-9]+[eE][+-]?[0-9]+`, nil},
		{"Int", `[0-9]+`, nil},
		{"Char", `'(?:\\.|[^'\\\n])*'`, nil},
		{"String", `"(?:\\.|[^"\\\n])*"`, nil},

		// Keywords and Identifiers (order matters)
		{"Keyword", `\b(?:struct|void|if|else|while|for|break|return|print|new|true|false|null|length)\b`, nil},
		{"Ident", `[a-zA-Z_][a-zA-Z0-9_]*`, nil},

		// Operators
		{"Operator", `<<|>>|<=|>=|==|!=|&&|\|\||\+\+|--|[-+*/%<>=!~^&|]`, nil},

		// Punctuation (must come after operators)
		{"Punctuation", `[{}\[\]();,.]`, nil},
	},
})
