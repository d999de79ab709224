package grammar

import (
	"fmt"
	"os"

	"github.com/alecthomas/participle/v2"
)

var parser = buildParser()

func buildParser() *participle.Parser[Program] {
	p, err := participle.Build[Program](
		participle.Lexer(CarlosLexer),
		participle.Elide("Whitespace", "Comment"),
		participle.UseLookahead(16),
	)
	if err != nil {
		panic(fmt.Errorf("failed to build parser: %w", err))
	}

	return p
}

func ParseFile(path string) (*Program, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return ParseString(path, string(source))
}

// ParseString parses a whole Carlos program. On a syntax error the returned
// error implements participle.Error and carries the offending position.
func ParseString(filename, source string) (*Program, error) {
	return parser.ParseString(filename, source)
}

// EBNF returns the grammar in EBNF notation.
func EBNF() string {
	return parser.String()
}
