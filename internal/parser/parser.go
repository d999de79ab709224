package parser

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/alecthomas/participle/v2"

	"carlos/grammar"
	"carlos/internal/ast"
)

// ParseError is a syntax error, or a construct the grammar accepts but that
// cannot stand where it appears.
type ParseError struct {
	Message  string
	Position ast.Position
	Length   int
}

func (e ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Position, e.Message)
}

func ParseFile(path string) (*ast.Program, []ParseError, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read file: %w", err)
	}

	program, parseErrors := ParseSource(path, string(source))
	return program, parseErrors, nil
}

// ParseSource parses a Carlos program into an unanalyzed entity tree. The
// program is nil whenever errors are returned.
func ParseSource(path string, source string) (*ast.Program, []ParseError) {
	tree, err := grammar.ParseString(path, source)
	if err != nil {
		return nil, []ParseError{fromParticiple(path, err)}
	}

	c := &converter{}
	program := c.program(tree)
	if len(c.errors) > 0 {
		return nil, c.errors
	}
	return program, nil
}

func fromParticiple(path string, err error) ParseError {
	var perr participle.Error
	if stderrors.As(err, &perr) {
		pos := perr.Position()
		return ParseError{
			Message:  perr.Message(),
			Position: ast.Position{Filename: pos.Filename, Offset: pos.Offset, Line: pos.Line, Column: pos.Column},
			Length:   1,
		}
	}
	return ParseError{Message: err.Error(), Position: ast.Position{Filename: path}}
}
