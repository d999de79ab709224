package errors

import (
	"fmt"
	"strings"

	"carlos/internal/ast"
)

// SemanticErrorBuilder provides a fluent interface for creating semantic errors with suggestions
type SemanticErrorBuilder struct {
	err CompilerError
}

// NewSemanticError creates a new semantic error builder
func NewSemanticError(code, message string, pos ast.Position) *SemanticErrorBuilder {
	return &SemanticErrorBuilder{
		err: CompilerError{
			Level:    Error,
			Code:     code,
			Message:  message,
			Position: pos,
			Length:   1,
		},
	}
}

// NewSemanticWarning creates a new semantic warning builder
func NewSemanticWarning(code, message string, pos ast.Position) *SemanticErrorBuilder {
	return &SemanticErrorBuilder{
		err: CompilerError{
			Level:    Warning,
			Code:     code,
			Message:  message,
			Position: pos,
			Length:   1,
		},
	}
}

// WithLength sets the length of the error span
func (b *SemanticErrorBuilder) WithLength(length int) *SemanticErrorBuilder {
	b.err.Length = length
	return b
}

// WithSuggestion adds a suggestion to the error
func (b *SemanticErrorBuilder) WithSuggestion(message string) *SemanticErrorBuilder {
	b.err.Suggestions = append(b.err.Suggestions, Suggestion{Message: message})
	return b
}

// WithReplacement adds a suggestion with replacement text
func (b *SemanticErrorBuilder) WithReplacement(message, replacement string, pos ast.Position, length int) *SemanticErrorBuilder {
	b.err.Suggestions = append(b.err.Suggestions, Suggestion{
		Message:     message,
		Replacement: replacement,
		Position:    pos,
		Length:      length,
	})
	return b
}

// WithNote adds a note to the error
func (b *SemanticErrorBuilder) WithNote(note string) *SemanticErrorBuilder {
	b.err.Notes = append(b.err.Notes, note)
	return b
}

// WithHelp adds help text to the error
func (b *SemanticErrorBuilder) WithHelp(help string) *SemanticErrorBuilder {
	b.err.HelpText = help
	return b
}

// Build returns the completed compiler error
func (b *SemanticErrorBuilder) Build() CompilerError {
	return b.err
}

// Common semantic error constructors with suggestions

// VariableNotFound creates an error for undeclared variables with suggestions
func VariableNotFound(name string, pos ast.Position, visibleNames []string) CompilerError {
	builder := NewSemanticError(ErrorVariableNotFound, Message(ErrorVariableNotFound, name), pos).
		WithLength(len(name))

	similar := findSimilarNames(name, visibleNames)
	if len(similar) > 0 {
		builder = builder.WithSuggestion(didYouMean(similar))
	} else {
		builder = builder.WithSuggestion("make sure the variable is declared before use").
			WithNote("variables are visible only after their declaration")
	}

	return builder.Build()
}

// TypeNotFound creates an error for unknown type names
func TypeNotFound(name string, pos ast.Position, visibleTypes []string) CompilerError {
	builder := NewSemanticError(ErrorTypeNotFound, Message(ErrorTypeNotFound, name), pos).
		WithLength(len(name))

	if similar := findSimilarNames(name, visibleTypes); len(similar) > 0 {
		builder = builder.WithSuggestion(didYouMean(similar))
	}

	return builder.WithHelp("types are int, real, boolean, char, string, arrays T[] and declared structs").Build()
}

// FunctionNotFound creates an error for calls to undeclared functions
func FunctionNotFound(name string, pos ast.Position, visibleNames []string) CompilerError {
	builder := NewSemanticError(ErrorFunctionNotFound, Message(ErrorFunctionNotFound, name), pos).
		WithLength(len(name))

	if similar := findSimilarNames(name, visibleNames); len(similar) > 0 {
		builder = builder.WithSuggestion(didYouMean(similar))
	}

	return builder.Build()
}

// TypeMismatch creates an error for type mismatches with conversion suggestions
func TypeMismatch(expected, actual string, pos ast.Position) CompilerError {
	builder := NewSemanticError(ErrorTypeMismatch, Message(ErrorTypeMismatch, expected, actual), pos)

	switch {
	case expected == "int" && actual == "real":
		builder = builder.WithNote("real values are never narrowed to int implicitly")
	case expected == "int" && actual == "char":
		builder = builder.WithSuggestion("convert with the int operator").
			WithReplacement("try a cast", "int <expr>", pos, 0)
	case expected == "char" && actual == "int":
		builder = builder.WithSuggestion("convert with the char operator").
			WithReplacement("try a cast", "char <expr>", pos, 0)
	case expected == "string":
		builder = builder.WithSuggestion("convert with the string operator")
	case expected == "boolean":
		builder = builder.WithSuggestion("use a comparison operator to create a boolean value")
	}

	return builder.Build()
}

// NoSuchField creates an error for missing struct fields with suggestions
func NoSuchField(structName, fieldName string, pos ast.Position, availableFields []string) CompilerError {
	builder := NewSemanticError(ErrorNoSuchField, Message(ErrorNoSuchField, structName, fieldName), pos).
		WithLength(len(fieldName))

	if len(availableFields) > 0 {
		if similar := findSimilarNames(fieldName, availableFields); len(similar) > 0 {
			builder = builder.WithSuggestion(didYouMean(similar))
		}
		builder = builder.WithNote(fmt.Sprintf("available fields: %s", strings.Join(availableFields, ", ")))
	}

	return builder.Build()
}

// DuplicateField creates an error for a field declared twice in one struct
func DuplicateField(fieldName, structName string, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorDuplicateField, Message(ErrorDuplicateField, fieldName, structName), pos).
		WithLength(len(fieldName)).
		WithSuggestion("rename or remove one of the fields").
		Build()
}

// RedeclaredIdentifier creates an error for a second declaration of a name
func RedeclaredIdentifier(name string, pos ast.Position, previous ast.Position) CompilerError {
	builder := NewSemanticError(ErrorRedeclaredIdentifier, Message(ErrorRedeclaredIdentifier, name), pos).
		WithLength(len(name)).
		WithSuggestion(fmt.Sprintf("rename the second '%s' to a unique name", name))

	if previous.Line > 0 {
		builder = builder.WithNote(fmt.Sprintf("previous declaration at %s", previous))
	}

	return builder.WithNote("only functions may share a name, as overloads").Build()
}

// NonMatchingArguments creates an error when no overload accepts a call
func NonMatchingArguments(name string, pos ast.Position, signatures []string) CompilerError {
	builder := NewSemanticError(ErrorNonMatchingArguments, Message(ErrorNonMatchingArguments, name), pos).
		WithLength(len(name))

	for _, sig := range signatures {
		builder = builder.WithNote(fmt.Sprintf("candidate: %s", sig))
	}

	return builder.Build()
}

// AmbiguousCall creates an error when several overloads accept a call
func AmbiguousCall(name string, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorAmbiguousCall, Message(ErrorAmbiguousCall, name), pos).
		WithLength(len(name)).
		WithNote("an int argument matches both int and real parameters").
		WithHelp("pass a real literal or variable to select the real overload").
		Build()
}

// BreakNotInLoop creates an error for break outside of while and for
func BreakNotInLoop(pos ast.Position) CompilerError {
	return NewSemanticError(ErrorBreakNotInLoop, Message(ErrorBreakNotInLoop), pos).
		WithLength(len("break")).
		WithNote("a function body starts outside of any loop").
		Build()
}

// ReadOnly creates an error for assignments to non-writable expressions
func ReadOnly(target string, pos ast.Position) CompilerError {
	builder := NewSemanticError(ErrorReadOnly, Message(ErrorReadOnly, target), pos)
	if strings.HasSuffix(target, "]") {
		builder = builder.WithNote("strings are immutable; only array elements can be assigned")
	}
	return builder.Build()
}

// Helper functions

func didYouMean(similar []string) string {
	if len(similar) == 1 {
		return fmt.Sprintf("did you mean '%s'?", similar[0])
	}
	return fmt.Sprintf("did you mean one of: '%s'?", strings.Join(similar, "', '"))
}

func findSimilarNames(target string, candidates []string) []string {
	var similar []string

	for _, candidate := range candidates {
		if candidate != target && levenshteinDistance(target, candidate) <= 2 && len(candidate) > 2 {
			similar = append(similar, candidate)
		}
	}

	return similar
}

// Simple Levenshtein distance implementation for finding similar names
func levenshteinDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	matrix := make([][]int, len(a)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(b)+1)
	}

	for i := 0; i <= len(a); i++ {
		matrix[i][0] = i
	}
	for j := 0; j <= len(b); j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}

			matrix[i][j] = min3(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[len(a)][len(b)]
}

func min3(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}
