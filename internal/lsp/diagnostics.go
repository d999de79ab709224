package lsp

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"carlos/internal/errors"
	"carlos/internal/parser"
)

const (
	parserSource   = "carlos-parser"
	semanticSource = "carlos-semantic"
)

// ConvertParseErrors turns syntax errors into LSP diagnostics. LSP positions
// are 0-based while the parser reports 1-based lines and columns.
func ConvertParseErrors(parseErrors []parser.ParseError) []protocol.Diagnostic {
	diagnostics := []protocol.Diagnostic{}

	for _, parseErr := range parseErrors {
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range:    span(parseErr.Position.Line, parseErr.Position.Column, parseErr.Length),
			Severity: ptrSeverity(protocol.DiagnosticSeverityError),
			Source:   ptrString(parserSource),
			Message:  parseErr.Message,
		})
	}

	return diagnostics
}

// ConvertCompilerErrors turns analyzer diagnostics into LSP diagnostics,
// keeping their code and severity.
func ConvertCompilerErrors(compilerErrors []errors.CompilerError) []protocol.Diagnostic {
	diagnostics := []protocol.Diagnostic{}

	for _, compilerErr := range compilerErrors {
		diagnostic := protocol.Diagnostic{
			Range:    span(compilerErr.Position.Line, compilerErr.Position.Column, compilerErr.Length),
			Severity: ptrSeverity(severity(compilerErr.Level)),
			Source:   ptrString(semanticSource),
			Message:  compilerErr.Message,
		}
		if compilerErr.Code != "" {
			diagnostic.Code = &protocol.IntegerOrString{Value: compilerErr.Code}
		}
		diagnostics = append(diagnostics, diagnostic)
	}

	return diagnostics
}

func severity(level errors.ErrorLevel) protocol.DiagnosticSeverity {
	switch level {
	case errors.Warning:
		return protocol.DiagnosticSeverityWarning
	case errors.Note:
		return protocol.DiagnosticSeverityInformation
	case errors.Help:
		return protocol.DiagnosticSeverityHint
	}
	return protocol.DiagnosticSeverityError
}

// span builds a single-line range. Diagnostics without a length still get a
// one-character span so editors can show them.
func span(line, column, length int) protocol.Range {
	if line < 1 {
		line = 1
	}
	if column < 1 {
		column = 1
	}
	if length < 1 {
		length = 1
	}
	start := protocol.Position{Line: uint32(line - 1), Character: uint32(column - 1)}
	end := protocol.Position{Line: start.Line, Character: start.Character + uint32(length)}
	return protocol.Range{Start: start, End: end}
}

func ptrSeverity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity {
	return &s
}

func ptrString(s string) *string {
	return &s
}
