package errors

import (
	"github.com/tliron/commonlog"

	"carlos/internal/ast"
)

// Log is the diagnostic sink of one compilation. It keeps every diagnostic in
// report order and counts the ones at error level.
type Log struct {
	entries    []CompilerError
	errorCount int
	log        commonlog.Logger
}

func NewLog() *Log {
	return &Log{log: commonlog.GetLogger("carlos.diagnostics")}
}

// Report records a diagnostic whose message comes from the catalog entry of
// code formatted with args.
func (l *Log) Report(code string, pos ast.Position, args ...interface{}) {
	l.Add(NewSemanticError(code, Message(code, args...), pos).Build())
}

// Add records a fully built diagnostic.
func (l *Log) Add(err CompilerError) {
	if err.Level == Error {
		l.errorCount++
	}
	l.entries = append(l.entries, err)
	l.log.Debugf("%s[%s] %s at %s", err.Level, err.Code, err.Message, err.Position)
}

// ErrorCount is the number of error-level diagnostics reported so far.
func (l *Log) ErrorCount() int { return l.errorCount }

// Errors returns all diagnostics in report order.
func (l *Log) Errors() []CompilerError { return l.entries }

// Codes returns the codes of all diagnostics in report order.
func (l *Log) Codes() []string {
	codes := make([]string, len(l.entries))
	for i, e := range l.entries {
		codes[i] = e.Code
	}
	return codes
}
