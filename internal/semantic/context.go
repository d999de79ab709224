package semantic

import (
	"carlos/internal/ast"
	"carlos/internal/errors"
)

// Context is the state threaded through analysis. It is passed by value and
// every With method returns a modified copy, so a nested construct can never
// leak its scope, enclosing function or loop flag to its siblings.
type Context struct {
	log      *errors.Log
	table    *ast.SymbolTable
	function *ast.Function
	inLoop   bool
}

// NewContext creates the context for a whole program, rooted at table.
func NewContext(log *errors.Log, table *ast.SymbolTable) Context {
	return Context{log: log, table: table}
}

func (c Context) WithTable(table *ast.SymbolTable) Context {
	c.table = table
	return c
}

func (c Context) WithFunction(function *ast.Function) Context {
	c.function = function
	return c
}

func (c Context) WithInLoop(inLoop bool) Context {
	c.inLoop = inLoop
	return c
}

func (c Context) Log() *errors.Log        { return c.log }
func (c Context) Table() *ast.SymbolTable { return c.table }
func (c Context) Function() *ast.Function { return c.function }
func (c Context) InLoop() bool            { return c.inLoop }

func (c Context) report(code string, pos ast.Position, args ...interface{}) {
	c.log.Report(code, pos, args...)
}
