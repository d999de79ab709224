package semantic

import (
	stderrors "errors"
	"fmt"
	"sort"
	"strings"

	"carlos/internal/ast"
	"carlos/internal/errors"
)

func (a *Analyzer) internalError(ctx Context, pos ast.Position, format string, args ...interface{}) {
	err := errors.NewInternalErrorSkip(1, pos, format, args...)
	a.logger.Errorf("%s", err)
	ctx.log.Add(err.Diagnostic())
}

// insert binds d in the current scope, reporting a redeclaration against the
// position of the earlier binding.
func (a *Analyzer) insert(ctx Context, d ast.Declarable) {
	err := ctx.table.Insert(d)
	if err == nil {
		return
	}
	var lookupErr *ast.LookupError
	if stderrors.As(err, &lookupErr) && lookupErr.Found != nil {
		a.log.Add(errors.RedeclaredIdentifier(d.DeclName(), d.NodePos(), lookupErr.Found.NodePos()))
		return
	}
	ctx.report(errors.ErrorRedeclaredIdentifier, d.NodePos(), d.DeclName())
}

func (a *Analyzer) lookupType(ctx Context, name string, pos ast.Position) *ast.Type {
	t, err := ctx.table.LookupType(name)
	if err != nil {
		a.reportLookup(ctx, err, pos, isType)
	}
	return t
}

func (a *Analyzer) lookupVariable(ctx Context, name string, pos ast.Position) *ast.Variable {
	v, err := ctx.table.LookupVariable(name)
	if err != nil {
		a.reportLookup(ctx, err, pos, isVariable)
	}
	return v
}

// lookupFunction returns nil when no single overload accepts args. An
// argument that already failed analysis matches every overload, so the
// resulting ambiguity is not reported again.
func (a *Analyzer) lookupFunction(ctx Context, name string, args []ast.Expression, pos ast.Position) *ast.Function {
	f, err := ctx.table.LookupFunction(name, args)
	if err == nil {
		return f
	}
	var lookupErr *ast.LookupError
	if stderrors.As(err, &lookupErr) && lookupErr.Reason == ast.AmbiguousCall && anyArbitrary(args) {
		return nil
	}
	a.reportLookup(ctx, err, pos, isFunction)
	return nil
}

func anyArbitrary(args []ast.Expression) bool {
	for _, arg := range args {
		if arg.TypeOf() == ast.Arbitrary {
			return true
		}
	}
	return false
}

func (a *Analyzer) reportLookup(ctx Context, err error, pos ast.Position, wanted func(ast.Declarable) bool) {
	var lookupErr *ast.LookupError
	if !stderrors.As(err, &lookupErr) {
		a.internalError(ctx, pos, "lookup failed: %v", err)
		return
	}

	name := lookupErr.Name
	switch lookupErr.Reason {
	case ast.NotFound:
		visible := visibleNames(ctx.table, wanted)
		switch {
		case wanted(ast.Int):
			a.log.Add(errors.TypeNotFound(name, pos, visible))
		case wanted(&ast.Function{}):
			a.log.Add(errors.FunctionNotFound(name, pos, visible))
		default:
			a.log.Add(errors.VariableNotFound(name, pos, visible))
		}
	case ast.NotAType:
		ctx.report(errors.ErrorNotAType, pos, name)
	case ast.NotAVariable:
		ctx.report(errors.ErrorNotAVariable, pos, name)
	case ast.NotAFunction:
		ctx.report(errors.ErrorNotAFunction, pos, name)
	case ast.NoMatchingOverload:
		head, _ := lookupErr.Found.(*ast.Function)
		a.log.Add(errors.NonMatchingArguments(name, pos, signatures(head)))
	case ast.AmbiguousCall:
		a.log.Add(errors.AmbiguousCall(name, pos))
	default:
		a.internalError(ctx, pos, "unexpected lookup failure: %v", err)
	}
}

func isType(d ast.Declarable) bool {
	_, ok := d.(*ast.Type)
	return ok
}

func isVariable(d ast.Declarable) bool {
	_, ok := d.(*ast.Variable)
	return ok
}

func isFunction(d ast.Declarable) bool {
	_, ok := d.(*ast.Function)
	return ok
}

// visibleNames lists the names in scope whose innermost binding satisfies
// keep, for did-you-mean suggestions.
func visibleNames(table *ast.SymbolTable, keep func(ast.Declarable) bool) []string {
	seen := make(map[string]bool)
	var names []string
	for s := table; s != nil; s = s.Parent {
		for _, name := range s.Names() {
			if seen[name] {
				continue
			}
			seen[name] = true
			if d, _ := s.LookupLocal(name); keep(d) {
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}

// signatures renders every overload in the chain starting at head.
func signatures(head *ast.Function) []string {
	var sigs []string
	for f := head; f != nil; f = f.Overload {
		params := make([]string, len(f.Parameters))
		for i, p := range f.Parameters {
			params[i] = p.TypeName
		}
		sigs = append(sigs, fmt.Sprintf("%s %s(%s)", f.ReturnTypeName, f.Name, strings.Join(params, ", ")))
	}
	return sigs
}

func fieldNames(t *ast.Type) []string {
	names := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		names[i] = f.Name
	}
	return names
}

func exprString(e ast.Expression) string {
	if s, ok := e.(fmt.Stringer); ok {
		return s.String()
	}
	return e.Kind().String()
}

func typeName(t *ast.Type) string {
	if t == nil {
		return "void"
	}
	return t.Name
}

// The require helpers stay silent when the offending operand is already
// Arbitrary, which means an error was reported for it earlier.

func (a *Analyzer) requireArithmetic(ctx Context, op string, e ast.Expression) {
	if t := e.TypeOf(); !t.IsArithmetic() && t != ast.Arbitrary {
		ctx.report(errors.ErrorNonArithmetic, e.NodePos(), op, t.Name)
	}
}

func (a *Analyzer) requireInteger(ctx Context, op string, e ast.Expression) {
	if t := e.TypeOf(); t != ast.Int && t != ast.Arbitrary {
		ctx.report(errors.ErrorNonInteger, e.NodePos(), op, t.Name)
	}
}

func (a *Analyzer) requireBoolean(ctx Context, what string, e ast.Expression) {
	if t := e.TypeOf(); t != ast.Boolean && t != ast.Arbitrary {
		ctx.report(errors.ErrorNonBoolean, e.NodePos(), what, t.Name)
	}
}

func (a *Analyzer) requireChar(ctx Context, op string, e ast.Expression) {
	if t := e.TypeOf(); t != ast.Char && t != ast.Arbitrary {
		ctx.report(errors.ErrorNonChar, e.NodePos(), op, t.Name)
	}
}

func (a *Analyzer) requireString(ctx Context, op string, e ast.Expression) {
	if t := e.TypeOf(); t != ast.String && t != ast.Arbitrary {
		ctx.report(errors.ErrorNonString, e.NodePos(), op, t.Name)
	}
}

func (a *Analyzer) requireArrayOrString(ctx Context, op string, e ast.Expression) {
	if t := e.TypeOf(); !ast.IsAssignable(t, ast.ArrayOrString) {
		ctx.report(errors.ErrorNonArrayOrString, e.NodePos(), op, t.Name)
	}
}

func (a *Analyzer) requireAssignable(ctx Context, e ast.Expression, target *ast.Type) {
	if target == nil {
		return
	}
	if t := e.TypeOf(); !ast.IsAssignable(t, target) {
		a.log.Add(errors.TypeMismatch(target.Name, typeName(t), e.NodePos()))
	}
}

func (a *Analyzer) requireWritable(ctx Context, v ast.VariableExpression) {
	if !ast.IsWritable(v) {
		a.log.Add(errors.ReadOnly(exprString(v), v.NodePos()))
	}
}
