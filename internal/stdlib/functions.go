package stdlib

import (
	"fmt"

	"carlos/internal/ast"
	"carlos/internal/builtins"
)

// FunctionDefinition defines a function signature provided by the runtime
type FunctionDefinition struct {
	Name       string
	Parameters []ParameterDefinition
	ReturnType builtins.BuiltinType
	Builtin    ast.Builtin
}

// ParameterDefinition defines a function parameter
type ParameterDefinition struct {
	Name string
	Type builtins.BuiltinType
}

// NewFunction creates a function definition
func NewFunction(builtin ast.Builtin, name string, returnType builtins.BuiltinType, params ...ParameterDefinition) FunctionDefinition {
	return FunctionDefinition{
		Name:       name,
		Parameters: params,
		ReturnType: returnType,
		Builtin:    builtin,
	}
}

// NewParam creates a parameter definition
func NewParam(name string, typ builtins.BuiltinType) ParameterDefinition {
	return ParameterDefinition{Name: name, Type: typ}
}

// StandardFunctions lists the functions every program can call.
var StandardFunctions = []FunctionDefinition{
	NewFunction(ast.BuiltinGetString, "getString", builtins.String),
	NewFunction(ast.BuiltinSubstring, "substring", builtins.String,
		NewParam("s", builtins.String), NewParam("begin", builtins.Int), NewParam("end", builtins.Int)),
	NewFunction(ast.BuiltinSqrt, "sqrt", builtins.Real, NewParam("x", builtins.Real)),
	NewFunction(ast.BuiltinPi, "pi", builtins.Real),
	NewFunction(ast.BuiltinSin, "sin", builtins.Real, NewParam("x", builtins.Real)),
	NewFunction(ast.BuiltinCos, "cos", builtins.Real, NewParam("x", builtins.Real)),
	NewFunction(ast.BuiltinLn, "ln", builtins.Real, NewParam("x", builtins.Real)),
	NewFunction(ast.BuiltinAtan, "atan", builtins.Real, NewParam("y", builtins.Real), NewParam("x", builtins.Real)),
}

// Instantiate builds a fresh, already-analyzed function entity.
func (d FunctionDefinition) Instantiate() *ast.Function {
	f := &ast.Function{
		Name:           d.Name,
		ReturnTypeName: string(d.ReturnType),
		Builtin:        d.Builtin,
	}
	if d.ReturnType != builtins.Void {
		f.ReturnType = builtins.BuiltinTypes[string(d.ReturnType)]
	}
	for _, p := range d.Parameters {
		f.Parameters = append(f.Parameters, &ast.Variable{
			Name:     p.Name,
			TypeName: string(p.Type),
			Type:     builtins.BuiltinTypes[string(p.Type)],
		})
	}
	return f
}

// NewGlobalScope creates the root scope of one compilation: the primitive
// types followed by fresh instances of the standard functions.
func NewGlobalScope() *ast.SymbolTable {
	table := ast.NewSymbolTable(nil)
	for _, t := range ast.Primitives {
		mustInsert(table, t)
	}
	for _, d := range StandardFunctions {
		mustInsert(table, d.Instantiate())
	}
	return table
}

func mustInsert(table *ast.SymbolTable, d ast.Declarable) {
	if err := table.Insert(d); err != nil {
		panic(fmt.Errorf("global scope: %w", err))
	}
}

// ExternalSubroutines are runtime entry points the translator calls by name.
const (
	AllocateArray    = "allocate_array"
	TerminateProgram = "terminate_program"
	ObjectToString   = "object_to_string"
	Substring        = "substring"
	GetString        = "get_string"
)
