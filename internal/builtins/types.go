package builtins

import "carlos/internal/ast"

// BuiltinType represents the built-in types in the Carlos language
type BuiltinType string

const (
	Int     BuiltinType = "int"
	Real    BuiltinType = "real"
	Boolean BuiltinType = "boolean"
	Char    BuiltinType = "char"
	String  BuiltinType = "string"

	// Void is not a type; it marks functions that return nothing.
	Void BuiltinType = "void"
)

// BuiltinTypes maps every built-in type name to its singleton.
var BuiltinTypes = map[string]*ast.Type{
	string(Int):     ast.Int,
	string(Real):    ast.Real,
	string(Boolean): ast.Boolean,
	string(Char):    ast.Char,
	string(String):  ast.String,
}

// IsBuiltinType checks if a type name is a built-in type
func IsBuiltinType(typeName string) bool {
	_, ok := BuiltinTypes[typeName]
	return ok
}

// IsPrimitive reports whether t is one of the built-in singletons.
func IsPrimitive(t *ast.Type) bool {
	return t != nil && IsBuiltinType(t.Name) && BuiltinTypes[t.Name] == t
}
