package errors

import "fmt"

// Error codes for the Carlos compiler
// These codes are used in diagnostics and documentation
// to provide consistent error identification across the toolchain.
//
// Error code ranges:
// E0001-E0099: Name resolution and statement errors
// E0100-E0199: Syntax and literal errors
// E0200-E0299: Type system errors
// E0900-E0999: Internal compiler errors

const (
	// Name resolution and declarations

	ErrorRedeclaredIdentifier = "E0001"
	ErrorTypeNotFound         = "E0002"
	ErrorNotAType             = "E0003"
	ErrorVariableNotFound     = "E0004"
	ErrorNotAVariable         = "E0005"
	ErrorFunctionNotFound     = "E0006"
	ErrorAmbiguousCall        = "E0007"
	ErrorNonMatchingArguments = "E0008"
	ErrorNotAFunction         = "E0009"

	// Structs and aggregates

	ErrorDuplicateField      = "E0010"
	ErrorNoSuchField         = "E0011"
	ErrorNotAStruct          = "E0012"
	ErrorNotAStructType      = "E0013"
	ErrorWrongNumberOfFields = "E0014"
	ErrorNotAnArrayType      = "E0015"

	// Statements

	ErrorReadOnly              = "E0016"
	ErrorBreakNotInLoop        = "E0017"
	ErrorVoidInExpression      = "E0018"
	ErrorNonVoidInStatement    = "E0019"
	ErrorReturnOutsideFunction = "E0020"
	ErrorReturnValueInVoid     = "E0021"
	ErrorMissingReturnValue    = "E0022"

	// Syntax and literals (E0100-E0199)

	ErrorSyntax    = "E0100"
	ErrorBadInt    = "E0101"
	ErrorBadReal   = "E0102"
	ErrorBadChar   = "E0103"
	ErrorBadString = "E0104"

	// Type system (E0200-E0299)

	ErrorTypeMismatch     = "E0200"
	ErrorNonArithmetic    = "E0201"
	ErrorNonInteger       = "E0202"
	ErrorNonBoolean       = "E0203"
	ErrorNonChar          = "E0204"
	ErrorNonString        = "E0205"
	ErrorNonArrayOrString = "E0206"
	ErrorNonCompatible    = "E0207"
	ErrorNonOrderable     = "E0208"

	// E0900: the compiler met a construct it has no handling for
	ErrorInternal = "E0900"
)

// messages is the diagnostic catalog. Every entry is a fmt format consuming
// the arguments passed to Log.Report.
var messages = map[string]string{
	ErrorRedeclaredIdentifier: "identifier '%s' is already declared in this scope",
	ErrorTypeNotFound:         "type '%s' not found",
	ErrorNotAType:             "'%s' is not a type",
	ErrorVariableNotFound:     "variable '%s' not found",
	ErrorNotAVariable:         "'%s' is not a variable",
	ErrorFunctionNotFound:     "function '%s' not found",
	ErrorAmbiguousCall:        "call to '%s' matches more than one overload",
	ErrorNonMatchingArguments: "no overload of '%s' accepts these arguments",
	ErrorNotAFunction:         "'%s' is not a function",

	ErrorDuplicateField:      "duplicate field '%s' in struct '%s'",
	ErrorNoSuchField:         "struct '%s' has no field '%s'",
	ErrorNotAStruct:          "'%s' is not a struct",
	ErrorNotAStructType:      "type '%s' is not a struct type",
	ErrorWrongNumberOfFields: "struct '%s' has %d fields but %d values were given",
	ErrorNotAnArrayType:      "type '%s' is not an array type",

	ErrorReadOnly:              "'%s' cannot be assigned to",
	ErrorBreakNotInLoop:        "break is not inside a loop",
	ErrorVoidInExpression:      "void function '%s' used in an expression",
	ErrorNonVoidInStatement:    "function '%s' returns a value and cannot be called as a statement",
	ErrorReturnOutsideFunction: "return outside of a function",
	ErrorReturnValueInVoid:     "void function '%s' cannot return a value",
	ErrorMissingReturnValue:    "function '%s' must return a value of type %s",

	ErrorSyntax:    "%s",
	ErrorBadInt:    "malformed integer literal %s",
	ErrorBadReal:   "malformed real literal %s",
	ErrorBadChar:   "malformed character literal %s",
	ErrorBadString: "malformed string literal %s",

	ErrorTypeMismatch:     "type mismatch: expected %s, found %s",
	ErrorNonArithmetic:    "operator %s needs an arithmetic operand, found %s",
	ErrorNonInteger:       "operator %s needs an int operand, found %s",
	ErrorNonBoolean:       "%s needs a boolean, found %s",
	ErrorNonChar:          "operator %s needs a char operand, found %s",
	ErrorNonString:        "operator %s needs a string operand, found %s",
	ErrorNonArrayOrString: "operator %s needs an array or string, found %s",
	ErrorNonCompatible:    "operator %s cannot compare %s with %s",
	ErrorNonOrderable:     "operator %s cannot order values of type %s",

	ErrorInternal: "internal compiler error: %s",
}

// Message formats the catalog entry for code.
func Message(code string, args ...interface{}) string {
	format, ok := messages[code]
	if !ok {
		return fmt.Sprintf("%s %v", code, args)
	}
	return fmt.Sprintf(format, args...)
}

// GetErrorDescription returns a human-readable description of the error code
func GetErrorDescription(code string) string {
	switch code {
	case ErrorRedeclaredIdentifier:
		return "A name is declared twice in the same scope"
	case ErrorTypeNotFound, ErrorVariableNotFound, ErrorFunctionNotFound:
		return "A name is used but not declared in any enclosing scope"
	case ErrorNotAType, ErrorNotAVariable, ErrorNotAFunction:
		return "A name refers to a different kind of declaration"
	case ErrorAmbiguousCall:
		return "Several overloads accept the call arguments"
	case ErrorNonMatchingArguments:
		return "No overload accepts the call arguments"
	case ErrorDuplicateField:
		return "A struct declares the same field twice"
	case ErrorNoSuchField:
		return "Struct field does not exist"
	case ErrorNotAStruct, ErrorNotAStructType:
		return "A struct was expected"
	case ErrorWrongNumberOfFields:
		return "Struct aggregate has the wrong number of values"
	case ErrorNotAnArrayType:
		return "An array type was expected"
	case ErrorReadOnly:
		return "Target of an assignment or increment is not writable"
	case ErrorBreakNotInLoop:
		return "break outside of a loop"
	case ErrorVoidInExpression:
		return "Void function called where a value is needed"
	case ErrorNonVoidInStatement:
		return "Value-returning function called as a statement"
	case ErrorReturnOutsideFunction, ErrorReturnValueInVoid, ErrorMissingReturnValue:
		return "Return statement does not match the enclosing function"
	case ErrorSyntax:
		return "Source text does not follow the grammar"
	case ErrorBadInt, ErrorBadReal, ErrorBadChar, ErrorBadString:
		return "Literal cannot be decoded"
	case ErrorTypeMismatch:
		return "Expression type does not match expected type"
	case ErrorNonArithmetic, ErrorNonInteger, ErrorNonBoolean, ErrorNonChar, ErrorNonString, ErrorNonArrayOrString:
		return "Operand has the wrong type for its operator"
	case ErrorNonCompatible, ErrorNonOrderable:
		return "Operands cannot be compared"
	case ErrorInternal:
		return "The compiler reached a state it cannot handle"
	default:
		return "Unknown error code"
	}
}

// IsWarning returns true if the error code represents a warning rather than an error
func IsWarning(code string) bool {
	return len(code) > 0 && code[0] == 'W'
}

// GetErrorCategory returns the category of the error based on its code
func GetErrorCategory(code string) string {
	switch {
	case code >= "E0001" && code < "E0100":
		return "Semantic Analysis"
	case code >= "E0100" && code < "E0200":
		return "Syntax"
	case code >= "E0200" && code < "E0300":
		return "Type System"
	case code >= "E0900" && code < "E1000":
		return "Internal"
	case IsWarning(code):
		return "Warning"
	default:
		return "Unknown"
	}
}
