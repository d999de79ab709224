package builtins

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"carlos/internal/ast"
)

func TestBuiltinTypes(t *testing.T) {
	for _, typ := range ast.Primitives {
		assert.True(t, IsBuiltinType(typ.Name), typ.Name)
		assert.True(t, IsPrimitive(typ), typ.Name)
	}

	assert.False(t, IsBuiltinType(string(Void)))
	assert.False(t, IsPrimitive(ast.Int.Array()))
	assert.False(t, IsPrimitive(ast.NewStructType(ast.Position{}, "int", nil)))
}
