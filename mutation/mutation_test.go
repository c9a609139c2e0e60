package mutation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/t14raptor/deobfuscate/arborist"
	"github.com/t14raptor/deobfuscate/ast"
	"github.com/t14raptor/deobfuscate/mutation"
)

func declarator(t *testing.T, arb *arborist.Arborist) *ast.Identifier {
	t.Helper()
	decl := arb.TypeMap(ast.KindVariableDeclarator)[0].(*ast.VariableDeclarator)
	id, ok := decl.Id.(*ast.Identifier)
	require.True(t, ok)
	return id
}

func TestIsMutatedDetectsReassignment(t *testing.T) {
	arb, err := arborist.New("var a = []; a = [1];")
	require.NoError(t, err)
	assert.True(t, mutation.IsMutated(arb, declarator(t, arb)))
}

func TestIsMutatedDetectsMutatingMethodCall(t *testing.T) {
	arb, err := arborist.New("var a = []; a.push(1);")
	require.NoError(t, err)
	assert.True(t, mutation.IsMutated(arb, declarator(t, arb)))
}

func TestIsMutatedIgnoresNonMutatingMethodCall(t *testing.T) {
	arb, err := arborist.New("var a = []; a.slice(0);")
	require.NoError(t, err)
	assert.False(t, mutation.IsMutated(arb, declarator(t, arb)))
}

func TestIsMutatedDetectsDestructuringTarget(t *testing.T) {
	arb, err := arborist.New("var a = [1]; [a] = [2];")
	require.NoError(t, err)
	assert.True(t, mutation.IsMutated(arb, declarator(t, arb)))
}

func TestIsMutatedFalseForReadOnlyBinding(t *testing.T) {
	arb, err := arborist.New("var a = 1; var b = a + 1;")
	require.NoError(t, err)
	assert.False(t, mutation.IsMutated(arb, declarator(t, arb)))
}
