package passes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/t14raptor/deobfuscate/arborist"
	"github.com/t14raptor/deobfuscate/ast"
	"github.com/t14raptor/deobfuscate/passes"
)

func TestResolveDefiniteBinaryExpressionsFoldsLiteralMath(t *testing.T) {
	arb, err := arborist.New("5 * 3;")
	require.NoError(t, err)

	next, changed, err := passes.ResolveDefiniteBinaryExpressions.Run(arb, nil)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "15;", next.Script())
}

func TestResolveDefiniteBinaryExpressionsSkipsFreeVariables(t *testing.T) {
	arb, err := arborist.New("x * 3;")
	require.NoError(t, err)

	next, changed, err := passes.ResolveDefiniteBinaryExpressions.Run(arb, nil)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, arb, next)
}

func TestNormalizeComputedMemberToDotRewritesIdentifierKeys(t *testing.T) {
	arb, err := arborist.New("obj['key'];")
	require.NoError(t, err)

	next, changed, err := passes.NormalizeComputedMemberToDot.Run(arb, nil)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "obj.key;", next.Script())
}

func TestNormalizeComputedMemberToDotSkipsNonIdentifierKeys(t *testing.T) {
	arb, err := arborist.New("obj['not-an-ident'];")
	require.NoError(t, err)

	next, changed, err := passes.NormalizeComputedMemberToDot.Run(arb, nil)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, arb, next)
}

func TestResolveDefiniteMemberExpressionsLeavesOutOfBoundsUnchanged(t *testing.T) {
	arb, err := arborist.New("'abc'[10];")
	require.NoError(t, err)

	next, changed, err := passes.ResolveDefiniteMemberExpressions.Run(arb, nil)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, arb, next)
}

func TestPassMatchFilterComposesWithCaller(t *testing.T) {
	arb, err := arborist.New("1 + 2; 3 + 4;")
	require.NoError(t, err)

	first := true
	filter := func(ast.Node) bool {
		keep := first
		first = false
		return keep
	}
	candidates := passes.ResolveDefiniteBinaryExpressions.PassMatch(arb, filter)
	assert.Len(t, candidates, 1)
}
