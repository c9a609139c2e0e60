package sandbox_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/t14raptor/deobfuscate/ast"
	"github.com/t14raptor/deobfuscate/sandbox"
)

func TestEvalLiteralizesPrimitives(t *testing.T) {
	sb := sandbox.New()

	result, ok := sb.Eval("1 + 2", 0)
	require.True(t, ok)
	lit := result.(*ast.Literal)
	assert.Equal(t, ast.LitNumber, lit.LKind)
	assert.Equal(t, 3.0, lit.Num)

	result, ok = sb.Eval("'a' + 'b'", 0)
	require.True(t, ok)
	lit = result.(*ast.Literal)
	assert.Equal(t, "ab", lit.Str)

	result, ok = sb.Eval("null", 0)
	require.True(t, ok)
	lit = result.(*ast.Literal)
	assert.Equal(t, "null", lit.Raw)

	result, ok = sb.Eval("undefined", 0)
	require.True(t, ok)
	id := result.(*ast.Identifier)
	assert.Equal(t, "undefined", id.Name)
}

func TestEvalNegativeNumberKeepsUnaryForm(t *testing.T) {
	sb := sandbox.New()
	result, ok := sb.Eval("3 - 5", 0)
	require.True(t, ok)
	u := result.(*ast.UnaryExpression)
	assert.Equal(t, "-", u.Operator)
}

func TestEvalRunsTimeExceededAsBadValue(t *testing.T) {
	sb := sandbox.New()
	_, ok := sb.Eval("while(true){}", 1)
	assert.False(t, ok)
}

func TestEvalHasNoHostGlobalsBeyondAllowlist(t *testing.T) {
	sb := sandbox.New()
	_, ok := sb.Eval("require('fs')", 0)
	assert.False(t, ok)
	_, ok = sb.Eval("process.exit(1)", 0)
	assert.False(t, ok)
}

func TestAtobBtoaRoundTrip(t *testing.T) {
	sb := sandbox.New()
	result, ok := sb.Eval("atob(btoa('hello'))", 0)
	require.True(t, ok)
	lit := result.(*ast.Literal)
	assert.Equal(t, "hello", lit.Str)
}
