package arborist_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/t14raptor/deobfuscate/arborist"
	"github.com/t14raptor/deobfuscate/ast"
	"github.com/t14raptor/deobfuscate/generator"
)

func TestApplyChangesCommitsReplacement(t *testing.T) {
	arb, err := arborist.New("var x = 1 + 2;")
	require.NoError(t, err)

	var target *ast.BinaryExpression
	for _, n := range arb.TypeMap(ast.KindBinaryExpression) {
		target = n.(*ast.BinaryExpression)
	}
	require.NotNil(t, target)

	arb.MarkNode(target, &ast.Literal{LKind: ast.LitNumber, Num: 3, Raw: "3"})
	next, err := arb.ApplyChanges()
	require.NoError(t, err)
	assert.Equal(t, "var x = 3;", next.Script())
}

func TestApplyChangesLeavesPreviousGenerationValidOnReparseFailure(t *testing.T) {
	arb, err := arborist.New("var x = 1;")
	require.NoError(t, err)
	before := arb.Script()

	var decl *ast.Identifier
	for _, n := range arb.TypeMap(ast.KindIdentifier) {
		decl = n.(*ast.Identifier)
		break
	}
	require.NotNil(t, decl)

	// Force an unparseable replacement: an Identifier whose Name is not
	// valid source text on its own once printed in this position.
	arb.MarkNode(decl, &ast.Identifier{Name: "1invalid"})
	_, err = arb.ApplyChanges()
	require.Error(t, err)
	assert.True(t, errors.Is(err, arborist.ErrParseAfterRewrite))

	// The receiver's own generation must be untouched.
	assert.Equal(t, before, arb.Script())
}

func TestMarkNodeRemovesEnclosingStatementWhenReplacementNil(t *testing.T) {
	arb, err := arborist.New("a(); b();")
	require.NoError(t, err)

	var call *ast.CallExpression
	for _, n := range arb.TypeMap(ast.KindCallExpression) {
		c := n.(*ast.CallExpression)
		if id, ok := c.Callee.(*ast.Identifier); ok && id.Name == "a" {
			call = c
		}
	}
	require.NotNil(t, call)

	arb.MarkNode(call, nil)
	next, err := arb.ApplyChanges()
	require.NoError(t, err)
	assert.Equal(t, "b();", generator.Print(next.Program))
}
