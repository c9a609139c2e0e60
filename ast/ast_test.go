package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/t14raptor/deobfuscate/ast"
)

func TestCloneProducesDistinctValuesWithSameShape(t *testing.T) {
	prog := &ast.Program{Body: []ast.Stmt{
		&ast.ExpressionStatement{Expression: &ast.BinaryExpression{
			Operator: "+",
			Left:     &ast.Literal{LKind: ast.LitNumber, Num: 1, Raw: "1"},
			Right:    &ast.Literal{LKind: ast.LitNumber, Num: 2, Raw: "2"},
		}},
	}}
	clone := ast.Clone(prog).(*ast.Program)
	require.NotSame(t, prog, clone)

	origExpr := prog.Body[0].(*ast.ExpressionStatement).Expression.(*ast.BinaryExpression)
	cloneExpr := clone.Body[0].(*ast.ExpressionStatement).Expression.(*ast.BinaryExpression)
	assert.NotSame(t, origExpr, cloneExpr)
	assert.NotSame(t, origExpr.Left, cloneExpr.Left)
	assert.Equal(t, origExpr.Operator, cloneExpr.Operator)
}

func TestWalkVisitsEveryNode(t *testing.T) {
	prog := &ast.Program{Body: []ast.Stmt{
		&ast.ExpressionStatement{Expression: &ast.CallExpression{
			Callee:    &ast.Identifier{Name: "f"},
			Arguments: []ast.Expr{&ast.Literal{LKind: ast.LitNumber, Num: 1}},
		}},
	}}
	var kinds []ast.Kind
	ast.Walk(prog, func(n ast.Node) bool {
		kinds = append(kinds, n.Kind())
		return true
	})
	assert.Contains(t, kinds, ast.KindCallExpression)
	assert.Contains(t, kinds, ast.KindIdentifier)
	assert.Contains(t, kinds, ast.KindLiteral)
}

func TestReplaceChildInStatementList(t *testing.T) {
	a := &ast.ExpressionStatement{Expression: &ast.Identifier{Name: "a"}}
	b := &ast.ExpressionStatement{Expression: &ast.Identifier{Name: "b"}}
	prog := &ast.Program{Body: []ast.Stmt{a, b}}

	ok := ast.ReplaceChild(prog, a, nil)
	assert.True(t, ok)
	assert.Len(t, prog.Body, 1)
	assert.Same(t, b, prog.Body[0])
}

func TestReplaceChildSubstitutesExpression(t *testing.T) {
	lit := &ast.Literal{LKind: ast.LitNumber, Num: 1}
	bin := &ast.BinaryExpression{Operator: "+", Left: lit, Right: &ast.Literal{LKind: ast.LitNumber, Num: 2}}
	replacement := &ast.Literal{LKind: ast.LitNumber, Num: 3}

	ok := ast.ReplaceChild(bin, lit, replacement)
	assert.True(t, ok)
	assert.Same(t, replacement, bin.Left)
}
