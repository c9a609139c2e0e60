package generator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/t14raptor/deobfuscate/ast"
	"github.com/t14raptor/deobfuscate/generator"
)

func TestPrintExprAddsMinimalParensForPrecedence(t *testing.T) {
	// (1 + 2) * 3 needs parens around the left operand; 1 + 2 * 3
	// doesn't need any around the right.
	mul := &ast.BinaryExpression{
		Operator: "*",
		Left: &ast.BinaryExpression{
			Operator: "+",
			Left:     &ast.Literal{LKind: ast.LitNumber, Num: 1, Raw: "1"},
			Right:    &ast.Literal{LKind: ast.LitNumber, Num: 2, Raw: "2"},
		},
		Right: &ast.Literal{LKind: ast.LitNumber, Num: 3, Raw: "3"},
	}
	assert.Equal(t, "(1 + 2) * 3", generator.PrintExpr(mul))

	add := &ast.BinaryExpression{
		Operator: "+",
		Left:     &ast.Literal{LKind: ast.LitNumber, Num: 1, Raw: "1"},
		Right: &ast.BinaryExpression{
			Operator: "*",
			Left:     &ast.Literal{LKind: ast.LitNumber, Num: 2, Raw: "2"},
			Right:    &ast.Literal{LKind: ast.LitNumber, Num: 3, Raw: "3"},
		},
	}
	assert.Equal(t, "1 + 2 * 3", generator.PrintExpr(add))
}

func TestPrintExprRendersWholeFloatsAsIntegers(t *testing.T) {
	lit := &ast.Literal{LKind: ast.LitNumber, Num: 5}
	assert.Equal(t, "5", generator.PrintExpr(lit))
}

func TestPrintRendersBlockStatementIndented(t *testing.T) {
	prog := &ast.BlockStatement{Body: []ast.Stmt{
		&ast.ExpressionStatement{Expression: &ast.Identifier{Name: "a"}},
	}}
	out := generator.Print(prog)
	assert.Equal(t, "{\n  a;\n}", out)
}
