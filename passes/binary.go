package passes

import (
	"github.com/t14raptor/deobfuscate/arborist"
	"github.com/t14raptor/deobfuscate/ast"
	"github.com/t14raptor/deobfuscate/sandbox"
)

// ResolveDefiniteBinaryExpressions evaluates a BinaryExpression whose
// operands are entirely literal-valued, replacing it with the resulting
// literal.
var ResolveDefiniteBinaryExpressions = Pass{
	Name: "resolveDefiniteBinaryExpressions",
	match: func(arb *arborist.Arborist) []ast.Node {
		var out []ast.Node
		for _, n := range arb.TypeMap(ast.KindBinaryExpression) {
			b := n.(*ast.BinaryExpression)
			if isPureLiteralSubtree(b.Left) && isPureLiteralSubtree(b.Right) {
				out = append(out, b)
			}
		}
		return out
	},
	transform: func(arb *arborist.Arborist, n ast.Node, sb *sandbox.Sandbox) bool {
		b := n.(*ast.BinaryExpression)
		result, ok := evalExpr(sb, b)
		if !ok {
			return false
		}
		arb.MarkNode(b, result)
		return true
	},
}
