package passes

import (
	"github.com/t14raptor/deobfuscate/arborist"
	"github.com/t14raptor/deobfuscate/ast"
	"github.com/t14raptor/deobfuscate/sandbox"
)

// NormalizeRedundantNotOperator folds `!expr` where expr is
// literal-reducible (Literal, Array, Object, or nested Unary) per the
// §4.3.1 literalisation table. A numeric negative result keeps its
// `UnaryExpression('-', …)` shape rather than becoming a raw negative
// number literal, matching how literalizeNumber already represents it.
var NormalizeRedundantNotOperator = Pass{
	Name: "normalizeRedundantNotOperator",
	match: func(arb *arborist.Arborist) []ast.Node {
		var out []ast.Node
		for _, n := range arb.TypeMap(ast.KindUnaryExpression) {
			u := n.(*ast.UnaryExpression)
			if u.Operator != "!" {
				continue
			}
			if isNotFoldable(u.Operand) {
				out = append(out, u)
			}
		}
		return out
	},
	transform: func(arb *arborist.Arborist, n ast.Node, sb *sandbox.Sandbox) bool {
		u := n.(*ast.UnaryExpression)
		result, ok := evalExpr(sb, u)
		if !ok {
			return false
		}
		arb.MarkNode(u, result)
		return true
	},
}

func isNotFoldable(e ast.Expr) bool {
	switch e := e.(type) {
	case *ast.Literal, *ast.ArrayExpression, *ast.ObjectExpression:
		return isPureLiteralSubtree(e)
	case *ast.UnaryExpression:
		return isNotFoldable(e.Operand)
	}
	return false
}
