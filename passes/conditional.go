package passes

import (
	"github.com/t14raptor/deobfuscate/arborist"
	"github.com/t14raptor/deobfuscate/ast"
	"github.com/t14raptor/deobfuscate/sandbox"
)

// ResolveDeterministicConditionalExpressions folds `cond ? a : b` down to
// whichever branch a literal-reducible cond selects, without touching
// the branch itself — the branches may be arbitrarily side-effecting.
var ResolveDeterministicConditionalExpressions = Pass{
	Name: "resolveDeterministicConditionalExpressions",
	match: func(arb *arborist.Arborist) []ast.Node {
		var out []ast.Node
		for _, n := range arb.TypeMap(ast.KindConditionalExpression) {
			c := n.(*ast.ConditionalExpression)
			if isPureLiteralSubtree(c.Test) {
				out = append(out, c)
			}
		}
		return out
	},
	transform: func(arb *arborist.Arborist, n ast.Node, sb *sandbox.Sandbox) bool {
		c := n.(*ast.ConditionalExpression)
		result, ok := evalExpr(sb, c.Test)
		if !ok {
			return false
		}
		truthy, ok := truthiness(result)
		if !ok {
			return false
		}
		if truthy {
			arb.MarkNode(c, c.Consequent)
		} else {
			arb.MarkNode(c, c.Alternate)
		}
		return true
	},
}

func truthiness(e ast.Expr) (bool, bool) {
	switch e := e.(type) {
	case *ast.Literal:
		switch e.LKind {
		case ast.LitBoolean:
			return e.Bool, true
		case ast.LitNumber:
			return e.Num != 0, true
		case ast.LitString:
			return e.Str != "", true
		case ast.LitNull:
			return false, true
		}
	case *ast.Identifier:
		switch e.Name {
		case "undefined":
			return false, true
		case "NaN":
			return false, true
		case "Infinity":
			return true, true
		}
	case *ast.ArrayExpression, *ast.ObjectExpression:
		return true, true
	}
	return false, false
}
