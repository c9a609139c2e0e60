package passes

import (
	"github.com/t14raptor/deobfuscate/arborist"
	"github.com/t14raptor/deobfuscate/ast"
	"github.com/t14raptor/deobfuscate/sandbox"
)

// ResolveMinimalAlphabet folds the unary/array "alphabet" idiom
// JSFuck-style obfuscators build every literal from: `+[]` -> 0,
// `![]` -> false, `+!+[]` -> 1, `[]+[]` -> ''. Implemented as generic
// UnaryExpression/BinaryExpression folding over literal-only operands
// with the sandbox as oracle, rejecting anything whose operand isn't
// already provably free of identity-sensitive values (`this`, host
// objects) via isPureLiteralSubtree.
var ResolveMinimalAlphabet = Pass{
	Name: "resolveMinimalAlphabet",
	match: func(arb *arborist.Arborist) []ast.Node {
		var out []ast.Node
		for _, n := range arb.TypeMap(ast.KindUnaryExpression) {
			u := n.(*ast.UnaryExpression)
			switch u.Operator {
			case "+", "-", "~":
				if isPureLiteralSubtree(u.Operand) {
					out = append(out, u)
				}
			}
		}
		for _, n := range arb.TypeMap(ast.KindBinaryExpression) {
			b := n.(*ast.BinaryExpression)
			if b.Operator == "+" && isPureLiteralSubtree(b.Left) && isPureLiteralSubtree(b.Right) {
				if isArrayish(b.Left) || isArrayish(b.Right) {
					out = append(out, b)
				}
			}
		}
		return out
	},
	transform: func(arb *arborist.Arborist, n ast.Node, sb *sandbox.Sandbox) bool {
		e := n.(ast.Expr)
		result, ok := evalExpr(sb, e)
		if !ok {
			return false
		}
		arb.MarkNode(n, result)
		return true
	},
}

func isArrayish(e ast.Expr) bool {
	switch e := e.(type) {
	case *ast.ArrayExpression:
		return true
	case *ast.UnaryExpression:
		return isArrayish(e.Operand)
	}
	return false
}
