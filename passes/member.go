package passes

import (
	"github.com/t14raptor/deobfuscate/arborist"
	"github.com/t14raptor/deobfuscate/ast"
	"github.com/t14raptor/deobfuscate/sandbox"
)

// ResolveDefiniteMemberExpressions folds `literal[index]` and
// `literal.length` (and any other property access) when the base is a
// literal array, string, or object expression and the result itself
// literalises cleanly. Skips update-expression targets, method-callee
// positions, empty bases, and anything that resolves to undefined —
// the last case covers out-of-bounds string/array indexing, which must
// be left unchanged rather than materialized as the identifier
// `undefined` (spec's open question on out-of-bounds indexing).
var ResolveDefiniteMemberExpressions = Pass{
	Name: "resolveDefiniteMemberExpressions",
	match: func(arb *arborist.Arborist) []ast.Node {
		var out []ast.Node
		for _, n := range arb.TypeMap(ast.KindMemberExpression) {
			m := n.(*ast.MemberExpression)
			if !isFoldableBase(m.Object) {
				continue
			}
			if m.Computed && !isPureLiteralSubtree(m.Property) {
				continue
			}
			if isEmptyBase(m.Object) {
				continue
			}
			if _, isUpdate := arb.Parent(m).(*ast.UpdateExpression); isUpdate {
				continue
			}
			if call, ok := arb.Parent(m).(*ast.CallExpression); ok && call.Callee == ast.Expr(m) {
				continue
			}
			if assign, ok := arb.Parent(m).(*ast.AssignmentExpression); ok && assign.Left == ast.Expr(m) {
				continue
			}
			out = append(out, m)
		}
		return out
	},
	transform: func(arb *arborist.Arborist, n ast.Node, sb *sandbox.Sandbox) bool {
		m := n.(*ast.MemberExpression)
		result, ok := evalExpr(sb, m)
		if !ok {
			return false
		}
		if id, isIdent := result.(*ast.Identifier); isIdent && id.Name == "undefined" {
			return false
		}
		arb.MarkNode(m, result)
		return true
	},
}

func isFoldableBase(e ast.Expr) bool {
	switch e := e.(type) {
	case *ast.Literal:
		return e.LKind == ast.LitString
	case *ast.ArrayExpression:
		return isPureLiteralSubtree(e)
	case *ast.ObjectExpression:
		return isPureLiteralSubtree(e)
	}
	return false
}

func isEmptyBase(e ast.Expr) bool {
	switch e := e.(type) {
	case *ast.Literal:
		return e.LKind == ast.LitString && e.Str == ""
	case *ast.ArrayExpression:
		return len(e.Elements) == 0
	case *ast.ObjectExpression:
		return len(e.Properties) == 0
	}
	return false
}
