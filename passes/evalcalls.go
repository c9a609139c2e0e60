package passes

import (
	"github.com/t14raptor/deobfuscate/arborist"
	"github.com/t14raptor/deobfuscate/ast"
	"github.com/t14raptor/deobfuscate/parser"
	"github.com/t14raptor/deobfuscate/sandbox"
)

// ResolveEvalCallsOnNonLiterals evaluates `eval(expr)` where expr itself
// reduces to a literal (usually a string built up from literal pieces),
// then replaces the whole call with the expression eval's argument
// string parses to as source — not with eval's return value, which for
// a source string is the string itself.
var ResolveEvalCallsOnNonLiterals = Pass{
	Name: "resolveEvalCallsOnNonLiterals",
	match: func(arb *arborist.Arborist) []ast.Node {
		var out []ast.Node
		for _, n := range arb.TypeMap(ast.KindCallExpression) {
			c := n.(*ast.CallExpression)
			id, ok := c.Callee.(*ast.Identifier)
			if !ok || id.Name != "eval" || id.DeclNode != nil {
				continue
			}
			if len(c.Arguments) != 1 {
				continue
			}
			if isPureLiteralSubtree(c.Arguments[0]) {
				out = append(out, c)
			}
		}
		return out
	},
	transform: func(arb *arborist.Arborist, n ast.Node, sb *sandbox.Sandbox) bool {
		c := n.(*ast.CallExpression)
		argResult, ok := evalExpr(sb, c.Arguments[0])
		if !ok {
			return false
		}
		lit, ok := argResult.(*ast.Literal)
		if !ok || lit.LKind != ast.LitString {
			return false
		}
		prog, err := parser.Parse(lit.Str)
		if err != nil || len(prog.Body) != 1 {
			return false
		}
		exprStmt, ok := prog.Body[0].(*ast.ExpressionStatement)
		if !ok {
			return false
		}
		arb.MarkNode(c, exprStmt.Expression)
		return true
	},
}
