package passes

import (
	"github.com/t14raptor/deobfuscate/arborist"
	"github.com/t14raptor/deobfuscate/ast"
	"github.com/t14raptor/deobfuscate/sandbox"
)

// ResolveFunctionToArray replaces a call to a function whose entire body
// is `return <ArrayExpression>` with the array literal itself — the
// degenerate "array factory" idiom obfuscators use to indirect a string
// table behind a call.
var ResolveFunctionToArray = Pass{
	Name: "resolveFunctionToArray",
	match: func(arb *arborist.Arborist) []ast.Node {
		var out []ast.Node
		for _, n := range arb.TypeMap(ast.KindCallExpression) {
			c := n.(*ast.CallExpression)
			if len(c.Arguments) != 0 {
				continue
			}
			if _, ok := arrayReturningFunction(arb, c.Callee); ok {
				out = append(out, c)
			}
		}
		return out
	},
	transform: func(arb *arborist.Arborist, n ast.Node, sb *sandbox.Sandbox) bool {
		c := n.(*ast.CallExpression)
		body, ok := arrayReturningFunction(arb, c.Callee)
		if !ok {
			return false
		}
		ret := body.Body[0].(*ast.ReturnStatement)
		arb.MarkNode(c, ret.Argument)
		return true
	},
}

// arrayReturningFunction reports whether callee is a plain identifier
// bound to a function (declaration or expression) whose body is exactly
// one statement, `return <ArrayExpression>`, returning that body.
func arrayReturningFunction(arb *arborist.Arborist, callee ast.Expr) (*ast.BlockStatement, bool) {
	id, ok := callee.(*ast.Identifier)
	if !ok || id.DeclNode == nil {
		return nil, false
	}
	var body *ast.BlockStatement
	switch parent := arb.Parent(id.DeclNode).(type) {
	case *ast.VariableDeclarator:
		fn, ok := parent.Init.(*ast.FunctionExpression)
		if !ok {
			return nil, false
		}
		body = fn.Body
	case *ast.FunctionDeclaration:
		body = parent.Body
	default:
		return nil, false
	}
	if len(body.Body) != 1 {
		return nil, false
	}
	ret, ok := body.Body[0].(*ast.ReturnStatement)
	if !ok || ret.Argument == nil {
		return nil, false
	}
	if _, isArray := ret.Argument.(*ast.ArrayExpression); !isArray {
		return nil, false
	}
	return body, true
}
