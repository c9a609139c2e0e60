package passes

import (
	"github.com/t14raptor/deobfuscate/arborist"
	"github.com/t14raptor/deobfuscate/ast"
	"github.com/t14raptor/deobfuscate/sandbox"
)

// whitelistedBuiltins names the pure globals/methods resolveBuiltinCalls
// is allowed to fold calls to. Anything not named here is refused,
// regardless of how literal its arguments look.
var whitelistedBuiltins = map[string]bool{
	"atob": true, "btoa": true,
	"String.fromCharCode": true,
	"replace":             true,
	"split":               true,
	"slice":               true,
	"substring":           true,
	"substr":               true,
	"toUpperCase":         true,
	"toLowerCase":         true,
	"trim":                true,
	"charAt":              true,
	"charCodeAt":          true,
	"concat":              true,
	"indexOf":             true,
	"repeat":              true,
	"padStart":            true,
	"padEnd":              true,
}

// ResolveBuiltinCalls folds calls to a whitelisted set of pure globals
// and String.prototype methods when every argument, and the receiver
// where relevant, is a literal. Refuses when the callee name is
// shadowed in scope, the call has a `this` of unknown identity, a
// computed property uses a non-literal key, the callee is the
// `constructor` property, or any argument fails isPureLiteralSubtree.
var ResolveBuiltinCalls = Pass{
	Name: "resolveBuiltinCalls",
	match: func(arb *arborist.Arborist) []ast.Node {
		var out []ast.Node
		for _, n := range arb.TypeMap(ast.KindCallExpression) {
			c := n.(*ast.CallExpression)
			if !isBuiltinCallCandidate(arb, c) {
				continue
			}
			out = append(out, c)
		}
		return out
	},
	transform: func(arb *arborist.Arborist, n ast.Node, sb *sandbox.Sandbox) bool {
		c := n.(*ast.CallExpression)
		result, ok := evalExpr(sb, c)
		if !ok {
			return false
		}
		arb.MarkNode(c, result)
		return true
	},
}

func isBuiltinCallCandidate(arb *arborist.Arborist, c *ast.CallExpression) bool {
	name, receiver, ok := builtinCalleeName(c.Callee)
	if !ok || !whitelistedBuiltins[name] {
		return false
	}
	if name == "constructor" {
		return false
	}
	if receiver != nil {
		if !isPureLiteralSubtree(receiver) {
			return false
		}
	} else {
		head := c.Callee
		if m, isMember := head.(*ast.MemberExpression); isMember {
			head = m.Object
		}
		if id, isIdent := head.(*ast.Identifier); isIdent && id.DeclNode != nil {
			return false // shadowed by a local declaration
		}
	}
	for _, a := range c.Arguments {
		if !isPureLiteralSubtree(a) {
			return false
		}
	}
	return true
}

// builtinCalleeName extracts the dotted method/global name from a call
// callee, plus the receiver expression for a method call (nil for a
// bare global call).
func builtinCalleeName(callee ast.Expr) (name string, receiver ast.Expr, ok bool) {
	switch c := callee.(type) {
	case *ast.Identifier:
		return c.Name, nil, true
	case *ast.MemberExpression:
		if c.Computed {
			return "", nil, false
		}
		prop, isIdent := c.Property.(*ast.Identifier)
		if !isIdent {
			return "", nil, false
		}
		if obj, isIdent := c.Object.(*ast.Identifier); isIdent {
			return obj.Name + "." + prop.Name, nil, true
		}
		return prop.Name, c.Object, true
	}
	return "", nil, false
}
