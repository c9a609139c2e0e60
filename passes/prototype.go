package passes

import (
	"github.com/t14raptor/deobfuscate/arborist"
	"github.com/t14raptor/deobfuscate/ast"
	"github.com/t14raptor/deobfuscate/generator"
	"github.com/t14raptor/deobfuscate/sandbox"
)

var builtinPrototypes = map[string]bool{
	"String": true, "Array": true, "Number": true, "Object": true, "Function": true,
}

// ResolveInjectedPrototypeMethodCalls handles the idiom where the
// program installs a method on a builtin prototype
// (`String.prototype.X = function(){...}`) and later calls
// `"literal".X()`; the method body is evaluated against the literal
// receiver and the call is replaced with its result.
var ResolveInjectedPrototypeMethodCalls = Pass{
	Name: "resolveInjectedPrototypeMethodCalls",
	match: func(arb *arborist.Arborist) []ast.Node {
		injections := prototypeInjections(arb)
		if len(injections) == 0 {
			return nil
		}
		var out []ast.Node
		for _, n := range arb.TypeMap(ast.KindCallExpression) {
			c := n.(*ast.CallExpression)
			m, ok := c.Callee.(*ast.MemberExpression)
			if !ok || m.Computed {
				continue
			}
			lit, ok := m.Object.(*ast.Literal)
			if !ok {
				continue
			}
			name, ok := m.Property.(*ast.Identifier)
			if !ok {
				continue
			}
			ctor := prototypeCtorFor(lit)
			if _, ok := injections[ctor+"."+name.Name]; !ok {
				continue
			}
			if allPureLiteralSubtrees(c.Arguments) {
				out = append(out, c)
			}
		}
		return out
	},
	transform: func(arb *arborist.Arborist, n ast.Node, sb *sandbox.Sandbox) bool {
		c := n.(*ast.CallExpression)
		m := c.Callee.(*ast.MemberExpression)
		lit := m.Object.(*ast.Literal)
		name := m.Property.(*ast.Identifier)
		ctor := prototypeCtorFor(lit)

		injections := prototypeInjections(arb)
		fn, ok := injections[ctor+"."+name.Name]
		if !ok {
			return false
		}

		src := ctor + ".prototype." + name.Name + " = " + generator.PrintExpr(fn) + ";\n"
		src += generator.PrintExpr(c) + ";"
		result, ok := sb.Eval(src, sandbox.DefaultTimeout)
		if !ok {
			return false
		}
		arb.MarkNode(c, result)
		return true
	},
}

// prototypeInjections finds every `Ctor.prototype.name = function...`
// assignment, at any depth, and returns them keyed by "Ctor.name".
func prototypeInjections(arb *arborist.Arborist) map[string]*ast.FunctionExpression {
	out := map[string]*ast.FunctionExpression{}
	for _, n := range arb.TypeMap(ast.KindAssignmentExpression) {
		a := n.(*ast.AssignmentExpression)
		if a.Operator != "=" {
			continue
		}
		outer, ok := a.Left.(*ast.MemberExpression)
		if ok && !outer.Computed {
			if name, ok := outer.Property.(*ast.Identifier); ok {
				inner, ok := outer.Object.(*ast.MemberExpression)
				if ok && !inner.Computed {
					if protoProp, ok := inner.Property.(*ast.Identifier); ok && protoProp.Name == "prototype" {
						ctor, ok := inner.Object.(*ast.Identifier)
						if ok && builtinPrototypes[ctor.Name] {
							if fn, ok := a.Right.(*ast.FunctionExpression); ok {
								out[ctor.Name+"."+name.Name] = fn
							}
						}
					}
				}
			}
		}
	}
	return out
}

func allPureLiteralSubtrees(args []ast.Expr) bool {
	for _, a := range args {
		if !isPureLiteralSubtree(a) {
			return false
		}
	}
	return true
}

func prototypeCtorFor(lit *ast.Literal) string {
	switch lit.LKind {
	case ast.LitString:
		return "String"
	case ast.LitNumber:
		return "Number"
	}
	return ""
}
