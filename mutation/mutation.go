// Package mutation implements the reference-mutation analyzer of
// spec.md §2/§8: given a declaring Identifier, decide whether any
// reference to it is ever mutated — a direct write, a delete, a mutating
// method call, a destructuring target, a loop target, or a property
// assignment through it. resolveLocalCalls (spec.md §4.6) consults this
// before inlining a function's call sites, the testable property in
// spec.md §8 it exists to satisfy.
package mutation

import (
	"github.com/t14raptor/deobfuscate/arborist"
	"github.com/t14raptor/deobfuscate/ast"
)

var mutatingProperties = map[string]bool{
	"push": true, "pop": true, "shift": true, "unshift": true, "splice": true,
	"sort": true, "reverse": true, "fill": true, "copyWithin": true,
	"forEach": true, "insert": true, "add": true, "set": true, "delete": true,
}

// IsMutated reports whether decl (a declaring Identifier) or any of its
// References is ever written to, deleted, passed through a mutating
// method call, used as a destructuring or loop target, or used as the
// object of a property assignment.
func IsMutated(arb *arborist.Arborist, decl *ast.Identifier) bool {
	all := append([]*ast.Identifier{decl}, decl.References...)
	for _, ref := range all {
		if refIsMutated(arb, ref) {
			return true
		}
	}
	return false
}

func refIsMutated(arb *arborist.Arborist, ref *ast.Identifier) bool {
	parent := arb.Parent(ref)
	if parent == nil {
		return false
	}
	switch p := parent.(type) {
	case *ast.AssignmentExpression:
		return containsTarget(p.Left, ref)
	case *ast.UpdateExpression:
		return p.Operand == ast.Expr(ref)
	case *ast.UnaryExpression:
		return p.Operator == "delete" && exprMentions(p.Operand, ref)
	case *ast.ForInStatement:
		return forLeftIsRef(p.Left, ref)
	case *ast.ForOfStatement:
		return forLeftIsRef(p.Left, ref)
	case *ast.VariableDeclarator:
		return containsTarget(p.Id, ref) && p.Id != ast.Expr(ref)
	case *ast.ArrayExpression, *ast.ObjectExpression, *ast.SpreadElement:
		// Part of a destructuring pattern; check whether the pattern's
		// root sits in binding position rather than expression position.
		return isDestructuringTarget(arb, parent)
	case *ast.MemberExpression:
		if p.Object == ast.Expr(ref) {
			if grandparent := arb.Parent(p); grandparent != nil {
				if assign, ok := grandparent.(*ast.AssignmentExpression); ok && assign.Left == ast.Expr(p) {
					return true
				}
				if call, ok := grandparent.(*ast.CallExpression); ok && call.Callee == ast.Expr(p) {
					if name, ok := propertyName(p.Property); ok && mutatingProperties[name] {
						return true
					}
				}
			}
		}
	}
	return false
}

func propertyName(e ast.Expr) (string, bool) {
	if id, ok := e.(*ast.Identifier); ok {
		return id.Name, true
	}
	if lit, ok := e.(*ast.Literal); ok && lit.LKind == ast.LitString {
		return lit.Str, true
	}
	return "", false
}

func containsTarget(target ast.Expr, ref *ast.Identifier) bool {
	switch t := target.(type) {
	case *ast.Identifier:
		return t == ref
	case *ast.ArrayExpression:
		for _, e := range t.Elements {
			if e != nil && containsTarget(e, ref) {
				return true
			}
		}
	case *ast.ObjectExpression:
		for _, p := range t.Properties {
			if containsTarget(p.Value, ref) {
				return true
			}
		}
	case *ast.SpreadElement:
		return containsTarget(t.Argument, ref)
	case *ast.AssignmentExpression:
		return containsTarget(t.Left, ref)
	}
	return false
}

func exprMentions(e ast.Expr, ref *ast.Identifier) bool {
	found := false
	ast.Walk(e, func(n ast.Node) bool {
		if n == ast.Node(ref) {
			found = true
		}
		return !found
	})
	return found
}

func forLeftIsRef(left ast.Node, ref *ast.Identifier) bool {
	if id, ok := left.(*ast.Identifier); ok {
		return id == ref
	}
	return false
}

func isDestructuringTarget(arb *arborist.Arborist, pattern ast.Node) bool {
	cur := pattern
	for cur != nil {
		parent := arb.Parent(cur)
		if parent == nil {
			return false
		}
		if decl, ok := parent.(*ast.VariableDeclarator); ok {
			return ast.Node(decl.Id) == cur
		}
		if assign, ok := parent.(*ast.AssignmentExpression); ok {
			return ast.Node(assign.Left) == cur
		}
		cur = parent
	}
	return false
}
