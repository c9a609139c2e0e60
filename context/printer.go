package context

import (
	"strconv"
	"strings"

	"golang.org/x/exp/slices"

	"github.com/t14raptor/deobfuscate/arborist"
	"github.com/t14raptor/deobfuscate/ast"
	"github.com/t14raptor/deobfuscate/generator"
)

// PrintOrdered implements spec.md §4.5: render an unordered node list as
// a single self-contained source fragment. preserveOrder disables the
// IIFE-relocation step, for callers that need strict textual order
// (the default CLI pipeline always passes false).
func PrintOrdered(arb *arborist.Arborist, nodes []ast.Node, preserveOrder bool) string {
	deduped := dedupeByID(arb, nodes)
	slices.SortStableFunc(deduped, func(a, b ast.Node) int {
		return int(a.Idx0()) - int(b.Idx0())
	})

	var regular, iifes []ast.Node
	for _, n := range deduped {
		if !preserveOrder && isTopLevelIIFE(n) {
			iifes = append(iifes, n)
		} else {
			regular = append(regular, n)
		}
	}
	ordered := append(regular, iifes...)

	var b strings.Builder
	for _, n := range ordered {
		printOne(arb, &b, n)
	}
	return b.String()
}

func dedupeByID(arb *arborist.Arborist, nodes []ast.Node) []ast.Node {
	seen := map[int]bool{}
	seenByIdentity := map[ast.Node]bool{}
	var out []ast.Node
	for _, n := range nodes {
		if n == nil || seenByIdentity[n] {
			continue
		}
		if id, ok := arb.NodeID(n); ok {
			if seen[id] {
				continue
			}
			seen[id] = true
		}
		seenByIdentity[n] = true
		out = append(out, n)
	}
	return out
}

// isTopLevelIIFE reports whether n is an immediately-invoked function
// expression, or one wrapped in a unary operator (`!function(){}()`,
// `~function(){}()`), the idiom spec.md §4.5 calls out for deferred
// relocation.
func isTopLevelIIFE(n ast.Node) bool {
	stmt, ok := n.(*ast.ExpressionStatement)
	if !ok {
		return false
	}
	e := stmt.Expression
	if u, ok := e.(*ast.UnaryExpression); ok {
		e = u.Operand
	}
	call, ok := e.(*ast.CallExpression)
	if !ok {
		return false
	}
	_, ok = call.Callee.(*ast.FunctionExpression)
	return ok
}

// printOne prints a single collected node, applying the per-node rules
// of spec.md §4.5: anonymous-IIFE naming, bare-call statement wrapping,
// and the trailing newline every emitted piece gets.
func printOne(arb *arborist.Arborist, b *strings.Builder, n ast.Node) {
	n = renameAnonymousIIFE(arb, n)

	switch n := n.(type) {
	case ast.Stmt:
		b.WriteString(generator.Print(n))
	case ast.Expr:
		// A bare expression collected directly (e.g. a CallExpression
		// pulled in as a mutation site) needs an ExpressionStatement
		// terminator to stand alone as a statement.
		b.WriteString(generator.PrintExpr(n))
		b.WriteString(";")
	case *ast.VariableDeclarator:
		// A declarator collected on its own is printed as a one-declarator
		// declaration of its parent declaration's kind.
		kind := ast.DeclVar
		if decl, ok := arb.Parent(n).(*ast.VariableDeclaration); ok {
			kind = decl.DKind
		}
		b.WriteString(generator.Print(&ast.VariableDeclaration{DKind: kind, Declarations: []*ast.VariableDeclarator{n}}))
	default:
		b.WriteString(generator.Print(n))
	}
	b.WriteString("\n")
}

// renameAnonymousIIFE gives an anonymous function expression a
// deterministic name, `func<nodeId>`, when the surrounding statement
// assigns it to a name or immediately invokes it — so the fragment
// printed in isolation can still be referenced by call sites collected
// alongside it.
func renameAnonymousIIFE(arb *arborist.Arborist, n ast.Node) ast.Node {
	fn, ok := findAnonymousCallee(n)
	if !ok || fn.Name != nil {
		return n
	}
	id, ok := arb.NodeID(fn)
	if !ok {
		return n
	}
	named := *fn
	named.Name = &ast.Identifier{Name: "func" + strconv.Itoa(id)}
	return replaceFunctionExpr(n, fn, &named)
}

func findAnonymousCallee(n ast.Node) (*ast.FunctionExpression, bool) {
	stmt, ok := n.(*ast.ExpressionStatement)
	if !ok {
		return nil, false
	}
	e := stmt.Expression
	if u, ok := e.(*ast.UnaryExpression); ok {
		e = u.Operand
	}
	if assign, ok := e.(*ast.AssignmentExpression); ok {
		e = assign.Right
	}
	if call, ok := e.(*ast.CallExpression); ok {
		if fn, ok := call.Callee.(*ast.FunctionExpression); ok {
			return fn, true
		}
	}
	if fn, ok := e.(*ast.FunctionExpression); ok {
		return fn, true
	}
	return nil, false
}

// replaceFunctionExpr rebuilds the minimal spine from n down to old so
// the naming above doesn't mutate the shared arborist tree in place;
// printOne only ever sees a throwaway copy.
func replaceFunctionExpr(n ast.Node, old, replacement *ast.FunctionExpression) ast.Node {
	switch n := n.(type) {
	case *ast.ExpressionStatement:
		cp := *n
		cp.Expression = replaceFunctionExprExpr(n.Expression, old, replacement)
		return &cp
	}
	return n
}

func replaceFunctionExprExpr(e ast.Expr, old, replacement *ast.FunctionExpression) ast.Expr {
	switch e := e.(type) {
	case *ast.UnaryExpression:
		cp := *e
		cp.Operand = replaceFunctionExprExpr(e.Operand, old, replacement)
		return &cp
	case *ast.AssignmentExpression:
		cp := *e
		cp.Right = replaceFunctionExprExpr(e.Right, old, replacement)
		return &cp
	case *ast.CallExpression:
		cp := *e
		if e.Callee == ast.Expr(old) {
			cp.Callee = replacement
		}
		return &cp
	case *ast.FunctionExpression:
		if e == old {
			return replacement
		}
	}
	return e
}
