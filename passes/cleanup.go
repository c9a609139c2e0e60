package passes

import (
	"github.com/t14raptor/deobfuscate/arborist"
	"github.com/t14raptor/deobfuscate/ast"
	"github.com/t14raptor/deobfuscate/sandbox"
)

// Cleanup is the dead-code pass spec.md §4.7 step 3 runs to fixpoint
// after the main loop stabilizes, when the caller opted in. It removes
// statements that follow an unconditional control-transfer within the
// same block (unreachable code) and `var`/`let`/`const` declarators
// whose binding is never referenced and whose initializer, if any, is
// side-effect free.
var Cleanup = Pass{
	Name: "cleanup",
	Safe: true,
	match: func(arb *arborist.Arborist) []ast.Node {
		var out []ast.Node
		out = append(out, unreachableStatements(arb)...)
		out = append(out, unusedDeclarators(arb)...)
		return out
	},
	transform: func(arb *arborist.Arborist, n ast.Node, sb *sandbox.Sandbox) bool {
		switch n := n.(type) {
		case *ast.VariableDeclarator:
			// MarkNode's nil-replacement always removes the nearest
			// enclosing Stmt, which for a VariableDeclarator is the whole
			// VariableDeclaration — too coarse when other declarators in
			// the same statement are still used. Rebuild the declaration
			// with just this declarator dropped instead; a declaration
			// left with zero declarators is removed outright.
			decl, ok := arb.Parent(n).(*ast.VariableDeclaration)
			if !ok {
				return false
			}
			var kept []*ast.VariableDeclarator
			for _, d := range decl.Declarations {
				if d != n {
					kept = append(kept, d)
				}
			}
			if len(kept) == 0 {
				arb.MarkNode(decl, nil)
			} else {
				arb.MarkNode(decl, &ast.VariableDeclaration{Span: decl.Span, DKind: decl.DKind, Declarations: kept})
			}
		case ast.Stmt:
			arb.MarkNode(n, nil)
		default:
			return false
		}
		return true
	},
}

func unreachableStatements(arb *arborist.Arborist) []ast.Node {
	var out []ast.Node
	visit := func(body []ast.Stmt) {
		terminated := false
		for _, s := range body {
			if terminated {
				out = append(out, s)
				continue
			}
			if isTerminating(s) {
				terminated = true
			}
		}
	}
	for _, n := range arb.TypeMap(ast.KindBlockStatement) {
		visit(n.(*ast.BlockStatement).Body)
	}
	visit(arb.Program.Body)
	return out
}

func isTerminating(s ast.Stmt) bool {
	switch s.(type) {
	case *ast.ReturnStatement, *ast.ThrowStatement, *ast.BreakStatement, *ast.ContinueStatement:
		return true
	}
	return false
}

func unusedDeclarators(arb *arborist.Arborist) []ast.Node {
	var out []ast.Node
	for _, n := range arb.TypeMap(ast.KindVariableDeclarator) {
		d := n.(*ast.VariableDeclarator)
		id, ok := d.Id.(*ast.Identifier)
		if !ok || len(id.References) > 0 {
			continue
		}
		if d.Init != nil && !isPureLiteralSubtree(d.Init) {
			continue
		}
		out = append(out, d)
	}
	return out
}
