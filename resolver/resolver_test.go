package resolver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/t14raptor/deobfuscate/ast"
	"github.com/t14raptor/deobfuscate/parser"
	"github.com/t14raptor/deobfuscate/resolver"
)

func parse(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, err := parser.Parse(src)
	require.NoError(t, err)
	return prog
}

func TestResolveLinksReferenceToDeclaration(t *testing.T) {
	prog := parse(t, "var a = 1; a + 1;")
	resolver.Resolve(prog)

	decl := prog.Body[0].(*ast.VariableDeclaration).Declarations[0].Id.(*ast.Identifier)
	ref := prog.Body[1].(*ast.ExpressionStatement).Expression.(*ast.BinaryExpression).Left.(*ast.Identifier)

	assert.Same(t, decl, ref.DeclNode)
	assert.Contains(t, decl.References, ref)
}

func TestResolveHoistsVarAboveItsDeclaration(t *testing.T) {
	prog := parse(t, "a; var a = 1;")
	resolver.Resolve(prog)

	use := prog.Body[0].(*ast.ExpressionStatement).Expression.(*ast.Identifier)
	decl := prog.Body[1].(*ast.VariableDeclaration).Declarations[0].Id.(*ast.Identifier)

	assert.Same(t, decl, use.DeclNode)
}

func TestResolveHoistsFunctionDeclarationsAboveCallSites(t *testing.T) {
	prog := parse(t, "f(); function f() {}")
	resolver.Resolve(prog)

	call := prog.Body[0].(*ast.ExpressionStatement).Expression.(*ast.CallExpression)
	callee := call.Callee.(*ast.Identifier)
	fn := prog.Body[1].(*ast.FunctionDeclaration)

	assert.Same(t, fn.Name, callee.DeclNode)
}

func TestResolveGivesBlockScopedLetItsOwnBinding(t *testing.T) {
	prog := parse(t, "let a = 1; { let a = 2; a; }")
	resolver.Resolve(prog)

	outer := prog.Body[0].(*ast.VariableDeclaration).Declarations[0].Id.(*ast.Identifier)
	block := prog.Body[1].(*ast.BlockStatement)
	inner := block.Body[0].(*ast.VariableDeclaration).Declarations[0].Id.(*ast.Identifier)
	use := block.Body[1].(*ast.ExpressionStatement).Expression.(*ast.Identifier)

	assert.Same(t, inner, use.DeclNode)
	assert.NotSame(t, outer, use.DeclNode)
}

func TestResolveLeavesUndeclaredGlobalWithoutDeclNode(t *testing.T) {
	prog := parse(t, "undeclaredGlobal();")
	resolver.Resolve(prog)

	call := prog.Body[0].(*ast.ExpressionStatement).Expression.(*ast.CallExpression)
	callee := call.Callee.(*ast.Identifier)
	assert.Nil(t, callee.DeclNode)
}
