package passes

import (
	"unicode"
	"unicode/utf8"

	"github.com/t14raptor/deobfuscate/arborist"
	"github.com/t14raptor/deobfuscate/ast"
	"github.com/t14raptor/deobfuscate/sandbox"
	"github.com/t14raptor/deobfuscate/token"
)

// NormalizeComputedMemberToDot rewrites `obj["key"]` to `obj.key` whenever
// key is a string literal that also reads as a valid, non-reserved
// identifier. Purely syntactic; never touches the sandbox.
var NormalizeComputedMemberToDot = Pass{
	Name: "normalizeComputedMemberToDot",
	Safe: true,
	match: func(arb *arborist.Arborist) []ast.Node {
		var out []ast.Node
		for _, n := range arb.TypeMap(ast.KindMemberExpression) {
			m := n.(*ast.MemberExpression)
			if !m.Computed {
				continue
			}
			lit, ok := m.Property.(*ast.Literal)
			if !ok || lit.LKind != ast.LitString {
				continue
			}
			if isDottableIdentifier(lit.Str) {
				out = append(out, m)
			}
		}
		return out
	},
	transform: func(arb *arborist.Arborist, n ast.Node, sb *sandbox.Sandbox) bool {
		m := n.(*ast.MemberExpression)
		lit := m.Property.(*ast.Literal)
		replacement := &ast.MemberExpression{
			Span:     m.Span,
			Object:   m.Object,
			Property: &ast.Identifier{Name: lit.Str},
			Computed: false,
			Optional: m.Optional,
		}
		arb.MarkNode(m, replacement)
		return true
	},
}

func isDottableIdentifier(s string) bool {
	if s == "" {
		return false
	}
	if _, isKeyword := token.Keyword(s); isKeyword {
		return false
	}
	for i, r := range s {
		if r == utf8.RuneError {
			return false
		}
		if i == 0 {
			if !unicode.IsLetter(r) && r != '_' && r != '$' {
				return false
			}
			continue
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '$' {
			return false
		}
	}
	return true
}

// FoldEmptyStatements removes stray `;` statements from statement lists,
// the "constant-folding of empty statements" example spec.md §4.6 names.
var FoldEmptyStatements = Pass{
	Name: "foldEmptyStatements",
	Safe: true,
	match: func(arb *arborist.Arborist) []ast.Node {
		var out []ast.Node
		for _, n := range arb.TypeMap(ast.KindEmptyStatement) {
			if _, insideBlock := blockContaining(arb, n); insideBlock {
				out = append(out, n)
			}
		}
		return out
	},
	transform: func(arb *arborist.Arborist, n ast.Node, sb *sandbox.Sandbox) bool {
		arb.MarkNode(n, nil)
		return true
	},
}

func blockContaining(arb *arborist.Arborist, n ast.Node) (ast.Node, bool) {
	parent := arb.Parent(n)
	switch parent.(type) {
	case *ast.BlockStatement, *ast.Program, *ast.SwitchCase:
		return parent, true
	}
	return nil, false
}
