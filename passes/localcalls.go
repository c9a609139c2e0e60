package passes

import (
	"golang.org/x/exp/slices"

	"github.com/t14raptor/deobfuscate/arborist"
	"github.com/t14raptor/deobfuscate/ast"
	"github.com/t14raptor/deobfuscate/cache"
	"github.com/t14raptor/deobfuscate/context"
	"github.com/t14raptor/deobfuscate/generator"
	"github.com/t14raptor/deobfuscate/mutation"
	"github.com/t14raptor/deobfuscate/sandbox"
)

// NewResolveLocalCalls builds resolveLocalCalls bound to a shared
// context.Collector (and, through it, the process-wide fingerprint
// cache): for each CallExpression whose callee resolves to a local
// declaration, collect contextOf(declaration.parent), concatenate its
// ordered source with the call's own source, and sandbox-evaluate the
// whole fragment. A callee whose binding is ever mutated after
// declaration (mutation.IsMutated) is refused, since inlining it would
// no longer be behaviorally equivalent to calling through the binding.
// Candidates are sorted by callee-name frequency descending so
// high-leverage rewrites land first, and a rewritten range is
// remembered for the remainder of one Run so later candidates whose
// call sits inside it are skipped.
func NewResolveLocalCalls(collector *context.Collector) Pass {
	var rewrittenRanges []span

	return Pass{
		Name: "resolveLocalCalls",
		match: func(arb *arborist.Arborist) []ast.Node {
			rewrittenRanges = nil
			var candidates []*ast.CallExpression
			for _, n := range arb.TypeMap(ast.KindCallExpression) {
				c := n.(*ast.CallExpression)
				if localCallable(c) {
					candidates = append(candidates, c)
				}
			}
			freq := calleeFrequency(candidates)
			slices.SortStableFunc(candidates, func(a, b *ast.CallExpression) int {
				na := calleeName(a.Callee)
				nb := calleeName(b.Callee)
				if freq[na] != freq[nb] {
					return freq[nb] - freq[na]
				}
				return int(a.Idx0()) - int(b.Idx0())
			})
			out := make([]ast.Node, len(candidates))
			for i, c := range candidates {
				out[i] = c
			}
			return out
		},
		transform: func(arb *arborist.Arborist, n ast.Node, sb *sandbox.Sandbox) bool {
			c := n.(*ast.CallExpression)
			for _, r := range rewrittenRanges {
				if c.Idx0() >= r.start && c.Idx1() <= r.end {
					return false
				}
			}
			for _, a := range c.Arguments {
				if _, bad := a.(*ast.ThisExpression); bad {
					return false
				}
			}
			decl, ok := calleeDeclaration(arb, c.Callee)
			if !ok || isTrivialWrapper(arb, decl) {
				return false
			}
			if mutation.IsMutated(arb, decl) {
				return false
			}
			parent := arb.Parent(decl)
			if parent == nil {
				return false
			}
			fp := cache.Fingerprint64(arb.Script())
			collected := collector.Collect(arb, parent, fp)
			fragment := context.PrintOrdered(arb, collected, false)
			fragment += "(" + generator.PrintExpr(c) + ")"

			result, ok := sb.Eval(fragment, sandbox.DefaultTimeout)
			if !ok {
				return false
			}
			if _, isFn := result.(*ast.FunctionExpression); isFn {
				return false
			}
			arb.MarkNode(c, result)
			rewrittenRanges = append(rewrittenRanges, span{c.Idx0(), c.Idx1()})
			return true
		},
	}
}

type span struct{ start, end int }

func localCallable(c *ast.CallExpression) bool {
	switch callee := c.Callee.(type) {
	case *ast.Identifier:
		return callee.DeclNode != nil
	case *ast.MemberExpression:
		return !callee.Computed
	}
	return false
}

func calleeName(e ast.Expr) string {
	switch e := e.(type) {
	case *ast.Identifier:
		return e.Name
	case *ast.MemberExpression:
		if id, ok := e.Property.(*ast.Identifier); ok {
			return id.Name
		}
	}
	return ""
}

func calleeFrequency(calls []*ast.CallExpression) map[string]int {
	freq := map[string]int{}
	for _, c := range calls {
		freq[calleeName(c.Callee)]++
	}
	return freq
}

// calleeDeclaration resolves a callee to a declaring Identifier, when
// statically known: for a plain local name, that name's declaration; for
// a dot-accessed method, the declaration of the object identifier.
func calleeDeclaration(arb *arborist.Arborist, callee ast.Expr) (*ast.Identifier, bool) {
	switch callee := callee.(type) {
	case *ast.Identifier:
		if callee.DeclNode != nil {
			return callee.DeclNode, true
		}
	case *ast.MemberExpression:
		obj, ok := callee.Object.(*ast.Identifier)
		if !ok || obj.DeclNode == nil {
			return nil, false
		}
		return obj.DeclNode, true
	}
	return nil, false
}

// isTrivialWrapper refuses declarations whose initializer is just
// another identifier or a bare literal, to avoid cascading with passes
// that already fold those directly.
func isTrivialWrapper(arb *arborist.Arborist, decl *ast.Identifier) bool {
	parent, ok := arb.Parent(decl).(*ast.VariableDeclarator)
	if !ok || parent.Init == nil {
		return false
	}
	switch parent.Init.(type) {
	case *ast.Identifier, *ast.Literal:
		return true
	}
	return false
}
