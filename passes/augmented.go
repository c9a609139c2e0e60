package passes

import (
	"github.com/t14raptor/deobfuscate/arborist"
	"github.com/t14raptor/deobfuscate/ast"
	"github.com/t14raptor/deobfuscate/cache"
	"github.com/t14raptor/deobfuscate/context"
	"github.com/t14raptor/deobfuscate/generator"
	"github.com/t14raptor/deobfuscate/sandbox"
)

// NewResolveAugmentedFunctionWrappedArrayReplacements handles the
// decoder-augmentation idiom: a decoder function's name is reassigned to
// a marker string (`decrypt = 'modified'`) once an IIFE has permuted its
// backing string array in place. The augmentation assignment is treated
// as a signal that the decoder is safe to fully inline: contextOf the
// decoder's declaration already pulls in the permuting IIFE through the
// array binding's mutation sites (see context.Collect), so the fold
// itself reuses the same collect-and-evaluate shape as resolveLocalCalls.
func NewResolveAugmentedFunctionWrappedArrayReplacements(collector *context.Collector) Pass {
	return Pass{
		Name: "resolveAugmentedFunctionWrappedArrayReplacements",
		match: func(arb *arborist.Arborist) []ast.Node {
			augmented := augmentedDecoderNames(arb)
			if len(augmented) == 0 {
				return nil
			}
			var out []ast.Node
			for _, n := range arb.TypeMap(ast.KindCallExpression) {
				c := n.(*ast.CallExpression)
				id, ok := c.Callee.(*ast.Identifier)
				if !ok || id.DeclNode == nil || !augmented[id.DeclNode] {
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
			id := c.Callee.(*ast.Identifier)
			parent := arb.Parent(id.DeclNode)
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
			arb.MarkNode(c, result)
			return true
		},
	}
}

// augmentedDecoderNames finds every `name = <string literal>` assignment
// whose target is a plain identifier bound to a function declaration or
// function-valued variable, the reassignment idiom obfuscators use to
// mark a decoder "already unwrapped" so later passes leave it alone.
func augmentedDecoderNames(arb *arborist.Arborist) map[*ast.Identifier]bool {
	out := map[*ast.Identifier]bool{}
	for _, n := range arb.TypeMap(ast.KindAssignmentExpression) {
		a := n.(*ast.AssignmentExpression)
		if a.Operator != "=" {
			continue
		}
		id, ok := a.Left.(*ast.Identifier)
		if !ok || id.DeclNode == nil {
			continue
		}
		lit, ok := a.Right.(*ast.Literal)
		if !ok || lit.LKind != ast.LitString {
			continue
		}
		if isFunctionBound(arb, id.DeclNode) {
			out[id.DeclNode] = true
		}
	}
	return out
}

func isFunctionBound(arb *arborist.Arborist, decl *ast.Identifier) bool {
	switch p := arb.Parent(decl).(type) {
	case *ast.FunctionDeclaration:
		return true
	case *ast.VariableDeclarator:
		_, ok := p.Init.(*ast.FunctionExpression)
		return ok
	}
	return false
}
