// Package passes implements the pass catalogue of spec.md §4.6: a set of
// match/transform pairs, each exposing passMatch/passTransform/pass per
// spec.md §6's Pass API contract. Safe passes are purely syntactic and
// never touch the sandbox; unsafe passes consult the sandbox evaluator
// or the reference-mutation analyzer and must fail closed on any doubt.
package passes

import (
	"errors"

	"github.com/t14raptor/deobfuscate/arborist"
	"github.com/t14raptor/deobfuscate/ast"
	"github.com/t14raptor/deobfuscate/sandbox"
)

// Filter is the predicate callers compose onto a pass's candidate
// stream, spec.md §6's `filter=acceptAll`.
type Filter func(ast.Node) bool

func AcceptAll(ast.Node) bool { return true }

type matchFunc func(arb *arborist.Arborist) []ast.Node

// transformFunc stages a mark for one candidate and reports whether it
// did so; sb is nil for safe passes.
type transformFunc func(arb *arborist.Arborist, n ast.Node, sb *sandbox.Sandbox) bool

// Pass is the (name, match, transform) tuple spec.md §9's "Dynamic
// dispatch over pass objects" design note calls for: a value, not an
// interface, composed by the static ordered catalogue in catalogue.go.
type Pass struct {
	Name string
	Safe bool
	match     matchFunc
	transform transformFunc
}

// PassMatch is the pure-search entry point: pairs of candidates spec.md
// §6 names passMatch(arb, filter=acceptAll).
func (p Pass) PassMatch(arb *arborist.Arborist, filter Filter) []ast.Node {
	if filter == nil {
		filter = AcceptAll
	}
	var out []ast.Node
	for _, n := range p.match(arb) {
		if filter(n) {
			out = append(out, n)
		}
	}
	return out
}

// PassTransform stages the mutation for a single candidate and returns
// the (same, until commit) Arborist, per spec.md §6.
func (p Pass) PassTransform(arb *arborist.Arborist, n ast.Node, sb *sandbox.Sandbox) *arborist.Arborist {
	p.transform(arb, n, sb)
	return arb
}

// Run is spec.md §6's pass(arb, filter=acceptAll): match then transform
// every candidate, commit once, and return whether the commit changed
// anything. A ParseAfterRewriteError from the commit is swallowed into
// "no progress this iteration" per spec.md §7's propagation policy;
// every other error is fatal.
func (p Pass) Run(arb *arborist.Arborist, filter Filter) (*arborist.Arborist, bool, error) {
	candidates := p.PassMatch(arb, filter)
	if len(candidates) == 0 {
		return arb, false, nil
	}

	var sb *sandbox.Sandbox
	if !p.Safe {
		sb = sandbox.New()
	}

	matched := false
	for _, c := range candidates {
		if p.transform(arb, c, sb) {
			matched = true
		}
	}
	if !matched {
		return arb, false, nil
	}

	next, err := arb.ApplyChanges()
	if err != nil {
		if errors.Is(err, arborist.ErrParseAfterRewrite) {
			return arb, false, nil
		}
		return arb, false, err
	}
	return next, next != arb, nil
}
