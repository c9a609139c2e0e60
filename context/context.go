// Package context implements the context collector of spec.md §4.4:
// given an origin node, find the minimum set of declarations,
// assignments, and call sites whose concatenated source reproduces the
// origin's observable behavior. It is grounded on the same
// dependency-discovery shape as a dependency slicer that walks an
// expression's free variables outward to their declarations and back in
// through every mutation site, just generalized to spec.md's broader
// node-kind vocabulary and scope/reference metadata.
package context

import (
	"github.com/t14raptor/deobfuscate/arborist"
	"github.com/t14raptor/deobfuscate/ast"
	"github.com/t14raptor/deobfuscate/cache"
)

// mutatingProperties names method calls that mutate their receiver in
// place, per spec.md §4.4 step 3.
var mutatingProperties = map[string]bool{
	"push": true, "pop": true, "shift": true, "unshift": true, "splice": true,
	"sort": true, "reverse": true, "fill": true, "copyWithin": true,
	"forEach": true, "insert": true, "add": true, "set": true, "delete": true,
}

// Collector runs contextOf with memoization in the arborist's fingerprint
// cache: results are cached under the origin's node id and under its kind
// plus byte range. No key is derived from the origin's content, so
// structurally identical origins at different positions do not share an
// entry.
type Collector struct {
	cache *cache.Cache
}

func New(c *cache.Cache) *Collector {
	return &Collector{cache: c}
}

// Collect returns contextOf(origin): an ordered (by discovery, not yet by
// source position — see PrintOrdered for that) set of nodes whose
// concatenated source is a self-contained fragment behaviorally
// equivalent to evaluating origin.
func (c *Collector) Collect(arb *arborist.Arborist, origin ast.Node, scriptFingerprint cache.Fingerprint) []ast.Node {
	bucket := c.cache.Get(scriptFingerprint)
	id, hasID := arb.NodeID(origin)
	idKey, contentKey := "", ""
	if hasID {
		idKey = cacheKeyByID(id)
	}
	contentKey = cacheKeyByContent(origin)

	if hasID {
		if v, ok := bucket.Get(idKey); ok {
			return v.([]ast.Node)
		}
	}
	if v, ok := bucket.Get(contentKey); ok {
		return v.([]ast.Node)
	}

	result := collect(arb, origin)

	if hasID {
		bucket.Set(idKey, result)
	}
	bucket.Set(contentKey, result)
	return result
}

func cacheKeyByID(id int) string {
	return "id:" + itoa(id)
}

func cacheKeyByContent(n ast.Node) string {
	return "content:" + describeNode(n)
}

func describeNode(n ast.Node) string {
	if n == nil {
		return ""
	}
	return string(n.Kind()) + "@" + itoa(n.Idx0()) + ":" + itoa(n.Idx1())
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}

func collect(arb *arborist.Arborist, origin ast.Node) []ast.Node {
	type rangeT struct{ start, end int }

	visited := map[ast.Node]bool{}
	var collectedRanges []rangeT
	var result []ast.Node

	inCollected := func(n ast.Node) bool {
		for _, r := range collectedRanges {
			if n.Idx0() >= r.start && n.Idx1() <= r.end {
				return true
			}
		}
		return false
	}

	stack := []ast.Node{origin}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == nil || visited[n] {
			continue
		}
		if inCollected(n) {
			continue
		}
		visited[n] = true
		collectedRanges = append(collectedRanges, rangeT{n.Idx0(), n.Idx1()})
		result = append(result, n)

		switch n := n.(type) {
		case *ast.VariableDeclarator:
			id, ok := n.Id.(*ast.Identifier)
			if ok {
				for _, ref := range id.References {
					pushMutationSites(arb, ref, &stack)
				}
			}
		case *ast.AssignmentExpression:
			stack = append(stack, n.Right)
		case *ast.CallExpression:
			for _, a := range n.Arguments {
				if id, ok := a.(*ast.Identifier); ok {
					stack = append(stack, id)
				}
			}
		case *ast.MemberExpression:
			stack = append(stack, n.Property)
		case *ast.Identifier:
			if n.DeclNode != nil {
				if parent := arb.Parent(n.DeclNode); parent != nil {
					stack = append(stack, parent)
				}
			}
		}

		if n.Kind() != ast.KindLiteral && n.Kind() != ast.KindIdentifier {
			for _, child := range ast.Children(n) {
				stack = append(stack, child)
			}
		}
	}

	return filterPureLeaves(result)
}

// pushMutationSites implements spec.md §4.4 step 3's VariableDeclarator
// clause for a single reference to the declared binding: direct
// reassignment, mutating method calls, and augmenting function calls
// that take the binding as an argument.
func pushMutationSites(arb *arborist.Arborist, ref *ast.Identifier, stack *[]ast.Node) {
	parent := arb.Parent(ref)
	if parent == nil {
		return
	}
	switch p := parent.(type) {
	case *ast.AssignmentExpression:
		if p.Left == ast.Expr(ref) {
			*stack = append(*stack, p)
		}
	case *ast.MemberExpression:
		if p.Object == ast.Expr(ref) {
			if propName, ok := propertyName(p.Property); ok && mutatingProperties[propName] {
				if grandparent := arb.Parent(p); grandparent != nil {
					if call, ok := grandparent.(*ast.CallExpression); ok && call.Callee == ast.Expr(p) {
						*stack = append(*stack, call)
					}
				}
			}
		}
	case *ast.CallExpression:
		if p.Callee != ast.Expr(ref) {
			*stack = append(*stack, p)
		}
	}
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

// filterPureLeaves drops nodes that contribute no standalone statement
// on their own: bare literals, bare identifiers, bare member expressions
// (spec.md §4.4 step 6), unless nothing else survives.
func filterPureLeaves(nodes []ast.Node) []ast.Node {
	var out []ast.Node
	for _, n := range nodes {
		switch n.Kind() {
		case ast.KindLiteral, ast.KindIdentifier, ast.KindMemberExpression:
			continue
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nodes
	}
	return out
}
