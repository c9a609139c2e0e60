// Package arborist implements the tree substrate of spec.md §3/§4.1: a
// flattened, id-addressable view over an *ast.Program with parent links,
// a kind-keyed type index, staged rewrite marks, and a commit operation
// that reparses the printed result to rebuild every derived structure
// from scratch, guaranteeing the invariants in spec.md §3 hold without
// per-pass bookkeeping.
package arborist

import (
	"errors"
	"fmt"

	"github.com/t14raptor/deobfuscate/ast"
	"github.com/t14raptor/deobfuscate/generator"
	"github.com/t14raptor/deobfuscate/parser"
	"github.com/t14raptor/deobfuscate/resolver"
)

// ErrParseAfterRewrite is spec.md §7's ParseAfterRewriteError: the
// printed result of a committed set of marks failed to reparse. The
// caller must treat this as "discard marks, keep the previous
// substrate" and continue with the next pass.
var ErrParseAfterRewrite = errors.New("arborist: source no longer parses after rewrite")

// ErrAssertionViolation is spec.md §7's internal-invariant kind: fatal,
// never expected to occur on well-formed input.
var ErrAssertionViolation = errors.New("arborist: internal invariant violated")

type mark struct {
	node        ast.Node
	replacement ast.Node // nil => remove enclosing statement
}

// Arborist owns the current tree, its derived metadata, and any pending
// marks. Per spec.md §3's Ownership rule, node references taken from one
// generation are invalid after the next ApplyChanges and must be
// re-acquired through Nodes/TypeMap.
type Arborist struct {
	Program *ast.Program

	nodes    []ast.Node          // pre-order, index == nodeId
	nodeID   map[ast.Node]int
	parent   map[ast.Node]ast.Node
	typeMap  map[ast.Kind][]ast.Node

	marks []mark
}

// New parses text and builds the full substrate: nodeIds, parent links,
// typeMap, and scope/reference metadata (via resolver.Resolve).
func New(text string) (*Arborist, error) {
	prog, err := parser.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("arborist: %w", err)
	}
	resolver.Resolve(prog)
	return build(prog), nil
}

func build(prog *ast.Program) *Arborist {
	a := &Arborist{
		Program: prog,
		nodeID:  map[ast.Node]int{},
		parent:  map[ast.Node]ast.Node{},
		typeMap: map[ast.Kind][]ast.Node{},
	}
	var walk func(n ast.Node, parent ast.Node)
	walk = func(n ast.Node, parent ast.Node) {
		if n == nil {
			return
		}
		id := len(a.nodes)
		a.nodes = append(a.nodes, n)
		a.nodeID[n] = id
		if parent != nil {
			a.parent[n] = parent
		}
		a.typeMap[n.Kind()] = append(a.typeMap[n.Kind()], n)
		for _, c := range ast.Children(n) {
			walk(c, n)
		}
	}
	walk(prog, nil)
	return a
}

// NodeID returns the stable pre-order id assigned to n in the current
// generation, and whether n belongs to this generation at all.
func (a *Arborist) NodeID(n ast.Node) (int, bool) {
	id, ok := a.nodeID[n]
	return id, ok
}

// Nodes returns every node of the current generation in pre-order.
func (a *Arborist) Nodes() []ast.Node { return a.nodes }

// Parent returns n's direct parent in the current generation, or nil for
// the Program root or a node that is not part of this generation.
func (a *Arborist) Parent(n ast.Node) ast.Node { return a.parent[n] }

// TypeMap returns every current node of the given kind, in pre-order.
// Mutating the returned slice has no effect on the substrate.
func (a *Arborist) TypeMap(kind ast.Kind) []ast.Node {
	out := make([]ast.Node, len(a.typeMap[kind]))
	copy(out, a.typeMap[kind])
	return out
}

// MarkNode stages a substitution of node with replacement. replacement
// of nil means "remove the statement enclosing node" per spec.md §4.1;
// marks are idempotent per node — a later MarkNode call for the same
// node in the same generation overwrites the earlier one.
func (a *Arborist) MarkNode(node ast.Node, replacement ast.Node) {
	for i, m := range a.marks {
		if m.node == node {
			a.marks[i].replacement = replacement
			return
		}
	}
	a.marks = append(a.marks, mark{node: node, replacement: replacement})
}

// Pending reports whether any marks are staged.
func (a *Arborist) Pending() bool { return len(a.marks) > 0 }

// Script prints the current generation's tree, ignoring any uncommitted
// marks (marks only take effect through ApplyChanges).
func (a *Arborist) Script() string {
	return generator.Print(a.Program)
}

// ApplyChanges commits every staged mark against a clone of the current
// tree, reprints that clone, reparses the printed text, and returns a
// brand-new Arborist built from it. Mutating a clone rather than the
// live tree means that on a reparse failure the receiver's own nodes
// were never touched: ApplyChanges returns ErrParseAfterRewrite and the
// caller keeps using the receiver exactly as before, satisfying
// spec.md §4.1's "previous substrate remains valid" guarantee for free.
func (a *Arborist) ApplyChanges() (*Arborist, error) {
	if len(a.marks) == 0 {
		return a, nil
	}

	clonedProgram := ast.Clone(a.Program).(*ast.Program)
	cloneByID, cloneParent := indexClone(clonedProgram)

	for _, m := range a.marks {
		id, ok := a.nodeID[m.node]
		if !ok {
			return nil, fmt.Errorf("%w: mark target not in current generation", ErrAssertionViolation)
		}
		clonedTarget := cloneByID[id]
		if m.replacement == nil {
			clonedTarget = enclosingStatementIn(cloneParent, clonedTarget)
		}
		parent := cloneParent[clonedTarget]
		if parent == nil {
			return nil, fmt.Errorf("%w: could not locate mark target in cloned tree", ErrAssertionViolation)
		}
		if !ast.ReplaceChild(parent, clonedTarget, m.replacement) {
			return nil, fmt.Errorf("%w: ReplaceChild failed for mark", ErrAssertionViolation)
		}
	}

	text := generator.Print(clonedProgram)
	next, err := New(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseAfterRewrite, err)
	}
	return next, nil
}

// indexClone rebuilds the id->node and node->parent maps for a freshly
// cloned tree, in the same pre-order Clone produces, so marks keyed by
// the original generation's nodeIds can find their counterpart in the
// clone.
func indexClone(prog *ast.Program) (map[int]ast.Node, map[ast.Node]ast.Node) {
	byID := map[int]ast.Node{}
	parent := map[ast.Node]ast.Node{}
	var walk func(n ast.Node, p ast.Node)
	walk = func(n ast.Node, p ast.Node) {
		if n == nil {
			return
		}
		byID[len(byID)] = n
		if p != nil {
			parent[n] = p
		}
		for _, c := range ast.Children(n) {
			walk(c, n)
		}
	}
	walk(prog, nil)
	return byID, parent
}

func enclosingStatementIn(parent map[ast.Node]ast.Node, n ast.Node) ast.Node {
	cur := n
	for cur != nil {
		if _, ok := cur.(ast.Stmt); ok {
			return cur
		}
		cur = parent[cur]
	}
	return n
}

