package context_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/t14raptor/deobfuscate/arborist"
	"github.com/t14raptor/deobfuscate/ast"
	"github.com/t14raptor/deobfuscate/cache"
	"github.com/t14raptor/deobfuscate/context"
)

func TestCollectFollowsReassignmentsOfTheTrackedBinding(t *testing.T) {
	arb, err := arborist.New("var a = 1; a = 2; a;")
	require.NoError(t, err)

	decl := arb.TypeMap(ast.KindVariableDeclarator)[0]
	c := context.New(cache.New())
	nodes := c.Collect(arb, decl, cache.Fingerprint64(arb.Script()))

	src := context.PrintOrdered(arb, nodes, false)
	assert.Contains(t, src, "var a = 1")
	assert.Contains(t, src, "a = 2")
}

func TestCollectIsMemoizedByNodeID(t *testing.T) {
	arb, err := arborist.New("var a = 1; a;")
	require.NoError(t, err)

	decl := arb.TypeMap(ast.KindVariableDeclarator)[0]
	c := context.New(cache.New())
	fp := cache.Fingerprint64(arb.Script())

	first := c.Collect(arb, decl, fp)
	second := c.Collect(arb, decl, fp)
	assert.Equal(t, len(first), len(second))
}

func TestPrintOrderedRendersSourcePositionOrder(t *testing.T) {
	arb, err := arborist.New("var b = 1; var a = 2;")
	require.NoError(t, err)

	decls := arb.TypeMap(ast.KindVariableDeclaration)
	// Pass the later declaration first to confirm PrintOrdered sorts by
	// source position rather than trusting caller-supplied order.
	nodes := []ast.Node{decls[1], decls[0]}
	out := context.PrintOrdered(arb, nodes, false)

	assert.Less(t, indexOf(out, "var b"), indexOf(out, "var a"))
}

func indexOf(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}
