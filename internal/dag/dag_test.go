package dag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	g := New()
	require.NotNil(t, g)
	assert.NotNil(t, g.nodes)
	assert.Empty(t, g.nodes)
}

func TestAddNode(t *testing.T) {
	g := New()

	g.AddNode("a")
	assert.Len(t, g.nodes, 1)
	nodeA, ok := g.nodes["a"]
	require.True(t, ok)
	assert.Equal(t, "a", nodeA.id)
	assert.NotNil(t, nodeA.deps)
	assert.NotNil(t, nodeA.dependents)

	g.AddNode("a") // Test idempotency
	assert.Len(t, g.nodes, 1)

	g.AddNode("b")
	assert.Len(t, g.nodes, 2)
	_, ok = g.nodes["b"]
	assert.True(t, ok)
}

func TestAddEdge(t *testing.T) {
	t.Run("success case", func(t *testing.T) {
		g := New()
		g.AddNode("a")
		g.AddNode("b")

		err := g.AddEdge("a", "b") // b depends on a
		require.NoError(t, err)

		nodeA := g.nodes["a"]
		nodeB := g.nodes["b"]

		assert.Contains(t, nodeA.dependents, "b")
		assert.Equal(t, nodeB, nodeA.dependents["b"])
		assert.Contains(t, nodeB.deps, "a")
		assert.Equal(t, nodeA, nodeB.deps["a"])
	})

	t.Run("error cases", func(t *testing.T) {
		g := New()
		g.AddNode("a")
		g.AddNode("b")

		err := g.AddEdge("dne", "a")
		assert.ErrorContains(t, err, "source node not found")

		err = g.AddEdge("a", "dne")
		assert.ErrorContains(t, err, "destination node not found")

		err = g.AddEdge("a", "a")
		assert.ErrorContains(t, err, "self-referential edge")
	})
}

func TestRemoveEdge(t *testing.T) {
	g := New()
	g.AddNode("a")
	g.AddNode("b")
	require.NoError(t, g.AddEdge("a", "b"))

	require.NoError(t, g.RemoveEdge("a", "b"))
	assert.NotContains(t, g.nodes["a"].dependents, "b")
	assert.NotContains(t, g.nodes["b"].deps, "a")

	// Removing a missing edge is a no-op.
	assert.NoError(t, g.RemoveEdge("a", "b"))
	assert.ErrorContains(t, g.RemoveEdge("dne", "b"), "source node not found")
	assert.ErrorContains(t, g.RemoveEdge("a", "dne"), "destination node not found")
}

func TestRemoveNode(t *testing.T) {
	g := New()
	for _, id := range []string{"a", "b", "c"} {
		g.AddNode(id)
	}
	require.NoError(t, g.AddEdge("a", "b"))
	require.NoError(t, g.AddEdge("b", "c"))

	g.RemoveNode("b")
	assert.False(t, g.HasNode("b"))
	assert.Empty(t, g.nodes["a"].dependents)
	assert.Empty(t, g.nodes["c"].deps)
	assert.False(t, g.HasPath("a", "c"))

	g.RemoveNode("dne")
	assert.Len(t, g.nodes, 2)
}

func TestHasPath(t *testing.T) {
	g := New()
	for _, id := range []string{"a", "b", "c", "d"} {
		g.AddNode(id)
	}
	require.NoError(t, g.AddEdge("a", "b"))
	require.NoError(t, g.AddEdge("b", "c"))

	testCases := []struct {
		name     string
		from, to string
		want     bool
	}{
		{"direct edge", "a", "b", true},
		{"transitive", "a", "c", true},
		{"against edge direction", "c", "a", false},
		{"disconnected", "a", "d", false},
		{"self", "d", "d", true},
		{"unknown source", "x", "a", false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, g.HasPath(tc.from, tc.to))
		})
	}
}
