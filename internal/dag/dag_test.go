package dag

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/stepplan/internal/precedence"
	"github.com/vk/stepplan/internal/step"
)

func TestNew(t *testing.T) {
	g := New()
	require.NotNil(t, g)
	assert.NotNil(t, g.nodes)
	assert.Empty(t, g.nodes)
	assert.Equal(t, 0, g.Len())
}

func TestAddNode(t *testing.T) {
	g := New()

	g.AddNode('A')
	assert.Len(t, g.nodes, 1)
	nodeA, ok := g.nodes['A']
	require.True(t, ok)
	assert.Equal(t, step.ID('A'), nodeA.id)
	assert.NotNil(t, nodeA.deps)
	assert.NotNil(t, nodeA.dependents)

	g.AddNode('A') // Test idempotency
	assert.Len(t, g.nodes, 1)

	g.AddNode('B')
	assert.Len(t, g.nodes, 2)
	assert.True(t, g.Has('B'))
	assert.False(t, g.Has('C'))
}

func TestAddEdge(t *testing.T) {
	t.Run("success case", func(t *testing.T) {
		g := New()
		g.AddNode('A')
		g.AddNode('B')

		err := g.AddEdge('A', 'B') // B depends on A
		require.NoError(t, err)
		require.NoError(t, g.AddEdge('A', 'B')) // duplicate is harmless

		assert.Contains(t, g.nodes['A'].dependents, step.ID('B'))
		assert.Contains(t, g.nodes['B'].deps, step.ID('A'))
		assert.Equal(t, 1, g.EdgeCount())
	})

	t.Run("error cases", func(t *testing.T) {
		g := New()
		g.AddNode('A')
		g.AddNode('B')

		err := g.AddEdge('Z', 'A')
		assert.ErrorContains(t, err, "source step not found")

		err = g.AddEdge('A', 'Z')
		assert.ErrorContains(t, err, "destination step not found")

		err = g.AddEdge('A', 'A')
		assert.ErrorIs(t, err, ErrCycle)
		assert.ErrorContains(t, err, "self-referential edge")
	})
}

func TestDependenciesAreSorted(t *testing.T) {
	g := New()
	for _, id := range []step.ID{'E', 'D', 'B', 'F'} {
		g.AddNode(id)
	}
	require.NoError(t, g.AddEdge('F', 'E'))
	require.NoError(t, g.AddEdge('B', 'E'))
	require.NoError(t, g.AddEdge('D', 'E'))

	deps, err := g.Dependencies('E')
	require.NoError(t, err)
	assert.Equal(t, []step.ID{'B', 'D', 'F'}, deps)

	dependents, err := g.Dependents('B')
	require.NoError(t, err)
	assert.Equal(t, []step.ID{'E'}, dependents)

	assert.Equal(t, []step.ID{'B', 'D', 'E', 'F'}, g.Steps())

	_, err = g.Dependencies('Q')
	assert.ErrorContains(t, err, "step not found")
	_, err = g.Dependents('Q')
	assert.ErrorContains(t, err, "step not found")
}

func TestDetectCycles(t *testing.T) {
	t.Run("empty graph has no cycles", func(t *testing.T) {
		g := New()
		assert.NoError(t, g.DetectCycles())
	})

	t.Run("graph with nodes but no edges has no cycles", func(t *testing.T) {
		g := New()
		g.AddNode('A')
		g.AddNode('B')
		g.AddNode('C')
		assert.NoError(t, g.DetectCycles())
	})

	t.Run("valid dag has no cycles", func(t *testing.T) {
		g := New()
		g.AddNode('A')
		g.AddNode('B')
		g.AddNode('C')
		g.AddNode('D')
		require.NoError(t, g.AddEdge('A', 'B'))
		require.NoError(t, g.AddEdge('B', 'C'))
		require.NoError(t, g.AddEdge('A', 'C')) // Transitive edge
		require.NoError(t, g.AddEdge('C', 'D'))
		assert.NoError(t, g.DetectCycles())
	})

	t.Run("simple direct cycle is detected", func(t *testing.T) {
		g := New()
		g.AddNode('A')
		g.AddNode('B')
		require.NoError(t, g.AddEdge('A', 'B'))
		require.NoError(t, g.AddEdge('B', 'A'))
		err := g.DetectCycles()
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrCycle))
		assert.ErrorContains(t, err, "involving step 'A'")
	})

	t.Run("cycle in a disjoint component is detected", func(t *testing.T) {
		g := New()
		g.AddNode('A')
		g.AddNode('B')
		require.NoError(t, g.AddEdge('A', 'B'))

		g.AddNode('X')
		g.AddNode('Y')
		g.AddNode('Z')
		require.NoError(t, g.AddEdge('X', 'Y'))
		require.NoError(t, g.AddEdge('Y', 'Z'))
		require.NoError(t, g.AddEdge('Z', 'Y'))

		err := g.DetectCycles()
		assert.ErrorIs(t, err, ErrCycle)
		assert.ErrorContains(t, err, "involving step 'Y'")
	})
}

func TestBuild(t *testing.T) {
	rules := []precedence.Rule{
		{Before: 'C', After: 'A'},
		{Before: 'C', After: 'F'},
		{Before: 'A', After: 'B'},
		{Before: 'A', After: 'D'},
		{Before: 'B', After: 'E'},
		{Before: 'D', After: 'E'},
		{Before: 'F', After: 'E'},
	}

	t.Run("declared universe holds only named steps", func(t *testing.T) {
		g, err := Build(context.Background(), rules, UniverseDeclared)
		require.NoError(t, err)
		assert.Equal(t, []step.ID{'A', 'B', 'C', 'D', 'E', 'F'}, g.Steps())
		assert.Equal(t, 7, g.EdgeCount())
	})

	t.Run("alphabet universe seeds every letter", func(t *testing.T) {
		g, err := Build(context.Background(), rules, UniverseAlphabet)
		require.NoError(t, err)
		assert.Equal(t, step.AlphabetSize, g.Len())
		deps, err := g.Dependencies('Z')
		require.NoError(t, err)
		assert.Empty(t, deps)
	})

	t.Run("rule order and duplicates do not matter", func(t *testing.T) {
		shuffled := append([]precedence.Rule{}, rules[3], rules[6], rules[0], rules[0], rules[5], rules[1], rules[4], rules[2])
		a, err := Build(context.Background(), rules, UniverseDeclared)
		require.NoError(t, err)
		b, err := Build(context.Background(), shuffled, UniverseDeclared)
		require.NoError(t, err)

		for _, id := range a.Steps() {
			depsA, _ := a.Dependencies(id)
			depsB, _ := b.Dependencies(id)
			assert.Equal(t, depsA, depsB, "dependencies of %s", id)
		}
		assert.Equal(t, a.EdgeCount(), b.EdgeCount())
	})

	t.Run("self-referential rule fails", func(t *testing.T) {
		_, err := Build(context.Background(), []precedence.Rule{{Before: 'A', After: 'A'}}, UniverseDeclared)
		assert.ErrorIs(t, err, ErrCycle)
		assert.ErrorContains(t, err, "self-referential edge")
	})

	t.Run("unknown universe fails", func(t *testing.T) {
		_, err := Build(context.Background(), rules, Universe("greek"))
		assert.ErrorContains(t, err, "unknown step universe")
	})
}
