package graph

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"testing"

	"delivery-routing-engine/internal/domain"

	"github.com/stretchr/testify/require"
)

func mustLoad(t *testing.T, doc string) *Graph {
	t.Helper()
	g, err := LoadJSON(strings.NewReader(doc))
	require.NoError(t, err)
	return g
}

func TestShortestPathPrefersCheaperDetour(t *testing.T) {
	g := mustLoad(t, `{"A": {"B": {"dist": 5}, "C": {"dist": 10}}, "B": {"C": {"dist": 2}}}`)

	path, w, err := ShortestPath(g, "A", "C")
	require.NoError(t, err)
	require.Equal(t, []string{"A", "B", "C"}, path)
	require.Equal(t, 7.0, w)
}

func TestShortestPathSameNode(t *testing.T) {
	g := mustLoad(t, sampleGraph)
	for _, n := range g.Nodes() {
		path, w, err := ShortestPath(g, n, n)
		require.NoError(t, err)
		require.Equal(t, []string{n}, path)
		require.Zero(t, w)
	}
}

func TestShortestPathUnreachableReturnsEmpty(t *testing.T) {
	g := mustLoad(t, `{"A": {"B": {"dist": 1}}, "C": {}}`)

	path, w, err := ShortestPath(g, "A", "C")
	require.NoError(t, err)
	require.Empty(t, path)
	require.Zero(t, w)

	// Directed: B has no way back to A.
	path, _, err = ShortestPath(g, "B", "A")
	require.NoError(t, err)
	require.Empty(t, path)
}

func TestShortestPathUnknownNodes(t *testing.T) {
	g := mustLoad(t, sampleGraph)

	_, _, err := ShortestPath(g, "Z", "A")
	require.ErrorIs(t, err, domain.ErrNodeNotFound)

	var nf *domain.NodeNotFoundError
	_, _, err = ShortestPath(g, "A", "Y")
	require.ErrorAs(t, err, &nf)
	require.Equal(t, "Y", nf.ID)

	_, _, err = ShortestPath(nil, "A", "B")
	require.Error(t, err)
}

func TestShortestPathTieBreakIsDeterministic(t *testing.T) {
	// Two equal-cost routes A->B->D and A->C->D; B is discovered first.
	g := mustLoad(t, `{
		"A": {"B": {"dist": 1}, "C": {"dist": 1}},
		"B": {"D": {"dist": 1}},
		"C": {"D": {"dist": 1}}
	}`)

	first, _, err := ShortestPath(g, "A", "D")
	require.NoError(t, err)
	require.Equal(t, []string{"A", "B", "D"}, first)

	for i := 0; i < 20; i++ {
		again, _, err := ShortestPath(g, "A", "D")
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}

func TestPathDistanceFallsBackToReverseEdge(t *testing.T) {
	g := mustLoad(t, `{"A": {"B": {"dist": 4}}, "C": {"B": {"dist": 3}}}`)

	d, err := PathDistance(g, []string{"A", "B", "C"})
	require.NoError(t, err)
	require.Equal(t, 7.0, d)

	_, err = PathDistance(g, []string{"A", "C"})
	var ee *domain.EdgeNotFoundError
	require.ErrorAs(t, err, &ee)
	require.Equal(t, "A", ee.From)
	require.Equal(t, "C", ee.To)

	d, err = PathDistance(g, []string{"A"})
	require.NoError(t, err)
	require.Zero(t, d)
}

// bruteForce enumerates every simple path from start to goal.
func bruteForce(g *Graph, start, goal string) float64 {
	best := math.Inf(1)
	seen := map[string]bool{start: true}
	var walk func(u string, acc float64)
	walk = func(u string, acc float64) {
		if u == goal {
			best = math.Min(best, acc)
			return
		}
		for _, nb := range g.Neighbors(u) {
			if seen[nb.ID] {
				continue
			}
			seen[nb.ID] = true
			walk(nb.ID, acc+nb.Weight)
			seen[nb.ID] = false
		}
	}
	walk(start, 0)
	return best
}

func randomGraph(rng *rand.Rand, n int, density float64) *Graph {
	b := NewBuilder()
	for i := 0; i < n; i++ {
		_ = b.AddNode(fmt.Sprintf("n%d", i), nil)
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j || rng.Float64() > density {
				continue
			}
			_ = b.AddEdge(fmt.Sprintf("n%d", i), fmt.Sprintf("n%d", j), float64(rng.IntN(9)+1))
		}
	}
	return b.Build()
}

func TestShortestPathMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))

	for round := 0; round < 40; round++ {
		g := randomGraph(rng, 6, 0.35)
		for _, s := range g.Nodes() {
			for _, goal := range g.Nodes() {
				path, w, err := ShortestPath(g, s, goal)
				require.NoError(t, err)

				want := bruteForce(g, s, goal)
				if math.IsInf(want, 1) {
					require.Empty(t, path, "round %d %s->%s", round, s, goal)
					continue
				}

				require.Equal(t, s, path[0])
				require.Equal(t, goal, path[len(path)-1])
				require.Equal(t, want, w, "round %d %s->%s", round, s, goal)

				d, err := PathDistance(g, path)
				require.NoError(t, err)
				require.Equal(t, w, d)
			}
		}
	}
}
