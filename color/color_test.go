package color

import (
	"math/rand"
	"testing"
)

// ringGraph is a Graph over n vertices arranged in a cycle, each adjacent
// to its two neighbors — enough structure to need at least 3 colors on
// an odd cycle.
type ringGraph struct{ n int }

func (g ringGraph) NumVertices() int { return g.n }

func (g ringGraph) Neighbors(v int, visit func(n int)) {
	visit((v + 1) % g.n)
	visit((v - 1 + g.n) % g.n)
}

func assertNoMonochromaticEdge(t *testing.T, g Graph, groups [][]int) {
	t.Helper()
	colorOf := make(map[int]int)
	for c, group := range groups {
		for _, v := range group {
			colorOf[v] = c
		}
	}
	for v := 0; v < g.NumVertices(); v++ {
		g.Neighbors(v, func(nb int) {
			if colorOf[nb] == colorOf[v] {
				t.Errorf("vertices %d and %d share an edge and a color (%d)", v, nb, colorOf[v])
			}
		})
	}
}

func TestGreedyNoAdjacentSameColor(t *testing.T) {
	sizes := []int{3, 4, 5, 8, 13}
	for _, n := range sizes {
		g := ringGraph{n}
		order := make([]int, n)
		for i := range order {
			order[i] = i
		}
		groups := Greedy(g, order)
		assertNoMonochromaticEdge(t, g, groups)
	}
}

func TestGreedyColorsEveryVertexExactlyOnce(t *testing.T) {
	g := ringGraph{10}
	order := []int{5, 2, 8, 0, 1, 9, 3, 4, 6, 7}
	groups := Greedy(g, order)
	seen := make(map[int]bool)
	for _, group := range groups {
		for _, v := range group {
			if seen[v] {
				t.Errorf("vertex %d colored twice", v)
			}
			seen[v] = true
		}
	}
	if len(seen) != g.n {
		t.Errorf("colored %d vertices, want %d", len(seen), g.n)
	}
}

func TestShuffledStillValid(t *testing.T) {
	g := ringGraph{9}
	rng := rand.New(rand.NewSource(42))
	groups := Shuffled(g, rng)
	assertNoMonochromaticEdge(t, g, groups)
}
