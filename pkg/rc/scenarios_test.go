package rc

import (
	"math/rand"
	"testing"
)

// graphNode is the variable-arity fixture scenarios_test.go uses to build
// random directed multigraphs: unlike ringLink/parent/child, which each
// hold a fixed number of owning handles, a graph generator needs a node
// that can hold an arbitrary number of owned children, one Strong handle
// per adopted edge (so that multiplicity N in the ledger corresponds to N
// distinct stored clones, matching adopt's contract).
type graphNode struct {
	id      int
	owned   []Strong[graphNode]
	dropped *[]int
}

func (g *graphNode) DropPayload() {
	if g.dropped != nil {
		*g.dropped = append(*g.dropped, g.id)
	}
	for i := range g.owned {
		g.owned[i].Drop()
	}
	g.owned = nil
}

// buildRandomGraph constructs n nodes and, for each of the e requested
// edges, adopts a random child into a random parent (storing the real
// owning clone adopt's contract requires) before returning the node
// handles and a shared drop log.
func buildRandomGraph(rng *rand.Rand, n, e int) ([]Strong[graphNode], *[]int) {
	drops := make([]int, 0, n)
	nodes := make([]Strong[graphNode], n)
	for i := range nodes {
		nodes[i] = New(graphNode{id: i, dropped: &drops})
	}
	for k := 0; k < e; k++ {
		u := rng.Intn(n)
		v := rng.Intn(n)
		parent := nodes[u]
		child := nodes[v]
		pv := parent.Deref()
		pv.owned = append(pv.owned, child.Clone())
		Adopt(parent, child)
	}
	return nodes, &drops
}

// runRandomGraphScenario builds a random multigraph, keeps a random subset
// of nodes alive through an extra Strong handle, drops every node's
// original handle, asserts the graph has not been fully collected while
// any extra handle is still held, then
// drops the extra handles and asserts every node is collected exactly
// once.
func runRandomGraphScenario(t *testing.T, seed int64, n, e int) {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))

	nodes, drops := buildRandomGraph(rng, n, e)

	heldCount := rng.Intn(n + 1)
	held := make(map[int]bool, heldCount)
	extras := make([]Strong[graphNode], 0, heldCount)
	for len(held) < heldCount {
		i := rng.Intn(n)
		if held[i] {
			continue
		}
		held[i] = true
		extras = append(extras, nodes[i].Clone())
	}

	for i := range nodes {
		nodes[i].Drop()
	}

	if heldCount > 0 && len(*drops) == n {
		t.Fatalf("seed %d: all %d nodes collected despite %d external handles still held", seed, n, heldCount)
	}

	for i := range extras {
		extras[i].Drop()
	}

	if len(*drops) != n {
		t.Fatalf("seed %d: drops = %v (%d of %d), want every node dropped exactly once", seed, *drops, len(*drops), n)
	}

	seen := make(map[int]bool, n)
	for _, id := range *drops {
		if seen[id] {
			t.Fatalf("seed %d: node %d dropped more than once: %v", seed, id, *drops)
		}
		seen[id] = true
	}
}

// TestRandomDirectedMultigraphsFullyCollect is a property-based sweep over
// random directed multigraphs of 1-32 nodes and 0-128 edges, random
// external-handle patterns, checking that (a) the drop count equals the
// node count once every external handle is gone, and (b) no node is ever
// dropped twice.
func TestRandomDirectedMultigraphsFullyCollect(t *testing.T) {
	for seed := int64(1); seed <= 24; seed++ {
		rng := rand.New(rand.NewSource(seed))
		n := 1 + rng.Intn(32)
		e := rng.Intn(129)
		runRandomGraphScenario(t, seed, n, e)
	}
}

// TestRandomGraphsWithOnlySelfLoopsCollect targets the edge case where
// every edge in the graph is a self-loop: each node owns only itself,
// some number of times, and must still collect once its one external
// handle is dropped.
func TestRandomGraphsWithOnlySelfLoopsCollect(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	const n = 12
	drops := make([]int, 0, n)
	nodes := make([]Strong[graphNode], n)
	for i := range nodes {
		nodes[i] = New(graphNode{id: i, dropped: &drops})
	}
	for i := range nodes {
		loops := rng.Intn(4)
		for k := 0; k < loops; k++ {
			pv := nodes[i].Deref()
			pv.owned = append(pv.owned, nodes[i].Clone())
			Adopt(nodes[i], nodes[i])
		}
	}
	for i := range nodes {
		nodes[i].Drop()
	}
	if len(drops) != n {
		t.Fatalf("drops = %v, want all %d nodes collected", drops, n)
	}
}

// TestRandomGraphDenseClique builds a fully-connected clique (every node
// adopts every other node exactly once) to stress the oracle's BFS and
// the teardown's unlink phase against the densest graph shape the
// property generator's edge budget allows.
func TestRandomGraphDenseClique(t *testing.T) {
	const n = 10
	drops := make([]int, 0, n)
	nodes := make([]Strong[graphNode], n)
	for i := range nodes {
		nodes[i] = New(graphNode{id: i, dropped: &drops})
	}
	for i := range nodes {
		for j := range nodes {
			if i == j {
				continue
			}
			pv := nodes[i].Deref()
			pv.owned = append(pv.owned, nodes[j].Clone())
			Adopt(nodes[i], nodes[j])
		}
	}
	for i := range nodes {
		nodes[i].Drop()
	}
	if len(drops) != n {
		t.Fatalf("drops = %v, want all %d clique members collected", drops, n)
	}
}
