package algorithms

import (
	"math"
	"testing"

	"github.com/dd0wney/cluso-netwatch/pkg/netgraph"
)

// buildGraph creates a graph from directed edge pairs
func buildGraph(t *testing.T, edges [][2]string) *netgraph.Graph {
	t.Helper()

	g := netgraph.NewGraph()
	for _, pair := range edges {
		if _, err := g.MergeEdge(pair[0], pair[1], netgraph.EdgeObservation{
			Type:   netgraph.EdgeExplicit,
			Weight: 1.0,
		}); err != nil {
			t.Fatalf("MergeEdge %v failed: %v", pair, err)
		}
	}
	return g
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// TestBetweennessCentrality_EmptyGraph tests the empty case
func TestBetweennessCentrality_EmptyGraph(t *testing.T) {
	g := netgraph.NewGraph()
	scores := BetweennessCentrality(g)
	if len(scores) != 0 {
		t.Errorf("Expected 0 scores for empty graph, got %d", len(scores))
	}
}

// TestBetweennessCentrality_Chain tests a directed path a->b->c
func TestBetweennessCentrality_Chain(t *testing.T) {
	g := buildGraph(t, [][2]string{{"a", "b"}, {"b", "c"}})

	scores := BetweennessCentrality(g)

	// Only the a->c shortest path passes through b. Raw score 1,
	// normalised by (n-1)(n-2) = 2.
	if !almostEqual(scores["b"], 0.5) {
		t.Errorf("betweenness(b) = %v, want 0.5", scores["b"])
	}
	if !almostEqual(scores["a"], 0.0) || !almostEqual(scores["c"], 0.0) {
		t.Errorf("Endpoints should have zero betweenness, got a=%v c=%v", scores["a"], scores["c"])
	}
}

// TestBetweennessCentrality_Bridge tests a bridge node between two sides
func TestBetweennessCentrality_Bridge(t *testing.T) {
	// a and b feed m; m feeds c and d. All cross-side shortest paths
	// pass through m: 4 pairs, normalised by (5-1)(5-2) = 12.
	g := buildGraph(t, [][2]string{
		{"a", "m"}, {"b", "m"}, {"m", "c"}, {"m", "d"},
	})

	scores := BetweennessCentrality(g)

	if !almostEqual(scores["m"], 4.0/12.0) {
		t.Errorf("betweenness(m) = %v, want %v", scores["m"], 4.0/12.0)
	}
	for _, id := range []string{"a", "b", "c", "d"} {
		if !almostEqual(scores[id], 0.0) {
			t.Errorf("betweenness(%s) = %v, want 0", id, scores[id])
		}
	}
}

// TestBetweennessCentrality_SplitShortestPaths tests sigma accounting
// when multiple shortest paths exist
func TestBetweennessCentrality_SplitShortestPaths(t *testing.T) {
	// Two parallel two-hop routes a->x->c and a->y->c: each carries
	// half the a->c dependency.
	g := buildGraph(t, [][2]string{
		{"a", "x"}, {"a", "y"}, {"x", "c"}, {"y", "c"},
	})

	scores := BetweennessCentrality(g)

	// Raw 0.5 each, normalised by (4-1)(4-2) = 6.
	if !almostEqual(scores["x"], 0.5/6.0) {
		t.Errorf("betweenness(x) = %v, want %v", scores["x"], 0.5/6.0)
	}
	if !almostEqual(scores["x"], scores["y"]) {
		t.Errorf("Symmetric routes should score equally: x=%v y=%v", scores["x"], scores["y"])
	}
}

// TestAverageDegree tests the mean combined degree
func TestAverageDegree(t *testing.T) {
	if got := AverageDegree(netgraph.NewGraph()); got != 0.0 {
		t.Errorf("AverageDegree(empty) = %v, want 0", got)
	}

	g := buildGraph(t, [][2]string{{"a", "b"}, {"b", "c"}})
	// 2 edges over 3 nodes: 2*2/3
	if got := AverageDegree(g); !almostEqual(got, 4.0/3.0) {
		t.Errorf("AverageDegree = %v, want %v", got, 4.0/3.0)
	}
}
