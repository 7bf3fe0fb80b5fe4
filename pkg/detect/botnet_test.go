package detect

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

// markAnomalous flags existing nodes as anomalous
func markAnomalous(t *testing.T, g *netgraph.Graph, ids ...string) {
	t.Helper()
	for _, id := range ids {
		node, err := g.Node(id)
		if err != nil {
			t.Fatalf("Node %s not found: %v", id, err)
		}
		node.Anomalous = true
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// TestBotnet_StarTopology tests the hub-and-spoke C2 pattern
func TestBotnet_StarTopology(t *testing.T) {
	g := buildGraph(t, [][2]string{
		{"hub", "s1"}, {"hub", "s2"}, {"hub", "s3"}, {"hub", "s4"}, {"hub", "s5"},
	})

	result := Botnet(g)

	if !result.BotnetDetected {
		t.Fatal("Expected botnet detection for star topology")
	}
	if len(result.C2Candidates) != 1 {
		t.Fatalf("Expected 1 candidate, got %d", len(result.C2Candidates))
	}

	cand := result.C2Candidates[0]
	if cand.DeviceID != "hub" {
		t.Errorf("Candidate = %q, want hub", cand.DeviceID)
	}
	if cand.OutConnections != 5 {
		t.Errorf("OutConnections = %d, want 5", cand.OutConnections)
	}
	if cand.InConnections != 0 {
		t.Errorf("InConnections = %d, want 0", cand.InConnections)
	}
	if !almostEqual(cand.C2Score, 0.833) {
		t.Errorf("C2Score = %v, want 0.833 (5/6 rounded)", cand.C2Score)
	}
	if result.Confidence != 0.85 {
		t.Errorf("Confidence = %v, want 0.85", result.Confidence)
	}
	if len(result.RecruitedDevices) != 5 {
		t.Errorf("RecruitedDevices = %v, want all 5 spokes", result.RecruitedDevices)
	}

	// Every hub edge must be relabeled c2.
	for _, edge := range g.OutEdges("hub") {
		if edge.Type != netgraph.EdgeC2 {
			t.Errorf("Edge hub->%s type = %q, want c2", edge.To, edge.Type)
		}
	}
}

// TestBotnet_TooFewNodes tests the minimum graph size precondition
func TestBotnet_TooFewNodes(t *testing.T) {
	g := buildGraph(t, [][2]string{{"a", "b"}, {"a", "c"}})

	result := Botnet(g)

	if result.BotnetDetected {
		t.Error("Expected no detection below 4 nodes")
	}
	if result.Confidence != 0.0 {
		t.Errorf("Confidence = %v, want 0", result.Confidence)
	}
}

// TestBotnet_RatioGate tests that heavy inbound disqualifies a hub
func TestBotnet_RatioGate(t *testing.T) {
	// hub has out-degree 3 but in-degree 2: 3/(2+1) = 1.0, not > 2.
	g := buildGraph(t, [][2]string{
		{"hub", "s1"}, {"hub", "s2"}, {"hub", "s3"},
		{"s1", "hub"}, {"s2", "hub"},
	})

	result := Botnet(g)

	if result.BotnetDetected {
		t.Error("Expected no detection when out/in ratio is too low")
	}
}

// TestBotnet_FanOutScalesWithGraph tests the size-relative fan-out floor
func TestBotnet_FanOutScalesWithGraph(t *testing.T) {
	// 16 nodes total; round(0.25*16) = 4, so out-degree 3 is no longer
	// enough.
	edges := [][2]string{{"hub", "s1"}, {"hub", "s2"}, {"hub", "s3"}}
	for _, extra := range []string{"n1", "n2", "n3", "n4", "n5", "n6", "n7", "n8", "n9", "n10", "n11", "n12"} {
		edges = append(edges, [2]string{extra, "s1"})
	}
	g := buildGraph(t, edges)

	if g.NodeCount() != 16 {
		t.Fatalf("NodeCount = %d, want 16", g.NodeCount())
	}

	result := Botnet(g)

	for _, cand := range result.C2Candidates {
		if cand.DeviceID == "hub" {
			t.Error("hub should not qualify: out-degree 3 below scaled floor 4")
		}
	}
}

// TestBotnet_IndependentOfAnomalyFlags tests pure structural detection
func TestBotnet_IndependentOfAnomalyFlags(t *testing.T) {
	g := buildGraph(t, [][2]string{
		{"hub", "s1"}, {"hub", "s2"}, {"hub", "s3"}, {"hub", "s4"},
	})
	// No anomaly flags anywhere.

	result := Botnet(g)

	if !result.BotnetDetected {
		t.Error("Structural fan-out should fire without anomaly flags")
	}
}
