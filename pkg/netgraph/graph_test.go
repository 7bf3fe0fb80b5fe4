package netgraph

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/dd0wney/cluso-netwatch/pkg/telemetry"
)

var baseTime = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func event(id string, offset time.Duration) telemetry.Event {
	return telemetry.Event{
		DeviceID:   id,
		DeviceType: "sensor",
		Timestamp:  baseTime.Add(offset),
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// TestGraph_UniqueNodesPerDevice verifies one node per device id
func TestGraph_UniqueNodesPerDevice(t *testing.T) {
	g := NewGraph()
	for _, id := range []string{"a", "b", "a", "c", "b", "a"} {
		g.UpsertNode(event(id, 0))
	}

	if g.NodeCount() != 3 {
		t.Errorf("NodeCount = %d, want 3", g.NodeCount())
	}
}

// TestGraph_AnomalyFlagMonotonic verifies the flag is OR'd, never cleared
func TestGraph_AnomalyFlagMonotonic(t *testing.T) {
	g := NewGraph()

	ev := event("a", 0)
	ev.Anomalous = true
	g.UpsertNode(ev)

	ev = event("a", time.Second)
	ev.Anomalous = false
	node := g.UpsertNode(ev)

	if !node.Anomalous {
		t.Error("Anomalous flag was cleared by a later benign event")
	}
}

// TestGraph_RunningMean verifies CPU/memory use a true running mean
func TestGraph_RunningMean(t *testing.T) {
	g := NewGraph()

	for i, cpu := range []float64{10, 20, 60} {
		ev := event("a", time.Duration(i)*time.Second)
		ev.CPUUsage = cpu
		ev.MemoryUsage = cpu * 2
		g.UpsertNode(ev)
	}

	node, err := g.Node("a")
	if err != nil {
		t.Fatalf("Node failed: %v", err)
	}
	// A two-point average would give ((10+20)/2+60)/2 = 37.5; the
	// running mean gives 30.
	if !almostEqual(node.AvgCPU(), 30.0) {
		t.Errorf("AvgCPU = %v, want 30", node.AvgCPU())
	}
	if !almostEqual(node.AvgMemory(), 60.0) {
		t.Errorf("AvgMemory = %v, want 60", node.AvgMemory())
	}
}

// TestGraph_TrafficAndLastSeen verifies cumulative traffic and timestamps
func TestGraph_TrafficAndLastSeen(t *testing.T) {
	g := NewGraph()

	ev := event("a", 0)
	ev.NetworkInKB = 100
	ev.NetworkOutKB = 200
	g.UpsertNode(ev)

	ev = event("a", -time.Minute) // out of order
	ev.NetworkInKB = 50
	ev.NetworkOutKB = 50
	node := g.UpsertNode(ev)

	if !almostEqual(node.TotalTrafficKB, 400) {
		t.Errorf("TotalTrafficKB = %v, want 400", node.TotalTrafficKB)
	}
	if !node.LastSeen.Equal(baseTime) {
		t.Errorf("LastSeen = %v, want %v (max of observed)", node.LastSeen, baseTime)
	}
}

// TestGraph_SelfLoopRejected verifies self-loop edges are refused
func TestGraph_SelfLoopRejected(t *testing.T) {
	g := NewGraph()
	_, err := g.MergeEdge("a", "a", EdgeObservation{Type: EdgeExplicit, Weight: 1.0})
	if !errors.Is(err, ErrSelfLoop) {
		t.Errorf("Expected ErrSelfLoop, got %v", err)
	}
}

// TestGraph_EdgeMerge verifies aggregation semantics for repeat edges
func TestGraph_EdgeMerge(t *testing.T) {
	g := NewGraph()

	_, err := g.MergeEdge("a", "b", EdgeObservation{
		Type: EdgeExplicit, Weight: 1.0, PacketRate: 100, OutKB: 500, InKB: 300, Seen: baseTime,
	})
	if err != nil {
		t.Fatalf("MergeEdge failed: %v", err)
	}
	_, err = g.MergeEdge("a", "b", EdgeObservation{
		Type: EdgeInferred, Weight: 0.6, PacketRate: 50, OutKB: 250, InKB: 100, Seen: baseTime.Add(time.Minute),
	})
	if err != nil {
		t.Fatalf("MergeEdge failed: %v", err)
	}

	if g.EdgeCount() != 1 {
		t.Fatalf("EdgeCount = %d, want 1 aggregated edge", g.EdgeCount())
	}

	edge, err := g.Edge("a", "b")
	if err != nil {
		t.Fatalf("Edge failed: %v", err)
	}
	if edge.Count != 2 {
		t.Errorf("Count = %d, want 2", edge.Count)
	}
	if !almostEqual(edge.Weight, 1.0) {
		t.Errorf("Weight = %v, want max 1.0", edge.Weight)
	}
	if edge.Type != EdgeInferred {
		t.Errorf("Type = %q, want inferred (last writer wins)", edge.Type)
	}
	if !almostEqual(edge.PacketSum, 150) || !almostEqual(edge.OutKBSum, 750) || !almostEqual(edge.InKBSum, 400) {
		t.Errorf("Sums = (%v, %v, %v), want (150, 750, 400)", edge.PacketSum, edge.OutKBSum, edge.InKBSum)
	}
	if !edge.LastSeen.Equal(baseTime.Add(time.Minute)) {
		t.Errorf("LastSeen = %v, want advanced", edge.LastSeen)
	}
}

// TestGraph_DegreesAndSuccessors verifies degree accounting
func TestGraph_DegreesAndSuccessors(t *testing.T) {
	g := NewGraph()
	g.MergeEdge("a", "b", EdgeObservation{Type: EdgeExplicit, Weight: 1.0})
	g.MergeEdge("a", "c", EdgeObservation{Type: EdgeExplicit, Weight: 1.0})
	g.MergeEdge("b", "a", EdgeObservation{Type: EdgeExplicit, Weight: 1.0})

	if g.OutDegree("a") != 2 {
		t.Errorf("OutDegree(a) = %d, want 2", g.OutDegree("a"))
	}
	if g.InDegree("a") != 1 {
		t.Errorf("InDegree(a) = %d, want 1", g.InDegree("a"))
	}

	succ := g.Successors("a")
	if len(succ) != 2 || succ[0] != "b" || succ[1] != "c" {
		t.Errorf("Successors(a) = %v, want [b c]", succ)
	}
}

// TestGraph_EnsureNodePlaceholder verifies target-only nodes get defaults
func TestGraph_EnsureNodePlaceholder(t *testing.T) {
	g := NewGraph()
	g.MergeEdge("a", "ghost", EdgeObservation{Type: EdgeExplicit, Weight: 1.0})

	node, err := g.Node("ghost")
	if err != nil {
		t.Fatalf("Node failed: %v", err)
	}
	if node.DeviceType != "unknown" {
		t.Errorf("DeviceType = %q, want \"unknown\"", node.DeviceType)
	}
	if node.Anomalous {
		t.Error("Placeholder node should not be anomalous")
	}
	if node.TotalTrafficKB != 0 {
		t.Errorf("TotalTrafficKB = %v, want 0", node.TotalTrafficKB)
	}
}

// TestGraph_PlaceholderTypeBackfill verifies a target-first node picks
// up its device type when its own telemetry arrives later
func TestGraph_PlaceholderTypeBackfill(t *testing.T) {
	g := NewGraph()
	g.MergeEdge("a", "x", EdgeObservation{Type: EdgeExplicit, Weight: 1.0})

	ev := event("x", time.Second)
	ev.DeviceType = "camera"
	g.UpsertNode(ev)

	node, err := g.Node("x")
	if err != nil {
		t.Fatalf("Node failed: %v", err)
	}
	if node.DeviceType != "camera" {
		t.Errorf("DeviceType = %q, want \"camera\" after backfill", node.DeviceType)
	}

	// A later event never downgrades a concrete type back to the default.
	ev = event("x", 2*time.Second)
	ev.DeviceType = "unknown"
	g.UpsertNode(ev)

	node, _ = g.Node("x")
	if node.DeviceType != "camera" {
		t.Errorf("DeviceType = %q, want \"camera\" to stick", node.DeviceType)
	}
}
