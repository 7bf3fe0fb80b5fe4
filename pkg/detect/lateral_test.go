package detect

import (
	"reflect"
	"testing"

	"github.com/dd0wney/cluso-netwatch/pkg/netgraph"
)

// TestLateralMovement_Chain tests the canonical staged compromise
func TestLateralMovement_Chain(t *testing.T) {
	g := buildGraph(t, [][2]string{{"A", "B"}, {"B", "C"}})
	markAnomalous(t, g, "A", "C")

	result := LateralMovement(g)

	if !result.LateralMovementDetected {
		t.Fatal("Expected detection for anomalous chain endpoints")
	}
	if len(result.AttackPaths) != 1 {
		t.Fatalf("Expected 1 path, got %d", len(result.AttackPaths))
	}

	path := result.AttackPaths[0]
	if !reflect.DeepEqual(path.Path, []string{"A", "B", "C"}) {
		t.Errorf("Path = %v, want [A B C]", path.Path)
	}
	if path.Length != 3 {
		t.Errorf("Length = %d, want 3", path.Length)
	}
	if path.EntryPoint != "A" || path.FinalTarget != "C" {
		t.Errorf("Entry/target = %s/%s, want A/C", path.EntryPoint, path.FinalTarget)
	}
	if result.EntryPoint != "A" {
		t.Errorf("EntryPoint = %q, want A", result.EntryPoint)
	}
	if !reflect.DeepEqual(result.CompromisedDevices, []string{"A", "B", "C"}) {
		t.Errorf("CompromisedDevices = %v, want [A B C]", result.CompromisedDevices)
	}

	// Traversed edges must be relabeled.
	for _, pair := range [][2]string{{"A", "B"}, {"B", "C"}} {
		edge, err := g.Edge(pair[0], pair[1])
		if err != nil {
			t.Fatalf("Edge %v missing: %v", pair, err)
		}
		if edge.Type != netgraph.EdgeLateral {
			t.Errorf("Edge %v type = %q, want lateral", pair, edge.Type)
		}
	}
}

// TestLateralMovement_Precondition tests the hard two-anomalous floor
func TestLateralMovement_Precondition(t *testing.T) {
	g := buildGraph(t, [][2]string{{"A", "B"}, {"B", "C"}})
	markAnomalous(t, g, "A")

	result := LateralMovement(g)

	if result.LateralMovementDetected {
		t.Error("Expected no detection with a single anomalous device")
	}
	if len(result.AttackPaths) != 0 {
		t.Errorf("Expected no paths, got %v", result.AttackPaths)
	}
}

// TestLateralMovement_PathTooLong tests the 4-node path cap
func TestLateralMovement_PathTooLong(t *testing.T) {
	g := buildGraph(t, [][2]string{
		{"A", "B"}, {"B", "C"}, {"C", "D"}, {"D", "E"},
	})
	markAnomalous(t, g, "A", "E")

	result := LateralMovement(g)

	if result.LateralMovementDetected {
		t.Error("Expected no detection: shortest path has 5 nodes")
	}
}

// TestLateralMovement_DirectEdge tests the 2-node minimum path
func TestLateralMovement_DirectEdge(t *testing.T) {
	g := buildGraph(t, [][2]string{{"A", "B"}})
	markAnomalous(t, g, "A", "B")

	result := LateralMovement(g)

	if !result.LateralMovementDetected {
		t.Fatal("Expected detection for a direct anomalous pair")
	}
	if result.AttackPaths[0].Length != 2 {
		t.Errorf("Length = %d, want 2", result.AttackPaths[0].Length)
	}
}

// TestLateralMovement_EntryPointFrequency tests entry point selection
func TestLateralMovement_EntryPointFrequency(t *testing.T) {
	// A reaches both C and D; C reaches only D. A starts two kept
	// paths, so it wins the entry-point vote.
	g := buildGraph(t, [][2]string{
		{"A", "B"}, {"B", "C"}, {"B", "D"}, {"C", "D"},
	})
	markAnomalous(t, g, "A", "C", "D")

	result := LateralMovement(g)

	if !result.LateralMovementDetected {
		t.Fatal("Expected detection")
	}
	if result.EntryPoint != "A" {
		t.Errorf("EntryPoint = %q, want A (most frequent path start)", result.EntryPoint)
	}
}

// TestLateralMovement_OverwritesC2Label tests the last-writer-wins
// relabel policy of the fixed analysis order
func TestLateralMovement_OverwritesC2Label(t *testing.T) {
	g := buildGraph(t, [][2]string{
		{"hub", "s1"}, {"hub", "s2"}, {"hub", "s3"}, {"hub", "s4"},
	})
	markAnomalous(t, g, "hub", "s1")

	botnet := Botnet(g)
	if !botnet.BotnetDetected {
		t.Fatal("Expected botnet detection first")
	}
	edge, _ := g.Edge("hub", "s1")
	if edge.Type != netgraph.EdgeC2 {
		t.Fatalf("Edge type = %q, want c2 after botnet pass", edge.Type)
	}

	result := LateralMovement(g)
	if !result.LateralMovementDetected {
		t.Fatal("Expected lateral movement detection")
	}
	if edge.Type != netgraph.EdgeLateral {
		t.Errorf("Edge type = %q, want lateral (overwrites c2)", edge.Type)
	}
}
