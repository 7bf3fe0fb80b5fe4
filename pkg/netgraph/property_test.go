package netgraph

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/dd0wney/cluso-netwatch/pkg/telemetry"
)

// TestBuildInvariants uses property-based testing to verify graph
// construction invariants that must hold for any batch.
func TestBuildInvariants(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	deviceID := gen.OneConstOf("d1", "d2", "d3", "d4", "d5", "d6", "d7", "d8")

	genEvents := gen.SliceOf(gopter.CombineGens(
		deviceID,
		gen.Float64Range(0, 2000),   // outbound KB
		gen.Float64Range(0, 2000),   // inbound KB
		gen.Float64Range(0, 3000),   // packet rate
		gen.Int64Range(0, 120),      // seconds offset
		gen.Bool(),                  // anomalous
	).Map(func(vals []any) telemetry.Event {
		return telemetry.Event{
			DeviceID:     vals[0].(string),
			DeviceType:   "sensor",
			NetworkOutKB: vals[1].(float64),
			NetworkInKB:  vals[2].(float64),
			PacketRate:   vals[3].(float64),
			Timestamp:    baseTime.Add(time.Duration(vals[4].(int64)) * time.Second),
			Anomalous:    vals[5].(bool),
		}
	}))

	// Property 1: node count equals the number of unique device ids,
	// regardless of event ordering or volume.
	properties.Property("one node per unique device id", prop.ForAll(
		func(events []telemetry.Event) bool {
			g, err := Build(events, DefaultConfig())
			if err != nil {
				return false
			}
			unique := make(map[string]bool)
			for _, ev := range events {
				unique[ev.DeviceID] = true
			}
			return g.NodeCount() == len(unique)
		},
		genEvents,
	))

	// Property 2: no self-loops and at most one edge per ordered pair.
	properties.Property("no self-loops, edges are aggregated", prop.ForAll(
		func(events []telemetry.Event) bool {
			g, err := Build(events, DefaultConfig())
			if err != nil {
				return false
			}
			seen := make(map[[2]string]bool)
			for _, edge := range g.Edges() {
				if edge.From == edge.To {
					return false
				}
				key := [2]string{edge.From, edge.To}
				if seen[key] {
					return false
				}
				seen[key] = true
			}
			return len(seen) == g.EdgeCount()
		},
		genEvents,
	))

	// Property 3: inferred edge weights stay within [0, 1]; explicit
	// edges pin weight at 1.
	properties.Property("edge weights are likelihoods", prop.ForAll(
		func(events []telemetry.Event) bool {
			g, err := Build(events, DefaultConfig())
			if err != nil {
				return false
			}
			for _, edge := range g.Edges() {
				if edge.Weight < 0.0 || edge.Weight > 1.0 {
					return false
				}
			}
			return true
		},
		genEvents,
	))

	properties.TestingRun(t)
}
