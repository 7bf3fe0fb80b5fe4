package netgraph

import (
	"fmt"
	"sort"
	"time"

	"github.com/dd0wney/cluso-netwatch/pkg/telemetry"
	"github.com/dd0wney/cluso-netwatch/pkg/validation"
)

// Builder configuration defaults.
const (
	// DefaultInferenceWindow is how far apart two events may be for the
	// likelihood scorer to consider them a communication pair.
	DefaultInferenceWindow = 30 * time.Second
	// DefaultInferenceThreshold is the minimum score that manufactures
	// an inferred edge.
	DefaultInferenceThreshold = 0.55
	// DefaultMinTrafficKB is the traffic floor below which a pair
	// scores zero. Low-volume chatter is indistinguishable from noise.
	DefaultMinTrafficKB = 250.0
	// DefaultPacketRateNorm normalizes the combined packet rate term.
	DefaultPacketRateNorm = 2000.0
)

// Config controls graph construction.
type Config struct {
	// InferenceEnabled turns on the pairwise likelihood pass. Explicit
	// comm_target edges are always built.
	InferenceEnabled   bool          `yaml:"inference_enabled"`
	InferenceWindow    time.Duration `yaml:"inference_window"`
	InferenceThreshold float64       `yaml:"inference_threshold"`
	MinTrafficKB       float64       `yaml:"min_traffic_kb"`
	PacketRateNorm     float64       `yaml:"packet_rate_norm"`
}

// DefaultConfig returns the standard builder configuration with
// inference enabled.
func DefaultConfig() Config {
	return Config{
		InferenceEnabled:   true,
		InferenceWindow:    DefaultInferenceWindow,
		InferenceThreshold: DefaultInferenceThreshold,
		MinTrafficKB:       DefaultMinTrafficKB,
		PacketRateNorm:     DefaultPacketRateNorm,
	}
}

// Validate checks the configuration ranges, collecting every violation.
func (c Config) Validate() error {
	err := validation.NewConfigValidator("netgraph.Config").
		MinDuration("InferenceWindow", c.InferenceWindow, time.Second).
		RangeFloat("InferenceThreshold", c.InferenceThreshold, 0.0, 1.0).
		MinFloat("MinTrafficKB", c.MinTrafficKB, 0.0).
		PositiveFloat("PacketRateNorm", c.PacketRateNorm).
		Validate()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Build constructs the communication graph for one batch of normalized
// events: node upserts plus explicit edges in one pass, then the
// optional inference pass. Build is deterministic for a given batch and
// configuration.
func Build(events []telemetry.Event, cfg Config) (*Graph, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	g := NewGraph()

	for _, ev := range events {
		g.UpsertNode(ev)

		if ev.CommTarget == "" || ev.CommTarget == ev.DeviceID {
			// Self-targeted events are dropped, not errors.
			continue
		}
		_, err := g.MergeEdge(ev.DeviceID, ev.CommTarget, EdgeObservation{
			Type:       EdgeExplicit,
			Weight:     1.0,
			PacketRate: ev.PacketRate,
			OutKB:      ev.NetworkOutKB,
			InKB:       ev.NetworkInKB,
			Seen:       ev.Timestamp,
		})
		if err != nil {
			return nil, err
		}
	}

	if cfg.InferenceEnabled {
		if err := inferEdges(g, events, cfg); err != nil {
			return nil, err
		}
	}

	return g, nil
}

// inferEdges runs the pairwise likelihood scan. Events are time-sorted
// so the inner loop can stop once the gap exceeds the window; cost is
// near linear for sparse traffic and quadratic only under dense
// simultaneous bursts.
func inferEdges(g *Graph, events []telemetry.Event, cfg Config) error {
	ordered := make([]telemetry.Event, len(events))
	copy(ordered, events)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})

	for i := 0; i < len(ordered); i++ {
		a := ordered[i]
		for j := i + 1; j < len(ordered); j++ {
			b := ordered[j]
			if b.Timestamp.Sub(a.Timestamp) > cfg.InferenceWindow {
				break
			}
			if a.DeviceID == b.DeviceID {
				continue
			}

			if err := inferDirected(g, a, b, cfg); err != nil {
				return err
			}
			if err := inferDirected(g, b, a, cfg); err != nil {
				return err
			}
		}
	}
	return nil
}

// inferDirected scores src->dst and merges an inferred edge when the
// score meets the threshold.
func inferDirected(g *Graph, src, dst telemetry.Event, cfg Config) error {
	score := CommunicationLikelihood(src, dst, cfg)
	if score < cfg.InferenceThreshold {
		return nil
	}
	_, err := g.MergeEdge(src.DeviceID, dst.DeviceID, EdgeObservation{
		Type:       EdgeInferred,
		Weight:     score,
		PacketRate: src.PacketRate,
		OutKB:      src.NetworkOutKB,
		InKB:       dst.NetworkInKB,
		Seen:       laterOf(src.Timestamp, dst.Timestamp),
	})
	return err
}

// CommunicationLikelihood estimates how likely src was talking to dst.
// High outbound volume from src matched by high inbound volume at dst
// dominates the score; the combined packet rate contributes the rest.
// Pairs below the traffic floor score zero.
func CommunicationLikelihood(src, dst telemetry.Event, cfg Config) float64 {
	out := src.NetworkOutKB
	in := dst.NetworkInKB
	if out < cfg.MinTrafficKB || in < cfg.MinTrafficKB {
		return 0.0
	}

	symmetry := minFloat(out, in) / maxFloat(out, in)
	rate := minFloat((src.PacketRate+dst.PacketRate)/cfg.PacketRateNorm, 1.0)

	return clamp01(0.75*symmetry + 0.25*rate)
}

func laterOf(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func clamp01(v float64) float64 {
	if v < 0.0 {
		return 0.0
	}
	if v > 1.0 {
		return 1.0
	}
	return v
}
