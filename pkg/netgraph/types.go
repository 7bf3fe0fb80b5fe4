package netgraph

import (
	"time"
)

// EdgeType classifies a communication edge. The baseline types come
// from graph construction; detectors may relabel an edge afterwards.
// Relabeling is last-writer-wins.
type EdgeType string

const (
	// EdgeExplicit marks an edge derived from an event that named its
	// target directly.
	EdgeExplicit EdgeType = "explicit"
	// EdgeInferred marks an edge manufactured by the likelihood scorer.
	EdgeInferred EdgeType = "inferred"
	// EdgeC2 marks an edge from a command-and-control candidate to a
	// recruited device.
	EdgeC2 EdgeType = "c2"
	// EdgeLateral marks an edge traversed by a lateral-movement path.
	EdgeLateral EdgeType = "lateral"
)

// Node is one device observed in the batch. A node is created on the
// first event referencing its id and updated on every later one; it is
// never removed within a batch.
type Node struct {
	ID         string
	DeviceType string

	// Anomalous is OR'd across all events for the device and never
	// cleared within a batch.
	Anomalous bool

	// CPU and memory are kept as an explicit running mean over all
	// observations for the device.
	cpuSum  float64
	memSum  float64
	samples int

	TotalTrafficKB float64
	LastSeen       time.Time
}

// AvgCPU returns the mean CPU usage over all observations, or 0 for a
// node that was only ever seen as a communication target.
func (n *Node) AvgCPU() float64 {
	if n.samples == 0 {
		return 0.0
	}
	return n.cpuSum / float64(n.samples)
}

// AvgMemory returns the mean memory usage over all observations.
func (n *Node) AvgMemory() float64 {
	if n.samples == 0 {
		return 0.0
	}
	return n.memSum / float64(n.samples)
}

// Samples returns how many telemetry observations fed this node.
func (n *Node) Samples() int {
	return n.samples
}

// Edge is the single aggregated communication record for an ordered
// device pair. Repeat observations merge into the same edge.
type Edge struct {
	From string
	To   string

	// Type is deliberately mutable: construction writes explicit or
	// inferred, detectors may overwrite with c2 or lateral.
	Type EdgeType

	// Weight is the maximum observed likelihood; explicit edges pin it
	// at 1.0.
	Weight float64

	Count     int
	PacketSum float64
	OutKBSum  float64
	InKBSum   float64
	LastSeen  time.Time
}
