package netgraph

import (
	"sort"
	"time"

	"github.com/dd0wney/cluso-netwatch/pkg/telemetry"
)

// Graph is an in-memory directed communication graph for a single
// analysis call. It is not safe for concurrent use; callers running
// concurrent analyses must build one graph per call, since detectors
// mutate edge and node labels as a side effect.
type Graph struct {
	nodes map[string]*Node
	out   map[string]map[string]*Edge // src -> dst -> edge
	in    map[string]map[string]*Edge // dst -> src -> edge
	edges int
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes: make(map[string]*Node),
		out:   make(map[string]map[string]*Edge),
		in:    make(map[string]map[string]*Edge),
	}
}

// placeholderDeviceType marks nodes created for a communication target
// before any of the device's own telemetry has been seen.
const placeholderDeviceType = "unknown"

// UpsertNode creates or updates the node for the event's device.
// Updates OR the anomaly flag, fold CPU/memory into the running mean,
// accumulate traffic volume, and advance the last-seen timestamp. A
// node first created as a placeholder target gets its device type
// back-filled here, whatever order the batch arrived in.
func (g *Graph) UpsertNode(ev telemetry.Event) *Node {
	node, ok := g.nodes[ev.DeviceID]
	if !ok {
		node = &Node{
			ID:         ev.DeviceID,
			DeviceType: ev.DeviceType,
		}
		g.nodes[ev.DeviceID] = node
	}

	if node.DeviceType == placeholderDeviceType && ev.DeviceType != "" {
		node.DeviceType = ev.DeviceType
	}
	node.Anomalous = node.Anomalous || ev.Anomalous
	node.cpuSum += ev.CPUUsage
	node.memSum += ev.MemoryUsage
	node.samples++
	node.TotalTrafficKB += ev.TotalTrafficKB()
	if ev.Timestamp.After(node.LastSeen) {
		node.LastSeen = ev.Timestamp
	}
	return node
}

// EnsureNode creates a placeholder node if the id has never been seen.
// Used for communication targets that were never observed as a source;
// such nodes carry default attributes until real telemetry arrives.
func (g *Graph) EnsureNode(id string) *Node {
	node, ok := g.nodes[id]
	if !ok {
		node = &Node{ID: id, DeviceType: placeholderDeviceType}
		g.nodes[id] = node
	}
	return node
}

// EdgeObservation carries the per-observation contributions merged into
// an aggregated edge.
type EdgeObservation struct {
	Type       EdgeType
	Weight     float64
	PacketRate float64
	OutKB      float64
	InKB       float64
	Seen       time.Time
}

// MergeEdge adds an observation for the ordered pair (from, to),
// creating the aggregated edge on first sight. Merging increments the
// count, accumulates packet and traffic sums, keeps the maximum weight,
// advances last-seen, and overwrites the type with the newest
// observation's type. Self-loops are rejected with ErrSelfLoop.
func (g *Graph) MergeEdge(from, to string, obs EdgeObservation) (*Edge, error) {
	if from == to {
		return nil, newGraphError("MergeEdge", "edge", from+"->"+to, ErrSelfLoop)
	}

	g.EnsureNode(from)
	g.EnsureNode(to)

	if g.out[from] == nil {
		g.out[from] = make(map[string]*Edge)
	}
	if g.in[to] == nil {
		g.in[to] = make(map[string]*Edge)
	}

	edge, ok := g.out[from][to]
	if !ok {
		edge = &Edge{From: from, To: to}
		g.out[from][to] = edge
		g.in[to][from] = edge
		g.edges++
	}

	edge.Type = obs.Type
	if obs.Weight > edge.Weight {
		edge.Weight = obs.Weight
	}
	edge.Count++
	edge.PacketSum += obs.PacketRate
	edge.OutKBSum += obs.OutKB
	edge.InKBSum += obs.InKB
	if obs.Seen.After(edge.LastSeen) {
		edge.LastSeen = obs.Seen
	}
	return edge, nil
}

// Node returns the node for the given device id, or ErrNodeNotFound.
func (g *Graph) Node(id string) (*Node, error) {
	node, ok := g.nodes[id]
	if !ok {
		return nil, newGraphError("Node", "node", id, ErrNodeNotFound)
	}
	return node, nil
}

// HasNode reports whether the device id exists in the graph.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Edge returns the aggregated edge for the ordered pair, or
// ErrEdgeNotFound.
func (g *Graph) Edge(from, to string) (*Edge, error) {
	if edge, ok := g.out[from][to]; ok {
		return edge, nil
	}
	return nil, newGraphError("Edge", "edge", from+"->"+to, ErrEdgeNotFound)
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of aggregated edges.
func (g *Graph) EdgeCount() int {
	return g.edges
}

// NodeIDs returns all device ids in lexical order. Every traversal in
// this package iterates ids in this order so that analysis results are
// deterministic functions of the batch.
func (g *Graph) NodeIDs() []string {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Nodes returns all nodes ordered by device id.
func (g *Graph) Nodes() []*Node {
	ids := g.NodeIDs()
	nodes := make([]*Node, 0, len(ids))
	for _, id := range ids {
		nodes = append(nodes, g.nodes[id])
	}
	return nodes
}

// Edges returns all aggregated edges ordered by (from, to).
func (g *Graph) Edges() []*Edge {
	edges := make([]*Edge, 0, g.edges)
	for _, dsts := range g.out {
		for _, edge := range dsts {
			edges = append(edges, edge)
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From != edges[j].From {
			return edges[i].From < edges[j].From
		}
		return edges[i].To < edges[j].To
	})
	return edges
}

// OutEdges returns the outgoing edges of a node ordered by target id.
func (g *Graph) OutEdges(id string) []*Edge {
	dsts := g.out[id]
	edges := make([]*Edge, 0, len(dsts))
	for _, edge := range dsts {
		edges = append(edges, edge)
	}
	sort.Slice(edges, func(i, j int) bool { return edges[i].To < edges[j].To })
	return edges
}

// InEdges returns the incoming edges of a node ordered by source id.
func (g *Graph) InEdges(id string) []*Edge {
	srcs := g.in[id]
	edges := make([]*Edge, 0, len(srcs))
	for _, edge := range srcs {
		edges = append(edges, edge)
	}
	sort.Slice(edges, func(i, j int) bool { return edges[i].From < edges[j].From })
	return edges
}

// Successors returns the ids this node has outgoing edges to, sorted.
func (g *Graph) Successors(id string) []string {
	dsts := g.out[id]
	ids := make([]string, 0, len(dsts))
	for dst := range dsts {
		ids = append(ids, dst)
	}
	sort.Strings(ids)
	return ids
}

// OutDegree returns the number of distinct outgoing edges.
func (g *Graph) OutDegree(id string) int {
	return len(g.out[id])
}

// InDegree returns the number of distinct incoming edges.
func (g *Graph) InDegree(id string) int {
	return len(g.in[id])
}

// AnomalousIDs returns the ids of all anomalous nodes, sorted.
func (g *Graph) AnomalousIDs() []string {
	ids := make([]string, 0)
	for id, node := range g.nodes {
		if node.Anomalous {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
