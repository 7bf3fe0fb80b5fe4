// Package export materializes an analyzed graph into the rendering-ready
// node/edge lists consumed by the visualization frontend. Field names,
// label priority, and rounding are a byte-for-byte contract with the
// downstream renderer.
package export

import (
	"math"

	"github.com/dd0wney/cluso-netwatch/pkg/detect"
	"github.com/dd0wney/cluso-netwatch/pkg/netgraph"
)

// NodeGroup is the single display classification of a node.
type NodeGroup string

const (
	GroupNormal    NodeGroup = "normal"
	GroupAnomalous NodeGroup = "anomalous"
	GroupCritical  NodeGroup = "critical"
	GroupC2        NodeGroup = "c2"
)

// NodeRecord is one rendering-ready node.
type NodeRecord struct {
	ID             string    `json:"id"`
	Group          NodeGroup `json:"group"`
	DeviceType     string    `json:"device_type"`
	IsAnomalous    bool      `json:"is_anomalous"`
	TotalTrafficKB float64   `json:"total_traffic_kb"`
	AvgCPU         float64   `json:"avg_cpu"`
	AvgMemory      float64   `json:"avg_memory"`
	InDegree       int       `json:"in_degree"`
	OutDegree      int       `json:"out_degree"`
}

// EdgeRecord is one rendering-ready edge.
type EdgeRecord struct {
	Source  string            `json:"source"`
	Target  string            `json:"target"`
	Type    netgraph.EdgeType `json:"type"`
	Weight  float64           `json:"weight"`
	Count   int               `json:"count"`
	Packets float64           `json:"packets"`
	OutKB   float64           `json:"out_kb"`
}

// GraphExport is the full rendering payload.
type GraphExport struct {
	Nodes []NodeRecord `json:"nodes"`
	Edges []EdgeRecord `json:"edges"`
}

// Graph exports the analyzed graph with detection labels folded in.
// Each node gets exactly one group by fixed priority, highest wins:
// c2 (botnet candidate) beats critical, which applies only to nodes not
// already anomalous, which beats anomalous, which beats normal.
func Graph(g *netgraph.Graph, botnet *detect.BotnetResult, critical []detect.CriticalDevice) *GraphExport {
	c2 := make(map[string]bool, len(botnet.C2Candidates))
	for _, cand := range botnet.C2Candidates {
		c2[cand.DeviceID] = true
	}
	bridges := make(map[string]bool, len(critical))
	for _, dev := range critical {
		bridges[dev.DeviceID] = true
	}

	out := &GraphExport{
		Nodes: make([]NodeRecord, 0, g.NodeCount()),
		Edges: make([]EdgeRecord, 0, g.EdgeCount()),
	}

	for _, node := range g.Nodes() {
		out.Nodes = append(out.Nodes, NodeRecord{
			ID:             node.ID,
			Group:          classify(node, c2[node.ID], bridges[node.ID]),
			DeviceType:     node.DeviceType,
			IsAnomalous:    node.Anomalous,
			TotalTrafficKB: round2(node.TotalTrafficKB),
			AvgCPU:         round2(node.AvgCPU()),
			AvgMemory:      round2(node.AvgMemory()),
			InDegree:       g.InDegree(node.ID),
			OutDegree:      g.OutDegree(node.ID),
		})
	}

	for _, edge := range g.Edges() {
		out.Edges = append(out.Edges, EdgeRecord{
			Source:  edge.From,
			Target:  edge.To,
			Type:    edge.Type,
			Weight:  round3(edge.Weight),
			Count:   edge.Count,
			Packets: round2(edge.PacketSum),
			OutKB:   round2(edge.OutKBSum),
		})
	}

	return out
}

// classify applies the fixed group priority.
func classify(node *netgraph.Node, isC2, isCritical bool) NodeGroup {
	switch {
	case isC2:
		return GroupC2
	case isCritical && !node.Anomalous:
		return GroupCritical
	case node.Anomalous:
		return GroupAnomalous
	default:
		return GroupNormal
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
