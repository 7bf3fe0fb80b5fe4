package detect

import (
	"sort"

	"github.com/dd0wney/cluso-netwatch/pkg/algorithms"
	"github.com/dd0wney/cluso-netwatch/pkg/netgraph"
)

// CriticalDevices identifies devices with a significant bridging role
// via betweenness centrality: score at or above CriticalityThreshold,
// sorted descending, capped at MaxCriticalDevices. Graphs below
// MinNodesForCentrality yield an empty list. Ties sort by device id for
// deterministic output.
func CriticalDevices(g *netgraph.Graph) []CriticalDevice {
	critical := make([]CriticalDevice, 0)

	if g.NodeCount() < MinNodesForCentrality {
		return critical
	}

	betweenness := algorithms.BetweennessCentrality(g)

	for _, id := range g.NodeIDs() {
		score := betweenness[id]
		if score < CriticalityThreshold {
			continue
		}

		node, err := g.Node(id)
		if err != nil {
			continue
		}
		critical = append(critical, CriticalDevice{
			DeviceID:         id,
			CriticalityScore: round3(score),
			DeviceType:       node.DeviceType,
			IsAnomalous:      node.Anomalous,
		})
	}

	sort.SliceStable(critical, func(i, j int) bool {
		if critical[i].CriticalityScore != critical[j].CriticalityScore {
			return critical[i].CriticalityScore > critical[j].CriticalityScore
		}
		return critical[i].DeviceID < critical[j].DeviceID
	})

	if len(critical) > MaxCriticalDevices {
		critical = critical[:MaxCriticalDevices]
	}
	return critical
}

// IsolatedDevices returns devices with at most MaxIsolatedDegree
// combined connections: likely victims or dormant compromised hosts.
func IsolatedDevices(g *netgraph.Graph) []string {
	isolated := make([]string, 0)
	for _, id := range g.NodeIDs() {
		if g.InDegree(id)+g.OutDegree(id) <= MaxIsolatedDegree {
			isolated = append(isolated, id)
		}
	}
	return isolated
}
