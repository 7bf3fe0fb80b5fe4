package detect

import (
	"sort"
	"strings"

	"github.com/dd0wney/cluso-netwatch/pkg/algorithms"
	"github.com/dd0wney/cluso-netwatch/pkg/netgraph"
)

// LateralMovement scans for staged compromise: short directed paths
// connecting two independently anomalous devices. Fewer than two
// anomalous devices is an unconditional non-detection. Every edge
// traversed by a kept path is relabeled lateral as a side effect; this
// may overwrite a c2 label written by the botnet scan, which is the
// deliberate last-writer-wins policy of the fixed analysis order.
func LateralMovement(g *netgraph.Graph) *LateralMovementResult {
	result := &LateralMovementResult{
		AttackPaths:        make([]AttackPath, 0),
		CompromisedDevices: make([]string, 0),
	}

	anomalous := g.AnomalousIDs()
	if len(anomalous) < MinAnomalousForLateral {
		return result
	}

	seen := make(map[string]bool)

	for _, src := range anomalous {
		for _, dst := range anomalous {
			if src == dst {
				continue
			}

			path := algorithms.ShortestPath(g, src, dst)
			if len(path) < MinPathNodes || len(path) > MaxPathNodes {
				continue
			}

			key := strings.Join(path, "\x00")
			if seen[key] {
				continue
			}
			seen[key] = true

			result.AttackPaths = append(result.AttackPaths, AttackPath{
				Path:        path,
				Length:      len(path),
				EntryPoint:  path[0],
				FinalTarget: path[len(path)-1],
			})
		}
	}

	if len(result.AttackPaths) == 0 {
		return result
	}

	result.LateralMovementDetected = true
	result.EntryPoint = mostFrequentEntry(result.AttackPaths)

	compromised := make(map[string]bool)
	for _, ap := range result.AttackPaths {
		for i, id := range ap.Path {
			compromised[id] = true
			if i > 0 {
				if edge, err := g.Edge(ap.Path[i-1], id); err == nil {
					edge.Type = netgraph.EdgeLateral
				}
			}
		}
	}
	for id := range compromised {
		result.CompromisedDevices = append(result.CompromisedDevices, id)
	}
	sort.Strings(result.CompromisedDevices)

	return result
}

// mostFrequentEntry picks the path start occurring most often among the
// kept paths. Ties go to the entry encountered first in path order.
func mostFrequentEntry(paths []AttackPath) string {
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, ap := range paths {
		if counts[ap.EntryPoint] == 0 {
			order = append(order, ap.EntryPoint)
		}
		counts[ap.EntryPoint]++
	}

	best := ""
	bestCount := 0
	for _, entry := range order {
		if counts[entry] > bestCount {
			best = entry
			bestCount = counts[entry]
		}
	}
	return best
}
