package algorithms

import (
	"container/list"

	"github.com/dd0wney/cluso-netwatch/pkg/netgraph"
)

// brandesCentrality runs a single O(VE) Brandes pass and returns raw,
// unnormalised node betweenness. The caller applies the normalisation
// factor appropriate for its use.
func brandesCentrality(g *netgraph.Graph) (map[string]float64, []string) {
	nodeIDs := g.NodeIDs()

	betweenness := make(map[string]float64, len(nodeIDs))
	for _, id := range nodeIDs {
		betweenness[id] = 0.0
	}

	for _, source := range nodeIDs {
		stack := make([]string, 0, len(nodeIDs))
		predecessors := make(map[string][]string, len(nodeIDs))
		sigma := make(map[string]float64, len(nodeIDs))
		distance := make(map[string]int, len(nodeIDs))

		for _, id := range nodeIDs {
			predecessors[id] = nil
			sigma[id] = 0.0
			distance[id] = -1
		}

		sigma[source] = 1.0
		distance[source] = 0

		queue := list.New()
		queue.PushBack(source)

		for queue.Len() > 0 {
			v, ok := queue.Remove(queue.Front()).(string)
			if !ok {
				continue
			}
			stack = append(stack, v)

			for _, edge := range g.OutEdges(v) {
				w := edge.To

				if distance[w] < 0 {
					queue.PushBack(w)
					distance[w] = distance[v] + 1
				}

				if distance[w] == distance[v]+1 {
					sigma[w] += sigma[v]
					predecessors[w] = append(predecessors[w], v)
				}
			}
		}

		// Back-propagation of pair dependencies
		delta := make(map[string]float64, len(nodeIDs))
		for _, id := range nodeIDs {
			delta[id] = 0.0
		}

		for i := len(stack) - 1; i >= 0; i-- {
			w := stack[i]
			for _, pred := range predecessors[w] {
				delta[pred] += (sigma[pred] / sigma[w]) * (1.0 + delta[w])
			}
			if w != source {
				betweenness[w] += delta[w]
			}
		}
	}

	return betweenness, nodeIDs
}

// BetweennessCentrality computes betweenness centrality for all nodes:
// the fraction of all-pairs shortest paths that pass through each node.
// Scores are normalised by 1/((n-1)(n-2)) for directed graphs.
func BetweennessCentrality(g *netgraph.Graph) map[string]float64 {
	betweenness, nodeIDs := brandesCentrality(g)

	if len(nodeIDs) > 2 {
		normFactor := 1.0 / float64((len(nodeIDs)-1)*(len(nodeIDs)-2))
		for id := range betweenness {
			betweenness[id] *= normFactor
		}
	}

	return betweenness
}

// AverageDegree returns the mean combined degree over all nodes. Each
// directed edge contributes one out-degree and one in-degree.
func AverageDegree(g *netgraph.Graph) float64 {
	n := g.NodeCount()
	if n == 0 {
		return 0.0
	}
	return float64(2*g.EdgeCount()) / float64(n)
}
