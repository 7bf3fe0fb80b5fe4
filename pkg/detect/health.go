package detect

import (
	"github.com/dd0wney/cluso-netwatch/pkg/algorithms"
	"github.com/dd0wney/cluso-netwatch/pkg/netgraph"
)

// Health score composition. Anomaly density dominates; connectivity and
// isolation refine the remainder.
const (
	healthAnomalyWeight      = 65.0
	healthConnectivityWeight = 25.0
	healthIsolationWeight    = 10.0
	healthDegreeNorm         = 6.0
)

// HealthScore summarizes graph state on a 0-100 scale, rounded to two
// decimals. An empty graph scores exactly 100.0 as the neutral
// baseline.
func HealthScore(g *netgraph.Graph) float64 {
	total := g.NodeCount()
	if total == 0 {
		return 100.0
	}

	anomalyRatio := float64(len(g.AnomalousIDs())) / float64(total)
	isolatedRatio := float64(len(IsolatedDevices(g))) / float64(total)

	connectivity := algorithms.AverageDegree(g) / healthDegreeNorm
	if connectivity > 1.0 {
		connectivity = 1.0
	}

	health := (1.0-anomalyRatio)*healthAnomalyWeight +
		connectivity*healthConnectivityWeight +
		(1.0-isolatedRatio)*healthIsolationWeight

	if health < 0.0 {
		health = 0.0
	}
	if health > 100.0 {
		health = 100.0
	}
	return round2(health)
}
