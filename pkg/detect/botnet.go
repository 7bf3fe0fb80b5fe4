package detect

import (
	"math"
	"sort"

	"github.com/dd0wney/cluso-netwatch/pkg/netgraph"
)

// Botnet scans for command-and-control fan-out: a device contacting a
// large share of the fleet while receiving little back. Detection is
// purely structural and independent of anomaly flags. Every edge from a
// candidate to a recruited device is relabeled c2 as a side effect.
// Graphs below MinBotnetNodes yield an empty result, not an error.
func Botnet(g *netgraph.Graph) *BotnetResult {
	result := &BotnetResult{
		C2Candidates:     make([]C2Candidate, 0),
		RecruitedDevices: make([]string, 0),
	}

	total := g.NodeCount()
	if total < MinBotnetNodes {
		return result
	}

	fanOutFloor := int(math.Round(FanOutFraction * float64(total)))
	if fanOutFloor < MinFanOut {
		fanOutFloor = MinFanOut
	}

	recruited := make(map[string]bool)

	for _, id := range g.NodeIDs() {
		out := g.OutDegree(id)
		in := g.InDegree(id)

		if out < fanOutFloor {
			continue
		}
		if float64(out)/float64(in+1) <= OutInRatio {
			continue
		}

		result.C2Candidates = append(result.C2Candidates, C2Candidate{
			DeviceID:       id,
			OutConnections: out,
			InConnections:  in,
			C2Score:        round3(float64(out) / float64(total)),
		})

		for _, edge := range g.OutEdges(id) {
			recruited[edge.To] = true
			edge.Type = netgraph.EdgeC2
		}
	}

	if len(result.C2Candidates) == 0 {
		return result
	}

	result.BotnetDetected = true
	result.Confidence = BotnetConfidence

	for id := range recruited {
		result.RecruitedDevices = append(result.RecruitedDevices, id)
	}
	sort.Strings(result.RecruitedDevices)

	return result
}

// round3 rounds to 3 decimal places, the exported score precision.
func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// round2 rounds to 2 decimal places, used for the health score.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
