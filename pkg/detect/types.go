package detect

import (
	"time"
)

// Detection thresholds. These are fixed contract values: downstream
// reporting depends on the exact cutoffs and the exported rounding.
const (
	// MinBotnetNodes is the smallest graph worth scanning for C2
	// fan-out patterns.
	MinBotnetNodes = 4
	// MinFanOut is the absolute out-degree floor for a C2 candidate.
	MinFanOut = 3
	// FanOutFraction scales the out-degree requirement with graph size.
	FanOutFraction = 0.25
	// OutInRatio is the minimum out/(in+1) ratio for a C2 candidate.
	OutInRatio = 2.0
	// BotnetConfidence is reported whenever any candidate exists.
	BotnetConfidence = 0.85

	// MinAnomalousForLateral is the hard precondition for the lateral
	// movement scan.
	MinAnomalousForLateral = 2
	// MinPathNodes and MaxPathNodes bound a qualifying attack path
	// (2..4 nodes, i.e. at most 3 hops).
	MinPathNodes = 2
	MaxPathNodes = 4

	// MinAttackWave is the smallest simultaneous anomaly count treated
	// as a coordinated attack.
	MinAttackWave = 3
	// MinAttackDensity is the required anomalous fraction of the fleet.
	MinAttackDensity = 0.20

	// CriticalityThreshold keeps only nodes with a significant bridging
	// role.
	CriticalityThreshold = 0.08
	// MaxCriticalDevices caps the critical device list.
	MaxCriticalDevices = 10
	// MinNodesForCentrality is the smallest graph where betweenness is
	// meaningful.
	MinNodesForCentrality = 3

	// MaxIsolatedDegree is the combined degree at or below which a
	// device counts as isolated.
	MaxIsolatedDegree = 1
)

// C2Candidate describes one suspected command-and-control device.
type C2Candidate struct {
	DeviceID       string  `json:"device_id"`
	OutConnections int     `json:"out_connections"`
	InConnections  int     `json:"in_connections"`
	C2Score        float64 `json:"c2_score"`
}

// BotnetResult is the outcome of the C2 fan-out scan.
type BotnetResult struct {
	BotnetDetected   bool          `json:"botnet_detected"`
	C2Candidates     []C2Candidate `json:"c2_candidates"`
	RecruitedDevices []string      `json:"recruited_devices"`
	Confidence       float64       `json:"confidence"`
}

// AttackPath is one qualifying path between two anomalous devices.
type AttackPath struct {
	Path        []string `json:"path"`
	Length      int      `json:"length"`
	EntryPoint  string   `json:"entry_point"`
	FinalTarget string   `json:"final_target"`
}

// LateralMovementResult is the outcome of the staged-compromise scan.
type LateralMovementResult struct {
	LateralMovementDetected bool         `json:"lateral_movement_detected"`
	AttackPaths             []AttackPath `json:"attack_paths"`
	EntryPoint              string       `json:"entry_point"`
	CompromisedDevices      []string     `json:"compromised_devices"`
}

// CoordinatedAttackResult is the outcome of the simultaneous-anomaly
// scan.
type CoordinatedAttackResult struct {
	CoordinatedAttack bool       `json:"coordinated_attack"`
	AttackWave        int        `json:"attack_wave"`
	AffectedDevices   []string   `json:"affected_devices"`
	AttackStartTime   *time.Time `json:"attack_start_time"`
}

// CriticalDevice is a device with a significant bridging role in the
// communication graph.
type CriticalDevice struct {
	DeviceID         string  `json:"device_id"`
	CriticalityScore float64 `json:"criticality_score"`
	DeviceType       string  `json:"device_type"`
	IsAnomalous      bool    `json:"is_anomalous"`
}
