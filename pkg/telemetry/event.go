package telemetry

import (
	"time"
)

// Event is a fully normalized telemetry record. All fields are resolved:
// missing numerics are zero, the timestamp is always valid, and the
// anomaly indicator has been collapsed into a single boolean.
type Event struct {
	DeviceID     string
	DeviceType   string
	Timestamp    time.Time
	CPUUsage     float64
	MemoryUsage  float64
	NetworkInKB  float64
	NetworkOutKB float64
	PacketRate   float64
	Anomalous    bool

	// CommTarget is the optional explicit communication target. Empty
	// means the event did not declare one and edge inference applies.
	CommTarget string
}

// TotalTrafficKB returns the combined inbound and outbound volume.
func (e Event) TotalTrafficKB() float64 {
	return e.NetworkInKB + e.NetworkOutKB
}

// RawEvent is a telemetry record as it arrives on the wire. Every field
// except the device id is optional, numerics may arrive as JSON numbers
// or strings, and the anomaly indicator may be spelled several ways
// depending on which upstream classifier produced the record.
type RawEvent struct {
	DeviceID   string `json:"device_id"`
	DeviceType string `json:"device_type"`
	Timestamp  string `json:"timestamp"`

	CPUUsage     any `json:"cpu_usage"`
	MemoryUsage  any `json:"memory_usage"`
	NetworkInKB  any `json:"network_in_kb"`
	NetworkOutKB any `json:"network_out_kb"`
	PacketRate   any `json:"packet_rate"`

	// Anomaly indicators, checked in this order.
	IsAnomaly   *bool  `json:"is_anomaly"`
	Anomaly     *bool  `json:"anomaly"`
	Label       string `json:"label"`
	AttackLabel string `json:"attack_label"`

	CommTarget string `json:"comm_target"`
}
