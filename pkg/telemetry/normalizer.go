package telemetry

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// ErrEmptyBatch is returned when a batch contains no record with a
// usable device id. It is the only per-batch contract violation; all
// per-field problems degrade to safe defaults instead.
var ErrEmptyBatch = errors.New("batch contains no events with a device id")

// MaxDeviceIDLen caps the device id used as a graph node key. Records
// with oversized ids are dropped like records with no id at all.
const MaxDeviceIDLen = 128

// Label values treated as anomalous or benign when the categorical
// label field has to stand in for a missing boolean indicator.
var (
	anomalousLabels = map[string]bool{
		"anomaly":   true,
		"anomalous": true,
		"attack":    true,
		"malicious": true,
	}
	benignLabels = map[string]bool{
		"normal": true,
		"ok":     true,
		"benign": true,
	}
)

// Timestamp layouts accepted from upstream producers. The simulator
// emits RFC 3339 with offset; some exporters drop the offset.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Normalize converts one raw record into a canonical Event. It is a
// pure transform: parse failures substitute defaults (zero for
// numerics, now for the timestamp, false for the anomaly flag) and
// never produce an error. The device id is the caller's problem; an
// empty id yields an Event with an empty DeviceID that NormalizeBatch
// discards.
func Normalize(raw RawEvent, now time.Time) Event {
	return Event{
		DeviceID:     strings.TrimSpace(raw.DeviceID),
		DeviceType:   defaultString(raw.DeviceType, "unknown"),
		Timestamp:    parseTimestamp(raw.Timestamp, now),
		CPUUsage:     toFloat(raw.CPUUsage),
		MemoryUsage:  toFloat(raw.MemoryUsage),
		NetworkInKB:  toFloat(raw.NetworkInKB),
		NetworkOutKB: toFloat(raw.NetworkOutKB),
		PacketRate:   toFloat(raw.PacketRate),
		Anomalous:    resolveAnomaly(raw),
		CommTarget:   strings.TrimSpace(raw.CommTarget),
	}
}

// NormalizeBatch normalizes every record in the batch, dropping records
// without a usable device id (empty, or longer than MaxDeviceIDLen). A
// batch where nothing survives is a caller contract violation and
// returns ErrEmptyBatch.
func NormalizeBatch(raws []RawEvent, now time.Time) ([]Event, error) {
	events := make([]Event, 0, len(raws))
	for _, raw := range raws {
		ev := Normalize(raw, now)
		if ev.DeviceID == "" || len(ev.DeviceID) > MaxDeviceIDLen {
			continue
		}
		events = append(events, ev)
	}
	if len(raws) > 0 && len(events) == 0 {
		return nil, ErrEmptyBatch
	}
	return events, nil
}

// resolveAnomaly collapses the possible anomaly indicators into one
// boolean. Priority: explicit boolean, boolean alias, categorical
// label, attack label. Unresolvable means not anomalous.
func resolveAnomaly(raw RawEvent) bool {
	if raw.IsAnomaly != nil {
		return *raw.IsAnomaly
	}
	if raw.Anomaly != nil {
		return *raw.Anomaly
	}

	label := strings.ToLower(strings.TrimSpace(raw.Label))
	if anomalousLabels[label] {
		return true
	}
	if benignLabels[label] {
		return false
	}

	attack := strings.ToLower(strings.TrimSpace(raw.AttackLabel))
	return attack != "" && attack != "normal"
}

func parseTimestamp(s string, now time.Time) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return now.UTC()
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC()
		}
	}
	return now.UTC()
}

// toFloat coerces a loosely typed numeric field. JSON decoding yields
// float64 for numbers; some producers quote their numerics.
func toFloat(v any) float64 {
	switch n := v.(type) {
	case nil:
		return 0.0
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0.0
		}
		return f
	default:
		return 0.0
	}
}

func defaultString(s, fallback string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	return s
}
