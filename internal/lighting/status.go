package lighting

import (
	"encoding/json"
	"fmt"
	"time"
)

// DefaultOfflineThreshold is how stale a report's timestamp may be before a
// device is considered offline. Devices report roughly every 30s.
const DefaultOfflineThreshold = 40 * time.Second

// Report is a device telemetry snapshot. Immutable once decoded; only the
// most recent report per device is retained by the store.
type Report struct {
	BatteryPercentage  float64
	BatteryVoltage     float64
	UptimeSeconds      float64
	WifiSignalStrength float64

	// ObservedAt is the device's own clock at the time of the report,
	// in epoch seconds. Liveness is derived from it, not from arrival time.
	ObservedAt int64
}

// statusFields are the numeric fields a status payload must carry.
var statusFields = []string{
	"batteryPercentage",
	"batteryVoltage",
	"uptime",
	"wifiSignalStrength",
	"timestamp",
}

// DecodeReport parses raw bytes into a Report.
//
// All five fields must be present and numeric; no coercion is performed.
// Classification mirrors DecodeState: ErrMalformed for invalid JSON,
// ErrSchemaMismatch for a valid JSON value of the wrong shape.
func DecodeReport(data []byte) (Report, error) {
	if !json.Valid(data) {
		return Report{}, ErrMalformed
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return Report{}, ErrSchemaMismatch
	}

	values := make(map[string]float64, len(statusFields))
	for _, field := range statusFields {
		v, ok := raw[field].(float64)
		if !ok {
			return Report{}, fmt.Errorf("%w: status requires numeric %s", ErrSchemaMismatch, field)
		}
		values[field] = v
	}

	return Report{
		BatteryPercentage:  values["batteryPercentage"],
		BatteryVoltage:     values["batteryVoltage"],
		UptimeSeconds:      values["uptime"],
		WifiSignalStrength: values["wifiSignalStrength"],
		ObservedAt:         int64(values["timestamp"]),
	}, nil
}

// Online reports whether a device is considered live at the given time.
//
// A nil report (no status ever received) is always offline. Otherwise the
// device is online iff its report timestamp is younger than threshold.
// Consumers must treat telemetry fields as unknown while offline, even if
// a stale report is still held.
func (r *Report) Online(now time.Time, threshold time.Duration) bool {
	if r == nil {
		return false
	}
	age := now.Unix() - r.ObservedAt
	return age < int64(threshold/time.Second)
}
