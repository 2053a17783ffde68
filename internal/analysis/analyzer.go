// Package analysis summarizes patient health metrics: per-metric
// aggregates, a coarse trend signal and critical-value alerts.
package analysis

import (
	"sort"
	"time"
)

// Trend values. The trend compares only the first and last
// chronological value of a series; it is a coarse direction signal,
// not a regression.
const (
	TrendIncreasing       = "increasing"
	TrendDecreasing       = "decreasing"
	TrendStable           = "stable"
	TrendInsufficientData = "insufficient_data"
)

// Alert severities. A value outside its threshold range is a warning;
// once it is more than 20% beyond the range boundary it is critical.
const (
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// Measurement is a single metric reading.
type Measurement struct {
	Name       string
	Value      float64
	RecordedAt time.Time
}

// Threshold is the safe range for a metric.
type Threshold struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Alert reports a value outside its metric's safe range.
type Alert struct {
	Value     float64   `json:"value"`
	Threshold Threshold `json:"threshold"`
	Severity  string    `json:"severity"`
}

// Summary aggregates one metric's history.
type Summary struct {
	LatestValue    float64 `json:"latest_value"`
	Average        float64 `json:"average"`
	Min            float64 `json:"min"`
	Max            float64 `json:"max"`
	Trend          string  `json:"trend"`
	CriticalAlerts []Alert `json:"critical_alerts"`
}

// CriticalValues maps metric names to their safe ranges. Metrics
// without an entry never produce alerts.
var CriticalValues = map[string]Threshold{
	"blood_pressure_systolic":  {Min: 90, Max: 140},
	"blood_pressure_diastolic": {Min: 60, Max: 90},
	"heart_rate":               {Min: 60, Max: 100},
	"temperature":              {Min: 36.1, Max: 37.2},
	"blood_sugar":              {Min: 70, Max: 140},
}

// Analyze groups measurements by metric name and summarizes each group
// in chronological order. Empty input yields an empty map.
func Analyze(measurements []Measurement) map[string]Summary {
	analysis := make(map[string]Summary)

	groups := make(map[string][]Measurement)
	for _, m := range measurements {
		groups[m.Name] = append(groups[m.Name], m)
	}

	for name, group := range groups {
		// Stable sort keeps submission order for equal timestamps, so
		// the latest value is well defined on ties.
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].RecordedAt.Before(group[j].RecordedAt)
		})

		values := make([]float64, len(group))
		for i, m := range group {
			values[i] = m.Value
		}

		analysis[name] = Summary{
			LatestValue:    values[len(values)-1],
			Average:        average(values),
			Min:            minimum(values),
			Max:            maximum(values),
			Trend:          calculateTrend(values),
			CriticalAlerts: checkCriticalValues(name, values),
		}
	}

	return analysis
}

// CheckCritical evaluates a single value against its metric's safe
// range. ok is false when the metric has no configured threshold or
// the value is in range.
func CheckCritical(name string, value float64) (Alert, bool) {
	threshold, configured := CriticalValues[name]
	if !configured {
		return Alert{}, false
	}
	if value >= threshold.Min && value <= threshold.Max {
		return Alert{}, false
	}

	severity := SeverityWarning
	if value < threshold.Min*0.8 || value > threshold.Max*1.2 {
		severity = SeverityCritical
	}
	return Alert{Value: value, Threshold: threshold, Severity: severity}, true
}

func calculateTrend(values []float64) string {
	if len(values) < 2 {
		return TrendInsufficientData
	}
	first, last := values[0], values[len(values)-1]
	switch {
	case last > first:
		return TrendIncreasing
	case last < first:
		return TrendDecreasing
	default:
		return TrendStable
	}
}

func checkCriticalValues(name string, values []float64) []Alert {
	var alerts []Alert
	for _, v := range values {
		if alert, ok := CheckCritical(name, v); ok {
			alerts = append(alerts, alert)
		}
	}
	return alerts
}

func average(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func minimum(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maximum(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
