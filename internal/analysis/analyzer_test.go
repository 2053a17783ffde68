package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(day int) time.Time {
	return time.Date(2026, 3, day, 10, 0, 0, 0, time.UTC)
}

func TestAnalyzeHeartRateSeries(t *testing.T) {
	result := Analyze([]Measurement{
		{Name: "heart_rate", Value: 70, RecordedAt: at(1)},
		{Name: "heart_rate", Value: 110, RecordedAt: at(2)},
	})

	require.Contains(t, result, "heart_rate")
	summary := result["heart_rate"]

	assert.Equal(t, 110.0, summary.LatestValue)
	assert.Equal(t, 90.0, summary.Average)
	assert.Equal(t, 70.0, summary.Min)
	assert.Equal(t, 110.0, summary.Max)
	assert.Equal(t, TrendIncreasing, summary.Trend)

	require.Len(t, summary.CriticalAlerts, 1)
	assert.Equal(t, 110.0, summary.CriticalAlerts[0].Value)
	assert.Equal(t, SeverityWarning, summary.CriticalAlerts[0].Severity)
}

func TestAnalyzeEmptyInput(t *testing.T) {
	result := Analyze(nil)
	require.NotNil(t, result)
	assert.Empty(t, result)
}

func TestAnalyzeSingleValue(t *testing.T) {
	result := Analyze([]Measurement{
		{Name: "temperature", Value: 36.6, RecordedAt: at(1)},
	})

	summary := result["temperature"]
	assert.Equal(t, 36.6, summary.LatestValue)
	assert.Equal(t, TrendInsufficientData, summary.Trend)
	assert.Empty(t, summary.CriticalAlerts)
}

func TestAnalyzeStableTrend(t *testing.T) {
	result := Analyze([]Measurement{
		{Name: "blood_sugar", Value: 100, RecordedAt: at(1)},
		{Name: "blood_sugar", Value: 95, RecordedAt: at(2)},
		{Name: "blood_sugar", Value: 100, RecordedAt: at(3)},
	})

	// Trend compares first against last only.
	assert.Equal(t, TrendStable, result["blood_sugar"].Trend)
}

func TestAnalyzeUnsortedInput(t *testing.T) {
	result := Analyze([]Measurement{
		{Name: "heart_rate", Value: 95, RecordedAt: at(3)},
		{Name: "heart_rate", Value: 60, RecordedAt: at(1)},
		{Name: "heart_rate", Value: 80, RecordedAt: at(2)},
	})

	summary := result["heart_rate"]
	assert.Equal(t, 95.0, summary.LatestValue)
	assert.Equal(t, TrendIncreasing, summary.Trend)
}

func TestAnalyzeTiedTimestampsKeepSubmissionOrder(t *testing.T) {
	ts := at(1)
	result := Analyze([]Measurement{
		{Name: "heart_rate", Value: 72, RecordedAt: ts},
		{Name: "heart_rate", Value: 75, RecordedAt: ts},
	})

	assert.Equal(t, 75.0, result["heart_rate"].LatestValue)
}

func TestAnalyzeUnknownMetricNeverAlerts(t *testing.T) {
	result := Analyze([]Measurement{
		{Name: "steps", Value: 1, RecordedAt: at(1)},
		{Name: "steps", Value: 100000, RecordedAt: at(2)},
	})

	assert.Empty(t, result["steps"].CriticalAlerts)
}

func TestCheckCriticalSeverityBoundaries(t *testing.T) {
	// heart_rate range is 60-100; critical below 48 or above 120.
	tests := []struct {
		name     string
		value    float64
		alert    bool
		severity string
	}{
		{"in range low edge", 60, false, ""},
		{"in range high edge", 100, false, ""},
		{"warning above", 110, true, SeverityWarning},
		{"warning at 20% boundary", 120, true, SeverityWarning},
		{"critical above", 121, true, SeverityCritical},
		{"warning below", 50, true, SeverityWarning},
		{"warning at lower 20% boundary", 48, true, SeverityWarning},
		{"critical below", 47, true, SeverityCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alert, ok := CheckCritical("heart_rate", tt.value)
			assert.Equal(t, tt.alert, ok)
			if tt.alert {
				assert.Equal(t, tt.severity, alert.Severity)
				assert.Equal(t, Threshold{Min: 60, Max: 100}, alert.Threshold)
			}
		})
	}
}

func TestCheckCriticalUnknownMetric(t *testing.T) {
	_, ok := CheckCritical("oxygen_saturation", 10)
	assert.False(t, ok)
}
