package services

import (
	"testing"
	"time"

	"github.com/caresync/caresync/internal/analysis"
	"github.com/caresync/caresync/internal/dto"
	"github.com/caresync/caresync/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddMetricComputesCriticalFlag(t *testing.T) {
	db := newTestDB(t)
	svc := NewMetricService(db)
	patient := createUser(t, db, "alice", models.RolePatient)

	normal, err := svc.Add(patient.ID, &dto.AddMetricRequest{
		MetricName: "heart_rate",
		Value:      72,
		Unit:       "bpm",
		RecordedAt: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.False(t, normal.IsCritical)

	high, err := svc.Add(patient.ID, &dto.AddMetricRequest{
		MetricName: "heart_rate",
		Value:      130,
		Unit:       "bpm",
		RecordedAt: time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.True(t, high.IsCritical)
}

func TestAddMetricValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewMetricService(db)
	patient := createUser(t, db, "alice", models.RolePatient)

	_, err := svc.Add(patient.ID, &dto.AddMetricRequest{
		MetricName: "   ",
		Value:      1,
		RecordedAt: time.Now(),
	})
	assert.ErrorIs(t, err, ErrMetricInvalid)

	_, err = svc.Add(patient.ID, &dto.AddMetricRequest{
		MetricName: "heart_rate",
		Value:      70,
	})
	assert.ErrorIs(t, err, ErrMetricInvalid)
}

func TestAnalyzeScopedToPatient(t *testing.T) {
	db := newTestDB(t)
	svc := NewMetricService(db)
	alice := createUser(t, db, "alice", models.RolePatient)
	bob := createUser(t, db, "bob", models.RolePatient)

	_, err := svc.Add(alice.ID, &dto.AddMetricRequest{
		MetricName: "heart_rate", Value: 70,
		RecordedAt: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	_, err = svc.Add(alice.ID, &dto.AddMetricRequest{
		MetricName: "heart_rate", Value: 110,
		RecordedAt: time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	_, err = svc.Add(bob.ID, &dto.AddMetricRequest{
		MetricName: "blood_sugar", Value: 500,
		RecordedAt: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	result, err := svc.Analyze(alice.ID)
	require.NoError(t, err)
	require.Len(t, result, 1)

	summary := result["heart_rate"]
	assert.Equal(t, 110.0, summary.LatestValue)
	assert.Equal(t, 90.0, summary.Average)
	assert.Equal(t, analysis.TrendIncreasing, summary.Trend)
	require.Len(t, summary.CriticalAlerts, 1)
	assert.Equal(t, analysis.SeverityWarning, summary.CriticalAlerts[0].Severity)
}

func TestAnalyzeNoMetrics(t *testing.T) {
	db := newTestDB(t)
	svc := NewMetricService(db)
	patient := createUser(t, db, "alice", models.RolePatient)

	result, err := svc.Analyze(patient.ID)
	require.NoError(t, err)
	assert.Empty(t, result)
}
