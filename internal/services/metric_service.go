package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/caresync/caresync/internal/analysis"
	"github.com/caresync/caresync/internal/dto"
	"github.com/caresync/caresync/internal/models"
	"gorm.io/gorm"
)

var ErrMetricInvalid = errors.New("metric_name and recorded_at are required")

type MetricService struct {
	db *gorm.DB
}

func NewMetricService(db *gorm.DB) *MetricService {
	return &MetricService{db: db}
}

// Add appends one measurement to the patient's history. The critical
// flag is computed against the threshold table at write time so the
// row carries it permanently.
func (s *MetricService) Add(patientID uint, req *dto.AddMetricRequest) (*models.HealthMetric, error) {
	name := strings.TrimSpace(req.MetricName)
	if name == "" || req.RecordedAt.IsZero() {
		return nil, ErrMetricInvalid
	}

	_, critical := analysis.CheckCritical(name, req.Value)

	metric := models.HealthMetric{
		PatientID:  patientID,
		MetricName: name,
		Value:      req.Value,
		Unit:       req.Unit,
		RecordedAt: req.RecordedAt,
		IsCritical: critical,
		Notes:      req.Notes,
	}
	if err := s.db.Create(&metric).Error; err != nil {
		return nil, fmt.Errorf("create metric: %w", err)
	}
	return &metric, nil
}

// Analyze summarizes the patient's full metric history.
func (s *MetricService) Analyze(patientID uint) (map[string]analysis.Summary, error) {
	var metrics []models.HealthMetric
	// Insertion order (id) breaks recorded_at ties, matching the
	// analyzer's stable-sort contract.
	if err := s.db.Where("patient_id = ?", patientID).Order("id ASC").Find(&metrics).Error; err != nil {
		return nil, fmt.Errorf("load metrics: %w", err)
	}

	measurements := make([]analysis.Measurement, len(metrics))
	for i, m := range metrics {
		measurements[i] = analysis.Measurement{
			Name:       m.MetricName,
			Value:      m.Value,
			RecordedAt: m.RecordedAt,
		}
	}

	return analysis.Analyze(measurements), nil
}
