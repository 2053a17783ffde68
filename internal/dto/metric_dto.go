package dto

import (
	"time"

	"github.com/caresync/caresync/internal/analysis"
)

type AddMetricRequest struct {
	MetricName string    `json:"metric_name"`
	Value      float64   `json:"value"`
	Unit       string    `json:"unit,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
	Notes      string    `json:"notes,omitempty"`
}

type AddMetricResponse struct {
	Message    string `json:"message"`
	MetricID   uint   `json:"metric_id"`
	IsCritical bool   `json:"is_critical"`
}

type AnalysisResponse struct {
	Analysis map[string]analysis.Summary `json:"analysis"`
}
