package presentation

import (
	"time"

	"github.com/piolla/waterpump/internal/domain/entity"
)

type CriticalBatchView struct {
	BatchID        int       `json:"batch_id"`
	StartTimestamp time.Time `json:"start_timestamp"`
	EndTimestamp   time.Time `json:"end_timestamp"`
	Mean           float64   `json:"mean"`
	Max            float64   `json:"max"`
	ValueLabel     string    `json:"value_label"`
	AlertLevel     string    `json:"alert_level"`
}

// SummaryView is a RunSummary with display names applied, used by API responses.
type SummaryView struct {
	TotalBatches    int                   `json:"total_batches"`
	AvgTemperature  float64               `json:"avg_temperature"`
	MaxTemperature  float64               `json:"max_temperature"`
	MinTemperature  float64               `json:"min_temperature"`
	AlertCounts     map[string]int        `json:"alert_counts"`
	TrendCounts     map[string]int        `json:"trend_counts"`
	StabilityCounts map[string]int        `json:"stability_counts"`
	CriticalBatches []CriticalBatchView   `json:"critical_batches"`
	AnalysisPeriod  entity.AnalysisPeriod `json:"analysis_period"`
}

func NewSummaryView(s entity.RunSummary, locale string) SummaryView {
	view := SummaryView{
		TotalBatches:    s.TotalBatches,
		AvgTemperature:  s.AvgTemperature,
		MaxTemperature:  s.MaxTemperature,
		MinTemperature:  s.MinTemperature,
		AlertCounts:     make(map[string]int, len(s.AlertCounts)),
		TrendCounts:     make(map[string]int, len(s.TrendCounts)),
		StabilityCounts: make(map[string]int, len(s.StabilityCounts)),
		CriticalBatches: NewCriticalBatchViews(s.CriticalBatches, locale),
		AnalysisPeriod:  s.AnalysisPeriod,
	}
	for k, v := range s.AlertCounts {
		view.AlertCounts[AlertName(k, locale)] = v
	}
	for k, v := range s.TrendCounts {
		view.TrendCounts[TrendName(k, locale)] = v
	}
	for k, v := range s.StabilityCounts {
		view.StabilityCounts[StabilityName(k, locale)] = v
	}
	return view
}

func NewCriticalBatchViews(batches []entity.BatchAnalysis, locale string) []CriticalBatchView {
	views := make([]CriticalBatchView, 0, len(batches))
	for _, b := range batches {
		views = append(views, CriticalBatchView{
			BatchID:        b.BatchID,
			StartTimestamp: b.StartTimestamp,
			EndTimestamp:   b.EndTimestamp,
			Mean:           b.Statistics.Mean,
			Max:            b.Statistics.Max,
			ValueLabel:     LocalizeLabel(b.ValueLabel, locale),
			AlertLevel:     AlertName(b.AlertLevel, locale),
		})
	}
	return views
}

// EmergencyBatches returns the Critical batches of a summary, in batch order.
func EmergencyBatches(s entity.RunSummary) []entity.BatchAnalysis {
	out := make([]entity.BatchAnalysis, 0)
	for _, b := range s.CriticalBatches {
		if b.AlertLevel == entity.AlertCritical {
			out = append(out, b)
		}
	}
	return out
}
