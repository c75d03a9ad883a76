package presentation

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piolla/waterpump/internal/domain/entity"
)

func withMean(id int, mean float64) entity.BatchAnalysis {
	return entity.BatchAnalysis{BatchID: id, Statistics: entity.BatchStatistics{Mean: mean, Max: mean}}
}

func tenBatchSummary() entity.RunSummary {
	return entity.RunSummary{
		TotalBatches:    10,
		AlertCounts:     map[entity.AlertLevel]int{},
		TrendCounts:     map[entity.Trend]int{},
		StabilityCounts: map[entity.Stability]int{},
	}
}

func TestInsightsTemperatureBands(t *testing.T) {
	analyses := []entity.BatchAnalysis{
		withMean(1, 39.9), withMean(2, 40), withMean(3, 69.9), withMean(4, 70),
		withMean(5, 80), withMean(6, 80.1), withMean(7, 85), withMean(8, 95),
	}
	in := NewInsights(entity.RunSummary{TotalBatches: len(analyses)}, analyses)

	require.Len(t, in.TemperatureBands, 4)
	assert.Equal(t, TemperatureBand{Band: entity.TempLow, Count: 1, Percent: 12.5}, in.TemperatureBands[0])
	assert.Equal(t, TemperatureBand{Band: entity.TempNormal, Count: 2, Percent: 25}, in.TemperatureBands[1])
	assert.Equal(t, TemperatureBand{Band: entity.TempHigh, Count: 3, Percent: 37.5}, in.TemperatureBands[2])
	assert.Equal(t, TemperatureBand{Band: entity.TempOverheat, Count: 2, Percent: 25}, in.TemperatureBands[3])

	// strictly above 80
	require.Len(t, in.HotBatches, 3)
	assert.Equal(t, 6, in.HotBatches[0].BatchID)
	assert.Equal(t, 8, in.HotBatches[2].BatchID)
}

func TestInsightsObservationThresholds(t *testing.T) {
	tests := []struct {
		name     string
		rising   int
		plateau  int
		unstable int
		want     []Observation
	}{
		{name: "at thresholds", rising: 3, plateau: 6, unstable: 2, want: []Observation{}},
		{name: "rising above 30%", rising: 4, want: []Observation{ObservationRisingDominant}},
		{name: "unstable above 20%", unstable: 3, want: []Observation{ObservationUnstableFrequent}},
		{name: "plateau above 60%", plateau: 7, want: []Observation{ObservationMostlyPlateau}},
		{name: "rising and unstable", rising: 4, unstable: 3, want: []Observation{ObservationRisingDominant, ObservationUnstableFrequent}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tenBatchSummary()
			s.TrendCounts[entity.TrendRising] = tt.rising
			s.TrendCounts[entity.TrendPlateau] = tt.plateau
			s.StabilityCounts[entity.StabilityUnstable] = tt.unstable

			assert.Equal(t, tt.want, NewInsights(s, nil).Observations)
		})
	}
}

func TestInsightsMaintenancePriorities(t *testing.T) {
	tests := []struct {
		name     string
		caution  int
		critical int
		unstable int
		want     []MaintenancePriority
	}{
		{name: "at thresholds", caution: 1, critical: 1, unstable: 3, want: []MaintenancePriority{PriorityPreventive}},
		{name: "flagged above 20%", caution: 2, critical: 1, want: []MaintenancePriority{PriorityCoolingSystem, PriorityPreventive}},
		{name: "unstable above 30%", unstable: 4, want: []MaintenancePriority{PriorityMechanicalParts, PriorityPreventive}},
		{name: "both", critical: 3, unstable: 4, want: []MaintenancePriority{PriorityCoolingSystem, PriorityMechanicalParts, PriorityPreventive}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tenBatchSummary()
			s.AlertCounts[entity.AlertCaution] = tt.caution
			s.AlertCounts[entity.AlertCritical] = tt.critical
			s.StabilityCounts[entity.StabilityUnstable] = tt.unstable

			assert.Equal(t, tt.want, NewInsights(s, nil).Priorities)
		})
	}
}

func TestInsightsSchedule(t *testing.T) {
	s := tenBatchSummary()
	s.AvgTemperature = 75
	assert.Equal(t, MaintenanceSchedule{NextInspection: "2 weeks"}, NewInsights(s, nil).Schedule)

	s.AvgTemperature = 75.1
	assert.Equal(t, MaintenanceSchedule{Shortened: true, NextInspection: "1 week"}, NewInsights(s, nil).Schedule)
}

func TestInsightsEmptyRun(t *testing.T) {
	in := NewInsights(entity.RunSummary{}, nil)
	assert.Empty(t, in.Observations)
	assert.Equal(t, []MaintenancePriority{PriorityPreventive}, in.Priorities)
	for _, b := range in.TemperatureBands {
		assert.Zero(t, b.Percent)
	}
}

func sampleReport() *entity.Report {
	t0 := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	normal := withMean(1, 50)
	normal.AlertLevel = entity.AlertNormal
	normal.ValueLabel = "Normal_Stable_Constant"
	hot := withMean(2, 88)
	hot.Statistics.Max = 93
	hot.AlertLevel = entity.AlertCritical
	hot.ValueLabel = "Overheat_Stable_Constant"
	hot.StartTimestamp = t0.Add(time.Hour)

	return &entity.Report{
		Metadata: entity.ReportMetadata{AnalysisDate: t0, TotalBatches: 2, WindowSize: 100, DataSource: "pump.csv"},
		Summary: entity.RunSummary{
			TotalBatches:    2,
			AvgTemperature:  69,
			MaxTemperature:  93,
			MinTemperature:  50,
			AlertCounts:     map[entity.AlertLevel]int{entity.AlertNormal: 1, entity.AlertCritical: 1},
			TrendCounts:     map[entity.Trend]int{entity.TrendPlateau: 2},
			StabilityCounts: map[entity.Stability]int{entity.StabilityVeryStable: 2},
			CriticalBatches: []entity.BatchAnalysis{hot},
		},
		AnalysisResults: []entity.BatchAnalysis{normal, hot},
	}
}

func TestWriteReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, sampleReport(), ""))
	out := buf.String()

	assert.Contains(t, out, "Water pump temperature report")
	assert.Contains(t, out, "- Critical: 1 (50.0%)")
	assert.Contains(t, out, "- Watch: 0 (0.0%)")
	assert.Contains(t, out, "- Overheat (>85°C): 1 (50.0%)")
	assert.Contains(t, out, "- Plateau: 2 (100.0%)")
	assert.Contains(t, out, "Temperature mostly held steady")
	assert.Contains(t, out, "- #2: 88.0°C (Overheat_Stable_Constant)")
	assert.Contains(t, out, "- #2 Critical: mean 88.0°C, max 93.0°C, Overheat_Stable_Constant, 2024-05-01 01:00")
	assert.Contains(t, out, "1. Full cooling system inspection")
	assert.Contains(t, out, "Next inspection in 2 weeks")
}

func TestWriteReportKorean(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, sampleReport(), LocaleKorean))
	out := buf.String()

	assert.Contains(t, out, "워터펌프 온도 분석 리포트")
	assert.Contains(t, out, "- 위험: 1 (50.0%)")
	assert.Contains(t, out, "- 과열 (>85°C): 1 (50.0%)")
	assert.Contains(t, out, "과열_안정_일정")
	assert.Contains(t, out, "정기 점검: 2주 후")
}
