package analysis

import (
	"math"

	"github.com/piolla/waterpump/internal/domain/entity"
)

// Summarize folds batch analyses into a run summary.
//
// AvgTemperature is the mean of per-batch means, so a short final batch carries
// the same weight as a full one.
func Summarize(analyses []entity.BatchAnalysis) (entity.RunSummary, error) {
	if len(analyses) == 0 {
		return entity.RunSummary{}, ErrEmptyRun
	}

	summary := entity.RunSummary{
		TotalBatches:    len(analyses),
		MaxTemperature:  math.Inf(-1),
		MinTemperature:  math.Inf(1),
		AlertCounts:     make(map[entity.AlertLevel]int, len(entity.AlertLevels)),
		TrendCounts:     make(map[entity.Trend]int, len(entity.Trends)),
		StabilityCounts: make(map[entity.Stability]int, len(entity.Stabilities)),
		CriticalBatches: []entity.BatchAnalysis{},
		AnalysisPeriod: entity.AnalysisPeriod{
			Start: analyses[0].StartTimestamp,
			End:   analyses[len(analyses)-1].EndTimestamp,
		},
	}
	for _, a := range entity.AlertLevels {
		summary.AlertCounts[a] = 0
	}
	for _, t := range entity.Trends {
		summary.TrendCounts[t] = 0
	}
	for _, s := range entity.Stabilities {
		summary.StabilityCounts[s] = 0
	}

	var sumOfMeans float64
	for _, a := range analyses {
		sumOfMeans += a.Statistics.Mean
		summary.MaxTemperature = math.Max(summary.MaxTemperature, a.Statistics.Max)
		summary.MinTemperature = math.Min(summary.MinTemperature, a.Statistics.Min)

		summary.AlertCounts[a.AlertLevel]++
		summary.TrendCounts[a.Trend]++
		summary.StabilityCounts[a.Stability]++

		if a.AlertLevel.IsFlagged() {
			summary.CriticalBatches = append(summary.CriticalBatches, a)
		}
	}
	summary.AvgTemperature = sumOfMeans / float64(len(analyses))

	return summary, nil
}
