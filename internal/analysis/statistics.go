package analysis

import (
	"github.com/montanaflynn/stats"

	"github.com/piolla/waterpump/internal/domain/entity"
)

// ComputeStatistics returns descriptive statistics over a batch's values.
// Std is the population standard deviation. An empty input yields the zero value.
func ComputeStatistics(values []float64) entity.BatchStatistics {
	if len(values) == 0 {
		return entity.BatchStatistics{}
	}

	data := stats.Float64Data(values)

	// errors are only returned for empty input, which is excluded above
	mean, _ := stats.Mean(data)
	median, _ := stats.Median(data)
	std, _ := stats.StandardDeviationPopulation(data)
	lo, _ := stats.Min(data)
	hi, _ := stats.Max(data)

	return entity.BatchStatistics{
		Mean:   mean,
		Median: median,
		Std:    std,
		Min:    lo,
		Max:    hi,
		Range:  hi - lo,
	}
}
