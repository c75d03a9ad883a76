package analysis

import (
	"gonum.org/v1/gonum/stat"

	"github.com/piolla/waterpump/internal/domain/entity"
)

// trendThreshold is in value units per sample index, not per unit time.
const trendThreshold = 0.1

// Slope fits a least-squares line to values against their index 0..k-1.
func Slope(values []float64) float64 {
	xs := make([]float64, len(values))
	for i := range xs {
		xs[i] = float64(i)
	}
	_, beta := stat.LinearRegression(xs, values, nil, false)
	return beta
}

func ClassifyTrend(values []float64) entity.Trend {
	if len(values) < 2 {
		return entity.TrendInsufficient
	}

	slope := Slope(values)
	switch {
	case slope > trendThreshold:
		return entity.TrendRising
	case slope < -trendThreshold:
		return entity.TrendFalling
	default:
		return entity.TrendPlateau
	}
}

// CoefficientOfVariation is std/mean, or 0 when the mean is not positive.
func CoefficientOfVariation(s entity.BatchStatistics) float64 {
	if s.Mean > 0 {
		return s.Std / s.Mean
	}
	return 0
}

func ClassifyStability(s entity.BatchStatistics) entity.Stability {
	cv := CoefficientOfVariation(s)
	switch {
	case cv < 0.05:
		return entity.StabilityVeryStable
	case cv < 0.1:
		return entity.StabilityStable
	case cv < 0.2:
		return entity.StabilityModerate
	default:
		return entity.StabilityUnstable
	}
}

// ClassifyAlert checks peak and mean against each level, most severe first.
func ClassifyAlert(s entity.BatchStatistics) entity.AlertLevel {
	switch {
	case s.Max > 90 || s.Mean > 85:
		return entity.AlertCritical
	case s.Max > 80 || s.Mean > 75:
		return entity.AlertCaution
	case s.Max > 70 || s.Mean > 65:
		return entity.AlertWatch
	default:
		return entity.AlertNormal
	}
}
