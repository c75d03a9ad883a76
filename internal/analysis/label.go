package analysis

import (
	"fmt"

	"github.com/piolla/waterpump/internal/domain/entity"
)

// Label builds the composite "{temp}_{variability}_{range}" label.
func Label(s entity.BatchStatistics) string {
	return fmt.Sprintf("%s_%s_%s", tempCategory(s.Mean), variability(s.Std), rangeCategory(s.Range))
}

func tempCategory(mean float64) string {
	switch {
	case mean < 40:
		return entity.TempLow
	case mean < 70:
		return entity.TempNormal
	case mean < 85:
		return entity.TempHigh
	default:
		return entity.TempOverheat
	}
}

func variability(std float64) string {
	switch {
	case std < 2:
		return entity.VariabilityStable
	case std < 5:
		return entity.VariabilityModerate
	default:
		return entity.VariabilityUnstable
	}
}

func rangeCategory(r float64) string {
	switch {
	case r < 5:
		return entity.RangeConstant
	case r < 15:
		return entity.RangeVariable
	default:
		return entity.RangeVolatile
	}
}
