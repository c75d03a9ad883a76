package analysis

import (
	"time"

	"github.com/piolla/waterpump/internal/domain/entity"
)

var t0 = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

func samplesFrom(values ...float64) []entity.Sample {
	out := make([]entity.Sample, len(values))
	for i, v := range values {
		out[i] = entity.Sample{Timestamp: t0.Add(time.Duration(i) * 10 * time.Minute), Value: v}
	}
	return out
}

func rampSamples(n int, base, step float64) []entity.Sample {
	values := make([]float64, n)
	for i := range values {
		values[i] = base + float64(i)*step
	}
	return samplesFrom(values...)
}
