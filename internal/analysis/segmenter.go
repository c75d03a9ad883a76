package analysis

import (
	"fmt"

	"github.com/piolla/waterpump/internal/domain/entity"
)

const DefaultWindowSize = 100

// Segment splits samples into consecutive, non-overlapping batches of windowSize.
// The last batch keeps whatever remains. Samples are copied, so batches never
// alias the input slice.
func Segment(samples []entity.Sample, windowSize int) ([]entity.Batch, error) {
	if windowSize <= 0 {
		return nil, fmt.Errorf("%w: window size must be positive, got %d", ErrConfiguration, windowSize)
	}

	batches := make([]entity.Batch, 0, (len(samples)+windowSize-1)/windowSize)
	for start := 0; start < len(samples); start += windowSize {
		end := min(start+windowSize, len(samples))

		window := make([]entity.Sample, end-start)
		copy(window, samples[start:end])

		batches = append(batches, entity.Batch{
			ID:      len(batches) + 1,
			Samples: window,
		})
	}

	return batches, nil
}
