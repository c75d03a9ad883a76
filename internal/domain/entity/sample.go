package entity

import "time"

type Sample struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// Batch is a contiguous window of samples. ID is 1-based.
type Batch struct {
	ID      int
	Samples []Sample
}

func (b Batch) Values() []float64 {
	values := make([]float64, len(b.Samples))
	for i, s := range b.Samples {
		values[i] = s.Value
	}
	return values
}

func (b Batch) Start() time.Time {
	if len(b.Samples) == 0 {
		return time.Time{}
	}
	return b.Samples[0].Timestamp
}

func (b Batch) End() time.Time {
	if len(b.Samples) == 0 {
		return time.Time{}
	}
	return b.Samples[len(b.Samples)-1].Timestamp
}
