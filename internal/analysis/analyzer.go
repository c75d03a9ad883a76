package analysis

import (
	"fmt"
	"sync"
	"time"

	"github.com/piolla/waterpump/internal/domain/entity"
)

// Analyzer runs segmentation, per-batch classification and aggregation.
// It holds no state between calls and is safe for concurrent use.
type Analyzer struct {
	windowSize       int
	concurrencyLimit int
	now              func() time.Time
}

type Option func(*Analyzer)

func WithWindowSize(n int) Option {
	return func(a *Analyzer) {
		a.windowSize = n
	}
}

// WithConcurrencyLimit caps how many batches are analysed at once. Values <= 0 are ignored.
func WithConcurrencyLimit(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.concurrencyLimit = n
		}
	}
}

// WithClock overrides the clock used to stamp report metadata.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) {
		a.now = now
	}
}

func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{
		windowSize:       DefaultWindowSize,
		concurrencyLimit: 8,
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Analyzer) WindowSize() int {
	return a.windowSize
}

// AnalyzeBatch derives statistics and every classification for one batch.
func AnalyzeBatch(b entity.Batch) entity.BatchAnalysis {
	values := b.Values()
	s := ComputeStatistics(values)

	return entity.BatchAnalysis{
		BatchID:        b.ID,
		StartTimestamp: b.Start(),
		EndTimestamp:   b.End(),
		RecordCount:    len(b.Samples),
		Statistics:     s,
		ValueLabel:     Label(s),
		Trend:          ClassifyTrend(values),
		Stability:      ClassifyStability(s),
		AlertLevel:     ClassifyAlert(s),
		RawData:        b.Samples,
	}
}

// Analyze segments samples and analyses each batch. Results are ordered by batch ID
// regardless of the concurrency limit.
func (a *Analyzer) Analyze(samples []entity.Sample) ([]entity.BatchAnalysis, error) {
	batches, err := Segment(samples, a.windowSize)
	if err != nil {
		return nil, err
	}

	results := make([]entity.BatchAnalysis, len(batches))
	sem := make(chan struct{}, a.concurrencyLimit)
	var wg sync.WaitGroup

	for i, b := range batches {
		wg.Add(1)
		sem <- struct{}{}

		go func(i int, b entity.Batch) {
			defer wg.Done()
			defer func() { <-sem }()

			results[i] = AnalyzeBatch(b)
		}(i, b)
	}
	wg.Wait()

	return results, nil
}

// Run analyses samples and wraps results and summary in a report envelope.
func (a *Analyzer) Run(samples []entity.Sample, source string) (*entity.Report, error) {
	analyses, err := a.Analyze(samples)
	if err != nil {
		return nil, err
	}

	summary, err := Summarize(analyses)
	if err != nil {
		return nil, fmt.Errorf("summarize: %w", err)
	}

	return &entity.Report{
		Metadata: entity.ReportMetadata{
			AnalysisDate: a.now(),
			TotalBatches: len(analyses),
			WindowSize:   a.windowSize,
			DataSource:   source,
		},
		Summary:         summary,
		AnalysisResults: analyses,
	}, nil
}
