package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

var (
	// ErrUnprocessable marks a run whose input can never be analysed; retrying will not help.
	ErrUnprocessable = errors.New("run cannot be processed")
	// ErrSummaryNotReady is returned while a run is still pending or running.
	ErrSummaryNotReady = errors.New("summary not ready")
)

const reportContentType = "application/json"

type Publisher interface {
	Publish(ctx context.Context, body json.RawMessage) error
}

func UploadKey(runID, fileName string) string {
	return "runs/" + runID + "/" + fileName
}

func ReportKey(runID string) string {
	return "runs/" + runID + "/analysis.json"
}

// Backoff configures publishWithRetry.
type Backoff struct {
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	MaxAttempts int
}

var DefaultBackoff = Backoff{
	BaseDelay:   500 * time.Millisecond,
	MaxDelay:    10 * time.Second,
	MaxAttempts: 5,
}

func publishWithRetry(ctx context.Context, p Publisher, b Backoff, msg json.RawMessage) error {
	var lastErr error
	attempts := max(b.MaxAttempts, 1)

	for attempt := 1; attempt <= attempts; attempt++ {
		err := p.Publish(ctx, msg)
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt == attempts {
			break
		}

		backoff := b.BaseDelay << (attempt - 1)
		if backoff > b.MaxDelay {
			backoff = b.MaxDelay
		}

		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return errors.New("publish canceled by context")
		}
	}

	return lastErr
}
