package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"

	"github.com/piolla/waterpump/internal/analysis"
	"github.com/piolla/waterpump/internal/domain/entity"
	"github.com/piolla/waterpump/internal/ingest"
	"github.com/piolla/waterpump/pkg/utils"
)

type RunStatusUpdater interface {
	UpdateRunStatus(ctx context.Context, runID string, status entity.RunStatus, reportKey, errMsg string) error
}

type Storage interface {
	Upload(ctx context.Context, key, contentType string, file []byte) error
	GetFileReader(ctx context.Context, key string) (io.ReadCloser, error)
}

type SummaryCache interface {
	SetStatus(ctx context.Context, runID string, status entity.RunStatus) error
	SetSummary(ctx context.Context, runID string, summary entity.RunSummary) error
}

type AnalysisUseCase struct {
	RunRepo     RunStatusUpdater
	Storage     Storage
	Cache       SummaryCache
	Publisher   Publisher
	WindowSize  int
	Concurrency int
}

func NewAnalysisUseCase(r RunStatusUpdater, s Storage, c SummaryCache, p Publisher, windowSize, concurrency int) *AnalysisUseCase {
	return &AnalysisUseCase{
		RunRepo:     r,
		Storage:     s,
		Cache:       c,
		Publisher:   p,
		WindowSize:  windowSize,
		Concurrency: concurrency,
	}
}

// ProcessRun loads the uploaded file, analyses it and publishes the report.
// Errors wrapping ErrUnprocessable mean the run was marked FAILED and must not be retried.
func (u *AnalysisUseCase) ProcessRun(ctx context.Context, msg *entity.RunCreatedMessage) error {
	logger := log.WithField("run_id", msg.RunID)
	logger.Info("processing run")

	if err := u.setStatus(ctx, msg.RunID, entity.StatusRunning, "", ""); err != nil {
		return err
	}

	report, err := u.analyze(ctx, msg)
	if err != nil {
		if errors.Is(err, ErrUnprocessable) {
			if failErr := u.setStatus(ctx, msg.RunID, entity.StatusFailed, "", err.Error()); failErr != nil {
				logger.WithError(failErr).Error("failed to mark run as failed")
			}
		}
		return err
	}

	reportKey := ReportKey(msg.RunID)
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := u.Storage.Upload(ctx, reportKey, reportContentType, data); err != nil {
		return err
	}

	if err := u.Cache.SetSummary(ctx, msg.RunID, report.Summary); err != nil {
		return fmt.Errorf("cache summary: %w", err)
	}

	criticalIDs := make([]int, 0, len(report.Summary.CriticalBatches))
	for _, b := range report.Summary.CriticalBatches {
		criticalIDs = append(criticalIDs, b.BatchID)
	}
	completed, err := utils.ToRawMessage(entity.RunCompletedMessage{
		RunID:            msg.RunID,
		ReportKey:        reportKey,
		TotalBatches:     report.Summary.TotalBatches,
		CriticalBatchIDs: criticalIDs,
	})
	if err != nil {
		return err
	}
	if err := u.Publisher.Publish(ctx, completed); err != nil {
		return fmt.Errorf("publish completion: %w", err)
	}

	if err := u.setStatus(ctx, msg.RunID, entity.StatusCompleted, reportKey, ""); err != nil {
		return err
	}

	logger.WithFields(log.Fields{
		"batches":  report.Summary.TotalBatches,
		"critical": len(criticalIDs),
	}).Info("run completed")
	return nil
}

func (u *AnalysisUseCase) analyze(ctx context.Context, msg *entity.RunCreatedMessage) (*entity.Report, error) {
	format, err := ingest.FormatFromName(msg.FileKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnprocessable, err)
	}

	reader, err := u.Storage.GetFileReader(ctx, msg.FileKey)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	res, err := ingest.Load(reader, format)
	if err != nil {
		if errors.Is(err, ingest.ErrRead) {
			return nil, fmt.Errorf("read %s: %w", msg.FileKey, err)
		}
		return nil, fmt.Errorf("%w: ingest %s: %w", ErrUnprocessable, msg.FileKey, err)
	}
	if res.Dropped > 0 {
		log.WithFields(log.Fields{
			"run_id":  msg.RunID,
			"dropped": res.Dropped,
			"total":   res.Total,
		}).Warn("dropped invalid rows")
	}

	windowSize := msg.WindowSize
	if windowSize == 0 {
		windowSize = u.WindowSize
	}
	analyzer := analysis.NewAnalyzer(
		analysis.WithWindowSize(windowSize),
		analysis.WithConcurrencyLimit(u.Concurrency),
	)

	report, err := analyzer.Run(res.Samples, msg.FileKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnprocessable, err)
	}
	return report, nil
}

func (u *AnalysisUseCase) setStatus(ctx context.Context, runID string, status entity.RunStatus, reportKey, errMsg string) error {
	if err := u.RunRepo.UpdateRunStatus(ctx, runID, status, reportKey, errMsg); err != nil {
		return fmt.Errorf("update run status: %w", err)
	}
	if err := u.Cache.SetStatus(ctx, runID, status); err != nil {
		return fmt.Errorf("cache run status: %w", err)
	}
	return nil
}
