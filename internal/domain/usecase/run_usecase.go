package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/piolla/waterpump/internal/analysis"
	"github.com/piolla/waterpump/internal/domain/entity"
	"github.com/piolla/waterpump/internal/ingest"
	"github.com/piolla/waterpump/pkg/utils"
)

type RunStatusRepo interface {
	SetStatus(ctx context.Context, runID string, status entity.RunStatus) error
	GetStatus(ctx context.Context, runID string) (entity.RunStatus, error)
	SetSummary(ctx context.Context, runID string, summary entity.RunSummary) error
	GetSummary(ctx context.Context, runID string) (*entity.RunSummary, error)
}

type RunStorage interface {
	GetPresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
	Upload(ctx context.Context, key, contentType string, file []byte) error
	GetFileReader(ctx context.Context, key string) (io.ReadCloser, error)
}

type RunStore interface {
	CreateRun(ctx context.Context, run *entity.Run) error
	GetRun(ctx context.Context, runID string) (*entity.Run, error)
}

type RunUseCase struct {
	StatusRepo        RunStatusRepo
	S3Repo            RunStorage
	PostgresRepo      RunStore
	Publisher         Publisher
	DefaultWindowSize int
	Backoff           Backoff
}

func NewRunUseCase(r RunStatusRepo, s3 RunStorage, psql RunStore, pub Publisher, defaultWindowSize int) *RunUseCase {
	return &RunUseCase{
		StatusRepo:        r,
		S3Repo:            s3,
		PostgresRepo:      psql,
		Publisher:         pub,
		DefaultWindowSize: defaultWindowSize,
		Backoff:           DefaultBackoff,
	}
}

// CreateRun stores the uploaded file and queues it for analysis.
// A windowSize of 0 selects the default.
func (u *RunUseCase) CreateRun(ctx context.Context, fileBytes []byte, fileName, userID string, windowSize int) (*entity.Run, error) {
	if windowSize == 0 {
		windowSize = u.DefaultWindowSize
	}
	if windowSize <= 0 {
		return nil, fmt.Errorf("%w: window_size must be positive, got %d", analysis.ErrConfiguration, windowSize)
	}
	if _, err := ingest.FormatFromName(fileName); err != nil {
		return nil, err
	}

	runID := uuid.New().String()
	s3Key := UploadKey(runID, filepath.Base(fileName))

	if err := u.S3Repo.Upload(ctx, s3Key, "application/octet-stream", fileBytes); err != nil {
		return nil, err
	}

	now := time.Now()
	run := &entity.Run{
		RunID:      runID,
		UserID:     userID,
		FileKey:    s3Key,
		WindowSize: windowSize,
		Status:     entity.StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := u.PostgresRepo.CreateRun(ctx, run); err != nil {
		return nil, err
	}

	if err := u.StatusRepo.SetStatus(ctx, runID, run.Status); err != nil {
		return nil, err
	}

	msg, err := utils.ToRawMessage(entity.RunCreatedMessage{
		RunID:      runID,
		UserID:     userID,
		FileKey:    s3Key,
		WindowSize: windowSize,
	})
	if err != nil {
		return nil, err
	}

	if err := publishWithRetry(ctx, u.Publisher, u.Backoff, msg); err != nil {
		return nil, err
	}

	return run, nil
}

// GetStatus returns the run status and, once completed, a presigned link to the report.
func (u *RunUseCase) GetStatus(ctx context.Context, runID string) (entity.RunStatus, string, error) {
	status, err := u.status(ctx, runID)
	if err != nil {
		return "", "", err
	}

	if status == entity.StatusCompleted {
		presignedURL, err := u.S3Repo.GetPresignedURL(ctx, ReportKey(runID), 24*time.Hour)
		if err != nil {
			return "", "", err
		}
		return status, presignedURL, nil
	}
	return status, "", nil
}

// GetSummary returns the cached summary of a completed run. When the cache entry
// has expired the summary is rebuilt from the stored report and cached again.
func (u *RunUseCase) GetSummary(ctx context.Context, runID string) (*entity.RunSummary, error) {
	if err := u.requireCompleted(ctx, runID); err != nil {
		return nil, err
	}

	summary, err := u.StatusRepo.GetSummary(ctx, runID)
	if err == nil || !errors.Is(err, entity.ErrNotFound) {
		return summary, err
	}

	report, err := u.loadReport(ctx, runID)
	if err != nil {
		return nil, err
	}
	rebuilt, err := analysis.Summarize(report.AnalysisResults)
	if err != nil {
		return nil, fmt.Errorf("rebuild summary of run %s: %w", runID, err)
	}
	if err := u.StatusRepo.SetSummary(ctx, runID, rebuilt); err != nil {
		log.WithField("run_id", runID).WithError(err).Warn("failed to cache rebuilt summary")
	}
	return &rebuilt, nil
}

// GetReport returns the stored report of a completed run.
func (u *RunUseCase) GetReport(ctx context.Context, runID string) (*entity.Report, error) {
	if err := u.requireCompleted(ctx, runID); err != nil {
		return nil, err
	}
	return u.loadReport(ctx, runID)
}

func (u *RunUseCase) GetRun(ctx context.Context, runID string) (*entity.Run, error) {
	return u.PostgresRepo.GetRun(ctx, runID)
}

// status reads the cached status and falls back to the run row once the cache entry is gone.
func (u *RunUseCase) status(ctx context.Context, runID string) (entity.RunStatus, error) {
	status, err := u.StatusRepo.GetStatus(ctx, runID)
	if err == nil || !errors.Is(err, entity.ErrNotFound) {
		return status, err
	}

	run, err := u.PostgresRepo.GetRun(ctx, runID)
	if err != nil {
		return "", err
	}
	if err := u.StatusRepo.SetStatus(ctx, runID, run.Status); err != nil {
		log.WithField("run_id", runID).WithError(err).Warn("failed to cache run status")
	}
	return run.Status, nil
}

func (u *RunUseCase) requireCompleted(ctx context.Context, runID string) error {
	status, err := u.status(ctx, runID)
	if err != nil {
		return err
	}
	if status != entity.StatusCompleted {
		return fmt.Errorf("run %s is %s: %w", runID, status, ErrSummaryNotReady)
	}
	return nil
}

func (u *RunUseCase) loadReport(ctx context.Context, runID string) (*entity.Report, error) {
	reader, err := u.S3Repo.GetFileReader(ctx, ReportKey(runID))
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	var report entity.Report
	if err := json.NewDecoder(reader).Decode(&report); err != nil {
		return nil, fmt.Errorf("decode report of run %s: %w", runID, err)
	}
	return &report, nil
}
