package psql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/piolla/waterpump/internal/domain/entity"
)

type GormRunRepo struct {
	DB *gorm.DB
}

func NewGormRunRepo(db *gorm.DB) *GormRunRepo {
	return &GormRunRepo{DB: db}
}

func (r *GormRunRepo) CreateRun(ctx context.Context, run *entity.Run) error {
	return r.DB.WithContext(ctx).Create(run).Error
}

func (r *GormRunRepo) GetRun(ctx context.Context, runID string) (*entity.Run, error) {
	run := &entity.Run{}
	if err := r.DB.WithContext(ctx).First(run, "run_id = ?", runID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("run %s: %w", runID, entity.ErrNotFound)
		}
		return nil, fmt.Errorf("get run %s: %w", runID, err)
	}
	return run, nil
}

// UpdateRunStatus sets the status and, when non-empty, the report key and error text.
func (r *GormRunRepo) UpdateRunStatus(ctx context.Context, runID string, status entity.RunStatus, reportKey, errMsg string) error {
	updates := map[string]any{
		"status":     status,
		"updated_at": time.Now(),
	}
	if reportKey != "" {
		updates["report_key"] = reportKey
	}
	if errMsg != "" {
		updates["error_msg"] = errMsg
	}

	res := r.DB.WithContext(ctx).Model(&entity.Run{}).Where("run_id = ?", runID).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("update run %s: %w", runID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("run %s: %w", runID, entity.ErrNotFound)
	}
	return nil
}
