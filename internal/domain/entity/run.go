package entity

import (
	"errors"
	"gorm.io/gorm"
	"time"
)

type RunStatus string

const (
	StatusPending   RunStatus = "PENDING"
	StatusRunning   RunStatus = "RUNNING"
	StatusCompleted RunStatus = "COMPLETED"
	StatusFailed    RunStatus = "FAILED"
)

type Run struct {
	RunID      string    `gorm:"primaryKey;type:uuid"`
	UserID     string    `gorm:"not null;type:uuid"`
	FileKey    string    `gorm:"not null"`
	WindowSize int       `gorm:"not null"`
	Status     RunStatus `gorm:"not null;type:text"`
	ReportKey  string
	ErrorMsg   string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

type RunCreatedMessage struct {
	RunID      string `json:"run_id"`
	UserID     string `json:"user_id"`
	FileKey    string `json:"file_key"`
	WindowSize int    `json:"window_size"`
}

type RunCompletedMessage struct {
	RunID            string `json:"run_id"`
	ReportKey        string `json:"report_key"`
	TotalBatches     int    `json:"total_batches"`
	CriticalBatchIDs []int  `json:"critical_batch_ids"`
}

var ErrNotFound = errors.New("not found")
