package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/piolla/waterpump/internal/domain/entity"
)

const (
	statusTTL  = 24 * time.Hour
	summaryTTL = 24 * time.Hour
)

type RedisRepo struct {
	Client *redis.Client
}

func NewRedisRepo(client *redis.Client) *RedisRepo {
	return &RedisRepo{Client: client}
}

func statusKey(runID string) string  { return "run_status:" + runID }
func summaryKey(runID string) string { return "run_summary:" + runID }

func (r *RedisRepo) SetStatus(ctx context.Context, runID string, status entity.RunStatus) error {
	return r.Client.Set(ctx, statusKey(runID), string(status), statusTTL).Err()
}

func (r *RedisRepo) GetStatus(ctx context.Context, runID string) (entity.RunStatus, error) {
	val, err := r.Client.Get(ctx, statusKey(runID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", fmt.Errorf("status of run %s: %w", runID, entity.ErrNotFound)
		}
		return "", err
	}
	return entity.RunStatus(val), nil
}

// SetSummary replaces the cached summary for a run. Summaries are never patched in place.
func (r *RedisRepo) SetSummary(ctx context.Context, runID string, summary entity.RunSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	return r.Client.Set(ctx, summaryKey(runID), data, summaryTTL).Err()
}

func (r *RedisRepo) GetSummary(ctx context.Context, runID string) (*entity.RunSummary, error) {
	data, err := r.Client.Get(ctx, summaryKey(runID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("summary of run %s: %w", runID, entity.ErrNotFound)
		}
		return nil, err
	}

	var summary entity.RunSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("unmarshal summary: %w", err)
	}
	return &summary, nil
}
