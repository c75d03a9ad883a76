package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/piolla/waterpump/internal/domain/entity"
)

type fakeStorage struct {
	mu        sync.Mutex
	objects   map[string][]byte
	readErr   error
	streamErr error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}}
}

func (s *fakeStorage) Upload(_ context.Context, key, _ string, file []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = append([]byte(nil), file...)
	return nil
}

func (s *fakeStorage) GetFileReader(_ context.Context, key string) (io.ReadCloser, error) {
	if s.readErr != nil {
		return nil, s.readErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	if !ok {
		return nil, fmt.Errorf("no object %s", key)
	}
	if s.streamErr != nil {
		return io.NopCloser(io.MultiReader(bytes.NewReader(data), failingReader{s.streamErr})), nil
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

type failingReader struct {
	err error
}

func (r failingReader) Read([]byte) (int, error) {
	return 0, r.err
}

func (s *fakeStorage) GetPresignedURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://minio.local/" + key + "?sig=x", nil
}

type statusUpdate struct {
	Status    entity.RunStatus
	ReportKey string
	ErrMsg    string
}

type fakeRunRepo struct {
	mu      sync.Mutex
	runs    map[string]*entity.Run
	updates []statusUpdate
}

func newFakeRunRepo() *fakeRunRepo {
	return &fakeRunRepo{runs: map[string]*entity.Run{}}
}

func (r *fakeRunRepo) CreateRun(_ context.Context, run *entity.Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs[run.RunID] = run
	return nil
}

func (r *fakeRunRepo) GetRun(_ context.Context, runID string) (*entity.Run, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	run, ok := r.runs[runID]
	if !ok {
		return nil, entity.ErrNotFound
	}
	return run, nil
}

func (r *fakeRunRepo) UpdateRunStatus(_ context.Context, runID string, status entity.RunStatus, reportKey, errMsg string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, statusUpdate{Status: status, ReportKey: reportKey, ErrMsg: errMsg})
	if run, ok := r.runs[runID]; ok {
		run.Status = status
		if reportKey != "" {
			run.ReportKey = reportKey
		}
	}
	return nil
}

func (r *fakeRunRepo) last() statusUpdate {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.updates[len(r.updates)-1]
}

type fakeCache struct {
	mu        sync.Mutex
	statuses  map[string]entity.RunStatus
	summaries map[string]entity.RunSummary
}

func newFakeCache() *fakeCache {
	c := &fakeCache{}
	c.flush()
	return c
}

// flush drops every entry, as if the TTLs had expired.
func (c *fakeCache) flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.statuses = map[string]entity.RunStatus{}
	c.summaries = map[string]entity.RunSummary{}
}

func (c *fakeCache) SetStatus(_ context.Context, runID string, status entity.RunStatus) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.statuses[runID] = status
	return nil
}

func (c *fakeCache) GetStatus(_ context.Context, runID string) (entity.RunStatus, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.statuses[runID]
	if !ok {
		return "", entity.ErrNotFound
	}
	return s, nil
}

func (c *fakeCache) SetSummary(_ context.Context, runID string, summary entity.RunSummary) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.summaries[runID] = summary
	return nil
}

func (c *fakeCache) GetSummary(_ context.Context, runID string) (*entity.RunSummary, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.summaries[runID]
	if !ok {
		return nil, entity.ErrNotFound
	}
	return &s, nil
}

type fakePublisher struct {
	mu       sync.Mutex
	failures int
	attempts int
	messages []json.RawMessage
}

func (p *fakePublisher) Publish(_ context.Context, body json.RawMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.attempts++
	if p.failures > 0 {
		p.failures--
		return errors.New("broker unavailable")
	}
	p.messages = append(p.messages, body)
	return nil
}
