package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piolla/waterpump/internal/analysis"
	"github.com/piolla/waterpump/internal/domain/entity"
	"github.com/piolla/waterpump/internal/ingest"
)

// pumpCSV writes n rows: a normal first window, then an overheating one, then normal again.
func pumpCSV(n int) string {
	var b strings.Builder
	b.WriteString("timestamp,value\n")
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		v := 50.0
		if i >= 100 && i < 200 {
			v = 92
		}
		fmt.Fprintf(&b, "%s,%.1f\n", start.Add(time.Duration(i)*10*time.Minute).Format(time.RFC3339), v)
	}
	return b.String()
}

type analysisFixture struct {
	uc      *AnalysisUseCase
	storage *fakeStorage
	runs    *fakeRunRepo
	cache   *fakeCache
	pub     *fakePublisher
}

func newAnalysisFixture() *analysisFixture {
	f := &analysisFixture{
		storage: newFakeStorage(),
		runs:    newFakeRunRepo(),
		cache:   newFakeCache(),
		pub:     &fakePublisher{},
	}
	f.uc = NewAnalysisUseCase(f.runs, f.storage, f.cache, f.pub, analysis.DefaultWindowSize, 4)
	return f
}

func TestProcessRun(t *testing.T) {
	f := newAnalysisFixture()
	ctx := context.Background()
	key := UploadKey("run-1", "pump.csv")
	require.NoError(t, f.storage.Upload(ctx, key, "text/csv", []byte(pumpCSV(250))))

	err := f.uc.ProcessRun(ctx, &entity.RunCreatedMessage{RunID: "run-1", FileKey: key})
	require.NoError(t, err)

	require.Len(t, f.runs.updates, 2)
	assert.Equal(t, entity.StatusRunning, f.runs.updates[0].Status)
	assert.Equal(t, statusUpdate{Status: entity.StatusCompleted, ReportKey: ReportKey("run-1")}, f.runs.last())
	assert.Equal(t, entity.StatusCompleted, f.cache.statuses["run-1"])

	var report entity.Report
	require.NoError(t, json.Unmarshal(f.storage.objects[ReportKey("run-1")], &report))
	assert.Equal(t, 3, report.Metadata.TotalBatches)
	assert.Equal(t, 100, report.Metadata.WindowSize)
	assert.Equal(t, key, report.Metadata.DataSource)
	require.Len(t, report.AnalysisResults, 3)
	assert.Equal(t, 50, report.AnalysisResults[2].RecordCount)

	summary := f.cache.summaries["run-1"]
	assert.Equal(t, 3, summary.TotalBatches)
	require.Len(t, summary.CriticalBatches, 1)
	assert.Equal(t, 2, summary.CriticalBatches[0].BatchID)

	require.Len(t, f.pub.messages, 1)
	var done entity.RunCompletedMessage
	require.NoError(t, json.Unmarshal(f.pub.messages[0], &done))
	assert.Equal(t, entity.RunCompletedMessage{
		RunID:            "run-1",
		ReportKey:        ReportKey("run-1"),
		TotalBatches:     3,
		CriticalBatchIDs: []int{2},
	}, done)
}

func TestProcessRunUsesMessageWindow(t *testing.T) {
	f := newAnalysisFixture()
	ctx := context.Background()
	key := UploadKey("run-2", "pump.csv")
	require.NoError(t, f.storage.Upload(ctx, key, "text/csv", []byte(pumpCSV(250))))

	require.NoError(t, f.uc.ProcessRun(ctx, &entity.RunCreatedMessage{RunID: "run-2", FileKey: key, WindowSize: 50}))
	assert.Equal(t, 5, f.cache.summaries["run-2"].TotalBatches)
}

func TestProcessRunUnprocessableInput(t *testing.T) {
	cases := map[string]struct {
		key     string
		content string
		want    error
	}{
		"no rows":      {key: UploadKey("r", "empty.csv"), content: "timestamp,value\n", want: ingest.ErrNoSamples},
		"bad format":   {key: UploadKey("r", "pump.xlsx"), content: "x", want: ingest.ErrUnsupportedFormat},
		"invalid json": {key: UploadKey("r", "pump.json"), content: "{}", want: nil},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			f := newAnalysisFixture()
			ctx := context.Background()
			require.NoError(t, f.storage.Upload(ctx, tc.key, "", []byte(tc.content)))

			err := f.uc.ProcessRun(ctx, &entity.RunCreatedMessage{RunID: "r", FileKey: tc.key})
			require.ErrorIs(t, err, ErrUnprocessable)
			if tc.want != nil {
				require.ErrorIs(t, err, tc.want)
			}

			last := f.runs.last()
			assert.Equal(t, entity.StatusFailed, last.Status)
			assert.NotEmpty(t, last.ErrMsg)
			assert.Equal(t, entity.StatusFailed, f.cache.statuses["r"])
			assert.Empty(t, f.pub.messages)
		})
	}
}

func TestProcessRunInvalidWindow(t *testing.T) {
	f := newAnalysisFixture()
	ctx := context.Background()
	key := UploadKey("r", "pump.csv")
	require.NoError(t, f.storage.Upload(ctx, key, "", []byte(pumpCSV(10))))

	err := f.uc.ProcessRun(ctx, &entity.RunCreatedMessage{RunID: "r", FileKey: key, WindowSize: -1})
	require.ErrorIs(t, err, ErrUnprocessable)
	require.ErrorIs(t, err, analysis.ErrConfiguration)
}

func TestProcessRunStorageFailureIsRetryable(t *testing.T) {
	f := newAnalysisFixture()
	f.storage.readErr = errors.New("connection reset")

	err := f.uc.ProcessRun(context.Background(), &entity.RunCreatedMessage{RunID: "r", FileKey: UploadKey("r", "pump.csv")})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrUnprocessable))
	assert.Equal(t, entity.StatusRunning, f.runs.last().Status)
}

func TestProcessRunStreamFailureIsRetryable(t *testing.T) {
	f := newAnalysisFixture()
	connErr := errors.New("connection reset by peer")
	f.storage.streamErr = connErr
	ctx := context.Background()
	key := UploadKey("r", "pump.csv")
	require.NoError(t, f.storage.Upload(ctx, key, "", []byte(pumpCSV(20))))

	err := f.uc.ProcessRun(ctx, &entity.RunCreatedMessage{RunID: "r", FileKey: key})
	require.ErrorIs(t, err, ingest.ErrRead)
	require.ErrorIs(t, err, connErr)
	assert.False(t, errors.Is(err, ErrUnprocessable))
	assert.Equal(t, entity.StatusRunning, f.runs.last().Status)
	assert.Equal(t, entity.StatusRunning, f.cache.statuses["r"])
}

func TestProcessRunPublishFailure(t *testing.T) {
	f := newAnalysisFixture()
	f.pub.failures = 1
	ctx := context.Background()
	key := UploadKey("r", "pump.csv")
	require.NoError(t, f.storage.Upload(ctx, key, "", []byte(pumpCSV(20))))

	err := f.uc.ProcessRun(ctx, &entity.RunCreatedMessage{RunID: "r", FileKey: key})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrUnprocessable))
	assert.NotEqual(t, entity.StatusCompleted, f.runs.last().Status)
}
