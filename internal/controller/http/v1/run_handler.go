package v1

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/piolla/waterpump/internal/analysis"
	"github.com/piolla/waterpump/internal/domain/entity"
	"github.com/piolla/waterpump/internal/domain/usecase"
	"github.com/piolla/waterpump/internal/ingest"
	"github.com/piolla/waterpump/internal/presentation"
)

const maxUploadSize = 32 << 20

type RunUseCase interface {
	CreateRun(ctx context.Context, fileBytes []byte, fileName, userID string, windowSize int) (*entity.Run, error)
	GetStatus(ctx context.Context, runID string) (entity.RunStatus, string, error)
	GetSummary(ctx context.Context, runID string) (*entity.RunSummary, error)
	GetReport(ctx context.Context, runID string) (*entity.Report, error)
	GetRun(ctx context.Context, runID string) (*entity.Run, error)
}

type RunHandler struct {
	UseCase RunUseCase
}

func NewRunHandler(u RunUseCase) *RunHandler {
	return &RunHandler{UseCase: u}
}

func (h *RunHandler) Register(g *gin.RouterGroup) {
	g.POST("/runs", h.CreateRun)
	g.GET("/runs/:run_id/status", h.GetStatus)
	g.GET("/runs/:run_id/summary", h.GetSummary)
	g.GET("/runs/:run_id/alerts", h.GetAlerts)
	g.GET("/runs/:run_id/insights", h.GetInsights)
}

func (h *RunHandler) CreateRun(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user_id required"})
		return
	}

	windowSize := 0
	if raw := c.PostForm("window_size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "window_size must be a positive integer"})
			return
		}
		windowSize = n
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required"})
		return
	}
	if file.Size > maxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return
	}

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	run, err := h.UseCase.CreateRun(c.Request.Context(), data, file.Filename, userID, windowSize)
	if err != nil {
		if errors.Is(err, analysis.ErrConfiguration) || errors.Is(err, ingest.ErrUnsupportedFormat) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.WithError(err).Error("create run failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"run_id":      run.RunID,
		"status":      run.Status,
		"window_size": run.WindowSize,
		"file_key":    run.FileKey,
	})
}

func (h *RunHandler) GetStatus(c *gin.Context) {
	runID, ok := h.ownedRunID(c)
	if !ok {
		return
	}
	status, url, err := h.UseCase.GetStatus(c.Request.Context(), runID)
	if err != nil {
		h.writeLookupError(c, err)
		return
	}

	if url != "" {
		c.JSON(http.StatusOK, gin.H{"run_id": runID, "status": status, "report_url": url})
		return
	}
	c.JSON(http.StatusOK, gin.H{"run_id": runID, "status": status})
}

// GetSummary returns the run summary. ?locale=ko switches category names to Korean.
func (h *RunHandler) GetSummary(c *gin.Context) {
	runID, ok := h.ownedRunID(c)
	if !ok {
		return
	}
	summary, err := h.UseCase.GetSummary(c.Request.Context(), runID)
	if err != nil {
		h.writeLookupError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"run_id":  runID,
		"summary": presentation.NewSummaryView(*summary, c.Query("locale")),
	})
}

// GetAlerts lists the batches at Critical level.
func (h *RunHandler) GetAlerts(c *gin.Context) {
	runID, ok := h.ownedRunID(c)
	if !ok {
		return
	}
	summary, err := h.UseCase.GetSummary(c.Request.Context(), runID)
	if err != nil {
		h.writeLookupError(c, err)
		return
	}

	emergencies := presentation.EmergencyBatches(*summary)
	c.JSON(http.StatusOK, gin.H{
		"run_id":    runID,
		"emergency": len(emergencies) > 0,
		"batches":   presentation.NewCriticalBatchViews(emergencies, c.Query("locale")),
	})
}

// GetInsights returns temperature bands, trend observations and maintenance
// priorities derived from the stored report.
func (h *RunHandler) GetInsights(c *gin.Context) {
	runID, ok := h.ownedRunID(c)
	if !ok {
		return
	}
	report, err := h.UseCase.GetReport(c.Request.Context(), runID)
	if err != nil {
		h.writeLookupError(c, err)
		return
	}

	in := presentation.NewInsights(report.Summary, report.AnalysisResults)
	c.JSON(http.StatusOK, gin.H{
		"run_id":      runID,
		"insights":    in,
		"hot_batches": presentation.NewCriticalBatchViews(in.HotBatches, c.Query("locale")),
	})
}

// ownedRunID resolves the run_id path parameter. Runs of other users answer
// 404 so their IDs cannot be discovered.
func (h *RunHandler) ownedRunID(c *gin.Context) (string, bool) {
	runID := c.Param("run_id")
	run, err := h.UseCase.GetRun(c.Request.Context(), runID)
	if err != nil {
		h.writeLookupError(c, err)
		return "", false
	}
	if run.UserID != c.GetString("user_id") {
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return "", false
	}
	return runID, true
}

func (h *RunHandler) writeLookupError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, entity.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
	case errors.Is(err, usecase.ErrSummaryNotReady):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		log.WithError(err).Error("run lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
