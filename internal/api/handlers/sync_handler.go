package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/roksva123/go-meetsync-backend/internal/model"
	"github.com/roksva123/go-meetsync-backend/internal/utils"
)

type SyncDetails struct {
	Message string             `json:"message"`
	Error   string             `json:"error,omitempty"`
	DryRun  bool               `json:"dry_run,omitempty"`
	Outcome *model.SyncOutcome `json:"outcome,omitempty"`
}

// ISyncService lets the handler take the real reconciliation service or
// a mock in tests.
type ISyncService interface {
	RunSync(ctx context.Context, start, end time.Time, dryRun bool) (*model.SyncOutcome, error)
}

// SyncHistoryStore is the slice of the repository the sync endpoints use.
type SyncHistoryStore interface {
	CreateSyncHistory(ctx context.Context, syncType, status string, durationMs int64, details json.RawMessage) error
	GetSyncHistory(ctx context.Context, limit int) ([]model.SyncHistory, error)
}

type SyncHandler struct {
	Sync ISyncService
	Repo SyncHistoryStore

	// serializes passes: the reconciliation core assumes it is never
	// re-entered, so a second trigger while one runs gets a 409
	running sync.Mutex
}

func NewSyncHandler(s ISyncService, r SyncHistoryStore) *SyncHandler {
	return &SyncHandler{Sync: s, Repo: r}
}

// TriggerSync runs one reconciliation pass and blocks until it finishes.
// POST /api/v1/sync
func (h *SyncHandler) TriggerSync(c *gin.Context) {
	var req model.SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	start, end, err := utils.ParseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !h.running.TryLock() {
		c.JSON(http.StatusConflict, gin.H{"error": "a sync pass is already running"})
		return
	}
	defer h.running.Unlock()

	log.Printf("--- API TRIGGER: sync %s .. %s (dry_run=%v) ---", req.StartDate, req.EndDate, req.DryRun)
	ctx := c.Request.Context()
	startTime := time.Now()

	detailsStart, _ := json.Marshal(SyncDetails{Message: "Sync pass started", DryRun: req.DryRun})
	h.recordHistory(ctx, "running", 0, detailsStart)

	outcome, err := h.Sync.RunSync(ctx, start, end, req.DryRun)
	durationMs := time.Since(startTime).Milliseconds()

	if err != nil {
		log.Printf("ERROR from RunSync service: %v", err)
		detailsEnd, _ := json.Marshal(SyncDetails{Message: "Sync pass failed", Error: err.Error(), DryRun: req.DryRun})
		h.recordHistory(ctx, "failed", durationMs, detailsEnd)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// a pass with per-meeting failures is still a successful pass
	detailsEnd, _ := json.Marshal(SyncDetails{Message: "Sync pass completed", DryRun: req.DryRun, Outcome: outcome})
	h.recordHistory(ctx, "success", durationMs, detailsEnd)

	c.JSON(http.StatusOK, gin.H{"message": "sync completed", "outcome": outcome})
}

func (h *SyncHandler) recordHistory(ctx context.Context, status string, durationMs int64, details json.RawMessage) {
	if err := h.Repo.CreateSyncHistory(ctx, "meet-clockify", status, durationMs, details); err != nil {
		log.Printf("WARNING: failed to record sync history: %v", err)
	}
}

// GetSyncHistory returns recent pass audit rows.
// GET /api/v1/sync/history
func (h *SyncHandler) GetSyncHistory(c *gin.Context) {
	limitStr := c.DefaultQuery("limit", "20")
	limit, err := strconv.Atoi(limitStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
		return
	}

	history, err := h.Repo.GetSyncHistory(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get sync history"})
		return
	}

	c.JSON(http.StatusOK, history)
}
