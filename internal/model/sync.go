package model

import (
	"encoding/json"
	"time"
)

type SyncHistory struct {
	ID         int64           `json:"id"`
	SyncTime   time.Time       `json:"sync_time"`
	SyncType   string          `json:"sync_type"`
	Status     string          `json:"status"`
	DurationMs int64           `json:"duration_ms"`
	Details    json.RawMessage `json:"details,omitempty"`
}

// SyncOutcome are the counters accumulated over one reconciliation pass.
// TotalInTarget = entries already tagged in Clockify before the pass +
// entries this pass created.
type SyncOutcome struct {
	MeetingsFound int `json:"meetings_found"`
	Synced        int `json:"synced"`
	Skipped       int `json:"skipped"`
	Failed        int `json:"failed"`
	TotalInTarget int `json:"total_in_target"`
}

type SyncRequest struct {
	StartDate string `json:"start_date" form:"start_date" binding:"required"`
	EndDate   string `json:"end_date" form:"end_date" binding:"required"`
	DryRun    bool   `json:"dry_run" form:"dry_run"`
}
