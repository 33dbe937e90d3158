package model

import "time"

// TimeEntryCandidate is the payload we intend to create in Clockify.
// Description carries the [Meet:<id>] tag used for dedup on later passes.
type TimeEntryCandidate struct {
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Billable    bool      `json:"billable"`
	Description string    `json:"description"`
}

// ExistingEntry is a time entry already present in Clockify for the
// query window. Only read for tag containment checks, never mutated.
type ExistingEntry struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
}
