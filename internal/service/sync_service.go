package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/roksva123/go-meetsync-backend/internal/model"
)

// meetTagPrefix is a compatibility contract with every entry synced by
// earlier runs. Changing the bracket syntax breaks dedup against history.
const meetTagPrefix = "[Meet:"

// ErrRateLimited marks a create rejected by Clockify for sending too many
// requests. The pass waits a short cooldown and moves to the next meeting.
var ErrRateLimited = errors.New("rate limited")

// MeetingSource returns the user's aggregated meetings for a window.
type MeetingSource interface {
	FetchMeetingRecords(ctx context.Context, start, end time.Time) ([]model.MeetingRecord, error)
}

// TimeEntrySink is the time-tracking side: read existing entries for a
// window, create the missing ones.
type TimeEntrySink interface {
	FetchExistingEntries(ctx context.Context, start, end time.Time) ([]model.ExistingEntry, error)
	CreateEntry(ctx context.Context, candidate model.TimeEntryCandidate) (*model.ExistingEntry, error)
}

// SyncService diffs Meet attendance against Clockify entries and creates
// whatever is missing, exactly once per meeting.
type SyncService struct {
	Meet     MeetingSource
	Clockify TimeEntrySink
	Delay    time.Duration // wait after every successful create
	Cooldown time.Duration // extra wait after a 429
	Sleep    func(time.Duration)
}

func NewSyncService(meet MeetingSource, clockify TimeEntrySink, delay, cooldown time.Duration) *SyncService {
	return &SyncService{
		Meet:     meet,
		Clockify: clockify,
		Delay:    delay,
		Cooldown: cooldown,
		Sleep:    time.Sleep,
	}
}

// MeetTag builds the dedup marker embedded in entry descriptions.
func MeetTag(meetingID string) string {
	return meetTagPrefix + meetingID + "]"
}

// IsAlreadySynced reports whether any existing entry description carries
// tag as a literal substring. Substring, not equality: Clockify entries
// have human text around the tag.
func IsAlreadySynced(tag string, existing []model.ExistingEntry) bool {
	for _, e := range existing {
		if strings.Contains(e.Description, tag) {
			return true
		}
	}
	return false
}

func buildDescription(rec model.MeetingRecord) string {
	label := rec.MeetingCode
	if label == "" {
		label = rec.MeetingID
	}
	dur := time.Duration(rec.DurationSeconds) * time.Second
	return fmt.Sprintf("Google Meet %s (%s) %s", label, dur, MeetTag(rec.MeetingID))
}

// RunSync executes one reconciliation pass over [start, end]. Safe to
// re-invoke over an overlapping window: each pass re-fetches the existing
// entries and skips anything already tagged. Only the two initial fetches
// are fatal; a single create failure just bumps the failed counter.
func (s *SyncService) RunSync(ctx context.Context, start, end time.Time, dryRun bool) (*model.SyncOutcome, error) {
	outcome := &model.SyncOutcome{}

	records, err := s.Meet.FetchMeetingRecords(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetch meeting records: %w", err)
	}
	outcome.MeetingsFound = len(records)
	log.Printf("[SYNC] found %d meetings in window %s .. %s", len(records), start.Format("2006-01-02"), end.Format("2006-01-02"))
	if len(records) == 0 {
		return outcome, nil
	}

	existing, err := s.Clockify.FetchExistingEntries(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetch existing entries: %w", err)
	}

	for _, rec := range records {
		tag := MeetTag(rec.MeetingID)
		if IsAlreadySynced(tag, existing) {
			outcome.Skipped++
			continue
		}

		candidate := model.TimeEntryCandidate{
			StartTime:   rec.StartTime,
			EndTime:     rec.EndTime,
			Billable:    false,
			Description: buildDescription(rec),
		}

		if dryRun {
			outcome.Synced++
			continue
		}

		if _, err := s.Clockify.CreateEntry(ctx, candidate); err != nil {
			log.Printf("[SYNC] create failed for meeting %s: %v", rec.MeetingID, err)
			outcome.Failed++
			if errors.Is(err, ErrRateLimited) {
				s.Sleep(s.Cooldown)
			}
			continue
		}
		outcome.Synced++
		s.Sleep(s.Delay)
	}

	// total = entries that were already tagged before this pass + new ones
	preExisting := 0
	for _, e := range existing {
		if strings.Contains(e.Description, meetTagPrefix) {
			preExisting++
		}
	}
	outcome.TotalInTarget = preExisting + outcome.Synced

	log.Printf("[SYNC] done: synced=%d skipped=%d failed=%d", outcome.Synced, outcome.Skipped, outcome.Failed)
	return outcome, nil
}
