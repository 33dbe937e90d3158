package service

import (
	"time"

	"github.com/roksva123/go-meetsync-backend/internal/model"
)

// AggregateSessions folds the user's join/leave sessions for one
// conference into a single earliest-join / latest-leave window. Sessions
// without an end time are still in progress and get picked up by a later
// pass once they close. Returns false when no session has finished yet,
// in which case the meeting is skipped for this pass.
func AggregateSessions(meetingID string, sessions []model.AttendanceSession, meetingCode, meetingURI string) (model.MeetingRecord, bool) {
	var start, end time.Time
	found := false
	for _, s := range sessions {
		if s.StartTime.IsZero() || s.EndTime == nil {
			continue
		}
		if !found || s.StartTime.Before(start) {
			start = s.StartTime
		}
		if !found || s.EndTime.After(end) {
			end = *s.EndTime
		}
		found = true
	}
	if !found {
		return model.MeetingRecord{}, false
	}

	return model.MeetingRecord{
		MeetingID:       meetingID,
		MeetingCode:     meetingCode,
		MeetingURI:      meetingURI,
		StartTime:       start,
		EndTime:         end,
		DurationSeconds: int64(end.Sub(start).Seconds()),
	}, true
}
