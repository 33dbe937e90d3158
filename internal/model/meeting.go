package model

import "time"

// AttendanceSession is one continuous join-to-leave interval for the
// tracked user in one conference record. EndTime stays nil while the
// participant is still inside the meeting.
type AttendanceSession struct {
	SessionID string     `json:"session_id"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`
}

// MeetingRecord is one conference the user attended, folded down to a
// single earliest-join / latest-leave window. Rejoins inside the same
// conference collapse into this one record.
type MeetingRecord struct {
	MeetingID       string    `json:"meeting_id"`
	MeetingCode     string    `json:"meeting_code,omitempty"`
	MeetingURI      string    `json:"meeting_uri,omitempty"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	DurationSeconds int64     `json:"duration_seconds"`
}
