package service

import (
	"testing"
	"time"

	"github.com/roksva123/go-meetsync-backend/internal/model"
)

func ts(hour, min int) time.Time {
	return time.Date(2026, 8, 24, hour, min, 0, 0, time.UTC)
}

func tsPtr(hour, min int) *time.Time {
	t := ts(hour, min)
	return &t
}

func TestAggregateRejoinFoldsIntoOneWindow(t *testing.T) {
	sessions := []model.AttendanceSession{
		{SessionID: "s1", StartTime: ts(10, 0), EndTime: tsPtr(10, 20)},
		{SessionID: "s2", StartTime: ts(10, 25), EndTime: tsPtr(10, 40)},
	}

	rec, ok := AggregateSessions("abc123", sessions, "abc-defg-hij", "https://meet.google.com/abc-defg-hij")
	if !ok {
		t.Fatal("expected a meeting record")
	}
	if !rec.StartTime.Equal(ts(10, 0)) {
		t.Fatalf("expected start 10:00, got %v", rec.StartTime)
	}
	if !rec.EndTime.Equal(ts(10, 40)) {
		t.Fatalf("expected end 10:40, got %v", rec.EndTime)
	}
	// whole window, not the sum of the two sessions (2100s)
	if rec.DurationSeconds != 2400 {
		t.Fatalf("expected duration 2400s, got %d", rec.DurationSeconds)
	}
}

func TestAggregateOrderDoesNotMatter(t *testing.T) {
	sessions := []model.AttendanceSession{
		{SessionID: "s2", StartTime: ts(10, 25), EndTime: tsPtr(10, 40)},
		{SessionID: "s1", StartTime: ts(10, 0), EndTime: tsPtr(10, 20)},
	}

	rec, ok := AggregateSessions("abc123", sessions, "", "")
	if !ok {
		t.Fatal("expected a meeting record")
	}
	if !rec.StartTime.Equal(ts(10, 0)) || !rec.EndTime.Equal(ts(10, 40)) {
		t.Fatalf("unexpected window %v .. %v", rec.StartTime, rec.EndTime)
	}
}

func TestAggregateSkipsOngoingSessions(t *testing.T) {
	sessions := []model.AttendanceSession{
		{SessionID: "s1", StartTime: ts(10, 0), EndTime: tsPtr(10, 20)},
		{SessionID: "s2", StartTime: ts(10, 25), EndTime: nil}, // still in the meeting
	}

	rec, ok := AggregateSessions("abc123", sessions, "", "")
	if !ok {
		t.Fatal("expected a meeting record from the closed session")
	}
	if !rec.EndTime.Equal(ts(10, 20)) {
		t.Fatalf("ongoing session must not extend the window, got end %v", rec.EndTime)
	}
}

func TestAggregateEmptyWhenNothingFinished(t *testing.T) {
	sessions := []model.AttendanceSession{
		{SessionID: "s1", StartTime: ts(10, 0), EndTime: nil},
	}

	if _, ok := AggregateSessions("abc123", sessions, "", ""); ok {
		t.Fatal("meeting with only open sessions must produce no record")
	}

	if _, ok := AggregateSessions("abc123", nil, "", ""); ok {
		t.Fatal("meeting with no sessions must produce no record")
	}
}

func TestAggregateSingleSession(t *testing.T) {
	sessions := []model.AttendanceSession{
		{SessionID: "s1", StartTime: ts(9, 0), EndTime: tsPtr(9, 30)},
	}

	rec, ok := AggregateSessions("xyz", sessions, "", "")
	if !ok {
		t.Fatal("expected a meeting record")
	}
	if rec.DurationSeconds != 1800 {
		t.Fatalf("expected 1800s, got %d", rec.DurationSeconds)
	}
}
