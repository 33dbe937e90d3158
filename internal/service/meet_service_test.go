package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

// meetFixture wires a fake Meet API with one page-split conference list,
// two participants (one of them another signed-in user) and rejoin
// sessions for the tracked user.
func meetFixture(t *testing.T, spaceHits *int32) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/conferenceRecords", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer meet-token" {
			t.Fatalf("missing bearer token, got %q", got)
		}
		if r.URL.Query().Get("filter") == "" {
			t.Fatal("conference record listing must be window-filtered")
		}
		if r.URL.Query().Get("pageToken") == "" {
			json.NewEncoder(w).Encode(map[string]interface{}{
				"conferenceRecords": []map[string]interface{}{
					{"name": "conferenceRecords/conf-1", "space": "spaces/sp-1", "startTime": "2026-08-24T10:00:00Z"},
				},
				"nextPageToken": "page-2",
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"conferenceRecords": []map[string]interface{}{
				{"name": "conferenceRecords/conf-2", "space": "spaces/sp-1", "startTime": "2026-08-24T15:00:00Z"},
			},
		})
	})

	mux.HandleFunc("/conferenceRecords/conf-1/participants", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"participants": []map[string]interface{}{
				{"name": "conferenceRecords/conf-1/participants/p1", "signedinUser": map[string]string{"user": "users/42", "displayName": "Tracked"}},
				{"name": "conferenceRecords/conf-1/participants/p2", "signedinUser": map[string]string{"user": "users/99", "displayName": "Someone"}},
			},
		})
	})
	mux.HandleFunc("/conferenceRecords/conf-1/participants/p1/participantSessions", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"participantSessions": []map[string]interface{}{
				{"name": ".../s1", "startTime": "2026-08-24T10:00:00Z", "endTime": "2026-08-24T10:20:00Z"},
				{"name": ".../s2", "startTime": "2026-08-24T10:25:00Z", "endTime": "2026-08-24T10:40:00Z"},
			},
		})
	})
	mux.HandleFunc("/conferenceRecords/conf-1/participants/p2/participantSessions", func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("sessions of other participants must not be fetched")
	})

	mux.HandleFunc("/conferenceRecords/conf-2/participants", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"participants": []map[string]interface{}{
				{"name": "conferenceRecords/conf-2/participants/p1", "signedinUser": map[string]string{"user": "users/42", "displayName": "Tracked"}},
			},
		})
	})
	mux.HandleFunc("/conferenceRecords/conf-2/participants/p1/participantSessions", func(w http.ResponseWriter, r *http.Request) {
		// still in the meeting, no endTime yet
		json.NewEncoder(w).Encode(map[string]interface{}{
			"participantSessions": []map[string]interface{}{
				{"name": ".../s3", "startTime": "2026-08-24T15:00:00Z"},
			},
		})
	})

	mux.HandleFunc("/spaces/sp-1", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(spaceHits, 1)
		json.NewEncoder(w).Encode(map[string]string{
			"name":        "spaces/sp-1",
			"meetingCode": "abc-defg-hij",
			"meetingUri":  "https://meet.google.com/abc-defg-hij",
		})
	})

	return mux
}

func TestFetchMeetingRecords(t *testing.T) {
	var spaceHits int32
	srv := httptest.NewServer(meetFixture(t, &spaceHits))
	defer srv.Close()

	svc := NewMeetService("meet-token", "users/42")
	svc.BaseURL = srv.URL

	start := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	records, err := svc.FetchMeetingRecords(context.Background(), start, start.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// conf-2 has only an open session and must be dropped this pass
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	rec := records[0]
	if rec.MeetingID != "conf-1" {
		t.Fatalf("unexpected meeting id %q", rec.MeetingID)
	}
	if rec.MeetingCode != "abc-defg-hij" {
		t.Fatalf("unexpected meeting code %q", rec.MeetingCode)
	}
	if rec.DurationSeconds != 2400 {
		t.Fatalf("rejoin sessions must fold to 2400s, got %d", rec.DurationSeconds)
	}
	// both conferences share one space; the lookup is cached per pass
	if n := atomic.LoadInt32(&spaceHits); n != 1 {
		t.Fatalf("expected 1 space lookup, got %d", n)
	}
}

func TestFetchMeetingRecordsAuthErrorIsFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"status":"UNAUTHENTICATED"}}`))
	}))
	defer srv.Close()

	svc := NewMeetService("expired", "users/42")
	svc.BaseURL = srv.URL

	start := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	if _, err := svc.FetchMeetingRecords(context.Background(), start, start.Add(24*time.Hour)); err == nil {
		t.Fatal("auth failure must be returned to the caller")
	}
}
