package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/roksva123/go-meetsync-backend/internal/model"
)

const clockifyPageSize = 50

// ClockifyService reads and creates time entries through the Clockify
// REST API.
type ClockifyService struct {
	APIKey      string
	WorkspaceID string
	UserID      string
	BaseURL     string
	Client      *http.Client
}

// NewClockifyService creates a new service instance.
func NewClockifyService(apiKey, workspaceID, userID string) *ClockifyService {
	return &ClockifyService{
		APIKey:      apiKey,
		WorkspaceID: workspaceID,
		UserID:      userID,
		BaseURL:     "https://api.clockify.me/api/v1",
		Client:      &http.Client{Timeout: 20 * time.Second},
	}
}

// doRequest does an authenticated call to Clockify and returns body bytes.
// A 429 (or a "too many requests" body, which Clockify sometimes sends
// with other status codes) wraps ErrRateLimited so the caller can back off.
func (s *ClockifyService) doRequest(ctx context.Context, method, url string, payload []byte) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Api-Key", s.APIKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		if resp.StatusCode == http.StatusTooManyRequests || strings.Contains(strings.ToLower(string(body)), "too many requests") {
			return nil, fmt.Errorf("clockify api error %d: %s: %w", resp.StatusCode, string(body), ErrRateLimited)
		}
		return nil, fmt.Errorf("clockify api error %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

// clockifyEntry is the wire shape of a Clockify time entry.
type clockifyEntry struct {
	ID           string `json:"id"`
	Description  string `json:"description"`
	TimeInterval struct {
		Start time.Time `json:"start"`
		End   time.Time `json:"end"`
	} `json:"timeInterval"`
}

func (e clockifyEntry) toModel() model.ExistingEntry {
	return model.ExistingEntry{
		ID:          e.ID,
		Description: e.Description,
		StartTime:   e.TimeInterval.Start,
		EndTime:     e.TimeInterval.End,
	}
}

// FetchExistingEntries pages through the user's time entries in the
// window and returns the full set.
func (s *ClockifyService) FetchExistingEntries(ctx context.Context, start, end time.Time) ([]model.ExistingEntry, error) {
	entries := []model.ExistingEntry{}

	page := 1
	for {
		q := url.Values{}
		q.Set("start", start.UTC().Format("2006-01-02T15:04:05Z"))
		q.Set("end", end.UTC().Format("2006-01-02T15:04:05Z"))
		q.Set("page", strconv.Itoa(page))
		q.Set("page-size", strconv.Itoa(clockifyPageSize))
		u := fmt.Sprintf("%s/workspaces/%s/user/%s/time-entries?%s", s.BaseURL, s.WorkspaceID, s.UserID, q.Encode())

		b, err := s.doRequest(ctx, "GET", u, nil)
		if err != nil {
			return nil, fmt.Errorf("list time entries page %d: %w", page, err)
		}
		var batch []clockifyEntry
		if err := json.Unmarshal(b, &batch); err != nil {
			return nil, fmt.Errorf("parse time entries page %d: %w", page, err)
		}
		if len(batch) == 0 {
			break
		}
		for _, e := range batch {
			entries = append(entries, e.toModel())
		}
		page++
	}
	return entries, nil
}

// CreateEntry submits one new time entry and returns it as stored.
func (s *ClockifyService) CreateEntry(ctx context.Context, candidate model.TimeEntryCandidate) (*model.ExistingEntry, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"start":       candidate.StartTime.UTC().Format("2006-01-02T15:04:05Z"),
		"end":         candidate.EndTime.UTC().Format("2006-01-02T15:04:05Z"),
		"billable":    candidate.Billable,
		"description": candidate.Description,
	})
	if err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/workspaces/%s/time-entries", s.BaseURL, s.WorkspaceID)
	b, err := s.doRequest(ctx, "POST", u, payload)
	if err != nil {
		return nil, fmt.Errorf("create time entry: %w", err)
	}
	var created clockifyEntry
	if err := json.Unmarshal(b, &created); err != nil {
		return nil, fmt.Errorf("parse created entry: %w", err)
	}
	out := created.toModel()
	return &out, nil
}
