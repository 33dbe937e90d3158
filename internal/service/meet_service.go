package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/roksva123/go-meetsync-backend/internal/model"
)

// MeetService fetches attendance from the Google Meet REST API and
// aggregates it into one MeetingRecord per conference.
type MeetService struct {
	Token   string
	UserID  string // "users/<id>"; empty takes every session in the record
	BaseURL string
	Client  *http.Client
}

// NewMeetService creates a new service instance.
func NewMeetService(token, userID string) *MeetService {
	return &MeetService{
		Token:   token,
		UserID:  userID,
		BaseURL: "https://meet.googleapis.com/v2",
		Client:  &http.Client{Timeout: 20 * time.Second},
	}
}

// doRequest does an authenticated GET to the Meet API and returns body bytes.
func (s *MeetService) doRequest(ctx context.Context, method, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+s.Token)
	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("meet api error %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

type conferenceRecord struct {
	Name      string     `json:"name"`
	Space     string     `json:"space"`
	StartTime time.Time  `json:"startTime"`
	EndTime   *time.Time `json:"endTime,omitempty"`
}

type spaceMeta struct {
	MeetingCode string `json:"meetingCode"`
	MeetingURI  string `json:"meetingUri"`
}

// FetchMeetingRecords pages through the conference records in the window
// and returns one aggregated MeetingRecord per conference the tracked
// user attended. Transport and auth errors are fatal; meetings whose
// sessions are all still open come back empty and are dropped here.
func (s *MeetService) FetchMeetingRecords(ctx context.Context, start, end time.Time) ([]model.MeetingRecord, error) {
	filter := fmt.Sprintf(`start_time>="%s" AND start_time<="%s"`,
		start.UTC().Format(time.RFC3339), end.UTC().Format(time.RFC3339))

	records := []model.MeetingRecord{}
	spaceCache := map[string]spaceMeta{}
	pageToken := ""
	for {
		q := url.Values{}
		q.Set("filter", filter)
		if pageToken != "" {
			q.Set("pageToken", pageToken)
		}
		b, err := s.doRequest(ctx, "GET", s.BaseURL+"/conferenceRecords?"+q.Encode())
		if err != nil {
			return nil, fmt.Errorf("list conference records: %w", err)
		}
		var out struct {
			ConferenceRecords []conferenceRecord `json:"conferenceRecords"`
			NextPageToken     string             `json:"nextPageToken"`
		}
		if err := json.Unmarshal(b, &out); err != nil {
			return nil, fmt.Errorf("parse conference records: %w", err)
		}

		for _, cr := range out.ConferenceRecords {
			sessions, err := s.fetchUserSessions(ctx, cr.Name)
			if err != nil {
				return nil, err
			}
			code, uri := s.resolveSpace(ctx, cr.Space, spaceCache)
			meetingID := strings.TrimPrefix(cr.Name, "conferenceRecords/")
			if rec, ok := AggregateSessions(meetingID, sessions, code, uri); ok {
				records = append(records, rec)
			}
		}

		if out.NextPageToken == "" {
			break
		}
		pageToken = out.NextPageToken
	}
	return records, nil
}

// fetchUserSessions collects all join/leave sessions of the tracked user
// inside one conference record.
func (s *MeetService) fetchUserSessions(ctx context.Context, recordName string) ([]model.AttendanceSession, error) {
	sessions := []model.AttendanceSession{}

	pageToken := ""
	for {
		u := s.BaseURL + "/" + recordName + "/participants"
		if pageToken != "" {
			u += "?pageToken=" + url.QueryEscape(pageToken)
		}
		b, err := s.doRequest(ctx, "GET", u)
		if err != nil {
			return nil, fmt.Errorf("list participants for %s: %w", recordName, err)
		}
		var out struct {
			Participants []struct {
				Name         string `json:"name"`
				SignedinUser struct {
					User        string `json:"user"`
					DisplayName string `json:"displayName"`
				} `json:"signedinUser"`
			} `json:"participants"`
			NextPageToken string `json:"nextPageToken"`
		}
		if err := json.Unmarshal(b, &out); err != nil {
			return nil, fmt.Errorf("parse participants for %s: %w", recordName, err)
		}

		for _, p := range out.Participants {
			if s.UserID != "" && p.SignedinUser.User != s.UserID {
				continue
			}
			ss, err := s.fetchParticipantSessions(ctx, p.Name)
			if err != nil {
				return nil, err
			}
			sessions = append(sessions, ss...)
		}

		if out.NextPageToken == "" {
			break
		}
		pageToken = out.NextPageToken
	}
	return sessions, nil
}

func (s *MeetService) fetchParticipantSessions(ctx context.Context, participantName string) ([]model.AttendanceSession, error) {
	sessions := []model.AttendanceSession{}

	pageToken := ""
	for {
		u := s.BaseURL + "/" + participantName + "/participantSessions"
		if pageToken != "" {
			u += "?pageToken=" + url.QueryEscape(pageToken)
		}
		b, err := s.doRequest(ctx, "GET", u)
		if err != nil {
			return nil, fmt.Errorf("list sessions for %s: %w", participantName, err)
		}
		var out struct {
			ParticipantSessions []struct {
				Name      string     `json:"name"`
				StartTime time.Time  `json:"startTime"`
				EndTime   *time.Time `json:"endTime,omitempty"`
			} `json:"participantSessions"`
			NextPageToken string `json:"nextPageToken"`
		}
		if err := json.Unmarshal(b, &out); err != nil {
			return nil, fmt.Errorf("parse sessions for %s: %w", participantName, err)
		}

		for _, ps := range out.ParticipantSessions {
			sessions = append(sessions, model.AttendanceSession{
				SessionID: ps.Name,
				StartTime: ps.StartTime,
				EndTime:   ps.EndTime,
			})
		}

		if out.NextPageToken == "" {
			break
		}
		pageToken = out.NextPageToken
	}
	return sessions, nil
}

// resolveSpace looks up meetingCode/meetingUri for a space, cached per
// pass. Space meta is cosmetic only, so failures just log a warning.
func (s *MeetService) resolveSpace(ctx context.Context, spaceName string, cache map[string]spaceMeta) (string, string) {
	if spaceName == "" {
		return "", ""
	}
	if meta, ok := cache[spaceName]; ok {
		return meta.MeetingCode, meta.MeetingURI
	}
	b, err := s.doRequest(ctx, "GET", s.BaseURL+"/"+spaceName)
	if err != nil {
		log.Printf("WARNING: could not fetch space %s: %v", spaceName, err)
		return "", ""
	}
	var meta spaceMeta
	if err := json.Unmarshal(b, &meta); err != nil {
		log.Printf("WARNING: could not parse space %s: %v", spaceName, err)
		return "", ""
	}
	cache[spaceName] = meta
	return meta.MeetingCode, meta.MeetingURI
}
