// Package garmin provides a client for the Garmin Connect wellness API.
// Login exchanges account credentials for an authenticated Session; all
// data fetches hang off the session. Fetched records keep the untouched
// response payload alongside the parsed fields so callers can store it.
package garmin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultBaseURL = "https://connectapi.garmin.com"

// Client holds credentials and transport configuration. It performs no
// network I/O until Login is called.
type Client struct {
	email      string
	password   string
	baseURL    string
	httpClient *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL (useful for testing).
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithTimeout sets a custom HTTP timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// NewClient creates a new Garmin Connect client.
func NewClient(email, password string, opts ...ClientOption) *Client {
	c := &Client{
		email:    email,
		password: password,
		baseURL:  defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session is an authenticated handle on the provider. It is not safe for
// concurrent use; callers serialize fetches on one session.
type Session struct {
	client *Client
	token  string
}

// Login authenticates against the provider and returns a session handle.
func (c *Client) Login(ctx context.Context) (*Session, error) {
	body, err := json.Marshal(map[string]string{
		"username": c.email,
		"password": c.password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/auth/login", strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("failed to create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read login response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, newAPIError(resp.StatusCode, respBody)
	}

	var loginResp struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(respBody, &loginResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal login response: %w", err)
	}
	if loginResp.AccessToken == "" {
		return nil, fmt.Errorf("login response missing access token")
	}

	return &Session{client: c, token: loginResp.AccessToken}, nil
}

// get performs an authenticated GET and returns the raw body. A 404 or
// 204 response means the requested record does not exist; the caller
// receives nil bytes and no error.
func (s *Session) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	u := s.client.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent || resp.StatusCode == http.StatusNotFound {
		io.Copy(io.Discard, resp.Body)
		return nil, nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, newAPIError(resp.StatusCode, respBody)
	}
	return respBody, nil
}

// ListActivities returns one page of activities, newest first. An empty
// page signals the end of history.
func (s *Session) ListActivities(ctx context.Context, start, limit int) ([]Activity, error) {
	q := url.Values{}
	q.Set("start", strconv.Itoa(start))
	q.Set("limit", strconv.Itoa(limit))

	body, err := s.get(ctx, "/activitylist-service/activities/search/activities", q)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	if body == nil {
		return nil, nil
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(body, &raws); err != nil {
		return nil, fmt.Errorf("failed to unmarshal activities: %w", err)
	}

	activities := make([]Activity, 0, len(raws))
	for _, raw := range raws {
		var a Activity
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, fmt.Errorf("failed to unmarshal activity: %w", err)
		}
		a.Raw = raw
		activities = append(activities, a)
	}
	return activities, nil
}

// SleepSummary returns one night's sleep data, or nil when the provider
// has nothing for that date.
func (s *Session) SleepSummary(ctx context.Context, day time.Time) (*SleepData, error) {
	q := url.Values{}
	q.Set("date", day.Format(time.DateOnly))

	body, err := s.get(ctx, "/sleep-service/sleep/dailySleep", q)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sleep summary: %w", err)
	}
	if body == nil {
		return nil, nil
	}

	var data SleepData
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sleep summary: %w", err)
	}
	data.Raw = body
	return &data, nil
}

// DailyStats returns the whole-day wellness summary, or nil when absent.
func (s *Session) DailyStats(ctx context.Context, day time.Time) (*DailyStats, error) {
	q := url.Values{}
	q.Set("calendarDate", day.Format(time.DateOnly))

	body, err := s.get(ctx, "/usersummary-service/usersummary/daily", q)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch daily stats: %w", err)
	}
	if body == nil {
		return nil, nil
	}

	var data DailyStats
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal daily stats: %w", err)
	}
	data.Raw = body
	return &data, nil
}

// HeartRateSummary returns the daily heart-rate summary, or nil when absent.
func (s *Session) HeartRateSummary(ctx context.Context, day time.Time) (*HeartRateDaily, error) {
	q := url.Values{}
	q.Set("date", day.Format(time.DateOnly))

	body, err := s.get(ctx, "/wellness-service/wellness/dailyHeartRate", q)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch heart rate summary: %w", err)
	}
	if body == nil {
		return nil, nil
	}

	var data HeartRateDaily
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal heart rate summary: %w", err)
	}
	data.Raw = body
	return &data, nil
}

// BodyComposition bulk-fetches dated weigh-in records for a date range,
// bounds inclusive.
func (s *Session) BodyComposition(ctx context.Context, startDate, endDate time.Time) ([]WeightEntry, error) {
	q := url.Values{}
	q.Set("startDate", startDate.Format(time.DateOnly))
	q.Set("endDate", endDate.Format(time.DateOnly))

	body, err := s.get(ctx, "/weight-service/weight/range", q)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch body composition: %w", err)
	}
	if body == nil {
		return nil, nil
	}

	var resp struct {
		DateWeightList []json.RawMessage `json:"dateWeightList"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal body composition: %w", err)
	}

	entries := make([]WeightEntry, 0, len(resp.DateWeightList))
	for _, raw := range resp.DateWeightList {
		var e WeightEntry
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, fmt.Errorf("failed to unmarshal weight entry: %w", err)
		}
		e.Raw = raw
		entries = append(entries, e)
	}
	return entries, nil
}
