package testutil

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/VitalsyncDev/vitalsync-web/internal/models"
)

// ParseJSONResponse decodes a JSON response body into v.
func ParseJSONResponse(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()

	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode response: %v. Body: %s", err, w.Body.String())
	}
}

// AssertStatus checks the HTTP status code matches expected.
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()

	if w.Code != expected {
		t.Errorf("expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertErrorResponse checks the error response format and message.
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedMessage string) {
	t.Helper()

	AssertStatus(t, w, expectedStatus)

	var resp map[string]string
	ParseJSONResponse(t, w, &resp)

	if resp["error"] != expectedMessage {
		t.Errorf("expected error message %q, got %q", expectedMessage, resp["error"])
	}
}

// SetEnvForTest sets an environment variable and restores it after the test.
func SetEnvForTest(t *testing.T, key, value string) {
	t.Helper()
	old := os.Getenv(key)
	os.Setenv(key, value)
	t.Cleanup(func() {
		os.Setenv(key, old)
	})
}

// Day builds a UTC calendar date for seeding and assertions.
func Day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SeedActivity inserts an activity row with the given ID and start time.
func SeedActivity(t *testing.T, env *TestEnvironment, id int64, activityType string, start time.Time) {
	t.Helper()

	query := `
		INSERT INTO activities (activity_id, activity_type, start_time, raw_json)
		VALUES ($1, $2, $3, '{}')
	`
	if _, err := env.DB.Exec(env.Ctx, query, id, activityType, start); err != nil {
		t.Fatalf("failed to seed activity %d: %v", id, err)
	}
}

// SeedSleep inserts a minimal sleep row for the given date.
func SeedSleep(t *testing.T, env *TestEnvironment, day time.Time, totalSeconds int) {
	t.Helper()

	query := `
		INSERT INTO sleep (calendar_date, total_sleep_seconds, raw_json)
		VALUES ($1, $2, '{}')
	`
	if _, err := env.DB.Exec(env.Ctx, query, day, totalSeconds); err != nil {
		t.Fatalf("failed to seed sleep for %s: %v", day.Format("2006-01-02"), err)
	}
}

// SeedDailySummary inserts a minimal daily summary row for the given date.
func SeedDailySummary(t *testing.T, env *TestEnvironment, day time.Time, steps int) {
	t.Helper()

	query := `
		INSERT INTO daily_summary (calendar_date, steps, raw_json)
		VALUES ($1, $2, '{}')
	`
	if _, err := env.DB.Exec(env.Ctx, query, day, steps); err != nil {
		t.Fatalf("failed to seed daily summary for %s: %v", day.Format("2006-01-02"), err)
	}
}

// SeedCheckpoint inserts a sync checkpoint row directly.
func SeedCheckpoint(t *testing.T, env *TestEnvironment, category string, lastSynced time.Time, status string) {
	t.Helper()

	query := `
		INSERT INTO sync_checkpoints (category, last_synced_date, last_sync_at, status)
		VALUES ($1, $2, NOW(), $3)
	`
	if _, err := env.DB.Exec(env.Ctx, query, category, lastSynced, status); err != nil {
		t.Fatalf("failed to seed checkpoint for %s: %v", category, err)
	}
}

// CreateTestJournalEntry inserts a journal entry and returns its ID.
func CreateTestJournalEntry(t *testing.T, env *TestEnvironment, day time.Time, category, content string) int64 {
	t.Helper()

	query := `
		INSERT INTO journal (entry_date, category, content, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING id
	`
	var id int64
	row := env.DB.QueryRow(env.Ctx, query, day, category, content)
	if err := row.Scan(&id); err != nil {
		t.Fatalf("failed to create test journal entry: %v", err)
	}
	return id
}

// ActivityFixture returns a fully populated activity for upsert tests.
func ActivityFixture(id int64, start time.Time) *models.Activity {
	typ := "running"
	name := "Morning Run"
	duration := 1800.0
	distance := 5000.0
	avgHR := 140
	return &models.Activity{
		ActivityID:      id,
		ActivityType:    &typ,
		ActivityName:    &name,
		StartTime:       &start,
		DurationSeconds: &duration,
		DistanceMeters:  &distance,
		AvgHR:           &avgHR,
		Raw:             json.RawMessage(fmt.Sprintf(`{"activityId":%d}`, id)),
	}
}
