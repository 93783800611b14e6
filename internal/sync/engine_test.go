package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	stdsync "sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VitalsyncDev/vitalsync-web/internal/garmin"
	"github.com/VitalsyncDev/vitalsync-web/internal/models"
)

// fakeStore is an in-memory Store for engine tests.
type fakeStore struct {
	mu          stdsync.Mutex
	checkpoints map[string]models.Checkpoint
	activities  map[int64]models.Activity
	sleep       map[string]models.Sleep
	daily       map[string]models.DailySummary
	heartRate   map[string]models.HeartRate
	body        map[string]models.BodyComposition
	earliest    *time.Time

	failActivityUpserts bool
	failSleepUpserts    bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		checkpoints: make(map[string]models.Checkpoint),
		activities:  make(map[int64]models.Activity),
		sleep:       make(map[string]models.Sleep),
		daily:       make(map[string]models.DailySummary),
		heartRate:   make(map[string]models.HeartRate),
		body:        make(map[string]models.BodyComposition),
	}
}

func dayKey(t time.Time) string { return t.Format("2006-01-02") }

func (s *fakeStore) LastSyncedDate(_ context.Context, category string) (time.Time, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp, ok := s.checkpoints[category]
	if !ok || cp.LastSyncedDate == nil {
		return time.Time{}, false, nil
	}
	return *cp.LastSyncedDate, true, nil
}

func (s *fakeStore) PutCheckpoint(_ context.Context, category string, lastSynced time.Time, status string, errMsg *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.checkpoints[category] = models.Checkpoint{
		Category:       category,
		LastSyncedDate: &lastSynced,
		LastSyncAt:     &now,
		Status:         status,
		ErrorMessage:   errMsg,
	}
	return nil
}

func (s *fakeStore) ListCheckpoints(_ context.Context) ([]models.Checkpoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Checkpoint, 0, len(s.checkpoints))
	for _, cp := range s.checkpoints {
		out = append(out, cp)
	}
	return out, nil
}

func (s *fakeStore) EarliestActivityDate(_ context.Context) (time.Time, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.earliest == nil {
		return time.Time{}, false, nil
	}
	return *s.earliest, true, nil
}

func (s *fakeStore) UpsertActivity(_ context.Context, a *models.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failActivityUpserts {
		return errors.New("disk full")
	}
	s.activities[a.ActivityID] = *a
	return nil
}

func (s *fakeStore) UpsertSleep(_ context.Context, v *models.Sleep) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSleepUpserts {
		return errors.New("disk full")
	}
	s.sleep[dayKey(v.CalendarDate)] = *v
	return nil
}

func (s *fakeStore) UpsertDailySummary(_ context.Context, v *models.DailySummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.daily[dayKey(v.CalendarDate)] = *v
	return nil
}

func (s *fakeStore) UpsertHeartRate(_ context.Context, v *models.HeartRate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.heartRate[dayKey(v.CalendarDate)] = *v
	return nil
}

func (s *fakeStore) UpsertBodyComposition(_ context.Context, v *models.BodyComposition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.body[dayKey(v.CalendarDate)] = *v
	return nil
}

// fakeProvider dispatches to per-endpoint funcs; unset endpoints return
// no data.
type fakeProvider struct {
	listActivities   func(start, limit int) ([]garmin.Activity, error)
	sleepSummary     func(day time.Time) (*garmin.SleepData, error)
	dailyStats       func(day time.Time) (*garmin.DailyStats, error)
	heartRateSummary func(day time.Time) (*garmin.HeartRateDaily, error)
	bodyComposition  func(start, end time.Time) ([]garmin.WeightEntry, error)
}

func (p *fakeProvider) ListActivities(_ context.Context, start, limit int) ([]garmin.Activity, error) {
	if p.listActivities == nil {
		return nil, nil
	}
	return p.listActivities(start, limit)
}

func (p *fakeProvider) SleepSummary(_ context.Context, day time.Time) (*garmin.SleepData, error) {
	if p.sleepSummary == nil {
		return nil, nil
	}
	return p.sleepSummary(day)
}

func (p *fakeProvider) DailyStats(_ context.Context, day time.Time) (*garmin.DailyStats, error) {
	if p.dailyStats == nil {
		return nil, nil
	}
	return p.dailyStats(day)
}

func (p *fakeProvider) HeartRateSummary(_ context.Context, day time.Time) (*garmin.HeartRateDaily, error) {
	if p.heartRateSummary == nil {
		return nil, nil
	}
	return p.heartRateSummary(day)
}

func (p *fakeProvider) BodyComposition(_ context.Context, start, end time.Time) ([]garmin.WeightEntry, error) {
	if p.bodyComposition == nil {
		return nil, nil
	}
	return p.bodyComposition(start, end)
}

type fakeAuth struct {
	provider Provider
	err      error
}

func (a fakeAuth) Login(context.Context) (Provider, error) {
	if a.err != nil {
		return nil, a.err
	}
	return a.provider, nil
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestEngine(store Store, provider Provider, today time.Time) *Engine {
	return NewEngine(store, fakeAuth{provider: provider},
		WithPacing(0),
		WithClock(func() time.Time { return today }),
	)
}

func activityAt(id int64, startLocal string) garmin.Activity {
	s := startLocal
	a := garmin.Activity{ActivityID: id, StartTimeLocal: &s}
	typ := "running"
	a.ActivityType.TypeKey = &typ
	a.Raw = json.RawMessage(fmt.Sprintf(`{"activityId":%d}`, id))
	return a
}

func checkpointDate(t *testing.T, store *fakeStore, cat Category) time.Time {
	t.Helper()
	cp, ok := store.checkpoints[string(cat)]
	require.True(t, ok, "no checkpoint for %s", cat)
	require.NotNil(t, cp.LastSyncedDate)
	return *cp.LastSyncedDate
}

func TestSyncActivitiesFirstRun(t *testing.T) {
	store := newFakeStore()
	provider := &fakeProvider{
		listActivities: func(start, limit int) ([]garmin.Activity, error) {
			if start > 0 {
				return nil, nil
			}
			return []garmin.Activity{
				activityAt(3, "2024-06-10 07:30:00"),
				activityAt(2, "2024-06-08 18:00:00"),
				activityAt(1, "2024-06-01 06:00:00"),
			}, nil
		},
	}
	e := newTestEngine(store, provider, date(2024, 6, 15))

	require.NoError(t, e.SyncOne(context.Background(), CategoryActivities))

	assert.Len(t, store.activities, 3)
	assert.Equal(t, date(2024, 6, 10), checkpointDate(t, store, CategoryActivities))
	assert.Equal(t, string(StatusCompleted), store.checkpoints["activities"].Status)
}

func TestSyncActivitiesResumeSkipsSynced(t *testing.T) {
	store := newFakeStore()
	require.NoError(t, store.PutCheckpoint(context.Background(), "activities", date(2024, 6, 8), string(StatusCompleted), nil))

	provider := &fakeProvider{
		listActivities: func(start, limit int) ([]garmin.Activity, error) {
			if start > 0 {
				return nil, nil
			}
			// The boundary page interleaves new and already-synced
			// entries; the newer ones after the boundary must still land.
			return []garmin.Activity{
				activityAt(5, "2024-06-12 07:00:00"),
				activityAt(4, "2024-06-08 09:00:00"), // at checkpoint, skip
				activityAt(6, "2024-06-11 07:00:00"),
				activityAt(3, "2024-06-05 09:00:00"), // before checkpoint, skip
			}, nil
		},
	}
	e := newTestEngine(store, provider, date(2024, 6, 15))

	require.NoError(t, e.SyncOne(context.Background(), CategoryActivities))

	assert.Len(t, store.activities, 2)
	assert.Contains(t, store.activities, int64(5))
	assert.Contains(t, store.activities, int64(6))
	assert.Equal(t, date(2024, 6, 12), checkpointDate(t, store, CategoryActivities))
}

func TestSyncActivitiesPaginatesPastBoundaryPage(t *testing.T) {
	store := newFakeStore()
	require.NoError(t, store.PutCheckpoint(context.Background(), "activities", date(2024, 5, 1), string(StatusCompleted), nil))

	// Page 0 is full and straddles the checkpoint. A full page means there
	// may be more, so page 1 must still be requested; only its short
	// length stops the loop.
	var pagesRequested []int
	provider := &fakeProvider{
		listActivities: func(start, limit int) ([]garmin.Activity, error) {
			pagesRequested = append(pagesRequested, start)
			switch start {
			case 0:
				page := make([]garmin.Activity, limit)
				for i := range page {
					var day time.Time
					if i < 60 {
						day = date(2024, 6, 1).AddDate(0, 0, -i/2) // after checkpoint
					} else {
						day = date(2024, 4, 20).AddDate(0, 0, -(i - 60)) // before checkpoint
					}
					page[i] = activityAt(int64(1000+i), day.Format("2006-01-02")+" 08:00:00")
				}
				return page, nil
			case 100:
				return []garmin.Activity{
					activityAt(10, "2024-02-01 08:00:00"),
					activityAt(11, "2024-01-15 08:00:00"),
				}, nil
			default:
				return nil, errors.New("unexpected page")
			}
		},
	}
	e := newTestEngine(store, provider, date(2024, 6, 15))

	require.NoError(t, e.SyncOne(context.Background(), CategoryActivities))

	assert.Equal(t, []int{0, 100}, pagesRequested)
	assert.Len(t, store.activities, 60)
	assert.Equal(t, date(2024, 6, 1), checkpointDate(t, store, CategoryActivities))
}

func TestSyncActivitiesIdempotent(t *testing.T) {
	store := newFakeStore()
	provider := &fakeProvider{
		listActivities: func(start, limit int) ([]garmin.Activity, error) {
			if start > 0 {
				return nil, nil
			}
			return []garmin.Activity{activityAt(1, "2024-06-10 07:30:00")}, nil
		},
	}
	e := newTestEngine(store, provider, date(2024, 6, 15))

	require.NoError(t, e.SyncOne(context.Background(), CategoryActivities))
	first := checkpointDate(t, store, CategoryActivities)

	require.NoError(t, e.SyncOne(context.Background(), CategoryActivities))

	assert.Len(t, store.activities, 1)
	assert.Equal(t, first, checkpointDate(t, store, CategoryActivities))
}

func TestSyncActivitiesPageFailureWritesErrorCheckpoint(t *testing.T) {
	store := newFakeStore()
	provider := &fakeProvider{
		listActivities: func(start, limit int) ([]garmin.Activity, error) {
			return nil, errors.New("rate limited")
		},
	}
	today := date(2024, 6, 15)
	e := newTestEngine(store, provider, today)

	require.NoError(t, e.SyncOne(context.Background(), CategoryActivities))

	cp := store.checkpoints["activities"]
	assert.Equal(t, string(StatusError), cp.Status)
	require.NotNil(t, cp.ErrorMessage)
	assert.Contains(t, *cp.ErrorMessage, "rate limited")
	assert.Equal(t, today, *cp.LastSyncedDate)

	live, ok := e.Board().Get(CategoryActivities)
	require.True(t, ok)
	assert.Equal(t, StatusError, live.Status)
}

func sleepFor(day time.Time) *garmin.SleepData {
	total := 28800
	startMs := day.Add(-2 * time.Hour).UnixMilli()
	endMs := day.Add(6 * time.Hour).UnixMilli()
	d := &garmin.SleepData{
		DailySleep: &garmin.DailySleep{
			SleepTimeSeconds:         &total,
			SleepStartTimestampLocal: &startMs,
			SleepEndTimestampLocal:   &endMs,
		},
	}
	d.Raw = json.RawMessage(`{}`)
	return d
}

func TestSyncSleepResumesFromCheckpoint(t *testing.T) {
	store := newFakeStore()
	require.NoError(t, store.PutCheckpoint(context.Background(), "sleep", date(2024, 6, 10), string(StatusCompleted), nil))

	var requested []string
	provider := &fakeProvider{
		sleepSummary: func(day time.Time) (*garmin.SleepData, error) {
			requested = append(requested, dayKey(day))
			return sleepFor(day), nil
		},
	}
	e := newTestEngine(store, provider, date(2024, 6, 13))

	require.NoError(t, e.SyncOne(context.Background(), CategorySleep))

	assert.Equal(t, []string{"2024-06-11", "2024-06-12", "2024-06-13"}, requested)
	assert.Len(t, store.sleep, 3)
	assert.Equal(t, date(2024, 6, 13), checkpointDate(t, store, CategorySleep))
}

func TestSyncSleepFirstRunStartsAtEarliestActivity(t *testing.T) {
	store := newFakeStore()
	earliest := date(2021, 2, 5)
	store.earliest = &earliest

	var first string
	provider := &fakeProvider{
		sleepSummary: func(day time.Time) (*garmin.SleepData, error) {
			if first == "" {
				first = dayKey(day)
			}
			return sleepFor(day), nil
		},
	}
	e := newTestEngine(store, provider, date(2021, 2, 8))

	require.NoError(t, e.SyncOne(context.Background(), CategorySleep))

	assert.Equal(t, "2021-02-05", first)
	assert.Equal(t, date(2021, 2, 8), checkpointDate(t, store, CategorySleep))
}

func TestSyncSleepFirstRunFallbackStart(t *testing.T) {
	store := newFakeStore()

	var first string
	provider := &fakeProvider{
		sleepSummary: func(day time.Time) (*garmin.SleepData, error) {
			if first == "" {
				first = dayKey(day)
			}
			return nil, nil
		},
	}
	e := newTestEngine(store, provider, date(2015, 1, 3))

	require.NoError(t, e.SyncOne(context.Background(), CategorySleep))

	assert.Equal(t, "2015-01-01", first)
}

func TestSyncSleepSkipsFailedDays(t *testing.T) {
	store := newFakeStore()
	require.NoError(t, store.PutCheckpoint(context.Background(), "sleep", date(2024, 6, 10), string(StatusCompleted), nil))

	provider := &fakeProvider{
		sleepSummary: func(day time.Time) (*garmin.SleepData, error) {
			if dayKey(day) == "2024-06-12" {
				return nil, errors.New("gateway timeout")
			}
			return sleepFor(day), nil
		},
	}
	e := newTestEngine(store, provider, date(2024, 6, 13))

	require.NoError(t, e.SyncOne(context.Background(), CategorySleep))

	// The failed middle day is skipped but the walk finishes. Later days
	// stored data, so the checkpoint moves past the gap and the run
	// still counts as completed.
	assert.Len(t, store.sleep, 2)
	assert.NotContains(t, store.sleep, "2024-06-12")
	assert.Equal(t, date(2024, 6, 13), checkpointDate(t, store, CategorySleep))
	assert.Equal(t, string(StatusCompleted), store.checkpoints["sleep"].Status)
}

func TestSyncSleepTrailingFailedDayRetriedNextRun(t *testing.T) {
	store := newFakeStore()
	require.NoError(t, store.PutCheckpoint(context.Background(), "sleep", date(2024, 6, 10), string(StatusCompleted), nil))

	provider := &fakeProvider{
		sleepSummary: func(day time.Time) (*garmin.SleepData, error) {
			if dayKey(day) == "2024-06-13" {
				return nil, errors.New("gateway timeout")
			}
			return sleepFor(day), nil
		},
	}
	e := newTestEngine(store, provider, date(2024, 6, 13))

	require.NoError(t, e.SyncOne(context.Background(), CategorySleep))

	// No day after the failure stored anything, so the checkpoint stops
	// at the last good day and the next run's cursor revisits 06-13.
	assert.Len(t, store.sleep, 2)
	assert.Equal(t, date(2024, 6, 12), checkpointDate(t, store, CategorySleep))
}

func TestSyncSleepNoDataDaysNotStored(t *testing.T) {
	store := newFakeStore()
	require.NoError(t, store.PutCheckpoint(context.Background(), "sleep", date(2024, 6, 10), string(StatusCompleted), nil))

	provider := &fakeProvider{
		sleepSummary: func(day time.Time) (*garmin.SleepData, error) {
			return &garmin.SleepData{}, nil // present but empty payload
		},
	}
	e := newTestEngine(store, provider, date(2024, 6, 13))

	require.NoError(t, e.SyncOne(context.Background(), CategorySleep))

	// Nothing stored, so the high-water mark stays where it was.
	assert.Empty(t, store.sleep)
	assert.Equal(t, date(2024, 6, 10), checkpointDate(t, store, CategorySleep))
}

func TestSyncSleepNoDataFirstRunWritesNoCheckpoint(t *testing.T) {
	store := newFakeStore()
	earliest := date(2024, 6, 1)
	store.earliest = &earliest

	provider := &fakeProvider{
		sleepSummary: func(day time.Time) (*garmin.SleepData, error) {
			return nil, nil
		},
	}
	e := newTestEngine(store, provider, date(2024, 6, 13))

	require.NoError(t, e.SyncOne(context.Background(), CategorySleep))

	// An all-empty first run must not write a checkpoint, or the whole
	// historical range would be skipped forever.
	_, ok := store.checkpoints["sleep"]
	assert.False(t, ok)
}

func TestSyncSleepStorageFailureIsFatal(t *testing.T) {
	store := newFakeStore()
	store.failSleepUpserts = true
	require.NoError(t, store.PutCheckpoint(context.Background(), "sleep", date(2024, 6, 10), string(StatusCompleted), nil))

	provider := &fakeProvider{
		sleepSummary: func(day time.Time) (*garmin.SleepData, error) {
			return sleepFor(day), nil
		},
	}
	e := newTestEngine(store, provider, date(2024, 6, 13))

	require.NoError(t, e.SyncOne(context.Background(), CategorySleep))

	cp := store.checkpoints["sleep"]
	assert.Equal(t, string(StatusError), cp.Status)
	require.NotNil(t, cp.ErrorMessage)
	assert.Contains(t, *cp.ErrorMessage, "disk full")
}

func TestSyncSleepAlreadyUpToDate(t *testing.T) {
	store := newFakeStore()
	today := date(2024, 6, 13)
	require.NoError(t, store.PutCheckpoint(context.Background(), "sleep", today, string(StatusCompleted), nil))

	provider := &fakeProvider{
		sleepSummary: func(day time.Time) (*garmin.SleepData, error) {
			return nil, errors.New("should not be called")
		},
	}
	e := newTestEngine(store, provider, today)

	require.NoError(t, e.SyncOne(context.Background(), CategorySleep))
	assert.Equal(t, today, checkpointDate(t, store, CategorySleep))
}

func TestSyncBodyBulkRange(t *testing.T) {
	store := newFakeStore()
	require.NoError(t, store.PutCheckpoint(context.Background(), "body", date(2024, 6, 1), string(StatusCompleted), nil))

	var gotStart, gotEnd time.Time
	provider := &fakeProvider{
		bodyComposition: func(start, end time.Time) ([]garmin.WeightEntry, error) {
			gotStart, gotEnd = start, end
			d1, d2 := "2024-06-03", "2024-06-07"
			grams := 72500.0
			return []garmin.WeightEntry{
				{CalendarDate: &d1, Weight: &grams},
				{CalendarDate: &d2, Weight: &grams},
			}, nil
		},
	}
	e := newTestEngine(store, provider, date(2024, 6, 10))

	require.NoError(t, e.SyncOne(context.Background(), CategoryBody))

	assert.Equal(t, date(2024, 6, 2), gotStart)
	assert.Equal(t, date(2024, 6, 10), gotEnd)
	require.Len(t, store.body, 2)
	require.NotNil(t, store.body["2024-06-03"].WeightKg)
	assert.InDelta(t, 72.5, *store.body["2024-06-03"].WeightKg, 1e-9)
	assert.Equal(t, date(2024, 6, 7), checkpointDate(t, store, CategoryBody))
}

func TestSyncBodyEmptyRangeLeavesCheckpoint(t *testing.T) {
	store := newFakeStore()
	require.NoError(t, store.PutCheckpoint(context.Background(), "body", date(2024, 6, 1), string(StatusCompleted), nil))

	provider := &fakeProvider{
		bodyComposition: func(start, end time.Time) ([]garmin.WeightEntry, error) {
			return nil, nil
		},
	}
	e := newTestEngine(store, provider, date(2024, 6, 10))

	require.NoError(t, e.SyncOne(context.Background(), CategoryBody))

	assert.Empty(t, store.body)
	assert.Equal(t, date(2024, 6, 1), checkpointDate(t, store, CategoryBody))
}

func TestSyncBodyFetchFailureIsFatal(t *testing.T) {
	store := newFakeStore()
	provider := &fakeProvider{
		bodyComposition: func(start, end time.Time) ([]garmin.WeightEntry, error) {
			return nil, errors.New("upstream 500")
		},
	}
	e := newTestEngine(store, provider, date(2015, 1, 2))

	require.NoError(t, e.SyncOne(context.Background(), CategoryBody))

	cp := store.checkpoints["body"]
	assert.Equal(t, string(StatusError), cp.Status)
}

func TestSyncAllLoginFailureAbortsEverything(t *testing.T) {
	store := newFakeStore()
	e := NewEngine(store, fakeAuth{err: errors.New("bad credentials")},
		WithPacing(0),
		WithClock(func() time.Time { return date(2024, 6, 15) }),
	)

	err := e.SyncAll(context.Background())
	require.Error(t, err)
	assert.Empty(t, store.checkpoints)
}

func TestSyncAllCategoryFailureDoesNotAbortSiblings(t *testing.T) {
	store := newFakeStore()
	require.NoError(t, store.PutCheckpoint(context.Background(), "sleep", date(2024, 6, 14), string(StatusCompleted), nil))
	require.NoError(t, store.PutCheckpoint(context.Background(), "daily", date(2024, 6, 14), string(StatusCompleted), nil))
	require.NoError(t, store.PutCheckpoint(context.Background(), "heart_rate", date(2024, 6, 14), string(StatusCompleted), nil))
	require.NoError(t, store.PutCheckpoint(context.Background(), "body", date(2024, 6, 14), string(StatusCompleted), nil))

	provider := &fakeProvider{
		listActivities: func(start, limit int) ([]garmin.Activity, error) {
			return nil, errors.New("activities endpoint down")
		},
	}
	e := newTestEngine(store, provider, date(2024, 6, 15))

	require.NoError(t, e.SyncAll(context.Background()))

	assert.Equal(t, string(StatusError), store.checkpoints["activities"].Status)
	for _, cat := range []string{"sleep", "daily", "heart_rate", "body"} {
		assert.Equal(t, string(StatusCompleted), store.checkpoints[cat].Status, cat)
	}
}

func TestSyncOneRefusedWhileSyncing(t *testing.T) {
	store := newFakeStore()
	e := newTestEngine(store, &fakeProvider{}, date(2024, 6, 15))

	require.True(t, e.Board().Begin(CategorySleep, "held by test"))

	require.NoError(t, e.SyncOne(context.Background(), CategorySleep))
	assert.Empty(t, store.checkpoints, "refused run must not touch the store")
}

func TestTriggerConflict(t *testing.T) {
	store := newFakeStore()
	e := newTestEngine(store, &fakeProvider{}, date(2024, 6, 15))

	require.True(t, e.Board().Begin(CategoryDaily, "held by test"))

	done, started := e.Trigger(CategoryDaily)
	assert.False(t, started)
	assert.Nil(t, done)
}

func TestTriggerRunsToCompletion(t *testing.T) {
	store := newFakeStore()
	require.NoError(t, store.PutCheckpoint(context.Background(), "daily", date(2024, 6, 14), string(StatusCompleted), nil))
	e := newTestEngine(store, &fakeProvider{}, date(2024, 6, 15))

	done, started := e.Trigger(CategoryDaily)
	require.True(t, started)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("sync did not finish")
	}

	live, ok := e.Board().Get(CategoryDaily)
	require.True(t, ok)
	assert.Equal(t, StatusCompleted, live.Status)
	// The one walked day had no data, so the durable cursor stayed put.
	assert.Equal(t, date(2024, 6, 14), checkpointDate(t, store, CategoryDaily))
}

func TestStatusReportMergesLiveOverDurable(t *testing.T) {
	store := newFakeStore()
	require.NoError(t, store.PutCheckpoint(context.Background(), "sleep", date(2024, 6, 10), string(StatusCompleted), nil))
	e := newTestEngine(store, &fakeProvider{}, date(2024, 6, 15))

	// A run is live for sleep and for a category with no checkpoint yet.
	require.True(t, e.Board().Begin(CategorySleep, "Synced 3/5 days"))
	require.True(t, e.Board().Begin(CategoryBody, "Starting sync..."))

	entries, err := e.StatusReport(context.Background())
	require.NoError(t, err)

	byCat := make(map[string]StatusEntry, len(entries))
	for _, entry := range entries {
		byCat[entry.Category] = entry
	}

	sleep := byCat["sleep"]
	assert.Equal(t, string(StatusSyncing), sleep.Status)
	require.NotNil(t, sleep.Progress)
	assert.Equal(t, "Synced 3/5 days", *sleep.Progress)
	require.NotNil(t, sleep.LastSyncedDate, "durable fields survive the live overlay")

	body, ok := byCat["body"]
	require.True(t, ok, "live-only category appears as a synthetic entry")
	assert.Equal(t, string(StatusSyncing), body.Status)
	assert.Nil(t, body.LastSyncedDate)
}

func TestStatusReportDurableOnly(t *testing.T) {
	store := newFakeStore()
	msg := "rate limited"
	now := date(2024, 6, 14)
	store.checkpoints["activities"] = models.Checkpoint{
		Category:       "activities",
		LastSyncedDate: &now,
		Status:         string(StatusError),
		ErrorMessage:   &msg,
	}
	e := newTestEngine(store, &fakeProvider{}, date(2024, 6, 15))

	entries, err := e.StatusReport(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, string(StatusError), entries[0].Status)
	assert.Nil(t, entries[0].Progress)
	require.NotNil(t, entries[0].ErrorMessage)
	assert.Equal(t, msg, *entries[0].ErrorMessage)
}
