package sync

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/VitalsyncDev/vitalsync-web/internal/logger"
)

// syncActivities pages through the activity list newest-first until a
// short or empty page. Already-synced activities are skipped
// individually; every page is still scanned in full so nothing
// interleaved around the checkpoint boundary is lost.
func (e *Engine) syncActivities(ctx context.Context, provider Provider) error {
	ctx, span := tracer.Start(ctx, "sync.activities")
	defer span.End()

	checkpoint, hasCheckpoint, err := e.store.LastSyncedDate(ctx, string(CategoryActivities))
	if err != nil {
		return fmt.Errorf("reading checkpoint: %w", err)
	}

	limiter := e.newLimiter()
	var (
		latest time.Time
		stored int
		offset int
	)
	if hasCheckpoint {
		latest = checkpoint
	}

	for {
		if err := limiter.Wait(ctx); err != nil {
			return err
		}
		page, err := provider.ListActivities(ctx, offset, pageSize)
		if err != nil {
			return fmt.Errorf("listing activities at offset %d: %w", offset, err)
		}
		if len(page) == 0 {
			break
		}

		for i := range page {
			a := &page[i]
			day, ok := a.StartDate()
			if !ok {
				logger.Warn("activity with unparseable start time, skipping", "activity_id", a.ActivityID)
				continue
			}
			if hasCheckpoint && !day.After(checkpoint) {
				// Already synced. Skip the individual activity but keep
				// scanning: newer entries can interleave below older ones.
				continue
			}
			if err := e.store.UpsertActivity(ctx, activityRow(a)); err != nil {
				return fmt.Errorf("storing activity %d: %w", a.ActivityID, err)
			}
			stored++
			if day.After(latest) {
				latest = day
			}
			e.board.SetProgress(CategoryActivities, fmt.Sprintf("Synced %d activities", stored))
		}

		if len(page) < pageSize {
			break
		}
		offset += pageSize
	}

	span.SetAttributes(attribute.Int("sync.stored", stored))
	logger.Info("activities synced", "stored", stored)

	// Advance the checkpoint only when something new arrived; a no-op run
	// leaves the high-water mark untouched.
	if latest.After(checkpoint) || (!hasCheckpoint && !latest.IsZero()) {
		if err := e.store.PutCheckpoint(ctx, string(CategoryActivities), latest, string(StatusCompleted), nil); err != nil {
			return fmt.Errorf("writing checkpoint: %w", err)
		}
	}
	return nil
}

// dayFetch fetches and stores one calendar day for a day-keyed category.
// It reports whether the day produced a row. A fetch error is not fatal
// (the day is logged and skipped); a storage error is.
type dayFetch func(ctx context.Context, day time.Time) (stored bool, fatal error)

// syncDays walks every calendar day from the checkpoint (exclusive) up
// to today and applies fetch to each. The checkpoint advances to the
// latest day that produced data; days after it (empty or failed) stay
// ahead of the high-water mark and are revisited on the next run.
func (e *Engine) syncDays(ctx context.Context, cat Category, fetch dayFetch) error {
	ctx, span := tracer.Start(ctx, "sync.days",
		trace.WithAttributes(attribute.String("sync.category", string(cat))))
	defer span.End()

	checkpoint, hasCheckpoint, err := e.store.LastSyncedDate(ctx, string(cat))
	if err != nil {
		return fmt.Errorf("reading checkpoint: %w", err)
	}

	var start time.Time
	if hasCheckpoint {
		start = checkpoint.AddDate(0, 0, 1)
	} else {
		start, err = e.firstSyncStart(ctx)
		if err != nil {
			return fmt.Errorf("determining first sync start: %w", err)
		}
	}

	today := e.today()
	if start.After(today) {
		logger.Info("already up to date", "category", string(cat))
		return nil
	}

	limiter := e.newLimiter()
	total := int(today.Sub(start).Hours()/24) + 1
	var latest time.Time
	var stored, skipped, processed int

	for day := start; !day.After(today); day = day.AddDate(0, 0, 1) {
		if err := limiter.Wait(ctx); err != nil {
			return err
		}
		ok, fatal := fetch(ctx, day)
		if fatal != nil {
			return fatal
		}
		if ok {
			stored++
			latest = day
		}
		processed++
		e.board.SetProgress(cat, fmt.Sprintf("Synced %d/%d days", processed, total))
	}
	skipped = processed - stored

	span.SetAttributes(
		attribute.Int("sync.stored", stored),
		attribute.Int("sync.skipped", skipped),
	)
	logger.Info("days synced", "category", string(cat), "stored", stored, "skipped", skipped)

	// Advance the checkpoint only to the latest day that produced data.
	// An all-empty walk writes nothing, so the cursor stays put.
	if !latest.IsZero() {
		if err := e.store.PutCheckpoint(ctx, string(cat), latest, string(StatusCompleted), nil); err != nil {
			return fmt.Errorf("writing checkpoint: %w", err)
		}
	}
	return nil
}

func (e *Engine) syncSleep(ctx context.Context, provider Provider) error {
	return e.syncDays(ctx, CategorySleep, func(ctx context.Context, day time.Time) (bool, error) {
		data, err := provider.SleepSummary(ctx, day)
		if err != nil {
			logger.Warn("sleep fetch failed, skipping day", "date", day.Format("2006-01-02"), "error", err)
			return false, nil
		}
		if !sleepHasData(data) {
			return false, nil
		}
		if err := e.store.UpsertSleep(ctx, sleepRow(day, data)); err != nil {
			return false, fmt.Errorf("storing sleep for %s: %w", day.Format("2006-01-02"), err)
		}
		return true, nil
	})
}

func (e *Engine) syncDaily(ctx context.Context, provider Provider) error {
	return e.syncDays(ctx, CategoryDaily, func(ctx context.Context, day time.Time) (bool, error) {
		data, err := provider.DailyStats(ctx, day)
		if err != nil {
			logger.Warn("daily stats fetch failed, skipping day", "date", day.Format("2006-01-02"), "error", err)
			return false, nil
		}
		if !dailyHasData(data) {
			return false, nil
		}
		if err := e.store.UpsertDailySummary(ctx, dailyRow(day, data)); err != nil {
			return false, fmt.Errorf("storing daily summary for %s: %w", day.Format("2006-01-02"), err)
		}
		return true, nil
	})
}

func (e *Engine) syncHeartRate(ctx context.Context, provider Provider) error {
	return e.syncDays(ctx, CategoryHeartRate, func(ctx context.Context, day time.Time) (bool, error) {
		data, err := provider.HeartRateSummary(ctx, day)
		if err != nil {
			logger.Warn("heart rate fetch failed, skipping day", "date", day.Format("2006-01-02"), "error", err)
			return false, nil
		}
		if !heartRateHasData(data) {
			return false, nil
		}
		if err := e.store.UpsertHeartRate(ctx, heartRateRow(day, data)); err != nil {
			return false, fmt.Errorf("storing heart rate for %s: %w", day.Format("2006-01-02"), err)
		}
		return true, nil
	})
}

// syncBody fetches body composition as one bulk range request rather
// than day by day; the provider returns only days that have entries.
func (e *Engine) syncBody(ctx context.Context, provider Provider) error {
	ctx, span := tracer.Start(ctx, "sync.body")
	defer span.End()

	checkpoint, hasCheckpoint, err := e.store.LastSyncedDate(ctx, string(CategoryBody))
	if err != nil {
		return fmt.Errorf("reading checkpoint: %w", err)
	}

	var start time.Time
	if hasCheckpoint {
		start = checkpoint.AddDate(0, 0, 1)
	} else {
		start, err = e.firstSyncStart(ctx)
		if err != nil {
			return fmt.Errorf("determining first sync start: %w", err)
		}
	}

	today := e.today()
	if start.After(today) {
		logger.Info("already up to date", "category", string(CategoryBody))
		return nil
	}

	limiter := e.newLimiter()
	if err := limiter.Wait(ctx); err != nil {
		return err
	}

	entries, err := provider.BodyComposition(ctx, start, today)
	if err != nil {
		return fmt.Errorf("fetching body composition %s..%s: %w",
			start.Format("2006-01-02"), today.Format("2006-01-02"), err)
	}

	var latest time.Time
	var stored int
	for i := range entries {
		entry := &entries[i]
		day, ok := entry.Date()
		if !ok {
			logger.Warn("body composition entry with unparseable date, skipping")
			continue
		}
		if err := e.store.UpsertBodyComposition(ctx, bodyRow(day, entry)); err != nil {
			return fmt.Errorf("storing body composition for %s: %w", day.Format("2006-01-02"), err)
		}
		stored++
		if day.After(latest) {
			latest = day
		}
		e.board.SetProgress(CategoryBody, fmt.Sprintf("Synced %d entries", stored))
	}

	span.SetAttributes(attribute.Int("sync.stored", stored))
	logger.Info("body composition synced", "stored", stored)

	// Checkpoint only to the latest entry date; an empty range writes
	// nothing and the cursor stays put.
	if !latest.IsZero() {
		if err := e.store.PutCheckpoint(ctx, string(CategoryBody), latest, string(StatusCompleted), nil); err != nil {
			return fmt.Errorf("writing checkpoint: %w", err)
		}
	}
	return nil
}
