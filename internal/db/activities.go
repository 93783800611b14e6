package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/VitalsyncDev/vitalsync-web/internal/models"
)

// UpsertActivity inserts or fully overwrites an activity row keyed by the
// provider-assigned activity ID. Every derived column and the raw payload
// are replaced; last write wins.
func (db *DB) UpsertActivity(ctx context.Context, a *models.Activity) error {
	ctx, span := tracer.Start(ctx, "db.upsert_activity",
		trace.WithAttributes(attribute.Int64("activity.id", a.ActivityID)))
	defer span.End()

	query := `
		INSERT INTO activities (
			activity_id, activity_type, activity_name, start_time,
			duration_seconds, distance_meters, avg_hr, max_hr,
			avg_speed, max_speed, calories, cadence, vo2max,
			training_effect_aerobic, training_effect_anaerobic,
			elevation_gain, raw_json
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (activity_id) DO UPDATE SET
			activity_type = $2,
			activity_name = $3,
			start_time = $4,
			duration_seconds = $5,
			distance_meters = $6,
			avg_hr = $7,
			max_hr = $8,
			avg_speed = $9,
			max_speed = $10,
			calories = $11,
			cadence = $12,
			vo2max = $13,
			training_effect_aerobic = $14,
			training_effect_anaerobic = $15,
			elevation_gain = $16,
			raw_json = $17
	`
	_, err := db.conn.ExecContext(ctx, query,
		a.ActivityID, a.ActivityType, a.ActivityName, a.StartTime,
		a.DurationSeconds, a.DistanceMeters, a.AvgHR, a.MaxHR,
		a.AvgSpeed, a.MaxSpeed, a.Calories, a.Cadence, a.VO2Max,
		a.TrainingEffectAerobic, a.TrainingEffectAnaerobic,
		a.ElevationGain, []byte(a.Raw))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to upsert activity: %w", err)
	}
	return nil
}

// EarliestActivityDate returns the calendar date of the oldest stored
// activity. Activities sync via pagination all the way back to account
// inception, so this is the smart first-sync start for the day-keyed
// categories. ok is false when no activities exist yet.
func (db *DB) EarliestActivityDate(ctx context.Context) (time.Time, bool, error) {
	ctx, span := tracer.Start(ctx, "db.earliest_activity_date")
	defer span.End()

	query := `SELECT start_time FROM activities WHERE start_time IS NOT NULL ORDER BY start_time ASC LIMIT 1`
	var start time.Time
	err := db.conn.QueryRowContext(ctx, query).Scan(&start)
	if err == sql.ErrNoRows {
		return time.Time{}, false, nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return time.Time{}, false, fmt.Errorf("failed to query earliest activity: %w", err)
	}
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	return day, true, nil
}

// ActivityFilter narrows ListActivities results.
type ActivityFilter struct {
	Start  *time.Time
	End    *time.Time
	Types  []string // activity_type values; empty means all
	Limit  int
	Offset int
}

// ListActivities returns stored activities newest-first.
func (db *DB) ListActivities(ctx context.Context, f ActivityFilter) ([]models.Activity, error) {
	ctx, span := tracer.Start(ctx, "db.list_activities",
		trace.WithAttributes(attribute.Int("filter.limit", f.Limit)))
	defer span.End()

	query := `
		SELECT activity_id, activity_type, activity_name, start_time,
		       duration_seconds, distance_meters, avg_hr, max_hr,
		       avg_speed, max_speed, calories, cadence, vo2max,
		       training_effect_aerobic, training_effect_anaerobic, elevation_gain
		FROM activities
		WHERE ($1::timestamptz IS NULL OR start_time >= $1)
		  AND ($2::timestamptz IS NULL OR start_time <= $2)
		  AND (cardinality($3::text[]) = 0 OR activity_type = ANY($3))
		ORDER BY start_time DESC NULLS LAST
		LIMIT $4 OFFSET $5
	`
	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	types := f.Types
	if types == nil {
		types = []string{}
	}
	rows, err := db.conn.QueryContext(ctx, query, f.Start, f.End, pq.Array(types), limit, f.Offset)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to query activities: %w", err)
	}
	defer rows.Close()

	var out []models.Activity
	for rows.Next() {
		var a models.Activity
		if err := rows.Scan(
			&a.ActivityID, &a.ActivityType, &a.ActivityName, &a.StartTime,
			&a.DurationSeconds, &a.DistanceMeters, &a.AvgHR, &a.MaxHR,
			&a.AvgSpeed, &a.MaxSpeed, &a.Calories, &a.Cadence, &a.VO2Max,
			&a.TrainingEffectAerobic, &a.TrainingEffectAnaerobic, &a.ElevationGain,
		); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activities: %w", err)
	}
	return out, nil
}
