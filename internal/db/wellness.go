package db

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/VitalsyncDev/vitalsync-web/internal/models"
)

// The four day-keyed wellness tables share one upsert discipline: conflict
// target is the calendar date, and every derived column plus the raw
// payload is overwritten on conflict.

// UpsertSleep inserts or fully overwrites one night's sleep summary.
func (db *DB) UpsertSleep(ctx context.Context, s *models.Sleep) error {
	ctx, span := tracer.Start(ctx, "db.upsert_sleep",
		trace.WithAttributes(attribute.String("calendar_date", s.CalendarDate.Format(time.DateOnly))))
	defer span.End()

	query := `
		INSERT INTO sleep (
			calendar_date, sleep_start, sleep_end, total_sleep_seconds,
			deep_seconds, light_seconds, rem_seconds, awake_seconds,
			sleep_score, avg_respiration, avg_spo2, raw_json
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (calendar_date) DO UPDATE SET
			sleep_start = $2,
			sleep_end = $3,
			total_sleep_seconds = $4,
			deep_seconds = $5,
			light_seconds = $6,
			rem_seconds = $7,
			awake_seconds = $8,
			sleep_score = $9,
			avg_respiration = $10,
			avg_spo2 = $11,
			raw_json = $12
	`
	_, err := db.conn.ExecContext(ctx, query,
		s.CalendarDate, s.SleepStart, s.SleepEnd, s.TotalSleepSeconds,
		s.DeepSeconds, s.LightSeconds, s.REMSeconds, s.AwakeSeconds,
		s.SleepScore, s.AvgRespiration, s.AvgSpO2, []byte(s.Raw))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to upsert sleep: %w", err)
	}
	return nil
}

// UpsertDailySummary inserts or fully overwrites one day's wellness rollup.
func (db *DB) UpsertDailySummary(ctx context.Context, d *models.DailySummary) error {
	ctx, span := tracer.Start(ctx, "db.upsert_daily_summary",
		trace.WithAttributes(attribute.String("calendar_date", d.CalendarDate.Format(time.DateOnly))))
	defer span.End()

	query := `
		INSERT INTO daily_summary (
			calendar_date, steps, total_distance_meters, active_calories,
			total_calories, resting_hr, max_hr, avg_stress, max_stress,
			body_battery_high, body_battery_low, floors_climbed,
			intensity_minutes, raw_json
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (calendar_date) DO UPDATE SET
			steps = $2,
			total_distance_meters = $3,
			active_calories = $4,
			total_calories = $5,
			resting_hr = $6,
			max_hr = $7,
			avg_stress = $8,
			max_stress = $9,
			body_battery_high = $10,
			body_battery_low = $11,
			floors_climbed = $12,
			intensity_minutes = $13,
			raw_json = $14
	`
	_, err := db.conn.ExecContext(ctx, query,
		d.CalendarDate, d.Steps, d.TotalDistanceMeters, d.ActiveCalories,
		d.TotalCalories, d.RestingHR, d.MaxHR, d.AvgStress, d.MaxStress,
		d.BodyBatteryHigh, d.BodyBatteryLow, d.FloorsClimbed,
		d.IntensityMinutes, []byte(d.Raw))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to upsert daily summary: %w", err)
	}
	return nil
}

// UpsertHeartRate inserts or fully overwrites one day's heart-rate summary.
func (db *DB) UpsertHeartRate(ctx context.Context, h *models.HeartRate) error {
	ctx, span := tracer.Start(ctx, "db.upsert_heart_rate",
		trace.WithAttributes(attribute.String("calendar_date", h.CalendarDate.Format(time.DateOnly))))
	defer span.End()

	query := `
		INSERT INTO heart_rate (calendar_date, resting_hr, max_hr, min_hr, raw_json)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (calendar_date) DO UPDATE SET
			resting_hr = $2,
			max_hr = $3,
			min_hr = $4,
			raw_json = $5
	`
	_, err := db.conn.ExecContext(ctx, query,
		h.CalendarDate, h.RestingHR, h.MaxHR, h.MinHR, []byte(h.Raw))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to upsert heart rate: %w", err)
	}
	return nil
}

// UpsertBodyComposition inserts or fully overwrites one day's weigh-in.
func (db *DB) UpsertBodyComposition(ctx context.Context, b *models.BodyComposition) error {
	ctx, span := tracer.Start(ctx, "db.upsert_body_composition",
		trace.WithAttributes(attribute.String("calendar_date", b.CalendarDate.Format(time.DateOnly))))
	defer span.End()

	query := `
		INSERT INTO body_composition (
			calendar_date, weight_kg, bmi, body_fat_pct,
			muscle_mass_kg, bone_mass_kg, body_water_pct, raw_json
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (calendar_date) DO UPDATE SET
			weight_kg = $2,
			bmi = $3,
			body_fat_pct = $4,
			muscle_mass_kg = $5,
			bone_mass_kg = $6,
			body_water_pct = $7,
			raw_json = $8
	`
	_, err := db.conn.ExecContext(ctx, query,
		b.CalendarDate, b.WeightKg, b.BMI, b.BodyFatPct,
		b.MuscleMassKg, b.BoneMassKg, b.BodyWaterPct, []byte(b.Raw))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to upsert body composition: %w", err)
	}
	return nil
}

// DateRange bounds the day-keyed listing queries. Nil bounds are open.
type DateRange struct {
	Start *time.Time
	End   *time.Time
	Limit int
}

func (r DateRange) limit() int {
	if r.Limit <= 0 {
		return 100
	}
	return r.Limit
}

// ListSleep returns sleep rows in the range, newest-first.
func (db *DB) ListSleep(ctx context.Context, r DateRange) ([]models.Sleep, error) {
	ctx, span := tracer.Start(ctx, "db.list_sleep")
	defer span.End()

	query := `
		SELECT calendar_date, sleep_start, sleep_end, total_sleep_seconds,
		       deep_seconds, light_seconds, rem_seconds, awake_seconds,
		       sleep_score, avg_respiration, avg_spo2
		FROM sleep
		WHERE ($1::date IS NULL OR calendar_date >= $1)
		  AND ($2::date IS NULL OR calendar_date <= $2)
		ORDER BY calendar_date DESC
		LIMIT $3
	`
	rows, err := db.conn.QueryContext(ctx, query, r.Start, r.End, r.limit())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to query sleep: %w", err)
	}
	defer rows.Close()

	var out []models.Sleep
	for rows.Next() {
		var s models.Sleep
		if err := rows.Scan(
			&s.CalendarDate, &s.SleepStart, &s.SleepEnd, &s.TotalSleepSeconds,
			&s.DeepSeconds, &s.LightSeconds, &s.REMSeconds, &s.AwakeSeconds,
			&s.SleepScore, &s.AvgRespiration, &s.AvgSpO2,
		); err != nil {
			return nil, fmt.Errorf("failed to scan sleep: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sleep: %w", err)
	}
	return out, nil
}

// ListDailySummaries returns daily rollups in the range, newest-first.
func (db *DB) ListDailySummaries(ctx context.Context, r DateRange) ([]models.DailySummary, error) {
	ctx, span := tracer.Start(ctx, "db.list_daily_summaries")
	defer span.End()

	query := `
		SELECT calendar_date, steps, total_distance_meters, active_calories,
		       total_calories, resting_hr, max_hr, avg_stress, max_stress,
		       body_battery_high, body_battery_low, floors_climbed, intensity_minutes
		FROM daily_summary
		WHERE ($1::date IS NULL OR calendar_date >= $1)
		  AND ($2::date IS NULL OR calendar_date <= $2)
		ORDER BY calendar_date DESC
		LIMIT $3
	`
	rows, err := db.conn.QueryContext(ctx, query, r.Start, r.End, r.limit())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to query daily summaries: %w", err)
	}
	defer rows.Close()

	var out []models.DailySummary
	for rows.Next() {
		var d models.DailySummary
		if err := rows.Scan(
			&d.CalendarDate, &d.Steps, &d.TotalDistanceMeters, &d.ActiveCalories,
			&d.TotalCalories, &d.RestingHR, &d.MaxHR, &d.AvgStress, &d.MaxStress,
			&d.BodyBatteryHigh, &d.BodyBatteryLow, &d.FloorsClimbed, &d.IntensityMinutes,
		); err != nil {
			return nil, fmt.Errorf("failed to scan daily summary: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily summaries: %w", err)
	}
	return out, nil
}

// ListHeartRates returns heart-rate rows in the range, newest-first.
func (db *DB) ListHeartRates(ctx context.Context, r DateRange) ([]models.HeartRate, error) {
	ctx, span := tracer.Start(ctx, "db.list_heart_rates")
	defer span.End()

	query := `
		SELECT calendar_date, resting_hr, max_hr, min_hr
		FROM heart_rate
		WHERE ($1::date IS NULL OR calendar_date >= $1)
		  AND ($2::date IS NULL OR calendar_date <= $2)
		ORDER BY calendar_date DESC
		LIMIT $3
	`
	rows, err := db.conn.QueryContext(ctx, query, r.Start, r.End, r.limit())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to query heart rates: %w", err)
	}
	defer rows.Close()

	var out []models.HeartRate
	for rows.Next() {
		var h models.HeartRate
		if err := rows.Scan(&h.CalendarDate, &h.RestingHR, &h.MaxHR, &h.MinHR); err != nil {
			return nil, fmt.Errorf("failed to scan heart rate: %w", err)
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating heart rates: %w", err)
	}
	return out, nil
}

// ListBodyCompositions returns weigh-in rows in the range, newest-first.
func (db *DB) ListBodyCompositions(ctx context.Context, r DateRange) ([]models.BodyComposition, error) {
	ctx, span := tracer.Start(ctx, "db.list_body_compositions")
	defer span.End()

	query := `
		SELECT calendar_date, weight_kg, bmi, body_fat_pct,
		       muscle_mass_kg, bone_mass_kg, body_water_pct
		FROM body_composition
		WHERE ($1::date IS NULL OR calendar_date >= $1)
		  AND ($2::date IS NULL OR calendar_date <= $2)
		ORDER BY calendar_date DESC
		LIMIT $3
	`
	rows, err := db.conn.QueryContext(ctx, query, r.Start, r.End, r.limit())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to query body compositions: %w", err)
	}
	defer rows.Close()

	var out []models.BodyComposition
	for rows.Next() {
		var b models.BodyComposition
		if err := rows.Scan(
			&b.CalendarDate, &b.WeightKg, &b.BMI, &b.BodyFatPct,
			&b.MuscleMassKg, &b.BoneMassKg, &b.BodyWaterPct,
		); err != nil {
			return nil, fmt.Errorf("failed to scan body composition: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating body compositions: %w", err)
	}
	return out, nil
}

// TruncateWellness deletes every row from the four day-keyed tables.
// Used by the backfill tool before an unconditional refetch.
func (db *DB) TruncateWellness(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "db.truncate_wellness")
	defer span.End()

	for _, table := range []string{"sleep", "daily_summary", "heart_rate", "body_composition"} {
		if _, err := db.conn.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}
