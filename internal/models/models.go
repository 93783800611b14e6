package models

import (
	"encoding/json"
	"time"
)

// Activity is a single recorded workout or event, keyed by the
// provider-assigned activity ID.
type Activity struct {
	ActivityID            int64           `json:"activity_id"`
	ActivityType          *string         `json:"activity_type,omitempty"`
	ActivityName          *string         `json:"activity_name,omitempty"`
	StartTime             *time.Time      `json:"start_time,omitempty"`
	DurationSeconds       *float64        `json:"duration_seconds,omitempty"`
	DistanceMeters        *float64        `json:"distance_meters,omitempty"`
	AvgHR                 *int            `json:"avg_hr,omitempty"`
	MaxHR                 *int            `json:"max_hr,omitempty"`
	AvgSpeed              *float64        `json:"avg_speed,omitempty"`
	MaxSpeed              *float64        `json:"max_speed,omitempty"`
	Calories              *float64        `json:"calories,omitempty"`
	Cadence               *float64        `json:"cadence,omitempty"`
	VO2Max                *float64        `json:"vo2max,omitempty"`
	TrainingEffectAerobic *float64        `json:"training_effect_aerobic,omitempty"`
	TrainingEffectAnaerobic *float64      `json:"training_effect_anaerobic,omitempty"`
	ElevationGain         *float64        `json:"elevation_gain,omitempty"`
	Raw                   json.RawMessage `json:"-"`
}

// Sleep is one night's sleep summary, at most one row per calendar date.
type Sleep struct {
	CalendarDate      time.Time       `json:"calendar_date"`
	SleepStart        *time.Time      `json:"sleep_start,omitempty"`
	SleepEnd          *time.Time      `json:"sleep_end,omitempty"`
	TotalSleepSeconds *int            `json:"total_sleep_seconds,omitempty"`
	DeepSeconds       *int            `json:"deep_seconds,omitempty"`
	LightSeconds      *int            `json:"light_seconds,omitempty"`
	REMSeconds        *int            `json:"rem_seconds,omitempty"`
	AwakeSeconds      *int            `json:"awake_seconds,omitempty"`
	SleepScore        *int            `json:"sleep_score,omitempty"`
	AvgRespiration    *float64        `json:"avg_respiration,omitempty"`
	AvgSpO2           *float64        `json:"avg_spo2,omitempty"`
	Raw               json.RawMessage `json:"-"`
}

// DailySummary is the whole-day wellness rollup for a calendar date.
type DailySummary struct {
	CalendarDate        time.Time       `json:"calendar_date"`
	Steps               *int            `json:"steps,omitempty"`
	TotalDistanceMeters *float64        `json:"total_distance_meters,omitempty"`
	ActiveCalories      *float64        `json:"active_calories,omitempty"`
	TotalCalories       *float64        `json:"total_calories,omitempty"`
	RestingHR           *int            `json:"resting_hr,omitempty"`
	MaxHR               *int            `json:"max_hr,omitempty"`
	AvgStress           *int            `json:"avg_stress,omitempty"`
	MaxStress           *int            `json:"max_stress,omitempty"`
	BodyBatteryHigh     *int            `json:"body_battery_high,omitempty"`
	BodyBatteryLow      *int            `json:"body_battery_low,omitempty"`
	FloorsClimbed       *int            `json:"floors_climbed,omitempty"`
	IntensityMinutes    *int            `json:"intensity_minutes,omitempty"`
	Raw                 json.RawMessage `json:"-"`
}

// HeartRate is the daily heart-rate summary for a calendar date.
type HeartRate struct {
	CalendarDate time.Time       `json:"calendar_date"`
	RestingHR    *int            `json:"resting_hr,omitempty"`
	MaxHR        *int            `json:"max_hr,omitempty"`
	MinHR        *int            `json:"min_hr,omitempty"`
	Raw          json.RawMessage `json:"-"`
}

// BodyComposition is a daily weigh-in record. Mass fields are stored in
// kilograms; the provider delivers grams.
type BodyComposition struct {
	CalendarDate time.Time       `json:"calendar_date"`
	WeightKg     *float64        `json:"weight_kg,omitempty"`
	BMI          *float64        `json:"bmi,omitempty"`
	BodyFatPct   *float64        `json:"body_fat_pct,omitempty"`
	MuscleMassKg *float64        `json:"muscle_mass_kg,omitempty"`
	BoneMassKg   *float64        `json:"bone_mass_kg,omitempty"`
	BodyWaterPct *float64        `json:"body_water_pct,omitempty"`
	Raw          json.RawMessage `json:"-"`
}

// JournalEntry is a user-authored note. The sync engine never writes these.
type JournalEntry struct {
	ID        int64     `json:"id"`
	EntryDate time.Time `json:"entry_date"`
	Category  string    `json:"category"`
	Content   string    `json:"content"`
	Rating    *int      `json:"rating,omitempty"`
	Tags      *string   `json:"tags,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Checkpoint is the durable sync progress record for one data category.
// LastSyncedDate is nil when the category has never completed a sync.
type Checkpoint struct {
	Category       string     `json:"category"`
	LastSyncedDate *time.Time `json:"last_synced_date,omitempty"`
	LastSyncAt     *time.Time `json:"last_sync_at,omitempty"`
	Status         string     `json:"status"`
	ErrorMessage   *string    `json:"error_message,omitempty"`
}
