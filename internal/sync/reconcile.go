package sync

import (
	"math"
	"time"

	"github.com/VitalsyncDev/vitalsync-web/internal/garmin"
	"github.com/VitalsyncDev/vitalsync-web/internal/models"
)

// Reconciliation maps one provider record into at most one stored row.
// Every mapping is a full overwrite: the upsert replaces all derived
// columns and the raw payload, last write wins. Categories with a
// has-data predicate produce no row on empty days; the day still counts
// as visited for cursor purposes.

func activityRow(a *garmin.Activity) *models.Activity {
	cadence := a.AverageRunningCadenceInStepsPerMinute
	if cadence == nil {
		cadence = a.AverageBikingCadenceInRevPerMinute
	}
	return &models.Activity{
		ActivityID:              a.ActivityID,
		ActivityType:            a.ActivityType.TypeKey,
		ActivityName:            a.ActivityName,
		StartTime:               a.StartTime(),
		DurationSeconds:         a.Duration,
		DistanceMeters:          a.Distance,
		AvgHR:                   roundToInt(a.AverageHR),
		MaxHR:                   roundToInt(a.MaxHR),
		AvgSpeed:                a.AverageSpeed,
		MaxSpeed:                a.MaxSpeed,
		Calories:                a.Calories,
		Cadence:                 cadence,
		VO2Max:                  a.VO2MaxValue,
		TrainingEffectAerobic:   a.AerobicTrainingEffect,
		TrainingEffectAnaerobic: a.AnaerobicTrainingEffect,
		ElevationGain:           a.ElevationGain,
		Raw:                     a.Raw,
	}
}

// sleepHasData reports whether the response carries a real night of
// sleep. The provider answers 200 with an empty shell for days the
// watch was off.
func sleepHasData(d *garmin.SleepData) bool {
	return d != nil && d.DailySleep != nil
}

func sleepRow(day time.Time, d *garmin.SleepData) *models.Sleep {
	s := d.DailySleep
	return &models.Sleep{
		CalendarDate:      day,
		SleepStart:        millisToTime(s.SleepStartTimestampLocal),
		SleepEnd:          millisToTime(s.SleepEndTimestampLocal),
		TotalSleepSeconds: s.SleepTimeSeconds,
		DeepSeconds:       s.DeepSleepSeconds,
		LightSeconds:      s.LightSleepSeconds,
		REMSeconds:        s.RemSleepSeconds,
		AwakeSeconds:      s.AwakeSleepSeconds,
		SleepScore:        d.Score(),
		AvgRespiration:    s.AverageRespiration,
		AvgSpO2:           s.AverageSpO2Value,
		Raw:               d.Raw,
	}
}

// dailyHasData requires at least one key metric; all-zero days are not
// stored as empty placeholders.
func dailyHasData(d *garmin.DailyStats) bool {
	if d == nil {
		return false
	}
	return nonZeroInt(d.TotalSteps) || nonZeroInt(d.RestingHeartRate) || nonZeroFloat(d.TotalKilocalories)
}

func dailyRow(day time.Time, d *garmin.DailyStats) *models.DailySummary {
	return &models.DailySummary{
		CalendarDate:        day,
		Steps:               d.TotalSteps,
		TotalDistanceMeters: d.TotalDistanceMeters,
		ActiveCalories:      d.ActiveKilocalories,
		TotalCalories:       d.TotalKilocalories,
		RestingHR:           d.RestingHeartRate,
		MaxHR:               d.MaxHeartRate,
		AvgStress:           d.AverageStressLevel,
		MaxStress:           d.MaxStressLevel,
		BodyBatteryHigh:     d.BodyBatteryChargedValue,
		BodyBatteryLow:      d.BodyBatteryDrainedValue,
		FloorsClimbed:       roundToInt(d.FloorsAscended),
		IntensityMinutes:    intensityMinutes(d.ModerateIntensityMinutes, d.VigorousIntensityMinutes),
		Raw:                 d.Raw,
	}
}

func heartRateHasData(h *garmin.HeartRateDaily) bool {
	if h == nil {
		return false
	}
	return nonZeroInt(h.RestingHeartRate) || nonZeroInt(h.MaxHeartRate)
}

func heartRateRow(day time.Time, h *garmin.HeartRateDaily) *models.HeartRate {
	return &models.HeartRate{
		CalendarDate: day,
		RestingHR:    h.RestingHeartRate,
		MaxHR:        h.MaxHeartRate,
		MinHR:        h.MinHeartRate,
		Raw:          h.Raw,
	}
}

func bodyRow(day time.Time, e *garmin.WeightEntry) *models.BodyComposition {
	return &models.BodyComposition{
		CalendarDate: day,
		WeightKg:     gramsToKg(e.Weight),
		BMI:          e.BMI,
		BodyFatPct:   e.BodyFat,
		MuscleMassKg: gramsToKg(e.MuscleMass),
		BoneMassKg:   gramsToKg(e.BoneMass),
		BodyWaterPct: e.BodyWater,
		Raw:          e.Raw,
	}
}

// gramsToKg converts a provider mass field (grams) for storage (kg).
func gramsToKg(g *float64) *float64 {
	if g == nil {
		return nil
	}
	kg := *g / 1000.0
	return &kg
}

// intensityMinutes sums moderate and vigorous minutes when the moderate
// field is present; otherwise the metric is unknown, not zero.
func intensityMinutes(moderate, vigorous *int) *int {
	if moderate == nil {
		return nil
	}
	total := *moderate
	if vigorous != nil {
		total += *vigorous
	}
	return &total
}

// millisToTime converts a provider epoch-millisecond timestamp.
func millisToTime(ms *int64) *time.Time {
	if ms == nil {
		return nil
	}
	t := time.UnixMilli(*ms).UTC()
	return &t
}

func roundToInt(f *float64) *int {
	if f == nil {
		return nil
	}
	n := int(math.Round(*f))
	return &n
}

func nonZeroInt(v *int) bool {
	return v != nil && *v != 0
}

func nonZeroFloat(v *float64) bool {
	return v != nil && *v != 0
}
