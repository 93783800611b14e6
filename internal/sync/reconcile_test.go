package sync

import (
	"testing"
	"time"

	"github.com/VitalsyncDev/vitalsync-web/internal/garmin"
)

func fptr(f float64) *float64 { return &f }
func iptr(i int) *int         { return &i }

func TestGramsToKg(t *testing.T) {
	if got := gramsToKg(nil); got != nil {
		t.Errorf("gramsToKg(nil) = %v, want nil", got)
	}
	got := gramsToKg(fptr(72500))
	if got == nil || *got != 72.5 {
		t.Errorf("gramsToKg(72500) = %v, want 72.5", got)
	}
}

func TestIntensityMinutes(t *testing.T) {
	tests := []struct {
		name     string
		moderate *int
		vigorous *int
		want     *int
	}{
		{"both present", iptr(30), iptr(10), iptr(40)},
		{"moderate only", iptr(30), nil, iptr(30)},
		{"vigorous only", nil, iptr(10), nil},
		{"neither", nil, nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := intensityMinutes(tt.moderate, tt.vigorous)
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("got %d, want nil", *got)
			case tt.want != nil && got == nil:
				t.Errorf("got nil, want %d", *tt.want)
			case tt.want != nil && *got != *tt.want:
				t.Errorf("got %d, want %d", *got, *tt.want)
			}
		})
	}
}

func TestMillisToTime(t *testing.T) {
	if got := millisToTime(nil); got != nil {
		t.Errorf("millisToTime(nil) = %v, want nil", got)
	}
	ms := int64(1718064000000) // 2024-06-11 00:00:00 UTC
	got := millisToTime(&ms)
	want := time.Date(2024, 6, 11, 0, 0, 0, 0, time.UTC)
	if got == nil || !got.Equal(want) {
		t.Errorf("millisToTime(%d) = %v, want %v", ms, got, want)
	}
}

func TestActivityRowCadence(t *testing.T) {
	running := activityAt(1, "2024-06-10 07:30:00")
	running.AverageRunningCadenceInStepsPerMinute = fptr(172)
	row := activityRow(&running)
	if row.Cadence == nil || *row.Cadence != 172 {
		t.Errorf("running cadence = %v, want 172", row.Cadence)
	}

	biking := activityAt(2, "2024-06-10 07:30:00")
	typ := "cycling"
	biking.ActivityType.TypeKey = &typ
	biking.AverageBikingCadenceInRevPerMinute = fptr(85)
	row = activityRow(&biking)
	if row.Cadence == nil || *row.Cadence != 85 {
		t.Errorf("biking cadence = %v, want 85", row.Cadence)
	}
}

func TestActivityRowHeartRateRounding(t *testing.T) {
	a := activityAt(1, "2024-06-10 07:30:00")
	a.AverageHR = fptr(141.7)
	a.MaxHR = fptr(179.2)
	row := activityRow(&a)
	if row.AvgHR == nil || *row.AvgHR != 142 {
		t.Errorf("AvgHR = %v, want 142", row.AvgHR)
	}
	if row.MaxHR == nil || *row.MaxHR != 179 {
		t.Errorf("MaxHR = %v, want 179", row.MaxHR)
	}
}

func TestSleepHasData(t *testing.T) {
	if sleepHasData(nil) {
		t.Error("nil response should have no data")
	}
	if sleepHasData(&garmin.SleepData{}) {
		t.Error("empty shell should have no data")
	}
	if !sleepHasData(&garmin.SleepData{DailySleep: &garmin.DailySleep{}}) {
		t.Error("response with a sleep record should have data")
	}
}

func TestDailyHasData(t *testing.T) {
	zero := 0
	if dailyHasData(&garmin.DailyStats{TotalSteps: &zero}) {
		t.Error("all-zero day should have no data")
	}
	if !dailyHasData(&garmin.DailyStats{TotalSteps: iptr(4200)}) {
		t.Error("day with steps should have data")
	}
	if !dailyHasData(&garmin.DailyStats{TotalKilocalories: fptr(1800)}) {
		t.Error("day with calories should have data")
	}
}

func TestHeartRateHasData(t *testing.T) {
	if heartRateHasData(&garmin.HeartRateDaily{}) {
		t.Error("empty day should have no data")
	}
	if !heartRateHasData(&garmin.HeartRateDaily{RestingHeartRate: iptr(52)}) {
		t.Error("day with resting HR should have data")
	}
}

func TestBodyRowMassConversion(t *testing.T) {
	d := "2024-06-03"
	e := &garmin.WeightEntry{
		CalendarDate: &d,
		Weight:       fptr(72500),
		MuscleMass:   fptr(33100),
		BoneMass:     fptr(3200),
		BMI:          fptr(22.4),
	}
	row := bodyRow(time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), e)
	if row.WeightKg == nil || *row.WeightKg != 72.5 {
		t.Errorf("WeightKg = %v, want 72.5", row.WeightKg)
	}
	if row.MuscleMassKg == nil || *row.MuscleMassKg != 33.1 {
		t.Errorf("MuscleMassKg = %v, want 33.1", row.MuscleMassKg)
	}
	if row.BoneMassKg == nil || *row.BoneMassKg != 3.2 {
		t.Errorf("BoneMassKg = %v, want 3.2", row.BoneMassKg)
	}
	if row.BMI == nil || *row.BMI != 22.4 {
		t.Errorf("BMI = %v, want 22.4 (no conversion)", row.BMI)
	}
}
