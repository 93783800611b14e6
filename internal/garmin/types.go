package garmin

import (
	"encoding/json"
	"fmt"
	"time"
)

// APIError is a non-2xx response from the provider.
type APIError struct {
	StatusCode int
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("garmin API error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("garmin API error (status %d)", e.StatusCode)
}

func newAPIError(status int, body []byte) error {
	apiErr := &APIError{StatusCode: status}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = string(body)
	}
	apiErr.StatusCode = status
	return apiErr
}

// Activity is one entry from the paginated activity list.
type Activity struct {
	ActivityID     int64   `json:"activityId"`
	ActivityName   *string `json:"activityName"`
	StartTimeLocal *string `json:"startTimeLocal"`
	ActivityType   struct {
		TypeKey *string `json:"typeKey"`
	} `json:"activityType"`
	Duration                              *float64 `json:"duration"`
	Distance                              *float64 `json:"distance"`
	AverageHR                             *float64 `json:"averageHR"`
	MaxHR                                 *float64 `json:"maxHR"`
	AverageSpeed                          *float64 `json:"averageSpeed"`
	MaxSpeed                              *float64 `json:"maxSpeed"`
	Calories                              *float64 `json:"calories"`
	AverageRunningCadenceInStepsPerMinute *float64 `json:"averageRunningCadenceInStepsPerMinute"`
	AverageBikingCadenceInRevPerMinute    *float64 `json:"averageBikingCadenceInRevPerMinute"`
	VO2MaxValue                           *float64 `json:"vO2MaxValue"`
	AerobicTrainingEffect                 *float64 `json:"aerobicTrainingEffect"`
	AnaerobicTrainingEffect               *float64 `json:"anaerobicTrainingEffect"`
	ElevationGain                         *float64 `json:"elevationGain"`

	Raw json.RawMessage `json:"-"`
}

// activityTimeLayouts covers the timestamp formats the provider has been
// seen to emit for startTimeLocal.
var activityTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// StartTime parses the local start timestamp. Returns nil when the field
// is missing or unparseable.
func (a *Activity) StartTime() *time.Time {
	if a.StartTimeLocal == nil {
		return nil
	}
	for _, layout := range activityTimeLayouts {
		if t, err := time.Parse(layout, *a.StartTimeLocal); err == nil {
			return &t
		}
	}
	return nil
}

// StartDate returns the calendar day of the activity's local start time,
// or ok=false when the start time is unknown.
func (a *Activity) StartDate() (time.Time, bool) {
	t := a.StartTime()
	if t == nil {
		return time.Time{}, false
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
}

// SleepData is the nightly sleep response.
type SleepData struct {
	DailySleep  *DailySleep `json:"dailySleepDTO"`
	SleepScores *struct {
		Overall *struct {
			Value *int `json:"value"`
		} `json:"overall"`
	} `json:"sleepScores"`

	Raw json.RawMessage `json:"-"`
}

// Score returns the overall sleep score when present.
func (s *SleepData) Score() *int {
	if s.SleepScores == nil || s.SleepScores.Overall == nil {
		return nil
	}
	return s.SleepScores.Overall.Value
}

// DailySleep is the summary sub-object inside SleepData. Its presence is
// what distinguishes a real night of data from an empty response.
type DailySleep struct {
	SleepTimeSeconds         *int     `json:"sleepTimeSeconds"`
	DeepSleepSeconds         *int     `json:"deepSleepSeconds"`
	LightSleepSeconds        *int     `json:"lightSleepSeconds"`
	RemSleepSeconds          *int     `json:"remSleepSeconds"`
	AwakeSleepSeconds        *int     `json:"awakeSleepSeconds"`
	SleepStartTimestampLocal *int64   `json:"sleepStartTimestampLocal"` // epoch millis
	SleepEndTimestampLocal   *int64   `json:"sleepEndTimestampLocal"`   // epoch millis
	AverageRespiration       *float64 `json:"averageRespiration"`
	AverageSpO2Value         *float64 `json:"averageSpO2Value"`
}

// DailyStats is the whole-day wellness summary response.
type DailyStats struct {
	TotalSteps               *int     `json:"totalSteps"`
	TotalDistanceMeters      *float64 `json:"totalDistanceMeters"`
	ActiveKilocalories       *float64 `json:"activeKilocalories"`
	TotalKilocalories        *float64 `json:"totalKilocalories"`
	RestingHeartRate         *int     `json:"restingHeartRate"`
	MaxHeartRate             *int     `json:"maxHeartRate"`
	AverageStressLevel       *int     `json:"averageStressLevel"`
	MaxStressLevel           *int     `json:"maxStressLevel"`
	BodyBatteryChargedValue  *int     `json:"bodyBatteryChargedValue"`
	BodyBatteryDrainedValue  *int     `json:"bodyBatteryDrainedValue"`
	FloorsAscended           *float64 `json:"floorsAscended"`
	ModerateIntensityMinutes *int     `json:"moderateIntensityMinutes"`
	VigorousIntensityMinutes *int     `json:"vigorousIntensityMinutes"`

	Raw json.RawMessage `json:"-"`
}

// HeartRateDaily is the daily heart-rate summary response.
type HeartRateDaily struct {
	RestingHeartRate *int `json:"restingHeartRate"`
	MaxHeartRate     *int `json:"maxHeartRate"`
	MinHeartRate     *int `json:"minHeartRate"`

	Raw json.RawMessage `json:"-"`
}

// WeightEntry is one dated record from the body-composition range fetch.
// Mass fields arrive in grams.
type WeightEntry struct {
	CalendarDate *string  `json:"calendarDate"`
	Weight       *float64 `json:"weight"`
	BMI          *float64 `json:"bmi"`
	BodyFat      *float64 `json:"bodyFat"`
	MuscleMass   *float64 `json:"muscleMass"`
	BoneMass     *float64 `json:"boneMass"`
	BodyWater    *float64 `json:"bodyWater"`

	Raw json.RawMessage `json:"-"`
}

// Date parses the entry's calendar date, ok=false when missing or malformed.
func (w *WeightEntry) Date() (time.Time, bool) {
	if w.CalendarDate == nil {
		return time.Time{}, false
	}
	t, err := time.Parse(time.DateOnly, *w.CalendarDate)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
