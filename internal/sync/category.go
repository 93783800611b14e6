// Package sync implements the incremental synchronization engine: per
// category cursor strategies, reconciliation into the store, durable
// checkpoints, and the live status board the API polls.
package sync

import "fmt"

// Category identifies one independently tracked data kind.
type Category string

const (
	CategoryActivities Category = "activities"
	CategorySleep      Category = "sleep"
	CategoryDaily      Category = "daily"
	CategoryHeartRate  Category = "heart_rate"
	CategoryBody       Category = "body"
)

// Categories returns all categories in the fixed order a full sync runs
// them. Activities go first so the day-keyed categories can derive their
// first-sync start date from the backfilled activity history.
func Categories() []Category {
	return []Category{
		CategoryActivities,
		CategorySleep,
		CategoryDaily,
		CategoryHeartRate,
		CategoryBody,
	}
}

// ParseCategory validates a category name from an external caller.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories() {
		if s == string(c) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category: %q", s)
}

// Status is a sync routine's lifecycle state.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusSyncing   Status = "syncing"
	StatusCompleted Status = "completed"
	StatusError     Status = "error"
)

// CanTransition reports whether moving from s to next is a legal
// lifecycle step. A routine goes idle → syncing → {completed | error},
// and a finished category may start syncing again.
func (s Status) CanTransition(next Status) bool {
	switch s {
	case StatusIdle, StatusCompleted, StatusError:
		return next == StatusSyncing
	case StatusSyncing:
		return next == StatusCompleted || next == StatusError
	}
	return false
}
