package sync

import "testing"

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from Status
		to   Status
		want bool
	}{
		{StatusIdle, StatusSyncing, true},
		{StatusCompleted, StatusSyncing, true},
		{StatusError, StatusSyncing, true},
		{StatusSyncing, StatusCompleted, true},
		{StatusSyncing, StatusError, true},
		{StatusSyncing, StatusSyncing, false},
		{StatusIdle, StatusCompleted, false},
		{StatusIdle, StatusError, false},
		{StatusCompleted, StatusError, false},
		{StatusError, StatusCompleted, false},
	}
	for _, tt := range tests {
		if got := tt.from.CanTransition(tt.to); got != tt.want {
			t.Errorf("%s -> %s = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestParseCategory(t *testing.T) {
	for _, cat := range Categories() {
		got, err := ParseCategory(string(cat))
		if err != nil {
			t.Errorf("ParseCategory(%q) error: %v", cat, err)
		}
		if got != cat {
			t.Errorf("ParseCategory(%q) = %q", cat, got)
		}
	}
	if _, err := ParseCategory("steps"); err == nil {
		t.Error("ParseCategory(\"steps\") should fail")
	}
}

func TestBoardBeginRefusesWhileSyncing(t *testing.T) {
	b := NewStatusBoard()

	if !b.Begin(CategorySleep, "first") {
		t.Fatal("first Begin should succeed")
	}
	if b.Begin(CategorySleep, "second") {
		t.Error("Begin while syncing should be refused")
	}
	// Other categories are independent.
	if !b.Begin(CategoryDaily, "other") {
		t.Error("Begin for a different category should succeed")
	}

	b.Finish(CategorySleep, StatusCompleted, "Done")
	if !b.Begin(CategorySleep, "again") {
		t.Error("Begin after a terminal state should succeed")
	}
}

func TestBoardProgressOnlyWhileKnown(t *testing.T) {
	b := NewStatusBoard()

	b.SetProgress(CategoryBody, "orphan update")
	if _, ok := b.Get(CategoryBody); ok {
		t.Error("SetProgress before Begin should not create an entry")
	}

	b.Begin(CategoryBody, "start")
	b.SetProgress(CategoryBody, "Synced 2 entries")
	live, ok := b.Get(CategoryBody)
	if !ok || live.Progress != "Synced 2 entries" {
		t.Errorf("progress = %+v, want updated", live)
	}
	if live.Status != StatusSyncing {
		t.Errorf("status = %s, want syncing", live.Status)
	}
}

func TestBoardSnapshotIsCopy(t *testing.T) {
	b := NewStatusBoard()
	b.Begin(CategorySleep, "start")

	snap := b.Snapshot()
	snap[CategorySleep] = LiveStatus{Status: StatusError, Progress: "mutated"}

	live, _ := b.Get(CategorySleep)
	if live.Status != StatusSyncing {
		t.Error("mutating the snapshot must not affect the board")
	}
}
