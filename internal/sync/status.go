package sync

import "sync"

// LiveStatus is the transient, in-memory progress of one category's
// current (or most recent) run in this process. It is lost on restart
// and can disagree with the durable checkpoint after a crash; status
// readers prefer it when present.
type LiveStatus struct {
	Status   Status
	Progress string
}

// StatusBoard is the process-wide live status table. It also serves as
// the per-category mutual-exclusion guard: Begin refuses to start a
// category that is already syncing, so overlapping runs for the same
// category cannot race on the checkpoint.
type StatusBoard struct {
	mu      sync.Mutex
	entries map[Category]LiveStatus
}

// NewStatusBoard returns an empty board.
func NewStatusBoard() *StatusBoard {
	return &StatusBoard{entries: make(map[Category]LiveStatus)}
}

// Begin marks a category as syncing with an initial progress message.
// Returns false without modifying the board when the category is already
// syncing.
func (b *StatusBoard) Begin(cat Category, progress string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if cur, ok := b.entries[cat]; ok && !cur.Status.CanTransition(StatusSyncing) {
		return false
	}
	b.entries[cat] = LiveStatus{Status: StatusSyncing, Progress: progress}
	return true
}

// SetProgress updates the progress message of a syncing category.
func (b *StatusBoard) SetProgress(cat Category, progress string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	cur, ok := b.entries[cat]
	if !ok {
		return
	}
	cur.Progress = progress
	b.entries[cat] = cur
}

// Finish records a terminal state for the category's current run.
func (b *StatusBoard) Finish(cat Category, status Status, progress string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[cat] = LiveStatus{Status: status, Progress: progress}
}

// Get returns the live status for a category, if any run has happened in
// this process.
func (b *StatusBoard) Get(cat Category) (LiveStatus, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.entries[cat]
	return s, ok
}

// Snapshot returns a copy of the whole board.
func (b *StatusBoard) Snapshot() map[Category]LiveStatus {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make(map[Category]LiveStatus, len(b.entries))
	for k, v := range b.entries {
		out[k] = v
	}
	return out
}
