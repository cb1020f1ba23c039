package session

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/clockwise-hq/clockwise/internal/identity"
	"github.com/clockwise-hq/clockwise/internal/localstore"
	"github.com/clockwise-hq/clockwise/internal/remote"
)

// State is the position of the work-session state machine.
type State int

const (
	// StateOut means the user is not clocked in.
	StateOut State = iota
	// StateWorking means the user is clocked in and not on break.
	StateWorking
	// StatePaused means the user is clocked in and on break.
	StatePaused
)

// String returns the lowercase wire name of the state.
func (s State) String() string {
	switch s {
	case StateWorking:
		return "working"
	case StatePaused:
		return "paused"
	default:
		return "out"
	}
}

// Snapshot is an immutable view of the session at a point in time.
type Snapshot struct {
	State       State
	StartTime   time.Time
	PauseStart  time.Time
	TotalPaused time.Duration
	Elapsed     time.Duration
	LastSync    time.Time
	Location    *remote.Coordinates
	CompanyID   string
}

// Active reports whether a session is open (working or paused).
func (s Snapshot) Active() bool {
	return s.State != StateOut
}

// Tracker owns the session state machine. It is the single writer of both the
// in-memory state and the durable local snapshot; the remote record store is
// always the system of record on conflict.
type Tracker struct {
	remote    remote.RecordStore
	ident     identity.Provider
	store     *localstore.Store
	locations LocationSource
	now       func() time.Time

	driftThreshold time.Duration
	staleAfter     time.Duration
	snapshotEvery  time.Duration

	mu          sync.RWMutex
	state       State
	startTime   time.Time
	pauseStart  time.Time
	totalPaused time.Duration
	lastSync    time.Time
	location    *remote.Coordinates
	companyID   string
	lastPersist time.Time

	lastWakeSync time.Time
	failures     int

	syncing atomic.Bool
}

// Snapshot returns a copy of the current session state with the derived
// elapsed duration computed against the tracker clock.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return Snapshot{
		State:       t.state,
		StartTime:   t.startTime,
		PauseStart:  t.pauseStart,
		TotalPaused: t.totalPaused,
		Elapsed:     t.elapsedLocked(t.now()),
		LastSync:    t.lastSync,
		Location:    t.location,
		CompanyID:   t.companyID,
	}
}

// Elapsed returns the net worked duration of the open session so far.
func (t *Tracker) Elapsed() time.Duration {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.elapsedLocked(t.now())
}

// Active reports whether a session is open.
func (t *Tracker) Active() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state != StateOut
}

// elapsedLocked derives elapsed = now - start - totalPaused, excluding the
// in-progress pause. Callers hold at least a read lock.
func (t *Tracker) elapsedLocked(now time.Time) time.Duration {
	if t.state == StateOut {
		return 0
	}
	elapsed := now.Sub(t.startTime) - t.totalPaused
	if t.state == StatePaused {
		elapsed -= now.Sub(t.pauseStart)
	}
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// Tick advances the snapshot-write throttle. It is called once per second
// while the process runs; an actual file write happens only when the session
// is open and the previous write is older than the snapshot interval.
func (t *Tracker) Tick() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == StateOut {
		return
	}
	if t.now().Sub(t.lastPersist) < t.snapshotEvery {
		return
	}
	t.persistLocked()
}

// Offline reports whether the last reconciliation attempts failed in a row,
// mirroring the consecutive-failure heuristic the UI uses for a banner.
func (t *Tracker) Offline() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.failures >= 2
}
