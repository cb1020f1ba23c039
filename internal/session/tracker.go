package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clockwise-hq/clockwise/internal/identity"
	"github.com/clockwise-hq/clockwise/internal/localstore"
	"github.com/clockwise-hq/clockwise/internal/remote"
)

const (
	defaultDriftThreshold = 10 * time.Minute
	defaultStaleAfter     = 24 * time.Hour
	defaultSnapshotEvery  = 10 * time.Second
)

// LocationSource supplies best-effort coordinates for clock-in annotation.
// A nil result means no location; lookups never fail an action.
type LocationSource interface {
	Lookup(ctx context.Context) *remote.Coordinates
}

// Options configure a Tracker.
type Options struct {
	Remote    remote.RecordStore
	Identity  identity.Provider
	Store     *localstore.Store
	Locations LocationSource // optional

	// Now overrides the clock, used by tests. Defaults to time.Now.
	Now func() time.Time
	// DriftThreshold is the start-time divergence above which reconciliation
	// adopts the remote clock-in time. Defaults to 10 minutes.
	DriftThreshold time.Duration
	// StaleAfter is the age beyond which a persisted snapshot is discarded
	// instead of restored. Defaults to 24 hours.
	StaleAfter time.Duration
}

// New builds a Tracker and restores any non-stale session snapshot from the
// local store.
func New(opts Options) (*Tracker, error) {
	if opts.Remote == nil {
		return nil, fmt.Errorf("tracker requires a record store")
	}
	if opts.Identity == nil {
		return nil, fmt.Errorf("tracker requires an identity provider")
	}
	if opts.Store == nil {
		return nil, fmt.Errorf("tracker requires a local store")
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}
	drift := opts.DriftThreshold
	if drift <= 0 {
		drift = defaultDriftThreshold
	}
	stale := opts.StaleAfter
	if stale <= 0 {
		stale = defaultStaleAfter
	}

	t := &Tracker{
		remote:         opts.Remote,
		ident:          opts.Identity,
		store:          opts.Store,
		locations:      opts.Locations,
		now:            now,
		driftThreshold: drift,
		staleAfter:     stale,
		snapshotEvery:  defaultSnapshotEvery,
	}
	t.restore()
	return t, nil
}

// Start clocks the user in. It appends a clock_in event first and mutates
// local state only once the append is acknowledged.
func (t *Tracker) Start(ctx context.Context) error {
	id, err := t.ident.Current(ctx)
	if err != nil {
		return err
	}

	t.mu.RLock()
	st := t.state
	t.mu.RUnlock()
	if st != StateOut {
		return ErrAlreadyClockedIn
	}

	var loc *remote.Coordinates
	if t.locations != nil {
		loc = t.locations.Lookup(ctx)
	}

	ev := t.newEvent(id, remote.EntryClockIn, t.now())
	ev.Location = loc
	if err := t.remote.AppendEvent(ctx, ev); err != nil {
		return writeErr("clock in", err)
	}

	t.mu.Lock()
	t.state = StateWorking
	t.startTime = ev.EntryTime
	t.pauseStart = time.Time{}
	t.totalPaused = 0
	t.location = loc
	t.companyID = id.CompanyID
	t.persistLocked()
	t.mu.Unlock()
	return nil
}

// Pause starts a break.
func (t *Tracker) Pause(ctx context.Context) error {
	id, err := t.ident.Current(ctx)
	if err != nil {
		return err
	}

	t.mu.RLock()
	st := t.state
	t.mu.RUnlock()
	switch st {
	case StateOut:
		return ErrNoActiveSession
	case StatePaused:
		return ErrAlreadyPaused
	}

	ev := t.newEvent(id, remote.EntryBreakStart, t.now())
	if err := t.remote.AppendEvent(ctx, ev); err != nil {
		return writeErr("start break", err)
	}

	t.mu.Lock()
	t.state = StatePaused
	t.pauseStart = ev.EntryTime
	t.persistLocked()
	t.mu.Unlock()
	return nil
}

// Resume ends the current break and folds its duration into the accumulated
// pause total.
func (t *Tracker) Resume(ctx context.Context) error {
	id, err := t.ident.Current(ctx)
	if err != nil {
		return err
	}

	t.mu.RLock()
	st := t.state
	t.mu.RUnlock()
	switch st {
	case StateOut:
		return ErrNoActiveSession
	case StateWorking:
		return ErrNotPaused
	}

	ev := t.newEvent(id, remote.EntryBreakEnd, t.now())
	if err := t.remote.AppendEvent(ctx, ev); err != nil {
		return writeErr("end break", err)
	}

	t.applyResume(ev.EntryTime)
	return nil
}

// End clocks the user out and returns the net worked duration. The open
// clock_in is re-fetched from the remote log before writing: local state is
// not trusted to decide whether a session exists. Ending while paused first
// appends the matching break_end, then the clock_out.
func (t *Tracker) End(ctx context.Context) (time.Duration, error) {
	id, err := t.ident.Current(ctx)
	if err != nil {
		return 0, err
	}

	t.mu.RLock()
	st := t.state
	t.mu.RUnlock()
	if st == StateOut {
		return 0, ErrNoActiveSession
	}

	clockIn, err := t.remote.LatestByType(ctx, id.UserID, id.CompanyID, remote.EntryClockIn, time.Time{})
	if err != nil {
		return 0, fmt.Errorf("look up open session: %w", err)
	}
	if clockIn == nil {
		return 0, ErrNoActiveSession
	}
	clockOut, err := t.remote.LatestByType(ctx, id.UserID, id.CompanyID, remote.EntryClockOut, time.Time{})
	if err != nil {
		return 0, fmt.Errorf("look up open session: %w", err)
	}
	if clockOut != nil && !clockOut.EntryTime.Before(clockIn.EntryTime) {
		return 0, ErrNoActiveSession
	}

	if st == StatePaused {
		ev := t.newEvent(id, remote.EntryBreakEnd, t.now())
		if err := t.remote.AppendEvent(ctx, ev); err != nil {
			return 0, writeErr("end break", err)
		}
		t.applyResume(ev.EntryTime)
	}

	ev := t.newEvent(id, remote.EntryClockOut, t.now())
	if err := t.remote.AppendEvent(ctx, ev); err != nil {
		return 0, writeErr("clock out", err)
	}

	t.mu.Lock()
	worked := ev.EntryTime.Sub(t.startTime) - t.totalPaused
	if worked < 0 {
		worked = 0
	}
	t.clearLocked()
	t.mu.Unlock()
	return worked, nil
}

func (t *Tracker) applyResume(at time.Time) {
	t.mu.Lock()
	if !t.pauseStart.IsZero() {
		paused := at.Sub(t.pauseStart)
		if paused > 0 {
			t.totalPaused += paused
		}
	}
	t.pauseStart = time.Time{}
	t.state = StateWorking
	t.persistLocked()
	t.mu.Unlock()
}

func (t *Tracker) newEvent(id identity.Identity, entryType remote.EntryType, at time.Time) remote.TimeEvent {
	return remote.TimeEvent{
		ID:        uuid.NewString(),
		UserID:    id.UserID,
		CompanyID: id.CompanyID,
		EntryType: entryType,
		EntryTime: at.UTC(),
	}
}
