package session

import (
	"context"
	"fmt"
	"time"

	"github.com/clockwise-hq/clockwise/internal/remote"
)

const wakeSyncThrottle = 60 * time.Second

// Reconcile compares local session state against the remote event log and
// resolves divergence. The remote log wins, with one exception: when the
// remote log has no clock_in for a locally open session, the locally
// remembered start time is trusted and healed back into the log.
//
// It is safe to invoke from any trigger; overlapping calls collapse into one
// run via an in-progress guard, and a run is a no-op while no session is open.
// Errors are returned for the caller to log, never to surface to a user.
func (t *Tracker) Reconcile(ctx context.Context) error {
	if !t.syncing.CompareAndSwap(false, true) {
		return nil
	}
	defer t.syncing.Store(false)

	err := t.reconcile(ctx)

	t.mu.Lock()
	if err != nil {
		t.failures++
	} else {
		t.failures = 0
	}
	t.mu.Unlock()
	return err
}

// ForceSync is the manual reconciliation entry point exposed to UIs.
func (t *Tracker) ForceSync(ctx context.Context) error {
	return t.Reconcile(ctx)
}

// WakeSync reconciles after the process wakes from a suspend gap, throttled
// to at most once per minute.
func (t *Tracker) WakeSync(ctx context.Context) error {
	t.mu.Lock()
	now := t.now()
	if now.Sub(t.lastWakeSync) < wakeSyncThrottle {
		t.mu.Unlock()
		return nil
	}
	t.lastWakeSync = now
	t.mu.Unlock()
	return t.Reconcile(ctx)
}

func (t *Tracker) reconcile(ctx context.Context) error {
	snap := t.Snapshot()
	if !snap.Active() {
		// Reconciling while clocked out would risk spurious remote writes.
		return nil
	}

	// Fails closed; a missing identity aborts the run silently.
	id, err := t.ident.Current(ctx)
	if err != nil {
		return nil
	}

	clockIn, err := t.remote.LatestByType(ctx, id.UserID, id.CompanyID, remote.EntryClockIn, time.Time{})
	if err != nil {
		return fmt.Errorf("reconcile: %w", err)
	}

	if clockIn == nil {
		// Local-ahead: the original clock_in never reached the log, likely
		// written while offline. Re-insert it at the remembered start time.
		ev := t.newEvent(id, remote.EntryClockIn, snap.StartTime)
		ev.Location = snap.Location
		if err := t.remote.AppendEvent(ctx, ev); err != nil {
			return fmt.Errorf("reconcile: heal clock_in: %w", err)
		}
		t.mu.Lock()
		t.lastSync = t.now()
		t.persistLocked()
		t.mu.Unlock()
		return nil
	}

	clockOut, err := t.remote.LatestByType(ctx, id.UserID, id.CompanyID, remote.EntryClockOut, time.Time{})
	if err != nil {
		return fmt.Errorf("reconcile: %w", err)
	}
	if clockOut != nil && !clockOut.EntryTime.Before(clockIn.EntryTime) {
		// Remote-ahead: the session was closed elsewhere. Remote wins.
		t.mu.Lock()
		t.clearLocked()
		t.mu.Unlock()
		return nil
	}

	t.mu.Lock()
	if drift := absDuration(clockIn.EntryTime.Sub(t.startTime)); drift > t.driftThreshold {
		t.startTime = clockIn.EntryTime
	}
	t.lastSync = t.now()
	t.persistLocked()
	t.mu.Unlock()
	return nil
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
