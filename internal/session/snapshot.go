package session

import (
	"encoding/json"
	"log"
	"strconv"
	"time"

	"github.com/clockwise-hq/clockwise/internal/localstore"
	"github.com/clockwise-hq/clockwise/internal/remote"
)

// persistLocked writes the full session snapshot to the local store in one
// file write. Callers hold the write lock. Persistence failures are logged
// and otherwise ignored; the next write or reconciliation retries.
func (t *Tracker) persistLocked() {
	now := t.now()
	t.lastPersist = now

	values := map[string]string{
		localstore.KeyActiveSession: "true",
		localstore.KeyStartTime:     t.startTime.Format(time.RFC3339),
		localstore.KeyElapsedTime:   strconv.FormatInt(int64(t.elapsedLocked(now)/time.Second), 10),
		localstore.KeyIsPaused:      strconv.FormatBool(t.state == StatePaused),
		localstore.KeyTotalPaused:   strconv.FormatInt(int64(t.totalPaused/time.Second), 10),
	}
	if !t.pauseStart.IsZero() {
		values[localstore.KeyPauseStartTime] = t.pauseStart.Format(time.RFC3339)
	}
	if !t.lastSync.IsZero() {
		values[localstore.KeyLastSync] = t.lastSync.Format(time.RFC3339)
	}
	if t.companyID != "" {
		values[localstore.KeyCompanyID] = t.companyID
	}
	if t.location != nil {
		if raw, err := json.Marshal(t.location); err == nil {
			values[localstore.KeyLocation] = string(raw)
		}
	}

	if err := t.store.SetAll(values); err != nil {
		log.Printf("persist session snapshot: %v", err)
	}
}

// clearLocked resets the machine to StateOut and wipes the durable snapshot.
// Callers hold the write lock.
func (t *Tracker) clearLocked() {
	t.state = StateOut
	t.startTime = time.Time{}
	t.pauseStart = time.Time{}
	t.totalPaused = 0
	t.lastSync = time.Time{}
	t.location = nil
	t.companyID = ""
	t.lastPersist = time.Time{}

	if err := t.store.Clear(); err != nil {
		log.Printf("clear session snapshot: %v", err)
	}
}

// restore rebuilds in-memory state from a persisted snapshot. Snapshots older
// than the staleness threshold are abandoned sessions and are discarded.
func (t *Tracker) restore() {
	active, ok := t.store.Get(localstore.KeyActiveSession)
	if !ok || active != "true" {
		return
	}

	raw, ok := t.store.Get(localstore.KeyStartTime)
	if !ok {
		t.discardSnapshot("missing start time")
		return
	}
	start, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		t.discardSnapshot("unparseable start time")
		return
	}
	if t.now().Sub(start) > t.staleAfter {
		t.discardSnapshot("stale session")
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.state = StateWorking
	t.startTime = start

	if v, ok := t.store.Get(localstore.KeyIsPaused); ok && v == "true" {
		t.state = StatePaused
	}
	if v, ok := t.store.Get(localstore.KeyPauseStartTime); ok {
		if ps, err := time.Parse(time.RFC3339, v); err == nil {
			t.pauseStart = ps
		}
	}
	if t.state == StatePaused && t.pauseStart.IsZero() {
		// A pause without a pause start cannot accrue; treat it as working.
		t.state = StateWorking
	}
	if v, ok := t.store.Get(localstore.KeyTotalPaused); ok {
		if secs, err := strconv.ParseInt(v, 10, 64); err == nil && secs > 0 {
			t.totalPaused = time.Duration(secs) * time.Second
		}
	}
	if v, ok := t.store.Get(localstore.KeyLastSync); ok {
		if ls, err := time.Parse(time.RFC3339, v); err == nil {
			t.lastSync = ls
		}
	}
	if v, ok := t.store.Get(localstore.KeyCompanyID); ok {
		t.companyID = v
	}
	if v, ok := t.store.Get(localstore.KeyLocation); ok {
		var loc remote.Coordinates
		if err := json.Unmarshal([]byte(v), &loc); err == nil {
			t.location = &loc
		}
	}
}

func (t *Tracker) discardSnapshot(reason string) {
	log.Printf("discarding local session snapshot: %s", reason)
	if err := t.store.Clear(); err != nil {
		log.Printf("clear session snapshot: %v", err)
	}
}
