package app

import (
	"context"
	"log"
	"time"

	"github.com/clockwise-hq/clockwise/internal/remote"
	"github.com/clockwise-hq/clockwise/internal/session"
)

const (
	tickInterval = time.Second

	// A tick arriving this far behind schedule means the host slept or
	// the process was suspended, so the local clock may have drifted.
	wakeGapThreshold = 30 * time.Second
)

// startClock drives the per-second tracker tick and detects suspend/resume
// gaps between ticks.
func startClock(ctx context.Context, tracker *session.Tracker) {
	go func() {
		ticker := time.NewTicker(tickInterval)
		defer ticker.Stop()

		prev := time.Now()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				tracker.Tick()
				if wokeFromSleep(prev, now) {
					if err := tracker.WakeSync(ctx); err != nil {
						log.Printf("wake reconcile: %v", err)
					}
				}
				prev = now
			}
		}
	}()
}

func wokeFromSleep(prev, now time.Time) bool {
	return now.Sub(prev) > wakeGapThreshold
}

// startSyncLoop reconciles against the remote log on a fixed cadence while a
// session is active. A run after a string of failures also serves as the
// connectivity probe: the first success resets the offline counter.
func startSyncLoop(ctx context.Context, tracker *session.Tracker, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if !tracker.Active() {
					continue
				}
				if err := tracker.Reconcile(ctx); err != nil {
					log.Printf("periodic reconcile: %v", err)
				}
			}
		}
	}()
}

// startWatcher reconciles immediately when another device appends an event
// for this user. The watch is best effort; without change stream support the
// periodic loop still converges.
func startWatcher(ctx context.Context, tracker *session.Tracker, store remote.RecordStore, userID string) {
	go func() {
		events, err := store.Watch(ctx, userID)
		if err != nil {
			log.Printf("realtime watch unavailable: %v", err)
			return
		}
		for range events {
			if err := tracker.Reconcile(ctx); err != nil {
				log.Printf("realtime reconcile: %v", err)
			}
		}
	}()
}
