// Package session implements the time-clock session core: the state machine
// tracking whether the user is clocked in, on break, or out, the clock
// actions that advance it, and the reconciliation that keeps it honest
// against the remote event log.
//
// # State machine
//
// The machine cycles OUT → WORKING ⇄ PAUSED → OUT:
//
//	| From    | Action | To      |
//	|---------|--------|---------|
//	| OUT     | Start  | WORKING |
//	| WORKING | Pause  | PAUSED  |
//	| PAUSED  | Resume | WORKING |
//	| WORKING | End    | OUT     |
//	| PAUSED  | End    | OUT     | (auto-resumes first)
//
// Invalid transitions are rejected with sentinel errors and never mutate
// state. Elapsed time is derived, not stored:
//
//	elapsed = now - startTime - totalPaused - (paused ? now - pauseStart : 0)
//
// # Write ordering
//
// Every action appends exactly one event (End while paused: two) to the
// remote log before touching local state. On append failure the error is
// returned and nothing changes locally, so a failed action is always safe to
// retry. Duplicate-submission protection is a UI concern; the tracker does
// not deduplicate.
//
// # Durability
//
// The open session is mirrored into a local key-value snapshot: on every
// accepted action, and at most every ten seconds from the one-second tick
// while a session is open. On startup the snapshot is restored unless it is
// older than the staleness threshold, in which case it is discarded as an
// abandoned session.
//
// # Reconciliation
//
// Reconcile runs from several triggers (startup, periodic timer, wake from
// suspend, connectivity recovery, realtime change events, manual sync), all
// funneling into one guarded run. It never runs while clocked out. Outcomes:
//
//   - Remote log has no clock_in but local state is open: the clock_in is
//     healed into the log at the locally remembered start time.
//   - Remote log shows a clock_out at or after the open clock_in: the session
//     was closed elsewhere; local state and snapshot are cleared.
//   - Both agree a session is open: the remote start time is adopted locally
//     when it diverges beyond the drift threshold.
//
// There is no explicit retry backoff. A failed run is simply retried by the
// next trigger; the periodic cadence bounds how long divergence can live.
//
// # Concurrency
//
// The tracker is shared by the tick loop, the reconcile loop, the TUI, and
// the HTTP API, so state is guarded by an RWMutex. Remote I/O happens outside
// the lock, which means a reconciliation read can interleave with an in-flight
// action write; the reconciler copes by re-reading authoritative state from
// the log rather than trusting the in-memory flags it started from.
package session
