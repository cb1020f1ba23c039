// Package remote defines the authoritative time-event log and its MongoDB
// implementation. The log is the system of record: local session state is
// only ever a cache of what this store holds.
package remote

import (
	"context"
	"time"
)

// RecordStore is the interface the session core uses to talk to the remote
// event log. Implemented by *MongoStore; tests substitute an in-memory fake.
type RecordStore interface {
	// AppendEvent writes one event. The store is append-only; callers never
	// update or delete rows.
	AppendEvent(ctx context.Context, ev TimeEvent) error

	// LatestByType returns the most recent event of the given type for the
	// user/company pair, or nil when none exists. A non-zero before bounds
	// the search to events strictly earlier than that instant.
	LatestByType(ctx context.Context, userID, companyID string, entryType EntryType, before time.Time) (*TimeEvent, error)

	// Watch streams events appended for the user until ctx is cancelled.
	// It is a best-effort optimization for reconciliation triggers; callers
	// must not rely on it for correctness.
	Watch(ctx context.Context, userID string) (<-chan TimeEvent, error)
}
