package session

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/clockwise-hq/clockwise/internal/identity"
	"github.com/clockwise-hq/clockwise/internal/localstore"
	"github.com/clockwise-hq/clockwise/internal/remote"
)

var testStart = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

// manualClock is a settable clock shared by tracker and test.
type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func newManualClock(at time.Time) *manualClock {
	return &manualClock{now: at}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// fakeRecordStore is an in-memory RecordStore with switchable failure modes.
type fakeRecordStore struct {
	mu        sync.Mutex
	events    []remote.TimeEvent
	appendErr error
	queryErr  error
}

func (f *fakeRecordStore) AppendEvent(_ context.Context, ev remote.TimeEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return f.appendErr
	}
	f.events = append(f.events, ev)
	return nil
}

func (f *fakeRecordStore) LatestByType(_ context.Context, userID, companyID string, entryType remote.EntryType, before time.Time) (*remote.TimeEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	var latest *remote.TimeEvent
	for i := range f.events {
		ev := f.events[i]
		if ev.UserID != userID || ev.CompanyID != companyID || ev.EntryType != entryType {
			continue
		}
		if !before.IsZero() && !ev.EntryTime.Before(before) {
			continue
		}
		if latest == nil || !ev.EntryTime.Before(latest.EntryTime) {
			latest = &f.events[i]
		}
	}
	if latest == nil {
		return nil, nil
	}
	copied := *latest
	return &copied, nil
}

func (f *fakeRecordStore) Watch(ctx context.Context, userID string) (<-chan remote.TimeEvent, error) {
	ch := make(chan remote.TimeEvent)
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch, nil
}

func (f *fakeRecordStore) countByType(entryType remote.EntryType) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, ev := range f.events {
		if ev.EntryType == entryType {
			n++
		}
	}
	return n
}

func (f *fakeRecordStore) setAppendErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appendErr = err
}

func (f *fakeRecordStore) setQueryErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queryErr = err
}

// staticIdentity resolves a fixed identity or error.
type staticIdentity struct {
	id  identity.Identity
	err error
}

func (s staticIdentity) Current(context.Context) (identity.Identity, error) {
	if s.err != nil {
		return identity.Identity{}, s.err
	}
	return s.id, nil
}

// staticLocation returns fixed coordinates.
type staticLocation struct {
	loc *remote.Coordinates
}

func (s staticLocation) Lookup(context.Context) *remote.Coordinates {
	return s.loc
}

type fixture struct {
	tracker *Tracker
	remote  *fakeRecordStore
	local   *localstore.Store
	clock   *manualClock
}

func newFixture(t *testing.T, adjust func(*Options)) fixture {
	t.Helper()

	local, err := localstore.Open(filepath.Join(t.TempDir(), "session.toml"))
	if err != nil {
		t.Fatalf("open local store: %v", err)
	}

	store := &fakeRecordStore{}
	clock := newManualClock(testStart)
	opts := Options{
		Remote:   store,
		Identity: staticIdentity{id: identity.Identity{UserID: "u1", CompanyID: "c1"}},
		Store:    local,
		Now:      clock.Now,
	}
	if adjust != nil {
		adjust(&opts)
	}

	tracker, err := New(opts)
	if err != nil {
		t.Fatalf("new tracker: %v", err)
	}
	return fixture{tracker: tracker, remote: store, local: local, clock: clock}
}
