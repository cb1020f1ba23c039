package remote

import "time"

// EntryType identifies the kind of a time event.
type EntryType string

const (
	EntryClockIn    EntryType = "clock_in"
	EntryClockOut   EntryType = "clock_out"
	EntryBreakStart EntryType = "break_start"
	EntryBreakEnd   EntryType = "break_end"
)

// Coordinates is an optional latitude/longitude pair captured at event time.
type Coordinates struct {
	Lat float64 `bson:"lat" json:"lat"`
	Lng float64 `bson:"lng" json:"lng"`
}

// TimeEvent is one row of the append-only per-user time log. EntryTime is the
// authoritative moment of the event; the store never reorders or rewrites
// rows, so consumers must tolerate out-of-order or unmatched entries.
type TimeEvent struct {
	ID        string       `bson:"_id" json:"id"`
	UserID    string       `bson:"user_id" json:"user_id"`
	CompanyID string       `bson:"company_id" json:"company_id"`
	EntryType EntryType    `bson:"entry_type" json:"entry_type"`
	EntryTime time.Time    `bson:"entry_time" json:"entry_time"`
	Location  *Coordinates `bson:"location,omitempty" json:"location,omitempty"`
}
