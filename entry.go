package httpdata

import "time"

// State is the lifecycle phase of a cache entry.
type State uint8

const (
	Uninitialized State = iota
	Pending
	Success
	Failure
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Pending:
		return "pending"
	case Success:
		return "success"
	case Failure:
		return "failure"
	default:
		return "unknown"
	}
}

// Entry is the stored state for one request key. Entries are plain values:
// every transition replaces the entry wholesale, so a snapshot handed to a
// caller is never mutated behind its back.
//
// A zero LastUpdated means the key has never completed successfully; its age
// is effectively unbounded for freshness checks. Err is set only in Failure
// state; a failure keeps the previous Data as the last known good value.
type Entry struct {
	State        State
	Data         any
	Err          error
	LastUpdated  time.Time
	PendingSince time.Time
}

// empty is the sentinel returned for keys that were never written. Reading
// an absent key allocates nothing and is indistinguishable from reading an
// explicit uninitialized entry.
var empty = Entry{State: Uninitialized}
