package httpdata

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// Store maps request keys to cache entries. Construct one per process region
// with NewStore and inject it; it lives for the process lifetime. The key set
// only grows: entries are overwritten, never removed.
//
// All writes go through Update. Get is exposed for direct reads, including
// debugging surfaces.
type Store struct {
	mu      sync.RWMutex
	entries map[string]Entry
	tick    uint64

	clock func() time.Time
	log   Logger
}

// StoreOptions tune a Store. The zero value is usable.
type StoreOptions struct {
	Clock  func() time.Time // nil => time.Now
	Logger Logger           // nil => NopLogger
}

func NewStore(opts StoreOptions) *Store {
	s := &Store{entries: make(map[string]Entry)}
	s.clock = opts.Clock
	if s.clock == nil {
		s.clock = time.Now
	}
	s.log = coalesce[Logger](opts.Logger, NopLogger{})
	return s
}

// Get returns the entry for key, or the uninitialized sentinel when the key
// was never written. It never fails.
func (s *Store) Get(key string) Entry {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return empty
	}
	return e
}

// Update applies one state transition for key:
//
//   - Pending: Data and LastUpdated carry over, Err is cleared,
//     PendingSince is stamped with the current time.
//   - Failure: Data and LastUpdated carry over, Err is set from payload,
//     PendingSince is cleared.
//   - Success: Data is set to payload, Err is cleared, LastUpdated is
//     stamped, PendingSince is cleared.
//
// Any other next state is a no-op. The entry is replaced wholesale.
func (s *Store) Update(key string, next State, payload any) {
	now := s.clock()
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.entries[key] // zero Entry is already Uninitialized
	switch next {
	case Pending:
		s.entries[key] = Entry{
			State:        Pending,
			Data:         prev.Data,
			LastUpdated:  prev.LastUpdated,
			PendingSince: now,
		}
	case Failure:
		s.entries[key] = Entry{
			State:       Failure,
			Data:        prev.Data,
			Err:         asError(payload),
			LastUpdated: prev.LastUpdated,
		}
	case Success:
		s.entries[key] = Entry{
			State:       Success,
			Data:        payload,
			LastUpdated: now,
		}
	default:
		s.log.Debug("update ignored (invalid target state)", Fields{"key": key, "state": next})
	}
}

// Tick returns the current value of the mutation counter. The counter
// advances exactly once per fetch completion, so observers can batch-react
// to "something changed" without inspecting entries.
func (s *Store) Tick() uint64 {
	s.mu.RLock()
	t := s.tick
	s.mu.RUnlock()
	return t
}

// bump advances the mutation counter and returns the new value.
func (s *Store) bump() uint64 {
	s.mu.Lock()
	s.tick++
	t := s.tick
	s.mu.Unlock()
	return t
}

// Len reports the number of keys ever written.
func (s *Store) Len() int {
	s.mu.RLock()
	n := len(s.entries)
	s.mu.RUnlock()
	return n
}

// Keys returns a sorted snapshot of all keys ever written.
func (s *Store) Keys() []string {
	s.mu.RLock()
	out := make([]string, 0, len(s.entries))
	for k := range s.entries {
		out = append(out, k)
	}
	s.mu.RUnlock()
	sort.Strings(out)
	return out
}

// asError coerces a failure payload into an error. Transports hand us real
// errors; anything else is stringified so the entry still carries a signal.
func asError(payload any) error {
	switch v := payload.(type) {
	case nil:
		return nil
	case error:
		return v
	default:
		return fmt.Errorf("%v", v)
	}
}
