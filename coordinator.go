package httpdata

import (
	"fmt"
	"sync"
	"time"
)

// Options tune a Coordinator. Store and Gate are required; the rest default
// to nops.
type Options struct {
	Store *Store
	Gate  *Gate

	Logger Logger           // nil => NopLogger
	Hooks  Hooks            // nil => NopHooks
	Clock  func() time.Time // nil => time.Now
}

// RequestOptions tune a single RequestData call.
type RequestOptions struct {
	// Transform optionally expands the raw payload into extra pairs.
	Transform TransformFactory

	// Freshness is the maximum age of a successful entry before a new
	// fetch is issued. Zero or negative means unbounded: a key that has
	// succeeded once is never refetched.
	Freshness time.Duration
}

// Coordinator decides, per key, whether a fetch must be issued, and
// guarantees at most one outstanding fetch per key at any time.
type Coordinator struct {
	store *Store
	gate  *Gate
	log   Logger
	hooks Hooks
	clock func() time.Time

	// issueMu serializes the read-decide-mark step so two callers can
	// never both observe a non-pending entry and double-issue.
	issueMu sync.Mutex
}

func New(opts Options) (*Coordinator, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("httpdata: store is required")
	}
	if opts.Gate == nil {
		return nil, fmt.Errorf("httpdata: gate is required")
	}

	c := &Coordinator{store: opts.Store, gate: opts.Gate}
	c.log = coalesce[Logger](opts.Logger, NopLogger{})
	c.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})
	c.clock = opts.Clock
	if c.clock == nil {
		c.clock = time.Now
	}
	return c, nil
}

// GetEntry is a synchronous, pure read of the current entry for key.
func (c *Coordinator) GetEntry(key string) Entry {
	return c.store.Get(key)
}

// Store exposes the underlying store for direct reads and debug surfaces.
func (c *Coordinator) Store() *Store { return c.store }

// RequestData returns the best currently-known entry for key and, when the
// entry is absent or stale, schedules a refresh. A pending entry is never
// superseded.
//
// The returned snapshot lags the triggered refresh by one cycle: re-invoke,
// or watch the mutation tick, to observe the refreshed value. RequestData
// never returns an error; all fetch errors land in the entry.
func (c *Coordinator) RequestData(key string, spec Spec, opts RequestOptions) Entry {
	c.issueMu.Lock()
	cur := c.store.Get(key)
	if !needsFetch(cur, opts.Freshness, c.clock()) {
		c.issueMu.Unlock()
		if cur.State == Pending {
			c.hooks.FetchDeduped(key)
		}
		return cur
	}
	// Mark pending before the instruction ever exists, so a concurrent
	// caller observes Pending and cannot double-issue.
	c.store.Update(key, Pending, nil)
	c.issueMu.Unlock()

	in := &Instruction{
		Key:       key,
		Request:   spec.request(),
		transform: opts.Transform,
		coord:     c,
	}
	c.hooks.FetchIssued(key)
	c.log.Debug("fetch issued", Fields{"key": key, "prev": cur.State.String()})
	c.gate.Send(Action{Kind: KindRequest, Instruction: in})
	return cur
}

// needsFetch applies the freshness policy: fetch when the key was never
// requested, or when a non-pending entry's last success is older than a
// bounded freshness window. A zero LastUpdated (never succeeded) is older
// than any window.
func needsFetch(e Entry, window time.Duration, now time.Time) bool {
	if e.State == Uninitialized {
		return true
	}
	if e.State == Pending {
		return false
	}
	return window > 0 && now.Sub(e.LastUpdated) > window
}

func (c *Coordinator) succeed(in *Instruction, payload any) {
	pairs, terr := runTransform(in.transform, payload)
	if terr != nil {
		err := &TransformError{Key: in.Key, Err: terr}
		c.store.Update(in.Key, Failure, err)
		c.hooks.TransformFailed(in.Key, terr)
		c.log.Warn("response transform failed", Fields{"key": in.Key, "err": terr})
		c.finish(in.Key, false)
		return
	}

	c.store.Update(in.Key, Success, payload)
	for _, p := range pairs {
		c.store.Update(p.Key, Success, p.Value)
	}
	c.log.Debug("fetch succeeded", Fields{"key": in.Key, "pairs": len(pairs)})
	c.finish(in.Key, true)
}

func (c *Coordinator) fail(in *Instruction, err error) {
	c.store.Update(in.Key, Failure, err)
	c.log.Debug("fetch failed", Fields{"key": in.Key, "err": err})
	c.finish(in.Key, false)
}

func (c *Coordinator) progress(in *Instruction, info any) {
	c.log.Debug("fetch progress", Fields{"key": in.Key, "info": info})
}

func (c *Coordinator) duplicate(key string) {
	c.log.Warn("duplicate completion dropped", Fields{"key": key})
}

// finish ends every completion path: the mutation tick advances exactly once
// per completion event (not once per merged pair) and a tick action is
// emitted for downstream observers.
func (c *Coordinator) finish(key string, ok bool) {
	tick := c.store.bump()
	c.hooks.FetchCompleted(key, ok)
	c.hooks.CacheChanged(tick)
	c.gate.Send(Action{Kind: KindTick})
}
