// Package asynchook decouples slow hook implementations from the cache's hot
// paths: events are queued to a small worker pool and dropped when the queue
// is full.
package asynchook

import (
	"sync"

	httpdata "github.com/championswimmer/wp-calypso"
)

type Hooks struct {
	inner httpdata.Hooks
	q     chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

var _ httpdata.Hooks = (*Hooks)(nil)

func New(inner httpdata.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

// Close stops the workers after draining queued events. Safe to call more
// than once.
func (h *Hooks) Close() {
	h.once.Do(func() {
		close(h.q)
		h.wg.Wait()
	})
}

func (h *Hooks) try(f func()) {
	select {
	case h.q <- f:
	default: // drop
	}
}

func (h *Hooks) FetchIssued(key string)  { h.try(func() { h.inner.FetchIssued(key) }) }
func (h *Hooks) FetchDeduped(key string) { h.try(func() { h.inner.FetchDeduped(key) }) }
func (h *Hooks) FetchCompleted(key string, ok bool) {
	h.try(func() { h.inner.FetchCompleted(key, ok) })
}
func (h *Hooks) TransformFailed(key string, err error) {
	h.try(func() { h.inner.TransformFailed(key, err) })
}
func (h *Hooks) QueueFlushed(count int)   { h.try(func() { h.inner.QueueFlushed(count) }) }
func (h *Hooks) CacheChanged(tick uint64) { h.try(func() { h.inner.CacheChanged(tick) }) }
