// Package sloghooks implements httpdata.Hooks on top of log/slog, with
// sampling for the two events that fire on every cache interaction.
package sloghooks

import (
	"log/slog"
	"sync/atomic"

	httpdata "github.com/championswimmer/wp-calypso"
)

type Options struct {
	// Sampling to avoid floods on hot events; 0/1 = log all.
	DedupEvery uint64
	TickEvery  uint64
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	dedupCtr atomic.Uint64
	tickCtr  atomic.Uint64
}

var _ httpdata.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) FetchIssued(key string) {
	if h.l == nil {
		return
	}
	h.l.Debug("httpdata.fetch_issued", "key", key)
}

func (h *Hooks) FetchDeduped(key string) {
	if h.l == nil || !sample(h.opts.DedupEvery, &h.dedupCtr) {
		return
	}
	h.l.Debug("httpdata.fetch_deduped", "key", key)
}

func (h *Hooks) FetchCompleted(key string, ok bool) {
	if h.l == nil {
		return
	}
	h.l.Debug("httpdata.fetch_completed", "key", key, "ok", ok)
}

func (h *Hooks) TransformFailed(key string, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("httpdata.transform_failed", "key", key, "err", err)
}

func (h *Hooks) QueueFlushed(count int) {
	if h.l == nil {
		return
	}
	h.l.Info("httpdata.queue_flushed", "count", count)
}

func (h *Hooks) CacheChanged(tick uint64) {
	if h.l == nil || !sample(h.opts.TickEvery, &h.tickCtr) {
		return
	}
	h.l.Debug("httpdata.cache_changed", "tick", tick)
}
