package metrics_test

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/championswimmer/wp-calypso/metrics"
)

func TestHooksUpdateCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := metrics.NewWith(reg, "httpdata")

	h.FetchIssued("site-14")
	h.FetchIssued("site-19")
	h.FetchDeduped("site-14")
	h.FetchCompleted("site-14", true)
	h.FetchCompleted("site-19", false)
	h.TransformFailed("site-19", errors.New("bad shape"))
	h.QueueFlushed(3)
	h.CacheChanged(7)

	if got := testutil.ToFloat64(h.FetchesIssued); got != 2 {
		t.Fatalf("fetches_issued_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(h.FetchesDeduped); got != 1 {
		t.Fatalf("fetches_deduped_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(h.FetchesCompleted.WithLabelValues("success")); got != 1 {
		t.Fatalf("completed{success} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(h.FetchesCompleted.WithLabelValues("failure")); got != 1 {
		t.Fatalf("completed{failure} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(h.TransformFailures); got != 1 {
		t.Fatalf("transform_failures_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(h.QueueFlushes); got != 1 {
		t.Fatalf("gate_flushes_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(h.CacheTick); got != 7 {
		t.Fatalf("cache_tick = %v, want 7", got)
	}
}
