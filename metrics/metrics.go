// Package metrics exports cache events as Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	httpdata "github.com/championswimmer/wp-calypso"
)

// Hooks implements httpdata.Hooks by updating Prometheus collectors.
type Hooks struct {
	FetchesIssued     prometheus.Counter
	FetchesDeduped    prometheus.Counter
	FetchesCompleted  *prometheus.CounterVec
	TransformFailures prometheus.Counter
	QueueFlushes      prometheus.Counter
	CacheTick         prometheus.Gauge
}

var _ httpdata.Hooks = (*Hooks)(nil)

// New registers the collectors on the default registerer.
func New(namespace string) *Hooks {
	return NewWith(prometheus.DefaultRegisterer, namespace)
}

// NewWith registers the collectors on reg under the given namespace.
func NewWith(reg prometheus.Registerer, namespace string) *Hooks {
	factory := promauto.With(reg)
	return &Hooks{
		FetchesIssued: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetches_issued_total",
			Help:      "Total number of fetch instructions issued",
		}),
		FetchesDeduped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetches_deduped_total",
			Help:      "Total number of requests absorbed by an in-flight fetch",
		}),
		FetchesCompleted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetches_completed_total",
			Help:      "Total number of fetch completions by outcome",
		}, []string{"outcome"}),
		TransformFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transform_failures_total",
			Help:      "Total number of response transformer failures",
		}),
		QueueFlushes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gate_flushes_total",
			Help:      "Total number of startup buffer flushes",
		}),
		CacheTick: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cache_tick",
			Help:      "Current value of the cache mutation counter",
		}),
	}
}

func (h *Hooks) FetchIssued(string)  { h.FetchesIssued.Inc() }
func (h *Hooks) FetchDeduped(string) { h.FetchesDeduped.Inc() }

func (h *Hooks) FetchCompleted(_ string, ok bool) {
	outcome := "failure"
	if ok {
		outcome = "success"
	}
	h.FetchesCompleted.WithLabelValues(outcome).Inc()
}

func (h *Hooks) TransformFailed(string, error) { h.TransformFailures.Inc() }
func (h *Hooks) QueueFlushed(int)              { h.QueueFlushes.Inc() }
func (h *Hooks) CacheChanged(tick uint64)      { h.CacheTick.Set(float64(tick)) }
