package retrieval

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics tracks retrieval behavior. Counters are labeled where the
// cardinality is bounded; request signatures are never used as labels.
type Metrics struct {
	CacheHits    prometheus.Counter
	CacheMisses  prometheus.Counter
	PagesFetched prometheus.Counter
	PageFailures prometheus.Counter
	Expansions   prometheus.Counter
	Fallbacks    prometheus.Counter
}

// NewMetrics creates and registers the retrieval metrics. Passing nil skips
// registration, which keeps tests free of global registry collisions.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "platewise",
			Subsystem: "retrieval",
			Name:      "cache_hits_total",
			Help:      "Candidate sets served from the cache",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "platewise",
			Subsystem: "retrieval",
			Name:      "cache_misses_total",
			Help:      "Candidate lookups that required a provider fetch",
		}),
		PagesFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "platewise",
			Subsystem: "retrieval",
			Name:      "provider_pages_total",
			Help:      "Provider pages fetched successfully",
		}),
		PageFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "platewise",
			Subsystem: "retrieval",
			Name:      "provider_page_failures_total",
			Help:      "Provider page requests that failed",
		}),
		Expansions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "platewise",
			Subsystem: "retrieval",
			Name:      "adaptive_expansions_total",
			Help:      "Fetches that expanded pagination to satisfy a minimum result count",
		}),
		Fallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "platewise",
			Subsystem: "retrieval",
			Name:      "fallback_served_total",
			Help:      "Requests answered from the built-in fallback set",
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.CacheHits, m.CacheMisses, m.PagesFetched,
			m.PageFailures, m.Expansions, m.Fallbacks,
		)
	}
	return m
}
