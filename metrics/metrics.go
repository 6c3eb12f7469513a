package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	engineSelections = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vsa_engine_selection_total",
		Help: "Queries routed to each engine",
	}, []string{"engine"})

	tieBreaks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vsa_tie_break_total",
		Help: "Tie-break resolutions by path (default_flag/registry_order)",
	}, []string{"path"})

	filterFields = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vsa_filter_field_total",
		Help: "Structured filter fields compiled out of queries",
	}, []string{"field"})

	compileOutcome = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vsa_compile_outcome_total",
		Help: "Filter compilation outcomes (compiled/no_fields_matched/no_filter_rules)",
	}, []string{"reason"})

	searchLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vsa_search_latency_ms",
		Help:    "Latency of backend search calls in milliseconds",
		Buckets: []float64{25, 50, 100, 200, 400, 800, 1500, 3000, 6000},
	}, []string{"engine"})

	searchResults = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vsa_search_results",
		Help:    "Number of results returned by a backend search",
		Buckets: []float64{0, 1, 2, 5, 10, 20, 50},
	}, []string{"engine"})

	cacheOutcome = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vsa_cache_outcome_total",
		Help: "Search cache hits and misses",
	}, []string{"outcome"})
)

func ensureRegistered() {
	once.Do(func() {
		prometheus.MustRegister(engineSelections, tieBreaks, filterFields, compileOutcome, searchLatency, searchResults, cacheOutcome)
	})
}

// IncEngineSelection counts a query routed to the given engine.
func IncEngineSelection(engine string) {
	ensureRegistered()
	engineSelections.WithLabelValues(engine).Inc()
}

// Tie-break paths.
const (
	TieBreakDefaultFlag   = "default_flag"
	TieBreakRegistryOrder = "registry_order"
)

// IncTieBreak counts a tie resolution.
func IncTieBreak(path string) {
	ensureRegistered()
	tieBreaks.WithLabelValues(path).Inc()
}

// IncFilterField counts a compiled filter field (date/owner/company).
func IncFilterField(field string) {
	ensureRegistered()
	filterFields.WithLabelValues(field).Inc()
}

// IncCompileOutcome counts a compilation outcome by reason.
func IncCompileOutcome(reason string) {
	ensureRegistered()
	compileOutcome.WithLabelValues(reason).Inc()
}

// ObserveSearch records latency and result size for a backend search.
func ObserveSearch(engine string, start time.Time, results int) {
	ensureRegistered()
	searchLatency.WithLabelValues(engine).Observe(float64(time.Since(start).Milliseconds()))
	searchResults.WithLabelValues(engine).Observe(float64(results))
}

// IncCacheHit and IncCacheMiss count L1 cache outcomes.
func IncCacheHit()  { ensureRegistered(); cacheOutcome.WithLabelValues("hit").Inc() }
func IncCacheMiss() { ensureRegistered(); cacheOutcome.WithLabelValues("miss").Inc() }

// Collectors exposes all collectors for registration with a custom registry.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		engineSelections, tieBreaks, filterFields, compileOutcome, searchLatency, searchResults, cacheOutcome,
	}
}
