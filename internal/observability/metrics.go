package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the researcher discovery service.
// Metrics are organized by subsystem: discoveries, searches, scrapes, and LLM
// operations. All counters and histograms are registered via promauto for
// automatic registration with the default Prometheus registry.
type Metrics struct {
	// DiscoveriesStarted counts the total number of discovery runs initiated.
	DiscoveriesStarted prometheus.Counter

	// DiscoveriesCompleted counts the total number of runs that finished successfully.
	DiscoveriesCompleted prometheus.Counter

	// DiscoveriesFailed counts the total number of runs that ended in failure.
	DiscoveriesFailed prometheus.Counter

	// DiscoveryDuration observes the end-to-end duration of discovery runs in seconds.
	DiscoveryDuration prometheus.Histogram

	// ResearchersRanked observes the number of researchers ranked per run.
	ResearchersRanked prometheus.Histogram

	// SearchesStarted counts searches initiated, labeled by paper source.
	SearchesStarted *prometheus.CounterVec

	// SearchesCompleted counts successful searches, labeled by paper source.
	SearchesCompleted *prometheus.CounterVec

	// SearchesFailed counts failed searches, labeled by paper source.
	SearchesFailed *prometheus.CounterVec

	// SearchDuration observes search duration in seconds, labeled by paper source.
	SearchDuration *prometheus.HistogramVec

	// PapersPerSearch observes the distribution of papers returned per search, labeled by source.
	PapersPerSearch *prometheus.HistogramVec

	// ScrapeFetches counts page fetch attempts, labeled by outcome
	// (fetched, cached, robots_denied, failed).
	ScrapeFetches *prometheus.CounterVec

	// ScrapeDuration observes page fetch duration in seconds.
	ScrapeDuration prometheus.Histogram

	// EmailsHarvested counts contact emails extracted from researcher pages.
	EmailsHarvested prometheus.Counter

	// LLMRequestsTotal counts LLM API requests, labeled by provider and operation.
	LLMRequestsTotal *prometheus.CounterVec

	// LLMRequestsFailed counts failed LLM API requests, labeled by provider, operation, and error type.
	LLMRequestsFailed *prometheus.CounterVec

	// LLMRequestDuration observes LLM API request duration in seconds, labeled by provider and operation.
	LLMRequestDuration *prometheus.HistogramVec
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
// The namespace is used as a prefix for all metric names.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		// Discoveries
		DiscoveriesStarted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "discoveries_started_total",
			Help:      "Total number of discovery runs started",
		}),
		DiscoveriesCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "discoveries_completed_total",
			Help:      "Total number of discovery runs completed successfully",
		}),
		DiscoveriesFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "discoveries_failed_total",
			Help:      "Total number of discovery runs that failed",
		}),
		DiscoveryDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "discovery_duration_seconds",
			Help:      "Duration of discovery runs in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
		}),
		ResearchersRanked: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "researchers_ranked",
			Help:      "Number of researchers ranked per discovery run",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100},
		}),

		// Searches
		SearchesStarted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_started_total",
			Help:      "Total number of paper searches started by source",
		}, []string{"source"}),
		SearchesCompleted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_completed_total",
			Help:      "Total number of paper searches completed by source",
		}, []string{"source"}),
		SearchesFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_failed_total",
			Help:      "Total number of paper searches that failed by source",
		}, []string{"source"}),
		SearchDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Duration of paper searches in seconds by source",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		}, []string{"source"}),
		PapersPerSearch: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "papers_per_search",
			Help:      "Number of papers returned per search by source",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100},
		}, []string{"source"}),

		// Scrapes
		ScrapeFetches: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scrape_fetches_total",
			Help:      "Total number of enrichment page fetch attempts by outcome",
		}, []string{"outcome"}),
		ScrapeDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scrape_duration_seconds",
			Help:      "Duration of enrichment page fetches in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 20},
		}),
		EmailsHarvested: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "emails_harvested_total",
			Help:      "Total number of contact emails extracted from researcher pages",
		}),

		// LLM
		LLMRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_requests_total",
			Help:      "Total number of LLM requests by provider and operation",
		}, []string{"provider", "operation"}),
		LLMRequestsFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_requests_failed_total",
			Help:      "Total number of failed LLM requests by provider and operation",
		}, []string{"provider", "operation", "error_type"}),
		LLMRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "llm_request_duration_seconds",
			Help:      "Duration of LLM requests in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		}, []string{"provider", "operation"}),
	}
}

// RecordDiscoveryStarted records that a discovery run has started.
func (m *Metrics) RecordDiscoveryStarted() {
	m.DiscoveriesStarted.Inc()
}

// RecordDiscoveryCompleted records that a discovery run has completed.
func (m *Metrics) RecordDiscoveryCompleted(rankedCount int, durationSeconds float64) {
	m.DiscoveriesCompleted.Inc()
	m.DiscoveryDuration.Observe(durationSeconds)
	m.ResearchersRanked.Observe(float64(rankedCount))
}

// RecordDiscoveryFailed records that a discovery run has failed.
func (m *Metrics) RecordDiscoveryFailed(durationSeconds float64) {
	m.DiscoveriesFailed.Inc()
	m.DiscoveryDuration.Observe(durationSeconds)
}

// RecordSearchStarted records that a search has started.
func (m *Metrics) RecordSearchStarted(source string) {
	m.SearchesStarted.WithLabelValues(source).Inc()
}

// RecordSearchCompleted records that a search has completed.
func (m *Metrics) RecordSearchCompleted(source string, paperCount int, durationSeconds float64) {
	m.SearchesCompleted.WithLabelValues(source).Inc()
	m.SearchDuration.WithLabelValues(source).Observe(durationSeconds)
	m.PapersPerSearch.WithLabelValues(source).Observe(float64(paperCount))
}

// RecordSearchFailed records that a search has failed.
func (m *Metrics) RecordSearchFailed(source string, durationSeconds float64) {
	m.SearchesFailed.WithLabelValues(source).Inc()
	m.SearchDuration.WithLabelValues(source).Observe(durationSeconds)
}

// RecordScrapeFetch records a page fetch attempt by outcome.
func (m *Metrics) RecordScrapeFetch(outcome string, durationSeconds float64) {
	m.ScrapeFetches.WithLabelValues(outcome).Inc()
	m.ScrapeDuration.Observe(durationSeconds)
}

// RecordEmailsHarvested records harvested contact emails.
func (m *Metrics) RecordEmailsHarvested(count int) {
	m.EmailsHarvested.Add(float64(count))
}

// RecordLLMRequest records an LLM request.
func (m *Metrics) RecordLLMRequest(provider, operation string, durationSeconds float64) {
	m.LLMRequestsTotal.WithLabelValues(provider, operation).Inc()
	m.LLMRequestDuration.WithLabelValues(provider, operation).Observe(durationSeconds)
}

// RecordLLMRequestFailed records a failed LLM request.
func (m *Metrics) RecordLLMRequestFailed(provider, operation, errorType string) {
	m.LLMRequestsFailed.WithLabelValues(provider, operation, errorType).Inc()
}
