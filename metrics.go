package postbrowser

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the App's Prometheus collectors on a registry of its own, so
// several Apps (tests) never collide on the default registerer.
type Metrics struct {
	Registry *prometheus.Registry

	actions       *prometheus.CounterVec
	emptyResults  *prometheus.CounterVec
	filtered      prometheus.Histogram
	snapshotLoads *prometheus.CounterVec
	postsLoaded   prometheus.Gauge
	rateLimited   prometheus.Counter
}

// NewMetrics creates and registers the collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "postbrowser",
			Name:      "browse_actions_total",
			Help:      "Browse actions applied, by action.",
		}, []string{"action"}),
		emptyResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "postbrowser",
			Name:      "empty_results_total",
			Help:      "Browse actions whose filters matched no posts, by action.",
		}, []string{"action"}),
		filtered: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "postbrowser",
			Name:      "filtered_posts",
			Help:      "Number of posts matching the filters after a browse action.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
		snapshotLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "postbrowser",
			Name:      "snapshot_loads_total",
			Help:      "Content snapshot loads, by result.",
		}, []string{"result"}),
		postsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "postbrowser",
			Name:      "posts_loaded",
			Help:      "Posts in the current content snapshot.",
		}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "postbrowser",
			Name:      "rate_limited_total",
			Help:      "Browse actions rejected by the per-IP limiter.",
		}),
	}
	m.Registry.MustRegister(m.actions, m.emptyResults, m.filtered, m.snapshotLoads, m.postsLoaded, m.rateLimited)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
}

func (m *Metrics) observe(action string, res PageResult) {
	m.actions.WithLabelValues(action).Inc()
	m.filtered.Observe(float64(res.FilteredCount))
	if res.Empty() {
		m.emptyResults.WithLabelValues(action).Inc()
	}
}

func (m *Metrics) snapshotLoaded(ok bool, posts int) {
	if !ok {
		m.snapshotLoads.WithLabelValues("error").Inc()
		return
	}
	m.snapshotLoads.WithLabelValues("ok").Inc()
	m.postsLoaded.Set(float64(posts))
}
