// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Dataset metrics
	DatasetLoads        *prometheus.CounterVec
	DatasetLoadDuration *prometheus.HistogramVec
	PlaceholderRows     prometheus.Counter

	// Derivation metrics
	DaysAggregated    prometheus.Counter
	DroppedStopRefs   prometheus.Counter
	MissingFarmRefs   *prometheus.CounterVec
	Recomputations    *prometheus.CounterVec
	RecomputeDuration prometheus.Histogram

	// Session metrics
	DaySelections *prometheus.CounterVec
	SelectedDay   prometheus.Gauge
	SessionReady  prometheus.Gauge

	// Delivery metrics
	WSClients          prometheus.Gauge
	ScenesPushed       prometheus.Counter
	EventsPublished    *prometheus.CounterVec
	ReportsGenerated   *prometheus.CounterVec
	HTTPRequestLatency *prometheus.HistogramVec

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance registered on the default registry.
func NewMetrics(namespace string) *Metrics {
	return NewMetricsWith(namespace, prometheus.DefaultRegisterer)
}

// NewMetricsWith creates a new Metrics instance registered on reg.
func NewMetricsWith(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "pig_logistics"
	}
	factory := promauto.With(reg)

	return &Metrics{
		// Dataset metrics
		DatasetLoads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dataset",
			Name:      "loads_total",
			Help:      "Total number of dataset loads by source and status",
		}, []string{"source", "status"}),
		DatasetLoadDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "dataset",
			Name:      "load_duration_seconds",
			Help:      "Dataset load duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"source"}),
		PlaceholderRows: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dataset",
			Name:      "placeholder_rows_total",
			Help:      "Total number of rest or no-activity rows seen while loading",
		}),

		// Derivation metrics
		DaysAggregated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "metrics",
			Name:      "days_aggregated_total",
			Help:      "Total number of day aggregations computed",
		}),
		DroppedStopRefs: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "routes",
			Name:      "dropped_stop_refs_total",
			Help:      "Total number of route stops skipped because the farm id is unknown",
		}),
		MissingFarmRefs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "metrics",
			Name:      "missing_farm_refs_total",
			Help:      "Total number of trip stops referencing an unknown farm, by farm id",
		}, []string{"farm_id"}),
		Recomputations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "recomputations_total",
			Help:      "Total number of scene recomputations by trigger",
		}, []string{"trigger"}),
		RecomputeDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "recompute_duration_seconds",
			Help:      "Scene recompute duration in seconds",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1},
		}),

		// Session metrics
		DaySelections: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "day_selections_total",
			Help:      "Total number of day selections by outcome",
		}, []string{"outcome"}),
		SelectedDay: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "selected_day",
			Help:      "Currently selected simulation day",
		}),
		SessionReady: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "ready",
			Help:      "1 once the visualization library is ready",
		}),

		// Delivery metrics
		WSClients: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "ws_clients",
			Help:      "Number of connected WebSocket clients",
		}),
		ScenesPushed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "scenes_pushed_total",
			Help:      "Total number of scenes pushed to WebSocket clients",
		}),
		EventsPublished: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "publish",
			Name:      "events_total",
			Help:      "Total number of scene events published by status",
		}, []string{"status"}),
		ReportsGenerated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reporting",
			Name:      "reports_generated_total",
			Help:      "Total number of reports written by format",
		}, []string{"format"}),
		HTTPRequestLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "status"}),

		// Database metrics
		DBQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordDatasetLoad records a dataset load attempt.
func RecordDatasetLoad(source string, seconds float64, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	DefaultMetrics.DatasetLoads.WithLabelValues(source, status).Inc()
	DefaultMetrics.DatasetLoadDuration.WithLabelValues(source).Observe(seconds)
}

// RecordPlaceholderRows adds n placeholder rows seen while loading.
func RecordPlaceholderRows(n int) {
	DefaultMetrics.PlaceholderRows.Add(float64(n))
}

// RecordDayAggregated increments the aggregated days counter.
func RecordDayAggregated() {
	DefaultMetrics.DaysAggregated.Inc()
}

// RecordDroppedStops adds n skipped route stops.
func RecordDroppedStops(n int) {
	if n <= 0 {
		return
	}
	DefaultMetrics.DroppedStopRefs.Add(float64(n))
}

// RecordMissingFarm records a trip stop referencing an unknown farm.
func RecordMissingFarm(farmID string) {
	DefaultMetrics.MissingFarmRefs.WithLabelValues(farmID).Inc()
}

// RecordRecompute records a scene recomputation.
func RecordRecompute(trigger string, seconds float64) {
	DefaultMetrics.Recomputations.WithLabelValues(trigger).Inc()
	DefaultMetrics.RecomputeDuration.Observe(seconds)
}

// RecordDaySelection records a selection attempt and the resulting day.
func RecordDaySelection(day int, err error) {
	if err != nil {
		DefaultMetrics.DaySelections.WithLabelValues("rejected").Inc()
		return
	}
	DefaultMetrics.DaySelections.WithLabelValues("accepted").Inc()
	DefaultMetrics.SelectedDay.Set(float64(day))
}

// RecordReady marks the session as ready.
func RecordReady() {
	DefaultMetrics.SessionReady.Set(1)
}

// UpdateWSClients sets the connected WebSocket clients gauge.
func UpdateWSClients(n int) {
	DefaultMetrics.WSClients.Set(float64(n))
}

// RecordScenePushed increments the pushed scenes counter.
func RecordScenePushed() {
	DefaultMetrics.ScenesPushed.Inc()
}

// RecordEventPublished records a publish attempt.
func RecordEventPublished(err error) {
	if err != nil {
		DefaultMetrics.EventsPublished.WithLabelValues("error").Inc()
		return
	}
	DefaultMetrics.EventsPublished.WithLabelValues("success").Inc()
}

// RecordReportGenerated records a written report.
func RecordReportGenerated(format string) {
	DefaultMetrics.ReportsGenerated.WithLabelValues(format).Inc()
}

// RecordHTTPRequest records HTTP request latency.
func RecordHTTPRequest(route string, status int, seconds float64) {
	DefaultMetrics.HTTPRequestLatency.WithLabelValues(route, http.StatusText(status)).Observe(seconds)
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}
