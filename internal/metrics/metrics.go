package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// UpdaterMetrics counts what the poll loop does with the rates file.
type UpdaterMetrics struct {
	// Detected file changes that were read successfully
	CyclesTotal prometheus.Counter
	// Failed stat/read attempts
	ReadErrorsTotal prometheus.Counter
	// Candidate lines rejected by the parser, by reason
	LinesRejectedTotal *prometheus.CounterVec
	// POSTs to the API, by result ("ok", "http_error", "failed")
	DispatchTotal *prometheus.CounterVec
	// Size of the last dispatched mapping
	RatesDispatched prometheus.Gauge
	// Unix time of the file version last processed
	LastFileModTime prometheus.Gauge

	gatherer prometheus.Gatherer
}

// New registers the collectors in reg. Pass nil to use a private registry.
func New(reg *prometheus.Registry) *UpdaterMetrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &UpdaterMetrics{
		CyclesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "rates_updater_cycles_total",
			Help: "Total number of processed rates file versions",
		}),
		ReadErrorsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "rates_updater_read_errors_total",
			Help: "Total number of failed attempts to read the rates file",
		}),
		LinesRejectedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rates_updater_lines_rejected_total",
			Help: "Total number of candidate lines that could not be parsed",
		}, []string{"reason"}),
		DispatchTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rates_updater_dispatch_total",
			Help: "Total number of requests sent to the rates API",
		}, []string{"result"}),
		RatesDispatched: factory.NewGauge(prometheus.GaugeOpts{
			Name: "rates_updater_rates_dispatched",
			Help: "Number of rates in the last request",
		}),
		LastFileModTime: factory.NewGauge(prometheus.GaugeOpts{
			Name: "rates_updater_last_file_mod_time_seconds",
			Help: "Modification time of the last processed rates file",
		}),
		gatherer: reg,
	}
}

// Handler exposes the collectors in the Prometheus text format.
func (m *UpdaterMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
