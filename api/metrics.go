package api

import (
	"net/http"

	"github.com/platelink/network-engine/platelet"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MonitorMetrics exports the latest expiry report as Prometheus gauges.
type MonitorMetrics struct {
	registry      *prometheus.Registry
	unitsByStatus *prometheus.GaugeVec
	expiringToday prometheus.Gauge
	locations     prometheus.Gauge
	checks        prometheus.Counter
	checkErrors   prometheus.Counter
}

// NewMonitorMetrics registers the monitor gauges on reg.
func NewMonitorMetrics(reg *prometheus.Registry) *MonitorMetrics {
	m := &MonitorMetrics{
		registry: reg,
		unitsByStatus: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "platelink",
			Name:      "units",
			Help:      "Platelet units held across the network, by expiry status.",
		}, []string{"status"}),
		expiringToday: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "platelink",
			Name:      "units_expiring_today",
			Help:      "Platelet units expiring within one day.",
		}),
		locations: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "platelink",
			Name:      "locations",
			Help:      "Facilities holding stock.",
		}),
		checks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "platelink",
			Name:      "expiry_checks_total",
			Help:      "Expiry monitor checks run.",
		}),
		checkErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "platelink",
			Name:      "expiry_check_errors_total",
			Help:      "Expiry monitor checks that failed to read the inventory.",
		}),
	}
	reg.MustRegister(m.unitsByStatus, m.expiringToday, m.locations, m.checks, m.checkErrors)
	return m
}

func (m *MonitorMetrics) observe(report *ExpiryReport) {
	m.checks.Inc()
	for _, st := range platelet.ExpiryStatuses {
		m.unitsByStatus.WithLabelValues(string(st)).Set(float64(report.Summary.ByStatus[st]))
	}
	m.expiringToday.Set(float64(report.Summary.ExpiringToday))
	m.locations.Set(float64(report.Summary.DistinctLocations))
}

func (m *MonitorMetrics) observeError() {
	m.checks.Inc()
	m.checkErrors.Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *MonitorMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
