// Package metrics exposes the bridge's operational counters.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics groups the instruments the dispatcher drives.
type Metrics struct {
	ExchangesTotal   *prometheus.CounterVec // command, result
	CyclesTotal      *prometheus.CounterVec // kind, result
	UpdatesTotal     *prometheus.CounterVec // reason
	ConversionErrors prometheus.Counter
	WritesRejected   prometheus.Counter
	HealthState      prometheus.Gauge
	FieldNumeric     *prometheus.GaugeVec // field
}

// New registers all instruments on reg and returns them.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ExchangesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "luxbridge_exchanges_total",
			Help: "Protocol exchanges by command and result.",
		}, []string{"command", "result"}),
		CyclesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "luxbridge_cycles_total",
			Help: "Poll and write cycles by result.",
		}, []string{"kind", "result"}),
		UpdatesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "luxbridge_updates_published_total",
			Help: "Accepted device updates by publish reason.",
		}, []string{"reason"}),
		ConversionErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "luxbridge_conversion_errors_total",
			Help: "Per-field converter failures skipped during poll cycles.",
		}),
		WritesRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "luxbridge_writes_rejected_total",
			Help: "Write commands rejected before any network I/O.",
		}),
		HealthState: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "luxbridge_health_state",
			Help: "Bridge health: 0 unknown, 1 online, 2 error.",
		}),
		FieldNumeric: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "luxbridge_field_value",
			Help: "Last published numeric value per field, when parseable.",
		}, []string{"field"}),
	}

	reg.MustRegister(
		m.ExchangesTotal,
		m.CyclesTotal,
		m.UpdatesTotal,
		m.ConversionErrors,
		m.WritesRejected,
		m.HealthState,
		m.FieldNumeric,
	)

	return m
}
