// Package metrics contains Prometheus collectors of escrow services and the
// HTTP server exposing them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "ibetyou"

// Client groups metrics of escrow client operations.
type Client struct {
	Operations *prometheus.CounterVec
	Duration   *prometheus.HistogramVec
}

// NewClient creates client metrics and registers them in reg.
func NewClient(reg prometheus.Registerer) *Client {
	m := &Client{
		Operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "operations_total",
			Help:      "Escrow operations sent to the chain by operation and result",
		}, []string{"operation", "result"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "operation_duration_seconds",
			Help:      "Time from sending the transaction to its acceptance",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 8),
		}, []string{"operation"}),
	}

	reg.MustRegister(m.Operations, m.Duration)

	return m
}

// Monitor groups metrics maintained from contract notifications.
type Monitor struct {
	Bets          *prometheus.GaugeVec
	Events        *prometheus.CounterVec
	Credited      prometheus.Counter
	Escrowed      prometheus.Counter
	PaidOut       prometheus.Counter
	DecodeErrors  prometheus.Counter
	LastEventTime prometheus.Gauge
}

// NewMonitor creates monitor metrics and registers them in reg.
func NewMonitor(reg prometheus.Registerer) *Monitor {
	m := &Monitor{
		Bets: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "monitor",
			Name:      "bets",
			Help:      "Number of observed bets by state",
		}, []string{"state"}),
		Events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "monitor",
			Name:      "events_total",
			Help:      "Contract notifications by name",
		}, []string{"event"}),
		Credited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "monitor",
			Name:      "credited_total",
			Help:      "Total amount credited to user balances",
		}),
		Escrowed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "monitor",
			Name:      "escrowed_total",
			Help:      "Total amount moved from balances into bet custody",
		}),
		PaidOut: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "monitor",
			Name:      "paid_out_total",
			Help:      "Total amount paid to bet winners",
		}),
		DecodeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "monitor",
			Name:      "decode_errors_total",
			Help:      "Notifications which could not be decoded",
		}),
		LastEventTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "monitor",
			Name:      "last_event_timestamp_seconds",
			Help:      "Unix time of the last processed notification",
		}),
	}

	reg.MustRegister(m.Bets, m.Events, m.Credited, m.Escrowed, m.PaidOut, m.DecodeErrors, m.LastEventTime)

	return m
}
