// Package observability exports validation activity as Prometheus metrics.
package observability

import (
	"time"

	"github.com/aretw0/schemata/pkg/validation"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors fed by validation hooks.
type Metrics struct {
	Runs          *prometheus.CounterVec
	FieldFailures *prometheus.CounterVec
	Duration      *prometheus.HistogramVec
}

// NewMetrics creates the collectors. Register them with Register before use.
func NewMetrics() *Metrics {
	return &Metrics{
		Runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "schemata_validations_total",
				Help: "Total number of validation runs",
			},
			[]string{"schema", "result"},
		),
		FieldFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "schemata_field_failures_total",
				Help: "Failure codes reported per field",
			},
			[]string{"schema", "field", "code"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "schemata_validation_duration_seconds",
				Help:    "Duration of validation runs",
				Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
			},
			[]string{"schema"},
		),
	}
}

// Register adds the collectors to reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.Runs, m.FieldFailures, m.Duration} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Hooks returns validation hooks that record into m, chained before next.
func (m *Metrics) Hooks(next validation.Hooks) validation.Hooks {
	return validation.Hooks{
		OnFieldSettled: func(schemaName, field string, codes []string, elapsed time.Duration) {
			for _, code := range codes {
				m.FieldFailures.WithLabelValues(schemaName, field, code).Inc()
			}
			if next.OnFieldSettled != nil {
				next.OnFieldSettled(schemaName, field, codes, elapsed)
			}
		},
		OnComplete: func(schemaName string, valid bool, elapsed time.Duration) {
			result := "valid"
			if !valid {
				result = "invalid"
			}
			m.Runs.WithLabelValues(schemaName, result).Inc()
			m.Duration.WithLabelValues(schemaName).Observe(elapsed.Seconds())
			if next.OnComplete != nil {
				next.OnComplete(schemaName, valid, elapsed)
			}
		},
	}
}
