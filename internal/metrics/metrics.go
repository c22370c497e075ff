// Package metrics exposes Prometheus collectors for calculator activity.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/iwvelando/bank-calculators/pkg/validation"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "bankcalc"

// Outcome labels.
const (
	StatusOK      = "ok"
	StatusInvalid = "invalid"
	StatusError   = "error"
)

var (
	// Calculations counts calculator invocations by outcome.
	Calculations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calculations_total",
			Help:      "Number of calculations performed.",
		},
		[]string{"calculator", "status"},
	)

	// CalculationDuration observes how long calculations take.
	CalculationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "calculation_duration_seconds",
			Help:      "Time spent validating and computing a result.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		},
		[]string{"calculator"},
	)

	// ScheduleRows counts amortization and deposit rows produced.
	ScheduleRows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "schedule_rows_total",
			Help:      "Number of schedule rows generated.",
		},
		[]string{"calculator"},
	)

	// HTTPRequests counts API requests by route and status code.
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "API requests handled.",
		},
		[]string{"route", "method", "code"},
	)
)

// ObserveCalculation records the outcome and latency of one calculation.
func ObserveCalculation(calculator string, start time.Time, err error) {
	CalculationDuration.WithLabelValues(calculator).Observe(time.Since(start).Seconds())
	Calculations.WithLabelValues(calculator, Status(err)).Inc()
}

// Status maps an error to an outcome label.
func Status(err error) string {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, validation.ErrInvalidInput):
		return StatusInvalid
	default:
		return StatusError
	}
}

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
