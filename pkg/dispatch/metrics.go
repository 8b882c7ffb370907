package dispatch

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/go-drift/plane/pkg/errors"
)

const metricsNamespace = "plane"

type metrics struct {
	dispatches *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	overrides  prometheus.Gauge
	panics     *prometheus.CounterVec
}

// newMetrics builds the dispatch collectors and registers them with reg.
// Collectors already registered by another navigator are shared.
func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		dispatches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "dispatch_total",
				Help:      "Dispatched events by kind and final status",
			},
			[]string{"kind", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "dispatch_duration_seconds",
				Help:      "Time spent running one behavior chain",
				Buckets:   []float64{0.00001, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
			},
			[]string{"kind"},
		),
		overrides: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Name:      "global_overrides",
				Help:      "Event kinds currently held by a global override",
			},
		),
		panics: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "dispatch_panics_total",
				Help:      "Behavior handlers that panicked, by event kind",
			},
			[]string{"kind"},
		),
	}
	if reg == nil {
		return m
	}
	m.dispatches = register(reg, m.dispatches)
	m.duration = register(reg, m.duration)
	m.overrides = register(reg, m.overrides)
	m.panics = register(reg, m.panics)
	return m
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) T {
	err := reg.Register(c)
	if err == nil {
		return c
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(T); ok {
			return existing
		}
	}
	panic(err)
}
