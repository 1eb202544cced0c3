// Package prometheus adapts taskpool.MetricsPolicy to Prometheus
// collectors.
package prometheus

import (
	"errors"

	taskpool "github.com/eyalrot/taskpool"
	prom "github.com/prometheus/client_golang/prometheus"
)

// MetricsExporter implements taskpool.MetricsPolicy on top of
// Prometheus counters and a queue-depth gauge.
type MetricsExporter struct {
	submittedTotal prom.Counter
	executedTotal  prom.Counter
	failedTotal    prom.Counter
	stolenTotal    prom.Counter
	queueDepth     prom.Gauge
}

var _ taskpool.MetricsPolicy = (*MetricsExporter)(nil)

// NewMetricsExporter creates and registers the collectors. An empty
// namespace defaults to "taskpool"; a nil registerer defaults to
// prometheus.DefaultRegisterer. Registering the same namespace twice
// on one registerer reuses the existing collectors.
func NewMetricsExporter(namespace string, reg prom.Registerer) (*MetricsExporter, error) {
	if namespace == "" {
		namespace = "taskpool"
	}
	if reg == nil {
		reg = prom.DefaultRegisterer
	}

	submitted := prom.NewCounter(prom.CounterOpts{
		Namespace: namespace,
		Name:      "items_submitted_total",
		Help:      "Total number of items submitted.",
	})
	executed := prom.NewCounter(prom.CounterOpts{
		Namespace: namespace,
		Name:      "items_executed_total",
		Help:      "Total number of items executed.",
	})
	failed := prom.NewCounter(prom.CounterOpts{
		Namespace: namespace,
		Name:      "items_failed_total",
		Help:      "Total number of items that returned an error or panicked.",
	})
	stolen := prom.NewCounter(prom.CounterOpts{
		Namespace: namespace,
		Name:      "items_stolen_total",
		Help:      "Total number of items executed by a stealing worker.",
	})
	depth := prom.NewGauge(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "queue_depth",
		Help:      "Current number of queued items.",
	})

	var err error
	if submitted, err = registerCollector(reg, submitted); err != nil {
		return nil, err
	}
	if executed, err = registerCollector(reg, executed); err != nil {
		return nil, err
	}
	if failed, err = registerCollector(reg, failed); err != nil {
		return nil, err
	}
	if stolen, err = registerCollector(reg, stolen); err != nil {
		return nil, err
	}
	if depth, err = registerCollector(reg, depth); err != nil {
		return nil, err
	}

	return &MetricsExporter{
		submittedTotal: submitted,
		executedTotal:  executed,
		failedTotal:    failed,
		stolenTotal:    stolen,
		queueDepth:     depth,
	}, nil
}

func (m *MetricsExporter) IncSubmitted() { m.submittedTotal.Inc() }

func (m *MetricsExporter) IncExecuted() { m.executedTotal.Inc() }

func (m *MetricsExporter) IncFailed() { m.failedTotal.Inc() }

func (m *MetricsExporter) IncStolen() { m.stolenTotal.Inc() }

func (m *MetricsExporter) AddQueued(n int64) { m.queueDepth.Add(float64(n)) }

// registerCollector registers c, reusing an existing collector when
// one with the same descriptor is already registered.
func registerCollector[C prom.Collector](reg prom.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prom.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}
