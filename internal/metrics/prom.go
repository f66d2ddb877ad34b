package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/limaJavier/classplanner/pkg/search"
)

// PromSink records search progress in Prometheus metrics.
type PromSink struct {
	attempts    *prometheus.CounterVec
	unallocated *prometheus.HistogramVec
	repairs     *prometheus.CounterVec
	best        prometheus.Gauge
}

var _ search.MetricsSink = (*PromSink)(nil)

// NewPromSink registers search metrics on the default Prometheus registerer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	attempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "classplanner_attempts_total",
		Help: "Candidate timetables handled by the search, per stage",
	}, []string{"stage"})
	unallocated := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "classplanner_unallocated_sessions",
		Help:    "Unallocated sessions per evaluated candidate",
		Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100, 200},
	}, []string{"stage"})
	repairs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "classplanner_repair_sessions_total",
		Help: "Unallocated sessions handled by repair passes, per result",
	}, []string{"result"})
	best := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "classplanner_best_unallocated_sessions",
		Help: "Unallocated sessions of the best candidate found so far",
	})

	var err error
	if attempts, err = register(reg, attempts); err != nil {
		return nil, err
	}
	if unallocated, err = register(reg, unallocated); err != nil {
		return nil, err
	}
	if repairs, err = register(reg, repairs); err != nil {
		return nil, err
	}
	if best, err = register(reg, best); err != nil {
		return nil, err
	}

	return &PromSink{attempts: attempts, unallocated: unallocated, repairs: repairs, best: best}, nil
}

// register reuses a collector already registered under the same descriptor.
func register[C prometheus.Collector](reg prometheus.Registerer, collector C) (C, error) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return collector, fmt.Errorf("register metric: %w", err)
	}
	return collector, nil
}

func (s *PromSink) RecordAttempt(stage string, unallocated int) {
	s.attempts.WithLabelValues(stage).Inc()
	if stage != search.StageAborted {
		s.unallocated.WithLabelValues(stage).Observe(float64(unallocated))
	}
}

func (s *PromSink) RecordRepair(moved, failed int) {
	s.repairs.WithLabelValues("moved").Add(float64(moved))
	s.repairs.WithLabelValues("failed").Add(float64(failed))
}

func (s *PromSink) RecordBest(unallocated int) {
	s.best.Set(float64(unallocated))
}

// WriteTextfile dumps the gatherer in the text exposition format, for the
// node exporter textfile collector.
func WriteTextfile(path string, gatherer prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, gatherer); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
