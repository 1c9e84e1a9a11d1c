// Package observability publishes saga lifecycle events as Prometheus
// metrics. The engine stays metrics-agnostic: it only fires hooks, and this
// package turns them into counters and histograms.
package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/identropy/accord/pkg/domain"
)

// Metrics holds the saga-level Prometheus collectors.
type Metrics struct {
	stepsTotal         *prometheus.CounterVec
	stepDuration       *prometheus.HistogramVec
	compensationsTotal *prometheus.CounterVec
	flowsTotal         *prometheus.CounterVec
	flowDuration       *prometheus.HistogramVec
}

// NewMetrics creates and registers the collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		stepsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "accord",
				Name:      "saga_steps_total",
				Help:      "Total number of executed saga steps",
			},
			[]string{"flow", "step", "outcome"},
		),
		stepDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "accord",
				Name:      "saga_step_duration_seconds",
				Help:      "Duration of saga steps",
			},
			[]string{"flow", "step"},
		),
		compensationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "accord",
				Name:      "saga_compensations_total",
				Help:      "Total number of executed compensations",
			},
			[]string{"flow", "step", "outcome"},
		),
		flowsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "accord",
				Name:      "flows_total",
				Help:      "Total number of completed flows by outcome",
			},
			[]string{"flow", "outcome"},
		),
		flowDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "accord",
				Name:      "flow_duration_seconds",
				Help:      "End-to-end duration of flows",
			},
			[]string{"flow"},
		),
	}
	reg.MustRegister(m.stepsTotal, m.stepDuration, m.compensationsTotal, m.flowsTotal, m.flowDuration)
	return m
}

// Hooks returns lifecycle hooks that record the collectors. Merge them with
// any other hook set the engine carries.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStepEnd: func(ctx context.Context, e *domain.StepEvent) {
			m.stepsTotal.WithLabelValues(e.Flow, e.Step, outcome(e.Err)).Inc()
			m.stepDuration.WithLabelValues(e.Flow, e.Step).Observe(e.Elapsed.Seconds())
		},
		OnCompensation: func(ctx context.Context, e *domain.CompensationEvent) {
			m.compensationsTotal.WithLabelValues(e.Flow, e.Step, outcome(e.Err)).Inc()
		},
		OnFlowEnd: func(ctx context.Context, e *domain.FlowEvent) {
			label := e.ErrorCode
			if label == "" {
				label = outcome(e.Err)
			}
			m.flowsTotal.WithLabelValues(e.Flow, label).Inc()
			m.flowDuration.WithLabelValues(e.Flow).Observe(e.Elapsed.Seconds())
		},
	}
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
