package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus collectors.
type PrometheusRecorder struct {
	stageDuration      *prom.HistogramVec
	conversionDuration prom.Histogram
	stageResults       *prom.CounterVec
	outcomes           *prom.CounterVec
	diagnostics        *prom.CounterVec
	poolInUse          prom.Gauge
}

var _ Recorder = (*PrometheusRecorder)(nil)

// NewPrometheusRecorder constructs the collectors and registers them
// on reg. A nil reg gets a private registry, which keeps tests
// independent of the global default.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "docmodel",
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual conversion stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"}),
		conversionDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "docmodel",
			Name:      "conversion_duration_seconds",
			Help:      "Total conversion duration",
			Buckets:   prom.DefBuckets,
		}),
		stageResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docmodel",
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"}),
		outcomes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docmodel",
			Name:      "conversion_outcomes_total",
			Help:      "Conversion outcomes by final status",
		}, []string{"outcome"}),
		diagnostics: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docmodel",
			Name:      "diagnostics_total",
			Help:      "Diagnostics emitted, by kind",
		}, []string{"kind"}),
		poolInUse: prom.NewGauge(prom.GaugeOpts{
			Namespace: "docmodel",
			Name:      "pool_in_use",
			Help:      "Converters currently checked out of the pool",
		}),
	}
	reg.MustRegister(pr.stageDuration, pr.conversionDuration, pr.stageResults, pr.outcomes, pr.diagnostics, pr.poolInUse)
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil || p.stageDuration == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveConversionDuration(d time.Duration) {
	if p == nil || p.conversionDuration == nil {
		return
	}
	p.conversionDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	if p == nil || p.stageResults == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) IncConversionOutcome(outcome OutcomeLabel) {
	if p == nil || p.outcomes == nil {
		return
	}
	p.outcomes.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) AddDiagnostics(kind string, n int) {
	if p == nil || p.diagnostics == nil || n <= 0 {
		return
	}
	p.diagnostics.WithLabelValues(kind).Add(float64(n))
}

func (p *PrometheusRecorder) SetPoolInUse(n int) {
	if p == nil || p.poolInUse == nil {
		return
	}
	p.poolInUse.Set(float64(n))
}
