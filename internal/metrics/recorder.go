// Package metrics provides observability hooks for conversion runs.
// Components receive a Recorder by injection; the zero-value
// NoopRecorder keeps metrics optional without nil checks at call
// sites.
package metrics

import "time"

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultFailed   ResultLabel = "failed"
	ResultCanceled ResultLabel = "canceled"
)

// OutcomeLabel enumerates terminal conversion outcomes.
type OutcomeLabel string

const (
	OutcomeSuccess  OutcomeLabel = "success"
	OutcomeInvalid  OutcomeLabel = "invalid"
	OutcomeFailed   OutcomeLabel = "failed"
	OutcomeCanceled OutcomeLabel = "canceled"
)

// Recorder defines the metrics surface of the conversion service.
// Implementations must be safe for concurrent use.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveConversionDuration(d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	IncConversionOutcome(outcome OutcomeLabel)
	AddDiagnostics(kind string, n int) // kind: error|warning
	SetPoolInUse(n int)
}

// NoopRecorder is the default Recorder; every method does nothing.
type NoopRecorder struct{}

var _ Recorder = NoopRecorder{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveConversionDuration(time.Duration)    {}
func (NoopRecorder) IncStageResult(string, ResultLabel)         {}
func (NoopRecorder) IncConversionOutcome(OutcomeLabel)          {}
func (NoopRecorder) AddDiagnostics(string, int)                 {}
func (NoopRecorder) SetPoolInUse(int)                           {}
