package docmodel

import (
	"context"
	"errors"
	"time"

	"github.com/alnah/go-docmodel/internal/metrics"
)

// Recorder re-exports the metrics surface so callers can supply their
// own implementation.
type Recorder = metrics.Recorder

// NoopRecorder is the default Recorder; every method does nothing.
type NoopRecorder = metrics.NoopRecorder

// Service wraps a Converter with metrics. Use it when conversion
// volume and stage timings should land in a metrics backend; plain
// library users can call Converter directly.
type Service struct {
	conv     *Converter
	recorder metrics.Recorder
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithRecorder sets the metrics recorder. The default records nothing.
// Panics if r is nil (programmer error).
func WithRecorder(r Recorder) ServiceOption {
	if r == nil {
		panic("docmodel: WithRecorder requires a non-nil recorder")
	}
	return func(s *Service) {
		s.recorder = r
	}
}

// NewService wraps conv. A nil conv gets a default Converter.
func NewService(conv *Converter, opts ...ServiceOption) *Service {
	if conv == nil {
		conv = New()
	}
	s := &Service{
		conv:     conv,
		recorder: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Convert runs the wrapped converter and records the outcome, the
// total duration, per-stage durations, and diagnostic counts.
func (s *Service) Convert(ctx context.Context, req Request) (*ConvertResult, error) {
	start := time.Now()
	result, err := s.conv.Convert(ctx, req)
	s.recorder.ObserveConversionDuration(time.Since(start))

	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		s.recorder.IncConversionOutcome(metrics.OutcomeCanceled)
	case err != nil:
		s.recorder.IncConversionOutcome(metrics.OutcomeFailed)
	case !result.Validation.Valid:
		s.recorder.IncConversionOutcome(metrics.OutcomeInvalid)
	default:
		s.recorder.IncConversionOutcome(metrics.OutcomeSuccess)
	}

	if result != nil {
		s.recorder.AddDiagnostics("error", len(result.Validation.Errors))
		s.recorder.AddDiagnostics("warning", len(result.Validation.Warnings))
		for _, stage := range result.Pipeline.Stages {
			s.recorder.ObserveStageDuration(stage.Name, time.Duration(stage.Elapsed)*time.Millisecond)
			s.recorder.IncStageResult(stage.Name, stageResult(stage.Status))
		}
	}
	return result, err
}

func stageResult(status StageStatus) metrics.ResultLabel {
	switch status {
	case StageComplete:
		return metrics.ResultSuccess
	case StageFailed:
		return metrics.ResultFailed
	default:
		return metrics.ResultCanceled
	}
}
