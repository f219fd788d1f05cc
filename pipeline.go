package docmodel

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/alnah/go-docmodel/diag"
)

// Stage names used by Convert, in execution order.
const (
	StageValidate    = "validate"
	StageFrontmatter = "frontmatter"
	StageParse       = "parse"
	StageMath        = "math"
	StageLinks       = "links"
	StageCitations   = "citations"
)

// PipelineStatus is the pipeline-level state. Pipelines move from
// pending to running to one terminal state and never leave it.
type PipelineStatus string

const (
	StatusPending   PipelineStatus = "pending"
	StatusRunning   PipelineStatus = "running"
	StatusCompleted PipelineStatus = "completed"
	StatusFailed    PipelineStatus = "failed"
)

// StageStatus is the per-stage state.
type StageStatus string

const (
	StageRunning  StageStatus = "running"
	StageComplete StageStatus = "complete"
	StageFailed   StageStatus = "failed"
)

// Stage records one named unit of pipeline work.
type Stage struct {
	Name      string      `json:"name"`
	Status    StageStatus `json:"status"`
	StartedAt time.Time   `json:"startedAt"`
	Elapsed   int64       `json:"elapsed,omitempty"`  // milliseconds
	Progress  float64     `json:"progress,omitempty"` // 0..100
	Error     string      `json:"error,omitempty"`
}

// PipelineResult stores the terminal verdict of a pipeline.
type PipelineResult struct {
	Success bool        `json:"success"`
	Error   *diag.Error `json:"error,omitempty"`
}

// PipelineData is the serializable snapshot of a pipeline. It shares
// no memory with the live pipeline that produced it.
type PipelineData struct {
	ID          string          `json:"id"`
	RequestID   string          `json:"requestId"`
	Stages      []Stage         `json:"stages"`
	StartedAt   time.Time       `json:"startedAt"`
	CompletedAt *time.Time      `json:"completedAt,omitempty"`
	Status      PipelineStatus  `json:"status"`
	Result      *PipelineResult `json:"result,omitempty"`
}

// Pipeline tracks the stages of one conversion request. A stage is
// matched for completion or failure by name and by being the most
// recent running entry under that name, so duplicate or out-of-order
// calls from orchestration code degrade to no-ops instead of errors.
// Safe for concurrent use.
type Pipeline struct {
	mu          sync.Mutex
	id          string
	requestID   string
	stages      []Stage
	startedAt   time.Time
	completedAt time.Time
	status      PipelineStatus
	result      *PipelineResult
	strict      bool
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithStrictCompletion makes Complete mark stages still running as
// failed and count them against the pipeline verdict. The default
// leaves stage closure to the orchestrator.
func WithStrictCompletion() PipelineOption {
	return func(p *Pipeline) {
		p.strict = true
	}
}

// NewPipeline creates a pending pipeline for the given request.
func NewPipeline(requestID string, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		id:        uuid.NewString(),
		requestID: requestID,
		stages:    []Stage{},
		startedAt: time.Now(),
		status:    StatusPending,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ID returns the pipeline's generated identifier.
func (p *Pipeline) ID() string {
	return p.id
}

// RequestID returns the identifier of the request being converted.
func (p *Pipeline) RequestID() string {
	return p.requestID
}

// Status returns the current pipeline-level status.
func (p *Pipeline) Status() PipelineStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// StartStage records a new running stage. The first stage moves the
// pipeline from pending to running. No-op once the pipeline is
// terminal.
func (p *Pipeline) StartStage(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.terminal() {
		return
	}
	if p.status == StatusPending {
		p.status = StatusRunning
	}
	p.stages = append(p.stages, Stage{
		Name:      name,
		Status:    StageRunning,
		StartedAt: time.Now(),
	})
}

// CompleteStage marks the most recent running stage with this name as
// complete. No-op when no such stage exists.
func (p *Pipeline) CompleteStage(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.terminal() {
		return
	}
	if s := p.lastRunning(name); s != nil {
		s.Status = StageComplete
		s.Elapsed = msSince(s.StartedAt)
	}
}

// FailStage marks the most recent running stage with this name as
// failed and stores the failure message. No-op when no such stage
// exists.
func (p *Pipeline) FailStage(name, msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.terminal() {
		return
	}
	if s := p.lastRunning(name); s != nil {
		s.Status = StageFailed
		s.Error = msg
		s.Elapsed = msSince(s.StartedAt)
	}
}

// UpdateProgress sets the progress of the most recent running stage
// with this name, clamped to [0, 100]. No-op when no such stage
// exists.
func (p *Pipeline) UpdateProgress(name string, pct float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.terminal() {
		return
	}
	if s := p.lastRunning(name); s != nil {
		switch {
		case pct < 0:
			s.Progress = 0
		case pct > 100:
			s.Progress = 100
		default:
			s.Progress = pct
		}
	}
}

// Elapsed returns wall-clock milliseconds since the pipeline was
// created, non-decreasing for a given instance.
func (p *Pipeline) Elapsed() int64 {
	return msSince(p.startedAt)
}

// Complete moves the pipeline to its terminal status and stores the
// verdict. It returns the names of stages still running at the time of
// the call; in strict mode those stages are failed and force a failed
// verdict. Completing a terminal pipeline is a no-op returning nil.
func (p *Pipeline) Complete(success bool, resErr *diag.Error) []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.terminal() {
		return nil
	}

	var open []string
	for i := range p.stages {
		if p.stages[i].Status != StageRunning {
			continue
		}
		open = append(open, p.stages[i].Name)
		if p.strict {
			p.stages[i].Status = StageFailed
			p.stages[i].Error = "stage left running at pipeline completion"
			p.stages[i].Elapsed = msSince(p.stages[i].StartedAt)
		}
	}
	if p.strict && len(open) > 0 {
		success = false
	}

	p.completedAt = time.Now()
	if success {
		p.status = StatusCompleted
	} else {
		p.status = StatusFailed
	}
	p.result = &PipelineResult{Success: success, Error: copyError(resErr)}
	return open
}

// State returns a deep snapshot of the pipeline. Mutating the snapshot
// never affects the live pipeline.
func (p *Pipeline) State() PipelineData {
	p.mu.Lock()
	defer p.mu.Unlock()

	stages := make([]Stage, len(p.stages))
	copy(stages, p.stages)

	data := PipelineData{
		ID:        p.id,
		RequestID: p.requestID,
		Stages:    stages,
		StartedAt: p.startedAt,
		Status:    p.status,
	}
	if !p.completedAt.IsZero() {
		t := p.completedAt
		data.CompletedAt = &t
	}
	if p.result != nil {
		data.Result = &PipelineResult{
			Success: p.result.Success,
			Error:   copyError(p.result.Error),
		}
	}
	return data
}

func (p *Pipeline) terminal() bool {
	return p.status == StatusCompleted || p.status == StatusFailed
}

// lastRunning must be called with the lock held.
func (p *Pipeline) lastRunning(name string) *Stage {
	for i := len(p.stages) - 1; i >= 0; i-- {
		if p.stages[i].Name == name && p.stages[i].Status == StageRunning {
			return &p.stages[i]
		}
	}
	return nil
}

func copyError(e *diag.Error) *diag.Error {
	if e == nil {
		return nil
	}
	c := *e
	if e.Suggestions != nil {
		c.Suggestions = append([]string(nil), e.Suggestions...)
	}
	return &c
}

func msSince(t time.Time) int64 {
	ms := time.Since(t).Milliseconds()
	if ms < 0 {
		return 0
	}
	return ms
}
