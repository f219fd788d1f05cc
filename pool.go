package docmodel

import (
	"runtime"
	"sync"

	"github.com/alnah/go-docmodel/internal/metrics"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one converter is available.
	MinPoolSize = 1

	// MaxPoolSize caps converters; each in-flight conversion holds a
	// full document tree and citation index in memory.
	MaxPoolSize = 8
)

// ConverterPool manages a pool of Converter instances for parallel
// processing. Each request acquires its own converter, so no tree,
// citation manager, or pipeline state is shared between requests.
// Converters are created lazily on first acquire to avoid startup
// delay.
type ConverterPool struct {
	size       int
	opts       []Option
	converters []*Converter
	sem        chan *Converter
	recorder   metrics.Recorder
	mu         sync.Mutex
	created    int
	inUse      int
	closed     bool
}

// NewConverterPool creates a pool with capacity for n Converter
// instances, each built with opts. Converters are created lazily when
// acquired, not at pool creation.
func NewConverterPool(n int, opts ...Option) *ConverterPool {
	if n < 1 {
		n = 1
	}

	return &ConverterPool{
		size:       n,
		opts:       opts,
		converters: make([]*Converter, 0, n),
		sem:        make(chan *Converter, n),
		recorder:   metrics.NoopRecorder{},
	}
}

// WithRecorder sets the recorder that tracks pool utilization and
// returns the pool for chaining.
func (p *ConverterPool) WithRecorder(r Recorder) *ConverterPool {
	if r != nil {
		p.recorder = r
	}
	return p
}

// Acquire gets a converter from the pool, creating one if needed.
// Blocks if all converters are in use.
func (p *ConverterPool) Acquire() *Converter {
	// Try to get an existing converter (non-blocking)
	select {
	case conv := <-p.sem:
		p.markAcquired()
		return conv
	default:
	}

	// Check if we can create a new converter
	p.mu.Lock()
	if p.created < p.size {
		p.created++
		p.mu.Unlock()

		// Create new converter outside the lock
		conv := New(p.opts...)

		p.mu.Lock()
		p.converters = append(p.converters, conv)
		p.inUse++
		p.recorder.SetPoolInUse(p.inUse)
		p.mu.Unlock()

		return conv
	}
	p.mu.Unlock()

	// All converters created, wait for one to be released
	conv := <-p.sem
	p.markAcquired()
	return conv
}

// Release returns a converter to the pool.
// The lock is released before sending to avoid deadlock when the
// channel is full.
func (p *ConverterPool) Release(conv *Converter) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	if p.inUse > 0 {
		p.inUse--
	}
	p.recorder.SetPoolInUse(p.inUse)
	p.mu.Unlock()

	p.sem <- conv
}

// Close marks the pool closed; subsequent Release calls are dropped.
func (p *ConverterPool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	close(p.sem)
	p.recorder.SetPoolInUse(0)
	return nil
}

// Size returns the pool capacity.
func (p *ConverterPool) Size() int {
	return p.size
}

// InUse returns the number of converters currently checked out.
func (p *ConverterPool) InUse() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inUse
}

func (p *ConverterPool) markAcquired() {
	p.mu.Lock()
	p.inUse++
	p.recorder.SetPoolInUse(p.inUse)
	p.mu.Unlock()
}

// ResolvePoolSize determines the optimal pool size.
// Priority: explicit workers > GOMAXPROCS-based calculation.
// Exported for use by servers and CLIs.
func ResolvePoolSize(workers int) int {
	// Explicit value takes priority
	if workers > 0 {
		return workers
	}

	// Auto-calculate based on GOMAXPROCS (adjusted by automaxprocs in containers)
	n := runtime.GOMAXPROCS(0)

	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
