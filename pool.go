package html2md

import (
	"errors"
	"runtime"
	"sync"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps converters, since each may own a browser (~200MB).
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for Chrome child processes.
	cpuDivisor = 2
)

// ConverterPool manages Converter instances for parallel processing.
// Each converter owns its browser, so conversions never share a page.
// Converters are created lazily on first acquire with the pool's options.
type ConverterPool struct {
	size       int
	opts       []Option
	converters []*Converter
	sem        chan *Converter
	mu         sync.Mutex
	created    int
	closed     bool
	initErr    error
}

// NewConverterPool creates a pool with capacity for n converters built with
// opts. Converters are built on demand, so invalid options surface on the
// first Acquire.
func NewConverterPool(n int, opts ...Option) *ConverterPool {
	if n < 1 {
		n = 1
	}

	return &ConverterPool{
		size:       n,
		opts:       opts,
		converters: make([]*Converter, 0, n),
		sem:        make(chan *Converter, n),
	}
}

// Acquire gets a converter from the pool, creating one if needed.
// Blocks while all converters are in use. Returns nil when the pool is
// closed or a converter cannot be built; InitError reports why.
func (p *ConverterPool) Acquire() *Converter {
	// Try to get an idle converter (non-blocking)
	select {
	case conv := <-p.sem:
		return conv
	default:
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	if p.created < p.size {
		p.created++
		p.mu.Unlock()

		// Build outside the lock
		conv, err := NewConverter(p.opts...)

		p.mu.Lock()
		defer p.mu.Unlock()
		if err != nil {
			p.created--
			p.initErr = err
			return nil
		}
		p.converters = append(p.converters, conv)
		return conv
	}
	p.mu.Unlock()

	// All converters created, wait for one to be released
	return <-p.sem
}

// Release returns a converter to the pool. Releasing after Close is a no-op.
// The send happens under the lock so Close cannot close sem in between;
// sem holds size converters, so it never blocks.
func (p *ConverterPool) Release(conv *Converter) {
	if conv == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	select {
	case p.sem <- conv:
	default:
	}
}

// InitError returns the last error that prevented Acquire from building a
// converter, or nil.
func (p *ConverterPool) InitError() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.initErr
}

// Close releases all browser resources.
// Returns an aggregated error if several converters fail to close.
func (p *ConverterPool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.sem)
	converters := p.converters
	p.mu.Unlock()

	var errs []error
	for _, conv := range converters {
		if err := conv.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Size returns the pool capacity.
func (p *ConverterPool) Size() int {
	return p.size
}

// ResolvePoolSize determines the pool size.
// Priority: explicit workers > GOMAXPROCS-based calculation.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS is adjusted by automaxprocs in containers
	n := runtime.GOMAXPROCS(0) / cpuDivisor

	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
