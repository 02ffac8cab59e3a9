package redisstream

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

var errPoolShutdownTimeout = errors.New("redisstream: publish pool shutdown timeout")

// publishPool ships batches from background workers so a slow Redis never
// stalls a delivery pass. Drops when the buffer is full.
type publishPool struct {
	jobs    chan *job
	publish func(ctx context.Context, j *job) error
	onError func(j *job, err error)
	timeout time.Duration
	wg      sync.WaitGroup
	closed  atomic.Bool
	dropped atomic.Uint64
	done    atomic.Uint64
	failed  atomic.Uint64
	mu      sync.RWMutex
}

type poolStats struct {
	dropped   uint64
	processed uint64
	failed    uint64
	pending   int
}

// newPublishPool starts the workers. onError, when set, sees every failed publish.
func newPublishPool(workers, bufferSize int, timeout time.Duration, publish func(ctx context.Context, j *job) error, onError func(j *job, err error)) *publishPool {
	if workers < 1 {
		workers = 4
	}
	if bufferSize < 1 {
		bufferSize = 1000
	}
	p := &publishPool{
		jobs:    make(chan *job, bufferSize),
		publish: publish,
		onError: onError,
		timeout: timeout,
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

// submit enqueues j without blocking and reports whether it was accepted.
func (p *publishPool) submit(j *job) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed.Load() {
		p.dropped.Add(1)
		return false
	}
	select {
	case p.jobs <- j:
		return true
	default:
		p.dropped.Add(1)
		return false
	}
}

func (p *publishPool) worker() {
	defer p.wg.Done()
	for j := range p.jobs {
		// Background context: queued batches still drain after close.
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		err := p.publish(ctx, j)
		cancel()
		if err != nil {
			p.failed.Add(1)
			if p.onError != nil {
				p.onError(j, err)
			}
		}
		p.done.Add(1)
	}
}

// close stops intake and waits up to timeout for queued batches to ship.
func (p *publishPool) close(timeout time.Duration) error {
	p.mu.Lock()
	if p.closed.Swap(true) {
		p.mu.Unlock()
		return nil
	}
	close(p.jobs)
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return errPoolShutdownTimeout
	}
}

func (p *publishPool) stats() poolStats {
	return poolStats{
		dropped:   p.dropped.Load(),
		processed: p.done.Load(),
		failed:    p.failed.Load(),
		pending:   len(p.jobs),
	}
}
