package mpsc

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"
)

// ErrPoolClosed is returned by [Pool.Submit] when the pool has been closed.
var ErrPoolClosed = errors.New("mpsc: pool is closed")

// Pool runs submitted tasks on at most n goroutines at a time. Tasks are
// queued on an unbounded channel, so Submit never blocks; a single
// dispatcher goroutine owns the [Receiver] and starts tasks as slots
// free up.
type Pool struct {
	mu     sync.RWMutex // serializes Submit with Close
	closed bool
	tx     *Sender[func() error]

	sem    *semaphore.Weighted
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	done   chan struct{} // closed once the dispatcher has exited
	log    logrus.FieldLogger

	errMu sync.Mutex
	errs  []error

	submitted atomic.Int64
	completed atomic.Int64
	errored   atomic.Int64
	dropped   atomic.Int64
	inFlight  atomic.Int64
	workers   int
}

// PoolStats provides a point-in-time snapshot of pool activity.
type PoolStats struct {
	Submitted int64 // total tasks accepted by Submit
	Completed int64 // tasks finished (success + error)
	Errored   int64 // tasks that returned non-nil error or panicked
	Dropped   int64 // queued tasks discarded after the context ended
	InFlight  int64 // tasks currently executing

	// QueueDepth is the length of the shared queue. Tasks the dispatcher
	// has already batched out of it are not included.
	QueueDepth int
	Workers    int // concurrency limit (fixed at creation)
}

// NewPool creates a pool that runs at most n tasks concurrently until
// [Pool.Close] is called. Panics if n <= 0.
//
// When ctx ends, tasks that have not started are dropped and Submit
// returns the context error.
func NewPool(ctx context.Context, n int, opts ...PoolOption) *Pool {
	if n <= 0 {
		panic("mpsc: NewPool requires n > 0")
	}

	cfg := defaultPoolConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	ctx, cancel := context.WithCancel(ctx)
	tx, rx := Unbounded[func() error]()
	p := &Pool{
		tx:      tx,
		sem:     semaphore.NewWeighted(int64(n)),
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
		log:     cfg.logger.WithField("workers", n),
		workers: n,
	}

	go p.dispatch(rx)

	if cfg.onMetrics != nil {
		go func() {
			ticker := time.NewTicker(cfg.metricsInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					if p.isClosed() {
						return
					}
					cfg.onMetrics(p.Stats())
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	return p
}

func (p *Pool) dispatch(rx *Receiver[func() error]) {
	defer close(p.done)
	defer rx.Close()

	for fn := range rx.All() {
		if err := p.sem.Acquire(p.ctx, 1); err != nil {
			p.dropped.Add(1)
			continue
		}
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			defer p.sem.Release(1)
			p.runTask(fn)
		}()
	}

	p.log.WithField("dropped", p.dropped.Load()).Debug("pool dispatcher stopped")
}

func (p *Pool) runTask(fn func() error) {
	p.inFlight.Add(1)
	defer func() {
		p.inFlight.Add(-1)
		p.completed.Add(1)
	}()

	var err error
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = newPanicError(r)
			}
		}()
		err = fn()
	}()
	if err == nil {
		return
	}

	p.errored.Add(1)
	var pe *PanicError
	if errors.As(err, &pe) {
		p.log.WithField("panic", pe.Value).Error("pool task panicked")
	} else {
		p.log.WithError(err).Warn("pool task failed")
	}

	p.errMu.Lock()
	p.errs = append(p.errs, err)
	p.errMu.Unlock()
}

func (p *Pool) isClosed() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.closed
}

// Stats returns a point-in-time snapshot of pool activity.
// Safe to call concurrently.
func (p *Pool) Stats() PoolStats {
	return PoolStats{
		Submitted:  p.submitted.Load(),
		Completed:  p.completed.Load(),
		Errored:    p.errored.Load(),
		Dropped:    p.dropped.Load(),
		InFlight:   p.inFlight.Load(),
		QueueDepth: p.tx.TotalQueuedItems(),
		Workers:    p.workers,
	}
}

// Submit queues fn for execution. It never blocks.
// Returns [ErrPoolClosed] if the pool has been closed, or the context
// error if the pool's context has ended.
func (p *Pool) Submit(fn func() error) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPoolClosed
	}
	if err := p.ctx.Err(); err != nil {
		return err
	}
	if err := p.tx.Send(fn); err != nil {
		return fmt.Errorf("%w: %w", ErrPoolClosed, err)
	}
	p.submitted.Add(1)
	return nil
}

// Close stops accepting new tasks, runs everything already queued, and
// waits for running tasks to finish. It returns the joined errors of all
// failed tasks, plus a context error if queued tasks were dropped.
// Safe to call multiple times; subsequent calls return the same result.
func (p *Pool) Close() error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		p.tx.Close()
	}
	p.mu.Unlock()

	<-p.done
	p.wg.Wait()

	var dropErr error
	if n := p.dropped.Load(); n > 0 {
		dropErr = fmt.Errorf("mpsc: %d queued tasks dropped: %w", n, p.ctx.Err())
		p.log.WithField("dropped", n).Warn("pool closed with dropped tasks")
	}
	p.cancel()

	p.errMu.Lock()
	defer p.errMu.Unlock()
	return errors.Join(append(p.errs[:len(p.errs):len(p.errs)], dropErr)...)
}
