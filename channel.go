package mpsc

import (
	"iter"
	"sync"
	"sync/atomic"

	"github.com/gammazero/deque"
)

// shared is the state jointly owned by every handle of one channel.
//
// queue, poisoned and the condition are guarded by mu. The counters are
// only touched through atomic operations and never under mu.
type shared[T any] struct {
	mu        sync.Mutex
	available sync.Cond
	queue     deque.Deque[T]
	poisoned  bool

	senders   atomic.Int64
	receivers atomic.Int64
}

func newShared[T any]() *shared[T] {
	s := &shared[T]{}
	s.available.L = &s.mu
	s.senders.Store(1)
	s.receivers.Store(1)
	return s
}

// locked runs fn while holding mu. If fn panics the state is marked
// poisoned, any waiter is woken to observe it, and the panic continues.
func (s *shared[T]) locked(fn func() error) error {
	s.mu.Lock()
	if s.poisoned {
		s.mu.Unlock()
		return ErrPoisoned
	}
	completed := false
	defer func() {
		if !completed {
			s.poisoned = true
			s.available.Broadcast()
		}
		s.mu.Unlock()
	}()
	err := fn()
	completed = true
	return err
}

func (s *shared[T]) queued() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Len()
}

// Sender is the producer side of a channel created by [Unbounded].
//
// Send may be called from several goroutines at once. Close must not
// race with Send on the same handle; give each goroutine its own handle
// via [Sender.Clone] instead.
type Sender[T any] struct {
	shared *shared[T]
	closed atomic.Bool
}

// Send appends v to the channel. It never blocks beyond the brief hold
// of the queue lock.
//
// Send returns [ErrNoReceivers] if the receiver has already been closed
// when the call starts. A receiver that closes concurrently with Send may
// miss the value; such values are dropped without error.
func (s *Sender[T]) Send(v T) error {
	if s.closed.Load() {
		return ErrHandleClosed
	}
	if s.shared.receivers.Load() == 0 {
		return ErrNoReceivers
	}

	var wasEmpty bool
	err := s.shared.locked(func() error {
		wasEmpty = s.shared.queue.Len() == 0
		s.shared.queue.PushBack(v)
		return nil
	})
	if err != nil {
		return err
	}

	// Only an empty queue can have a receiver parked on it.
	if wasEmpty {
		s.shared.available.Signal()
	}
	return nil
}

// Clone returns a new Sender for the same channel, incrementing the live
// sender count. Each clone must be closed independently.
//
// Clone panics if s has been closed.
func (s *Sender[T]) Clone() *Sender[T] {
	if s.closed.Load() {
		panic("mpsc: Clone on closed Sender")
	}
	s.shared.senders.Add(1)
	return &Sender[T]{shared: s.shared}
}

// Close releases the handle. Only the first call has an effect. When the
// last Sender of a channel is closed, a receiver blocked in Recv is woken
// so it can report [ErrNoSenders].
func (s *Sender[T]) Close() {
	if !s.closed.CompareAndSwap(false, true) {
		return
	}
	if s.shared.senders.Add(-1) != 0 {
		return
	}
	// The receiver checks the count and parks while holding mu, so taking
	// mu here orders the decrement before its check or after its park.
	s.shared.mu.Lock()
	s.shared.mu.Unlock()
	s.shared.available.Signal()
}

// TotalReceivers reports how many receivers are alive (0 or 1).
func (s *Sender[T]) TotalReceivers() int {
	return int(s.shared.receivers.Load())
}

// TotalQueuedItems reports the length of the shared queue. Values the
// receiver has already moved into its private cache are not counted.
func (s *Sender[T]) TotalQueuedItems() int {
	return s.shared.queued()
}

// Receiver is the single consumer side of a channel created by
// [Unbounded]. It cannot be cloned, and Recv must not be called from
// more than one goroutine at a time.
type Receiver[T any] struct {
	shared *shared[T]

	// cache holds values taken from the shared queue in one batch. Only
	// the goroutine calling Recv touches it.
	cache deque.Deque[T]

	busy   atomic.Bool
	closed atomic.Bool
}

// Recv returns the next value in FIFO order, blocking while the channel
// is empty and at least one [Sender] is alive.
//
// Recv returns [ErrNoSenders] once every Sender has been closed and all
// values have been delivered. There is no timeout; see chanx.Watchdog
// for layering one on top.
//
// Recv panics if called concurrently on the same Receiver.
func (r *Receiver[T]) Recv() (T, error) {
	if !r.busy.CompareAndSwap(false, true) {
		panic("mpsc: concurrent Recv on Receiver")
	}
	defer r.busy.Store(false)

	var v T
	if r.closed.Load() {
		return v, ErrHandleClosed
	}
	if r.cache.Len() > 0 {
		return r.cache.PopFront(), nil
	}

	err := r.shared.locked(func() error {
		q := &r.shared.queue
		for {
			if r.shared.poisoned {
				return ErrPoisoned
			}
			if q.Len() > 0 {
				v = q.PopFront()
				if q.Len() > 0 {
					// Take the remainder in one swap so the next calls
					// skip the lock. The old cache is empty here.
					r.cache, *q = *q, r.cache
				}
				return nil
			}
			if r.shared.senders.Load() == 0 {
				return ErrNoSenders
			}
			// Wakeups may be spurious; the loop re-checks everything.
			r.shared.available.Wait()
		}
	})
	return v, err
}

// All returns a single-use iterator over successive Recv results. It
// stops at the first error, which is not reported; use Recv directly
// when the cause matters.
func (r *Receiver[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			v, err := r.Recv()
			if err != nil || !yield(v) {
				return
			}
		}
	}
}

// Close releases the receiver. Only the first call has an effect. Every
// later Send on the channel fails with [ErrNoReceivers], and values still
// buffered are discarded. Close must not run concurrently with Recv.
func (r *Receiver[T]) Close() {
	if !r.closed.CompareAndSwap(false, true) {
		return
	}
	r.shared.receivers.Add(-1)
	r.cache.Clear()

	r.shared.mu.Lock()
	r.shared.queue.Clear()
	r.shared.mu.Unlock()
}

// TotalSenders reports how many senders are alive.
func (r *Receiver[T]) TotalSenders() int {
	return int(r.shared.senders.Load())
}

// TotalQueuedItems reports the length of the shared queue, excluding the
// receiver's private cache. It is safe to call from any goroutine.
func (r *Receiver[T]) TotalQueuedItems() int {
	return r.shared.queued()
}

// Unbounded creates a channel and returns its only Receiver and its first
// Sender. Further senders come from [Sender.Clone].
func Unbounded[T any]() (*Sender[T], *Receiver[T]) {
	s := newShared[T]()
	return &Sender[T]{shared: s}, &Receiver[T]{shared: s}
}
