// Package mpsc provides an unbounded, in-process, multi-producer
// single-consumer channel.
//
// Unlike a native Go channel, an mpsc channel never blocks senders, keeps
// count of its live handles, and tells each side when the other is gone:
// sends fail once the receiver is closed, and receives fail (instead of
// hanging) once every sender is closed and the queue is drained.
//
// # Channels
//
// [Unbounded] returns the first [Sender] and the only [Receiver]:
//
//	tx, rx := mpsc.Unbounded[Job]()
//	defer rx.Close()
//
//	for range workers {
//	    s := tx.Clone()
//	    go func() {
//	        defer s.Close()
//	        _ = s.Send(Job{})
//	    }()
//	}
//	tx.Close()
//
//	for job := range rx.All() {
//	    handle(job)
//	}
//
// Every handle must be closed exactly once; extra Close calls are no-ops.
// [Sender.Clone] adds a sender. The channel reports [ErrNoSenders] after
// the last Sender closes and every queued value has been received, and
// [ErrNoReceivers] to every Send after the Receiver closes.
//
// # Ordering
//
// Values are delivered in the order their sends acquired the queue lock,
// a single total order across all senders. Values from one goroutine
// therefore arrive in the order it sent them.
//
// # Receiver Cache
//
// When Recv finds more than one value queued, it takes one and moves the
// rest into a cache private to the Receiver with a single swap. Later
// calls are served from the cache without locking. The cache never
// changes order; it only means [Sender.TotalQueuedItems] counts the
// shared queue alone.
//
// # Blocking and Timeouts
//
// [Receiver.Recv] blocks on a condition variable while the channel is
// empty and a sender is alive. It has no timeout or cancellation of its
// own. Use chanx.Watchdog to deliver a sentinel when a context ends, or
// chanx.ToChan to take part in a select.
//
// # Worker Pool
//
// [Pool] uses one channel as an unbounded work queue. [Pool.Submit] never
// blocks, a dispatcher runs at most n tasks at once, and [Pool.Close]
// drains the queue and joins task errors. Panicking tasks are reported as
// [*PanicError].
//
// # Subpackages
//
// [github.com/baxromumarov/mpsc/chanx] bridges channels to native Go
// channels and contexts. [github.com/baxromumarov/mpsc/mpscprom] exports
// queue depth and pool statistics to Prometheus.
package mpsc
