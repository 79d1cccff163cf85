package chanx

import (
	"context"
	"sync"

	"github.com/baxromumarov/mpsc"
)

// Watchdog arms a guard that sends sentinel through a clone of tx once
// ctx is done, waking a Receiver blocked in Recv. The consumer recognises
// the sentinel and stops waiting. This is how a deadline is layered over
// Recv, which has none of its own.
//
// The clone counts as a live sender while armed, so the channel does not
// report [mpsc.ErrNoSenders] until the watchdog fires or is stopped.
// The returned stop function disarms the guard and releases the clone;
// it reports whether it prevented the sentinel from being sent.
//
// Watchdog panics if tx has been closed.
func Watchdog[T any](ctx context.Context, tx *mpsc.Sender[T], sentinel T) (stop func() bool) {
	guard := tx.Clone()
	var once sync.Once
	release := func() { once.Do(guard.Close) }

	stopAfter := context.AfterFunc(ctx, func() {
		_ = guard.Send(sentinel)
		release()
	})

	return func() bool {
		if stopAfter() {
			release()
			return true
		}
		return false
	}
}
