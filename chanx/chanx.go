package chanx

import (
	"context"

	"github.com/baxromumarov/mpsc"
)

// Forward sends every value received from in to tx until in is closed or
// ctx is canceled. It takes ownership of tx and closes it on return.
//
// Forward returns nil when in is closed, the context error on
// cancellation, or the Send error (typically [mpsc.ErrNoReceivers]) if
// the consumer went away.
func Forward[T any](ctx context.Context, in <-chan T, tx *mpsc.Sender[T]) error {
	defer tx.Close()
	for {
		select {
		case v, ok := <-in:
			if !ok {
				return nil
			}
			if err := tx.Send(v); err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// ToChan returns a channel that yields the values received from rx. The
// returned channel is closed once rx reports an error (normally
// [mpsc.ErrNoSenders]) or ctx is canceled. ToChan takes ownership of rx
// and closes it when its goroutine exits.
//
// Recv cannot be interrupted, so a goroutine parked on an empty channel
// notices cancellation only after the next value arrives or the last
// sender closes. Pair with [Watchdog] when that matters.
func ToChan[T any](ctx context.Context, rx *mpsc.Receiver[T]) <-chan T {
	out := make(chan T)
	go func() {
		defer close(out)
		defer rx.Close()
		for v := range rx.All() {
			select {
			case out <- v:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
