package chanx

import (
	"context"

	"github.com/baxromumarov/mpsc"
)

// Merge combines multiple input channels into a single Receiver (fan-in).
// Each input gets its own clone of the channel's Sender, so values from
// one input keep their relative order. The Receiver reports
// [mpsc.ErrNoSenders] once every input is closed or ctx is canceled.
//
// Every internal goroutine is tied to ctx and exits promptly on
// cancellation, or when the returned Receiver is closed and the next
// value fails to send.
func Merge[T any](ctx context.Context, chs ...<-chan T) *mpsc.Receiver[T] {
	tx, rx := mpsc.Unbounded[T]()
	defer tx.Close()

	for _, ch := range chs {
		go func(tx *mpsc.Sender[T]) {
			_ = Forward(ctx, ch, tx)
		}(tx.Clone())
	}
	return rx
}
