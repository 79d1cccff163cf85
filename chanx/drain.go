package chanx

import "github.com/baxromumarov/mpsc"

// Drain receives and discards values from rx until Recv fails, and
// returns how many values were discarded. Use it during shutdown to
// consume whatever producers still had queued.
func Drain[T any](rx *mpsc.Receiver[T]) int {
	n := 0
	for range rx.All() {
		n++
	}
	return n
}
