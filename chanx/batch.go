package chanx

import (
	"errors"

	"github.com/baxromumarov/mpsc"
)

// SendBatch sends each value in values to tx, stopping on the first
// error. It returns nil if all values were sent.
func SendBatch[T any](tx *mpsc.Sender[T], values []T) error {
	for _, v := range values {
		if err := tx.Send(v); err != nil {
			return err
		}
	}
	return nil
}

// RecvBatch receives up to n values from rx, blocking until n values
// arrive or the channel closes. If every sender is gone before n values
// are received, it returns the values received so far with a nil error;
// an empty result then means the channel is exhausted. Any other Recv
// error is returned together with the partial batch.
//
// RecvBatch panics if n is not positive.
func RecvBatch[T any](rx *mpsc.Receiver[T], n int) ([]T, error) {
	if n <= 0 {
		panic("chanx: RecvBatch requires n > 0")
	}
	result := make([]T, 0, n)
	for len(result) < n {
		v, err := rx.Recv()
		if errors.Is(err, mpsc.ErrNoSenders) {
			return result, nil
		}
		if err != nil {
			return result, err
		}
		result = append(result, v)
	}
	return result, nil
}
