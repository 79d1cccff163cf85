package mpsc

import "errors"

var (
	// ErrNoReceivers is returned by [Sender.Send] when no [Receiver] is
	// alive. The value is not enqueued.
	ErrNoReceivers = errors.New("mpsc: no available receiver")

	// ErrNoSenders is returned by [Receiver.Recv] once the queue is
	// drained and every [Sender] has been closed. It is terminal: every
	// later Recv returns it too.
	ErrNoSenders = errors.New("mpsc: no available sender")

	// ErrPoisoned is returned when a panic unwound through a critical
	// section of the channel, leaving the queue in an unknown state.
	ErrPoisoned = errors.New("mpsc: lock poisoned")

	// ErrHandleClosed is returned when a [Sender] or [Receiver] is used
	// after its own Close.
	ErrHandleClosed = errors.New("mpsc: use of closed handle")
)
