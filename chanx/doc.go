// Package chanx connects mpsc channels to the rest of a Go program.
//
// An [mpsc.Receiver] blocks on a condition variable, so it cannot take
// part in a select statement and has no built-in timeout. chanx provides
// the glue for those cases:
//
//   - [Forward]: copies a native channel into an [mpsc.Sender].
//   - [Merge]: fan-in of several native channels into one Receiver, one
//     Sender clone per input.
//   - [ToChan]: exposes a Receiver as a native channel for select.
//   - [SendBatch] and [RecvBatch]: move several values in one call.
//   - [Drain]: discards values until every sender is gone.
//   - [Watchdog]: wakes a blocked Receiver with a sentinel value when a
//     context ends, the way to layer deadlines over Recv.
//
// Functions that take a handle by pointer and document that they close it
// take ownership of that handle; callers must not close it themselves.
package chanx
