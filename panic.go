package mpsc

import (
	"fmt"
	"runtime/debug"
)

// PanicError carries a value recovered from a panicking [Pool] task and
// the stack of the goroutine that panicked. Pools report it from
// [Pool.Close] like any other task error.
type PanicError struct {
	// Value is what the task passed to panic.
	Value any

	// Stack is the stack trace captured inside the deferred recover.
	Stack string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v\n\n%s", e.Value, e.Stack)
}

func newPanicError(v any) *PanicError {
	return &PanicError{Value: v, Stack: string(debug.Stack())}
}
