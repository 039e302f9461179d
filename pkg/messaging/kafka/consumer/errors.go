package consumer

import (
	"errors"
	"fmt"
)

var (
	// ErrSkipMessage marks a message that should be acknowledged without processing.
	ErrSkipMessage = errors.New("skip message")

	// ErrPermanent marks a failure that retrying cannot fix. The message goes
	// straight to the DLQ.
	ErrPermanent = errors.New("permanent error")

	// ErrDLQDisabled is returned by the DLQ handler of a consumer without a DLQ.
	ErrDLQDisabled = errors.New("dlq disabled")

	// ErrNotDelivered means a failed message reached neither the handler nor
	// the DLQ. Its offset is not stored.
	ErrNotDelivered = errors.New("message not delivered")
)

// PanicError is a recovered handler panic.
type PanicError struct {
	Panic any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Panic)
}
