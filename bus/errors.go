package bus

import (
	"errors"
	"fmt"
)

// Sentinel failures of the broadcast channel. Both are "should never
// happen" conditions in a correctly coordinated shutdown: senders and
// receivers are only torn down cooperatively, so observing either one
// means a lifecycle bug elsewhere. Callers must treat them as fatal and
// let them end the thread, never retry or swallow them.
var (
	// ErrDisconnected means every counterpart endpoint is gone: all
	// receivers unsubscribed (on send) or all senders closed (on poll).
	ErrDisconnected = errors.New("broadcast channel disconnected")

	// ErrQueueFull means a receiver's bounded buffer overflowed on send.
	// Capacity is configured generously, so a full queue implies a
	// consumer that is stuck or died without unsubscribing.
	ErrQueueFull = errors.New("broadcast queue full")
)

// DeliveryError wraps a sentinel failure with the operation and, for
// sends, the offending message rendered for inspection.
type DeliveryError struct {
	Op  string  // "send" or "poll"
	Msg Message // the message being sent; nil for poll failures
	Err error   // ErrDisconnected or ErrQueueFull
}

// Error implements the error interface.
func (e *DeliveryError) Error() string {
	if e.Msg != nil {
		return fmt.Sprintf("%s %q: %v", e.Op, e.Msg.String(), e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap exposes the sentinel for errors.Is.
func (e *DeliveryError) Unwrap() error { return e.Err }
