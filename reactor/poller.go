// File: reactor/poller.go
// Author: momentics <momentics@gmail.com>
//
// Platform-neutral poller contract for fd readiness multiplexing.

package reactor

import "time"

// PollEvents is the reactor-native readiness bit set. The loop layer
// translates these to the public api.IOEventFlags vocabulary.
type PollEvents uint32

const (
	// PollReadable indicates read readiness.
	PollReadable PollEvents = 1 << iota
	// PollWritable indicates write readiness.
	PollWritable
	// PollDisconnect indicates peer hangup.
	PollDisconnect
)

// PollerEvent is one readiness notification produced by a Poller.
type PollerEvent struct {
	Fd     int
	Events PollEvents
	Status int // negative errno-style value when the poll itself failed
}

// Poller abstracts the OS readiness mechanism (epoll, kqueue, a test fake).
type Poller interface {
	// Name identifies the backend, e.g. "epoll".
	Name() string

	// Add registers fd for the given readiness interest.
	Add(fd int, events PollEvents) error

	// Del removes fd from the watch set.
	Del(fd int) error

	// Wait blocks for up to timeout (negative means block indefinitely)
	// and fills events. A zero count without error is a valid wakeup.
	Wait(events []PollerEvent, timeout time.Duration) (int, error)

	// Close releases the backend.
	Close() error
}
