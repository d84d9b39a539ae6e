// File: api/events.go
// Package api defines core event-source types for evloop.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

// IOEventFlags is the portable readiness vocabulary. User callbacks only
// ever see these values, never reactor-native bits.
type IOEventFlags uint32

const (
	// IOEventIn indicates the descriptor is readable.
	IOEventIn IOEventFlags = 1 << iota
	// IOEventOut indicates the descriptor is writable.
	IOEventOut
	// IOEventHup indicates the peer hung up.
	IOEventHup
	// IOEventErr is synthesized when the reactor reports a failed poll.
	IOEventErr
)

// ClockID selects the clock a time event is expressed in.
type ClockID int32

const (
	// ClockMonotonic is a clock unaffected by wall-time adjustments.
	ClockMonotonic ClockID = iota
	// ClockRealtime is the wall clock.
	ClockRealtime
)

// IOCallback receives the observed descriptor and translated readiness
// flags. Returning a non-nil error stops the loop and surfaces the error
// from EventLoop.Run.
type IOCallback func(source EventSourceIO, fd int, revents IOEventFlags) error

// TimeCallback receives the deadline (microseconds on the source's clock)
// the source was armed for.
type TimeCallback func(source EventSourceTime, usec uint64) error

// EventCallback is the shape shared by exit and deferred sources.
type EventCallback func(source EventSource) error

// EventSource is the capability common to every source kind. A source is
// uniquely owned by its creator; Destroy tears down any native
// registration and makes all further method calls safe no-ops.
type EventSource interface {
	IsEnabled() bool
	SetEnabled(enabled bool) error
	IsOneShot() bool
	SetOneShot() error
	Destroy()
}

// EventSourceIO observes a file descriptor for readiness.
type EventSourceIO interface {
	EventSource

	Fd() int
	SetFd(fd int) error
	Events() IOEventFlags
	SetEvents(flags IOEventFlags) error
	// Revents returns the flags observed during the most recent dispatch.
	Revents() IOEventFlags
}

// EventSourceTime fires once at an absolute deadline, expressed in
// microseconds on the selected clock. Repeating behavior is built by
// re-enabling the source from its own callback.
type EventSourceTime interface {
	EventSource

	Time() uint64
	SetTime(usec uint64) error
	Accuracy() uint64
	SetAccuracy(usec uint64)
	Clock() ClockID
	SetClock(clock ClockID) error
}
