// File: reactor/handle.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Poll and timer handles. A handle is exclusively owned by whoever created
// it, carries an opaque back-reference (Data) to its owner, and is released
// asynchronously: Close detaches immediately but the finalizer runs on the
// next reactor turn, after any in-flight dispatch has drained.

package reactor

import (
	"container/heap"
	"fmt"
	"time"

	"github.com/momentics/evloop/api"
)

// HandleKind discriminates the concrete handle types seen through Walk.
type HandleKind uint8

const (
	// HandlePoll is an fd readiness handle.
	HandlePoll HandleKind = iota + 1
	// HandleTimer is a one-shot timer handle.
	HandleTimer
)

// Handle is the capability every reactor handle exposes.
type Handle interface {
	Kind() HandleKind
	Data() any
	SetData(data any)
	// Active reports whether the handle is started and keeps Run alive.
	Active() bool
	// Close detaches the handle immediately and schedules the finalizer
	// for the next reactor turn. Idempotent.
	Close(finalizer func())
}

type closeReq struct {
	h   Handle
	fin func()
}

type handleBase struct {
	r       *Reactor
	data    any
	started bool
	closing bool
}

func (h *handleBase) Data() any        { return h.data }
func (h *handleBase) SetData(data any) { h.data = data }
func (h *handleBase) Active() bool     { return h.started }

// PollCallback is invoked on fd readiness. status is zero for ordinary
// readiness and negative when the poll itself failed.
type PollCallback func(h *PollHandle, status int, events PollEvents)

// PollHandle watches one file descriptor.
type PollHandle struct {
	handleBase
	fd int
	cb PollCallback
}

// NewPoll initializes a poll handle for fd. The handle is registered with
// the reactor but inactive until Start.
func (r *Reactor) NewPoll(fd int) (*PollHandle, error) {
	if r.closed {
		return nil, api.ErrReactorClosed
	}
	if fd < 0 {
		return nil, api.ErrInvalidArgument
	}
	h := &PollHandle{handleBase: handleBase{r: r}, fd: fd}
	r.handles[h] = struct{}{}
	return h, nil
}

func (h *PollHandle) Kind() HandleKind { return HandlePoll }

// Fd returns the watched descriptor.
func (h *PollHandle) Fd() int { return h.fd }

// Start registers the descriptor with the poller for the given interest.
func (h *PollHandle) Start(events PollEvents, cb PollCallback) error {
	if h.closing || h.r == nil || h.r.closed {
		return api.ErrHandleClosed
	}
	if h.started {
		return api.ErrAlreadyStarted
	}
	if _, dup := h.r.polls[h.fd]; dup {
		return fmt.Errorf("fd %d: %w", h.fd, api.ErrBusy)
	}
	if err := h.r.poller.Add(h.fd, events); err != nil {
		return fmt.Errorf("poll start fd %d: %w", h.fd, err)
	}
	h.cb = cb
	h.r.polls[h.fd] = h
	h.started = true
	h.r.active++
	return nil
}

// Stop deregisters the descriptor. No callback fires after Stop returns.
func (h *PollHandle) Stop() error {
	if !h.started {
		return nil
	}
	h.started = false
	delete(h.r.polls, h.fd)
	h.r.active--
	if err := h.r.poller.Del(h.fd); err != nil {
		return fmt.Errorf("poll stop fd %d: %w", h.fd, err)
	}
	return nil
}

func (h *PollHandle) Close(finalizer func()) {
	if h.closing {
		return
	}
	_ = h.Stop()
	h.closing = true
	h.r.parkClosing(h, finalizer)
}

// TimerCallback is invoked when a timer handle fires. The handle is already
// inactive at that point; restart it for periodic behavior.
type TimerCallback func(h *TimerHandle)

// TimerHandle fires once at a deadline maintained on the reactor's
// monotonic timer heap. The heap decides how long the poller may block.
type TimerHandle struct {
	handleBase
	deadline  time.Time
	heapIndex int
	cb        TimerCallback
}

// NewTimer initializes an unarmed timer handle.
func (r *Reactor) NewTimer() (*TimerHandle, error) {
	if r.closed {
		return nil, api.ErrReactorClosed
	}
	h := &TimerHandle{handleBase: handleBase{r: r}, heapIndex: -1}
	r.handles[h] = struct{}{}
	return h, nil
}

func (h *TimerHandle) Kind() HandleKind { return HandleTimer }

// Deadline returns the instant the timer is armed for.
func (h *TimerHandle) Deadline() time.Time { return h.deadline }

// Start arms the timer to fire once after timeout. Restarting an armed
// timer re-derives the deadline; a negative timeout is clamped to zero.
func (h *TimerHandle) Start(cb TimerCallback, timeout time.Duration) error {
	if h.closing || h.r == nil || h.r.closed {
		return api.ErrHandleClosed
	}
	if timeout < 0 {
		timeout = 0
	}
	if h.started {
		h.r.timers.remove(h)
		h.r.active--
	}
	h.cb = cb
	h.deadline = time.Now().Add(timeout)
	heap.Push(&h.r.timers, h)
	h.started = true
	h.r.active++
	return nil
}

// Stop disarms the timer.
func (h *TimerHandle) Stop() error {
	if !h.started {
		return nil
	}
	h.started = false
	h.r.timers.remove(h)
	h.r.active--
	return nil
}

func (h *TimerHandle) Close(finalizer func()) {
	if h.closing {
		return
	}
	_ = h.Stop()
	h.closing = true
	h.r.parkClosing(h, finalizer)
}
