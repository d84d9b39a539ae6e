// File: reactor/reactor.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Single-threaded reactor: owns the platform poller, the handle registry,
// the timer heap, and the deferred-finalizer queue. All methods must be
// called from the goroutine that drives Run.

package reactor

import (
	"container/heap"
	"fmt"
	"time"

	"github.com/eapache/queue"
	"github.com/rs/zerolog"

	"github.com/momentics/evloop/api"
)

// RunMode selects how Run iterates.
type RunMode int

const (
	// RunDefault runs until Stop is requested or no active handles remain.
	RunDefault RunMode = iota
	// RunOnce performs at most a single wait-and-dispatch iteration.
	RunOnce
)

const defaultBatchSize = 128

// Reactor multiplexes poll and timer handles over one platform poller.
type Reactor struct {
	poller  Poller
	log     zerolog.Logger
	handles map[Handle]struct{}
	polls   map[int]*PollHandle
	timers  timerHeap
	closing *queue.Queue // closeReq FIFO, drained once per turn
	buf     []PollerEvent
	active  int
	pending int
	stopped bool
	closed  bool
}

// Option customizes reactor construction.
type Option func(*Reactor)

// WithLogger attaches a diagnostic logger. Logging never affects behavior.
func WithLogger(log zerolog.Logger) Option {
	return func(r *Reactor) { r.log = log }
}

// WithPoller injects a readiness backend, replacing the platform default.
func WithPoller(p Poller) Option {
	return func(r *Reactor) { r.poller = p }
}

// WithBatchSize overrides the per-wait event batch size.
func WithBatchSize(n int) Option {
	return func(r *Reactor) {
		if n > 0 {
			r.buf = make([]PollerEvent, n)
		}
	}
}

// New constructs a reactor with the platform default poller unless one is
// injected via WithPoller.
func New(opts ...Option) (*Reactor, error) {
	r := &Reactor{
		log:     zerolog.Nop(),
		handles: make(map[Handle]struct{}),
		polls:   make(map[int]*PollHandle),
		closing: queue.New(),
		buf:     make([]PollerEvent, defaultBatchSize),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.poller == nil {
		p, err := newDefaultPoller()
		if err != nil {
			return nil, err
		}
		r.poller = p
	}
	return r, nil
}

// Impl names the readiness backend in use.
func (r *Reactor) Impl() string { return r.poller.Name() }

// Alive counts handles that keep Run from returning: active ones plus
// closed ones whose finalizer has not run yet.
func (r *Reactor) Alive() int { return r.active + r.pending }

// Stop asks the current or next Run call to return.
func (r *Reactor) Stop() { r.stopped = true }

// Walk visits every known handle, including not-yet-finalized ones. The
// callback may close handles; it must not start new ones.
func (r *Reactor) Walk(fn func(Handle)) {
	snapshot := make([]Handle, 0, len(r.handles))
	for h := range r.handles {
		snapshot = append(snapshot, h)
	}
	for _, h := range snapshot {
		fn(h)
	}
}

// Close releases the poller. It fails with api.ErrBusy while any handle is
// still active or awaiting finalization; drain with Run(RunOnce) and retry.
func (r *Reactor) Close() error {
	if r.closed {
		return nil
	}
	if r.Alive() > 0 {
		r.log.Debug().Int("alive", r.Alive()).Msg("reactor close: busy")
		return api.ErrBusy
	}
	r.closed = true
	for h := range r.handles {
		delete(r.handles, h)
	}
	return r.poller.Close()
}

// Run drives the wait-and-dispatch cycle. It returns the number of handles
// still alive, which is zero after a natural (all handles gone) return.
func (r *Reactor) Run(mode RunMode) (int, error) {
	if r.closed {
		return 0, api.ErrReactorClosed
	}
	for {
		r.finalizeClosing()
		if r.Alive() == 0 || r.stopped {
			break
		}
		n, err := r.poller.Wait(r.buf, r.nextTimeout())
		if err != nil {
			r.stopped = false
			return r.Alive(), fmt.Errorf("reactor wait: %w", err)
		}
		r.runDueTimers()
		r.dispatchPolls(n)
		r.finalizeClosing()
		if mode == RunOnce {
			break
		}
	}
	r.stopped = false
	return r.Alive(), nil
}

// nextTimeout derives the poller wait budget from the timer heap. No armed
// timers means the poller may block indefinitely.
func (r *Reactor) nextTimeout() time.Duration {
	if r.timers.Len() > 0 {
		d := time.Until(r.timers[0].deadline)
		if d < 0 {
			d = 0
		}
		return d
	}
	return -1
}

func (r *Reactor) runDueTimers() {
	now := time.Now()
	for r.timers.Len() > 0 && !r.timers[0].deadline.After(now) {
		h := heap.Pop(&r.timers).(*TimerHandle)
		h.started = false
		r.active--
		if h.cb != nil {
			h.cb(h)
		}
	}
}

func (r *Reactor) dispatchPolls(n int) {
	for i := 0; i < n; i++ {
		ev := r.buf[i]
		h, ok := r.polls[ev.Fd]
		// A callback earlier in the batch may have stopped or closed this
		// handle; dispatch to it must become a no-op.
		if !ok || !h.started || h.cb == nil {
			continue
		}
		h.cb(h, ev.Status, ev.Events)
	}
}

// parkClosing queues a detached handle for finalization on the next turn.
// On a closed reactor the finalizer runs immediately: there are no further
// turns and no in-flight dispatch to wait out.
func (r *Reactor) parkClosing(h Handle, fin func()) {
	if r.closed {
		delete(r.handles, h)
		if fin != nil {
			fin()
		}
		return
	}
	r.pending++
	r.closing.Add(closeReq{h: h, fin: fin})
}

func (r *Reactor) finalizeClosing() {
	for r.closing.Length() > 0 {
		req := r.closing.Remove().(closeReq)
		delete(r.handles, req.h)
		r.pending--
		if req.fin != nil {
			req.fin()
		}
	}
}
