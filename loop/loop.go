// File: loop/loop.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package loop

import (
	"github.com/rs/zerolog"

	"github.com/momentics/evloop/api"
	"github.com/momentics/evloop/internal/trackable"
	"github.com/momentics/evloop/reactor"
)

// reactorHandle owns the native reactor on behalf of one EventLoop.
// Sources hold trackable references to it instead of to the loop itself,
// so the loop can be torn down while sources are still outstanding.
type reactorHandle struct {
	r     *reactor.Reactor
	log   zerolog.Logger
	track trackable.Object[reactorHandle]
	err   error
}

// destroy force-detaches every native handle still outstanding, then
// drains the reactor until close stops reporting busy.
func (h *reactorHandle) destroy() {
	h.r.Walk(func(nh reactor.Handle) {
		if owner, ok := nh.Data().(interface{ cleanup() }); ok {
			owner.cleanup()
		}
	})
	err := h.r.Close()
	h.log.Debug().Err(err).Msg("reactor close")
	if err == nil {
		return
	}
	for {
		n, runErr := h.r.Run(reactor.RunOnce)
		if n == 0 || runErr != nil {
			break
		}
	}
	err = h.r.Close()
	h.log.Debug().Err(err).Msg("reactor close retry")
}

// EventLoop owns one reactor and is the factory for every source kind.
// The zero value is not usable; construct with New.
type EventLoop struct {
	h          *reactorHandle
	exitEvents []trackable.Ref[exitSource]
}

// New constructs an event loop backed by the platform reactor.
func New(opts ...Option) (*EventLoop, error) {
	var cfg config
	cfg.log = zerolog.Nop()
	for _, opt := range opts {
		opt(&cfg)
	}
	ropts := []reactor.Option{reactor.WithLogger(cfg.log)}
	if cfg.batch > 0 {
		ropts = append(ropts, reactor.WithBatchSize(cfg.batch))
	}
	if cfg.poller != nil {
		ropts = append(ropts, reactor.WithPoller(cfg.poller))
	}
	r, err := reactor.New(ropts...)
	if err != nil {
		return nil, err
	}
	return &EventLoop{h: &reactorHandle{r: r, log: cfg.log}}, nil
}

// Impl names the underlying reactor backend.
func (l *EventLoop) Impl() string {
	if l.h == nil {
		return ""
	}
	return l.h.r.Impl()
}

// NativeHandle exposes the underlying reactor for interop and diagnostics.
func (l *EventLoop) NativeHandle() *reactor.Reactor {
	if l.h == nil {
		return nil
	}
	return l.h.r
}

// Run drives the reactor until Stop is requested or no active sources
// remain, then dispatches exit sources in registration order. An error
// returned by any source callback stops the loop and is returned here;
// the first error wins.
func (l *EventLoop) Run() error {
	h := l.h
	if h == nil {
		return api.ErrLoopClosed
	}
	_, runErr := h.r.Run(reactor.RunDefault)
	l.dispatchExit(h)
	if runErr != nil {
		return runErr
	}
	err := h.err
	h.err = nil
	return err
}

// dispatchExit walks the exit registry once. Oneshot sources are disabled
// immediately before their callback; entries whose target was destroyed
// are skipped and pruned lazily, never eagerly. Sources registered during
// the walk wait for the next Run.
func (l *EventLoop) dispatchExit(h *reactorHandle) {
	n := len(l.exitEvents)
	for i := 0; i < n && i < len(l.exitEvents); i++ {
		src := l.exitEvents[i].Get()
		if src == nil || !src.IsEnabled() {
			continue
		}
		if src.IsOneShot() {
			_ = src.SetEnabled(false)
		}
		if err := src.cb(src); err != nil && h.err == nil {
			h.err = err
		}
	}
	kept := l.exitEvents[:0]
	for _, ref := range l.exitEvents {
		if ref.IsValid() {
			kept = append(kept, ref)
		}
	}
	l.exitEvents = kept
}

// Stop asks the reactor to return from its current or next Run call. Exit
// sources fire on the Run return path, not here.
func (l *EventLoop) Stop() {
	if l.h != nil {
		l.h.r.Stop()
	}
}

// Close destroys the loop. Sources still held by the caller become safe
// no-op orphans: their loop reference is invalidated first, and any native
// handles they left behind are force-detached and drained. Idempotent.
func (l *EventLoop) Close() {
	if l.h == nil {
		return
	}
	h := l.h
	l.h = nil
	l.exitEvents = nil
	h.track.Invalidate()
	h.destroy()
}
