// File: loop/io.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package loop

import (
	"github.com/momentics/evloop/api"
	"github.com/momentics/evloop/reactor"
)

// ioSource binds a file descriptor and an interest mask to a readiness
// callback.
type ioSource struct {
	sourceBase
	fd      int
	flags   api.IOEventFlags
	revents api.IOEventFlags
	cb      api.IOCallback
}

// AddIOEvent registers interest in fd readiness. The returned source
// starts enabled; creation fails if the descriptor cannot be registered
// with the reactor.
func (l *EventLoop) AddIOEvent(fd int, flags api.IOEventFlags, callback api.IOCallback) (api.EventSourceIO, error) {
	if l.h == nil {
		return nil, api.ErrLoopClosed
	}
	src := &ioSource{fd: fd, flags: flags, cb: callback}
	src.loop = l.h.track.Watch(l.h)
	src.attach = src.attachPoll
	if err := src.SetEnabled(true); err != nil {
		src.Destroy()
		return nil, err
	}
	return src, nil
}

func (s *ioSource) attachPoll(r *reactor.Reactor) (reactor.Handle, error) {
	h, err := r.NewPoll(s.fd)
	if err != nil {
		return nil, err
	}
	h.SetData(s)
	if err := h.Start(ioFlagsToPollEvents(s.flags), ioTrampoline); err != nil {
		h.Close(nil)
		return nil, err
	}
	return h, nil
}

// ioTrampoline translates native readiness into the public callback shape.
// A oneshot source is disabled before its callback runs, so the callback
// observes the post-dispatch enable state.
func ioTrampoline(h *reactor.PollHandle, status int, events reactor.PollEvents) {
	src, _ := h.Data().(*ioSource)
	if src == nil {
		return
	}
	if src.IsOneShot() {
		_ = src.SetEnabled(false)
	}
	flags := pollEventsToIOFlags(events)
	if status < 0 {
		flags |= api.IOEventErr
	}
	src.revents = flags
	if err := src.cb(src, src.fd, flags); err != nil {
		src.fail(err)
	}
}

func (s *ioSource) Fd() int { return s.fd }

func (s *ioSource) SetFd(fd int) error {
	if s.fd == fd {
		return nil
	}
	s.fd = fd
	return s.resetEvent()
}

func (s *ioSource) Events() api.IOEventFlags { return s.flags }

func (s *ioSource) SetEvents(flags api.IOEventFlags) error {
	if s.flags == flags {
		return nil
	}
	s.flags = flags
	return s.resetEvent()
}

func (s *ioSource) Revents() api.IOEventFlags { return s.revents }

func (s *ioSource) Destroy() { s.destroy() }
