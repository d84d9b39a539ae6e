// File: loop/time.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package loop

import (
	"time"

	"github.com/momentics/evloop/api"
	"github.com/momentics/evloop/internal/trackable"
	"github.com/momentics/evloop/reactor"
)

// timeSource binds an absolute deadline, a clock choice and a tolerance
// window to a one-shot callback. Repeating timers are built by leaving the
// source enabled from inside the callback; the trampoline then re-derives
// the offset from the (possibly updated) deadline.
type timeSource struct {
	sourceBase
	track    trackable.Object[timeSource]
	time     uint64
	clock    api.ClockID
	accuracy uint64
	cb       api.TimeCallback
}

// AddTimeEvent schedules a callback at an absolute deadline, expressed in
// microseconds on the chosen clock. The source starts oneshot.
func (l *EventLoop) AddTimeEvent(clock api.ClockID, usec uint64, accuracy uint64, callback api.TimeCallback) (api.EventSourceTime, error) {
	if l.h == nil {
		return nil, api.ErrLoopClosed
	}
	src := &timeSource{time: usec, clock: clock, accuracy: accuracy, cb: callback}
	src.loop = l.h.track.Watch(l.h)
	src.attach = src.attachTimer
	if err := src.SetOneShot(); err != nil {
		src.Destroy()
		return nil, err
	}
	return src, nil
}

// AddDeferEvent schedules a run-once-soon callback: a zero-offset oneshot
// timer on the monotonic clock.
func (l *EventLoop) AddDeferEvent(callback api.EventCallback) (api.EventSource, error) {
	src, err := l.AddTimeEvent(api.ClockMonotonic, 0, 0,
		func(source api.EventSourceTime, _ uint64) error {
			return callback(source)
		})
	if err != nil {
		return nil, err
	}
	return src, nil
}

func (s *timeSource) attachTimer(r *reactor.Reactor) (reactor.Handle, error) {
	h, err := r.NewTimer()
	if err != nil {
		return nil, err
	}
	h.SetData(s)
	curr := api.ClockNow(s.clock)
	var offset uint64
	if s.time > curr {
		offset = s.time - curr
	}
	if err := h.Start(timeTrampoline, time.Duration(offset)*time.Microsecond); err != nil {
		h.Close(nil)
		return nil, err
	}
	return h, nil
}

// timeTrampoline watches the source across its own callback: the callback
// may destroy the source, in which case the re-arm step must not touch it.
func timeTrampoline(h *reactor.TimerHandle) {
	src, _ := h.Data().(*timeSource)
	if src == nil {
		return
	}
	ref := src.track.Watch(src)
	if src.IsOneShot() {
		_ = src.SetEnabled(false)
	}
	err := src.cb(src, src.time)
	if !ref.IsValid() {
		return
	}
	if err != nil {
		src.fail(err)
		return
	}
	if src.IsEnabled() {
		if rerr := src.resetEvent(); rerr != nil {
			src.fail(rerr)
		}
	}
}

func (s *timeSource) Time() uint64 { return s.time }

func (s *timeSource) SetTime(usec uint64) error {
	s.time = usec
	return s.resetEvent()
}

func (s *timeSource) Accuracy() uint64 { return s.accuracy }

// SetAccuracy records the tolerance window. It is advisory and does not
// force re-registration.
func (s *timeSource) SetAccuracy(usec uint64) { s.accuracy = usec }

func (s *timeSource) Clock() api.ClockID { return s.clock }

func (s *timeSource) SetClock(clock api.ClockID) error {
	s.clock = clock
	return s.resetEvent()
}

func (s *timeSource) Destroy() {
	s.track.Invalidate()
	s.destroy()
}
