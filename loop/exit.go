// File: loop/exit.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package loop

import (
	"github.com/momentics/evloop/api"
	"github.com/momentics/evloop/internal/trackable"
)

// exitSource fires once after Run's wait call returns. It is not backed by
// any native handle; the loop's exit registry holds a trackable reference
// and skips entries whose target was destroyed.
type exitSource struct {
	track     trackable.Object[exitSource]
	state     enableState
	destroyed bool
	cb        api.EventCallback
}

// AddExitEvent registers a callback that fires after Run's wait returns,
// in registration order. The source starts oneshot.
func (l *EventLoop) AddExitEvent(callback api.EventCallback) (api.EventSource, error) {
	if l.h == nil {
		return nil, api.ErrLoopClosed
	}
	src := &exitSource{state: stateOneshot, cb: callback}
	l.exitEvents = append(l.exitEvents, src.track.Watch(src))
	return src, nil
}

func (s *exitSource) IsEnabled() bool { return s.state != stateDisabled }
func (s *exitSource) IsOneShot() bool { return s.state == stateOneshot }

func (s *exitSource) SetEnabled(enabled bool) error {
	if s.destroyed {
		return nil
	}
	if enabled {
		s.state = stateEnabled
	} else {
		s.state = stateDisabled
	}
	return nil
}

func (s *exitSource) SetOneShot() error {
	if s.destroyed {
		return nil
	}
	s.state = stateOneshot
	return nil
}

func (s *exitSource) Destroy() {
	if s.destroyed {
		return
	}
	s.destroyed = true
	s.state = stateDisabled
	s.track.Invalidate()
}
