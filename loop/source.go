// File: loop/source.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Lifecycle state machine shared by IO and timer sources.

package loop

import (
	"github.com/momentics/evloop/internal/trackable"
	"github.com/momentics/evloop/reactor"
)

type enableState uint8

const (
	stateDisabled enableState = iota
	stateOneshot
	stateEnabled
)

// sourceBase carries the enable state and the native-handle attach/detach
// protocol common to every reactor-backed source. Invariant: handle != nil
// exactly when state != Disabled and the owning loop is still alive.
type sourceBase struct {
	loop      trackable.Ref[reactorHandle]
	handle    reactor.Handle
	state     enableState
	destroyed bool
	// attach performs kind-specific registration and returns the armed
	// native handle with its back-reference already set.
	attach func(r *reactor.Reactor) (reactor.Handle, error)
}

func (s *sourceBase) IsEnabled() bool { return s.state != stateDisabled }
func (s *sourceBase) IsOneShot() bool { return s.state == stateOneshot }

func (s *sourceBase) SetEnabled(enabled bool) error {
	st := stateDisabled
	if enabled {
		st = stateEnabled
	}
	return s.setState(st)
}

func (s *sourceBase) SetOneShot() error { return s.setState(stateOneshot) }

func (s *sourceBase) setState(st enableState) error {
	if s.destroyed || s.state == st {
		return nil
	}
	s.state = st
	return s.resetEvent()
}

// cleanup detaches the native handle if present. The back-reference is
// cleared before the asynchronous close, so a dispatch that is already in
// flight finds nothing to invoke. Idempotent, safe mid-callback.
func (s *sourceBase) cleanup() {
	if s.handle == nil {
		return
	}
	h := s.handle
	s.handle = nil
	h.SetData(nil)
	h.Close(nil)
}

// resetEvent is the single chokepoint for every state transition and
// parameter change: detach, then re-register if the source should be armed.
// A missing loop is not an error; teardown has begun and the source simply
// stays unregistered.
func (s *sourceBase) resetEvent() error {
	s.cleanup()
	if s.state == stateDisabled || s.destroyed {
		return nil
	}
	owner := s.loop.Get()
	if owner == nil {
		return nil
	}
	h, err := s.attach(owner.r)
	if err != nil {
		return err
	}
	s.handle = h
	return nil
}

// fail records a callback error on the loop and asks the reactor to stop;
// Run surfaces the first recorded error to its caller.
func (s *sourceBase) fail(err error) {
	owner := s.loop.Get()
	if owner == nil {
		return
	}
	if owner.err == nil {
		owner.err = err
	}
	owner.r.Stop()
}

func (s *sourceBase) destroy() {
	if s.destroyed {
		return
	}
	s.destroyed = true
	s.state = stateDisabled
	s.cleanup()
}
