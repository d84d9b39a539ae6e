// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: Apache-2.0

// Package fake provides deterministic test doubles for the reactor layer.
package fake

import (
	"time"

	"github.com/momentics/evloop/api"
	"github.com/momentics/evloop/reactor"
)

// Poller is an injectable readiness backend driven by Inject calls.
type Poller struct {
	registered map[int]reactor.PollEvents
	pending    []reactor.PollerEvent
	adds       int
	dels       int
	closed     bool
}

// NewPoller returns an empty fake backend.
func NewPoller() *Poller {
	return &Poller{registered: make(map[int]reactor.PollEvents)}
}

func (p *Poller) Name() string { return "fake" }

func (p *Poller) Add(fd int, events reactor.PollEvents) error {
	if p.closed {
		return api.ErrReactorClosed
	}
	if _, dup := p.registered[fd]; dup {
		return api.ErrBusy
	}
	p.registered[fd] = events
	p.adds++
	return nil
}

func (p *Poller) Del(fd int) error {
	if _, ok := p.registered[fd]; !ok {
		return api.ErrInvalidArgument
	}
	delete(p.registered, fd)
	p.dels++
	return nil
}

// Wait delivers injected events for currently registered descriptors.
// With nothing pending it sleeps at most a millisecond of the requested
// budget, so timer-driven reactors make progress without busy spinning.
func (p *Poller) Wait(events []reactor.PollerEvent, timeout time.Duration) (int, error) {
	if len(p.pending) == 0 && timeout != 0 {
		d := timeout
		if d < 0 || d > time.Millisecond {
			d = time.Millisecond
		}
		time.Sleep(d)
	}
	n := 0
	rest := p.pending[:0]
	for _, ev := range p.pending {
		if _, ok := p.registered[ev.Fd]; !ok {
			continue
		}
		if n < len(events) {
			events[n] = ev
			n++
		} else {
			rest = append(rest, ev)
		}
	}
	p.pending = rest
	return n, nil
}

func (p *Poller) Close() error {
	p.closed = true
	return nil
}

// Inject queues a readiness notification for the next Wait.
func (p *Poller) Inject(fd int, events reactor.PollEvents, status int) {
	p.pending = append(p.pending, reactor.PollerEvent{Fd: fd, Events: events, Status: status})
}

// Registered reports whether fd currently has a live registration.
func (p *Poller) Registered(fd int) bool {
	_, ok := p.registered[fd]
	return ok
}

// Adds returns the count of successful Add calls, for idempotence checks.
func (p *Poller) Adds() int { return p.adds }

// Dels returns the count of successful Del calls.
func (p *Poller) Dels() int { return p.dels }
