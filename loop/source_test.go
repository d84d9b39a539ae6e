// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Lifecycle state-machine tests driven by the fake poller, so registration
// bookkeeping can be observed directly.

package loop_test

import (
	"testing"

	"github.com/momentics/evloop/api"
	"github.com/momentics/evloop/fake"
	"github.com/momentics/evloop/loop"
	"github.com/momentics/evloop/reactor"
)

func newFakeLoop(t *testing.T) (*loop.EventLoop, *fake.Poller) {
	t.Helper()
	p := fake.NewPoller()
	l, err := loop.New(loop.WithPoller(p))
	if err != nil {
		t.Fatalf("loop.New: %v", err)
	}
	t.Cleanup(l.Close)
	return l, p
}

func TestRegistrationFollowsEnableState(t *testing.T) {
	l, p := newFakeLoop(t)
	src, err := l.AddIOEvent(7, api.IOEventIn,
		func(api.EventSourceIO, int, api.IOEventFlags) error { return nil })
	if err != nil {
		t.Fatalf("AddIOEvent: %v", err)
	}
	if !p.Registered(7) {
		t.Fatal("enabled source must hold a live registration")
	}
	if err := src.SetEnabled(false); err != nil {
		t.Fatalf("SetEnabled(false): %v", err)
	}
	if p.Registered(7) {
		t.Fatal("disabled source must not stay registered")
	}
	if err := src.SetEnabled(true); err != nil {
		t.Fatalf("SetEnabled(true): %v", err)
	}
	if !p.Registered(7) {
		t.Fatal("re-enabled source must be registered again")
	}
	if err := src.SetOneShot(); err != nil {
		t.Fatalf("SetOneShot: %v", err)
	}
	if !p.Registered(7) || !src.IsOneShot() {
		t.Fatal("oneshot source must stay registered")
	}
	src.Destroy()
	if p.Registered(7) {
		t.Fatal("destroyed source must not stay registered")
	}
}

func TestParameterChangeIdempotence(t *testing.T) {
	l, p := newFakeLoop(t)
	src, err := l.AddIOEvent(7, api.IOEventIn,
		func(api.EventSourceIO, int, api.IOEventFlags) error { return nil })
	if err != nil {
		t.Fatalf("AddIOEvent: %v", err)
	}
	base := p.Adds()

	if err := src.SetFd(7); err != nil {
		t.Fatalf("SetFd same: %v", err)
	}
	if err := src.SetEvents(api.IOEventIn); err != nil {
		t.Fatalf("SetEvents same: %v", err)
	}
	if p.Adds() != base {
		t.Fatalf("no-op setters re-registered: adds=%d base=%d", p.Adds(), base)
	}

	if err := src.SetEvents(api.IOEventIn | api.IOEventOut); err != nil {
		t.Fatalf("SetEvents: %v", err)
	}
	if p.Adds() != base+1 {
		t.Fatalf("interest change must reattach exactly once: adds=%d", p.Adds())
	}
	if err := src.SetFd(8); err != nil {
		t.Fatalf("SetFd: %v", err)
	}
	if p.Registered(7) || !p.Registered(8) {
		t.Fatal("stale registration survived descriptor change")
	}
}

func TestOneshotIOAutoDisables(t *testing.T) {
	l, p := newFakeLoop(t)
	calls := 0
	var enabledDuringCallback bool
	src, err := l.AddIOEvent(5, api.IOEventIn,
		func(source api.EventSourceIO, fd int, revents api.IOEventFlags) error {
			calls++
			enabledDuringCallback = source.IsEnabled()
			return nil
		})
	if err != nil {
		t.Fatalf("AddIOEvent: %v", err)
	}
	if err := src.SetOneShot(); err != nil {
		t.Fatalf("SetOneShot: %v", err)
	}
	p.Inject(5, reactor.PollReadable, 0)
	if err := l.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if calls != 1 {
		t.Fatalf("calls=%d", calls)
	}
	if enabledDuringCallback {
		t.Fatal("callback must observe the post-oneshot disabled state")
	}
	if src.IsEnabled() || p.Registered(5) {
		t.Fatal("oneshot source must end up disabled and unregistered")
	}
	// No further dispatch until explicitly re-enabled.
	p.Inject(5, reactor.PollReadable, 0)
	if err := l.Run(); err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if calls != 1 {
		t.Fatalf("disabled source dispatched again: calls=%d", calls)
	}
}

func TestErrFlagSynthesizedFromStatus(t *testing.T) {
	l, p := newFakeLoop(t)
	var got api.IOEventFlags
	src, err := l.AddIOEvent(3, api.IOEventIn,
		func(source api.EventSourceIO, fd int, revents api.IOEventFlags) error {
			got = revents
			l.Stop()
			return nil
		})
	if err != nil {
		t.Fatalf("AddIOEvent: %v", err)
	}
	p.Inject(3, reactor.PollReadable, -5)
	if err := l.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got&api.IOEventErr == 0 || got&api.IOEventIn == 0 {
		t.Fatalf("revents=%v, want In|Err", got)
	}
	if src.Revents() != got {
		t.Fatalf("Revents=%v got=%v", src.Revents(), got)
	}
}

func TestExitSourceEnableToggle(t *testing.T) {
	l, _ := newFakeLoop(t)
	fired := 0
	src, err := l.AddExitEvent(func(api.EventSource) error {
		fired++
		return nil
	})
	if err != nil {
		t.Fatalf("AddExitEvent: %v", err)
	}
	if err := src.SetEnabled(false); err != nil {
		t.Fatalf("SetEnabled(false): %v", err)
	}
	if err := l.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if fired != 0 {
		t.Fatal("disabled exit source fired")
	}
	if err := src.SetOneShot(); err != nil {
		t.Fatalf("SetOneShot: %v", err)
	}
	if err := l.Run(); err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if fired != 1 {
		t.Fatalf("fired=%d", fired)
	}
	if src.IsEnabled() {
		t.Fatal("oneshot exit source must be disabled after firing")
	}
}

func TestHupTranslated(t *testing.T) {
	l, p := newFakeLoop(t)
	var got api.IOEventFlags
	_, err := l.AddIOEvent(4, api.IOEventIn|api.IOEventHup,
		func(source api.EventSourceIO, fd int, revents api.IOEventFlags) error {
			got = revents
			source.Destroy()
			return nil
		})
	if err != nil {
		t.Fatalf("AddIOEvent: %v", err)
	}
	p.Inject(4, reactor.PollReadable|reactor.PollDisconnect, 0)
	if err := l.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got != api.IOEventIn|api.IOEventHup {
		t.Fatalf("revents=%v", got)
	}
}

func TestImplReportsBackend(t *testing.T) {
	l, _ := newFakeLoop(t)
	if l.Impl() != "fake" {
		t.Fatalf("Impl=%q", l.Impl())
	}
	if l.NativeHandle() == nil {
		t.Fatal("NativeHandle must expose the reactor")
	}
}
