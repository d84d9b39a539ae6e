//go:build linux

// File: reactor/poller_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux epoll(7)-based poller implementation and factory.

package reactor

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

// epollPoller is the default Linux readiness backend.
type epollPoller struct {
	epfd int
}

func newDefaultPoller() (Poller, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("epoll create: %w", err)
	}
	return &epollPoller{epfd: epfd}, nil
}

func (p *epollPoller) Name() string { return "epoll" }

func pollToEpoll(events PollEvents) uint32 {
	var e uint32
	if events&PollReadable != 0 {
		e |= unix.EPOLLIN
	}
	if events&PollWritable != 0 {
		e |= unix.EPOLLOUT
	}
	if events&PollDisconnect != 0 {
		e |= unix.EPOLLRDHUP
	}
	return e
}

// Add registers a file descriptor with the epoll watch list.
func (p *epollPoller) Add(fd int, events PollEvents) error {
	ev := unix.EpollEvent{Events: pollToEpoll(events), Fd: int32(fd)}
	if err := unix.EpollCtl(p.epfd, unix.EPOLL_CTL_ADD, fd, &ev); err != nil {
		return fmt.Errorf("epoll ctl add: %w", err)
	}
	return nil
}

// Del removes a file descriptor from the epoll watch list.
func (p *epollPoller) Del(fd int) error {
	if err := unix.EpollCtl(p.epfd, unix.EPOLL_CTL_DEL, fd, nil); err != nil {
		return fmt.Errorf("epoll ctl del: %w", err)
	}
	return nil
}

// Wait blocks for readiness and translates raw epoll bits into the
// reactor-native vocabulary. EPOLLERR is reported as a negative status so
// the caller can distinguish failed polls from ordinary readiness.
func (p *epollPoller) Wait(events []PollerEvent, timeout time.Duration) (int, error) {
	raw := make([]unix.EpollEvent, len(events))
	ms := -1
	if timeout >= 0 {
		ms = int(timeout / time.Millisecond)
		if ms == 0 && timeout > 0 {
			ms = 1
		}
	}
	n, err := unix.EpollWait(p.epfd, raw, ms)
	if err != nil {
		if err == unix.EINTR {
			return 0, nil
		}
		return 0, fmt.Errorf("epoll wait: %w", err)
	}
	for i := 0; i < n; i++ {
		re := raw[i]
		ev := PollerEvent{Fd: int(re.Fd)}
		if re.Events&unix.EPOLLIN != 0 {
			ev.Events |= PollReadable
		}
		if re.Events&unix.EPOLLOUT != 0 {
			ev.Events |= PollWritable
		}
		if re.Events&(unix.EPOLLRDHUP|unix.EPOLLHUP) != 0 {
			ev.Events |= PollDisconnect
		}
		if re.Events&unix.EPOLLERR != 0 {
			ev.Status = -int(unix.EIO)
		}
		events[i] = ev
	}
	return n, nil
}

// Close releases the epoll file descriptor.
func (p *epollPoller) Close() error {
	return unix.Close(p.epfd)
}
