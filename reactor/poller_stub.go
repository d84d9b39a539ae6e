//go:build !linux

// File: reactor/poller_stub.go
// Author: momentics <momentics@gmail.com>
//
// Platforms without a native backend must inject a Poller via WithPoller.

package reactor

import "github.com/momentics/evloop/api"

func newDefaultPoller() (Poller, error) {
	return nil, api.ErrNotSupported
}
