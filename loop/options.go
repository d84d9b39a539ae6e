// File: loop/options.go
// Package loop defines functional options for EventLoop construction.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package loop

import (
	"github.com/rs/zerolog"

	"github.com/momentics/evloop/reactor"
)

type config struct {
	log    zerolog.Logger
	batch  int
	poller reactor.Poller
}

// Option customizes loop initialization.
type Option func(*config)

// WithLogger attaches a diagnostic logger used during teardown tracing.
func WithLogger(log zerolog.Logger) Option {
	return func(c *config) { c.log = log }
}

// WithBatchSize overrides the reactor's per-wait event batch size.
func WithBatchSize(n int) Option {
	return func(c *config) { c.batch = n }
}

// WithPoller injects a readiness backend, replacing the platform default.
func WithPoller(p reactor.Poller) Option {
	return func(c *config) { c.poller = p }
}
