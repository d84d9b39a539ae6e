//go:build !unix

// File: api/clock_stub.go
// Author: momentics <momentics@gmail.com>

package api

import "time"

// ClockNow returns the current time on the given clock, in microseconds.
// Platforms without clock_gettime fall back to the Go runtime clock.
func ClockNow(clock ClockID) uint64 {
	return uint64(time.Now().UnixMicro())
}
