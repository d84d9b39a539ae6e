//go:build unix

// File: api/clock_unix.go
// Author: momentics <momentics@gmail.com>
//
// Clock reads on unix platforms go through clock_gettime so that
// ClockMonotonic matches the kernel's monotonic clock exactly.

package api

import "golang.org/x/sys/unix"

// ClockNow returns the current time on the given clock, in microseconds.
func ClockNow(clock ClockID) uint64 {
	clk := unix.CLOCK_MONOTONIC
	if clock == ClockRealtime {
		clk = unix.CLOCK_REALTIME
	}
	var ts unix.Timespec
	if err := unix.ClockGettime(int32(clk), &ts); err != nil {
		return 0
	}
	return uint64(ts.Sec)*1_000_000 + uint64(ts.Nsec)/1_000
}
