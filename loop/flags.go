// File: loop/flags.go
// Author: momentics <momentics@gmail.com>
//
// Translation between the public IO flag vocabulary and reactor-native
// poll bits. IOEventErr has no native counterpart; it is synthesized from
// a negative dispatch status.

package loop

import (
	"github.com/momentics/evloop/api"
	"github.com/momentics/evloop/reactor"
)

func ioFlagsToPollEvents(flags api.IOEventFlags) reactor.PollEvents {
	var out reactor.PollEvents
	if flags&api.IOEventIn != 0 {
		out |= reactor.PollReadable
	}
	if flags&api.IOEventOut != 0 {
		out |= reactor.PollWritable
	}
	if flags&api.IOEventHup != 0 {
		out |= reactor.PollDisconnect
	}
	return out
}

func pollEventsToIOFlags(events reactor.PollEvents) api.IOEventFlags {
	var out api.IOEventFlags
	if events&reactor.PollReadable != 0 {
		out |= api.IOEventIn
	}
	if events&reactor.PollWritable != 0 {
		out |= api.IOEventOut
	}
	if events&reactor.PollDisconnect != 0 {
		out |= api.IOEventHup
	}
	return out
}
