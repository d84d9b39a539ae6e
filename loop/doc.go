// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package loop implements the portable event-source layer on top of the
// reactor package: an EventLoop that is the factory for IO, timer, exit and
// deferred sources, the shared Disabled/Oneshot/Enabled lifecycle state
// machine, and the handle ownership protocol that makes it safe to disable,
// re-arm or destroy a source at any time, including from inside its own
// callback.
//
// A loop and all of its sources belong to a single goroutine.
package loop
