// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package reactor implements the native event engine consumed by the loop
// package: a single-threaded run-until-stopped dispatcher over poll handles
// (fd readiness) and one-shot timer handles, with walk-all-handles and
// deferred close-with-finalizer semantics. The platform readiness mechanism
// sits behind the Poller interface; Linux uses epoll(7), other platforms
// may inject their own Poller.
package reactor
