// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package api defines the public vocabulary of the evloop library: event
// source interfaces, IO readiness flags, clock identifiers, callback
// signatures and shared error types. Concrete implementations live in the
// loop and reactor packages.
package api
