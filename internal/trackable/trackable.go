// File: internal/trackable/trackable.go
// Package trackable implements validity-checked weak references.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// A container can hold a Ref to an object that may be destroyed at any
// moment, without the object keeping the container alive or even knowing
// about it. Single-threaded by design: loops and their sources live on one
// goroutine, so no synchronization is carried here.

package trackable

// cell is the shared indirection between an Object and every Ref watching
// it. Invalidate clears the target, which every outstanding Ref observes.
type cell[T any] struct {
	target *T
}

// Object is embedded (by value) into a trackable type. The zero value is
// ready to use.
type Object[T any] struct {
	c *cell[T]
}

// Watch returns a Ref tracking self. All Refs obtained before and after
// share the same validity state.
func (o *Object[T]) Watch(self *T) Ref[T] {
	if o.c == nil {
		o.c = &cell[T]{target: self}
	}
	return Ref[T]{c: o.c}
}

// Invalidate marks the object destroyed. Every outstanding Ref becomes
// invalid. Idempotent.
func (o *Object[T]) Invalidate() {
	if o.c != nil {
		o.c.target = nil
		o.c = nil
	}
}

// Ref is a non-owning handle to a trackable object. The zero Ref is invalid.
type Ref[T any] struct {
	c *cell[T]
}

// Get returns the target, or nil if it has been destroyed.
func (r Ref[T]) Get() *T {
	if r.c == nil {
		return nil
	}
	return r.c.target
}

// IsValid reports whether the target still exists.
func (r Ref[T]) IsValid() bool {
	return r.c != nil && r.c.target != nil
}
