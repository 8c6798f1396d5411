// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfchan

// Queue is the non-blocking producer-consumer interface of a ring.
//
// Both operations return an error wrapping ErrWouldBlock when they cannot
// proceed: [ErrFull] for TryPush, [ErrEmpty] for TryPop.
//
// The interface intentionally excludes an exact length because accurate
// counts in lock-free algorithms require cross-core synchronization.
type Queue[T any] interface {
	Producer[T]
	Consumer[T]
	Cap() int
}

// Producer is the interface for pushing elements.
//
// The element is passed by pointer to avoid copying large structs. The
// ring stores a copy, so the caller may reuse *elem after TryPush returns.
type Producer[T any] interface {
	// TryPush adds an element (non-blocking, multiple producers safe).
	// Returns nil on success, ErrFull if every slot is occupied.
	TryPush(elem *T) error
}

// Consumer is the interface for popping elements.
//
// The popped slot is cleared so referenced objects can be collected.
type Consumer[T any] interface {
	// TryPop removes and returns the oldest element (non-blocking,
	// single consumer only).
	// Returns (zero-value, ErrEmpty) if no element is ready.
	TryPop() (T, error)
}

// Blocking is the interface shared by Sender and Receiver handles.
type Blocking interface {
	Cap() int
	Close() error
}

var (
	_ Queue[int] = (*Ring[int])(nil)
	_ Blocking   = (*Sender[int])(nil)
	_ Blocking   = (*Receiver[int])(nil)
)
