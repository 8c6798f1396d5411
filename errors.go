// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfchan

import (
	"errors"
	"fmt"

	"code.hybscloud.com/iox"
)

// ErrWouldBlock indicates the operation cannot proceed immediately.
//
// This is an alias for [iox.ErrWouldBlock] for ecosystem consistency.
// [ErrFull] and [ErrEmpty] both wrap it, so callers that only care about
// "retry later" can test for ErrWouldBlock alone.
var ErrWouldBlock = iox.ErrWouldBlock

// ErrFull is returned by non-blocking pushes when every slot is occupied.
// It is transient: the push succeeds once the receiver drains a slot.
var ErrFull = fmt.Errorf("lfchan: ring full: %w", iox.ErrWouldBlock)

// ErrEmpty is returned by non-blocking pops when no slot is ready.
//
// A slot whose index has been claimed by a producer that has not yet
// published the value also reports ErrEmpty.
var ErrEmpty = fmt.Errorf("lfchan: ring empty: %w", iox.ErrWouldBlock)

// ErrDisconnected reports that the peer side of the channel is gone.
//
// For senders: the receiver was closed, so nothing will ever drain the ring.
// For the receiver: every sender was closed and the ring is empty.
//
// No retry can make progress after ErrDisconnected.
var ErrDisconnected = errors.New("lfchan: channel disconnected")

// ErrClosed reports an operation on a handle the caller already closed.
var ErrClosed = errors.New("lfchan: use of closed handle")

// SendError is returned by Send and TrySend when the receiver is gone.
// It carries the value that could not be delivered.
type SendError[T any] struct {
	Value T
}

func (e *SendError[T]) Error() string {
	return "lfchan: sending on a disconnected channel"
}

// Unwrap makes errors.Is(err, ErrDisconnected) hold.
func (e *SendError[T]) Unwrap() error {
	return ErrDisconnected
}

// IsWouldBlock reports whether err indicates the operation would block.
// True for [ErrFull], [ErrEmpty] and [ErrWouldBlock].
// Delegates to [iox.IsWouldBlock] for wrapped error support.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}

// IsDisconnected reports whether err indicates the peer side is gone.
func IsDisconnected(err error) bool {
	return errors.Is(err, ErrDisconnected)
}

// IsSemantic reports whether err is a control flow signal (not a failure).
// Delegates to [iox.IsSemantic].
func IsSemantic(err error) bool {
	return iox.IsSemantic(err)
}

// IsNonFailure reports whether err represents a non-failure condition.
// Returns true for nil and would-block errors.
// Delegates to [iox.IsNonFailure].
func IsNonFailure(err error) bool {
	return iox.IsNonFailure(err)
}
