// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfchan

import (
	"runtime"

	"code.hybscloud.com/atomix"
)

// Sender is the producing side of a channel.
//
// Any number of goroutines may share one Sender or hold their own clones.
// Each handle counts once toward the channel's live sender count until it
// is closed. A Sender that becomes unreachable without Close is released
// by a runtime cleanup, so a forgotten handle delays disconnection until
// the next garbage collection but never blocks the receiver forever.
//
// Close must not race with Send or TrySend on the same handle.
type Sender[T any] struct {
	state   *chanState[T]
	closed  *atomix.Uint64
	cleanup runtime.Cleanup
}

// Send pushes v into the channel, blocking while the ring is full.
//
// Returns nil once v is published. Returns a *[SendError] carrying v if
// the receiver is gone, checked before the first attempt and after every
// failed one. Returns [ErrClosed] if this handle was closed.
func (s *Sender[T]) Send(v T) error {
	defer runtime.KeepAlive(s)
	if s.closed.LoadAcquire() != handleOpen {
		return ErrClosed
	}

	st := s.state
	w := newWaiter(&st.opts)
	for {
		if !st.receiverAlive.LoadAcquire() {
			return &SendError[T]{Value: v}
		}
		if st.ring.TryPush(&v) == nil {
			return nil
		}
		w.Wait()
	}
}

// TrySend pushes v without blocking.
//
// Returns [ErrFull] if the ring is full, a *[SendError] carrying v if the
// receiver is gone, or [ErrClosed] if this handle was closed.
func (s *Sender[T]) TrySend(v T) error {
	defer runtime.KeepAlive(s)
	if s.closed.LoadAcquire() != handleOpen {
		return ErrClosed
	}
	if !s.state.receiverAlive.LoadAcquire() {
		return &SendError[T]{Value: v}
	}
	return s.state.ring.TryPush(&v)
}

// Clone returns a new handle on the same channel and increments the live
// sender count. The clone must be closed independently.
//
// Panics if this handle was closed.
func (s *Sender[T]) Clone() *Sender[T] {
	defer runtime.KeepAlive(s)
	if s.closed.LoadAcquire() != handleOpen {
		panic("lfchan: Clone of closed Sender")
	}
	s.state.senders.AddAcqRel(1)
	return newSender(s.state)
}

// Close releases this handle. When the last sender is closed, the
// receiver drains what remains and then reports [ErrDisconnected].
//
// Returns [ErrClosed] on the second and later calls.
func (s *Sender[T]) Close() error {
	if !s.state.releaseSender(s.closed) {
		return ErrClosed
	}
	s.cleanup.Stop()
	return nil
}

// Cap returns the channel capacity.
func (s *Sender[T]) Cap() int {
	return s.state.ring.Cap()
}
