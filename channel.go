// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfchan

import (
	"runtime"

	"code.hybscloud.com/atomix"
)

// Handle flag values.
const (
	handleOpen   uint64 = 0
	handleClosed uint64 = 1
)

// chanState is shared by every Sender clone and the Receiver.
// The garbage collector reclaims it, ring contents included, once no
// handle references it.
type chanState[T any] struct {
	ring          *Ring[T]
	senders       atomix.Int64 // Live Sender handles
	receiverAlive atomix.Bool
	opts          Options
}

func newChannel[T any](opts Options) (*Sender[T], *Receiver[T]) {
	st := &chanState[T]{
		ring: NewRing[T](opts.capacity),
		opts: opts,
	}
	st.senders.StoreRelaxed(1)
	st.receiverAlive.StoreRelease(true)

	return newSender(st), newReceiver(st)
}

// releaseSender drops one sender reference. Returns false if the handle
// was already closed.
func (st *chanState[T]) releaseSender(closed *atomix.Uint64) bool {
	if !closed.CompareAndSwapAcqRel(handleOpen, handleClosed) {
		return false
	}
	st.senders.AddAcqRel(-1)
	return true
}

// releaseReceiver marks the channel as having no consumer.
func (st *chanState[T]) releaseReceiver(closed *atomix.Uint64) bool {
	if !closed.CompareAndSwapAcqRel(handleOpen, handleClosed) {
		return false
	}
	st.receiverAlive.StoreRelease(false)
	return true
}

// handleRef is the cleanup argument for a handle. It must not point back
// at the handle itself, or the handle would never become unreachable.
type handleRef[T any] struct {
	state  *chanState[T]
	closed *atomix.Uint64
}

func senderCleanup[T any](ref handleRef[T]) {
	ref.state.releaseSender(ref.closed)
}

func receiverCleanup[T any](ref handleRef[T]) {
	ref.state.releaseReceiver(ref.closed)
}

func newSender[T any](st *chanState[T]) *Sender[T] {
	s := &Sender[T]{state: st, closed: new(atomix.Uint64)}
	s.cleanup = runtime.AddCleanup(s, senderCleanup[T], handleRef[T]{state: st, closed: s.closed})
	return s
}

func newReceiver[T any](st *chanState[T]) *Receiver[T] {
	r := &Receiver[T]{state: st, closed: new(atomix.Uint64)}
	r.cleanup = runtime.AddCleanup(r, receiverCleanup[T], handleRef[T]{state: st, closed: r.closed})
	return r
}
