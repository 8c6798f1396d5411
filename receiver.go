// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfchan

import (
	"iter"
	"runtime"

	"code.hybscloud.com/atomix"
)

// Receiver is the consuming side of a channel.
//
// There is exactly one Receiver per channel and it has no Clone method.
// Recv, TryRecv and All must be called from one goroutine at a time.
// Closing the Receiver, or dropping it and letting the runtime cleanup
// run, makes every current and future Send report disconnection.
type Receiver[T any] struct {
	state   *chanState[T]
	closed  *atomix.Uint64
	cleanup runtime.Cleanup
}

// Recv removes and returns the next value, blocking while the channel is
// empty and at least one sender is alive.
//
// Returns [ErrDisconnected] once the ring is empty and every sender has
// been closed. Returns [ErrClosed] if the Receiver is closed before or
// during the call.
func (r *Receiver[T]) Recv() (T, error) {
	defer runtime.KeepAlive(r)
	w := newWaiter(&r.state.opts)
	return r.recv(&w)
}

// recv re-reads the closed flag on every step, so a Close from another
// goroutine or from inside an All loop ends the wait.
func (r *Receiver[T]) recv(w *waiter) (T, error) {
	st := r.state
	for {
		if r.closed.LoadAcquire() != handleOpen {
			var zero T
			return zero, ErrClosed
		}
		v, err := st.ring.TryPop()
		if err == nil {
			return v, nil
		}
		if st.senders.Load() == 0 {
			return r.popLast()
		}
		w.Wait()
	}
}

// popLast retries once after observing zero senders. Every push that
// completed before the last Close is visible by now.
func (r *Receiver[T]) popLast() (T, error) {
	v, err := r.state.ring.TryPop()
	if err != nil {
		var zero T
		return zero, ErrDisconnected
	}
	return v, nil
}

// TryRecv removes and returns the next value without blocking.
//
// Returns [ErrEmpty] if nothing is ready but senders remain,
// [ErrDisconnected] if nothing is ready and no sender remains, or
// [ErrClosed] if the Receiver was closed.
func (r *Receiver[T]) TryRecv() (T, error) {
	defer runtime.KeepAlive(r)
	if r.closed.LoadAcquire() != handleOpen {
		var zero T
		return zero, ErrClosed
	}
	v, err := r.state.ring.TryPop()
	if err == nil {
		return v, nil
	}
	if r.state.senders.Load() == 0 {
		return r.popLast()
	}
	return v, ErrEmpty
}

// All returns an iterator over received values. Iteration blocks like
// Recv and stops when the channel disconnects or the Receiver is closed,
// including a Close from inside the loop body. Values still buffered at
// that point are not yielded.
//
//	for v := range rx.All() {
//	    handle(v)
//	}
func (r *Receiver[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		defer runtime.KeepAlive(r)
		w := newWaiter(&r.state.opts)
		for {
			v, err := r.recv(&w)
			if err != nil || !yield(v) {
				return
			}
			w.Reset()
		}
	}
}

// Senders returns a snapshot of the live sender count.
func (r *Receiver[T]) Senders() int {
	return int(r.state.senders.Load())
}

// Len returns a snapshot of the number of values in flight.
func (r *Receiver[T]) Len() int {
	return r.state.ring.Len()
}

// Cap returns the channel capacity.
func (r *Receiver[T]) Cap() int {
	return r.state.ring.Cap()
}

// Close marks the channel as having no consumer. Values still in the ring
// are discarded along with it when the last handle goes away.
//
// Returns [ErrClosed] on the second and later calls.
func (r *Receiver[T]) Close() error {
	if !r.state.releaseReceiver(r.closed) {
		return ErrClosed
	}
	r.cleanup.Stop()
	return nil
}
