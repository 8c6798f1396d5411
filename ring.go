// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfchan

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// Slot states. Every slot starts empty and cycles
// empty → claimed → ready → empty for as long as the ring lives.
const (
	slotEmpty   uint64 = iota // Writable by the producer that wins its index
	slotClaimed               // Index won, value not yet published
	slotReady                 // Value published, readable by the consumer
)

// Ring is a CAS-based multi-producer single-consumer bounded ring buffer.
//
// Producers claim write indices with CAS on tail, so exactly one producer
// wins each index. The winner moves the slot from empty to claimed, copies
// the value in and publishes the slot as ready with release ordering. The
// single consumer pops in index order, observing ready with acquire
// ordering, and hands the slot back as empty with release ordering before
// advancing head.
//
// head and tail count every pop and push ever performed; the physical slot
// is index & mask. This tells "empty" (head == tail) apart from "full"
// (tail == head + capacity) without an extra flag.
//
// Memory: n slots for capacity n. No allocation after construction.
type Ring[T any] struct {
	head     atomix.Uint64 // Read index, written by the consumer only
	tail     atomix.Uint64 // Write index, CAS by producers
	buffer   []ringSlot[T]
	mask     uint64
	capacity uint64
}

type ringSlot[T any] struct {
	state atomix.Uint64
	data  T
}

// NewRing creates a ring with the given capacity.
// Panics if capacity is not a power of 2 >= 1.
func NewRing[T any](capacity int) *Ring[T] {
	checkCapacity(capacity)

	n := uint64(capacity)
	r := &Ring[T]{
		buffer:   make([]ringSlot[T], n),
		mask:     n - 1,
		capacity: n,
	}
	for i := range r.buffer {
		r.buffer[i].state.StoreRelaxed(slotEmpty)
	}
	return r
}

// TryPush copies *elem into the ring (multiple producers safe).
//
// A producer that loses the CAS race retries on fresh indices. TryPush
// returns ErrFull only when the ring is observably full, leaving the
// decision to block to the caller.
func (r *Ring[T]) TryPush(elem *T) error {
	sw := spin.Wait{}
	for {
		tail := r.tail.LoadAcquire()
		head := r.head.LoadAcquire()

		if tail >= head+r.capacity {
			return ErrFull
		}

		if r.tail.CompareAndSwapAcqRel(tail, tail+1) {
			slot := &r.buffer[tail&r.mask]
			// The consumer released this slot before moving head past
			// tail-capacity, so the claim succeeds on the first try.
			for !slot.state.CompareAndSwapAcqRel(slotEmpty, slotClaimed) {
				sw.Once()
			}
			slot.data = *elem
			slot.state.StoreRelease(slotReady)
			return nil
		}
		sw.Once()
	}
}

// TryPop removes and returns the oldest published element.
// Returns (zero-value, ErrEmpty) if no ready slot exists.
//
// Single consumer only.
func (r *Ring[T]) TryPop() (T, error) {
	var zero T

	head := r.head.LoadRelaxed()
	tail := r.tail.LoadAcquire()
	if head >= tail {
		return zero, ErrEmpty
	}

	slot := &r.buffer[head&r.mask]
	if slot.state.LoadAcquire() != slotReady {
		// Claimed but not yet written.
		return zero, ErrEmpty
	}

	elem := slot.data
	slot.data = zero
	slot.state.StoreRelease(slotEmpty)
	r.head.StoreRelease(head + 1)

	return elem, nil
}

// Cap returns the ring capacity.
func (r *Ring[T]) Cap() int {
	return int(r.capacity)
}

// Len returns a snapshot of the number of claimed indices not yet popped.
// The value may be stale by the time the caller looks at it.
func (r *Ring[T]) Len() int {
	head := r.head.LoadAcquire()
	tail := r.tail.LoadAcquire()
	if tail < head {
		return 0
	}
	return int(tail - head)
}
