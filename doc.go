// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package lfchan provides a bounded multi-producer single-consumer channel
// built on a lock-free ring buffer.
//
// # Quick Start
//
//	tx, rx := lfchan.Channel[Event](1024)
//
//	for range workers {
//	    tx := tx.Clone()
//	    go func() {
//	        defer tx.Close()
//	        for ev := range source() {
//	            if err := tx.Send(ev); err != nil {
//	                return // receiver gone
//	            }
//	        }
//	    }()
//	}
//	tx.Close()
//
//	for ev := range rx.All() {
//	    handle(ev)
//	}
//
// # Layers
//
// [Ring] is the lock-free core. Producers claim write indices with CAS, so
// at most one producer wins each index, then publish the slot with release
// ordering. The single consumer reads slots in index order with acquire
// ordering and hands them back as empty. TryPush and TryPop never block and
// never allocate.
//
// [Sender] and [Receiver] add ownership and liveness on top of a shared
// Ring. Send and Recv block by busy-waiting: a few CPU-pause rounds via
// [code.hybscloud.com/spin], then one [runtime.Gosched] per round. No
// goroutine ever holds a lock, and a blocked caller costs CPU time until it
// makes progress or observes disconnection.
//
// # Capacity
//
// Capacity must be a power of 2 >= 1 and is used as-is; slot positions are
// computed with a bitmask. Other values panic. [RoundCapacity] derives a
// valid capacity from any size:
//
//	tx, rx := lfchan.Channel[int](lfchan.RoundCapacity(1000)) // capacity 1024
//
// # Ordering
//
// Values from one producer are received in the order that producer sent
// them. Values from different producers interleave in the order their CAS
// on the write index succeeded. There is no fairness guarantee.
//
// # Disconnection
//
// Every Sender handle counts toward the channel's live sender count until
// it is closed; [Sender.Clone] adds one. When the count reaches zero the
// Receiver drains what remains and then reports [ErrDisconnected]. Closing
// the Receiver makes every Send return a [SendError] carrying the
// undelivered value.
//
// Handles left unreachable without Close are released by runtime cleanups
// after the next garbage collection. Explicit Close is still the prompt and
// predictable way to end participation.
//
// # Error Handling
//
// Non-blocking calls return [ErrFull] and [ErrEmpty]. Both wrap
// [ErrWouldBlock], sourced from [code.hybscloud.com/iox]:
//
//	if lfchan.IsWouldBlock(err) {
//	    // retry later
//	}
//
// Blocking calls absorb them and only return [ErrDisconnected] (or
// [ErrClosed] on a handle already closed).
//
// # Race Detection
//
// The ring publishes non-atomic slot data through acquire-release
// operations on the slot state. Go's race detector cannot observe these
// happens-before edges and may report false positives, so concurrent tests
// of the ring are skipped when [RaceEnabled] is true.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/atomix] for atomic primitives with
// explicit memory ordering, [code.hybscloud.com/spin] for CPU pause
// instructions, and [code.hybscloud.com/iox] for semantic errors and the
// optional sleep backoff.
package lfchan
