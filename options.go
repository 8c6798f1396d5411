// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfchan

// DefaultSpin is the number of CPU-pause rounds a blocked Send or Recv
// performs before it starts yielding the processor.
const DefaultSpin = 64

// Options configures channel creation.
type Options struct {
	capacity int

	// Blocking strategy for Send and Recv
	spin    int  // Pause rounds before yielding
	backoff bool // iox.Backoff instead of spin-then-yield
}

// Builder creates channels with fluent configuration.
//
// Example:
//
//	// Default spin-then-yield blocking
//	tx, rx := lfchan.Build[Event](lfchan.New(1024))
//
//	// Pure yield, no pause phase
//	tx, rx := lfchan.Build[Event](lfchan.New(1024).Spin(0))
//
//	// Adaptive sleep backoff for mostly idle channels
//	tx, rx := lfchan.Build[Event](lfchan.New(64).Backoff())
type Builder struct {
	opts Options
}

// New creates a channel builder with the given capacity.
//
// Panics if capacity is not a power of 2 >= 1. Use [RoundCapacity] to
// derive a valid capacity from an arbitrary size.
func New(capacity int) *Builder {
	checkCapacity(capacity)
	return &Builder{opts: Options{capacity: capacity, spin: DefaultSpin}}
}

// Spin sets how many CPU-pause rounds a blocked Send or Recv performs
// before yielding the processor on every further round.
// Negative values are treated as 0.
func (b *Builder) Spin(n int) *Builder {
	b.opts.spin = max(n, 0)
	return b
}

// Backoff selects [iox.Backoff] as the blocking strategy.
//
// Backoff sleeps with growing intervals instead of yielding, trading
// wake-up latency for CPU time on channels that are idle most of the time.
func (b *Builder) Backoff() *Builder {
	b.opts.backoff = true
	return b
}

// Build creates a connected Sender/Receiver pair.
func Build[T any](b *Builder) (*Sender[T], *Receiver[T]) {
	return newChannel[T](b.opts)
}

// Channel creates a connected Sender/Receiver pair with default options.
// Panics if capacity is not a power of 2 >= 1.
//
// Equivalent to Build[T](New(capacity)).
func Channel[T any](capacity int) (*Sender[T], *Receiver[T]) {
	return Build[T](New(capacity))
}

// RoundCapacity rounds n up to the next power of 2.
// Values below 1 round to 1.
func RoundCapacity(n int) int {
	if n < 1 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}

func checkCapacity(capacity int) {
	if capacity < 1 || capacity&(capacity-1) != 0 {
		panic("lfchan: capacity must be a power of 2 >= 1")
	}
}
