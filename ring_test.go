// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfchan_test

import (
	"errors"
	"testing"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/lfchan"
)

// =============================================================================
// Ring - Basic Operations
// =============================================================================

// TestRingBasic fills the ring to capacity, checks the overflow push, then
// drains in FIFO order.
func TestRingBasic(t *testing.T) {
	r := lfchan.NewRing[int](4)

	if r.Cap() != 4 {
		t.Fatalf("Cap: got %d, want 4", r.Cap())
	}

	for i := range 4 {
		v := i + 100
		if err := r.TryPush(&v); err != nil {
			t.Fatalf("TryPush(%d): %v", i, err)
		}
	}
	if r.Len() != 4 {
		t.Fatalf("Len: got %d, want 4", r.Len())
	}

	// capacity+1-th push reports full
	v := 999
	if err := r.TryPush(&v); !errors.Is(err, lfchan.ErrFull) {
		t.Fatalf("TryPush on full: got %v, want ErrFull", err)
	}

	for i := range 4 {
		val, err := r.TryPop()
		if err != nil {
			t.Fatalf("TryPop(%d): %v", i, err)
		}
		if val != i+100 {
			t.Fatalf("TryPop(%d): got %d, want %d", i, val, i+100)
		}
	}

	if _, err := r.TryPop(); !errors.Is(err, lfchan.ErrEmpty) {
		t.Fatalf("TryPop on empty: got %v, want ErrEmpty", err)
	}
}

// TestRingFreshIsEmpty checks that a new ring reports ErrEmpty.
func TestRingFreshIsEmpty(t *testing.T) {
	r := lfchan.NewRing[string](8)
	v, err := r.TryPop()
	if !errors.Is(err, lfchan.ErrEmpty) {
		t.Fatalf("TryPop: got %v, want ErrEmpty", err)
	}
	if v != "" {
		t.Fatalf("TryPop: got %q, want zero value", v)
	}
	if r.Len() != 0 {
		t.Fatalf("Len: got %d, want 0", r.Len())
	}
}

// TestRingCapacityOne exercises the smallest ring, where every push and pop
// reuses the same slot.
func TestRingCapacityOne(t *testing.T) {
	r := lfchan.NewRing[int](1)

	for i := range 100 {
		v := i
		if err := r.TryPush(&v); err != nil {
			t.Fatalf("TryPush(%d): %v", i, err)
		}
		if err := r.TryPush(&v); !errors.Is(err, lfchan.ErrFull) {
			t.Fatalf("second TryPush(%d): got %v, want ErrFull", i, err)
		}
		got, err := r.TryPop()
		if err != nil {
			t.Fatalf("TryPop(%d): %v", i, err)
		}
		if got != i {
			t.Fatalf("TryPop(%d): got %d", i, got)
		}
	}
}

// TestRingWraparound runs many fill/drain rounds so indices pass the
// capacity many times over.
func TestRingWraparound(t *testing.T) {
	r := lfchan.NewRing[int](4)

	for round := range 100 {
		for i := range 4 {
			v := round*100 + i
			if err := r.TryPush(&v); err != nil {
				t.Fatalf("round %d: TryPush(%d): %v", round, i, err)
			}
		}
		for i := range 4 {
			got, err := r.TryPop()
			if err != nil {
				t.Fatalf("round %d: TryPop: %v", round, err)
			}
			if want := round*100 + i; got != want {
				t.Fatalf("round %d: got %d, want %d", round, got, want)
			}
		}
	}
}

// TestRingInterleaved keeps the ring partially full while indices advance.
func TestRingInterleaved(t *testing.T) {
	r := lfchan.NewRing[int](8)

	next, expect := 0, 0
	for range 1000 {
		for range 3 {
			v := next
			if err := r.TryPush(&v); err != nil {
				break
			}
			next++
		}
		for range 2 {
			got, err := r.TryPop()
			if err != nil {
				break
			}
			if got != expect {
				t.Fatalf("got %d, want %d", got, expect)
			}
			expect++
		}
	}
	for {
		got, err := r.TryPop()
		if err != nil {
			break
		}
		if got != expect {
			t.Fatalf("drain: got %d, want %d", got, expect)
		}
		expect++
	}
	if expect != next {
		t.Fatalf("popped %d values, pushed %d", expect, next)
	}
}

// TestRingCopiesElement checks that the caller may reuse the pushed variable.
func TestRingCopiesElement(t *testing.T) {
	type payload struct {
		id   int
		name string
	}
	r := lfchan.NewRing[payload](2)

	p := payload{id: 1, name: "first"}
	if err := r.TryPush(&p); err != nil {
		t.Fatalf("TryPush: %v", err)
	}
	p.id, p.name = 2, "second"
	if err := r.TryPush(&p); err != nil {
		t.Fatalf("TryPush: %v", err)
	}

	got, _ := r.TryPop()
	if got.id != 1 || got.name != "first" {
		t.Fatalf("first pop: got %+v", got)
	}
	got, _ = r.TryPop()
	if got.id != 2 || got.name != "second" {
		t.Fatalf("second pop: got %+v", got)
	}
}

// =============================================================================
// Capacity Validation
// =============================================================================

func TestRingPanicsOnInvalidCapacity(t *testing.T) {
	for _, c := range []int{-1, 0, 3, 6, 100, 1000} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("NewRing(%d): expected panic", c)
				}
			}()
			lfchan.NewRing[int](c)
		}()
	}
}

func TestRingAcceptsPowersOfTwo(t *testing.T) {
	for _, c := range []int{1, 2, 4, 16, 1024, 1 << 16} {
		if got := lfchan.NewRing[int](c).Cap(); got != c {
			t.Errorf("NewRing(%d).Cap(): got %d", c, got)
		}
	}
}

func TestRoundCapacity(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{-5, 1},
		{0, 1},
		{1, 1},
		{2, 2},
		{3, 4},
		{4, 4},
		{5, 8},
		{1000, 1024},
		{1024, 1024},
		{1025, 2048},
	}
	for _, tt := range tests {
		if got := lfchan.RoundCapacity(tt.in); got != tt.want {
			t.Errorf("RoundCapacity(%d): got %d, want %d", tt.in, got, tt.want)
		}
	}
}

// =============================================================================
// Errors
// =============================================================================

func TestErrorClassification(t *testing.T) {
	for _, err := range []error{lfchan.ErrFull, lfchan.ErrEmpty} {
		if !errors.Is(err, iox.ErrWouldBlock) {
			t.Errorf("%v: not ErrWouldBlock", err)
		}
		if !lfchan.IsWouldBlock(err) {
			t.Errorf("IsWouldBlock(%v): got false", err)
		}
		if lfchan.IsDisconnected(err) {
			t.Errorf("IsDisconnected(%v): got true", err)
		}
	}
	if errors.Is(lfchan.ErrFull, lfchan.ErrEmpty) {
		t.Error("ErrFull matches ErrEmpty")
	}
	if lfchan.IsWouldBlock(lfchan.ErrDisconnected) {
		t.Error("IsWouldBlock(ErrDisconnected): got true")
	}
	for _, tt := range []struct {
		err  error
		want bool
	}{
		{nil, false},
		{lfchan.ErrWouldBlock, true},
		{lfchan.ErrFull, true},
		{lfchan.ErrEmpty, true},
		{lfchan.ErrDisconnected, false},
		{lfchan.ErrClosed, false},
	} {
		if got := lfchan.IsSemantic(tt.err); got != tt.want {
			t.Errorf("IsSemantic(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
	if !lfchan.IsNonFailure(nil) {
		t.Error("IsNonFailure(nil): got false")
	}

	var sendErr error = &lfchan.SendError[int]{Value: 7}
	if !lfchan.IsDisconnected(sendErr) {
		t.Error("SendError does not unwrap to ErrDisconnected")
	}
	var se *lfchan.SendError[int]
	if !errors.As(sendErr, &se) || se.Value != 7 {
		t.Errorf("errors.As SendError: got %+v", se)
	}
}
