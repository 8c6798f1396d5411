// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package harness drives lfchan channels under load and checks what comes
// out the other end.
package harness

import (
	"fmt"
	"math"

	"code.hybscloud.com/lfchan"
	"github.com/mcuadros/go-defaults"
)

// StressConfig configures RunStress.
type StressConfig struct {
	Producers   int  `default:"8"`
	PerProducer int  `default:"10000"`
	Capacity    int  `default:"16"`
	Jitter      int  `default:"0"`  // Upper bound of random yields between sends
	Spin        int  `default:"64"` // Pause rounds before yielding
	Backoff     bool `default:"false"`
}

// DefaultStressConfig returns the 8 x 10,000 over capacity 16 scenario.
func DefaultStressConfig() StressConfig {
	var c StressConfig
	defaults.SetDefaults(&c)
	return c
}

func (c StressConfig) validate() error {
	switch {
	case c.Producers < 1:
		return fmt.Errorf("producers must be >= 1, got %d", c.Producers)
	case c.PerProducer < 1:
		return fmt.Errorf("per-producer must be >= 1, got %d", c.PerProducer)
	case int64(c.PerProducer) > math.MaxUint32:
		return fmt.Errorf("per-producer must fit in 32 bits, got %d", c.PerProducer)
	case c.Jitter < 0:
		return fmt.Errorf("jitter must be >= 0, got %d", c.Jitter)
	}
	return checkCapacity(c.Capacity)
}

func (c StressConfig) builder() *lfchan.Builder {
	b := lfchan.New(c.Capacity).Spin(c.Spin)
	if c.Backoff {
		b.Backoff()
	}
	return b
}

// BenchConfig configures RunBench.
type BenchConfig struct {
	Messages int `default:"1000"` // Values per throughput batch
	Batches  int `default:"100"`
	Capacity int `default:"64"` // Throughput channel capacity
	Rounds   int `default:"1000"` // Ping-pong round trips over capacity-1 channels
}

// DefaultBenchConfig returns the default benchmark settings.
func DefaultBenchConfig() BenchConfig {
	var c BenchConfig
	defaults.SetDefaults(&c)
	return c
}

func (c BenchConfig) validate() error {
	switch {
	case c.Messages < 1:
		return fmt.Errorf("messages must be >= 1, got %d", c.Messages)
	case c.Batches < 1:
		return fmt.Errorf("batches must be >= 1, got %d", c.Batches)
	case c.Rounds < 1:
		return fmt.Errorf("rounds must be >= 1, got %d", c.Rounds)
	}
	return checkCapacity(c.Capacity)
}

// checkCapacity reports what lfchan.New would panic on.
func checkCapacity(capacity int) error {
	if capacity < 1 || lfchan.RoundCapacity(capacity) != capacity {
		return fmt.Errorf("capacity must be a power of 2 >= 1, got %d (nearest: %d)",
			capacity, lfchan.RoundCapacity(capacity))
	}
	return nil
}
