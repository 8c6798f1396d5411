// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package harness

import (
	"context"
	"io"
	"testing"
	"time"

	"code.hybscloud.com/lfchan"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestDefaultStressConfig(t *testing.T) {
	c := DefaultStressConfig()
	assert.Equal(t, 8, c.Producers)
	assert.Equal(t, 10000, c.PerProducer)
	assert.Equal(t, 16, c.Capacity)
	assert.Equal(t, 0, c.Jitter)
	assert.Equal(t, lfchan.DefaultSpin, c.Spin)
	assert.False(t, c.Backoff)
}

func TestDefaultBenchConfig(t *testing.T) {
	c := DefaultBenchConfig()
	assert.Equal(t, 1000, c.Messages)
	assert.Equal(t, 100, c.Batches)
	assert.Equal(t, 64, c.Capacity)
	assert.Equal(t, 1000, c.Rounds)
}

func TestStressConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*StressConfig)
		errMsg string
	}{
		{"defaults", func(*StressConfig) {}, ""},
		{"no producers", func(c *StressConfig) { c.Producers = 0 }, "producers"},
		{"no values", func(c *StressConfig) { c.PerProducer = 0 }, "per-producer"},
		{"negative jitter", func(c *StressConfig) { c.Jitter = -1 }, "jitter"},
		{"zero capacity", func(c *StressConfig) { c.Capacity = 0 }, "power of 2"},
		{"odd capacity", func(c *StressConfig) { c.Capacity = 12 }, "nearest: 16"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultStressConfig()
			tt.mutate(&c)
			err := c.validate()
			if tt.errMsg == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestTagRoundTrip(t *testing.T) {
	for _, tc := range [][2]uint64{{0, 0}, {7, 9999}, {1, 1<<32 - 1}} {
		id, seq := splitTag(makeTag(tc[0], tc[1]))
		assert.Equal(t, tc[0], id)
		assert.Equal(t, tc[1], seq)
	}
}

func TestRunStress(t *testing.T) {
	if lfchan.RaceEnabled {
		t.Skip("skip: ring publishes slots through atomix ordering the race detector cannot see")
	}

	report, err := RunStress(context.Background(), DefaultStressConfig(), quietLogger())
	require.NoError(t, err)

	assert.True(t, report.OK(), "report: %+v", report)
	assert.True(t, report.Disconnected)
	assert.Equal(t, 80000, report.Unique)
	assert.EqualValues(t, 80000, report.Received)
	assert.EqualValues(t, 80000, report.Sent)
	assert.Zero(t, report.Duplicates)
	assert.Zero(t, report.Missing)
	assert.Zero(t, report.OrderViolations)
	assert.Equal(t, 16, report.Capacity)
}

func TestRunStressJitterBackoff(t *testing.T) {
	if lfchan.RaceEnabled {
		t.Skip("skip: ring publishes slots through atomix ordering the race detector cannot see")
	}

	cfg := DefaultStressConfig()
	cfg.Producers = 4
	cfg.PerProducer = 2000
	cfg.Capacity = 4
	cfg.Jitter = 3
	cfg.Backoff = true

	report, err := RunStress(context.Background(), cfg, quietLogger())
	require.NoError(t, err)
	assert.True(t, report.OK(), "report: %+v", report)
	assert.Equal(t, 8000, report.Unique)
}

func TestRunStressCancelled(t *testing.T) {
	if lfchan.RaceEnabled {
		t.Skip("skip: ring publishes slots through atomix ordering the race detector cannot see")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := RunStress(ctx, DefaultStressConfig(), quietLogger())
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, report)
	assert.True(t, report.Disconnected)
	assert.Zero(t, report.Duplicates)
	assert.EqualValues(t, report.Sent, report.Received)
}

func TestRunStressInvalidConfig(t *testing.T) {
	cfg := DefaultStressConfig()
	cfg.Capacity = 10

	report, err := RunStress(context.Background(), cfg, quietLogger())
	require.Error(t, err)
	assert.Nil(t, report)
}

func TestRunBench(t *testing.T) {
	if lfchan.RaceEnabled {
		t.Skip("skip: ring publishes slots through atomix ordering the race detector cannot see")
	}

	cfg := BenchConfig{Messages: 500, Batches: 4, Capacity: 8, Rounds: 200}
	report, err := RunBench(context.Background(), cfg, quietLogger())
	require.NoError(t, err)

	assert.EqualValues(t, 2000, report.Throughput.Messages)
	assert.Equal(t, 8, report.Throughput.Capacity)
	assert.Positive(t, report.Throughput.MessagesPerSec)

	lat := report.Latency
	assert.Equal(t, 200, lat.Rounds)
	assert.LessOrEqual(t, lat.Min, lat.P50)
	assert.LessOrEqual(t, lat.P50, lat.P99)
	assert.LessOrEqual(t, lat.P99, lat.Max)
}

func TestRunBenchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := RunBench(ctx, DefaultBenchConfig(), quietLogger())
	require.ErrorIs(t, err, context.Canceled)
}

func TestSummarize(t *testing.T) {
	samples := make([]time.Duration, 100)
	for i := range samples {
		samples[len(samples)-1-i] = time.Duration(i+1) * time.Microsecond
	}

	res := summarize(samples)
	assert.Equal(t, 100, res.Rounds)
	assert.Equal(t, time.Microsecond, res.Min)
	assert.Equal(t, 100*time.Microsecond, res.Max)
	assert.Equal(t, 50*time.Microsecond, res.P50)
	assert.Equal(t, 99*time.Microsecond, res.P99)
	assert.Equal(t, 50500*time.Nanosecond, res.Mean)

	assert.Equal(t, LatencyResult{}, summarize(nil))
}
