// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package harness

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"code.hybscloud.com/lfchan"
	"github.com/sirupsen/logrus"
)

// BenchReport holds throughput and round-trip latency measurements.
type BenchReport struct {
	Throughput ThroughputResult `json:"throughput"`
	Latency    LatencyResult    `json:"latency"`
}

// ThroughputResult is one producer streaming batches into one consumer.
type ThroughputResult struct {
	Capacity       int           `json:"capacity"`
	Messages       int64         `json:"messages"`
	Elapsed        time.Duration `json:"elapsed_ns"`
	MessagesPerSec float64       `json:"messages_per_sec"`
}

// LatencyResult is ping-pong round trips over two capacity-1 channels.
type LatencyResult struct {
	Rounds int           `json:"rounds"`
	Min    time.Duration `json:"min_ns"`
	Mean   time.Duration `json:"mean_ns"`
	P50    time.Duration `json:"p50_ns"`
	P99    time.Duration `json:"p99_ns"`
	Max    time.Duration `json:"max_ns"`
}

// RunBench measures throughput and then latency.
func RunBench(ctx context.Context, cfg BenchConfig, log logrus.FieldLogger) (*BenchReport, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	tp, err := measureThroughput(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	lat, err := measureLatency(ctx, cfg.Rounds, log)
	if err != nil {
		return nil, err
	}
	return &BenchReport{Throughput: tp, Latency: lat}, nil
}

func measureThroughput(ctx context.Context, cfg BenchConfig, log logrus.FieldLogger) (ThroughputResult, error) {
	res := ThroughputResult{Capacity: cfg.Capacity}

	for batch := range cfg.Batches {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		tx, rx := lfchan.Channel[int](cfg.Capacity)
		start := time.Now()
		go func() {
			defer tx.Close()
			for i := range cfg.Messages {
				if tx.Send(i) != nil {
					return
				}
			}
		}()
		var n int
		for range rx.All() {
			n++
		}
		res.Elapsed += time.Since(start)
		rx.Close()

		if n != cfg.Messages {
			return res, fmt.Errorf("batch %d: received %d of %d messages", batch, n, cfg.Messages)
		}
		res.Messages += int64(n)
	}

	if res.Elapsed > 0 {
		res.MessagesPerSec = float64(res.Messages) / res.Elapsed.Seconds()
	}
	log.WithFields(logrus.Fields{
		"messages": res.Messages,
		"elapsed":  res.Elapsed,
		"rate":     fmt.Sprintf("%.0f/s", res.MessagesPerSec),
	}).Info("bench: throughput")
	return res, nil
}

var errEchoStopped = errors.New("harness: echo goroutine stopped")

func measureLatency(ctx context.Context, rounds int, log logrus.FieldLogger) (LatencyResult, error) {
	pingTx, pingRx := lfchan.Channel[int](1)
	pongTx, pongRx := lfchan.Channel[int](1)
	defer pongRx.Close()
	defer pingTx.Close()

	go func() {
		defer pongTx.Close()
		defer pingRx.Close()
		for v := range pingRx.All() {
			if pongTx.Send(v) != nil {
				return
			}
		}
	}()

	samples := make([]time.Duration, 0, rounds)
	for i := range rounds {
		if err := ctx.Err(); err != nil {
			return LatencyResult{}, err
		}
		start := time.Now()
		if err := pingTx.Send(i); err != nil {
			return LatencyResult{}, errEchoStopped
		}
		v, err := pongRx.Recv()
		if err != nil {
			return LatencyResult{}, errEchoStopped
		}
		samples = append(samples, time.Since(start))
		if v != i {
			return LatencyResult{}, fmt.Errorf("round %d: echoed %d", i, v)
		}
	}

	res := summarize(samples)
	log.WithFields(logrus.Fields{
		"rounds": res.Rounds,
		"p50":    res.P50,
		"p99":    res.P99,
	}).Info("bench: latency")
	return res, nil
}

func summarize(samples []time.Duration) LatencyResult {
	res := LatencyResult{Rounds: len(samples)}
	if len(samples) == 0 {
		return res
	}
	slices.Sort(samples)

	var total time.Duration
	for _, d := range samples {
		total += d
	}
	res.Min = samples[0]
	res.Max = samples[len(samples)-1]
	res.Mean = total / time.Duration(len(samples))
	res.P50 = percentile(samples, 50)
	res.P99 = percentile(samples, 99)
	return res
}

// percentile expects sorted samples.
func percentile(sorted []time.Duration, p int) time.Duration {
	idx := (len(sorted)*p + 99) / 100
	if idx > 0 {
		idx--
	}
	return sorted[idx]
}
