// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package harness

import (
	"context"
	"runtime"
	"sync"
	"time"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/lfchan"
	"github.com/cornelk/hashmap"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fastrand"
)

// StressReport summarizes one RunStress.
type StressReport struct {
	Producers       int           `json:"producers"`
	PerProducer     int           `json:"per_producer"`
	Capacity        int           `json:"capacity"`
	Sent            int64         `json:"sent"`
	Received        int64         `json:"received"`
	Unique          int           `json:"unique"`
	Duplicates      int           `json:"duplicates"`
	Missing         int           `json:"missing"`
	OrderViolations int           `json:"order_violations"`
	SendErrors      int64         `json:"send_errors"`
	Disconnected    bool          `json:"disconnected"`
	Elapsed         time.Duration `json:"elapsed_ns"`
}

// OK reports whether every tag arrived exactly once, in per-producer
// order, and the receiver observed disconnection.
func (r *StressReport) OK() bool {
	return r.Disconnected &&
		r.Duplicates == 0 &&
		r.Missing == 0 &&
		r.OrderViolations == 0 &&
		r.SendErrors == 0 &&
		r.Unique == r.Producers*r.PerProducer
}

// makeTag packs a producer id and sequence number into one value.
func makeTag(producer, seq uint64) uint64 {
	return producer<<32 | seq
}

func splitTag(tag uint64) (producer, seq uint64) {
	return tag >> 32, tag & 0xffffffff
}

// RunStress spawns cfg.Producers goroutines, each sending cfg.PerProducer
// uniquely tagged values through one channel, and drains it on the calling
// goroutine until the channel disconnects.
//
// Cancelling ctx stops the producers early; the report then covers what
// was sent and RunStress returns ctx.Err().
func RunStress(ctx context.Context, cfg StressConfig, log logrus.FieldLogger) (*StressReport, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	tx, rx := lfchan.Build[uint64](cfg.builder())
	defer rx.Close()

	report := &StressReport{
		Producers:   cfg.Producers,
		PerProducer: cfg.PerProducer,
		Capacity:    tx.Cap(),
	}
	log.WithFields(logrus.Fields{
		"producers":    cfg.Producers,
		"per_producer": cfg.PerProducer,
		"capacity":     report.Capacity,
		"backoff":      cfg.Backoff,
	}).Info("stress: starting")

	var sent, sendErrors atomix.Int64
	var wg sync.WaitGroup
	start := time.Now()

	for p := range cfg.Producers {
		wg.Add(1)
		go func(id uint64, tx *lfchan.Sender[uint64]) {
			defer wg.Done()
			defer tx.Close()
			for seq := range uint64(cfg.PerProducer) {
				if ctx.Err() != nil {
					return
				}
				if cfg.Jitter > 0 {
					for range fastrand.Uint32n(uint32(cfg.Jitter) + 1) {
						runtime.Gosched()
					}
				}
				if err := tx.Send(makeTag(id, seq)); err != nil {
					sendErrors.Add(1)
					log.WithError(err).WithField("producer", id).Warn("stress: send failed")
					return
				}
				sent.Add(1)
			}
			log.WithField("producer", id).Debug("stress: producer done")
		}(uint64(p), tx.Clone())
	}
	tx.Close()

	seen := hashmap.New[uint64, struct{}]()
	last := make([]int64, cfg.Producers)
	for i := range last {
		last[i] = -1
	}

	for {
		tag, err := rx.Recv()
		if err != nil {
			report.Disconnected = lfchan.IsDisconnected(err)
			break
		}
		report.Received++

		if !seen.Insert(tag, struct{}{}) {
			report.Duplicates++
			continue
		}
		id, seq := splitTag(tag)
		if id >= uint64(cfg.Producers) {
			report.OrderViolations++
			continue
		}
		if int64(seq) <= last[id] {
			report.OrderViolations++
		}
		last[id] = int64(seq)
	}
	wg.Wait()

	report.Elapsed = time.Since(start)
	report.Sent = sent.Load()
	report.SendErrors = sendErrors.Load()
	report.Unique = seen.Len()
	report.Missing = cfg.Producers*cfg.PerProducer - report.Unique

	fields := logrus.Fields{
		"received":   report.Received,
		"unique":     report.Unique,
		"duplicates": report.Duplicates,
		"missing":    report.Missing,
		"elapsed":    report.Elapsed,
	}
	if err := ctx.Err(); err != nil {
		log.WithFields(fields).Warn("stress: cancelled")
		return report, err
	}
	if report.OK() {
		log.WithFields(fields).Info("stress: passed")
	} else {
		log.WithFields(fields).Error("stress: failed")
	}
	return report, nil
}
