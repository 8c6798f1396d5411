// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfchan

import (
	"runtime"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/spin"
)

// waiter is the busy-wait used by blocking Send and Recv.
//
// Default mode pauses the CPU for up to spin rounds and then yields the
// processor each round. Backoff mode delegates to iox.Backoff.
// A waiter never parks the goroutine on a lock.
type waiter struct {
	sw      spin.Wait
	bo      iox.Backoff
	rounds  int
	spin    int
	backoff bool
}

func newWaiter(opts *Options) waiter {
	return waiter{spin: opts.spin, backoff: opts.backoff}
}

func (w *waiter) Wait() {
	if w.backoff {
		w.bo.Wait()
		return
	}
	if w.rounds < w.spin {
		w.rounds++
		w.sw.Once()
		return
	}
	runtime.Gosched()
}

func (w *waiter) Reset() {
	w.rounds = 0
	w.sw = spin.Wait{}
	w.bo.Reset()
}
