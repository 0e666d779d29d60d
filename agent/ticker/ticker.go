// SPDX-License-Identifier: GPL-3.0-or-later

package ticker

import "time"

type (
	// Ticker holds a channel that delivers ticks of a clock at intervals.
	// The ticks are aligned to interval boundaries.
	Ticker struct {
		C        <-chan int
		done     chan struct{}
		loops    int
		interval time.Duration
	}
)

// New returns a new Ticker containing a channel that will send the tick sequence number
// with a period specified by the interval argument.
func New(interval time.Duration) *Ticker {
	ticker := &Ticker{
		interval: interval,
		done:     make(chan struct{}, 1),
	}
	ticker.start()
	return ticker
}

func (t *Ticker) start() {
	ch := make(chan int)
	t.C = ch
	go func() {
	LOOP:
		for {
			now := time.Now()
			nextRun := now.Truncate(t.interval).Add(t.interval)

			time.Sleep(nextRun.Sub(now))
			select {
			case <-t.done:
				close(ch)
				break LOOP
			case ch <- t.loops:
				t.loops++
			}
		}
	}()
}

// Stop stops the Ticker.
func (t *Ticker) Stop() {
	t.done <- struct{}{}
}
