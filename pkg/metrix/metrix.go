// SPDX-License-Identifier: GPL-3.0-or-later

// Package metrix is a helper for creating self-collected metrics
// (counters, gauges, summaries, histograms) that flatten themselves
// into a map[string]int64 via the stm package.
package metrix

import (
	"github.com/mailops/exchange-agent/pkg/stm"
)

// Observer is an interface that wraps the Observe method, which is used by
// Histogram and Summary to add observations.
type Observer interface {
	stm.Value
	Observe(v float64)
}

// Bool converts a bool into 1/0 for use in collected metric maps.
func Bool(v bool) int64 {
	if v {
		return 1
	}
	return 0
}
