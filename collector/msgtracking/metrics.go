// SPDX-License-Identifier: GPL-3.0-or-later

package msgtracking

import "github.com/mailops/exchange-agent/pkg/metrix"

func newSummary() metrix.Summary {
	return &summary{metrix.NewSummary()}
}

type summary struct {
	metrix.Summary
}

func (s summary) WriteTo(rv map[string]int64, key string, mul, div int) {
	s.Summary.WriteTo(rv, key, mul, div)
	if _, ok := rv[key+"_min"]; !ok {
		rv[key+"_min"] = 0
		rv[key+"_max"] = 0
		rv[key+"_avg"] = 0
	}
}

const (
	pxEventID = "event_id_"
	pxSource  = "source_"
)

type metricsData struct {
	Events    metrix.Counter `stm:"events"`
	Unmatched metrix.Counter `stm:"unmatched"`

	EventID metrix.CounterVec `stm:"event_id"`
	Source  metrix.CounterVec `stm:"source"`

	MsgSize       metrix.Summary       `stm:"msg_size"`
	RcptCount     metrix.Summary       `stm:"rcpt_count"`
	UniqueSenders metrix.UniqueCounter `stm:"unique_senders"`

	// seconds behind now of the newest parsed event, written out in ms
	LastEventLag metrix.Gauge `stm:"last_event_lag_time,1000,1"`
}

func (m *metricsData) reset() {
	m.MsgSize.Reset()
	m.RcptCount.Reset()
	m.UniqueSenders.Reset()
	m.LastEventLag.Set(0)
}

func newMetricsData() *metricsData {
	return &metricsData{
		EventID:       metrix.NewCounterVec(),
		Source:        metrix.NewCounterVec(),
		MsgSize:       newSummary(),
		RcptCount:     newSummary(),
		UniqueSenders: metrix.NewUniqueCounter(true),
	}
}
