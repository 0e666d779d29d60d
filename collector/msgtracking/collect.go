// SPDX-License-Identifier: GPL-3.0-or-later

package msgtracking

import (
	"io"
	"runtime"
	"time"

	"github.com/mailops/exchange-agent/agent/module"
	"github.com/mailops/exchange-agent/pkg/logs"
	"github.com/mailops/exchange-agent/pkg/stm"
)

func (c *Collector) logPanicStackIfAny() {
	err := recover()
	if err == nil {
		return
	}
	c.Errorf("[ERROR] %s\n", err)
	for depth := 0; ; depth++ {
		_, file, line, ok := runtime.Caller(depth)
		if !ok {
			break
		}
		c.Errorf("======> %d: %v:%d", depth, file, line)
	}
	panic(err)
}

func (c *Collector) collect() (map[string]int64, error) {
	defer c.logPanicStackIfAny()
	c.mx.reset()

	var mx map[string]int64

	n, err := c.collectLogLines()

	if !c.lastEventTime.IsZero() {
		c.mx.LastEventLag.Set(time.Since(c.lastEventTime).Seconds())
	}

	if n > 0 || err == nil {
		mx = stm.ToMap(c.mx)
	}
	return mx, err
}

func (c *Collector) collectLogLines() (int, error) {
	var n int
	for {
		c.line.reset()
		err := c.parser.ReadLine(c.line)
		if err != nil {
			if err == io.EOF {
				return n, nil
			}
			if !logs.IsParseError(err) {
				return n, err
			}
			n++
			c.collectUnmatched()
			continue
		}
		n++
		if c.line.empty() {
			c.collectUnmatched()
		} else {
			c.collectLogLine()
		}
	}
}

func (c *Collector) collectLogLine() {
	c.mx.Events.Inc()
	c.collectDateTime()
	c.collectEventID()
	c.collectSource()
	c.collectTotalBytes()
	c.collectRecipientCount()
	c.collectSenderAddress()
}

func (c *Collector) collectUnmatched() {
	c.mx.Events.Inc()
	c.mx.Unmatched.Inc()
}

func (c *Collector) collectDateTime() {
	if !c.line.hasDateTime() {
		return
	}
	if c.line.dateTime.After(c.lastEventTime) {
		c.lastEventTime = c.line.dateTime
	}
}

func (c *Collector) collectEventID() {
	if !c.line.hasEventID() {
		return
	}
	v, ok := c.mx.EventID.GetP(c.line.eventID)
	if !ok {
		c.addDimToEventIDChart(c.line.eventID)
	}
	v.Inc()
}

func (c *Collector) collectSource() {
	if !c.line.hasSource() {
		return
	}
	v, ok := c.mx.Source.GetP(c.line.source)
	if !ok {
		c.addDimToSourceChart(c.line.source)
	}
	v.Inc()
}

func (c *Collector) collectTotalBytes() {
	if !c.line.hasTotalBytes() {
		return
	}
	c.mx.MsgSize.Observe(float64(c.line.totalBytes))
}

func (c *Collector) collectRecipientCount() {
	if !c.line.hasRecipientCount() {
		return
	}
	c.mx.RcptCount.Observe(float64(c.line.recipientCount))
}

func (c *Collector) collectSenderAddress() {
	if !c.line.hasSenderAddress() {
		return
	}
	c.mx.UniqueSenders.Insert(c.line.senderAddr)
}

func (c *Collector) addDimToEventIDChart(eventID string) {
	c.addDimToChart(eventIDChart.ID, pxEventID+eventID, eventID)
}

func (c *Collector) addDimToSourceChart(source string) {
	c.addDimToChart(sourceChart.ID, pxSource+source, source)
}

func (c *Collector) addDimToChart(chartID, dimID, dimName string) {
	chart := c.Charts().Get(chartID)
	if chart == nil {
		c.Warningf("add '%s' dim: couldn't find '%s' chart in charts", dimID, chartID)
		return
	}

	dim := &module.Dim{ID: dimID, Name: dimName, Algo: module.Incremental}

	if err := chart.AddDim(dim); err != nil {
		c.Warningf("add '%s' dim: %v", dimID, err)
		return
	}
	chart.MarkNotCreated()
}
