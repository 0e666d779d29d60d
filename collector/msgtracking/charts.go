// SPDX-License-Identifier: GPL-3.0-or-later

package msgtracking

import (
	"errors"

	"github.com/mailops/exchange-agent/agent/module"
)

const (
	prioEvents = module.Priority + iota
	prioUnmatched
	prioEventIDEvents
	prioSourceEvents
	prioMsgSize
	prioRcptCount
	prioUniqueSenders
	prioLastEventLag
)

var (
	eventsChart = module.Chart{
		ID:       "events",
		Title:    "Total processed log lines",
		Units:    "events/s",
		Fam:      "events",
		Ctx:      "msgtracking.events",
		Priority: prioEvents,
		Dims: module.Dims{
			{ID: "events", Algo: module.Incremental},
		},
	}
	unmatchedChart = module.Chart{
		ID:       "unmatched",
		Title:    "Lines that did not match the configured format",
		Units:    "events/s",
		Fam:      "events",
		Ctx:      "msgtracking.unmatched",
		Priority: prioUnmatched,
		Dims: module.Dims{
			{ID: "unmatched", Algo: module.Incremental},
		},
	}
	eventIDChart = module.Chart{
		ID:       "event_id_events",
		Title:    "Events by event type",
		Units:    "events/s",
		Fam:      "events",
		Ctx:      "msgtracking.event_id_events",
		Priority: prioEventIDEvents,
		Type:     module.Stacked,
	}
	sourceChart = module.Chart{
		ID:       "source_events",
		Title:    "Events by transport source",
		Units:    "events/s",
		Fam:      "events",
		Ctx:      "msgtracking.source_events",
		Priority: prioSourceEvents,
		Type:     module.Stacked,
	}
	msgSizeChart = module.Chart{
		ID:       "msg_size",
		Title:    "Message size",
		Units:    "bytes",
		Fam:      "messages",
		Ctx:      "msgtracking.msg_size",
		Priority: prioMsgSize,
		Dims: module.Dims{
			{ID: "msg_size_min", Name: "min"},
			{ID: "msg_size_max", Name: "max"},
			{ID: "msg_size_avg", Name: "avg"},
		},
	}
	rcptCountChart = module.Chart{
		ID:       "rcpt_count",
		Title:    "Recipients per message",
		Units:    "recipients",
		Fam:      "messages",
		Ctx:      "msgtracking.rcpt_count",
		Priority: prioRcptCount,
		Dims: module.Dims{
			{ID: "rcpt_count_min", Name: "min"},
			{ID: "rcpt_count_max", Name: "max"},
			{ID: "rcpt_count_avg", Name: "avg"},
		},
	}
	uniqueSendersChart = module.Chart{
		ID:       "unique_senders",
		Title:    "Unique senders in the current interval",
		Units:    "senders",
		Fam:      "messages",
		Ctx:      "msgtracking.unique_senders",
		Priority: prioUniqueSenders,
		Dims: module.Dims{
			{ID: "unique_senders", Name: "senders"},
		},
	}
	lastEventLagChart = module.Chart{
		ID:       "last_event_lag_time",
		Title:    "Time since the newest event in the log",
		Units:    "milliseconds",
		Fam:      "timings",
		Ctx:      "msgtracking.last_event_lag_time",
		Priority: prioLastEventLag,
		Dims: module.Dims{
			{ID: "last_event_lag_time", Name: "lag"},
		},
	}
)

func (c *Collector) createCharts(line *logLine) error {
	if line.empty() {
		return errors.New("empty line")
	}

	charts := module.Charts{
		eventsChart.Copy(),
		unmatchedChart.Copy(),
	}

	if line.hasEventID() {
		if err := charts.Add(eventIDChart.Copy()); err != nil {
			return err
		}
	}
	if line.hasSource() {
		if err := charts.Add(sourceChart.Copy()); err != nil {
			return err
		}
	}
	if line.hasTotalBytes() {
		if err := charts.Add(msgSizeChart.Copy()); err != nil {
			return err
		}
	}
	if line.hasRecipientCount() {
		if err := charts.Add(rcptCountChart.Copy()); err != nil {
			return err
		}
	}
	if line.hasSenderAddress() {
		if err := charts.Add(uniqueSendersChart.Copy()); err != nil {
			return err
		}
	}
	if line.hasDateTime() {
		if err := charts.Add(lastEventLagChart.Copy()); err != nil {
			return err
		}
	}

	c.charts = &charts

	return nil
}
