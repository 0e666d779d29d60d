// SPDX-License-Identifier: GPL-3.0-or-later

package prometheus

import (
	"math"
	"os"
	"testing"

	"github.com/mailops/exchange-agent/pkg/prometheus/selector"

	"github.com/prometheus/common/model"
	"github.com/prometheus/prometheus/model/labels"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var dataMetrics, _ = os.ReadFile("testdata/metrics.txt")

func Test_testParseDataIsValid(t *testing.T) {
	require.NotNil(t, dataMetrics)
}

func TestPromTextParser_parseToMetricFamilies(t *testing.T) {
	var p promTextParser

	mfs, err := p.parseToMetricFamilies(dataMetrics)
	require.NoError(t, err)

	want := MetricFamilies{
		"windows_exchange_owa_current_unique_users": {
			name: "windows_exchange_owa_current_unique_users",
			help: "Number of unique users currently logged on to Outlook Web App",
			typ:  model.MetricTypeGauge,
			metrics: []Metric{
				{labels: labels.Labels{}, gauge: &Gauge{value: 14}},
			},
		},
		"windows_exchange_owa_requests_total": {
			name: "windows_exchange_owa_requests_total",
			help: "Number of requests handled by Outlook Web App per second",
			typ:  model.MetricTypeCounter,
			metrics: []Metric{
				{labels: labels.Labels{}, counter: &Counter{value: 2612}},
			},
		},
		"windows_exchange_transport_queues_active_mailbox_delivery": {
			name: "windows_exchange_transport_queues_active_mailbox_delivery",
			typ:  model.MetricTypeGauge,
			metrics: []Metric{
				{
					labels: labels.Labels{{Name: "name", Value: "high priority"}},
					gauge:  &Gauge{value: 2},
				},
				{
					labels: labels.Labels{{Name: "name", Value: "low priority"}},
					gauge:  &Gauge{value: 0},
				},
			},
		},
		"windows_exchange_rpc_averaged_latency_sec": {
			name: "windows_exchange_rpc_averaged_latency_sec",
			help: "Averaged latency in seconds",
			typ:  model.MetricTypeSummary,
			metrics: []Metric{
				{
					labels: labels.Labels{},
					summary: &Summary{
						sum:   283.2,
						count: 31,
						quantiles: []Quantile{
							{quantile: 0.5, value: 0.015},
							{quantile: 0.9, value: 0.025},
						},
					},
				},
			},
		},
		"http_request_duration_seconds": {
			name: "http_request_duration_seconds",
			help: "Request duration in seconds",
			typ:  model.MetricTypeHistogram,
			metrics: []Metric{
				{
					labels: labels.Labels{},
					histogram: &Histogram{
						sum:   0.00147889,
						count: 6,
						buckets: []Bucket{
							{upperBound: 0.1, cumulativeCount: 4},
							{upperBound: 0.5, cumulativeCount: 5},
							{upperBound: math.Inf(1), cumulativeCount: 6},
						},
					},
				},
			},
		},
		"untyped_metric": {
			name: "untyped_metric",
			typ:  model.MetricTypeUnknown,
			metrics: []Metric{
				{
					labels:  labels.Labels{{Name: "label1", Value: "value1"}},
					untyped: &Untyped{value: 11},
				},
			},
		},
	}

	assert.Equal(t, want, mfs)
}

func TestPromTextParser_parseToMetricFamiliesWithSelector(t *testing.T) {
	sr, err := selector.Parse(`windows_exchange_owa_*`)
	require.NoError(t, err)

	p := promTextParser{sr: sr}

	mfs, err := p.parseToMetricFamilies(dataMetrics)
	require.NoError(t, err)

	require.Equal(t, 2, mfs.Len())
	assert.NotNil(t, mfs.GetGauge("windows_exchange_owa_current_unique_users"))
	assert.NotNil(t, mfs.GetCounter("windows_exchange_owa_requests_total"))
}

func TestPromTextParser_parseToMetricFamiliesReuse(t *testing.T) {
	var p promTextParser

	for i := 0; i < 2; i++ {
		mfs, err := p.parseToMetricFamilies(dataMetrics)
		require.NoError(t, err)

		mf := mfs.GetSummary("windows_exchange_rpc_averaged_latency_sec")
		require.NotNil(t, mf)
		require.Len(t, mf.Metrics(), 1)
		assert.Len(t, mf.Metrics()[0].Summary().Quantiles(), 2)
	}
}

func TestPromTextParser_parseToMetricFamiliesNoData(t *testing.T) {
	var p promTextParser

	mfs, err := p.parseToMetricFamilies([]byte("\n"))
	assert.Error(t, err)
	assert.Nil(t, mfs)
}

func TestPromTextParser_parseToSeries(t *testing.T) {
	var p promTextParser

	series, err := p.parseToSeries(dataMetrics)
	require.NoError(t, err)

	assert.Equal(t, 14, series.Len())

	ms := series.FindByName("windows_exchange_owa_current_unique_users")
	require.Equal(t, 1, ms.Len())
	assert.Equal(t, 14.0, ms[0].Value)

	ms = series.FindByName("http_request_duration_seconds_bucket")
	require.Equal(t, 3, ms.Len())
	assert.Equal(t, 6.0, ms.Max())

	ms = series.FindByNames(
		"windows_exchange_owa_requests_total",
		"windows_exchange_transport_queues_active_mailbox_delivery",
	)
	assert.Equal(t, 3, ms.Len())
}

func TestPromTextParser_parseToSeriesNoData(t *testing.T) {
	var p promTextParser

	series, err := p.parseToSeries([]byte("# only a comment\n"))
	assert.Error(t, err)
	assert.Nil(t, series)
}

func TestSeries_FindByNameNotFound(t *testing.T) {
	var p promTextParser

	series, err := p.parseToSeries(dataMetrics)
	require.NoError(t, err)

	assert.Equal(t, 0, series.FindByName("not_existing_metric").Len())
}
