// SPDX-License-Identifier: GPL-3.0-or-later

package exchangesrv

import (
	"errors"
	"net/http"

	"github.com/mailops/exchange-agent/pkg/prometheus"
	"github.com/mailops/exchange-agent/pkg/prometheus/selector"
)

func (c *Collector) validateConfig() error {
	if c.URL == "" {
		return errors.New("'url' is not set")
	}
	return nil
}

func (c *Collector) initPrometheusClient(httpClient *http.Client) (prometheus.Prometheus, error) {
	se := selector.Expr{Allow: []string{
		metricCollectorDuration,
		metricCollectorSuccess,
		"windows_exchange_*",
	}}

	sr, err := se.Parse()
	if err != nil {
		return nil, err
	}

	return prometheus.NewWithSelector(httpClient, c.RequestConfig, sr), nil
}
