// SPDX-License-Identifier: GPL-3.0-or-later

package exchangesrv

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/mailops/exchange-agent/agent/module"
	"github.com/mailops/exchange-agent/pkg/tlscfg"
	"github.com/mailops/exchange-agent/pkg/web"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	dataConfigJSON, _ = os.ReadFile("testdata/config.json")
	dataConfigYAML, _ = os.ReadFile("testdata/config.yaml")

	dataExchangeMetrics, _ = os.ReadFile("testdata/exchange.txt")
)

func Test_testDataIsValid(t *testing.T) {
	for name, data := range map[string][]byte{
		"dataConfigJSON":      dataConfigJSON,
		"dataConfigYAML":      dataConfigYAML,
		"dataExchangeMetrics": dataExchangeMetrics,
	} {
		require.NotNil(t, data, name)
	}
}

func TestCollector_ConfigurationSerialize(t *testing.T) {
	module.TestConfigurationSerialize(t, &Collector{}, dataConfigJSON, dataConfigYAML)
}

func TestCollector_Init(t *testing.T) {
	tests := map[string]struct {
		wantFail bool
		config   Config
	}{
		"success with default config": {
			wantFail: false,
			config:   New().Config,
		},
		"fail when URL not set": {
			wantFail: true,
			config: Config{
				HTTPConfig: web.HTTPConfig{
					RequestConfig: web.RequestConfig{URL: ""},
				},
			},
		},
		"fail when using invalid TLSCA": {
			wantFail: true,
			config: Config{
				HTTPConfig: web.HTTPConfig{
					RequestConfig: web.RequestConfig{URL: "http://127.0.0.1:9182/metrics"},
					ClientConfig: web.ClientConfig{
						TLSConfig: tlscfg.TLSConfig{TLSCA: "testdata/tls"},
					},
				},
			},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			collr := New()
			collr.Config = test.config

			if test.wantFail {
				assert.Error(t, collr.Init(context.Background()))
			} else {
				assert.NoError(t, collr.Init(context.Background()))
			}
		})
	}
}

func TestCollector_Check(t *testing.T) {
	tests := map[string]struct {
		prepare  func(t *testing.T) (*Collector, func())
		wantFail bool
	}{
		"success on valid response": {
			prepare:  prepareCaseOK,
			wantFail: false,
		},
		"fail when exchange collector not enabled": {
			prepare:  prepareCaseNoExchangeCollector,
			wantFail: true,
		},
		"fail on response with unexpected data": {
			prepare:  prepareCaseUnexpectedData,
			wantFail: true,
		},
		"fail on connection refused": {
			prepare:  prepareCaseConnectionRefused,
			wantFail: true,
		},
		"fail on 404 response": {
			prepare:  prepareCase404,
			wantFail: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			collr, cleanup := test.prepare(t)
			defer cleanup()

			if test.wantFail {
				assert.Error(t, collr.Check(context.Background()))
			} else {
				assert.NoError(t, collr.Check(context.Background()))
			}
		})
	}
}

func TestCollector_Charts(t *testing.T) {
	assert.NotNil(t, New().Charts())
}

func TestCollector_Cleanup(t *testing.T) {
	assert.NotPanics(t, func() { New().Cleanup(context.Background()) })
}

func TestCollector_Collect(t *testing.T) {
	tests := map[string]struct {
		prepare     func(t *testing.T) (*Collector, func())
		wantMetrics map[string]int64
	}{
		"success on valid response": {
			prepare: prepareCaseOK,
			wantMetrics: map[string]int64{
				"exchange_collector_duration":       250,
				"exchange_collector_status_success": 1,
				"exchange_collector_status_fail":    0,

				"exchange_activesync_ping_cmds_pending":   2,
				"exchange_activesync_requests_total":      14,
				"exchange_activesync_sync_cmds_total":     7,
				"exchange_autodiscover_requests_total":    1,
				"exchange_avail_service_requests_per_sec": 5,
				"exchange_owa_current_unique_users":       3,
				"exchange_owa_requests_total":             108,
				"exchange_rpc_active_user_count":          11,
				"exchange_rpc_avg_latency_sec":            500,
				"exchange_rpc_connection_count":           6,
				"exchange_rpc_operations_total":           9,
				"exchange_rpc_requests":                   4,
				"exchange_rpc_user_count":                 12,

				"exchange_transport_queues_active_mailbox_delivery_high_priority":           1,
				"exchange_transport_queues_active_mailbox_delivery_low_priority":            0,
				"exchange_transport_queues_active_mailbox_delivery_none_priority":           0,
				"exchange_transport_queues_active_mailbox_delivery_normal_priority":         2,
				"exchange_transport_queues_external_active_remote_delivery_high_priority":   1,
				"exchange_transport_queues_external_active_remote_delivery_low_priority":    0,
				"exchange_transport_queues_external_active_remote_delivery_none_priority":   0,
				"exchange_transport_queues_external_active_remote_delivery_normal_priority": 2,
				"exchange_transport_queues_external_largest_delivery_high_priority":         1,
				"exchange_transport_queues_external_largest_delivery_low_priority":          0,
				"exchange_transport_queues_external_largest_delivery_none_priority":         0,
				"exchange_transport_queues_external_largest_delivery_normal_priority":       2,
				"exchange_transport_queues_internal_active_remote_delivery_high_priority":   1,
				"exchange_transport_queues_internal_active_remote_delivery_low_priority":    0,
				"exchange_transport_queues_internal_active_remote_delivery_none_priority":   0,
				"exchange_transport_queues_internal_active_remote_delivery_normal_priority": 2,
				"exchange_transport_queues_internal_largest_delivery_high_priority":         1,
				"exchange_transport_queues_internal_largest_delivery_low_priority":          0,
				"exchange_transport_queues_internal_largest_delivery_none_priority":         0,
				"exchange_transport_queues_internal_largest_delivery_normal_priority":       2,
				"exchange_transport_queues_poison_high_priority":                            1,
				"exchange_transport_queues_poison_low_priority":                             0,
				"exchange_transport_queues_poison_none_priority":                            0,
				"exchange_transport_queues_poison_normal_priority":                          2,
				"exchange_transport_queues_retry_mailbox_delivery_high_priority":            1,
				"exchange_transport_queues_retry_mailbox_delivery_low_priority":             0,
				"exchange_transport_queues_retry_mailbox_delivery_none_priority":            0,
				"exchange_transport_queues_retry_mailbox_delivery_normal_priority":          2,
				"exchange_transport_queues_unreachable_high_priority":                       1,
				"exchange_transport_queues_unreachable_low_priority":                        0,
				"exchange_transport_queues_unreachable_none_priority":                       0,
				"exchange_transport_queues_unreachable_normal_priority":                     2,

				"exchange_workload_microsoft_exchange_servicehost_darruntime_active_tasks":    11,
				"exchange_workload_microsoft_exchange_servicehost_darruntime_completed_tasks": 1083,
				"exchange_workload_microsoft_exchange_servicehost_darruntime_queued_tasks":    2,
				"exchange_workload_microsoft_exchange_servicehost_darruntime_yielded_tasks":   1,
				"exchange_workload_microsoft_exchange_servicehost_darruntime_is_active":       1,
				"exchange_workload_microsoft_exchange_servicehost_darruntime_is_paused":       0,

				"exchange_ldap_complianceauditservice_10_long_running_ops_per_sec": 0,
				"exchange_ldap_complianceauditservice_10_read_time_sec":            250,
				"exchange_ldap_complianceauditservice_10_search_time_sec":          125,
				"exchange_ldap_complianceauditservice_10_write_time_sec":           500,
				"exchange_ldap_complianceauditservice_10_timeout_errors_total":     0,

				"exchange_http_proxy_autodiscover_avg_auth_latency":                       1,
				"exchange_http_proxy_autodiscover_avg_cas_proccessing_latency_sec":        250,
				"exchange_http_proxy_autodiscover_mailbox_proxy_failure_rate":             125,
				"exchange_http_proxy_autodiscover_mailbox_server_locator_avg_latency_sec": 500,
				"exchange_http_proxy_autodiscover_outstanding_proxy_requests":             0,
				"exchange_http_proxy_autodiscover_requests_total":                         27122,
			},
		},
		"only status when exchange collector failed": {
			prepare: prepareCaseExchangeCollectorFailed,
			wantMetrics: map[string]int64{
				"exchange_collector_duration":       250,
				"exchange_collector_status_success": 0,
				"exchange_collector_status_fail":    1,
			},
		},
		"fail when exchange collector not enabled": {
			prepare:     prepareCaseNoExchangeCollector,
			wantMetrics: nil,
		},
		"fail on connection refused": {
			prepare:     prepareCaseConnectionRefused,
			wantMetrics: nil,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			collr, cleanup := test.prepare(t)
			defer cleanup()

			mx := collr.Collect(context.Background())

			assert.Equal(t, test.wantMetrics, mx)
		})
	}
}

func TestCollector_Collect_createsAndRemovesDynamicCharts(t *testing.T) {
	collr, cleanup := prepareCaseOK(t)
	defer cleanup()

	_ = collr.Collect(context.Background())

	assert.True(t, collr.Charts().Has("workload_microsoft_exchange_servicehost_darruntime_active_tasks"))
	assert.True(t, collr.Charts().Has("ldap_complianceauditservice_10_read_time"))
	assert.True(t, collr.Charts().Has("http_proxy_autodiscover_requests_total"))
}

func prepareCaseOK(t *testing.T) (*Collector, func()) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write(dataExchangeMetrics)
		}))

	collr := New()
	collr.URL = srv.URL
	require.NoError(t, collr.Init(context.Background()))

	return collr, srv.Close
}

func prepareCaseExchangeCollectorFailed(t *testing.T) (*Collector, func()) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`windows_exporter_collector_duration_seconds{collector="exchange"} 0.25
windows_exporter_collector_success{collector="exchange"} 0
`))
		}))

	collr := New()
	collr.URL = srv.URL
	require.NoError(t, collr.Init(context.Background()))

	return collr, srv.Close
}

func prepareCaseNoExchangeCollector(t *testing.T) (*Collector, func()) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`windows_exporter_collector_duration_seconds{collector="cpu"} 0.1
windows_exporter_collector_success{collector="cpu"} 1
`))
		}))

	collr := New()
	collr.URL = srv.URL
	require.NoError(t, collr.Init(context.Background()))

	return collr, srv.Close
}

func prepareCaseUnexpectedData(t *testing.T) (*Collector, func()) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("hello and\n goodbye"))
		}))

	collr := New()
	collr.URL = srv.URL
	require.NoError(t, collr.Init(context.Background()))

	return collr, srv.Close
}

func prepareCase404(t *testing.T) (*Collector, func()) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))

	collr := New()
	collr.URL = srv.URL
	require.NoError(t, collr.Init(context.Background()))

	return collr, srv.Close
}

func prepareCaseConnectionRefused(t *testing.T) (*Collector, func()) {
	t.Helper()
	collr := New()
	collr.URL = "http://127.0.0.1:65001/metrics"
	require.NoError(t, collr.Init(context.Background()))

	return collr, func() {}
}
