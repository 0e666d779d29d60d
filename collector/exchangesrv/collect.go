// SPDX-License-Identifier: GPL-3.0-or-later

package exchangesrv

import (
	"errors"
	"strings"

	"github.com/mailops/exchange-agent/pkg/metrix"
	"github.com/mailops/exchange-agent/pkg/prometheus"
)

const precision = 1000

const (
	metricCollectorDuration = "windows_exporter_collector_duration_seconds"
	metricCollectorSuccess  = "windows_exporter_collector_success"

	exchangeCollector = "exchange"
)

const (
	metricActiveSyncPingCmdsPending  = "windows_exchange_activesync_ping_cmds_pending"
	metricActiveSyncRequestsTotal    = "windows_exchange_activesync_requests_total"
	metricActiveSyncCMDsTotal        = "windows_exchange_activesync_sync_cmds_total"
	metricAutoDiscoverRequestsTotal  = "windows_exchange_autodiscover_requests_total"
	metricAvailServiceRequestsPerSec = "windows_exchange_avail_service_requests_per_sec"
	metricOWACurrentUniqueUsers      = "windows_exchange_owa_current_unique_users"
	metricOWARequestsTotal           = "windows_exchange_owa_requests_total"
	metricRPCActiveUserCount         = "windows_exchange_rpc_active_user_count"
	metricRPCAvgLatencySec           = "windows_exchange_rpc_avg_latency_sec"
	metricRPCConnectionCount         = "windows_exchange_rpc_connection_count"
	metricRPCOperationsTotal         = "windows_exchange_rpc_operations_total"
	metricRPCRequests                = "windows_exchange_rpc_requests"
	metricRPCUserCount               = "windows_exchange_rpc_user_count"

	metricTransportQueuesActiveMailboxDelivery        = "windows_exchange_transport_queues_active_mailbox_delivery"
	metricTransportQueuesExternalActiveRemoteDelivery = "windows_exchange_transport_queues_external_active_remote_delivery"
	metricTransportQueuesExternalLargestDelivery      = "windows_exchange_transport_queues_external_largest_delivery"
	metricTransportQueuesInternalActiveRemoteDelivery = "windows_exchange_transport_queues_internal_active_remote_delivery"
	metricTransportQueuesInternalLargestDelivery      = "windows_exchange_transport_queues_internal_largest_delivery"
	metricTransportQueuesPoison                       = "windows_exchange_transport_queues_poison"
	metricTransportQueuesRetryMailboxDelivery         = "windows_exchange_transport_queues_retry_mailbox_delivery"
	metricTransportQueuesUnreachable                  = "windows_exchange_transport_queues_unreachable"

	metricWorkloadActiveTasks    = "windows_exchange_workload_active_tasks"
	metricWorkloadCompletedTasks = "windows_exchange_workload_completed_tasks"
	metricWorkloadQueuedTasks    = "windows_exchange_workload_queued_tasks"
	metricWorkloadYieldedTasks   = "windows_exchange_workload_yielded_tasks"
	metricWorkloadIsActive       = "windows_exchange_workload_is_active"

	metricLDAPLongRunningOPSPerSec = "windows_exchange_ldap_long_running_ops_per_sec"
	metricLDAPReadTimeSec          = "windows_exchange_ldap_read_time_sec"
	metricLDAPSearchTimeSec        = "windows_exchange_ldap_search_time_sec"
	metricLDAPWriteTimeSec         = "windows_exchange_ldap_write_time_sec"
	metricLDAPTimeoutErrorsTotal   = "windows_exchange_ldap_timeout_errors_total"

	// the exporter misspells 'processing' in this family name
	metricHTTPProxyAvgAuthLatency                    = "windows_exchange_http_proxy_avg_auth_latency"
	metricHTTPProxyAvgCASProcessingLatencySec        = "windows_exchange_http_proxy_avg_cas_proccessing_latency_sec"
	metricHTTPProxyMailboxProxyFailureRate           = "windows_exchange_http_proxy_mailbox_proxy_failure_rate"
	metricHTTPProxyMailboxServerLocatorAvgLatencySec = "windows_exchange_http_proxy_mailbox_server_locator_avg_latency_sec"
	metricHTTPProxyOutstandingProxyRequests          = "windows_exchange_http_proxy_outstanding_proxy_requests"
	metricHTTPProxyRequestsTotal                     = "windows_exchange_http_proxy_requests_total"
)

func (c *Collector) collect() (map[string]int64, error) {
	pms, err := c.prom.ScrapeSeries()
	if err != nil {
		return nil, err
	}

	var found, success bool
	for _, pm := range pms.FindByName(metricCollectorSuccess) {
		if pm.Labels.Get("collector") == exchangeCollector {
			found, success = true, pm.Value == 1
			break
		}
	}
	if !found {
		return nil, errors.New("exporter has no 'exchange' collector enabled")
	}

	mx := make(map[string]int64)

	mx["exchange_collector_status_success"] = metrix.Bool(success)
	mx["exchange_collector_status_fail"] = metrix.Bool(!success)
	for _, pm := range pms.FindByName(metricCollectorDuration) {
		if pm.Labels.Get("collector") == exchangeCollector {
			mx["exchange_collector_duration"] = int64(pm.Value * precision)
		}
	}

	if success {
		c.collectMetrics(mx, pms)
	}

	return mx, nil
}

func (c *Collector) collectMetrics(mx map[string]int64, pms prometheus.Series) {
	if pm := pms.FindByName(metricActiveSyncPingCmdsPending); pm.Len() > 0 {
		mx["exchange_activesync_ping_cmds_pending"] = int64(pm.Max())
	}
	if pm := pms.FindByName(metricActiveSyncRequestsTotal); pm.Len() > 0 {
		mx["exchange_activesync_requests_total"] = int64(pm.Max())
	}
	if pm := pms.FindByName(metricActiveSyncCMDsTotal); pm.Len() > 0 {
		mx["exchange_activesync_sync_cmds_total"] = int64(pm.Max())
	}
	if pm := pms.FindByName(metricAutoDiscoverRequestsTotal); pm.Len() > 0 {
		mx["exchange_autodiscover_requests_total"] = int64(pm.Max())
	}
	if pm := pms.FindByName(metricAvailServiceRequestsPerSec); pm.Len() > 0 {
		mx["exchange_avail_service_requests_per_sec"] = int64(pm.Max())
	}
	if pm := pms.FindByName(metricOWACurrentUniqueUsers); pm.Len() > 0 {
		mx["exchange_owa_current_unique_users"] = int64(pm.Max())
	}
	if pm := pms.FindByName(metricOWARequestsTotal); pm.Len() > 0 {
		mx["exchange_owa_requests_total"] = int64(pm.Max())
	}
	if pm := pms.FindByName(metricRPCActiveUserCount); pm.Len() > 0 {
		mx["exchange_rpc_active_user_count"] = int64(pm.Max())
	}
	if pm := pms.FindByName(metricRPCAvgLatencySec); pm.Len() > 0 {
		mx["exchange_rpc_avg_latency_sec"] = int64(pm.Max() * precision)
	}
	if pm := pms.FindByName(metricRPCConnectionCount); pm.Len() > 0 {
		mx["exchange_rpc_connection_count"] = int64(pm.Max())
	}
	if pm := pms.FindByName(metricRPCOperationsTotal); pm.Len() > 0 {
		mx["exchange_rpc_operations_total"] = int64(pm.Max())
	}
	if pm := pms.FindByName(metricRPCRequests); pm.Len() > 0 {
		mx["exchange_rpc_requests"] = int64(pm.Max())
	}
	if pm := pms.FindByName(metricRPCUserCount); pm.Len() > 0 {
		mx["exchange_rpc_user_count"] = int64(pm.Max())
	}

	c.collectTransportQueueMetrics(mx, pms)
	c.collectWorkloadMetrics(mx, pms)
	c.collectLDAPMetrics(mx, pms)
	c.collectHTTPProxyMetrics(mx, pms)
}

func (c *Collector) collectTransportQueueMetrics(mx map[string]int64, pms prometheus.Series) {
	pms = pms.FindByNames(
		metricTransportQueuesActiveMailboxDelivery,
		metricTransportQueuesExternalActiveRemoteDelivery,
		metricTransportQueuesExternalLargestDelivery,
		metricTransportQueuesInternalActiveRemoteDelivery,
		metricTransportQueuesInternalLargestDelivery,
		metricTransportQueuesPoison,
		metricTransportQueuesRetryMailboxDelivery,
		metricTransportQueuesUnreachable,
	)

	for _, pm := range pms {
		if name := pm.Labels.Get("name"); name != "" && name != "total_excluding_priority_none" {
			metric := strings.TrimPrefix(pm.Name(), "windows_")
			mx[metric+"_"+name] += int64(pm.Value)
		}
	}
}

func (c *Collector) collectWorkloadMetrics(mx map[string]int64, pms prometheus.Series) {
	seen := make(map[string]bool)

	for _, pm := range pms.FindByNames(
		metricWorkloadActiveTasks,
		metricWorkloadCompletedTasks,
		metricWorkloadQueuedTasks,
		metricWorkloadYieldedTasks,
	) {
		if name := pm.Labels.Get("name"); name != "" {
			seen[name] = true
			metric := strings.TrimPrefix(pm.Name(), "windows_exchange_workload_")
			mx["exchange_workload_"+name+"_"+metric] += int64(pm.Value)
		}
	}

	for _, pm := range pms.FindByName(metricWorkloadIsActive) {
		if name := pm.Labels.Get("name"); name != "" {
			seen[name] = true
			mx["exchange_workload_"+name+"_is_active"] += metrix.Bool(pm.Value == 1)
			mx["exchange_workload_"+name+"_is_paused"] += metrix.Bool(pm.Value == 0)
		}
	}

	for name := range seen {
		if !c.cache.workload[name] {
			c.cache.workload[name] = true
			c.addWorkloadCharts(name)
		}
	}
	for name := range c.cache.workload {
		if !seen[name] {
			delete(c.cache.workload, name)
			c.removeWorkloadCharts(name)
		}
	}
}

func (c *Collector) collectLDAPMetrics(mx map[string]int64, pms prometheus.Series) {
	seen := make(map[string]bool)

	for _, pm := range pms.FindByNames(
		metricLDAPLongRunningOPSPerSec,
		metricLDAPTimeoutErrorsTotal,
	) {
		if name := pm.Labels.Get("name"); name != "" {
			seen[name] = true
			metric := strings.TrimPrefix(pm.Name(), "windows_exchange_ldap_")
			mx["exchange_ldap_"+name+"_"+metric] += int64(pm.Value)
		}
	}

	for _, pm := range pms.FindByNames(
		metricLDAPReadTimeSec,
		metricLDAPSearchTimeSec,
		metricLDAPWriteTimeSec,
	) {
		if name := pm.Labels.Get("name"); name != "" {
			seen[name] = true
			metric := strings.TrimPrefix(pm.Name(), "windows_exchange_ldap_")
			mx["exchange_ldap_"+name+"_"+metric] += int64(pm.Value * precision)
		}
	}

	for name := range seen {
		if !c.cache.ldap[name] {
			c.cache.ldap[name] = true
			c.addLDAPCharts(name)
		}
	}
	for name := range c.cache.ldap {
		if !seen[name] {
			delete(c.cache.ldap, name)
			c.removeLDAPCharts(name)
		}
	}
}

func (c *Collector) collectHTTPProxyMetrics(mx map[string]int64, pms prometheus.Series) {
	seen := make(map[string]bool)

	for _, pm := range pms.FindByNames(
		metricHTTPProxyAvgAuthLatency,
		metricHTTPProxyOutstandingProxyRequests,
		metricHTTPProxyRequestsTotal,
	) {
		if name := pm.Labels.Get("name"); name != "" {
			seen[name] = true
			metric := strings.TrimPrefix(pm.Name(), "windows_exchange_http_proxy_")
			mx["exchange_http_proxy_"+name+"_"+metric] += int64(pm.Value)
		}
	}

	for _, pm := range pms.FindByNames(
		metricHTTPProxyAvgCASProcessingLatencySec,
		metricHTTPProxyMailboxProxyFailureRate,
		metricHTTPProxyMailboxServerLocatorAvgLatencySec,
	) {
		if name := pm.Labels.Get("name"); name != "" {
			seen[name] = true
			metric := strings.TrimPrefix(pm.Name(), "windows_exchange_http_proxy_")
			mx["exchange_http_proxy_"+name+"_"+metric] += int64(pm.Value * precision)
		}
	}

	for name := range seen {
		if !c.cache.httpProxy[name] {
			c.cache.httpProxy[name] = true
			c.addHTTPProxyCharts(name)
		}
	}
	for name := range c.cache.httpProxy {
		if !seen[name] {
			delete(c.cache.httpProxy, name)
			c.removeHTTPProxyCharts(name)
		}
	}
}
