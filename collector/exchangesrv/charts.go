// SPDX-License-Identifier: GPL-3.0-or-later

package exchangesrv

import (
	"fmt"
	"strings"

	"github.com/mailops/exchange-agent/agent/module"
)

const (
	prioActiveSyncPingCMDsPending = module.Priority + iota
	prioActiveSyncRequests
	prioActiveSyncSyncCMDs

	prioAutoDiscoverRequests
	prioAvailServiceRequests

	prioOWACurrentUniqueUsers
	prioOWARequestsTotal

	prioRPCActiveUserCount
	prioRPCAvgLatency
	prioRPCConnectionCount
	prioRPCOperationsTotal
	prioRPCRequests
	prioRPCUserCount

	prioTransportQueuesActiveMailboxDelivery
	prioTransportQueuesExternalActiveRemoteDelivery
	prioTransportQueuesExternalLargestDelivery
	prioTransportQueuesInternalActiveRemoteDelivery
	prioTransportQueuesInternalLargestDelivery
	prioTransportQueuesRetryMailboxDelivery
	prioTransportQueuesUnreachable
	prioTransportQueuesPoison

	prioWorkloadActiveTasks
	prioWorkloadCompletedTasks
	prioWorkloadQueuedTasks
	prioWorkloadYieldedTasks
	prioWorkloadActivityStatus

	prioLDAPLongRunningOPS
	prioLDAPReadTime
	prioLDAPSearchTime
	prioLDAPWriteTime
	prioLDAPTimeoutErrors

	prioHTTPProxyAvgAuthLatency
	prioHTTPProxyAvgCASProcessingLatency
	prioHTTPProxyMailboxProxyFailureRate
	prioHTTPProxyServerLocatorAvgLatency
	prioHTTPProxyOutstandingProxyRequests
	prioHTTPProxyRequestsTotal

	prioCollectorDuration
	prioCollectorStatus
)

var baseCharts = module.Charts{
	activeSyncPingCMDsPendingChart.Copy(),
	activeSyncRequestsChart.Copy(),
	activeSyncCMDsChart.Copy(),
	autoDiscoverRequestsChart.Copy(),
	availServiceRequestsChart.Copy(),
	owaCurrentUniqueUsersChart.Copy(),
	owaRequestsChart.Copy(),
	rpcActiveUserCountChart.Copy(),
	rpcAvgLatencyChart.Copy(),
	rpcConnectionCountChart.Copy(),
	rpcOperationsChart.Copy(),
	rpcRequestsChart.Copy(),
	rpcUserCountChart.Copy(),
	transportQueuesActiveMailboxDeliveryChart.Copy(),
	transportQueuesExternalActiveRemoteDeliveryChart.Copy(),
	transportQueuesExternalLargestDeliveryChart.Copy(),
	transportQueuesInternalActiveRemoteDeliveryChart.Copy(),
	transportQueuesInternalLargestDeliveryChart.Copy(),
	transportQueuesRetryMailboxDeliveryChart.Copy(),
	transportQueuesUnreachableChart.Copy(),
	transportQueuesPoisonChart.Copy(),
	collectorDurationChart.Copy(),
	collectorStatusChart.Copy(),
}

var (
	activeSyncPingCMDsPendingChart = module.Chart{
		ID:       "activesync_ping_cmds_pending",
		Title:    "Ping commands pending in queue",
		Units:    "commands",
		Fam:      "sync",
		Ctx:      "exchange.activesync_ping_cmds_pending",
		Priority: prioActiveSyncPingCMDsPending,
		Dims: module.Dims{
			{ID: "exchange_activesync_ping_cmds_pending", Name: "pending"},
		},
	}
	activeSyncRequestsChart = module.Chart{
		ID:       "activesync_requests",
		Title:    "HTTP requests received from ASP.NET",
		Units:    "requests/s",
		Fam:      "sync",
		Ctx:      "exchange.activesync_requests",
		Priority: prioActiveSyncRequests,
		Dims: module.Dims{
			{ID: "exchange_activesync_requests_total", Name: "received", Algo: module.Incremental},
		},
	}
	activeSyncCMDsChart = module.Chart{
		ID:       "activesync_sync_cmds",
		Title:    "Sync commands processed",
		Units:    "commands/s",
		Fam:      "sync",
		Ctx:      "exchange.activesync_sync_cmds",
		Priority: prioActiveSyncSyncCMDs,
		Dims: module.Dims{
			{ID: "exchange_activesync_sync_cmds_total", Name: "processed", Algo: module.Incremental},
		},
	}
	autoDiscoverRequestsChart = module.Chart{
		ID:       "autodiscover_requests",
		Title:    "Autodiscover service requests processed",
		Units:    "requests/s",
		Fam:      "requests",
		Ctx:      "exchange.autodiscover_requests",
		Priority: prioAutoDiscoverRequests,
		Dims: module.Dims{
			{ID: "exchange_autodiscover_requests_total", Name: "processed", Algo: module.Incremental},
		},
	}
	availServiceRequestsChart = module.Chart{
		ID:       "avail_service_requests",
		Title:    "Requests serviced",
		Units:    "requests/s",
		Fam:      "requests",
		Ctx:      "exchange.avail_service_requests",
		Priority: prioAvailServiceRequests,
		Dims: module.Dims{
			{ID: "exchange_avail_service_requests_per_sec", Name: "serviced", Algo: module.Incremental},
		},
	}
	owaCurrentUniqueUsersChart = module.Chart{
		ID:       "owa_current_unique_users",
		Title:    "Unique users currently logged on to Outlook Web App",
		Units:    "users",
		Fam:      "owa",
		Ctx:      "exchange.owa_current_unique_users",
		Priority: prioOWACurrentUniqueUsers,
		Dims: module.Dims{
			{ID: "exchange_owa_current_unique_users", Name: "logged-in"},
		},
	}
	owaRequestsChart = module.Chart{
		ID:       "owa_requests_total",
		Title:    "Requests handled by Outlook Web App",
		Units:    "requests/s",
		Fam:      "owa",
		Ctx:      "exchange.owa_requests_total",
		Priority: prioOWARequestsTotal,
		Dims: module.Dims{
			{ID: "exchange_owa_requests_total", Name: "handled", Algo: module.Incremental},
		},
	}
	rpcActiveUserCountChart = module.Chart{
		ID:       "rpc_active_user",
		Title:    "Active unique users in the last 2 minutes",
		Units:    "users",
		Fam:      "rpc",
		Ctx:      "exchange.rpc_active_user_count",
		Priority: prioRPCActiveUserCount,
		Dims: module.Dims{
			{ID: "exchange_rpc_active_user_count", Name: "active"},
		},
	}
	rpcAvgLatencyChart = module.Chart{
		ID:       "rpc_avg_latency",
		Title:    "Average latency",
		Units:    "seconds",
		Fam:      "rpc",
		Ctx:      "exchange.rpc_avg_latency",
		Priority: prioRPCAvgLatency,
		Dims: module.Dims{
			{ID: "exchange_rpc_avg_latency_sec", Name: "latency", Div: precision},
		},
	}
	rpcConnectionCountChart = module.Chart{
		ID:       "rpc_connection",
		Title:    "Client connections",
		Units:    "connections",
		Fam:      "rpc",
		Ctx:      "exchange.rpc_connection_count",
		Priority: prioRPCConnectionCount,
		Dims: module.Dims{
			{ID: "exchange_rpc_connection_count", Name: "connections"},
		},
	}
	rpcOperationsChart = module.Chart{
		ID:       "rpc_operations",
		Title:    "RPC operations",
		Units:    "operations/s",
		Fam:      "rpc",
		Ctx:      "exchange.rpc_operations",
		Priority: prioRPCOperationsTotal,
		Dims: module.Dims{
			{ID: "exchange_rpc_operations_total", Name: "operations", Algo: module.Incremental},
		},
	}
	rpcRequestsChart = module.Chart{
		ID:       "rpc_requests_total",
		Title:    "Client requests currently being processed",
		Units:    "requests",
		Fam:      "rpc",
		Ctx:      "exchange.rpc_requests",
		Priority: prioRPCRequests,
		Dims: module.Dims{
			{ID: "exchange_rpc_requests", Name: "processed"},
		},
	}
	rpcUserCountChart = module.Chart{
		ID:       "rpc_user",
		Title:    "RPC users",
		Units:    "users",
		Fam:      "rpc",
		Ctx:      "exchange.rpc_user_count",
		Priority: prioRPCUserCount,
		Dims: module.Dims{
			{ID: "exchange_rpc_user_count", Name: "users"},
		},
	}

	// Queue descriptions: https://learn.microsoft.com/en-us/exchange/mail-flow/queues/queues?view=exchserver-2019
	transportQueuesActiveMailboxDeliveryChart = module.Chart{
		ID:       "transport_queues_active_mailbox_delivery",
		Title:    "Active Mailbox Delivery Queue length",
		Units:    "messages",
		Fam:      "queue",
		Ctx:      "exchange.transport_queues_active_mail_box_delivery",
		Priority: prioTransportQueuesActiveMailboxDelivery,
		Dims: module.Dims{
			{ID: "exchange_transport_queues_active_mailbox_delivery_low_priority", Name: "low"},
			{ID: "exchange_transport_queues_active_mailbox_delivery_high_priority", Name: "high"},
			{ID: "exchange_transport_queues_active_mailbox_delivery_none_priority", Name: "none"},
			{ID: "exchange_transport_queues_active_mailbox_delivery_normal_priority", Name: "normal"},
		},
	}
	transportQueuesExternalActiveRemoteDeliveryChart = module.Chart{
		ID:       "transport_queues_external_active_remote_delivery",
		Title:    "External Active Remote Delivery Queue length",
		Units:    "messages",
		Fam:      "queue",
		Ctx:      "exchange.transport_queues_external_active_remote_delivery",
		Priority: prioTransportQueuesExternalActiveRemoteDelivery,
		Dims: module.Dims{
			{ID: "exchange_transport_queues_external_active_remote_delivery_low_priority", Name: "low"},
			{ID: "exchange_transport_queues_external_active_remote_delivery_high_priority", Name: "high"},
			{ID: "exchange_transport_queues_external_active_remote_delivery_none_priority", Name: "none"},
			{ID: "exchange_transport_queues_external_active_remote_delivery_normal_priority", Name: "normal"},
		},
	}
	transportQueuesExternalLargestDeliveryChart = module.Chart{
		ID:       "transport_queues_external_largest_delivery",
		Title:    "External Largest Delivery Queue length",
		Units:    "messages",
		Fam:      "queue",
		Ctx:      "exchange.transport_queues_external_largest_delivery",
		Priority: prioTransportQueuesExternalLargestDelivery,
		Dims: module.Dims{
			{ID: "exchange_transport_queues_external_largest_delivery_low_priority", Name: "low"},
			{ID: "exchange_transport_queues_external_largest_delivery_high_priority", Name: "high"},
			{ID: "exchange_transport_queues_external_largest_delivery_none_priority", Name: "none"},
			{ID: "exchange_transport_queues_external_largest_delivery_normal_priority", Name: "normal"},
		},
	}
	transportQueuesInternalActiveRemoteDeliveryChart = module.Chart{
		ID:       "transport_queues_internal_active_remote_delivery",
		Title:    "Internal Active Remote Delivery Queue length",
		Units:    "messages",
		Fam:      "queue",
		Ctx:      "exchange.transport_queues_internal_active_remote_delivery",
		Priority: prioTransportQueuesInternalActiveRemoteDelivery,
		Dims: module.Dims{
			{ID: "exchange_transport_queues_internal_active_remote_delivery_low_priority", Name: "low"},
			{ID: "exchange_transport_queues_internal_active_remote_delivery_high_priority", Name: "high"},
			{ID: "exchange_transport_queues_internal_active_remote_delivery_none_priority", Name: "none"},
			{ID: "exchange_transport_queues_internal_active_remote_delivery_normal_priority", Name: "normal"},
		},
	}
	transportQueuesInternalLargestDeliveryChart = module.Chart{
		ID:       "transport_queues_internal_largest_delivery",
		Title:    "Internal Largest Delivery Queue length",
		Units:    "messages",
		Fam:      "queue",
		Ctx:      "exchange.transport_queues_internal_largest_delivery",
		Priority: prioTransportQueuesInternalLargestDelivery,
		Dims: module.Dims{
			{ID: "exchange_transport_queues_internal_largest_delivery_low_priority", Name: "low"},
			{ID: "exchange_transport_queues_internal_largest_delivery_high_priority", Name: "high"},
			{ID: "exchange_transport_queues_internal_largest_delivery_none_priority", Name: "none"},
			{ID: "exchange_transport_queues_internal_largest_delivery_normal_priority", Name: "normal"},
		},
	}
	transportQueuesRetryMailboxDeliveryChart = module.Chart{
		ID:       "transport_queues_retry_mailbox_delivery",
		Title:    "Retry Mailbox Delivery Queue length",
		Units:    "messages",
		Fam:      "queue",
		Ctx:      "exchange.transport_queues_retry_mailbox_delivery",
		Priority: prioTransportQueuesRetryMailboxDelivery,
		Dims: module.Dims{
			{ID: "exchange_transport_queues_retry_mailbox_delivery_low_priority", Name: "low"},
			{ID: "exchange_transport_queues_retry_mailbox_delivery_high_priority", Name: "high"},
			{ID: "exchange_transport_queues_retry_mailbox_delivery_none_priority", Name: "none"},
			{ID: "exchange_transport_queues_retry_mailbox_delivery_normal_priority", Name: "normal"},
		},
	}
	transportQueuesUnreachableChart = module.Chart{
		ID:       "transport_queues_unreachable",
		Title:    "Unreachable Queue length",
		Units:    "messages",
		Fam:      "queue",
		Ctx:      "exchange.transport_queues_unreachable",
		Priority: prioTransportQueuesUnreachable,
		Dims: module.Dims{
			{ID: "exchange_transport_queues_unreachable_low_priority", Name: "low"},
			{ID: "exchange_transport_queues_unreachable_high_priority", Name: "high"},
			{ID: "exchange_transport_queues_unreachable_none_priority", Name: "none"},
			{ID: "exchange_transport_queues_unreachable_normal_priority", Name: "normal"},
		},
	}
	transportQueuesPoisonChart = module.Chart{
		ID:       "transport_queues_poison",
		Title:    "Poison Queue length",
		Units:    "messages",
		Fam:      "queue",
		Ctx:      "exchange.transport_queues_poison",
		Priority: prioTransportQueuesPoison,
		Dims: module.Dims{
			{ID: "exchange_transport_queues_poison_low_priority", Name: "low"},
			{ID: "exchange_transport_queues_poison_high_priority", Name: "high"},
			{ID: "exchange_transport_queues_poison_none_priority", Name: "none"},
			{ID: "exchange_transport_queues_poison_normal_priority", Name: "normal"},
		},
	}

	collectorDurationChart = module.Chart{
		ID:       "collector_duration",
		Title:    "Exchange collector scrape duration",
		Units:    "seconds",
		Fam:      "collection",
		Ctx:      "exchange.collector_duration",
		Priority: prioCollectorDuration,
		Dims: module.Dims{
			{ID: "exchange_collector_duration", Name: "duration", Div: precision},
		},
	}
	collectorStatusChart = module.Chart{
		ID:       "collector_status",
		Title:    "Exchange collector status",
		Units:    "status",
		Fam:      "collection",
		Ctx:      "exchange.collector_status",
		Priority: prioCollectorStatus,
		Dims: module.Dims{
			{ID: "exchange_collector_status_success", Name: "success"},
			{ID: "exchange_collector_status_fail", Name: "fail"},
		},
	}
)

var workloadChartsTmpl = module.Charts{
	workloadActiveTasksChartTmpl.Copy(),
	workloadCompletedTasksChartTmpl.Copy(),
	workloadQueuedTasksChartTmpl.Copy(),
	workloadYieldedTasksChartTmpl.Copy(),
	workloadActivityStatusChartTmpl.Copy(),
}

var (
	workloadActiveTasksChartTmpl = module.Chart{
		ID:       "workload_%s_active_tasks",
		Title:    "Workload active tasks",
		Units:    "tasks",
		Fam:      "workload",
		Ctx:      "exchange.workload_active_tasks",
		Priority: prioWorkloadActiveTasks,
		Dims: module.Dims{
			{ID: "exchange_workload_%s_active_tasks", Name: "active"},
		},
	}
	workloadCompletedTasksChartTmpl = module.Chart{
		ID:       "workload_%s_completed_tasks",
		Title:    "Workload completed tasks",
		Units:    "tasks/s",
		Fam:      "workload",
		Ctx:      "exchange.workload_completed_tasks",
		Priority: prioWorkloadCompletedTasks,
		Dims: module.Dims{
			{ID: "exchange_workload_%s_completed_tasks", Name: "completed", Algo: module.Incremental},
		},
	}
	workloadQueuedTasksChartTmpl = module.Chart{
		ID:       "workload_%s_queued_tasks",
		Title:    "Workload queued tasks",
		Units:    "tasks/s",
		Fam:      "workload",
		Ctx:      "exchange.workload_queued_tasks",
		Priority: prioWorkloadQueuedTasks,
		Dims: module.Dims{
			{ID: "exchange_workload_%s_queued_tasks", Name: "queued", Algo: module.Incremental},
		},
	}
	workloadYieldedTasksChartTmpl = module.Chart{
		ID:       "workload_%s_yielded_tasks",
		Title:    "Workload yielded tasks",
		Units:    "tasks/s",
		Fam:      "workload",
		Ctx:      "exchange.workload_yielded_tasks",
		Priority: prioWorkloadYieldedTasks,
		Dims: module.Dims{
			{ID: "exchange_workload_%s_yielded_tasks", Name: "yielded", Algo: module.Incremental},
		},
	}
	workloadActivityStatusChartTmpl = module.Chart{
		ID:       "workload_%s_activity_status",
		Title:    "Workload activity status",
		Units:    "status",
		Fam:      "workload",
		Ctx:      "exchange.workload_activity_status",
		Priority: prioWorkloadActivityStatus,
		Dims: module.Dims{
			{ID: "exchange_workload_%s_is_active", Name: "active"},
			{ID: "exchange_workload_%s_is_paused", Name: "paused"},
		},
	}
)

var ldapChartsTmpl = module.Charts{
	ldapLongRunningOPSChartTmpl.Copy(),
	ldapReadTimeChartTmpl.Copy(),
	ldapSearchTimeChartTmpl.Copy(),
	ldapWriteTimeChartTmpl.Copy(),
	ldapTimeoutErrorsChartTmpl.Copy(),
}

var (
	ldapLongRunningOPSChartTmpl = module.Chart{
		ID:       "ldap_%s_long_running_ops",
		Title:    "Long Running LDAP operations",
		Units:    "operations/s",
		Fam:      "ldap",
		Ctx:      "exchange.ldap_long_running_ops_per_sec",
		Priority: prioLDAPLongRunningOPS,
		Dims: module.Dims{
			{ID: "exchange_ldap_%s_long_running_ops_per_sec", Name: "long-running", Algo: module.Incremental},
		},
	}
	ldapReadTimeChartTmpl = module.Chart{
		ID:       "ldap_%s_read_time",
		Title:    "Time to send an LDAP read request and receive a response",
		Units:    "seconds",
		Fam:      "ldap",
		Ctx:      "exchange.ldap_read_time",
		Priority: prioLDAPReadTime,
		Dims: module.Dims{
			{ID: "exchange_ldap_%s_read_time_sec", Name: "read", Algo: module.Incremental, Div: precision},
		},
	}
	ldapSearchTimeChartTmpl = module.Chart{
		ID:       "ldap_%s_search_time",
		Title:    "Time to send an LDAP search request and receive a response",
		Units:    "seconds",
		Fam:      "ldap",
		Ctx:      "exchange.ldap_search_time",
		Priority: prioLDAPSearchTime,
		Dims: module.Dims{
			{ID: "exchange_ldap_%s_search_time_sec", Name: "search", Algo: module.Incremental, Div: precision},
		},
	}
	ldapWriteTimeChartTmpl = module.Chart{
		ID:       "ldap_%s_write_time",
		Title:    "Time to send an LDAP write request and receive a response",
		Units:    "seconds",
		Fam:      "ldap",
		Ctx:      "exchange.ldap_write_time",
		Priority: prioLDAPWriteTime,
		Dims: module.Dims{
			{ID: "exchange_ldap_%s_write_time_sec", Name: "write", Algo: module.Incremental, Div: precision},
		},
	}
	ldapTimeoutErrorsChartTmpl = module.Chart{
		ID:       "ldap_%s_timeout_errors",
		Title:    "LDAP timeout errors",
		Units:    "errors/s",
		Fam:      "ldap",
		Ctx:      "exchange.ldap_timeout_errors",
		Priority: prioLDAPTimeoutErrors,
		Dims: module.Dims{
			{ID: "exchange_ldap_%s_timeout_errors_total", Name: "timeout", Algo: module.Incremental},
		},
	}
)

var httpProxyChartsTmpl = module.Charts{
	httpProxyAvgAuthLatencyChartTmpl.Copy(),
	httpProxyAvgCASProcessingLatencyChartTmpl.Copy(),
	httpProxyMailboxProxyFailureRateChartTmpl.Copy(),
	httpProxyServerLocatorAvgLatencyChartTmpl.Copy(),
	httpProxyOutstandingProxyRequestsChartTmpl.Copy(),
	httpProxyRequestsChartTmpl.Copy(),
}

var (
	httpProxyAvgAuthLatencyChartTmpl = module.Chart{
		ID:       "http_proxy_%s_avg_auth_latency",
		Title:    "Average time spent authenticating CAS requests",
		Units:    "seconds",
		Fam:      "proxy",
		Ctx:      "exchange.http_proxy_avg_auth_latency",
		Priority: prioHTTPProxyAvgAuthLatency,
		Dims: module.Dims{
			{ID: "exchange_http_proxy_%s_avg_auth_latency", Name: "latency"},
		},
	}
	httpProxyAvgCASProcessingLatencyChartTmpl = module.Chart{
		ID:       "http_proxy_%s_avg_cas_processing_latency",
		Title:    "Average CAS processing latency",
		Units:    "seconds",
		Fam:      "proxy",
		Ctx:      "exchange.http_proxy_avg_cas_processing_latency_sec",
		Priority: prioHTTPProxyAvgCASProcessingLatency,
		Dims: module.Dims{
			{ID: "exchange_http_proxy_%s_avg_cas_proccessing_latency_sec", Name: "latency", Div: precision},
		},
	}
	httpProxyMailboxProxyFailureRateChartTmpl = module.Chart{
		ID:       "http_proxy_%s_mailbox_proxy_failure_rate",
		Title:    "Percentage of failures between this CAS and MBX servers",
		Units:    "percentage",
		Fam:      "proxy",
		Ctx:      "exchange.http_proxy_mailbox_proxy_failure_rate",
		Priority: prioHTTPProxyMailboxProxyFailureRate,
		Dims: module.Dims{
			{ID: "exchange_http_proxy_%s_mailbox_proxy_failure_rate", Name: "failures", Div: precision},
		},
	}
	httpProxyServerLocatorAvgLatencyChartTmpl = module.Chart{
		ID:       "http_proxy_%s_mailbox_server_locator_avg_latency",
		Title:    "Average latency of MailboxServerLocator web service calls",
		Units:    "seconds",
		Fam:      "proxy",
		Ctx:      "exchange.http_proxy_mailbox_server_locator_avg_latency_sec",
		Priority: prioHTTPProxyServerLocatorAvgLatency,
		Dims: module.Dims{
			{ID: "exchange_http_proxy_%s_mailbox_server_locator_avg_latency_sec", Name: "latency", Div: precision},
		},
	}
	httpProxyOutstandingProxyRequestsChartTmpl = module.Chart{
		ID:       "http_proxy_%s_outstanding_proxy_requests",
		Title:    "Concurrent outstanding proxy requests",
		Units:    "requests",
		Fam:      "proxy",
		Ctx:      "exchange.http_proxy_outstanding_proxy_requests",
		Priority: prioHTTPProxyOutstandingProxyRequests,
		Dims: module.Dims{
			{ID: "exchange_http_proxy_%s_outstanding_proxy_requests", Name: "outstanding"},
		},
	}
	httpProxyRequestsChartTmpl = module.Chart{
		ID:       "http_proxy_%s_requests_total",
		Title:    "Proxy requests processed each second",
		Units:    "requests/s",
		Fam:      "proxy",
		Ctx:      "exchange.http_proxy_requests",
		Priority: prioHTTPProxyRequestsTotal,
		Dims: module.Dims{
			{ID: "exchange_http_proxy_%s_requests_total", Name: "processed", Algo: module.Incremental},
		},
	}
)

func (c *Collector) addWorkloadCharts(name string) {
	charts := workloadChartsTmpl.Copy()

	for _, chart := range *charts {
		chart.ID = fmt.Sprintf(chart.ID, name)
		chart.Labels = []module.Label{
			{Key: "workload", Value: name},
		}
		for _, dim := range chart.Dims {
			dim.ID = fmt.Sprintf(dim.ID, name)
		}
	}

	if err := c.Charts().Add(*charts...); err != nil {
		c.Warning(err)
	}
}

func (c *Collector) removeWorkloadCharts(name string) {
	c.removeCharts(fmt.Sprintf("workload_%s", name))
}

func (c *Collector) addLDAPCharts(name string) {
	charts := ldapChartsTmpl.Copy()

	for _, chart := range *charts {
		chart.ID = fmt.Sprintf(chart.ID, name)
		chart.Labels = []module.Label{
			{Key: "ldap_process", Value: name},
		}
		for _, dim := range chart.Dims {
			dim.ID = fmt.Sprintf(dim.ID, name)
		}
	}

	if err := c.Charts().Add(*charts...); err != nil {
		c.Warning(err)
	}
}

func (c *Collector) removeLDAPCharts(name string) {
	c.removeCharts(fmt.Sprintf("ldap_%s", name))
}

func (c *Collector) addHTTPProxyCharts(name string) {
	charts := httpProxyChartsTmpl.Copy()

	for _, chart := range *charts {
		chart.ID = fmt.Sprintf(chart.ID, name)
		chart.Labels = []module.Label{
			{Key: "http_proxy", Value: name},
		}
		for _, dim := range chart.Dims {
			dim.ID = fmt.Sprintf(dim.ID, name)
		}
	}

	if err := c.Charts().Add(*charts...); err != nil {
		c.Warning(err)
	}
}

func (c *Collector) removeHTTPProxyCharts(name string) {
	c.removeCharts(fmt.Sprintf("http_proxy_%s", name))
}

func (c *Collector) removeCharts(prefix string) {
	for _, chart := range *c.Charts() {
		if strings.HasPrefix(chart.ID, prefix) {
			chart.MarkRemove()
			chart.MarkNotCreated()
		}
	}
}
