// Package metrics defines and registers all custom Prometheus metrics for
// the lead tracker API. It is the single source of truth for metric names,
// labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "leadhub"

// LeadsCreatedTotal counts newly created leads.
// Label:
//   - source: the lead source, or "unknown" when absent
var LeadsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "leads_created_total",
		Help:      "Total number of leads created, by source.",
	},
	[]string{"source"},
)

// LeadStatusChangesTotal counts pipeline transitions.
// Label:
//   - to_status: the status the lead moved into
var LeadStatusChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "lead_status_changes_total",
		Help:      "Total number of lead status transitions, by target status.",
	},
	[]string{"to_status"},
)

// ActivitiesCreatedTotal counts user-authored activities.
// Label:
//   - type: "note", "call", "meeting", "email", or "status_change"
var ActivitiesCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activities_created_total",
		Help:      "Total number of activities recorded, by type.",
	},
	[]string{"type"},
)

// NotificationsTotal counts notification delivery outcomes.
// Label:
//   - result: "sent" or "failed"
var NotificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Total number of notification emails attempted, by result.",
	},
	[]string{"result"},
)

// EventsPublishedTotal counts mutation events pushed to the broadcast
// channel.
// Label:
//   - type: the event topic (e.g. "lead:created")
var EventsPublishedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_published_total",
		Help:      "Total number of realtime events published.",
	},
	[]string{"type"},
)

// WebsocketConnections tracks the number of currently connected websocket
// clients.
var WebsocketConnections = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "websocket_connections",
		Help:      "Current number of open websocket connections.",
	},
)
