// Package metrics defines the prometheus collectors shared across the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DynamoDB Operations Metrics
var (
	// StoreOpsTotal tracks total store operations by operation and status
	StoreOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_operations_total",
			Help: "Total DynamoDB operations by operation and status",
		},
		[]string{"operation", "status"},
	)

	// StoreOpDuration tracks store operation latency in seconds
	StoreOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_operation_duration_seconds",
			Help:    "DynamoDB operation duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation"},
	)

	// StorePagesDrained tracks pages consumed per paginated query
	StorePagesDrained = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "store_query_pages_drained",
			Help:    "Number of pages drained per paginated query",
			Buckets: []float64{1, 2, 3, 5, 10, 25, 50},
		},
	)
)

// Broadcast Metrics
var (
	// RegistryConnections tracks the number of live registered connections
	RegistryConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "registry_connections",
			Help: "Number of live connections in the registry",
		},
	)

	// BroadcastsTotal tracks broadcasts by outbound message type
	BroadcastsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "broadcasts_total",
			Help: "Total room broadcasts by message type",
		},
		[]string{"type"},
	)

	// DeliveryFailuresTotal tracks per-recipient delivery failures
	DeliveryFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "broadcast_delivery_failures_total",
			Help: "Total per-recipient delivery failures during broadcast",
		},
	)

	// EvictedConnectionsTotal tracks connections evicted after failed delivery
	EvictedConnectionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "broadcast_evicted_connections_total",
			Help: "Total connections evicted from the registry after failed delivery",
		},
	)

	// MessageSendDuration tracks WebSocket message send duration
	MessageSendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "websocket_message_send_duration_seconds",
			Help:    "WebSocket message send duration in seconds",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1},
		},
	)
)

// Channel Protocol Metrics
var (
	// InboundMessagesTotal tracks inbound channel messages by type
	InboundMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "channel_inbound_messages_total",
			Help: "Total inbound channel messages by type",
		},
		[]string{"type"},
	)

	// ProtocolViolationsTotal tracks malformed inbound messages
	ProtocolViolationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "channel_protocol_violations_total",
			Help: "Total malformed inbound channel messages",
		},
	)

	// WebSocketPingFailures tracks keepalive ping failures
	WebSocketPingFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_ping_failures_total",
			Help: "Total WebSocket ping failures",
		},
	)
)
