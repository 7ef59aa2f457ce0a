package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ConnectedSessions tracks live websocket sessions registered with
	// the hub.
	ConnectedSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ghostchat_connected_sessions",
			Help: "Currently connected chat sessions",
		},
	)

	// Rooms tracks rooms currently held in the room store.
	Rooms = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ghostchat_rooms",
			Help: "Rooms currently in the store",
		},
	)

	RoomsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ghostchat_rooms_created_total",
			Help: "Total rooms created",
		},
	)

	MessagesRelayed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ghostchat_messages_relayed_total",
			Help: "Total messages appended and broadcast",
		},
		[]string{"role"},
	)

	TypingSignals = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ghostchat_typing_signals_total",
			Help: "Total ephemeral typing notifications forwarded",
		},
	)

	PersistenceFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ghostchat_persistence_failures_total",
			Help: "Durable writes that failed or were dropped",
		},
	)

	WSConnects = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ghostchat_ws_connects_total",
			Help: "Total websocket connections accepted",
		},
	)
)
