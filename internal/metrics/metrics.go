package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	MessagesSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "postflow_messages_sent_total",
		Help: "Direct messages persisted.",
	})
	MessagesEdited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "postflow_messages_edited_total",
		Help: "Direct message edits persisted.",
	})
	MessagesDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "postflow_messages_deleted_total",
		Help: "Direct messages hard-deleted.",
	})
	EventsDispatched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "postflow_realtime_events_dispatched_total",
		Help: "Realtime events handed to the room registry, by event name.",
	}, []string{"event"})
	EventsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "postflow_realtime_events_dropped_total",
		Help: "Realtime events dropped because a client send buffer was full.",
	})
)

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
