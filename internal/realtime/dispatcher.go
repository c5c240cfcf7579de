package realtime

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/Nirmalamangrati/BackendOfPostflow/internal/domain"
	"github.com/Nirmalamangrati/BackendOfPostflow/internal/metrics"
)

// RoomEmitter is the fan-out surface the dispatcher targets. Satisfied by Hub.
type RoomEmitter interface {
	Emit(identity, event string, payload any)
}

// Sink receives a durable copy of every dispatched event (the Kafka
// message-lifecycle log).
type Sink interface {
	Publish(ctx context.Context, key string, value []byte) error
}

// CrossInstancePublisher forwards events to rooms held by other instances.
type CrossInstancePublisher interface {
	Publish(ctx context.Context, ev domain.Event) error
}

// Dispatcher decouples the delivery mechanics from the services that produce
// domain events. Every target is best-effort: a failure is logged and never
// surfaces to the operation that triggered the event.
type Dispatcher struct {
	rooms  RoomEmitter
	bridge CrossInstancePublisher
	sink   Sink
	log    *zap.SugaredLogger
}

func NewDispatcher(rooms RoomEmitter, bridge CrossInstancePublisher, sink Sink, log *zap.SugaredLogger) *Dispatcher {
	return &Dispatcher{rooms: rooms, bridge: bridge, sink: sink, log: log}
}

func (d *Dispatcher) Dispatch(ctx context.Context, ev domain.Event) {
	payload := ev.Payload()
	for _, room := range ev.Rooms() {
		d.rooms.Emit(room, ev.Name(), payload)
	}
	metrics.EventsDispatched.WithLabelValues(ev.Name()).Inc()

	if d.bridge != nil {
		if err := d.bridge.Publish(ctx, ev); err != nil {
			d.log.Warnw("cross-instance publish failed", "event", ev.Name(), "err", err)
		}
	}
	if d.sink != nil {
		record, err := json.Marshal(map[string]any{"event": ev.Name(), "data": payload})
		if err != nil {
			d.log.Errorw("marshal event record", "event", ev.Name(), "err", err)
			return
		}
		if err := d.sink.Publish(ctx, ev.Name(), record); err != nil {
			d.log.Warnw("event log publish failed", "event", ev.Name(), "err", err)
		}
	}
}
