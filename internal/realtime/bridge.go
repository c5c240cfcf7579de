package realtime

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Nirmalamangrati/BackendOfPostflow/internal/domain"
)

// Bridge relays realtime events between instances over a Redis pub/sub
// channel, so a room member connected to another process still gets its
// fan-out. Frames carry the publishing instance id so an instance never
// re-delivers its own events.
type Bridge struct {
	client  *redis.Client
	channel string
	origin  string
	hub     *Hub
	log     *zap.SugaredLogger
}

type bridgeFrame struct {
	Origin string          `json:"origin"`
	Rooms  []string        `json:"rooms"`
	Event  string          `json:"event"`
	Data   json.RawMessage `json:"data"`
}

func NewBridge(client *redis.Client, channel string, hub *Hub, log *zap.SugaredLogger) *Bridge {
	return &Bridge{
		client:  client,
		channel: channel,
		origin:  uuid.NewString(),
		hub:     hub,
		log:     log,
	}
}

func (b *Bridge) Publish(ctx context.Context, ev domain.Event) error {
	data, err := json.Marshal(ev.Payload())
	if err != nil {
		return err
	}
	frame, err := json.Marshal(bridgeFrame{
		Origin: b.origin,
		Rooms:  ev.Rooms(),
		Event:  ev.Name(),
		Data:   data,
	})
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, b.channel, frame).Err()
}

// Run subscribes to the bridge channel and re-emits remote events into the
// local hub. Blocks until ctx is cancelled.
func (b *Bridge) Run(ctx context.Context) {
	sub := b.client.Subscribe(ctx, b.channel)
	defer sub.Close()
	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var frame bridgeFrame
			if err := json.Unmarshal([]byte(msg.Payload), &frame); err != nil {
				b.log.Warnw("bad bridge frame", "err", err)
				continue
			}
			if frame.Origin == b.origin {
				continue
			}
			for _, room := range frame.Rooms {
				b.hub.Emit(room, frame.Event, frame.Data)
			}
		}
	}
}
