package events

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/Nirmalamangrati/BackendOfPostflow/internal/domain"
)

const notificationSubjectPrefix = "postflow.notification."

// Notifier publishes user notifications on NATS. The realtime gateway
// subscribes and fans each one out to the target user's room as a
// "newNotification" event, so any instance can notify any connected user.
type Notifier struct {
	nc *nats.Conn
}

func NewNotifier(url string) (*Notifier, error) {
	nc, err := nats.Connect(url)
	if err != nil {
		return nil, err
	}
	return &Notifier{nc: nc}, nil
}

func (n *Notifier) Notify(ctx context.Context, userID, message string) error {
	payload := domain.NotificationPayload{Message: message, Timestamp: time.Now().UTC()}
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return n.nc.Publish(notificationSubjectPrefix+userID, b)
}

// Subscribe invokes handler with the target user id and raw notification
// payload for every published notification.
func (n *Notifier) Subscribe(handler func(userID string, payload []byte)) (*nats.Subscription, error) {
	return n.nc.Subscribe(notificationSubjectPrefix+">", func(m *nats.Msg) {
		userID := strings.TrimPrefix(m.Subject, notificationSubjectPrefix)
		if userID == "" {
			return
		}
		handler(userID, m.Data)
	})
}

func (n *Notifier) Close() {
	if n.nc != nil {
		n.nc.Close()
	}
}
