package domain

import "time"

// Event is a realtime fan-out intent produced by a service after a durable
// state change. The dispatcher delivers it to every room named by Rooms();
// delivery is best-effort and never affects the originating operation.
type Event interface {
	Name() string
	Rooms() []string
	Payload() any
}

// Wire payload shapes. Field names are part of the client contract and must
// not change.

type MessagePayload struct {
	ID        string    `json:"_id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

type MessageEditedPayload struct {
	ID       string    `json:"_id"`
	Text     string    `json:"text"`
	IsEdited bool      `json:"isEdited"`
	EditedAt time.Time `json:"editedAt"`
}

type MessageDeletedPayload struct {
	MessageID string `json:"messageId"`
}

type NotificationPayload struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

type MessageCreated struct {
	Message Message
}

func (e MessageCreated) Name() string { return "receiveMessage" }

func (e MessageCreated) Rooms() []string {
	return pairRooms(e.Message.From, e.Message.To)
}

func (e MessageCreated) Payload() any {
	return MessagePayload{
		ID:        e.Message.ID,
		From:      e.Message.From,
		To:        e.Message.To,
		Text:      e.Message.Text,
		CreatedAt: e.Message.CreatedAt,
	}
}

type MessageEdited struct {
	Message Message
}

func (e MessageEdited) Name() string { return "messageEdited" }

func (e MessageEdited) Rooms() []string {
	return pairRooms(e.Message.From, e.Message.To)
}

func (e MessageEdited) Payload() any {
	p := MessageEditedPayload{
		ID:       e.Message.ID,
		Text:     e.Message.Text,
		IsEdited: true,
	}
	if e.Message.EditedAt != nil {
		p.EditedAt = *e.Message.EditedAt
	}
	return p
}

type MessageDeleted struct {
	MessageID string
	From      string
	To        string
}

func (e MessageDeleted) Name() string { return "messageDeleted" }

func (e MessageDeleted) Rooms() []string { return pairRooms(e.From, e.To) }

func (e MessageDeleted) Payload() any {
	return MessageDeletedPayload{MessageID: e.MessageID}
}

// pairRooms collapses self-conversations to a single room so one socket does
// not receive the same event twice.
func pairRooms(a, b string) []string {
	if a == b {
		return []string{a}
	}
	return []string{a, b}
}
