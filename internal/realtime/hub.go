package realtime

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/Nirmalamangrati/BackendOfPostflow/internal/metrics"
)

// Envelope is the socket wire frame: an event name plus its payload.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Hub is the room registry: it maps a user identity to the set of live
// connections that joined that identity's room. Membership is connection
// scoped and purely in-memory; after a restart every client must re-join.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]struct{}
	log   *zap.SugaredLogger
}

func NewHub(log *zap.SugaredLogger) *Hub {
	return &Hub{
		rooms: make(map[string]map[*Client]struct{}),
		log:   log,
	}
}

// Join registers c as a member of the room named identity. Joining is
// additive: a second device joins alongside the first, it never replaces it.
func (h *Hub) Join(identity string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	members, ok := h.rooms[identity]
	if !ok {
		members = make(map[*Client]struct{})
		h.rooms[identity] = members
	}
	members[c] = struct{}{}
}

// Leave removes c from every room it belongs to. No-op if c never joined.
func (h *Hub) Leave(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for identity, members := range h.rooms {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, identity)
		}
	}
}

// MemberCount returns the number of live connections in identity's room.
func (h *Hub) MemberCount(identity string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[identity])
}

// Emit delivers payload to every current member of identity's room.
// Delivery is best-effort and at-most-once: an empty room drops the event
// silently, and a member with a full send buffer is skipped.
func (h *Hub) Emit(identity, event string, payload any) {
	frame, err := marshalEnvelope(event, payload)
	if err != nil {
		h.log.Errorw("marshal event", "event", event, "err", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[identity] {
		if !c.enqueue(frame) {
			metrics.EventsDropped.Inc()
			h.log.Warnw("dropped event, slow client", "event", event, "identity", identity)
		}
	}
}

func marshalEnvelope(event string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Data: data})
}
