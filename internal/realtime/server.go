package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/Nirmalamangrati/BackendOfPostflow/internal/auth"
	"github.com/Nirmalamangrati/BackendOfPostflow/internal/domain"
)

// TokenVerifier resolves a bearer credential to a caller identity.
type TokenVerifier interface {
	Verify(token string) (auth.Claims, error)
}

// MessageSender is the slice of the message service the socket path needs.
type MessageSender interface {
	Send(ctx context.Context, from, to, text string) (*domain.Message, error)
}

// Presence flags users online/offline as sockets come and go.
type Presence interface {
	SetOnline(ctx context.Context, userID string) error
	SetOffline(ctx context.Context, userID string) error
}

// Server owns the websocket session lifecycle: authenticate, pump, route
// inbound events, clean up on disconnect.
type Server struct {
	hub      *Hub
	verifier TokenVerifier
	messages MessageSender
	presence Presence
	log      *zap.SugaredLogger

	mu       sync.Mutex
	sessions map[string]int
}

func NewServer(hub *Hub, verifier TokenVerifier, messages MessageSender, presence Presence, log *zap.SugaredLogger) *Server {
	return &Server{
		hub:      hub,
		verifier: verifier,
		messages: messages,
		presence: presence,
		log:      log,
		sessions: make(map[string]int),
	}
}

func (s *Server) Hub() *Hub { return s.hub }

type errorPayload struct {
	Message string `json:"message"`
}

type inboundMessage struct {
	To   string `json:"to"`
	Text string `json:"text"`
}

// Handler returns the websocket.New handler for the /ws route.
//
// Joins are authenticated: the room a connection may join is fixed by the
// verified token, the "join" payload is only checked against it. A client
// claiming another user's identity gets an error event, not a membership.
func (s *Server) Handler() func(*websocket.Conn) {
	return func(conn *websocket.Conn) {
		claims, err := s.verifier.Verify(conn.Query("token"))
		if err != nil {
			s.writeDirect(conn, "error", errorPayload{Message: "invalid token"})
			_ = conn.Close()
			return
		}

		c := newClient(conn, claims.ID)
		s.connected(context.Background(), claims.ID)
		s.log.Infow("socket connected", "user", claims.ID, "socket", c.ID)

		go c.writePump()
		s.readLoop(c)

		s.hub.Leave(c)
		c.close()
		s.disconnected(context.Background(), claims.ID)
		s.log.Infow("socket disconnected", "user", claims.ID, "socket", c.ID)
	}
}

// connected counts one live socket for identity and flips presence online.
func (s *Server) connected(ctx context.Context, identity string) {
	s.mu.Lock()
	s.sessions[identity]++
	s.mu.Unlock()
	if s.presence != nil {
		if err := s.presence.SetOnline(ctx, identity); err != nil {
			s.log.Warnw("presence online", "user", identity, "err", err)
		}
	}
}

// disconnected drops one live socket. Presence counts connections, not room
// memberships: a second device that connected but never joined still keeps
// the user online.
func (s *Server) disconnected(ctx context.Context, identity string) {
	s.mu.Lock()
	s.sessions[identity]--
	last := s.sessions[identity] <= 0
	if last {
		delete(s.sessions, identity)
	}
	s.mu.Unlock()
	if last && s.presence != nil {
		if err := s.presence.SetOffline(ctx, identity); err != nil {
			s.log.Warnw("presence offline", "user", identity, "err", err)
		}
	}
}

func (s *Server) readLoop(c *Client) {
	c.conn.SetReadLimit(maxFrameSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			s.sendError(c, "invalid frame")
			continue
		}
		switch env.Event {
		case "join", "joinRoom":
			s.handleJoin(c, env.Data)
		case "message":
			s.handleMessage(c, env.Data)
		default:
			// unknown events are ignored for forward compatibility
		}
	}
}

func (s *Server) handleJoin(c *Client, data json.RawMessage) {
	var identity string
	if err := json.Unmarshal(data, &identity); err != nil || identity == "" {
		s.sendError(c, "invalid join payload")
		return
	}
	if identity != c.Identity {
		s.sendError(c, "cannot join another user's room")
		return
	}
	s.hub.Join(identity, c)
}

func (s *Server) handleMessage(c *Client, data json.RawMessage) {
	var in inboundMessage
	if err := json.Unmarshal(data, &in); err != nil {
		s.sendError(c, "invalid message data")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	msg, err := s.messages.Send(ctx, c.Identity, in.To, in.Text)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrNotFound):
			s.sendError(c, "invalid message data")
		default:
			s.sendError(c, "failed to send message")
		}
		return
	}
	// confirm to the sending socket; room fan-out already happened
	s.sendEvent(c, "messageSent", domain.MessagePayload{
		ID:        msg.ID,
		From:      msg.From,
		To:        msg.To,
		Text:      msg.Text,
		CreatedAt: msg.CreatedAt,
	})
}

func (s *Server) sendError(c *Client, message string) {
	s.sendEvent(c, "error", errorPayload{Message: message})
}

func (s *Server) sendEvent(c *Client, event string, payload any) {
	frame, err := marshalEnvelope(event, payload)
	if err != nil {
		s.log.Errorw("marshal event", "event", event, "err", err)
		return
	}
	c.enqueue(frame)
}

// writeDirect is for pre-session failures, before the write pump exists.
func (s *Server) writeDirect(conn *websocket.Conn, event string, payload any) {
	frame, err := marshalEnvelope(event, payload)
	if err != nil {
		return
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = conn.WriteMessage(websocket.TextMessage, frame)
}
