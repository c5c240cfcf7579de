package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Nirmalamangrati/BackendOfPostflow/internal/domain"
	"github.com/Nirmalamangrati/BackendOfPostflow/internal/metrics"
)

// MessageRepo is the persistence surface for direct messages.
type MessageRepo interface {
	Insert(ctx context.Context, m *domain.Message) error
	FindByID(ctx context.Context, id string) (*domain.Message, error)
	UpdateText(ctx context.Context, id, sender, text string, at time.Time) (*domain.Message, error)
	Delete(ctx context.Context, id string) error
	Conversation(ctx context.Context, a, b string) ([]domain.Message, error)
}

// Directory answers best-effort recipient existence checks.
type Directory interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// EventDispatcher receives domain events after a durable state change.
// Dispatch must never fail the calling operation.
type EventDispatcher interface {
	Dispatch(ctx context.Context, ev domain.Event)
}

// MessageService is the single authority over message records: it persists
// first, then hands a domain event to the dispatcher. A crash between the
// two drops the realtime notification but never the record.
type MessageService struct {
	repo       MessageRepo
	users      Directory
	dispatcher EventDispatcher
	log        *zap.SugaredLogger
}

func NewMessageService(repo MessageRepo, users Directory, dispatcher EventDispatcher, log *zap.SugaredLogger) *MessageService {
	return &MessageService{repo: repo, users: users, dispatcher: dispatcher, log: log}
}

func (s *MessageService) Send(ctx context.Context, from, to, text string) (*domain.Message, error) {
	text = strings.TrimSpace(text)
	if to == "" || text == "" {
		return nil, fmt.Errorf("%w: to and text required", domain.ErrValidation)
	}
	if s.users != nil {
		ok, err := s.users.Exists(ctx, to)
		if err != nil {
			// existence check is best-effort, a directory outage must not
			// block sends
			s.log.Warnw("recipient lookup failed", "to", to, "err", err)
		} else if !ok {
			return nil, fmt.Errorf("%w: recipient %s", domain.ErrNotFound, to)
		}
	}

	m := &domain.Message{
		From:      from,
		To:        to,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, m); err != nil {
		return nil, err
	}
	metrics.MessagesSent.Inc()
	s.dispatcher.Dispatch(ctx, domain.MessageCreated{Message: *m})
	return m, nil
}

// Edit replaces the text of a message. Only the original sender may edit.
// Concurrent edits serialize on a single atomic store update; the last write
// wins, which is the documented conflict policy.
func (s *MessageService) Edit(ctx context.Context, actor, id, newText string) (*domain.Message, error) {
	newText = strings.TrimSpace(newText)
	if newText == "" {
		return nil, fmt.Errorf("%w: text required", domain.ErrValidation)
	}
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.From != actor {
		return nil, fmt.Errorf("%w: only the sender may edit a message", domain.ErrForbidden)
	}
	updated, err := s.repo.UpdateText(ctx, id, actor, newText, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	metrics.MessagesEdited.Inc()
	s.dispatcher.Dispatch(ctx, domain.MessageEdited{Message: *updated})
	return updated, nil
}

// Delete removes a message permanently. Either party of the conversation
// may delete; clients must treat the event as authoritative.
func (s *MessageService) Delete(ctx context.Context, actor, id string) error {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !m.Party(actor) {
		return fmt.Errorf("%w: not a party of this message", domain.ErrForbidden)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	metrics.MessagesDeleted.Inc()
	s.dispatcher.Dispatch(ctx, domain.MessageDeleted{MessageID: m.ID, From: m.From, To: m.To})
	return nil
}

// History returns the full conversation between caller and counterpart,
// oldest first.
func (s *MessageService) History(ctx context.Context, caller, counterpart string) ([]domain.Message, error) {
	if counterpart == "" {
		return nil, fmt.Errorf("%w: counterpart required", domain.ErrValidation)
	}
	return s.repo.Conversation(ctx, caller, counterpart)
}
