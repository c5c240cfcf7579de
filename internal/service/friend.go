package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Nirmalamangrati/BackendOfPostflow/internal/domain"
)

// Notifier delivers a short notification to a user, best effort.
type Notifier interface {
	Notify(ctx context.Context, userID, message string) error
}

type FriendService struct {
	repo     UserRepo
	notifier Notifier
	log      *zap.SugaredLogger
}

func NewFriendService(repo UserRepo, notifier Notifier, log *zap.SugaredLogger) *FriendService {
	return &FriendService{repo: repo, notifier: notifier, log: log}
}

// Directory lists every user, for the "people you may know" view.
func (s *FriendService) Directory(ctx context.Context) ([]domain.Summary, error) {
	users, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return summaries(users), nil
}

func (s *FriendService) Request(ctx context.Context, userID, friendID string) error {
	if userID == friendID {
		return fmt.Errorf("%w: can't friend yourself", domain.ErrValidation)
	}
	friend, err := s.repo.FindByID(ctx, friendID)
	if err != nil {
		return err
	}
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.IsFriend(friendID) {
		return fmt.Errorf("%w: user already a friend", domain.ErrConflict)
	}
	if friend.HasPendingRequestFrom(userID) {
		return fmt.Errorf("%w: friend request already sent", domain.ErrConflict)
	}
	if err := s.repo.AddFriendRequest(ctx, userID, friendID); err != nil {
		return err
	}
	s.notify(ctx, friendID, user.Fullname+" sent you a friend request")
	return nil
}

func (s *FriendService) PendingRequests(ctx context.Context, userID string) ([]domain.Summary, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	requesters, err := s.repo.FindMany(ctx, user.FriendRequestsReceived)
	if err != nil {
		return nil, err
	}
	return summaries(requesters), nil
}

func (s *FriendService) Accept(ctx context.Context, userID, requesterID string) error {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !user.HasPendingRequestFrom(requesterID) {
		return fmt.Errorf("%w: no pending request from this user", domain.ErrNotFound)
	}
	if err := s.repo.AcceptFriendRequest(ctx, userID, requesterID); err != nil {
		return err
	}
	s.notify(ctx, requesterID, user.Fullname+" accepted your friend request")
	return nil
}

func (s *FriendService) Reject(ctx context.Context, userID, requesterID string) error {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !user.HasPendingRequestFrom(requesterID) {
		return fmt.Errorf("%w: no pending request from this user", domain.ErrNotFound)
	}
	return s.repo.RejectFriendRequest(ctx, userID, requesterID)
}

func (s *FriendService) Friends(ctx context.Context, userID string) ([]domain.Summary, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	friends, err := s.repo.FindMany(ctx, user.Friends)
	if err != nil {
		return nil, err
	}
	return summaries(friends), nil
}

func (s *FriendService) notify(ctx context.Context, userID, message string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, userID, message); err != nil {
		s.log.Warnw("notification failed", "user", userID, "err", err)
	}
}

func summaries(users []domain.User) []domain.Summary {
	out := make([]domain.Summary, 0, len(users))
	for i := range users {
		out = append(out, users[i].Summary())
	}
	return out
}
