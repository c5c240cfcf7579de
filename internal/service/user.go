package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Nirmalamangrati/BackendOfPostflow/internal/auth"
	"github.com/Nirmalamangrati/BackendOfPostflow/internal/domain"
)

type UserRepo interface {
	Insert(ctx context.Context, u *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByPhone(ctx context.Context, phone string) (*domain.User, error)
	Exists(ctx context.Context, id string) (bool, error)
	ListAll(ctx context.Context) ([]domain.User, error)
	FindMany(ctx context.Context, ids []string) ([]domain.User, error)
	UpdatePassword(ctx context.Context, id, hash string) error
	AddFriendRequest(ctx context.Context, from, to string) error
	AcceptFriendRequest(ctx context.Context, userID, requesterID string) error
	RejectFriendRequest(ctx context.Context, userID, requesterID string) error
}

// TokenIssuer signs credentials for freshly registered or logged-in users.
type TokenIssuer interface {
	Issue(userID, email string) (string, error)
}

type UserService struct {
	repo   UserRepo
	tokens TokenIssuer
}

func NewUserService(repo UserRepo, tokens TokenIssuer) *UserService {
	return &UserService{repo: repo, tokens: tokens}
}

type RegisterInput struct {
	Fullname string
	DOB      string
	Phone    string
	Email    string
	Password string
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*domain.User, string, error) {
	if _, err := s.repo.FindByEmail(ctx, in.Email); err == nil {
		return nil, "", fmt.Errorf("%w: this email is already used", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, "", err
	}
	if _, err := s.repo.FindByPhone(ctx, in.Phone); err == nil {
		return nil, "", fmt.Errorf("%w: this phone number is already used", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, "", err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, "", err
	}
	now := time.Now().UTC()
	u := &domain.User{
		Fullname:               in.Fullname,
		DOB:                    in.DOB,
		Phone:                  in.Phone,
		Email:                  in.Email,
		PasswordHash:           hash,
		CreatedAt:              now,
		UpdatedAt:              now,
		Friends:                []string{},
		FriendRequestsSent:     []string{},
		FriendRequestsReceived: []string{},
	}
	if err := s.repo.Insert(ctx, u); err != nil {
		return nil, "", err
	}
	token, err := s.tokens.Issue(u.ID, u.Email)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", fmt.Errorf("%w: email or password is incorrect", domain.ErrUnauthorized)
		}
		return nil, "", err
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return nil, "", fmt.Errorf("%w: email or password is incorrect", domain.ErrUnauthorized)
	}
	token, err := s.tokens.Issue(u.ID, u.Email)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *UserService) ChangePassword(ctx context.Context, userID, current, next string) error {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(u.PasswordHash, current) {
		return fmt.Errorf("%w: incorrect current password", domain.ErrValidation)
	}
	hash, err := auth.HashPassword(next)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, userID, hash)
}
