package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Nirmalamangrati/BackendOfPostflow/internal/auth"
	"github.com/Nirmalamangrati/BackendOfPostflow/internal/domain"
)

type staticIssuer struct{}

func (staticIssuer) Issue(userID, _ string) (string, error) { return "token-" + userID, nil }

func registerInput() RegisterInput {
	return RegisterInput{
		Fullname: "Alice Test",
		DOB:      "1990-01-01",
		Phone:    "9800000001",
		Email:    "alice@example.com",
		Password: "hunter22",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	req := require.New(t)
	repo := newFakeUserRepo()
	svc := NewUserService(repo, staticIssuer{})

	user, token, err := svc.Register(context.Background(), registerInput())
	req.NoError(err)
	req.NotEmpty(user.ID)
	req.Equal("token-"+user.ID, token)
	req.NotEqual("hunter22", user.PasswordHash)

	logged, token, err := svc.Login(context.Background(), "alice@example.com", "hunter22")
	req.NoError(err)
	req.Equal(user.ID, logged.ID)
	req.NotEmpty(token)
}

func TestRegisterDuplicateEmailAndPhone(t *testing.T) {
	req := require.New(t)
	repo := newFakeUserRepo()
	svc := NewUserService(repo, staticIssuer{})

	_, _, err := svc.Register(context.Background(), registerInput())
	req.NoError(err)

	dup := registerInput()
	dup.Phone = "9800000099"
	_, _, err = svc.Register(context.Background(), dup)
	req.True(errors.Is(err, domain.ErrConflict))

	dup = registerInput()
	dup.Email = "other@example.com"
	_, _, err = svc.Register(context.Background(), dup)
	req.True(errors.Is(err, domain.ErrConflict))
}

func TestLoginFailures(t *testing.T) {
	req := require.New(t)
	repo := newFakeUserRepo()
	svc := NewUserService(repo, staticIssuer{})
	_, _, err := svc.Register(context.Background(), registerInput())
	req.NoError(err)

	_, _, err = svc.Login(context.Background(), "alice@example.com", "wrong")
	req.True(errors.Is(err, domain.ErrUnauthorized))

	_, _, err = svc.Login(context.Background(), "nobody@example.com", "hunter22")
	req.True(errors.Is(err, domain.ErrUnauthorized))
}

func TestChangePassword(t *testing.T) {
	req := require.New(t)
	repo := newFakeUserRepo()
	svc := NewUserService(repo, staticIssuer{})
	user, _, err := svc.Register(context.Background(), registerInput())
	req.NoError(err)

	err = svc.ChangePassword(context.Background(), user.ID, "wrong", "newpass99")
	req.True(errors.Is(err, domain.ErrValidation))

	req.NoError(svc.ChangePassword(context.Background(), user.ID, "hunter22", "newpass99"))

	stored, err := repo.FindByID(context.Background(), user.ID)
	req.NoError(err)
	req.True(auth.CheckPassword(stored.PasswordHash, "newpass99"))
}
