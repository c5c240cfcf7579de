package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Nirmalamangrati/BackendOfPostflow/internal/domain"
)

// Claims is the caller identity resolved from a verified bearer token.
type Claims struct {
	ID    string
	Email string
}

type Tokens struct {
	secret []byte
	ttl    time.Duration
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl}
}

// Issue signs an HS256 token carrying the user id and email.
func (t *Tokens) Issue(userID, email string) (string, error) {
	now := time.Now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":    userID,
		"email": email,
		"iat":   now.Unix(),
		"exp":   now.Add(t.ttl).Unix(),
	})
	return tok.SignedString(t.secret)
}

// Verify parses and validates a bearer token and returns its identity.
// Any failure maps to domain.ErrUnauthorized.
func (t *Tokens) Verify(tokenStr string) (Claims, error) {
	tok, err := jwt.Parse(tokenStr, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return Claims{}, errors.Join(domain.ErrUnauthorized, err)
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok || !tok.Valid {
		return Claims{}, domain.ErrUnauthorized
	}
	id, _ := claims["id"].(string)
	if id == "" {
		// some older clients were issued tokens with a "sub" claim
		id, _ = claims["sub"].(string)
	}
	if id == "" {
		return Claims{}, domain.ErrUnauthorized
	}
	email, _ := claims["email"].(string)
	return Claims{ID: id, Email: email}, nil
}
