// Package identity talks to the authentication service and tracks the
// principal signed in on this client.
package identity

import (
	"context"
	"errors"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUnknownEmail       = errors.New("no account for this email")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
)

// MinPasswordLength matches the hosted service's password policy.
const MinPasswordLength = 6

// Principal is an authenticated identity.
type Principal struct {
	ID      string `json:"uid"`
	Email   string `json:"email"`
	IDToken string `json:"-"`
}

// UID returns the principal id; nil principals have none.
func (p *Principal) UID() string {
	if p == nil {
		return ""
	}
	return p.ID
}

// Provider is the authentication service.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (*Principal, error)
	SignUp(ctx context.Context, email, password string) (*Principal, error)
	SignOut(ctx context.Context, p *Principal) error
	SendPasswordReset(ctx context.Context, email string) error
	VerifyToken(ctx context.Context, token string) (*Principal, error)
}
