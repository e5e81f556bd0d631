package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/skyproperties/sky-backend/internal/access"
	"github.com/skyproperties/sky-backend/internal/estate/domain"
	"github.com/skyproperties/sky-backend/internal/estate/repository"
	"github.com/skyproperties/sky-backend/internal/identity"
	"github.com/skyproperties/sky-backend/internal/locale"
	"github.com/skyproperties/sky-backend/internal/logging"
	"github.com/skyproperties/sky-backend/internal/session"
)

// Profiles is the slice of the users repository the service needs.
type Profiles interface {
	Get(ctx context.Context, uid string) (domain.User, error)
	Create(ctx context.Context, uid, email string, fields repository.ProfileFields) (domain.User, error)
	Update(ctx context.Context, uid string, patch repository.UserPatch) (domain.User, error)
}

var ErrUnsupportedLanguage = errors.New("unsupported language")

// AuthService signs principals in and out on behalf of HTTP clients. It is
// stateless; the caller keeps the returned token.
type AuthService struct {
	provider identity.Provider
	profiles Profiles
}

func NewAuthService(provider identity.Provider, profiles Profiles) *AuthService {
	return &AuthService{provider: provider, profiles: profiles}
}

// Login returns the principal and its profile. A principal without a
// profile document is still signed in; the profile is nil.
func (s *AuthService) Login(ctx context.Context, email, password string) (*identity.Principal, *domain.User, error) {
	p, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		logging.Op(ctx, "auth.login").WithError(err).Warn("sign-in failed")
		return nil, nil, err
	}

	profile, err := s.profile(ctx, p.ID)
	if err != nil {
		return nil, nil, err
	}
	return p, profile, nil
}

// Register creates the account and its profile. Only owner, tenant and
// provider may be chosen; an empty role registers a tenant.
func (s *AuthService) Register(ctx context.Context, email, password string, fields repository.ProfileFields) (*identity.Principal, *domain.User, error) {
	if fields.Role == "" {
		fields.Role = access.RoleTenant
	}
	if !access.SelfAssignable(fields.Role) {
		return nil, nil, session.ErrRoleNotAvailable
	}

	p, err := s.provider.SignUp(ctx, email, password)
	if err != nil {
		logging.Op(ctx, "auth.register").WithError(err).Warn("sign-up failed")
		return nil, nil, err
	}

	profile, err := s.profiles.Create(ctx, p.ID, p.Email, fields)
	if err != nil {
		logging.Op(ctx, "auth.register").WithError(err).WithField("uid", p.ID).Error("profile write failed")
		return nil, nil, fmt.Errorf("create profile: %w", err)
	}
	return p, &profile, nil
}

func (s *AuthService) Logout(ctx context.Context, p *identity.Principal) error {
	return s.provider.SignOut(ctx, p)
}

func (s *AuthService) ResetPassword(ctx context.Context, email string) error {
	return s.provider.SendPasswordReset(ctx, email)
}

func (s *AuthService) SetLanguage(ctx context.Context, uid, lang string) (domain.User, error) {
	if !locale.Supported(lang) {
		return domain.User{}, ErrUnsupportedLanguage
	}
	return s.profiles.Update(ctx, uid, repository.UserPatch{Language: &lang})
}

func (s *AuthService) profile(ctx context.Context, uid string) (*domain.User, error) {
	u, err := s.profiles.Get(ctx, uid)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return &u, nil
}
