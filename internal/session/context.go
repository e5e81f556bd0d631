package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/skyproperties/sky-backend/internal/access"
	"github.com/skyproperties/sky-backend/internal/estate/domain"
	"github.com/skyproperties/sky-backend/internal/estate/repository"
	"github.com/skyproperties/sky-backend/internal/identity"
	"github.com/skyproperties/sky-backend/internal/logging"
)

var (
	ErrAlreadyStarted   = errors.New("session context already started")
	ErrNotSignedIn      = errors.New("not signed in")
	ErrRoleNotAvailable = errors.New("role cannot be chosen at registration")
)

// Profiles loads and creates profile documents.
type Profiles interface {
	Get(ctx context.Context, uid string) (domain.User, error)
	Create(ctx context.Context, uid, email string, fields repository.ProfileFields) (domain.User, error)
}

// Context is the process-wide session. Construct it once, Start it to
// follow the identity client, and Close it on shutdown.
type Context struct {
	client   *identity.Client
	profiles Profiles

	mu          sync.RWMutex
	principal   *identity.Principal
	profile     *domain.User
	unsubscribe func()
}

func New(client *identity.Client, profiles Profiles) *Context {
	return &Context{client: client, profiles: profiles}
}

// Start subscribes to sign-in state changes. It adopts a principal the
// client already holds. A second Start fails with ErrAlreadyStarted.
func (c *Context) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.unsubscribe != nil {
		c.mu.Unlock()
		return ErrAlreadyStarted
	}
	c.unsubscribe = c.client.OnStateChanged(c.onStateChanged)
	c.mu.Unlock()

	if p := c.client.Current(); p != nil {
		return c.onStateChanged(ctx, p)
	}
	return nil
}

// Close releases the subscription. The context may be started again.
func (c *Context) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
}

func (c *Context) onStateChanged(ctx context.Context, p *identity.Principal) error {
	if p == nil {
		c.set(nil, nil)
		return nil
	}

	profile, err := c.profiles.Get(ctx, p.ID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.set(p, nil)
		return nil
	case err != nil:
		c.set(p, nil)
		logging.Op(ctx, "session.load_profile").WithError(err).WithField("uid", p.ID).Error("profile fetch failed")
		return fmt.Errorf("load profile: %w", err)
	}

	c.set(p, &profile)
	return nil
}

func (c *Context) set(p *identity.Principal, profile *domain.User) {
	c.mu.Lock()
	c.principal = p
	c.profile = profile
	c.mu.Unlock()
}

// Snapshot returns the current principal and profile.
func (c *Context) Snapshot() Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Session{Principal: c.principal, Profile: c.profile}
}

func (c *Context) SignIn(ctx context.Context, email, password string) error {
	_, err := c.client.SignIn(ctx, email, password)
	if err != nil {
		logging.Op(ctx, "session.sign_in").WithError(err).Warn("sign-in failed")
	}
	return err
}

// SignUp registers the account and writes its profile.
func (c *Context) SignUp(ctx context.Context, email, password string, fields repository.ProfileFields) error {
	if fields.Role == "" {
		fields.Role = access.RoleTenant
	}
	if !access.SelfAssignable(fields.Role) {
		return ErrRoleNotAvailable
	}

	p, err := c.client.SignUp(ctx, email, password)
	if p == nil {
		logging.Op(ctx, "session.sign_up").WithError(err).Warn("sign-up failed")
		return err
	}

	profile, err := c.profiles.Create(ctx, p.ID, p.Email, fields)
	if err != nil {
		logging.Op(ctx, "session.sign_up").WithError(err).WithField("uid", p.ID).Error("profile write failed")
		return fmt.Errorf("create profile: %w", err)
	}

	c.set(p, &profile)
	return nil
}

func (c *Context) SignOut(ctx context.Context) error {
	if !c.Snapshot().SignedIn() {
		return ErrNotSignedIn
	}
	return c.client.SignOut(ctx)
}

func (c *Context) ResetPassword(ctx context.Context, email string) error {
	return c.client.SendPasswordReset(ctx, email)
}

// Restore resumes a saved session token.
func (c *Context) Restore(ctx context.Context, token string) error {
	_, err := c.client.Restore(ctx, token)
	return err
}

func (c *Context) HasRole(r access.Role) bool          { return c.Snapshot().HasRole(r) }
func (c *Context) IsAdmin() bool                       { return c.Snapshot().IsAdmin() }
func (c *Context) IsManager() bool                     { return c.Snapshot().IsManager() }
func (c *Context) IsOwner() bool                       { return c.Snapshot().IsOwner() }
func (c *Context) IsTenant() bool                      { return c.Snapshot().IsTenant() }
func (c *Context) IsProvider() bool                    { return c.Snapshot().IsProvider() }
func (c *Context) CanAccess(required access.Role) bool { return c.Snapshot().CanAccess(required) }
