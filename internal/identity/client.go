package identity

import (
	"context"
	"errors"
	"sync"
)

// Listener observes sign-in state changes. p is nil after sign-out.
type Listener func(ctx context.Context, p *Principal) error

// Client tracks the principal signed in on this process and notifies
// listeners whenever it changes.
type Client struct {
	provider Provider

	mu        sync.RWMutex
	current   *Principal
	nextID    int
	listeners map[int]Listener
}

func NewClient(provider Provider) *Client {
	return &Client{provider: provider, listeners: make(map[int]Listener)}
}

// Provider returns the underlying authentication service.
func (c *Client) Provider() Provider {
	return c.provider
}

// Current returns the signed-in principal, or nil.
func (c *Client) Current() *Principal {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// OnStateChanged registers fn and returns a func that removes it. Calling
// the returned func more than once is harmless.
func (c *Client) OnStateChanged(fn Listener) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.listeners, id)
			c.mu.Unlock()
		})
	}
}

// SignIn authenticates and notifies listeners. A listener error does not
// undo the sign-in; it is returned alongside the principal.
func (c *Client) SignIn(ctx context.Context, email, password string) (*Principal, error) {
	p, err := c.provider.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return p, c.setCurrent(ctx, p)
}

func (c *Client) SignUp(ctx context.Context, email, password string) (*Principal, error) {
	p, err := c.provider.SignUp(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return p, c.setCurrent(ctx, p)
}

// Restore resumes a session from a previously issued token.
func (c *Client) Restore(ctx context.Context, token string) (*Principal, error) {
	p, err := c.provider.VerifyToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return p, c.setCurrent(ctx, p)
}

// SignOut ends the session. Local state is cleared even if the provider
// call fails.
func (c *Client) SignOut(ctx context.Context) error {
	err := c.provider.SignOut(ctx, c.Current())
	return errors.Join(err, c.setCurrent(ctx, nil))
}

func (c *Client) SendPasswordReset(ctx context.Context, email string) error {
	return c.provider.SendPasswordReset(ctx, email)
}

func (c *Client) setCurrent(ctx context.Context, p *Principal) error {
	c.mu.Lock()
	c.current = p
	listeners := make([]Listener, 0, len(c.listeners))
	for _, fn := range c.listeners {
		listeners = append(listeners, fn)
	}
	c.mu.Unlock()

	var errs []error
	for _, fn := range listeners {
		if err := fn(ctx, p); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
