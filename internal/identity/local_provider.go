package identity

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// LocalProvider keeps accounts in memory. It serves development setups and
// tests that must not reach the hosted service.
type LocalProvider struct {
	mu       sync.RWMutex
	accounts map[string]localAccount // by lower-cased email
	tokens   map[string]string       // token -> uid
	resets   []string
	cost     int
}

type localAccount struct {
	uid   string
	email string
	hash  []byte
}

func NewLocalProvider() *LocalProvider {
	return &LocalProvider{
		accounts: make(map[string]localAccount),
		tokens:   make(map[string]string),
		cost:     bcrypt.DefaultCost,
	}
}

// WithCost lowers the bcrypt cost, for tests.
func (p *LocalProvider) WithCost(cost int) *LocalProvider {
	p.cost = cost
	return p
}

func (p *LocalProvider) SignUp(_ context.Context, email, password string) (*Principal, error) {
	if len(password) < MinPasswordLength {
		return nil, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return nil, err
	}

	key := strings.ToLower(strings.TrimSpace(email))

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.accounts[key]; ok {
		return nil, ErrEmailExists
	}
	acct := localAccount{uid: uuid.NewString(), email: strings.TrimSpace(email), hash: hash}
	p.accounts[key] = acct

	return p.issue(acct), nil
}

func (p *LocalProvider) SignIn(_ context.Context, email, password string) (*Principal, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	acct, ok := p.accounts[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(acct.hash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return p.issue(acct), nil
}

// SignOut drops every token issued to the principal.
func (p *LocalProvider) SignOut(_ context.Context, principal *Principal) error {
	uid := principal.UID()
	if uid == "" {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	for tok, owner := range p.tokens {
		if owner == uid {
			delete(p.tokens, tok)
		}
	}
	return nil
}

func (p *LocalProvider) SendPasswordReset(_ context.Context, email string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.accounts[strings.ToLower(strings.TrimSpace(email))]; !ok {
		return ErrUnknownEmail
	}
	p.resets = append(p.resets, email)
	return nil
}

// ResetsSent lists the addresses a reset was requested for.
func (p *LocalProvider) ResetsSent() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]string(nil), p.resets...)
}

func (p *LocalProvider) VerifyToken(_ context.Context, token string) (*Principal, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	uid, ok := p.tokens[token]
	if !ok {
		return nil, ErrInvalidToken
	}
	for _, acct := range p.accounts {
		if acct.uid == uid {
			return &Principal{ID: uid, Email: acct.email, IDToken: token}, nil
		}
	}
	return nil, ErrInvalidToken
}

// issue must be called with p.mu held.
func (p *LocalProvider) issue(acct localAccount) *Principal {
	token := uuid.NewString()
	p.tokens[token] = acct.uid
	return &Principal{ID: acct.uid, Email: acct.email, IDToken: token}
}
