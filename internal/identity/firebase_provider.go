package identity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/googleapi"
	identitytoolkit "google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"
)

// FirebaseProvider verifies tokens and manages accounts with the Admin SDK
// and signs users in through the Identity Toolkit REST API.
type FirebaseProvider struct {
	auth    *auth.Client
	toolkit *identitytoolkit.Service
}

func NewFirebaseProvider(ctx context.Context, app *firebase.App, webAPIKey string) (*FirebaseProvider, error) {
	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get Auth client: %w", err)
	}

	toolkit, err := identitytoolkit.NewService(ctx, option.WithAPIKey(webAPIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create identity toolkit client: %w", err)
	}

	return &FirebaseProvider{auth: authClient, toolkit: toolkit}, nil
}

func (p *FirebaseProvider) SignIn(ctx context.Context, email, password string) (*Principal, error) {
	resp, err := p.toolkit.Relyingparty.VerifyPassword(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		return nil, mapToolkitError(err)
	}

	return &Principal{ID: resp.LocalId, Email: resp.Email, IDToken: resp.IdToken}, nil
}

func (p *FirebaseProvider) SignUp(ctx context.Context, email, password string) (*Principal, error) {
	if len(password) < MinPasswordLength {
		return nil, ErrWeakPassword
	}

	params := (&auth.UserToCreate{}).Email(email).Password(password)
	if _, err := p.auth.CreateUser(ctx, params); err != nil {
		if auth.IsEmailAlreadyExists(err) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return p.SignIn(ctx, email, password)
}

// SignOut revokes the principal's refresh tokens. ID tokens already issued
// stay valid until they expire.
func (p *FirebaseProvider) SignOut(ctx context.Context, principal *Principal) error {
	if principal.UID() == "" {
		return nil
	}
	if err := p.auth.RevokeRefreshTokens(ctx, principal.ID); err != nil {
		return fmt.Errorf("failed to revoke tokens: %w", err)
	}
	return nil
}

func (p *FirebaseProvider) SendPasswordReset(ctx context.Context, email string) error {
	_, err := p.toolkit.Relyingparty.GetOobConfirmationCode(&identitytoolkit.Relyingparty{
		Email:       email,
		RequestType: "PASSWORD_RESET",
	}).Context(ctx).Do()
	if err != nil {
		return mapToolkitError(err)
	}
	return nil
}

func (p *FirebaseProvider) VerifyToken(ctx context.Context, token string) (*Principal, error) {
	decoded, err := p.auth.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	principal := &Principal{ID: decoded.UID, IDToken: token}
	if email, ok := decoded.Claims["email"].(string); ok {
		principal.Email = email
	}
	return principal, nil
}

func mapToolkitError(err error) error {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) || gerr.Code != http.StatusBadRequest {
		return fmt.Errorf("auth service: %w", err)
	}

	switch code := strings.SplitN(gerr.Message, " ", 2)[0]; code {
	case "EMAIL_NOT_FOUND":
		return fmt.Errorf("%w: %s", ErrUnknownEmail, code)
	case "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS", "INVALID_EMAIL", "USER_DISABLED":
		return fmt.Errorf("%w: %s", ErrInvalidCredentials, code)
	default:
		return fmt.Errorf("auth service: %s", gerr.Message)
	}
}
