package firebase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/googleapi"
	identitytoolkit "google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"
)

// Credential-exchange failures the handlers map to 400/403.
var (
	ErrEmailExists        = errors.New("email already in use")
	ErrEmailNotFound      = errors.New("email not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// IdentityClient exchanges email+password credentials for Firebase ID
// tokens through the Identity Toolkit API.
type IdentityClient struct {
	svc *identitytoolkit.Service
}

// NewIdentityClient creates an IdentityClient using the project's web API key.
func NewIdentityClient(ctx context.Context, apiKey string) (*IdentityClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Firebase API key not provided")
	}
	svc, err := identitytoolkit.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("error creating identity toolkit service: %w", err)
	}
	return &IdentityClient{svc: svc}, nil
}

// SignUp creates a new email+password account and returns an ID token and
// the new account's uid.
func (c *IdentityClient) SignUp(ctx context.Context, email, password string) (string, string, error) {
	resp, err := c.svc.Relyingparty.SignupNewUser(&identitytoolkit.IdentitytoolkitRelyingpartySignupNewUserRequest{
		Email:    email,
		Password: password,
	}).Context(ctx).Do()
	if err != nil {
		return "", "", mapIdentityError(err)
	}
	return resp.IdToken, resp.LocalId, nil
}

// SignIn verifies email+password credentials and returns an ID token.
func (c *IdentityClient) SignIn(ctx context.Context, email, password string) (string, error) {
	resp, err := c.svc.Relyingparty.VerifyPassword(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		return "", mapIdentityError(err)
	}
	return resp.IdToken, nil
}

func mapIdentityError(err error) error {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return err
	}
	switch {
	case strings.Contains(gerr.Message, "EMAIL_EXISTS"):
		return ErrEmailExists
	case strings.Contains(gerr.Message, "EMAIL_NOT_FOUND"):
		return ErrEmailNotFound
	case strings.Contains(gerr.Message, "INVALID_PASSWORD"),
		strings.Contains(gerr.Message, "INVALID_LOGIN_CREDENTIALS"),
		strings.Contains(gerr.Message, "INVALID_EMAIL"):
		return ErrInvalidCredentials
	}
	return err
}
