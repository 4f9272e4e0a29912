// Package googleauth wraps the Google OpenID Connect login flow: building
// the consent-page URL, exchanging the authorization code, and resolving
// the verified account email from the userinfo endpoint.
package googleauth

import (
	"context"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	apperrors "github.com/scribeav/go-transcribe-server/internal/errors"
)

const googleIssuer = "https://accounts.google.com"

// Provider is the identity-provider surface the HTTP layer depends on,
// so tests can substitute a fake.
type Provider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	VerifiedEmail(ctx context.Context, token *oauth2.Token) (string, error)
}

var _ Provider = (*Client)(nil)

// Client talks to Google. Construct one at startup; discovery of the
// issuer's endpoints happens once in New.
type Client struct {
	provider    *oidc.Provider
	oauthConfig *oauth2.Config
}

func New(ctx context.Context, clientID, clientSecret, redirectURL string) (*Client, error) {
	provider, err := oidc.NewProvider(ctx, googleIssuer)
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrEndpointNotFound, "discovering google oidc endpoints: %v", err)
	}

	return &Client{
		provider: provider,
		oauthConfig: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     provider.Endpoint(),
			RedirectURL:  redirectURL,
			Scopes:       []string{oidc.ScopeOpenID, "email"},
		},
	}, nil
}

// AuthCodeURL returns the Google consent-page URL carrying the opaque
// state nonce that the callback handler checks against the cache.
func (c *Client) AuthCodeURL(state string) string {
	return c.oauthConfig.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("include_granted_scopes", "true"),
	)
}

// Exchange trades the authorization code for Google's tokens. A failed
// exchange means the login attempt is bad, not that Google is down, so
// it reports denied.
func (c *Client) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := c.oauthConfig.Exchange(ctx, code)
	if err != nil {
		log.Error().Err(err).Msg("authorization code exchange failed")
		return nil, apperrors.ErrAuthorizationDenied
	}
	return token, nil
}

// VerifiedEmail fetches the userinfo document and returns the account
// email, requiring Google's email_verified attestation.
func (c *Client) VerifiedEmail(ctx context.Context, token *oauth2.Token) (string, error) {
	userInfo, err := c.provider.UserInfo(ctx, oauth2.StaticTokenSource(token))
	if err != nil {
		return "", apperrors.Wrapf(apperrors.ErrDependencyFailure, "fetching google userinfo: %v", err)
	}
	if userInfo.Email == "" || !userInfo.EmailVerified {
		log.Error().Str("subject", userInfo.Subject).Msg("google userinfo has no verified email")
		return "", apperrors.ErrUserProfileNotFound
	}
	return userInfo.Email, nil
}
