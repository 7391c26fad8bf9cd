package uploader

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// TokenProvider acquires a bearer credential for a storage backend.
// Token acquisition is treated as opaque; providers cache and refresh
// internally as their underlying source allows.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken adapts a pre-acquired bearer token.
type StaticToken string

// Token returns the static token value.
func (t StaticToken) Token(_ context.Context) (string, error) {
	return string(t), nil
}

type oauthProvider struct {
	cfg *clientcredentials.Config
}

// NewClientCredentials creates a TokenProvider backed by the OAuth2
// client-credentials flow. Tokens are cached and refreshed per request
// context by the underlying source.
func NewClientCredentials(tokenURL, clientID, clientSecret string, scopes []string) TokenProvider {
	return &oauthProvider{
		cfg: &clientcredentials.Config{
			TokenURL:     tokenURL,
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Scopes:       scopes,
		},
	}
}

func (p *oauthProvider) Token(ctx context.Context) (string, error) {
	tok, err := p.cfg.TokenSource(ctx).Token()
	if err != nil {
		return "", fmt.Errorf("acquire token: %w", err)
	}
	return tok.AccessToken, nil
}

type sourceProvider struct {
	source oauth2.TokenSource
}

// NewTokenSource adapts an oauth2.TokenSource into a TokenProvider.
func NewTokenSource(source oauth2.TokenSource) TokenProvider {
	return &sourceProvider{source: source}
}

func (p *sourceProvider) Token(_ context.Context) (string, error) {
	tok, err := p.source.Token()
	if err != nil {
		return "", fmt.Errorf("acquire token: %w", err)
	}
	return tok.AccessToken, nil
}
