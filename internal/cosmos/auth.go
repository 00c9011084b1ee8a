package cosmos

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"cosmos-mcp/pkg/logging"

	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

// DefaultKeycloakClientID is the Keycloak client the COSMOS API tokens are issued for.
const DefaultKeycloakClientID = "api"

// TokenProvider supplies the Authorization header value for API requests.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// Invalidator is implemented by providers that cache tokens and can drop
// them after the API rejected one.
type Invalidator interface {
	Invalidate()
}

// PasswordAuth sends the configured password as the token, which is what
// open-source COSMOS expects.
type PasswordAuth struct {
	Password string
}

// Token implements TokenProvider.
func (p PasswordAuth) Token(ctx context.Context) (string, error) {
	return p.Password, nil
}

// KeycloakAuth logs in to Keycloak with the resource-owner password grant
// and keeps the token fresh with the refresh token. A failed refresh falls
// back to a new login.
type KeycloakAuth struct {
	config     *oauth2.Config
	username   string
	password   string
	httpClient *http.Client

	mu     sync.Mutex
	source oauth2.TokenSource

	group singleflight.Group
}

// KeycloakOption configures a KeycloakAuth.
type KeycloakOption func(*KeycloakAuth)

// WithKeycloakHTTPClient sets the HTTP client used for token requests.
func WithKeycloakHTTPClient(c *http.Client) KeycloakOption {
	return func(k *KeycloakAuth) {
		k.httpClient = c
	}
}

// WithKeycloakClientID overrides the OAuth client id.
func WithKeycloakClientID(id string) KeycloakOption {
	return func(k *KeycloakAuth) {
		k.config.ClientID = id
	}
}

// TokenURL returns the OpenID Connect token endpoint of a Keycloak realm.
func TokenURL(keycloakURL, realm string) string {
	return fmt.Sprintf("%s/realms/%s/protocol/openid-connect/token", strings.TrimRight(keycloakURL, "/"), realm)
}

// NewKeycloakAuth creates a Keycloak token provider.
func NewKeycloakAuth(keycloakURL, realm, username, password string, opts ...KeycloakOption) *KeycloakAuth {
	k := &KeycloakAuth{
		config: &oauth2.Config{
			ClientID: DefaultKeycloakClientID,
			Endpoint: oauth2.Endpoint{
				TokenURL:  TokenURL(keycloakURL, realm),
				AuthStyle: oauth2.AuthStyleInParams,
			},
			Scopes: []string{"openid"},
		},
		username:   username,
		password:   password,
		httpClient: &http.Client{Timeout: DefaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// Token implements TokenProvider. Concurrent callers share one login. The
// login is detached from ctx and bounded by the HTTP client timeout; a
// caller whose ctx ends stops waiting without failing the others.
func (k *KeycloakAuth) Token(ctx context.Context) (string, error) {
	ch := k.group.DoChan("token", func() (interface{}, error) {
		return k.fetch(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return "Bearer " + res.Val.(string), nil
	}
}

// Invalidate drops the cached token so the next request logs in again.
func (k *KeycloakAuth) Invalidate() {
	k.mu.Lock()
	k.source = nil
	k.mu.Unlock()
}

func (k *KeycloakAuth) fetch(ctx context.Context) (string, error) {
	k.mu.Lock()
	source := k.source
	k.mu.Unlock()

	if source != nil {
		tok, err := source.Token()
		if err == nil {
			return tok.AccessToken, nil
		}
		logging.Warn("Cosmos", "Keycloak token refresh failed, logging in again: %v", err)
	}

	oauthCtx := context.WithValue(ctx, oauth2.HTTPClient, k.httpClient)
	tok, err := k.config.PasswordCredentialsToken(oauthCtx, k.username, k.password)
	if err != nil {
		return "", fmt.Errorf("keycloak login failed: %w", err)
	}
	logging.Debug("Cosmos", "Obtained Keycloak token for %s", k.username)

	// the refreshing source must outlive the request context
	refreshCtx := context.WithValue(context.Background(), oauth2.HTTPClient, k.httpClient)
	k.mu.Lock()
	k.source = oauth2.ReuseTokenSource(tok, k.config.TokenSource(refreshCtx, tok))
	k.mu.Unlock()

	return tok.AccessToken, nil
}
