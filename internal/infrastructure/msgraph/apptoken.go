package msgraph

import (
	"context"
	"errors"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"opevents/internal/ports"
)

const appTokenCacheKey = "graph_app_token"

// The provider issues client-credentials tokens valid for about an
// hour; caching slightly below that avoids redeeming a token that is
// about to expire mid-request.
const appTokenCacheTTL = 50 * time.Minute

// AppToken returns an application-level (client credentials) token for
// directory queries, list CRUD, and mail sending. Tokens are cached in
// the KV cache for a bounded lifetime and re-acquired after expiry.
func (c *Client) AppToken(ctx context.Context) (string, error) {
	if ctx == nil {
		return "", errors.New("context is required")
	}
	if c.cfg.Azure.ClientID == "" || c.cfg.Azure.ClientSecret == "" {
		return "", &ports.ConfigError{Setting: "azure.client_id / azure.client_secret"}
	}

	if c.cache != nil {
		if cached, found, err := c.cache.Get(ctx, appTokenCacheKey); err == nil && found {
			return cached, nil
		}
	}

	creds := &clientcredentials.Config{
		ClientID:     c.cfg.Azure.ClientID,
		ClientSecret: c.cfg.Azure.ClientSecret,
		TokenURL:     c.tokenURL(),
		Scopes:       c.cfg.AppScopes(),
		AuthStyle:    oauth2.AuthStyleInParams,
	}

	tok, err := creds.Token(context.WithValue(ctx, oauth2.HTTPClient, c.httpc))
	if err != nil {
		return "", authErrorFrom(err)
	}

	ttl := appTokenCacheTTL
	if !tok.Expiry.IsZero() {
		if remaining := tok.Expiry.Sub(c.now()) - 2*time.Minute; remaining > 0 && remaining < ttl {
			ttl = remaining
		}
	}
	if c.cache != nil {
		_ = c.cache.Set(ctx, appTokenCacheKey, tok.AccessToken, ttl)
	}

	return tok.AccessToken, nil
}

// authErrorFrom maps a token-endpoint failure to an AuthError carrying
// the provider's error code and description.
func authErrorFrom(err error) error {
	var retrieve *oauth2.RetrieveError
	if errors.As(err, &retrieve) {
		return &ports.AuthError{
			Code:        retrieve.ErrorCode,
			Description: retrieve.ErrorDescription,
		}
	}
	return &ports.AuthError{Description: err.Error()}
}
