package msgraph

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"opevents/internal/bootstrap/config"
	"opevents/internal/ports"
)

// Client talks to the Graph-style provider: token endpoints, the user
// directory, the list store, and the mail-send endpoint. Every call is
// a synchronous round-trip with a fixed timeout and no retries.
type Client struct {
	cfg   config.Config
	httpc *http.Client
	cache ports.Cache
	now   func() time.Time
}

func NewClient(cfg config.Config, cache ports.Cache) *Client {
	timeout := time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		cfg:   cfg,
		httpc: &http.Client{Timeout: timeout},
		cache: cache,
		now:   time.Now,
	}
}

func (c *Client) baseURL() string {
	return strings.TrimRight(c.cfg.Graph.BaseURL, "/")
}

func (c *Client) authorizeURL() string {
	return c.cfg.Authority() + "/oauth2/v2.0/authorize"
}

func (c *Client) tokenURL() string {
	return c.cfg.Authority() + "/oauth2/v2.0/token"
}

func (c *Client) oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.cfg.Azure.ClientID,
		ClientSecret: c.cfg.Azure.ClientSecret,
		RedirectURL:  c.cfg.Azure.RedirectURI,
		Scopes:       c.cfg.UserScopes(),
		Endpoint: oauth2.Endpoint{
			AuthURL:   c.authorizeURL(),
			TokenURL:  c.tokenURL(),
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

type graphErrorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// remoteError converts a non-2xx provider response into a RemoteError
// carrying the provider's message, falling back to the raw body.
func remoteError(status int, body []byte) *ports.RemoteError {
	var parsed graphErrorBody
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error.Message != "" {
		return &ports.RemoteError{StatusCode: status, Message: parsed.Error.Message}
	}
	return &ports.RemoteError{StatusCode: status, Message: strings.TrimSpace(string(body))}
}

// doJSON issues one authorized request. A non-nil out receives the
// decoded 2xx body; failures become RemoteError, transport errors are
// returned as-is for the caller to surface.
func (c *Client) doJSON(req *http.Request, token string, out any) error {
	req.Header.Set("Authorization", "Bearer "+token)
	if req.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return remoteError(resp.StatusCode, body)
	}

	if out != nil && len(body) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decode response body: %w", err)
		}
	}
	return nil
}
