package msgraph

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"net/http"

	"golang.org/x/oauth2"

	"opevents/internal/ports"
)

var _ ports.Identity = (*Client)(nil)

// LoginURL builds the provider authorization URL. The state value is
// generated by the caller; the exchange itself needs no stored flow
// state, so nothing is persisted here.
func (c *Client) LoginURL(state string) string {
	return c.oauthConfig().AuthCodeURL(state, oauth2.SetAuthURLParam("response_mode", "query"))
}

// ExchangeCode performs the one-shot authorization-code-for-token
// exchange and resolves the caller's profile and photo. A provider
// rejection comes back as an AuthError with the provider's error
// description; no token is kept in that case.
func (c *Client) ExchangeCode(ctx context.Context, code string) (ports.TokenResult, error) {
	if ctx == nil {
		return ports.TokenResult{}, errors.New("context is required")
	}
	if code == "" {
		return ports.TokenResult{}, &ports.AuthError{Description: "authorization code is empty"}
	}

	tok, err := c.oauthConfig().Exchange(context.WithValue(ctx, oauth2.HTTPClient, c.httpc), code)
	if err != nil {
		return ports.TokenResult{}, authErrorFrom(err)
	}

	result := ports.TokenResult{
		AccessToken: tok.AccessToken,
		ExpiresAt:   tok.Expiry,
		Profile:     c.fetchProfile(ctx, tok.AccessToken),
	}
	return result, nil
}

type meResponse struct {
	ID                string `json:"id"`
	DisplayName       string `json:"displayName"`
	Mail              string `json:"mail"`
	UserPrincipalName string `json:"userPrincipalName"`
	JobTitle          string `json:"jobTitle"`
}

// fetchProfile reads the signed-in user's profile and photo. A failed
// profile read degrades to a placeholder instead of failing the login.
func (c *Client) fetchProfile(ctx context.Context, accessToken string) ports.UserProfile {
	fallback := ports.UserProfile{Name: "User"}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL()+"/me", nil)
	if err != nil {
		return fallback
	}

	var me meResponse
	if err := c.doJSON(req, accessToken, &me); err != nil {
		return fallback
	}

	email := me.Mail
	if email == "" {
		email = me.UserPrincipalName
	}
	name := me.DisplayName
	if name == "" {
		name = "User"
	}

	return ports.UserProfile{
		ID:       me.ID,
		Name:     name,
		Email:    email,
		JobTitle: me.JobTitle,
		Photo:    c.fetchPhoto(ctx, accessToken),
	}
}

// fetchPhoto returns the profile photo as a data URI, or empty when
// the account has no photo set (a very common 404).
func (c *Client) fetchPhoto(ctx context.Context, accessToken string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL()+"/me/photo/$value", nil)
	if err != nil {
		return ""
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ""
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil || len(data) == 0 {
		return ""
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
