package ports

import (
	"context"
	"time"
)

// UserProfile is the signed-in caller's directory profile. Photo is a
// base64 data URI ("data:image/jpeg;base64,...") or empty when the
// account has no photo.
type UserProfile struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	JobTitle string `json:"job_title"`
	Photo    string `json:"photo,omitempty"`
}

type TokenResult struct {
	AccessToken string
	ExpiresAt   time.Time
	Profile     UserProfile
}

// Identity covers the OAuth2 surface of the provider: the login URL,
// the one-shot authorization-code exchange (no stored flow state, the
// browser redirect does not preserve any), and application-level
// client-credentials tokens.
type Identity interface {
	LoginURL(state string) string
	ExchangeCode(ctx context.Context, code string) (TokenResult, error)
	AppToken(ctx context.Context) (string, error)
}

// DirectoryEntry is an organization user, read-only to this system.
type DirectoryEntry struct {
	ID                string `json:"id"`
	DisplayName       string `json:"displayName"`
	Mail              string `json:"mail"`
	UserPrincipalName string `json:"userPrincipalName"`
	JobTitle          string `json:"jobTitle"`
	Department        string `json:"department"`
}

// Directory queries the organization's user list, restricted to active
// member accounts and optionally to one mail domain, following
// continuation links until maxResults is reached.
type Directory interface {
	SearchUsers(ctx context.Context, domain string, maxResults int) ([]DirectoryEntry, error)
}
