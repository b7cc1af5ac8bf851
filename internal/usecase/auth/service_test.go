package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"opevents/internal/bootstrap/config"
	"opevents/internal/ports"
)

type fakeIdentity struct {
	exchangeErr error
	profile     ports.UserProfile
}

func (f *fakeIdentity) LoginURL(state string) string {
	return "https://login.example/authorize?state=" + state
}

func (f *fakeIdentity) ExchangeCode(_ context.Context, code string) (ports.TokenResult, error) {
	if f.exchangeErr != nil {
		return ports.TokenResult{}, f.exchangeErr
	}
	return ports.TokenResult{
		AccessToken: "token-for-" + code,
		ExpiresAt:   time.Now().Add(time.Hour),
		Profile:     f.profile,
	}, nil
}

func (f *fakeIdentity) AppToken(_ context.Context) (string, error) { return "app-token", nil }

type fakeSessions struct {
	store map[string]ports.Session
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{store: make(map[string]ports.Session)}
}

func (f *fakeSessions) Create(_ context.Context, session ports.Session) error {
	f.store[session.ID] = session
	return nil
}

func (f *fakeSessions) Get(_ context.Context, id string) (ports.Session, error) {
	session, ok := f.store[id]
	if !ok {
		return ports.Session{}, ports.ErrSessionNotFound
	}
	return session, nil
}

func (f *fakeSessions) Delete(_ context.Context, id string) error {
	delete(f.store, id)
	return nil
}

func (f *fakeSessions) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	var purged int64
	for id, session := range f.store {
		if session.Expired(now) {
			delete(f.store, id)
			purged++
		}
	}
	return purged, nil
}

func authConfig() config.Config {
	return config.Config{
		App:   config.AppConfig{EnableAuth: true},
		Azure: config.AzureConfig{ClientID: "client-id"},
	}
}

func TestLoginURLGeneratesFreshState(t *testing.T) {
	svc := NewService(authConfig(), &fakeIdentity{}, newFakeSessions())
	ctx := context.Background()

	url1, state1, err := svc.LoginURL(ctx)
	if err != nil {
		t.Fatalf("LoginURL() error = %v", err)
	}
	if state1 == "" || !strings.Contains(url1, state1) {
		t.Fatalf("LoginURL() = %q, state = %q", url1, state1)
	}

	_, state2, err := svc.LoginURL(ctx)
	if err != nil {
		t.Fatalf("LoginURL() error = %v", err)
	}
	if state1 == state2 {
		t.Fatalf("state repeated across logins")
	}
}

func TestLoginURLRequiresClientID(t *testing.T) {
	cfg := authConfig()
	cfg.Azure.ClientID = ""
	svc := NewService(cfg, &fakeIdentity{}, newFakeSessions())

	_, _, err := svc.LoginURL(context.Background())

	var cfgErr *ports.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("LoginURL() error = %v, want ConfigError", err)
	}
}

func TestCompleteLoginCreatesSession(t *testing.T) {
	sessions := newFakeSessions()
	identity := &fakeIdentity{profile: ports.UserProfile{
		ID:    "u1",
		Name:  "Ana Flores",
		Email: "ana@example.com",
	}}
	svc := NewService(authConfig(), identity, sessions)
	fixed := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	session, err := svc.CompleteLogin(context.Background(), "auth-code")
	if err != nil {
		t.Fatalf("CompleteLogin() error = %v", err)
	}
	if session.ID == "" {
		t.Fatalf("session id is empty")
	}
	if session.Email != "ana@example.com" || session.AccessToken != "token-for-auth-code" {
		t.Fatalf("session = %+v", session)
	}
	if !session.ExpiresAt.Equal(fixed.Add(sessionTTL)) {
		t.Fatalf("ExpiresAt = %v", session.ExpiresAt)
	}
	if _, ok := sessions.store[session.ID]; !ok {
		t.Fatalf("session not persisted")
	}
}

func TestCompleteLoginRejectionCreatesNoSession(t *testing.T) {
	sessions := newFakeSessions()
	identity := &fakeIdentity{exchangeErr: &ports.AuthError{Code: "invalid_grant", Description: "expired"}}
	svc := NewService(authConfig(), identity, sessions)

	_, err := svc.CompleteLogin(context.Background(), "bad-code")

	var authErr *ports.AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("CompleteLogin() error = %v, want AuthError", err)
	}
	if len(sessions.store) != 0 {
		t.Fatalf("session created despite rejection")
	}
}

func TestCurrentExpiredSessionIsRemoved(t *testing.T) {
	sessions := newFakeSessions()
	svc := NewService(authConfig(), &fakeIdentity{}, sessions)

	now := time.Now().UTC()
	sessions.store["old"] = ports.Session{ID: "old", ExpiresAt: now.Add(-time.Minute)}

	_, err := svc.Current(context.Background(), "old")
	if !errors.Is(err, ports.ErrSessionNotFound) {
		t.Fatalf("Current(expired) error = %v, want ErrSessionNotFound", err)
	}
	if _, ok := sessions.store["old"]; ok {
		t.Fatalf("expired session not removed")
	}
}

func TestCurrentWithAuthDisabledReturnsLocalUser(t *testing.T) {
	cfg := authConfig()
	cfg.App.EnableAuth = false
	svc := NewService(cfg, &fakeIdentity{}, newFakeSessions())

	session, err := svc.Current(context.Background(), "")
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}
	if session.ID != "local" || session.Name == "" {
		t.Fatalf("session = %+v, want local dev user", session)
	}
}

func TestLogoutRemovesSession(t *testing.T) {
	sessions := newFakeSessions()
	svc := NewService(authConfig(), &fakeIdentity{}, sessions)
	ctx := context.Background()

	sessions.store["s1"] = ports.Session{ID: "s1", ExpiresAt: time.Now().Add(time.Hour)}

	if err := svc.Logout(ctx, "s1"); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if _, ok := sessions.store["s1"]; ok {
		t.Fatalf("session survived logout")
	}

	// Logging out without a cookie is a no-op.
	if err := svc.Logout(ctx, ""); err != nil {
		t.Fatalf("Logout(empty) error = %v", err)
	}
}

func TestPurgeExpired(t *testing.T) {
	sessions := newFakeSessions()
	svc := NewService(authConfig(), &fakeIdentity{}, sessions)
	now := time.Now().UTC()
	svc.now = func() time.Time { return now }

	sessions.store["stale"] = ports.Session{ID: "stale", ExpiresAt: now.Add(-time.Hour)}
	sessions.store["fresh"] = ports.Session{ID: "fresh", ExpiresAt: now.Add(time.Hour)}

	purged, err := svc.PurgeExpired(context.Background())
	if err != nil {
		t.Fatalf("PurgeExpired() error = %v", err)
	}
	if purged != 1 {
		t.Fatalf("PurgeExpired() = %d, want 1", purged)
	}
}
