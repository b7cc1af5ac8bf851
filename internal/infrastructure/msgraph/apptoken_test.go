package msgraph

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"opevents/internal/ports"
)

func TestAppTokenRequiresCredentials(t *testing.T) {
	cfg := testConfig("https://provider.example")
	cfg.Azure.ClientID = ""
	client := NewClient(cfg, nil)

	_, err := client.AppToken(context.Background())

	var cfgErr *ports.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("AppToken() error = %v, want ConfigError", err)
	}
}

func TestAppTokenAcquiresAndCaches(t *testing.T) {
	tokenCalls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/login/tenant-id/oauth2/v2.0/token", func(w http.ResponseWriter, r *http.Request) {
		tokenCalls++
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse token form: %v", err)
		}
		if got := r.Form.Get("grant_type"); got != "client_credentials" {
			t.Fatalf("grant_type = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"app-token","token_type":"Bearer","expires_in":3600}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	cache := newMemCache()
	client := NewClient(testConfig(server.URL), cache)

	token, err := client.AppToken(context.Background())
	if err != nil {
		t.Fatalf("AppToken() error = %v", err)
	}
	if token != "app-token" {
		t.Fatalf("AppToken() = %q", token)
	}

	// Second call is served from the cache.
	token, err = client.AppToken(context.Background())
	if err != nil {
		t.Fatalf("AppToken() second call error = %v", err)
	}
	if token != "app-token" || tokenCalls != 1 {
		t.Fatalf("AppToken() = %q after %d endpoint calls, want 1 call", token, tokenCalls)
	}

	if ttl := cache.ttls[appTokenCacheKey]; ttl <= 0 || ttl > appTokenCacheTTL {
		t.Fatalf("cache ttl = %v, want bounded by %v", ttl, appTokenCacheTTL)
	}
}

func TestAppTokenCapsTTLByExpiry(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/login/tenant-id/oauth2/v2.0/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"short-token","token_type":"Bearer","expires_in":600}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	cache := newMemCache()
	client := NewClient(testConfig(server.URL), cache)

	if _, err := client.AppToken(context.Background()); err != nil {
		t.Fatalf("AppToken() error = %v", err)
	}

	// 10-minute token: the cached lifetime must come in under that.
	if ttl := cache.ttls[appTokenCacheKey]; ttl <= 0 || ttl > 10*time.Minute {
		t.Fatalf("cache ttl = %v, want capped under token expiry", ttl)
	}
}

func TestAppTokenFailureBecomesAuthError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/login/tenant-id/oauth2/v2.0/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid_client","error_description":"AADSTS7000215: invalid client secret"}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := NewClient(testConfig(server.URL), newMemCache())

	_, err := client.AppToken(context.Background())

	var authErr *ports.AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("AppToken() error = %v, want AuthError", err)
	}
	if authErr.Code != "invalid_client" {
		t.Fatalf("AuthError.Code = %q", authErr.Code)
	}
}
