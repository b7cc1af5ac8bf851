package msgraph

import (
	"context"
	"sync"
	"time"

	"opevents/internal/bootstrap/config"
)

// memCache is an in-process ports.Cache for tests.
type memCache struct {
	mu      sync.Mutex
	entries map[string]string
	ttls    map[string]time.Duration
}

func newMemCache() *memCache {
	return &memCache{
		entries: make(map[string]string),
		ttls:    make(map[string]time.Duration),
	}
}

func (m *memCache) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, found := m.entries[key]
	return value, found, nil
}

func (m *memCache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
	m.ttls[key] = ttl
	return nil
}

func (m *memCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

// testConfig points every provider URL at the given test server.
func testConfig(serverURL string) config.Config {
	return config.Config{
		App: config.AppConfig{
			Name: "Operation Events",
			URL:  "http://localhost:3001",
		},
		Azure: config.AzureConfig{
			ClientID:     "client-id",
			ClientSecret: "client-secret",
			TenantID:     "tenant-id",
			RedirectURI:  "http://localhost:8080/auth/callback",
		},
		Graph: config.GraphConfig{
			BaseURL:  serverURL + "/v1.0",
			LoginURL: serverURL + "/login",
			SiteID:   "site-1",
			ListID:   "list-1",
		},
		Mail: config.MailConfig{Sender: "noreply@example.com"},
		HTTP: config.HTTPConfig{TimeoutSeconds: 5},
	}
}
