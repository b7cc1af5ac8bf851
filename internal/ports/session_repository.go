package ports

import (
	"context"
	"errors"
	"time"
)

var ErrSessionNotFound = errors.New("session not found")

// Session is the authenticated browser session: the user-level access
// token plus the resolved profile. A stored session implies the user
// passed the login gate; logout removes the row entirely.
type Session struct {
	ID          string
	UserID      string
	Name        string
	Email       string
	JobTitle    string
	Photo       string
	AccessToken string
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

type SessionRepository interface {
	Create(ctx context.Context, session Session) error
	Get(ctx context.Context, id string) (Session, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
