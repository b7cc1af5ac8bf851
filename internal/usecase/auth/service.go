package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"opevents/internal/bootstrap/config"
	"opevents/internal/bootstrap/logging"
	"opevents/internal/errs"
	"opevents/internal/ports"
)

// Session lifetime. Access tokens expire sooner; the session outlives
// them because the API only uses the token at login time.
const sessionTTL = 8 * time.Hour

// Service runs the interactive login flow and owns session records.
type Service struct {
	cfg      config.Config
	identity ports.Identity
	sessions ports.SessionRepository
	now      func() time.Time
}

func NewService(cfg config.Config, identity ports.Identity, sessions ports.SessionRepository) *Service {
	return &Service{
		cfg:      cfg,
		identity: identity,
		sessions: sessions,
		now:      time.Now,
	}
}

// LoginURL returns the provider authorization URL and the opaque state
// value the callback must echo back.
func (s *Service) LoginURL(ctx context.Context) (url, state string, err error) {
	if ctx == nil {
		return "", "", errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return "", "", errs.Wrap(err, "check context")
	}
	if s.cfg.Azure.ClientID == "" {
		return "", "", &ports.ConfigError{Setting: "azure.client_id"}
	}

	state = uuid.NewString()
	return s.identity.LoginURL(state), state, nil
}

// CompleteLogin exchanges the authorization code and materializes a
// session for the authenticated user.
func (s *Service) CompleteLogin(ctx context.Context, code string) (ports.Session, error) {
	if ctx == nil {
		return ports.Session{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return ports.Session{}, errs.Wrap(err, "check context")
	}

	result, err := s.identity.ExchangeCode(ctx, code)
	if err != nil {
		return ports.Session{}, err
	}

	now := s.now().UTC()
	session := ports.Session{
		ID:          uuid.NewString(),
		UserID:      result.Profile.ID,
		Name:        result.Profile.Name,
		Email:       result.Profile.Email,
		JobTitle:    result.Profile.JobTitle,
		Photo:       result.Profile.Photo,
		AccessToken: result.AccessToken,
		CreatedAt:   now,
		ExpiresAt:   now.Add(sessionTTL),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return ports.Session{}, errs.Wrap(err, "persist session")
	}

	logging.Info(ctx, "user logged in",
		slog.String("session_id", session.ID),
		slog.String("email", session.Email),
	)
	return session, nil
}

// Current resolves the session for the given id. With authentication
// disabled it returns a fixed local user so the rest of the API keeps
// a uniform shape. Expired sessions are removed on sight.
func (s *Service) Current(ctx context.Context, sessionID string) (ports.Session, error) {
	if ctx == nil {
		return ports.Session{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return ports.Session{}, errs.Wrap(err, "check context")
	}

	if !s.cfg.App.EnableAuth {
		return ports.Session{
			ID:       "local",
			UserID:   "local",
			Name:     "Usuario Local",
			Email:    "local@localhost",
			JobTitle: "Desarrollo",
		}, nil
	}

	if sessionID == "" {
		return ports.Session{}, ports.ErrSessionNotFound
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return ports.Session{}, err
	}
	if session.Expired(s.now()) {
		if err := s.sessions.Delete(ctx, sessionID); err != nil {
			logging.Warn(ctx, "failed to delete expired session",
				slog.String("session_id", sessionID),
				slog.Any("err", errs.Loggable(err)),
			)
		}
		return ports.Session{}, ports.ErrSessionNotFound
	}
	return session, nil
}

func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}
	if sessionID == "" {
		return nil
	}
	return s.sessions.Delete(ctx, sessionID)
}

// PurgeExpired removes stale sessions. Called periodically by the
// server loop.
func (s *Service) PurgeExpired(ctx context.Context) (int64, error) {
	if ctx == nil {
		return 0, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return 0, errs.Wrap(err, "check context")
	}
	return s.sessions.DeleteExpired(ctx, s.now())
}
