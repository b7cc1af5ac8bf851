package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"opevents/internal/errs"
	"opevents/internal/infrastructure/persistence/sqlite/model"
	"opevents/internal/ports"
)

type SessionRepository struct {
	db *gorm.DB
}

var _ ports.SessionRepository = (*SessionRepository)(nil)

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, session ports.Session) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}
	if strings.TrimSpace(session.ID) == "" {
		return errors.New("session id is required")
	}

	row := model.Session{
		ID:          session.ID,
		UserID:      session.UserID,
		Name:        session.Name,
		Email:       session.Email,
		JobTitle:    session.JobTitle,
		Photo:       session.Photo,
		AccessToken: session.AccessToken,
		CreatedAt:   session.CreatedAt.UTC().Format(time.RFC3339Nano),
		ExpiresAt:   session.ExpiresAt.UTC().Format(time.RFC3339Nano),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return errs.Wrap(err, "insert session")
	}
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, id string) (ports.Session, error) {
	if ctx == nil {
		return ports.Session{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return ports.Session{}, errs.Wrap(err, "check context")
	}

	var row model.Session
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Session{}, ports.ErrSessionNotFound
		}
		return ports.Session{}, errs.Wrap(err, "query session by id")
	}
	return mapSession(row), nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}

	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Session{}).Error; err != nil {
		return errs.Wrap(err, "delete session")
	}
	return nil
}

func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	if ctx == nil {
		return 0, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return 0, errs.Wrap(err, "check context")
	}

	res := r.db.WithContext(ctx).
		Where("expires_at != '' AND expires_at < ?", now.UTC().Format(time.RFC3339Nano)).
		Delete(&model.Session{})
	if res.Error != nil {
		return 0, errs.Wrap(res.Error, "delete expired sessions")
	}
	return res.RowsAffected, nil
}

func mapSession(row model.Session) ports.Session {
	return ports.Session{
		ID:          row.ID,
		UserID:      row.UserID,
		Name:        row.Name,
		Email:       row.Email,
		JobTitle:    row.JobTitle,
		Photo:       row.Photo,
		AccessToken: row.AccessToken,
		CreatedAt:   parseTime(row.CreatedAt),
		ExpiresAt:   parseTime(row.ExpiresAt),
	}
}

func parseTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
