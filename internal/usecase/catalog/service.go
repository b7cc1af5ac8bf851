package catalog

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	domaincatalog "opevents/internal/domain/catalog"
	"opevents/internal/bootstrap/logging"
	"opevents/internal/errs"
	"opevents/internal/ports"
)

// Service owns the impact/cause catalog: one explicit instance injected
// into callers, no process-wide singleton. Every mutation loads the
// current catalog, applies the change, and persists the whole catalog;
// concurrent writers from other processes are last-writer-wins.
type Service struct {
	store ports.CatalogStore
	mu    sync.Mutex
}

func NewService(store ports.CatalogStore) *Service {
	return &Service{store: store}
}

// Get returns the current catalog, seeding the store from the built-in
// defaults on first access when no persisted copy exists.
func (s *Service) Get(ctx context.Context) (domaincatalog.Catalog, error) {
	if ctx == nil {
		return domaincatalog.Catalog{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return domaincatalog.Catalog{}, errs.Wrap(err, "check context")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

func (s *Service) loadLocked(ctx context.Context) (domaincatalog.Catalog, error) {
	cat, found, err := s.store.Load(ctx)
	if err != nil {
		return domaincatalog.Catalog{}, errs.Wrap(err, "load catalog")
	}
	if found {
		return cat, nil
	}

	cat = domaincatalog.Default()
	if err := s.store.Save(ctx, cat); err != nil {
		return domaincatalog.Catalog{}, errs.Wrap(err, "persist seeded catalog")
	}
	logging.Info(ctx, "catalog seeded from defaults", slog.Int("categories", cat.Len()))
	return cat, nil
}

func (s *Service) Categories(ctx context.Context) ([]string, error) {
	cat, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	return cat.Categories(), nil
}

func (s *Service) CausesFor(ctx context.Context, category string) ([]string, error) {
	cat, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	return cat.Causes(category), nil
}

// mutate applies one catalog operation and persists the result.
func (s *Service) mutate(ctx context.Context, op func(domaincatalog.Catalog) (domaincatalog.Catalog, error)) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cat, err := s.loadLocked(ctx)
	if err != nil {
		return err
	}

	next, err := op(cat)
	if err != nil {
		return err
	}
	if err := s.store.Save(ctx, next); err != nil {
		return errs.Wrap(err, "persist catalog")
	}
	return nil
}

func (s *Service) AddCategory(ctx context.Context, name string) error {
	return s.mutate(ctx, func(cat domaincatalog.Catalog) (domaincatalog.Catalog, error) {
		return cat.AddCategory(name)
	})
}

func (s *Service) RenameCategory(ctx context.Context, oldName, newName string) error {
	return s.mutate(ctx, func(cat domaincatalog.Catalog) (domaincatalog.Catalog, error) {
		return cat.RenameCategory(oldName, newName)
	})
}

func (s *Service) RemoveCategory(ctx context.Context, name string) error {
	return s.mutate(ctx, func(cat domaincatalog.Catalog) (domaincatalog.Catalog, error) {
		return cat.RemoveCategory(name)
	})
}

func (s *Service) AddCause(ctx context.Context, category, cause string) error {
	return s.mutate(ctx, func(cat domaincatalog.Catalog) (domaincatalog.Catalog, error) {
		return cat.AddCause(category, cause)
	})
}

func (s *Service) RemoveCause(ctx context.Context, category, cause string) error {
	return s.mutate(ctx, func(cat domaincatalog.Catalog) (domaincatalog.Catalog, error) {
		return cat.RemoveCause(category, cause)
	})
}

func (s *Service) RenameCause(ctx context.Context, category, oldCause, newCause string) error {
	return s.mutate(ctx, func(cat domaincatalog.Catalog) (domaincatalog.Catalog, error) {
		return cat.RenameCause(category, oldCause, newCause)
	})
}

// Reset restores the built-in defaults unconditionally.
func (s *Service) Reset(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Save(ctx, domaincatalog.Default()); err != nil {
		return errs.Wrap(err, "persist default catalog")
	}
	return nil
}
