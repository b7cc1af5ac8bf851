package catalogfile

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"opevents/internal/domain/catalog"
	"opevents/internal/errs"
	"opevents/internal/ports"
)

// Store persists the catalog as one JSON file, rewritten whole on every
// save (write to a temp file, then rename). Writers across processes
// are last-writer-wins; a mutex serializes writers in this process.
type Store struct {
	path string
	mu   sync.Mutex
}

var _ ports.CatalogStore = (*Store)(nil)

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Load(ctx context.Context) (catalog.Catalog, bool, error) {
	if ctx == nil {
		return catalog.Catalog{}, false, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return catalog.Catalog{}, false, errs.Wrap(err, "check context")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return catalog.Catalog{}, false, nil
		}
		return catalog.Catalog{}, false, errs.Wrapf(err, "read catalog file %q", s.path)
	}

	var cat catalog.Catalog
	if err := json.Unmarshal(data, &cat); err != nil {
		return catalog.Catalog{}, false, errs.Wrapf(err, "decode catalog file %q", s.path)
	}
	return cat, true, nil
}

func (s *Store) Save(ctx context.Context, cat catalog.Catalog) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(cat, "", "  ")
	if err != nil {
		return errs.Wrap(err, "encode catalog")
	}

	dir := filepath.Dir(s.path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errs.Wrapf(err, "create catalog directory %q", dir)
		}
	}

	tmp, err := os.CreateTemp(dir, ".catalogs-*.json")
	if err != nil {
		return errs.Wrap(err, "create temp catalog file")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return errs.Wrap(err, "write temp catalog file")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return errs.Wrap(err, "close temp catalog file")
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return errs.Wrapf(err, "replace catalog file %q", s.path)
	}
	return nil
}
