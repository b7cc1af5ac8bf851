package ports

import (
	"context"

	"opevents/internal/domain/catalog"
)

// CatalogStore persists the whole catalog in one shot (last writer
// wins). Load reports found=false when no persisted copy exists yet.
type CatalogStore interface {
	Load(ctx context.Context) (cat catalog.Catalog, found bool, err error)
	Save(ctx context.Context, cat catalog.Catalog) error
}
