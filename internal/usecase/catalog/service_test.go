package catalog

import (
	"context"
	"errors"
	"reflect"
	"testing"

	domaincatalog "opevents/internal/domain/catalog"
)

// fakeStore keeps the persisted catalog in memory.
type fakeStore struct {
	cat     domaincatalog.Catalog
	exists  bool
	saves   int
	loadErr error
	saveErr error
}

func (f *fakeStore) Load(_ context.Context) (domaincatalog.Catalog, bool, error) {
	if f.loadErr != nil {
		return domaincatalog.Catalog{}, false, f.loadErr
	}
	return f.cat, f.exists, nil
}

func (f *fakeStore) Save(_ context.Context, cat domaincatalog.Catalog) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.cat = cat
	f.exists = true
	f.saves++
	return nil
}

func TestGetSeedsDefaultsOnFirstAccess(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store)
	ctx := context.Background()

	cat, err := svc.Get(ctx)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !reflect.DeepEqual(cat.Categories(), domaincatalog.Default().Categories()) {
		t.Fatalf("Get() = %v, want defaults", cat.Categories())
	}
	if store.saves != 1 {
		t.Fatalf("seed saves = %d, want 1", store.saves)
	}

	// Second access reads the persisted copy, no reseeding.
	if _, err := svc.Get(ctx); err != nil {
		t.Fatalf("Get() second call error = %v", err)
	}
	if store.saves != 1 {
		t.Fatalf("saves after second Get = %d, want still 1", store.saves)
	}
}

func TestMutationsPersist(t *testing.T) {
	store := &fakeStore{cat: domaincatalog.Default(), exists: true}
	svc := NewService(store)
	ctx := context.Background()

	if err := svc.AddCategory(ctx, "Seguridad"); err != nil {
		t.Fatalf("AddCategory() error = %v", err)
	}
	if err := svc.AddCause(ctx, "Seguridad", "Condición insegura"); err != nil {
		t.Fatalf("AddCause() error = %v", err)
	}

	causes, err := svc.CausesFor(ctx, "Seguridad")
	if err != nil {
		t.Fatalf("CausesFor() error = %v", err)
	}
	if !reflect.DeepEqual(causes, []string{"Condición insegura"}) {
		t.Fatalf("CausesFor() = %v", causes)
	}
	if store.saves != 2 {
		t.Fatalf("saves = %d, want 2", store.saves)
	}
}

func TestMutateRejectsDomainErrorWithoutSaving(t *testing.T) {
	store := &fakeStore{cat: domaincatalog.Default(), exists: true}
	svc := NewService(store)

	err := svc.AddCategory(context.Background(), "Retrabajo")
	if !errors.Is(err, domaincatalog.ErrCategoryExists) {
		t.Fatalf("AddCategory(duplicate) error = %v", err)
	}
	if store.saves != 0 {
		t.Fatalf("saves = %d, want 0 on rejected mutation", store.saves)
	}
}

func TestResetRestoresDefaults(t *testing.T) {
	custom := domaincatalog.New([]domaincatalog.Category{{Name: "Solo", Causes: []string{"x"}}})
	store := &fakeStore{cat: custom, exists: true}
	svc := NewService(store)
	ctx := context.Background()

	if err := svc.Reset(ctx); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}

	categories, err := svc.Categories(ctx)
	if err != nil {
		t.Fatalf("Categories() error = %v", err)
	}
	if !reflect.DeepEqual(categories, domaincatalog.Default().Categories()) {
		t.Fatalf("Categories() after reset = %v", categories)
	}
}
