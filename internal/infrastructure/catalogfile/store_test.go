package catalogfile

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"opevents/internal/domain/catalog"
)

func TestLoadMissingFileReportsNotFound(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "catalogs.json"))

	_, found, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if found {
		t.Fatalf("Load() found = true for missing file")
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "catalogs.json")
	store := NewStore(path)
	ctx := context.Background()

	cat := catalog.New([]catalog.Category{
		{Name: "Retrabajo", Causes: []string{"Error de ensamble", "Defecto de material"}},
		{Name: "Paro de Ensamble", Causes: []string{"Falla de equipo"}},
	})

	if err := store.Save(ctx, cat); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, found, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !found {
		t.Fatalf("Load() found = false after save")
	}
	if !reflect.DeepEqual(loaded.Categories(), cat.Categories()) {
		t.Fatalf("Categories() = %v, want %v", loaded.Categories(), cat.Categories())
	}
	if !reflect.DeepEqual(loaded.Causes("Retrabajo"), cat.Causes("Retrabajo")) {
		t.Fatalf("Causes(Retrabajo) = %v", loaded.Causes("Retrabajo"))
	}
}

func TestSaveOverwritesWholeFile(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "catalogs.json"))
	ctx := context.Background()

	first := catalog.New([]catalog.Category{{Name: "A", Causes: []string{"x"}}})
	second := catalog.New([]catalog.Category{{Name: "B", Causes: []string{"y"}}})

	if err := store.Save(ctx, first); err != nil {
		t.Fatalf("Save(first) error = %v", err)
	}
	if err := store.Save(ctx, second); err != nil {
		t.Fatalf("Save(second) error = %v", err)
	}

	loaded, _, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.HasCategory("A") {
		t.Fatalf("previous catalog content survived the rewrite")
	}
	if !loaded.HasCategory("B") {
		t.Fatalf("latest catalog content missing")
	}
}
