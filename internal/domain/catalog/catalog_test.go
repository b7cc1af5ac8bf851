package catalog

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func TestDefaultCatalogShape(t *testing.T) {
	cat := Default()

	want := []string{"Paro de Ensamble", "Retrabajo", "Mejora del Proceso", "Falta de Material"}
	if got := cat.Categories(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Categories() = %v, want %v", got, want)
	}

	for _, category := range want {
		if len(cat.Causes(category)) == 0 {
			t.Fatalf("Causes(%q) is empty", category)
		}
	}
}

func TestAddAndRemoveCategoryRestoresState(t *testing.T) {
	cat := Default()

	grown, err := cat.AddCategory("Seguridad")
	if err != nil {
		t.Fatalf("AddCategory() error = %v", err)
	}
	if grown.Len() != cat.Len()+1 {
		t.Fatalf("Len() after add = %d, want %d", grown.Len(), cat.Len()+1)
	}
	if !grown.HasCategory("Seguridad") {
		t.Fatalf("HasCategory(Seguridad) = false after add")
	}

	shrunk, err := grown.RemoveCategory("Seguridad")
	if err != nil {
		t.Fatalf("RemoveCategory() error = %v", err)
	}
	if !reflect.DeepEqual(shrunk.Categories(), cat.Categories()) {
		t.Fatalf("Categories() after add+remove = %v, want %v", shrunk.Categories(), cat.Categories())
	}
}

func TestAddCategoryRejectsDuplicateAndEmpty(t *testing.T) {
	cat := Default()

	if _, err := cat.AddCategory("Retrabajo"); !errors.Is(err, ErrCategoryExists) {
		t.Fatalf("AddCategory(duplicate) error = %v, want ErrCategoryExists", err)
	}
	if _, err := cat.AddCategory("   "); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("AddCategory(blank) error = %v, want ErrEmptyName", err)
	}
}

func TestRenameCategoryPreservesOrderAndCauses(t *testing.T) {
	cat := Default()
	causes := cat.Causes("Retrabajo")

	renamed, err := cat.RenameCategory("Retrabajo", "Retrabajo Interno")
	if err != nil {
		t.Fatalf("RenameCategory() error = %v", err)
	}

	got := renamed.Categories()
	if got[1] != "Retrabajo Interno" {
		t.Fatalf("Categories()[1] = %q, want position preserved", got[1])
	}
	if !reflect.DeepEqual(renamed.Causes("Retrabajo Interno"), causes) {
		t.Fatalf("Causes moved: %v != %v", renamed.Causes("Retrabajo Interno"), causes)
	}
	if renamed.HasCategory("Retrabajo") {
		t.Fatalf("old category name still present after rename")
	}
}

func TestRemoveCauseKeepsSiblings(t *testing.T) {
	cat := Default()
	before := cat.Causes("Retrabajo")
	target := before[0]

	out, err := cat.RemoveCause("Retrabajo", target)
	if err != nil {
		t.Fatalf("RemoveCause() error = %v", err)
	}

	after := out.Causes("Retrabajo")
	if len(after) != len(before)-1 {
		t.Fatalf("Causes() length = %d, want %d", len(after), len(before)-1)
	}
	for _, cause := range after {
		if cause == target {
			t.Fatalf("removed cause %q still present", target)
		}
	}
	// Original value untouched.
	if len(cat.Causes("Retrabajo")) != len(before) {
		t.Fatalf("receiver mutated by RemoveCause")
	}
}

func TestRenameCauseKeepsPosition(t *testing.T) {
	cat := New([]Category{{Name: "Impacto", Causes: []string{"a", "b", "c"}}})

	out, err := cat.RenameCause("Impacto", "b", "b2")
	if err != nil {
		t.Fatalf("RenameCause() error = %v", err)
	}
	want := []string{"a", "b2", "c"}
	if got := out.Causes("Impacto"); !reflect.DeepEqual(got, want) {
		t.Fatalf("Causes() = %v, want %v", got, want)
	}

	if _, err := cat.RenameCause("Impacto", "b", "c"); !errors.Is(err, ErrCauseExists) {
		t.Fatalf("RenameCause(to existing) error = %v, want ErrCauseExists", err)
	}
	if _, err := cat.RenameCause("Impacto", "zz", "x"); !errors.Is(err, ErrCauseNotFound) {
		t.Fatalf("RenameCause(missing) error = %v, want ErrCauseNotFound", err)
	}
}

func TestNewDropsDuplicates(t *testing.T) {
	cat := New([]Category{
		{Name: "A", Causes: []string{"x", "x", "y"}},
		{Name: "A", Causes: []string{"z"}},
		{Name: " ", Causes: []string{"ignored"}},
	})

	if got := cat.Categories(); !reflect.DeepEqual(got, []string{"A"}) {
		t.Fatalf("Categories() = %v, want [A]", got)
	}
	if got := cat.Causes("A"); !reflect.DeepEqual(got, []string{"x", "y"}) {
		t.Fatalf("Causes(A) = %v, want [x y]", got)
	}
}

func TestJSONRoundTripPreservesOrder(t *testing.T) {
	cat := New([]Category{
		{Name: "Z", Causes: []string{"c1", "c2"}},
		{Name: "A", Causes: []string{"c3"}},
	})

	data, err := json.Marshal(cat)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded Catalog
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if !reflect.DeepEqual(decoded.Categories(), cat.Categories()) {
		t.Fatalf("Categories() after round trip = %v, want %v", decoded.Categories(), cat.Categories())
	}
	if !reflect.DeepEqual(decoded.Causes("Z"), cat.Causes("Z")) {
		t.Fatalf("Causes(Z) after round trip = %v, want %v", decoded.Causes("Z"), cat.Causes("Z"))
	}
}

func TestHasCauseScopedToCategory(t *testing.T) {
	cat := Default()

	if !cat.HasCause("Retrabajo", "Error de ensamble") {
		t.Fatalf("HasCause(Retrabajo, Error de ensamble) = false")
	}
	// Valid cause, but it belongs to a different category.
	if cat.HasCause("Retrabajo", "Falla de equipo") {
		t.Fatalf("HasCause crossed category boundaries")
	}
	if cat.HasCause("Inexistente", "Falla de equipo") {
		t.Fatalf("HasCause(unknown category) = true")
	}
}
