package catalog

import (
	"encoding/json"
	"strings"
)

// Catalog is the configurable impact-type -> causes taxonomy used to
// classify events. Category order and cause order are both significant
// and preserved across every mutation and across JSON round-trips.
type Catalog struct {
	categories []Category
}

type Category struct {
	Name   string
	Causes []string
}

// New builds a catalog from ordered categories. Duplicate category names
// and duplicate causes within a category are dropped, keeping the first.
func New(categories []Category) Catalog {
	c := Catalog{}
	for _, cat := range categories {
		name := strings.TrimSpace(cat.Name)
		if name == "" || c.indexOf(name) >= 0 {
			continue
		}
		entry := Category{Name: name}
		seen := make(map[string]struct{}, len(cat.Causes))
		for _, cause := range cat.Causes {
			cause = strings.TrimSpace(cause)
			if cause == "" {
				continue
			}
			if _, ok := seen[cause]; ok {
				continue
			}
			seen[cause] = struct{}{}
			entry.Causes = append(entry.Causes, cause)
		}
		c.categories = append(c.categories, entry)
	}
	return c
}

func (c Catalog) indexOf(name string) int {
	for i, cat := range c.categories {
		if cat.Name == name {
			return i
		}
	}
	return -1
}

// Categories returns the ordered category names.
func (c Catalog) Categories() []string {
	out := make([]string, 0, len(c.categories))
	for _, cat := range c.categories {
		out = append(out, cat.Name)
	}
	return out
}

// Causes returns the ordered cause list for a category, nil when absent.
func (c Catalog) Causes(category string) []string {
	idx := c.indexOf(category)
	if idx < 0 {
		return nil
	}
	out := make([]string, len(c.categories[idx].Causes))
	copy(out, c.categories[idx].Causes)
	return out
}

func (c Catalog) HasCategory(category string) bool {
	return c.indexOf(category) >= 0
}

// HasCause reports whether the cause belongs to the named category.
func (c Catalog) HasCause(category, cause string) bool {
	idx := c.indexOf(category)
	if idx < 0 {
		return false
	}
	for _, existing := range c.categories[idx].Causes {
		if existing == cause {
			return true
		}
	}
	return false
}

func (c Catalog) Len() int {
	return len(c.categories)
}

// Clone returns a deep copy; mutations never alias the receiver.
func (c Catalog) Clone() Catalog {
	out := Catalog{categories: make([]Category, 0, len(c.categories))}
	for _, cat := range c.categories {
		causes := make([]string, len(cat.Causes))
		copy(causes, cat.Causes)
		out.categories = append(out.categories, Category{Name: cat.Name, Causes: causes})
	}
	return out
}

// AddCategory inserts an empty category at the end.
func (c Catalog) AddCategory(name string) (Catalog, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return c, ErrEmptyName
	}
	if c.indexOf(name) >= 0 {
		return c, ErrCategoryExists
	}
	out := c.Clone()
	out.categories = append(out.categories, Category{Name: name})
	return out, nil
}

// RenameCategory keeps the cause list and the relative order of all
// categories intact.
func (c Catalog) RenameCategory(oldName, newName string) (Catalog, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return c, ErrEmptyName
	}
	idx := c.indexOf(oldName)
	if idx < 0 {
		return c, ErrCategoryNotFound
	}
	if c.indexOf(newName) >= 0 {
		return c, ErrCategoryExists
	}
	out := c.Clone()
	out.categories[idx].Name = newName
	return out, nil
}

func (c Catalog) RemoveCategory(name string) (Catalog, error) {
	idx := c.indexOf(name)
	if idx < 0 {
		return c, ErrCategoryNotFound
	}
	out := c.Clone()
	out.categories = append(out.categories[:idx], out.categories[idx+1:]...)
	return out, nil
}

func (c Catalog) AddCause(category, cause string) (Catalog, error) {
	cause = strings.TrimSpace(cause)
	if cause == "" {
		return c, ErrEmptyName
	}
	idx := c.indexOf(category)
	if idx < 0 {
		return c, ErrCategoryNotFound
	}
	for _, existing := range c.categories[idx].Causes {
		if existing == cause {
			return c, ErrCauseExists
		}
	}
	out := c.Clone()
	out.categories[idx].Causes = append(out.categories[idx].Causes, cause)
	return out, nil
}

func (c Catalog) RemoveCause(category, cause string) (Catalog, error) {
	idx := c.indexOf(category)
	if idx < 0 {
		return c, ErrCategoryNotFound
	}
	causes := c.categories[idx].Causes
	pos := -1
	for i, existing := range causes {
		if existing == cause {
			pos = i
			break
		}
	}
	if pos < 0 {
		return c, ErrCauseNotFound
	}
	out := c.Clone()
	out.categories[idx].Causes = append(out.categories[idx].Causes[:pos], out.categories[idx].Causes[pos+1:]...)
	return out, nil
}

// RenameCause replaces a cause in place, keeping its position.
func (c Catalog) RenameCause(category, oldCause, newCause string) (Catalog, error) {
	newCause = strings.TrimSpace(newCause)
	if newCause == "" {
		return c, ErrEmptyName
	}
	idx := c.indexOf(category)
	if idx < 0 {
		return c, ErrCategoryNotFound
	}
	causes := c.categories[idx].Causes
	pos := -1
	for i, existing := range causes {
		if existing == oldCause {
			pos = i
		}
		if existing == newCause {
			return c, ErrCauseExists
		}
	}
	if pos < 0 {
		return c, ErrCauseNotFound
	}
	out := c.Clone()
	out.categories[idx].Causes[pos] = newCause
	return out, nil
}

// MarshalJSON keeps the on-disk shape used by the settings screen: an
// ordered array of {category, causes} objects.
func (c Catalog) MarshalJSON() ([]byte, error) {
	entries := make([]jsonEntry, 0, len(c.categories))
	for _, cat := range c.categories {
		causes := cat.Causes
		if causes == nil {
			causes = []string{}
		}
		entries = append(entries, jsonEntry{Category: cat.Name, Causes: causes})
	}
	return json.Marshal(entries)
}

func (c *Catalog) UnmarshalJSON(data []byte) error {
	var entries []jsonEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	cats := make([]Category, 0, len(entries))
	for _, e := range entries {
		cats = append(cats, Category{Name: e.Category, Causes: e.Causes})
	}
	*c = New(cats)
	return nil
}

type jsonEntry struct {
	Category string   `json:"category"`
	Causes   []string `json:"causes"`
}
