package catalog

import "errors"

var (
	ErrEmptyName        = errors.New("name must not be empty")
	ErrCategoryExists   = errors.New("category already exists")
	ErrCategoryNotFound = errors.New("category not found")
	ErrCauseExists      = errors.New("cause already exists")
	ErrCauseNotFound    = errors.New("cause not found")
)
