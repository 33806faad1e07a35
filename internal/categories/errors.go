package categories

import "errors"

var (
	// ErrInvalidName is returned when the category name is empty
	ErrInvalidName = errors.New("name is required")

	// ErrDuplicateName is returned when a category with the same name exists
	ErrDuplicateName = errors.New("category already exists")

	// ErrCategoryNotFound is returned when a category is not found
	ErrCategoryNotFound = errors.New("category not found")
)
