package categories

import "errors"

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryExists   = errors.New("a category with a similar name already exists")
	ErrCategoryInUse    = errors.New("category is assigned to tours")
	ErrInvalidCategory  = errors.New("invalid category")
)
