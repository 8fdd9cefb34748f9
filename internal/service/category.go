package service

import (
	"database/sql"
	"errors"
	"fmt"

	"task-manager/internal/models"
	"task-manager/internal/storage"
)

// CategoryService owns category records, scoped per account.
type CategoryService struct {
	db *storage.DB
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(db *storage.DB) *CategoryService {
	return &CategoryService{db: db}
}

// ListForOwner returns the account's categories ordered by name, each
// annotated with its current task count.
func (s *CategoryService) ListForOwner(accountID int64) ([]models.CategoryWithTaskCount, error) {
	categories, err := s.db.ListCategories(accountID)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return categories, nil
}

// Create inserts a category for the account. Empty color or icon fall
// back to the display defaults. Names are not required to be unique.
func (s *CategoryService) Create(accountID int64, name, color, icon string) (*models.Category, error) {
	if name == "" {
		return nil, validationf("category name is required")
	}
	if color == "" {
		color = models.DefaultCategoryColor
	}
	if icon == "" {
		icon = models.DefaultCategoryIcon
	}

	category, err := s.db.CreateCategory(accountID, name, color, icon)
	if err != nil {
		return nil, fmt.Errorf("creating category: %w", err)
	}
	return category, nil
}

// Update modifies the category matching both id and owner. A mismatched
// id silently affects zero rows.
func (s *CategoryService) Update(accountID, categoryID int64, name, color, icon string) error {
	if name == "" {
		return validationf("category name is required")
	}
	if err := s.db.UpdateCategory(accountID, categoryID, name, color, icon); err != nil {
		return fmt.Errorf("updating category: %w", err)
	}
	return nil
}

// Delete clears the category reference on all of the owner's tasks that
// point at the category, then deletes the category itself. Tasks are
// never deleted with their category.
func (s *CategoryService) Delete(accountID, categoryID int64) error {
	if err := s.db.DeleteCategory(accountID, categoryID); err != nil {
		return fmt.Errorf("deleting category: %w", err)
	}
	return nil
}

// GetByID returns the category, or ErrNotFound when no row matches both
// id and owner.
func (s *CategoryService) GetByID(accountID, categoryID int64) (*models.Category, error) {
	category, err := s.db.GetCategory(accountID, categoryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting category: %w", err)
	}
	return category, nil
}
