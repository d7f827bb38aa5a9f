package storage

import (
	"time"

	apperrors "pocketledger/internal/errors"
	"pocketledger/internal/models"
)

// CreateCategory inserts c.
func (s *Store) CreateCategory(c *models.Category) error {
	if err := s.db.Create(c).Error; err != nil {
		return storageError("create category", err)
	}
	return nil
}

// GetCategory loads a category by its exact name.
func (s *Store) GetCategory(name string) (*models.Category, error) {
	var c models.Category
	if err := s.db.Where("name = ?", name).First(&c).Error; err != nil {
		return nil, lookupError("get category", err, apperrors.ErrCategoryNotFound)
	}
	return &c, nil
}

// ListCategories returns categories ordered by name, optionally of one kind.
func (s *Store) ListCategories(kind models.CategoryKind) ([]models.Category, error) {
	q := s.db.Model(&models.Category{})
	if kind != "" {
		q = q.Where("kind = ?", kind)
	}
	var out []models.Category
	if err := q.Order("name").Find(&out).Error; err != nil {
		return nil, storageError("list categories", err)
	}
	return out, nil
}

// UpdateCategory writes the kind and color of an existing category.
func (s *Store) UpdateCategory(c *models.Category) error {
	c.UpdatedAt = time.Now()
	res := s.db.Model(&models.Category{}).
		Where("name = ?", c.Name).
		Select("kind", "color", "updated_at").
		Updates(c)
	if res.Error != nil {
		return storageError("update category", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrCategoryNotFound
	}
	return nil
}

// DeleteCategory removes a category. Callers check references first.
func (s *Store) DeleteCategory(name string) error {
	res := s.db.Where("name = ?", name).Delete(&models.Category{})
	if res.Error != nil {
		return storageError("delete category", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrCategoryNotFound
	}
	return nil
}
