package storage

import (
	"time"

	apperrors "pocketledger/internal/errors"
	"pocketledger/internal/models"
)

// BudgetFilter selects budgets. Zero fields do not filter.
type BudgetFilter struct {
	Year     int
	Month    int
	Category string
}

// CreateBudget inserts b and sets its id.
func (s *Store) CreateBudget(b *models.Budget) error {
	if err := s.db.Create(b).Error; err != nil {
		return storageError("create budget", err)
	}
	return nil
}

// GetBudget loads one budget by id.
func (s *Store) GetBudget(id uint) (*models.Budget, error) {
	var b models.Budget
	if err := s.db.First(&b, id).Error; err != nil {
		return nil, lookupError("get budget", err, apperrors.ErrBudgetNotFound)
	}
	return &b, nil
}

// FindBudget loads the budget of a category for one month.
func (s *Store) FindBudget(category string, p models.Period) (*models.Budget, error) {
	var b models.Budget
	err := s.db.Where("category = ? AND year = ? AND month = ?", category, p.Year, p.Month).First(&b).Error
	if err != nil {
		return nil, lookupError("find budget", err, apperrors.ErrBudgetNotFound)
	}
	return &b, nil
}

// ListBudgets returns matching budgets ordered by period, then category.
func (s *Store) ListBudgets(f BudgetFilter) ([]models.Budget, error) {
	q := s.db.Model(&models.Budget{})
	if f.Year != 0 {
		q = q.Where("year = ?", f.Year)
	}
	if f.Month != 0 {
		q = q.Where("month = ?", f.Month)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}

	var out []models.Budget
	if err := q.Order("year").Order("month").Order("category").Order("id").Find(&out).Error; err != nil {
		return nil, storageError("list budgets", err)
	}
	return out, nil
}

// UpdateBudget overwrites every mutable column of an existing budget.
func (s *Store) UpdateBudget(b *models.Budget) error {
	b.UpdatedAt = time.Now()
	res := s.db.Model(&models.Budget{}).
		Where("id = ?", b.ID).
		Select("category", "year", "month", "limit_amount", "warning_threshold", "updated_at").
		Updates(b)
	if res.Error != nil {
		return storageError("update budget", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrBudgetNotFound
	}
	return nil
}

// DeleteBudget removes one budget.
func (s *Store) DeleteBudget(id uint) error {
	res := s.db.Delete(&models.Budget{}, id)
	if res.Error != nil {
		return storageError("delete budget", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrBudgetNotFound
	}
	return nil
}

// CountBudgetsByCategory counts the budgets set on name.
func (s *Store) CountBudgetsByCategory(name string) (int64, error) {
	var n int64
	if err := s.db.Model(&models.Budget{}).Where("category = ?", name).Count(&n).Error; err != nil {
		return 0, storageError("count budgets by category", err)
	}
	return n, nil
}
