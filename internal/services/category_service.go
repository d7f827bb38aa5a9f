package services

import (
	"fmt"
	"regexp"
	"strings"

	apperrors "pocketledger/internal/errors"
	"pocketledger/internal/logger"
	"pocketledger/internal/models"
	"pocketledger/internal/storage"
)

// MaxCategoryNameLength bounds category names.
const MaxCategoryNameLength = 100

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// defaultCategories are seeded into an empty ledger.
var defaultCategories = []models.Category{
	{Name: "Salary", Kind: models.CategoryKindIncome, Color: "#28a745"},
	{Name: "Freelance", Kind: models.CategoryKindIncome, Color: "#17a2b8"},
	{Name: "Investments", Kind: models.CategoryKindIncome, Color: "#ffc107"},
	{Name: "Food & Dining", Kind: models.CategoryKindExpense, Color: "#dc3545"},
	{Name: "Transport", Kind: models.CategoryKindExpense, Color: "#6f42c1"},
	{Name: "Shopping", Kind: models.CategoryKindExpense, Color: "#fd7e14"},
	{Name: "Entertainment", Kind: models.CategoryKindExpense, Color: "#e83e8c"},
	{Name: "Bills & Utilities", Kind: models.CategoryKindExpense, Color: "#6c757d"},
	{Name: "Health", Kind: models.CategoryKindExpense, Color: "#20c997"},
	{Name: "Education", Kind: models.CategoryKindExpense, Color: "#0d6efd"},
}

// categoryService handles category-related business logic.
type categoryService struct {
	store *storage.Store
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(store *storage.Store) CategoryServicer {
	return &categoryService{store: store}
}

// CreateCategory validates and stores a new category.
func (s *categoryService) CreateCategory(input CategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.Invalid("name", input.Name, "category name is required")
	}
	if len(name) > MaxCategoryNameLength {
		return nil, apperrors.Invalid("name", input.Name, fmt.Sprintf("category name must be at most %d characters", MaxCategoryNameLength))
	}
	if !input.Kind.Valid() {
		return nil, apperrors.Invalid("kind", input.Kind, "kind must be income or expense")
	}
	if input.Color != "" && !hexColor.MatchString(input.Color) {
		return nil, apperrors.Invalid("color", input.Color, "color must be a hex value like #1a2b3c")
	}

	category := &models.Category{Name: name, Kind: input.Kind, Color: input.Color}
	err := s.store.Atomic(func(tx *storage.Store) error {
		if _, err := tx.GetCategory(name); err == nil {
			return apperrors.WithField(apperrors.ErrDuplicateCategory, "name", name,
				fmt.Sprintf("category %q already exists", name))
		} else if !apperrors.IsNotFound(err) {
			return err
		}
		return tx.CreateCategory(category)
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

// GetCategory loads one category by name.
func (s *categoryService) GetCategory(name string) (*models.Category, error) {
	return s.store.GetCategory(strings.TrimSpace(name))
}

// ListCategories returns every category, or only those of kind.
func (s *categoryService) ListCategories(kind models.CategoryKind) ([]models.Category, error) {
	if kind != "" && !kind.Valid() {
		return nil, apperrors.Invalid("kind", kind, "kind must be income or expense")
	}
	return s.store.ListCategories(kind)
}

// UpdateCategory changes the kind or color of a category. The kind of a
// category with transactions cannot change, since every amount's sign
// follows it; an expense category with budgets cannot become income.
func (s *categoryService) UpdateCategory(name string, changes CategoryChanges) (*models.Category, error) {
	if changes.Kind != nil && !changes.Kind.Valid() {
		return nil, apperrors.Invalid("kind", *changes.Kind, "kind must be income or expense")
	}
	if changes.Color != nil && *changes.Color != "" && !hexColor.MatchString(*changes.Color) {
		return nil, apperrors.Invalid("color", *changes.Color, "color must be a hex value like #1a2b3c")
	}

	var category *models.Category
	err := s.store.Atomic(func(tx *storage.Store) error {
		var err error
		category, err = tx.GetCategory(strings.TrimSpace(name))
		if err != nil {
			return err
		}

		if changes.Kind != nil && *changes.Kind != category.Kind {
			if err := ensureUnused(tx, category.Name); err != nil {
				return err
			}
			category.Kind = *changes.Kind
		}
		if changes.Color != nil {
			category.Color = *changes.Color
		}
		return tx.UpdateCategory(category)
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory removes a category nothing refers to.
func (s *categoryService) DeleteCategory(name string) error {
	return s.store.Atomic(func(tx *storage.Store) error {
		category, err := tx.GetCategory(strings.TrimSpace(name))
		if err != nil {
			return err
		}
		if err := ensureUnused(tx, category.Name); err != nil {
			return err
		}
		return tx.DeleteCategory(category.Name)
	})
}

// ensureUnused fails with CATEGORY_IN_USE when a transaction or budget
// refers to name.
func ensureUnused(tx *storage.Store, name string) error {
	txCount, err := tx.CountTransactionsByCategory(name)
	if err != nil {
		return err
	}
	budgetCount, err := tx.CountBudgetsByCategory(name)
	if err != nil {
		return err
	}
	if txCount > 0 || budgetCount > 0 {
		return apperrors.WithField(apperrors.ErrCategoryInUse, "name", name,
			fmt.Sprintf("category %q is used by %d transactions and %d budgets", name, txCount, budgetCount))
	}
	return nil
}

// EnsureDefaults seeds the default categories into an empty ledger and
// returns how many were created.
func (s *categoryService) EnsureDefaults() (int, error) {
	created := 0
	err := s.store.Atomic(func(tx *storage.Store) error {
		existing, err := tx.ListCategories("")
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return nil
		}
		for _, c := range defaultCategories {
			category := c
			if err := tx.CreateCategory(&category); err != nil {
				return err
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if created > 0 {
		logger.Get().Infow("Seeded default categories", "count", created)
	}
	return created, nil
}
