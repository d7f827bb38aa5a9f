package services

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	apperrors "pocketledger/internal/errors"
	"pocketledger/internal/models"
	"pocketledger/internal/storage"
)

// budgetService handles budget-related business logic. Spending is always
// derived from the ledger; nothing about it is stored.
type budgetService struct {
	store            *storage.Store
	ledger           LedgerServicer
	defaultThreshold float64
}

// NewBudgetService creates a new BudgetServicer. defaultThreshold applies to
// budgets created without a warning threshold.
func NewBudgetService(store *storage.Store, ledger LedgerServicer, defaultThreshold float64) BudgetServicer {
	if defaultThreshold <= 0 || defaultThreshold > 1 {
		defaultThreshold = models.DefaultWarningThreshold
	}
	return &budgetService{store: store, ledger: ledger, defaultThreshold: defaultThreshold}
}

// EvaluateStatus classifies spending against a limit: below the warning
// threshold is ok, from the threshold up to the limit is a warning, and at
// or beyond the limit is exceeded. The comparison is exact in decimal, so a
// spend of 800 against 1000 at 0.8 is a warning.
func EvaluateStatus(limit int64, threshold float64, spent int64) BudgetStatus {
	if spent >= limit {
		return BudgetStatusExceeded
	}
	warnAt := decimal.NewFromInt(limit).Mul(decimal.NewFromFloat(threshold))
	if decimal.NewFromInt(spent).GreaterThanOrEqual(warnAt) {
		return BudgetStatusWarning
	}
	return BudgetStatusOK
}

func validThreshold(t float64) bool {
	return t > 0 && t <= 1
}

// CreateBudget validates and stores a budget for an expense category and month.
func (s *budgetService) CreateBudget(input BudgetInput) (*models.Budget, error) {
	period := models.Period{Year: input.Year, Month: input.Month}
	if !period.Valid() {
		return nil, apperrors.Invalid("month", period.String(), "period must be a valid year and month 1-12")
	}
	if input.Limit <= 0 {
		return nil, apperrors.Invalid("limit", input.Limit, "limit must be positive")
	}
	threshold := input.WarningThreshold
	if threshold == 0 {
		threshold = s.defaultThreshold
	}
	if !validThreshold(threshold) {
		return nil, apperrors.Invalid("warning_threshold", input.WarningThreshold, "warning threshold must be in (0, 1]")
	}

	budget := &models.Budget{
		Category:         strings.TrimSpace(input.Category),
		Year:             period.Year,
		Month:            period.Month,
		Limit:            input.Limit,
		WarningThreshold: threshold,
	}

	err := s.store.Atomic(func(tx *storage.Store) error {
		if budget.Category == "" {
			return apperrors.Invalid("category", input.Category, "category is required")
		}
		category, err := tx.GetCategory(budget.Category)
		if apperrors.IsNotFound(err) {
			return unknownCategory(tx, budget.Category)
		}
		if err != nil {
			return err
		}
		if category.Kind != models.CategoryKindExpense {
			return apperrors.Invalid("category", category.Name, fmt.Sprintf("budgets apply to expense categories only; %q is income", category.Name))
		}

		if _, err := tx.FindBudget(category.Name, period); err == nil {
			return apperrors.WithField(apperrors.ErrDuplicateBudget, "category", category.Name,
				fmt.Sprintf("a budget for %q in %s already exists", category.Name, period))
		} else if !apperrors.IsNotFound(err) {
			return err
		}

		return tx.CreateBudget(budget)
	})
	if err != nil {
		return nil, err
	}
	return budget, nil
}

// GetBudget loads one budget.
func (s *budgetService) GetBudget(id uint) (*models.Budget, error) {
	return s.store.GetBudget(id)
}

// ListBudgets returns budgets, optionally narrowed to a year and month.
func (s *budgetService) ListBudgets(year, month int) ([]models.Budget, error) {
	if month < 0 || month > 12 {
		return nil, apperrors.Invalid("month", month, "month must be 1-12")
	}
	return s.store.ListBudgets(storage.BudgetFilter{Year: year, Month: month})
}

// UpdateBudget changes the limit or warning threshold of a budget.
func (s *budgetService) UpdateBudget(id uint, changes BudgetChanges) (*models.Budget, error) {
	if changes.Limit != nil && *changes.Limit <= 0 {
		return nil, apperrors.Invalid("limit", *changes.Limit, "limit must be positive")
	}
	if changes.WarningThreshold != nil && !validThreshold(*changes.WarningThreshold) {
		return nil, apperrors.Invalid("warning_threshold", *changes.WarningThreshold, "warning threshold must be in (0, 1]")
	}

	var budget *models.Budget
	err := s.store.Atomic(func(tx *storage.Store) error {
		var err error
		budget, err = tx.GetBudget(id)
		if err != nil {
			return err
		}
		if changes.Limit != nil {
			budget.Limit = *changes.Limit
		}
		if changes.WarningThreshold != nil {
			budget.WarningThreshold = *changes.WarningThreshold
		}
		return tx.UpdateBudget(budget)
	})
	if err != nil {
		return nil, err
	}
	return budget, nil
}

// DeleteBudget removes a budget.
func (s *budgetService) DeleteBudget(id uint) error {
	return s.store.Atomic(func(tx *storage.Store) error {
		return tx.DeleteBudget(id)
	})
}

// Evaluate reports how much has been spent against one budget.
func (s *budgetService) Evaluate(id uint) (*BudgetEvaluation, error) {
	budget, err := s.store.GetBudget(id)
	if err != nil {
		return nil, err
	}
	totals, err := s.ledger.TotalsByCategory(budget.Period().Range())
	if err != nil {
		return nil, err
	}
	eval := evaluate(*budget, totals)
	return &eval, nil
}

// EvaluatePeriod evaluates every budget of one month, ordered by category.
func (s *budgetService) EvaluatePeriod(year, month int) ([]BudgetEvaluation, error) {
	period := models.Period{Year: year, Month: month}
	if !period.Valid() {
		return nil, apperrors.Invalid("month", period.String(), "period must be a valid year and month 1-12")
	}

	budgets, err := s.store.ListBudgets(storage.BudgetFilter{Year: year, Month: month})
	if err != nil {
		return nil, err
	}
	if len(budgets) == 0 {
		return []BudgetEvaluation{}, nil
	}

	totals, err := s.ledger.TotalsByCategory(period.Range())
	if err != nil {
		return nil, err
	}

	out := make([]BudgetEvaluation, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, evaluate(b, totals))
	}
	return out, nil
}

// evaluate derives spending for b from the signed category totals of its
// month. Expense categories only hold negative amounts.
func evaluate(b models.Budget, totals map[string]int64) BudgetEvaluation {
	spent := -totals[b.Category]
	if spent < 0 {
		spent = 0
	}
	ratio := 0.0
	if b.Limit > 0 {
		ratio = float64(spent) / float64(b.Limit)
	}
	return BudgetEvaluation{
		Budget:    b,
		Spent:     spent,
		Remaining: b.Limit - spent,
		Ratio:     ratio,
		Status:    EvaluateStatus(b.Limit, b.WarningThreshold, spent),
	}
}
