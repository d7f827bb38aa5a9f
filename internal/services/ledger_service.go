package services

import (
	"fmt"
	"strings"

	apperrors "pocketledger/internal/errors"
	"pocketledger/internal/models"
	"pocketledger/internal/pagination"
	"pocketledger/internal/storage"
)

// MaxNoteLength bounds transaction notes.
const MaxNoteLength = 500

// MaxLocationLength bounds where a transaction happened.
const MaxLocationLength = 100

// ledgerService records transactions and derives balances from them. Every
// derived number is recomputed from the stored rows on each call.
type ledgerService struct {
	store *storage.Store
}

// NewLedgerService creates a new LedgerServicer.
func NewLedgerService(store *storage.Store) LedgerServicer {
	return &ledgerService{store: store}
}

// RecordTransaction validates input and stores it as a new transaction.
func (s *ledgerService) RecordTransaction(input TransactionInput) (*models.Transaction, error) {
	tags, err := models.NewTagSet(input.Tags...)
	if err != nil {
		return nil, apperrors.Invalid("tags", input.Tags, err.Error())
	}
	method := input.Method
	if method == "" {
		method = models.PaymentMethodCash
	}

	t := &models.Transaction{
		Date:     input.Date,
		Amount:   input.Amount,
		Category: strings.TrimSpace(input.Category),
		Tags:     tags,
		Method:   method,
		Note:     strings.TrimSpace(input.Note),
		Location: strings.TrimSpace(input.Location),
	}

	err = s.store.Atomic(func(tx *storage.Store) error {
		if err := validateTransaction(tx, t); err != nil {
			return err
		}
		return tx.CreateTransaction(t)
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// EditTransaction applies changes to an existing transaction and validates
// the merged result before saving it.
func (s *ledgerService) EditTransaction(id uint, changes TransactionChanges) (*models.Transaction, error) {
	var t *models.Transaction
	err := s.store.Atomic(func(tx *storage.Store) error {
		var err error
		t, err = tx.GetTransaction(id)
		if err != nil {
			return err
		}

		if changes.Date != nil {
			t.Date = *changes.Date
		}
		if changes.Amount != nil {
			t.Amount = *changes.Amount
		}
		if changes.Category != nil {
			t.Category = strings.TrimSpace(*changes.Category)
		}
		if changes.Tags != nil {
			tags, err := models.NewTagSet(*changes.Tags...)
			if err != nil {
				return apperrors.Invalid("tags", *changes.Tags, err.Error())
			}
			t.Tags = tags
		}
		if changes.Method != nil {
			t.Method = *changes.Method
		}
		if changes.Note != nil {
			t.Note = strings.TrimSpace(*changes.Note)
		}
		if changes.Location != nil {
			t.Location = strings.TrimSpace(*changes.Location)
		}

		if err := validateTransaction(tx, t); err != nil {
			return err
		}
		return tx.UpdateTransaction(t)
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// validateTransaction checks every field of t against the ledger rules,
// including that its category exists and its sign matches the category kind.
func validateTransaction(tx *storage.Store, t *models.Transaction) error {
	if t.Date.IsZero() {
		return apperrors.Invalid("date", nil, "date is required")
	}
	if !t.Date.InRange() {
		return apperrors.Invalid("date", t.Date.String(), fmt.Sprintf("date must not be before %d-01-01", models.MinYear))
	}
	if t.Amount == 0 {
		return apperrors.Invalid("amount", t.Amount, "amount must be non-zero")
	}
	if t.Category == "" {
		return apperrors.Invalid("category", t.Category, "category is required")
	}
	if !t.Method.Valid() {
		return apperrors.Invalid("method", t.Method, "method must be one of cash, card, transfer, other")
	}
	if len(t.Note) > MaxNoteLength {
		return apperrors.Invalid("note", len(t.Note), fmt.Sprintf("note must be at most %d characters", MaxNoteLength))
	}
	if len(t.Location) > MaxLocationLength {
		return apperrors.Invalid("location", t.Location, fmt.Sprintf("location must be at most %d characters", MaxLocationLength))
	}

	category, err := tx.GetCategory(t.Category)
	if apperrors.IsNotFound(err) {
		return unknownCategory(tx, t.Category)
	}
	if err != nil {
		return err
	}

	if !category.AllowsAmount(t.Amount) {
		if category.Kind == models.CategoryKindIncome {
			return apperrors.Invalid("amount", t.Amount, fmt.Sprintf("amount for income category %q must be positive", category.Name))
		}
		return apperrors.Invalid("amount", t.Amount, fmt.Sprintf("amount for expense category %q must be negative", category.Name))
	}
	return nil
}

// unknownCategory builds the UNKNOWN_CATEGORY error, suggesting the closest
// existing name when there is one.
func unknownCategory(tx *storage.Store, name string) error {
	msg := fmt.Sprintf("unknown category %q", name)
	categories, err := tx.ListCategories("")
	if err != nil {
		return err
	}
	if suggestion := suggestCategory(name, categories); suggestion != "" {
		msg += fmt.Sprintf("; did you mean %q?", suggestion)
	}
	return apperrors.WithField(apperrors.ErrUnknownCategory, "category", name, msg)
}

// DeleteTransaction removes a transaction.
func (s *ledgerService) DeleteTransaction(id uint) error {
	return s.store.Atomic(func(tx *storage.Store) error {
		return tx.DeleteTransaction(id)
	})
}

// GetTransaction loads one transaction.
func (s *ledgerService) GetTransaction(id uint) (*models.Transaction, error) {
	return s.store.GetTransaction(id)
}

// ListTransactions returns every transaction matching filter, newest first.
func (s *ledgerService) ListTransactions(filter storage.TransactionFilter) ([]models.Transaction, error) {
	if err := validateFilter(filter); err != nil {
		return nil, err
	}
	return s.store.QueryTransactions(filter)
}

// ListTransactionsPage returns one page of ListTransactions.
func (s *ledgerService) ListTransactionsPage(filter storage.TransactionFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error) {
	if err := validateFilter(filter); err != nil {
		return nil, err
	}
	return s.store.QueryTransactionsPage(filter, page)
}

func validateFilter(f storage.TransactionFilter) error {
	if !f.Range().Valid() {
		return apperrors.Invalid("from", f.From.String(), "from must not be after to")
	}
	if f.Kind != "" && !f.Kind.Valid() {
		return apperrors.Invalid("kind", f.Kind, "kind must be income or expense")
	}
	if f.Method != "" && !f.Method.Valid() {
		return apperrors.Invalid("method", f.Method, "method must be one of cash, card, transfer, other")
	}
	if f.MinAmount != nil && f.MaxAmount != nil && *f.MinAmount > *f.MaxAmount {
		return apperrors.Invalid("min_amount", *f.MinAmount, "min_amount must not exceed max_amount")
	}
	return nil
}

// NetWorth returns the signed sum of every amount dated on or before asOf.
func (s *ledgerService) NetWorth(asOf models.Date) (int64, error) {
	if asOf.IsZero() {
		return 0, apperrors.Invalid("as_of", nil, "as_of date is required")
	}
	return s.store.SumTransactions(storage.TransactionFilter{To: asOf})
}

// TotalsByCategory returns the signed sum per category within r. Categories
// without transactions in r are absent.
func (s *ledgerService) TotalsByCategory(r models.DateRange) (map[string]int64, error) {
	if !r.Valid() {
		return nil, apperrors.Invalid("from", r.From.String(), "from must not be after to")
	}
	return s.store.SumByCategory(storage.TransactionFilter{From: r.From, To: r.To})
}

// BalanceSummary returns all-time totals up to today and the totals of
// today's month.
func (s *ledgerService) BalanceSummary(today models.Date) (*BalanceSummary, error) {
	if today.IsZero() {
		return nil, apperrors.Invalid("as_of", nil, "as_of date is required")
	}

	allTime, err := s.store.SumFlows(storage.TransactionFilter{To: today})
	if err != nil {
		return nil, err
	}

	month := models.PeriodOf(today)
	monthly, err := s.store.SumFlows(storage.TransactionFilter{From: month.Start(), To: month.End()})
	if err != nil {
		return nil, err
	}

	return &BalanceSummary{
		AsOf:           today,
		TotalIncome:    allTime.Income,
		TotalExpenses:  allTime.Expenses,
		NetWorth:       allTime.Net(),
		Month:          month,
		MonthlyIncome:  monthly.Income,
		MonthlyExpense: monthly.Expenses,
		MonthlySavings: monthly.Net(),
	}, nil
}
