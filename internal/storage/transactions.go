package storage

import (
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "pocketledger/internal/errors"
	"pocketledger/internal/models"
	"pocketledger/internal/pagination"
)

// TransactionFilter selects transactions. Zero fields do not filter; date
// bounds are inclusive.
type TransactionFilter struct {
	From      models.Date
	To        models.Date
	Category  string
	Kind      models.CategoryKind
	Tag       string
	Method    models.PaymentMethod
	MinAmount *int64
	MaxAmount *int64
}

// Range returns the filter's date bounds.
func (f TransactionFilter) Range() models.DateRange {
	return models.DateRange{From: f.From, To: f.To}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (f TransactionFilter) apply(q *gorm.DB) *gorm.DB {
	if !f.From.IsZero() {
		q = q.Where("date >= ?", f.From)
	}
	if !f.To.IsZero() {
		q = q.Where("date <= ?", f.To)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Kind != "" {
		q = q.Where("category IN (SELECT name FROM categories WHERE kind = ?)", f.Kind)
	}
	if tag := strings.ToLower(strings.TrimSpace(f.Tag)); tag != "" {
		q = q.Where(`(',' || tags || ',') LIKE ? ESCAPE '\'`, "%,"+likeEscaper.Replace(tag)+",%")
	}
	if f.Method != "" {
		q = q.Where("method = ?", f.Method)
	}
	if f.MinAmount != nil {
		q = q.Where("amount >= ?", *f.MinAmount)
	}
	if f.MaxAmount != nil {
		q = q.Where("amount <= ?", *f.MaxAmount)
	}
	return q
}

func (s *Store) transactions(f TransactionFilter) *gorm.DB {
	return f.apply(s.db.Model(&models.Transaction{}))
}

// CreateTransaction inserts t and sets its id.
func (s *Store) CreateTransaction(t *models.Transaction) error {
	if err := s.db.Create(t).Error; err != nil {
		return storageError("create transaction", err)
	}
	return nil
}

// GetTransaction loads one transaction by id.
func (s *Store) GetTransaction(id uint) (*models.Transaction, error) {
	var t models.Transaction
	if err := s.db.First(&t, id).Error; err != nil {
		return nil, lookupError("get transaction", err, apperrors.ErrTransactionNotFound)
	}
	return &t, nil
}

// UpdateTransaction overwrites every mutable column of an existing row.
func (s *Store) UpdateTransaction(t *models.Transaction) error {
	t.UpdatedAt = time.Now()
	res := s.db.Model(&models.Transaction{}).
		Where("id = ?", t.ID).
		Select("date", "amount", "category", "tags", "method", "note", "location", "updated_at").
		Updates(t)
	if res.Error != nil {
		return storageError("update transaction", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrTransactionNotFound
	}
	return nil
}

// DeleteTransaction removes one transaction. Its id is never handed out again.
func (s *Store) DeleteTransaction(id uint) error {
	res := s.db.Delete(&models.Transaction{}, id)
	if res.Error != nil {
		return storageError("delete transaction", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrTransactionNotFound
	}
	return nil
}

// QueryTransactions returns every match, newest first with id as tie-break.
func (s *Store) QueryTransactions(f TransactionFilter) ([]models.Transaction, error) {
	var out []models.Transaction
	if err := s.transactions(f).Order("date DESC").Order("id DESC").Find(&out).Error; err != nil {
		return nil, storageError("query transactions", err)
	}
	return out, nil
}

// QueryTransactionsPage returns one page of QueryTransactions.
func (s *Store) QueryTransactionsPage(f TransactionFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	var total int64
	if err := s.transactions(f).Count(&total).Error; err != nil {
		return nil, storageError("count transactions", err)
	}

	var rows []models.Transaction
	if err := s.transactions(f).
		Order("date DESC").Order("id DESC").
		Scopes(pagination.Paginate(page)).
		Find(&rows).Error; err != nil {
		return nil, storageError("query transactions page", err)
	}

	resp := pagination.NewPageResponse(rows, page, total)
	return &resp, nil
}

// SumTransactions returns the signed sum of matching amounts.
func (s *Store) SumTransactions(f TransactionFilter) (int64, error) {
	var total int64
	if err := s.transactions(f).Select("CAST(COALESCE(SUM(amount), 0) AS BIGINT)").Scan(&total).Error; err != nil {
		return 0, storageError("sum transactions", err)
	}
	return total, nil
}

// SumByCategory returns the signed sum per category. Categories without a
// matching transaction are absent.
func (s *Store) SumByCategory(f TransactionFilter) (map[string]int64, error) {
	var rows []struct {
		Category string
		Total    int64
	}
	err := s.transactions(f).
		Select("category, CAST(SUM(amount) AS BIGINT) AS total").
		Group("category").
		Scan(&rows).Error
	if err != nil {
		return nil, storageError("sum by category", err)
	}

	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.Category] = r.Total
	}
	return out, nil
}

// FlowTotals splits a set of transactions into income and expense magnitudes.
type FlowTotals struct {
	Income   int64 `json:"income"`
	Expenses int64 `json:"expenses"`
}

// Net returns income minus expenses.
func (t FlowTotals) Net() int64 {
	return t.Income - t.Expenses
}

const flowColumns = "CAST(COALESCE(SUM(CASE WHEN amount > 0 THEN amount ELSE 0 END), 0) AS BIGINT) AS income, " +
	"CAST(COALESCE(SUM(CASE WHEN amount < 0 THEN -amount ELSE 0 END), 0) AS BIGINT) AS expenses"

// SumFlows returns income and expense totals for the matching transactions.
func (s *Store) SumFlows(f TransactionFilter) (FlowTotals, error) {
	var out FlowTotals
	if err := s.transactions(f).Select(flowColumns).Scan(&out).Error; err != nil {
		return FlowTotals{}, storageError("sum flows", err)
	}
	return out, nil
}

// MonthlyFlows returns income and expense totals keyed by YYYY-MM. Months
// without transactions are absent.
func (s *Store) MonthlyFlows(f TransactionFilter) (map[string]FlowTotals, error) {
	return s.groupedFlows(f, "substr(date, 1, 7)", "monthly flows")
}

// DailyFlows returns income and expense totals keyed by YYYY-MM-DD. Days
// without transactions are absent.
func (s *Store) DailyFlows(f TransactionFilter) (map[string]FlowTotals, error) {
	return s.groupedFlows(f, "substr(date, 1, 10)", "daily flows")
}

func (s *Store) groupedFlows(f TransactionFilter, keyExpr, op string) (map[string]FlowTotals, error) {
	var rows []struct {
		Bucket   string
		Income   int64
		Expenses int64
	}
	err := s.transactions(f).
		Select(keyExpr + " AS bucket, " + flowColumns).
		Group(keyExpr).
		Scan(&rows).Error
	if err != nil {
		return nil, storageError(op, err)
	}

	out := make(map[string]FlowTotals, len(rows))
	for _, r := range rows {
		out[r.Bucket] = FlowTotals{Income: r.Income, Expenses: r.Expenses}
	}
	return out, nil
}

// CountTransactionsByCategory counts the transactions filed under name.
func (s *Store) CountTransactionsByCategory(name string) (int64, error) {
	var n int64
	if err := s.db.Model(&models.Transaction{}).Where("category = ?", name).Count(&n).Error; err != nil {
		return 0, storageError("count transactions by category", err)
	}
	return n, nil
}
