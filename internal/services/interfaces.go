package services

import (
	"io"
	"time"

	"pocketledger/internal/models"
	"pocketledger/internal/pagination"
	"pocketledger/internal/storage"
)

// CategoryInput holds the fields of a new category.
type CategoryInput struct {
	Name  string
	Kind  models.CategoryKind
	Color string
}

// CategoryChanges holds the optional fields of a category update. Nil
// fields are left unchanged.
type CategoryChanges struct {
	Kind  *models.CategoryKind
	Color *string
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(input CategoryInput) (*models.Category, error)
	GetCategory(name string) (*models.Category, error)
	ListCategories(kind models.CategoryKind) ([]models.Category, error)
	UpdateCategory(name string, changes CategoryChanges) (*models.Category, error)
	DeleteCategory(name string) error
	EnsureDefaults() (int, error)
}

// TransactionInput holds the fields of a transaction to record.
type TransactionInput struct {
	Date     models.Date
	Amount   int64
	Category string
	Tags     []string
	Method   models.PaymentMethod
	Note     string
	Location string
}

// TransactionChanges holds the optional fields of a transaction edit. Nil
// fields are left unchanged.
type TransactionChanges struct {
	Date     *models.Date
	Amount   *int64
	Category *string
	Tags     *[]string
	Method   *models.PaymentMethod
	Note     *string
	Location *string
}

// BalanceSummary is the dashboard view of the ledger: all-time totals plus
// the current month.
type BalanceSummary struct {
	AsOf           models.Date   `json:"as_of"`
	TotalIncome    int64         `json:"total_income"`
	TotalExpenses  int64         `json:"total_expenses"`
	NetWorth       int64         `json:"net_worth"`
	Month          models.Period `json:"month"`
	MonthlyIncome  int64         `json:"monthly_income"`
	MonthlyExpense int64         `json:"monthly_expenses"`
	MonthlySavings int64         `json:"monthly_savings"`
}

// LedgerServicer defines the contract for recording transactions and
// computing balances from them.
type LedgerServicer interface {
	RecordTransaction(input TransactionInput) (*models.Transaction, error)
	EditTransaction(id uint, changes TransactionChanges) (*models.Transaction, error)
	DeleteTransaction(id uint) error
	GetTransaction(id uint) (*models.Transaction, error)
	ListTransactions(filter storage.TransactionFilter) ([]models.Transaction, error)
	ListTransactionsPage(filter storage.TransactionFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error)
	NetWorth(asOf models.Date) (int64, error)
	TotalsByCategory(r models.DateRange) (map[string]int64, error)
	BalanceSummary(today models.Date) (*BalanceSummary, error)
}

// BudgetInput holds the fields of a new budget. A zero WarningThreshold
// takes the configured default.
type BudgetInput struct {
	Category         string
	Year             int
	Month            int
	Limit            int64
	WarningThreshold float64
}

// BudgetChanges holds the optional fields of a budget update.
type BudgetChanges struct {
	Limit            *int64
	WarningThreshold *float64
}

// BudgetStatus is the derived state of a budget.
type BudgetStatus string

const (
	BudgetStatusOK       BudgetStatus = "ok"
	BudgetStatusWarning  BudgetStatus = "warning"
	BudgetStatusExceeded BudgetStatus = "exceeded"
)

// BudgetEvaluation is a budget together with what has been spent against it.
type BudgetEvaluation struct {
	Budget    models.Budget `json:"budget"`
	Spent     int64         `json:"spent"`
	Remaining int64         `json:"remaining"`
	Ratio     float64       `json:"ratio"`
	Status    BudgetStatus  `json:"status"`
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	CreateBudget(input BudgetInput) (*models.Budget, error)
	GetBudget(id uint) (*models.Budget, error)
	ListBudgets(year, month int) ([]models.Budget, error)
	UpdateBudget(id uint, changes BudgetChanges) (*models.Budget, error)
	DeleteBudget(id uint) error
	Evaluate(id uint) (*BudgetEvaluation, error)
	EvaluatePeriod(year, month int) ([]BudgetEvaluation, error)
}

// GoalInput holds the fields of a new goal. A zero Priority means
// models.DefaultGoalPriority.
type GoalInput struct {
	Name        string
	Description string
	Priority    int
	Target      int64
	Current     int64
	Deadline    *models.Date
}

// GoalServicer defines the contract for savings goals.
type GoalServicer interface {
	CreateGoal(input GoalInput) (*models.Goal, error)
	GetGoal(id uint) (*models.Goal, error)
	ListGoals() ([]models.Goal, error)
	DeleteGoal(id uint) error
	Contribute(id uint, amount int64) (*models.Goal, error)
	Progress(goal *models.Goal) float64
}

// CategoryShare is one slice of a category breakdown. BasisPoints is the
// share of total expense in hundredths of a percent; the shares of one
// breakdown always add up to 10000.
type CategoryShare struct {
	Category     string  `json:"category"`
	Amount       int64   `json:"amount"`
	BasisPoints  int64   `json:"basis_points"`
	Percent      float64 `json:"percent"`
	AmountString string  `json:"amount_decimal"`
}

// MonthTotals is one entry of a monthly trend.
type MonthTotals struct {
	Month    models.Period `json:"month"`
	Label    string        `json:"label"`
	Income   int64         `json:"income"`
	Expenses int64         `json:"expenses"`
	Net      int64         `json:"net"`
}

// DayTotals is one day of activity in a monthly report.
type DayTotals struct {
	Date     models.Date `json:"date"`
	Income   int64       `json:"income"`
	Expenses int64       `json:"expenses"`
}

// MonthlyReport summarizes one calendar month.
type MonthlyReport struct {
	Month       models.Period    `json:"month"`
	Income      int64            `json:"income"`
	Expenses    int64            `json:"expenses"`
	Savings     int64            `json:"savings"`
	SavingsRate float64          `json:"savings_rate"`
	Categories  map[string]int64 `json:"categories"`
	Daily       []DayTotals      `json:"daily"`
}

// InsightKind classifies an insight.
type InsightKind string

const (
	InsightWarning   InsightKind = "warning"
	InsightTip       InsightKind = "tip"
	InsightMilestone InsightKind = "milestone"
)

// Insight is a generated advisory message. It is never persisted.
type Insight struct {
	Kind    InsightKind `json:"kind"`
	Rule    string      `json:"rule"`
	Message string      `json:"message"`
}

// ReportServicer defines the contract for read-only reports.
type ReportServicer interface {
	CategoryBreakdown(r models.DateRange) ([]CategoryShare, error)
	MonthlyTrend(monthCount int) ([]MonthTotals, error)
	MonthlyReport(year, month int) (*MonthlyReport, error)
	GenerateInsights() ([]Insight, error)
}

// RowError explains why one CSV row was not imported. Row counts data rows
// from 1, excluding the header.
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportSummary is the outcome of a CSV import.
type ImportSummary struct {
	Imported int        `json:"imported"`
	Rejected []RowError `json:"rejected"`
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(action, resourceType, resourceID string, changes map[string]any)
	Recent(limit int) ([]models.AuditLog, error)
}

// Backup is the JSON backup document: every relation verbatim.
type Backup struct {
	Version    int       `json:"version"`
	ExportedAt time.Time `json:"exported_at"`
	storage.Snapshot
}

// RestoreSummary counts the rows a JSON import restored.
type RestoreSummary struct {
	Categories   int `json:"categories"`
	Transactions int `json:"transactions"`
	Budgets      int `json:"budgets"`
	Goals        int `json:"goals"`
}

// TransferServicer defines the contract for CSV and JSON import/export.
type TransferServicer interface {
	ExportCSV(w io.Writer, filter storage.TransactionFilter) (int, error)
	ImportCSV(r io.Reader) (*ImportSummary, error)
	ExportJSON(w io.Writer) error
	ImportJSON(r io.Reader) (*RestoreSummary, error)
}
