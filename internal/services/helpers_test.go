package services

import (
	"testing"
	"time"

	"pocketledger/internal/logger"
	"pocketledger/internal/models"
	"pocketledger/internal/storage"
	"pocketledger/internal/testutil"
)

func init() {
	logger.Init("test")
}

// fixedNow is the clock used by report tests: mid-June 2024.
var fixedNow = time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	store      *storage.Store
	categories CategoryServicer
	ledger     LedgerServicer
	budgets    BudgetServicer
	goals      GoalServicer
	reports    ReportServicer
	transfer   TransferServicer
	audit      AuditServicer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	store := storage.New(db)
	ledger := NewLedgerService(store)
	budgets := NewBudgetService(store, ledger, models.DefaultWarningThreshold)
	goals := NewGoalService(store)
	clock := func() time.Time { return fixedNow }

	return &testEnv{
		store:      store,
		categories: NewCategoryService(store),
		ledger:     ledger,
		budgets:    budgets,
		goals:      goals,
		reports:    NewReportService(store, ledger, budgets, goals, clock),
		transfer:   NewTransferService(store, ledger, clock),
		audit:      NewAuditService(store),
	}
}

// withCategories creates Salary (income), Food and Rent (expense).
func (e *testEnv) withCategories(t *testing.T) *testEnv {
	t.Helper()
	db := e.store.DB()
	testutil.CreateTestCategoryNamed(t, db, "Salary", models.CategoryKindIncome)
	testutil.CreateTestCategoryNamed(t, db, "Food", models.CategoryKindExpense)
	testutil.CreateTestCategoryNamed(t, db, "Rent", models.CategoryKindExpense)
	return e
}

func (e *testEnv) record(t *testing.T, date models.Date, amount int64, category string, tags ...string) *models.Transaction {
	t.Helper()
	tx, err := e.ledger.RecordTransaction(TransactionInput{Date: date, Amount: amount, Category: category, Tags: tags})
	testutil.AssertNoError(t, err)
	return tx
}

func day(y int, m time.Month, d int) models.Date {
	return models.NewDate(y, m, d)
}

func ptr[T any](v T) *T { return &v }
