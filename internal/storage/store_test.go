package storage_test

import (
	"errors"
	"testing"

	apperrors "pocketledger/internal/errors"
	"pocketledger/internal/logger"
	"pocketledger/internal/models"
	"pocketledger/internal/pagination"
	"pocketledger/internal/storage"
	"pocketledger/internal/testutil"
)

func init() {
	logger.Init("test")
}

func newStore(t *testing.T) *storage.Store {
	t.Helper()
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })
	return storage.New(db)
}

func seed(t *testing.T, s *storage.Store) {
	t.Helper()
	db := s.DB()
	testutil.CreateTestCategoryNamed(t, db, "Salary", models.CategoryKindIncome)
	testutil.CreateTestCategoryNamed(t, db, "Food", models.CategoryKindExpense)
	testutil.CreateTestCategoryNamed(t, db, "Rent", models.CategoryKindExpense)
}

func TestTransactionCRUD(t *testing.T) {
	s := newStore(t)
	seed(t, s)

	tx := &models.Transaction{
		Date:     models.NewDate(2024, 1, 15),
		Amount:   -2500,
		Category: "Food",
		Tags:     models.TagSet{"lunch"},
		Method:   models.PaymentMethodCard,
		Note:     "noodles",
	}
	testutil.AssertNoError(t, s.CreateTransaction(tx))
	if tx.ID == 0 {
		t.Fatal("expected id to be assigned")
	}

	got, err := s.GetTransaction(tx.ID)
	testutil.AssertNoError(t, err)
	if got.Note != "noodles" || got.Date.String() != "2024-01-15" {
		t.Errorf("unexpected transaction %+v", got)
	}

	got.Amount = -3000
	got.Tags = models.TagSet{}
	testutil.AssertNoError(t, s.UpdateTransaction(got))
	reloaded, err := s.GetTransaction(tx.ID)
	testutil.AssertNoError(t, err)
	if reloaded.Amount != -3000 || len(reloaded.Tags) != 0 {
		t.Errorf("update not persisted: %+v", reloaded)
	}

	testutil.AssertNoError(t, s.DeleteTransaction(tx.ID))
	_, err = s.GetTransaction(tx.ID)
	testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	testutil.AssertAppError(t, s.DeleteTransaction(tx.ID), "TRANSACTION_NOT_FOUND")
	testutil.AssertAppError(t, s.UpdateTransaction(&models.Transaction{Base: models.Base{ID: 999}}), "TRANSACTION_NOT_FOUND")
}

func TestQueryTransactions(t *testing.T) {
	s := newStore(t)
	seed(t, s)
	db := s.DB()

	a := testutil.CreateTestTransaction(t, db, "Food", models.NewDate(2024, 1, 10), -1000, "weekly")
	b := testutil.CreateTestTransaction(t, db, "Food", models.NewDate(2024, 1, 10), -500)
	c := testutil.CreateTestTransaction(t, db, "Salary", models.NewDate(2024, 1, 31), 300000)
	d := testutil.CreateTestTransaction(t, db, "Rent", models.NewDate(2024, 2, 1), -120000, "home", "weekly_bills")

	ids := func(rows []models.Transaction) []uint {
		out := make([]uint, len(rows))
		for i, r := range rows {
			out[i] = r.ID
		}
		return out
	}
	equal := func(got, want []uint) bool {
		if len(got) != len(want) {
			return false
		}
		for i := range got {
			if got[i] != want[i] {
				return false
			}
		}
		return true
	}

	tests := []struct {
		name   string
		filter storage.TransactionFilter
		want   []uint
	}{
		{"all_newest_first", storage.TransactionFilter{}, []uint{d.ID, c.ID, b.ID, a.ID}},
		{"inclusive_range", storage.TransactionFilter{From: models.NewDate(2024, 1, 10), To: models.NewDate(2024, 1, 31)}, []uint{c.ID, b.ID, a.ID}},
		{"category", storage.TransactionFilter{Category: "Food"}, []uint{b.ID, a.ID}},
		{"kind_income", storage.TransactionFilter{Kind: models.CategoryKindIncome}, []uint{c.ID}},
		{"tag_exact", storage.TransactionFilter{Tag: "weekly"}, []uint{a.ID}},
		{"tag_underscore_is_literal", storage.TransactionFilter{Tag: "weekly_bills"}, []uint{d.ID}},
		{"method", storage.TransactionFilter{Method: models.PaymentMethodCard}, []uint{}},
		{"amount_bounds", storage.TransactionFilter{MinAmount: ptr(int64(-1000)), MaxAmount: ptr(int64(-1))}, []uint{b.ID, a.ID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := s.QueryTransactions(tt.filter)
			testutil.AssertNoError(t, err)
			if got := ids(rows); !equal(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}

	t.Run("page", func(t *testing.T) {
		page, err := s.QueryTransactionsPage(storage.TransactionFilter{}, pagination.PageRequest{Page: 2, PageSize: 3})
		testutil.AssertNoError(t, err)
		if page.TotalItems != 4 || page.TotalPages != 2 || len(page.Data) != 1 || page.Data[0].ID != a.ID {
			t.Errorf("unexpected page %+v", page)
		}
	})
}

func TestSums(t *testing.T) {
	s := newStore(t)
	seed(t, s)
	db := s.DB()

	testutil.CreateTestTransaction(t, db, "Salary", models.NewDate(2024, 1, 1), 500000)
	testutil.CreateTestTransaction(t, db, "Food", models.NewDate(2024, 1, 2), -1234)
	testutil.CreateTestTransaction(t, db, "Food", models.NewDate(2024, 1, 2), -766)
	testutil.CreateTestTransaction(t, db, "Rent", models.NewDate(2024, 2, 1), -150000)

	total, err := s.SumTransactions(storage.TransactionFilter{})
	testutil.AssertNoError(t, err)
	if total != 500000-1234-766-150000 {
		t.Errorf("unexpected total %d", total)
	}

	empty, err := s.SumTransactions(storage.TransactionFilter{Category: "Nothing"})
	testutil.AssertNoError(t, err)
	if empty != 0 {
		t.Errorf("expected 0 for no rows, got %d", empty)
	}

	byCat, err := s.SumByCategory(storage.TransactionFilter{To: models.NewDate(2024, 1, 31)})
	testutil.AssertNoError(t, err)
	if len(byCat) != 2 || byCat["Food"] != -2000 || byCat["Salary"] != 500000 {
		t.Errorf("unexpected category sums %v", byCat)
	}

	flows, err := s.SumFlows(storage.TransactionFilter{})
	testutil.AssertNoError(t, err)
	if flows.Income != 500000 || flows.Expenses != 152000 || flows.Net() != 348000 {
		t.Errorf("unexpected flows %+v", flows)
	}

	monthly, err := s.MonthlyFlows(storage.TransactionFilter{})
	testutil.AssertNoError(t, err)
	if monthly["2024-01"].Expenses != 2000 || monthly["2024-02"].Expenses != 150000 || len(monthly) != 2 {
		t.Errorf("unexpected monthly flows %v", monthly)
	}

	daily, err := s.DailyFlows(storage.TransactionFilter{From: models.NewDate(2024, 1, 1), To: models.NewDate(2024, 1, 31)})
	testutil.AssertNoError(t, err)
	if daily["2024-01-02"].Expenses != 2000 || daily["2024-01-01"].Income != 500000 || len(daily) != 2 {
		t.Errorf("unexpected daily flows %v", daily)
	}

	n, err := s.CountTransactionsByCategory("Food")
	testutil.AssertNoError(t, err)
	if n != 2 {
		t.Errorf("expected 2, got %d", n)
	}
}

func TestCategories(t *testing.T) {
	s := newStore(t)
	seed(t, s)

	got, err := s.GetCategory("Food")
	testutil.AssertNoError(t, err)
	if got.Kind != models.CategoryKindExpense {
		t.Errorf("unexpected kind %s", got.Kind)
	}

	_, err = s.GetCategory("food")
	testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")

	expenses, err := s.ListCategories(models.CategoryKindExpense)
	testutil.AssertNoError(t, err)
	if len(expenses) != 2 || expenses[0].Name != "Food" {
		t.Errorf("unexpected expense categories %v", expenses)
	}

	got.Color = "#ff0000"
	testutil.AssertNoError(t, s.UpdateCategory(got))
	reloaded, _ := s.GetCategory("Food")
	if reloaded.Color != "#ff0000" {
		t.Errorf("color not persisted: %+v", reloaded)
	}

	testutil.AssertNoError(t, s.DeleteCategory("Rent"))
	testutil.AssertAppError(t, s.DeleteCategory("Rent"), "CATEGORY_NOT_FOUND")
}

func TestBudgets(t *testing.T) {
	s := newStore(t)
	seed(t, s)
	db := s.DB()

	jan := models.Period{Year: 2024, Month: 1}
	food := testutil.CreateTestBudget(t, db, "Food", jan, 50000)
	testutil.CreateTestBudget(t, db, "Rent", jan, 150000)
	testutil.CreateTestBudget(t, db, "Food", jan.Add(1), 50000)

	found, err := s.FindBudget("Food", jan)
	testutil.AssertNoError(t, err)
	if found.ID != food.ID {
		t.Errorf("expected budget %d, got %d", food.ID, found.ID)
	}
	_, err = s.FindBudget("Food", jan.Add(5))
	testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")

	list, err := s.ListBudgets(storage.BudgetFilter{Year: 2024, Month: 1})
	testutil.AssertNoError(t, err)
	if len(list) != 2 || list[0].Category != "Food" || list[1].Category != "Rent" {
		t.Errorf("unexpected budgets %+v", list)
	}

	found.Limit = 60000
	found.WarningThreshold = 0.9
	testutil.AssertNoError(t, s.UpdateBudget(found))
	reloaded, err := s.GetBudget(food.ID)
	testutil.AssertNoError(t, err)
	if reloaded.Limit != 60000 || reloaded.WarningThreshold != 0.9 {
		t.Errorf("update not persisted: %+v", reloaded)
	}

	n, err := s.CountBudgetsByCategory("Food")
	testutil.AssertNoError(t, err)
	if n != 2 {
		t.Errorf("expected 2 food budgets, got %d", n)
	}

	testutil.AssertNoError(t, s.DeleteBudget(food.ID))
	_, err = s.GetBudget(food.ID)
	testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
}

func TestGoals(t *testing.T) {
	s := newStore(t)

	late := models.NewDate(2025, 12, 31)
	early := models.NewDate(2025, 6, 30)
	noDeadline := &models.Goal{Name: "Someday", Target: 100, Status: models.GoalStatusInProgress}
	lateGoal := &models.Goal{Name: "Car", Target: 100, Deadline: &late, Status: models.GoalStatusInProgress}
	earlyGoal := &models.Goal{Name: "Trip", Target: 100, Deadline: &early, Status: models.GoalStatusInProgress}
	for _, g := range []*models.Goal{noDeadline, lateGoal, earlyGoal} {
		testutil.AssertNoError(t, s.CreateGoal(g))
	}

	goals, err := s.ListGoals()
	testutil.AssertNoError(t, err)
	if len(goals) != 3 || goals[0].Name != "Trip" || goals[1].Name != "Car" || goals[2].Name != "Someday" {
		t.Errorf("unexpected goal order %+v", goals)
	}

	lateGoal.Current = 100
	lateGoal.Status = lateGoal.DeriveStatus()
	lateGoal.Deadline = nil
	testutil.AssertNoError(t, s.UpdateGoal(lateGoal))
	reloaded, err := s.GetGoal(lateGoal.ID)
	testutil.AssertNoError(t, err)
	if !reloaded.IsCompleted() || reloaded.Deadline != nil {
		t.Errorf("update not persisted: %+v", reloaded)
	}

	testutil.AssertNoError(t, s.DeleteGoal(lateGoal.ID))
	testutil.AssertAppError(t, s.DeleteGoal(lateGoal.ID), "GOAL_NOT_FOUND")
}

func TestAtomic(t *testing.T) {
	t.Run("rolls_back_on_error", func(t *testing.T) {
		s := newStore(t)
		seed(t, s)

		err := s.Atomic(func(tx *storage.Store) error {
			if err := tx.CreateTransaction(&models.Transaction{
				Date: models.NewDate(2024, 1, 1), Amount: -1, Category: "Food", Method: models.PaymentMethodCash,
			}); err != nil {
				return err
			}
			return apperrors.ErrGoalCompleted
		})
		if !errors.Is(err, apperrors.ErrGoalCompleted) {
			t.Fatalf("expected the callback error, got %v", err)
		}

		rows, err := s.QueryTransactions(storage.TransactionFilter{})
		testutil.AssertNoError(t, err)
		if len(rows) != 0 {
			t.Errorf("expected rollback, found %d rows", len(rows))
		}
	})

	t.Run("nested_calls_join", func(t *testing.T) {
		s := newStore(t)
		seed(t, s)

		err := s.Atomic(func(tx *storage.Store) error {
			return tx.Atomic(func(inner *storage.Store) error {
				return inner.CreateGoal(&models.Goal{Name: "Nested", Target: 10, Status: models.GoalStatusInProgress})
			})
		})
		testutil.AssertNoError(t, err)

		goals, err := s.ListGoals()
		testutil.AssertNoError(t, err)
		if len(goals) != 1 {
			t.Errorf("expected 1 goal, got %d", len(goals))
		}
	})
}

func TestStorageErrorsAreSurfaced(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := storage.New(db)
	testutil.TeardownTestDB(t, db)

	_, err := s.QueryTransactions(storage.TransactionFilter{})
	testutil.AssertAppError(t, err, "STORAGE_ERROR")
	if !apperrors.IsStorage(err) {
		t.Error("expected storage kind")
	}
}

func ptr[T any](v T) *T { return &v }
