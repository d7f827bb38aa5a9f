package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"pocketledger/internal/models"

	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestCategory creates a category of the given kind with a unique name.
func CreateTestCategory(t *testing.T, db *gorm.DB, kind models.CategoryKind) *models.Category {
	t.Helper()
	return CreateTestCategoryNamed(t, db, fmt.Sprintf("Test Category %d", nextID()), kind)
}

// CreateTestCategoryNamed creates a category with the given name and kind.
func CreateTestCategoryNamed(t *testing.T, db *gorm.DB, name string, kind models.CategoryKind) *models.Category {
	t.Helper()

	category := &models.Category{Name: name, Kind: kind}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestTransaction creates a cash transaction of amount cents on date.
func CreateTestTransaction(t *testing.T, db *gorm.DB, category string, date models.Date, amount int64, tags ...string) *models.Transaction {
	t.Helper()

	set, err := models.NewTagSet(tags...)
	if err != nil {
		t.Fatalf("invalid fixture tags: %v", err)
	}
	tx := &models.Transaction{
		Date:     date,
		Amount:   amount,
		Category: category,
		Tags:     set,
		Method:   models.PaymentMethodCash,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestBudget creates a budget for category in period with the default
// warning threshold.
func CreateTestBudget(t *testing.T, db *gorm.DB, category string, period models.Period, limit int64) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		Category:         category,
		Year:             period.Year,
		Month:            period.Month,
		Limit:            limit,
		WarningThreshold: models.DefaultWarningThreshold,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestGoal creates a goal with the given target and current amounts.
func CreateTestGoal(t *testing.T, db *gorm.DB, target, current int64) *models.Goal {
	t.Helper()

	goal := &models.Goal{
		Name:    fmt.Sprintf("Test Goal %d", nextID()),
		Target:  target,
		Current: current,
	}
	goal.Status = goal.DeriveStatus()
	if err := db.Create(goal).Error; err != nil {
		t.Fatalf("failed to create test goal: %v", err)
	}
	return goal
}
