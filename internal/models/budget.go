package models

// DefaultWarningThreshold is used when a budget is created without one.
const DefaultWarningThreshold = 0.8

// Budget caps spending in an expense category for one calendar month.
// How much has been spent is always derived from transactions.
type Budget struct {
	Base
	Category         string  `gorm:"not null;uniqueIndex:idx_budgets_period" json:"category"`
	Year             int     `gorm:"not null;uniqueIndex:idx_budgets_period" json:"year"`
	Month            int     `gorm:"not null;uniqueIndex:idx_budgets_period" json:"month"`
	Limit            int64   `gorm:"column:limit_amount;type:bigint;not null" json:"limit"`
	WarningThreshold float64 `gorm:"not null" json:"warning_threshold"`
}

// Period returns the calendar month the budget applies to.
func (b *Budget) Period() Period {
	return Period{Year: b.Year, Month: b.Month}
}
