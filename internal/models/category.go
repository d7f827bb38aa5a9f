package models

import "time"

// CategoryKind represents the kind of category
type CategoryKind string

const (
	CategoryKindIncome  CategoryKind = "income"
	CategoryKindExpense CategoryKind = "expense"
)

// Valid reports whether k is one of the known kinds.
func (k CategoryKind) Valid() bool {
	return k == CategoryKindIncome || k == CategoryKindExpense
}

// Category is referenced by name from transactions and budgets.
type Category struct {
	Name      string       `gorm:"primaryKey;size:100" json:"name"`
	Kind      CategoryKind `gorm:"not null" json:"kind"`
	Color     string       `gorm:"not null" json:"color,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// AllowsAmount reports whether a signed amount has the sign this kind requires.
func (c *Category) AllowsAmount(amount int64) bool {
	switch c.Kind {
	case CategoryKindIncome:
		return amount > 0
	case CategoryKindExpense:
		return amount < 0
	}
	return false
}
