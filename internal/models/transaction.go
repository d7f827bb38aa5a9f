package models

// PaymentMethod represents how a transaction was paid
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodCard     PaymentMethod = "card"
	PaymentMethodTransfer PaymentMethod = "transfer"
	PaymentMethodOther    PaymentMethod = "other"
)

// Valid reports whether m is one of the known payment methods.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodTransfer, PaymentMethodOther:
		return true
	}
	return false
}

// Transaction is a single ledger row. Amount is in cents: positive for
// income, negative for expenses.
type Transaction struct {
	Base
	Date     Date          `gorm:"not null;index" json:"date"`
	Amount   int64         `gorm:"type:bigint;not null" json:"amount"`
	Category string        `gorm:"not null;index" json:"category"`
	Tags     TagSet        `gorm:"not null" json:"tags"`
	Method   PaymentMethod `gorm:"not null" json:"method"`
	Note     string        `gorm:"not null" json:"note,omitempty"`
	Location string        `gorm:"not null" json:"location,omitempty"`
}

// IsIncome reports whether the transaction adds to net worth.
func (t *Transaction) IsIncome() bool {
	return t.Amount > 0
}

// Magnitude returns the absolute amount in cents.
func (t *Transaction) Magnitude() int64 {
	if t.Amount < 0 {
		return -t.Amount
	}
	return t.Amount
}
