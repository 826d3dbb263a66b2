package models

import "github.com/shopspring/decimal"

// TransactionType is the direction of a transaction. Only income and expense
// exist; the sign of a transaction is carried here, never by Amount.
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Valid reports whether t is one of the two known transaction types.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Transaction represents a single ledger entry owned by one user.
type Transaction struct {
	Base
	OwnerID     string          `gorm:"type:uuid;not null;index:idx_transactions_owner_date,priority:1" json:"owner_id"`
	Date        Date            `gorm:"type:date;not null;index:idx_transactions_owner_date,priority:2" json:"date"`
	Description string          `json:"description"`
	Category    string          `gorm:"not null;default:''" json:"category"`
	Amount      decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	Type        TransactionType `gorm:"not null" json:"type"`
}

// SignedAmount returns +Amount for income and -Amount for expense. Any other
// type contributes zero.
func (t *Transaction) SignedAmount() decimal.Decimal {
	switch t.Type {
	case TransactionTypeIncome:
		return t.Amount
	case TransactionTypeExpense:
		return t.Amount.Neg()
	}
	return decimal.Zero
}
