package models

import "github.com/shopspring/decimal"

// BudgetLimit is a per-owner spending ceiling for one category.
type BudgetLimit struct {
	Base
	OwnerID  string          `gorm:"type:uuid;not null;uniqueIndex:uq_budget_limits_owner_category" json:"owner_id"`
	Category string          `gorm:"not null;uniqueIndex:uq_budget_limits_owner_category" json:"category"`
	Limit    decimal.Decimal `gorm:"column:limit_amount;type:numeric(14,2);not null" json:"limit"`
}
