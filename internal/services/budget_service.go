package services

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fintrack/internal/analytics"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/ledger"
	"fintrack/internal/models"
)

// budgetService handles per-category budget limits.
type budgetService struct {
	db    *gorm.DB
	store ledger.Store
	now   func() time.Time
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB, store ledger.Store) BudgetServicer {
	return &budgetService{db: db, store: store, now: time.Now}
}

func (s *budgetService) limits(ownerID string) ([]models.BudgetLimit, error) {
	limits := []models.BudgetLimit{}
	if err := s.db.Scopes(ledger.OwnerScope(ownerID)).
		Order("category ASC").
		Find(&limits).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStoreUnavailable, err)
	}
	return limits, nil
}

// GetLimits returns the owner's limits keyed by category.
func (s *budgetService) GetLimits(ownerID string) (map[string]decimal.Decimal, error) {
	if err := ledger.ValidOwner(ownerID); err != nil {
		return nil, err
	}
	limits, err := s.limits(ownerID)
	if err != nil {
		return nil, err
	}
	out := make(map[string]decimal.Decimal, len(limits))
	for _, l := range limits {
		out[l.Category] = l.Limit
	}
	return out, nil
}

// SetLimit creates or replaces the limit for one category.
func (s *budgetService) SetLimit(ownerID, category string, limit decimal.Decimal) (*models.BudgetLimit, error) {
	if err := ledger.ValidOwner(ownerID); err != nil {
		return nil, err
	}
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, apperrors.ErrEmptyCategory
	}
	if limit.IsNegative() {
		return nil, apperrors.ErrNegativeAmount
	}

	row := &models.BudgetLimit{OwnerID: ownerID, Category: category, Limit: limit}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner_id"}, {Name: "category"}},
		DoUpdates: clause.AssignmentColumns([]string{"limit_amount", "updated_at"}),
	}).Create(row).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStoreUnavailable, err)
	}

	var stored models.BudgetLimit
	if err := s.db.Scopes(ledger.OwnerScope(ownerID)).
		Where("category = ?", category).
		First(&stored).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStoreUnavailable, err)
	}
	return &stored, nil
}

// GetProgress compares each limit with the owner's expenses in the window
// kind resolves to; an empty kind means the current month.
func (s *budgetService) GetProgress(ctx context.Context, ownerID string, kind analytics.RangeKind) ([]analytics.BudgetStatus, error) {
	if err := ledger.ValidOwner(ownerID); err != nil {
		return nil, err
	}
	if kind == "" || kind == analytics.RangeCustom {
		kind = analytics.RangeMonthly
	}
	window, err := analytics.ReportWindow(kind, "", "", models.DateOf(s.now()))
	if err != nil {
		return nil, err
	}

	limits, err := s.limits(ownerID)
	if err != nil {
		return nil, err
	}
	if len(limits) == 0 {
		return []analytics.BudgetStatus{}, nil
	}

	expense := models.TransactionTypeExpense
	txs, err := s.store.Find(ctx, ownerID, ledger.Query{Range: window, Type: &expense})
	if err != nil {
		return nil, err
	}
	return analytics.BudgetProgress(limits, txs, window), nil
}
