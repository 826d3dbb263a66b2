// Package ledger reads transactions from the backing store. Every query goes
// through OwnerScope, so no read can cross owners.
package ledger

import (
	"context"

	"gorm.io/gorm"

	"fintrack/internal/analytics"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
)

// DefaultBatchSize is the page size used by Stream when none is given.
const DefaultBatchSize = 500

// Sort orders understood by Query.Order.
const (
	OrderDateAsc  = "date ASC, id ASC"
	OrderDateDesc = "date DESC, id ASC"
	OrderInsert   = "created_at ASC, id ASC"
	OrderLargest  = "amount DESC, date DESC, id ASC"
)

// sortColumns is the allow-list of sortBy values for transaction listings.
var sortColumns = map[string]string{
	"date":        "date",
	"amount":      "amount",
	"category":    "category",
	"description": "description",
	"type":        "type",
}

// SortOrder returns the ORDER BY clause for a sortBy value. Date sorts newest
// first; every other field sorts ascending. An empty field sorts by date.
func SortOrder(field string) (string, error) {
	if field == "" {
		field = "date"
	}
	col, ok := sortColumns[field]
	if !ok {
		return "", apperrors.ErrInvalidSortField
	}
	if col == "date" {
		return OrderDateDesc, nil
	}
	return col + " ASC, id ASC", nil
}

// Query narrows a ledger read. The zero value reads the owner's whole
// history in insertion order. Limit of zero means no limit.
type Query struct {
	Range analytics.DateRange
	Type  *models.TransactionType
	Order string
	Limit int
}

// Store is the read side of the ledger used by the report assembler.
type Store interface {
	Find(ctx context.Context, ownerID string, q Query) ([]models.Transaction, error)
	Stream(ctx context.Context, ownerID string, q Query, batchSize int, fn func([]models.Transaction) error) error
}

type gormStore struct {
	db *gorm.DB
}

// NewStore returns a Store backed by db.
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// OwnerScope restricts a query to rows owned by ownerID. Callers must check
// ValidOwner first; an empty ID matches nothing.
func OwnerScope(ownerID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("owner_id = ?", ownerID)
	}
}

// ValidOwner rejects an empty owner ID, which would otherwise read as a
// request for nobody's (or everybody's) data.
func ValidOwner(ownerID string) error {
	if ownerID == "" {
		return apperrors.ErrUnauthorized
	}
	return nil
}

// RangeScope applies a half-open date range.
func RangeScope(r analytics.DateRange) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if r.From != nil {
			db = db.Where("date >= ?", *r.From)
		}
		if r.To != nil {
			db = db.Where("date < ?", *r.To)
		}
		return db
	}
}

func (s *gormStore) filter(ctx context.Context, ownerID string, q Query) *gorm.DB {
	db := s.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Scopes(OwnerScope(ownerID), RangeScope(q.Range))
	if q.Type != nil {
		db = db.Where("type = ?", *q.Type)
	}
	return db
}

func (s *gormStore) query(ctx context.Context, ownerID string, q Query) *gorm.DB {
	db := s.filter(ctx, ownerID, q)
	order := q.Order
	if order == "" {
		order = OrderInsert
	}
	db = db.Order(order)
	if q.Limit > 0 {
		db = db.Limit(q.Limit)
	}
	return db
}

// Find loads every matching transaction.
func (s *gormStore) Find(ctx context.Context, ownerID string, q Query) ([]models.Transaction, error) {
	if err := ValidOwner(ownerID); err != nil {
		return nil, err
	}
	txs := []models.Transaction{}
	if err := s.query(ctx, ownerID, q).Find(&txs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStoreUnavailable, err)
	}
	return txs, nil
}

// Stream hands matching transactions to fn one batch at a time. Batches are
// keyed on the primary key, so q.Order and q.Limit are ignored and rows
// arrive in ID order. An error from fn stops the stream and is returned unchanged.
func (s *gormStore) Stream(ctx context.Context, ownerID string, q Query, batchSize int, fn func([]models.Transaction) error) error {
	if err := ValidOwner(ownerID); err != nil {
		return err
	}
	if batchSize < 1 {
		batchSize = DefaultBatchSize
	}

	var fnErr error
	var batch []models.Transaction
	result := s.filter(ctx, ownerID, q).FindInBatches(&batch, batchSize, func(_ *gorm.DB, _ int) error {
		if err := fn(batch); err != nil {
			fnErr = err
			return err
		}
		return nil
	})
	if fnErr != nil {
		return fnErr
	}
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrStoreUnavailable, result.Error)
	}
	return nil
}
