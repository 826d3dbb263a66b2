package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/ledger"
	"fintrack/internal/logger"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// transactionService handles transaction CRUD.
type transactionService struct {
	db *gorm.DB
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB) TransactionServicer {
	return &transactionService{db: db}
}

// validateTransactionInput checks the fields every write must carry.
func validateTransactionInput(in *TransactionInput) error {
	if !in.Type.Valid() {
		return apperrors.ErrInvalidTransaction
	}
	if in.Amount.IsNegative() {
		return apperrors.ErrNegativeAmount
	}
	if in.Date.IsZero() {
		return apperrors.WithMessage(apperrors.ErrInvalidDate, "date is required")
	}
	in.Category = strings.TrimSpace(in.Category)
	in.Description = strings.TrimSpace(in.Description)
	return nil
}

// CreateTransaction records a new transaction owned by ownerID.
func (s *transactionService) CreateTransaction(ownerID string, in TransactionInput) (*models.Transaction, error) {
	if err := ledger.ValidOwner(ownerID); err != nil {
		return nil, err
	}
	if err := validateTransactionInput(&in); err != nil {
		return nil, err
	}

	transaction := &models.Transaction{
		OwnerID:     ownerID,
		Date:        in.Date,
		Description: in.Description,
		Category:    in.Category,
		Amount:      in.Amount,
		Type:        in.Type,
	}
	if err := s.db.Create(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStoreUnavailable, err)
	}

	logger.Get().Infow("transaction created", "owner_id", ownerID, "transaction_id", transaction.ID)
	return transaction, nil
}

// GetUserTransactions returns a paginated, filtered, sorted list of the
// owner's transactions.
func (s *transactionService) GetUserTransactions(ownerID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	if err := ledger.ValidOwner(ownerID); err != nil {
		return nil, err
	}
	order, err := ledger.SortOrder(filter.SortBy)
	if err != nil {
		return nil, err
	}

	page.Defaults()

	base := s.db.Model(&models.Transaction{}).Scopes(ledger.OwnerScope(ownerID))
	base = applyTransactionFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStoreUnavailable, err)
	}

	var transactions []models.Transaction
	if err := base.Scopes(pagination.Paginate(page)).
		Order(order).
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStoreUnavailable, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if term := strings.TrimSpace(f.SearchTerm); term != "" {
		q = q.Where(`LOWER(description) LIKE ? ESCAPE '\'`, "%"+likeEscaper.Replace(strings.ToLower(term))+"%")
	}
	if f.FromDate != nil {
		q = q.Where("date >= ?", *f.FromDate)
	}
	if f.ToDate != nil {
		q = q.Where("date <= ?", *f.ToDate)
	}
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	return q
}

// GetTransactionByID returns a transaction if it belongs to the owner.
func (s *transactionService) GetTransactionByID(ownerID, transactionID string) (*models.Transaction, error) {
	if err := ledger.ValidOwner(ownerID); err != nil {
		return nil, err
	}
	var transaction models.Transaction
	if err := s.db.Scopes(ledger.OwnerScope(ownerID)).
		Where("id = ?", transactionID).
		First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrStoreUnavailable, err)
	}
	return &transaction, nil
}

// UpdateTransaction replaces every writable field of a transaction.
func (s *transactionService) UpdateTransaction(ownerID, transactionID string, in TransactionInput) (*models.Transaction, error) {
	if err := validateTransactionInput(&in); err != nil {
		return nil, err
	}
	transaction, err := s.GetTransactionByID(ownerID, transactionID)
	if err != nil {
		return nil, err
	}

	transaction.Date = in.Date
	transaction.Description = in.Description
	transaction.Category = in.Category
	transaction.Amount = in.Amount
	transaction.Type = in.Type

	if err := s.db.Model(transaction).
		Select("date", "description", "category", "amount", "type").
		Updates(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStoreUnavailable, err)
	}
	return transaction, nil
}

// DeleteTransaction permanently removes a transaction.
func (s *transactionService) DeleteTransaction(ownerID, transactionID string) error {
	if err := ledger.ValidOwner(ownerID); err != nil {
		return err
	}
	result := s.db.Scopes(ledger.OwnerScope(ownerID)).
		Where("id = ?", transactionID).
		Delete(&models.Transaction{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrStoreUnavailable, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrTransactionNotFound
	}

	logger.Get().Infow("transaction deleted", "owner_id", ownerID, "transaction_id", transactionID)
	return nil
}
