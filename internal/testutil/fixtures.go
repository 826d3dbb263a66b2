package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"fintrack/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestPassword is the plain-text password of every fixture user.
const TestPassword = "password123"

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestTransaction records a transaction for ownerID. date is YYYY-MM-DD
// and amount a decimal string.
func CreateTestTransaction(
	t *testing.T,
	db *gorm.DB,
	ownerID string,
	typ models.TransactionType,
	amount, date, category string,
) *models.Transaction {
	t.Helper()

	d, err := models.ParseDate(date)
	if err != nil {
		t.Fatalf("bad fixture date: %v", err)
	}
	tx := &models.Transaction{
		OwnerID:     ownerID,
		Date:        d,
		Description: fmt.Sprintf("%s %d", category, nextID()),
		Category:    category,
		Amount:      decimal.RequireFromString(amount),
		Type:        typ,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestBudgetLimit sets a spending limit for one category.
func CreateTestBudgetLimit(t *testing.T, db *gorm.DB, ownerID, category, limit string) *models.BudgetLimit {
	t.Helper()

	bl := &models.BudgetLimit{
		OwnerID:  ownerID,
		Category: category,
		Limit:    decimal.RequireFromString(limit),
	}
	if err := db.Create(bl).Error; err != nil {
		t.Fatalf("failed to create test budget limit: %v", err)
	}
	return bl
}
