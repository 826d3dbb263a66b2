package services

import (
	"testing"

	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/testutil"

	"github.com/shopspring/decimal"
)

func mustDate(t *testing.T, s string) models.Date {
	t.Helper()
	d, err := models.ParseDate(s)
	if err != nil {
		t.Fatalf("bad date %q: %v", s, err)
	}
	return d
}

func newInput(t *testing.T, typ models.TransactionType, amount, date, category, description string) TransactionInput {
	t.Helper()
	return TransactionInput{
		Date:        mustDate(t, date),
		Description: description,
		Category:    category,
		Amount:      decimal.RequireFromString(amount),
		Type:        typ,
	}
}

func TestCreateTransaction(t *testing.T) {
	t.Run("valid_expense", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		in := newInput(t, models.TransactionTypeExpense, "12.50", "2024-05-03", "  Food ", " Lunch ")
		tx, err := svc.CreateTransaction(user.ID, in)
		testutil.AssertNoError(t, err)

		if tx.ID == "" {
			t.Fatal("expected a transaction ID")
		}
		if tx.OwnerID != user.ID {
			t.Errorf("expected owner %s, got %s", user.ID, tx.OwnerID)
		}
		if tx.Category != "Food" || tx.Description != "Lunch" {
			t.Errorf("expected trimmed fields, got %q / %q", tx.Category, tx.Description)
		}

		stored, err := svc.GetTransactionByID(user.ID, tx.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimal(t, stored.Amount, "12.50")
		if stored.Date.String() != "2024-05-03" {
			t.Errorf("expected date 2024-05-03, got %s", stored.Date)
		}
	})

	t.Run("zero_amount_allowed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateTransaction(user.ID, newInput(t, models.TransactionTypeIncome, "0", "2024-05-03", "Misc", ""))
		testutil.AssertNoError(t, err)
	})

	t.Run("negative_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateTransaction(user.ID, newInput(t, models.TransactionTypeExpense, "-1", "2024-05-03", "Food", ""))
		testutil.AssertAppError(t, err, "NEGATIVE_AMOUNT")
	})

	t.Run("unknown_type", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateTransaction(user.ID, newInput(t, "transfer", "5", "2024-05-03", "Food", ""))
		testutil.AssertAppError(t, err, "INVALID_TRANSACTION_TYPE")
	})

	t.Run("missing_date", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		in := newInput(t, models.TransactionTypeExpense, "5", "2024-05-03", "Food", "")
		in.Date = models.Date{}
		_, err := svc.CreateTransaction(user.ID, in)
		testutil.AssertAppError(t, err, "INVALID_DATE")
	})

	t.Run("no_owner", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewTransactionService(db)

		_, err := svc.CreateTransaction("", newInput(t, models.TransactionTypeExpense, "5", "2024-05-03", "Food", ""))
		testutil.AssertAppError(t, err, "UNAUTHORIZED")
	})
}

func TestGetUserTransactions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewTransactionService(db)
	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)

	seed := []TransactionInput{
		newInput(t, models.TransactionTypeIncome, "3000", "2024-05-01", "Salary", "May salary"),
		newInput(t, models.TransactionTypeExpense, "45.20", "2024-05-02", "Food", "Groceries at market"),
		newInput(t, models.TransactionTypeExpense, "9.99", "2024-05-04", "Subscriptions", "Music 100% streaming"),
		newInput(t, models.TransactionTypeExpense, "120", "2024-05-03", "Utilities", "Electricity"),
	}
	for _, in := range seed {
		if _, err := svc.CreateTransaction(user.ID, in); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}
	if _, err := svc.CreateTransaction(other.ID, newInput(t, models.TransactionTypeExpense, "1", "2024-05-02", "Food", "Groceries elsewhere")); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	t.Run("default_sort_is_newest_first", func(t *testing.T) {
		res, err := svc.GetUserTransactions(user.ID, pagination.PageRequest{}, TransactionFilter{})
		testutil.AssertNoError(t, err)

		if res.TotalItems != 4 {
			t.Fatalf("expected 4 items, got %d", res.TotalItems)
		}
		got := []string{}
		for _, tx := range res.Data {
			got = append(got, tx.Date.String())
		}
		want := []string{"2024-05-04", "2024-05-03", "2024-05-02", "2024-05-01"}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("expected order %v, got %v", want, got)
			}
		}
	})

	t.Run("sort_by_amount", func(t *testing.T) {
		res, err := svc.GetUserTransactions(user.ID, pagination.PageRequest{}, TransactionFilter{SortBy: "amount"})
		testutil.AssertNoError(t, err)

		if res.Data[0].Description != "Music 100% streaming" {
			t.Errorf("expected smallest amount first, got %s", res.Data[0].Description)
		}
	})

	t.Run("invalid_sort_field", func(t *testing.T) {
		_, err := svc.GetUserTransactions(user.ID, pagination.PageRequest{}, TransactionFilter{SortBy: "owner_id; DROP TABLE users"})
		testutil.AssertAppError(t, err, "INVALID_SORT_FIELD")
	})

	t.Run("search_is_case_insensitive", func(t *testing.T) {
		res, err := svc.GetUserTransactions(user.ID, pagination.PageRequest{}, TransactionFilter{SearchTerm: "GROCERIES"})
		testutil.AssertNoError(t, err)

		if res.TotalItems != 1 {
			t.Fatalf("expected 1 match, got %d", res.TotalItems)
		}
		if res.Data[0].OwnerID != user.ID {
			t.Error("search returned another owner's transaction")
		}
	})

	t.Run("search_escapes_wildcards", func(t *testing.T) {
		res, err := svc.GetUserTransactions(user.ID, pagination.PageRequest{}, TransactionFilter{SearchTerm: "100%"})
		testutil.AssertNoError(t, err)

		if res.TotalItems != 1 {
			t.Errorf("expected only the literal match, got %d", res.TotalItems)
		}
	})

	t.Run("filters", func(t *testing.T) {
		expense := models.TransactionTypeExpense
		from := mustDate(t, "2024-05-02")
		to := mustDate(t, "2024-05-03")

		res, err := svc.GetUserTransactions(user.ID, pagination.PageRequest{}, TransactionFilter{
			Type:     &expense,
			FromDate: &from,
			ToDate:   &to,
		})
		testutil.AssertNoError(t, err)
		if res.TotalItems != 2 {
			t.Errorf("expected 2 expenses between the dates, got %d", res.TotalItems)
		}

		res, err = svc.GetUserTransactions(user.ID, pagination.PageRequest{}, TransactionFilter{Category: "Salary"})
		testutil.AssertNoError(t, err)
		if res.TotalItems != 1 {
			t.Errorf("expected 1 salary transaction, got %d", res.TotalItems)
		}
	})

	t.Run("pagination", func(t *testing.T) {
		res, err := svc.GetUserTransactions(user.ID, pagination.PageRequest{Page: 2, PageSize: 3}, TransactionFilter{})
		testutil.AssertNoError(t, err)

		if len(res.Data) != 1 {
			t.Errorf("expected 1 item on page 2, got %d", len(res.Data))
		}
		if res.TotalPages != 2 {
			t.Errorf("expected 2 pages, got %d", res.TotalPages)
		}
	})

	t.Run("empty_owner_list", func(t *testing.T) {
		stranger := testutil.CreateTestUser(t, db)
		res, err := svc.GetUserTransactions(stranger.ID, pagination.PageRequest{}, TransactionFilter{})
		testutil.AssertNoError(t, err)

		if res.Data == nil || len(res.Data) != 0 {
			t.Errorf("expected an empty, non-nil page, got %v", res.Data)
		}
	})
}

func TestUpdateTransaction(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewTransactionService(db)
	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)
	tx := testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, "10", "2024-05-01", "Food")

	t.Run("replaces_fields", func(t *testing.T) {
		in := newInput(t, models.TransactionTypeIncome, "25", "2024-05-10", "Refunds", "Store refund")
		updated, err := svc.UpdateTransaction(user.ID, tx.ID, in)
		testutil.AssertNoError(t, err)

		if updated.Type != models.TransactionTypeIncome || updated.Category != "Refunds" {
			t.Errorf("unexpected update result %+v", updated)
		}

		stored, _ := svc.GetTransactionByID(user.ID, tx.ID)
		if !stored.Amount.Equal(decimal.NewFromInt(25)) || stored.Date.String() != "2024-05-10" {
			t.Errorf("update not persisted: %+v", stored)
		}
	})

	t.Run("other_owner_not_found", func(t *testing.T) {
		in := newInput(t, models.TransactionTypeExpense, "1", "2024-05-01", "Food", "")
		_, err := svc.UpdateTransaction(other.ID, tx.ID, in)
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})

	t.Run("invalid_input", func(t *testing.T) {
		in := newInput(t, models.TransactionTypeExpense, "-3", "2024-05-01", "Food", "")
		_, err := svc.UpdateTransaction(user.ID, tx.ID, in)
		testutil.AssertAppError(t, err, "NEGATIVE_AMOUNT")
	})
}

func TestDeleteTransaction(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewTransactionService(db)
	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)
	tx := testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, "10", "2024-05-01", "Food")

	err := svc.DeleteTransaction(other.ID, tx.ID)
	testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")

	testutil.AssertNoError(t, svc.DeleteTransaction(user.ID, tx.ID))

	_, err = svc.GetTransactionByID(user.ID, tx.ID)
	testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")

	err = svc.DeleteTransaction(user.ID, tx.ID)
	testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
}
