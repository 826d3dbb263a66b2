package ledger

import (
	"context"
	"errors"
	"testing"

	"fintrack/internal/analytics"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/testutil"
)

func mustDate(t *testing.T, s string) *models.Date {
	t.Helper()
	d, err := models.ParseDate(s)
	if err != nil {
		t.Fatalf("bad date %q: %v", s, err)
	}
	return &d
}

func TestFind_ScopesByOwner(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := NewStore(db)
	alice := testutil.CreateTestUser(t, db)
	bob := testutil.CreateTestUser(t, db)

	testutil.CreateTestTransaction(t, db, alice.ID, models.TransactionTypeIncome, "100", "2024-01-05", "Salary")
	testutil.CreateTestTransaction(t, db, bob.ID, models.TransactionTypeExpense, "40", "2024-01-05", "Food")

	txs, err := store.Find(context.Background(), alice.ID, Query{})
	testutil.AssertNoError(t, err)
	if len(txs) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txs))
	}
	if txs[0].OwnerID != alice.ID {
		t.Errorf("expected owner %s, got %s", alice.ID, txs[0].OwnerID)
	}
}

func TestFind_EmptyOwnerRejected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := NewStore(db)

	_, err := store.Find(context.Background(), "", Query{})
	testutil.AssertAppError(t, err, "UNAUTHORIZED")

	err = store.Stream(context.Background(), "", Query{}, 10, func([]models.Transaction) error { return nil })
	testutil.AssertAppError(t, err, "UNAUTHORIZED")
}

func TestFind_RangeAndType(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := NewStore(db)
	user := testutil.CreateTestUser(t, db)

	testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, "1", "2024-01-31", "Food")
	testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, "2", "2024-02-01", "Food")
	testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeIncome, "3", "2024-02-15", "Salary")
	testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, "4", "2024-03-01", "Food")

	tests := []struct {
		name  string
		query Query
		want  []string
	}{
		{
			name:  "half-open range",
			query: Query{Range: analytics.DateRange{From: mustDate(t, "2024-02-01"), To: mustDate(t, "2024-03-01")}, Order: OrderDateAsc},
			want:  []string{"2", "3"},
		},
		{
			name:  "open-ended range",
			query: Query{Range: analytics.DateRange{From: mustDate(t, "2024-02-15")}, Order: OrderDateAsc},
			want:  []string{"3", "4"},
		},
		{
			name: "type filter",
			query: Query{Type: func() *models.TransactionType {
				typ := models.TransactionTypeExpense
				return &typ
			}(), Order: OrderDateDesc},
			want: []string{"4", "2", "1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txs, err := store.Find(context.Background(), user.ID, tt.query)
			testutil.AssertNoError(t, err)
			if len(txs) != len(tt.want) {
				t.Fatalf("expected %d rows, got %d", len(tt.want), len(txs))
			}
			for i, want := range tt.want {
				if got := txs[i].Amount.String(); got != want {
					t.Errorf("row %d: expected amount %s, got %s", i, want, got)
				}
			}
		})
	}
}

func TestFind_NoRowsIsEmptyNotNil(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := NewStore(db)
	user := testutil.CreateTestUser(t, db)

	txs, err := store.Find(context.Background(), user.ID, Query{})
	testutil.AssertNoError(t, err)
	if txs == nil || len(txs) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", txs)
	}
}

func TestStream_Batches(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := NewStore(db)
	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)

	for i := 0; i < 7; i++ {
		testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, "1", "2024-01-05", "Food")
	}
	testutil.CreateTestTransaction(t, db, other.ID, models.TransactionTypeExpense, "1", "2024-01-05", "Food")

	var batches, rows int
	err := store.Stream(context.Background(), user.ID, Query{}, 3, func(batch []models.Transaction) error {
		batches++
		rows += len(batch)
		for _, tx := range batch {
			if tx.OwnerID != user.ID {
				t.Errorf("streamed a row owned by %s", tx.OwnerID)
			}
		}
		return nil
	})
	testutil.AssertNoError(t, err)
	if rows != 7 {
		t.Errorf("expected 7 rows, got %d", rows)
	}
	if batches != 3 {
		t.Errorf("expected 3 batches, got %d", batches)
	}
}

func TestStream_CallbackErrorStops(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := NewStore(db)
	user := testutil.CreateTestUser(t, db)
	for i := 0; i < 4; i++ {
		testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeIncome, "1", "2024-01-05", "Salary")
	}

	stop := errors.New("stop")
	calls := 0
	err := store.Stream(context.Background(), user.ID, Query{}, 2, func([]models.Transaction) error {
		calls++
		return stop
	})
	if !errors.Is(err, stop) {
		t.Fatalf("expected callback error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestFind_ClosedStoreIsUnavailable(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := NewStore(db)
	user := testutil.CreateTestUser(t, db)
	testutil.TeardownTestDB(t, db)

	_, err := store.Find(context.Background(), user.ID, Query{})
	if !errors.Is(err, apperrors.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestSortOrder(t *testing.T) {
	tests := []struct {
		field string
		want  string
	}{
		{"", OrderDateDesc},
		{"date", OrderDateDesc},
		{"amount", "amount ASC, id ASC"},
		{"description", "description ASC, id ASC"},
	}
	for _, tt := range tests {
		got, err := SortOrder(tt.field)
		testutil.AssertNoError(t, err)
		if got != tt.want {
			t.Errorf("SortOrder(%q) = %q, want %q", tt.field, got, tt.want)
		}
	}

	_, err := SortOrder("owner_id; DROP TABLE users")
	testutil.AssertAppError(t, err, "INVALID_SORT_FIELD")
}

func TestFind_LargestFirstWithLimit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := NewStore(db)
	user := testutil.CreateTestUser(t, db)

	testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, "5", "2024-01-01", "A")
	testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeIncome, "50", "2024-01-02", "B")
	testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, "20", "2024-01-03", "C")

	txs, err := store.Find(context.Background(), user.ID, Query{Order: OrderLargest, Limit: 2})
	testutil.AssertNoError(t, err)
	if len(txs) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(txs))
	}
	if txs[0].Category != "B" || txs[1].Category != "C" {
		t.Errorf("unexpected order: %s, %s", txs[0].Category, txs[1].Category)
	}
}
