package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syllogic-ai/personal-finance-app/internal/common"
	"github.com/syllogic-ai/personal-finance-app/internal/model"
)

// Helper function to create a migrated test storage.
func createTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)

	require.NoError(t, store.Migrate(context.Background()))

	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testTxn(id string, dayOffset int, amount float64) model.Transaction {
	txn := model.Transaction{
		ID:          id,
		Description: "Netflix Subscription " + id,
		Merchant:    "Netflix",
		Amount:      amount,
		Currency:    "EUR",
		AccountID:   "acc-1",
		BookedAt:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, dayOffset),
	}
	txn.Hash = txn.GenerateHash()
	return txn
}

func TestSQLiteStorage_MigrateIsIdempotent(t *testing.T) {
	store := createTestStorage(t)
	require.NoError(t, store.Migrate(context.Background()))
}

func TestSQLiteStorage_SaveTransactions(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	txns := []model.Transaction{
		testTxn("t1", 0, -15.99),
		testTxn("t2", 30, -15.99),
		testTxn("t3", 60, -15.99),
	}

	inserted, err := store.SaveTransactions(ctx, txns)
	require.NoError(t, err)
	assert.Equal(t, 3, inserted)

	// Re-importing the same file is a no-op.
	inserted, err = store.SaveTransactions(ctx, txns)
	require.NoError(t, err)
	assert.Equal(t, 0, inserted)

	got, err := store.GetTransactionByID(ctx, "t2")
	require.NoError(t, err)
	assert.Equal(t, "Netflix Subscription t2", got.Description)
	assert.Equal(t, "Netflix", got.Merchant)
	assert.InDelta(t, -15.99, got.Amount, 0.001)
	assert.Equal(t, "acc-1", got.AccountID)
	assert.Empty(t, got.SeriesID)
}

func TestSQLiteStorage_SaveTransactionsValidation(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	_, err := store.SaveTransactions(ctx, []model.Transaction{})
	assert.Error(t, err)

	missingID := testTxn("", 0, -1)
	missingID.ID = ""
	_, err = store.SaveTransactions(ctx, []model.Transaction{missingID})
	assert.ErrorIs(t, err, ErrInvalidTransaction)
}

func TestSQLiteStorage_GetTransactionByIDNotFound(t *testing.T) {
	store := createTestStorage(t)

	_, err := store.GetTransactionByID(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSQLiteStorage_GetUnlinkedExpenses(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	linked := testTxn("linked", 50, -20)
	linked.SeriesID = "series-1"
	income := testTxn("income", 55, 2500)
	old := testTxn("old", -400, -9.99)

	txns := []model.Transaction{
		testTxn("t2", 30, -15.99),
		testTxn("t1", 0, -15.99),
		linked,
		income,
		old,
	}
	_, err := store.SaveTransactions(ctx, txns)
	require.NoError(t, err)

	since := time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)
	got, err := store.GetUnlinkedExpenses(ctx, since)
	require.NoError(t, err)

	require.Len(t, got, 2)
	// Ordered by booking date ascending.
	assert.Equal(t, "t1", got[0].ID)
	assert.Equal(t, "t2", got[1].ID)
}

func TestSQLiteStorage_LinkTransactions(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	_, err := store.SaveTransactions(ctx, []model.Transaction{
		testTxn("t1", 0, -15.99),
		testTxn("t2", 30, -15.99),
		testTxn("t3", 60, -15.99),
	})
	require.NoError(t, err)

	require.NoError(t, store.LinkTransactions(ctx, []string{"t1", "t2"}, "series-1"))

	bySeries, err := store.GetTransactionsBySeries(ctx, "series-1")
	require.NoError(t, err)
	require.Len(t, bySeries, 2)
	assert.Equal(t, "t1", bySeries[0].ID)
	assert.Equal(t, "t2", bySeries[1].ID)

	// Linked transactions no longer show up as unlinked.
	unlinked, err := store.GetUnlinkedExpenses(ctx, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, unlinked, 1)
	assert.Equal(t, "t3", unlinked[0].ID)

	// Linking no transactions is a no-op.
	require.NoError(t, store.LinkTransactions(ctx, nil, "series-1"))
}

func TestSQLiteStorage_LinkManyTransactions(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	var txns []model.Transaction
	var ids []string
	for i := 0; i < 25; i++ {
		id := fmt.Sprintf("t%02d", i)
		txns = append(txns, testTxn(id, i, -5))
		ids = append(ids, id)
	}
	_, err := store.SaveTransactions(ctx, txns)
	require.NoError(t, err)

	require.NoError(t, store.LinkTransactions(ctx, ids, "series-1"))

	bySeries, err := store.GetTransactionsBySeries(ctx, "series-1")
	require.NoError(t, err)
	assert.Len(t, bySeries, 25)
}
