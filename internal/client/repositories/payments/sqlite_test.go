package payments

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkhitrov/furnboard/internal/client/models"
	"github.com/mkhitrov/furnboard/internal/common"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE payments (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL DEFAULT '',
  client_id TEXT NOT NULL DEFAULT '',
  amount_cents INTEGER NOT NULL DEFAULT 0,
  method TEXT NOT NULL DEFAULT '',
  paid_at INTEGER NOT NULL DEFAULT 0,
  is_offline INTEGER NOT NULL DEFAULT 0,
  created_at INTEGER NOT NULL DEFAULT 0,
  updated_at INTEGER NOT NULL DEFAULT 0
);
`)
	require.NoError(t, err)
	return db
}

func TestUpsertAndGet(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	p := &models.Payment{
		ID: "p1", OrderID: "o1", ClientID: "c1",
		AmountCents: 50000, Method: "cash",
		PaidAt: time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, r.Upsert(ctx, p))

	got, err := r.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestGetByOrderID(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.BulkUpsert(ctx, []*models.Payment{
		{ID: "p1", OrderID: "o1"},
		{ID: "p2", OrderID: "o2"},
		{ID: "p3", OrderID: "o1"},
	}))

	byOrder, err := r.GetByOrderID(ctx, "o1")
	require.NoError(t, err)
	require.Len(t, byOrder, 2)
	for _, p := range byOrder {
		assert.Equal(t, "o1", p.OrderID)
	}
}

func TestDeleteAndBulkDelete(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.BulkUpsert(ctx, []*models.Payment{
		{ID: "p1"}, {ID: "p2"}, {ID: "p3"},
	}))

	require.NoError(t, r.Delete(ctx, "p2"))
	require.NoError(t, r.BulkDelete(ctx, []string{"p1", "p3"}))

	all, err := r.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	_, err = r.GetByID(ctx, "p1")
	assert.ErrorIs(t, err, common.ErrNotFound)
}
