package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkhitrov/furnboard/internal/client/models"
)

func TestInitDatabase(t *testing.T) {
	ctx := context.Background()

	repos, err := InitDatabase(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.DB.Close() })

	// The migrated schema accepts writes on every table.
	require.NoError(t, repos.Clients.Upsert(ctx, &models.Client{ID: "c-1", Name: "Ana"}))
	require.NoError(t, repos.Orders.Upsert(ctx, &models.Order{ID: "o-1", ClientID: "c-1"}))
	require.NoError(t, repos.Stock.Upsert(ctx, &models.StockItem{ID: "s-1", Quantity: 3}))
	require.NoError(t, repos.Payments.Upsert(ctx, &models.Payment{ID: "p-1", OrderID: "o-1"}))
	require.NoError(t, repos.Notifications.Upsert(ctx, &models.Notification{ID: "n-1", Title: "hi"}))

	item, err := models.NewQueueItem(models.ActionCreate, &models.Client{ID: "c-1"})
	require.NoError(t, err)
	_, err = repos.Queue.Add(ctx, item)
	require.NoError(t, err)

	n, err := repos.Queue.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestRunMigrations_IsIdempotent(t *testing.T) {
	ctx := context.Background()

	repos, err := InitDatabase(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.DB.Close() })

	assert.NoError(t, RunMigrations(ctx, repos.DB))
}
