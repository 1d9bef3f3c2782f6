package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mkhitrov/furnboard/internal/bus"
	"github.com/mkhitrov/furnboard/internal/client/models"
	"github.com/mkhitrov/furnboard/internal/client/repositories/clients"
	"github.com/mkhitrov/furnboard/internal/client/repositories/orders"
	"github.com/mkhitrov/furnboard/internal/client/repositories/payments"
	"github.com/mkhitrov/furnboard/internal/client/repositories/stock"
	"github.com/mkhitrov/furnboard/internal/client/repositories/syncqueue"
	"github.com/mkhitrov/furnboard/internal/logging"

	_ "modernc.org/sqlite"
)

var errNetwork = errors.New("connection refused")

// fakeAPI is a scriptable CollectionAPI. Unset callbacks fail the test if
// reached.
type fakeAPI[T models.Entity] struct {
	t        *testing.T
	listFn   func(ctx context.Context) ([]T, error)
	createFn func(ctx context.Context, rec T) (T, error)
	updateFn func(ctx context.Context, rec T) (T, error)
	deleteFn func(ctx context.Context, id string) error
}

func (f *fakeAPI[T]) List(ctx context.Context) ([]T, error) {
	if f.listFn == nil {
		f.t.Fatal("unexpected List call")
	}
	return f.listFn(ctx)
}

func (f *fakeAPI[T]) Create(ctx context.Context, rec T) (T, error) {
	if f.createFn == nil {
		f.t.Fatal("unexpected Create call")
	}
	return f.createFn(ctx, rec)
}

func (f *fakeAPI[T]) Update(ctx context.Context, rec T) (T, error) {
	if f.updateFn == nil {
		f.t.Fatal("unexpected Update call")
	}
	return f.updateFn(ctx, rec)
}

func (f *fakeAPI[T]) Delete(ctx context.Context, id string) error {
	if f.deleteFn == nil {
		f.t.Fatal("unexpected Delete call")
	}
	return f.deleteFn(ctx, id)
}

const testSchema = `
CREATE TABLE clients (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL DEFAULT '',
  phone TEXT NOT NULL DEFAULT '',
  email TEXT NOT NULL DEFAULT '',
  address TEXT NOT NULL DEFAULT '',
  is_offline INTEGER NOT NULL DEFAULT 0,
  created_at INTEGER NOT NULL DEFAULT 0,
  updated_at INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE orders (
  id TEXT PRIMARY KEY,
  client_id TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL DEFAULT '',
  description TEXT NOT NULL DEFAULT '',
  total_cents INTEGER NOT NULL DEFAULT 0,
  due_date INTEGER NOT NULL DEFAULT 0,
  is_offline INTEGER NOT NULL DEFAULT 0,
  created_at INTEGER NOT NULL DEFAULT 0,
  updated_at INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE stock_items (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL DEFAULT '',
  sku TEXT NOT NULL DEFAULT '',
  quantity INTEGER NOT NULL DEFAULT 0,
  unit_price_cents INTEGER NOT NULL DEFAULT 0,
  is_offline INTEGER NOT NULL DEFAULT 0,
  created_at INTEGER NOT NULL DEFAULT 0,
  updated_at INTEGER NOT NULL DEFAULT 0
);
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
CREATE TABLE sync_queue (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  entity TEXT NOT NULL,
  action TEXT NOT NULL,
  payload BLOB NOT NULL,
  enqueued_at INTEGER NOT NULL
);
`

// env is the shared test fixture: real sqlite mirrors and queue, fake APIs.
type env struct {
	db       *sql.DB
	orders   *orders.SQLiteRepository
	stock    *stock.SQLiteRepository
	payments *payments.SQLiteRepository
	clients  *clients.SQLiteRepository
	queue    *syncqueue.SQLiteRepository

	ordersAPI   *fakeAPI[*models.Order]
	stockAPI    *fakeAPI[*models.StockItem]
	paymentsAPI *fakeAPI[*models.Payment]
	clientsAPI  *fakeAPI[*models.Client]

	bus    *bus.Bus
	online bool
}

func setupEnv(t *testing.T) *env {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(testSchema)
	require.NoError(t, err)

	e := &env{
		db:          db,
		orders:      orders.NewSQLiteRepository(db),
		stock:       stock.NewSQLiteRepository(db),
		payments:    payments.NewSQLiteRepository(db),
		clients:     clients.NewSQLiteRepository(db),
		queue:       syncqueue.NewSQLiteRepository(db),
		ordersAPI:   &fakeAPI[*models.Order]{t: t},
		stockAPI:    &fakeAPI[*models.StockItem]{t: t},
		paymentsAPI: &fakeAPI[*models.Payment]{t: t},
		clientsAPI:  &fakeAPI[*models.Client]{t: t},
		bus:         bus.New(),
		online:      true,
	}
	t.Cleanup(e.bus.Close)
	return e
}

func (e *env) isOnline() bool { return e.online }

func (e *env) registry() *Registry {
	reg := NewRegistry()
	Register[*models.Client](reg, models.KindClient, e.clients, e.clientsAPI)
	Register[*models.Order](reg, models.KindOrder, e.orders, e.ordersAPI)
	Register[*models.StockItem](reg, models.KindStock, e.stock, e.stockAPI)
	Register[*models.Payment](reg, models.KindPayment, e.payments, e.paymentsAPI)
	return reg
}

func (e *env) orderService() *EntityService[*models.Order] {
	return NewEntityService[*models.Order](models.KindOrder, e.orders, e.ordersAPI, e.queue, e.isOnline, logging.NewDiscardLogger())
}

func (e *env) stockService() *EntityService[*models.StockItem] {
	return NewEntityService[*models.StockItem](models.KindStock, e.stock, e.stockAPI, e.queue, e.isOnline, logging.NewDiscardLogger())
}

func (e *env) clientService() *EntityService[*models.Client] {
	return NewEntityService[*models.Client](models.KindClient, e.clients, e.clientsAPI, e.queue, e.isOnline, logging.NewDiscardLogger())
}

func (e *env) syncService() *SyncService {
	return NewSyncService(e.queue, e.registry(), e.bus, logging.NewDiscardLogger())
}

func (e *env) reconcileService() *ReconcileService {
	return NewReconcileService(e.registry(), e.queue, logging.NewDiscardLogger())
}

func (e *env) enqueue(t *testing.T, action models.Action, rec models.Entity) *models.QueueItem {
	t.Helper()
	item, err := models.NewQueueItem(action, rec)
	require.NoError(t, err)
	_, err = e.queue.Add(context.Background(), item)
	require.NoError(t, err)
	return item
}

func (e *env) queueLen(t *testing.T) int64 {
	t.Helper()
	n, err := e.queue.Count(context.Background())
	require.NoError(t, err)
	return n
}
