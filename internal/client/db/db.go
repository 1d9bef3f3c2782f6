// Package db opens the local sqlite store and wires up the repositories.
package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/mkhitrov/furnboard/internal/client/migrations"
	"github.com/mkhitrov/furnboard/internal/client/repositories/clients"
	"github.com/mkhitrov/furnboard/internal/client/repositories/notifications"
	"github.com/mkhitrov/furnboard/internal/client/repositories/orders"
	"github.com/mkhitrov/furnboard/internal/client/repositories/payments"
	"github.com/mkhitrov/furnboard/internal/client/repositories/stock"
	"github.com/mkhitrov/furnboard/internal/client/repositories/syncqueue"
)

// Repositories bundles every local mirror plus the pending queue.
type Repositories struct {
	Orders        orders.Repository
	Stock         stock.Repository
	Payments      payments.Repository
	Clients       clients.Repository
	Notifications notifications.Repository
	Queue         syncqueue.Repository
	DB            *sql.DB
}

// RunMigrations applies the embedded schema migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens (or creates) the sqlite database at dsn, migrates it
// and returns the repository bundle.
func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	// modernc sqlite serializes writes; a single connection avoids
	// SQLITE_BUSY under concurrent access.
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return &Repositories{
		Orders:        orders.NewSQLiteRepository(db),
		Stock:         stock.NewSQLiteRepository(db),
		Payments:      payments.NewSQLiteRepository(db),
		Clients:       clients.NewSQLiteRepository(db),
		Notifications: notifications.NewSQLiteRepository(db),
		Queue:         syncqueue.NewSQLiteRepository(db),
		DB:            db,
	}, nil
}
