package orders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mkhitrov/furnboard/internal/client/models"
	"github.com/mkhitrov/furnboard/internal/common"
	"github.com/mkhitrov/furnboard/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Upsert inserts or overwrites an order by id.
func (r *SQLiteRepository) Upsert(ctx context.Context, o *models.Order) error {
	query := `INSERT INTO orders (id, client_id, status, description, total_cents, due_date, is_offline, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET client_id = excluded.client_id,
				status = excluded.status,
				description = excluded.description,
				total_cents = excluded.total_cents,
				due_date = excluded.due_date,
				is_offline = excluded.is_offline,
				created_at = excluded.created_at,
				updated_at = excluded.updated_at
	`
	_, err := r.db.ExecContext(ctx, query,
		o.ID, o.ClientID, o.Status, o.Description, o.TotalCents,
		dbx.Millis(o.DueDate), o.IsOffline, dbx.Millis(o.CreatedAt), dbx.Millis(o.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to upsert order: %w", err)
	}
	return nil
}

// BulkUpsert upserts every record, atomically when bound to a plain
// connection. Used after revalidation.
func (r *SQLiteRepository) BulkUpsert(ctx context.Context, recs []*models.Order) error {
	if len(recs) == 0 {
		return nil
	}
	if db, ok := r.db.(*sql.DB); ok {
		return dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
			return NewSQLiteRepository(tx).bulkUpsert(ctx, recs)
		})
	}
	return r.bulkUpsert(ctx, recs)
}

func (r *SQLiteRepository) bulkUpsert(ctx context.Context, recs []*models.Order) error {
	for _, o := range recs {
		if err := r.Upsert(ctx, o); err != nil {
			return err
		}
	}
	return nil
}

// GetByID returns one order or common.ErrNotFound.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	query := `SELECT id, client_id, status, description, total_cents, due_date, is_offline, created_at, updated_at
			FROM orders WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	o, err := scanOrder(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select order: %w", err)
	}
	return o, nil
}

// GetAll lists all mirrored orders, newest first.
func (r *SQLiteRepository) GetAll(ctx context.Context) ([]*models.Order, error) {
	query := `SELECT id, client_id, status, description, total_cents, due_date, is_offline, created_at, updated_at
			FROM orders ORDER BY created_at DESC, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select orders: %w", err)
	}
	defer rows.Close()

	var result []*models.Order
	for rows.Next() {
		o, err := scanOrder(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Delete removes one order. Deleting a missing id is not an error.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	return nil
}

// BulkDelete removes every listed id in a single statement.
func (r *SQLiteRepository) BulkDelete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	query := fmt.Sprintf(`DELETE FROM orders WHERE id IN (%s)`, placeholders)
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to bulk delete orders: %w", err)
	}
	return nil
}

func scanOrder(scan func(dest ...any) error) (*models.Order, error) {
	var o models.Order
	var due, created, updated int64
	if err := scan(&o.ID, &o.ClientID, &o.Status, &o.Description, &o.TotalCents,
		&due, &o.IsOffline, &created, &updated); err != nil {
		return nil, err
	}
	o.DueDate = dbx.FromMillis(due)
	o.CreatedAt = dbx.FromMillis(created)
	o.UpdatedAt = dbx.FromMillis(updated)
	return &o, nil
}
