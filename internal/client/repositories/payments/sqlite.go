package payments

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

const selectColumns = `id, order_id, client_id, amount_cents, method, paid_at, is_offline, created_at, updated_at`

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Upsert(ctx context.Context, p *models.Payment) error {
	query := `INSERT INTO payments (id, order_id, client_id, amount_cents, method, paid_at, is_offline, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET order_id = excluded.order_id,
				client_id = excluded.client_id,
				amount_cents = excluded.amount_cents,
				method = excluded.method,
				paid_at = excluded.paid_at,
				is_offline = excluded.is_offline,
				created_at = excluded.created_at,
				updated_at = excluded.updated_at
	`
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.OrderID, p.ClientID, p.AmountCents, p.Method,
		dbx.Millis(p.PaidAt), p.IsOffline, dbx.Millis(p.CreatedAt), dbx.Millis(p.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to upsert payment: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) BulkUpsert(ctx context.Context, recs []*models.Payment) error {
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

func (r *SQLiteRepository) bulkUpsert(ctx context.Context, recs []*models.Payment) error {
	for _, p := range recs {
		if err := r.Upsert(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Payment, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM payments WHERE id = ?`, id)

	p, err := scanPayment(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select payment: %w", err)
	}
	return p, nil
}

// GetAll lists all mirrored payments, most recent first.
func (r *SQLiteRepository) GetAll(ctx context.Context) ([]*models.Payment, error) {
	return r.list(ctx, `SELECT `+selectColumns+` FROM payments ORDER BY paid_at DESC, id`)
}

// GetByOrderID lists payments recorded against one order.
func (r *SQLiteRepository) GetByOrderID(ctx context.Context, orderID string) ([]*models.Payment, error) {
	return r.list(ctx, `SELECT `+selectColumns+` FROM payments WHERE order_id = ? ORDER BY paid_at DESC, id`, orderID)
}

func (r *SQLiteRepository) list(ctx context.Context, query string, args ...any) ([]*models.Payment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select payments: %w", err)
	}
	defer rows.Close()

	var result []*models.Payment
	for rows.Next() {
		p, err := scanPayment(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM payments WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete payment: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) BulkDelete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	query := fmt.Sprintf(`DELETE FROM payments WHERE id IN (%s)`, placeholders)
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to bulk delete payments: %w", err)
	}
	return nil
}

func scanPayment(scan func(dest ...any) error) (*models.Payment, error) {
	var p models.Payment
	var paid, created, updated int64
	if err := scan(&p.ID, &p.OrderID, &p.ClientID, &p.AmountCents, &p.Method,
		&paid, &p.IsOffline, &created, &updated); err != nil {
		return nil, err
	}
	p.PaidAt = dbx.FromMillis(paid)
	p.CreatedAt = dbx.FromMillis(created)
	p.UpdatedAt = dbx.FromMillis(updated)
	return &p, nil
}
