package stock

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

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Upsert(ctx context.Context, s *models.StockItem) error {
	query := `INSERT INTO stock_items (id, name, sku, quantity, unit_price_cents, is_offline, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET name = excluded.name,
				sku = excluded.sku,
				quantity = excluded.quantity,
				unit_price_cents = excluded.unit_price_cents,
				is_offline = excluded.is_offline,
				created_at = excluded.created_at,
				updated_at = excluded.updated_at
	`
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.Name, s.SKU, s.Quantity, s.UnitPriceCents,
		s.IsOffline, dbx.Millis(s.CreatedAt), dbx.Millis(s.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to upsert stock item: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) BulkUpsert(ctx context.Context, recs []*models.StockItem) error {
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

func (r *SQLiteRepository) bulkUpsert(ctx context.Context, recs []*models.StockItem) error {
	for _, s := range recs {
		if err := r.Upsert(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.StockItem, error) {
	query := `SELECT id, name, sku, quantity, unit_price_cents, is_offline, created_at, updated_at
			FROM stock_items WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	s, err := scanStockItem(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select stock item: %w", err)
	}
	return s, nil
}

// GetAll lists the mirror ordered by name for UI listing.
func (r *SQLiteRepository) GetAll(ctx context.Context) ([]*models.StockItem, error) {
	query := `SELECT id, name, sku, quantity, unit_price_cents, is_offline, created_at, updated_at
			FROM stock_items ORDER BY name, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select stock items: %w", err)
	}
	defer rows.Close()

	var result []*models.StockItem
	for rows.Next() {
		s, err := scanStockItem(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM stock_items WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete stock item: %w", err)
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
	query := fmt.Sprintf(`DELETE FROM stock_items WHERE id IN (%s)`, placeholders)
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to bulk delete stock items: %w", err)
	}
	return nil
}

func scanStockItem(scan func(dest ...any) error) (*models.StockItem, error) {
	var s models.StockItem
	var created, updated int64
	if err := scan(&s.ID, &s.Name, &s.SKU, &s.Quantity, &s.UnitPriceCents,
		&s.IsOffline, &created, &updated); err != nil {
		return nil, err
	}
	s.CreatedAt = dbx.FromMillis(created)
	s.UpdatedAt = dbx.FromMillis(updated)
	return &s, nil
}
