package clients

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

func (r *SQLiteRepository) Upsert(ctx context.Context, c *models.Client) error {
	query := `INSERT INTO clients (id, name, phone, email, address, is_offline, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET name = excluded.name,
				phone = excluded.phone,
				email = excluded.email,
				address = excluded.address,
				is_offline = excluded.is_offline,
				created_at = excluded.created_at,
				updated_at = excluded.updated_at
	`
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.Name, c.Phone, c.Email, c.Address,
		c.IsOffline, dbx.Millis(c.CreatedAt), dbx.Millis(c.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to upsert client: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) BulkUpsert(ctx context.Context, recs []*models.Client) error {
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

func (r *SQLiteRepository) bulkUpsert(ctx context.Context, recs []*models.Client) error {
	for _, c := range recs {
		if err := r.Upsert(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Client, error) {
	query := `SELECT id, name, phone, email, address, is_offline, created_at, updated_at
			FROM clients WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	c, err := scanClient(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select client: %w", err)
	}
	return c, nil
}

// GetAll lists the mirror ordered by name.
func (r *SQLiteRepository) GetAll(ctx context.Context) ([]*models.Client, error) {
	query := `SELECT id, name, phone, email, address, is_offline, created_at, updated_at
			FROM clients ORDER BY name, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select clients: %w", err)
	}
	defer rows.Close()

	var result []*models.Client
	for rows.Next() {
		c, err := scanClient(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM clients WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
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
	query := fmt.Sprintf(`DELETE FROM clients WHERE id IN (%s)`, placeholders)
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to bulk delete clients: %w", err)
	}
	return nil
}

func scanClient(scan func(dest ...any) error) (*models.Client, error) {
	var c models.Client
	var created, updated int64
	if err := scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.Address,
		&c.IsOffline, &created, &updated); err != nil {
		return nil, err
	}
	c.CreatedAt = dbx.FromMillis(created)
	c.UpdatedAt = dbx.FromMillis(updated)
	return &c, nil
}
