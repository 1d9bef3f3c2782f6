package notifications

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mkhitrov/furnboard/internal/client/models"
	"github.com/mkhitrov/furnboard/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Upsert(ctx context.Context, n *models.Notification) error {
	query := `INSERT INTO notifications (id, title, body, read, created_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET title = excluded.title,
				body = excluded.body,
				read = excluded.read,
				created_at = excluded.created_at
	`
	_, err := r.db.ExecContext(ctx, query,
		n.ID, n.Title, n.Body, n.Read, dbx.Millis(n.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to upsert notification: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) BulkUpsert(ctx context.Context, recs []*models.Notification) error {
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

func (r *SQLiteRepository) bulkUpsert(ctx context.Context, recs []*models.Notification) error {
	for _, n := range recs {
		if err := r.Upsert(ctx, n); err != nil {
			return err
		}
	}
	return nil
}

// GetAll lists notifications, newest first.
func (r *SQLiteRepository) GetAll(ctx context.Context) ([]*models.Notification, error) {
	query := `SELECT id, title, body, read, created_at FROM notifications ORDER BY created_at DESC, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select notifications: %w", err)
	}
	defer rows.Close()

	var result []*models.Notification
	for rows.Next() {
		var n models.Notification
		var created int64
		if err := rows.Scan(&n.ID, &n.Title, &n.Body, &n.Read, &created); err != nil {
			return nil, err
		}
		n.CreatedAt = dbx.FromMillis(created)
		result = append(result, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) MarkRead(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE notifications SET read = 1 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	return nil
}
