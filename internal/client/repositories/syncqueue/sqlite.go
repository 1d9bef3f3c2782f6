package syncqueue

import (
	"context"
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

func (r *SQLiteRepository) Add(ctx context.Context, item *models.QueueItem) (int64, error) {
	query := `INSERT INTO sync_queue (entity, action, payload, enqueued_at) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		string(item.Kind), string(item.Action), []byte(item.Payload), dbx.Millis(item.EnqueuedAt))
	if err != nil {
		return 0, fmt.Errorf("failed to enqueue mutation: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read queue id: %w", err)
	}
	item.ID = id
	return id, nil
}

// GetAll returns the queue in insertion order. The AUTOINCREMENT id is the
// FIFO order: rowids are never reused, so ordering survives deletions.
func (r *SQLiteRepository) GetAll(ctx context.Context) ([]*models.QueueItem, error) {
	query := `SELECT id, entity, action, payload, enqueued_at FROM sync_queue ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select queue: %w", err)
	}
	defer rows.Close()

	var result []*models.QueueItem
	for rows.Next() {
		var item models.QueueItem
		var kind, action string
		var enqueued int64
		if err := rows.Scan(&item.ID, &kind, &action, (*[]byte)(&item.Payload), &enqueued); err != nil {
			return nil, err
		}
		item.Kind = models.Kind(kind)
		item.Action = models.Action(action)
		item.EnqueuedAt = dbx.FromMillis(enqueued)
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sync_queue WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete queue item: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sync_queue`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count queue: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) PendingIDs(ctx context.Context, kind models.Kind) (map[string]struct{}, error) {
	items, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	ids := make(map[string]struct{})
	for _, item := range items {
		if item.Kind != kind {
			continue
		}
		rec, err := item.Decode()
		if err != nil {
			return nil, err
		}
		ids[rec.EntityID()] = struct{}{}
	}
	return ids, nil
}
