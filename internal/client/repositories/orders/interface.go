// Package orders stores the local mirror of order records.
package orders

import (
	"context"

	"github.com/mkhitrov/furnboard/internal/client/models"
)

// Repository is the durable order mirror. All operations are individually
// atomic; no cross-call transactional guarantees are made.
type Repository interface {
	Upsert(ctx context.Context, o *models.Order) error
	BulkUpsert(ctx context.Context, recs []*models.Order) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	GetAll(ctx context.Context) ([]*models.Order, error)
	Delete(ctx context.Context, id string) error
	BulkDelete(ctx context.Context, ids []string) error
}
