// Package stock stores the local mirror of inventory records.
package stock

import (
	"context"

	"github.com/mkhitrov/furnboard/internal/client/models"
)

// Repository is the durable stock mirror.
type Repository interface {
	Upsert(ctx context.Context, s *models.StockItem) error
	BulkUpsert(ctx context.Context, recs []*models.StockItem) error
	GetByID(ctx context.Context, id string) (*models.StockItem, error)
	GetAll(ctx context.Context) ([]*models.StockItem, error)
	Delete(ctx context.Context, id string) error
	BulkDelete(ctx context.Context, ids []string) error
}
