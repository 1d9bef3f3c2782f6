// Package payments stores the local mirror of payment records.
package payments

import (
	"context"

	"github.com/mkhitrov/furnboard/internal/client/models"
)

// Repository is the durable payment mirror.
type Repository interface {
	Upsert(ctx context.Context, p *models.Payment) error
	BulkUpsert(ctx context.Context, recs []*models.Payment) error
	GetByID(ctx context.Context, id string) (*models.Payment, error)
	GetAll(ctx context.Context) ([]*models.Payment, error)
	GetByOrderID(ctx context.Context, orderID string) ([]*models.Payment, error)
	Delete(ctx context.Context, id string) error
	BulkDelete(ctx context.Context, ids []string) error
}
