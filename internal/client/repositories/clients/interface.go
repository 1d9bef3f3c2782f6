// Package clients stores the local mirror of customer records.
package clients

import (
	"context"

	"github.com/mkhitrov/furnboard/internal/client/models"
)

// Repository is the durable client mirror.
type Repository interface {
	Upsert(ctx context.Context, c *models.Client) error
	BulkUpsert(ctx context.Context, recs []*models.Client) error
	GetByID(ctx context.Context, id string) (*models.Client, error)
	GetAll(ctx context.Context) ([]*models.Client, error)
	Delete(ctx context.Context, id string) error
	BulkDelete(ctx context.Context, ids []string) error
}
