// Package notifications stores the read-only local mirror of server
// notifications. Notifications are never mutated offline.
package notifications

import (
	"context"

	"github.com/mkhitrov/furnboard/internal/client/models"
)

type Repository interface {
	Upsert(ctx context.Context, n *models.Notification) error
	BulkUpsert(ctx context.Context, recs []*models.Notification) error
	GetAll(ctx context.Context) ([]*models.Notification, error)
	MarkRead(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}
