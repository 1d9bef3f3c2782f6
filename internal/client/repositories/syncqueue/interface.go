// Package syncqueue stores the pending-mutation queue that is drained
// against the backend when connectivity returns.
package syncqueue

import (
	"context"

	"github.com/mkhitrov/furnboard/internal/client/models"
)

// Repository is the durable FIFO queue of offline mutations.
type Repository interface {
	// Add appends the item and returns its queue-local id.
	Add(ctx context.Context, item *models.QueueItem) (int64, error)

	// GetAll returns every pending item in insertion order.
	GetAll(ctx context.Context) ([]*models.QueueItem, error)

	// Delete removes one item by queue id.
	Delete(ctx context.Context, id int64) error

	// Count returns the number of pending items.
	Count(ctx context.Context) (int64, error)

	// PendingIDs returns the set of entity ids referenced by pending items
	// of the given kind. These ids are protected from stale deletion during
	// reconciliation.
	PendingIDs(ctx context.Context, kind models.Kind) (map[string]struct{}, error)
}
