// Package services composes the local mirror, the pending queue and the
// backend API into the offline-first sync core: per-kind entity façades,
// the queue-drain engine and the reconciliation sweep.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/mkhitrov/furnboard/internal/client/models"
	"github.com/mkhitrov/furnboard/internal/common"
	"github.com/mkhitrov/furnboard/internal/logging"
	"github.com/mkhitrov/furnboard/internal/metricx"
)

// Store is the mirror repository contract the façade and engines consume.
// The per-kind sqlite repositories satisfy it structurally.
type Store[T models.Entity] interface {
	Upsert(ctx context.Context, rec T) error
	BulkUpsert(ctx context.Context, recs []T) error
	GetByID(ctx context.Context, id string) (T, error)
	GetAll(ctx context.Context) ([]T, error)
	Delete(ctx context.Context, id string) error
	BulkDelete(ctx context.Context, ids []string) error
}

// CollectionAPI is the backend surface for one entity kind.
type CollectionAPI[T models.Entity] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, rec T) (T, error)
	Update(ctx context.Context, rec T) (T, error)
	Delete(ctx context.Context, id string) error
}

// Queue is the pending-mutation queue contract.
type Queue interface {
	Add(ctx context.Context, item *models.QueueItem) (int64, error)
	GetAll(ctx context.Context) ([]*models.QueueItem, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
	PendingIDs(ctx context.Context, kind models.Kind) (map[string]struct{}, error)
}

// EntityService is the single integration point the UI layer uses for one
// entity kind: local-first reads, background revalidation, and
// write-through-or-queue mutations.
type EntityService[T models.Entity] struct {
	kind   models.Kind
	store  Store[T]
	api    CollectionAPI[T]
	queue  Queue
	online func() bool
	log    logging.Logger
	now    func() time.Time
}

func NewEntityService[T models.Entity](kind models.Kind, store Store[T], api CollectionAPI[T], queue Queue, online func() bool, log logging.Logger) *EntityService[T] {
	return &EntityService[T]{
		kind:   kind,
		store:  store,
		api:    api,
		queue:  queue,
		online: online,
		log:    log,
		now:    time.Now,
	}
}

// Read returns the current local view. Never touches the network.
func (s *EntityService[T]) Read(ctx context.Context) ([]T, error) {
	return s.store.GetAll(ctx)
}

// Revalidate refreshes the mirror from the authoritative server list and
// drops records the server no longer has that are not awaiting upload.
// No-op while offline.
func (s *EntityService[T]) Revalidate(ctx context.Context) error {
	if !s.online() {
		return nil
	}

	recs, err := s.api.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to revalidate %s: %w", s.kind, err)
	}

	protected, err := s.protectedIDs(ctx)
	if err != nil {
		return err
	}

	// Records awaiting upload keep their optimistic state: mirroring the
	// server's copy over them would lose the pending write, and a queued
	// DELETE would be resurrected.
	mirror := make([]T, 0, len(recs))
	for _, rec := range recs {
		if _, ok := protected[rec.EntityID()]; ok {
			continue
		}
		rec.MarkPending(false)
		mirror = append(mirror, rec)
	}
	if err := s.store.BulkUpsert(ctx, mirror); err != nil {
		return fmt.Errorf("failed to mirror %s: %w", s.kind, err)
	}

	return s.dropStale(ctx, recs, protected)
}

// protectedIDs is the set of ids server data must not disturb: ids
// referenced by the pending queue plus local rows flagged as optimistic
// writes.
func (s *EntityService[T]) protectedIDs(ctx context.Context) (map[string]struct{}, error) {
	ids, err := s.queue.PendingIDs(ctx, s.kind)
	if err != nil {
		return nil, fmt.Errorf("failed to read protected ids: %w", err)
	}
	locals, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, rec := range locals {
		if rec.Pending() {
			ids[rec.EntityID()] = struct{}{}
		}
	}
	return ids, nil
}

// dropStale applies "server wins except pending": any local record missing
// from the server set, not referenced by the queue and not flagged as an
// optimistic write is presumed deleted server-side.
func (s *EntityService[T]) dropStale(ctx context.Context, serverRecs []T, protected map[string]struct{}) error {
	serverIDs := make(map[string]struct{}, len(serverRecs))
	for _, rec := range serverRecs {
		serverIDs[rec.EntityID()] = struct{}{}
	}

	locals, err := s.store.GetAll(ctx)
	if err != nil {
		return err
	}

	var stale []string
	for _, rec := range locals {
		id := rec.EntityID()
		if _, ok := serverIDs[id]; ok {
			continue
		}
		if _, ok := protected[id]; ok {
			continue
		}
		if rec.Pending() {
			continue
		}
		stale = append(stale, id)
	}
	if len(stale) == 0 {
		return nil
	}

	metricx.ReconcileDeletedTotal.WithLabelValues(string(s.kind)).Add(float64(len(stale)))
	return s.store.BulkDelete(ctx, stale)
}

// PerformAction applies the mutation optimistically to the local store,
// then either writes through to the backend or queues it for replay. The
// caller always receives a usable record: a network failure is converted
// into a queued offline mutation, never propagated.
func (s *EntityService[T]) PerformAction(ctx context.Context, action models.Action, rec T) (T, error) {
	var zero T
	now := s.now().UTC()

	if rec.EntityID() == "" {
		rec.SetEntityID(models.NewTempID())
	}

	switch action {
	case models.ActionCreate, models.ActionUpdate:
		rec.MarkPending(true)
		rec.Touch(now)
		if err := s.store.Upsert(ctx, rec); err != nil {
			return zero, fmt.Errorf("failed to write optimistic %s: %w", s.kind, err)
		}
	case models.ActionDelete:
		if err := s.store.Delete(ctx, rec.EntityID()); err != nil {
			return zero, fmt.Errorf("failed to delete local %s: %w", s.kind, err)
		}
	default:
		return zero, fmt.Errorf("%w: %q", common.ErrUnknownAction, action)
	}

	if s.online() {
		out, err := s.attempt(ctx, action, rec)
		if err == nil {
			return out, nil
		}
		s.log.Warn(ctx, "online write failed, queueing mutation",
			"entity", s.kind, "action", action, "error", err)
	}

	item, err := models.NewQueueItem(action, rec)
	if err != nil {
		return zero, err
	}
	if _, err := s.queue.Add(ctx, item); err != nil {
		return zero, fmt.Errorf("failed to enqueue %s mutation: %w", s.kind, err)
	}
	updateQueueDepth(ctx, s.queue)

	return rec, nil
}

// attempt performs the synchronous network write while believed online.
func (s *EntityService[T]) attempt(ctx context.Context, action models.Action, rec T) (T, error) {
	var zero T

	switch action {
	case models.ActionCreate:
		out, err := s.api.Create(ctx, rec)
		if err != nil {
			return zero, err
		}
		if out.EntityID() != rec.EntityID() {
			if err := s.store.Delete(ctx, rec.EntityID()); err != nil {
				return zero, err
			}
		}
		out.MarkPending(false)
		if err := s.store.Upsert(ctx, out); err != nil {
			return zero, err
		}
		return out, nil

	case models.ActionUpdate:
		out, err := s.api.Update(ctx, rec)
		if err != nil {
			return zero, err
		}
		out.MarkPending(false)
		if err := s.store.Upsert(ctx, out); err != nil {
			return zero, err
		}
		return out, nil

	default: // models.ActionDelete
		if err := s.api.Delete(ctx, rec.EntityID()); err != nil {
			return zero, err
		}
		return rec, nil
	}
}

func updateQueueDepth(ctx context.Context, q Queue) {
	if n, err := q.Count(ctx); err == nil {
		metricx.QueueDepth.Set(float64(n))
	}
}
