package services

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/mkhitrov/furnboard/internal/bus"
	"github.com/mkhitrov/furnboard/internal/client/models"
	"github.com/mkhitrov/furnboard/internal/common"
	"github.com/mkhitrov/furnboard/internal/logging"
	"github.com/mkhitrov/furnboard/internal/metricx"
)

// EventSyncComplete is published on the "sync" room once the queue fully
// empties.
const (
	RoomSync          = "sync"
	EventSyncComplete = "sync.complete"
)

// SyncService drains the pending-mutation queue against the backend in
// insertion order, resolving temporary-id references across items.
type SyncService struct {
	queue Queue
	reg   *Registry
	pub   bus.Publisher
	log   logging.Logger

	draining atomic.Bool
}

func NewSyncService(queue Queue, reg *Registry, pub bus.Publisher, log logging.Logger) *SyncService {
	return &SyncService{queue: queue, reg: reg, pub: pub, log: log}
}

// Drain replays the queue snapshot FIFO. The first failing item stops the
// pass: later items may reference identifiers only the failing item (or an
// item before it) resolves, so skipping ahead would break ordering. The
// whole queue is retried from the head on the next trigger.
//
// Single-flight: overlapping calls (e.g. from a connectivity flap) return
// immediately while a drain is in progress.
func (s *SyncService) Drain(ctx context.Context) error {
	if !s.draining.CompareAndSwap(false, true) {
		s.log.Debug(ctx, "drain already in progress")
		return nil
	}
	defer s.draining.Store(false)

	items, err := s.queue.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to snapshot queue: %w", err)
	}
	if len(items) == 0 {
		return nil
	}

	s.log.Info(ctx, "draining pending queue", "items", len(items))
	idmap := make(map[string]string)

	for _, item := range items {
		if err := s.replay(ctx, item, idmap); err != nil {
			metricx.SyncItemsTotal.WithLabelValues(string(item.Action), "error").Inc()
			s.log.Warn(ctx, "queue replay failed, stopping pass",
				"entity", item.Kind, "action", item.Action, "queueId", item.ID, "error", err)
			updateQueueDepth(ctx, s.queue)
			return fmt.Errorf("replay of %s %s (queue id %d): %w", item.Action, item.Kind, item.ID, err)
		}
		metricx.SyncItemsTotal.WithLabelValues(string(item.Action), "ok").Inc()

		if err := s.queue.Delete(ctx, item.ID); err != nil {
			return fmt.Errorf("failed to dequeue item %d: %w", item.ID, err)
		}
	}

	updateQueueDepth(ctx, s.queue)

	// Mutations enqueued mid-drain keep the queue nonempty; only a fully
	// drained queue announces completion.
	if n, err := s.queue.Count(ctx); err == nil && n == 0 {
		s.log.Info(ctx, "sync complete", "replayed", len(items))
		_ = s.pub.Publish(RoomSync, EventSyncComplete, len(items))
	}
	return nil
}

func (s *SyncService) replay(ctx context.Context, item *models.QueueItem, idmap map[string]string) error {
	ops, ok := s.reg.lookup(item.Kind)
	if !ok {
		return fmt.Errorf("%w: %q", common.ErrUnknownEntityKind, item.Kind)
	}

	rec, err := item.Decode()
	if err != nil {
		return err
	}

	if rec.RemapRefs(idmap) {
		// Patch the referencing record's own mirror row too, so reads stay
		// consistent before the queue fully drains.
		if err := ops.upsert(ctx, rec); err != nil {
			return err
		}
	}

	switch item.Action {
	case models.ActionCreate:
		out, err := ops.createRemote(ctx, rec)
		if err != nil {
			return err
		}
		if tempID := rec.EntityID(); models.IsTempID(tempID) && out.EntityID() != tempID {
			idmap[tempID] = out.EntityID()
			if err := ops.deleteRec(ctx, tempID); err != nil {
				return err
			}
		}
		out.MarkPending(false)
		return ops.upsert(ctx, out)

	case models.ActionUpdate:
		if real, ok := idmap[rec.EntityID()]; ok {
			// Re-identified by an earlier CREATE in this pass.
			if err := ops.deleteRec(ctx, rec.EntityID()); err != nil {
				return err
			}
			rec.SetEntityID(real)
		}
		out, err := ops.updateRemote(ctx, rec)
		if err != nil {
			return err
		}
		out.MarkPending(false)
		return ops.upsert(ctx, out)

	case models.ActionDelete:
		id := rec.EntityID()
		if real, ok := idmap[id]; ok {
			id = real
		}
		if models.IsTempID(id) {
			// The record never reached the server; the local delete at
			// enqueue time already satisfied the mutation.
			return ops.deleteRec(ctx, id)
		}
		if err := ops.removeRemote(ctx, id); err != nil {
			return err
		}
		return ops.deleteRec(ctx, id)

	default:
		return fmt.Errorf("%w: %q", common.ErrUnknownAction, item.Action)
	}
}
