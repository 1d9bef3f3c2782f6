package services

import (
	"context"
	"fmt"

	"github.com/mkhitrov/furnboard/internal/client/models"
	"github.com/mkhitrov/furnboard/internal/common"
	"github.com/mkhitrov/furnboard/internal/logging"
	"github.com/mkhitrov/furnboard/internal/metricx"
)

// ReconcileService cross-checks every local mirror against the server's
// authoritative sets after a drain, purging records the server has deleted
// that are not protected by a pending write.
type ReconcileService struct {
	reg   *Registry
	queue Queue
	log   logging.Logger
}

func NewReconcileService(reg *Registry, queue Queue, log logging.Logger) *ReconcileService {
	return &ReconcileService{reg: reg, queue: queue, log: log}
}

// Sweep reconciles every mutable kind. A fetch failure for one kind is
// logged and skipped so one endpoint's outage doesn't block the others.
func (r *ReconcileService) Sweep(ctx context.Context) {
	for _, kind := range models.MutableKinds {
		if err := r.sweepKind(ctx, kind); err != nil {
			r.log.Warn(ctx, "reconciliation skipped", "entity", kind, "error", err)
		}
	}
}

func (r *ReconcileService) sweepKind(ctx context.Context, kind models.Kind) error {
	ops, ok := r.reg.lookup(kind)
	if !ok {
		return fmt.Errorf("%w: %q", common.ErrUnknownEntityKind, kind)
	}

	serverRecs, err := ops.listRemote(ctx)
	if err != nil {
		return err
	}

	// A fresh queue snapshot per kind: items enqueued during the sweep are
	// still protected. Rows flagged as optimistic writes are protected too,
	// so server data cannot clobber a pending mutation or resurrect a
	// queued offline delete.
	protected, err := r.queue.PendingIDs(ctx, kind)
	if err != nil {
		return err
	}

	locals, err := ops.getAll(ctx)
	if err != nil {
		return err
	}
	for _, rec := range locals {
		if rec.Pending() {
			protected[rec.EntityID()] = struct{}{}
		}
	}

	mirror := make([]models.Entity, 0, len(serverRecs))
	for _, rec := range serverRecs {
		if _, ok := protected[rec.EntityID()]; ok {
			continue
		}
		rec.MarkPending(false)
		mirror = append(mirror, rec)
	}
	if err := ops.bulkUpsert(ctx, mirror); err != nil {
		return err
	}

	serverIDs := make(map[string]struct{}, len(serverRecs))
	for _, rec := range serverRecs {
		serverIDs[rec.EntityID()] = struct{}{}
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

	r.log.Info(ctx, "purging stale records", "entity", kind, "count", len(stale))
	metricx.ReconcileDeletedTotal.WithLabelValues(string(kind)).Add(float64(len(stale)))
	return ops.bulkDelete(ctx, stale)
}
