package cli

import (
	"context"

	"github.com/mkhitrov/furnboard/internal/client/connectivity"
)

// watchEvents reacts to bus signals for the life of the session: a
// connectivity recovery or a pending-queue announcement triggers a drain
// followed by a reconciliation sweep and a full mirror refresh.
func (a *App) watchEvents(ctx context.Context) {
	events, cancel := a.events.Subscribe(16)
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			switch ev.Name {
			case connectivity.EventRecovered, connectivity.EventSyncPending:
				a.drainAndReconcile(ctx)
			}
		}
	}
}

func (a *App) drainAndReconcile(ctx context.Context) {
	if err := a.syncer.Drain(ctx); err != nil {
		// The queue keeps its order; the next recovery retries from the head.
		a.log.Warn(ctx, "queue drain stopped", "error", err)
		return
	}
	a.reconciler.Sweep(ctx)
	a.revalidateAll(ctx)
}
