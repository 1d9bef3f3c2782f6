// Package metricx declares the prometheus collectors shared by the sync
// core. Collectors are registered on the default registry; exposing them is
// up to the embedding application.
package metricx

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Online is 1 while the backend is considered reachable and healthy.
	Online = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "furnboard_online",
		Help: "Whether the backend is currently considered online (1) or offline (0)",
	})

	// ProbeTotal counts health probes by result: ok, network_error, degraded.
	ProbeTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "furnboard_probe_total",
		Help: "Total health probes issued",
	}, []string{"result"})

	// QueueDepth tracks the number of pending offline mutations.
	QueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "furnboard_queue_depth",
		Help: "Pending mutations awaiting replay",
	})

	// SyncItemsTotal counts replayed queue items by action and result.
	SyncItemsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "furnboard_sync_items_total",
		Help: "Queue items replayed against the backend",
	}, []string{"action", "result"})

	// ReconcileDeletedTotal counts local records purged as stale.
	ReconcileDeletedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "furnboard_reconcile_deleted_total",
		Help: "Local mirror records deleted during reconciliation",
	}, []string{"entity"})
)
