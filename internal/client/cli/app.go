// Package cli wires the sync core into an interactive terminal client for
// the furniture dashboard.
package cli

import (
	"bufio"
	"context"
	"os"

	"github.com/mkhitrov/furnboard/internal/bus"
	"github.com/mkhitrov/furnboard/internal/client/api"
	"github.com/mkhitrov/furnboard/internal/client/config"
	"github.com/mkhitrov/furnboard/internal/client/connectivity"
	"github.com/mkhitrov/furnboard/internal/client/db"
	"github.com/mkhitrov/furnboard/internal/client/models"
	"github.com/mkhitrov/furnboard/internal/client/realtime"
	"github.com/mkhitrov/furnboard/internal/client/services"
	"github.com/mkhitrov/furnboard/internal/logging"
)

type App struct {
	config *config.Config
	repos  *db.Repositories
	api    *api.Client
	events *bus.Bus

	monitor  *connectivity.Monitor
	listener *realtime.Listener

	orders   *services.EntityService[*models.Order]
	stock    *services.EntityService[*models.StockItem]
	payments *services.EntityService[*models.Payment]
	clients  *services.EntityService[*models.Client]

	syncer     *services.SyncService
	reconciler *services.ReconcileService

	log    logging.Logger
	reader *bufio.Reader
}

func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	repos, err := db.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	apiClient := api.New(c.ServerBaseURL, c.PageSize, log)
	events := bus.New()

	monitor := connectivity.New(apiClient, repos.Queue, events, log, connectivity.Options{
		Interval:     c.ProbeInterval,
		ProbeTimeout: c.ProbeTimeout,
		BackoffMin:   c.OfflineBackoffMin,
		BackoffMax:   c.OfflineBackoffMax,
	})

	reg := services.NewRegistry()
	services.Register[*models.Order](reg, models.KindOrder, repos.Orders, apiClient.Orders())
	services.Register[*models.StockItem](reg, models.KindStock, repos.Stock, apiClient.Inventory())
	services.Register[*models.Payment](reg, models.KindPayment, repos.Payments, apiClient.Payments())
	services.Register[*models.Client](reg, models.KindClient, repos.Clients, apiClient.Clients())

	app := &App{
		config:     c,
		repos:      repos,
		api:        apiClient,
		events:     events,
		monitor:    monitor,
		syncer:     services.NewSyncService(repos.Queue, reg, events, log),
		reconciler: services.NewReconcileService(reg, repos.Queue, log),
		log:        log,
		reader:     bufio.NewReader(os.Stdin),
	}

	app.orders = services.NewEntityService[*models.Order](
		models.KindOrder, repos.Orders, apiClient.Orders(), repos.Queue, monitor.Online, log)
	app.stock = services.NewEntityService[*models.StockItem](
		models.KindStock, repos.Stock, apiClient.Inventory(), repos.Queue, monitor.Online, log)
	app.payments = services.NewEntityService[*models.Payment](
		models.KindPayment, repos.Payments, apiClient.Payments(), repos.Queue, monitor.Online, log)
	app.clients = services.NewEntityService[*models.Client](
		models.KindClient, repos.Clients, apiClient.Clients(), repos.Queue, monitor.Online, log)

	app.listener = realtime.NewListener(
		c.WebsocketURL, repos.Notifications, events, monitor.Check, log)

	return app, nil
}

// Run starts the background loops and hands the terminal to the REPL. It
// returns once the user exits; background goroutines stop with ctx.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer a.events.Close()
	defer a.repos.DB.Close()

	go func() { _ = a.monitor.Run(ctx) }()
	go a.listener.Run(ctx)
	go a.watchEvents(ctx)

	a.revalidateAll(ctx)

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.status, scanner)
	return nil
}

// revalidateAll refreshes every mirror; failures are already logged by the
// services and must not block startup.
func (a *App) revalidateAll(ctx context.Context) {
	if err := a.orders.Revalidate(ctx); err != nil {
		a.log.Warn(ctx, "orders revalidation failed", "error", err)
	}
	if err := a.stock.Revalidate(ctx); err != nil {
		a.log.Warn(ctx, "stock revalidation failed", "error", err)
	}
	if err := a.payments.Revalidate(ctx); err != nil {
		a.log.Warn(ctx, "payments revalidation failed", "error", err)
	}
	if err := a.clients.Revalidate(ctx); err != nil {
		a.log.Warn(ctx, "clients revalidation failed", "error", err)
	}
	a.refreshNotifications(ctx)
}

func (a *App) refreshNotifications(ctx context.Context) {
	if !a.monitor.Online() {
		return
	}
	recs, err := a.api.ListNotifications(ctx)
	if err != nil {
		a.log.Warn(ctx, "notifications refresh failed", "error", err)
		return
	}
	if err := a.repos.Notifications.BulkUpsert(ctx, recs); err != nil {
		a.log.Warn(ctx, "failed to mirror notifications", "error", err)
	}
}
