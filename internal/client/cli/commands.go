package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/mkhitrov/furnboard/internal/client/models"
)

func (a *App) status() string {
	n, err := a.repos.Queue.Count(context.Background())
	if err != nil {
		n = 0
	}
	mode := "offline"
	if a.monitor.Online() {
		mode = "online"
	}
	if n > 0 {
		return fmt.Sprintf("%s, %d pending", mode, n)
	}
	return mode
}

func (a *App) listOrders(ctx context.Context) error {
	recs, err := a.orders.Read(ctx)
	if err != nil {
		return err
	}
	for _, o := range recs {
		printlnFn(fmt.Sprintf("%s%s  client=%s  status=%s  total=%.2f  %s",
			pendingMark(o.IsOffline), o.ID, o.ClientID, o.Status, float64(o.TotalCents)/100, o.Description))
	}
	return nil
}

func (a *App) listStock(ctx context.Context) error {
	recs, err := a.stock.Read(ctx)
	if err != nil {
		return err
	}
	for _, s := range recs {
		printlnFn(fmt.Sprintf("%s%s  %s  sku=%s  qty=%d  unit=%.2f",
			pendingMark(s.IsOffline), s.ID, s.Name, s.SKU, s.Quantity, float64(s.UnitPriceCents)/100))
	}
	return nil
}

func (a *App) listPayments(ctx context.Context) error {
	recs, err := a.payments.Read(ctx)
	if err != nil {
		return err
	}
	for _, p := range recs {
		printlnFn(fmt.Sprintf("%s%s  order=%s  amount=%.2f  method=%s",
			pendingMark(p.IsOffline), p.ID, p.OrderID, float64(p.AmountCents)/100, p.Method))
	}
	return nil
}

func (a *App) listClients(ctx context.Context) error {
	recs, err := a.clients.Read(ctx)
	if err != nil {
		return err
	}
	for _, c := range recs {
		printlnFn(fmt.Sprintf("%s%s  %s  %s  %s",
			pendingMark(c.IsOffline), c.ID, c.Name, c.Phone, c.Email))
	}
	return nil
}

func (a *App) listNotifications(ctx context.Context) error {
	recs, err := a.repos.Notifications.GetAll(ctx)
	if err != nil {
		return err
	}
	for _, n := range recs {
		mark := " "
		if !n.Read {
			mark = "*"
		}
		printlnFn(fmt.Sprintf("%s %s  %s: %s", mark, n.ID, n.Title, n.Body))
	}
	return nil
}

func pendingMark(pending bool) string {
	if pending {
		return "~ "
	}
	return "  "
}

func (a *App) addClient(ctx context.Context) error {
	name, err := GetSimpleText(a.reader, "Client name", os.Stdout)
	if err != nil {
		return err
	}
	phone, err := GetSimpleText(a.reader, "Phone", os.Stdout)
	if err != nil {
		return err
	}
	rec, err := a.clients.PerformAction(ctx, models.ActionCreate,
		&models.Client{Name: name, Phone: phone})
	if err != nil {
		return err
	}
	printlnFn("Created client", rec.ID)
	return nil
}

func (a *App) addOrder(ctx context.Context) error {
	clientID, err := GetSimpleText(a.reader, "Client id", os.Stdout)
	if err != nil {
		return err
	}
	desc, err := GetSimpleText(a.reader, "Description", os.Stdout)
	if err != nil {
		return err
	}
	total, err := GetMoney(a.reader, "Total (e.g. 1250.00)", os.Stdout)
	if err != nil {
		return err
	}
	rec, err := a.orders.PerformAction(ctx, models.ActionCreate,
		&models.Order{ClientID: clientID, Description: desc, TotalCents: total, Status: "new"})
	if err != nil {
		return err
	}
	printlnFn("Created order", rec.ID)
	return nil
}

func (a *App) addStock(ctx context.Context) error {
	name, err := GetSimpleText(a.reader, "Item name", os.Stdout)
	if err != nil {
		return err
	}
	sku, err := GetSimpleText(a.reader, "SKU", os.Stdout)
	if err != nil {
		return err
	}
	qty, err := GetInt(a.reader, "Quantity", os.Stdout)
	if err != nil {
		return err
	}
	rec, err := a.stock.PerformAction(ctx, models.ActionCreate,
		&models.StockItem{Name: name, SKU: sku, Quantity: qty})
	if err != nil {
		return err
	}
	printlnFn("Created stock item", rec.ID)
	return nil
}

func (a *App) addPayment(ctx context.Context) error {
	orderID, err := GetSimpleText(a.reader, "Order id", os.Stdout)
	if err != nil {
		return err
	}
	amount, err := GetMoney(a.reader, "Amount (e.g. 500.00)", os.Stdout)
	if err != nil {
		return err
	}
	method, err := GetSimpleText(a.reader, "Method (cash/card/transfer)", os.Stdout)
	if err != nil {
		return err
	}
	order, err := a.repos.Orders.GetByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("unknown order %q: %w", orderID, err)
	}
	rec, err := a.payments.PerformAction(ctx, models.ActionCreate,
		&models.Payment{OrderID: order.ID, ClientID: order.ClientID, AmountCents: amount, Method: method})
	if err != nil {
		return err
	}
	printlnFn("Recorded payment", rec.ID)
	return nil
}

func (a *App) updateStock(ctx context.Context) error {
	id, err := GetSimpleText(a.reader, "Stock item id", os.Stdout)
	if err != nil {
		return err
	}
	item, err := a.repos.Stock.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("unknown stock item %q: %w", id, err)
	}
	qty, err := GetInt(a.reader, fmt.Sprintf("New quantity (current %d)", item.Quantity), os.Stdout)
	if err != nil {
		return err
	}
	item.Quantity = qty
	if _, err := a.stock.PerformAction(ctx, models.ActionUpdate, item); err != nil {
		return err
	}
	printlnFn("Updated", item.ID)
	return nil
}

func (a *App) deleteOrder(ctx context.Context) error {
	return deleteByID(ctx, a, a.orders, a.repos.Orders.GetByID, "Order id")
}

func (a *App) deleteStock(ctx context.Context) error {
	return deleteByID(ctx, a, a.stock, a.repos.Stock.GetByID, "Stock item id")
}

func (a *App) deleteClient(ctx context.Context) error {
	return deleteByID(ctx, a, a.clients, a.repos.Clients.GetByID, "Client id")
}

func deleteByID[T models.Entity](ctx context.Context, a *App,
	svc interface {
		PerformAction(ctx context.Context, action models.Action, rec T) (T, error)
	},
	lookup func(ctx context.Context, id string) (T, error), prompt string) error {

	id, err := GetSimpleText(a.reader, prompt, os.Stdout)
	if err != nil {
		return err
	}
	rec, err := lookup(ctx, id)
	if err != nil {
		return fmt.Errorf("unknown id %q: %w", id, err)
	}
	if _, err := svc.PerformAction(ctx, models.ActionDelete, rec); err != nil {
		return err
	}
	printlnFn("Deleted", id)
	return nil
}

// syncNow forces a manual drain-and-sweep, the same path a connectivity
// recovery takes.
func (a *App) syncNow(ctx context.Context) error {
	if !a.monitor.Online() {
		printlnFn("Offline: changes will sync automatically on reconnect")
		return nil
	}
	a.drainAndReconcile(ctx)
	printlnFn("Sync finished")
	return nil
}
