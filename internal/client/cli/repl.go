package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with
// a stub.
var printlnFn = func(a ...any) { fmt.Println(a...) }

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a
// lightweight stub.
type execIface interface {
	listOrders(ctx context.Context) error
	listStock(ctx context.Context) error
	listPayments(ctx context.Context) error
	listClients(ctx context.Context) error
	listNotifications(ctx context.Context) error
	addOrder(ctx context.Context) error
	addStock(ctx context.Context) error
	addPayment(ctx context.Context) error
	addClient(ctx context.Context) error
	updateStock(ctx context.Context) error
	deleteOrder(ctx context.Context) error
	deleteStock(ctx context.Context) error
	deleteClient(ctx context.Context) error
	syncNow(ctx context.Context) error
}

// runREPL reads a line, parses the first token as the command and dispatches
// to methods on 'a'. The prompt shows the current status (from statusFn).
// The loop exits on scanner EOF or when the user types "exit" or "quit".
// Command errors are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("furnboard (%s) > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		var err error
		switch cmd {
		case "help":
			printlnFn("Commands: status, orders, stock, payments, clients, notifications,")
			printlnFn("  add-order, add-stock, add-payment, add-client, update-stock,")
			printlnFn("  delete-order, delete-stock, delete-client, sync, exit")

		case "status":
			printlnFn(statusFn())

		case "o", "orders":
			err = a.listOrders(ctx)
		case "s", "stock":
			err = a.listStock(ctx)
		case "p", "payments":
			err = a.listPayments(ctx)
		case "c", "clients":
			err = a.listClients(ctx)
		case "n", "notifications":
			err = a.listNotifications(ctx)

		case "add-order":
			err = a.addOrder(ctx)
		case "add-stock":
			err = a.addStock(ctx)
		case "add-payment":
			err = a.addPayment(ctx)
		case "add-client":
			err = a.addClient(ctx)

		case "update-stock":
			err = a.updateStock(ctx)

		case "delete-order":
			err = a.deleteOrder(ctx)
		case "delete-stock":
			err = a.deleteStock(ctx)
		case "delete-client":
			err = a.deleteClient(ctx)

		case "sync":
			err = a.syncNow(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err.Error())
		}
	}
}
