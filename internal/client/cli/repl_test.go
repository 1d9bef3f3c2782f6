package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// stubExec records which commands the REPL dispatched.
type stubExec struct {
	calls []string
	fail  map[string]error
}

func (s *stubExec) record(name string) error {
	s.calls = append(s.calls, name)
	if err, ok := s.fail[name]; ok {
		return err
	}
	return nil
}

func (s *stubExec) listOrders(context.Context) error        { return s.record("orders") }
func (s *stubExec) listStock(context.Context) error         { return s.record("stock") }
func (s *stubExec) listPayments(context.Context) error      { return s.record("payments") }
func (s *stubExec) listClients(context.Context) error       { return s.record("clients") }
func (s *stubExec) listNotifications(context.Context) error { return s.record("notifications") }
func (s *stubExec) addOrder(context.Context) error          { return s.record("add-order") }
func (s *stubExec) addStock(context.Context) error          { return s.record("add-stock") }
func (s *stubExec) addPayment(context.Context) error        { return s.record("add-payment") }
func (s *stubExec) addClient(context.Context) error         { return s.record("add-client") }
func (s *stubExec) updateStock(context.Context) error       { return s.record("update-stock") }
func (s *stubExec) deleteOrder(context.Context) error       { return s.record("delete-order") }
func (s *stubExec) deleteStock(context.Context) error       { return s.record("delete-stock") }
func (s *stubExec) deleteClient(context.Context) error      { return s.record("delete-client") }
func (s *stubExec) syncNow(context.Context) error           { return s.record("sync") }

func captureOutput(t *testing.T) *[]string {
	t.Helper()
	old := printlnFn
	t.Cleanup(func() { printlnFn = old })

	var lines []string
	printlnFn = func(a ...any) {
		lines = append(lines, strings.TrimSpace(fmt.Sprintln(a...)))
	}
	return &lines
}

func runScript(t *testing.T, s *stubExec, script string) {
	t.Helper()
	scanner := bufio.NewScanner(strings.NewReader(script))
	runREPL(context.Background(), s, func() string { return "online" }, scanner)
}

func TestREPL_DispatchesCommands(t *testing.T) {
	_ = captureOutput(t)
	s := &stubExec{}

	runScript(t, s, "orders\nstock\nadd-client\nupdate-stock\nsync\nexit\n")

	assert.Equal(t, []string{"orders", "stock", "add-client", "update-stock", "sync"}, s.calls)
}

func TestREPL_ShortForms(t *testing.T) {
	_ = captureOutput(t)
	s := &stubExec{}

	runScript(t, s, "o\ns\np\nc\nn\nquit\n")

	assert.Equal(t, []string{"orders", "stock", "payments", "clients", "notifications"}, s.calls)
}

func TestREPL_UnknownCommand(t *testing.T) {
	out := captureOutput(t)
	s := &stubExec{}

	runScript(t, s, "frobnicate\nexit\n")

	assert.Empty(t, s.calls)
	assert.Contains(t, *out, "Unknown command: frobnicate")
}

func TestREPL_PrintsCommandErrors(t *testing.T) {
	out := captureOutput(t)
	s := &stubExec{fail: map[string]error{"orders": errors.New("boom")}}

	runScript(t, s, "orders\nexit\n")

	assert.Contains(t, *out, "Error: boom")
}

func TestREPL_ExitsOnEOF(t *testing.T) {
	_ = captureOutput(t)
	s := &stubExec{}

	// No exit command: the loop must stop when input runs out.
	runScript(t, s, "orders\n")

	assert.Equal(t, []string{"orders"}, s.calls)
}

func TestREPL_EmptyLinesIgnored(t *testing.T) {
	_ = captureOutput(t)
	s := &stubExec{}

	runScript(t, s, "\n\nstatus\nexit\n")

	assert.Empty(t, s.calls)
}
