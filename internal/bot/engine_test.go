package bot

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"caja/internal/auth"
	"caja/internal/core"
	"caja/internal/dialog"
	"caja/internal/ledger/memory"
)

var fixedNow = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T) (*Engine, *memory.Store) {
	t.Helper()
	store := memory.New()
	machine := dialog.NewMachine(dialog.Config{
		Flows: dialog.NewFlows(dialog.Options{
			Categories:     []string{"Suministros", "Servicios"},
			PaymentMethods: []string{"Efectivo", "Transferencia"},
		}),
		GraceDays: 1,
		Now:       func() time.Time { return fixedNow },
	})
	engine := NewEngine(Config{
		Gate:    auth.NewGate([]int64{100}),
		Machine: machine,
		Backend: store,
		Now:     func() time.Time { return fixedNow },
	})
	return engine, store
}

// send runs a scripted conversation and returns the replies to the last message.
func send(t *testing.T, e *Engine, userID int64, msgs ...string) []string {
	t.Helper()
	var last []string
	for _, msg := range msgs {
		last = e.Handle(context.Background(), userID, msg)
	}
	return last
}

func TestUnauthorizedUserGetsSingleRejection(t *testing.T) {
	e, store := newTestEngine(t)

	replies := send(t, e, 999, "/venta")
	if len(replies) != 1 || replies[0] != msgUnauthorized {
		t.Fatalf("replies = %v", replies)
	}

	// No draft was opened: a follow-up answer is rejected the same way.
	replies = send(t, e, 999, "hoy")
	if len(replies) != 1 || replies[0] != msgUnauthorized {
		t.Fatalf("follow-up replies = %v", replies)
	}
	if store.Len() != 0 {
		t.Fatal("nothing should be persisted")
	}
}

func TestExpenseFlowCommitsOneRecord(t *testing.T) {
	e, store := newTestEngine(t)

	last := send(t, e, 100,
		"/gasto", "hoy", "Suministros", "ACME", "50000", "Efectivo", "skip", "sí")

	if len(last) != 1 || !strings.Contains(last[0], "GASTO REGISTRADO") {
		t.Fatalf("final reply = %v", last)
	}
	if store.Len() != 1 {
		t.Fatalf("records = %d, want 1", store.Len())
	}

	recs, err := store.ListRecords(context.Background(), core.Window{})
	if err != nil {
		t.Fatal(err)
	}
	rec := recs[0]
	if rec.Kind != core.KindExpense {
		t.Errorf("kind = %s", rec.Kind)
	}
	if rec.Date.Format() != "10/06/2025" {
		t.Errorf("date = %s", rec.Date.Format())
	}
	if rec.InvoiceOrCategory != "Suministros" || rec.Counterparty != "ACME" {
		t.Errorf("record = %+v", rec)
	}
	if rec.Amount.Cents != 50_000_00 {
		t.Errorf("cents = %d", rec.Amount.Cents)
	}
	if rec.Notes != "" {
		t.Errorf("notes = %q, want empty (skipped)", rec.Notes)
	}

	// The draft is gone after the commit.
	if _, ok := e.machine.Active("100"); ok {
		t.Fatal("draft should be cleared after commit")
	}
}

func TestSaleFlowWithSkippedInvoice(t *testing.T) {
	e, store := newTestEngine(t)

	last := send(t, e, 100,
		"/venta", "09/06/2025", "-", "-", "150.000", "Transferencia", "-", "si")

	if len(last) != 1 || !strings.Contains(last[0], "VENTA REGISTRADA") {
		t.Fatalf("final reply = %v", last)
	}
	recs, _ := store.ListRecords(context.Background(), core.Window{})
	if len(recs) != 1 {
		t.Fatalf("records = %d", len(recs))
	}
	rec := recs[0]
	if rec.InvoiceOrCategory != "S/N" {
		t.Errorf("invoice = %q, want S/N placeholder", rec.InvoiceOrCategory)
	}
	if rec.Amount.Cents != 150_000_00 {
		t.Errorf("cents = %d (thousands separator must be ignored)", rec.Amount.Cents)
	}
}

func TestStartWhileActiveIsRejected(t *testing.T) {
	e, _ := newTestEngine(t)

	send(t, e, 100, "/venta", "hoy")
	replies := send(t, e, 100, "/gasto")
	if len(replies) != 1 || replies[0] != msgFlowInProgress {
		t.Fatalf("replies = %v", replies)
	}

	// The active draft is undisturbed: the next answer still lands on it.
	replies = send(t, e, 100, "F-102")
	if len(replies) != 1 || !strings.HasPrefix(replies[0], "✅") {
		t.Fatalf("replies = %v", replies)
	}
}

func TestCancelCommand(t *testing.T) {
	e, store := newTestEngine(t)

	send(t, e, 100, "/venta", "hoy")
	replies := send(t, e, 100, "/cancelar")
	if len(replies) != 1 || replies[0] != msgCancelled {
		t.Fatalf("replies = %v", replies)
	}
	if store.Len() != 0 {
		t.Fatal("cancelled draft must not be persisted")
	}

	replies = send(t, e, 100, "/cancelar")
	if len(replies) != 1 || replies[0] != msgNothingToCancel {
		t.Fatalf("replies = %v", replies)
	}
}

func TestTextWithoutFlowGetsHint(t *testing.T) {
	e, _ := newTestEngine(t)

	replies := send(t, e, 100, "hola")
	if len(replies) != 1 || replies[0] != msgNoActiveFlow {
		t.Fatalf("replies = %v", replies)
	}
}

func TestUnknownCommand(t *testing.T) {
	e, _ := newTestEngine(t)

	replies := send(t, e, 100, "/borrar")
	if len(replies) != 1 || replies[0] != msgUnknownCommand {
		t.Fatalf("replies = %v", replies)
	}
}

func TestPersistenceFailureKeepsDraftForRetry(t *testing.T) {
	e, store := newTestEngine(t)

	send(t, e, 100, "/gasto", "hoy", "Servicios", "EPM", "80000", "Efectivo", "-")

	store.AppendErr = errors.New("sheets unavailable")
	replies := send(t, e, 100, "sí")
	if len(replies) != 1 || replies[0] != msgSaveFailed {
		t.Fatalf("replies = %v", replies)
	}
	if store.Len() != 0 {
		t.Fatal("failed append must not store anything")
	}

	// Same confirmation retries the same record.
	store.AppendErr = nil
	replies = send(t, e, 100, "sí")
	if len(replies) != 1 || !strings.Contains(replies[0], "GASTO REGISTRADO") {
		t.Fatalf("replies = %v", replies)
	}
	if store.Len() != 1 {
		t.Fatalf("records = %d, want exactly 1", store.Len())
	}
}

func TestReportCommand(t *testing.T) {
	e, store := newTestEngine(t)
	ctx := context.Background()

	seed := []core.Record{
		{Kind: core.KindSale, Date: core.DateOf(fixedNow), Amount: core.Money{Cents: 100_00},
			PaymentMethod: "Efectivo", InvoiceOrCategory: "S/N"},
		{Kind: core.KindSale, Date: core.DateOf(fixedNow), Amount: core.Money{Cents: 100_00},
			PaymentMethod: "Transferencia", InvoiceOrCategory: "S/N"},
		{Kind: core.KindExpense, Date: core.DateOf(fixedNow), Amount: core.Money{Cents: 60_00},
			PaymentMethod: "Efectivo", InvoiceOrCategory: "Suministros", Counterparty: "ACME"},
	}
	for _, rec := range seed {
		if _, err := store.Append(ctx, rec); err != nil {
			t.Fatal(err)
		}
	}

	replies := send(t, e, 100, "/reporte hoy")
	if len(replies) != 1 {
		t.Fatalf("replies = %v", replies)
	}
	out := replies[0]
	for _, want := range []string{"REPORTE HOY", "Ventas: $200 (2)", "Gastos: $60 (1)", "Ganancia: $140", "Margen: 70.0%", "Suministros"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestEstadoShowsCurrentMonthSummary(t *testing.T) {
	e, store := newTestEngine(t)
	ctx := context.Background()

	rec := core.Record{Kind: core.KindSale, Date: core.DateOf(fixedNow),
		Amount: core.Money{Cents: 100_00}, PaymentMethod: "Efectivo", InvoiceOrCategory: "S/N"}
	if _, err := store.Append(ctx, rec); err != nil {
		t.Fatal(err)
	}

	replies := send(t, e, 100, "/estado")
	if len(replies) != 1 {
		t.Fatalf("replies = %v", replies)
	}
	for _, want := range []string{"REPORTE ESTE MES", "Ventas: $100 (1)"} {
		if !strings.Contains(replies[0], want) {
			t.Errorf("estado missing %q:\n%s", want, replies[0])
		}
	}
}

func TestEstadoMentionsActiveDraftBeforeSummary(t *testing.T) {
	e, _ := newTestEngine(t)

	send(t, e, 100, "/venta", "hoy")
	replies := send(t, e, 100, "/estado")
	if len(replies) != 2 {
		t.Fatalf("replies = %v", replies)
	}
	if !strings.Contains(replies[0], "registro de venta en curso") {
		t.Errorf("first reply = %q", replies[0])
	}
	if !strings.Contains(replies[1], "REPORTE ESTE MES") {
		t.Errorf("second reply = %q", replies[1])
	}
}

func TestReportWithoutPeriodAsksForOne(t *testing.T) {
	e, _ := newTestEngine(t)

	for _, msg := range []string{"/reporte", "/reporte ayer"} {
		replies := send(t, e, 100, msg)
		if len(replies) != 1 || replies[0] != msgReportUsage {
			t.Fatalf("Handle(%q) = %v", msg, replies)
		}
	}
}

func TestHelpCommand(t *testing.T) {
	e, _ := newTestEngine(t)

	for _, msg := range []string{"/start", "/ayuda", "/ayuda@CajaBot"} {
		replies := send(t, e, 100, msg)
		if len(replies) != 1 || replies[0] != msgHelp {
			t.Fatalf("Handle(%q) = %v", msg, replies)
		}
	}
}
