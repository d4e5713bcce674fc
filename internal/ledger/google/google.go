// Package google implements the ledger ports against a Google Sheets
// spreadsheet: one tab for sales, one for expenses, each row one record.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"caja/internal/core"
	"caja/internal/ledger"
)

// Column layout shared by both tabs. Column B holds the invoice number for
// sales and the category for expenses; column C the client or supplier.
var headerRow = []any{"Fecha", "Factura/Categoría", "Cliente/Proveedor", "Monto", "Medio de Pago", "Observaciones", "Timestamp"}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	salesSheet    string
	expensesSheet string
}

var _ ledger.Backend = (*Client)(nil)

// NewFromEnv creates a Sheets client using environment variables.
// Required: GOOGLE_SPREADSHEET_ID plus service-account credentials via
// GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS.
// Optional tab names: GOOGLE_SALES_SHEET_NAME (default "Ventas"),
// GOOGLE_EXPENSES_SHEET_NAME (default "Gastos").
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	sales := strings.TrimSpace(os.Getenv("GOOGLE_SALES_SHEET_NAME"))
	if sales == "" {
		sales = "Ventas"
	}
	expenses := strings.TrimSpace(os.Getenv("GOOGLE_EXPENSES_SHEET_NAME"))
	if expenses == "" {
		expenses = "Gastos"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		salesSheet:    sales,
		expensesSheet: expenses,
	}, nil
}

// newSheetsService initializes a Sheets Service using Service Account credentials.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

func (c *Client) sheetFor(kind core.Kind) (string, error) {
	switch kind {
	case core.KindSale:
		return c.salesSheet, nil
	case core.KindExpense:
		return c.expensesSheet, nil
	}
	return "", fmt.Errorf("unknown record kind: %s", kind)
}

// Append writes the record to the next free row of its tab, initializing the
// header row on a fresh tab.
func (c *Client) Append(ctx context.Context, r core.Record) (string, error) {
	if err := r.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}
	sheet, err := c.sheetFor(r.Kind)
	if err != nil {
		return "", err
	}

	// Find the next empty row from the first column.
	rng := fmt.Sprintf("%s!A:A", sheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("get sheet dimensions for %s: %w", sheet, err)
	}
	nextRow := len(resp.Values) + 1

	if nextRow == 1 {
		headerRange := fmt.Sprintf("%s!A1:G1", sheet)
		hv := &gsheet.ValueRange{Values: [][]any{headerRow}}
		if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, headerRange, hv).
			ValueInputOption("USER_ENTERED").Context(ctx).Do(); err != nil {
			return "", fmt.Errorf("init headers in %s: %w", sheet, err)
		}
		nextRow = 2
	}

	row := []any{
		r.Date.Format(),
		r.InvoiceOrCategory,
		r.Counterparty,
		float64(r.Amount.Cents) / 100.0,
		r.PaymentMethod,
		r.Notes,
		time.Now().UTC().Format("2006-01-02 15:04:05"),
	}
	dataRange := fmt.Sprintf("%s!A%d:G%d", sheet, nextRow, nextRow)
	vr := &gsheet.ValueRange{Values: [][]any{row}}
	if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, dataRange, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do(); err != nil {
		return "", fmt.Errorf("append row to %s: %w", sheet, err)
	}

	slog.InfoContext(ctx, "Record appended to sheet",
		"sheet", sheet, "row", nextRow, "kind", string(r.Kind), "amount_cents", r.Amount.Cents)

	return dataRange, nil
}

// ListRecords scans both tabs and returns the records inside the window.
// Rows that fail to parse (headers, stray notes) are skipped.
func (c *Client) ListRecords(ctx context.Context, w core.Window) ([]core.Record, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	var out []core.Record
	for _, kind := range []core.Kind{core.KindSale, core.KindExpense} {
		sheet, err := c.sheetFor(kind)
		if err != nil {
			return nil, err
		}
		rng := fmt.Sprintf("%s!A:G", sheet)
		resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", rng, err)
		}
		for _, row := range resp.Values {
			rec, ok := parseRow(toStrings(row), kind)
			if !ok {
				continue
			}
			if w.Contains(rec.Date) {
				out = append(out, rec)
			}
		}
	}
	return out, nil
}

func toStrings(in []any) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}
