package google

import (
	"testing"

	"caja/internal/core"
)

func TestParseUnitsToCents(t *testing.T) {
	tests := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"150000", 150_000_00, true},
		{"150000.5", 150_000_50, true},
		{"1.250.000", 1_250_000_00, true},
		{"$1.250.000", 1_250_000_00, true},
		{"1.250.000,50", 1_250_000_50, true},
		{"0", 0, true},
		{"", 0, false},
		{"abc", 0, false},
		{"-5", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parseUnitsToCents(tt.in)
			if ok != tt.ok || got != tt.want {
				t.Fatalf("parseUnitsToCents(%q) = %d, %v; want %d, %v", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestParseRow(t *testing.T) {
	row := []string{"10/03/2025", "F-102", "ACME S.A.", "150000", "Transferencia", "pago parcial", "2025-03-10 14:02:11"}
	rec, ok := parseRow(row, core.KindSale)
	if !ok {
		t.Fatal("row should parse")
	}
	if rec.Kind != core.KindSale {
		t.Fatalf("kind = %s", rec.Kind)
	}
	if rec.Date.Format() != "10/03/2025" {
		t.Fatalf("date = %s", rec.Date.Format())
	}
	if rec.Amount.Cents != 150_000_00 {
		t.Fatalf("cents = %d", rec.Amount.Cents)
	}
	if rec.InvoiceOrCategory != "F-102" || rec.Counterparty != "ACME S.A." {
		t.Fatalf("fields = %+v", rec)
	}
}

func TestParseRowSkipsHeaderAndBlank(t *testing.T) {
	header := []string{"Fecha", "Factura/Categoría", "Cliente/Proveedor", "Monto", "Medio de Pago", "Observaciones", "Timestamp"}
	if _, ok := parseRow(header, core.KindSale); ok {
		t.Fatal("header row must not parse")
	}
	if _, ok := parseRow(nil, core.KindExpense); ok {
		t.Fatal("blank row must not parse")
	}
	short := []string{"10/03/2025"}
	if _, ok := parseRow(short, core.KindExpense); ok {
		t.Fatal("row without amount must not parse")
	}
}
