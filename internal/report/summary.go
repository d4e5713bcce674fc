// Package report aggregates committed transaction records into windowed
// financial summaries.
package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"caja/internal/core"
)

// BreakdownLine is an amount and count aggregated under one label.
type BreakdownLine struct {
	Label  string
	Amount core.Money
	Count  int
}

// Summary is the computed result for one window. It is derived on demand and
// never cached.
type Summary struct {
	Window        core.Window
	TotalSales    core.Money
	TotalExpenses core.Money
	SalesCount    int
	ExpenseCount  int
	Profit        core.Money
	// Margin is profit over total sales, zero when there are no sales.
	Margin decimal.Decimal
	// SalesByPayment and ExpensesByPayment break each partition down by
	// payment method; ExpensesByCategory by expense category.
	SalesByPayment     []BreakdownLine
	ExpensesByPayment  []BreakdownLine
	ExpensesByCategory []BreakdownLine
}

// Summarize filters records to the window (bounds inclusive), partitions by
// kind and computes totals, profit and margin. Empty input yields an all-zero
// summary.
func Summarize(records []core.Record, w core.Window) Summary {
	s := Summary{Window: w}
	salesByPay := map[string]*BreakdownLine{}
	expByPay := map[string]*BreakdownLine{}
	expByCat := map[string]*BreakdownLine{}

	for _, r := range records {
		if !w.Contains(r.Date) {
			continue
		}
		switch r.Kind {
		case core.KindSale:
			s.TotalSales = s.TotalSales.Add(r.Amount)
			s.SalesCount++
			accumulate(salesByPay, r.PaymentMethod, r.Amount)
		case core.KindExpense:
			s.TotalExpenses = s.TotalExpenses.Add(r.Amount)
			s.ExpenseCount++
			accumulate(expByPay, r.PaymentMethod, r.Amount)
			accumulate(expByCat, r.InvoiceOrCategory, r.Amount)
		}
	}

	s.Profit = s.TotalSales.Sub(s.TotalExpenses)
	if s.TotalSales.Cents > 0 {
		profit := decimal.New(s.Profit.Cents, -2)
		sales := decimal.New(s.TotalSales.Cents, -2)
		s.Margin = profit.DivRound(sales, 4)
	}

	s.SalesByPayment = sortLines(salesByPay)
	s.ExpensesByPayment = sortLines(expByPay)
	s.ExpensesByCategory = sortLines(expByCat)
	return s
}

func accumulate(m map[string]*BreakdownLine, label string, amount core.Money) {
	if label == "" {
		label = "(sin especificar)"
	}
	line, ok := m[label]
	if !ok {
		line = &BreakdownLine{Label: label}
		m[label] = line
	}
	line.Amount = line.Amount.Add(amount)
	line.Count++
}

// sortLines orders breakdown lines by amount descending, ties by label.
func sortLines(m map[string]*BreakdownLine) []BreakdownLine {
	out := make([]BreakdownLine, 0, len(m))
	for _, line := range m {
		out = append(out, *line)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount.Cents != out[j].Amount.Cents {
			return out[i].Amount.Cents > out[j].Amount.Cents
		}
		return out[i].Label < out[j].Label
	})
	return out
}
