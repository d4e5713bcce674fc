package google

import (
	"strconv"
	"strings"
	"time"

	"caja/internal/core"
)

// parseRow converts one sheet row into a record. Header rows, blank rows and
// rows whose date or amount cannot be read are reported as not-ok.
func parseRow(cols []string, kind core.Kind) (core.Record, bool) {
	date, ok := parseSheetDate(safeGet(cols, 0))
	if !ok {
		return core.Record{}, false
	}
	cents, ok := parseUnitsToCents(safeGet(cols, 3))
	if !ok {
		return core.Record{}, false
	}
	rec := core.Record{
		Kind:              kind,
		Date:              date,
		InvoiceOrCategory: safeGet(cols, 1),
		Counterparty:      safeGet(cols, 2),
		Amount:            core.Money{Cents: cents},
		PaymentMethod:     safeGet(cols, 4),
		Notes:             safeGet(cols, 5),
	}
	return rec, true
}

func parseSheetDate(s string) (core.Date, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return core.Date{}, false
	}
	for _, layout := range []string{"02/01/2006", "2/1/2006", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return core.DateOf(t), true
		}
	}
	return core.Date{}, false
}

func safeGet(arr []string, idx int) string {
	if idx < 0 || idx >= len(arr) {
		return ""
	}
	return arr[idx]
}

// parseUnitsToCents reads an amount cell. Cells normally hold a plain number
// of whole units, but sheets edited by hand may carry a currency symbol,
// thousands dots or a decimal comma.
func parseUnitsToCents(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return 0, false
	}
	if strings.Contains(s, ",") {
		// "1.250.000,50" -> "1250000.50"
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	} else if strings.Count(s, ".") > 1 {
		// Dots are thousands marks only when there is more than one.
		s = strings.ReplaceAll(s, ".", "")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if f < 0 {
		return 0, false
	}
	cents := int64((f * 100.0) + 0.5)
	return cents, true
}
