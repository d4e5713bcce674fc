package core

import (
	"errors"
	"strings"
	"time"
)

const (
	KindSale    Kind = "venta"
	KindExpense Kind = "gasto"
)

type (
	// Kind distinguishes the two transaction flows.
	Kind string

	// Date is a calendar day without time-of-day.
	Date struct {
		time.Time
	}

	// Money is a fixed-point amount in cents.
	Money struct {
		Cents int64
	}

	// Record is an immutable committed transaction. InvoiceOrCategory holds
	// the invoice number for sales and the expense category for expenses.
	Record struct {
		Kind              Kind
		Date              Date
		Amount            Money
		Counterparty      string // client or supplier, may be empty
		PaymentMethod     string
		InvoiceOrCategory string
		Notes             string
	}

	// Window is an inclusive date range. A zero bound is unbounded, so the
	// zero Window matches every record.
	Window struct {
		Label string
		Start Date
		End   Date
	}
)

var (
	ErrInvalidDate       = errors.New("invalid date")
	ErrFutureDate        = errors.New("date is in the future")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidInvoice    = errors.New("invalid invoice number")
	ErrEmptyKind         = errors.New("empty transaction kind")
	ErrEmptyPayment      = errors.New("empty payment method")
	ErrEmptyCategory     = errors.New("empty invoice or category")
)

// NewDate creates a Date from year, month, day in UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Format renders the date in DD/MM/YYYY, the convention used everywhere in
// the conversation and in the spreadsheet.
func (d Date) Format() string {
	return d.Time.Format("02/01/2006")
}

// Before reports whether d falls on an earlier calendar day than other.
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

// After reports whether d falls on a later calendar day than other.
func (d Date) After(other Date) bool {
	return d.Time.After(other.Time)
}

func (k Kind) IsValid() bool {
	return k == KindSale || k == KindExpense
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Add returns the sum of two amounts.
func (m Money) Add(other Money) Money {
	return Money{Cents: m.Cents + other.Cents}
}

// Sub returns the difference of two amounts; the result may be negative.
func (m Money) Sub(other Money) Money {
	return Money{Cents: m.Cents - other.Cents}
}

func (r Record) Validate() error {
	if !r.Kind.IsValid() {
		return ErrEmptyKind
	}
	if err := r.Date.Validate(); err != nil {
		return err
	}
	if err := r.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(r.PaymentMethod) == "" {
		return ErrEmptyPayment
	}
	if strings.TrimSpace(r.InvoiceOrCategory) == "" {
		return ErrEmptyCategory
	}
	return nil
}

// Contains reports whether d falls inside the window, bounds inclusive.
func (w Window) Contains(d Date) bool {
	if !w.Start.IsZero() && d.Before(w.Start) {
		return false
	}
	if !w.End.IsZero() && d.After(w.End) {
		return false
	}
	return true
}
