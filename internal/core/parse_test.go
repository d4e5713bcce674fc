package core

import (
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

var testNow = time.Date(2025, 6, 10, 14, 30, 0, 0, time.UTC)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		want Date
		err  error
	}{
		{"hoy", NewDate(2025, 6, 10), nil},
		{"HOY", NewDate(2025, 6, 10), nil},
		{"today", NewDate(2025, 6, 10), nil},
		{"15/01/2025", NewDate(2025, 1, 15), nil},
		{"5/1/2025", NewDate(2025, 1, 5), nil},
		{" 15/01/2025 ", NewDate(2025, 1, 15), nil},
		{"11/06/2025", NewDate(2025, 6, 11), nil}, // within 1-day grace
		{"12/06/2025", Date{}, ErrFutureDate},
		{"2025-01-15", Date{}, ErrInvalidDate},
		{"32/01/2025", Date{}, ErrInvalidDate},
		{"15/13/2025", Date{}, ErrInvalidDate},
		{"ayer", Date{}, ErrInvalidDate},
		{"", Date{}, ErrInvalidDate},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseDate(tc.in, testNow, 1)
			if tc.err != nil {
				if !errors.Is(err, tc.err) {
					t.Fatalf("err = %v, want %v", err, tc.err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tc.want.Time) {
				t.Fatalf("got %s, want %s", got.Format(), tc.want.Format())
			}
		})
	}
}

func TestParseDateIdempotent(t *testing.T) {
	// Re-validating the same input after a rejection cycle yields the same outcome.
	for i := 0; i < 3; i++ {
		if _, err := ParseDate("99/99/9999", testNow, 1); err == nil {
			t.Fatal("expected rejection")
		}
		if _, err := ParseDate("15/01/2025", testNow, 1); err != nil {
			t.Fatalf("expected acceptance, got %v", err)
		}
	}
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in    string
		cents int64
		ok    bool
	}{
		{"150000", 15000000, true},
		{"150.000", 15000000, true},
		{"150,000", 15000000, true},
		{"$1.250.000", 125000000, true},
		{"50000", 5000000, true},
		{" 7000 ", 700000, true},
		{"0", 0, false},
		{"-5000", 0, false},
		{"abc", 0, false},
		{"12a34", 0, false},
		{"", 0, false},
		{"$", 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseAmount(tc.in)
			if tc.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.ok {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if got.Cents != tc.cents {
				t.Fatalf("got %d cents, want %d", got.Cents, tc.cents)
			}
		})
	}
}

func TestParseAmountSeparatorEquivalence(t *testing.T) {
	// Separator style must not change the parsed value.
	a, err := ParseAmount("150.000")
	if err != nil {
		t.Fatal(err)
	}
	b, err := ParseAmount("150000")
	if err != nil {
		t.Fatal(err)
	}
	if a.Cents != b.Cents {
		t.Fatalf("separator styles disagree: %d vs %d", a.Cents, b.Cents)
	}
}

func TestNormalizeText(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  Cliente Uno  ", "Cliente Uno"},
		{"-", ""},
		{"s/n", ""},
		{"skip", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeText(tc.in, 200); got != tc.want {
			t.Errorf("NormalizeText(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
	long := make([]byte, 300)
	for i := range long {
		long[i] = 'x'
	}
	if got := NormalizeText(string(long), 200); len(got) != 200 {
		t.Errorf("long text not capped: len=%d", len(got))
	}
}

func TestNormalizeTextCutsOnRuneBoundary(t *testing.T) {
	// "ñ" is two bytes and straddles the cap; the cut must not split it.
	in := strings.Repeat("a", 199) + "ñ" + strings.Repeat("b", 100)
	got := NormalizeText(in, 200)
	if !utf8.ValidString(got) {
		t.Fatalf("result is not valid UTF-8: %q", got)
	}
	if want := strings.Repeat("a", 199); got != want {
		t.Errorf("len(got) = %d, want %d (rune dropped whole)", len(got), len(want))
	}
}

func TestValidateInvoice(t *testing.T) {
	if err := ValidateInvoice("F-0001"); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := ValidateInvoice(""); err == nil {
		t.Fatal("expected error for empty")
	}
	if err := ValidateInvoice("123456789012345678901"); err == nil {
		t.Fatal("expected error for >20 chars")
	}
}
