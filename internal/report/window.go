package report

import (
	"time"

	"caja/internal/core"
)

// Window constructors resolve the report periods the conversation offers
// against the business timezone.

// Today is the single-day window containing now.
func Today(now time.Time) core.Window {
	d := core.DateOf(now)
	return core.Window{Label: "HOY", Start: d, End: d}
}

// ThisWeek runs from Monday of the current week through today.
func ThisWeek(now time.Time) core.Window {
	wd := int(now.Weekday())
	if wd == 0 {
		wd = 7 // Sunday
	}
	start := core.DateOf(now.AddDate(0, 0, -(wd - 1)))
	return core.Window{Label: "ESTA SEMANA", Start: start, End: core.DateOf(now)}
}

// ThisMonth runs from the first of the current month through today.
func ThisMonth(now time.Time) core.Window {
	y, m, _ := now.Date()
	return core.Window{Label: "ESTE MES", Start: core.NewDate(y, int(m), 1), End: core.DateOf(now)}
}

// AllTime matches every record.
func AllTime() core.Window {
	return core.Window{Label: "TOTAL"}
}

// PeriodWindow maps a user-supplied period name to a window. The boolean is
// false when the period is not recognized.
func PeriodWindow(period string, now time.Time) (core.Window, bool) {
	switch period {
	case "hoy":
		return Today(now), true
	case "semana", "esta semana":
		return ThisWeek(now), true
	case "mes", "este mes":
		return ThisMonth(now), true
	case "todo", "total":
		return AllTime(), true
	}
	return core.Window{}, false
}
