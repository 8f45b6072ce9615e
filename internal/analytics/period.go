package analytics

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidPeriod indicates an unrecognized time-period option.
var ErrInvalidPeriod = errors.New("invalid time period option")

// Time-period option codes accepted by PeriodBounds.
const (
	PeriodFull = "Full Period"
	PeriodMTD  = "MTD" // month-to-date
	PeriodQTD  = "QTD" // quarter-to-date
	PeriodYTD  = "YTD" // year-to-date
	Period1Y   = "1Y"  // trailing 365 days
	PeriodPD   = "PD"  // previous day
	PeriodPM   = "PM"  // previous month
	PeriodPQ   = "PQ"  // previous quarter
	PeriodPY   = "PY"  // previous year (trailing 12 whole months)
)

// Periods lists the supported option codes in display order.
var Periods = []string{
	PeriodFull, PeriodMTD, PeriodQTD, PeriodYTD, Period1Y,
	PeriodPD, PeriodPM, PeriodPQ, PeriodPY,
}

// PeriodBounds resolves an option code to the start and end date of the
// corresponding window over the given observation index. Bounds are clipped
// to the available index range. The index must be non-empty and ascending.
func PeriodBounds(option string, index []time.Time) (time.Time, time.Time, error) {
	if len(index) == 0 {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: empty observation index", ErrInvalidPeriod)
	}

	minDate := index[0]
	maxDate := index[len(index)-1]
	start, end := minDate, maxDate

	switch option {
	case PeriodFull:
		start = minDate
	case PeriodMTD:
		start = time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC)
	case PeriodQTD:
		start = quarterStart(end)
	case PeriodYTD:
		start = time.Date(end.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	case Period1Y:
		start = end.AddDate(0, 0, -365)
	case PeriodPD:
		start = end.AddDate(0, 0, -1)
	case PeriodPM:
		start = monthBeginBack(end, 2)
		end = monthEnd(start)
	case PeriodPQ:
		start = quarterStart(end.AddDate(0, -3, 0))
		end = monthEnd(start.AddDate(0, 2, 0))
	case PeriodPY:
		start = monthBeginBack(end, 13)
		end = monthEnd(start.AddDate(0, 11, 0))
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, option)
	}

	if start.Before(minDate) {
		start = minDate
	}
	if end.After(maxDate) {
		end = maxDate
	}
	return start, end, nil
}

// monthBeginBack rolls the date back n month-begin boundaries. A mid-month
// date counts its own month's first day as the first step.
func monthBeginBack(t time.Time, n int) time.Time {
	y, m, d := t.Year(), t.Month(), t.Day()
	if d > 1 {
		n--
	}
	first := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	return first.AddDate(0, -n, 0)
}

// monthEnd returns the last day of the date's month.
func monthEnd(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, -1)
}

// quarterStart returns the first day of the date's calendar quarter.
func quarterStart(t time.Time) time.Time {
	qm := time.Month((int(t.Month())-1)/3*3 + 1)
	return time.Date(t.Year(), qm, 1, 0, 0, 0, 0, time.UTC)
}
