package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailySeries is a date-indexed series of decimal observations. Keys are
// normalized through Day.
type DailySeries map[time.Time]decimal.Decimal

// ForwardFill projects the series onto the given calendar, repeating the
// last known observation across gaps. Days before the first observation stay
// absent.
func (s DailySeries) ForwardFill(calendar []time.Time) DailySeries {
	filled := make(DailySeries, len(calendar))
	var last decimal.Decimal
	var seen bool
	for _, d := range calendar {
		if v, ok := s[Day(d)]; ok {
			last, seen = v, true
		}
		if seen {
			filled[Day(d)] = last
		}
	}
	return filled
}

// IdentitySeries returns a series of 1.0 over the given calendar, used as
// the exchange rate of the reporting currency against itself.
func IdentitySeries(calendar []time.Time) DailySeries {
	s := make(DailySeries, len(calendar))
	one := decimal.NewFromInt(1)
	for _, d := range calendar {
		s[Day(d)] = one
	}
	return s
}

// PriceTable maps tickers to their daily close series.
type PriceTable map[string]DailySeries
