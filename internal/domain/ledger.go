package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Position is the state of one asset on one day. The asset identifier is
// either a currency code (cash) or a security identifier; both share the
// same namespace.
type Position struct {
	Holding    decimal.Decimal  // shares for securities, cash balance for currencies
	Investment decimal.Decimal  // cumulative net cash basis committed to the asset
	Close      *decimal.Decimal // unit price in the position's native currency, nil until joined
	Value      *decimal.Decimal // Holding × Close, nil when no price is available
}

// Clone returns an independent copy of the position.
func (p *Position) Clone() *Position {
	c := &Position{Holding: p.Holding, Investment: p.Investment}
	if p.Close != nil {
		v := *p.Close
		c.Close = &v
	}
	if p.Value != nil {
		v := *p.Value
		c.Value = &v
	}
	return c
}

// Ledger is the daily portfolio: a continuous calendar of days, each mapping
// the assets active on that day to their positions. Days run from the first
// transaction date through yesterday; non-trading days repeat the last known
// state and assets with an exactly-zero holding are absent.
type Ledger struct {
	Dates []time.Time
	Rows  map[time.Time]map[string]*Position
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{Rows: make(map[time.Time]map[string]*Position)}
}

// IsEmpty reports whether the ledger covers no days.
func (l *Ledger) IsEmpty() bool {
	return len(l.Dates) == 0
}

// Start returns the first calendar day of the ledger.
func (l *Ledger) Start() time.Time {
	if l.IsEmpty() {
		return time.Time{}
	}
	return l.Dates[0]
}

// End returns the last calendar day of the ledger.
func (l *Ledger) End() time.Time {
	if l.IsEmpty() {
		return time.Time{}
	}
	return l.Dates[len(l.Dates)-1]
}

// At returns the positions active on the given day, nil when the day is
// outside the calendar.
func (l *Ledger) At(date time.Time) map[string]*Position {
	return l.Rows[Day(date)]
}

// Position returns the position of one asset on one day.
func (l *Ledger) Position(date time.Time, asset string) (*Position, bool) {
	row, ok := l.Rows[Day(date)][asset]
	return row, ok
}

// Assets returns every asset identifier that ever appears in the ledger,
// sorted for deterministic iteration.
func (l *Ledger) Assets() []string {
	seen := make(map[string]bool)
	for _, row := range l.Rows {
		for asset := range row {
			seen[asset] = true
		}
	}
	assets := make([]string, 0, len(seen))
	for asset := range seen {
		assets = append(assets, asset)
	}
	sort.Strings(assets)
	return assets
}

// ClampRange clips the requested window to the ledger calendar and returns
// the covered days. An empty slice means the window and calendar are
// disjoint.
func (l *Ledger) ClampRange(start, end time.Time) []time.Time {
	start, end = Day(start), Day(end)
	days := make([]time.Time, 0, len(l.Dates))
	for _, d := range l.Dates {
		if d.Before(start) || d.After(end) {
			continue
		}
		days = append(days, d)
	}
	return days
}

// TotalValue sums the value of every priced position on the given day.
func (l *Ledger) TotalValue(date time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, pos := range l.At(date) {
		if pos.Value != nil {
			total = total.Add(*pos.Value)
		}
	}
	return total
}
