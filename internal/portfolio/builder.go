// Package portfolio reconstructs the daily holdings/investment ledger from a
// classified account statement.
package portfolio

import (
	"sort"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/brokerstat/brokerstat/internal/domain"
)

// Build replays the statement's classified lines into a daily ledger running
// from the first transaction date through yesterday relative to now.
//
// The replay is a fold over ascending date groups: the holdings and
// investment accumulators carry forward across dates and each date snapshots
// an independent copy of the state, so later dates never alias earlier rows.
// Every line moves cash in its transaction currency; buys and sells
// additionally move shares and adjust the asset's cash basis by the negative
// of the flow, so basis tracks capital committed and not yet recovered.
// Calendar gaps repeat the last known state; assets whose holding nets to
// exactly zero leave the active set until a new transaction recreates them.
func Build(stmt domain.Statement, now time.Time) *domain.Ledger {
	lines := stmt.Replayable()
	ledger := domain.NewLedger()
	if len(lines) == 0 {
		return ledger
	}

	groups := lo.GroupBy(lines, func(l domain.TransactionLine) time.Time { return l.Date() })
	days := lo.Keys(groups)
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	holdings := make(map[string]decimal.Decimal)
	investment := make(map[string]decimal.Decimal)
	snapshots := make(map[time.Time]map[string]*domain.Position, len(days))

	for _, day := range days {
		for _, line := range groups[day] {
			holdings[line.Currency] = holdings[line.Currency].Add(line.Amount)
			investment[line.Currency] = investment[line.Currency].Add(line.Amount)
			if line.IsTrade() {
				holdings[line.ISIN] = holdings[line.ISIN].Add(line.Shares)
				investment[line.ISIN] = investment[line.ISIN].Sub(line.Amount)
			}
		}
		snapshots[day] = snapshotState(holdings, investment)
	}

	yesterday := domain.Day(now).AddDate(0, 0, -1)
	var last map[string]*domain.Position
	for day := days[0]; !day.After(yesterday); day = day.AddDate(0, 0, 1) {
		if snap, ok := snapshots[day]; ok {
			last = snap
		}
		if last == nil {
			continue
		}
		row := make(map[string]*domain.Position, len(last))
		for asset, pos := range last {
			if pos.Holding.IsZero() {
				continue
			}
			row[asset] = pos.Clone()
		}
		ledger.Dates = append(ledger.Dates, day)
		ledger.Rows[day] = row
	}

	return ledger
}

// snapshotState deep-copies the accumulators into position rows.
func snapshotState(holdings, investment map[string]decimal.Decimal) map[string]*domain.Position {
	snap := make(map[string]*domain.Position, len(holdings))
	for asset, holding := range holdings {
		snap[asset] = &domain.Position{
			Holding:    holding,
			Investment: investment[asset],
		}
	}
	return snap
}
