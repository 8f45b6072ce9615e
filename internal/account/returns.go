package account

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/brokerstat/brokerstat/internal/analytics"
	"github.com/brokerstat/brokerstat/internal/domain"
)

// TimeWeightedReturns derives the daily return series from the valued ledger.
// External flows (deposits and withdrawals) on a day are treated as arriving
// before that day's close:
//
//	r(t) = value(t) / (value(t-1) + flow(t)) - 1
//
// The series starts on the first day the portfolio carries a positive value;
// days whose denominator is zero are skipped.
func TimeWeightedReturns(ledger *domain.Ledger, stmt domain.Statement) analytics.Series {
	flows := externalFlows(stmt)

	var series analytics.Series
	var prev decimal.Decimal
	started := false
	for _, date := range ledger.Dates {
		value := ledger.TotalValue(date)
		if !started {
			if value.IsPositive() {
				started = true
				prev = value
			}
			continue
		}

		denom := prev.Add(flows[date])
		if !denom.IsZero() {
			r := value.Div(denom).Sub(decimal.NewFromInt(1))
			series.Dates = append(series.Dates, date)
			series.Values = append(series.Values, r.InexactFloat64())
		}
		prev = value
	}
	return series
}

// externalFlows sums deposits and withdrawals per calendar day. Withdrawal
// amounts are already negative on the statement.
func externalFlows(stmt domain.Statement) map[time.Time]decimal.Decimal {
	flows := make(map[time.Time]decimal.Decimal)
	for _, line := range stmt {
		if line.Category == domain.LineDeposit || line.Category == domain.LineWithdrawal {
			date := line.Date()
			flows[date] = flows[date].Add(line.Amount)
		}
	}
	return flows
}
