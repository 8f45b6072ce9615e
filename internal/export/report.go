// Package export renders the account analysis into report rows and writes
// them to spreadsheet destinations.
package export

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/brokerstat/brokerstat/internal/analytics"
	"github.com/brokerstat/brokerstat/internal/domain"
)

// Row is one formatted metric of a report table.
type Row struct {
	Name  string
	Value string
}

// Report is the full rendered analysis for one period.
type Report struct {
	Period      string
	Start, End  time.Time
	Performance []Row
	Balance     []Row
	Ledger      *domain.Ledger
}

// Writer persists a report to some destination.
type Writer interface {
	Write(ctx context.Context, report Report) error
}

// currencySymbol prefixes currency-formatted values.
const currencySymbol = "€"

// ReturnMetrics evaluates the standard performance table over the daily
// return series. Weekend observations carry forward-filled prices and are
// excluded before annualizing on annFreq periods per year.
func ReturnMetrics(returns analytics.Series, annFreq int) []Row {
	weekdays := returns.Weekdays()

	rows := make([]Row, 0, len(analytics.PerformanceMetrics))
	for _, metric := range analytics.PerformanceMetrics {
		stat := metric.Eval(weekdays.Values, annFreq)
		rows = append(rows, Row{Name: metric.Name, Value: formatMetric(stat, metric.Format)})
	}
	return rows
}

// BalanceMetrics decomposes the account balance at the end of the period and
// computes the unrealized P&L accrued within it. P&L covers securities only:
// the change in their market value minus the net cash committed to them over
// the same window, so gains from before the period start are excluded.
func BalanceMetrics(ledger *domain.Ledger, start, end time.Time, isins, currencies []string) []Row {
	days := ledger.ClampRange(start, end)
	if len(days) == 0 {
		return nil
	}
	first, last := days[0], days[len(days)-1]

	balance := ledger.TotalValue(last).InexactFloat64()
	valuation := sumValues(ledger.At(last), isins)
	cash := sumValues(ledger.At(last), currencies)

	v0, v1 := sumValues(ledger.At(first), isins), valuation
	flow := sumInvestment(ledger.At(last), isins) - sumInvestment(ledger.At(first), isins)
	gains := (v1 - v0) - flow

	return []Row{
		{Name: "Account", Value: formatMetric(balance, analytics.FormatCurrency)},
		{Name: "Portfolio", Value: formatMetric(valuation, analytics.FormatCurrency)},
		{Name: "Cash", Value: formatMetric(cash, analytics.FormatCurrency)},
		{Name: "Period P&L", Value: formatMetric(gains, analytics.FormatCurrency)},
	}
}

func sumValues(row map[string]*domain.Position, assets []string) float64 {
	var total float64
	for _, asset := range assets {
		if pos, ok := row[asset]; ok && pos.Value != nil {
			total += pos.Value.InexactFloat64()
		}
	}
	return total
}

func sumInvestment(row map[string]*domain.Position, assets []string) float64 {
	var total float64
	for _, asset := range assets {
		if pos, ok := row[asset]; ok {
			total += pos.Investment.InexactFloat64()
		}
	}
	return total
}

// formatMetric renders a metric value for display. NaN marks a statistic
// whose input is undefined and renders as a dash placeholder.
func formatMetric(value float64, format analytics.Format) string {
	if math.IsNaN(value) {
		return "—"
	}
	switch format {
	case analytics.FormatPercent:
		return fmt.Sprintf("%.2f%%", value)
	case analytics.FormatInt:
		return fmt.Sprintf("%d", int(math.Round(value)))
	case analytics.FormatCurrency:
		sign := ""
		if value < 0 {
			sign = "-"
		}
		return fmt.Sprintf("%s%s %s", sign, currencySymbol, groupThousands(math.Abs(value)))
	default:
		return fmt.Sprintf("%.2f", value)
	}
}

// groupThousands formats a non-negative amount with two decimals and comma
// thousands separators.
func groupThousands(value float64) string {
	s := fmt.Sprintf("%.2f", value)
	intPart, fracPart, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	return b.String() + "." + fracPart
}
