package quote

import (
	"context"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/brokerstat/brokerstat/internal/domain"
)

// ECBClient fetches daily reference exchange rates from the ECB data portal
// (EXR dataflow).
type ECBClient struct {
	baseURL string
	rest    *restClient
}

// NewECBClient creates an ECB exchange-rate client.
func NewECBClient(baseURL string, timeout time.Duration, maxRetries int, baseDelay time.Duration) *ECBClient {
	return &ECBClient{
		baseURL: baseURL,
		rest:    newRESTClient(timeout, maxRetries, baseDelay),
	}
}

// ExchangeRate returns a daily series of how many quote-currency units one
// base unit buys over [start, end]. base == quote short-circuits to an
// identity series without a network call. The ECB publishes rates as
// currency-per-EUR, so a EUR quote inverts the published observation.
func (e *ECBClient) ExchangeRate(ctx context.Context, base, quote string, start, end time.Time) (domain.DailySeries, error) {
	if base == quote {
		return domain.IdentitySeries(dailyCalendar(start, end)), nil
	}

	// Series key D.<currency>.EUR.SP00.A quotes <currency> per EUR. Request
	// it for whichever side of the pair is not EUR.
	currency, invert := base, true
	if base == "EUR" {
		currency, invert = quote, false
	} else if quote != "EUR" {
		return nil, fmt.Errorf("unsupported pair %s/%s: one side must be EUR", base, quote)
	}

	url := fmt.Sprintf("%s/D.%s.EUR.SP00.A?format=csvdata&startPeriod=%s&endPeriod=%s",
		e.baseURL, currency, start.Format("2006-01-02"), end.Format("2006-01-02"))

	raw, err := e.rest.do(ctx, "GET", url, nil, nil)
	if err != nil {
		return nil, err
	}

	series, err := parseEXRCSV(raw, invert)
	if err != nil {
		return nil, fmt.Errorf("parsing EXR response for %s/%s: %w", base, quote, err)
	}
	return series, nil
}

// parseEXRCSV extracts (TIME_PERIOD, OBS_VALUE) pairs from an SDMX CSV
// payload, optionally inverting each observation.
func parseEXRCSV(raw []byte, invert bool) (domain.DailySeries, error) {
	records, err := csv.NewReader(strings.NewReader(string(raw))).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return domain.DailySeries{}, nil
	}

	timeCol, valueCol := -1, -1
	for i, name := range records[0] {
		switch name {
		case "TIME_PERIOD":
			timeCol = i
		case "OBS_VALUE":
			valueCol = i
		}
	}
	if timeCol < 0 || valueCol < 0 {
		return nil, fmt.Errorf("missing TIME_PERIOD/OBS_VALUE columns")
	}

	one := decimal.NewFromInt(1)
	series := make(domain.DailySeries, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) <= timeCol || len(rec) <= valueCol || rec[valueCol] == "" {
			continue
		}
		date, err := time.Parse("2006-01-02", rec[timeCol])
		if err != nil {
			return nil, fmt.Errorf("invalid observation date %q", rec[timeCol])
		}
		rate, err := decimal.NewFromString(rec[valueCol])
		if err != nil {
			return nil, fmt.Errorf("invalid observation value %q", rec[valueCol])
		}
		if invert {
			if rate.IsZero() {
				continue
			}
			rate = one.DivRound(rate, 10)
		}
		series[domain.Day(date)] = rate
	}
	return series, nil
}

func dailyCalendar(start, end time.Time) []time.Time {
	var days []time.Time
	for d := domain.Day(start); !d.After(domain.Day(end)); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}
