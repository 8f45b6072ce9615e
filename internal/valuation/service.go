// Package valuation joins external close-price and exchange-rate series onto
// the reconstructed portfolio ledger.
package valuation

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"

	"github.com/brokerstat/brokerstat/internal/domain"
)

// PriceSource returns daily closing prices per ticker over a window.
type PriceSource interface {
	ClosingPrices(ctx context.Context, tickers []string, start, end time.Time) (domain.PriceTable, error)
}

// RateSource returns a daily exchange-rate series: how many quote-currency
// units one base unit is worth.
type RateSource interface {
	ExchangeRate(ctx context.Context, base, quote string, start, end time.Time) (domain.DailySeries, error)
}

// Service enriches a ledger with market prices and computed values.
type Service struct {
	prices            PriceSource
	rates             RateSource
	reportingCurrency string
}

// NewService creates a valuation service reporting in the given currency.
func NewService(prices PriceSource, rates RateSource, reportingCurrency string) *Service {
	return &Service{prices: prices, rates: rates, reportingCurrency: reportingCurrency}
}

// Enrich attaches a close price to every (date, asset) row it can price and
// computes value = holding × close in place. Security rows use the close
// series of their resolved ticker, keyed back under the ISIN; cash rows use
// the currency's exchange rate against the reporting currency, an identity
// series of 1.0 for the reporting currency itself. Rows without a price stay
// unvalued rather than defaulting to zero. Series are forward-filled onto
// the ledger calendar, so non-trading days carry the last known quote.
func (s *Service) Enrich(ctx context.Context, ledger *domain.Ledger, tickerByISIN map[string]string, currencies []string) error {
	if ledger.IsEmpty() {
		return nil
	}
	start, end := ledger.Start(), ledger.End()

	closeByAsset := make(map[string]domain.DailySeries)

	tickers := lo.Uniq(lo.Values(tickerByISIN))
	if len(tickers) > 0 {
		table, err := s.prices.ClosingPrices(ctx, tickers, start, end)
		if err != nil {
			return fmt.Errorf("fetching close prices: %w", err)
		}
		for isin, ticker := range tickerByISIN {
			if series, ok := table[ticker]; ok {
				closeByAsset[isin] = series.ForwardFill(ledger.Dates)
			}
		}
	}

	for _, currency := range currencies {
		if currency == s.reportingCurrency {
			closeByAsset[currency] = domain.IdentitySeries(ledger.Dates)
			continue
		}
		series, err := s.rates.ExchangeRate(ctx, currency, s.reportingCurrency, start, end)
		if err != nil {
			return fmt.Errorf("fetching %s/%s exchange rate: %w", currency, s.reportingCurrency, err)
		}
		closeByAsset[currency] = series.ForwardFill(ledger.Dates)
	}

	for _, date := range ledger.Dates {
		for asset, pos := range ledger.At(date) {
			series, ok := closeByAsset[asset]
			if !ok {
				continue
			}
			close, ok := series[date]
			if !ok {
				continue
			}
			value := pos.Holding.Mul(close)
			pos.Close = &close
			pos.Value = &value
		}
	}

	return nil
}
