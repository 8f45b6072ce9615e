package quote

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/brokerstat/brokerstat/internal/domain"
)

// YahooClient talks to the public Yahoo Finance search and chart endpoints.
type YahooClient struct {
	baseURL string
	rest    *restClient
}

// NewYahooClient creates a Yahoo Finance client.
func NewYahooClient(baseURL string, timeout time.Duration, maxRetries int, baseDelay time.Duration) *YahooClient {
	return &YahooClient{
		baseURL: baseURL,
		rest:    newRESTClient(timeout, maxRetries, baseDelay),
	}
}

type searchResponse struct {
	Quotes []struct {
		Symbol    string `json:"symbol"`
		Longname  string `json:"longname"`
		Exchange  string `json:"exchange"`
		QuoteType string `json:"quoteType"`
	} `json:"quotes"`
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol   string `json:"symbol"`
				Currency string `json:"currency"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
	} `json:"chart"`
}

// Lookup performs a free-text search and returns all tradable listings by
// ticker. The denominated currency comes from each listing's chart metadata,
// which the search endpoint does not carry. ErrNoListings when the search
// yields nothing.
func (y *YahooClient) Lookup(ctx context.Context, name string) (map[string]domain.Listing, error) {
	var search searchResponse
	searchURL := fmt.Sprintf("%s/v1/finance/search?q=%s", y.baseURL, url.QueryEscape(name))
	if err := y.rest.getJSON(ctx, searchURL, &search); err != nil {
		return nil, err
	}

	listings := make(map[string]domain.Listing)
	for _, quote := range search.Quotes {
		if quote.Symbol == "" {
			continue
		}
		currency, err := y.listingCurrency(ctx, quote.Symbol)
		if err != nil {
			return nil, err
		}
		listings[quote.Symbol] = domain.Listing{
			Name:      quote.Longname,
			Exchange:  quote.Exchange,
			AssetType: quote.QuoteType,
			Currency:  currency,
		}
	}

	if len(listings) == 0 {
		return nil, fmt.Errorf("%w for %q", ErrNoListings, name)
	}
	return listings, nil
}

func (y *YahooClient) listingCurrency(ctx context.Context, symbol string) (string, error) {
	var chart chartResponse
	chartURL := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=1d", y.baseURL, url.PathEscape(symbol))
	if err := y.rest.getJSON(ctx, chartURL, &chart); err != nil {
		return "", err
	}
	if len(chart.Chart.Result) == 0 {
		return "", nil
	}
	return chart.Chart.Result[0].Meta.Currency, nil
}

// ClosingPrices retrieves daily closes for every ticker over [start, end],
// indexed by (date, ticker). ErrNoPriceData when no ticker returned any
// observation.
func (y *YahooClient) ClosingPrices(ctx context.Context, tickers []string, start, end time.Time) (domain.PriceTable, error) {
	table := make(domain.PriceTable, len(tickers))
	for _, ticker := range tickers {
		series, err := y.closes(ctx, ticker, start, end)
		if err != nil {
			return nil, fmt.Errorf("close prices for %s: %w", ticker, err)
		}
		if len(series) > 0 {
			table[ticker] = series
		}
	}
	if len(table) == 0 {
		return nil, fmt.Errorf("%w for %v", ErrNoPriceData, tickers)
	}
	return table, nil
}

func (y *YahooClient) closes(ctx context.Context, ticker string, start, end time.Time) (domain.DailySeries, error) {
	// period2 is exclusive; extend by one day so the end date is covered.
	chartURL := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&period1=%d&period2=%d",
		y.baseURL, url.PathEscape(ticker), start.Unix(), end.AddDate(0, 0, 1).Unix())

	var chart chartResponse
	if err := y.rest.getJSON(ctx, chartURL, &chart); err != nil {
		return nil, err
	}
	if len(chart.Chart.Result) == 0 {
		return nil, nil
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, nil
	}
	closes := result.Indicators.Quote[0].Close
	if len(closes) != len(result.Timestamp) {
		return nil, fmt.Errorf("mismatched timestamp/close lengths for %s", ticker)
	}

	series := make(domain.DailySeries, len(closes))
	for i, ts := range result.Timestamp {
		if closes[i] == nil {
			continue
		}
		series[domain.Day(time.Unix(ts, 0).UTC())] = decimal.NewFromFloat(*closes[i])
	}
	return series, nil
}
