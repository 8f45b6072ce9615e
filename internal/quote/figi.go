package quote

import (
	"context"
	"time"
)

// FIGIClient maps ISINs to exchange tickers through the OpenFIGI mapping
// API. The same ISIN may trade on several exchanges; tickers come back
// unique, ordered by first occurrence in the response.
type FIGIClient struct {
	baseURL string
	rest    *restClient
}

// NewFIGIClient creates an OpenFIGI client.
func NewFIGIClient(baseURL string, timeout time.Duration, maxRetries int, baseDelay time.Duration) *FIGIClient {
	return &FIGIClient{
		baseURL: baseURL,
		rest:    newRESTClient(timeout, maxRetries, baseDelay),
	}
}

type figiMappingRequest struct {
	IDType  string `json:"idType"`
	IDValue string `json:"idValue"`
}

type figiMappingResponse []struct {
	Data []struct {
		Ticker string `json:"ticker"`
	} `json:"data"`
}

// Tickers returns the exchange tickers associated with the ISIN.
func (f *FIGIClient) Tickers(ctx context.Context, isin string) ([]string, error) {
	payload := []figiMappingRequest{{IDType: "ID_ISIN", IDValue: isin}}

	var response figiMappingResponse
	if err := f.rest.postJSON(ctx, f.baseURL+"/v3/mapping", payload, &response); err != nil {
		return nil, err
	}
	if len(response) == 0 {
		return nil, nil
	}

	seen := make(map[string]bool)
	var tickers []string
	for _, obs := range response[0].Data {
		if obs.Ticker == "" || seen[obs.Ticker] {
			continue
		}
		seen[obs.Ticker] = true
		tickers = append(tickers, obs.Ticker)
	}
	return tickers, nil
}
