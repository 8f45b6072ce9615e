// Package quote implements the external market-data collaborators: security
// lookup, daily close prices, and exchange rates.
package quote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Lookup failure sentinels, surfaced to the caller together with the
// offending identifier.
var (
	ErrNoListings  = errors.New("no listings found")
	ErrNoPriceData = errors.New("no price data returned")
)

// restClient is a small HTTP helper shared by the quote clients, with
// exponential backoff on 429 responses. Other non-2xx statuses fail
// immediately, carrying the status code in the error.
type restClient struct {
	httpClient *http.Client
	maxRetries int
	baseDelay  time.Duration
}

func newRESTClient(timeout time.Duration, maxRetries int, baseDelay time.Duration) *restClient {
	return &restClient{
		httpClient: &http.Client{Timeout: timeout},
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
	}
}

func (c *restClient) do(ctx context.Context, method, url string, payload []byte, header http.Header) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < c.maxRetries+1; attempt++ {
		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, body)
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		for key, values := range header {
			req.Header[key] = values
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("executing request: %w", err)
		}

		data, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("reading response: %w", err)
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return data, nil
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			lastErr = fmt.Errorf("HTTP 429 at %s (attempt %d/%d)", url, attempt+1, c.maxRetries+1)
			if attempt < c.maxRetries {
				delay := c.baseDelay * time.Duration(1<<uint(attempt))
				select {
				case <-ctx.Done():
					return nil, ctx.Err()
				case <-time.After(delay):
				}
				continue
			}
			return nil, lastErr
		}

		return nil, fmt.Errorf("HTTP %d from %s: %s", resp.StatusCode, url, string(data))
	}

	return nil, lastErr
}

func (c *restClient) getJSON(ctx context.Context, url string, dest any) error {
	data, err := c.do(ctx, http.MethodGet, url, nil, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("parsing JSON from %s: %w", url, err)
	}
	return nil
}

func (c *restClient) postJSON(ctx context.Context, url string, payload, dest any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding request body: %w", err)
	}
	header := http.Header{"Content-Type": []string{"application/json"}}
	data, err := c.do(ctx, http.MethodPost, url, raw, header)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("parsing JSON from %s: %w", url, err)
	}
	return nil
}
