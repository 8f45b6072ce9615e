package quote

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestExchangeRateIdentityPair(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		t.Errorf("identity pair must not hit the API, got %s", r.URL.Path)
	}))
	defer server.Close()
	client := NewECBClient(server.URL, time.Second, 0, time.Millisecond)

	series, err := client.ExchangeRate(context.Background(), "EUR", "EUR", day(2024, 1, 1), day(2024, 1, 3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(series) != 3 {
		t.Fatalf("got %d days, want 3", len(series))
	}
	if !series[day(2024, 1, 2)].Equal(decimal.NewFromInt(1)) {
		t.Errorf("identity rate = %v, want 1", series[day(2024, 1, 2)])
	}
}

func TestExchangeRateInvertsPublishedQuote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/D.USD.EUR.SP00.A") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("format"); got != "csvdata" {
			t.Errorf("format = %q, want csvdata", got)
		}
		fmt.Fprint(w, "KEY,FREQ,CURRENCY,TIME_PERIOD,OBS_VALUE\n"+
			"EXR.D.USD.EUR.SP00.A,D,USD,2024-01-02,1.25\n"+
			"EXR.D.USD.EUR.SP00.A,D,USD,2024-01-03,1.0\n")
	}))
	defer server.Close()
	client := NewECBClient(server.URL, time.Second, 0, time.Millisecond)

	series, err := client.ExchangeRate(context.Background(), "USD", "EUR", day(2024, 1, 2), day(2024, 1, 3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 1.25 USD per EUR means 0.8 EUR per USD.
	if !series[day(2024, 1, 2)].Equal(decimal.RequireFromString("0.8")) {
		t.Errorf("USD/EUR rate = %v, want 0.8", series[day(2024, 1, 2)])
	}
	if !series[day(2024, 1, 3)].Equal(decimal.NewFromInt(1)) {
		t.Errorf("USD/EUR rate = %v, want 1", series[day(2024, 1, 3)])
	}
}

func TestExchangeRateEURBase(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/D.USD.EUR.SP00.A") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		fmt.Fprint(w, "TIME_PERIOD,OBS_VALUE\n2024-01-02,1.25\n")
	}))
	defer server.Close()
	client := NewECBClient(server.URL, time.Second, 0, time.Millisecond)

	series, err := client.ExchangeRate(context.Background(), "EUR", "USD", day(2024, 1, 2), day(2024, 1, 2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// EUR base keeps the published USD-per-EUR quote as-is.
	if !series[day(2024, 1, 2)].Equal(decimal.RequireFromString("1.25")) {
		t.Errorf("EUR/USD rate = %v, want 1.25", series[day(2024, 1, 2)])
	}
}

func TestExchangeRateUnsupportedPair(t *testing.T) {
	client := NewECBClient("http://unused", time.Second, 0, time.Millisecond)
	_, err := client.ExchangeRate(context.Background(), "USD", "GBP", day(2024, 1, 1), day(2024, 1, 2))
	if err == nil || !strings.Contains(err.Error(), "unsupported pair") {
		t.Errorf("error = %v, want unsupported pair", err)
	}
}

func TestParseEXRCSVMissingColumns(t *testing.T) {
	_, err := parseEXRCSV([]byte("KEY,FREQ\nx,y\n"), false)
	if err == nil {
		t.Error("expected error for payload without observation columns")
	}
}
