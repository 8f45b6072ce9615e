package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFIGITickers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v3/mapping" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		var body []figiMappingRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if len(body) != 1 || body[0].IDType != "ID_ISIN" || body[0].IDValue != "IE00ACME1234" {
			t.Errorf("unexpected request body %+v", body)
		}
		fmt.Fprint(w, `[{"data":[
			{"ticker":"ACME"},
			{"ticker":"ACME"},
			{"ticker":""},
			{"ticker":"ACM"}]}]`)
	}))
	defer server.Close()
	client := NewFIGIClient(server.URL, time.Second, 0, time.Millisecond)

	tickers, err := client.Tickers(context.Background(), "IE00ACME1234")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tickers) != 2 || tickers[0] != "ACME" || tickers[1] != "ACM" {
		t.Errorf("tickers = %v, want [ACME ACM]", tickers)
	}
}

func TestFIGITickersEmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `[]`)
	}))
	defer server.Close()
	client := NewFIGIClient(server.URL, time.Second, 0, time.Millisecond)

	tickers, err := client.Tickers(context.Background(), "XX0000000000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tickers != nil {
		t.Errorf("tickers = %v, want nil", tickers)
	}
}
