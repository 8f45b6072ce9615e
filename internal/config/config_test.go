package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	// Clear any env vars that might affect defaults
	for _, key := range []string{"YAHOO_URL", "FIGI_URL", "ECB_URL", "RETRY_MAX", "REPORTING_CURRENCY"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg := Load()

	if cfg.YahooURL != "https://query2.finance.yahoo.com" {
		t.Errorf("YahooURL = %q, want default", cfg.YahooURL)
	}
	if cfg.FigiURL != "https://api.openfigi.com" {
		t.Errorf("FigiURL = %q, want default", cfg.FigiURL)
	}
	if cfg.ECBURL != "https://data-api.ecb.europa.eu/service/data/EXR" {
		t.Errorf("ECBURL = %q, want default", cfg.ECBURL)
	}
	if cfg.RetryMax != 5 {
		t.Errorf("RetryMax = %d, want 5", cfg.RetryMax)
	}
	if cfg.RetryBaseDelay != 2*time.Second {
		t.Errorf("RetryBaseDelay = %v, want 2s", cfg.RetryBaseDelay)
	}
	if cfg.ReportingCurrency != "EUR" {
		t.Errorf("ReportingCurrency = %q, want EUR", cfg.ReportingCurrency)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("YAHOO_URL", "https://yahoo.example.com")
	t.Setenv("REPORTING_CURRENCY", "USD")
	t.Setenv("RETRY_MAX", "10")
	t.Setenv("RETRY_BASE_DELAY", "5s")
	t.Setenv("LISTING_CACHE_TTL", "1h")

	cfg := Load()

	if cfg.YahooURL != "https://yahoo.example.com" {
		t.Errorf("YahooURL = %q, want override", cfg.YahooURL)
	}
	if cfg.ReportingCurrency != "USD" {
		t.Errorf("ReportingCurrency = %q, want USD", cfg.ReportingCurrency)
	}
	if cfg.RetryMax != 10 {
		t.Errorf("RetryMax = %d, want 10", cfg.RetryMax)
	}
	if cfg.RetryBaseDelay != 5*time.Second {
		t.Errorf("RetryBaseDelay = %v, want 5s", cfg.RetryBaseDelay)
	}
	if cfg.ListingCacheTTL != time.Hour {
		t.Errorf("ListingCacheTTL = %v, want 1h", cfg.ListingCacheTTL)
	}
}

func TestLoadInvalidEnvFallsBackToDefault(t *testing.T) {
	t.Setenv("RETRY_MAX", "not-a-number")
	t.Setenv("RETRY_BASE_DELAY", "invalid-duration")

	cfg := Load()

	if cfg.RetryMax != 5 {
		t.Errorf("RetryMax = %d, want default 5 on invalid input", cfg.RetryMax)
	}
	if cfg.RetryBaseDelay != 2*time.Second {
		t.Errorf("RetryBaseDelay = %v, want default 2s on invalid input", cfg.RetryBaseDelay)
	}
}
