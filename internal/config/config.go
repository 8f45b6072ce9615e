package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	YahooURL          string
	FigiURL           string
	ECBURL            string
	HTTPTimeout       time.Duration
	RetryMax          int
	RetryBaseDelay    time.Duration
	ListingCacheTTL   time.Duration
	PriceCacheTTL     time.Duration
	ReportingCurrency string

	SheetsSpreadsheetID   string
	SheetsCredentialsJSON string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		YahooURL:          envOrDefault("YAHOO_URL", "https://query2.finance.yahoo.com"),
		FigiURL:           envOrDefault("FIGI_URL", "https://api.openfigi.com"),
		ECBURL:            envOrDefault("ECB_URL", "https://data-api.ecb.europa.eu/service/data/EXR"),
		HTTPTimeout:       envOrDefaultDuration("HTTP_TIMEOUT", 30*time.Second),
		RetryMax:          envOrDefaultInt("RETRY_MAX", 5),
		RetryBaseDelay:    envOrDefaultDuration("RETRY_BASE_DELAY", 2*time.Second),
		ListingCacheTTL:   envOrDefaultDuration("LISTING_CACHE_TTL", 15*time.Minute),
		PriceCacheTTL:     envOrDefaultDuration("PRICE_CACHE_TTL", 15*time.Minute),
		ReportingCurrency: envOrDefault("REPORTING_CURRENCY", "EUR"),

		SheetsSpreadsheetID:   envOrDefault("SHEETS_SPREADSHEET_ID", ""),
		SheetsCredentialsJSON: envOrDefault("SHEETS_CREDENTIALS_JSON", ""),
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envOrDefaultInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			slog.Warn("invalid integer env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return n
	}
	return defaultVal
}

func envOrDefaultDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return d
	}
	return defaultVal
}
