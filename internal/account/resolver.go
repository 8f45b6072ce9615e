package account

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/brokerstat/brokerstat/internal/domain"
)

// LookupSource searches listings by security name.
type LookupSource interface {
	Lookup(ctx context.Context, name string) (map[string]domain.Listing, error)
}

// MappingSource maps an ISIN to candidate exchange tickers.
type MappingSource interface {
	Tickers(ctx context.Context, isin string) ([]string, error)
}

// Resolver picks one exchange ticker per ISIN. Candidates from the ISIN
// mapping take precedence; a name search backs them up. A candidate only
// qualifies when its listing currency matches the currency the security
// trades in on the statement, so prices join in the right denomination.
type Resolver struct {
	lookup  LookupSource
	mapping MappingSource
	logger  *slog.Logger
}

// NewResolver creates a resolver.
func NewResolver(lookup LookupSource, mapping MappingSource, logger *slog.Logger) *Resolver {
	return &Resolver{lookup: lookup, mapping: mapping, logger: logger}
}

type securityInfo struct {
	name     string
	currency string
}

// Resolve maps every security in the statement to a ticker. overrides win
// outright and skip both sources. The broker's internal cash identifier is
// ignored.
func (r *Resolver) Resolve(ctx context.Context, stmt domain.Statement, overrides map[string]string) (map[string]string, error) {
	securities := tradedSecurities(stmt)

	tickers := make(map[string]string, len(securities))
	for _, isin := range stmt.ISINs() {
		if isin == internalCashISIN {
			continue
		}
		if ticker, ok := overrides[isin]; ok {
			tickers[isin] = ticker
			continue
		}
		info, ok := securities[isin]
		if !ok {
			continue
		}

		ticker, err := r.resolveOne(ctx, isin, info)
		if err != nil {
			return nil, fmt.Errorf("resolving %s (%s): %w", isin, info.name, err)
		}
		r.logger.Debug("ticker resolved", "isin", isin, "ticker", ticker, "currency", info.currency)
		tickers[isin] = ticker
	}
	return tickers, nil
}

func (r *Resolver) resolveOne(ctx context.Context, isin string, info securityInfo) (string, error) {
	candidates, err := r.mapping.Tickers(ctx, isin)
	if err != nil {
		return "", err
	}
	listings, err := r.lookup.Lookup(ctx, info.name)
	if err != nil {
		return "", err
	}

	for _, candidate := range candidates {
		if listing, ok := listings[candidate]; ok && listing.Currency == info.currency {
			return candidate, nil
		}
	}

	// Fall back to any listing in the right currency, smallest symbol first
	// for determinism.
	symbols := make([]string, 0, len(listings))
	for symbol, listing := range listings {
		if listing.Currency == info.currency {
			symbols = append(symbols, symbol)
		}
	}
	if len(symbols) == 0 {
		return "", fmt.Errorf("no listing denominated in %s", info.currency)
	}
	sort.Strings(symbols)
	return symbols[0], nil
}

// tradedSecurities extracts the display name and trading currency of each
// security from its first trade line.
func tradedSecurities(stmt domain.Statement) map[string]securityInfo {
	securities := make(map[string]securityInfo)
	for _, line := range stmt {
		if !line.IsTrade() || line.ISIN == "" {
			continue
		}
		if _, ok := securities[line.ISIN]; !ok {
			securities[line.ISIN] = securityInfo{name: line.Name, currency: line.Currency}
		}
	}
	return securities
}
