// Package account assembles a fully enriched account view from a raw
// statement: parsed lines, the replayed daily ledger with market values, and
// the daily return series derived from it.
package account

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/brokerstat/brokerstat/internal/analytics"
	"github.com/brokerstat/brokerstat/internal/domain"
	"github.com/brokerstat/brokerstat/internal/portfolio"
)

// internalCashISIN is the broker's synthetic identifier for the cash account
// itself. It never resolves to a listed security.
const internalCashISIN = "NLFLATEXACNT"

// StatementParser turns a raw statement export into classified lines.
type StatementParser interface {
	Parse(r io.Reader) (domain.Statement, error)
}

// Enricher joins market prices and exchange rates onto a ledger.
type Enricher interface {
	Enrich(ctx context.Context, ledger *domain.Ledger, tickerByISIN map[string]string, currencies []string) error
}

// Account is the enriched view of one brokerage account.
type Account struct {
	Statement domain.Statement
	Ledger    *domain.Ledger
	Tickers   map[string]string // ISIN to resolved exchange ticker
	Returns   analytics.Series
}

// Loader orchestrates the load pipeline.
type Loader struct {
	parser   StatementParser
	resolver *Resolver
	enricher Enricher
	logger   *slog.Logger
	now      func() time.Time
}

// NewLoader creates a loader. now is injectable so the ledger calendar end is
// testable; pass time.Now in production.
func NewLoader(parser StatementParser, resolver *Resolver, enricher Enricher, logger *slog.Logger, now func() time.Time) *Loader {
	return &Loader{
		parser:   parser,
		resolver: resolver,
		enricher: enricher,
		logger:   logger,
		now:      now,
	}
}

// Load parses the statement, resolves each security to a ticker, replays the
// daily portfolio, joins market data onto it, and derives daily returns.
// overrides maps ISINs to tickers and bypasses resolution for those entries.
func (l *Loader) Load(ctx context.Context, r io.Reader, overrides map[string]string) (*Account, error) {
	stmt, err := l.parser.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing statement: %w", err)
	}
	l.logger.Info("statement parsed", "lines", len(stmt), "securities", len(stmt.ISINs()))

	tickers, err := l.resolver.Resolve(ctx, stmt, overrides)
	if err != nil {
		return nil, fmt.Errorf("resolving tickers: %w", err)
	}

	ledger := portfolio.Build(stmt, l.now())
	if err := l.enricher.Enrich(ctx, ledger, tickers, stmt.Currencies()); err != nil {
		return nil, fmt.Errorf("enriching ledger: %w", err)
	}

	returns := TimeWeightedReturns(ledger, stmt)
	l.logger.Info("account loaded",
		"days", len(ledger.Dates), "returns", returns.Len())

	return &Account{
		Statement: stmt,
		Ledger:    ledger,
		Tickers:   tickers,
		Returns:   returns,
	}, nil
}
