package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/brokerstat/brokerstat/internal/account"
	"github.com/brokerstat/brokerstat/internal/analytics"
	"github.com/brokerstat/brokerstat/internal/config"
	"github.com/brokerstat/brokerstat/internal/export"
	"github.com/brokerstat/brokerstat/internal/quote"
	"github.com/brokerstat/brokerstat/internal/statement"
	"github.com/brokerstat/brokerstat/internal/valuation"
)

// annualizationFreq is the trading-day count used to annualize statistics.
const annualizationFreq = 252

func main() {
	app := &cli.App{
		Name:  "brokerstat",
		Usage: "analyze a DEGIRO account statement export",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "statement",
				Aliases:  []string{"s"},
				Usage:    "path to the Account.csv statement export",
				Required: true,
			},
			&cli.StringSliceFlag{
				Name:  "ticker",
				Usage: "ISIN=SYMBOL ticker override, repeatable",
			},
			&cli.StringFlag{
				Name:  "rules",
				Usage: "TOML file overriding the line classification rules",
			},
			&cli.StringFlag{
				Name:  "period",
				Usage: fmt.Sprintf("analysis window, one of: %s", strings.Join(analytics.Periods, ", ")),
				Value: analytics.PeriodFull,
			},
			&cli.StringFlag{
				Name:  "xlsx",
				Usage: "also save the report as an Excel workbook at this path",
			},
			&cli.BoolFlag{
				Name:  "sheets",
				Usage: "also publish the report to Google Sheets (SHEETS_* env vars)",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}
	cfg := config.Load()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	overrides, err := parseOverrides(c.StringSlice("ticker"))
	if err != nil {
		return err
	}

	parser, err := buildParser(c.String("rules"))
	if err != nil {
		return err
	}

	yahoo := quote.NewYahooClient(cfg.YahooURL, cfg.HTTPTimeout, cfg.RetryMax, cfg.RetryBaseDelay)
	figi := quote.NewFIGIClient(cfg.FigiURL, cfg.HTTPTimeout, cfg.RetryMax, cfg.RetryBaseDelay)
	ecb := quote.NewECBClient(cfg.ECBURL, cfg.HTTPTimeout, cfg.RetryMax, cfg.RetryBaseDelay)
	lookup := quote.NewCachedLookup(yahoo, cfg.ListingCacheTTL)
	prices := quote.NewCachedPrices(yahoo, cfg.PriceCacheTTL)

	resolver := account.NewResolver(lookup, figi, logger)
	enricher := valuation.NewService(prices, ecb, cfg.ReportingCurrency)
	loader := account.NewLoader(parser, resolver, enricher, logger, time.Now)

	f, err := os.Open(c.String("statement"))
	if err != nil {
		return fmt.Errorf("opening statement: %w", err)
	}
	defer f.Close()

	acct, err := loader.Load(ctx, f, overrides)
	if err != nil {
		return err
	}
	if acct.Ledger.IsEmpty() {
		return fmt.Errorf("statement contains no replayable transactions")
	}

	period := c.String("period")
	start, end, err := analytics.PeriodBounds(period, acct.Ledger.Dates)
	if err != nil {
		return err
	}

	report := export.Report{
		Period:      period,
		Start:       start,
		End:         end,
		Performance: export.ReturnMetrics(acct.Returns.Slice(start, end), annualizationFreq),
		Balance: export.BalanceMetrics(acct.Ledger, start, end,
			acct.Statement.ISINs(), acct.Statement.Currencies()),
		Ledger: acct.Ledger,
	}

	printReport(report)

	if path := c.String("xlsx"); path != "" {
		if err := export.NewXLSXWriter(path).Write(ctx, report); err != nil {
			return fmt.Errorf("writing workbook: %w", err)
		}
		logger.Info("workbook saved", "path", path)
	}

	if c.Bool("sheets") {
		writer, err := export.NewSheetsWriter(ctx, cfg.SheetsSpreadsheetID, cfg.SheetsCredentialsJSON)
		if err != nil {
			return fmt.Errorf("creating sheets writer: %w", err)
		}
		if err := writer.Write(ctx, report); err != nil {
			return fmt.Errorf("publishing to sheets: %w", err)
		}
		logger.Info("report published", "spreadsheet", cfg.SheetsSpreadsheetID)
	}

	return nil
}

func buildParser(rulesPath string) (*statement.Parser, error) {
	if rulesPath == "" {
		return statement.NewDegiroParser(), nil
	}
	rules, err := statement.LoadRules(rulesPath)
	if err != nil {
		return nil, fmt.Errorf("loading classification rules: %w", err)
	}
	return statement.NewParser(statement.NewClassifier(rules), statement.DegiroGrammar()), nil
}

func parseOverrides(pairs []string) (map[string]string, error) {
	overrides := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		isin, symbol, ok := strings.Cut(pair, "=")
		if !ok || isin == "" || symbol == "" {
			return nil, fmt.Errorf("invalid ticker override %q, want ISIN=SYMBOL", pair)
		}
		overrides[isin] = symbol
	}
	return overrides, nil
}

func printReport(report export.Report) {
	fmt.Printf("Period: %s (%s to %s)\n\n", report.Period,
		report.Start.Format("2006-01-02"), report.End.Format("2006-01-02"))

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PERFORMANCE\t")
	for _, row := range report.Performance {
		fmt.Fprintf(w, "%s\t%s\n", row.Name, row.Value)
	}
	fmt.Fprintln(w, "\t")
	fmt.Fprintln(w, "BALANCE\t")
	for _, row := range report.Balance {
		fmt.Fprintf(w, "%s\t%s\n", row.Name, row.Value)
	}
	w.Flush()
}
