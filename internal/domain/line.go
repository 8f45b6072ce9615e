package domain

import (
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// LineType is the semantic category of a statement line, derived from its
// free-text description.
type LineType string

const (
	LineDeposit    LineType = "deposit"
	LineWithdrawal LineType = "withdrawal"
	LineFX         LineType = "fx"
	LineSell       LineType = "sell"
	LineBuy        LineType = "buy"
	LineDividend   LineType = "dividend"
	LineInterest   LineType = "interest"
	LineRebate     LineType = "rebate"
	LineCost       LineType = "cost"
	LineOther      LineType = "other"
)

// LineTypes lists all categories in classification priority order.
var LineTypes = []LineType{
	LineDeposit, LineWithdrawal, LineFX, LineSell, LineBuy,
	LineDividend, LineInterest, LineRebate, LineCost, LineOther,
}

// TransactionLine is one entry of the account statement. Lines are created
// once by the parser and immutable afterwards.
type TransactionLine struct {
	Timestamp   time.Time // combined date+time sort key
	ValueDate   time.Time
	Name        string // product or account name
	ISIN        string // empty for pure cash movements
	Description string
	FX          *decimal.Decimal // nil when no FX rate applies
	Mutation    *decimal.Decimal // amount in transaction currency, nil for plain lines
	Amount      decimal.Decimal  // net cash amount
	Currency    string
	Balance     decimal.Decimal // running account balance
	OrderID     string
	Category    LineType
	Shares      decimal.Decimal // signed quantity, buy/sell only
	Price       decimal.Decimal // unit price, buy/sell only
}

// Date returns the calendar day of the line's timestamp.
func (l TransactionLine) Date() time.Time {
	return Day(l.Timestamp)
}

// IsTrade reports whether the line moves a security position.
func (l TransactionLine) IsTrade() bool {
	return l.Category == LineBuy || l.Category == LineSell
}

// Statement is a full classified account statement, sorted ascending by
// timestamp. Lines categorized `other` are retained for display but skipped
// during portfolio replay.
type Statement []TransactionLine

// Replayable returns the lines that participate in portfolio reconstruction.
func (s Statement) Replayable() Statement {
	return lo.Filter(s, func(l TransactionLine, _ int) bool {
		return l.Category != LineOther
	})
}

// ISINs returns the distinct security identifiers, in order of first
// appearance.
func (s Statement) ISINs() []string {
	return lo.FilterMap(lo.UniqBy(s, func(l TransactionLine) string { return l.ISIN }),
		func(l TransactionLine, _ int) (string, bool) {
			return l.ISIN, l.ISIN != ""
		})
}

// Currencies returns the distinct transaction currencies, in order of first
// appearance.
func (s Statement) Currencies() []string {
	return lo.FilterMap(lo.UniqBy(s, func(l TransactionLine) string { return l.Currency }),
		func(l TransactionLine, _ int) (string, bool) {
			return l.Currency, l.Currency != ""
		})
}

// Day truncates a timestamp to its UTC calendar day. All ledger and series
// dates are normalized through it so they compare and hash equal.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
