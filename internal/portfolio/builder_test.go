package portfolio

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/brokerstat/brokerstat/internal/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func line(ts time.Time, isin string, category domain.LineType, amount, shares int64) domain.TransactionLine {
	return domain.TransactionLine{
		Timestamp: ts,
		ISIN:      isin,
		Currency:  "EUR",
		Category:  category,
		Amount:    decimal.NewFromInt(amount),
		Shares:    decimal.NewFromInt(shares),
	}
}

const isin = "IE00ACME1234"

func TestBuildBuyAndSell(t *testing.T) {
	stmt := domain.Statement{
		line(day(2024, 1, 1).Add(9*time.Hour), "", domain.LineDeposit, 1000, 0),
		line(day(2024, 1, 2).Add(10*time.Hour), isin, domain.LineBuy, -500, 10),
	}
	now := day(2024, 1, 6)

	ledger := Build(stmt, now)

	// Buy of 10 @ ~50: cash holding down by 500, asset basis up by 500.
	cash, ok := ledger.Position(day(2024, 1, 2), "EUR")
	if !ok {
		t.Fatal("missing EUR cash position")
	}
	if !cash.Holding.Equal(decimal.NewFromInt(500)) {
		t.Errorf("cash holding = %s, want 500", cash.Holding)
	}
	if !cash.Investment.Equal(decimal.NewFromInt(500)) {
		t.Errorf("cash investment = %s, want 500", cash.Investment)
	}

	pos, ok := ledger.Position(day(2024, 1, 2), isin)
	if !ok {
		t.Fatal("missing security position")
	}
	if !pos.Holding.Equal(decimal.NewFromInt(10)) {
		t.Errorf("holding = %s, want 10", pos.Holding)
	}
	if !pos.Investment.Equal(decimal.NewFromInt(500)) {
		t.Errorf("investment = %s, want 500", pos.Investment)
	}
}

func TestBuildFullSaleReversesBasis(t *testing.T) {
	stmt := domain.Statement{
		line(day(2024, 1, 1).Add(9*time.Hour), "", domain.LineDeposit, 1000, 0),
		line(day(2024, 1, 2).Add(10*time.Hour), isin, domain.LineBuy, -500, 10),
		line(day(2024, 1, 3).Add(11*time.Hour), isin, domain.LineSell, 550, -10),
	}
	ledger := Build(stmt, day(2024, 1, 6))

	// The asset nets to zero holding and leaves the active set.
	if _, ok := ledger.Position(day(2024, 1, 3), isin); ok {
		t.Error("zero-holding asset should be dropped from its closing day onward")
	}
	if _, ok := ledger.Position(day(2024, 1, 5), isin); ok {
		t.Error("closed asset must stay absent on later days")
	}

	// Cash reflects the proceeds: 1000 - 500 + 550.
	cash, _ := ledger.Position(day(2024, 1, 3), "EUR")
	if !cash.Holding.Equal(decimal.NewFromInt(1050)) {
		t.Errorf("cash holding = %s, want 1050", cash.Holding)
	}
}

func TestBuildForwardFill(t *testing.T) {
	stmt := domain.Statement{
		line(day(2024, 1, 1).Add(9*time.Hour), "", domain.LineDeposit, 1000, 0),
		line(day(2024, 1, 2).Add(10*time.Hour), isin, domain.LineBuy, -500, 10),
	}
	ledger := Build(stmt, day(2024, 1, 8))

	// No transactions between Jan 3 and Jan 7: the state repeats daily.
	for dd := 3; dd <= 7; dd++ {
		pos, ok := ledger.Position(day(2024, 1, dd), isin)
		if !ok {
			t.Fatalf("missing forward-filled row on 2024-01-%02d", dd)
		}
		if !pos.Holding.Equal(decimal.NewFromInt(10)) {
			t.Errorf("holding on day %d = %s, want 10", dd, pos.Holding)
		}
	}

	if got, want := len(ledger.Dates), 7; got != want {
		t.Errorf("calendar spans %d days, want %d (first date through yesterday)", got, want)
	}
}

func TestBuildSnapshotsAreIndependent(t *testing.T) {
	stmt := domain.Statement{
		line(day(2024, 1, 1).Add(9*time.Hour), "", domain.LineDeposit, 100, 0),
		line(day(2024, 1, 3).Add(9*time.Hour), "", domain.LineDeposit, 100, 0),
	}
	ledger := Build(stmt, day(2024, 1, 5))

	first, _ := ledger.Position(day(2024, 1, 1), "EUR")
	third, _ := ledger.Position(day(2024, 1, 3), "EUR")
	if !first.Holding.Equal(decimal.NewFromInt(100)) {
		t.Errorf("day one holding = %s, want 100", first.Holding)
	}
	if !third.Holding.Equal(decimal.NewFromInt(200)) {
		t.Errorf("day three holding = %s, want 200", third.Holding)
	}

	// Mutating one snapshot must not leak into another.
	first.Holding = decimal.NewFromInt(-1)
	second, _ := ledger.Position(day(2024, 1, 2), "EUR")
	if !second.Holding.Equal(decimal.NewFromInt(100)) {
		t.Error("forward-filled rows alias an earlier snapshot")
	}
}

func TestBuildRoundTrip(t *testing.T) {
	// Final per-asset holdings must equal the direct sum of signed deltas
	// over the whole statement: no double counting, no drift.
	stmt := domain.Statement{
		line(day(2024, 1, 1).Add(9*time.Hour), "", domain.LineDeposit, 2000, 0),
		line(day(2024, 1, 2).Add(10*time.Hour), isin, domain.LineBuy, -500, 10),
		line(day(2024, 1, 2).Add(11*time.Hour), isin, domain.LineBuy, -250, 5),
		line(day(2024, 1, 3).Add(9*time.Hour), isin, domain.LineSell, 330, -6),
		line(day(2024, 1, 4).Add(9*time.Hour), "", domain.LineWithdrawal, -100, 0),
	}
	ledger := Build(stmt, day(2024, 1, 6))
	last := ledger.End()

	wantCash := decimal.NewFromInt(2000 - 500 - 250 + 330 - 100)
	wantShares := decimal.NewFromInt(10 + 5 - 6)

	cash, _ := ledger.Position(last, "EUR")
	if !cash.Holding.Equal(wantCash) {
		t.Errorf("final cash = %s, want %s", cash.Holding, wantCash)
	}
	pos, _ := ledger.Position(last, isin)
	if !pos.Holding.Equal(wantShares) {
		t.Errorf("final shares = %s, want %s", pos.Holding, wantShares)
	}
}

func TestBuildEmptyStatement(t *testing.T) {
	ledger := Build(domain.Statement{}, day(2024, 1, 6))
	if !ledger.IsEmpty() {
		t.Error("empty statement must produce an empty ledger")
	}
}

func TestBuildExcludesOtherLines(t *testing.T) {
	stmt := domain.Statement{
		line(day(2024, 1, 1).Add(9*time.Hour), "", domain.LineDeposit, 100, 0),
		line(day(2024, 1, 1).Add(10*time.Hour), "", domain.LineOther, 999, 0),
	}
	ledger := Build(stmt, day(2024, 1, 3))
	cash, _ := ledger.Position(day(2024, 1, 1), "EUR")
	if !cash.Holding.Equal(decimal.NewFromInt(100)) {
		t.Errorf("cash = %s, want 100 (other lines excluded)", cash.Holding)
	}
}
