package statement

import (
	"fmt"
	"regexp"

	"github.com/shopspring/decimal"

	"github.com/brokerstat/brokerstat/internal/domain"
)

// TradeGrammar extracts share counts and unit prices from buy/sell line
// descriptions. Phrasing is broker specific, so the keywords are data rather
// than constants: "Koop 10 @ 24,5 EUR" at DEGIRO, something else elsewhere.
type TradeGrammar struct {
	buyPattern  *regexp.Regexp
	sellPattern *regexp.Regexp
}

// NewTradeGrammar compiles a grammar from the broker's buy and sell
// keywords. The quantity follows the keyword, the unit price follows the
// "@" marker.
func NewTradeGrammar(buyKeyword, sellKeyword string) TradeGrammar {
	pattern := func(keyword string) *regexp.Regexp {
		return regexp.MustCompile(`(?i)` + regexp.QuoteMeta(keyword) + `\s+([0-9.,]+)\s*@\s*([0-9.,]+)`)
	}
	return TradeGrammar{
		buyPattern:  pattern(buyKeyword),
		sellPattern: pattern(sellKeyword),
	}
}

// DegiroGrammar returns the grammar for Dutch-locale DEGIRO statements.
func DegiroGrammar() TradeGrammar {
	return NewTradeGrammar("koop", "verkoop")
}

// Extract parses the signed share quantity and unit price out of a trade
// description. Sell quantities come back negative. A description that does
// not carry both tokens is a fatal parse error: the line was classified as a
// trade and cannot be replayed without them.
func (g TradeGrammar) Extract(description string, category domain.LineType) (shares, price decimal.Decimal, err error) {
	var pattern *regexp.Regexp
	switch category {
	case domain.LineBuy:
		pattern = g.buyPattern
	case domain.LineSell:
		pattern = g.sellPattern
	default:
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: %s line has no trade tokens", domain.ErrParse, category)
	}

	matches := pattern.FindStringSubmatch(description)
	if matches == nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: no share/price tokens in %q", domain.ErrParse, description)
	}

	shares, err = domain.ParseDecimal(matches[1])
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("share count in %q: %w", description, err)
	}
	price, err = domain.ParseDecimal(matches[2])
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("unit price in %q: %w", description, err)
	}

	if category == domain.LineSell {
		shares = shares.Neg()
	}
	return shares, price, nil
}
