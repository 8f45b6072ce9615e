// Package statement parses raw brokerage account statement CSVs into typed,
// classified transaction lines.
package statement

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml"
	"github.com/samber/lo"

	"github.com/brokerstat/brokerstat/internal/domain"
)

// Rule maps a line category to the description keywords that select it.
type Rule struct {
	Category domain.LineType
	Keywords []string
}

// DefaultRules is the DEGIRO keyword table. The order is load-bearing:
// rules are evaluated front to back and the first keyword hit wins, so
// "verkoop" must be tested before its substring "koop".
func DefaultRules() []Rule {
	return []Rule{
		{domain.LineDeposit, []string{"ideal deposit", "sofort deposit"}},
		{domain.LineWithdrawal, []string{"ideal withdrawal", "sofort withdrawal"}},
		{domain.LineFX, []string{"valuta debitering", "valuta creditering"}},
		{domain.LineSell, []string{"verkoop"}},
		{domain.LineBuy, []string{"koop"}},
		{domain.LineDividend, []string{"dividend"}},
		{domain.LineInterest, []string{"flatex interest income"}},
		{domain.LineRebate, []string{"verrekening promotie"}},
		{domain.LineCost, []string{"degiro transactiekosten", "degiro aansluitingskosten", "externe kosten", "stamp duty"}},
	}
}

// Classifier maps a free-text line description to its category by ordered
// keyword matching.
type Classifier struct {
	rules []Rule
}

// NewClassifier creates a classifier over an ordered rule list.
func NewClassifier(rules []Rule) *Classifier {
	return &Classifier{rules: rules}
}

// Classify returns the category of the first rule with a case-insensitive
// substring match against the description, or LineOther when none matches.
func (c *Classifier) Classify(description string) domain.LineType {
	lowered := strings.ToLower(description)
	for _, rule := range c.rules {
		if lo.SomeBy(rule.Keywords, func(kw string) bool {
			return strings.Contains(lowered, kw)
		}) {
			return rule.Category
		}
	}
	return domain.LineOther
}

type ruleFile struct {
	Rule []struct {
		Category string   `toml:"category"`
		Keywords []string `toml:"keywords"`
	} `toml:"rule"`
}

// LoadRules reads an ordered rule table from a TOML file, allowing the
// keyword sets of other brokers to replace the DEGIRO defaults without
// touching the matching algorithm. The file holds [[rule]] tables with a
// category and keyword list each.
func LoadRules(path string) ([]Rule, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rule file: %w", err)
	}

	var parsed ruleFile
	if err := toml.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parsing rule file %s: %w", path, err)
	}

	known := lo.SliceToMap(domain.LineTypes, func(t domain.LineType) (domain.LineType, bool) {
		return t, true
	})

	rules := make([]Rule, 0, len(parsed.Rule))
	for _, r := range parsed.Rule {
		category := domain.LineType(strings.ToLower(r.Category))
		if !known[category] {
			return nil, fmt.Errorf("rule file %s: unknown category %q", path, r.Category)
		}
		rules = append(rules, Rule{
			Category: category,
			Keywords: lo.Map(r.Keywords, func(kw string, _ int) string { return strings.ToLower(kw) }),
		})
	}
	return rules, nil
}
