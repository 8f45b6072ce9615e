package statement

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/brokerstat/brokerstat/internal/domain"
)

const (
	timestampLayout = "02-01-2006 15:04"
	dateLayout      = "02-01-2006"
	columnCount     = 12
)

// Column positions of the fixed statement layout.
const (
	colDate = iota
	colTime
	colValueDate
	colName
	colISIN
	colDescription
	colFX
	colMutation
	colAmount
	colCurrency
	colBalance
	colOrderID
)

// Parser turns a raw account statement CSV into a classified Statement.
type Parser struct {
	classifier *Classifier
	grammar    TradeGrammar
}

// NewParser creates a parser with the given classifier and trade grammar.
func NewParser(classifier *Classifier, grammar TradeGrammar) *Parser {
	return &Parser{classifier: classifier, grammar: grammar}
}

// NewDegiroParser creates a parser with the DEGIRO defaults.
func NewDegiroParser() *Parser {
	return NewParser(NewClassifier(DefaultRules()), DegiroGrammar())
}

// Parse reads the CSV, repairs split rows, classifies every line and returns
// the statement sorted ascending by timestamp. The first record is the
// header and is skipped. Any malformed field aborts the load with an error
// wrapping domain.ErrParse.
func (p *Parser) Parse(r io.Reader) (domain.Statement, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrParse, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("%w: statement holds no transaction rows", domain.ErrParse)
	}

	repaired, err := repairRows(records[1:])
	if err != nil {
		return nil, err
	}

	lines := make(domain.Statement, 0, len(repaired))
	for _, rec := range repaired {
		line, err := p.parseRow(rec)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}

	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].Timestamp.Before(lines[j].Timestamp)
	})
	return lines, nil
}

// repairRows merges continuation rows back into their logical row. A
// description containing the separator splits one transaction across two or
// more physical rows; every row with an empty date field belongs to the
// nearest preceding dated row, its fields appended by string concatenation.
func repairRows(records [][]string) ([][]string, error) {
	repaired := make([][]string, 0, len(records))
	for _, rec := range records {
		if strings.TrimSpace(rec[colDate]) != "" {
			row := make([]string, len(rec))
			copy(row, rec)
			repaired = append(repaired, row)
			continue
		}
		if len(repaired) == 0 {
			return nil, fmt.Errorf("%w: continuation row without a preceding row", domain.ErrParse)
		}
		prev := repaired[len(repaired)-1]
		for i, field := range rec {
			if i < len(prev) {
				prev[i] += field
			}
		}
	}
	return repaired, nil
}

func (p *Parser) parseRow(rec []string) (domain.TransactionLine, error) {
	if len(rec) != columnCount {
		return domain.TransactionLine{}, fmt.Errorf("%w: expected %d columns, got %d", domain.ErrParse, columnCount, len(rec))
	}

	ts, err := time.Parse(timestampLayout, rec[colDate]+" "+rec[colTime])
	if err != nil {
		return domain.TransactionLine{}, fmt.Errorf("%w: timestamp %q %q", domain.ErrParse, rec[colDate], rec[colTime])
	}

	line := domain.TransactionLine{
		Timestamp:   ts,
		Name:        strings.TrimSpace(rec[colName]),
		ISIN:        strings.TrimSpace(rec[colISIN]),
		Description: strings.TrimSpace(rec[colDescription]),
		Currency:    strings.TrimSpace(rec[colCurrency]),
		OrderID:     strings.TrimSpace(rec[colOrderID]),
	}

	if vd := strings.TrimSpace(rec[colValueDate]); vd != "" {
		line.ValueDate, err = time.Parse(dateLayout, vd)
		if err != nil {
			return domain.TransactionLine{}, fmt.Errorf("%w: value date %q", domain.ErrParse, vd)
		}
	}

	if line.FX, err = optionalDecimal(rec[colFX]); err != nil {
		return domain.TransactionLine{}, err
	}
	if line.Mutation, err = optionalDecimal(rec[colMutation]); err != nil {
		return domain.TransactionLine{}, err
	}
	if line.Amount, err = requiredDecimal(rec[colAmount]); err != nil {
		return domain.TransactionLine{}, err
	}
	if line.Balance, err = requiredDecimal(rec[colBalance]); err != nil {
		return domain.TransactionLine{}, err
	}

	line.Category = p.classifier.Classify(line.Description)
	if line.IsTrade() {
		line.Shares, line.Price, err = p.grammar.Extract(line.Description, line.Category)
		if err != nil {
			return domain.TransactionLine{}, err
		}
	}

	return line, nil
}

// optionalDecimal parses a nullable numeric field: empty means absent.
func optionalDecimal(s string) (*decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	d, err := domain.ParseDecimal(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// requiredDecimal parses a numeric field, treating empty as zero.
func requiredDecimal(s string) (decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return decimal.Zero, nil
	}
	return domain.ParseDecimal(s)
}
