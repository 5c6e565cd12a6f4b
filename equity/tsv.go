package equity

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/etnz/fiscal/date"
	"github.com/shopspring/decimal"
)

// TSV columns.
const (
	colOwner    = "Owner"
	colPlan     = "Plan name"
	colType     = "Stock type"
	colCurrency = "Currency"
	colSymbol   = "Symbol"
	colCount    = "Count"
	colPrice    = "Acquisition price"
	colDate     = "Acquisition date"
	colPlanDate = "Plan date"
)

var requiredColumns = []string{colOwner, colPlan, colType, colCurrency, colSymbol, colCount, colPrice, colDate}

// parseDate accepts broker exports like "28 Jun 2016" and ISO dates.
func parseDate(s string) (date.Date, error) {
	s = strings.TrimSpace(s)
	if d, err := date.ParseLayout("02 Jan 2006", s); err == nil {
		return d, nil
	}
	return date.Parse(s)
}

// parseCount parses a share count, ignoring thousands separators.
func parseCount(s string) (int64, error) {
	s = strings.NewReplacer("\u202f", "", "\u00a0", "", " ", "", ",", "").Replace(s)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid count %q: %w", s, err)
	}
	return d.IntPart(), nil
}

// LoadTSV adds the lots of a tab separated file to the ledger.
//
// The first row is the header. RSU rows register their plan from the "Plan
// date" column the first time the plan is seen.
func (l *Ledger) LoadTSV(r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("cannot read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(h)] = i
	}
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			return 0, fmt.Errorf("missing column %q", c)
		}
	}

	n := 0
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		if err != nil {
			return n, fmt.Errorf("line %d: %w", line, err)
		}
		field := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}
		if err := l.loadRow(field); err != nil {
			return n, fmt.Errorf("line %d: %w", line, err)
		}
		n++
	}
}

func (l *Ledger) loadRow(field func(string) string) error {
	owner, err := ParseOwner(field(colOwner))
	if err != nil {
		return err
	}
	category, err := ParseCategory(field(colType))
	if err != nil {
		return err
	}
	count, err := parseCount(field(colCount))
	if err != nil {
		return err
	}
	price, err := decimal.NewFromString(field(colPrice))
	if err != nil {
		return fmt.Errorf("invalid acquisition price %q: %w", field(colPrice), err)
	}
	acquired, err := parseDate(field(colDate))
	if err != nil {
		return err
	}

	a := Acquisition{
		Category: category,
		Owner:    owner,
		Symbol:   field(colSymbol),
		Plan:     field(colPlan),
		Count:    count,
		Date:     acquired,
		Price:    price,
		Currency: field(colCurrency),
	}
	if category == RSU {
		if _, ok := l.plans[a.Plan]; !ok {
			approval, err := parseDate(field(colPlanDate))
			if err != nil {
				return fmt.Errorf("plan %q: %w", a.Plan, err)
			}
			l.AddPlan(a.Plan, approval, a.Symbol, a.Currency)
		}
	}
	_, err = l.AddLot(a)
	return err
}

// LoadFiles loads every TSV file matching a glob pattern.
func (l *Ledger) LoadFiles(pattern string) (int, error) {
	files, err := filepath.Glob(pattern)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, name := range files {
		n, err := l.loadFile(name)
		total += n
		if err != nil {
			return total, fmt.Errorf("%s: %w", name, err)
		}
		l.log.Info().Str("file", name).Int("lots", n).Msg("lots loaded")
	}
	return total, nil
}

func (l *Ledger) loadFile(name string) (int, error) {
	f, err := os.Open(name)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return l.LoadTSV(f)
}
