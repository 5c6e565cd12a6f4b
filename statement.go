package fiscal

import (
	"fmt"
	"io"
	"slices"

	"github.com/etnz/fiscal/date"
	"github.com/etnz/fiscal/equity"
	"github.com/etnz/fiscal/fx"
	"github.com/etnz/fiscal/tax"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// Plan declares an RSU plan.
type Plan struct {
	Name     string    `json:"name"`
	Approval date.Date `json:"approval"`
	Symbol   string    `json:"symbol"`
	Currency string    `json:"currency"`
}

// SaleOrder is a sale to replay on the ledger.
type SaleOrder struct {
	Category equity.Category `json:"category"`
	equity.Order
}

// Statement is the input document of a simulation.
//
// Year is the statement year: sales happen during the income year, the year before.
type Statement struct {
	Year      int                  `json:"year"`
	Household tax.Household        `json:"household"`
	Boxes     tax.State            `json:"boxes"`
	Plans     []Plan               `json:"plans,omitempty"`
	Lots      []equity.Acquisition `json:"lots,omitempty"`
	Sales     []SaleOrder          `json:"sales,omitempty"`
}

// IncomeYear is the year of the income declared in the statement.
func (s *Statement) IncomeYear() int { return s.Year - 1 }

// DecodeStatement reads a JSON statement.
func DecodeStatement(r io.Reader) (*Statement, error) {
	var s Statement
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("invalid statement: %w", err)
	}
	if s.Year == 0 {
		return nil, fmt.Errorf("invalid statement: missing year")
	}
	return &s, nil
}

// Report is the full outcome of a statement.
type Report struct {
	Statement   *Statement
	Acquisition equity.AcquisitionGain
	Capital     equity.CapitalGain
	Summary     map[string]map[equity.Category]int64
	// Boxes are the declared boxes plus the boxes computed from the sales.
	Boxes  tax.State
	Result *tax.Result
}

type runner struct {
	log    zerolog.Logger
	ledger *equity.Ledger
}

// Option configures Run.
type Option func(*runner)

// WithLogger sets the logger of the ledger and the simulation.
func WithLogger(log zerolog.Logger) Option { return func(r *runner) { r.log = log } }

// WithLedger starts from a ledger already holding lots, typically loaded from
// TSV files. Run works on a copy and never changes l.
func WithLedger(l *equity.Ledger) Option { return func(r *runner) { r.ledger = l } }

// Run replays the statement sales, computes the equity forms and simulates the taxes.
//
// Statement plans and lots are added to a copy of the base ledger, on which
// sales are replayed in date order with every lot fully available: sales
// already recorded in the base ledger are discarded.
func Run(s *Statement, conv fx.Converter, opts ...Option) (*Report, error) {
	r := &runner{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(r)
	}
	var l *equity.Ledger
	if r.ledger == nil {
		l = equity.NewLedger(conv, equity.WithLogger(r.log))
	} else {
		l = r.ledger.Clone()
		l.Reset(nil, nil)
	}

	for _, p := range s.Plans {
		l.AddPlan(p.Name, p.Approval, p.Symbol, p.Currency)
	}
	for _, a := range s.Lots {
		if _, err := l.AddLot(a); err != nil {
			return nil, fmt.Errorf("lot %s %v: %w", a.Symbol, a.Date, err)
		}
	}

	sales := slices.Clone(s.Sales)
	slices.SortStableFunc(sales, func(a, b SaleOrder) int { return a.Date.Compare(b.Date) })
	for _, o := range sales {
		if o.Date.Year() != s.IncomeYear() {
			r.log.Warn().Str("symbol", o.Symbol).Stringer("date", o.Date).Int("income_year", s.IncomeYear()).Msg("sale outside of the income year")
		}
		d, err := l.Sell(o.Category, o.Order)
		if err != nil {
			return nil, fmt.Errorf("sale of %s on %v: %w", o.Symbol, o.Date, err)
		}
		r.log.Info().Str("symbol", o.Symbol).Stringer("category", o.Category).Int64("sold", d.Sold).Stringer("unit_price", d.UnitPrice).Msg("sold")
	}

	ag, err := l.AcquisitionGain(s.IncomeYear())
	if err != nil {
		return nil, err
	}
	cg := l.CapitalGain(s.IncomeYear())

	boxes := s.Boxes.Clone()
	boxes.Merge(nonZero(ag.Boxes())).Merge(nonZero(cg.Boxes()))

	res, err := tax.Simulate(s.Year, s.Household, boxes, tax.WithLogger(r.log))
	if err != nil {
		return nil, err
	}
	return &Report{
		Statement:   s,
		Acquisition: ag,
		Capital:     cg,
		Summary:     l.Summary(),
		Boxes:       boxes,
		Result:      res,
	}, nil
}

// nonZero drops zero boxes, so that they do not appear as declared.
func nonZero(s tax.State) tax.State {
	out := make(tax.State)
	for b, v := range s {
		if !v.IsZero() {
			out[b] = v
		}
	}
	return out
}
