// Package tax simulates the French income tax of a household.
//
// A simulation runs a fixed sequence of stages over a State of boxes. Each
// stage reads boxes written by the declaration or by previous stages and
// writes its own results. Statutory caps that apply are reported as Flags.
package tax

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var (
	half    = decimal.RequireFromString("0.5")
	hundred = decimal.NewFromInt(100)
)

// Result is the outcome of a simulation.
type Result struct {
	Year      int       `json:"year"`
	Household Household `json:"household"`
	State     State     `json:"state"`
	Flags     Flags     `json:"flags"`
}

// stage is a step of the simulation.
type stage struct {
	name  string
	apply func(*simulator) error
}

// stages are applied in order, each one depends on boxes written by the previous ones.
var stages = []stage{
	{"family", (*simulator).family},
	{"rental income", (*simulator).rentalIncome},
	{"net income", (*simulator).netIncome},
	{"taxable income", (*simulator).taxableIncome},
	{"flat rate taxes", (*simulator).flatRateTaxes},
	{"reference fiscal income", (*simulator).referenceFiscalIncome},
	{"tax before reductions", (*simulator).taxBeforeReductions},
	{"tax reductions", (*simulator).taxReductions},
	{"tax credits", (*simulator).taxCredits},
	{"capital taxes", (*simulator).capitalTaxes},
	{"net taxes", (*simulator).netTaxes},
	{"social taxes", (*simulator).socialTaxes},
}

type simulator struct {
	year      int
	params    Parameters
	household Household
	state     State
	flags     Flags
	log       zerolog.Logger
}

// Option configures a simulation.
type Option func(*simulator)

// WithLogger sets the logger receiving the intermediate values.
func WithLogger(log zerolog.Logger) Option {
	return func(s *simulator) { s.log = log }
}

// Simulate computes the taxes of a household for a statement year.
//
// The declared state is not modified. A hard error in any stage aborts the
// simulation and no partial result is returned.
func Simulate(year int, h Household, declared State, opts ...Option) (*Result, error) {
	params, err := ParametersFor(year)
	if err != nil {
		return nil, err
	}
	s := &simulator{
		year:      year,
		params:    params,
		household: h,
		state:     declared.Clone(),
		flags:     make(Flags),
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	for _, st := range stages {
		if err := st.apply(s); err != nil {
			return nil, fmt.Errorf("%s: %w", st.name, err)
		}
		s.log.Debug().Int("year", year).Str("stage", st.name).Msg("stage applied")
	}
	return &Result{Year: year, Household: h, State: s.state, Flags: s.flags}, nil
}

// euros formats an amount for a flag message.
func euros(v decimal.Decimal) string { return v.String() + "€" }
