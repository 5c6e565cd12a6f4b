package renderer

import (
	"maps"
	"slices"
	"strconv"

	"github.com/etnz/fiscal/equity"
	"github.com/etnz/fiscal/tax"
	"github.com/shopspring/decimal"
)

// Line is a box and its formatted amount.
type Line struct {
	Box    string `json:"box"`
	Label  string `json:"label"`
	Amount string `json:"amount"`
}

// Notice is a simulation flag ready for rendering.
type Notice struct {
	Name    string `json:"name"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Simulation is the rendering view of a tax.Result.
type Simulation struct {
	Year       int      `json:"year"`
	IncomeYear int      `json:"incomeYear"`
	Shares     string   `json:"shares"`
	Declared   []Line   `json:"declared"`
	Computed   []Line   `json:"computed"`
	Notices    []Notice `json:"notices,omitempty"`
}

// counts are boxes holding a number rather than an amount.
var counts = []tax.Box{tax.HouseholdShares, tax.ChildrenUnder6}

func line(b tax.Box, v decimal.Decimal) Line {
	amount := Euros(v)
	if slices.Contains(counts, b) {
		amount = v.String()
	}
	return Line{Box: string(b), Label: b.Label(), Amount: amount}
}

// NewSimulation builds the view of a simulation result.
func NewSimulation(r *tax.Result) *Simulation {
	s := &Simulation{
		Year:       r.Year,
		IncomeYear: r.Year - 1,
		Shares:     r.State.Get(tax.HouseholdShares).String(),
	}
	for _, b := range r.State.Boxes() {
		l := line(b, r.State.Get(b))
		if b.Declared() {
			s.Declared = append(s.Declared, l)
		} else {
			s.Computed = append(s.Computed, l)
		}
	}
	for _, f := range r.Flags.Sorted() {
		s.Notices = append(s.Notices, Notice{Name: f.String(), Title: f.Title(), Message: r.Flags[f]})
	}
	return s
}

// Form2074Line is the rendering view of a form 2074 line.
type Form2074Line struct {
	Symbol          string `json:"symbol"`
	Category        string `json:"category"`
	Date            string `json:"date"`
	UnitSalePrice   string `json:"unitSalePrice"`
	Units           int64  `json:"units"`
	GrossProceeds   string `json:"grossProceeds"`
	Fees            string `json:"fees"`
	NetProceeds     string `json:"netProceeds"`
	UnitAcquisition string `json:"unitAcquisition"`
	AcquisitionCost string `json:"acquisitionCost"`
	AcquisitionFees string `json:"acquisitionFees"`
	TotalCost       string `json:"totalCost"`
	Result          string `json:"result"`
}

// Forms is the rendering view of the equity forms of an income year.
type Forms struct {
	IncomeYear  int            `json:"incomeYear"`
	Acquisition []Line         `json:"acquisition"`
	Capital     []Form2074Line `json:"capital"`
	Total       string         `json:"total"`
	Boxes       []Line         `json:"boxes"`
}

// NewForms builds the view of the 2042C and 2074 forms.
func NewForms(incomeYear int, ag equity.AcquisitionGain, cg equity.CapitalGain) *Forms {
	f := &Forms{IncomeYear: incomeYear, Total: SignedEuros(cg.Total)}
	acq := ag.Boxes()
	for _, b := range acq.Boxes() {
		if v := acq.Get(b); !v.IsZero() {
			f.Acquisition = append(f.Acquisition, line(b, v))
		}
	}
	for _, l := range cg.Lines {
		f.Capital = append(f.Capital, Form2074Line{
			Symbol:          l.Symbol,
			Category:        l.Category.String(),
			Date:            l.Date.String(),
			UnitSalePrice:   Euros(l.UnitSalePrice),
			Units:           l.Units,
			GrossProceeds:   Euros(l.GrossProceeds),
			Fees:            Euros(l.Fees),
			NetProceeds:     Euros(l.NetProceeds),
			UnitAcquisition: Euros(l.UnitAcquisition),
			AcquisitionCost: Euros(l.AcquisitionCost),
			AcquisitionFees: Euros(l.AcquisitionFees),
			TotalCost:       Euros(l.TotalCost),
			Result:          SignedEuros(l.Result),
		})
	}
	if len(cg.Lines) > 0 {
		cb := cg.Boxes()
		for _, b := range cb.Boxes() {
			f.Boxes = append(f.Boxes, line(b, cb.Get(b)))
		}
	}
	return f
}

// Holding is the count of shares acquired for a symbol, per category.
type Holding struct {
	Symbol      string `json:"symbol"`
	RSU         string `json:"rsu"`
	ESPP        string `json:"espp"`
	StockOption string `json:"stockOption"`
}

// Ledger is the rendering view of a ledger summary.
type Ledger struct {
	Plans    []equity.Plan `json:"plans,omitempty"`
	Holdings []Holding     `json:"holdings"`
}

// NewLedger builds the view of equity.Ledger.Summary and its RSU plans.
func NewLedger(summary map[string]map[equity.Category]int64, plans []equity.Plan) *Ledger {
	count := func(m map[equity.Category]int64, c equity.Category) string {
		n, ok := m[c]
		if !ok {
			return "-"
		}
		return strconv.FormatInt(n, 10)
	}
	l := &Ledger{Plans: plans}
	for _, symbol := range slices.Sorted(maps.Keys(summary)) {
		m := summary[symbol]
		l.Holdings = append(l.Holdings, Holding{
			Symbol:      symbol,
			RSU:         count(m, equity.RSU),
			ESPP:        count(m, equity.ESPP),
			StockOption: count(m, equity.StockOption),
		})
	}
	return l
}
