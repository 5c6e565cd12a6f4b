// Package equity tracks equity compensation lots and their disposals for
// French tax reporting.
//
// A Ledger holds acquisition lots per category and symbol, always sorted by
// acquisition date. Selling consumes the lots first in first out and records
// a Sale in the fiscal year of the sale date. Sales feed the acquisition gain
// (form 2042C) and capital gain (form 2074) computations.
package equity

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/etnz/fiscal/date"
	"github.com/etnz/fiscal/fx"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Plan is an RSU plan.
type Plan struct {
	Name     string    `json:"name"`
	Approval date.Date `json:"approval"`
	// Scheme is derived from the approval date once, at registration.
	Scheme   Scheme `json:"scheme"`
	Symbol   string `json:"symbol"`
	Currency string `json:"currency"`
}

// Lot is a single vesting, purchase or grant.
//
// Only Available changes over time: it decreases on sales and is restored by Reset.
type Lot struct {
	ID        uuid.UUID
	Owner     Owner
	Symbol    string
	Plan      string
	Category  Category
	Count     int64
	Available int64
	// Price is the acquisition price (strike price for options) in Currency.
	Price    decimal.Decimal
	Currency string
	// PriceEUR is the acquisition price in euros at the acquisition date.
	// It is zero for stock options in a foreign currency, converted at sale time.
	PriceEUR decimal.Decimal
	Date     date.Date
}

// Acquisition describes a lot to add to the ledger.
type Acquisition struct {
	Category Category        `json:"category"`
	Owner    Owner           `json:"owner"`
	Symbol   string          `json:"symbol"`
	Plan     string          `json:"plan,omitempty"`
	Count    int64           `json:"count"`
	Date     date.Date       `json:"date"`
	Price    decimal.Decimal `json:"price"`
	// Currency of the price. RSU lots default to their plan currency.
	Currency string `json:"currency,omitempty"`
}

type wapKey struct {
	plan string
	on   date.Date
}

// Ledger holds the lots and sales of a household.
type Ledger struct {
	conv  fx.Converter
	log   zerolog.Logger
	plans map[string]Plan
	lots  map[Category]map[string][]*Lot
	// wap is the weighted average price of RSU lots, per plan and acquisition date.
	wap   map[wapKey]decimal.Decimal
	sales map[int][]Sale
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option { return func(l *Ledger) { l.log = log } }

// NewLedger returns an empty ledger converting amounts with conv.
func NewLedger(conv fx.Converter, opts ...Option) *Ledger {
	l := &Ledger{
		conv:  conv,
		log:   zerolog.Nop(),
		plans: make(map[string]Plan),
		lots:  make(map[Category]map[string][]*Lot),
		wap:   make(map[wapKey]decimal.Decimal),
		sales: make(map[int][]Sale),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Clone returns an independent copy of the ledger: selling or resetting
// either one leaves the other unchanged.
func (l *Ledger) Clone() *Ledger {
	c := &Ledger{
		conv:  l.conv,
		log:   l.log,
		plans: maps.Clone(l.plans),
		lots:  make(map[Category]map[string][]*Lot, len(l.lots)),
		wap:   maps.Clone(l.wap),
		sales: make(map[int][]Sale, len(l.sales)),
	}
	for cat, bySymbol := range l.lots {
		copied := make(map[string][]*Lot, len(bySymbol))
		for symbol, lots := range bySymbol {
			dup := make([]*Lot, len(lots))
			for i, lot := range lots {
				v := *lot
				dup[i] = &v
			}
			copied[symbol] = dup
		}
		c.lots[cat] = copied
	}
	for year, sales := range l.sales {
		c.sales[year] = slices.Clone(sales)
	}
	return c
}

// AddPlan registers an RSU plan. Registering an existing plan again has no effect.
func (l *Ledger) AddPlan(name string, approval date.Date, symbol, currency string) Plan {
	if p, ok := l.plans[name]; ok {
		return p
	}
	p := Plan{Name: name, Approval: approval, Scheme: SchemeOf(approval), Symbol: symbol, Currency: currency}
	l.plans[name] = p
	return p
}

// Plan returns a registered plan.
func (l *Ledger) Plan(name string) (Plan, bool) {
	p, ok := l.plans[name]
	return p, ok
}

// AddLot adds a lot with all its shares available.
//
// The price is converted to euros at the acquisition date, except for stock
// options in a foreign currency whose conversion happens at sale time.
func (l *Ledger) AddLot(a Acquisition) (Lot, error) {
	if err := a.Owner.Valid(); err != nil {
		return Lot{}, err
	}
	if a.Count <= 0 {
		return Lot{}, fmt.Errorf("%w: %d shares of %s", ErrInvalidCount, a.Count, a.Symbol)
	}

	lot := &Lot{
		ID:        uuid.New(),
		Owner:     a.Owner,
		Symbol:    a.Symbol,
		Plan:      a.Plan,
		Category:  a.Category,
		Count:     a.Count,
		Available: a.Count,
		Price:     a.Price,
		Currency:  a.Currency,
		Date:      a.Date,
	}

	switch a.Category {
	case RSU:
		p, ok := l.plans[a.Plan]
		if !ok {
			return Lot{}, fmt.Errorf("%w: %q", ErrUnknownPlan, a.Plan)
		}
		if lot.Currency == "" {
			lot.Currency = p.Currency
		}
	case ESPP:
		if lot.Plan == "" {
			lot.Plan = "espp"
		}
	case StockOption:
		if lot.Currency == "" {
			lot.Currency = fx.EUR
		}
		if lot.Currency == fx.EUR {
			lot.PriceEUR = lot.Price
		}
	default:
		return Lot{}, fmt.Errorf("%w: %d", ErrUnknownCategory, int(a.Category))
	}

	if a.Category != StockOption {
		if lot.Currency == "" {
			lot.Currency = fx.EUR
		}
		eur, err := fx.ToEUR(l.conv, lot.Price, lot.Currency, lot.Date)
		if err != nil {
			return Lot{}, fmt.Errorf("cannot convert acquisition price of %s on %v: %w", lot.Symbol, lot.Date, err)
		}
		lot.PriceEUR = eur
	}

	bySymbol, ok := l.lots[a.Category]
	if !ok {
		bySymbol = make(map[string][]*Lot)
		l.lots[a.Category] = bySymbol
	}
	lots := append(bySymbol[a.Symbol], lot)
	// Stable: lots acquired the same day keep their insertion order.
	slices.SortStableFunc(lots, func(x, y *Lot) int { return x.Date.Compare(y.Date) })
	bySymbol[a.Symbol] = lots
	return *lot, nil
}

// Plans returns the registered plans sorted by name.
func (l *Ledger) Plans() []Plan {
	plans := slices.Collect(maps.Values(l.plans))
	slices.SortFunc(plans, func(a, b Plan) int { return strings.Compare(a.Name, b.Name) })
	return plans
}

// Lots returns a copy of the lots of a symbol in a category, by acquisition date.
func (l *Ledger) Lots(c Category, symbol string) []Lot {
	lots := l.lots[c][symbol]
	out := make([]Lot, len(lots))
	for i, lot := range lots {
		out[i] = *lot
	}
	return out
}

// Symbols returns all symbols with lots in category c, sorted.
func (l *Ledger) Symbols(c Category) []string {
	return slices.Sorted(maps.Keys(l.lots[c]))
}

// Available returns the number of shares still available for a symbol in a category.
func (l *Ledger) Available(c Category, symbol string) int64 {
	var n int64
	for _, lot := range l.lots[c][symbol] {
		n += lot.Available
	}
	return n
}

// WeightedAveragePrice returns the weighted average price recorded for a plan and acquisition date.
func (l *Ledger) WeightedAveragePrice(plan string, on date.Date) (decimal.Decimal, bool) {
	p, ok := l.wap[wapKey{plan, on}]
	return p, ok
}

// Summary returns the total count of shares ever acquired, per symbol and category.
func (l *Ledger) Summary() map[string]map[Category]int64 {
	summary := make(map[string]map[Category]int64)
	for c, bySymbol := range l.lots {
		for symbol, lots := range bySymbol {
			if summary[symbol] == nil {
				summary[symbol] = make(map[Category]int64)
			}
			for _, lot := range lots {
				summary[symbol][c] += lot.Count
			}
		}
	}
	return summary
}

// Sales returns a copy of the sales of a fiscal year.
func (l *Ledger) Sales(year int) []Sale {
	return slices.Clone(l.sales[year])
}

// Years returns the fiscal years with sales, sorted.
func (l *Ledger) Years() []int {
	var years []int
	for y, sales := range l.sales {
		if len(sales) > 0 {
			years = append(years, y)
		}
	}
	slices.Sort(years)
	return years
}

// Reset makes every matching lot fully available again and removes the matching sales.
//
// Empty categories or symbols match everything. Weighted average prices of the
// reset RSU lots are forgotten, so that replaying sales gives the same results.
func (l *Ledger) Reset(categories []Category, symbols []string) {
	if len(categories) == 0 {
		categories = Categories
	}
	match := func(c Category, symbol string) bool {
		return slices.Contains(categories, c) && (len(symbols) == 0 || slices.Contains(symbols, symbol))
	}

	for c, bySymbol := range l.lots {
		for symbol, lots := range bySymbol {
			if !match(c, symbol) {
				continue
			}
			for _, lot := range lots {
				lot.Available = lot.Count
				if c == RSU {
					delete(l.wap, wapKey{lot.Plan, lot.Date})
				}
			}
		}
	}
	for year, sales := range l.sales {
		l.sales[year] = slices.DeleteFunc(sales, func(s Sale) bool { return match(s.Category, s.Symbol) })
	}
}
