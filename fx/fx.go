// Package fx converts amounts between currencies as of a given day.
//
// The Converter interface is the only thing the ledger depends on. Table is an
// in-memory implementation fed with dated rates, used for tests and as the
// memo of the Frankfurter client.
package fx

import (
	"errors"
	"fmt"

	"github.com/etnz/fiscal/date"
	"github.com/shopspring/decimal"
)

// ErrNoRate is returned when no rate is known for a currency pair at a date.
var ErrNoRate = errors.New("no exchange rate")

// EUR is the reference currency of every French tax amount.
const EUR = "EUR"

// Converter converts an amount from one currency to another as of a day.
type Converter interface {
	Convert(amount decimal.Decimal, from, to string, on date.Date) (decimal.Decimal, error)
}

// ToEUR is a shortcut to convert an amount to euros.
func ToEUR(c Converter, amount decimal.Decimal, from string, on date.Date) (decimal.Decimal, error) {
	return c.Convert(amount, from, EUR, on)
}

type pair struct{ from, to string }

// Table holds dated exchange rates per currency pair.
//
// A rate is valid from its date until the next known rate, so that a request
// on a non trading day falls back on the latest earlier rate.
type Table struct {
	rates map[pair]*date.History[decimal.Decimal]
}

// NewTable returns an empty Table.
func NewTable() *Table {
	return &Table{rates: make(map[pair]*date.History[decimal.Decimal])}
}

// Fixed returns a Table with a single rate valid for any date.
func Fixed(from, to string, rate decimal.Decimal) *Table {
	t := NewTable()
	t.Add(from, to, date.New(1900, 1, 1), rate)
	return t
}

// Add records that one unit of 'from' is worth 'rate' units of 'to' on day 'on'.
func (t *Table) Add(from, to string, on date.Date, rate decimal.Decimal) *Table {
	if t.rates == nil {
		t.rates = make(map[pair]*date.History[decimal.Decimal])
	}
	k := pair{from, to}
	h, ok := t.rates[k]
	if !ok {
		h = new(date.History[decimal.Decimal])
		t.rates[k] = h
	}
	h.Append(on, rate)
	return t
}

// Rate returns the rate to convert one unit of 'from' into 'to' as of 'on'.
//
// The direct pair is used when known, otherwise the inverse of the reversed pair.
func (t *Table) Rate(from, to string, on date.Date) (decimal.Decimal, error) {
	if from == to {
		return decimal.NewFromInt(1), nil
	}
	if h, ok := t.rates[pair{from, to}]; ok {
		if _, r, ok := h.ValueAsOf(on); ok {
			return r, nil
		}
	}
	if h, ok := t.rates[pair{to, from}]; ok {
		if _, r, ok := h.ValueAsOf(on); ok && !r.IsZero() {
			return decimal.NewFromInt(1).Div(r), nil
		}
	}
	return decimal.Zero, fmt.Errorf("%w for %s/%s on %v", ErrNoRate, from, to, on)
}

// Convert implements Converter.
func (t *Table) Convert(amount decimal.Decimal, from, to string, on date.Date) (decimal.Decimal, error) {
	if from == to {
		return amount, nil
	}
	r, err := t.Rate(from, to, on)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Mul(r), nil
}

var _ Converter = (*Table)(nil)
