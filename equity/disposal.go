package equity

import (
	"fmt"

	"github.com/etnz/fiscal/date"
	"github.com/etnz/fiscal/fx"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is a request to sell shares of a symbol.
type Order struct {
	Symbol   string          `json:"symbol"`
	Quantity int64           `json:"quantity"`
	Date     date.Date       `json:"date"`
	Price    decimal.Decimal `json:"price"`
	Fees     decimal.Decimal `json:"fees"`
	// Currency of price and fees, EUR when empty.
	Currency string `json:"currency,omitempty"`
}

// Consumption is the part of a sale drawn from a single lot.
type Consumption struct {
	Lot      uuid.UUID
	Owner    Owner
	Plan     string
	Quantity int64
	// Price is the acquisition price in the lot currency.
	Price decimal.Decimal
	// PriceEUR is the acquisition price, or strike price, in euros.
	PriceEUR decimal.Decimal
	Date     date.Date
}

// Sale is a disposal recorded in the ledger.
type Sale struct {
	Symbol   string
	Category Category
	Quantity int64
	// UnitPrice is the unit acquisition price in euros used for the gain computations.
	// It is zero for stock options.
	UnitPrice decimal.Decimal
	Date      date.Date
	// PriceEUR is the unit sale price in euros.
	PriceEUR  decimal.Decimal
	FeesEUR   decimal.Decimal
	Breakdown []Consumption
}

// Disposal is the outcome of a Sell.
type Disposal struct {
	// Sold is the quantity actually sold, less than requested when not enough shares were available.
	Sold int64
	// UnitPrice is the unit acquisition price in euros: the weighted average price
	// for RSU, the quantity weighted price of the consumed lots for ESPP, zero for stock options.
	UnitPrice decimal.Decimal
	Breakdown []Consumption
}

// Sell sells shares of a category, consuming lots acquired strictly before the
// order date first in first out.
//
// Selling more than available is not an error: the available shares are sold
// and the shortfall is logged.
func (l *Ledger) Sell(c Category, o Order) (Disposal, error) {
	if o.Quantity < 0 {
		return Disposal{}, fmt.Errorf("%w: cannot sell %d shares of %s", ErrInvalidCount, o.Quantity, o.Symbol)
	}
	if o.Quantity == 0 {
		return Disposal{}, nil
	}
	currency := o.Currency
	if currency == "" {
		currency = fx.EUR
	}
	price, err := fx.ToEUR(l.conv, o.Price, currency, o.Date)
	if err != nil {
		return Disposal{}, fmt.Errorf("cannot convert sale price of %s on %v: %w", o.Symbol, o.Date, err)
	}
	fees, err := fx.ToEUR(l.conv, o.Fees, currency, o.Date)
	if err != nil {
		return Disposal{}, fmt.Errorf("cannot convert sale fees of %s on %v: %w", o.Symbol, o.Date, err)
	}
	price, fees = price.RoundBank(2), fees.RoundBank(2)

	switch c {
	case RSU:
		return l.sellRSU(o, price, fees), nil
	case ESPP:
		return l.sellESPP(o, price, fees), nil
	case StockOption:
		return l.sellStockOptions(o, price, fees)
	default:
		return Disposal{}, fmt.Errorf("%w: %d", ErrUnknownCategory, int(c))
	}
}

// eligible returns the lots acquired strictly before a day, in acquisition order.
func (l *Ledger) eligible(c Category, symbol string, before date.Date) []*Lot {
	var lots []*Lot
	for _, lot := range l.lots[c][symbol] {
		if lot.Date.Before(before) {
			lots = append(lots, lot)
		}
	}
	return lots
}

// consume draws up to quantity shares from lots, first in first out.
func (l *Ledger) consume(lots []*Lot, quantity int64) (sold int64, breakdown []Consumption) {
	remaining := quantity
	for _, lot := range lots {
		if remaining == 0 {
			break
		}
		if lot.Available == 0 {
			continue
		}
		n := min(remaining, lot.Available)
		lot.Available -= n
		remaining -= n
		breakdown = append(breakdown, Consumption{
			Lot:      lot.ID,
			Owner:    lot.Owner,
			Plan:     lot.Plan,
			Quantity: n,
			Price:    lot.Price,
			PriceEUR: lot.PriceEUR,
			Date:     lot.Date,
		})
	}
	return quantity - remaining, breakdown
}

func (l *Ledger) warnShortfall(c Category, o Order, sold int64) {
	if sold < o.Quantity {
		l.log.Warn().
			Str("symbol", o.Symbol).
			Stringer("category", c).
			Stringer("date", o.Date).
			Int64("requested", o.Quantity).
			Int64("sold", sold).
			Msg("selling more shares than available")
	}
}

func (l *Ledger) record(s Sale) {
	y := s.Date.Year()
	l.sales[y] = append(l.sales[y], s)
}

// weightedAveragePrice pools the eligible RSU lots.
//
// Each lot is valued at the weighted average price recorded by a previous sale,
// or at its own price the first time, and weighted by its available shares.
// The result becomes the recorded price of every eligible lot.
func (l *Ledger) weightedAveragePrice(lots []*Lot) (decimal.Decimal, bool) {
	total, count := decimal.Zero, int64(0)
	for _, lot := range lots {
		price, ok := l.wap[wapKey{lot.Plan, lot.Date}]
		if !ok {
			price = lot.PriceEUR
		}
		total = total.Add(price.Mul(decimal.NewFromInt(lot.Available)))
		count += lot.Available
	}
	if count == 0 {
		return decimal.Zero, false
	}
	wap := total.Div(decimal.NewFromInt(count))
	for _, lot := range lots {
		l.wap[wapKey{lot.Plan, lot.Date}] = wap
	}
	return wap, true
}

func (l *Ledger) sellRSU(o Order, price, fees decimal.Decimal) Disposal {
	lots := l.eligible(RSU, o.Symbol, o.Date)
	wap, ok := l.weightedAveragePrice(lots)
	if !ok {
		l.warnShortfall(RSU, o, 0)
		return Disposal{}
	}
	unit := wap.RoundBank(2)

	sold, breakdown := l.consume(lots, o.Quantity)
	l.warnShortfall(RSU, o, sold)
	l.record(Sale{
		Symbol:    o.Symbol,
		Category:  RSU,
		Quantity:  sold,
		UnitPrice: unit,
		Date:      o.Date,
		PriceEUR:  price,
		FeesEUR:   fees,
		Breakdown: breakdown,
	})
	return Disposal{Sold: sold, UnitPrice: unit, Breakdown: breakdown}
}

// sellESPP records one sale per consumed lot, each at its own acquisition
// price. Fees are split pro rata, the last sale taking the rounding remainder.
func (l *Ledger) sellESPP(o Order, price, fees decimal.Decimal) Disposal {
	sold, breakdown := l.consume(l.eligible(ESPP, o.Symbol, o.Date), o.Quantity)
	l.warnShortfall(ESPP, o, sold)
	if sold == 0 {
		return Disposal{}
	}

	total := decimal.Zero
	remainingFees := fees
	for i, part := range breakdown {
		partFees := remainingFees
		if i < len(breakdown)-1 {
			partFees = fees.Mul(decimal.NewFromInt(part.Quantity)).Div(decimal.NewFromInt(sold)).RoundBank(2)
			remainingFees = remainingFees.Sub(partFees)
		}
		unit := part.PriceEUR.RoundBank(2)
		total = total.Add(unit.Mul(decimal.NewFromInt(part.Quantity)))
		l.record(Sale{
			Symbol:    o.Symbol,
			Category:  ESPP,
			Quantity:  part.Quantity,
			UnitPrice: unit,
			Date:      o.Date,
			PriceEUR:  price,
			FeesEUR:   partFees,
			Breakdown: []Consumption{part},
		})
	}
	return Disposal{Sold: sold, UnitPrice: total.Div(decimal.NewFromInt(sold)).RoundBank(2), Breakdown: breakdown}
}

// sellStockOptions exercises and sells options. Strike prices in a foreign
// currency are converted at the sale date.
func (l *Ledger) sellStockOptions(o Order, price, fees decimal.Decimal) (Disposal, error) {
	lots := l.eligible(StockOption, o.Symbol, o.Date)

	// Convert strikes before consuming anything, so that a conversion error leaves the ledger untouched.
	strikes := make(map[uuid.UUID]decimal.Decimal, len(lots))
	for _, lot := range lots {
		if lot.Available == 0 {
			continue
		}
		strike := lot.PriceEUR
		if lot.Currency != fx.EUR {
			var err error
			strike, err = fx.ToEUR(l.conv, lot.Price, lot.Currency, o.Date)
			if err != nil {
				return Disposal{}, fmt.Errorf("cannot convert strike price of %s on %v: %w", o.Symbol, o.Date, err)
			}
		}
		strikes[lot.ID] = strike
	}

	sold, breakdown := l.consume(lots, o.Quantity)
	l.warnShortfall(StockOption, o, sold)
	if sold == 0 {
		return Disposal{}, nil
	}
	for i := range breakdown {
		breakdown[i].PriceEUR = strikes[breakdown[i].Lot]
	}
	l.record(Sale{
		Symbol:    o.Symbol,
		Category:  StockOption,
		Quantity:  sold,
		Date:      o.Date,
		PriceEUR:  price,
		FeesEUR:   fees,
		Breakdown: breakdown,
	})
	return Disposal{Sold: sold, Breakdown: breakdown}, nil
}
