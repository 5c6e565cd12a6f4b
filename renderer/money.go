package renderer

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// eur returns the never nil euro currency.
func eur() money.Currency {
	return *money.New(0, money.EUR).Currency()
}

// Euros formats an amount in euros, to the cent.
func Euros(v decimal.Decimal) string {
	cur := eur()
	return cur.Formatter().Format(v.Shift(int32(cur.Fraction)).Round(0).IntPart())
}

// SignedEuros formats an amount in euros with its sign. Zero is represented as "-".
func SignedEuros(v decimal.Decimal) string {
	if v.IsZero() {
		return "-"
	}
	if v.IsPositive() {
		return "+" + Euros(v)
	}
	return Euros(v)
}
