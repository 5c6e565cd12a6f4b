package tax

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// bracketTax computes the progressive tax of income for a number of shares.
//
// Bracket thresholds are scaled by the shares. It returns the tax and the
// rate of the highest bracket reached.
func (s *simulator) bracketTax(income, shares decimal.Decimal) (tax, marginal decimal.Decimal) {
	rates := s.params.Rates
	thresholds := make([]decimal.Decimal, len(s.params.Thresholds))
	for i, t := range s.params.Thresholds {
		thresholds[i] = t.Mul(shares)
	}

	accounted := thresholds[0]
	n := 0
	for income.GreaterThan(accounted) && n < len(thresholds)-1 {
		slice := thresholds[n+1].Sub(thresholds[n])
		tax = tax.Add(rates[n].Mul(decimal.Min(slice, income.Sub(accounted))))
		marginal = rates[n]
		accounted = thresholds[n+1]
		n++
	}
	if income.GreaterThan(accounted) {
		// top bracket applies to the rest
		last := rates[len(rates)-1]
		tax = tax.Add(last.Mul(income.Sub(accounted)))
		marginal = last
	}
	s.log.Debug().Stringer("income", income).Stringer("shares", shares).Stringer("tax", tax).Stringer("marginal", marginal).Msg("bracket tax")
	return tax, marginal
}

// taxBeforeReductions computes the progressive tax with the family quotient
// benefit capped, plus the flat investment tax.
func (s *simulator) taxBeforeReductions() error {
	income := s.state.Get(TaxableIncome)
	shares := s.state.Get(HouseholdShares)

	withQuotient, marginal := s.bracketTax(income, shares)
	s.flags[MarginalTaxRate] = fmt.Sprintf("%s%%", marginal.Mul(hundred).RoundBank(0))

	base := s.household.BaseShares()
	withoutQuotient, _ := s.bracketTax(income, base)

	benefit := withoutQuotient.Sub(withQuotient)
	// each half share above the base shares is capped
	ceiling := s.params.FamilyQuotientCap.Mul(shares.Sub(base).Mul(decimal.NewFromInt(2)))

	final := withQuotient
	if benefit.GreaterThan(ceiling) {
		s.flags[FamilyQuotientCapping] = fmt.Sprintf("tax += %s", euros(benefit.Sub(ceiling).RoundBank(2)))
		final = withoutQuotient.Sub(ceiling)
	}
	simple := final.RoundBank(0)
	s.state.Set(SimpleTaxRight, simple)
	s.state.Set(TaxBeforeReductions, simple.Add(s.state.Get(InvestmentIncomeTax)))
	return nil
}
