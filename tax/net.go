package tax

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	capitalGainTaxRate     = decimal.RequireFromString("0.128")
	fiscalAdvantageCeiling = decimal.NewFromInt(10000)

	stockOptionSocialRate = decimal.RequireFromString("0.197") // 10% salary contribution, 9.2% CSG, 0.5% CRDS
	capitalSocialRate     = decimal.RequireFromString("0.172") // 9.7% CSG/CRDS, 7.5% solidarity levy
	interestSocialRate    = decimal.RequireFromString("0.175")
)

// capitalTaxes applies the flat tax to capital gains. Opting for the progressive tax (2OP) is not supported.
func (s *simulator) capitalTaxes() error {
	s.state.Set(CapitalGainTax, s.state.Get(CapitalGain).Mul(capitalGainTaxRate))
	return nil
}

// netTaxes applies reductions and credits, capped globally, then adds the capital gain tax.
func (s *simulator) netTaxes() error {
	beforeCapping := s.state.Get(TaxBeforeReductions).Sub(s.state.Get(CharityReduction))
	withReductions := beforeCapping.Sub(s.state.Get(PMESubscriptionReduction))
	withCredits := decimal.Max(withReductions, decimal.Zero).
		Sub(s.state.Get(DaycareTaxCredit)).
		Sub(s.state.Get(HomeServicesTaxCredit))

	advantages := beforeCapping.Sub(withCredits)
	s.state.Set(FiscalAdvantages, advantages)

	net := withCredits
	if advantages.GreaterThan(fiscalAdvantageCeiling) {
		s.flags[GlobalFiscalAdvantages] = fmt.Sprintf("capped to 10'000€ (originally %s)", euros(advantages))
		net = beforeCapping.Sub(fiscalAdvantageCeiling)
	} else {
		s.flags[GlobalFiscalAdvantages] = fmt.Sprintf("%s (uncapped, %s from ceiling)", euros(advantages), euros(fiscalAdvantageCeiling.Sub(advantages)))
	}

	net = net.Add(s.state.Get(CapitalGainTax)).Sub(s.state.Get(InterestTaxPaid))
	s.state.Set(NetTaxes, net.RoundBank(2))
	return nil
}

// socialTaxes computes the social levies, which are not part of the net taxes.
func (s *simulator) socialTaxes() error {
	options := s.state.Sum(ExerciseGain1, ExerciseGain2).Mul(stockOptionSocialRate)
	equity := s.state.Sum(CapitalGain, AcquisitionGain, AcquisitionRebate, AcquisitionRebate50).Mul(capitalSocialRate)
	interest := s.state.Get(TaxableInvestmentIncome).Sub(s.state.Get(AlreadyTaxedInterest)).Mul(interestSocialRate)
	// a rental deficit does not reduce social taxes
	rental := decimal.Max(s.state.Get(RentalIncomeResult), decimal.Zero).Mul(capitalSocialRate)

	s.state.Set(SocialTaxesStockOptions, options.RoundBank(2))
	s.state.Set(SocialTaxesEquity, equity.RoundBank(2))
	s.state.Set(SocialTaxesInterest, interest.RoundBank(2))
	s.state.Set(SocialTaxesRental, rental.RoundBank(2))
	s.state.Set(NetSocialTaxes, options.Add(equity).Add(interest).Add(rental).RoundBank(0))
	return nil
}
