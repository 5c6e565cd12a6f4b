package tax

import (
	"github.com/shopspring/decimal"
)

var (
	charity75Ceiling    = decimal.NewFromInt(1000)
	charity75Rate       = decimal.RequireFromString("0.75")
	charity66Rate       = decimal.RequireFromString("0.66")
	charity66IncomeRate = decimal.RequireFromString("0.20")

	pmeCeiling    = decimal.NewFromInt(100000)
	pmeRateBefore = decimal.RequireFromString("0.18")
	pmeRateAfter  = decimal.RequireFromString("0.25")
)

func capped(b bool) string {
	if b {
		return " (capped)"
	}
	return ""
}

// taxReductions computes the charity and PME subscription reductions.
//
// Reductions only decrease the tax, they never turn into a refund.
func (s *simulator) taxReductions() error {
	// 75% for donations helping people in need up to a ceiling,
	aid := s.state.Get(CharityAid)
	tier75 := decimal.Min(aid, charity75Ceiling)
	s.flags[Charity75] = euros(tier75) + capped(aid.GreaterThan(charity75Ceiling))

	// then 66% for the rest and general interest donations, up to 20% of the taxable income.
	leftover := s.state.Get(CharityGeneral).Add(decimal.Max(aid.Sub(charity75Ceiling), decimal.Zero))
	limit := decimal.Max(s.state.Get(TaxableIncome), decimal.Zero).Mul(charity66IncomeRate)
	tier66 := decimal.Min(leftover, limit).RoundBank(0)
	s.flags[Charity66] = euros(tier66) + capped(leftover.GreaterThan(limit))

	s.state.Set(CharityReduction, tier75.Mul(charity75Rate).Add(tier66.Mul(charity66Rate)))

	// PME subscriptions have two periods with different rates, jointly capped.
	before := decimal.Min(s.state.Get(PMESubscriptionBefore), pmeCeiling)
	after := decimal.Min(s.state.Get(PMESubscriptionAfter), pmeCeiling.Sub(before))
	s.state.Set(PMESubscriptionReduction, before.Mul(pmeRateBefore).Add(after.Mul(pmeRateAfter)))
	return nil
}
