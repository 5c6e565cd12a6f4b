package tax

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrDaycareChildren is returned when more daycare fees are declared than children under 6.
var ErrDaycareChildren = errors.New("more children daycare fees than children below 6")

var (
	daycareCeiling = decimal.NewFromInt(2300)
	creditRate     = decimal.RequireFromString("0.5")

	homeServicesBase         = decimal.NewFromInt(12000)
	homeServicesPerChild     = decimal.NewFromInt(1500)
	homeServicesOverallLimit = decimal.NewFromInt(15000)
)

// taxCredits computes the daycare and home services credits.
//
// Unlike reductions, credits can make the net tax negative.
func (s *simulator) taxCredits() error {
	under6 := s.state.Get(ChildrenUnder6).IntPart()
	var declared int64
	total, cappedOut := decimal.Zero, decimal.Zero
	for _, box := range DaycareFees {
		if !s.state.Has(box) {
			continue
		}
		declared++
		if declared > under6 {
			return fmt.Errorf("%w: %d daycare fees declared (7GA-7GG) for %d children below 6", ErrDaycareChildren, declared, under6)
		}
		fees := s.state.Get(box)
		total = total.Add(decimal.Min(fees, daycareCeiling))
		cappedOut = cappedOut.Add(decimal.Max(fees.Sub(daycareCeiling), decimal.Zero))
	}
	if declared > 0 {
		s.flags[DaycareCreditCapping] = fmt.Sprintf("capped to %s (originally %s)", euros(total), euros(total.Add(cappedOut)))
	}
	s.state.Set(DaycareTaxCredit, total.Mul(creditRate))

	children := decimal.NewFromInt(int64(s.household.Children))
	limit := decimal.Min(homeServicesBase.Add(homeServicesPerChild.Mul(children)), homeServicesOverallLimit)
	services := s.state.Get(HomeServices)
	if services.GreaterThan(limit) {
		s.flags[HomeServicesCreditCapping] = fmt.Sprintf("capped to %s (originally %s)", euros(limit), euros(services))
	}
	s.state.Set(HomeServicesTaxCredit, decimal.Min(services, limit).Mul(creditRate))
	return nil
}
