package tax

import "github.com/shopspring/decimal"

// family computes the household shares and counts the children under 6.
func (s *simulator) family() error {
	if err := s.household.validate(); err != nil {
		return err
	}
	s.state.Set(HouseholdShares, s.household.Shares())
	s.state.Set(ChildrenUnder6, decimal.NewFromInt(int64(s.household.ChildrenUnder6(s.year))))
	return nil
}
