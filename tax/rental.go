package tax

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrRentalModes is returned when mutually exclusive rental reporting modes are combined.
	ErrRentalModes = errors.New("incompatible rental income reporting")
	// ErrRentalCeiling is returned when a rental reporting ceiling is exceeded.
	ErrRentalCeiling = errors.New("rental income ceiling exceeded")
)

var (
	simplifiedRentalCeiling  = decimal.NewFromInt(15000)
	simplifiedRentalTaxable  = decimal.RequireFromString("0.7")
	globalRentalDeficitLimit = decimal.NewFromInt(10700)
)

// rentalIncome computes the net result of unfurnished rentals.
//
// The simplified regime (4BE) applies a flat 30% rebate. Otherwise the real
// regime reports either a profit (4BA), reduced by previous deficits, or a
// deficit split between a part deductible from global income (4BC) and a part
// carried over on future rental income (4BB). Foreign rental income is not supported.
func (s *simulator) rentalIncome() error {
	simplified := s.state.Get(RentalSimplified)
	profit := s.state.Get(RentalProfit)
	deficit := s.state.Get(RentalDeficit)
	globalDeficit := s.state.Get(RentalGlobalDeficit)
	previous := s.state.Get(RentalPreviousDeficits)

	var result, carryover decimal.Decimal
	switch {
	case !simplified.IsZero():
		if !profit.IsZero() || !deficit.IsZero() || !globalDeficit.IsZero() || !previous.IsZero() {
			return fmt.Errorf("%w: the simplified rental income reporting (4BE) cannot be combined with the default rental income reporting (4BA 4BB 4BC 4BD)", ErrRentalModes)
		}
		if simplified.GreaterThan(simplifiedRentalCeiling) {
			return fmt.Errorf("%w: simplified rental income reporting (4BE) cannot exceed %s", ErrRentalCeiling, euros(simplifiedRentalCeiling))
		}
		result = simplified.Mul(simplifiedRentalTaxable)
	case !profit.IsZero():
		if !deficit.IsZero() || !globalDeficit.IsZero() {
			return fmt.Errorf("%w: rental profit reporting (4BA) cannot be combined with rental deficit reporting (4BB 4BC)", ErrRentalModes)
		}
		result = decimal.Max(profit.Sub(previous), decimal.Zero)
		carryover = decimal.Max(decimal.Zero, previous.Sub(profit))
	default:
		if globalDeficit.GreaterThan(globalRentalDeficitLimit) {
			return fmt.Errorf("%w: rental deficit for global deduction (4BC) cannot exceed %s", ErrRentalCeiling, euros(globalRentalDeficitLimit))
		}
		result = globalDeficit.Neg()
		carryover = deficit.Add(previous)
	}

	s.state.Set(RentalIncomeResult, result)
	if !carryover.IsZero() {
		s.state.Set(RentalDeficitCarryover, carryover)
		s.flags[RentalCarryover] = euros(carryover)
	}
	return nil
}
