package tax

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Flag identifies an informational notice raised during a simulation.
//
// Flags never change the computation, they document caps that were hit and
// intermediate values worth knowing.
type Flag int

const (
	FeeRebateIncome1 Flag = iota
	FeeRebateIncome2
	MarginalTaxRate
	FamilyQuotientCapping
	DaycareCreditCapping
	HomeServicesCreditCapping
	GlobalFiscalAdvantages
	Charity75
	Charity66
	RentalCarryover
	numFlags
)

var flagNames = [...]string{
	FeeRebateIncome1:          "FEE_REBATE_INCOME_1",
	FeeRebateIncome2:          "FEE_REBATE_INCOME_2",
	MarginalTaxRate:           "MARGINAL_TAX_RATE",
	FamilyQuotientCapping:     "FAMILY_QUOTIENT_CAPPING",
	DaycareCreditCapping:      "CHILD_DAYCARE_CREDIT_CAPPING",
	HomeServicesCreditCapping: "HOME_SERVICES_CREDIT_CAPPING",
	GlobalFiscalAdvantages:    "GLOBAL_FISCAL_ADVANTAGES",
	Charity75:                 "CHARITY_75P",
	Charity66:                 "CHARITY_66P",
	RentalCarryover:           "RENTAL_DEFICIT_CARRYOVER",
}

var flagTitles = [...]string{
	FeeRebateIncome1:          "[1] Hit ceiling for fees rebate on income",
	FeeRebateIncome2:          "[2] Hit ceiling for fees rebate on income",
	MarginalTaxRate:           "Marginal tax rate",
	FamilyQuotientCapping:     "Capped family quotient benefits",
	DaycareCreditCapping:      "Capped child daycare tax credit",
	HomeServicesCreditCapping: "Capped home services tax credit",
	GlobalFiscalAdvantages:    "Global fiscal advantages",
	Charity75:                 "Charity donation resulting in 75% reduction",
	Charity66:                 "Charity donation resulting in 66% reduction",
	RentalCarryover:           "Rental income deficit to carry over next years",
}

func (f Flag) valid() bool { return f >= 0 && f < numFlags }

func (f Flag) String() string {
	if !f.valid() {
		return "unknown"
	}
	return flagNames[f]
}

// Title is a human readable description of the flag.
func (f Flag) Title() string {
	if !f.valid() {
		return "unknown"
	}
	return flagTitles[f]
}

// ParseFlag parses a flag name as returned by String.
func ParseFlag(s string) (Flag, error) {
	for f, name := range flagNames {
		if strings.EqualFold(name, s) {
			return Flag(f), nil
		}
	}
	return 0, fmt.Errorf("unknown flag: %q", s)
}

func (f Flag) MarshalText() ([]byte, error) {
	if !f.valid() {
		return nil, fmt.Errorf("unknown flag: %d", int(f))
	}
	return []byte(f.String()), nil
}

func (f *Flag) UnmarshalText(text []byte) error {
	v, err := ParseFlag(string(text))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// Flags maps each raised flag to its message.
type Flags map[Flag]string

// Sorted returns the raised flags in declaration order.
func (fs Flags) Sorted() []Flag {
	return slices.Sorted(maps.Keys(fs))
}
