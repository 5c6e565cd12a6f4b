package tax

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/shopspring/decimal"
)

// ErrUnsupportedYear is returned for a statement year without known parameters.
var ErrUnsupportedYear = errors.New("unsupported statement year")

// Parameters are the statutory constants that evolve each year.
type Parameters struct {
	Year int
	// FamilyQuotientCap is the maximum benefit of each half share above the base shares.
	FamilyQuotientCap decimal.Decimal
	// Thresholds are the lower bounds of the brackets for one share.
	Thresholds []decimal.Decimal
	// Rates are the rates of the brackets starting at each threshold.
	Rates []decimal.Decimal
	// FeeDeductionCeiling caps the flat 10% deduction for professional fees.
	FeeDeductionCeiling decimal.Decimal
}

func amounts(vs ...int64) []decimal.Decimal {
	ds := make([]decimal.Decimal, len(vs))
	for i, v := range vs {
		ds[i] = decimal.NewFromInt(v)
	}
	return ds
}

func rates(vs ...string) []decimal.Decimal {
	ds := make([]decimal.Decimal, len(vs))
	for i, v := range vs {
		ds[i] = decimal.RequireFromString(v)
	}
	return ds
}

var yearlyParameters = map[int]Parameters{
	2021: {
		Year:                2021,
		FamilyQuotientCap:   decimal.NewFromInt(1570),
		Thresholds:          amounts(10084, 25710, 73516, 158122),
		Rates:               rates("0.11", "0.30", "0.41", "0.45"),
		FeeDeductionCeiling: decimal.NewFromInt(12652),
	},
	2022: {
		Year:                2022,
		FamilyQuotientCap:   decimal.NewFromInt(1592),
		Thresholds:          amounts(10225, 26070, 74545, 160336),
		Rates:               rates("0.11", "0.30", "0.41", "0.45"),
		FeeDeductionCeiling: decimal.NewFromInt(12829),
	},
	2023: {
		Year:                2023,
		FamilyQuotientCap:   decimal.NewFromInt(1678),
		Thresholds:          amounts(10777, 27478, 78570, 168994),
		Rates:               rates("0.11", "0.30", "0.41", "0.45"),
		FeeDeductionCeiling: decimal.NewFromInt(13522),
	},
	2024: {
		Year:                2024,
		FamilyQuotientCap:   decimal.NewFromInt(1759),
		Thresholds:          amounts(11294, 28797, 82341, 177106),
		Rates:               rates("0.11", "0.30", "0.41", "0.45"),
		FeeDeductionCeiling: decimal.NewFromInt(14171),
	},
}

// ParametersFor returns the parameters of a statement year.
func ParametersFor(year int) (Parameters, error) {
	p, ok := yearlyParameters[year]
	if !ok {
		return Parameters{}, fmt.Errorf("%w: %d (supported: %v)", ErrUnsupportedYear, year, Years())
	}
	return p, nil
}

// Years returns the supported statement years in ascending order.
func Years() []int {
	return slices.Sorted(maps.Keys(yearlyParameters))
}
