package tax

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrUnsupportedHousehold is returned for household situations the simulator cannot compute.
var ErrUnsupportedHousehold = errors.New("unsupported household")

// Household describes the family situation of the tax household.
type Household struct {
	Married  bool `json:"married"`
	Children int  `json:"nb_children"`
	// ChildBirthYears lists known birth years, used to count children under 6.
	ChildBirthYears []int `json:"child_birthyears,omitempty"`
}

// validate returns an error for situations that would be computed wrong.
//
// Extra half shares (disability, single parent) and shared custody are not supported.
func (h Household) validate() error {
	if !h.Married {
		return fmt.Errorf("%w: non-married situation is not supported", ErrUnsupportedHousehold)
	}
	if h.Children < 0 {
		return fmt.Errorf("%w: negative number of children %d", ErrUnsupportedHousehold, h.Children)
	}
	if len(h.ChildBirthYears) > h.Children {
		return fmt.Errorf("%w: %d birth years for %d children", ErrUnsupportedHousehold, len(h.ChildBirthYears), h.Children)
	}
	return nil
}

// BaseShares returns the shares of the household without children.
func (h Household) BaseShares() decimal.Decimal {
	if h.Married {
		return decimal.NewFromInt(2)
	}
	return decimal.NewFromInt(1)
}

// Shares returns the household shares: half a share for each of the first two
// children, a full share for each next one.
func (h Household) Shares() decimal.Decimal {
	first := min(h.Children, 2)
	next := max(0, h.Children-first)
	return h.BaseShares().
		Add(decimal.NewFromInt(int64(first)).Mul(half)).
		Add(decimal.NewFromInt(int64(next)))
}

// ChildrenUnder6 counts children aged 6 or less on January 1st of the year
// before the statement year.
func (h Household) ChildrenUnder6(year int) int {
	n := 0
	for _, by := range h.ChildBirthYears {
		if year-1-by <= 6 {
			n++
		}
	}
	return n
}
