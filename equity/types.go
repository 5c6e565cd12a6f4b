package equity

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/etnz/fiscal/date"
)

var (
	// ErrUnsupportedScheme is returned for a taxation scheme without known rules.
	ErrUnsupportedScheme = errors.New("unsupported taxation scheme")
	// ErrInvalidOwner is returned for an owner other than declarant 1 or 2.
	ErrInvalidOwner = errors.New("invalid owner")
	// ErrUnknownPlan is returned for an RSU lot of a plan never registered.
	ErrUnknownPlan = errors.New("unknown plan")
	// ErrUnknownCategory is returned for a category other than RSU, ESPP and StockOption.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrInvalidCount is returned for a lot or order with a non positive count.
	ErrInvalidCount = errors.New("invalid count")
)

// Category is the kind of equity compensation a lot comes from.
type Category int

const (
	// RSU are restricted stock units, acquired for free at vesting.
	RSU Category = iota
	// ESPP are shares bought at a discount through a purchase plan.
	ESPP
	// StockOption are options exercised and immediately sold.
	StockOption
)

// Categories lists all categories.
var Categories = []Category{RSU, ESPP, StockOption}

func (c Category) String() string {
	switch c {
	case RSU:
		return "RSU"
	case ESPP:
		return "ESPP"
	case StockOption:
		return "StockOption"
	default:
		return "unknown"
	}
}

// ParseCategory parses a category, case insensitive.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(s) {
	case "rsu":
		return RSU, nil
	case "espp":
		return ESPP, nil
	case "stockoption", "stock_option", "so":
		return StockOption, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
}

func (c Category) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Category) UnmarshalText(text []byte) error {
	v, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Scheme is the taxation scheme of an RSU plan, named after the law that introduced it.
type Scheme int

const (
	Scheme2007 Scheme = iota
	Scheme2012
	Scheme2015
	Scheme2017
	Scheme2018
)

func (s Scheme) String() string {
	switch s {
	case Scheme2007:
		return "2007"
	case Scheme2012:
		return "2012"
	case Scheme2015:
		return "2015"
	case Scheme2017:
		return "2017"
	case Scheme2018:
		return "2018"
	default:
		return "unknown"
	}
}

// parseScheme parses a scheme name.
func parseScheme(s string) (Scheme, error) {
	for _, sc := range []Scheme{Scheme2007, Scheme2012, Scheme2015, Scheme2017, Scheme2018} {
		if sc.String() == s {
			return sc, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedScheme, s)
}

func (s Scheme) MarshalText() ([]byte, error) {
	if s < Scheme2007 || s > Scheme2018 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedScheme, int(s))
	}
	return []byte(s.String()), nil
}

func (s *Scheme) UnmarshalText(text []byte) error {
	v, err := parseScheme(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// schemeLimits are the last plan approval dates of each scheme.
var schemeLimits = []struct {
	last   date.Date
	scheme Scheme
}{
	{date.New(2012, 9, 27), Scheme2007},
	{date.New(2015, 8, 8), Scheme2012},
	{date.New(2017, 1, 1), Scheme2015},
	{date.New(2018, 1, 1), Scheme2017},
}

// SchemeOf returns the taxation scheme of a plan approved on a date.
func SchemeOf(approval date.Date) Scheme {
	for _, l := range schemeLimits {
		if !approval.After(l.last) {
			return l.scheme
		}
	}
	return Scheme2018
}

// Owner is the declarant owning a lot, 1 or 2.
type Owner int

// Valid returns an error if o is neither 1 nor 2.
func (o Owner) Valid() error {
	if o != 1 && o != 2 {
		return fmt.Errorf("%w: owner must be 1 or 2, not %d", ErrInvalidOwner, int(o))
	}
	return nil
}

// ParseOwner parses an owner number.
func ParseOwner(s string) (Owner, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidOwner, s)
	}
	o := Owner(n)
	return o, o.Valid()
}
