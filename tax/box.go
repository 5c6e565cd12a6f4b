package tax

import (
	"fmt"
	"maps"
	"slices"

	"github.com/shopspring/decimal"
)

// Box identifies a value of the fiscal state.
//
// Declared values use the official box codes of forms 2042, 2042C and 2042-RICI.
// Values computed by the simulator use descriptive snake_case names.
type Box string

// Declared boxes.
const (
	Salary1                Box = "1AJ" // salaries, declarant 1
	Salary2                Box = "1BJ" // salaries, declarant 2
	ExerciseGain1          Box = "1TT" // stock option exercise gain, declarant 1
	ExerciseGain2          Box = "1UT" // stock option exercise gain, declarant 2
	AcquisitionGain        Box = "1TZ" // taxable RSU acquisition gain
	AcquisitionRebate      Box = "1UZ" // RSU acquisition gain rebate for holding duration
	AcquisitionRebate50    Box = "1WZ" // RSU acquisition gain flat 50% rebate
	FixedIncomeInterest    Box = "2TR"
	AlreadyTaxedInterest   Box = "2BH" // interest already subject to social taxes
	InterestTaxPaid        Box = "2CK" // flat tax already withheld on interest
	CapitalGain            Box = "3VG"
	CapitalLoss            Box = "3VH"
	RentalSimplified       Box = "4BE" // micro-foncier gross rental income
	RentalProfit           Box = "4BA"
	RentalDeficit          Box = "4BB" // deficit to carry over on future rental income
	RentalGlobalDeficit    Box = "4BC" // deficit deductible from global income
	RentalPreviousDeficits Box = "4BD"
	RetirementSavings1     Box = "6NS"
	RetirementSavings2     Box = "6NT"
	PMESubscriptionBefore  Box = "7CF"
	PMESubscriptionAfter   Box = "7CH"
	HomeServices           Box = "7DB"
	CharityAid             Box = "7UD" // donations to organisations helping people in need
	CharityGeneral         Box = "7UF" // donations to organisations of general interest
)

// DaycareFees are the per child daycare fee boxes, one per child under 6.
var DaycareFees = []Box{"7GA", "7GB", "7GC", "7GD", "7GE", "7GF", "7GG"}

// Computed boxes.
const (
	HouseholdShares          Box = "household_shares"
	ChildrenUnder6           Box = "nb_children_lt_6yo"
	RentalIncomeResult       Box = "rental_income_result"
	RentalDeficitCarryover   Box = "rental_deficit_carryover"
	Deduction10p1            Box = "deduction_10p_1"
	Deduction10p2            Box = "deduction_10p_2"
	TotalNetIncome           Box = "total_net_income"
	TaxableIncome            Box = "taxable_income"
	TaxableInvestmentIncome  Box = "taxable_investment_income"
	InvestmentIncomeTax      Box = "investment_income_tax"
	ReferenceFiscalIncome    Box = "reference_fiscal_income"
	SimpleTaxRight           Box = "simple_tax_right"
	TaxBeforeReductions      Box = "tax_before_reductions"
	CharityReduction         Box = "charity_reduction"
	PMESubscriptionReduction Box = "pme_subscription_reduction"
	DaycareTaxCredit         Box = "children_daycare_taxcredit"
	HomeServicesTaxCredit    Box = "home_services_taxcredit"
	CapitalGainTax           Box = "capital_gain_tax"
	FiscalAdvantages         Box = "fiscal_advantages"
	NetTaxes                 Box = "net_taxes"
	SocialTaxesStockOptions  Box = "social_taxes_stock_options"
	SocialTaxesEquity        Box = "social_taxes_equity"
	SocialTaxesInterest      Box = "social_taxes_interest"
	SocialTaxesRental        Box = "social_taxes_rental"
	NetSocialTaxes           Box = "net_social_taxes"
)

// State maps boxes to amounts. Absent boxes read as zero.
type State map[Box]decimal.Decimal

// Get returns the value of box b, or zero if absent.
func (s State) Get(b Box) decimal.Decimal {
	return s[b] // zero value of decimal.Decimal is 0
}

// Has reports whether b was set, even to zero.
func (s State) Has(b Box) bool {
	_, ok := s[b]
	return ok
}

// Set sets the value of box b.
func (s State) Set(b Box, v decimal.Decimal) { s[b] = v }

// Add adds v to box b.
func (s State) Add(b Box, v decimal.Decimal) { s[b] = s.Get(b).Add(v) }

// Sum returns the sum of the given boxes.
func (s State) Sum(boxes ...Box) decimal.Decimal {
	total := decimal.Zero
	for _, b := range boxes {
		total = total.Add(s.Get(b))
	}
	return total
}

// Clone returns a copy of s.
func (s State) Clone() State {
	if s == nil {
		return make(State)
	}
	return maps.Clone(s)
}

// Merge adds every value of o to s.
func (s State) Merge(o State) State {
	for b, v := range o {
		s.Add(b, v)
	}
	return s
}

// Boxes returns the boxes set in s, sorted.
func (s State) Boxes() []Box {
	return slices.Sorted(maps.Keys(s))
}

var labels = map[Box]string{
	Salary1:                  "Salaries, declarant 1",
	Salary2:                  "Salaries, declarant 2",
	ExerciseGain1:            "Stock option exercise gain, declarant 1",
	ExerciseGain2:            "Stock option exercise gain, declarant 2",
	AcquisitionGain:          "Taxable acquisition gain",
	AcquisitionRebate:        "Acquisition gain rebate for holding duration",
	AcquisitionRebate50:      "Acquisition gain 50% rebate",
	FixedIncomeInterest:      "Interest",
	AlreadyTaxedInterest:     "Interest already subject to social taxes",
	InterestTaxPaid:          "Flat tax withheld on interest",
	CapitalGain:              "Capital gain",
	CapitalLoss:              "Capital loss",
	RentalSimplified:         "Gross rental income (micro-foncier)",
	RentalProfit:             "Rental profit",
	RentalDeficit:            "Rental deficit on rental income",
	RentalGlobalDeficit:      "Rental deficit on global income",
	RentalPreviousDeficits:   "Previous rental deficits",
	RetirementSavings1:       "Retirement savings, declarant 1",
	RetirementSavings2:       "Retirement savings, declarant 2",
	PMESubscriptionBefore:    "PME subscription before 2017-08-09",
	PMESubscriptionAfter:     "PME subscription",
	HomeServices:             "Home services",
	CharityAid:               "Donations to help people in need",
	CharityGeneral:           "Donations of general interest",
	HouseholdShares:          "Household shares",
	ChildrenUnder6:           "Children under 6",
	RentalIncomeResult:       "Rental income result",
	RentalDeficitCarryover:   "Rental deficit to carry over",
	Deduction10p1:            "10% deduction, declarant 1",
	Deduction10p2:            "10% deduction, declarant 2",
	TotalNetIncome:           "Total net income",
	TaxableIncome:            "Taxable income",
	TaxableInvestmentIncome:  "Taxable investment income",
	InvestmentIncomeTax:      "Investment income tax",
	ReferenceFiscalIncome:    "Reference fiscal income",
	SimpleTaxRight:           "Simple tax right",
	TaxBeforeReductions:      "Tax before reductions",
	CharityReduction:         "Charity reduction",
	PMESubscriptionReduction: "PME subscription reduction",
	DaycareTaxCredit:         "Child daycare tax credit",
	HomeServicesTaxCredit:    "Home services tax credit",
	CapitalGainTax:           "Capital gain tax",
	FiscalAdvantages:         "Fiscal advantages",
	NetTaxes:                 "Net taxes",
	SocialTaxesStockOptions:  "Social taxes on stock options",
	SocialTaxesEquity:        "Social taxes on equity",
	SocialTaxesInterest:      "Social taxes on interest",
	SocialTaxesRental:        "Social taxes on rental income",
	NetSocialTaxes:           "Net social taxes",
}

// Label returns a human readable description of b, or b itself when unknown.
func (b Box) Label() string {
	if l, ok := labels[b]; ok {
		return l
	}
	if i := slices.Index(DaycareFees, b); i >= 0 {
		return fmt.Sprintf("Daycare fees, child %d", i+1)
	}
	return string(b)
}

// Declared reports whether b is an official box code rather than a computed value.
func (b Box) Declared() bool {
	return len(b) == 3 && b[0] >= '0' && b[0] <= '9'
}
