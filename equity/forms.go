package equity

import (
	"fmt"

	"github.com/etnz/fiscal/date"
	"github.com/etnz/fiscal/tax"
	"github.com/shopspring/decimal"
)

var (
	rate35 = decimal.RequireFromString("0.35")
	rate50 = decimal.RequireFromString("0.5")
	rate65 = decimal.RequireFromString("0.65")
)

// AcquisitionGain is the acquisition gain part of form 2042C for a year.
type AcquisitionGain struct {
	Taxable   decimal.Decimal // 1TZ
	Rebates   decimal.Decimal // 1UZ
	Rebates50 decimal.Decimal // 1WZ
	// Exercise are the stock option gains of each owner (1TT, 1UT).
	Exercise [2]decimal.Decimal
}

// Boxes returns the form 2042C boxes.
func (a AcquisitionGain) Boxes() tax.State {
	return tax.State{
		tax.AcquisitionGain:     a.Taxable,
		tax.AcquisitionRebate:   a.Rebates,
		tax.AcquisitionRebate50: a.Rebates50,
		tax.ExerciseGain1:       a.Exercise[0],
		tax.ExerciseGain2:       a.Exercise[1],
	}
}

// AcquisitionGain computes the acquisition gains of the RSU and stock option sales of a year.
//
// RSU gains are rebated according to the plan scheme and the holding
// duration. Stock option gains, the spread between sale and strike prices, are
// taxable like salaries for their owner. Only options granted after
// 2012-09-28 are supported.
func (l *Ledger) AcquisitionGain(year int) (AcquisitionGain, error) {
	var r AcquisitionGain
	for _, sale := range l.sales[year] {
		switch sale.Category {
		case StockOption:
			for _, part := range sale.Breakdown {
				gain := sale.PriceEUR.Sub(part.PriceEUR).Mul(decimal.NewFromInt(part.Quantity))
				if err := part.Owner.Valid(); err != nil {
					return AcquisitionGain{}, err
				}
				r.Exercise[part.Owner-1] = r.Exercise[part.Owner-1].Add(gain)
			}
		case RSU:
			minus2y := sale.Date.AddYears(-2)
			minus8y := sale.Date.AddYears(-8)
			for _, part := range sale.Breakdown {
				plan, ok := l.plans[part.Plan]
				if !ok {
					return AcquisitionGain{}, fmt.Errorf("%w: %q", ErrUnknownPlan, part.Plan)
				}
				gain := sale.UnitPrice.Mul(decimal.NewFromInt(part.Quantity))
				taxable, rebate, rebate50, err := rebateSchedule(plan.Scheme, gain, part.Date, minus2y, minus8y)
				if err != nil {
					return AcquisitionGain{}, fmt.Errorf("plan %q: %w", plan.Name, err)
				}
				r.Taxable = r.Taxable.Add(taxable)
				r.Rebates = r.Rebates.Add(rebate)
				r.Rebates50 = r.Rebates50.Add(rebate50)
			}
		}
	}
	r.Taxable = r.Taxable.RoundBank(0)
	r.Rebates = r.Rebates.RoundBank(0)
	r.Rebates50 = r.Rebates50.RoundBank(0)
	r.Exercise[0] = r.Exercise[0].RoundBank(0)
	r.Exercise[1] = r.Exercise[1].RoundBank(0)
	return r, nil
}

// rebateSchedule splits an acquisition gain into its taxable part and rebates.
func rebateSchedule(s Scheme, gain decimal.Decimal, acquired, minus2y, minus8y date.Date) (taxable, rebate, rebate50 decimal.Decimal, err error) {
	switch s {
	case Scheme2015, Scheme2017:
		switch {
		case !acquired.After(minus8y):
			return gain.Mul(rate35), gain.Mul(rate65), decimal.Zero, nil
		case !acquired.After(minus2y):
			return gain.Mul(rate50), gain.Mul(rate50), decimal.Zero, nil
		default:
			// too recent for a rebate
			return gain, decimal.Zero, decimal.Zero, nil
		}
	case Scheme2018:
		return gain.Mul(rate50), decimal.Zero, gain.Mul(rate50), nil
	default:
		return decimal.Zero, decimal.Zero, decimal.Zero, fmt.Errorf("%w: %v", ErrUnsupportedScheme, s)
	}
}

// Form2074Line is the detail of a sale on form 2074, in euros.
type Form2074Line struct {
	Symbol          string
	Category        Category
	Date            date.Date       // 512
	UnitSalePrice   decimal.Decimal // 514
	Units           int64           // 515
	GrossProceeds   decimal.Decimal // 516
	Fees            decimal.Decimal // 517
	NetProceeds     decimal.Decimal // 518
	UnitAcquisition decimal.Decimal // 520
	AcquisitionCost decimal.Decimal // 521
	AcquisitionFees decimal.Decimal // 522
	TotalCost       decimal.Decimal // 523
	Result          decimal.Decimal // 524
}

// CapitalGain is the capital gain of the sales of a year.
type CapitalGain struct {
	Lines []Form2074Line
	// Total is the sum of the line results. A negative total is a loss.
	Total decimal.Decimal
}

// Gain returns the taxable capital gain (3VG), zero for a loss.
func (c CapitalGain) Gain() decimal.Decimal {
	if c.Total.IsNegative() {
		return decimal.Zero
	}
	return c.Total
}

// Loss returns the capital loss (3VH) as a positive amount, zero for a gain.
func (c CapitalGain) Loss() decimal.Decimal {
	if c.Total.IsNegative() {
		return c.Total.Neg()
	}
	return decimal.Zero
}

// Boxes returns the form 2042C box: either 3VG or 3VH, never both.
func (c CapitalGain) Boxes() tax.State {
	if c.Total.IsNegative() {
		return tax.State{tax.CapitalLoss: c.Loss()}
	}
	return tax.State{tax.CapitalGain: c.Gain()}
}

// CapitalGain computes the capital gain of the RSU and ESPP sales of a year.
//
// Stock options are exercised and sold at once, they have no capital gain.
func (l *Ledger) CapitalGain(year int) CapitalGain {
	var r CapitalGain
	for _, sale := range l.sales[year] {
		if sale.Category == StockOption {
			continue
		}
		units := decimal.NewFromInt(sale.Quantity)
		gross := sale.PriceEUR.Mul(units)
		line := Form2074Line{
			Symbol:          sale.Symbol,
			Category:        sale.Category,
			Date:            sale.Date,
			UnitSalePrice:   sale.PriceEUR,
			Units:           sale.Quantity,
			GrossProceeds:   gross.RoundBank(0),
			Fees:            sale.FeesEUR.RoundBank(0),
			NetProceeds:     gross.Sub(sale.FeesEUR).RoundBank(0),
			UnitAcquisition: sale.UnitPrice,
			AcquisitionCost: sale.UnitPrice.Mul(units).RoundBank(0),
			AcquisitionFees: decimal.Zero,
		}
		line.TotalCost = line.AcquisitionCost.Add(line.AcquisitionFees)
		line.Result = line.NetProceeds.Sub(line.TotalCost)
		r.Lines = append(r.Lines, line)
		r.Total = r.Total.Add(line.Result)
	}
	return r
}
