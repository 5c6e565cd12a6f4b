package tax

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	feeDeductionRate  = decimal.RequireFromString("0.1")
	investmentTaxRate = decimal.RequireFromString("0.128")
)

// netIncome aggregates salaries and exercise gains of each declarant, minus
// the flat 10% deduction for professional fees, plus the rental result.
func (s *simulator) netIncome() error {
	ceiling := s.params.FeeDeductionCeiling
	declarants := []struct {
		income    []Box
		deduction Box
		flag      Flag
	}{
		{[]Box{Salary1, ExerciseGain1}, Deduction10p1, FeeRebateIncome1},
		{[]Box{Salary2, ExerciseGain2}, Deduction10p2, FeeRebateIncome2},
	}

	net := s.state.Get(RentalIncomeResult)
	for _, d := range declarants {
		income := s.state.Sum(d.income...)
		tenth := income.Mul(feeDeductionRate)
		deduction := decimal.Min(tenth, ceiling).RoundBank(0)
		s.state.Set(d.deduction, deduction)
		if tenth.GreaterThan(ceiling) {
			s.flags[d.flag] = fmt.Sprintf("taxable income += %s", euros(tenth.Sub(ceiling).RoundBank(0)))
		}
		net = net.Add(income).Sub(deduction)
	}
	s.state.Set(TotalNetIncome, net)
	return nil
}

// taxableIncome deducts retirement savings transfers and adds the taxable part of RSU acquisition gains.
//
// Retirement savings deductions are not capped.
func (s *simulator) taxableIncome() error {
	taxable := s.state.Get(TotalNetIncome).
		Sub(s.state.Sum(RetirementSavings1, RetirementSavings2)).
		Add(s.state.Get(AcquisitionGain))
	s.state.Set(TaxableIncome, taxable)
	return nil
}

// flatRateTaxes computes the flat tax on fixed income interest (2TR).
func (s *simulator) flatRateTaxes() error {
	interest := s.state.Get(FixedIncomeInterest)
	s.state.Set(TaxableInvestmentIncome, interest)
	s.state.Set(InvestmentIncomeTax, interest.Mul(investmentTaxRate).RoundBank(0))
	return nil
}

func (s *simulator) referenceFiscalIncome() error {
	s.state.Set(ReferenceFiscalIncome, s.state.Sum(TotalNetIncome, TaxableInvestmentIncome, CapitalGain))
	return nil
}
