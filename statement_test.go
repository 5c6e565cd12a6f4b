package fiscal

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/etnz/fiscal/date"
	"github.com/etnz/fiscal/equity"
	"github.com/etnz/fiscal/fx"
	"github.com/etnz/fiscal/tax"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rsuStatement = `{
  "year": 2023,
  "household": {"married": true, "nb_children": 0},
  "boxes": {"1AJ": 30000, "1BJ": 40000},
  "plans": [{"name": "Cake1", "approval": "2019-01-01", "symbol": "CAKE", "currency": "EUR"}],
  "lots": [{"category": "RSU", "owner": 1, "symbol": "CAKE", "plan": "Cake1", "count": 100, "date": "2020-03-02", "price": "50"}],
  "sales": [{"category": "RSU", "symbol": "CAKE", "quantity": 100, "date": "2022-05-10", "price": "60", "fees": "10"}]
}`

func assertBox(t *testing.T, s tax.State, b tax.Box, want string) {
	t.Helper()
	assert.Truef(t, decimal.RequireFromString(want).Equal(s.Get(b)), "%s: want %s got %s", b, want, s.Get(b))
}

func TestDecodeStatement(t *testing.T) {
	s, err := DecodeStatement(strings.NewReader(rsuStatement))
	require.NoError(t, err)
	assert.Equal(t, 2023, s.Year)
	assert.Equal(t, 2022, s.IncomeYear())
	assert.True(t, s.Household.Married)
	assertBox(t, s.Boxes, tax.Salary1, "30000")
	require.Len(t, s.Lots, 1)
	assert.Equal(t, equity.RSU, s.Lots[0].Category)
	assert.Equal(t, date.New(2020, 3, 2), s.Lots[0].Date)
	require.Len(t, s.Sales, 1)
	assert.Equal(t, "CAKE", s.Sales[0].Symbol)
	assert.Equal(t, int64(100), s.Sales[0].Quantity)
}

func TestDecodeStatementErrors(t *testing.T) {
	for name, doc := range map[string]string{
		"missing year":  `{"boxes": {}}`,
		"unknown field": `{"year": 2023, "salary": 3}`,
		"bad category":  `{"year": 2023, "sales": [{"category": "bond"}]}`,
		"bad date":      `{"year": 2023, "lots": [{"date": "yesterday"}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeStatement(strings.NewReader(doc))
			assert.Error(t, err)
		})
	}
}

func TestRun(t *testing.T) {
	s, err := DecodeStatement(strings.NewReader(rsuStatement))
	require.NoError(t, err)

	r, err := Run(s, fx.NewTable())
	require.NoError(t, err)

	assertBox(t, r.Boxes, tax.AcquisitionGain, "2500")
	assertBox(t, r.Boxes, tax.AcquisitionRebate50, "2500")
	assertBox(t, r.Boxes, tax.CapitalGain, "990")
	assert.False(t, r.Boxes.Has(tax.AcquisitionRebate), "zero boxes are not declared")
	assert.False(t, r.Boxes.Has(tax.CapitalLoss))
	assert.False(t, s.Boxes.Has(tax.CapitalGain), "the statement is left untouched")

	require.Len(t, r.Capital.Lines, 1)
	assertBox(t, r.Result.State, tax.CapitalGain, "990")
	assertBox(t, r.Result.State, tax.HouseholdShares, "2")
	assert.Equal(t, 2023, r.Result.Year)
	assert.Equal(t, int64(100), r.Summary["CAKE"][equity.RSU])
}

func TestRunWithoutSales(t *testing.T) {
	s := &Statement{
		Year:      2021,
		Household: tax.Household{Married: true},
		Boxes:     tax.State{tax.Salary1: decimal.NewFromInt(30000), tax.Salary2: decimal.NewFromInt(40000)},
	}
	r, err := Run(s, fx.NewTable())
	require.NoError(t, err)
	assertBox(t, r.Result.State, tax.NetTaxes, "6912")
	assert.Empty(t, r.Capital.Lines)
}

func TestRunReplaysOnSharedLedger(t *testing.T) {
	l := equity.NewLedger(fx.NewTable())
	l.AddPlan("Cake1", date.New(2019, 1, 1), "CAKE", fx.EUR)
	_, err := l.AddLot(equity.Acquisition{Category: equity.RSU, Owner: 1, Symbol: "CAKE", Plan: "Cake1", Count: 100, Date: date.New(2020, 3, 2), Price: decimal.NewFromInt(50)})
	require.NoError(t, err)

	s := &Statement{
		Year:      2023,
		Household: tax.Household{Married: true},
		Sales: []SaleOrder{{Category: equity.RSU, Order: equity.Order{
			Symbol: "CAKE", Quantity: 40, Date: date.New(2022, 5, 10), Price: decimal.NewFromInt(60),
		}}},
	}
	first, err := Run(s, nil, WithLedger(l))
	require.NoError(t, err)
	second, err := Run(s, nil, WithLedger(l))
	require.NoError(t, err)

	assertBox(t, first.Boxes, tax.CapitalGain, "400")
	assert.Equal(t, first.Boxes, second.Boxes)
	assert.Equal(t, int64(100), l.Available(equity.RSU, "CAKE"), "base ledger unchanged")
	assert.Empty(t, l.Sales(2022))

	// Statement lots are added to a copy, never to the base ledger.
	rsu, err := DecodeStatement(strings.NewReader(rsuStatement))
	require.NoError(t, err)
	base := equity.NewLedger(fx.NewTable())
	first, err = Run(rsu, nil, WithLedger(base))
	require.NoError(t, err)
	second, err = Run(rsu, nil, WithLedger(base))
	require.NoError(t, err)

	assert.Empty(t, base.Lots(equity.RSU, "CAKE"))
	assert.Equal(t, int64(100), first.Summary["CAKE"][equity.RSU])
	assert.Equal(t, int64(100), second.Summary["CAKE"][equity.RSU])
	assert.Equal(t, first.Boxes, second.Boxes)
	assertBox(t, second.Boxes, tax.CapitalGain, "990")
}

func TestRunErrors(t *testing.T) {
	t.Run("invalid sale", func(t *testing.T) {
		s := &Statement{Year: 2023, Household: tax.Household{Married: true}, Sales: []SaleOrder{
			{Category: equity.RSU, Order: equity.Order{Symbol: "CAKE", Quantity: -1, Date: date.New(2022, 1, 1)}},
		}}
		_, err := Run(s, fx.NewTable())
		assert.True(t, errors.Is(err, equity.ErrInvalidCount), "got %v", err)
	})
	t.Run("unknown plan", func(t *testing.T) {
		s := &Statement{Year: 2023, Household: tax.Household{Married: true}, Lots: []equity.Acquisition{
			{Category: equity.RSU, Owner: 1, Symbol: "CAKE", Plan: "nope", Count: 1, Date: date.New(2020, 1, 1)},
		}}
		_, err := Run(s, fx.NewTable())
		assert.True(t, errors.Is(err, equity.ErrUnknownPlan), "got %v", err)
	})
	t.Run("unsupported year", func(t *testing.T) {
		_, err := Run(&Statement{Year: 1999, Household: tax.Household{Married: true}}, fx.NewTable())
		assert.True(t, errors.Is(err, tax.ErrUnsupportedYear), "got %v", err)
	})
}

func TestRunWarnsOnSaleOutsideIncomeYear(t *testing.T) {
	s, err := DecodeStatement(strings.NewReader(rsuStatement))
	require.NoError(t, err)
	s.Year = 2024

	var buf bytes.Buffer
	r, err := Run(s, fx.NewTable(), WithLogger(zerolog.New(&buf)))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "sale outside of the income year")
	assert.False(t, r.Boxes.Has(tax.CapitalGain), "the sale belongs to another income year")
}
