package fx

import (
	"errors"
	"testing"

	"github.com/etnz/fiscal/date"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableConvert(t *testing.T) {
	tbl := NewTable().
		Add("USD", "EUR", date.New(2021, 1, 4), decimal.RequireFromString("0.8")).
		Add("USD", "EUR", date.New(2021, 1, 8), decimal.RequireFromString("0.9"))

	tests := []struct {
		name     string
		amount   string
		from, to string
		on       date.Date
		want     string
		wantErr  bool
	}{
		{"same currency", "12.5", "EUR", "EUR", date.New(2000, 1, 1), "12.5", false},
		{"exact day", "100", "USD", "EUR", date.New(2021, 1, 4), "80", false},
		{"weekend fallback", "100", "USD", "EUR", date.New(2021, 1, 6), "80", false},
		{"newer rate", "100", "USD", "EUR", date.New(2021, 2, 1), "90", false},
		{"inverse pair", "90", "EUR", "USD", date.New(2021, 2, 1), "100", false},
		{"before any rate", "100", "USD", "EUR", date.New(2020, 12, 31), "", true},
		{"unknown pair", "100", "GBP", "EUR", date.New(2021, 2, 1), "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tbl.Convert(decimal.RequireFromString(tt.amount), tt.from, tt.to, tt.on)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrNoRate), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "want %s got %s", tt.want, got)
		})
	}
}

func TestFixed(t *testing.T) {
	tbl := Fixed("USD", "EUR", decimal.RequireFromString("0.5"))
	got, err := ToEUR(tbl, decimal.NewFromInt(10), "USD", date.New(2019, 6, 1))
	require.NoError(t, err)
	assert.Equal(t, "5", got.String())
}
