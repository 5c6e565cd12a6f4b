package equity

import (
	"testing"

	"github.com/etnz/fiscal/date"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemeOf(t *testing.T) {
	tests := []struct {
		approval date.Date
		want     Scheme
	}{
		{date.New(2010, 1, 1), Scheme2007},
		{date.New(2012, 9, 27), Scheme2007},
		{date.New(2012, 9, 28), Scheme2012},
		{date.New(2015, 8, 8), Scheme2012},
		{date.New(2015, 8, 9), Scheme2015},
		{date.New(2017, 1, 1), Scheme2015},
		{date.New(2017, 1, 2), Scheme2017},
		{date.New(2018, 1, 1), Scheme2017},
		{date.New(2018, 1, 2), Scheme2018},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SchemeOf(tt.approval), "approved on %v", tt.approval)
	}
}

func TestParseCategory(t *testing.T) {
	for _, c := range Categories {
		got, err := ParseCategory(c.String())
		assert.NoError(t, err)
		assert.Equal(t, c, got)
	}
	got, err := ParseCategory("stockoption")
	assert.NoError(t, err)
	assert.Equal(t, StockOption, got)

	_, err = ParseCategory("bond")
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestSchemeText(t *testing.T) {
	var s Scheme
	assert.NoError(t, s.UnmarshalText([]byte("2017")))
	assert.Equal(t, Scheme2017, s)
	assert.ErrorIs(t, s.UnmarshalText([]byte("1999")), ErrUnsupportedScheme)

	_, err := Scheme(42).MarshalText()
	assert.ErrorIs(t, err, ErrUnsupportedScheme)

	out, err := json.Marshal(Plan{Name: "Cake1", Approval: date.New(2019, 1, 1), Scheme: Scheme2018, Symbol: "CAKE", Currency: "EUR"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Cake1","approval":"2019-01-01","scheme":"2018","symbol":"CAKE","currency":"EUR"}`, string(out))

	var p Plan
	require.NoError(t, json.Unmarshal(out, &p))
	assert.Equal(t, Scheme2018, p.Scheme)
}

func TestParseOwner(t *testing.T) {
	o, err := ParseOwner(" 2 ")
	assert.NoError(t, err)
	assert.Equal(t, Owner(2), o)
	for _, s := range []string{"0", "3", "x"} {
		_, err := ParseOwner(s)
		assert.ErrorIs(t, err, ErrInvalidOwner, s)
	}
}
