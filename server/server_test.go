package server

import (
	"strings"
	"testing"

	"github.com/etnz/fiscal/fx"
	"github.com/etnz/fiscal/renderer"
	"github.com/etnz/fiscal/tax"
	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

const statement = `{
  "year": 2023,
  "household": {"married": true},
  "boxes": {"1AJ": 30000},
  "plans": [{"name": "Cake1", "approval": "2019-01-01", "symbol": "CAKE", "currency": "USD"}],
  "lots": [{"category": "RSU", "owner": 1, "symbol": "CAKE", "plan": "Cake1", "count": 10, "date": "2020-03-02", "price": "50"}],
  "sales": [{"category": "RSU", "symbol": "CAKE", "quantity": 10, "date": "2022-05-10", "price": "60", "currency": "USD"}]
}`

func serve(t *testing.T, method, path, body string, headers ...string) *fasthttp.Response {
	t.Helper()
	s := New(fx.Fixed("USD", fx.EUR, decimal.RequireFromString("0.9")))
	var ctx fasthttp.RequestCtx
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(path)
	for i := 0; i+1 < len(headers); i += 2 {
		ctx.Request.Header.Set(headers[i], headers[i+1])
	}
	ctx.Request.SetBodyString(body)
	s.Handler(&ctx)
	return &ctx.Response
}

func TestSimulate(t *testing.T) {
	resp := serve(t, fasthttp.MethodPost, "/simulate", statement)
	require.Equal(t, fasthttp.StatusOK, resp.StatusCode(), string(resp.Body()))
	assert.Equal(t, "application/json", string(resp.Header.ContentType()))

	var got Response
	require.NoError(t, json.Unmarshal(resp.Body(), &got))
	assert.Equal(t, 2023, got.Year)
	assert.Equal(t, 2022, got.IncomeYear)
	// 10 shares bought at 45€ and sold at 54€.
	assert.True(t, decimal.NewFromInt(90).Equal(got.Boxes.Get(tax.CapitalGain)), "3VG: %s", got.Boxes.Get(tax.CapitalGain))
	assert.True(t, decimal.NewFromInt(225).Equal(got.Boxes.Get(tax.AcquisitionGain)), "1TZ: %s", got.Boxes.Get(tax.AcquisitionGain))
	assert.True(t, got.Boxes.Has(tax.NetTaxes))
	assert.Contains(t, got.Flags, "MARGINAL_TAX_RATE")
	assert.Len(t, got.Form2074, 1)
}

func TestSimulateMarkdown(t *testing.T) {
	resp := serve(t, fasthttp.MethodPost, "/simulate", statement, "Accept", "text/markdown")
	require.Equal(t, fasthttp.StatusOK, resp.StatusCode())
	body := string(resp.Body())
	assert.True(t, strings.HasPrefix(body, "# Equity forms 2022"), body)
	assert.Contains(t, body, renderer.Euros(decimal.NewFromInt(30000)))
}

func TestSimulateErrors(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"invalid json", fasthttp.MethodPost, "/simulate", "{", fasthttp.StatusBadRequest},
		{"unsupported year", fasthttp.MethodPost, "/simulate", `{"year": 1990, "household": {"married": true}}`, fasthttp.StatusUnprocessableEntity},
		{"unmarried", fasthttp.MethodPost, "/simulate", `{"year": 2023, "household": {"married": false}}`, fasthttp.StatusUnprocessableEntity},
		{"missing rate", fasthttp.MethodPost, "/simulate", strings.ReplaceAll(statement, "USD", "GBP"), fasthttp.StatusBadGateway},
		{"get", fasthttp.MethodGet, "/simulate", "", fasthttp.StatusMethodNotAllowed},
		{"unknown path", fasthttp.MethodGet, "/nope", "", fasthttp.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := serve(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode())
			var e ErrorResponse
			require.NoError(t, json.Unmarshal(resp.Body(), &e))
			assert.Equal(t, tt.status, e.Status)
			assert.NotEmpty(t, e.Message)
		})
	}
}

func TestHealth(t *testing.T) {
	resp := serve(t, fasthttp.MethodGet, "/health", "")
	assert.Equal(t, fasthttp.StatusOK, resp.StatusCode())
	assert.Equal(t, "ok", string(resp.Body()))
}
