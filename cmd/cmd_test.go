package cmd

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/etnz/fiscal/date"
	"github.com/etnz/fiscal/equity"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetenv clears variables for the duration of the test.
func unsetenv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

var allEnv = []string{EnvFXURL, EnvFXCache, EnvLogLevel, EnvPort, EnvGeminiAPIKey}

func TestLoadConfigDefaults(t *testing.T) {
	unsetenv(t, allEnv...)
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, Config{
		FXURL:    "https://api.frankfurter.app",
		FXCache:  true,
		LogLevel: zerolog.WarnLevel,
		Port:     8080,
	}, cfg)
}

func TestLoadConfigFile(t *testing.T) {
	unsetenv(t, allEnv...)
	t.Setenv(EnvPort, "9090")
	env := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(env, []byte("FISCAL_LOG_LEVEL=debug\nFISCAL_FX_CACHE=false\nFISCAL_PORT=7070\nGEMINI_API_KEY=secret\n"), 0o644))

	cfg, err := LoadConfig(env)
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, cfg.LogLevel)
	assert.False(t, cfg.FXCache)
	assert.Equal(t, 9090, cfg.Port, "the environment takes precedence over the file")
	assert.Equal(t, "secret", cfg.GeminiAPIKey)
}

func TestLoadConfigErrors(t *testing.T) {
	for key, value := range map[string]string{
		EnvFXCache:  "maybe",
		EnvLogLevel: "loud",
		EnvPort:     "http",
	} {
		t.Run(key, func(t *testing.T) {
			unsetenv(t, allEnv...)
			t.Setenv(key, value)
			_, err := LoadConfig("")
			assert.ErrorContains(t, err, key)
		})
	}
}

func TestParseOrders(t *testing.T) {
	orders, err := parseOrders("RSU:CAKE:100:2024-05-10:60:10:usd, espp:BUD:5:2024-06-01:20")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, equity.RSU, orders[0].category)
	assert.Equal(t, "CAKE", orders[0].Symbol)
	assert.Equal(t, int64(100), orders[0].Quantity)
	assert.Equal(t, date.New(2024, 5, 10), orders[0].Date)
	assert.True(t, decimal.NewFromInt(10).Equal(orders[0].Fees))
	assert.Equal(t, "USD", orders[0].Currency)
	assert.Equal(t, equity.ESPP, orders[1].category)
	assert.True(t, orders[1].Fees.IsZero())

	none, err := parseOrders("")
	assert.NoError(t, err)
	assert.Empty(t, none)

	for _, bad := range []string{"RSU:CAKE", "bond:X:1:2024-01-01:1", "RSU:X:many:2024-01-01:1", "RSU:X:1:today:1", "RSU:X:1:2024-01-01:free"} {
		_, err := parseOrders(bad)
		assert.Error(t, err, bad)
	}
}

// execute runs a command with raw markdown output and returns what it printed.
func execute(t *testing.T, c subcommands.Command, args ...string) (subcommands.ExitStatus, string) {
	t.Helper()
	unsetenv(t, allEnv...)
	t.Setenv(EnvFXCache, "false")

	var out bytes.Buffer
	stdout, *rawMarkdown, *envFile = &out, true, ""
	t.Cleanup(func() { stdout, *rawMarkdown, *envFile = os.Stdout, false, ".env" })

	fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	c.SetFlags(fs)
	require.NoError(t, fs.Parse(args))
	return c.Execute(context.Background(), fs), out.String()
}

func TestSimulateCommand(t *testing.T) {
	dir := t.TempDir()
	stmt := filepath.Join(dir, "2023.json")
	require.NoError(t, os.WriteFile(stmt, []byte(`{
  "year": 2023,
  "household": {"married": true},
  "boxes": {"1AJ": 30000, "1BJ": 40000},
  "sales": [{"category": "RSU", "symbol": "CAKE", "quantity": 10, "date": "2022-05-10", "price": "60"}]
}`), 0o644))
	lots := filepath.Join(dir, "lots.tsv")
	require.NoError(t, os.WriteFile(lots, []byte("Owner\tPlan name\tStock type\tCurrency\tSymbol\tCount\tAcquisition price\tAcquisition date\tPlan date\n"+
		"1\tCake1\tRSU\tEUR\tCAKE\t10\t50\t02 Mar 2020\t01 Jan 2019\n"), 0o644))

	status, out := execute(t, &simulateCmd{}, "-lots", lots, stmt)
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, out, "# Equity forms 2022")
	assert.Contains(t, out, "# Tax simulation 2023")

	status, out = execute(t, &simulateCmd{}, "-json", "-lots", lots, stmt)
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, out, `"3VG": "100"`)

	status, _ = execute(t, &simulateCmd{})
	assert.Equal(t, subcommands.ExitUsageError, status)

	status, _ = execute(t, &simulateCmd{}, filepath.Join(dir, "missing.json"))
	assert.Equal(t, subcommands.ExitFailure, status)
}

func TestStocksCommand(t *testing.T) {
	lots := filepath.Join(t.TempDir(), "lots.tsv")
	require.NoError(t, os.WriteFile(lots, []byte("Owner\tPlan name\tStock type\tCurrency\tSymbol\tCount\tAcquisition price\tAcquisition date\tPlan date\n"+
		"1\tCake1\tRSU\tEUR\tCAKE\t10\t50\t2020-03-02\t2019-01-01\n"), 0o644))

	status, out := execute(t, &stocksCmd{}, lots)
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, out, "| CAKE | 10 | - | - |")
	assert.NotContains(t, out, "Equity forms")

	status, out = execute(t, &stocksCmd{}, "-sell", "RSU:CAKE:10:2022-05-10:60", lots)
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, out, "# Equity forms 2022")
}

func TestTopicCommand(t *testing.T) {
	status, out := execute(t, &topicCmd{}, "boxes")
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, out, "# Declaration boxes")

	status, out = execute(t, &topicCmd{}, "-list")
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, out, "* `equity`: Equity compensation")

	status, _ = execute(t, &topicCmd{}, "nope")
	assert.Equal(t, subcommands.ExitFailure, status)
}

func TestExplainRequiresKey(t *testing.T) {
	status, _ := execute(t, &explainCmd{}, "statement.json")
	assert.Equal(t, subcommands.ExitFailure, status)
}
