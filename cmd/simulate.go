package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/fiscal"
	"github.com/etnz/fiscal/equity"
	"github.com/etnz/fiscal/fx"
	"github.com/etnz/fiscal/renderer"
	"github.com/etnz/fiscal/server"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

type simulateCmd struct {
	lots string
	json bool
}

func (*simulateCmd) Name() string     { return "simulate" }
func (*simulateCmd) Synopsis() string { return "simulate the income tax of a statement" }
func (*simulateCmd) Usage() string {
	return `fisc simulate [-lots <pattern>] <statement.json>

  Replays the equity sales of the statement, adds the resulting acquisition and
  capital gains to the declared boxes and simulates the income tax.
  Use - to read the statement from the standard input.

Usage Examples:
$ fisc simulate 2024.json
$ fisc simulate -lots 'lots/*.tsv' 2024.json

`
}

func (c *simulateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.lots, "lots", "", "Glob pattern of TSV files of lots to load before the statement ones")
	f.BoolVar(&c.json, "json", false, "Print the computed boxes and notices as JSON")
}

func (c *simulateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "simulate requires exactly one statement file")
		return subcommands.ExitUsageError
	}
	_, log, conv, err := setup()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	report, err := runStatement(f.Arg(0), c.lots, conv, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	if c.json {
		if err := printJSON(server.NewResponse(report)); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}
	printMarkdown(renderer.RenderReport(report))
	return subcommands.ExitSuccess
}

// runStatement decodes a statement file and runs it on a ledger loaded from the lots pattern.
func runStatement(name, lots string, conv fx.Converter, log zerolog.Logger) (*fiscal.Report, error) {
	var r io.Reader = os.Stdin
	if name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	stmt, err := fiscal.DecodeStatement(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	ledger := equity.NewLedger(conv, equity.WithLogger(log))
	if lots != "" {
		if _, err := ledger.LoadFiles(lots); err != nil {
			return nil, err
		}
	}
	return fiscal.Run(stmt, conv, fiscal.WithLedger(ledger), fiscal.WithLogger(log))
}
