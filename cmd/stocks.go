package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/fiscal/date"
	"github.com/etnz/fiscal/equity"
	"github.com/etnz/fiscal/renderer"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

type stocksCmd struct {
	sells string
	year  int
}

func (*stocksCmd) Name() string     { return "stocks" }
func (*stocksCmd) Synopsis() string { return "summarize equity lots and the forms of their sales" }
func (*stocksCmd) Usage() string {
	return `fisc stocks [-sell <orders>] [-year <year>] <pattern>...

  Loads the lots of TSV files and prints the count of shares per symbol and category.
  With -sell, sells shares and prints the forms 2042C and 2074 of the income year.

  Orders are comma separated <category>:<symbol>:<quantity>:<date>:<price>[:<fees>[:<currency>]].

Usage Examples:
$ fisc stocks lots/*.tsv
$ fisc stocks -sell RSU:CAKE:100:2024-05-10:60:10:USD lots/*.tsv

`
}

func (c *stocksCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.sells, "sell", "", "Sale orders to replay")
	f.IntVar(&c.year, "year", 0, "Income year of the forms, the year of the last sale by default")
}

func (c *stocksCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "stocks requires at least one lots file")
		return subcommands.ExitUsageError
	}
	orders, err := parseOrders(c.sells)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	_, log, conv, err := setup()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	ledger := equity.NewLedger(conv, equity.WithLogger(log))
	for _, pattern := range f.Args() {
		if _, err := ledger.LoadFiles(pattern); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
	}
	md := renderer.RenderLedger(renderer.NewLedger(ledger.Summary(), ledger.Plans()))

	year := c.year
	for _, o := range orders {
		if _, err := ledger.Sell(o.category, o.Order); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		if c.year == 0 && o.Date.Year() > year {
			year = o.Date.Year()
		}
	}
	if len(orders) > 0 {
		ag, err := ledger.AcquisitionGain(year)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		md += "\n" + renderer.RenderForms(renderer.NewForms(year, ag, ledger.CapitalGain(year)))
	}
	printMarkdown(md)
	return subcommands.ExitSuccess
}

type order struct {
	category equity.Category
	equity.Order
}

// parseOrders parses comma separated sale orders.
func parseOrders(s string) ([]order, error) {
	if s == "" {
		return nil, nil
	}
	var orders []order
	for _, field := range strings.Split(s, ",") {
		parts := strings.Split(strings.TrimSpace(field), ":")
		if len(parts) < 5 || len(parts) > 7 {
			return nil, fmt.Errorf("invalid order %q: expected <category>:<symbol>:<quantity>:<date>:<price>[:<fees>[:<currency>]]", field)
		}
		var o order
		var err error
		if o.category, err = equity.ParseCategory(parts[0]); err != nil {
			return nil, fmt.Errorf("invalid order %q: %w", field, err)
		}
		o.Symbol = parts[1]
		if _, err := fmt.Sscan(parts[2], &o.Quantity); err != nil {
			return nil, fmt.Errorf("invalid order %q: quantity: %w", field, err)
		}
		if o.Date, err = date.Parse(parts[3]); err != nil {
			return nil, fmt.Errorf("invalid order %q: %w", field, err)
		}
		if o.Price, err = decimal.NewFromString(parts[4]); err != nil {
			return nil, fmt.Errorf("invalid order %q: price: %w", field, err)
		}
		if len(parts) > 5 {
			if o.Fees, err = decimal.NewFromString(parts[5]); err != nil {
				return nil, fmt.Errorf("invalid order %q: fees: %w", field, err)
			}
		}
		if len(parts) > 6 {
			o.Currency = strings.ToUpper(parts[6])
		}
		orders = append(orders, o)
	}
	return orders, nil
}
