// Command fisc simulates the French income tax of households holding equity compensation.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/etnz/fiscal/cmd"
	"github.com/etnz/fiscal/docs"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// completion describes the command line for shell completion.
func completion() *complete.Command {
	topics, _ := docs.Names()
	topics = append(topics, "*")
	statements := predict.Files("*.json")
	lots := predict.Files("*.tsv")
	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"env":      predict.Files("*"),
			"markdown": predict.Nothing,
			"v":        predict.Nothing,
		},
		Sub: map[string]*complete.Command{
			"simulate": {
				Flags: map[string]complete.Predictor{"lots": lots, "json": predict.Nothing},
				Args:  statements,
			},
			"stocks": {
				Flags: map[string]complete.Predictor{"sell": predict.Something, "year": predict.Something},
				Args:  lots,
			},
			"explain": {
				Flags: map[string]complete.Predictor{"lots": lots, "i": predict.Nothing},
				Args:  statements,
			},
			"serve": {
				Flags: map[string]complete.Predictor{"port": predict.Something},
			},
			"topic": {
				Flags: map[string]complete.Predictor{"list": predict.Nothing},
				Args:  predict.Set(topics),
			},
			"help":     {Args: predict.Set{"simulate", "stocks", "explain", "serve", "topic"}},
			"commands": {},
			"flags":    {},
		},
	}
}

func main() {
	// Answers the shell completion requests, and exits.
	completion().Complete("fisc")

	commander := subcommands.NewCommander(flag.CommandLine, "fisc")
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
