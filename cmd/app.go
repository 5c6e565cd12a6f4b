// Package cmd implements the fisc command line application.
package cmd

import (
	"flag"

	"github.com/etnz/fiscal/fx"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&simulateCmd{}, "taxes")
	c.Register(&stocksCmd{}, "taxes")
	c.Register(&explainCmd{}, "taxes")
	c.Register(&serveCmd{}, "service")
	c.Register(&topicCmd{}, "documentation")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var envFile = flag.String("env", ".env", "Path to an optional file of environment variables")
var rawMarkdown = flag.Bool("markdown", false, "Print raw markdown instead of rendering it for the terminal")

// Verbose logs at debug level, whatever the configured level.
var Verbose = flag.Bool("v", false, "Verbose logging")

// setup loads the configuration and builds the logger and the currency converter.
func setup() (Config, zerolog.Logger, fx.Converter, error) {
	cfg, err := LoadConfig(*envFile)
	if err != nil {
		return Config{}, zerolog.Nop(), nil, err
	}
	if *Verbose {
		cfg.LogLevel = zerolog.DebugLevel
	}
	log := newLogger(cfg.LogLevel)
	return cfg, log, cfg.Converter(log), nil
}
