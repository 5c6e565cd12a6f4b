package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/fiscal/server"
	"github.com/google/subcommands"
)

type serveCmd struct {
	port int
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve simulations over HTTP" }
func (*serveCmd) Usage() string {
	return `fisc serve [-port <port>]

  Serves POST /simulate: the body is a JSON statement, the answer the computed
  boxes and notices as JSON, or the markdown report with "Accept: text/markdown".

`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.port, "port", 0, "Port to listen on, "+EnvPort+" by default")
}

func (c *serveCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, log, conv, err := setup()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	port := cfg.Port
	if c.port != 0 {
		port = c.port
	}
	s := server.New(conv, server.WithLogger(log))
	if err := s.ListenAndServe(fmt.Sprintf(":%d", port)); err != nil {
		log.Error().Err(err).Msg("server failed")
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
