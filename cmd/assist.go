package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/fiscal/agent"
	"github.com/etnz/fiscal/renderer"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

// explainCmd asks the AI assistant to explain a simulation.
type explainCmd struct {
	lots        string
	interactive bool
}

func (*explainCmd) Name() string     { return "explain" }
func (*explainCmd) Synopsis() string { return "explain a simulation with the AI assistant" }
func (*explainCmd) Usage() string {
	return `fisc explain [-lots <pattern>] [-i] <statement.json> [question...]

  Simulates the statement and asks the AI assistant to explain the result, or to
  answer the question. With -i, the conversation continues interactively.
  Requires ` + EnvGeminiAPIKey + `.

`
}

func (c *explainCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.lots, "lots", "", "Glob pattern of TSV files of lots to load before the statement ones")
	f.BoolVar(&c.interactive, "i", false, "Continue the conversation interactively")
}

func (c *explainCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "explain requires a statement file")
		return subcommands.ExitUsageError
	}
	cfg, log, conv, err := setup()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if cfg.GeminiAPIKey == "" {
		fmt.Fprintf(os.Stderr, "%s is not set\n", EnvGeminiAPIKey)
		return subcommands.ExitFailure
	}

	report, err := runStatement(f.Arg(0), c.lots, conv, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	md := renderer.RenderReport(report)

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.GeminiAPIKey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}

	advisor, researcher := agent.NewAdvisor(), agent.NewResearcher()
	advisor.Log, researcher.Log = log, log
	a := agent.New(stdout, os.Stdin, advisor, researcher)

	if c.interactive {
		prompts := []string{"Here is my simulation:\n\n" + md}
		if q := strings.Join(f.Args()[1:], " "); q != "" {
			prompts = append(prompts, q)
		}
		if err := a.Run(ctx, client, prompts...); err != nil {
			fmt.Fprintln(os.Stderr, "Agent failed:", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	if q := strings.Join(f.Args()[1:], " "); q != "" {
		md += "\n\nQuestion: " + q
	}
	answer, err := a.Explain(ctx, client, md)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Agent failed:", err)
		return subcommands.ExitFailure
	}
	printMarkdown(answer)
	return subcommands.ExitSuccess
}
