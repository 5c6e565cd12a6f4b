package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/etnz/fiscal/docs"
	"github.com/etnz/fiscal/renderer"
	"github.com/etnz/fiscal/tax"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"google.golang.org/genai"
)

const model = "gemini-2.5-pro"

func instruction(s string) *genai.Content {
	return &genai.Content{Parts: []*genai.Part{{Text: s}}}
}

// newFacilitator creates the expert talking to the user.
func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name:  "Facilitator",
		Model: model,
		Log:   zerolog.Nop(),
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: instruction(`
			As a facilitator you are in charge of the conversation and of answering the household's questions
			about their French income tax.

			Learn about the expert's skill that you can get from the Tools to ask them questions.
			They keep context of your previous questions.

			Amounts come from a simulation: never make up a figure, ask the Advisor to simulate instead.
			Answer in the language of the user, cite the declaration boxes (like 1AJ or 3VG) you talk about.
		`),
		},
		Library: NewLibrary(experts),
	}
}

// NewResearcher returns an expert grounded on Google Search, for recent tax law changes.
func NewResearcher() *Expert {
	return &Expert{
		Name: "Researcher",
		Description: `This expert searches the web for the French tax law, official instructions
		and their recent changes. Ask the Researcher whenever you need a source or grounding information.`,
		Model: model,
		Log:   zerolog.Nop(),
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: instruction(`
			You are an expert in French income tax law. You leverage Google Search to ground your
			assertions on official sources (impots.gouv.fr, BOFiP, legifrance) and cite them.
			`),
		},
	}
}

// NewAdvisor returns an expert able to read the documentation and run simulations.
func NewAdvisor() *Expert {
	lib := []Function{Topic, Simulate}
	return &Expert{
		Name: "Advisor",
		Description: `This is the tax Advisor. It knows how fisc computes taxes and can run
		simulations with modified declaration boxes to answer "what if" questions.`,
		Model: model,
		Log:   zerolog.Nop(),
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: instruction(`
			You are a tax advisor. Use the Topic tool to read how the computation works and the
			Simulate tool to compute the taxes of a household. Report the figures of the simulation
			without rounding them differently.
			`),
		},
		Library: NewLibrary(lib),
	}
}

// Func implements a simple Function.
type Func struct {
	Decl *genai.FunctionDeclaration
	Func func(ctx context.Context, args map[string]any) (string, error)
}

func (f *Func) Declaration() *genai.FunctionDeclaration { return f.Decl }

func (f *Func) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	out, err := f.Func(ctx, args)
	if err != nil {
		return failure(id, f.Decl.Name, err)
	}
	return success(id, f.Decl.Name, out)
}

// Topic reads a documentation topic.
var Topic = &Func{
	Decl: &genai.FunctionDeclaration{
		Name:        "Topic",
		Description: "Topic returns a documentation topic of fisc, in markdown.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"name": {
					Type:        genai.TypeString,
					Description: "The topic name: boxes, equity, simulation, statement, or * for all.",
				},
			},
			Required: []string{"name"},
		},
		Response: &genai.Schema{Type: genai.TypeString, Description: "The markdown topic."},
	},
	Func: func(_ context.Context, args map[string]any) (string, error) {
		name, ok := args["name"].(string)
		if !ok {
			return "", fmt.Errorf("argument 'name' is not a string as expected but %T", args["name"])
		}
		return docs.Get(name)
	},
}

// Simulate runs a tax simulation.
var Simulate = &Func{
	Decl: &genai.FunctionDeclaration{
		Name:        "Simulate",
		Description: "Simulate computes the income tax of a married household from its declaration boxes.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"year":     {Type: genai.TypeInteger, Description: "The statement year, from 2021 to 2024."},
				"children": {Type: genai.TypeInteger, Description: "The number of children."},
				"boxes": {
					Type:        genai.TypeObject,
					Description: "The declared amounts in euros, keyed by box code, like {\"1AJ\": 40000}.",
				},
			},
			Required: []string{"year", "boxes"},
		},
		Response: &genai.Schema{Type: genai.TypeString, Description: "The markdown simulation report."},
	},
	Func: func(_ context.Context, args map[string]any) (string, error) {
		year, err := integer(args, "year")
		if err != nil {
			return "", err
		}
		h := tax.Household{Married: true}
		if _, ok := args["children"]; ok {
			if h.Children, err = integer(args, "children"); err != nil {
				return "", err
			}
		}
		raw, ok := args["boxes"].(map[string]any)
		if !ok {
			return "", fmt.Errorf("argument 'boxes' is not an object as expected but %T", args["boxes"])
		}
		boxes := make(tax.State, len(raw))
		for k, v := range raw {
			amount, err := decimal.NewFromString(fmt.Sprint(v))
			if err != nil {
				return "", fmt.Errorf("box %s: invalid amount %v", k, v)
			}
			boxes[tax.Box(strings.ToUpper(k))] = amount
		}
		res, err := tax.Simulate(year, h, boxes)
		if err != nil {
			return "", err
		}
		return renderer.RenderSimulation(renderer.NewSimulation(res)), nil
	},
}

// integer reads an integer argument, JSON numbers being decoded as float64.
func integer(args map[string]any, name string) (int, error) {
	switch v := args[name].(type) {
	case float64:
		return int(v), nil
	case int:
		return v, nil
	default:
		return 0, fmt.Errorf("argument '%s' is not a number as expected but %T", name, args[name])
	}
}
