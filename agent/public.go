package agent

import (
	"context"
	"fmt"

	"github.com/etnz/fairval"
	"github.com/etnz/fairval/docs"
	"github.com/etnz/fairval/fmp"
	"github.com/etnz/fairval/renderer"
	"google.golang.org/genai"
)

const model = "gemini-2.5-pro"

// creates the facilitator
func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name: "Facilitator",
		// Used by facilitators to know what they can expected from the expert
		Description: ``,
		ModelName:   model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert's skill that you can get from the Tools to ask them questions.
			They are at your service and 100% dedicated to you, they keep context of your previous questions.

			The user is here primarily to figure out whether a stock trades above or below its
			intrinsic value. Ask the Quant for the numbers, ask the Analyst for context and news,
			and never present a valuation as a certainty: it depends entirely on its assumptions.

			Devise a plan of questions to ask to each experts and come up with the best reponse to the user's request.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

func NewAnalyst() *Expert {
	return &Expert{
		Name: "Analyst",
		Description: `This is an expert equity analyst,
		very well aware of listed companies, their business and their industry,
		about the latest news that could move earnings or cash flows.
		Ask the Analyst whenever you need recent or grounding information.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are an expert equity analyst, you can search and find about anything related to
			listed companies, their markets, their competitors and their filings. You Leverage
			Google Search to ground your assertions in a solid truth.
			You can get the latests news too, and you know how to relate them to the growth and
			discount assumptions of a valuation.
				`}}},
		},
	}
}

// NewQuant returns the expert that runs discounted cash flow valuations.
//
// apiKey is the financialmodelingprep.com key used to fetch statements.
func NewQuant(apiKey string) *Expert {

	lib := []Function{newValueFunc(apiKey)}

	return &Expert{
		Name: "Quant",
		Description: `This is the Quant. He is in charge of fetching a company's financial
		statements and running discounted cash flow valuations on them.
		He can value a ticker under default or custom assumptions and report the
		intrinsic price against the market price.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are a quantitative analyst in charge of valuations.
				You know how to use the Tools to value a ticker by discounted cash flows.
				You are part of a team of experts, yours is everything numeric. They might ask
				you questions in approximative language, figure out the ticker and the
				assumptions they meant.

				Use the available tool to get for a given ticker
				  - the base free cash flow and its projection
				  - the intrinsic price per share
				  - the verdict against the market price
			`}}},
		},
		Library: NewLibrary(lib),
	}
}

// Func implements a simple Function
type Func struct {
	// Declare this function
	Decl *genai.FunctionDeclaration
	// Call this function
	Func func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse
}

func (f *Func) Declaration() *genai.FunctionDeclaration { return f.Decl }
func (f *Func) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	return f.Func(ctx, id, args)
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func newValueFunc(apiKey string) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "Value",
			Description: `Value runs a discounted cash flow valuation of a stock and compares the
			intrinsic price per share with the current market price.

			It reports the base free cash flow, the projected cash flows, the terminal value,
			and the resulting verdict (undervalued, overvalued or fairly priced).
			`,
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"ticker": {
						Type:        genai.TypeString,
						Description: "The stock ticker symbol to value, e.g. AAPL.",
					},
					"growth": {
						Type: genai.TypeNumber,
						Description: `Yearly growth rate of free cash flow as a fraction, e.g. 0.05.
						Defaults are documented below:

						` + must(docs.GetTopic("assumptions")),
					},
					"discount": {
						Type:        genai.TypeNumber,
						Description: "Discount rate (WACC) as a fraction, e.g. 0.10.",
					},
					"terminal": {
						Type:        genai.TypeNumber,
						Description: "Terminal growth rate as a fraction, e.g. 0.02. Must stay below the discount rate.",
					},
					"years": {
						Type:        genai.TypeInteger,
						Description: "Projection horizon in years.",
					},
				},
				Required: []string{"ticker"},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown-formatted valuation report for the ticker.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			report, err := value(apiKey, args)
			if err != nil {
				return &genai.FunctionResponse{
					ID:   id,
					Name: "Value",
					Response: map[string]any{
						"error": err.Error(),
					},
				}
			}
			return &genai.FunctionResponse{
				ID:   id,
				Name: "Value",
				Response: map[string]any{
					"output": report,
				},
			}
		},
	}
}

// private implementation rendering the valuation report.
func value(apiKey string, args map[string]any) (string, error) {
	ticker, ok := args["ticker"].(string)
	if !ok {
		return "", fmt.Errorf("argument 'ticker' is not a string as expected but %T", args["ticker"])
	}
	a, err := parseAssumptions(args)
	if err != nil {
		return "", err
	}
	stmts, quote, err := fmp.Fetch(apiKey, ticker, 2)
	if err != nil {
		return "", fmt.Errorf("could not fetch statements for %q: %w", ticker, err)
	}
	v, err := fairval.Value(stmts[0], quote, a)
	if err != nil {
		return "", err
	}
	return renderer.Valuation(v), nil
}

func parseAssumptions(args map[string]any) (fairval.Assumptions, error) {
	a := fairval.DefaultAssumptions()
	if g, ok, err := numArg(args, "growth"); err != nil {
		return a, err
	} else if ok {
		a.Growth = fairval.FlatGrowth(g)
	}
	if d, ok, err := numArg(args, "discount"); err != nil {
		return a, err
	} else if ok {
		a.DiscountRate = d
	}
	if t, ok, err := numArg(args, "terminal"); err != nil {
		return a, err
	} else if ok {
		a.TerminalGrowth = t
	}
	if y, ok, err := numArg(args, "years"); err != nil {
		return a, err
	} else if ok {
		a.Years = int(y)
	}
	if err := a.Validate(); err != nil {
		return a, fmt.Errorf("invalid assumptions, see the doc below\n\n%s\n\n%w", must(docs.GetTopic("assumptions")), err)
	}
	return a, nil
}

func numArg(args map[string]any, name string) (float64, bool, error) {
	v, has := args[name]
	if !has {
		return 0, false, nil
	}
	f, ok := v.(float64)
	if !ok {
		return 0, false, fmt.Errorf("argument %q is not a number as expected but %T", name, v)
	}
	return f, true, nil
}
