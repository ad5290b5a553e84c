// internal/workers/recommendation/plan-queries/generator.go
package planqueries

import (
	"context"
	"fmt"

	"purchase-advisor/internal/common/validation"
)

type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Available() bool
}

type GeneratedPlan struct {
	Queries   []string `json:"queries"`
	Reasoning string   `json:"reasoning"`
}

// QueryGenerator turns a request and budget into catalog search queries.
type QueryGenerator interface {
	Plan(ctx context.Context, text string, budget float64) (*GeneratedPlan, error)
	Available() bool
}

var planSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["queries"],
	"properties": {
		"queries":   {"type": "array", "items": {"type": "string"}},
		"reasoning": {"type": "string"}
	}
}`)

const planPrompt = `You plan product catalog searches for a shopper with a budget of $%.2f.
If the shopper asks for exactly one item, return exactly one query.
If they ask for several distinct items, return between 2 and 5 queries, one per item, most important first.
Queries are short product phrases without prices.
Return only JSON: {"queries":["..."],"reasoning":"..."}

Request: %s`

type LLMQueryGenerator struct {
	gen Generator
}

func NewLLMQueryGenerator(gen Generator) *LLMQueryGenerator {
	return &LLMQueryGenerator{gen: gen}
}

func (g *LLMQueryGenerator) Available() bool {
	return g.gen != nil && g.gen.Available()
}

func (g *LLMQueryGenerator) Plan(ctx context.Context, text string, budget float64) (*GeneratedPlan, error) {
	reply, err := g.gen.Generate(ctx, fmt.Sprintf(planPrompt, budget, text))
	if err != nil {
		return nil, err
	}

	var plan GeneratedPlan
	if err := planSchema.Decode(reply, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}
