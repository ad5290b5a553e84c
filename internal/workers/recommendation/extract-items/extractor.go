// internal/workers/recommendation/extract-items/extractor.go
package extractitems

import (
	"context"
	"fmt"
	"strings"

	"purchase-advisor/internal/common/validation"
	"purchase-advisor/internal/models"
)

// Generator is the text-generation capability, typically *llm.Guarded.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Available() bool
}

// ItemExtractor reads freeform text and returns the items of interest with a
// daily usage estimate each.
type ItemExtractor interface {
	Extract(ctx context.Context, text string) ([]models.ParsedItem, error)
}

var extractionSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["items"],
	"properties": {
		"items": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["name", "daily_usage"],
				"properties": {
					"name":        {"type": "string", "minLength": 1},
					"category":    {"type": "string"},
					"daily_usage": {"type": "number"},
					"unit":        {"type": "string"},
					"context":     {"type": "string"}
				}
			}
		}
	}
}`)

const extractionPrompt = `You extract shopping items from a request.
Return only JSON of the form:
{"items":[{"name":"...","category":"...","daily_usage":1.5,"unit":"...","context":"..."}]}
daily_usage is the estimated number of units consumed per day and must be greater than 0.
Use an empty list when the request names no concrete items.

Request: %s`

type extractionReply struct {
	Items []struct {
		Name       string  `json:"name"`
		Category   string  `json:"category"`
		DailyUsage float64 `json:"daily_usage"`
		Unit       string  `json:"unit"`
		Context    string  `json:"context"`
	} `json:"items"`
}

type LLMExtractor struct {
	gen Generator
}

func NewLLMExtractor(gen Generator) *LLMExtractor {
	return &LLMExtractor{gen: gen}
}

func (e *LLMExtractor) Available() bool {
	return e.gen != nil && e.gen.Available()
}

// Extract drops items whose usage rate is not positive.
func (e *LLMExtractor) Extract(ctx context.Context, text string) ([]models.ParsedItem, error) {
	reply, err := e.gen.Generate(ctx, fmt.Sprintf(extractionPrompt, text))
	if err != nil {
		return nil, err
	}

	var parsed extractionReply
	if err := extractionSchema.Decode(reply, &parsed); err != nil {
		return nil, err
	}

	items := make([]models.ParsedItem, 0, len(parsed.Items))
	for _, it := range parsed.Items {
		name := strings.TrimSpace(it.Name)
		if name == "" || !(it.DailyUsage > 0) {
			continue
		}
		items = append(items, models.ParsedItem{
			Name:       name,
			Category:   strings.TrimSpace(it.Category),
			DailyUsage: it.DailyUsage,
			Unit:       strings.TrimSpace(it.Unit),
			Context:    strings.TrimSpace(it.Context),
		})
	}
	return items, nil
}
