package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	gemini "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	apperrors "purchase-advisor/internal/common/errors"
)

var ErrNotConfigured = errors.New("LLM_NOT_CONFIGURED")

// Generator produces a single completion for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type GeminiConfig struct {
	APIKey      string
	Model       string
	Temperature float32
	JSONOutput  bool
}

type GeminiClient struct {
	client *gemini.Client
	model  *gemini.GenerativeModel
}

func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}

	client, err := gemini.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := client.GenerativeModel(cfg.Model)
	model.SetTemperature(cfg.Temperature)
	if cfg.JSONOutput {
		model.ResponseMIMEType = "application/json"
	}

	return &GeminiClient{client: client, model: model}, nil
}

func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.model.GenerateContent(ctx, gemini.Text(prompt))
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if txt, ok := part.(gemini.Text); ok {
				sb.WriteString(string(txt))
			}
		}
	}

	if strings.TrimSpace(sb.String()) == "" {
		return "", fmt.Errorf("empty completion: %w", apperrors.ErrMalformedOutput)
	}
	return sb.String(), nil
}

func (c *GeminiClient) Close() error {
	return c.client.Close()
}
