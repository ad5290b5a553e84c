package llm

import (
	"context"
	"fmt"

	apperrors "purchase-advisor/internal/common/errors"
	"purchase-advisor/internal/common/resilience"
)

// Guarded runs a Generator behind a circuit breaker and timeout. A nil
// Generator makes every call report the capability as unavailable.
type Guarded struct {
	gen     Generator
	breaker *resilience.Breaker
}

func NewGuarded(gen Generator, breaker *resilience.Breaker) *Guarded {
	return &Guarded{gen: gen, breaker: breaker}
}

func (g *Guarded) Available() bool {
	return g != nil && g.gen != nil && g.breaker.Available()
}

func (g *Guarded) Generate(ctx context.Context, prompt string) (string, error) {
	if g == nil || g.gen == nil {
		return "", fmt.Errorf("llm not configured: %w", apperrors.ErrCapabilityUnavailable)
	}
	return resilience.Call(ctx, g.breaker, func(ctx context.Context) (string, error) {
		return g.gen.Generate(ctx, prompt)
	})
}
