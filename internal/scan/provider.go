// README: Luggage scan provider contract and the offline mock implementation.
package scan

import (
	"context"
	"strings"

	"ebaggage/internal/modules/travel"
)

// Result is the outcome of analyzing a luggage photo or description.
type Result struct {
	Items   []travel.LuggageItem `json:"items"`
	Summary string               `json:"summary"`
}

// Provider analyzes a luggage description (or image caption) and extracts
// the size classes and quantities present. Implementations must be safe to
// call concurrently.
type Provider interface {
	AnalyzeLuggage(ctx context.Context, description string) (*Result, error)
}

// MockProvider returns a deterministic single 24in item; used when no AI
// key is configured so the demo stays fully offline.
type MockProvider struct{}

func (MockProvider) AnalyzeLuggage(_ context.Context, description string) (*Result, error) {
	summary := "1 x 24in suitcase (mock scan)"
	if strings.TrimSpace(description) != "" {
		summary += ": " + strings.TrimSpace(description)
	}
	return &Result{
		Items:   []travel.LuggageItem{{Size: 24, Quantity: 1}},
		Summary: summary,
	}, nil
}
