// README: Gemini-backed luggage scanner; JSON response mode with markdown cleanup.
package scan

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"ebaggage/internal/modules/travel"
)

// GeminiProvider implements Provider using Google's Gemini models.
type GeminiProvider struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiProvider initializes a new Gemini client. apiKey should be
// provided from environment variables.
func NewGeminiProvider(ctx context.Context, apiKey string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	// Gemini 2.0 Flash for low latency and cost efficiency.
	model := client.GenerativeModel("gemini-2.0-flash")

	// Force JSON response for structured parsing.
	model.ResponseMIMEType = "application/json"
	model.SetTemperature(0.2)

	return &GeminiProvider{client: client, model: model}, nil
}

// Close cleans up the Gemini client resources.
func (p *GeminiProvider) Close() {
	p.client.Close()
}

const scanPrompt = `Role: You are the luggage intake assistant for "e-baggage", a luggage transfer service.
Given a traveller's description of their luggage, extract every piece as a size class.

Rules:
- "size" is the diagonal size in inches. Map vague words: carry-on/cabin -> 20, medium -> 24, large/checked -> 28.
- "quantity" is how many pieces of that size. Default 1.
- "summary" is one short sentence restating what was detected.

Respond ONLY with JSON of the shape:
{"items": [{"size": 24, "quantity": 2}], "summary": "..."}

Luggage description: %s`

// AnalyzeLuggage extracts luggage size classes from a free-form description.
func (p *GeminiProvider) AnalyzeLuggage(ctx context.Context, description string) (*Result, error) {
	resp, err := p.model.GenerateContent(ctx, genai.Text(fmt.Sprintf(scanPrompt, description)))
	if err != nil {
		return nil, fmt.Errorf("gemini generation error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("no response candidates from Gemini")
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			responseText.WriteString(string(txt))
		}
	}

	// JSON mode should already be clean, but strip markdown fences anyway.
	cleanJSON := cleanJSONString(responseText.String())

	var result Result
	if err := json.Unmarshal([]byte(cleanJSON), &result); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w. Raw: %s", err, cleanJSON)
	}
	if len(result.Items) == 0 {
		result.Items = []travel.LuggageItem{{Size: 24, Quantity: 1}}
	}
	return &result, nil
}

// cleanJSONString strips markdown code fences from a model response.
func cleanJSONString(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
