package categorize

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/dvloznov/budget-pilot/internal/domain"
)

// Completer abstracts the AI completion call so the engine can be tested
// without network access.
type Completer interface {
	// Complete sends a text prompt and returns the raw model response text.
	Complete(ctx context.Context, prompt string) (string, error)
}

// GeminiCompleter is the production Completer backed by Gemini.
type GeminiCompleter struct {
	model string
}

// NewGeminiCompleter creates a completer using the given model name.
// Authentication comes from the environment (GEMINI_API_KEY or ADC).
func NewGeminiCompleter(model string) *GeminiCompleter {
	return &GeminiCompleter{model: model}
}

// Complete sends the prompt to Gemini and returns the response text. All
// failures here are classified transient: the same prompt may well succeed
// on retry.
func (g *GeminiCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return "", domain.Transient("gemini: create client", err)
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: prompt},
			},
		},
	}

	resp, err := client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", domain.Transient("gemini: generate content", err)
	}

	text := resp.Text()
	if text == "" {
		return "", domain.Transient("gemini", fmt.Errorf("empty response from model"))
	}
	return text, nil
}

// Ping verifies a Gemini client can be constructed with the ambient
// credentials. Used by the health-check mode; no content is generated.
func (g *GeminiCompleter) Ping(ctx context.Context) error {
	_, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return fmt.Errorf("gemini: ping: %w", err)
	}
	return nil
}
