package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var ErrEmptyResponse = errors.New("empty response")

// Generator sends one system instruction and one user prompt to a remote text
// model and returns its free-text answer.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

type Settings struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
}

// New builds the Generator for settings.Provider.
func New(ctx context.Context, settings Settings) (Generator, error) {
	if settings.APIKey == "" {
		return nil, fmt.Errorf("%s api key missing", settings.Provider)
	}

	switch strings.ToLower(settings.Provider) {
	case "gemini", "":
		return NewGeminiClient(ctx, settings)
	case "groq":
		return NewGroqClient(settings)
	case "openai":
		return NewOpenAIClient(settings)
	default:
		return nil, fmt.Errorf("unknown provider %q", settings.Provider)
	}
}
