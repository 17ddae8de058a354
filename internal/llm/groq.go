package llm

import (
	"context"
	"fmt"

	"github.com/conneroisu/groq-go"
)

var _ Generator = (*GroqClient)(nil)

type GroqClient struct {
	client *groq.Client
	model  groq.ChatModel
}

func NewGroqClient(settings Settings) (*GroqClient, error) {
	var (
		client *groq.Client
		err    error
	)
	if settings.BaseURL != "" {
		client, err = groq.NewClient(settings.APIKey, groq.WithBaseURL(settings.BaseURL))
	} else {
		client, err = groq.NewClient(settings.APIKey)
	}
	if err != nil {
		return nil, fmt.Errorf("create groq client: %w", err)
	}

	return &GroqClient{
		client: client,
		model:  groq.ChatModel(settings.Model),
	}, nil
}

func (c *GroqClient) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	resp, err := c.client.ChatCompletion(ctx, groq.ChatCompletionRequest{
		Model: c.model,
		Messages: []groq.ChatCompletionMessage{
			{Role: groq.RoleSystem, Content: systemPrompt},
			{Role: groq.RoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response")
	}

	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", ErrEmptyResponse
	}

	return content, nil
}
