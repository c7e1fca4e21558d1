package assistant

import (
	"context"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const (
	temperature = 0.5
	maxTokens   = 220
)

// Client answers free-text questions about the user's payroll through an
// OpenAI-compatible chat completion endpoint.
type Client struct {
	client *openai.Client
	model  string
}

func NewClient(apiKey, baseURL, model string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Client{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (c *Client) Reply(ctx context.Context, userMessage string, pc PayrollContext) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: temperature,
		MaxTokens:   maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: SystemPrompt()},
			{Role: openai.ChatMessageRoleUser, Content: UserPrompt(userMessage, pc)},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
