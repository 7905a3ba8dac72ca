// Package drafting turns enrichment research into a personalized cold email
// through two model calls: hook extraction and structured generation.
package drafting

import (
	"context"
	"fmt"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"outreach_backend/platform/config"
)

const maxTokens = 1024

// Client wraps the Anthropic messages API.
type Client struct {
	client sdk.Client
	model  string
}

// NewClient creates a generation client from configuration.
func NewClient(cfg config.DraftingConfig) *Client {
	return &Client{
		client: sdk.NewClient(option.WithAPIKey(cfg.GetAnthropicAPIKey())),
		model:  cfg.GetAnthropicModel(),
	}
}

// Generate runs one completion and returns the first text block.
func (c *Client) Generate(ctx context.Context, system, prompt string) (string, error) {
	msg, err := c.client.Messages.New(ctx, sdk.MessageNewParams{
		Model:     sdk.Model(c.model),
		MaxTokens: maxTokens,
		System:    []sdk.TextBlockParam{{Text: system}},
		Messages:  []sdk.MessageParam{sdk.NewUserMessage(sdk.NewTextBlock(prompt))},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic messages: %w", err)
	}
	for _, block := range msg.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", nil
}
