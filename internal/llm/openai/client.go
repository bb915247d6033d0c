package openai

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"tender-backend/internal/llm"
	"tender-backend/internal/shared/telemetry"
)

// Client implements llm.Client using OpenAI Chat Completions.
type Client struct {
	api     *goopenai.Client
	model   string
	timeout time.Duration
}

// NewClient constructs a new OpenAI client.
func NewClient(apiKey, model string) (*Client, error) {
	return newClient(goopenai.DefaultConfig(apiKey), apiKey, model)
}

func newClient(cfg goopenai.ClientConfig, apiKey, model string) (*Client, error) {
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("LLM_MODEL is required for OpenAI")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	timeout := 120 * time.Second
	if raw := strings.TrimSpace(os.Getenv("OPENAI_TIMEOUT_SECONDS")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			timeout = time.Duration(parsed) * time.Second
		}
	}
	return &Client{
		api:     goopenai.NewClientWithConfig(cfg),
		model:   model,
		timeout: timeout,
	}, nil
}

// Generate sends one chat completion request.
func (c *Client) Generate(ctx context.Context, req llm.Request) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	messages := make([]goopenai.ChatCompletionMessage, 0, 2)
	if strings.TrimSpace(req.System) != "" {
		messages = append(messages, goopenai.ChatCompletionMessage{Role: goopenai.ChatMessageRoleSystem, Content: req.System})
	}
	messages = append(messages, goopenai.ChatCompletionMessage{Role: goopenai.ChatMessageRoleUser, Content: req.Prompt})

	body := goopenai.ChatCompletionRequest{
		Model:    c.model,
		Messages: messages,
	}
	if !isGPT5(c.model) {
		body.Temperature = 0.2
	}
	if req.JSON {
		body.ResponseFormat = &goopenai.ChatCompletionResponseFormat{Type: goopenai.ChatCompletionResponseFormatTypeJSONObject}
	}

	resp, err := c.api.CreateChatCompletion(ctx, body)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("openai request timeout: %w", err)
		}
		return "", fmt.Errorf("openai: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai response missing choices")
	}
	logUsage(c.model, resp.Usage)

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("openai response empty content")
	}
	return content, nil
}

func logUsage(model string, usage goopenai.Usage) {
	telemetry.Info("llm.response", map[string]any{
		"provider":          "openai",
		"model":             model,
		"prompt_tokens":     usage.PromptTokens,
		"completion_tokens": usage.CompletionTokens,
		"total_tokens":      usage.TotalTokens,
	})
}

// gpt-5 models only accept the default temperature.
func isGPT5(model string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(model)), "gpt-5")
}

var _ llm.Client = (*Client)(nil)
