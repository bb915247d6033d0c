package gemini

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"tender-backend/internal/llm"
	"tender-backend/internal/shared/telemetry"
)

// DefaultModel is used when LLM_MODEL is empty.
const DefaultModel = "gemini-1.5-flash"

// Client implements llm.Client and llm.DocumentReader on the Gemini API.
type Client struct {
	client *genai.Client
	model  string
}

// NewClient constructs a Gemini client.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &Client{client: client, model: model}, nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	return c.client.Close()
}

func (c *Client) generativeModel(req llm.Request) *genai.GenerativeModel {
	model := c.client.GenerativeModel(c.model)
	model.SetTemperature(0.2)
	if strings.TrimSpace(req.System) != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.System)}}
	}
	if req.JSON {
		model.ResponseMIMEType = "application/json"
	}
	return model
}

// Generate sends a single-turn prompt.
func (c *Client) Generate(ctx context.Context, req llm.Request) (string, error) {
	resp, err := c.generativeModel(req).GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return responseText(c.model, resp)
}

// ReadDocument uploads the file at path to Gemini file storage and asks the model
// to return its text. The remote copy is deleted afterwards.
func (c *Client) ReadDocument(ctx context.Context, path, mimeType, prompt string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	uploaded, err := c.client.UploadFile(ctx, "", f, &genai.UploadFileOptions{
		MIMEType:    mimeType,
		DisplayName: filepath.Base(path),
	})
	if err != nil {
		return "", fmt.Errorf("gemini upload file: %w", err)
	}
	defer func() {
		if err := c.client.DeleteFile(context.WithoutCancel(ctx), uploaded.Name); err != nil {
			telemetry.Warn("gemini.file.delete_failed", map[string]any{"file": uploaded.Name, "error": err})
		}
	}()

	model := c.generativeModel(llm.Request{})
	resp, err := model.GenerateContent(ctx,
		genai.FileData{MIMEType: uploaded.MIMEType, URI: uploaded.URI},
		genai.Text(prompt),
	)
	if err != nil {
		return "", fmt.Errorf("gemini read document: %w", err)
	}
	return responseText(c.model, resp)
}

func responseText(model string, resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("gemini response missing candidates")
	}
	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				b.WriteString(string(text))
			}
		}
		break
	}
	if resp.UsageMetadata != nil {
		telemetry.Info("llm.response", map[string]any{
			"provider":          "gemini",
			"model":             model,
			"prompt_tokens":     resp.UsageMetadata.PromptTokenCount,
			"completion_tokens": resp.UsageMetadata.CandidatesTokenCount,
			"total_tokens":      resp.UsageMetadata.TotalTokenCount,
		})
	}
	out := strings.TrimSpace(b.String())
	if out == "" {
		return "", fmt.Errorf("gemini response empty content")
	}
	return out, nil
}

var (
	_ llm.Client         = (*Client)(nil)
	_ llm.DocumentReader = (*Client)(nil)
)
