package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Metadata is the structured view of a tender document.
type Metadata struct {
	Title        string   `json:"title,omitempty"`
	Requirements []string `json:"requirements"`
	Budget       string   `json:"budget,omitempty"`
	Deadlines    []string `json:"deadlines"`
}

// maxPromptChars bounds the document text sent with a prompt.
const maxPromptChars = 60000

// Summarize asks the provider for a short markdown summary of a tender document.
func Summarize(ctx context.Context, c Client, text string) (string, error) {
	out, err := c.Generate(ctx, Request{
		System: promptSummary,
		Prompt: truncate(text, maxPromptChars),
	})
	if err != nil {
		return "", fmt.Errorf("summarize: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// ExtractMetadata asks the provider for requirements, budget and deadlines.
func ExtractMetadata(ctx context.Context, c Client, text string) (Metadata, error) {
	out, err := c.Generate(ctx, Request{
		System: promptMetadata,
		Prompt: truncate(text, maxPromptChars),
		JSON:   true,
	})
	if err != nil {
		return Metadata{}, fmt.Errorf("extract metadata: %w", err)
	}
	return ParseMetadata(out)
}

// ParseMetadata decodes a provider response into Metadata. Markdown code fences
// around the JSON are tolerated.
func ParseMetadata(raw string) (Metadata, error) {
	body := StripCodeFence(raw)
	if body == "" {
		return Metadata{}, ErrNoMetadata
	}
	var meta Metadata
	if err := json.Unmarshal([]byte(body), &meta); err != nil {
		return Metadata{}, fmt.Errorf("%w: %v", ErrNoMetadata, err)
	}
	meta.Title = strings.TrimSpace(meta.Title)
	meta.Budget = strings.TrimSpace(meta.Budget)
	meta.Requirements = compact(meta.Requirements)
	meta.Deadlines = compact(meta.Deadlines)
	return meta, nil
}

// StripCodeFence removes a surrounding ``` or ```json fence.
func StripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = ""
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// Fill replaces {{key}} placeholders in a prompt template.
func Fill(template string, values map[string]string) string {
	pairs := make([]string, 0, len(values)*2)
	for k, v := range values {
		pairs = append(pairs, "{{"+k+"}}", v)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

func compact(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !isRuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func isRuneStart(b byte) bool { return b&0xC0 != 0x80 }
