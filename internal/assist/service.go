// Package assist exposes thin AI helpers for the bid team: summaries, proposal
// drafts, study material and research answers.
package assist

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tender-backend/internal/documents"
	"tender-backend/internal/llm"
	"tender-backend/internal/tenders"
)

// ErrInvalidInput is returned for empty or unknown request fields.
var ErrInvalidInput = errors.New("invalid input")

// DefaultSection is drafted when a proposal request names none.
const DefaultSection = "Executive Summary"

// maxProposalDocuments caps the document summaries added to a proposal prompt.
const maxProposalDocuments = 20

// Service builds prompts and calls the configured provider.
type Service struct {
	LLM       llm.Client
	Tenders   *tenders.Service
	Documents *documents.Service
}

func (s *Service) ready() error {
	if !llm.Configured(s.LLM) {
		return llm.ErrNotConfigured
	}
	return nil
}

// Summarize returns a markdown summary of text.
func (s *Service) Summarize(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: text is required", ErrInvalidInput)
	}
	if err := s.ready(); err != nil {
		return "", err
	}
	return llm.Summarize(ctx, s.LLM, text)
}

// ProposalInput selects what to draft.
type ProposalInput struct {
	TenderID     string
	Section      string
	Instructions string
}

// Proposal drafts a proposal section from the tender and its document summaries.
func (s *Service) Proposal(ctx context.Context, in ProposalInput) (string, error) {
	in.TenderID = strings.TrimSpace(in.TenderID)
	if in.TenderID == "" {
		return "", fmt.Errorf("%w: tenderId is required", ErrInvalidInput)
	}
	if err := s.ready(); err != nil {
		return "", err
	}
	t, err := s.Tenders.Get(ctx, in.TenderID)
	if err != nil {
		return "", err
	}

	var summaries []string
	for _, id := range []string{t.ID, tenders.GlobalDocumentsID} {
		docs, err := s.Documents.List(ctx, documents.Filter{TenderID: id}, maxProposalDocuments, 0)
		if err != nil {
			return "", fmt.Errorf("list documents: %w", err)
		}
		for _, d := range docs {
			if d.Summary == "" {
				continue
			}
			summaries = append(summaries, fmt.Sprintf("%s (%s):\n%s", d.FileName, d.DocumentType, d.Summary))
		}
	}

	section := strings.TrimSpace(in.Section)
	if section == "" {
		section = DefaultSection
	}
	prompt := llm.Fill(llm.ProposalPrompt(), map[string]string{
		"section":      section,
		"title":        t.Title,
		"requirements": bulletList(t.Requirements),
		"strengths":    bulletList(t.Strengths),
		"documents":    orNone(strings.Join(summaries, "\n\n")),
		"instructions": orNone(strings.TrimSpace(in.Instructions)),
	})
	out, err := s.LLM.Generate(ctx, llm.Request{Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("proposal: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// StudyTool generates flashcards, a quiz or an outline from text.
func (s *Service) StudyTool(ctx context.Context, text, tool string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: text is required", ErrInvalidInput)
	}
	tool = strings.ToLower(strings.TrimSpace(tool))
	template, ok := llm.StudyToolPrompt(tool)
	if !ok {
		return "", fmt.Errorf("%w: unknown tool %q", ErrInvalidInput, tool)
	}
	if err := s.ready(); err != nil {
		return "", err
	}
	out, err := s.LLM.Generate(ctx, llm.Request{
		Prompt: llm.Fill(template, map[string]string{"text": text}),
		JSON:   tool != "outline",
	})
	if err != nil {
		return "", fmt.Errorf("study tool %s: %w", tool, err)
	}
	return llm.StripCodeFence(out), nil
}

// Search answers a research question from the provider's general knowledge.
func (s *Service) Search(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", fmt.Errorf("%w: query is required", ErrInvalidInput)
	}
	if err := s.ready(); err != nil {
		return "", err
	}
	out, err := s.LLM.Generate(ctx, llm.Request{
		Prompt: llm.Fill(llm.SearchPrompt(), map[string]string{"query": query}),
	})
	if err != nil {
		return "", fmt.Errorf("search: %w", err)
	}
	return strings.TrimSpace(out), nil
}

func bulletList(items []string) string {
	if len(items) == 0 {
		return "None recorded"
	}
	var b strings.Builder
	for _, item := range items {
		b.WriteString("- ")
		b.WriteString(item)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func orNone(s string) string {
	if s == "" {
		return "None"
	}
	return s
}
