package llm

import _ "embed"

var (
	//go:embed prompts/summary.txt
	promptSummary string
	//go:embed prompts/metadata.txt
	promptMetadata string
	//go:embed prompts/read_pdf.txt
	promptReadPDF string
	//go:embed prompts/read_document.txt
	promptReadDocument string
	//go:embed prompts/proposal.txt
	promptProposal string
	//go:embed prompts/search.txt
	promptSearch string
	//go:embed prompts/study_flashcards.txt
	promptFlashcards string
	//go:embed prompts/study_quiz.txt
	promptQuiz string
	//go:embed prompts/study_outline.txt
	promptOutline string
)

// ReadDocumentPrompt returns the instruction used when a provider reads a file directly.
// PDFs get the OCR-aware variant.
func ReadDocumentPrompt(mimeType string) string {
	if mimeType == "application/pdf" {
		return promptReadPDF
	}
	return promptReadDocument
}

// StudyToolPrompt returns the template for a study tool and whether the tool was recognized.
func StudyToolPrompt(tool string) (string, bool) {
	switch tool {
	case "flashcards":
		return promptFlashcards, true
	case "quiz":
		return promptQuiz, true
	case "outline":
		return promptOutline, true
	default:
		return "", false
	}
}

// ProposalPrompt returns the proposal-writing template.
func ProposalPrompt() string { return promptProposal }

// SearchPrompt returns the research-answer template.
func SearchPrompt() string { return promptSearch }
