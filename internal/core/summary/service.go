package summary

import (
	"context"
	"encoding/json"
	"fmt"

	"pdf-study-buddy/config"
	"pdf-study-buddy/internal/core/llm"
	"pdf-study-buddy/pkg/apperror/status"
	"pdf-study-buddy/pkg/logger"

	"github.com/go-playground/validator/v10"
)

// Summary is the structured digest of a processed document.
type Summary struct {
	Title     string   `json:"title" validate:"required"`
	KeyPoints []string `json:"key_points" validate:"required,min=1"`
	Summary   string   `json:"summary" validate:"required"`
	Topics    []string `json:"topics" validate:"required,min=1"`
}

// maxPromptChars caps how much document text goes into the prompt.
const maxPromptChars = 8000

var validate = validator.New()

// Summarize asks the model for a structured summary of the document text and
// validates the shape of what comes back. Malformed output surfaces as a
// generation or validation error; the document itself is never mutated.
func Summarize(ctx context.Context, inv llm.Invoker, text string) (*Summary, error) {
	resp, err := inv.Invoke(ctx, buildPrompt(text))
	if err != nil {
		logger.Error(err, "%v: summarization call failed", config.ModuleSummary)
		return nil, status.New(status.GenerationFailed, fmt.Errorf("summarization failed: %w", err))
	}

	raw, err := llm.ExtractJSON(resp)
	if err != nil {
		logger.Error(err, "%v: summary response not parseable", config.ModuleSummary)
		return nil, status.New(status.GenerationFailed, fmt.Errorf("summarization failed: %w", err))
	}

	var s Summary
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, status.New(status.GenerationFailed, fmt.Errorf("summarization failed: %w", err))
	}
	if err := validate.Struct(&s); err != nil {
		return nil, status.New(status.ValidationFailed, fmt.Errorf("summary has invalid structure: %w", err))
	}

	logger.Info("%v: summary generated: %s", config.ModuleSummary, s.Title)
	return &s, nil
}

func buildPrompt(text string) string {
	if len(text) > maxPromptChars {
		text = text[:maxPromptChars]
	}
	return fmt.Sprintf(`Please analyze the following document content and provide a comprehensive summary.

Document Content:
%s

Instructions:
1. Extract the main title or topic of the document
2. Identify 5-8 key points that capture the essence of the document
3. Write a comprehensive summary (200-300 words)
4. List the main topics covered

IMPORTANT: Respond with ONLY valid JSON in this exact format. Do not add any explanations or additional text:

{
    "title": "The main title or topic of the document",
    "key_points": ["point 1", "point 2"],
    "summary": "A comprehensive summary of the document",
    "topics": ["topic 1", "topic 2"]
}`, text)
}
