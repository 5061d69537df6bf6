package quiz

import (
	"context"
	"encoding/json"
	"fmt"

	"pdf-study-buddy/config"
	"pdf-study-buddy/internal/core/llm"
	"pdf-study-buddy/pkg/apperror/status"
	"pdf-study-buddy/pkg/logger"
)

// maxContentChars caps how much source content goes into one prompt.
const maxContentChars = 6000

// Generator produces validated questions from content chunks. Each question
// gets a bounded number of sequential attempts: a failed attempt (bad
// completion, malformed JSON, structural validation) is retried, and the last
// cause is surfaced once the attempts run out.
type Generator struct {
	inv         llm.Invoker
	maxAttempts int
}

// NewGenerator builds a Generator; maxAttempts defaults to 3.
func NewGenerator(inv llm.Invoker, maxAttempts int) *Generator {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	return &Generator{inv: inv, maxAttempts: maxAttempts}
}

// MCQ generates one multiple-choice question grounded in content.
func (g *Generator) MCQ(ctx context.Context, content, difficulty string) (*MCQQuestion, error) {
	prompt := mcqPrompt(content, difficulty)

	var lastErr error
	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		q, err := g.mcqOnce(ctx, prompt)
		if err == nil {
			return q, nil
		}
		lastErr = err
		logger.Warn("%v: mcq attempt %d/%d failed: %s", config.ModuleQuiz, attempt, g.maxAttempts, err.Error())
	}
	return nil, status.New(status.GenerationFailed,
		fmt.Errorf("mcq generation failed after %d attempts: %w", g.maxAttempts, lastErr))
}

func (g *Generator) mcqOnce(ctx context.Context, prompt string) (*MCQQuestion, error) {
	resp, err := g.inv.Invoke(ctx, prompt)
	if err != nil {
		return nil, err
	}
	raw, err := llm.ExtractJSON(resp)
	if err != nil {
		return nil, err
	}
	var q MCQQuestion
	if err := json.Unmarshal([]byte(raw), &q); err != nil {
		return nil, err
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return &q, nil
}

// FillBlank generates one fill-in-the-blank question grounded in content.
func (g *Generator) FillBlank(ctx context.Context, content, difficulty string) (*FillBlankQuestion, error) {
	prompt := fillBlankPrompt(content, difficulty)

	var lastErr error
	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		q, err := g.fillBlankOnce(ctx, prompt)
		if err == nil {
			return q, nil
		}
		lastErr = err
		logger.Warn("%v: fill-blank attempt %d/%d failed: %s", config.ModuleQuiz, attempt, g.maxAttempts, err.Error())
	}
	return nil, status.New(status.GenerationFailed,
		fmt.Errorf("fill-in-the-blank generation failed after %d attempts: %w", g.maxAttempts, lastErr))
}

func (g *Generator) fillBlankOnce(ctx context.Context, prompt string) (*FillBlankQuestion, error) {
	resp, err := g.inv.Invoke(ctx, prompt)
	if err != nil {
		return nil, err
	}
	raw, err := llm.ExtractJSON(resp)
	if err != nil {
		return nil, err
	}
	var q FillBlankQuestion
	if err := json.Unmarshal([]byte(raw), &q); err != nil {
		return nil, err
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return &q, nil
}

func mcqPrompt(content, difficulty string) string {
	if len(content) > maxContentChars {
		content = content[:maxContentChars]
	}
	return fmt.Sprintf(`Based on the following document content, generate a %s level multiple-choice question.

Content:
%s

Requirements:
- Create exactly 4 options (A, B, C, D)
- Only one option should be correct
- Question should test understanding of the content
- Difficulty level: %s

IMPORTANT: Respond with ONLY valid JSON in this exact format. Do not add any explanations or additional text:

{
    "question": "Your question here",
    "options": ["Option A", "Option B", "Option C", "Option D"],
    "correct_answer": "The correct option"
}`, difficulty, content, difficulty)
}

func fillBlankPrompt(content, difficulty string) string {
	if len(content) > maxContentChars {
		content = content[:maxContentChars]
	}
	return fmt.Sprintf(`Based on the following document content, generate a %s level fill-in-the-blank question.

Content:
%s

Requirements:
- Use '___' to indicate the blank
- Question should test knowledge from the content
- Difficulty level: %s

IMPORTANT: Respond with ONLY valid JSON in this exact format. Do not add any explanations or additional text:

{
    "question": "Your question with ___ blank",
    "answer": "The correct answer for the blank"
}`, difficulty, content, difficulty)
}
