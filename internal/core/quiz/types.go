package quiz

import (
	"fmt"
	"strings"
)

// QuestionType enumerates the supported question variants.
type QuestionType string

const (
	TypeMultipleChoice QuestionType = "multiple_choice"
	TypeFillBlank      QuestionType = "fill_blank"
)

// BlankMarker is the literal placeholder a fill-in-the-blank question must
// contain.
const BlankMarker = "___"

// MCQQuestion is a four-option multiple-choice question. CorrectAnswer always
// equals one of Options.
type MCQQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
}

// Validate checks the structural contract: exactly 4 distinct options with
// the correct answer among them.
func (q *MCQQuestion) Validate() error {
	if strings.TrimSpace(q.Question) == "" {
		return fmt.Errorf("question text is empty")
	}
	if len(q.Options) != 4 {
		return fmt.Errorf("expected 4 options, got %d", len(q.Options))
	}
	seen := make(map[string]struct{}, 4)
	for _, opt := range q.Options {
		if _, dup := seen[opt]; dup {
			return fmt.Errorf("duplicate option %q", opt)
		}
		seen[opt] = struct{}{}
	}
	if _, ok := seen[q.CorrectAnswer]; !ok {
		return fmt.Errorf("correct answer not found in options")
	}
	return nil
}

// FillBlankQuestion is a fill-in-the-blank question; Question carries the
// blank marker.
type FillBlankQuestion struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

func (q *FillBlankQuestion) Validate() error {
	if !strings.Contains(q.Question, BlankMarker) {
		return fmt.Errorf("fill-in-the-blank question must contain %q", BlankMarker)
	}
	if strings.TrimSpace(q.Answer) == "" {
		return fmt.Errorf("answer is empty")
	}
	return nil
}

// Question is a tagged union over the two variants; exactly one branch is set
// according to Type. Questions are immutable once generated.
type Question struct {
	Type      QuestionType       `json:"type"`
	MCQ       *MCQQuestion       `json:"mcq,omitempty"`
	FillBlank *FillBlankQuestion `json:"fill_blank,omitempty"`
}

// Text returns the question prompt shown to the user.
func (q Question) Text() string {
	switch q.Type {
	case TypeMultipleChoice:
		return q.MCQ.Question
	case TypeFillBlank:
		return q.FillBlank.Question
	}
	return ""
}

// CorrectAnswer returns the recorded answer key.
func (q Question) CorrectAnswer() string {
	switch q.Type {
	case TypeMultipleChoice:
		return q.MCQ.CorrectAnswer
	case TypeFillBlank:
		return q.FillBlank.Answer
	}
	return ""
}

// Grade reports whether answer matches the key: exact equality for multiple
// choice, case-insensitive trimmed equality for fill-in-the-blank.
func (q Question) Grade(answer string) bool {
	switch q.Type {
	case TypeMultipleChoice:
		return answer == q.MCQ.CorrectAnswer
	case TypeFillBlank:
		return strings.EqualFold(strings.TrimSpace(answer), strings.TrimSpace(q.FillBlank.Answer))
	}
	return false
}

// GradedAnswer is one row of an evaluated quiz.
type GradedAnswer struct {
	QuestionNumber int    `json:"question_number"`
	Question       string `json:"question"`
	UserAnswer     string `json:"user_answer"`
	CorrectAnswer  string `json:"correct_answer"`
	IsCorrect      bool   `json:"is_correct"`
}
