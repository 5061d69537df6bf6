package quiz

import (
	"context"
	"fmt"
	"math"
	"strings"

	"pdf-study-buddy/config"
	"pdf-study-buddy/internal/core/retriever"
	"pdf-study-buddy/pkg/apperror/status"
	"pdf-study-buddy/pkg/logger"
)

// State names the quiz lifecycle phase.
type State string

const (
	StateEmpty     State = "empty"
	StateGenerated State = "generated"
	StateAnswering State = "answering"
	StateEvaluated State = "evaluated"
)

// NoAnswer is the display value for an unanswered question in results.
const NoAnswer = "No answer"

// Session owns one quiz lifecycle: generated questions, the user's answers
// aligned by index, and the frozen results after evaluation. The unanswered
// sentinel is the empty string; SetAnswer trims input so an all-whitespace
// submission keeps a slot unset. Not safe for concurrent use; callers
// serialize access per user session.
type Session struct {
	Type      QuestionType   `json:"question_type"`
	Questions []Question     `json:"questions"`
	Answers   []string       `json:"answers"`
	Results   []GradedAnswer `json:"results,omitempty"`
}

// GenerateRequest carries the inputs of one generation run.
type GenerateRequest struct {
	Content      string
	Type         QuestionType
	Difficulty   string
	Count        int
	MinPartWords int
}

// State derives the lifecycle phase from the session's data.
func (s *Session) State() State {
	switch {
	case len(s.Questions) == 0:
		return StateEmpty
	case s.Results != nil:
		return StateEvaluated
	default:
		for _, a := range s.Answers {
			if a != "" {
				return StateAnswering
			}
		}
		return StateGenerated
	}
}

// Generate populates the session with freshly generated questions. The
// content is split into word parts for variety and parts are cycled when the
// requested count exceeds them. All-or-nothing: on any failure the session
// keeps its prior state, never a half-filled question list. Success resets
// answers to all-unset and discards prior results.
func (s *Session) Generate(ctx context.Context, gen *Generator, req GenerateRequest) error {
	if strings.TrimSpace(req.Content) == "" {
		return status.New(status.GenerationNoContent, fmt.Errorf("no document content available for question generation"))
	}
	if req.Type != TypeMultipleChoice && req.Type != TypeFillBlank {
		return status.New(status.GenerationUnknownType, fmt.Errorf("unsupported question type: %s", req.Type))
	}
	if req.Count <= 0 {
		return status.New(status.GenerationFailed, fmt.Errorf("question count must be positive"))
	}
	difficulty := strings.ToLower(strings.TrimSpace(req.Difficulty))
	if difficulty == "" {
		difficulty = "medium"
	}

	parts := retriever.SplitWords(req.Content, req.Count, req.MinPartWords)

	questions := make([]Question, 0, req.Count)
	for i := 0; i < req.Count; i++ {
		part := parts[i%len(parts)]

		var q Question
		switch req.Type {
		case TypeMultipleChoice:
			mcq, err := gen.MCQ(ctx, part, difficulty)
			if err != nil {
				return err
			}
			q = Question{Type: TypeMultipleChoice, MCQ: mcq}
		case TypeFillBlank:
			fb, err := gen.FillBlank(ctx, part, difficulty)
			if err != nil {
				return err
			}
			q = Question{Type: TypeFillBlank, FillBlank: fb}
		}
		questions = append(questions, q)
		logger.Info("%v: generated question %d/%d", config.ModuleQuiz, i+1, req.Count)
	}

	s.Type = req.Type
	s.Questions = questions
	s.Answers = make([]string, len(questions))
	s.Results = nil
	return nil
}

// SetAnswer records the user's answer for the 1-based question number. For
// multiple choice the answer must be one of the question's options; the empty
// string resets the slot to unset. Rejected once the session is evaluated.
func (s *Session) SetAnswer(number int, answer string) error {
	if number < 1 || number > len(s.Questions) {
		return fmt.Errorf("question number %d out of range (1-%d)", number, len(s.Questions))
	}
	if s.Results != nil {
		return fmt.Errorf("quiz already evaluated; generate a new quiz to continue")
	}

	answer = strings.TrimSpace(answer)
	q := s.Questions[number-1]
	if q.Type == TypeMultipleChoice && answer != "" {
		valid := false
		for _, opt := range q.MCQ.Options {
			if answer == opt {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("answer must be one of the question's options")
		}
	}
	s.Answers[number-1] = answer
	return nil
}

// Unanswered returns the 1-based numbers of questions without an answer.
// Callers gate evaluation on this so the user can be told exactly which
// questions are open.
func (s *Session) Unanswered() []int {
	var open []int
	for i, a := range s.Answers {
		if a == "" {
			open = append(open, i+1)
		}
	}
	return open
}

// Evaluate grades every question in order and freezes the results on the
// session. An unset answer is scored incorrect and displayed as "No answer".
// Once evaluated, repeated calls return the frozen results.
func (s *Session) Evaluate() ([]GradedAnswer, error) {
	if len(s.Questions) == 0 {
		return nil, fmt.Errorf("no quiz available for evaluation")
	}
	if s.Results != nil {
		return s.Results, nil
	}

	results := make([]GradedAnswer, 0, len(s.Questions))
	for i, q := range s.Questions {
		answer := s.Answers[i]
		display := answer
		if display == "" {
			display = NoAnswer
		}
		results = append(results, GradedAnswer{
			QuestionNumber: i + 1,
			Question:       q.Text(),
			UserAnswer:     display,
			CorrectAnswer:  q.CorrectAnswer(),
			IsCorrect:      answer != "" && q.Grade(answer),
		})
	}
	s.Results = results
	return results, nil
}

// CorrectCount returns how many evaluated answers were correct.
func (s *Session) CorrectCount() int {
	n := 0
	for _, r := range s.Results {
		if r.IsCorrect {
			n++
		}
	}
	return n
}

// ScorePercent returns the evaluated score as a percentage rounded to two
// decimal places, 0 when nothing is evaluated.
func (s *Session) ScorePercent() float64 {
	if len(s.Results) == 0 {
		return 0
	}
	pct := float64(s.CorrectCount()) / float64(len(s.Results)) * 100
	return math.Round(pct*100) / 100
}
