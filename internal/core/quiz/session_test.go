package quiz

import (
	"context"
	"strings"
	"testing"

	"pdf-study-buddy/pkg/apperror/status"
)

func testContent() string {
	return strings.TrimSpace(strings.Repeat("the quick brown fox jumps over the lazy dog ", 40))
}

func generatedSession(t *testing.T, count int) *Session {
	t.Helper()
	inv := &fakeInvoker{responses: []string{validMCQ}}
	gen := NewGenerator(inv, 3)

	s := &Session{}
	err := s.Generate(context.Background(), gen, GenerateRequest{
		Content:    testContent(),
		Type:       TypeMultipleChoice,
		Difficulty: "Medium",
		Count:      count,
	})
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	return s
}

func TestSessionGenerate_PopulatesAndResetsAnswers(t *testing.T) {
	s := generatedSession(t, 3)

	if got := s.State(); got != StateGenerated {
		t.Errorf("state = %s, want %s", got, StateGenerated)
	}
	if len(s.Questions) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(s.Questions))
	}
	if len(s.Answers) != len(s.Questions) {
		t.Fatalf("answers length %d does not match questions length %d", len(s.Answers), len(s.Questions))
	}
	for i, a := range s.Answers {
		if a != "" {
			t.Errorf("answer %d not unset: %q", i, a)
		}
	}
	if s.Results != nil {
		t.Error("fresh session carries results")
	}
}

func TestSessionGenerate_EmptyContent(t *testing.T) {
	s := &Session{}
	err := s.Generate(context.Background(), NewGenerator(&fakeInvoker{}, 1), GenerateRequest{
		Content: "   ",
		Type:    TypeMultipleChoice,
		Count:   2,
	})
	if err == nil {
		t.Fatal("expected error for empty content")
	}
	if status.Code(err) != status.GenerationNoContent {
		t.Errorf("error code = %d, want %d", status.Code(err), status.GenerationNoContent)
	}
	if s.State() != StateEmpty {
		t.Errorf("failed generate left state %s", s.State())
	}
}

func TestSessionGenerate_UnknownType(t *testing.T) {
	s := &Session{}
	err := s.Generate(context.Background(), NewGenerator(&fakeInvoker{}, 1), GenerateRequest{
		Content: testContent(),
		Type:    QuestionType("essay"),
		Count:   2,
	})
	if err == nil {
		t.Fatal("expected error for unknown question type")
	}
	if status.Code(err) != status.GenerationUnknownType {
		t.Errorf("error code = %d, want %d", status.Code(err), status.GenerationUnknownType)
	}
}

func TestSessionGenerate_FailureKeepsPriorState(t *testing.T) {
	s := generatedSession(t, 2)
	prior := s.Questions

	err := s.Generate(context.Background(), NewGenerator(&fakeInvoker{responses: []string{"garbage"}}, 2), GenerateRequest{
		Content: testContent(),
		Type:    TypeMultipleChoice,
		Count:   2,
	})
	if err == nil {
		t.Fatal("expected generation failure")
	}
	if len(s.Questions) != len(prior) {
		t.Fatalf("failed generate mutated questions: %d -> %d", len(prior), len(s.Questions))
	}
	for i := range prior {
		if s.Questions[i].Text() != prior[i].Text() {
			t.Errorf("question %d changed after failed generate", i)
		}
	}
}

func TestSessionSetAnswer_ValidatesMCQOptions(t *testing.T) {
	s := generatedSession(t, 1)

	if err := s.SetAnswer(1, "Paris"); err != nil {
		t.Fatalf("valid option rejected: %v", err)
	}
	if s.State() != StateAnswering {
		t.Errorf("state = %s, want %s", s.State(), StateAnswering)
	}
	if err := s.SetAnswer(1, "Rome"); err == nil {
		t.Fatal("expected rejection of answer outside the options")
	}
	if err := s.SetAnswer(1, ""); err != nil {
		t.Fatalf("resetting to unset rejected: %v", err)
	}
	if err := s.SetAnswer(5, "Paris"); err == nil {
		t.Fatal("expected out-of-range rejection")
	}
}

func TestSessionEvaluate_MCQCorrectness(t *testing.T) {
	s := generatedSession(t, 3)
	// question 1 correct, question 2 wrong, question 3 left unanswered
	if err := s.SetAnswer(1, "Paris"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetAnswer(2, "London"); err != nil {
		t.Fatal(err)
	}

	results, err := s.Evaluate()
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 graded answers, got %d", len(results))
	}
	if !results[0].IsCorrect {
		t.Error("correct answer graded incorrect")
	}
	if results[1].IsCorrect {
		t.Error("wrong option graded correct")
	}
	if results[2].IsCorrect {
		t.Error("unanswered question graded correct")
	}
	if results[2].UserAnswer != NoAnswer {
		t.Errorf("unanswered question displayed as %q, want %q", results[2].UserAnswer, NoAnswer)
	}
	if s.State() != StateEvaluated {
		t.Errorf("state = %s, want %s", s.State(), StateEvaluated)
	}
	if got := s.ScorePercent(); got != 33.33 {
		t.Errorf("score = %.2f, want 33.33", got)
	}
}

func TestSessionEvaluate_FillBlankCaseAndWhitespace(t *testing.T) {
	inv := &fakeInvoker{responses: []string{validFillBlank}}
	gen := NewGenerator(inv, 3)

	s := &Session{}
	if err := s.Generate(context.Background(), gen, GenerateRequest{
		Content: testContent(),
		Type:    TypeFillBlank,
		Count:   1,
	}); err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if err := s.SetAnswer(1, "  paris  "); err != nil {
		t.Fatal(err)
	}

	results, err := s.Evaluate()
	if err != nil {
		t.Fatal(err)
	}
	if !results[0].IsCorrect {
		t.Error("case/whitespace variant of the answer graded incorrect")
	}
}

func TestSession_MutationAfterEvaluateRejected(t *testing.T) {
	s := generatedSession(t, 1)
	if err := s.SetAnswer(1, "Paris"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Evaluate(); err != nil {
		t.Fatal(err)
	}
	if err := s.SetAnswer(1, "London"); err == nil {
		t.Fatal("expected rejection of answers after evaluation")
	}
}

func TestSession_RegenerateDiscardsPriorState(t *testing.T) {
	s := generatedSession(t, 2)
	if err := s.SetAnswer(1, "Paris"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetAnswer(2, "Paris"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Evaluate(); err != nil {
		t.Fatal(err)
	}

	inv := &fakeInvoker{responses: []string{validMCQ}}
	if err := s.Generate(context.Background(), NewGenerator(inv, 3), GenerateRequest{
		Content: testContent(),
		Type:    TypeMultipleChoice,
		Count:   4,
	}); err != nil {
		t.Fatalf("regenerate failed: %v", err)
	}

	if s.Results != nil {
		t.Error("prior results survived regeneration")
	}
	if len(s.Answers) != 4 {
		t.Fatalf("answers length %d, want 4", len(s.Answers))
	}
	for i, a := range s.Answers {
		if a != "" {
			t.Errorf("answer %d not unset after regeneration: %q", i, a)
		}
	}
}

func TestSession_Unanswered(t *testing.T) {
	s := generatedSession(t, 3)
	if err := s.SetAnswer(2, "Paris"); err != nil {
		t.Fatal(err)
	}
	open := s.Unanswered()
	if len(open) != 2 || open[0] != 1 || open[1] != 3 {
		t.Fatalf("unanswered = %v, want [1 3]", open)
	}
}
