package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"pdf-study-buddy/internal/core/retriever"
	"pdf-study-buddy/pkg/apperror/status"
)

type fakeInvoker struct {
	answer string
	err    error
	calls  int
}

func (f *fakeInvoker) Invoke(ctx context.Context, prompt string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func documentIndex() *retriever.Index {
	return retriever.NewIndex([]retriever.Chunk{
		{Index: 0, Text: "The mitochondria is the powerhouse of the cell"},
		{Index: 1, Text: "Photosynthesis converts light into chemical energy"},
		{Index: 2, Text: "The capital of France is Paris"},
	})
}

func TestBuildPrompt_NumbersContextBlocks(t *testing.T) {
	prompt := BuildPrompt("What is the capital of France?", []retriever.Result{
		{ChunkIndex: 2, Text: "The capital of France is Paris", Score: 1.2},
		{ChunkIndex: 0, Text: "France is in Europe", Score: 0.4},
	})

	if !strings.Contains(prompt, "Context 1: The capital of France is Paris") {
		t.Error("first context block missing or misnumbered")
	}
	if !strings.Contains(prompt, "Context 2: France is in Europe") {
		t.Error("second context block missing or misnumbered")
	}
	if !strings.Contains(prompt, "Question: What is the capital of France?") {
		t.Error("question line missing")
	}
	if strings.Index(prompt, "Context 1:") > strings.Index(prompt, "Context 2:") {
		t.Error("context blocks out of order")
	}
	if !strings.Contains(prompt, "only the context above") {
		t.Error("grounding instruction missing")
	}
}

func TestRun_EmptyQuestion(t *testing.T) {
	inv := &fakeInvoker{answer: "unused"}
	if _, err := Run(context.Background(), inv, documentIndex(), "   ", 3); err == nil {
		t.Fatal("expected error for blank question")
	}
	if inv.calls != 0 {
		t.Errorf("model invoked %d times for a blank question", inv.calls)
	}
}

func TestRun_NoIndex(t *testing.T) {
	inv := &fakeInvoker{answer: "unused"}

	_, err := Run(context.Background(), inv, nil, "anything", 3)
	if err == nil {
		t.Fatal("expected error for missing index")
	}
	if status.Code(err) != status.RetrievalUnavailable {
		t.Errorf("error code = %d, want %d", status.Code(err), status.RetrievalUnavailable)
	}

	_, err = Run(context.Background(), inv, retriever.NewIndex(nil), "anything", 3)
	if status.Code(err) != status.RetrievalUnavailable {
		t.Errorf("empty index error code = %d, want %d", status.Code(err), status.RetrievalUnavailable)
	}
	if inv.calls != 0 {
		t.Errorf("model invoked %d times without an index", inv.calls)
	}
}

func TestRun_NoRelevantChunksSkipsModel(t *testing.T) {
	inv := &fakeInvoker{answer: "should not appear"}

	resp, err := Run(context.Background(), inv, documentIndex(), "quarterly revenue forecast", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Answer != NoContextAnswer {
		t.Errorf("answer = %q, want the canned fallback", resp.Answer)
	}
	if len(resp.Citations) != 0 {
		t.Errorf("fallback reply carries %d citations", len(resp.Citations))
	}
	if inv.calls != 0 {
		t.Errorf("model invoked %d times with no grounding", inv.calls)
	}
}

func TestRun_GroundedAnswerWithCitations(t *testing.T) {
	inv := &fakeInvoker{answer: "Paris is the capital of France (Context 1)."}

	resp, err := Run(context.Background(), inv, documentIndex(), "What is the capital of France?", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Answer != inv.answer {
		t.Errorf("answer = %q", resp.Answer)
	}
	if inv.calls != 1 {
		t.Errorf("model invoked %d times, want 1", inv.calls)
	}
	if len(resp.Citations) == 0 {
		t.Fatal("grounded answer carries no citations")
	}
	if resp.Citations[0].ChunkIndex != 2 {
		t.Errorf("top citation chunk = %d, want 2", resp.Citations[0].ChunkIndex)
	}
}

func TestRun_ModelFailure(t *testing.T) {
	inv := &fakeInvoker{err: errors.New("model unavailable")}

	_, err := Run(context.Background(), inv, documentIndex(), "What is the capital of France?", 3)
	if err == nil {
		t.Fatal("expected error when the model fails")
	}
	if status.Code(err) != status.GenerationFailed {
		t.Errorf("error code = %d, want %d", status.Code(err), status.GenerationFailed)
	}
}
