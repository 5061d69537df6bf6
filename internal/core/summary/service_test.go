package summary

import (
	"context"
	"errors"
	"strings"
	"testing"

	"pdf-study-buddy/pkg/apperror/status"
)

type fakeInvoker struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeInvoker) Invoke(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func TestSummarize_ParsesModelOutput(t *testing.T) {
	inv := &fakeInvoker{response: `Here is the summary you asked for:
{"title": "Cell Biology", "key_points": ["mitochondria produce energy"], "summary": "An overview of the cell.", "topics": ["biology"]}`}

	s, err := Summarize(context.Background(), inv, "some document text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Title != "Cell Biology" {
		t.Errorf("title = %q", s.Title)
	}
	if len(s.KeyPoints) != 1 || len(s.Topics) != 1 {
		t.Errorf("key_points/topics not carried through: %+v", s)
	}
}

func TestSummarize_RejectsMissingFields(t *testing.T) {
	inv := &fakeInvoker{response: `{"title": "Cell Biology", "key_points": [], "summary": "", "topics": []}`}

	_, err := Summarize(context.Background(), inv, "some document text")
	if err == nil {
		t.Fatal("expected validation error for empty fields")
	}
	if status.Code(err) != status.ValidationFailed {
		t.Errorf("error code = %d, want %d", status.Code(err), status.ValidationFailed)
	}
}

func TestSummarize_NoJSONInResponse(t *testing.T) {
	inv := &fakeInvoker{response: "I am unable to summarize this document."}

	_, err := Summarize(context.Background(), inv, "some document text")
	if err == nil {
		t.Fatal("expected error for a response without JSON")
	}
	if status.Code(err) != status.GenerationFailed {
		t.Errorf("error code = %d, want %d", status.Code(err), status.GenerationFailed)
	}
}

func TestSummarize_ModelFailure(t *testing.T) {
	inv := &fakeInvoker{err: errors.New("model unavailable")}

	_, err := Summarize(context.Background(), inv, "some document text")
	if status.Code(err) != status.GenerationFailed {
		t.Errorf("error code = %d, want %d", status.Code(err), status.GenerationFailed)
	}
}

func TestSummarize_TruncatesLongDocuments(t *testing.T) {
	inv := &fakeInvoker{response: `{"title": "T", "key_points": ["k"], "summary": "s", "topics": ["t"]}`}

	long := strings.Repeat("a", maxPromptChars*2)
	if _, err := Summarize(context.Background(), inv, long); err != nil {
		t.Fatal(err)
	}
	if len(inv.prompts) != 1 {
		t.Fatalf("model invoked %d times", len(inv.prompts))
	}
	if len(inv.prompts[0]) > maxPromptChars+1000 {
		t.Errorf("prompt length %d exceeds the cap plus template", len(inv.prompts[0]))
	}
}
