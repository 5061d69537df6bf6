package quiz

import (
	"encoding/csv"
	"os"
	"strings"
	"testing"
)

func evaluatedSession(t *testing.T) *Session {
	t.Helper()
	s := generatedSession(t, 2)
	if err := s.SetAnswer(1, "Paris"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetAnswer(2, "Berlin"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Evaluate(); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestSaveResults_SummaryBlockAndRows(t *testing.T) {
	s := evaluatedSession(t)
	dir := t.TempDir()

	path, err := s.SaveResults(dir)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(raw)

	for _, want := range []string{
		"# Quiz Summary",
		"# total_questions: 2",
		"# correct_answers: 1",
		"# score_percentage: 50.00",
		"# question_type: multiple_choice",
		"# timestamp: ",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("summary block missing %q", want)
		}
	}

	// the tabular part starts after the blank line separating it from the summary
	parts := strings.SplitN(content, "\n\n", 2)
	if len(parts) != 2 {
		t.Fatal("no blank line between summary block and table")
	}
	rows, err := csv.NewReader(strings.NewReader(parts[1])).ReadAll()
	if err != nil {
		t.Fatalf("table not parseable as csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}
	header := []string{"question_number", "question", "user_answer", "correct_answer", "is_correct"}
	for i, col := range header {
		if rows[0][i] != col {
			t.Errorf("header column %d = %q, want %q", i, rows[0][i], col)
		}
	}
	if rows[1][0] != "1" || rows[1][2] != "Paris" || rows[1][4] != "true" {
		t.Errorf("row 1 mismatch: %v", rows[1])
	}
	if rows[2][0] != "2" || rows[2][2] != "Berlin" || rows[2][4] != "false" {
		t.Errorf("row 2 mismatch: %v", rows[2])
	}
}

func TestSaveResults_UniqueFilenames(t *testing.T) {
	s := evaluatedSession(t)
	dir := t.TempDir()

	first, err := s.SaveResults(dir)
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.SaveResults(dir)
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Errorf("repeated saves produced the same path: %s", first)
	}
}

func TestSaveResults_RequiresEvaluation(t *testing.T) {
	s := generatedSession(t, 1)
	if _, err := s.SaveResults(t.TempDir()); err == nil {
		t.Fatal("expected error before evaluation")
	}
}
