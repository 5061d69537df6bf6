package quiz

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"pdf-study-buddy/config"
	"pdf-study-buddy/pkg/logger"

	"github.com/google/uuid"
)

// SaveResults writes the evaluated quiz to a CSV file under dir: a
// comment-style summary block, a blank line, then one tabular row per
// question. The filename carries a timestamp plus a short unique suffix so
// repeated saves never collide. Returns the written path.
func (s *Session) SaveResults(dir string) (string, error) {
	if s.Results == nil {
		return "", fmt.Errorf("no results available to save")
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create results dir: %w", err)
	}

	now := time.Now()
	name := fmt.Sprintf("quiz_results_%s_%s.csv", now.Format("20060102_150405"), uuid.NewString()[:8])
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create results file: %w", err)
	}
	defer f.Close()

	fmt.Fprintf(f, "# Quiz Summary\n")
	fmt.Fprintf(f, "# total_questions: %d\n", len(s.Results))
	fmt.Fprintf(f, "# correct_answers: %d\n", s.CorrectCount())
	fmt.Fprintf(f, "# score_percentage: %.2f\n", s.ScorePercent())
	fmt.Fprintf(f, "# question_type: %s\n", s.Type)
	fmt.Fprintf(f, "# timestamp: %s\n", now.Format(time.RFC3339))
	fmt.Fprintf(f, "\n")

	w := csv.NewWriter(f)
	if err := w.Write([]string{"question_number", "question", "user_answer", "correct_answer", "is_correct"}); err != nil {
		return "", err
	}
	for _, r := range s.Results {
		row := []string{
			strconv.Itoa(r.QuestionNumber),
			r.Question,
			r.UserAnswer,
			r.CorrectAnswer,
			strconv.FormatBool(r.IsCorrect),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	logger.Info("%v: results saved: %s", config.ModuleQuiz, path)
	return path, nil
}
