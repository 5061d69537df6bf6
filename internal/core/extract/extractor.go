package extract

import (
	"fmt"
	"strings"

	"pdf-study-buddy/config"
	"pdf-study-buddy/pkg/apperror/status"
	"pdf-study-buddy/pkg/logger"

	"github.com/ledongthuc/pdf"
)

// Extract reads the PDF at path and returns its text with per-page markers,
// plus the page count. Documents that are unreadable, empty, over maxPages
// (default 15), or yield no text at all fail with a coded extraction error.
func Extract(path string, maxPages int) (string, int, error) {
	if maxPages <= 0 {
		maxPages = 15
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", 0, status.New(status.ExtractionUnreadable, fmt.Errorf("open pdf: %w", err))
	}
	defer f.Close()

	total := r.NumPage()
	if total == 0 {
		return "", 0, status.New(status.ExtractionNoPages, fmt.Errorf("pdf has no pages"))
	}
	if total > maxPages {
		return "", 0, status.New(status.ExtractionTooManyPages,
			fmt.Errorf("pdf has too many pages (%d), maximum allowed: %d", total, maxPages))
	}

	var b strings.Builder
	for i := 1; i <= total; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			logger.Warn("%v: could not extract text from page %d: %s", config.ModuleExtract, i, err.Error())
			continue
		}
		b.WriteString(fmt.Sprintf("\n--- Page %d ---\n", i))
		b.WriteString(text)
	}

	content := strings.TrimSpace(b.String())
	if content == "" {
		return "", 0, status.New(status.ExtractionEmptyText, fmt.Errorf("no text content found in pdf"))
	}

	logger.WithFields(map[string]interface{}{
		"pages": total,
		"chars": len(content),
	}).Info("extract: pdf text extracted")
	return content, total, nil
}
