package chat

import (
	"context"
	"fmt"
	"strings"

	"pdf-study-buddy/config"
	"pdf-study-buddy/internal/core/llm"
	"pdf-study-buddy/internal/core/retriever"
	"pdf-study-buddy/pkg/apperror/status"
	"pdf-study-buddy/pkg/logger"
)

// NoContextAnswer is the canned reply when retrieval produced no grounding.
// The model is never invoked in that case, so no answer can be fabricated.
const NoContextAnswer = "I couldn't find relevant content in the document to answer that question. Try rephrasing it or asking about a different part of the document."

// Message is one chat turn kept on the session.
type Message struct {
	Role      string             `json:"role"`
	Content   string             `json:"content"`
	Citations []retriever.Result `json:"citations,omitempty"`
}

// Response pairs a grounded answer with the chunks that were fed into the
// prompt. Citations are exactly the retrieved context, in prompt order.
type Response struct {
	Answer    string             `json:"answer"`
	Citations []retriever.Result `json:"citations"`
}

// BuildPrompt assembles retrieved chunks and the question into a single
// grounded prompt: numbered context blocks joined by blank lines, the literal
// question, and an instruction to stay within the context and cite blocks.
func BuildPrompt(question string, results []retriever.Result) string {
	var b strings.Builder
	for i, r := range results {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(fmt.Sprintf("Context %d: %s", i+1, r.Text))
	}
	b.WriteString("\n\nQuestion: ")
	b.WriteString(question)
	b.WriteString("\n\nAnswer the question using only the context above. ")
	b.WriteString("Ground every statement in the supplied context and mention which context block (by number) supports it. ")
	b.WriteString("If the context does not contain the answer, say that the document does not cover it.")
	return b.String()
}

// Run executes one retrieval-grounded round trip: retrieve, guard against an
// empty result, prompt, invoke. An index that was never built is a retrieval
// error; an index with no relevant chunks yields the canned fallback answer.
func Run(ctx context.Context, inv llm.Invoker, idx *retriever.Index, question string, topK int) (Response, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Response{}, fmt.Errorf("question is empty")
	}
	if idx.Len() == 0 {
		return Response{}, status.New(status.RetrievalUnavailable,
			fmt.Errorf("retriever not available for the current document"))
	}

	results := idx.Search(question, topK)
	if len(results) == 0 {
		logger.Info("%v: no relevant chunks for question", config.ModuleChat)
		return Response{Answer: NoContextAnswer, Citations: []retriever.Result{}}, nil
	}

	answer, err := inv.Invoke(ctx, BuildPrompt(question, results))
	if err != nil {
		logger.Error(err, "%v: grounded answer failed", config.ModuleChat)
		return Response{}, status.New(status.GenerationFailed, fmt.Errorf("chat answer failed: %w", err))
	}
	return Response{Answer: answer, Citations: results}, nil
}
