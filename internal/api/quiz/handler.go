package quiz

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"pdf-study-buddy/config"
	corequiz "pdf-study-buddy/internal/core/quiz"
	"pdf-study-buddy/internal/session"
	"pdf-study-buddy/pkg/apperror"
	"pdf-study-buddy/pkg/apperror/status"

	"github.com/gofiber/fiber/v3"
)

// Handler drives the quiz lifecycle over HTTP: generate, answer, submit,
// save. Every action runs under the session's mutex, the session store being
// the only shared state.
type Handler struct {
	Store     *session.Store
	Generator *corequiz.Generator
}

type generateRequest struct {
	SessionID    string `json:"session_id"`
	QuestionType string `json:"question_type"`
	Difficulty   string `json:"difficulty"`
	NumQuestions int    `json:"num_questions"`
}

type generateResponse struct {
	QuestionType corequiz.QuestionType `json:"question_type"`
	Questions    []corequiz.Question   `json:"questions"`
}

type answerRequest struct {
	SessionID      string `json:"session_id"`
	QuestionNumber int    `json:"question_number"`
	Answer         string `json:"answer"`
}

type submitRequest struct {
	SessionID string `json:"session_id"`
}

type resultsResponse struct {
	Results        []corequiz.GradedAnswer `json:"results"`
	CorrectAnswers int                     `json:"correct_answers"`
	TotalQuestions int                     `json:"total_questions"`
	ScorePercent   float64                 `json:"score_percentage"`
}

type saveResponse struct {
	Filename string `json:"filename"`
}

// parseType maps a request value to a question type, tolerating the display
// names alongside the API values.
func parseType(s string) (corequiz.QuestionType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "multiple_choice", "multiple choice", "mcq":
		return corequiz.TypeMultipleChoice, true
	case "fill_blank", "fill in the blank", "fill-in-the-blank":
		return corequiz.TypeFillBlank, true
	}
	return "", false
}

func (h *Handler) getSession(c fiber.Ctx, id string) (*session.Session, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperror.BadRequest(config.ModuleQuiz, c, status.MissingParams, "session_id is required")
	}
	sess, ok := h.Store.Get(id)
	if !ok {
		return nil, apperror.NotFound(config.ModuleQuiz, c, status.SessionNotFound, "session not found")
	}
	return sess, nil
}

func (h *Handler) HandleGenerate(c fiber.Ctx) error {
	trackingID := c.Get("X-Request-ID")

	var req generateRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return apperror.BadRequest(config.ModuleQuiz, c, status.InvalidRequestBody, err.Error())
	}
	sess, err := h.getSession(c, req.SessionID)
	if err != nil {
		return err
	}
	qt, ok := parseType(req.QuestionType)
	if !ok {
		return apperror.BadRequest(config.ModuleQuiz, c, status.GenerationUnknownType,
			fmt.Sprintf("unsupported question type: %s", req.QuestionType))
	}
	if req.NumQuestions < 1 || req.NumQuestions > config.Cfg.Quiz.MaxQuestions {
		return apperror.BadRequest(config.ModuleQuiz, c, status.MissingParams,
			fmt.Sprintf("num_questions must be between 1 and %d", config.Cfg.Quiz.MaxQuestions))
	}

	sess.Lock()
	defer sess.Unlock()

	if sess.Document == nil {
		return apperror.BadRequest(config.ModuleQuiz, c, status.GenerationNoContent, "no document processed for this session")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()
	genErr := sess.Quiz.Generate(ctx, h.Generator, corequiz.GenerateRequest{
		Content:      sess.Document.Text,
		Type:         qt,
		Difficulty:   req.Difficulty,
		Count:        req.NumQuestions,
		MinPartWords: config.Cfg.Quiz.MinChunkWords,
	})
	if genErr != nil {
		return apperror.UnprocessableError(config.ModuleQuiz, c, genErr)
	}

	return apperror.Success(config.ModuleQuiz, c, apperror.FiberSuccessMessage{
		Code:       status.OK,
		Message:    "quiz generated",
		TrackingID: trackingID,
		Data: generateResponse{
			QuestionType: sess.Quiz.Type,
			Questions:    sess.Quiz.Questions,
		},
	})
}

func (h *Handler) HandleAnswer(c fiber.Ctx) error {
	trackingID := c.Get("X-Request-ID")

	var req answerRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return apperror.BadRequest(config.ModuleQuiz, c, status.InvalidRequestBody, err.Error())
	}
	sess, err := h.getSession(c, req.SessionID)
	if err != nil {
		return err
	}

	sess.Lock()
	defer sess.Unlock()

	if err := sess.Quiz.SetAnswer(req.QuestionNumber, req.Answer); err != nil {
		return apperror.BadRequest(config.ModuleQuiz, c, status.InvalidRequestBody, err.Error())
	}

	return apperror.Success(config.ModuleQuiz, c, apperror.FiberSuccessMessage{
		Code:       status.OK,
		Message:    "answer recorded",
		TrackingID: trackingID,
	})
}

func (h *Handler) HandleSubmit(c fiber.Ctx) error {
	trackingID := c.Get("X-Request-ID")

	var req submitRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return apperror.BadRequest(config.ModuleQuiz, c, status.InvalidRequestBody, err.Error())
	}
	sess, err := h.getSession(c, req.SessionID)
	if err != nil {
		return err
	}

	sess.Lock()
	defer sess.Unlock()

	// The state machine does not gate on completeness; the surface does, so
	// the user learns exactly which questions are still open.
	if open := sess.Quiz.Unanswered(); len(open) > 0 {
		nums := make([]string, len(open))
		for i, n := range open {
			nums[i] = fmt.Sprintf("%d", n)
		}
		return apperror.BadRequest(config.ModuleQuiz, c, status.MissingParams,
			fmt.Sprintf("please answer question(s): %s", strings.Join(nums, ", ")))
	}

	results, evalErr := sess.Quiz.Evaluate()
	if evalErr != nil {
		return apperror.BadRequest(config.ModuleQuiz, c, status.MissingParams, evalErr.Error())
	}

	return apperror.Success(config.ModuleQuiz, c, apperror.FiberSuccessMessage{
		Code:       status.OK,
		Message:    "quiz evaluated",
		TrackingID: trackingID,
		Data: resultsResponse{
			Results:        results,
			CorrectAnswers: sess.Quiz.CorrectCount(),
			TotalQuestions: len(results),
			ScorePercent:   sess.Quiz.ScorePercent(),
		},
	})
}

func (h *Handler) HandleResults(c fiber.Ctx) error {
	trackingID := c.Get("X-Request-ID")

	sess, err := h.getSession(c, c.Query("session_id"))
	if err != nil {
		return err
	}

	sess.Lock()
	defer sess.Unlock()

	if sess.Quiz.Results == nil {
		return apperror.NotFound(config.ModuleQuiz, c, status.MissingParams, "no results available; submit the quiz first")
	}

	return apperror.Success(config.ModuleQuiz, c, apperror.FiberSuccessMessage{
		Code:       status.OK,
		Message:    "quiz results",
		TrackingID: trackingID,
		Data: resultsResponse{
			Results:        sess.Quiz.Results,
			CorrectAnswers: sess.Quiz.CorrectCount(),
			TotalQuestions: len(sess.Quiz.Results),
			ScorePercent:   sess.Quiz.ScorePercent(),
		},
	})
}

func (h *Handler) HandleSave(c fiber.Ctx) error {
	trackingID := c.Get("X-Request-ID")

	var req submitRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return apperror.BadRequest(config.ModuleQuiz, c, status.InvalidRequestBody, err.Error())
	}
	sess, err := h.getSession(c, req.SessionID)
	if err != nil {
		return err
	}

	sess.Lock()
	defer sess.Unlock()

	path, saveErr := sess.Quiz.SaveResults(config.Cfg.Quiz.ResultsDir)
	if saveErr != nil {
		return apperror.BadRequest(config.ModuleQuiz, c, status.MissingParams, saveErr.Error())
	}

	return apperror.Success(config.ModuleQuiz, c, apperror.FiberSuccessMessage{
		Code:       status.OK,
		Message:    "results saved",
		TrackingID: trackingID,
		Data:       saveResponse{Filename: path},
	})
}
