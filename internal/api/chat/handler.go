package chat

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"pdf-study-buddy/config"
	corechat "pdf-study-buddy/internal/core/chat"
	"pdf-study-buddy/internal/core/llm"
	"pdf-study-buddy/internal/session"
	"pdf-study-buddy/pkg/apperror"
	"pdf-study-buddy/pkg/apperror/status"

	"github.com/gofiber/fiber/v3"
)

// Handler serves the retrieval-grounded chat over a processed document.
type Handler struct {
	Store *session.Store
	LLM   *llm.Client
}

type askRequest struct {
	SessionID string `json:"session_id"`
	Question  string `json:"question"`
}

type historyResponse struct {
	Messages []corechat.Message `json:"messages"`
}

func (h *Handler) getSession(c fiber.Ctx, id string) (*session.Session, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperror.BadRequest(config.ModuleChat, c, status.MissingParams, "session_id is required")
	}
	sess, ok := h.Store.Get(id)
	if !ok {
		return nil, apperror.NotFound(config.ModuleChat, c, status.SessionNotFound, "session not found")
	}
	return sess, nil
}

func (h *Handler) HandleAsk(c fiber.Ctx) error {
	trackingID := c.Get("X-Request-ID")

	var req askRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return apperror.BadRequest(config.ModuleChat, c, status.InvalidRequestBody, err.Error())
	}
	req.Question = strings.TrimSpace(req.Question)
	if req.Question == "" {
		return apperror.BadRequest(config.ModuleChat, c, status.MissingParams, "question is empty")
	}
	sess, err := h.getSession(c, req.SessionID)
	if err != nil {
		return err
	}

	sess.Lock()
	defer sess.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	resp, runErr := corechat.Run(ctx, h.LLM, sess.Index, req.Question, config.Cfg.Retrieval.TopK)
	if runErr != nil {
		var coded status.CodedError
		if errors.As(runErr, &coded) && coded.ErrorCode() == status.RetrievalUnavailable {
			return apperror.UnprocessableError(config.ModuleChat, c, runErr)
		}
		return apperror.InternalError(config.ModuleChat, c, runErr)
	}

	sess.Chat = append(sess.Chat,
		corechat.Message{Role: "user", Content: req.Question},
		corechat.Message{Role: "assistant", Content: resp.Answer, Citations: resp.Citations},
	)

	return apperror.Success(config.ModuleChat, c, apperror.FiberSuccessMessage{
		Code:       status.OK,
		Message:    "chat ok",
		TrackingID: trackingID,
		Data:       resp,
	})
}

func (h *Handler) HandleHistory(c fiber.Ctx) error {
	trackingID := c.Get("X-Request-ID")

	sess, err := h.getSession(c, c.Query("session_id"))
	if err != nil {
		return err
	}

	sess.Lock()
	defer sess.Unlock()

	msgs := make([]corechat.Message, len(sess.Chat))
	copy(msgs, sess.Chat)

	return apperror.Success(config.ModuleChat, c, apperror.FiberSuccessMessage{
		Code:       status.OK,
		Message:    "chat history",
		TrackingID: trackingID,
		Data:       historyResponse{Messages: msgs},
	})
}

func (h *Handler) HandleClearHistory(c fiber.Ctx) error {
	trackingID := c.Get("X-Request-ID")

	sess, err := h.getSession(c, c.Query("session_id"))
	if err != nil {
		return err
	}

	sess.Lock()
	sess.Chat = nil
	sess.Unlock()

	return apperror.Success(config.ModuleChat, c, apperror.FiberSuccessMessage{
		Code:       status.OK,
		Message:    "chat history cleared",
		TrackingID: trackingID,
	})
}
