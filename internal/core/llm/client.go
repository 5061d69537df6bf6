package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pdf-study-buddy/config"
	"pdf-study-buddy/pkg/logger"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// Invoker is the contract with the external language model: one prompt in,
// free text out. Everything above this package treats the model as opaque.
type Invoker interface {
	Invoke(ctx context.Context, prompt string) (string, error)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}
type chatChoice struct {
	Index   int `json:"index"`
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
	FinishReason string `json:"finish_reason"`
}
type chatResponse struct {
	Choices []chatChoice `json:"choices"`
}

// Client talks to an OpenAI-compatible chat completions endpoint (Groq by
// default, see config).
type Client struct {
	key         string
	baseURL     string
	model       string
	temperature float64
	maxTokens   int
}

// NewClient builds a Client from the loaded configuration.
func NewClient() *Client {
	return &Client{
		key:         config.Cfg.LLM.Key,
		baseURL:     config.Cfg.LLM.BaseURL,
		model:       config.Cfg.LLM.Model,
		temperature: config.Cfg.LLM.Temperature,
		maxTokens:   config.Cfg.LLM.MaxTokens,
	}
}

// Invoke sends a single-turn prompt and returns the trimmed completion text.
func (c *Client) Invoke(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", errors.New("prompt is empty")
	}
	if c.key == "" {
		return "", errors.New("missing llm key")
	}

	opts := []option.RequestOption{option.WithAPIKey(c.key)}
	if c.baseURL != "" {
		opts = append(opts, option.WithBaseURL(c.baseURL))
	}
	client := openai.NewClient(opts...)

	req := chatRequest{
		Model:       c.model,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
	}
	var out chatResponse
	if err := client.Post(ctx, "/chat/completions", req, &out); err != nil {
		logger.Error(err, "%v: chat completion failed", config.ModuleLLM)
		return "", err
	}
	if len(out.Choices) == 0 {
		err := fmt.Errorf("no choices returned")
		logger.Error(err, "%v: chat completion empty", config.ModuleLLM)
		return "", err
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}
