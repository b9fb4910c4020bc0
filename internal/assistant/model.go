package assistant

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/guonaihong/gout"
	"github.com/pkg/errors"

	"github.com/farmanet/asisbot/config"
)

// ModelClient is the language model capability consumed by the
// pipeline. Two call shapes only: structured extraction (strict JSON
// output, deterministic) and free text generation.
type ModelClient interface {
	CompleteJSON(ctx context.Context, system, user string) (string, error)
	Complete(ctx context.Context, system string) (string, error)
}

const (
	extractTemperature   = 0.0
	synthesisTemperature = 0.5
)

// OpenAIClient talks to an OpenAI compatible chat-completions endpoint.
type OpenAIClient struct {
	apiURL string
	apiKey string
	model  string
}

var _ ModelClient = (*OpenAIClient)(nil)

func NewOpenAIClient(cfg config.AssistantConfig) *OpenAIClient {
	return &OpenAIClient{
		apiURL: cfg.ApiUrl,
		apiKey: cfg.ApiKey,
		model:  cfg.Model,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

func (c *OpenAIClient) call(ctx context.Context, req chatCompletionRequest) (string, error) {
	var (
		resp chatCompletionResponse
		code int
	)
	err := gout.POST(c.apiURL).
		WithContext(ctx).
		SetHeader(gout.H{"Authorization": "Bearer " + c.apiKey}).
		SetJSON(&req).
		BindJSON(&resp).
		Code(&code).
		Do()
	if err != nil {
		return "", errors.Wrap(err, "model request failed")
	}
	if code != http.StatusOK {
		if resp.Error != nil {
			return "", errors.Errorf("model api status %d: %s", code, resp.Error.Message)
		}
		return "", errors.Errorf("model api status %d", code)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("model response has no choices")
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", errors.New("model response is empty")
	}
	return content, nil
}

// CompleteJSON runs a deterministic call with the JSON response format
// flag set, for structured extraction.
func (c *OpenAIClient) CompleteJSON(ctx context.Context, system, user string) (string, error) {
	return c.call(ctx, chatCompletionRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature:    extractTemperature,
		ResponseFormat: &responseFormat{Type: "json_object"},
	})
}

// Complete runs a free text generation call at moderate temperature.
func (c *OpenAIClient) Complete(ctx context.Context, system string) (string, error) {
	return c.call(ctx, chatCompletionRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
		},
		Temperature: synthesisTemperature,
	})
}

// callTimeout returns a derived context bounded by the configured
// per-call model timeout.
func callTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return context.WithTimeout(ctx, timeout)
}
