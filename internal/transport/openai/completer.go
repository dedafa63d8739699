// Package openai adapts OpenAI-compatible chat completion APIs to domain.Completer.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/gigmarket/internal/domain"
	"github.com/kailas-cloud/gigmarket/internal/metrics"
)

var (
	_ domain.Completer     = (*Completer)(nil)
	_ domain.HealthChecker = (*Completer)(nil)
)

// Completer calls the chat completions endpoint.
type Completer struct {
	client   *openai.Client
	user     string
	provider string
	logger   *zap.Logger
}

// Config holds the provider settings. An empty BaseURL uses api.openai.com.
type Config struct {
	APIKey   string
	BaseURL  string
	User     string
	Provider string
	Logger   *zap.Logger
}

// NewCompleter creates an OpenAI-compatible completer.
func NewCompleter(cfg *Config) *Completer {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	provider := cfg.Provider
	if provider == "" {
		provider = "openai"
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Completer{
		client:   openai.NewClientWithConfig(clientCfg),
		user:     cfg.User,
		provider: provider,
		logger:   log,
	}
}

// Complete implements domain.Completer. A reply without choices yields empty text.
func (c *Completer) Complete(ctx context.Context, req domain.CompletionRequest) (domain.Completion, error) {
	msgs := make([]openai.ChatCompletionMessage, len(req.Messages))
	for i, m := range req.Messages {
		msgs[i] = openai.ChatCompletionMessage{Role: string(m.Role), Content: m.Content}
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    msgs,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		User:        c.user,
	})
	duration := time.Since(start)
	task := string(req.Task)

	if err != nil {
		metrics.AssistantRequestsTotal.WithLabelValues(c.provider, req.Model, task, "error").Inc()
		metrics.AssistantErrorsTotal.WithLabelValues(c.provider, req.Model, errorType(err)).Inc()
		return domain.Completion{}, parseAPIError(err)
	}

	metrics.AssistantRequestsTotal.WithLabelValues(c.provider, req.Model, task, "success").Inc()
	metrics.AssistantRequestDuration.WithLabelValues(c.provider, req.Model, task).Observe(duration.Seconds())
	if resp.Usage.TotalTokens > 0 {
		metrics.AssistantTokensTotal.WithLabelValues(c.provider, req.Model, "prompt").Add(float64(resp.Usage.PromptTokens))
		metrics.AssistantTokensTotal.WithLabelValues(c.provider, req.Model, "total").Add(float64(resp.Usage.TotalTokens))
	}

	var text string
	if len(resp.Choices) > 0 {
		text = resp.Choices[0].Message.Content
	} else {
		metrics.AssistantErrorsTotal.WithLabelValues(c.provider, req.Model, "empty_response").Inc()
		c.logger.Warn("Completion returned no choices",
			zap.String("provider", c.provider),
			zap.String("model", req.Model),
		)
	}

	return domain.Completion{
		Text:         text,
		PromptTokens: resp.Usage.PromptTokens,
		TotalTokens:  resp.Usage.TotalTokens,
	}, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (c *Completer) HealthCheck(ctx context.Context) error {
	if _, err := c.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

func errorType(err error) string {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
		return "rate_limited"
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode == http.StatusTooManyRequests {
		return "rate_limited"
	}
	return "api_error"
}

// parseAPIError extracts a readable message from the API response.
// Every failure wraps domain.ErrAssistantProviderError.
func parseAPIError(err error) error {
	wrap := domain.ErrAssistantProviderError

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("completion API error %d: %s: %w", apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		detail := extractDetail(reqErr.Body)
		if detail == "" {
			detail = string(reqErr.Body)
		}
		return fmt.Errorf("completion API error %d: %s: %w", reqErr.HTTPStatusCode, detail, wrap)
	}

	return fmt.Errorf("completion request failed: %w: %w", err, wrap)
}

// extractDetail reads the "detail" field some compatible providers return.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
