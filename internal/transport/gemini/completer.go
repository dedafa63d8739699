// Package gemini adapts Google Gemini models, via langchaingo, to domain.Completer.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/gigmarket/internal/domain"
	"github.com/kailas-cloud/gigmarket/internal/metrics"
)

// DefaultModel is used when a request names no model.
const DefaultModel = "gemini-2.5-flash"

var _ domain.Completer = (*Completer)(nil)

// Completer generates chat replies through an llms.Model.
type Completer struct {
	model    llms.Model
	provider string
	logger   *zap.Logger
}

// Config holds the provider settings.
type Config struct {
	APIKey   string
	Provider string
	Logger   *zap.Logger
}

// NewCompleter creates a Gemini completer backed by the googleai client.
func NewCompleter(ctx context.Context, cfg *Config) (*Completer, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini: api key is required")
	}
	model, err := googleai.New(ctx,
		googleai.WithAPIKey(cfg.APIKey),
		googleai.WithDefaultModel(DefaultModel),
	)
	if err != nil {
		return nil, fmt.Errorf("create googleai client: %w", err)
	}
	return NewWithModel(model, cfg.Provider, cfg.Logger), nil
}

// NewWithModel wraps an existing llms.Model.
func NewWithModel(model llms.Model, provider string, log *zap.Logger) *Completer {
	if provider == "" {
		provider = "gemini"
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Completer{model: model, provider: provider, logger: log}
}

// Complete implements domain.Completer. A reply without choices yields empty text.
func (c *Completer) Complete(ctx context.Context, req domain.CompletionRequest) (domain.Completion, error) {
	model := req.Model
	if model == "" {
		model = DefaultModel
	}
	task := string(req.Task)

	opts := []llms.CallOption{llms.WithModel(model)}
	if req.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(req.MaxTokens))
	}
	if req.Temperature > 0 {
		opts = append(opts, llms.WithTemperature(float64(req.Temperature)))
	}

	start := time.Now()
	resp, err := c.model.GenerateContent(ctx, messageContent(req.Messages), opts...)
	duration := time.Since(start)

	if err != nil {
		metrics.AssistantRequestsTotal.WithLabelValues(c.provider, model, task, "error").Inc()
		metrics.AssistantErrorsTotal.WithLabelValues(c.provider, model, "api_error").Inc()
		return domain.Completion{}, fmt.Errorf("gemini generate: %w: %w", err, domain.ErrAssistantProviderError)
	}

	metrics.AssistantRequestsTotal.WithLabelValues(c.provider, model, task, "success").Inc()
	metrics.AssistantRequestDuration.WithLabelValues(c.provider, model, task).Observe(duration.Seconds())

	if resp == nil || len(resp.Choices) == 0 || resp.Choices[0] == nil {
		metrics.AssistantErrorsTotal.WithLabelValues(c.provider, model, "empty_response").Inc()
		c.logger.Warn("Completion returned no choices",
			zap.String("provider", c.provider),
			zap.String("model", model),
		)
		return domain.Completion{}, nil
	}

	choice := resp.Choices[0]
	prompt := intInfo(choice.GenerationInfo, "input_tokens")
	total := intInfo(choice.GenerationInfo, "total_tokens")
	if total > 0 {
		metrics.AssistantTokensTotal.WithLabelValues(c.provider, model, "prompt").Add(float64(prompt))
		metrics.AssistantTokensTotal.WithLabelValues(c.provider, model, "total").Add(float64(total))
	}

	return domain.Completion{
		Text:         choice.Content,
		PromptTokens: prompt,
		TotalTokens:  total,
	}, nil
}

func messageContent(msgs []domain.Message) []llms.MessageContent {
	out := make([]llms.MessageContent, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, llms.TextParts(chatRole(m.Role), m.Content))
	}
	return out
}

func chatRole(r domain.Role) llms.ChatMessageType {
	switch r {
	case domain.RoleSystem:
		return llms.ChatMessageTypeSystem
	case domain.RoleAssistant:
		return llms.ChatMessageTypeAI
	default:
		return llms.ChatMessageTypeHuman
	}
}

// intInfo reads a token count from generation info; googleai reports int32.
func intInfo(info map[string]any, key string) int {
	switch v := info[key].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}
