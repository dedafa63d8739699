package gigmarket

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/gigmarket/internal/domain"
)

// Completer answers chat completion requests.
// Implement it to run recommendations on a model the SDK does not ship with.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (Completion, error)
}

// Message is one chat turn. Role is "system", "user" or "assistant".
type Message struct {
	Role    string
	Content string
}

// CompletionRequest is a single chat completion call.
type CompletionRequest struct {
	Model       string
	Messages    []Message
	MaxTokens   int
	Temperature float32
}

// Completion carries the reply and its token usage.
type Completion struct {
	Text         string
	PromptTokens int
	TotalTokens  int
}

// completerAdapter wraps a public Completer to satisfy domain.Completer.
type completerAdapter struct {
	inner Completer
}

func (a *completerAdapter) Complete(ctx context.Context, req domain.CompletionRequest) (domain.Completion, error) {
	msgs := make([]Message, len(req.Messages))
	for i, m := range req.Messages {
		msgs[i] = Message{Role: string(m.Role), Content: m.Content}
	}
	r, err := a.inner.Complete(ctx, CompletionRequest{
		Model:       req.Model,
		Messages:    msgs,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return domain.Completion{}, fmt.Errorf("%w: %w", domain.ErrAssistantProviderError, err)
	}
	return domain.Completion{
		Text:         r.Text,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}

// noopCompleter fails every call. Used when no model is configured, so listing
// reads keep working while recommendations report the missing provider.
type noopCompleter struct{}

func (noopCompleter) Complete(_ context.Context, _ domain.CompletionRequest) (domain.Completion, error) {
	return domain.Completion{}, fmt.Errorf("%w: %w", domain.ErrAssistantProviderError, errNoCompleter)
}

var errNoCompleter = errors.New(
	"gigmarket: language model not configured (use WithOpenAI, WithGemini or WithCompleter)",
)
