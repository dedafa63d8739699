// Package assistant runs the language model tasks of the marketplace: search
// keyword extraction, free-form conversation and gig description drafting.
package assistant

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/gigmarket/internal/domain"
)

// Conversation limits.
const (
	MaxConversationMessages = 50
	MaxMessageLength        = 4000
	MaxDetailsLength        = 4000
)

// Profiles holds the model parameters of each assistant task.
type Profiles struct {
	Keywords domain.TaskProfile
	Chat     domain.TaskProfile
	Describe domain.TaskProfile
}

// Service builds task prompts and calls the completer chain.
type Service struct {
	completer domain.Completer
	profiles  Profiles
}

// New creates a Service.
func New(completer domain.Completer, profiles Profiles) *Service {
	return &Service{completer: completer, profiles: profiles}
}

// ExtractKeywords asks the model for search keywords in prompt and returns the
// raw reply. An empty reply is not an error.
func (s *Service) ExtractKeywords(ctx context.Context, prompt string) (string, error) {
	res, err := s.completer.Complete(ctx, s.profiles.Keywords.Request(keywordMessages(prompt)...))
	if err != nil {
		return "", fmt.Errorf("extract keywords: %w", err)
	}
	return res.Text, nil
}

// Converse continues a conversation and returns the model reply, or
// FallbackReply when the model answers with nothing.
func (s *Service) Converse(ctx context.Context, conversation []domain.Message) (string, error) {
	if err := validateConversation(conversation); err != nil {
		return "", err
	}

	res, err := s.completer.Complete(ctx, s.profiles.Chat.Request(conversation...))
	if err != nil {
		return "", fmt.Errorf("converse: %w", err)
	}
	if reply := strings.TrimSpace(res.Text); reply != "" {
		return reply, nil
	}
	return FallbackReply, nil
}

// DescribeGig drafts a gig description from free-form seller notes.
func (s *Service) DescribeGig(ctx context.Context, details string) (string, error) {
	details = strings.TrimSpace(details)
	if details == "" {
		return "", domain.NewValidation("Prompt is required.")
	}
	if utf8.RuneCountInString(details) > MaxDetailsLength {
		return "", domain.NewValidationf("prompt too long (max %d)", MaxDetailsLength)
	}

	res, err := s.completer.Complete(ctx, s.profiles.Describe.Request(describeMessages(details)...))
	if err != nil {
		return "", fmt.Errorf("describe gig: %w", err)
	}
	return strings.TrimSpace(res.Text), nil
}

func validateConversation(conv []domain.Message) error {
	if len(conv) == 0 {
		return domain.NewValidation("Conversation history is required.")
	}
	if len(conv) > MaxConversationMessages {
		return domain.NewValidationf("conversation too long (max %d messages)", MaxConversationMessages)
	}
	for i, m := range conv {
		if !m.Role.Valid() {
			return domain.NewValidationf("message %d: unknown role %q", i, m.Role)
		}
		if strings.TrimSpace(m.Content) == "" {
			return domain.NewValidationf("message %d: content is required", i)
		}
		if utf8.RuneCountInString(m.Content) > MaxMessageLength {
			return domain.NewValidationf("message %d: content too long (max %d)", i, MaxMessageLength)
		}
	}
	return nil
}
