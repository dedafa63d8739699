package domain

import "context"

// Completer is the shared language model contract between layers.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (Completion, error)
}

// HealthChecker verifies language model provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Role is the author of a chat message.
type Role string

const (
	// RoleSystem carries instructions for the model.
	RoleSystem Role = "system"
	// RoleUser carries end-user input.
	RoleUser Role = "user"
	// RoleAssistant carries earlier model replies.
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

// Message is a single chat turn.
type Message struct {
	Role    Role
	Content string
}

// Task names an assistant use case. It labels metrics and cache keys.
type Task string

const (
	// TaskKeywords extracts search keywords from a free-text request.
	TaskKeywords Task = "keywords"
	// TaskChat continues a conversation.
	TaskChat Task = "chat"
	// TaskDescribe drafts a gig description.
	TaskDescribe Task = "describe"
)

// TaskProfile fixes the model parameters used for one task.
type TaskProfile struct {
	Task        Task
	Model       string
	MaxTokens   int
	Temperature float32
	Cacheable   bool
}

// Request builds a completion request for the profile.
func (p TaskProfile) Request(msgs ...Message) CompletionRequest {
	return CompletionRequest{
		Task:        p.Task,
		Model:       p.Model,
		Messages:    msgs,
		MaxTokens:   p.MaxTokens,
		Temperature: p.Temperature,
		Cacheable:   p.Cacheable,
	}
}

// CompletionRequest is one chat completion call travelling through the decorator chain.
type CompletionRequest struct {
	Task        Task
	Model       string
	Messages    []Message
	MaxTokens   int
	Temperature float32
	Cacheable   bool
}

// Completion carries the reply text and token usage through the decorator chain.
type Completion struct {
	Text         string
	PromptTokens int
	TotalTokens  int
	Cached       bool
}
