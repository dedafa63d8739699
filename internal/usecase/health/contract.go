package health

import "context"

// Pinger is a storage backend: Postgres or Redis.
type Pinger interface {
	Ping(ctx context.Context) error
}

// AssistantChecker reaches the language model provider.
type AssistantChecker interface {
	HealthCheck(ctx context.Context) error
}
