package gigmarket

import "github.com/kailas-cloud/gigmarket/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound               = domain.ErrNotFound
	ErrGigNotFound            = domain.ErrGigNotFound
	ErrUserNotFound           = domain.ErrUserNotFound
	ErrValidation             = domain.ErrValidation
	ErrAssistantQuotaExceeded = domain.ErrAssistantQuotaExceeded
	ErrAssistantProviderError = domain.ErrAssistantProviderError
)
