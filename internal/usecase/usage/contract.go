package usage

import domusage "github.com/kailas-cloud/gigmarket/internal/domain/usage"

// BudgetReader exposes the token budget state of the active provider.
type BudgetReader interface {
	Snapshot() domusage.Snapshot
}
