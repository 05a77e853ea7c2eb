package ports

import "context"

// WorkflowOrchestrator runs order placement, durably when a workflow engine
// is configured and inline otherwise. Callers block on the result either way.
type WorkflowOrchestrator interface {
	PlaceOrder(ctx context.Context, memberID int64, items []LineItem) (*OrderSummary, error)
}
