package orders

import (
	"go.temporal.io/sdk/workflow"

	ordersports "github.com/fstore/fstore-api/internal/domains/orders/ports"
	orderactivities "github.com/fstore/fstore-api/internal/platform/temporal/activities/orders"
	"github.com/fstore/fstore-api/internal/platform/temporal/sequences"
)

const (
	// OrderPlacementWorkflowName is the public identifier for registering the workflow.
	OrderPlacementWorkflowName = "orders.workflows.Placement"
	// OrderPlacementTaskQueue is the queue consumed by the worker processing order workflows.
	OrderPlacementTaskQueue = "ORDER_PLACEMENT"
)

// OrderPlacementWorkflowInput captures the payload required to place an order.
type OrderPlacementWorkflowInput struct {
	Command orderactivities.PlaceOrderCommand
	TraceID string
}

// OrderPlacementWorkflow orchestrates the activities needed to place an order.
func OrderPlacementWorkflow(ctx workflow.Context, input OrderPlacementWorkflowInput) (*ordersports.OrderSummary, error) {
	logger := workflow.GetLogger(ctx)
	memberID := input.Command.MemberID
	logger.Info("OrderPlacementWorkflow started", withTraceID(input.TraceID, "memberId", memberID)...)
	summary, err := sequences.RunOrderPlacementSequence(ctx, input.Command)
	if err != nil {
		logger.Error("OrderPlacementWorkflow failed", withTraceID(input.TraceID, "memberId", memberID, "error", err)...)
		return nil, err
	}
	if summary != nil {
		logger.Info("OrderPlacementWorkflow completed", withTraceID(input.TraceID, "orderId", summary.Order.ID)...)
	} else {
		logger.Info("OrderPlacementWorkflow completed", withTraceID(input.TraceID)...)
	}
	return summary, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
