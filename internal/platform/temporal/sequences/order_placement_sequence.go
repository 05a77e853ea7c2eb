package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	ordersports "github.com/fstore/fstore-api/internal/domains/orders/ports"
	orderactivities "github.com/fstore/fstore-api/internal/platform/temporal/activities/orders"
)

// RunOrderPlacementSequence executes the single activity that places an order.
// Placement decrements stock and is not safe to retry, so the activity runs at
// most once.
func RunOrderPlacementSequence(ctx workflow.Context, command orderactivities.PlaceOrderCommand) (*ordersports.OrderSummary, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("order placement sequence started", "memberId", command.MemberID)
	options := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, options)

	var summary ordersports.OrderSummary
	err := workflow.ExecuteActivity(ctx, orderactivities.PlaceOrderActivityName, command).Get(ctx, &summary)
	if err != nil {
		logger.Error("order placement sequence failed", "memberId", command.MemberID, "error", err)
		return nil, err
	}
	logger.Info("order placement sequence completed", "orderId", summary.Order.ID)
	return &summary, nil
}
