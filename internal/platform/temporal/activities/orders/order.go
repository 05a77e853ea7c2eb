package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/fstore/fstore-api/internal/domains/orders/application"
	ordersports "github.com/fstore/fstore-api/internal/domains/orders/ports"
)

const (
	// PlaceOrderActivityName reserves stock and persists a new order.
	PlaceOrderActivityName = "orders.activities.PlaceOrder"

	// InvalidOrderInputErrorType tags placement failures caused by the request
	// itself, so callers can tell them apart after the round trip through
	// Temporal strips the error chain.
	InvalidOrderInputErrorType = "InvalidOrderInput"
)

// PlaceOrderCommand is the payload handed to the placement activity.
type PlaceOrderCommand struct {
	MemberID int64
	Items    []ordersports.LineItem
}

// Activities groups activities that operate on the orders bounded context.
type Activities struct {
	service ordersports.Service
}

// NewActivities wires the order service into the Temporal activities bundle.
func NewActivities(service ordersports.Service) *Activities {
	return &Activities{service: service}
}

// PlaceOrder runs the order creation unit of work and returns the summary.
func (a *Activities) PlaceOrder(ctx context.Context, command PlaceOrderCommand) (*ordersports.OrderSummary, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("order placement activity not initialized", "memberId", command.MemberID)
		return nil, errors.New("order placement activity not initialized")
	}
	logger.Info("PlaceOrder activity started", "memberId", command.MemberID, "lines", len(command.Items))
	summary, err := a.service.CreateOrder(ctx, command.MemberID, command.Items)
	if err != nil {
		logger.Error("PlaceOrder activity failed", "memberId", command.MemberID, "error", err)
		if errors.Is(err, application.ErrInvalidInput) {
			return nil, temporal.NewNonRetryableApplicationError(err.Error(), InvalidOrderInputErrorType, err)
		}
		return nil, err
	}
	logger.Info("PlaceOrder activity completed", "orderId", summary.Order.ID)
	return summary, nil
}
